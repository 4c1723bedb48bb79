package matching

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/kljensen/snowball"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// 詞形還原模式
const (
	LemmatizerAuto       = "auto"
	LemmatizerLinguistic = "linguistic"
	LemmatizerSuffix     = "suffix"
)

// Lemmatizer 斷詞與詞形還原的能力介面，程序啟動時選定一種實作
type Lemmatizer interface {
	// Name 返回實作名稱（用於日誌）
	Name() string
	// Tokenize 將一個食材名稱拆成小寫單字
	Tokenize(phrase string) []string
	// Lemmatize 將單字還原為單數/原形
	Lemmatize(word string) string
}

// foldAccents 去除變音符號並轉小寫（jalapeño -> jalapeno）
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(folded)
}

// Singularize 後綴規則單數化，依序套用，第一個符合的規則生效
func Singularize(word string) string {
	switch {
	case strings.HasSuffix(word, "ies") && len(word) > 3:
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(word, "es") && len(word) > 2:
		return word[:len(word)-2]
	case strings.HasSuffix(word, "s") && len(word) > 1:
		return word[:len(word)-1]
	default:
		return word
	}
}

// SuffixLemmatizer 規則式後備實作
type SuffixLemmatizer struct{}

// NewSuffixLemmatizer 創建後綴規則詞形還原器
func NewSuffixLemmatizer() *SuffixLemmatizer {
	return &SuffixLemmatizer{}
}

// Name 實作名稱
func (SuffixLemmatizer) Name() string { return LemmatizerSuffix }

// Tokenize 以空白斷詞
func (SuffixLemmatizer) Tokenize(phrase string) []string {
	return strings.Fields(foldAccents(phrase))
}

// Lemmatize 套用後綴規則
func (SuffixLemmatizer) Lemmatize(word string) string {
	return Singularize(word)
}

var wordPattern = regexp.MustCompile(`[a-z0-9]+(?:['-][a-z0-9]+)*`)

var (
	dictOnce sync.Once
	dict     *golem.Lemmatizer
	dictErr  error
)

// englishDictionary 載入英文詞形字典，整個程序只載入一次
func englishDictionary() (*golem.Lemmatizer, error) {
	dictOnce.Do(func() {
		dict, dictErr = golem.New(en.New())
	})
	return dict, dictErr
}

// LinguisticLemmatizer 以英文詞形字典還原單字；字典不認得的單字再以
// Snowball 詞幹對應回詞彙表與表格中的原形
type LinguisticLemmatizer struct {
	dict   *golem.Lemmatizer
	lemmas map[string]string // stem -> 最短的原形
}

// NewLinguisticLemmatizer 載入字典並由詞彙表與同義詞/飲食表格建立詞幹索引
func NewLinguisticLemmatizer(vocab *Vocabulary, tables *Tables) (*LinguisticLemmatizer, error) {
	d, err := englishDictionary()
	if err != nil {
		return nil, fmt.Errorf("english lemma dictionary unavailable: %w", err)
	}
	if _, err := snowball.Stem("ingredients", "english", false); err != nil {
		return nil, fmt.Errorf("snowball stemmer unavailable: %w", err)
	}

	l := &LinguisticLemmatizer{dict: d, lemmas: make(map[string]string)}
	if vocab != nil {
		l.index(vocab.Terms())
	}
	if tables != nil {
		for canonical, equivalents := range tables.Synonyms {
			l.index([]string{canonical})
			l.index(equivalents)
		}
		l.index(tables.Meat)
		l.index(tables.Dairy)
		l.index(tables.Egg)
		l.index(tables.Gluten)
	}
	return l, nil
}

func (l *LinguisticLemmatizer) index(terms []string) {
	for _, term := range terms {
		for _, w := range l.Tokenize(term) {
			lemma := l.dict.Lemma(w)
			stem := stemWord(w)
			cur, ok := l.lemmas[stem]
			if !ok || len(lemma) < len(cur) || (len(lemma) == len(cur) && lemma < cur) {
				l.lemmas[stem] = lemma
			}
		}
	}
}

// Name 實作名稱
func (l *LinguisticLemmatizer) Name() string { return LemmatizerLinguistic }

// Tokenize 擷取字母數字單字，保留連字號與撇號
func (l *LinguisticLemmatizer) Tokenize(phrase string) []string {
	return wordPattern.FindAllString(foldAccents(phrase), -1)
}

// Lemmatize 先查字典；字典沒有變化時以詞幹索引對應，兩者都沒有則原樣返回
func (l *LinguisticLemmatizer) Lemmatize(word string) string {
	if lemma := l.dict.Lemma(word); lemma != "" && lemma != word {
		return lemma
	}
	if lemma, ok := l.lemmas[stemWord(word)]; ok {
		return lemma
	}
	return word
}

// stemWord 對單字取詞幹，失敗時返回原字
func stemWord(w string) string {
	stem, err := snowball.Stem(w, "english", false)
	if err != nil || stem == "" {
		return w
	}
	return stem
}

// SelectLemmatizer 依設定選擇實作；auto 在字典可載入時使用 linguistic
func SelectLemmatizer(mode string, vocab *Vocabulary, tables *Tables) (Lemmatizer, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", LemmatizerAuto:
		l, err := NewLinguisticLemmatizer(vocab, tables)
		if err != nil {
			return NewSuffixLemmatizer(), nil
		}
		return l, nil
	case LemmatizerLinguistic:
		return NewLinguisticLemmatizer(vocab, tables)
	case LemmatizerSuffix:
		return NewSuffixLemmatizer(), nil
	default:
		return nil, fmt.Errorf("unknown lemmatizer mode %q", mode)
	}
}
