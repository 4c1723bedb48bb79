package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 食譜來源
const (
	SourceMealDB = "mealdb"
	SourceCorpus = "corpus"
)

// Config 應用配置
type Config struct {
	App         AppConfig        `mapstructure:"app"`
	Server      ServerConfig     `mapstructure:"server"`
	Source      string           `mapstructure:"source"` // mealdb | corpus
	MealDB      MealDBConfig     `mapstructure:"mealdb"`
	Corpus      CorpusConfig     `mapstructure:"corpus"`
	Cache       CacheConfig      `mapstructure:"cache"`
	Search      SearchConfig     `mapstructure:"search"`
	Vocabulary  VocabularyConfig `mapstructure:"vocabulary"`
	Favorites   FavoritesConfig  `mapstructure:"favorites"`
	RateLimit   RateLimitConfig  `mapstructure:"rate_limit"`
	DedupWindow time.Duration    `mapstructure:"dedup_window"`
	LogLevel    string           `mapstructure:"log_level"`
	LogFile     string           `mapstructure:"log_file"`
	LogMode     string           `mapstructure:"log_mode"` // concise 時只輸出關鍵訊息
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

// MealDBConfig 食譜來源 API 設定
type MealDBConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	UserAgent       string        `mapstructure:"user_agent"`
	Timeout         time.Duration `mapstructure:"timeout"`
	RatePerSecond   float64       `mapstructure:"rate_per_second"`
	Burst           int           `mapstructure:"burst"`
	BreakerFailures uint32        `mapstructure:"breaker_failures"`
	BreakerTimeout  time.Duration `mapstructure:"breaker_timeout"`
}

// CorpusConfig 本地食譜庫設定
type CorpusConfig struct {
	File      string        `mapstructure:"file"`
	URLFilter string        `mapstructure:"url_filter"` // 只匯入網址包含此字串的頁面，空白表示不限制
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Backend         string        `mapstructure:"backend"` // memory | redis
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	Redis           RedisConfig   `mapstructure:"redis"`
}

// RedisConfig Redis 連線設定
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// SearchConfig 搜尋與匹配設定
type SearchConfig struct {
	Workers       int     `mapstructure:"workers"`
	MaxCandidates int     `mapstructure:"max_candidates"`
	ResultLimit   int     `mapstructure:"result_limit"`
	MissingLimit  int     `mapstructure:"missing_limit"`
	RejectInvalid bool    `mapstructure:"reject_invalid"`
	Lemmatizer    string  `mapstructure:"lemmatizer"`
	AcceptCutoff  float64 `mapstructure:"accept_cutoff"`
	SuggestCutoff float64 `mapstructure:"suggest_cutoff"`
	TablesFile    string  `mapstructure:"tables_file"`
}

// VocabularyConfig 食材詞彙表來源；File 為空時從食譜 API 下載
type VocabularyConfig struct {
	File string `mapstructure:"file"`
}

// FavoritesConfig 收藏檔案位置
type FavoritesConfig struct {
	File string `mapstructure:"file"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 從目前目錄的 .env 與環境變數載入設定
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(".env")
}

// LoadConfigFrom 從指定的 env 檔與環境變數載入設定；檔案不存在時只用環境變數與預設值
func LoadConfigFrom(envFile string) (*Config, error) {
	// 加載 .env 文件（可選）
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	v := viper.New()

	// 設定預設值
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	_ = v.BindEnv("mealdb.base_url", "MEALDB_BASE_URL")
	_ = v.BindEnv("mealdb.timeout", "MEALDB_TIMEOUT")
	_ = v.BindEnv("source", "RECIPE_SOURCE")
	_ = v.BindEnv("corpus.file", "CORPUS_FILE")
	_ = v.BindEnv("cache.enabled", "CACHE_ENABLED")
	_ = v.BindEnv("cache.backend", "CACHE_BACKEND")
	_ = v.BindEnv("cache.redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("cache.redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("search.lemmatizer", "LEMMATIZER")
	_ = v.BindEnv("vocabulary.file", "VOCABULARY_FILE")
	_ = v.BindEnv("favorites.file", "FAVORITES_FILE")
	_ = v.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	_ = v.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	_ = v.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	_ = v.BindEnv("dedup_window", "DEDUP_WINDOW")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("log_file", "LOG_FILE")
	_ = v.BindEnv("log_mode", "LOG_MODE")
	_ = v.BindEnv("server.port", "PORT")

	// 解析設定
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// MaskSecret 遮罩密碼，只顯示前後各 2 個字符
func MaskSecret(s string) string {
	if len(s) <= 6 {
		return "****"
	}
	return s[:2] + "..." + s[len(s)-2:]
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "leftover-chef")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.max_body_bytes", 1<<20)

	// 食譜 API 設定
	v.SetDefault("mealdb.base_url", "https://www.themealdb.com/api/json/v1/1")
	v.SetDefault("mealdb.user_agent", "LeftoverChef/1.0")
	v.SetDefault("mealdb.timeout", "20s")
	v.SetDefault("mealdb.rate_per_second", 10)
	v.SetDefault("mealdb.burst", 10)
	v.SetDefault("mealdb.breaker_failures", 5)
	v.SetDefault("mealdb.breaker_timeout", "30s")

	// 本地食譜庫設定
	v.SetDefault("source", SourceMealDB)
	v.SetDefault("corpus.file", "data/recipes.json")
	v.SetDefault("corpus.url_filter", "allrecipes.com/recipe/")
	v.SetDefault("corpus.user_agent", "Mozilla/5.0")
	v.SetDefault("corpus.timeout", "20s")

	// 快取設定
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.max_size", 5000)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_interval", "10m")
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.prefix", "leftover-chef:")

	// 搜尋設定
	v.SetDefault("search.workers", 8)
	v.SetDefault("search.max_candidates", 50)
	v.SetDefault("search.result_limit", 10)
	v.SetDefault("search.missing_limit", 5)
	v.SetDefault("search.reject_invalid", false)
	v.SetDefault("search.lemmatizer", "auto")
	v.SetDefault("search.accept_cutoff", 0.86)
	v.SetDefault("search.suggest_cutoff", 0.60)
	v.SetDefault("search.tables_file", "")

	v.SetDefault("vocabulary.file", "")

	v.SetDefault("favorites.file", "data/favorites.json")

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("dedup_window", "1s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("log_mode", "")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", config.Server.Port)
	}

	switch config.Source {
	case SourceMealDB:
	case SourceCorpus:
		if config.Corpus.File == "" {
			return fmt.Errorf("corpus file is required when source is corpus")
		}
	default:
		return fmt.Errorf("unknown recipe source %q", config.Source)
	}

	if config.MealDB.BaseURL == "" {
		return fmt.Errorf("mealdb base url is required")
	}
	if config.MealDB.Timeout <= 0 {
		return fmt.Errorf("invalid mealdb timeout")
	}

	// 驗證快取設定
	if config.Cache.Enabled {
		switch config.Cache.Backend {
		case "memory":
			if config.Cache.MaxSize <= 0 {
				return fmt.Errorf("invalid cache max size")
			}
			if config.Cache.CleanupInterval <= 0 {
				return fmt.Errorf("invalid cache cleanup interval")
			}
		case "redis":
			if config.Cache.Redis.Addr == "" {
				return fmt.Errorf("redis address is required")
			}
		default:
			return fmt.Errorf("unknown cache backend %q", config.Cache.Backend)
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
	}

	// 驗證搜尋設定
	if config.Search.Workers <= 0 {
		return fmt.Errorf("invalid search workers")
	}
	if config.Search.MaxCandidates <= 0 {
		return fmt.Errorf("invalid search max candidates")
	}
	if config.Search.ResultLimit <= 0 {
		return fmt.Errorf("invalid search result limit")
	}
	if config.Search.MissingLimit < 0 {
		return fmt.Errorf("invalid search missing limit")
	}
	if config.Search.AcceptCutoff <= 0 || config.Search.AcceptCutoff > 1 ||
		config.Search.SuggestCutoff <= 0 || config.Search.SuggestCutoff > config.Search.AcceptCutoff {
		return fmt.Errorf("invalid similarity cutoffs %.2f/%.2f", config.Search.AcceptCutoff, config.Search.SuggestCutoff)
	}
	switch config.Search.Lemmatizer {
	case "auto", "linguistic", "suffix":
	default:
		return fmt.Errorf("unknown lemmatizer %q", config.Search.Lemmatizer)
	}

	if config.RateLimit.Enabled && (config.RateLimit.Requests <= 0 || config.RateLimit.Window <= 0) {
		return fmt.Errorf("invalid rate limit")
	}

	return nil
}
