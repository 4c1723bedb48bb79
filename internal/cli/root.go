// Package cli 實作 chef 命令列工具
package cli

import (
	"fmt"

	"leftover-chef/internal/infrastructure/config"
	"leftover-chef/internal/pkg/common"

	"github.com/spf13/cobra"
)

// 只輸出警告以上日誌的子命令，避免干擾終端輸出
const annotationQuiet = "quiet"

// options 所有子命令共用的狀態
type options struct {
	envFile    string
	logLevel   string
	loadConfig func(envFile string) (*config.Config, error)
	cfg        *config.Config
}

// NewRootCmd 創建根命令
func NewRootCmd() *cobra.Command {
	return newRootCmd(config.LoadConfigFrom)
}

func newRootCmd(load func(string) (*config.Config, error)) *cobra.Command {
	opts := &options{loadConfig: load}

	cmd := &cobra.Command{
		Use:   "chef",
		Short: "Find recipes for the ingredients you already have",
		Long: `Leftover Chef matches the ingredients in your kitchen against TheMealDB.

Ingredients are validated against a known vocabulary (typos are corrected or
suggested), recipes that use all of them are preferred, and every hit shows what
matched and what is still missing.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(opts.envFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			level := cfg.LogLevel
			if cmd.Annotations[annotationQuiet] == "true" {
				level = "warn"
			}
			if opts.logLevel != "" {
				level = opts.logLevel
			}
			if err := common.InitLogger(level, cfg.LogFile, cfg.LogMode); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			opts.cfg = cfg
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			common.Sync()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Optional .env file with APP_* settings")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newSearchCmd(opts))
	cmd.AddCommand(newInteractiveCmd(opts))
	cmd.AddCommand(newFavoritesCmd(opts))
	cmd.AddCommand(newCorpusCmd(opts))

	return cmd
}
