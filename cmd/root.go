// Package cmd holds the padchat command line: the backend server and the
// terminal chat client.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/RichardoC/padchat/internal/config"
	"github.com/RichardoC/padchat/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "padchat",
	Short: "A small multi-conversation LLM chat",
	Long: `padchat keeps a list of chat conversations with per-conversation model,
system prompt and temperature settings. "padchat serve" runs the backend,
"padchat chat" connects to it from the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "padchat: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default ./padchat.yaml or $HOME/.config/padchat/padchat.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("dev", false, "human-readable development logging")

	rootCmd.AddCommand(serveCmd, chatCmd)
}

// setup loads configuration for cmd, binding its flags over file and
// environment values, and builds the logger.
func setup(cmd *cobra.Command, binds map[string]string) (*config.Config, *zap.Logger, error) {
	v := viper.New()
	binds["log.level"] = "log-level"
	binds["log.development"] = "dev"
	for key, flag := range binds {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return nil, nil, fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}

	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(v, configFile)
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, nil, err
	}
	if used := v.ConfigFileUsed(); used != "" {
		logger.Debug("Loaded config file", zap.String("path", used))
	}
	return cfg, logger, nil
}
