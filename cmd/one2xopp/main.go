// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the one2xopp CLI, which converts
// notebook document dumps into Xournal++ session files.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/one2xopp/internal/ledger"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is configured in PersistentPreRunE from --verbose.
var logger = log.New(os.Stderr)

// rootCmd is the base command for the one2xopp CLI.
var rootCmd = &cobra.Command{
	Use:   "one2xopp",
	Short: "Convert OneNote notebook sections to Xournal++ files",
	Long: `one2xopp renders the pages of parsed OneNote sections as Xournal++
(.xopp) session files. Ink strokes and images are placed on a page that
grows to fit its content; rich text, tables and embedded files are skipped
with a warning.

Settings come from flags, ONE2XOPP_* environment variables and an optional
one2xopp.yaml config file, in that order of precedence.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = newLogger(viper.GetBool("verbose"))
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", "path", used)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./one2xopp.yaml or ~/.config/one2xopp/one2xopp.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().String("ledger", ledger.DefaultPath, "conversion ledger database")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("ledger.path", rootCmd.PersistentFlags().Lookup("ledger"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("one2xopp")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "one2xopp"))
		}
	}

	viper.SetEnvPrefix("ONE2XOPP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Warn("reading config file", "err", err)
		}
	}
}

// newLogger writes timestamped records to stderr at info level, or debug
// when verbose.
func newLogger(verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
