package main

import (
	"fmt"
	"os"

	"github.com/fentz26/fade/internal/config"
	"github.com/fentz26/fade/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fade",
	Short: "fade - todos that vanish",
	Long: `fade keeps a short list of todos that disappear on their own: completed items
fade out after a moment, and anything left undone expires after half an hour.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
	// Without a subcommand fade opens the interactive list.
	RunE: runTUI,
}

var (
	configPath string
	logLevel   string
	logFile    string

	// cfg is the effective configuration, set by loadSettings.
	cfg *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Path to config file (.yaml or .toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write TUI logs to this file (overrides log.file)")

	// Add subcommands
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(arcCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}

// loadSettings reads the config file and applies flag overrides.
func loadSettings(cmd *cobra.Command, args []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		if _, err := logging.ParseLevel(logLevel); err != nil {
			return err
		}
		c.Log.Level = logLevel
	}
	if logFile != "" {
		c.Log.File = logFile
	}
	cfg = c
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
