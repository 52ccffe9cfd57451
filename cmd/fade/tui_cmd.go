package main

import (
	"fmt"

	"github.com/fentz26/fade/internal/logging"
	"github.com/fentz26/fade/internal/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive todo list",
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	// The terminal belongs to the UI, so logs go to a file or nowhere.
	logger := logging.Discard()
	if cfg.Log.File != "" {
		level, _ := logging.ParseLevel(cfg.Log.Level)
		fileLogger, closer, err := logging.OpenFile(cfg.Log.File, level)
		if err != nil {
			return err
		}
		defer closer.Close()
		logger = fileLogger
	}

	c, err := build(cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	app := tui.New(c.todos, c.sweeper, cfg.Todo.TickInterval.Duration, logger)
	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
