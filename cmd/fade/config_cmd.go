package main

import (
	"fmt"
	"os"

	"github.com/fentz26/fade/internal/config"
	"github.com/spf13/cobra"
)

var (
	configForce bool
	configTOML  bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the fade config file",
	// init must work even when the existing file does not parse.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configInitCmd, configShowCmd)

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")
	configShowCmd.Flags().BoolVar(&configTOML, "toml", false, "Print as TOML instead of YAML")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(configPath); err == nil && !configForce {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", configPath)
	}
	if err := config.Save(configPath, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", configPath)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if err := loadSettings(cmd, args); err != nil {
		return err
	}
	data, err := config.Encode(cfg, configTOML)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", configPath)
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
