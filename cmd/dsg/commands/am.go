package commands

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/dsg/am"
	"github.com/teranos/dsg/display"
	"github.com/teranos/dsg/errors"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Manage dsg configuration",
	Long: `am - Manage dsg configuration ("I am")

Configuration sources (in order of precedence):
1. Environment variables (DSG_* prefix, e.g. DSG_OUTPUT_PORT)
2. Project config (--config, or ./dsg.toml searched up directories)
3. Default values

Examples:
  dsg am init --name "Order Service" --module example.com/orders
  dsg am show                    # Show current configuration
  dsg am show --format yaml      # Show configuration in YAML format
  dsg am validate                # Validate current configuration
  dsg am where                   # Show which file is loaded`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the effective dsg configuration from all sources",
	RunE:  runAmShow,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	RunE:  runAmValidate,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	RunE:  runAmWhere,
}

var amInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter dsg.toml",
	Long: `Write a starter dsg.toml in the working directory with the kafka plugin
enabled and one example service. An existing file is only replaced with
--force; the previous version is kept as dsg.toml.back1.`,
	RunE: runAmInit,
}

var (
	configFormat string
	initName     string
	initModule   string
	initForce    bool
)

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")

	amInitCmd.Flags().StringVar(&initName, "name", "", "Service name, e.g. \"Order Service\"")
	amInitCmd.Flags().StringVar(&initModule, "module", "", "Go module path of the generated service")
	amInitCmd.Flags().BoolVar(&initForce, "force", false, "Replace an existing dsg.toml")
	amInitCmd.MarkFlagRequired("name")
	amInitCmd.MarkFlagRequired("module")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amWhereCmd)
	AmCmd.AddCommand(amInitCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	format, err := display.ParseFormat(configFormat)
	if err != nil {
		return err
	}
	return display.Output(cfg, format, "dsg configuration")
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if _, err := cfg.ServiceTopics(); err != nil {
		return errors.Wrap(err, "failed to read topics")
	}

	pterm.Success.Println("Configuration is valid")
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	fmt.Println("Configuration cascade (later overrides earlier):")
	fmt.Println("  1. [DEFAULT]  Built-in defaults")
	fmt.Println("  2. [PROJECT]  ./" + am.ConfigFileName + " (searches up directories) or --config")
	fmt.Println("  3. [ENV]      DSG_* environment variables")
	fmt.Println()

	if cfg.File == "" {
		fmt.Println("No config file found; defaults and environment only")
	} else {
		fmt.Printf("Config file: %s\n", cfg.File)
	}
	if topics := cfg.TopicsFile(); topics != "" {
		fmt.Printf("Topics file: %s\n", topics)
	}
	fmt.Printf("Output dir:  %s\n", cfg.OutputDir())
	return nil
}

func runAmInit(cmd *cobra.Command, args []string) error {
	configPath := am.ConfigFileName
	if _, err := os.Stat(configPath); err == nil && !initForce {
		return errors.WithHint(
			errors.Mark(errors.Newf("%s already exists", configPath), errors.ErrConflict),
			"use --force to replace it",
		)
	}

	cfg := am.Starter(initName, initModule)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := am.Save(configPath, cfg); err != nil {
		return err
	}

	pterm.Success.Printfln("Wrote %s", configPath)
	return nil
}
