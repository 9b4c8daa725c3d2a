package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/dsg/am"
	"github.com/teranos/dsg/cmd/dsg/commands"
	"github.com/teranos/dsg/errors"
	"github.com/teranos/dsg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "dsg",
	Short: "dsg - staged code generator for message broker services",
	Long: `dsg - staged code generator for message broker services.

dsg generates the server of a service from dsg.toml: its .env, go.mod and
dev docker-compose files, the message broker package and the app module.
Plugins hook into each generation stage; the kafka plugin synthesizes a
controller with one handler per received topic.

Available commands:
  generate - Generate the service files
  check    - Report generated files that are out of date
  am       - Manage dsg configuration ("I am")
  plugins  - List available plugins
  version  - Show version information

Examples:
  dsg am init --name "Order Service" --module example.com/orders
  dsg generate                 # Write files to output.dir
  dsg generate --dry-run -vvv  # Print the generated source
  dsg generate --watch         # Regenerate when dsg.toml changes
  dsg check                    # Fail when generated files are stale`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath, _ := cmd.Flags().GetString("config"); configPath != "" {
			am.UseFile(configPath)
		}

		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.Initialize(jsonLogs); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		verbosity, _ := cmd.Flags().GetCount("verbose")
		logger.SetVerbosity(verbosity)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().String("config", "", "Config file (default: dsg.toml found from the working directory upwards)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Write logs as JSON")

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.PluginsCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err.Error())
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "  %s %s\n", pterm.Gray("hint:"), hint)
		}
		os.Exit(1)
	}
}
