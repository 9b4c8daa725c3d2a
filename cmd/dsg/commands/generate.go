package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/dsg/am"
	"github.com/teranos/dsg/errors"
	"github.com/teranos/dsg/generator"
	"github.com/teranos/dsg/logger"
	"github.com/teranos/dsg/modules"
)

var (
	generateDryRun bool
	generateWatch  bool
	generateOutput string
)

// GenerateCmd represents the generate command
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the service files",
	Long: `Generate the service files described by dsg.toml.

Every stage runs in order: .env, go.mod, docker-compose, message broker,
topics, client options, broker module, broker service and app module.
Enabled plugins hook into each stage. Nothing is written when a stage fails.

Examples:
  dsg generate                  # Write files to output.dir
  dsg generate -o ./build       # Write files to ./build
  dsg generate --dry-run        # List the files without writing
  dsg generate --dry-run -vvv   # Print the generated source
  dsg generate --watch          # Regenerate when dsg.toml or the topics file changes`,
	RunE: runGenerate,
}

func init() {
	GenerateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "Generate in memory and list the files without writing")
	GenerateCmd.Flags().BoolVarP(&generateWatch, "watch", "w", false, "Regenerate when the config changes")
	GenerateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Output directory (default: output.dir)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := generateOnce(ctx, cmd, cfg); err != nil {
		return err
	}
	if !generateWatch {
		return nil
	}

	if cfg.File == "" {
		return errors.WithHint(
			errors.New("--watch needs a config file"),
			"run 'dsg am init' to create "+am.ConfigFileName,
		)
	}

	watcher, err := am.NewConfigWatcher(cfg.File, cfg.TopicsFile())
	if err != nil {
		return err
	}
	defer watcher.Stop()
	am.SetGlobalWatcher(watcher)

	watcher.OnReload(func(next *am.Config) error {
		if err := next.Validate(); err != nil {
			pterm.Error.Println(err.Error())
			return err
		}
		if err := generateOnce(ctx, cmd, next); err != nil {
			pterm.Error.Println(err.Error())
			return err
		}
		return nil
	})
	watcher.Start()

	pterm.Info.Printfln("Watching %s (Ctrl+C to stop)", cfg.File)
	<-ctx.Done()
	return nil
}

// generateOnce runs the pipeline and writes or lists the result
func generateOnce(ctx context.Context, cmd *cobra.Command, cfg *am.Config) error {
	opts, err := buildOptions(ctx, cfg)
	if err != nil {
		return err
	}

	generated, err := generator.Generate(ctx, opts)
	if err != nil {
		return err
	}

	level := verbosity(cmd, cfg)
	if generateDryRun {
		printModules(generated, level)
		return nil
	}

	dir := generateOutput
	if dir == "" {
		dir = cfg.OutputDir()
	}
	n, err := generated.Flush(dir)
	if err != nil {
		return err
	}

	if logger.ShouldOutput(level, logger.OutputProgress) {
		for _, p := range generated.Paths() {
			pterm.Printf("  %s %s\n", pterm.Gray("→"), p)
		}
	}
	pterm.Success.Printfln("Generated %d files in %s", n, dir)
	return nil
}

// printModules lists the generated files, with their source at -vvv
func printModules(generated *modules.Map, level int) {
	for _, m := range generated.Entries() {
		if logger.ShouldOutput(level, logger.OutputSource) {
			fmt.Printf("// %s\n%s\n", m.Path, m.Code)
			continue
		}
		fmt.Println(m.Path)
	}
}
