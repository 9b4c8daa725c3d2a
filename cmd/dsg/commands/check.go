package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/dsg/errors"
	"github.com/teranos/dsg/generator"
)

var checkOutput string

// CheckCmd represents the check command
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Report generated files that are out of date",
	Long: `Generate in memory and compare the result with the files on disk.

Exits non-zero when a file is missing or differs, e.g. in CI after dsg.toml
or the topics file changed without regenerating.`,
	RunE: runCheck,
}

func init() {
	CheckCmd.Flags().StringVarP(&checkOutput, "output", "o", "", "Output directory (default: output.dir)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := buildOptions(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	dir := checkOutput
	if dir == "" {
		dir = cfg.OutputDir()
	}

	diffs, err := generator.Check(cmd.Context(), opts, dir)
	if err != nil {
		return err
	}
	if len(diffs) == 0 {
		pterm.Success.Printfln("Generated files in %s are up to date", dir)
		return nil
	}

	for _, d := range diffs {
		pterm.Printf("  %s %s %s\n", pterm.Red("✗"), d.Path, pterm.Gray("("+d.Reason+")"))
	}
	return errors.WithHint(
		errors.Newf("%d generated files are out of date", len(diffs)),
		"run 'dsg generate' to update them",
	)
}
