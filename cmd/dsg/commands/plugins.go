package commands

import (
	"slices"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/dsg/am"
)

// PluginsCmd lists the built-in plugins
var PluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List available plugins",
	Long: `List the built-in generator plugins and whether dsg.toml enables them.

Enable plugins with:
  [plugin]
  enabled = ["kafka"]`,
	RunE: runPlugins,
}

func runPlugins(cmd *cobra.Command, args []string) error {
	registry, err := NewRegistry()
	if err != nil {
		return err
	}

	var enabled []string
	if cfg, err := am.Load(); err == nil {
		enabled = cfg.Plugin.Enabled
	}

	rows := pterm.TableData{{"NAME", "VERSION", "REQUIRES", "ENABLED", "DESCRIPTION"}}
	for _, name := range registry.List() {
		p, _ := registry.Get(name)
		meta := p.Metadata()
		status := "no"
		if slices.Contains(enabled, name) {
			status = "yes"
		}
		rows = append(rows, []string{meta.Name, meta.Version, meta.GeneratorVersion, status, meta.Description})
	}

	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}
