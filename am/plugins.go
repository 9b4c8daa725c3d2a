package am

import (
	"github.com/spf13/viper"

	"github.com/teranos/dsg/plugin"
)

// PluginConfigProvider serves each plugin its [plugin.<name>] table. A
// plugin without a table gets no config and keeps its defaults.
func PluginConfigProvider(v *viper.Viper) plugin.ConfigProvider {
	return plugin.ConfigProviderFunc(func(name string) plugin.Config {
		if v == nil {
			return nil
		}
		sub := v.Sub("plugin." + name)
		if sub == nil {
			return nil
		}
		return sub
	})
}
