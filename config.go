package campyros

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

var (
	cfgLoaded = false
	config    = _simconfig{}
)

// _simconfig is a "hidden" struct, just use `simConfig`
type _simconfig struct {
	outputDir string
}

// simConfig returns the simulator configuration. The CAMPYROS_CONFIG environment
// variable may point at a directory holding a conf.toml; without it, output files
// land in the working directory.
func simConfig() _simconfig {
	if cfgLoaded {
		return config
	}
	outputDir := "."
	if confPath := os.Getenv("CAMPYROS_CONFIG"); confPath != "" {
		viper.SetConfigName("conf")
		viper.AddConfigPath(confPath)
		if err := viper.ReadInConfig(); err != nil {
			panic(fmt.Errorf("%s/conf.toml not found", confPath))
		}
		if dir := viper.GetString("general.output_path"); dir != "" {
			outputDir = dir
		}
	}
	cfgLoaded = true
	config = _simconfig{outputDir: outputDir}
	return config
}
