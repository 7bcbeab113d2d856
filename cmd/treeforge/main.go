// Command treeforge grows decision trees from CSV or .npy data and inspects
// the split search at the root node.
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ezoic/treeforge/pkg/log"
)

type rootCmdConfig struct {
	configFile string
	verbose    bool
	logLevel   string
	v          *viper.Viper
	ctx        context.Context
}

func main() {
	if err := cliParser().Execute(); err != nil {
		log.LogError(err, "treeforge failed")
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	config := &rootCmdConfig{v: viper.New(), ctx: context.Background()}
	rootCmd := &cobra.Command{
		Use:   "treeforge",
		Short: "treeforge grows decision trees",
		Long: `A tool to grow classification and regression trees from tabular data,
inspect the best split of every column and use grown trees for prediction`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.init()
		},
	}
	rootCmd.PersistentFlags().StringVar(&config.configFile, "config", "", "path to a YAML file with tree and data settings")
	rootCmd.PersistentFlags().BoolVarP(&config.verbose, "verbose", "v", false, "log progress (same as --log-level debug)")
	rootCmd.PersistentFlags().StringVar(&config.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	rootCmd.AddCommand(versionCmd(), splitCmd(config), growCmd(config), predictCmd(config))
	return rootCmd
}

func (rc *rootCmdConfig) init() error {
	level := rc.logLevel
	if rc.verbose {
		level = "debug"
	}
	log.SetupLogger(level)
	return loadSettings(rc.v, rc.configFile)
}

// Logf writes a progress line when verbose output is on.
func (rc *rootCmdConfig) Logf(format string, args ...interface{}) {
	log.GetLogger().Debug().Msgf(format, args...)
}
