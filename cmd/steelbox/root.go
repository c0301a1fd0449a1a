package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "steelbox",
	Short: "Tab/slot joinery planner for laser-cut steel tube frames",
	Long: "Steelbox plans tab-and-slot joinery for rectangular tube steel frames:\n" +
		"joint detection, tolerance-driven tab/slot generation, interference\n" +
		"checks, end-cap notch reservation, and cut list reporting.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .steelbox.yaml)")
	rootCmd.PersistentFlags().String("profiles", "", "tube profile library directory")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".steelbox")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("STEELBOX")
	viper.AutomaticEnv()

	// It's fine if no config file is found; flags and defaults apply.
	_ = viper.ReadInConfig()
}

// newLogger builds the CLI logger. Verbose selects the human-readable
// development encoder at debug level.
func newLogger() (*zap.Logger, error) {
	verbose, _ := rootCmd.Flags().GetBool("verbose")
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
