// Package cmd provides the command-line interface for weaver with
// configuration loading from files, environment variables, and flags.
//
// Configuration precedence, highest first:
//  1. Command-line flags (--port, --config, ...)
//  2. WEAVER_-prefixed environment variables (WEAVER_SERVER_PORT, ...)
//  3. The configuration file (.weaver.yml by default)
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any
// subcommands.
var rootCmd = &cobra.Command{
	Use:   "weaver",
	Short: "A server-side composition server for UI fragments",
	Long: `Weaver composes independently-authored UI fragments into hierarchical
pages, rendering them server-side and preparing them for client-side
hydration. Mounted fragments exchange messages over an in-process bus.

Quick Start:
  weaver serve                    Start the composition server
  weaver list                     List registered components and views
  weaver version                  Print version information`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .weaver.yml, can also use WEAVER_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig wires viper to the config file and WEAVER_ environment
// variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("WEAVER_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".weaver")
	}

	viper.SetEnvPrefix("WEAVER")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
