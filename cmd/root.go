/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	cfgKeyLogLevel = "log-level"
	cfgKeyProfile  = "profile"
	cfgKeyFormat   = "format"
	cfgKeyDB       = "db"
	cfgKeyWorkers  = "workers"
)

var (
	cfgFile string
	// stopper of an active profile, nil when profiling is off
	profiler interface{ Stop() }
)

var rootCmd = &cobra.Command{
	Use:   "morquest",
	Short: "Long term sediment budget of a tidal estuary",
	Long: `
Integrates the yearly sediment budget of an estuary (channel, intertidal flat,
shoreface, ebb delta and offshore sink) under sea level rise and river supply.

morquest run -I estuary.yaml -o results.csv --format csv`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if profiler != nil {
			profiler.Stop()
			profiler = nil
		}
	},
}

// Execute runs the root command, exiting non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.morquest.yaml)")
	rootCmd.PersistentFlags().String(cfgKeyLogLevel, "info", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String(cfgKeyProfile, "", "write a cpu or mem profile to the working directory")
	for _, key := range []string{cfgKeyLogLevel, cfgKeyProfile} {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".morquest")
	}
	viper.SetEnvPrefix("MORQUEST")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("using config file", "file", viper.ConfigFileUsed())
	}
}

func setup(cmd *cobra.Command, args []string) (err error) {
	var level slog.Level
	if err = level.UnmarshalText([]byte(viper.GetString(cfgKeyLogLevel))); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	})))
	switch p := viper.GetString(cfgKeyProfile); p {
	case "":
	case "cpu":
		profiler = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet, profile.NoShutdownHook)
	case "mem":
		profiler = profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet, profile.NoShutdownHook)
	default:
		return fmt.Errorf("unsupported profile %q, use cpu or mem", p)
	}
	return
}

// bindFlags ties the running command's flags to viper so that the config
// file and MORQUEST_* variables supply their defaults. Subcommands share keys,
// so binding happens when a command runs.
func bindFlags(cmd *cobra.Command, keys ...string) {
	for _, key := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(key)); err != nil {
			panic(err)
		}
	}
}
