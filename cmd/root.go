/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

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

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/rotblauer/osmborders/common"
	"github.com/rotblauer/osmborders/params"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var settingsFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "osmborders",
	Short: "Build polygon boundary files from OpenStreetMap relations",
	Long: `osmborders turns administrative boundaries, defined as lists of
OpenStreetMap relation IDs per region, into closed polygon files
for map and routing tools (Osmosis .poly), or GPX tracks for eyeballing.

Regions are read from a borders definition file:

  countries:
    czechia:
      - name: prague
        areasIds: [435514]

Settings come from flags, OSMBORDERS_* environment variables (also read from .env),
or a settings file (--settings, default $HOME/.osmborders.yaml).
`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pFlags := rootCmd.PersistentFlags()
	pFlags.StringVar(&settingsFile, "settings", "", "settings file (default is $HOME/.osmborders.yaml)")
	pFlags.String(params.KeyLogLevel, "info", "Log level: debug, info, warn, error")
	pFlags.String(params.KeyBorders, params.DefaultBordersPath, "Borders definition file (countries, regions, relation IDs)")
	pFlags.String(params.KeyAPIURL, params.DefaultAPIURL, "OSM API v0.6 base URL")
	pFlags.Duration(params.KeyTimeout, params.DefaultTimeout, "HTTP timeout per relation request")
	pFlags.Uint(params.KeyRetries, 0, "Extra attempts for a failed relation download (0 never retries)")
	pFlags.Int(params.KeyCacheSize, params.DefaultCacheSize, "In-memory relation cache size (entries)")
	pFlags.String(params.KeyCacheDB, "", "Relation cache database file; empty disables the on-disk cache")
	pFlags.Duration(params.KeyCacheMaxAge, params.DefaultCacheMaxAge, "Max age of on-disk cached relations (0 keeps forever)")

	if err := viper.BindPFlags(pFlags); err != nil {
		panic(err)
	}
}

// initConfig reads in .env, the settings file and ENV variables if set.
func initConfig() {
	// A missing .env is fine.
	_ = godotenv.Load()

	if settingsFile != "" {
		viper.SetConfigFile(expandPath(settingsFile))
	} else {
		home, err := homedir.Dir()
		cobra.CheckErr(err)
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".osmborders")
	}

	viper.SetEnvPrefix("OSMBORDERS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using settings file:", viper.ConfigFileUsed())
	} else if settingsFile != "" {
		cobra.CheckErr(err)
	}
}

// bindFlags binds the running command's local flags to settings.
// Commands share setting keys, so binding happens per run rather than in init.
func bindFlags(cmd *cobra.Command, args []string) error {
	return viper.BindPFlags(cmd.Flags())
}

// setDefaultSlog installs the default logger at the configured level.
func setDefaultSlog(cmd *cobra.Command, args []string) {
	level, err := common.ParseSlogLevel(viper.GetString(params.KeyLogLevel))
	if err != nil {
		slog.Warn("Invalid log level, using info", "error", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
		With("cmd", cmd.Name()))
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(p string) string {
	expanded, err := homedir.Expand(p)
	if err != nil {
		return p
	}
	return expanded
}
