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
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotblauer/osmborders/api"
	"github.com/rotblauer/osmborders/formats"
	"github.com/rotblauer/osmborders/osmapi"
	"github.com/rotblauer/osmborders/params"
	"github.com/rotblauer/osmborders/state"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Write a boundary file for every configured region",
	Long: `Build fetches each region's relations from the OSM API, chains their member ways
into closed rings, and writes one file per region: <out>/<country>_<region>.<format>.

A region fails when its ways don't chain into rings (the error names the way where
the chain broke and the ways left over), when a relation can't be fetched, or when
its payload is missing ways or nodes. The first failure stops the build;
files for regions already done are kept, and nothing is written for the failed one.

By default the last chain of a region is written even if it never closed;
--strict makes that an error too.

Examples:

  osmborders build --borders data/osm-borders.yml --out data/poly
  osmborders build --format gpx --country czechia --cache-db ~/.cache/osmborders.db
`,
	PreRunE: bindFlags,
	RunE: func(cmd *cobra.Command, args []string) error {
		setDefaultSlog(cmd, args)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		borders, err := params.LoadBorders(expandPath(viper.GetString(params.KeyBorders)))
		if err != nil {
			return err
		}
		countries, err := borders.Countries.Filter(viper.GetStringSlice(params.KeyCountry)...)
		if err != nil {
			return err
		}
		format, err := formats.ParseFormat(viper.GetString(params.KeyFormat))
		if err != nil {
			return err
		}

		client, closeClient, err := newClient()
		if err != nil {
			return err
		}
		defer closeClient()

		builder, err := api.NewBuilder(api.Config{
			OutDir:  expandPath(viper.GetString(params.KeyOut)),
			Format:  format,
			Strict:  viper.GetBool(params.KeyStrict),
			Workers: viper.GetInt(params.KeyWorkers),
		}, client)
		if err != nil {
			return err
		}
		builder.WithLogger(slog.With("api", "builder"))

		for _, c := range countries {
			slog.Info("Country", "name", c.Name, "regions", len(c.Regions))
		}
		if err := builder.Build(ctx, api.Regions(countries)); err != nil {
			slog.Error("Build failed", "error", err)
			return err
		}
		slog.Info("Done!")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)

	flags := buildCmd.Flags()
	flags.String(params.KeyOut, params.DefaultOutDir, "Output directory")
	flags.String(params.KeyFormat, params.DefaultFormat, "Output format: poly, gpx or geojson")
	flags.StringSlice(params.KeyCountry, nil, "Only build these countries (repeatable)")
	flags.Int(params.KeyWorkers, params.DefaultWorkers, "Regions to build in parallel")
	flags.Bool(params.KeyStrict, false, "Fail a region whose last chain does not close")
}

// newClient configures the OSM API client and its caches from settings.
// Call it after setDefaultSlog so the client logs through the command's handler.
// The returned func closes the on-disk cache, if any.
func newClient() (*osmapi.Client, func() error, error) {
	client := osmapi.NewClient().WithLogger(slog.With("osmapi", "client"))
	client.BaseURL = viper.GetString(params.KeyAPIURL)
	client.HTTPClient = &http.Client{Timeout: viper.GetDuration(params.KeyTimeout)}
	client.Retries = viper.GetUint(params.KeyRetries)

	noop := func() error { return nil }
	mem, err := osmapi.NewMemoryCache(viper.GetInt(params.KeyCacheSize))
	if err != nil {
		return nil, noop, err
	}
	dbPath := viper.GetString(params.KeyCacheDB)
	if dbPath == "" {
		client.Cache = mem
		return client, noop, nil
	}
	store, err := state.OpenRelationStore(expandPath(dbPath), viper.GetDuration(params.KeyCacheMaxAge))
	if err != nil {
		return nil, noop, err
	}
	if n, err := store.Len(); err == nil {
		slog.Info("Opened relation cache", "path", store.DB.Path(), "entries", n)
	}
	client.Cache = osmapi.Tiered{mem, store}
	return client, store.Close, nil
}
