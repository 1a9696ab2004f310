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
	"path/filepath"
	"strings"

	"github.com/rotblauer/osmborders/api"
	"github.com/rotblauer/osmborders/formats"
	"github.com/rotblauer/osmborders/params"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// regionsCmd represents the regions command
var regionsCmd = &cobra.Command{
	Use:     "regions",
	Short:   "List configured regions and their output files",
	PreRunE: bindFlags,
	RunE: func(cmd *cobra.Command, args []string) error {
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
		out := cmd.OutOrStdout()
		outDir := expandPath(viper.GetString(params.KeyOut))
		for _, r := range api.Regions(countries) {
			ids := make([]string, 0, len(r.RelationIDs))
			for _, id := range r.RelationIDs {
				ids = append(ids, fmt.Sprint(int64(id)))
			}
			fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", r.Country, r.Name, strings.Join(ids, ","),
				filepath.Join(outDir, r.FullName()+"."+format.Extension()))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(regionsCmd)

	// The build flags that shape output paths, registered again here
	// so `regions` shows what `build` would write.
	flags := regionsCmd.Flags()
	flags.String(params.KeyOut, params.DefaultOutDir, "Output directory")
	flags.String(params.KeyFormat, params.DefaultFormat, "Output format: poly, gpx or geojson")
	flags.StringSlice(params.KeyCountry, nil, "Only list these countries (repeatable)")
}
