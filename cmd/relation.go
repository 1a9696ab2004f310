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
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/paulmach/osm"
	"github.com/spf13/cobra"
)

// relationCmd represents the relation command
var relationCmd = &cobra.Command{
	Use:   "relation ID [ID...]",
	Short: "Show the ways of relations and where they start and end",
	Long: `Relation prints one line per member way: relation, way, point count, start and end.
Useful for finding the gap when a region fails with a broken chain.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		setDefaultSlog(cmd, args)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		client, closeClient, err := newClient()
		if err != nil {
			return err
		}
		defer closeClient()

		out := cmd.OutOrStdout()
		for _, arg := range args {
			n, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return fmt.Errorf("relation id %q: %w", arg, err)
			}
			id := osm.RelationID(n)
			segments, err := client.Relation(ctx, id)
			if err != nil {
				return err
			}
			for _, s := range segments {
				fmt.Fprintf(out, "%d\t%d\t%d\t%v\t%v\n", id, s.WayID, len(s.Points), s.Start(), s.End())
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(relationCmd)
}
