package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge and deduplicate restaurant datasets",
	Long:  "Loads the google and osm venue tables, drops osm records that duplicate a nearby google venue with a matching name, and writes the merged point set.",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline()
		if err != nil {
			return err
		}
		meta, err := p.MergeRestaurants(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "merge")
		}
		return printJSON(meta)
	},
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}
