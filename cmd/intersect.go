package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var intersectCmd = &cobra.Command{
	Use:   "intersect",
	Short: "Intersect dining zones with taxi hotspots and rank the results",
	Long:  "Rebuilds both zone sets from the clustered points, keeps overlaps passing the area and overlap-ratio thresholds, scores them by restaurant and taxi density, and writes the ranked hotspots with an analysis summary.",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline()
		if err != nil {
			return err
		}
		meta, err := p.Intersect(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "intersect")
		}
		return printJSON(meta)
	},
}

func init() {
	rootCmd.AddCommand(intersectCmd)
}
