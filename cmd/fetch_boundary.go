package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/wheretodine/hotspot-cli/internal/fetcher"
)

var fetchBoundaryCmd = &cobra.Command{
	Use:   "fetch-boundary",
	Short: "Download and extract the city boundary shapefile",
	Long:  "Downloads fetch.boundary_url, extracts the ZIP, and prints the path of the .shp file to use as data.boundary.",
	RunE: func(cmd *cobra.Command, args []string) error {
		shpPath, err := fetcher.FetchBoundary(cmd.Context(), cfg.Fetch)
		if err != nil {
			return eris.Wrap(err, "fetch-boundary")
		}
		return printJSON(map[string]string{"boundary": shpPath})
	},
}

func init() {
	rootCmd.AddCommand(fetchBoundaryCmd)
}
