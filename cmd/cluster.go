package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var clusterRestaurantsCmd = &cobra.Command{
	Use:   "cluster-restaurants",
	Short: "Cluster merged restaurants into dining zones",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline()
		if err != nil {
			return err
		}
		meta, err := p.ClusterRestaurants(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "cluster-restaurants")
		}
		return printJSON(meta)
	},
}

var clusterTaxiCmd = &cobra.Command{
	Use:   "cluster-taxi",
	Short: "Cluster weighted taxi drop-offs into hotspot zones",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline()
		if err != nil {
			return err
		}
		meta, err := p.ClusterTaxi(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "cluster-taxi")
		}
		return printJSON(meta)
	},
}

func init() {
	rootCmd.AddCommand(clusterRestaurantsCmd)
	rootCmd.AddCommand(clusterTaxiCmd)
}
