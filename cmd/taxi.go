package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var taxiCmd = &cobra.Command{
	Use:   "taxi",
	Short: "Preprocess taxi trip extracts into weighted drop-off points",
	Long:  "Reads the monthly trip CSVs, keeps dining-hour drop-offs inside the city boundary, assigns temporal demand weights, and writes the weighted point set.",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline()
		if err != nil {
			return err
		}
		meta, err := p.IngestTaxi(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "taxi")
		}
		return printJSON(meta)
	},
}

func init() {
	rootCmd.AddCommand(taxiCmd)
}
