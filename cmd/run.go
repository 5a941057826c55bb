package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the full pipeline end to end",
	Long:  "Runs merge, restaurant clustering, taxi preprocessing, taxi clustering, and intersection in order, recording per-stage results in the run store.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		p, err := newPipeline()
		if err != nil {
			return err
		}

		run, err := p.Run(ctx, st)
		if err != nil {
			return eris.Wrap(err, "run")
		}

		if got, err := st.GetRun(ctx, run.ID); err == nil {
			run = got
		}
		return printJSON(run)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
