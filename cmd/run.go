package main

import (
	"github.com/spf13/cobra"

	"github.com/localeats/resolver/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full resolution and scoring batch",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		engine := pipeline.New(cfg, st)
		stats, err := engine.Run(ctx)
		if err != nil {
			return err
		}

		printStats(cmd, stats)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
