package main

import (
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/localeats/resolver/internal/model"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show stats for the most recent run",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := st.LatestRun(ctx)
		if err != nil {
			return err
		}
		if stats == nil {
			cmd.Println("No runs recorded.")
			return nil
		}

		printStats(cmd, stats)
		return nil
	},
}

func printStats(cmd *cobra.Command, s *model.RunStats) {
	cmd.Printf("Run:         %s\n", s.RunID)
	cmd.Printf("Started:     %s\n", s.StartedAt.Format("2006-01-02 15:04:05 MST"))
	cmd.Printf("Elapsed:     %s\n", s.CompletedAt.Sub(s.StartedAt).Round(time.Millisecond))
	cmd.Println()
	cmd.Printf("Restaurants: %d loaded, %d rejected\n", s.RestaurantsLoaded, s.RestaurantsRejected)

	sources := make([]string, 0, len(s.InspectionsLoaded))
	for src := range s.InspectionsLoaded {
		sources = append(sources, src)
	}
	sort.Strings(sources)
	for _, src := range sources {
		cmd.Printf("Inspections: %-10s %d loaded, %d rejected\n",
			src, s.InspectionsLoaded[src], s.InspectionsRejected[src])
	}
	cmd.Printf("Stops:       %d loaded, %d rejected\n", s.StopsLoaded, s.StopsRejected)
	cmd.Println()
	cmd.Printf("Matching:    %d candidates scored\n", s.CandidatesScored)
	cmd.Printf("             %d accepted, %d below threshold, %d beyond range, %d deduped\n",
		s.LinksAccepted, s.LinksBelowThreshold, s.LinksBeyondRange, s.LinksDeduped)
	cmd.Println()
	cmd.Printf("Scored:      %d restaurants\n", s.Scored)
	cmd.Printf("             %d without inspection data, %d without nearby transit\n",
		s.NoInspectionData, s.NoTransit)
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
