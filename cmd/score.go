package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/localeats/resolver/internal/model"
	"github.com/localeats/resolver/internal/store"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Print or export scored restaurants from the gold table",
	Long: `Reads gold rows from the latest completed run, ordered by overall
score descending.

Examples:
  # Top 20 restaurants as a table
  score --limit 20

  # Only the top tier
  score --tier HIGHLY_RECOMMENDED

  # Export everything to CSV
  score --format csv --output gold.csv`,
	RunE: runScoreCmd,
}

func init() {
	f := scoreCmd.Flags()
	f.Int("limit", 0, "maximum number of rows (0=all)")
	f.String("tier", "", "filter by recommendation tier")
	f.String("output", "", "output file path (default: stdout)")
	f.String("format", "table", "output format: table or csv")

	rootCmd.AddCommand(scoreCmd)
}

func runScoreCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	limit, _ := cmd.Flags().GetInt("limit")
	tier, _ := cmd.Flags().GetString("tier")
	outputPath, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("format")

	if format != "table" && format != "csv" {
		return eris.Errorf("score: --format must be table or csv (got %q)", format)
	}
	if tier != "" && !validTier(model.RecommendationTier(tier)) {
		return eris.Errorf("score: unknown tier %q", tier)
	}

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	rows, err := st.LoadGold(ctx, store.GoldFilters{
		Tier:  model.RecommendationTier(tier),
		Limit: limit,
	})
	if err != nil {
		return err
	}

	var w *os.File
	if outputPath != "" {
		w, err = os.Create(outputPath)
		if err != nil {
			return eris.Wrapf(err, "score: create output file %s", outputPath)
		}
		defer w.Close() //nolint:errcheck
	} else {
		w = os.Stdout
	}

	switch format {
	case "csv":
		return writeGoldCSV(w, rows)
	default:
		return writeGoldTable(w, rows)
	}
}

func validTier(t model.RecommendationTier) bool {
	switch t {
	case model.TierHighlyRecommended, model.TierRecommendedLimited,
		model.TierRecommended, model.TierAverage, model.TierBelowAverage:
		return true
	}
	return false
}

func writeGoldCSV(w *os.File, rows []model.GoldRow) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"restaurant_id", "name", "city", "postal_code",
		"overall_score", "safety_score", "accessibility_score",
		"popularity_score", "value_score", "recommendation_tier",
		"health_risk_level", "data_quality", "pass_rate", "walk_minutes",
	}
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "score: write CSV header")
	}

	for _, r := range rows {
		passRate := ""
		if pr := r.Summary.EffectivePassRate(); pr != nil {
			passRate = fmt.Sprintf("%.2f", *pr)
		}
		walk := ""
		if r.Transit != nil {
			walk = fmt.Sprintf("%.1f", r.Transit.WalkMinutes)
		}
		row := []string{
			r.Restaurant.RestaurantID,
			r.Restaurant.Name,
			r.Restaurant.City,
			r.Restaurant.PostalCode,
			fmt.Sprintf("%.2f", r.Scores.Overall),
			fmt.Sprintf("%.2f", r.Scores.Safety),
			fmt.Sprintf("%.2f", r.Scores.Accessibility),
			fmt.Sprintf("%.2f", r.Scores.Popularity),
			fmt.Sprintf("%.2f", r.Scores.Value),
			string(r.Scores.Tier),
			string(r.Summary.HealthRisk),
			string(r.Summary.DataQuality),
			passRate,
			walk,
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "score: write CSV row")
		}
	}
	return nil
}

func writeGoldTable(w *os.File, rows []model.GoldRow) error {
	header := fmt.Sprintf("%-12s %-40s %-10s %7s %7s %-25s %s\n",
		"ID", "Name", "City", "Overall", "Safety", "Tier", "Risk")
	if _, err := fmt.Fprint(w, header); err != nil {
		return eris.Wrap(err, "score: write table header")
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", 115)); err != nil {
		return eris.Wrap(err, "score: write table separator")
	}

	for _, r := range rows {
		name := r.Restaurant.Name
		if len(name) > 40 {
			name = name[:37] + "..."
		}
		line := fmt.Sprintf("%-12s %-40s %-10s %7.2f %7.2f %-25s %s\n",
			r.Restaurant.RestaurantID, name, r.Restaurant.City,
			r.Scores.Overall, r.Scores.Safety, r.Scores.Tier, r.Summary.HealthRisk)
		if _, err := fmt.Fprint(w, line); err != nil {
			return eris.Wrap(err, "score: write table row")
		}
	}
	if _, err := fmt.Fprintf(w, "\n%d rows\n", len(rows)); err != nil {
		return eris.Wrap(err, "score: write table footer")
	}
	return nil
}
