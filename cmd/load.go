package main

import (
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/localeats/resolver/internal/ingest"
	"github.com/localeats/resolver/internal/model"
	"github.com/localeats/resolver/internal/store"
)

var (
	loadRestaurants string
	loadBoston      string
	loadCambridge   string
	loadStops       string
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Stage bronze CSV snapshots into the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if loadRestaurants == "" && loadBoston == "" && loadCambridge == "" && loadStops == "" {
			return eris.New("nothing to load: pass at least one of --restaurants, --boston, --cambridge, --stops")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		loadedAt := time.Now().UTC()

		if loadRestaurants != "" {
			if err := stageRestaurants(cmd, st, loadRestaurants, loadedAt); err != nil {
				return err
			}
		}
		if loadBoston != "" {
			if err := stageInspections(cmd, st, loadBoston, model.JurisdictionBoston, loadedAt); err != nil {
				return err
			}
		}
		if loadCambridge != "" {
			if err := stageInspections(cmd, st, loadCambridge, model.JurisdictionCambridge, loadedAt); err != nil {
				return err
			}
		}
		if loadStops != "" {
			if err := stageStops(cmd, st, loadStops); err != nil {
				return err
			}
		}

		return nil
	},
}

func stageRestaurants(cmd *cobra.Command, st *store.Store, path string, loadedAt time.Time) error {
	f, err := os.Open(path)
	if err != nil {
		return eris.Wrap(err, "open restaurants csv")
	}
	defer f.Close()

	rows, res, err := ingest.ReadRestaurants(f, loadedAt)
	if err != nil {
		return eris.Wrap(err, "read restaurants csv")
	}
	n, err := st.InsertRestaurants(cmd.Context(), rows)
	if err != nil {
		return eris.Wrap(err, "stage restaurants")
	}
	zap.L().Info("staged restaurants",
		zap.String("path", path), zap.Int("read", res.Read),
		zap.Int("skipped", res.Skipped), zap.Int64("inserted", n))
	cmd.Printf("restaurants: %d staged, %d skipped\n", n, res.Skipped)
	return nil
}

func stageInspections(cmd *cobra.Command, st *store.Store, path string, j model.Jurisdiction, loadedAt time.Time) error {
	f, err := os.Open(path)
	if err != nil {
		return eris.Wrapf(err, "open %s inspections csv", j)
	}
	defer f.Close()

	rows, res, err := ingest.ReadInspections(f, j, loadedAt)
	if err != nil {
		return eris.Wrapf(err, "read %s inspections csv", j)
	}
	n, err := st.InsertInspections(cmd.Context(), rows)
	if err != nil {
		return eris.Wrapf(err, "stage %s inspections", j)
	}
	zap.L().Info("staged inspections",
		zap.String("jurisdiction", string(j)), zap.String("path", path),
		zap.Int("read", res.Read), zap.Int("skipped", res.Skipped), zap.Int64("inserted", n))
	cmd.Printf("%s inspections: %d staged, %d skipped\n", j, n, res.Skipped)
	return nil
}

func stageStops(cmd *cobra.Command, st *store.Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return eris.Wrap(err, "open stops csv")
	}
	defer f.Close()

	rows, res, err := ingest.ReadStops(f)
	if err != nil {
		return eris.Wrap(err, "read stops csv")
	}
	n, err := st.InsertStops(cmd.Context(), rows)
	if err != nil {
		return eris.Wrap(err, "stage stops")
	}
	zap.L().Info("staged stops",
		zap.String("path", path), zap.Int("read", res.Read),
		zap.Int("skipped", res.Skipped), zap.Int64("inserted", n))
	cmd.Printf("stops: %d staged, %d skipped\n", n, res.Skipped)
	return nil
}

func init() {
	loadCmd.Flags().StringVar(&loadRestaurants, "restaurants", "", "restaurant catalog CSV")
	loadCmd.Flags().StringVar(&loadBoston, "boston", "", "Boston inspection registry CSV")
	loadCmd.Flags().StringVar(&loadCambridge, "cambridge", "", "Cambridge inspection registry CSV")
	loadCmd.Flags().StringVar(&loadStops, "stops", "", "transit stops CSV (GTFS stops.txt compatible)")
	rootCmd.AddCommand(loadCmd)
}
