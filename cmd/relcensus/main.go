package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/chnm/relcensus-backend/config"
	"github.com/chnm/relcensus-backend/database"
	"github.com/chnm/relcensus-backend/internal/auditlog"
	"github.com/chnm/relcensus-backend/internal/census"
	"github.com/chnm/relcensus-backend/internal/denomination"
	"github.com/chnm/relcensus-backend/internal/geocoding"
	"github.com/chnm/relcensus-backend/internal/importer"
	"github.com/chnm/relcensus-backend/internal/location"
	"github.com/chnm/relcensus-backend/internal/omeka"
	"github.com/chnm/relcensus-backend/utils"
)

func main() {
	root := &cobra.Command{
		Use:   "relcensus",
		Short: "Data tools for the religious census transcription project",
	}

	root.AddCommand(importCmd())
	root.AddCommand(syncCmd())
	root.AddCommand(fetchImagesCmd())
	root.AddCommand(geocodeCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// connect loads config and opens the database for a command run.
func connect() (*config.Config, *gorm.DB) {
	cfg := config.Load()
	db := database.Connect(cfg)
	return cfg, db
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Bulk-load CSV data",
	}

	var limit int
	var reset bool
	schedules := &cobra.Command{
		Use:   "schedules <csv>",
		Short: "Import transcribed census schedules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db := connect()

			summary, errlogPath, err := importer.ImportSchedules(importer.NewStore(db), args[0], limit, reset)
			if err != nil {
				return err
			}

			audit := auditlog.NewService(auditlog.NewRepository(db))
			audit.Record(nil, "", auditlog.ActionImportRun, nil, "", "", map[string]interface{}{
				"file":      args[0],
				"created":   summary.Created,
				"updated":   summary.Updated,
				"failed":    summary.Failed,
				"warnings":  summary.Warnings,
				"error_log": errlogPath,
				"reset":     reset,
			})

			fmt.Printf("Imported %d created, %d updated, %d failed, %d warnings\n",
				summary.Created, summary.Updated, summary.Failed, summary.Warnings)
			if summary.Failed > 0 {
				fmt.Printf("Row errors written to %s\n", errlogPath)
			}
			return nil
		},
	}
	schedules.Flags().IntVar(&limit, "limit", 0, "import at most this many rows")
	schedules.Flags().BoolVar(&reset, "reset", false, "recompute workflow status of existing schedules from the legacy flags")
	cmd.AddCommand(schedules)

	var batchSize int
	var clearExisting bool
	denominations := &cobra.Command{
		Use:   "denominations <csv>",
		Short: "Import denomination reference data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db := connect()
			svc := denomination.NewService(denomination.NewRepository(db))

			summary, err := svc.ImportCSV(args[0], batchSize, clearExisting)
			if err != nil {
				return err
			}

			fmt.Printf("Imported %d created, %d updated, %d skipped, %d errors\n",
				summary.Created, summary.Updated, summary.Skipped, summary.Errors)
			return nil
		},
	}
	denominations.Flags().IntVar(&batchSize, "batch-size", 100, "progress logging interval")
	denominations.Flags().BoolVar(&clearExisting, "clear-existing", false, "delete all denominations before importing")
	cmd.AddCommand(denominations)

	locations := &cobra.Command{
		Use:   "locations <csv>",
		Short: "Import location reference data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db := connect()
			svc := location.NewService(location.NewRepository(db))

			summary, err := svc.ImportCSV(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Imported %d created, %d updated, %d skipped, %d errors\n",
				summary.Created, summary.Updated, summary.Skipped, summary.Errors)
			return nil
		},
	}
	cmd.AddCommand(locations)

	return cmd
}

func syncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync reference data from the remote APIs",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "denominations",
		Short: "Sync denominations from the data API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db := connect()
			svc := denomination.NewService(denomination.NewRepository(db))

			summary, err := svc.SyncFromAPI(cfg.DenominationsAPIURL)
			if err != nil {
				return err
			}

			fmt.Printf("Synced %d created, %d updated, %d skipped, %d errors\n",
				summary.Created, summary.Updated, summary.Skipped, summary.Errors)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "locations",
		Short: "Sync locations from the data API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db := connect()
			svc := location.NewService(location.NewRepository(db))

			summary, err := svc.SyncFromAPI(cfg.LocationsAPIURL)
			if err != nil {
				return err
			}

			fmt.Printf("Synced %d created, %d updated, %d skipped, %d errors\n",
				summary.Created, summary.Updated, summary.Skipped, summary.Errors)
			return nil
		},
	})

	return cmd
}

func fetchImagesCmd() *cobra.Command {
	var opts omeka.FetchOptions
	var delaySeconds float64

	cmd := &cobra.Command{
		Use:   "fetch-images",
		Short: "Download schedule images from the Omeka API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db := connect()
			opts.Delay = time.Duration(delaySeconds * float64(time.Second))

			fetcher := omeka.NewFetcher(cfg.OmekaBaseURL, cfg.UploadPath)
			summary, err := fetcher.Run(context.Background(), census.NewRepository(db), opts)
			if err != nil {
				return err
			}

			fmt.Printf("Fetched %d, skipped %d, failed %d\n", summary.Fetched, summary.Skipped, summary.Failed)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "fetch at most this many images")
	cmd.Flags().BoolVar(&opts.Test, "test", false, "fetch only the first five schedules")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "report what would be fetched without downloading")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "refetch images that already exist")
	cmd.Flags().StringVar(&opts.StartFrom, "start-from", "", "start from this resource id")
	cmd.Flags().Float64Var(&delaySeconds, "delay", 0, "seconds to sleep between downloads")
	cmd.Flags().IntVar(&opts.BatchSize, "batch-size", 0, "progress logging interval")

	return cmd
}

func geocodeCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "geocode",
		Short: "Geocode religious bodies that have an address but no coordinates",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db := connect()

			// The Redis cache is optional; without it every lookup hits the
			// geocoder at the paced rate.
			if err := utils.InitRedis(cfg); err != nil {
				log.Printf("⚠️ Redis unavailable, geocode cache disabled: %v", err)
			}

			client := geocoding.NewClient(cfg.GeocodingUserAgent)
			summary, err := geocoding.Run(context.Background(), census.NewRepository(db), client, limit)
			if err != nil {
				return err
			}

			audit := auditlog.NewService(auditlog.NewRepository(db))
			audit.Record(nil, "", auditlog.ActionGeocodeRun, nil, "", "", map[string]interface{}{
				"geocoded": summary.Geocoded,
				"failed":   summary.Failed,
				"skipped":  summary.Skipped,
				"limit":    limit,
			})

			fmt.Printf("Geocoded %d, failed %d, skipped %d\n", summary.Geocoded, summary.Failed, summary.Skipped)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "geocode at most this many bodies")

	return cmd
}
