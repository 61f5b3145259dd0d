package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jyotish-back/internal/arcs"
	"github.com/jyotish-back/internal/astro"
	"github.com/jyotish-back/internal/cache"
	"github.com/jyotish-back/pkg/config"
	"github.com/jyotish-back/pkg/logger"
)

var (
	arcsPersist bool
	arcsJSON    bool
	arcsPurge   bool
)

// arcsCmd rebuilds and inspects the constellation arc table
var arcsCmd = &cobra.Command{
	Use:   "arcs",
	Short: "Build and inspect the constellation arc table",
	Long: `Sample the ecliptic, build the constellation arc table and print it.

With --persist the table is also written to Redis so server instances load it
instead of rebuilding on startup.

With --purge the persisted table and all cached charts are dropped instead,
forcing the next server start to rebuild.

Examples:
  jyotish-back arcs             # Print the arc table
  jyotish-back arcs --json      # Print as JSON
  jyotish-back arcs --persist   # Warm the Redis copy
  jyotish-back arcs --purge     # Drop the Redis copy and cached charts`,
	RunE: runArcs,
}

func init() {
	rootCmd.AddCommand(arcsCmd)

	arcsCmd.Flags().BoolVar(&arcsPersist, "persist", false, "Persist the built table to Redis")
	arcsCmd.Flags().BoolVar(&arcsJSON, "json", false, "Print the table as JSON")
	arcsCmd.Flags().BoolVar(&arcsPurge, "purge", false, "Delete the persisted table and cached charts")
}

func runArcs(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Printf("Note: .env file not loaded: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, _ := logger.New(&cfg.Logging)

	if arcsPurge {
		redisClient, err := cache.NewRedisClient(&cfg.Redis, log)
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		defer redisClient.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := redisClient.DeleteArcTable(ctx, cfg.Arcs.ReferenceEpoch); err != nil {
			return fmt.Errorf("failed to delete persisted arc table: %w", err)
		}
		if err := redisClient.DeletePattern(ctx, cache.ChartKeyPattern); err != nil {
			return fmt.Errorf("failed to delete cached charts: %w", err)
		}
		log.WithField("epoch", cfg.Arcs.ReferenceEpoch).Info("Persisted arc table and cached charts purged")
		return nil
	}

	table := arcs.Build(astro.NewBandClassifier(), cfg.Arcs.SampleStepDeg, cfg.Arcs.ReferenceEpoch, log)
	list := table.Arcs()
	if len(list) == 0 {
		return fmt.Errorf("arc table build produced no arcs")
	}

	if arcsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(list); err != nil {
			return err
		}
	} else {
		fmt.Printf("epoch %s, %d arcs\n", table.Epoch(), len(list))
		for _, arc := range list {
			fmt.Printf("  %-3s %-12s %8.3f° – %8.3f°  (%6.3f°)\n",
				arc.IAUCode, arc.IAUName, arc.LonStartDeg, arc.LonEndDeg, arc.Width())
		}
	}

	if arcsPersist {
		redisClient, err := cache.NewRedisClient(&cfg.Redis, log)
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		defer redisClient.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := redisClient.SetArcTable(ctx, table.Epoch(), list); err != nil {
			return fmt.Errorf("failed to persist arc table: %w", err)
		}
		log.WithField("epoch", table.Epoch()).Info("Arc table persisted")
	}

	return nil
}
