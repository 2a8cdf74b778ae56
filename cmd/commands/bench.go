package commands

// Command to time map containers on a recorded workload
// Loads the input and query JSON files, inserts every entry, looks up every
// query and checks the values

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pim-speedup/internal/features/bench"
	"pim-speedup/internal/infra/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var benchCmd = &cobra.Command{
	Use:   "bench <input.json> <query.json>",
	Short: "Time insert and lookup on map containers",
	Long: `Loads a JSON object of values keyed by position ("1".."n") and a JSON object of keys to look up,
then times inserting and looking them up in an open addressing map, an ordered map and the built-in hash map.
Every looked-up value is checked against the input.`,
	Args: cobra.ExactArgs(2),
	RunE: runBench,
}

func runBench(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	start := time.Now()
	workload, err := bench.LoadWorkload(args[0], args[1])
	if err != nil {
		log.LogError("Failed to load workload", zap.String("path", args[0]), zap.Error(err))
		return err
	}
	log.LogSuccess("Workload loaded",
		zap.String("path", args[0]),
		zap.Int("inserts", len(workload.Inserts)),
		zap.Int("queries", len(workload.Queries)),
		zap.Duration("loadTime", time.Since(start)))

	results, err := bench.RunAll(ctx, workload, bench.DefaultContainers(len(workload.Inserts)))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-20s %12s %14s %12s %14s\n", "container", "inserts", "insert time", "lookups", "lookup time")
	for _, res := range results {
		fmt.Fprintf(out, "%-20s %12d %14s %12d %14s\n",
			res.Container, res.Inserts, res.InsertTime, res.Lookups, res.LookupTime)
	}
	return nil
}
