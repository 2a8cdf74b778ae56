package bench

import (
	"context"
	"errors"
	"fmt"
	"time"

	logging "pim-speedup/internal/infra/log"

	"go.uber.org/zap"
)

// ErrValueMismatch is returned when a lookup misses or disagrees with the
// inserted value.
var ErrValueMismatch = errors.New("looked-up values differ from the inserted ones")

// Result holds the timings of one container.
type Result struct {
	Container  string
	Inserts    int
	InsertTime time.Duration
	Lookups    int
	LookupTime time.Duration
	// Missing counts queried keys the container did not hold.
	Missing int
	// Mismatches counts found keys whose value differs from the input.
	Mismatches int
}

// Verified reports whether every lookup returned the inserted value.
func (r Result) Verified() bool {
	return r.Missing == 0 && r.Mismatches == 0
}

// Run inserts the workload into c, then looks up every query. Only the
// container calls are timed; values are checked afterwards.
func Run(ctx context.Context, w *Workload, c Container) (Result, error) {
	res := Result{Container: c.Name(), Inserts: len(w.Inserts), Lookups: len(w.Queries)}

	start := time.Now()
	for _, p := range w.Inserts {
		c.Insert(p.Key, p.Value)
	}
	res.InsertTime = time.Since(start)

	if err := ctx.Err(); err != nil {
		return res, err
	}

	got := make([]int, len(w.Queries))
	found := make([]bool, len(w.Queries))
	start = time.Now()
	for i, key := range w.Queries {
		got[i], found[i] = c.Get(key)
	}
	res.LookupTime = time.Since(start)

	for i, key := range w.Queries {
		want, inserted := w.Expected(key)
		switch {
		case !found[i] || !inserted:
			res.Missing++
		case got[i] != want:
			res.Mismatches++
			logging.LogDebug("Value mismatch",
				zap.String("container", res.Container),
				zap.Int("key", key),
				zap.Int("got", got[i]),
				zap.Int("want", want))
		}
	}
	return res, nil
}

// RunAll runs the workload against every container in order and logs each
// result. All containers run even when one fails verification.
func RunAll(ctx context.Context, w *Workload, containers []Container) ([]Result, error) {
	results := make([]Result, 0, len(containers))
	failed := 0
	for _, c := range containers {
		res, err := Run(ctx, w, c)
		if err != nil {
			return results, fmt.Errorf("failed to benchmark %s: %w", c.Name(), err)
		}
		results = append(results, res)

		fields := []zap.Field{
			zap.String("container", res.Container),
			zap.Int("inserts", res.Inserts),
			zap.Duration("insertTime", res.InsertTime),
			zap.Int("lookups", res.Lookups),
			zap.Duration("lookupTime", res.LookupTime),
		}
		if !res.Verified() {
			failed++
			logging.LogWarn("Container returned wrong values", append(fields,
				zap.Int("missing", res.Missing),
				zap.Int("mismatches", res.Mismatches))...)
			continue
		}
		logging.LogSuccess("Container benchmarked", fields...)
	}
	if failed > 0 {
		return results, fmt.Errorf("%w in %d of %d containers", ErrValueMismatch, failed, len(containers))
	}
	return results, nil
}
