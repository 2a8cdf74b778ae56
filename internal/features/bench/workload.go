package bench

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"pim-speedup/internal/infra/fs"
)

var (
	ErrEmptyWorkload = errors.New("workload has no entries to insert")
	ErrBadPosition   = errors.New("entry position must be a positive integer")
)

// Pair is one key/value insert.
type Pair struct {
	Key   int
	Value int
}

// Workload is what one benchmark run inserts and then looks up.
//
// The input file is a JSON object mapping positions "1".."n" to values; the
// value at position k is stored under key k. The query file maps positions
// to the keys to look up, in position order.
type Workload struct {
	Inserts []Pair
	Queries []int

	expected map[int]int
}

// LoadWorkload reads the input and query files.
func LoadWorkload(inputPath, queryPath string) (*Workload, error) {
	var input, queries map[string]int
	if err := fs.LoadJSON(inputPath, &input); err != nil {
		return nil, fmt.Errorf("failed to load input: %w", err)
	}
	if err := fs.LoadJSON(queryPath, &queries); err != nil {
		return nil, fmt.Errorf("failed to load queries: %w", err)
	}
	return NewWorkload(input, queries)
}

// NewWorkload orders both objects by position.
func NewWorkload(input, queries map[string]int) (*Workload, error) {
	if len(input) == 0 {
		return nil, ErrEmptyWorkload
	}

	inserts, err := byPosition(input)
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	lookups, err := byPosition(queries)
	if err != nil {
		return nil, fmt.Errorf("queries: %w", err)
	}

	w := &Workload{
		Inserts:  inserts,
		Queries:  make([]int, len(lookups)),
		expected: make(map[int]int, len(inserts)),
	}
	for _, p := range inserts {
		w.expected[p.Key] = p.Value
	}
	for i, q := range lookups {
		w.Queries[i] = q.Value
	}
	return w, nil
}

// Expected returns the inserted value for key.
func (w *Workload) Expected(key int) (int, bool) {
	v, ok := w.expected[key]
	return v, ok
}

func byPosition(obj map[string]int) ([]Pair, error) {
	pairs := make([]Pair, 0, len(obj))
	for pos, v := range obj {
		k, err := strconv.Atoi(pos)
		if err != nil || k < 1 {
			return nil, fmt.Errorf("%w: %q", ErrBadPosition, pos)
		}
		pairs = append(pairs, Pair{Key: k, Value: v})
	}
	slices.SortFunc(pairs, func(a, b Pair) int { return a.Key - b.Key })
	return pairs, nil
}
