package speedup

// Dataset model for the PIM speedup chart
// A dataset is an ordered list of series; every series lists the same
// categories in the same order, since bars are grouped by position

import (
	"errors"
	"fmt"
	"math"
)

const (
	AreaOptimized        = "Area Optimized"
	PerformanceOptimized = "Performance Optimized"
)

var (
	ErrEmptyDataset         = errors.New("dataset has no series or categories")
	ErrMismatchedCategories = errors.New("series categories do not match")
	ErrInvalidValue         = errors.New("value must be finite and non-negative")
)

// Entry is one category value within a series.
type Entry struct {
	Category string
	Value    float64
}

// Series is one set of same-colored bars across all categories.
type Series struct {
	Label   string
	Entries []Entry
}

// Category is a labeled group of bars, one value per series.
type Category struct {
	Name   string
	Values []float64
}

type Dataset struct {
	Series []Series
}

// Default returns the dataset embedded in the chart: speedups of the
// area-optimized and performance-optimized PIM builds per map implementation.
func Default() Dataset {
	return Dataset{
		Series: []Series{
			{
				Label: AreaOptimized,
				Entries: []Entry{
					{Category: "C++ Map", Value: 17.1},
					{Category: "C++ Unordered Map", Value: 5.5},
					{Category: "Hopscotch Map", Value: 3.2},
				},
			},
			{
				Label: PerformanceOptimized,
				Entries: []Entry{
					{Category: "C++ Map", Value: 49.1},
					{Category: "C++ Unordered Map", Value: 15.8},
					{Category: "Hopscotch Map", Value: 9.2},
				},
			},
		},
	}
}

// Validate checks that every series shares the first series' category
// names and order, and that all values are usable bar heights.
func (d Dataset) Validate() error {
	if len(d.Series) == 0 || len(d.Series[0].Entries) == 0 {
		return ErrEmptyDataset
	}

	first := d.Series[0]
	for _, s := range d.Series {
		if len(s.Entries) != len(first.Entries) {
			return fmt.Errorf("%w: series %q has %d categories, expected %d",
				ErrMismatchedCategories, s.Label, len(s.Entries), len(first.Entries))
		}
		for i, e := range s.Entries {
			if e.Category != first.Entries[i].Category {
				return fmt.Errorf("%w: series %q position %d is %q, expected %q",
					ErrMismatchedCategories, s.Label, i, e.Category, first.Entries[i].Category)
			}
			if math.IsNaN(e.Value) || math.IsInf(e.Value, 0) || e.Value < 0 {
				return fmt.Errorf("%w: series %q category %q has %v",
					ErrInvalidValue, s.Label, e.Category, e.Value)
			}
		}
	}
	return nil
}

// Categories returns the category groups in horizontal order.
// The dataset must be valid.
func (d Dataset) Categories() []Category {
	if len(d.Series) == 0 {
		return nil
	}
	categories := make([]Category, len(d.Series[0].Entries))
	for i, e := range d.Series[0].Entries {
		categories[i].Name = e.Category
		categories[i].Values = make([]float64, len(d.Series))
		for s := range d.Series {
			categories[i].Values[s] = d.Series[s].Entries[i].Value
		}
	}
	return categories
}

// Labels returns the series labels in legend order.
func (d Dataset) Labels() []string {
	labels := make([]string, len(d.Series))
	for i, s := range d.Series {
		labels[i] = s.Label
	}
	return labels
}

// Max returns the largest value across all series.
func (d Dataset) Max() float64 {
	peak := 0.0
	for _, s := range d.Series {
		for _, e := range s.Entries {
			if e.Value > peak {
				peak = e.Value
			}
		}
	}
	return peak
}
