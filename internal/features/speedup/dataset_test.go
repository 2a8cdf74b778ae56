package speedup

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDataset(t *testing.T) {
	ds := Default()
	require.NoError(t, ds.Validate())

	assert.Equal(t, []string{AreaOptimized, PerformanceOptimized}, ds.Labels())

	categories := ds.Categories()
	require.Len(t, categories, 3)
	assert.Equal(t, Category{Name: "C++ Map", Values: []float64{17.1, 49.1}}, categories[0])
	assert.Equal(t, Category{Name: "C++ Unordered Map", Values: []float64{5.5, 15.8}}, categories[1])
	assert.Equal(t, Category{Name: "Hopscotch Map", Values: []float64{3.2, 9.2}}, categories[2])

	assert.Equal(t, 49.1, ds.Max())
}

func TestValidateRejectsMismatchedSeries(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Dataset)
	}{
		{
			name: "missing category",
			mutate: func(ds *Dataset) {
				ds.Series[1].Entries = ds.Series[1].Entries[:2]
			},
		},
		{
			name: "reordered categories",
			mutate: func(ds *Dataset) {
				e := ds.Series[1].Entries
				e[0], e[1] = e[1], e[0]
			},
		},
		{
			name: "renamed category",
			mutate: func(ds *Dataset) {
				ds.Series[1].Entries[2].Category = "Robin Hood Map"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := Default()
			tt.mutate(&ds)
			assert.ErrorIs(t, ds.Validate(), ErrMismatchedCategories)
		})
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	for _, v := range []float64{-1, math.NaN(), math.Inf(1)} {
		ds := Default()
		ds.Series[0].Entries[1].Value = v
		assert.ErrorIs(t, ds.Validate(), ErrInvalidValue, "value %v", v)
	}
}

func TestValidateRejectsEmpty(t *testing.T) {
	assert.ErrorIs(t, Dataset{}.Validate(), ErrEmptyDataset)
	assert.ErrorIs(t, Dataset{Series: []Series{{Label: "x"}}}.Validate(), ErrEmptyDataset)
}
