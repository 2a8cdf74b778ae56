package charts

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"

	"pim-speedup/internal/features/speedup"
)

const (
	// axisMargin pads the data range on each side, as a fraction of the range.
	axisMargin = 0.05

	// maxValueTicks bounds the value axis. A step too fine for the data is
	// widened to a power of ten that fits.
	maxValueTicks = 1000
)

// Tick is one labeled axis mark.
type Tick struct {
	Value float64
	Label string
}

// Bar is one rectangle of the chart in data coordinates.
type Bar struct {
	Series   int
	Category int
	// X is the horizontal center of the bar.
	X      float64
	Width  float64
	Height float64
	// Label is the value annotation drawn at the top edge of the bar.
	Label string
	Color color.Color
}

type LegendEntry struct {
	Label string
	Color color.Color
}

// Layout is the resolved geometry of a grouped bar chart. Both the PDF and the
// preview are drawn from it, so it is the single place where positions,
// heights and labels are decided.
type Layout struct {
	Title  string
	YLabel string

	Bars          []Bar
	CategoryTicks []Tick
	ValueTicks    []Tick
	Legend        []LegendEntry

	XMin, XMax float64
	YMin, YMax float64
}

// NewLayout validates the dataset and places its bars according to spec.
func NewLayout(ds speedup.Dataset, spec Spec) (*Layout, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	if spec.BarWidth <= 0 {
		return nil, errors.New("bar width must be positive")
	}
	if spec.TickStep <= 0 {
		return nil, errors.New("tick step must be positive")
	}

	categories := ds.Categories()
	seriesCount := len(ds.Series)

	l := &Layout{
		Title:  spec.Title,
		YLabel: spec.YLabel,
	}

	for i, category := range categories {
		pos := float64(i)
		for s, value := range category.Values {
			l.Bars = append(l.Bars, Bar{
				Series:   s,
				Category: i,
				X:        pos + float64(s)*spec.BarWidth,
				Width:    spec.BarWidth,
				Height:   value,
				Label:    FormatValue(value),
				Color:    spec.seriesColor(s),
			})
		}
		l.CategoryTicks = append(l.CategoryTicks, Tick{
			Value: pos + float64(seriesCount-1)*spec.BarWidth/2,
			Label: category.Name,
		})
	}

	for s, label := range ds.Labels() {
		l.Legend = append(l.Legend, LegendEntry{Label: label, Color: spec.seriesColor(s)})
	}

	peak := ds.Max()
	l.ValueTicks = valueTicks(peak, spec.TickStep)
	top := l.ValueTicks[len(l.ValueTicks)-1].Value
	l.YMax = math.Max(top, peak*(1+axisMargin))

	left := -spec.BarWidth / 2
	right := float64(len(categories)-1) + float64(seriesCount-1)*spec.BarWidth + spec.BarWidth/2
	pad := (right - left) * axisMargin
	l.XMin, l.XMax = left-pad, right+pad

	return l, nil
}

// valueTicks returns 0, step, 2*step, ... ending at the first tick at or
// above peak, so the tallest bar is never cut off by the axis.
func valueTicks(peak, step float64) []Tick {
	ratio := peak / step
	if math.IsInf(ratio, 0) || math.IsNaN(ratio) || ratio > maxValueTicks {
		step = math.Pow(10, math.Ceil(math.Log10(peak/maxValueTicks)))
		ratio = peak / step
	}
	n := int(math.Ceil(ratio))
	if n < 1 {
		n = 1
	}

	scale := tickScale(step)
	tickValue := func(k int) float64 {
		v := float64(k) * step
		if scale > 0 {
			v = math.Round(v*scale) / scale
		}
		return v
	}

	ticks := make([]Tick, 0, n+2)
	for k := 0; k <= n; k++ {
		v := tickValue(k)
		ticks = append(ticks, Tick{Value: v, Label: FormatValue(v)})
	}
	if last := ticks[len(ticks)-1].Value; last < peak {
		v := tickValue(n + 1)
		ticks = append(ticks, Tick{Value: v, Label: FormatValue(v)})
	}
	return ticks
}

// tickScale returns the smallest power of ten that makes step a whole
// number, or 0 when step has more decimals than a float64 keeps.
func tickScale(step float64) float64 {
	scale := 1.0
	for d := 0; d <= 15; d++ {
		x := step * scale
		if math.Abs(x-math.Round(x)) <= 1e-9*math.Max(1, x) {
			return scale
		}
		scale *= 10
	}
	return 0
}

// FormatValue renders a number the way bar annotations show it: shortest
// representation, no trailing zeros ("49.1", "5", "0.25").
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// SeriesBars returns the bars of one series in category order.
func (l *Layout) SeriesBars(series int) []Bar {
	var bars []Bar
	for _, b := range l.Bars {
		if b.Series == series {
			bars = append(bars, b)
		}
	}
	return bars
}

func (l *Layout) String() string {
	return fmt.Sprintf("%q: %d bars, %d categories, y 0..%s",
		l.Title, len(l.Bars), len(l.CategoryTicks), FormatValue(l.ValueTicks[len(l.ValueTicks)-1].Value))
}
