package charts

import (
	"image/color"

	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/vg"
)

// Spec describes how a dataset is drawn. Every styling decision lives here
// so rendering never touches process-wide plotting defaults.
type Spec struct {
	Title  string
	YLabel string

	// BarWidth is the width of one bar in category units (categories sit
	// one unit apart).
	BarWidth float64

	// Colors holds one fill color per series, in series order.
	Colors []color.Color

	EdgeColor color.Color
	EdgeWidth vg.Length

	// TickStep is the spacing of the value axis ticks.
	TickStep float64

	Typeface font.Typeface
	Variant  font.Variant
	FontSize vg.Length
	// BoldLabels renders the title and the y axis label in bold.
	BoldLabels bool

	Width  vg.Length
	Height vg.Length

	// PreviewDPI is the pixel density of the raster preview.
	PreviewDPI float64
}

// DefaultSpec returns the styling of the PIM speedup chart.
func DefaultSpec() Spec {
	return Spec{
		Title:    "PIM Speedup",
		YLabel:   "Speedup",
		BarWidth: 0.4,
		Colors: []color.Color{
			color.RGBA{R: 0, G: 128, B: 0, A: 255}, // green
			color.RGBA{R: 128, G: 0, B: 0, A: 255}, // maroon
		},
		EdgeColor:  color.Black,
		EdgeWidth:  vg.Points(1),
		TickStep:   5,
		Typeface:   "Liberation",
		Variant:    "Serif",
		FontSize:   vg.Points(11),
		BoldLabels: true,
		Width:      6.4 * vg.Inch,
		Height:     4.8 * vg.Inch,
		PreviewDPI: 100,
	}
}

func (s Spec) seriesColor(i int) color.Color {
	if len(s.Colors) == 0 {
		return color.Gray{Y: 128}
	}
	return s.Colors[i%len(s.Colors)]
}

func (s Spec) edgeColor() color.Color {
	if s.EdgeColor == nil {
		return color.Black
	}
	return s.EdgeColor
}
