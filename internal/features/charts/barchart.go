// Derived from https://github.com/gonum/plot/blob/v0.14.0/plotter/barchart.go:
// Copyright ©2015 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package charts

import (
	"errors"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// seriesBars draws the bars of one series. Unlike plotter.BarChart, bar
// positions and widths are in data units, which lets the bars of a group
// touch exactly regardless of the page size.
type seriesBars struct {
	// Bars holds the center (X) and height (Y) of each bar.
	Bars plotter.XYs

	// Width is the width of every bar in data units.
	Width float64

	Labels []string

	// LabelOffset shifts each label away from the top edge of its bar.
	LabelOffset vg.Length

	Color color.Color

	// LineStyle is the style of the bar outline.
	draw.LineStyle

	LabelStyle text.Style
}

func newSeriesBars(bars []Bar, labelStyle text.Style, spec Spec) (*seriesBars, error) {
	if len(bars) == 0 {
		return nil, errors.New("no bars to draw")
	}
	sb := &seriesBars{
		Bars:   make(plotter.XYs, len(bars)),
		Labels: make([]string, len(bars)),
		Width:  bars[0].Width,
		Color:  bars[0].Color,
		LineStyle: draw.LineStyle{
			Color: spec.edgeColor(),
			Width: spec.EdgeWidth,
		},
		LabelStyle:  labelStyle,
		LabelOffset: vg.Points(1.5),
	}
	if sb.Width <= 0 {
		return nil, errors.New("bar width must be positive")
	}
	for i, b := range bars {
		sb.Bars[i] = plotter.XY{X: b.X, Y: b.Height}
		sb.Labels[i] = b.Label
	}
	sb.LabelStyle.XAlign = text.XCenter
	sb.LabelStyle.YAlign = text.YBottom
	return sb, nil
}

// Plot implements the plot.Plotter interface.
func (b *seriesBars) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)

	for i, bar := range b.Bars {
		xMin := trX(bar.X - b.Width/2)
		xMax := trX(bar.X + b.Width/2)
		if !c.ContainsX(trX(bar.X)) {
			continue
		}
		yMin := trY(0)
		yMax := trY(bar.Y)

		pts := []vg.Point{
			{X: xMin, Y: yMin},
			{X: xMin, Y: yMax},
			{X: xMax, Y: yMax},
			{X: xMax, Y: yMin},
		}
		c.FillPolygon(b.Color, c.ClipPolygonY(pts))

		if b.LineStyle.Width > 0 {
			pts = append(pts, vg.Point{X: xMin, Y: yMin})
			c.StrokeLines(b.LineStyle, c.ClipLinesY(pts)...)
		}

		if i < len(b.Labels) && b.Labels[i] != "" {
			pt := vg.Point{X: trX(bar.X), Y: yMax + b.LabelOffset}
			c.FillText(b.LabelStyle, pt, b.Labels[i])
		}
	}
}

// DataRange implements the plot.DataRanger interface.
func (b *seriesBars) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = math.Inf(1), math.Inf(-1)
	ymin, ymax = 0, 0
	for _, bar := range b.Bars {
		xmin = math.Min(xmin, bar.X-b.Width/2)
		xmax = math.Max(xmax, bar.X+b.Width/2)
		ymin = math.Min(ymin, bar.Y)
		ymax = math.Max(ymax, bar.Y)
	}
	return xmin, xmax, ymin, ymax
}

// GlyphBoxes implements the plot.GlyphBoxer interface so the axes leave
// room for the value labels.
func (b *seriesBars) GlyphBoxes(plt *plot.Plot) []plot.GlyphBox {
	boxes := make([]plot.GlyphBox, 0, len(b.Labels))
	for i, label := range b.Labels {
		if i >= len(b.Bars) || label == "" {
			continue
		}
		rect := b.LabelStyle.Rectangle(label)
		rect.Min.Y += b.LabelOffset
		rect.Max.Y += b.LabelOffset
		boxes = append(boxes, plot.GlyphBox{
			X:         plt.X.Norm(b.Bars[i].X),
			Y:         plt.Y.Norm(b.Bars[i].Y),
			Rectangle: rect,
		})
	}
	return boxes
}

// Thumbnail implements the plot.Thumbnailer interface.
func (b *seriesBars) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(b.Color, c.ClipPolygonY(pts))

	if b.LineStyle.Width > 0 {
		pts = append(pts, vg.Point{X: c.Min.X, Y: c.Min.Y})
		c.StrokeLines(b.LineStyle, c.ClipLinesY(pts)...)
	}
}
