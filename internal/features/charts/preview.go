package charts

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/go-fonts/liberation/liberationsansbold"
	"github.com/go-fonts/liberation/liberationsansregular"
	"github.com/go-fonts/liberation/liberationserifbold"
	"github.com/go-fonts/liberation/liberationserifregular"
	"github.com/golang/freetype/truetype"
	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot/vg"
)

// Plot area margins at 100 DPI; scaled with the preview DPI.
const (
	previewMarginLeft   = 70.0
	previewMarginRight  = 20.0
	previewMarginTop    = 40.0
	previewMarginBottom = 45.0

	previewTickLength     = 4.0
	previewLabelOffsetY   = 3.0
	previewLegendPadding  = 6.0
	previewLegendSwatchW  = 22.0
	previewLegendSwatchH  = 10.0
	previewLegendRowSpace = 18.0
)

var (
	fontsOnce sync.Once
	fontsErr  error
	ttfFonts  map[string]*truetype.Font
)

func loadFonts() error {
	fontsOnce.Do(func() {
		sources := map[string][]byte{
			"Serif":      liberationserifregular.TTF,
			"Serif-Bold": liberationserifbold.TTF,
			"Sans":       liberationsansregular.TTF,
			"Sans-Bold":  liberationsansbold.TTF,
		}
		ttfFonts = make(map[string]*truetype.Font, len(sources))
		for name, data := range sources {
			f, err := truetype.Parse(data)
			if err != nil {
				fontsErr = fmt.Errorf("failed to parse font %s: %w", name, err)
				return
			}
			ttfFonts[name] = f
		}
	})
	return fontsErr
}

func previewFace(spec Spec, bold bool) xfont.Face {
	name := string(spec.Variant)
	if _, ok := ttfFonts[name]; !ok {
		name = "Serif"
	}
	if bold {
		name += "-Bold"
	}
	return truetype.NewFace(ttfFonts[name], &truetype.Options{
		Size: spec.FontSize.Points(),
		DPI:  spec.PreviewDPI,
	})
}

// PreviewSize returns the pixel dimensions of the raster preview.
func PreviewSize(spec Spec) (int, int) {
	return int(math.Round(float64(spec.Width/vg.Inch) * spec.PreviewDPI)),
		int(math.Round(float64(spec.Height/vg.Inch) * spec.PreviewDPI))
}

// WritePreview draws the layout as a PNG. It is a raster rendition of the
// same geometry the PDF uses, meant for on-screen display and chat delivery.
func WritePreview(w io.Writer, l *Layout, spec Spec) error {
	if err := loadFonts(); err != nil {
		return err
	}
	if spec.PreviewDPI <= 0 {
		return fmt.Errorf("preview dpi must be positive, got %v", spec.PreviewDPI)
	}

	width, height := PreviewSize(spec)
	scale := spec.PreviewDPI / 100
	dc := gg.NewContext(width, height)

	dc.SetColor(color.White)
	dc.Clear()

	regular := previewFace(spec, false)
	heading := previewFace(spec, spec.BoldLabels)

	left := previewMarginLeft * scale
	right := float64(width) - previewMarginRight*scale
	top := previewMarginTop * scale
	bottom := float64(height) - previewMarginBottom*scale

	toX := func(x float64) float64 {
		return left + (x-l.XMin)/(l.XMax-l.XMin)*(right-left)
	}
	toY := func(y float64) float64 {
		return bottom - (y-l.YMin)/(l.YMax-l.YMin)*(bottom-top)
	}

	// Bars with edges and value labels
	dc.SetFontFace(regular)
	for _, bar := range l.Bars {
		x0, x1 := toX(bar.X-bar.Width/2), toX(bar.X+bar.Width/2)
		y0, y1 := toY(0), toY(bar.Height)

		dc.DrawRectangle(x0, y1, x1-x0, y0-y1)
		dc.SetColor(bar.Color)
		dc.FillPreserve()
		dc.SetColor(spec.edgeColor())
		dc.SetLineWidth(spec.EdgeWidth.Points() * scale)
		dc.Stroke()

		dc.DrawStringAnchored(bar.Label, toX(bar.X), y1-previewLabelOffsetY*scale, 0.5, 0)
	}

	// Axes
	dc.SetColor(color.Black)
	dc.SetLineWidth(scale)
	dc.DrawRectangle(left, top, right-left, bottom-top)
	dc.Stroke()

	for _, tick := range l.ValueTicks {
		y := toY(tick.Value)
		dc.DrawLine(left-previewTickLength*scale, y, left, y)
		dc.Stroke()
		dc.DrawStringAnchored(tick.Label, left-(previewTickLength+2)*scale, y, 1, 0.35)
	}
	for _, tick := range l.CategoryTicks {
		x := toX(tick.Value)
		dc.DrawLine(x, bottom, x, bottom+previewTickLength*scale)
		dc.Stroke()
		dc.DrawStringAnchored(tick.Label, x, bottom+(previewTickLength+2)*scale, 0.5, 1)
	}

	// Title and rotated y label
	dc.SetFontFace(heading)
	dc.DrawStringAnchored(l.Title, (left+right)/2, top/2, 0.5, 0.5)

	dc.Push()
	yLabelX := 18 * scale
	yLabelY := (top + bottom) / 2
	dc.RotateAbout(gg.Radians(-90), yLabelX, yLabelY)
	dc.DrawStringAnchored(l.YLabel, yLabelX, yLabelY, 0.5, 0.5)
	dc.Pop()

	drawPreviewLegend(dc, l, spec, right, top, scale)

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode preview: %w", err)
	}
	return nil
}

// drawPreviewLegend places the legend box in the upper right corner of the
// plot area.
func drawPreviewLegend(dc *gg.Context, l *Layout, spec Spec, right, top, scale float64) {
	if len(l.Legend) == 0 {
		return
	}
	dc.SetFontFace(previewFace(spec, false))

	textWidth := 0.0
	for _, entry := range l.Legend {
		if w, _ := dc.MeasureString(entry.Label); w > textWidth {
			textWidth = w
		}
	}

	pad := previewLegendPadding * scale
	rowH := previewLegendRowSpace * scale
	boxW := pad*3 + previewLegendSwatchW*scale + textWidth
	boxH := pad*2 + rowH*float64(len(l.Legend))
	boxX := right - boxW - pad
	boxY := top + pad

	dc.DrawRectangle(boxX, boxY, boxW, boxH)
	dc.SetColor(color.White)
	dc.FillPreserve()
	dc.SetColor(color.Gray{Y: 200})
	dc.SetLineWidth(scale)
	dc.Stroke()

	for i, entry := range l.Legend {
		rowY := boxY + pad + rowH*float64(i) + rowH/2
		swatchX := boxX + pad
		dc.DrawRectangle(swatchX, rowY-previewLegendSwatchH*scale/2, previewLegendSwatchW*scale, previewLegendSwatchH*scale)
		dc.SetColor(entry.Color)
		dc.FillPreserve()
		dc.SetColor(spec.edgeColor())
		dc.Stroke()

		dc.SetColor(color.Black)
		dc.DrawStringAnchored(entry.Label, swatchX+previewLegendSwatchW*scale+pad, rowY, 0, 0.35)
	}
}
