package charts

import (
	"fmt"
	"image/color"
	"io"

	"pim-speedup/internal/features/speedup"
	"pim-speedup/internal/infra/fs"
	logging "pim-speedup/internal/infra/log"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgpdf"
)

// DefaultPDFPath is where the chart is exported when no path is configured.
const DefaultPDFPath = "mix.pdf"

// Renderer turns a dataset into a PDF chart and, optionally, a PNG preview.
type Renderer struct {
	PDFPath string
	// PreviewPath is skipped when empty.
	PreviewPath string
}

// Artifact describes the files produced by one Render call.
type Artifact struct {
	PDFPath     string
	PDFSize     int64
	PreviewPath string
	PreviewSize int64
	Layout      *Layout
}

// Render lays out ds with spec and writes the configured files.
func (r Renderer) Render(ds speedup.Dataset, spec Spec) (*Artifact, error) {
	layout, err := NewLayout(ds, spec)
	if err != nil {
		return nil, fmt.Errorf("failed to lay out chart: %w", err)
	}

	pdfPath := r.PDFPath
	if pdfPath == "" {
		pdfPath = DefaultPDFPath
	}

	pdfSize, err := fs.SaveArtifact(pdfPath, func(w io.Writer) error {
		return WritePDF(w, layout, spec)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save chart: %w", err)
	}

	artifact := &Artifact{
		PDFPath: pdfPath,
		PDFSize: pdfSize,
		Layout:  layout,
	}

	if r.PreviewPath != "" {
		previewSize, err := fs.SaveArtifact(r.PreviewPath, func(w io.Writer) error {
			return WritePreview(w, layout, spec)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to save chart preview: %w", err)
		}
		artifact.PreviewPath = r.PreviewPath
		artifact.PreviewSize = previewSize
	}

	logging.LogInfo("Chart rendered",
		zap.String("pdf", artifact.PDFPath),
		zap.Int64("pdfSize", artifact.PDFSize),
		zap.String("preview", artifact.PreviewPath),
		zap.Int("barsCount", len(layout.Bars)))

	return artifact, nil
}

// WritePDF draws the layout on a single PDF page of spec.Width × spec.Height.
func WritePDF(w io.Writer, l *Layout, spec Spec) error {
	p, err := newPlot(l, spec)
	if err != nil {
		return err
	}

	c := vgpdf.New(spec.Width, spec.Height)
	c.EmbedFonts(true)
	p.Draw(draw.New(c))

	if _, err := c.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

func newPlot(l *Layout, spec Spec) (*plot.Plot, error) {
	hdlr, err := textHandler()
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.BackgroundColor = color.White
	p.TextHandler = hdlr

	regular := font.Font{
		Typeface: spec.Typeface,
		Variant:  spec.Variant,
		Size:     spec.FontSize,
	}
	heading := headingFont(spec)

	p.Title.Text = l.Title
	p.Title.TextStyle.Font = heading
	p.Title.TextStyle.Handler = hdlr
	p.Y.Label.Text = l.YLabel
	p.Y.Label.TextStyle.Font = heading
	p.Y.Label.TextStyle.Handler = hdlr
	p.X.Label.TextStyle.Handler = hdlr
	p.X.Tick.Label.Font = regular
	p.X.Tick.Label.Handler = hdlr
	p.Y.Tick.Label.Font = regular
	p.Y.Tick.Label.Handler = hdlr
	p.Legend.TextStyle.Font = regular
	p.Legend.TextStyle.Handler = hdlr

	p.X.Tick.Marker = plot.ConstantTicks(plotTicks(l.CategoryTicks))
	p.Y.Tick.Marker = plot.ConstantTicks(plotTicks(l.ValueTicks))
	p.Legend.Top = true

	labelStyle := text.Style{
		Color:   color.Black,
		Font:    regular,
		Handler: hdlr,
	}

	for s, entry := range l.Legend {
		bars, err := newSeriesBars(l.SeriesBars(s), labelStyle, spec)
		if err != nil {
			return nil, fmt.Errorf("failed to create bars for %q: %w", entry.Label, err)
		}
		p.Add(bars)
		p.Legend.Add(entry.Label, bars)
	}

	// Fixed ranges keep the page identical across runs and leave headroom
	// for the tallest bar's label.
	p.X.Min, p.X.Max = l.XMin, l.XMax
	p.Y.Min, p.Y.Max = l.YMin, l.YMax

	return p, nil
}

func plotTicks(ticks []Tick) []plot.Tick {
	out := make([]plot.Tick, len(ticks))
	for i, t := range ticks {
		out[i] = plot.Tick{Value: t.Value, Label: t.Label}
	}
	return out
}
