package charts

import (
	"fmt"
	"sync"

	"github.com/go-fonts/liberation/liberationmonobold"
	"github.com/go-fonts/liberation/liberationsansbold"
	"github.com/go-fonts/liberation/liberationserifbold"
	"golang.org/x/image/font/opentype"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/font/liberation"
	"gonum.org/v1/plot/text"
)

// boldSuffix marks the variants that carry a bold face at normal weight.
// The PDF canvas asks its backend for a "B" style whenever a font has a bold
// weight, and the backend only registers faces without a style, so bold text
// has to reach it as a distinct regular face.
const boldSuffix = "Bold"

var (
	chartFontsOnce sync.Once
	chartFontsErr  error
	chartFonts     *font.Cache
)

// fontCache returns the Liberation collection plus the bold variants
// ("SerifBold", "SansBold", "MonoBold") registered at normal weight.
func fontCache() (*font.Cache, error) {
	chartFontsOnce.Do(func() {
		cache := font.NewCache(liberation.Collection())
		sources := []struct {
			variant font.Variant
			ttf     []byte
		}{
			{"Serif" + boldSuffix, liberationserifbold.TTF},
			{"Sans" + boldSuffix, liberationsansbold.TTF},
			{"Mono" + boldSuffix, liberationmonobold.TTF},
		}
		coll := make(font.Collection, 0, len(sources))
		for _, src := range sources {
			face, err := opentype.Parse(src.ttf)
			if err != nil {
				chartFontsErr = fmt.Errorf("failed to parse font %s: %w", src.variant, err)
				return
			}
			coll = append(coll, font.Face{
				Font: font.Font{Typeface: "Liberation", Variant: src.variant},
				Face: face,
			})
		}
		cache.Add(coll)
		chartFonts = cache
	})
	return chartFonts, chartFontsErr
}

// textHandler lays out chart text with the chart font cache.
func textHandler() (text.Handler, error) {
	cache, err := fontCache()
	if err != nil {
		return nil, err
	}
	return text.Plain{Fonts: cache}, nil
}

// headingFont is the title and axis label font. Bold goes through the bold
// variant, never through the weight.
func headingFont(spec Spec) font.Font {
	fnt := font.Font{Typeface: spec.Typeface, Variant: spec.Variant, Size: spec.FontSize}
	if spec.BoldLabels {
		fnt.Variant += boldSuffix
	}
	return fnt
}
