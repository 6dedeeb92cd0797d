// Package fonts provides the typeface used for tile labels.
//
// Labels are set in Go Regular, which ships with golang.org/x/image, so
// rendering a PNG needs no system fonts. SVG output names the same family
// first in its CSS and falls back to common sans-serif faces.
package fonts

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// FontFamily is the CSS font-family list for SVG labels.
const FontFamily = `'Go', 'Helvetica Neue', Arial, sans-serif`

// LabelSize is the label size in points at scale 1.
const LabelSize = 11

var (
	regular    *truetype.Font
	regularErr error
	parseOnce  sync.Once
)

// Regular returns the parsed Go Regular font. It is parsed once.
func Regular() (*truetype.Font, error) {
	parseOnce.Do(func() {
		regular, regularErr = truetype.Parse(goregular.TTF)
	})
	return regular, regularErr
}

// Face returns a Go Regular face of the given size in points.
func Face(size float64) (font.Face, error) {
	f, err := Regular()
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, Hinting: font.HintingFull}), nil
}
