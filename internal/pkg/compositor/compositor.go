package compositor

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/imagecomposer/internal/entity"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/math/fixed"

	_ "golang.org/x/image/webp"
)

const (
	FontSize   = 70.0 // points
	FontDPI    = 96.0
	LineHeight = 70
	LogoTop    = 20

	// DefaultMaxPixels bounds the decoded size of a single layer.
	DefaultMaxPixels = 25_000_000
)

// DefaultTextColor is #444444.
var DefaultTextColor = color.NRGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xff}

var boldFont *truetype.Font

func init() {
	var err error
	boldFont, err = truetype.Parse(gobold.TTF)
	if err != nil {
		panic(fmt.Sprintf("compositor: parse bundled font: %v", err))
	}
}

// Layers are the decoded input images, bottom to top: background, overlay, logo.
type Layers struct {
	Background image.Image
	Logo       image.Image
	Overlay    image.Image
}

type Options struct {
	Text  string
	Color color.Color
}

type Result struct {
	Image  *image.NRGBA
	Layout Layout
}

type Compositor interface {
	Decode(r io.Reader) (image.Image, error)
	Compose(layers Layers, opts Options) (*Result, error)
	Render(layers Layers, opts Options) ([]byte, Layout, error)
}

type compositor struct {
	maxPixels int64
}

// NewCompositor returns a compositor that refuses to decode layers larger
// than maxPixels. A non-positive value selects DefaultMaxPixels.
func NewCompositor(maxPixels int64) Compositor {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &compositor{maxPixels: maxPixels}
}

func (c *compositor) Compose(layers Layers, opts Options) (*Result, error) {
	if layers.Background == nil || layers.Logo == nil || layers.Overlay == nil {
		return nil, fmt.Errorf("%w: missing layer", entity.ErrCompositionFailed)
	}

	width := layers.Background.Bounds().Dx()
	height := layers.Background.Bounds().Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: empty background", entity.ErrCompositionFailed)
	}

	canvas := imaging.Clone(layers.Background)

	overlay := layers.Overlay
	if b := overlay.Bounds(); b.Dx() != width || b.Dy() != height {
		overlay = imaging.Resize(overlay, width, height, imaging.Lanczos)
	}
	canvas = imaging.Overlay(canvas, overlay, image.Pt(0, 0), 1.0)

	logoX := (width - layers.Logo.Bounds().Dx()) / 2
	canvas = imaging.Overlay(canvas, layers.Logo, image.Pt(logoX, LogoTop), 1.0)

	face := newFace()
	defer face.Close()

	lines := Wrap(opts.Text, float64(width), faceMeasure(face))
	layout := NewLayout(lines, width, height)

	fill := opts.Color
	if fill == nil {
		fill = DefaultTextColor
	}
	drawLines(canvas, face, layout, fill)

	return &Result{Image: canvas, Layout: layout}, nil
}

func (c *compositor) Render(layers Layers, opts Options) ([]byte, Layout, error) {
	res, err := c.Compose(layers, opts)
	if err != nil {
		return nil, Layout{}, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, res.Image, imaging.PNG); err != nil {
		return nil, Layout{}, fmt.Errorf("%w: encode png: %v", entity.ErrCompositionFailed, err)
	}
	return buf.Bytes(), res.Layout, nil
}

// Decode reads the image header first and only decodes the pixels when the
// dimensions fit within the pixel limit.
func (c *compositor) Decode(r io.Reader) (image.Image, error) {
	var header bytes.Buffer
	cfg, _, err := image.DecodeConfig(io.TeeReader(r, &header))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrCompositionFailed, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: empty image", entity.ErrCompositionFailed)
	}
	if int64(cfg.Width)*int64(cfg.Height) > c.maxPixels {
		return nil, fmt.Errorf("%w: image is %dx%d, limit is %d pixels",
			entity.ErrCompositionFailed, cfg.Width, cfg.Height, c.maxPixels)
	}

	img, err := imaging.Decode(io.MultiReader(&header, r))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrCompositionFailed, err)
	}
	return img, nil
}

func newFace() font.Face {
	return truetype.NewFace(boldFont, &truetype.Options{
		Size:    FontSize,
		DPI:     FontDPI,
		Hinting: font.HintingFull,
	})
}

func faceMeasure(face font.Face) MeasureFunc {
	return func(s string) float64 {
		return fixedToFloat(font.MeasureString(face, s))
	}
}

// drawLines centres every line on x = width/2 with its vertical middle on
// layout.LineY(i).
func drawLines(dst *image.NRGBA, face font.Face, layout Layout, fill color.Color) {
	metrics := face.Metrics()
	middleOffset := (metrics.Ascent - metrics.Descent) / 2

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(fill),
		Face: face,
	}

	centerX := fixed.I(layout.Width) / 2
	for i, line := range layout.Lines {
		advance := d.MeasureString(line)
		d.Dot = fixed.Point26_6{
			X: centerX - advance/2,
			Y: floatToFixed(layout.LineY(i)) + middleOffset,
		}
		d.DrawString(line)
	}
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}
