// Package wordcloud renders a word-frequency table into a raster image.
package wordcloud

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/cognicore/funstats/internal/atomicfile"
	"github.com/cognicore/funstats/pkg/funstats/analytics"
	"github.com/cognicore/funstats/pkg/funstats/internalerr"
)

const (
	DefaultWidth    = 800
	DefaultHeight   = 400
	DefaultMaxWords = 100

	minFontSize = 10.0
	maxFontSize = 72.0
	spiralStep  = 0.1
	spiralGap   = 2.0
	wordPadding = 2
)

var (
	background = color.White
	palette    = []color.RGBA{
		{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
		{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
		{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
		{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
		{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
		{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff},
	}
)

// Options sets the canvas size and how many words are drawn.
type Options struct {
	Width    int
	Height   int
	MaxWords int
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.MaxWords <= 0 {
		o.MaxWords = DefaultMaxWords
	}
	return o
}

// Placement is one word positioned on the canvas.
type Placement struct {
	Word  string
	Size  float64
	Rect  image.Rectangle
	Color color.RGBA
	dot   fixed.Point26_6
}

// Renderer lays out and draws word clouds. Faces are cached per font size.
type Renderer struct {
	opts  Options
	font  *opentype.Font
	faces map[int]font.Face
}

// NewRenderer parses the bundled Go Regular font.
func NewRenderer(opts Options) (*Renderer, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Renderer{
		opts:  opts.withDefaults(),
		font:  f,
		faces: make(map[int]font.Face),
	}, nil
}

// Close releases cached font faces.
func (r *Renderer) Close() error {
	for size, face := range r.faces {
		face.Close()
		delete(r.faces, size)
	}
	return nil
}

func (r *Renderer) face(size int) (font.Face, error) {
	if face, ok := r.faces[size]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font face %d: %w", size, err)
	}
	r.faces[size] = face
	return face, nil
}

// Layout places the most frequent words on an Archimedean spiral around the
// canvas centre, biggest first. Words that do not fit anywhere are skipped.
// The result depends only on counts and options.
func (r *Renderer) Layout(counts []analytics.Count) ([]Placement, error) {
	if len(counts) > r.opts.MaxWords {
		counts = counts[:r.opts.MaxWords]
	}
	if len(counts) == 0 {
		return nil, nil
	}

	maxCount := counts[0].Count
	minCount := counts[len(counts)-1].Count
	bounds := image.Rect(0, 0, r.opts.Width, r.opts.Height)
	cx, cy := float64(r.opts.Width)/2, float64(r.opts.Height)/2
	maxRadius := math.Hypot(cx, cy)

	var placed []Placement
	for i, c := range counts {
		if c.Count <= 0 || c.Key == "" {
			continue
		}
		size := fontSize(c.Count, minCount, maxCount)
		face, err := r.face(size)
		if err != nil {
			return nil, err
		}

		w := font.MeasureString(face, c.Key).Ceil()
		m := face.Metrics()
		ascent, h := m.Ascent.Ceil(), m.Ascent.Ceil()+m.Descent.Ceil()

		for t := 0.0; ; t += spiralStep {
			radius := spiralGap * t
			if radius > maxRadius {
				break
			}
			x := int(cx+radius*math.Cos(t)) - w/2
			y := int(cy+radius*math.Sin(t)) - h/2
			rect := image.Rect(x, y, x+w, y+h)
			if !rect.In(bounds) || collides(rect, placed) {
				continue
			}
			placed = append(placed, Placement{
				Word:  c.Key,
				Size:  float64(size),
				Rect:  rect,
				Color: palette[i%len(palette)],
				dot:   fixed.P(x, y+ascent),
			})
			break
		}
	}
	return placed, nil
}

// Render lays out counts and draws them on a fresh canvas.
func (r *Renderer) Render(counts []analytics.Count) (*image.RGBA, error) {
	placements, err := r.Layout(counts)
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, r.opts.Width, r.opts.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	for _, p := range placements {
		face, err := r.face(int(p.Size))
		if err != nil {
			return nil, err
		}
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(p.Color),
			Face: face,
			Dot:  p.dot,
		}
		d.DrawString(p.Word)
	}
	return img, nil
}

// Encode writes the cloud for counts to w as PNG.
func (r *Renderer) Encode(w io.Writer, counts []analytics.Count) error {
	img, err := r.Render(counts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// WriteFile renders counts and atomically replaces the PNG at path.
func (r *Renderer) WriteFile(path string, counts []analytics.Count) error {
	if path == "" {
		return fmt.Errorf("%w: empty word cloud path", internalerr.ErrInvalidInput)
	}
	if err := atomicfile.Write(path, 0o644, func(w io.Writer) error {
		return r.Encode(w, counts)
	}); err != nil {
		return fmt.Errorf("write word cloud: %w", err)
	}
	return nil
}

func fontSize(count, minCount, maxCount int) int {
	if maxCount <= minCount {
		return int(maxFontSize)
	}
	ratio := float64(count-minCount) / float64(maxCount-minCount)
	return int(math.Round(minFontSize + ratio*(maxFontSize-minFontSize)))
}

func collides(rect image.Rectangle, placed []Placement) bool {
	padded := rect.Inset(-wordPadding)
	for _, p := range placed {
		if padded.Overlaps(p.Rect) {
			return true
		}
	}
	return false
}
