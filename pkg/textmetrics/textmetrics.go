// Package textmetrics measures rendered text extents for node sizing.
//
// Sizing needs to know how wide and tall a string will be in the font the
// document embeds. [TrueType] answers that from real glyph advances;
// [Fixed] is a monospace estimate used where no font data is available.
package textmetrics

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"unicode/utf8"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/stackgraph/pkg/diagram"
	"github.com/matzehuels/stackgraph/pkg/fonts"
)

// ErrMeasurement is returned when a measurer cannot produce a size.
var ErrMeasurement = errors.New("text measurement failed")

// Measurer returns the extent of text rendered at a font size.
// Implementations must be safe for concurrent use.
type Measurer interface {
	Measure(text string, size float64) (diagram.Size, error)
}

func checkInput(text string, size float64) error {
	if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		return fmt.Errorf("%w: invalid font size %v", ErrMeasurement, size)
	}
	if !utf8.ValidString(text) {
		return fmt.Errorf("%w: text is not valid UTF-8", ErrMeasurement)
	}
	return nil
}

// TrueType measures text with a parsed TrueType font. Faces are created
// lazily per size and cached.
type TrueType struct {
	font *truetype.Font

	mu    sync.Mutex
	faces map[float64]font.Face
}

// NewTrueType parses ttf and returns a measurer for it.
func NewTrueType(ttf []byte) (*TrueType, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("%w: parse font: %v", ErrMeasurement, err)
	}
	return &TrueType{font: f, faces: make(map[float64]font.Face)}, nil
}

var (
	defaultTT     *TrueType
	defaultTTErr  error
	defaultTTOnce sync.Once
)

// Default returns a shared measurer for the embedded document font.
func Default() (*TrueType, error) {
	defaultTTOnce.Do(func() {
		defaultTT, defaultTTErr = NewTrueType(fonts.GoMonoTTF())
	})
	return defaultTT, defaultTTErr
}

func (t *TrueType) face(size float64) font.Face {
	f, ok := t.faces[size]
	if !ok {
		f = truetype.NewFace(t.font, &truetype.Options{Size: size, DPI: 72})
		t.faces[size] = f
	}
	return f
}

// Measure returns the advance width of text and the ascent plus descent
// of the face at size.
func (t *TrueType) Measure(text string, size float64) (diagram.Size, error) {
	if err := checkInput(text, size); err != nil {
		return diagram.Size{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	f := t.face(size)
	m := f.Metrics()
	return diagram.Size{
		W: toFloat(font.MeasureString(f, text)),
		H: toFloat(m.Ascent + m.Descent),
	}, nil
}

func toFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

// Fixed estimates extents from a constant per-character width.
type Fixed struct {
	CharWidth  float64 // Advance per rune as a fraction of the font size
	LineHeight float64 // Line height as a fraction of the font size
}

// DefaultFixed approximates a monospace font.
var DefaultFixed = Fixed{CharWidth: 0.6, LineHeight: 1.2}

// Measure implements Measurer.
func (f Fixed) Measure(text string, size float64) (diagram.Size, error) {
	if err := checkInput(text, size); err != nil {
		return diagram.Size{}, err
	}
	return diagram.Size{
		W: float64(utf8.RuneCountInString(text)) * size * f.CharWidth,
		H: size * f.LineHeight,
	}, nil
}

// Func adapts a function to the Measurer interface.
type Func func(text string, size float64) (diagram.Size, error)

// Measure calls fn.
func (fn Func) Measure(text string, size float64) (diagram.Size, error) { return fn(text, size) }
