package sizing

import (
	"errors"
	"testing"

	"github.com/matzehuels/stackgraph/pkg/diagram"
	"github.com/matzehuels/stackgraph/pkg/textmetrics"
)

// unit measures one unit of width per rune and one unit of height per
// point of font size.
var unit = textmetrics.Fixed{CharWidth: 1, LineHeight: 1}

func model(t *testing.T, fn func(b *diagram.Builder)) *diagram.Model {
	t.Helper()
	b := diagram.NewBuilder()
	fn(b)
	m, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestSizeNodes(t *testing.T) {
	m := model(t, func(b *diagram.Builder) {
		b.InsertOrUpdateNode(diagram.Node{ID: "a", Label: "a fairly long label", Shape: diagram.ShapeRounded})
		b.InsertOrUpdateNode(diagram.Node{ID: "b"})
	})
	opts := Options{IDFontSize: 2, LabelFontSize: 4, PaddingX: 10, PaddingY: 10, MinWidth: 50, MinHeight: 20}

	s, err := Size(m, unit, opts)
	if err != nil {
		t.Fatalf("Size() error = %v", err)
	}

	// label: 19 runes * 4 = 76 wide, 4 tall; id: 2 wide, 2 tall.
	if got, want := s.Box(0).Size, (diagram.Size{W: 96, H: 26}); got != want {
		t.Errorf("Box(a) = %v, want %v", got, want)
	}
	if got := s.Box(0).LabelText; got != (diagram.Size{W: 76, H: 4}) {
		t.Errorf("LabelText = %v", got)
	}
	// b: narrow text, clamped to the minimum width.
	if got, want := s.Box(1).Size, (diagram.Size{W: 50, H: 22}); got != want {
		t.Errorf("Box(b) = %v, want %v", got, want)
	}
	if s.Box(1).LabelText != (diagram.Size{}) {
		t.Errorf("unlabelled node has label extent %v", s.Box(1).LabelText)
	}
}

func TestSizeWidthFollowsWiderLine(t *testing.T) {
	m := model(t, func(b *diagram.Builder) {
		b.InsertOrUpdateNode(diagram.Node{ID: "a_very_long_identifier", Label: "x"})
	})
	opts := DefaultOptions()
	opts.MinWidth, opts.MinHeight = 0, 0
	s, err := Size(m, unit, opts)
	if err != nil {
		t.Fatal(err)
	}
	want := 22*opts.IDFontSize + 2*opts.PaddingX
	if got := s.Box(0).W; got != want {
		t.Errorf("W = %v, want %v", got, want)
	}
}

func TestSizeEdgeLabels(t *testing.T) {
	m := model(t, func(b *diagram.Builder) {
		b.AddEdge("a", "b", diagram.EdgeStyle{Label: "yes"})
		b.AddEdge("b", "c", diagram.EdgeStyle{})
	})
	s, err := Size(m, unit, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if got := s.EdgeLabel(0); got != (diagram.Size{W: 24, H: 8}) {
		t.Errorf("EdgeLabel(0) = %v, want {24 8}", got)
	}
	if got := s.EdgeLabel(1); got != (diagram.Size{}) {
		t.Errorf("EdgeLabel(1) = %v, want zero", got)
	}
}

func TestSizeMeasurementFailure(t *testing.T) {
	m := model(t, func(b *diagram.Builder) {
		b.InsertOrUpdateNode(diagram.Node{ID: "ok"})
		b.InsertOrUpdateNode(diagram.Node{ID: "bad", Label: "boom"})
	})
	failing := textmetrics.Func(func(text string, size float64) (diagram.Size, error) {
		if text == "boom" {
			return diagram.Size{}, textmetrics.ErrMeasurement
		}
		return unit.Measure(text, size)
	})
	_, err := Size(m, failing, DefaultOptions())
	if !errors.Is(err, textmetrics.ErrMeasurement) {
		t.Fatalf("Size() error = %v, want ErrMeasurement", err)
	}
	if got, want := err.Error(), `size node "bad": text measurement failed`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestSizeZeroOptionsUseDefaults(t *testing.T) {
	m := model(t, func(b *diagram.Builder) {
		b.AddEdge("n0", "n5", diagram.EdgeStyle{Label: "go"})
	})
	got, err := Size(m, unit, Options{})
	if err != nil {
		t.Fatalf("Size() with zero options error = %v", err)
	}
	want, err := Size(m, unit, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < m.NodeCount(); i++ {
		if got.Box(i) != want.Box(i) {
			t.Errorf("Box(%d) = %v, want %v", i, got.Box(i), want.Box(i))
		}
	}
	if got.EdgeLabel(0) != want.EdgeLabel(0) {
		t.Errorf("EdgeLabel(0) = %v, want %v", got.EdgeLabel(0), want.EdgeLabel(0))
	}
}

func TestSizeMissingFontSizeUsesDefault(t *testing.T) {
	m := model(t, func(b *diagram.Builder) {
		b.InsertOrUpdateNode(diagram.Node{ID: "abc"})
	})
	opts := Options{PaddingX: 1, PaddingY: 1}
	s, err := Size(m, unit, opts)
	if err != nil {
		t.Fatalf("Size() error = %v", err)
	}
	d := DefaultOptions()
	if got, want := s.Box(0).IDText, (diagram.Size{W: 3 * d.IDFontSize, H: d.IDFontSize}); got != want {
		t.Errorf("IDText = %v, want %v", got, want)
	}
}
