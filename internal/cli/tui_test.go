package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/stackgraph/pkg/compiler"
)

func inspectModel(t *testing.T, src string) InspectModel {
	t.Helper()
	res, err := compiler.New()
	if err != nil {
		t.Fatal(err)
	}
	out, err := res.Compile(context.Background(), src)
	if err != nil {
		t.Fatalf("Compile(%q) error = %v", src, err)
	}
	return NewInspectModel("test", out.Diagram)
}

func TestNodeRows(t *testing.T) {
	m := inspectModel(t, "a(Start) --> b\nb --> c[Done]")
	if len(m.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(m.Rows))
	}
	tests := []struct {
		id       string
		shape    string
		implicit bool
		rank     int
		degree   int
	}{
		{"a", "rounded", true, 0, 1},
		{"b", "empty", true, 1, 2},
		{"c", "square", true, 2, 1},
	}
	for i, tt := range tests {
		r := m.Rows[i]
		if r.ID != tt.id || r.Shape != tt.shape || r.Implicit != tt.implicit || r.Rank != tt.rank || r.Degree != tt.degree {
			t.Errorf("row %d = %+v, want %+v", i, r, tt)
		}
	}
}

func TestNodeRowsExplicitDeclaration(t *testing.T) {
	m := inspectModel(t, "a(Start) --> b\nb[Work]")
	if m.Rows[0].Implicit != true {
		t.Errorf("inline endpoint a: Implicit = false, want true")
	}
	if r := m.Rows[1]; r.Implicit || r.Label != "Work" || r.Shape != "square" {
		t.Errorf("declared node b = %+v, want explicit square labelled Work", r)
	}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInspectModelNavigation(t *testing.T) {
	m := inspectModel(t, "a --> b --> c --> d")
	m.Height = 2

	step := func(msg tea.Msg) {
		next, _ := m.Update(msg)
		m = next.(InspectModel)
	}
	step(key("j"))
	step(key("j"))
	if m.Cursor != 2 || m.Offset != 1 {
		t.Errorf("after j j: cursor %d offset %d, want 2 1", m.Cursor, m.Offset)
	}
	step(key("G"))
	if m.Cursor != 3 || m.Offset != 2 {
		t.Errorf("after G: cursor %d offset %d, want 3 2", m.Cursor, m.Offset)
	}
	step(key("k"))
	step(key("g"))
	if m.Cursor != 0 || m.Offset != 0 {
		t.Errorf("after g: cursor %d offset %d, want 0 0", m.Cursor, m.Offset)
	}
	step(key("j"))
	step(key("j"))
	step(key("j"))
	step(key("j"))
	if m.Cursor != 3 {
		t.Errorf("cursor past end = %d, want 3", m.Cursor)
	}

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestInspectModelView(t *testing.T) {
	m := inspectModel(t, "alpha(First) --> beta")
	view := m.View()
	for _, want := range []string{"alpha", "First", "beta", "[1/2]"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
	if static := m.Static(); !strings.Contains(static, "beta") || strings.Contains(static, "▸") {
		t.Errorf("Static() = %q", static)
	}
}

func TestInspectModelEmpty(t *testing.T) {
	m := inspectModel(t, "")
	if !strings.Contains(m.View(), "empty diagram") {
		t.Error("empty model should say so")
	}
}
