package diagram

import (
	"fmt"
	"slices"
)

// The enums marshal to their lowercase names so they read well in JSON
// and TOML.

func lookupName(kind string, names []string, b []byte) (int, error) {
	i := slices.Index(names, string(b))
	if i < 0 {
		return 0, fmt.Errorf("unknown %s %q", kind, b)
	}
	return i, nil
}

func (s Shape) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Shape) UnmarshalText(b []byte) error {
	i, err := lookupName("shape", shapeNames[:], b)
	*s = Shape(i)
	return err
}

func (l LineStyle) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

func (l *LineStyle) UnmarshalText(b []byte) error {
	i, err := lookupName("line style", lineNames[:], b)
	*l = LineStyle(i)
	return err
}

func (h Head) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

func (h *Head) UnmarshalText(b []byte) error {
	i, err := lookupName("head", headNames[:], b)
	*h = Head(i)
	return err
}

func (p Provenance) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Provenance) UnmarshalText(b []byte) error {
	i, err := lookupName("provenance", []string{"implicit", "explicit"}, b)
	*p = Provenance(i)
	return err
}

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	*d = v
	return err
}
