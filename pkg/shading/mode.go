package shading

import "fmt"

// Mode selects where the shading equation is evaluated.
type Mode int

const (
	PerFragment Mode = iota // Phong shading: evaluate per fragment (default)
	PerVertex               // Gouraud shading: evaluate per vertex, interpolate the color
)

var modeNames = map[Mode]string{
	PerFragment: "per-fragment",
	PerVertex:   "per-vertex",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses "per-fragment" or "per-vertex".
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown shading mode %q (want per-fragment or per-vertex)", s)
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == PerVertex {
		return PerFragment
	}
	return PerVertex
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if _, ok := modeNames[m]; !ok {
		return nil, fmt.Errorf("invalid shading mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
