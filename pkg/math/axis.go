package math

import (
	"fmt"
	"strings"
)

// Axis names a coordinate axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// String returns "X", "Y" or "Z".
func (a Axis) String() string {
	switch a {
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	default:
		return "X"
	}
}

// Unit returns the unit vector along the axis.
func (a Axis) Unit() Vec3 {
	return Vec3{}.WithComponent(a, 1)
}

// ParseAxis parses "X", "Y" or "Z" (case-insensitive).
func ParseAxis(s string) (Axis, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "X":
		return AxisX, nil
	case "Y":
		return AxisY, nil
	case "Z":
		return AxisZ, nil
	}
	return AxisX, fmt.Errorf("invalid axis %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (a Axis) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Axis) UnmarshalText(text []byte) error {
	parsed, err := ParseAxis(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
