package math

import (
	"testing"
)

func TestVec3Cross(t *testing.T) {
	got := Vec3{1, 0, 0}.Cross(Vec3{0, 1, 0})
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	l := Vec3{3, 4, 12}.Normalize().Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("zero vector should normalize to zero")
	}
}

func TestVec3Component(t *testing.T) {
	v := Vec3{1, 2, 3}
	for axis, want := range map[Axis]float32{AxisX: 1, AxisY: 2, AxisZ: 3} {
		if got := v.Component(axis); got != want {
			t.Errorf("Component(%v) = %v, want %v", axis, got, want)
		}
	}
	if got := v.WithComponent(AxisY, -5); got != (Vec3{1, -5, 3}) {
		t.Errorf("WithComponent = %v", got)
	}
}

func TestParseAxis(t *testing.T) {
	tests := []struct {
		in      string
		want    Axis
		wantErr bool
	}{
		{"X", AxisX, false},
		{"y", AxisY, false},
		{" Z ", AxisZ, false},
		{"W", AxisX, true},
	}
	for _, tt := range tests {
		got, err := ParseAxis(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAxis(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAxis(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
