package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	// Translation lives in column 4 (indices 12, 13, 14)
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestTransformVec3(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		in   Vec3
		want Vec3
	}{
		{"translate", Translate(10, 20, 30), Vec3{1, 2, 3}, Vec3{11, 22, 33}},
		{"scale", Scale(2, 2, 2), Vec3{1, 2, 3}, Vec3{2, 4, 6}},
		{"rotate z 90", RotateZ(math.Pi / 2), Vec3{1, 0, 0}, Vec3{0, 1, 0}},
		{"rotate y 90", RotateY(math.Pi / 2), Vec3{1, 0, 0}, Vec3{0, 0, -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.TransformVec3(tt.in)
			if !got.ApproxEqual(tt.want, 1e-5) {
				t.Errorf("TransformVec3() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransformDirectionIgnoresTranslation(t *testing.T) {
	m := Translate(5, 5, 5).Mul(Scale(2, 1, 1))
	got := m.TransformDirection(Vec3{1, 1, 0})
	if got != (Vec3{2, 1, 0}) {
		t.Errorf("TransformDirection() = %v, want (2, 1, 0)", got)
	}
}

func TestInverse(t *testing.T) {
	m := Compose(Vec3{1, -2, 3}, Euler{X: 0.3, Y: -0.7, Z: 1.1}, Vec3{2, 0.5, 3})
	p := Vec3{0.25, 4, -1}

	back := m.Inverse().TransformVec3(m.TransformVec3(p))
	if !back.ApproxEqual(p, 1e-4) {
		t.Errorf("inverse round trip: got %v, want %v", back, p)
	}
}

func TestInverseSingular(t *testing.T) {
	if got := Scale(0, 1, 1).Inverse(); got != Identity() {
		t.Errorf("singular inverse should be identity, got %v", got)
	}
}

func TestComposeOrder(t *testing.T) {
	// Scale first, then rotate 90° around Z, then translate.
	m := Compose(Vec3{10, 0, 0}, Euler{Z: math.Pi / 2}, Vec3{2, 2, 2})
	got := m.TransformVec3(Vec3{1, 0, 0})
	want := Vec3{10, 2, 0}
	if !got.ApproxEqual(want, 1e-5) {
		t.Errorf("Compose: got %v, want %v", got, want)
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(float32(math.Pi/4), 1, 0.1, 100)

	if m[0] == 0 || m[5] == 0 {
		t.Error("Perspective should have non-zero elements")
	}
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
}

func TestLookAt(t *testing.T) {
	m := LookAt(Vec3{0, 0, 5}, Vec3{}, Vec3{0, 1, 0})

	// The eye maps to the view-space origin.
	got := m.TransformVec3(Vec3{0, 0, 5})
	if !got.ApproxEqual(Vec3{}, 1e-5) {
		t.Errorf("LookAt eye: got %v, want origin", got)
	}
}
