package math

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Quat represents a quaternion for 3D rotations.
// Components are stored as X, Y, Z, W where W is the scalar part.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns an identity quaternion (no rotation).
func QuatIdentity() Quat {
	return Quat{X: 0, Y: 0, Z: 0, W: 1}
}

// QuatFromAxisAngle creates a quaternion from axis-angle rotation.
// axis should be normalized, angle is in radians.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	s, c := math32.Sincos(angle / 2)
	return Quat{X: axis.X * s, Y: axis.Y * s, Z: axis.Z * s, W: c}
}

// RotationDifference returns the shortest rotation that turns direction from
// onto direction to. Opposite directions rotate half a turn around an
// arbitrary perpendicular axis.
func RotationDifference(from, to Vec3) Quat {
	q := mgl32.QuatBetweenVectors(toMgl(from.Normalize()), toMgl(to.Normalize()))
	return Quat{X: q.V[0], Y: q.V[1], Z: q.V[2], W: q.W}
}

// Quat returns q, so that Quat satisfies Rotation.
func (q Quat) Quat() Quat {
	return q
}

// Normalize returns a normalized quaternion.
func (q Quat) Normalize() Quat {
	length := math32.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if length < 0.0001 {
		return QuatIdentity()
	}
	inv := 1.0 / length
	return Quat{X: q.X * inv, Y: q.Y * inv, Z: q.Z * inv, W: q.W * inv}
}

// Conjugate returns the inverse rotation of a unit quaternion.
func (q Quat) Conjugate() Quat {
	return Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// Dot returns the dot product of two quaternions.
func (q Quat) Dot(other Quat) float32 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

// Mul multiplies two quaternions; the result applies other first, then q.
func (q Quat) Mul(other Quat) Quat {
	return Quat{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	n := q.Normalize()
	return fromMgl(mgl32.Quat{W: n.W, V: mgl32.Vec3{n.X, n.Y, n.Z}}.Rotate(toMgl(v)))
}

// ToMat4 converts the quaternion to a 4x4 rotation matrix.
func (q Quat) ToMat4() Mat4 {
	q = q.Normalize()

	xx := q.X * q.X
	xy := q.X * q.Y
	xz := q.X * q.Z
	xw := q.X * q.W
	yy := q.Y * q.Y
	yz := q.Y * q.Z
	yw := q.Y * q.W
	zz := q.Z * q.Z
	zw := q.Z * q.W

	return Mat4{
		1 - 2*(yy+zz), 2 * (xy + zw), 2 * (xz - yw), 0,
		2 * (xy - zw), 1 - 2*(xx+zz), 2 * (yz + xw), 0,
		2 * (xz + yw), 2 * (yz - xw), 1 - 2*(xx+yy), 0,
		0, 0, 0, 1,
	}
}

// ToEuler converts the rotation to XYZ Euler angles.
func (q Quat) ToEuler() Euler {
	m := q.ToMat4()
	// Row-major view of the rotation: r[row][col] = m[col*4+row].
	r20 := m[2]
	if r20 > 0.99999 || r20 < -0.99999 {
		// Gimbal lock: fold Z into X.
		return Euler{
			X: math32.Atan2(-m[9], m[5]),
			Y: -math32.Asin(math32.Max(-1, math32.Min(1, r20))),
			Z: 0,
		}
	}
	return Euler{
		X: math32.Atan2(m[6], m[10]),
		Y: -math32.Asin(r20),
		Z: math32.Atan2(m[1], m[0]),
	}
}
