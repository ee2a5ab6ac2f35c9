package math

import "github.com/go-gl/mathgl/mgl32"

// Mat4 is a 4x4 matrix in column-major order (OpenGL compatible).
// Layout: [m0 m4 m8  m12]
//
//	[m1 m5 m9  m13]
//	[m2 m6 m10 m14]
//	[m3 m7 m11 m15]
//
// The layout matches mgl32.Mat4, which backs the heavier operations.
type Mat4 [16]float32

// Identity returns an identity matrix.
func Identity() Mat4 {
	return Mat4(mgl32.Ident4())
}

// Perspective returns a perspective projection matrix.
// fovY is in radians, aspect is width/height.
func Perspective(fovY, aspect, near, far float32) Mat4 {
	return Mat4(mgl32.Perspective(fovY, aspect, near, far))
}

// LookAt returns a view matrix looking from eye to center with up direction.
func LookAt(eye, center, up Vec3) Mat4 {
	return Mat4(mgl32.LookAtV(toMgl(eye), toMgl(center), toMgl(up)))
}

// Translate returns a translation matrix.
func Translate(x, y, z float32) Mat4 {
	return Mat4(mgl32.Translate3D(x, y, z))
}

// Scale returns a scale matrix.
func Scale(x, y, z float32) Mat4 {
	return Mat4(mgl32.Scale3D(x, y, z))
}

// RotateX returns a rotation matrix around the X axis (radians).
func RotateX(angle float32) Mat4 {
	return Mat4(mgl32.HomogRotate3DX(angle))
}

// RotateY returns a rotation matrix around the Y axis (radians).
func RotateY(angle float32) Mat4 {
	return Mat4(mgl32.HomogRotate3DY(angle))
}

// RotateZ returns a rotation matrix around the Z axis (radians).
func RotateZ(angle float32) Mat4 {
	return Mat4(mgl32.HomogRotate3DZ(angle))
}

// RotateAxis creates a rotation matrix around an arbitrary normalized axis.
func RotateAxis(axis Vec3, angle float32) Mat4 {
	return Mat4(mgl32.HomogRotate3D(angle, toMgl(axis)))
}

// Compose builds location * rotation * scale, the world matrix of an object.
func Compose(location Vec3, rotation Euler, scale Vec3) Mat4 {
	return Translate(location.X, location.Y, location.Z).
		Mul(rotation.Mat4()).
		Mul(Scale(scale.X, scale.Y, scale.Z))
}

// Mul multiplies this matrix by another (m * other).
func (m Mat4) Mul(other Mat4) Mat4 {
	return Mat4(mgl32.Mat4(m).Mul4(mgl32.Mat4(other)))
}

// TransformVec3 transforms a point by this matrix (w=1).
func (m Mat4) TransformVec3(v Vec3) Vec3 {
	x := m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]
	y := m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]
	z := m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]
	w := m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]
	if w != 0 && w != 1 {
		return Vec3{x / w, y / w, z / w}
	}
	return Vec3{x, y, z}
}

// TransformDirection transforms a direction by the upper-left 3x3 (no translation).
func (m Mat4) TransformDirection(d Vec3) Vec3 {
	return Vec3{
		m[0]*d.X + m[4]*d.Y + m[8]*d.Z,
		m[1]*d.X + m[5]*d.Y + m[9]*d.Z,
		m[2]*d.X + m[6]*d.Y + m[10]*d.Z,
	}
}

// Translation returns the translation column.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// Vec4 is a 4-component vector.
type Vec4 [4]float32

// MulVec4 multiplies the matrix by a Vec4.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4(mgl32.Mat4(m).Mul4x1(mgl32.Vec4(v)))
}

// Det returns the determinant.
func (m Mat4) Det() float32 {
	return mgl32.Mat4(m).Det()
}

// Inverse returns the inverse of the matrix.
// Returns identity if the matrix is singular.
func (m Mat4) Inverse() Mat4 {
	if m.Det() == 0 {
		return Identity()
	}
	return Mat4(mgl32.Mat4(m).Inv())
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	return Mat4(mgl32.Mat4(m).Transpose())
}

// Ptr returns a pointer to the first element (for OpenGL uniform calls).
func (m *Mat4) Ptr() *float32 {
	return &m[0]
}

func toMgl(v Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl32.Vec3) Vec3 {
	return Vec3{v[0], v[1], v[2]}
}
