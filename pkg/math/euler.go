package math

// Rotation is anything that can be expressed as a quaternion.
type Rotation interface {
	Quat() Quat
}

// Euler holds XYZ Euler angles in radians. X is applied first, then Y, then Z.
type Euler struct {
	X, Y, Z float32
}

// Quat converts the Euler angles to a quaternion.
func (e Euler) Quat() Quat {
	qx := QuatFromAxisAngle(Vec3{X: 1}, e.X)
	qy := QuatFromAxisAngle(Vec3{Y: 1}, e.Y)
	qz := QuatFromAxisAngle(Vec3{Z: 1}, e.Z)
	return qz.Mul(qy).Mul(qx)
}

// Mat4 returns the rotation matrix Rz * Ry * Rx.
func (e Euler) Mat4() Mat4 {
	return RotateZ(e.Z).Mul(RotateY(e.Y)).Mul(RotateX(e.X))
}

// Rotate composes another rotation after e, like rotating an object's Euler in place.
func (e Euler) Rotate(r Rotation) Euler {
	return r.Quat().Mul(e.Quat()).ToEuler()
}

// Vec3 returns the angles as a vector.
func (e Euler) Vec3() Vec3 {
	return Vec3{e.X, e.Y, e.Z}
}

// AxisAngle is a rotation of Angle radians around Axis.
type AxisAngle struct {
	Axis  Vec3
	Angle float32
}

// Quat converts the axis-angle pair to a quaternion.
func (a AxisAngle) Quat() Quat {
	return QuatFromAxisAngle(a.Axis.Normalize(), a.Angle)
}
