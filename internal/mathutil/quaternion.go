package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// EulerToQuat converts Euler XYZ (radians) to a quaternion.
// Matches MU Online's bmdAngleToQuaternion function.
func EulerToQuat(rx, ry, rz float64) mgl64.Quat {
	cx, sx := math.Cos(rx*0.5), math.Sin(rx*0.5)
	cy, sy := math.Cos(ry*0.5), math.Sin(ry*0.5)
	cz, sz := math.Cos(rz*0.5), math.Sin(rz*0.5)

	return mgl64.Quat{
		W: cx*cy*cz + sx*sy*sz,
		V: mgl64.Vec3{
			sx*cy*cz - cx*sy*sz,
			cx*sy*cz + sx*cy*sz,
			cx*cy*sz - sx*sy*cz,
		},
	}
}

// QuatXYZW builds a quaternion from (x, y, z, w) storage order, as used by glTF.
func QuatXYZW(q [4]float64) mgl64.Quat {
	return mgl64.Quat{W: q[3], V: mgl64.Vec3{q[0], q[1], q[2]}}
}

// Slerp interpolates along the shortest arc between a and b.
func Slerp(a, b mgl64.Quat, t float64) mgl64.Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl64.QuatSlerp(a, b, t).Normalize()
}
