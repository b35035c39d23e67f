package mathutil

import "math"

// Vec3 is a 3-component vector (value type, stack-allocated).
type Vec3 [3]float64

func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

func (a Vec3) Dot(b Vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < 1e-12 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Spherical returns the point at radius r, polar angle phi (from +Y) and
// azimuth theta (from +Z towards +X) around the origin.
func Spherical(r, phi, theta float64) Vec3 {
	sp := math.Sin(phi)
	return Vec3{r * sp * math.Sin(theta), r * math.Cos(phi), r * sp * math.Cos(theta)}
}

// ToSpherical is the inverse of Spherical.
func ToSpherical(v Vec3) (r, phi, theta float64) {
	r = v.Len()
	if r < 1e-12 {
		return 0, 0, 0
	}
	return r, math.Acos(Clamp(v[1]/r, -1, 1)), math.Atan2(v[0], v[2])
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
