package preview

import "github.com/go-gl/mathgl/mgl64"

// Camera is a perspective lens.
type Camera struct {
	FovY      float64 // degrees
	Aspect    float64
	Near, Far float64
}

// DefaultCamera matches the preview viewport.
func DefaultCamera(w, h int) Camera {
	return Camera{FovY: 40, Aspect: float64(w) / float64(h), Near: 0.1, Far: 100}
}

// Projection returns the clip matrix.
func (c Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FovY), c.Aspect, c.Near, c.Far)
}
