package preview

import (
	"math"
	"sync"

	"garment-texture-studio/internal/mathutil"

	"github.com/go-gl/mathgl/mgl64"
)

// Orbit defaults.
const (
	DefaultDamping     = 0.1
	DefaultMinDistance = 3
	DefaultMaxDistance = 12

	// phiEps keeps the camera off the poles where the up vector degenerates.
	phiEps = 1e-6
)

// Controls orbits the camera around a target with damped rotation and
// clamped dolly. Panning is not supported. Safe for concurrent use: input
// handlers call Rotate and Zoom while the render loop calls Update.
type Controls struct {
	mu sync.Mutex

	target             mathutil.Vec3
	radius, phi, theta float64

	dPhi, dTheta float64
	scale        float64

	damping                  float64
	minDistance, maxDistance float64
}

// NewControls starts the orbit at eye looking at target.
func NewControls(eye, target mathutil.Vec3) *Controls {
	r, phi, theta := mathutil.ToSpherical(eye.Sub(target))
	c := &Controls{
		target:      target,
		phi:         phi,
		theta:       theta,
		scale:       1,
		damping:     DefaultDamping,
		minDistance: DefaultMinDistance,
		maxDistance: DefaultMaxDistance,
	}
	c.radius = mathutil.Clamp(r, c.minDistance, c.maxDistance)
	return c
}

// Rotate queues an orbit of dTheta radians around the vertical axis and dPhi
// radians towards the poles. Damping spreads it over later updates.
func (c *Controls) Rotate(dTheta, dPhi float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dTheta += dTheta
	c.dPhi += dPhi
}

// Drag converts a pointer drag of dx, dy pixels on a view of height h into a
// rotation; a drag of the full height turns the camera once around. Dragging
// right or down moves the camera left or up, so the model follows the pointer.
func (c *Controls) Drag(dx, dy float64, h int) {
	if h <= 0 {
		return
	}
	k := 2 * math.Pi / float64(h)
	c.Rotate(-dx*k, -dy*k)
}

// Zoom dollies by factor: below 1 moves closer, above 1 moves away.
// Non-positive factors are ignored.
func (c *Controls) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scale *= factor
}

// Update applies pending input with damping and reports whether the camera
// moved. Call it once per frame.
func (c *Controls) Update() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	prevR, prevPhi, prevTheta := c.radius, c.phi, c.theta

	c.theta += c.dTheta * c.damping
	c.phi = mathutil.Clamp(c.phi+c.dPhi*c.damping, phiEps, math.Pi-phiEps)
	c.radius = mathutil.Clamp(c.radius*c.scale, c.minDistance, c.maxDistance)

	c.dTheta *= 1 - c.damping
	c.dPhi *= 1 - c.damping
	c.scale = 1

	const eps = 1e-9
	return math.Abs(c.radius-prevR) > eps || math.Abs(c.phi-prevPhi) > eps || math.Abs(c.theta-prevTheta) > eps
}

// Distance returns the current camera distance from the target.
func (c *Controls) Distance() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.radius
}

// Eye returns the camera position.
func (c *Controls) Eye() mathutil.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target.Add(mathutil.Spherical(c.radius, c.phi, c.theta))
}

// View returns the world-to-camera matrix.
func (c *Controls) View() mgl64.Mat4 {
	eye := c.Eye()
	c.mu.Lock()
	t := c.target
	c.mu.Unlock()
	return mgl64.LookAtV(
		mgl64.Vec3{eye[0], eye[1], eye[2]},
		mgl64.Vec3{t[0], t[1], t[2]},
		mgl64.Vec3{0, 1, 0},
	)
}
