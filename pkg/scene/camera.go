package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/matzehuels/glyphorbit/pkg/arrange"
)

// Camera defaults.
const (
	DefaultFOV      = 60.0 // degrees
	DefaultNear     = 1.0
	DefaultFar      = 5000.0
	DefaultDistance = 600.0
	maxPitch        = math.Pi/2 - 0.01
)

// Camera is a free-flying perspective camera. Yaw 0 and pitch 0 look down
// -Z; positive yaw turns right, positive pitch looks up.
type Camera struct {
	Position mgl64.Vec3
	Yaw      float64
	Pitch    float64
	FOV      float64
	Near     float64
	Far      float64
}

var _ arrange.Viewer = (*Camera)(nil)

// NewCamera returns a camera on the +Z axis looking at the origin.
func NewCamera() *Camera {
	c := &Camera{}
	c.Reset()
	return c
}

// Reset moves the camera back to its initial pose.
func (c *Camera) Reset() {
	*c = Camera{
		Position: mgl64.Vec3{0, 0, DefaultDistance},
		FOV:      DefaultFOV,
		Near:     DefaultNear,
		Far:      DefaultFar,
	}
}

// Eye returns the camera position.
func (c *Camera) Eye() mgl64.Vec3 { return c.Position }

// Forward returns the unit view direction.
func (c *Camera) Forward() mgl64.Vec3 {
	cp := math.Cos(c.Pitch)
	return mgl64.Vec3{cp * math.Sin(c.Yaw), math.Sin(c.Pitch), -cp * math.Cos(c.Yaw)}
}

// Right returns the unit vector to the camera's right, parallel to the
// ground plane.
func (c *Camera) Right() mgl64.Vec3 {
	return mgl64.Vec3{math.Cos(c.Yaw), 0, math.Sin(c.Yaw)}
}

// Move translates the camera along its forward and right axes and the
// world up axis.
func (c *Camera) Move(forward, right, up float64) {
	d := c.Forward().Mul(forward).Add(c.Right().Mul(right)).Add(arrange.Up.Mul(up))
	c.Position = c.Position.Add(d)
}

// Turn rotates the camera. Pitch is clamped short of straight up or down.
func (c *Camera) Turn(yaw, pitch float64) {
	c.Yaw = math.Mod(c.Yaw+yaw, 2*math.Pi)
	c.Pitch = mgl64.Clamp(c.Pitch+pitch, -maxPitch, maxPitch)
}

// View returns the world-to-camera matrix.
func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.Position.Add(c.Forward()), arrange.Up)
}

// Projection returns the perspective matrix for the given aspect ratio
// (width / height).
func (c *Camera) Projection(aspect float64) mgl64.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// Projector maps world points to a width x height viewport.
type Projector struct {
	vp            mgl64.Mat4
	width, height float64
}

// Projector returns a projector for the current camera pose.
func (c *Camera) Projector(width, height float64) Projector {
	aspect := 1.0
	if height > 0 {
		aspect = width / height
	}
	return Projector{vp: c.Projection(aspect).Mul4(c.View()), width: width, height: height}
}

// Project returns the viewport position of p (origin top-left) and its
// clip-space depth. ok is false when p is behind the camera.
func (p Projector) Project(world mgl64.Vec3) (x, y, depth float64, ok bool) {
	clip := p.vp.Mul4x1(world.Vec4(1))
	if clip[3] <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip[3])
	x = (ndc[0] + 1) / 2 * p.width
	y = (1 - ndc[1]) / 2 * p.height
	return x, y, clip[3], true
}
