package render

import (
	"github.com/taigrr/glyph3d/pkg/math3d"
)

// Camera is a first-person camera that turns about the world Y axis.
type Camera struct {
	// Position in world space
	Position math3d.Vec3

	// Yaw is the rotation about Y in radians. Zero looks down +Z.
	Yaw float64

	// Up is the world up vector. It must not be parallel to the look
	// direction for a well-defined view; the matrix builder falls back to an
	// arbitrary perpendicular if it is.
	Up math3d.Vec3

	// Cached view matrix, valid while the pose matches viewPose
	viewMatrix math3d.Mat4
	viewPose   cameraPose
	viewDirty  bool
}

type cameraPose struct {
	pos, up math3d.Vec3
	yaw     float64
}

// NewCamera creates a camera at the origin looking down +Z.
func NewCamera() *Camera {
	return &Camera{
		Position:  math3d.Zero3(),
		Up:        math3d.Up(),
		viewDirty: true,
	}
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.viewDirty = true
}

// SetYaw sets the yaw angle in radians.
func (c *Camera) SetYaw(yaw float64) {
	c.Yaw = yaw
	c.viewDirty = true
}

// LookDir returns the unit look direction: +Z rotated by Yaw.
func (c *Camera) LookDir() math3d.Vec3 {
	return math3d.RotateY(c.Yaw).MulVec(math3d.Forward())
}

// Target returns the point one unit ahead of the camera.
func (c *Camera) Target() math3d.Vec3 {
	return c.Position.Add(c.LookDir())
}

// ViewMatrix returns the world-to-view matrix: the quick inverse of the
// point-at matrix built from position, target and up.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	pose := cameraPose{pos: c.Position, up: c.Up, yaw: c.Yaw}
	if c.viewDirty || pose != c.viewPose {
		c.viewMatrix = math3d.PointAt(c.Position, c.Target(), c.Up).QuickInverse()
		c.viewPose = pose
		c.viewDirty = false
	}
	return c.viewMatrix
}

// MoveForward moves the camera along its look direction.
func (c *Camera) MoveForward(dist float64) {
	c.Position = c.Position.Add(c.LookDir().Scale(dist))
	c.viewDirty = true
}

// MoveUp moves the camera along world Y.
func (c *Camera) MoveUp(dist float64) {
	c.Position.Y += dist
	c.viewDirty = true
}

// Turn adds delta radians to the yaw.
func (c *Camera) Turn(delta float64) {
	c.Yaw += delta
	c.viewDirty = true
}
