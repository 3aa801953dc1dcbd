package viz

import (
	"math"

	"github.com/san-kum/wintersim/internal/geom"
)

const (
	minElevation = 0.05
	maxElevation = math.Pi/2 - 0.05
	minDistance  = 2.0
	maxDistance  = 200.0
)

// OrbitCamera orbits a target on a sphere. Orbit input accumulates into a
// pending delta that Update applies a fraction of each frame, so motion
// eases out after the keys are released.
type OrbitCamera struct {
	Target    geom.Vec3
	Distance  float64
	Azimuth   float64
	Elevation float64
	FOV       float64
	Near      float64

	// Damping is the fraction of the pending delta applied per frame, in
	// (0, 1]. 1 applies input immediately.
	Damping float64
	// AutoRotate is the orbit speed in radians per reference frame.
	AutoRotate float64

	dAzimuth   float64
	dElevation float64
}

// NewOrbitCamera places the camera at eye looking at target.
func NewOrbitCamera(eye, target geom.Vec3) *OrbitCamera {
	c := &OrbitCamera{
		Target:  target,
		FOV:     75 * math.Pi / 180,
		Near:    0.1,
		Damping: 0.25,
	}
	off := eye.Sub(target)
	c.Distance = off.Length()
	if c.Distance > 0 {
		c.Azimuth = math.Atan2(off.X, off.Z)
		c.Elevation = math.Asin(off.Y / c.Distance)
	}
	return c
}

// Eye returns the camera position.
func (c *OrbitCamera) Eye() geom.Vec3 {
	ce := math.Cos(c.Elevation)
	return c.Target.Add(geom.Vec3{
		X: c.Distance * ce * math.Sin(c.Azimuth),
		Y: c.Distance * math.Sin(c.Elevation),
		Z: c.Distance * ce * math.Cos(c.Azimuth),
	})
}

// Orbit queues a rotation to be eased in by Update.
func (c *OrbitCamera) Orbit(dAzimuth, dElevation float64) {
	c.dAzimuth += dAzimuth
	c.dElevation += dElevation
}

func (c *OrbitCamera) ZoomIn()  { c.Distance = math.Max(minDistance, c.Distance/1.2) }
func (c *OrbitCamera) ZoomOut() { c.Distance = math.Min(maxDistance, c.Distance*1.2) }

// Update advances auto-rotation and damping by dt reference frames.
func (c *OrbitCamera) Update(dt float64) {
	if dt <= 0 {
		return
	}
	c.Azimuth += c.AutoRotate * dt

	f := math.Min(1, c.Damping*dt)
	if c.Damping <= 0 {
		f = 1
	}
	c.Azimuth += c.dAzimuth * f
	c.Elevation += c.dElevation * f
	c.dAzimuth *= 1 - f
	c.dElevation *= 1 - f

	c.Azimuth = math.Mod(c.Azimuth, 2*math.Pi)
	c.Elevation = math.Max(minElevation, math.Min(maxElevation, c.Elevation))
}

// Project maps p onto a w x h dot surface. It returns the dot position, the
// depth along the view direction and whether the dot is in front of the
// camera and on screen.
func (c *OrbitCamera) Project(p geom.Vec3, w, h int) (int, int, float64, bool) {
	eye := c.Eye()
	forward := c.Target.Sub(eye).Normalize()
	right := forward.Cross(geom.Vec3{Y: 1}).Normalize()
	up := right.Cross(forward)

	d := p.Sub(eye)
	z := d.Dot(forward)
	if z <= c.Near {
		return 0, 0, z, false
	}

	scale := float64(min(w, h)) / 2 / math.Tan(c.FOV/2)
	sx := int(math.Round(float64(w)/2 + d.Dot(right)/z*scale))
	sy := int(math.Round(float64(h)/2 - d.Dot(up)/z*scale))
	return sx, sy, z, sx >= 0 && sx < w && sy >= 0 && sy < h
}
