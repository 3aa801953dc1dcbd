package geom

import (
	"fmt"
	"math"
)

// Zone is a keep-out region for procedural placement.
type Zone interface {
	// Contains reports whether p falls inside the region.
	Contains(p Vec3) bool
	// Clearance is the distance from p to the region, 0 when inside.
	Clearance(p Vec3) float64
}

// Sphere excludes every point closer than Radius to Center. Points at
// exactly Radius are outside.
type Sphere struct {
	Center Vec3
	Radius float64
}

func NewSphere(center Vec3, radius float64) (Sphere, error) {
	if !(radius > 0) || math.IsInf(radius, 0) || !center.IsValid() {
		return Sphere{}, fmt.Errorf("%w: sphere radius %v", ErrInvalidZone, radius)
	}
	return Sphere{Center: center, Radius: radius}, nil
}

func (s Sphere) Contains(p Vec3) bool { return s.Center.DistanceTo(p) < s.Radius }

func (s Sphere) Clearance(p Vec3) float64 {
	return math.Max(0, s.Center.DistanceTo(p)-s.Radius)
}

func (s Sphere) String() string {
	return fmt.Sprintf("sphere%v r=%.3f", s.Center, s.Radius)
}

// Box excludes the closed axis-aligned box [Min, Max].
type Box struct {
	Min, Max Vec3
}

func NewBox(min, max Vec3) (Box, error) {
	if !min.IsValid() || !max.IsValid() {
		return Box{}, fmt.Errorf("%w: non-finite box corner", ErrInvalidZone)
	}
	if !(min.X < max.X && min.Y < max.Y && min.Z < max.Z) {
		return Box{}, fmt.Errorf("%w: box min %v not below max %v", ErrInvalidZone, min, max)
	}
	return Box{Min: min, Max: max}, nil
}

func (b Box) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

func (b Box) Clearance(p Vec3) float64 {
	dx := math.Max(0, math.Max(b.Min.X-p.X, p.X-b.Max.X))
	dy := math.Max(0, math.Max(b.Min.Y-p.Y, p.Y-b.Max.Y))
	dz := math.Max(0, math.Max(b.Min.Z-p.Z, p.Z-b.Max.Z))
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func (b Box) String() string {
	return fmt.Sprintf("box%v-%v", b.Min, b.Max)
}

// Outside reports whether p lies outside every zone. An empty set accepts
// every point.
func Outside(p Vec3, zones ...Zone) bool {
	for _, z := range zones {
		if z.Contains(p) {
			return false
		}
	}
	return true
}

// MinClearance returns the smallest clearance from p to any zone, or +Inf
// when zones is empty.
func MinClearance(p Vec3, zones ...Zone) float64 {
	m := math.Inf(1)
	for _, z := range zones {
		if c := z.Clearance(p); c < m {
			m = c
		}
	}
	return m
}
