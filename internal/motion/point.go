package motion

import "github.com/san-kum/wintersim/internal/geom"

// Range is an inclusive bounce interval on one axis. The zero value is
// unbounded.
type Range struct {
	Min, Max float64
	Set      bool
}

func Bound(min, max float64) Range { return Range{Min: min, Max: max, Set: true} }

// AnimatedPoint is a moving position that reflects off its bounds by
// flipping the velocity sign. The position is never clamped, so a point can
// overshoot a bound by at most one velocity step.
type AnimatedPoint struct {
	Position geom.Vec3
	Velocity geom.Vec3
	Bounds   [3]Range
}

// BoundedBy sets the bounce range of every axis from d.
func (p *AnimatedPoint) BoundedBy(d geom.Domain) {
	for axis := 0; axis < 3; axis++ {
		p.Bounds[axis] = Bound(d.Min.Axis(axis), d.Max.Axis(axis))
	}
}

// Step moves the point by velocity*dt and returns the number of velocity
// components flipped. A component flips only while the point is past a
// bound and still heading outward, so a point that overshot by a long step
// keeps its inward velocity until it is back in range. The upper bound is
// checked before the lower one: with Min == Max a point leaving the plane
// flips once and settles back, and with Min > Max a point outside both
// flips twice, which cancels. A zero dt is a no-op.
func (p *AnimatedPoint) Step(dt float64) int {
	if dt == 0 {
		return 0
	}
	p.Position = p.Position.Add(p.Velocity.Scale(dt))

	flips := 0
	for axis := 0; axis < 3; axis++ {
		r := p.Bounds[axis]
		if !r.Set {
			continue
		}
		x := p.Position.Axis(axis)
		if x > r.Max && p.Velocity.Axis(axis) > 0 {
			p.Velocity.SetAxis(axis, -p.Velocity.Axis(axis))
			flips++
		}
		if x < r.Min && p.Velocity.Axis(axis) < 0 {
			p.Velocity.SetAxis(axis, -p.Velocity.Axis(axis))
			flips++
		}
	}
	return flips
}

// PointSet is a collection of animated points the Updater can iterate.
type PointSet interface {
	EachPoint(fn func(p *AnimatedPoint))
}

// Points is a PointSet backed by a slice.
type Points []AnimatedPoint

func (ps Points) EachPoint(fn func(p *AnimatedPoint)) {
	for i := range ps {
		fn(&ps[i])
	}
}
