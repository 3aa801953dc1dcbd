package viz

import (
	"math"

	"github.com/san-kum/wintersim/internal/geom"
	"github.com/san-kum/wintersim/internal/world"
)

// Rings of the focal marker as (height, radius) fractions of its scale.
var focalRings = [][2]float64{{0.2, 0.3}, {0.55, 0.22}, {0.8, 0.15}}

func (m *Model) draw() {
	m.canvas.Clear()
	scene := m.sim.Scene()

	m.canvas.Pen = PenGround
	half := scene.Ground / 2
	corners := []geom.Vec3{{X: -half, Z: -half}, {X: half, Z: -half}, {X: half, Z: half}, {X: -half, Z: half}}
	for i := range corners {
		m.line(corners[i], corners[(i+1)%len(corners)])
	}

	if scene.Snow != nil {
		m.canvas.Pen = PenSnow
		for i := 0; i < scene.Snow.Len(); i += m.opts.SnowStride {
			m.dot(scene.Snow.At(i))
		}
	}

	for _, d := range scene.Decorations() {
		for i, p := range d.Parts {
			m.canvas.Pen = partPen(d.Kind, i)
			m.part(p)
		}
	}

	m.canvas.Pen = PenFirefly
	for _, f := range scene.Fireflies() {
		m.dot(f.Position)
		m.dot(f.Position.Add(geom.Vec3{Y: 0.15}))
	}

	if f := scene.Focal; f.Name != "" && m.sim.Present(f.Name) {
		m.canvas.Pen = PenFocal
		for _, r := range focalRings {
			m.ring(f.Position.Add(geom.Vec3{Y: r[0] * f.Scale}), r[1]*f.Scale)
		}
	}
}

func partPen(k world.Kind, part int) uint8 {
	switch {
	case k == world.KindTree && part == 0:
		return PenTrunk
	case k == world.KindTree:
		return PenFoliage
	default:
		return PenMushroom
	}
}

// part draws a cylinder as its axis and a cone as a four-sided pyramid.
func (m *Model) part(p world.Part) {
	bottom := p.Center.Add(geom.Vec3{Y: -p.Height / 2})
	top := p.Center.Add(geom.Vec3{Y: p.Height / 2})
	switch p.Shape {
	case "cone":
		base := []geom.Vec3{{X: p.Radius}, {Z: p.Radius}, {X: -p.Radius}, {Z: -p.Radius}}
		for i, b := range base {
			m.line(top, bottom.Add(b))
			m.line(bottom.Add(b), bottom.Add(base[(i+1)%len(base)]))
		}
	default:
		m.line(bottom, top)
	}
}

func (m *Model) ring(center geom.Vec3, r float64) {
	const segments = 12
	prev := center.Add(geom.Vec3{X: r})
	for i := 1; i <= segments; i++ {
		a := 2 * math.Pi * float64(i) / segments
		next := center.Add(geom.Vec3{X: r * math.Cos(a), Z: r * math.Sin(a)})
		m.line(prev, next)
		prev = next
	}
}

func (m *Model) dot(p geom.Vec3) {
	w, h := m.canvas.DotSize()
	if x, y, _, ok := m.camera.Project(p, w, h); ok {
		m.canvas.Set(x, y)
	}
}

func (m *Model) line(a, b geom.Vec3) {
	w, h := m.canvas.DotSize()
	x0, y0, z0, _ := m.camera.Project(a, w, h)
	x1, y1, z1, _ := m.camera.Project(b, w, h)
	if z0 <= m.camera.Near || z1 <= m.camera.Near {
		return
	}
	if far(x0, y0, w, h) || far(x1, y1, w, h) {
		return
	}
	m.canvas.DrawLine(x0, y0, x1, y1)
}

// far reports whether a projected dot lies well outside the canvas, where
// tracing a line to it would mostly walk off-screen.
func far(x, y, w, h int) bool {
	return x < -4*w || x > 5*w || y < -4*h || y > 5*h
}
