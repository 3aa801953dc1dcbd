// Package export renders scenes and run traces as standalone SVG documents.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/wintersim/internal/geom"
	"github.com/san-kum/wintersim/internal/world"
)

// MapOptions controls SceneToSVG.
type MapOptions struct {
	Size int
	// SnowStride draws every n-th flake; 0 hides the snow.
	SnowStride int
}

func DefaultMapOptions() MapOptions {
	return MapOptions{Size: 600, SnowStride: 25}
}

// SceneToSVG draws a top-down map of scene looking down the Y axis, with
// +X to the right and +Z towards the bottom.
func SceneToSVG(scene *world.Scene, opts MapOptions) string {
	if scene == nil {
		return ""
	}
	if opts.Size <= 0 {
		opts.Size = DefaultMapOptions().Size
	}

	half := scene.Ground / 2
	if half <= 0 {
		half = 25
	}
	size := float64(opts.Size)
	scale := size / (2 * half)
	px := func(v float64) float64 { return (v + half) * scale }

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#000022"/>
<rect x="0" y="0" width="%.1f" height="%.1f" fill="#f4f6ff"/>
`, opts.Size, opts.Size, opts.Size, opts.Size, size, size))

	sb.WriteString(`<g id="zones" fill="none" stroke="#6666ff" stroke-dasharray="4 3">` + "\n")
	for _, z := range scene.Zones() {
		switch z := z.(type) {
		case geom.Sphere:
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n",
				px(z.Center.X), px(z.Center.Z), z.Radius*scale))
		case geom.Box:
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`+"\n",
				px(z.Min.X), px(z.Min.Z), (z.Max.X-z.Min.X)*scale, (z.Max.Z-z.Min.Z)*scale))
		}
	}
	sb.WriteString("</g>\n")

	if opts.SnowStride > 0 && scene.Snow != nil {
		sb.WriteString(`<g id="snow" fill="#9aa4c8">` + "\n")
		for i := 0; i < scene.Snow.Len(); i += opts.SnowStride {
			p := scene.Snow.At(i)
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="0.8"/>`+"\n", px(p.X), px(p.Z)))
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString(`<g id="decorations">` + "\n")
	for _, d := range scene.Decorations() {
		top := d.Parts[1]
		sb.WriteString(fmt.Sprintf(`<circle class="%s" cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="%s"/>`+"\n",
			d.Kind, px(top.Center.X), px(top.Center.Z), top.Radius*scale, markerFill(d), d.Parts[0].Color))
	}
	sb.WriteString("</g>\n")

	sb.WriteString(`<g id="fireflies">` + "\n")
	for _, f := range scene.Fireflies() {
		sb.WriteString(fmt.Sprintf(`<circle class="firefly" cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n",
			px(f.Position.X), px(f.Position.Z), 0.3*scale, f.Light.Color))
	}
	sb.WriteString("</g>\n")

	fc := scene.Focal
	sb.WriteString(fmt.Sprintf(`<circle class="focal" cx="%.1f" cy="%.1f" r="%.1f" fill="#ffffff" stroke="#000000"/>
<text x="%.1f" y="%.1f" font-family="monospace" font-size="12" text-anchor="middle">%s</text>
`, px(fc.Position.X), px(fc.Position.Z), scale, px(fc.Position.X), px(fc.Position.Z)-scale-4, fc.Name))

	sb.WriteString("</svg>")
	return sb.String()
}

// markerFill is the fill of a decoration's top part. White foliage is
// drawn dark green on the white ground.
func markerFill(d world.Decoration) string {
	if d.Kind == world.KindTree {
		return "#2e5e3a"
	}
	return d.Parts[1].Color
}

// Point is one sample of a series.
type Point struct{ X, Y float64 }

// SeriesToSVG creates an SVG line chart from points.
func SeriesToSVG(points []Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#000022"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
