package geom

import "fmt"

// Domain is an axis-aligned sampling region. Axes with Min == Max are fixed,
// so a domain with a flat Y range samples ground-level positions only.
type Domain struct {
	Min Vec3 `json:"min" yaml:"min"`
	Max Vec3 `json:"max" yaml:"max"`
}

// Flat returns a ground-level domain spanning [minX,maxX]×[minZ,maxZ] at height y.
func Flat(minX, maxX, minZ, maxZ, y float64) Domain {
	return Domain{Min: Vec3{minX, y, minZ}, Max: Vec3{maxX, y, maxZ}}
}

// Square returns a flat domain centered on the origin with the given half extent.
func Square(half, y float64) Domain {
	return Flat(-half, half, -half, half, y)
}

func (d Domain) Validate() error {
	if !d.Min.IsValid() || !d.Max.IsValid() {
		return fmt.Errorf("%w: non-finite bound", ErrInvalidDomain)
	}
	for i := 0; i < 3; i++ {
		if d.Min.Axis(i) > d.Max.Axis(i) {
			return fmt.Errorf("%w: axis %d min %.3f > max %.3f", ErrInvalidDomain, i, d.Min.Axis(i), d.Max.Axis(i))
		}
	}
	return nil
}

func (d Domain) Size() Vec3 { return d.Max.Sub(d.Min) }

// Flat reports whether the vertical axis is fixed.
func (d Domain) Flat() bool { return d.Min.Y == d.Max.Y }

// Contains reports whether p lies inside the closed domain.
func (d Domain) Contains(p Vec3) bool {
	return p.X >= d.Min.X && p.X <= d.Max.X &&
		p.Y >= d.Min.Y && p.Y <= d.Max.Y &&
		p.Z >= d.Min.Z && p.Z <= d.Max.Z
}

// Lerp maps unit coordinates t in [0,1)^3 into the domain.
func (d Domain) Lerp(t Vec3) Vec3 {
	s := d.Size()
	return Vec3{
		X: d.Min.X + t.X*s.X,
		Y: d.Min.Y + t.Y*s.Y,
		Z: d.Min.Z + t.Z*s.Z,
	}
}
