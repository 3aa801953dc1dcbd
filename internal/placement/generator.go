// Package placement scatters scene objects over a domain while keeping them
// out of exclusion zones.
package placement

import (
	"math/rand"

	"github.com/san-kum/wintersim/internal/geom"
)

// DefaultMaxAttempts bounds rejection sampling per placement.
const DefaultMaxAttempts = 10000

// Generator draws uniform positions by rejection sampling. It is not safe
// for concurrent use; give each goroutine its own Generator.
type Generator struct {
	rng         *rand.Rand
	maxAttempts int
}

func New(seed int64) *Generator {
	return NewWithRand(rand.New(rand.NewSource(seed)))
}

func NewWithRand(rng *rand.Rand) *Generator {
	return &Generator{rng: rng, maxAttempts: DefaultMaxAttempts}
}

// SetMaxAttempts changes the per-placement retry cap. Values <= 0 restore
// DefaultMaxAttempts.
func (g *Generator) SetMaxAttempts(n int) {
	if n <= 0 {
		n = DefaultMaxAttempts
	}
	g.maxAttempts = n
}

func (g *Generator) MaxAttempts() int { return g.maxAttempts }

// Rand exposes the underlying source so callers can draw related values
// (velocities, jitter) from the same seeded stream.
func (g *Generator) Rand() *rand.Rand { return g.rng }

// Sample returns a uniform position in domain lying outside every zone.
func (g *Generator) Sample(domain geom.Domain, zones ...geom.Zone) (geom.Vec3, error) {
	return g.sample(0, domain, zones)
}

// Generate draws count positions with Sample. On failure it returns the
// positions placed so far together with the error.
func (g *Generator) Generate(count int, domain geom.Domain, zones ...geom.Zone) ([]geom.Vec3, error) {
	out := make([]geom.Vec3, 0, count)
	for i := 0; i < count; i++ {
		p, err := g.sample(i, domain, zones)
		if err != nil {
			return out, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (g *Generator) sample(idx int, domain geom.Domain, zones []geom.Zone) (geom.Vec3, error) {
	if err := domain.Validate(); err != nil {
		return geom.Vec3{}, err
	}
	if covered(domain, zones) {
		return geom.Vec3{}, &PlacementError{Index: idx, Domain: domain, Wrapped: ErrPlacementInfeasible}
	}

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		p := domain.Lerp(geom.Vec3{X: g.rng.Float64(), Y: g.rng.Float64(), Z: g.rng.Float64()})
		if geom.Outside(p, zones...) {
			return p, nil
		}
	}

	return geom.Vec3{}, &PlacementError{Index: idx, Attempts: g.maxAttempts, Domain: domain, Wrapped: ErrPlacementInfeasible}
}

// RandomVector returns a vector with each component uniform in
// [-spread/2, spread/2).
func (g *Generator) RandomVector(spread float64) geom.Vec3 {
	return geom.Vec3{
		X: (g.rng.Float64() - 0.5) * spread,
		Y: (g.rng.Float64() - 0.5) * spread,
		Z: (g.rng.Float64() - 0.5) * spread,
	}
}

// covered reports whether a single convex zone contains every corner of the
// domain, in which case no sample can ever succeed.
func covered(domain geom.Domain, zones []geom.Zone) bool {
	for _, z := range zones {
		all := true
		for _, c := range corners(domain) {
			if !z.Contains(c) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

func corners(d geom.Domain) [8]geom.Vec3 {
	var out [8]geom.Vec3
	for i := 0; i < 8; i++ {
		c := d.Min
		if i&1 != 0 {
			c.X = d.Max.X
		}
		if i&2 != 0 {
			c.Y = d.Max.Y
		}
		if i&4 != 0 {
			c.Z = d.Max.Z
		}
		out[i] = c
	}
	return out
}
