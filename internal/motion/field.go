package motion

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/san-kum/wintersim/internal/geom"
)

const parallelChunk = 4096

// ParticleField is a fixed-size set of particles sharing one fall speed and
// one reset rule. Positions holds x,y,z triples.
type ParticleField struct {
	Positions []float64
	FallSpeed float64
	Floor     float64
	Ceiling   float64
}

func NewParticleField(count int, fallSpeed, floor, ceiling float64) (*ParticleField, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: count %d", ErrInvalidField, count)
	}
	if math.IsNaN(floor) || math.IsNaN(ceiling) || ceiling < floor {
		return nil, fmt.Errorf("%w: ceiling %.3f below floor %.3f", ErrInvalidField, ceiling, floor)
	}
	return &ParticleField{
		Positions: make([]float64, count*3),
		FallSpeed: fallSpeed,
		Floor:     floor,
		Ceiling:   ceiling,
	}, nil
}

func (f *ParticleField) Len() int { return len(f.Positions) / 3 }

func (f *ParticleField) At(i int) geom.Vec3 {
	return geom.Vec3{X: f.Positions[i*3], Y: f.Positions[i*3+1], Z: f.Positions[i*3+2]}
}

func (f *ParticleField) Set(i int, p geom.Vec3) {
	f.Positions[i*3] = p.X
	f.Positions[i*3+1] = p.Y
	f.Positions[i*3+2] = p.Z
}

// Fall lowers every particle by FallSpeed*dt and moves any particle that
// ends below Floor to exactly Ceiling. It returns the number of resets.
func (f *ParticleField) Fall(dt float64) int {
	if dt == 0 {
		return 0
	}
	drop := f.FallSpeed * dt

	var resets atomic.Int64
	ParallelFor(f.Len(), parallelChunk, func(start, end int) {
		n := 0
		for i := start; i < end; i++ {
			y := &f.Positions[i*3+1]
			*y -= drop
			if *y < f.Floor {
				*y = f.Ceiling
				n++
			}
		}
		resets.Add(int64(n))
	})
	return int(resets.Load())
}

// MeanHeight returns the average vertical coordinate, 0 for an empty field.
func (f *ParticleField) MeanHeight() float64 {
	n := f.Len()
	if n == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += f.Positions[i*3+1]
	}
	return sum / float64(n)
}

// Snapshot copies the position buffer for consumers outside the tick.
func (f *ParticleField) Snapshot() []float64 {
	out := make([]float64, len(f.Positions))
	copy(out, f.Positions)
	return out
}
