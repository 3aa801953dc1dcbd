package metrics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/wintersim/internal/geom"
)

// ClearanceSummary describes how far a set of placements sits from the
// nearest exclusion zone.
type ClearanceSummary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

// Clearance summarizes the distance from each point to its nearest zone.
// With no points the zero summary is returned.
func Clearance(points []geom.Vec3, zones []geom.Zone) ClearanceSummary {
	if len(points) == 0 || len(zones) == 0 {
		return ClearanceSummary{Count: len(points)}
	}
	d := make([]float64, len(points))
	for i, p := range points {
		d[i] = geom.MinClearance(p, zones...)
	}
	mean, std := stat.MeanStdDev(d, nil)
	if len(d) == 1 {
		std = 0
	}
	return ClearanceSummary{
		Count:  len(d),
		Min:    floats.Min(d),
		Max:    floats.Max(d),
		Mean:   mean,
		StdDev: std,
	}
}
