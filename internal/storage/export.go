package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/wintersim/internal/geom"
	"github.com/san-kum/wintersim/internal/sim"
)

type ExportData struct {
	ID         string                 `json:"id"`
	Variant    string                 `json:"variant"`
	Seed       int64                  `json:"seed"`
	Dt         float64                `json:"dt"`
	Frames     int                    `json:"frames"`
	Metrics    map[string]float64     `json:"metrics"`
	Placements map[string][]geom.Vec3 `json:"placements"`
	Samples    []sim.Sample           `json:"samples"`
}

// ExportJSON writes run as a single indented JSON document.
func ExportJSON(w io.Writer, run *Run) error {
	data := ExportData{
		ID:         run.Meta.ID,
		Variant:    run.Meta.Variant,
		Seed:       run.Meta.Seed,
		Dt:         run.Meta.Dt,
		Frames:     run.Meta.Frames,
		Metrics:    run.Meta.Metrics,
		Placements: run.Placements,
		Samples:    run.Samples,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
