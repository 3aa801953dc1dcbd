// Package storage keeps finished runs on disk, one directory per run.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/wintersim/internal/config"
	"github.com/san-kum/wintersim/internal/geom"
	"github.com/san-kum/wintersim/internal/metrics"
	"github.com/san-kum/wintersim/internal/sim"
)

const (
	metadataFile   = "metadata.json"
	placementsFile = "placements.json"
	framesFile     = "frames.csv"
	configFile     = "config.yaml"
)

var ErrRunNotFound = errors.New("run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string                              `json:"id"`
	Variant   string                              `json:"variant"`
	Label     string                              `json:"label,omitempty"`
	Focal     string                              `json:"focal"`
	Timestamp time.Time                           `json:"timestamp"`
	Seed      int64                               `json:"seed"`
	Dt        float64                             `json:"dt"`
	Frames    int                                 `json:"frames"`
	Counts    map[string]int                      `json:"counts"`
	Metrics   map[string]float64                  `json:"metrics"`
	Clearance map[string]metrics.ClearanceSummary `json:"clearance,omitempty"`
	Attached  map[string]int                      `json:"attached,omitempty"`
	Dropped   []string                            `json:"dropped,omitempty"`
}

// Run is everything persisted for one simulation. Config is the resolved
// configuration the scene was built from; it is optional.
type Run struct {
	Meta       RunMetadata
	Config     *config.Config
	Placements map[string][]geom.Vec3
	Samples    []sim.Sample
}

// Save writes run under a fresh id and returns it. Meta.ID and
// Meta.Timestamp are filled in.
func (s *Store) Save(run *Run) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", run.Meta.Variant, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	run.Meta.ID = runID
	run.Meta.Timestamp = now

	if err := writeJSON(filepath.Join(runDir, metadataFile), run.Meta); err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}
	if err := writeJSON(filepath.Join(runDir, placementsFile), run.Placements); err != nil {
		return "", fmt.Errorf("write placements: %w", err)
	}
	if run.Config != nil {
		if err := config.Save(filepath.Join(runDir, configFile), run.Config); err != nil {
			return "", fmt.Errorf("write config: %w", err)
		}
	}

	f, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := WriteFrames(f, run.Samples); err != nil {
		return "", fmt.Errorf("write frames: %w", err)
	}
	return runID, nil
}

// List returns the metadata of every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		var meta RunMetadata
		if err := readJSON(filepath.Join(s.baseDir, entry.Name(), metadataFile), &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	var meta RunMetadata
	if err := readJSON(filepath.Join(s.baseDir, runID, metadataFile), &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadPlacements(runID string) (map[string][]geom.Vec3, error) {
	var out map[string][]geom.Vec3
	if err := readJSON(filepath.Join(s.baseDir, runID, placementsFile), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadConfig reads the configuration a run was built from. Runs saved
// without one return ErrRunNotFound.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	path := filepath.Join(s.baseDir, runID, configFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s has no %s", ErrRunNotFound, runID, configFile)
	}
	return config.Load(path)
}

func (s *Store) LoadFrames(runID string) ([]sim.Sample, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer f.Close()

	samples := make([]sim.Sample, 0)
	if err := gocsv.Unmarshal(f, &samples); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return samples, nil
		}
		return nil, err
	}
	return samples, nil
}

// LoadRun reads back everything Save wrote.
func (s *Store) LoadRun(runID string) (*Run, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	placements, err := s.LoadPlacements(runID)
	if err != nil {
		return nil, err
	}
	samples, err := s.LoadFrames(runID)
	if err != nil {
		return nil, err
	}
	cfg, err := s.LoadConfig(runID)
	if err != nil && !errors.Is(err, ErrRunNotFound) {
		return nil, err
	}
	return &Run{Meta: *meta, Config: cfg, Placements: placements, Samples: samples}, nil
}

// WriteFrames writes samples as CSV with a header row.
func WriteFrames(w io.Writer, samples []sim.Sample) error {
	if len(samples) == 0 {
		return nil
	}
	return gocsv.Marshal(samples, w)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrRunNotFound, filepath.Base(filepath.Dir(path)))
		}
		return err
	}
	return json.Unmarshal(data, v)
}
