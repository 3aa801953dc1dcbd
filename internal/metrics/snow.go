package metrics

import (
	"github.com/san-kum/wintersim/internal/motion"
	"github.com/san-kum/wintersim/internal/sim"
)

// SnowResets is the mean number of flakes recycled to the ceiling per tick.
type SnowResets struct {
	name    string
	total   int
	samples int
}

func NewSnowResets() *SnowResets {
	return &SnowResets{name: "snow_resets"}
}

func (m *SnowResets) Name() string { return m.name }

func (m *SnowResets) Observe(st motion.Stats, v sim.View) {
	m.total += st.Resets
	m.samples++
}

func (m *SnowResets) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return float64(m.total) / float64(m.samples)
}

func (m *SnowResets) Reset() {
	m.total = 0
	m.samples = 0
}

type SnowHeight struct {
	name    string
	sum     float64
	samples int
}

func NewSnowHeight() *SnowHeight {
	return &SnowHeight{name: "snow_mean_height"}
}

func (m *SnowHeight) Name() string { return m.name }

func (m *SnowHeight) Observe(st motion.Stats, v sim.View) {
	m.sum += v.SnowMeanHeight()
	m.samples++
}

func (m *SnowHeight) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *SnowHeight) Reset() {
	m.sum = 0
	m.samples = 0
}
