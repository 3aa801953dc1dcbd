package metrics

import (
	"github.com/san-kum/wintersim/internal/motion"
	"github.com/san-kum/wintersim/internal/sim"
)

// FireflyBounces counts velocity flips over a run.
type FireflyBounces struct {
	name  string
	total int
}

func NewFireflyBounces() *FireflyBounces {
	return &FireflyBounces{name: "firefly_bounces"}
}

func (m *FireflyBounces) Name() string { return m.name }

func (m *FireflyBounces) Observe(st motion.Stats, v sim.View) {
	m.total += st.Bounces
}

func (m *FireflyBounces) Value() float64 { return float64(m.total) }

func (m *FireflyBounces) Reset() { m.total = 0 }

// FocalArrival records the first frame on which the named model was present,
// or -1 when it never arrived.
type FocalArrival struct {
	name  string
	model string
	frame int
}

func NewFocalArrival(model string) *FocalArrival {
	return &FocalArrival{name: "focal_arrival", model: model, frame: -1}
}

func (m *FocalArrival) Name() string { return m.name }

func (m *FocalArrival) Observe(st motion.Stats, v sim.View) {
	if m.frame < 0 && v.Present(m.model) {
		m.frame = st.Frame
	}
}

func (m *FocalArrival) Value() float64 { return float64(m.frame) }

func (m *FocalArrival) Reset() { m.frame = -1 }
