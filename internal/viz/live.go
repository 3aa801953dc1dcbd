// Package viz renders a running winter scene in the terminal.
//
// The live view is a Bubble Tea program drawing onto a braille [Canvas]
// through an [OrbitCamera]:
//
//	Space      pause and resume
//	R          rebuild the scene
//	+ / -      zoom
//	arrows/hjkl orbit
//	A          toggle auto-rotate
//	T          cycle themes
//	?          help
//	Q          quit
package viz

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/wintersim/internal/geom"
	"github.com/san-kum/wintersim/internal/motion"
	"github.com/san-kum/wintersim/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	maxFrameDelta   = 4
	orbitStep       = 0.2

	// DefaultAutoRotate is one full orbit every 30 seconds.
	DefaultAutoRotate = 2 * math.Pi / (30 * motion.ReferenceFPS)
)

type TickMsg time.Time

type Options struct {
	// Build returns a fresh simulator. It is called once at start and again
	// on every reset.
	Build func() (*sim.Simulator, error)
	// FixedStep advances exactly one reference frame per tick instead of
	// following the wall clock.
	FixedStep  bool
	SnowStride int
	Theme      string
	// Frames stops the program after this many frames; 0 runs until quit.
	Frames     int
	AutoRotate bool
}

// Model contains the running simulator, the view buffers and UI state.
type Model struct {
	opts     Options
	sim      *sim.Simulator
	canvas   *Canvas
	camera   *OrbitCamera
	theme    Theme
	styles   styles
	running  bool
	last     time.Time
	heights  []float64
	resets   int
	bounces  int
	failed   bool
	err      error
	showHelp bool
}

func NewModel(opts Options) (Model, error) {
	if opts.Build == nil {
		return Model{}, fmt.Errorf("viz: no scene builder")
	}
	if opts.SnowStride <= 0 {
		opts.SnowStride = 4
	}
	s, err := opts.Build()
	if err != nil {
		return Model{}, err
	}

	theme := GetTheme(opts.Theme)
	m := Model{
		opts:    opts,
		sim:     s,
		canvas:  NewCanvas(width, height),
		camera:  NewOrbitCamera(geom.Vec3{X: 10, Y: 10, Z: 15}, geom.Vec3{Y: 2}),
		theme:   theme,
		styles:  newStyles(theme),
		running: true,
		heights: make([]float64, 0, historyCapacity),
	}
	if opts.AutoRotate {
		m.camera.AutoRotate = DefaultAutoRotate
	}
	m.draw()
	return m, nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/motion.ReferenceFPS, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

// Update handles input events and steps the scene.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			if err := m.reset(); err != nil {
				m.err = err
				return m, tea.Quit
			}
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "left", "h":
			m.camera.Orbit(-orbitStep, 0)
		case "right", "l":
			m.camera.Orbit(orbitStep, 0)
		case "up", "k":
			m.camera.Orbit(0, orbitStep)
		case "down", "j":
			m.camera.Orbit(0, -orbitStep)
		case "a":
			if m.camera.AutoRotate == 0 {
				m.camera.AutoRotate = DefaultAutoRotate
			} else {
				m.camera.AutoRotate = 0
			}
		case "t":
			m.theme = nextTheme(m.theme)
			m.styles = newStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
		m.draw()
		return m, nil

	case TickMsg:
		dt := m.frameDelta(time.Time(msg))
		m.last = time.Time(msg)
		m.camera.Update(dt)
		if m.running {
			if err := m.step(dt); err != nil {
				m.err = err
				return m, tea.Quit
			}
		}
		m.draw()
		if m.opts.Frames > 0 && m.sim.Updater().Frame() >= m.opts.Frames {
			return m, tea.Quit
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) frameDelta(now time.Time) float64 {
	if m.opts.FixedStep || m.last.IsZero() {
		return 1
	}
	return math.Min(maxFrameDelta, motion.FrameDelta(now.Sub(m.last)))
}

func (m *Model) step(dt float64) error {
	st, err := m.sim.Step(dt)
	if err != nil {
		return err
	}
	m.resets += st.Resets
	m.bounces += st.Bounces
	for _, name := range st.Dropped {
		if name == m.sim.Scene().Focal.Name {
			m.failed = true
		}
	}

	if len(m.heights) == historyCapacity {
		copy(m.heights, m.heights[1:])
		m.heights = m.heights[:historyCapacity-1]
	}
	m.heights = append(m.heights, m.sim.SnowMeanHeight())
	return nil
}

func (m *Model) reset() error {
	s, err := m.opts.Build()
	if err != nil {
		return err
	}
	m.sim = s
	m.heights = m.heights[:0]
	m.resets, m.bounces = 0, 0
	m.failed = false
	m.last = time.Time{}
	return nil
}

// Err returns the error that stopped the program, if any.
func (m Model) Err() error { return m.err }

// Frame returns the number of frames the current scene has advanced.
func (m Model) Frame() int { return m.sim.Updater().Frame() }

func (m Model) Running() bool { return m.running }

func (m Model) Camera() *OrbitCamera { return m.camera }

func (m Model) View() string {
	scene := m.sim.Scene()
	up := m.sim.Updater()

	var s strings.Builder
	title := strings.ToUpper(scene.Focal.Name)
	if title == "" {
		title = "WINTER SCENE"
	}
	s.WriteString(m.styles.header.Render(title) + "\n")
	if m.running {
		s.WriteString(m.styles.status.Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(m.styles.paused.Render("PAUSED") + "\n\n")
	}

	if len(m.heights) > 1 {
		chart := asciigraph.Plot(m.heights, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("mean snow height"))
		s.WriteString(m.styles.graph.Render(chart) + "\n")
	}

	frames := up.Frame()
	s.WriteString(m.styles.row("Frame", fmt.Sprintf("%d", frames)))
	s.WriteString(m.styles.row("Time", fmt.Sprintf("%.2fs", float64(frames)/motion.ReferenceFPS)))
	if scene.Snow != nil {
		s.WriteString(m.styles.row("Flakes", fmt.Sprintf("%d", scene.Snow.Len())))
	}
	s.WriteString(m.styles.row("Resets", fmt.Sprintf("%d", m.resets)))
	s.WriteString(m.styles.row("Bounces", fmt.Sprintf("%d", m.bounces)))
	s.WriteString(m.styles.row("Model", m.focalStatus()))
	s.WriteString(m.styles.row("Camera", fmt.Sprintf("az %.0f° el %.0f° d %.1f",
		m.camera.Azimuth*180/math.Pi, m.camera.Elevation*180/math.Pi, m.camera.Distance)))
	s.WriteString(m.styles.row("Theme", m.theme.Name))

	s.WriteString(m.styles.help.Render("SP:Pause R:Reset Q:Quit\n←→↑↓:Orbit +-:Zoom\nA:Auto-rotate T:Theme ?:Help"))

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.canvas.Render(m.canvas.Render(m.styles.pens)),
		m.styles.stats.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + main
	}
	return main
}

const helpText = `
  Space    pause / resume
  R        rebuild the scene
  Arrows   orbit (hjkl also work)
  + / -    zoom in / out
  A        toggle auto-rotate
  T        cycle themes
  ?        toggle this help
  Q        quit`

func (m Model) focalStatus() string {
	name := m.sim.Scene().Focal.Name
	switch {
	case name == "":
		return "none"
	case m.sim.Present(name):
		return name
	case m.failed:
		return "failed"
	default:
		return "loading"
	}
}

// Run starts the live view and blocks until it exits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	m, err := NewModel(opts)
	if err != nil {
		return err
	}
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok {
		return fm.Err()
	}
	return nil
}
