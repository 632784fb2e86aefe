package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/ropesim/internal/driver"
	"github.com/san-kum/ropesim/internal/dynamo"
	"github.com/san-kum/ropesim/internal/experiment"
	"github.com/san-kum/ropesim/internal/export"
	"github.com/san-kum/ropesim/internal/metrics"
	"github.com/san-kum/ropesim/internal/sim"
)

const (
	defaultWidth    = 100
	defaultHeight   = 30
	historyCapacity = 600
	graphCapacity   = 120
	smoothSteps     = 3

	// World units per canvas dot after a terminal resize.
	worldPerDot = 4.0
)

// Snapshot stores a frame for replay.
type Snapshot struct {
	State sim.State
	Clock float64
	Frame int
}

type TickMsg time.Time

// ReloadMsg swaps the simulator tuning without touching scene state.
type ReloadMsg struct {
	Tuning sim.Tuning
}

// Model owns one scene and the simulator stepping it.
type Model struct {
	sim     *sim.Simulator
	scene   *sim.Scene
	rebuild func() (*sim.Scene, error)

	width, height int
	canvas        *Canvas
	camera        *Camera
	keys          KeyMap
	help          help.Model
	theme         Theme
	styles        Styles

	pool     *sim.SnapshotPool
	history  []Snapshot
	playHead int
	stretch  []float64

	running  bool
	err      error
	recorder *Recorder
}

// NewModel wraps a scene for live display. rebuild, if non-nil, produces a
// fresh scene for the reset key.
func NewModel(s *sim.Simulator, sc *sim.Scene, rebuild func() (*sim.Scene, error)) Model {
	m := Model{
		sim:      s,
		scene:    sc,
		rebuild:  rebuild,
		canvas:   NewCanvas(1, 1),
		camera:   NewCamera(fps(s.Tuning().FrameMs)),
		keys:     DefaultKeyMap(),
		help:     help.New(),
		theme:    Themes[0],
		styles:   NewStyles(Themes[0]),
		pool:     sim.NewSnapshotPool(sc.Dim()),
		history:  make([]Snapshot, 0, historyCapacity),
		playHead: -1,
		stretch:  make([]float64, 0, graphCapacity),
		running:  true,
	}
	m.layout(defaultWidth, defaultHeight)
	m.camera.TargetX, m.camera.TargetY = sc.Width/2, sc.Height/2
	m.camera.Snap()
	return m
}

// WithTheme starts the view in the named theme; unknown names keep the
// first theme.
func (m Model) WithTheme(name string) Model {
	m.theme = GetTheme(name)
	m.styles = NewStyles(m.theme)
	return m
}

func fps(frameMs float64) int {
	if frameMs <= 0 {
		return 60
	}
	return int(math.Round(1000 / frameMs))
}

func (m Model) tick() tea.Cmd {
	d := time.Duration(m.sim.Tuning().FrameMs * float64(time.Millisecond))
	return tea.Tick(d, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout(msg.Width, msg.Height)
		// The scene keeps its state; drivers pick up the new bounds.
		m.scene.Resize(float64(m.canvas.SubWidth())*worldPerDot, float64(m.canvas.SubHeight())*worldPerDot)

	case ReloadMsg:
		m.sim.SetTuning(msg.Tuning)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			if m.recorder != nil {
				_ = m.recorder.Save()
			}
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.running = !m.running
		case key.Matches(msg, m.keys.Reset):
			m.reset()
		case key.Matches(msg, m.keys.Rewind):
			m.scrub(-1)
		case key.Matches(msg, m.keys.Forward):
			m.scrub(1)
		case key.Matches(msg, m.keys.ZoomIn):
			m.camera.ZoomBy(1.25)
		case key.Matches(msg, m.keys.ZoomOut):
			m.camera.ZoomBy(0.8)
		case key.Matches(msg, m.keys.Theme):
			m.theme = NextTheme(m.theme.Name)
			m.styles = NewStyles(m.theme)
		case key.Matches(msg, m.keys.Record):
			m.toggleRecording()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}

	case TickMsg:
		if m.running && m.err == nil {
			if m.playHead == -1 {
				m.step()
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		m.camera.TargetX, m.camera.TargetY = m.scene.Width/2, m.scene.Height/2
		m.camera.Update()
		if m.recorder != nil {
			m.draw()
			m.recorder.Capture(m.canvas)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) layout(w, h int) {
	m.width, m.height = w, h
	cols := w - panelWidth - 6
	if cols < 20 {
		cols = 20
	}
	rows := h - 2
	if rows < 8 {
		rows = 8
	}
	m.canvas.Resize(cols, rows)
	m.help.Width = panelWidth
}

// step advances the physics one frame and records it.
func (m *Model) step() {
	m.sim.Step(m.scene)
	if !m.scene.Valid() {
		m.err = &dynamo.SimulationError{Frame: m.scene.Frame, Time: m.scene.Clock, Wrapped: dynamo.ErrInvalidState}
		m.running = false
		return
	}

	m.stretch = append(m.stretch, metrics.Worst(m.scene))
	if len(m.stretch) > graphCapacity {
		m.stretch = m.stretch[1:]
	}

	if len(m.history) == historyCapacity {
		m.pool.Release(m.history[0].State)
		m.history = m.history[1:]
	}
	m.history = append(m.history, Snapshot{
		State: m.pool.Capture(m.scene),
		Clock: m.scene.Clock,
		Frame: m.scene.Frame,
	})
}

// scrub moves the playback position through history.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

// reset rebuilds the scene from its seed, keeping the current canvas size.
func (m *Model) reset() {
	if m.rebuild == nil {
		return
	}
	sc, err := m.rebuild()
	if err != nil {
		m.err = err
		return
	}
	sc.Resize(m.scene.Width, m.scene.Height)
	m.scene = sc

	for _, s := range m.history {
		m.pool.Release(s.State)
	}
	m.history = m.history[:0]
	m.stretch = m.stretch[:0]
	m.playHead = -1
	m.err = nil
	m.running = true
}

func (m *Model) toggleRecording() {
	if m.recorder == nil {
		m.recorder = NewRecorder(fmt.Sprintf("%s.gif", m.scene.Name))
		return
	}
	_ = m.recorder.Save()
	m.recorder = nil
}

// frameState is the snapshot being displayed: the live scene, or a replayed
// frame while scrubbing.
func (m *Model) frameState() (sim.State, float64, int) {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		s := m.history[m.playHead]
		return s.State, s.Clock, s.Frame
	}
	return m.scene.Flatten(nil), m.scene.Clock, m.scene.Frame
}

func (m *Model) draw() {
	state, _, _ := m.frameState()
	m.canvas.Clear()

	subW, subH := m.canvas.SubWidth(), m.canvas.SubHeight()
	scale := math.Min(float64(subW)/m.scene.Width, float64(subH)/m.scene.Height)

	off := 0
	for _, e := range m.scene.Entities {
		n := e.Rope.Len()
		if off+2*n > len(state) {
			return
		}
		pts := make([]dynamo.Vec2, n)
		for i := range pts {
			pts[i] = m.camera.Project(dynamo.V(state[off+2*i], state[off+2*i+1]), scale, subW, subH)
		}
		off += 2 * n

		m.canvas.DrawPolyline(export.Smooth(pts, smoothSteps))
		m.canvas.Dot(round(pts[0].X), round(pts[0].Y), 1)
		m.canvas.Dot(round(pts[n-1].X), round(pts[n-1].Y), 1)
	}
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return m.styles.Failed.Render("DIVERGED")
	case m.playHead != -1:
		back := m.history[len(m.history)-1].Clock - m.history[m.playHead].Clock
		label := fmt.Sprintf("REPLAY (-%.1fs)", back/1000)
		if !m.running {
			label = fmt.Sprintf("REPLAY PAUSED (-%.1fs)", back/1000)
		}
		return m.styles.Paused.Render(label)
	case !m.running:
		return m.styles.Paused.Render("PAUSED")
	}
	return m.styles.Running.Render("RUNNING")
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	_, clock, frame := m.frameState()

	var s strings.Builder
	s.WriteString(m.styles.Header.Render(strings.ToUpper(m.scene.Name)) + "\n")
	s.WriteString(m.status())
	if m.recorder != nil {
		s.WriteString("  " + m.styles.Failed.Render("● REC"))
	}
	s.WriteString("\n\n")

	s.WriteString(m.styles.Row("Frame", fmt.Sprintf("%d", frame)))
	s.WriteString(m.styles.Row("Clock", fmt.Sprintf("%.1fs", clock/1000)))

	t := m.sim.Tuning()
	progress := 1.0
	if t.ReleaseMs > 0 {
		progress = math.Min(1, clock/t.ReleaseMs)
	}
	s.WriteString(m.styles.Row("Release", m.styles.ProgressBar(progress, 16)))

	for i, n := range experiment.Nodes(m.scene) {
		state := m.styles.Value.Render(n.State().String())
		if n.State() == driver.Moving {
			state = m.styles.Moving.Render(n.State().String())
		}
		s.WriteString(m.styles.Label.Render(fmt.Sprintf("Node %d", i)) + state + "\n")
	}

	swing := 0.0
	for _, e := range m.scene.Entities {
		if e.Spring != nil {
			swing = math.Max(swing, math.Abs(e.Spring.Offset))
		}
	}
	s.WriteString(m.styles.Row("Swing", fmt.Sprintf("%.2f", swing)))

	if len(m.stretch) > 0 {
		s.WriteString(m.styles.Row("Stretch", fmt.Sprintf("%.4f", m.stretch[len(m.stretch)-1])))
	}
	if len(m.stretch) > 1 {
		chart := asciigraph.Plot(m.stretch, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("stretch error"))
		s.WriteString(m.styles.Graph.Render(chart) + "\n")
	}
	if m.err != nil {
		s.WriteString(m.styles.Failed.Render(m.err.Error()) + "\n")
	}

	s.WriteString("\n" + m.help.View(m.keys))

	canvasView := m.styles.Canvas.Render(m.canvas.String())
	statsView := m.styles.Panel.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

// NewProgram wraps m in a full-screen Bubble Tea program.
func NewProgram(m Model, opts ...tea.ProgramOption) *tea.Program {
	return tea.NewProgram(m, append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...)
}
