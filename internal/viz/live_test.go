package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/dynamo"
	"github.com/san-kum/ropesim/internal/experiment"
	"github.com/san-kum/ropesim/internal/sim"
)

func newTestModel(t *testing.T, scene string) Model {
	t.Helper()
	cfg := config.GetPreset(scene)
	tuning, err := cfg.Tuning()
	if err != nil {
		t.Fatal(err)
	}
	reg := experiment.NewRegistry()
	build := func() (*sim.Scene, error) { return reg.Build(cfg, dynamo.NewRand(cfg.Seed)) }
	sc, err := build()
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(sim.New(tuning, nil), sc, build)
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func tick(t *testing.T, m Model, n int) Model {
	for i := 0; i < n; i++ {
		m = update(t, m, TickMsg(time.Now()))
	}
	return m
}

func TestModelTicksStepScene(t *testing.T) {
	m := newTestModel(t, "llm")
	m = tick(t, m, 10)

	if m.scene.Frame != 10 {
		t.Errorf("expected 10 frames, got %d", m.scene.Frame)
	}
	if len(m.history) != 10 || len(m.stretch) != 10 {
		t.Errorf("expected 10 recorded frames, got %d history %d stretch", len(m.history), len(m.stretch))
	}
}

func TestModelPause(t *testing.T) {
	m := newTestModel(t, "llm")
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if m.running {
		t.Fatal("space should pause")
	}
	m = tick(t, m, 5)
	if m.scene.Frame != 0 {
		t.Errorf("paused model stepped %d frames", m.scene.Frame)
	}
}

func TestModelResizeKeepsState(t *testing.T) {
	m := newTestModel(t, "llm")
	m = tick(t, m, 20)
	frame := m.scene.Frame

	m = update(t, m, tea.WindowSizeMsg{Width: 160, Height: 50})

	if m.canvas.Width != 160-panelWidth-6 || m.canvas.Height != 48 {
		t.Errorf("unexpected canvas %dx%d", m.canvas.Width, m.canvas.Height)
	}
	if m.scene.Width != float64(m.canvas.SubWidth())*worldPerDot {
		t.Errorf("scene width not updated: %f", m.scene.Width)
	}
	if m.scene.Frame != frame {
		t.Error("resize must not reset the simulation")
	}
}

func TestModelReload(t *testing.T) {
	m := newTestModel(t, "nebula")
	tuning := m.sim.Tuning()
	tuning.Gravity = 0.9
	m = update(t, m, ReloadMsg{Tuning: tuning})

	if m.sim.Tuning().Gravity != 0.9 {
		t.Errorf("reload not applied, gravity %f", m.sim.Tuning().Gravity)
	}
}

func TestModelRewindAndReset(t *testing.T) {
	m := newTestModel(t, "llm")
	m = tick(t, m, 30)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'['}})
	if m.playHead != 28 || m.running {
		t.Fatalf("expected paused replay at 28, got head %d running %v", m.playHead, m.running)
	}
	if _, _, frame := m.frameState(); frame != 29 {
		t.Errorf("replay should show frame 29, got %d", frame)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if m.scene.Frame != 0 || len(m.history) != 0 || m.playHead != -1 || !m.running {
		t.Errorf("reset should rebuild the scene: frame %d history %d head %d", m.scene.Frame, len(m.history), m.playHead)
	}
}

func TestModelThemeCycle(t *testing.T) {
	m := newTestModel(t, "llm")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	if m.theme.Name != Themes[1].Name {
		t.Errorf("expected theme %s, got %s", Themes[1].Name, m.theme.Name)
	}
}

func TestModelWithTheme(t *testing.T) {
	m := newTestModel(t, "llm").WithTheme(ThemeSunset.Name)
	if m.theme.Name != ThemeSunset.Name {
		t.Errorf("expected theme %s, got %s", ThemeSunset.Name, m.theme.Name)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	if m.theme.Name != NextTheme(ThemeSunset.Name).Name {
		t.Errorf("cycling should continue from the chosen theme, got %s", m.theme.Name)
	}

	if got := newTestModel(t, "llm").WithTheme("plaid").theme.Name; got != Themes[0].Name {
		t.Errorf("unknown theme should fall back to %s, got %s", Themes[0].Name, got)
	}
}

func TestHasTheme(t *testing.T) {
	for _, name := range ThemeNames() {
		if !HasTheme(name) {
			t.Errorf("HasTheme(%q) = false", name)
		}
	}
	if HasTheme("plaid") {
		t.Error("HasTheme should reject unknown names")
	}
}

func TestModelView(t *testing.T) {
	m := newTestModel(t, "llm")
	m = tick(t, m, 3)

	view := m.View()
	for _, want := range []string{"LLM", "RUNNING", "Node 0", "Release"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t, "llm")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
