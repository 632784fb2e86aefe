package experiment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/driver"
	"github.com/san-kum/ropesim/internal/dynamo"
	"github.com/san-kum/ropesim/internal/sim"
)

func TestRegistryScenes(t *testing.T) {
	reg := NewRegistry()

	tests := []struct {
		scene    string
		entities int
	}{
		{"llm", 4},
		{"nebula", 8},
	}

	for _, tt := range tests {
		t.Run(tt.scene, func(t *testing.T) {
			cfg := config.GetPreset(tt.scene)
			sc, err := reg.Build(cfg, dynamo.NewRand(1))
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			if len(sc.Entities) != tt.entities {
				t.Errorf("expected %d ropes, got %d", tt.entities, len(sc.Entities))
			}
			for _, e := range sc.Entities {
				if e.Rope.Len() != cfg.Segments+1 {
					t.Errorf("%s: expected %d points, got %d", e.Name, cfg.Segments+1, e.Rope.Len())
				}
			}
			if !sc.Valid() {
				t.Error("fresh scene should be finite")
			}
		})
	}
}

func TestRegistryUnknownScene(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scene = "fractal"
	if _, err := NewRegistry().Build(cfg, dynamo.NewRand(1)); !errors.Is(err, dynamo.ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestRegistryRejectsBadGeometry(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Segments = 0
	if _, err := NewRegistry().Build(cfg, dynamo.NewRand(1)); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}

func TestListScenes(t *testing.T) {
	names := NewRegistry().ListScenes()
	if len(names) != 2 || names[0] != "llm" || names[1] != "nebula" {
		t.Errorf("unexpected scenes %v", names)
	}
}

func TestLLMResizeMovesBounds(t *testing.T) {
	cfg := config.GetPreset("llm")
	sc, err := NewRegistry().Build(cfg, dynamo.NewRand(3))
	if err != nil {
		t.Fatal(err)
	}

	sc.Resize(1600, 900)

	for i, n := range Nodes(sc) {
		if math.Abs(n.MaxX-1600*(1-llmRailInset)) > 1e-9 {
			t.Errorf("node %d: expected maxX %f, got %f", i, 1600*(1-llmRailInset), n.MaxX)
		}
		if math.Abs(n.RailY-900*llmRailY) > 1e-9 {
			t.Errorf("node %d: expected rail %f, got %f", i, 900*llmRailY, n.RailY)
		}
	}
	anchor := sc.Entities[0].Anchor.(*driver.Fixed)
	if math.Abs(anchor.Pos.Y-900*llmAnchorY) > 1e-9 {
		t.Errorf("anchor not moved: %+v", anchor.Pos)
	}
}

func TestNebulaResizeMovesNodes(t *testing.T) {
	cfg := config.GetPreset("nebula")
	sc, err := NewRegistry().Build(cfg, dynamo.NewRand(3))
	if err != nil {
		t.Fatal(err)
	}
	sc.Resize(400, 300)

	d := sc.Entities[0].Anchor.(*driver.Drift)
	if d.Base != nebulaBase(0, 400, 300) {
		t.Errorf("node base not updated: %+v", d.Base)
	}
}

func TestExperimentRun(t *testing.T) {
	for _, name := range config.ListPresets() {
		t.Run(name, func(t *testing.T) {
			cfg := config.GetPreset(name)
			cfg.Frames = 300

			exp, err := New(cfg, NewRegistry(), nil)
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			res, err := exp.Run(context.Background(), 50)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if res.FramesTaken != 300 {
				t.Errorf("expected 300 frames, got %d", res.FramesTaken)
			}
			if res.Metrics["end_drift"] != 0 {
				t.Errorf("end drift should be 0, got %f", res.Metrics["end_drift"])
			}
			for _, st := range res.States {
				if len(st) != exp.Scene().Dim() {
					t.Fatalf("state width %d, want %d", len(st), exp.Scene().Dim())
				}
			}
		})
	}
}

func TestFactoryFeedsEnsemble(t *testing.T) {
	cfg := config.GetPreset("llm")
	reg := NewRegistry()

	tuning, err := cfg.Tuning()
	if err != nil {
		t.Fatal(err)
	}
	ens := sim.NewEnsemble(tuning, reg.Factory(cfg), reg.DefaultMetrics, 3, 10, nil)
	results, err := ens.Run(context.Background(), sim.RunConfig{Frames: 60})
	if err != nil {
		t.Fatalf("ensemble: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

func TestNebulaRopesStayOnNodes(t *testing.T) {
	cfg := config.GetPreset("nebula")
	cfg.Frames = 600

	exp, err := New(cfg, NewRegistry(), nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := exp.Run(context.Background(), 0); err != nil {
		t.Fatalf("run: %v", err)
	}

	sc := exp.Scene()
	last := sc.Clock - exp.Simulator().Tuning().FrameMs
	for _, e := range sc.Entities {
		if e.Spring != nil {
			t.Errorf("%s: unexpected anchor spring", e.Name)
		}
		want := e.Anchor.(*driver.Drift).At(last)
		if got := e.Rope.Anchor().Pos; got.Dist(want) > 1e-9 {
			t.Errorf("%s: anchor %v off its node %v", e.Name, got, want)
		}
		want = e.End.(*driver.Drift).At(last)
		if got := e.Rope.End().Pos; got.Dist(want) > 1e-9 {
			t.Errorf("%s: end %v off its node %v", e.Name, got, want)
		}
	}

	// Every rope touching node 0 meets at the same point.
	node0 := sc.Entities[0].Anchor.(*driver.Drift).At(last)
	for _, e := range sc.Entities {
		var p dynamo.Vec2
		switch {
		case e.Anchor == sc.Entities[0].Anchor:
			p = e.Rope.Anchor().Pos
		case e.End == sc.Entities[0].Anchor:
			p = e.Rope.End().Pos
		default:
			continue
		}
		if p.Dist(node0) > 1e-9 {
			t.Errorf("%s: node 0 endpoint %v, want %v", e.Name, p, node0)
		}
	}
}
