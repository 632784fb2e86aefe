package experiment

import (
	"fmt"
	"math"

	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/driver"
	"github.com/san-kum/ropesim/internal/dynamo"
	"github.com/san-kum/ropesim/internal/physics"
	"github.com/san-kum/ropesim/internal/sim"
)

const (
	nebulaNodes   = 6
	nebulaRadiusX = 0.35
	nebulaRadiusY = 0.3
	nebulaSway    = 0.02
	nebulaBob     = 0.04
	nebulaSlack   = 1.1

	// Periods in ms.
	nebulaSwayPeriod = 6000.0
	nebulaBobPeriod  = 4200.0
)

// Ring neighbours plus two chords across the ellipse.
var nebulaEdges = [][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 0},
	{0, 3}, {1, 4},
}

func nebulaBase(i int, w, h float64) dynamo.Vec2 {
	a := 2 * math.Pi * float64(i) / nebulaNodes
	return dynamo.V(w/2+w*nebulaRadiusX*math.Cos(a), h/2+h*nebulaRadiusY*math.Sin(a))
}

func placeNebulaNode(d *driver.Drift, i int, w, h float64) {
	d.Base = nebulaBase(i, w, h)
	d.SwayAmp = w * nebulaSway
	d.BobAmp = h * nebulaBob
}

// BuildNebula connects six drifting nodes with ropes. Both ends of every
// rope are pinned to their nodes, so ropes meeting at a node meet at one
// point. There is no anchor spring: a sideways rope would hold it off the
// node. The drift is a pure function of time, so ropes sharing a node share
// its driver.
func BuildNebula(cfg *config.Config, rng dynamo.Rand) (*sim.Scene, error) {
	nodes := make([]*driver.Drift, nebulaNodes)
	for i := range nodes {
		nodes[i] = &driver.Drift{
			SwayFreq: 2 * math.Pi / nebulaSwayPeriod,
			BobFreq:  2 * math.Pi / nebulaBobPeriod,
			Phase:    float64(i) * math.Pi / 3,
		}
		placeNebulaNode(nodes[i], i, cfg.Width, cfg.Height)
	}

	sc := &sim.Scene{
		Name:   "nebula",
		Width:  cfg.Width,
		Height: cfg.Height,
	}

	for _, edge := range nebulaEdges {
		a, b := nodes[edge[0]], nodes[edge[1]]
		pa, pb := a.At(0), b.At(0)
		r, err := physics.NewWithLength(pa, pb, cfg.Segments, pa.Dist(pb)*nebulaSlack/float64(cfg.Segments))
		if err != nil {
			return nil, fmt.Errorf("edge %d-%d: %w", edge[0], edge[1], err)
		}
		sc.Entities = append(sc.Entities, &sim.Entity{
			Name:          fmt.Sprintf("edge-%d-%d", edge[0], edge[1]),
			Rope:          r,
			Anchor:        a,
			End:           b,
			SqueezeOrigin: pa.Mid(pb),
		})
	}

	sc.Layout = func(s *sim.Scene, w, h float64) {
		for i, d := range nodes {
			placeNebulaNode(d, i, w, h)
		}
		for i, edge := range nebulaEdges {
			s.Entities[i].SqueezeOrigin = nebulaBase(edge[0], w, h).Mid(nebulaBase(edge[1], w, h))
		}
	}

	return sc, nil
}
