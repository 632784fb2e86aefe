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
	llmNodes     = 4
	llmAnchorY   = 0.08
	llmRailY     = 0.7
	llmRailInset = 0.15
	llmSlack     = 1.05
	llmTangle    = 0.12
	llmJitter    = 0.35
)

// llmLayout derives every size-dependent position of the rail scene.
type llmLayout struct {
	anchors    []dynamo.Vec2
	minX, maxX float64
	railY      float64
	origin     dynamo.Vec2
}

func newLLMLayout(w, h float64) llmLayout {
	l := llmLayout{
		anchors: make([]dynamo.Vec2, llmNodes),
		minX:    w * llmRailInset,
		maxX:    w * (1 - llmRailInset),
		railY:   h * llmRailY,
		origin:  dynamo.V(w/2, h*(llmAnchorY+llmRailY)/2),
	}
	for i := range l.anchors {
		l.anchors[i] = dynamo.V(w*float64(i+1)/float64(llmNodes+1), h*llmAnchorY)
	}
	return l
}

// BuildLLM hangs four ropes from anchors along the top edge down to nodes
// that shuttle along a shared rail. Nodes start on alternating rail ends so
// their ropes cross, and every rope begins tangled around the scene centre.
func BuildLLM(cfg *config.Config, rng dynamo.Rand) (*sim.Scene, error) {
	l := newLLMLayout(cfg.Width, cfg.Height)

	anchors := make([]*driver.Fixed, llmNodes)
	nodes := make([]*driver.Scripted, llmNodes)
	sc := &sim.Scene{
		Name:   "llm",
		Width:  cfg.Width,
		Height: cfg.Height,
	}

	spread := llmTangle * math.Min(cfg.Width, cfg.Height)
	for i := 0; i < llmNodes; i++ {
		x := l.minX
		if i%2 == 1 {
			x = l.maxX
		}
		start := dynamo.V(x, l.railY)

		// Long enough to reach either rail end without overstretching.
		reach := math.Max(l.anchors[i].Dist(dynamo.V(l.minX, l.railY)), l.anchors[i].Dist(dynamo.V(l.maxX, l.railY)))
		r, err := physics.NewWithLength(l.anchors[i], start, cfg.Segments, reach*llmSlack/float64(cfg.Segments))
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		r.Tangle(rng, l.origin, spread)

		node := driver.NewScripted(l.minX, l.maxX, l.railY, x)
		node.Jitter = llmJitter
		node.Gain = cfg.Physics.WhiplashGain

		anchors[i] = &driver.Fixed{Pos: l.anchors[i]}
		nodes[i] = node

		sc.Entities = append(sc.Entities, &sim.Entity{
			Name:          fmt.Sprintf("node-%d", i),
			Rope:          r,
			Anchor:        anchors[i],
			End:           node,
			Spring:        physics.NewAnchorSpring(),
			SqueezeOrigin: l.origin,
		})
	}

	sc.Layout = func(s *sim.Scene, w, h float64) {
		l := newLLMLayout(w, h)
		for i := range anchors {
			anchors[i].Pos = l.anchors[i]
			nodes[i].SetBounds(l.minX, l.maxX, l.railY)
			s.Entities[i].SqueezeOrigin = l.origin
		}
	}

	return sc, nil
}

// Nodes returns the scripted drivers of a scene, in entity order. Scenes
// without scripted nodes return nil.
func Nodes(sc *sim.Scene) []*driver.Scripted {
	var out []*driver.Scripted
	for _, e := range sc.Entities {
		if d, ok := e.End.(*driver.Scripted); ok {
			out = append(out, d)
		}
	}
	return out
}
