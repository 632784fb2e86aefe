package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/ropesim/internal/dynamo"
	"github.com/san-kum/ropesim/internal/physics"
	"github.com/san-kum/ropesim/internal/sim"
)

type Options struct {
	Background  string
	Stroke      string
	NodeFill    string
	StrokeWidth float64
	Glow        float64 // blur std deviation; 0 disables the filter
	NodeRadius  float64
}

func DefaultOptions() Options {
	return Options{
		Background:  "#0a0a0a",
		Stroke:      "#7dd3fc",
		NodeFill:    "#f0f9ff",
		StrokeWidth: 1.5,
		Glow:        3,
		NodeRadius:  4,
	}
}

// Positions copies the current point positions of r.
func Positions(r *physics.Rope) []dynamo.Vec2 {
	out := make([]dynamo.Vec2, len(r.Points))
	for i, p := range r.Points {
		out[i] = p.Pos
	}
	return out
}

// RopePath smooths a polyline through the midpoints of its segments: every
// interior point becomes the control of a quadratic curve ending at the
// midpoint to its successor, and the last point is reached with a line.
func RopePath(pts []dynamo.Vec2) string {
	if len(pts) < 2 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "M%.2f,%.2f", pts[0].X, pts[0].Y)
	for i := 1; i < len(pts)-1; i++ {
		mid := pts[i].Mid(pts[i+1])
		fmt.Fprintf(&sb, " Q%.2f,%.2f %.2f,%.2f", pts[i].X, pts[i].Y, mid.X, mid.Y)
	}
	last := pts[len(pts)-1]
	fmt.Fprintf(&sb, " L%.2f,%.2f", last.X, last.Y)
	return sb.String()
}

// Smooth samples the same curve RopePath draws, steps points per quadratic
// segment, for renderers without native curves.
func Smooth(pts []dynamo.Vec2, steps int) []dynamo.Vec2 {
	if len(pts) < 3 || steps < 1 {
		return append([]dynamo.Vec2(nil), pts...)
	}

	out := make([]dynamo.Vec2, 0, (len(pts)-2)*steps+2)
	out = append(out, pts[0])
	from := pts[0]
	for i := 1; i < len(pts)-1; i++ {
		ctrl := pts[i]
		to := pts[i].Mid(pts[i+1])
		for s := 1; s <= steps; s++ {
			out = append(out, quad(from, ctrl, to, float64(s)/float64(steps)))
		}
		from = to
	}
	return append(out, pts[len(pts)-1])
}

func quad(a, c, b dynamo.Vec2, t float64) dynamo.Vec2 {
	u := 1 - t
	return a.Scale(u * u).Add(c.Scale(2 * u * t)).Add(b.Scale(t * t))
}

// SceneSVG renders every rope of sc as a glowing smoothed path with circles
// at both driven ends.
func SceneSVG(sc *sim.Scene, opts Options) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
`, sc.Width, sc.Height, sc.Width, sc.Height))

	filter := ""
	if opts.Glow > 0 {
		sb.WriteString(fmt.Sprintf(`<defs>
<filter id="glow" x="-50%%" y="-50%%" width="200%%" height="200%%">
<feGaussianBlur stdDeviation="%.1f" result="blur"/>
<feMerge><feMergeNode in="blur"/><feMergeNode in="SourceGraphic"/></feMerge>
</filter>
</defs>
`, opts.Glow))
		filter = ` filter="url(#glow)"`
	}

	sb.WriteString(fmt.Sprintf(`<rect width="100%%" height="100%%" fill="%s"/>
<g fill="none" stroke="%s" stroke-width="%.1f" stroke-linecap="round"%s>
`, opts.Background, opts.Stroke, opts.StrokeWidth, filter))

	for _, e := range sc.Entities {
		sb.WriteString(fmt.Sprintf(`<path id="%s" d="%s"/>
`, e.Name, RopePath(Positions(e.Rope))))
	}
	sb.WriteString("</g>\n")

	if opts.NodeRadius > 0 {
		sb.WriteString(fmt.Sprintf(`<g fill="%s"%s>
`, opts.NodeFill, filter))
		for _, e := range sc.Entities {
			for _, p := range []dynamo.Vec2{e.Rope.Anchor().Pos, e.Rope.End().Pos} {
				sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, p.X, p.Y, opts.NodeRadius))
			}
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func WriteSVG(w io.Writer, sc *sim.Scene, opts Options) error {
	_, err := io.WriteString(w, SceneSVG(sc, opts))
	return err
}
