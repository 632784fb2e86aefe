package viz

import (
	"strings"
	"testing"

	"github.com/san-kum/ropesim/internal/dynamo"
)

func TestCanvasSetAndLit(t *testing.T) {
	c := NewCanvas(4, 2)
	if c.SubWidth() != 8 || c.SubHeight() != 8 {
		t.Fatalf("unexpected dot size %dx%d", c.SubWidth(), c.SubHeight())
	}

	c.Set(3, 5)
	if !c.Lit(3, 5) {
		t.Error("expected dot to be lit")
	}
	if c.Lit(2, 5) {
		t.Error("neighbouring dot should stay dark")
	}

	// Out of range writes are ignored.
	c.Set(-1, 0)
	c.Set(100, 100)

	c.Clear()
	if c.Lit(3, 5) {
		t.Error("clear should reset every dot")
	}
}

func TestCanvasDrawLineEndpoints(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawLine(0, 0, 19, 19)

	if !c.Lit(0, 0) || !c.Lit(19, 19) {
		t.Error("line should light both endpoints")
	}
	if !c.Lit(10, 10) {
		t.Error("diagonal should pass through its midpoint")
	}
}

func TestCanvasPolylineAndDot(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawPolyline([]dynamo.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}})
	if !c.Lit(5, 0) || !c.Lit(10, 5) {
		t.Error("polyline should cover both segments")
	}

	c.Dot(15, 15, 1)
	for _, p := range [][2]int{{14, 14}, {16, 16}, {15, 15}} {
		if !c.Lit(p[0], p[1]) {
			t.Errorf("dot missing pixel %v", p)
		}
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(3, 2)
	rows := strings.Split(c.String(), "\n")
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if len([]rune(rows[0])) != 3 {
		t.Errorf("expected 3 cells, got %d", len([]rune(rows[0])))
	}
}

func TestCameraSettles(t *testing.T) {
	cam := NewCamera(60)
	cam.TargetX, cam.TargetY = 100, 50
	cam.ZoomBy(2)

	for i := 0; i < 600; i++ {
		cam.Update()
	}
	if d := dynamo.V(cam.X, cam.Y).Dist(dynamo.V(100, 50)); d > 0.01 {
		t.Errorf("camera did not reach target, off by %f", d)
	}
	if cam.Zoom < 1.99 || cam.Zoom > 2.01 {
		t.Errorf("expected zoom 2, got %f", cam.Zoom)
	}

	cam.ZoomBy(100)
	if cam.TargetZoom != maxZoom {
		t.Errorf("zoom should clamp to %f, got %f", maxZoom, cam.TargetZoom)
	}
}

func TestCameraProjectCentres(t *testing.T) {
	cam := NewCamera(60)
	cam.TargetX, cam.TargetY = 200, 100
	cam.Snap()

	p := cam.Project(dynamo.V(200, 100), 0.5, 80, 40)
	if p != dynamo.V(40, 20) {
		t.Errorf("camera centre should map to canvas centre, got %+v", p)
	}
}

func TestRecorderCapture(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)

	r := NewRecorder(t.TempDir() + "/out.gif")
	r.Capture(c)
	if r.Frames() != 1 {
		t.Fatalf("expected 1 frame, got %d", r.Frames())
	}
	if err := r.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
}
