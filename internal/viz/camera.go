package viz

import (
	"github.com/charmbracelet/harmonica"

	"github.com/san-kum/ropesim/internal/dynamo"
)

const (
	cameraFrequency = 6.0
	cameraDamping   = 0.9
	minZoom         = 0.25
	maxZoom         = 4.0
)

// Camera maps world coordinates onto canvas dots. Center and zoom chase
// their targets through a critically damped spring so resizes and zoom
// changes glide instead of jumping.
type Camera struct {
	spring harmonica.Spring

	X, Y, Zoom       float64
	vx, vy, vz       float64
	TargetX, TargetY float64
	TargetZoom       float64
}

func NewCamera(fps int) *Camera {
	return &Camera{
		spring:     harmonica.NewSpring(harmonica.FPS(fps), cameraFrequency, cameraDamping),
		Zoom:       1,
		TargetZoom: 1,
	}
}

// Snap jumps straight to the target.
func (c *Camera) Snap() {
	c.X, c.Y, c.Zoom = c.TargetX, c.TargetY, c.TargetZoom
	c.vx, c.vy, c.vz = 0, 0, 0
}

func (c *Camera) Update() {
	c.X, c.vx = c.spring.Update(c.X, c.vx, c.TargetX)
	c.Y, c.vy = c.spring.Update(c.Y, c.vy, c.TargetY)
	c.Zoom, c.vz = c.spring.Update(c.Zoom, c.vz, c.TargetZoom)
}

func (c *Camera) ZoomBy(f float64) {
	z := c.TargetZoom * f
	if z < minZoom {
		z = minZoom
	}
	if z > maxZoom {
		z = maxZoom
	}
	c.TargetZoom = z
}

// Project maps a world point to dot coordinates on a canvas of the given
// dot size. scale is dots per world unit at zoom 1.
func (c *Camera) Project(p dynamo.Vec2, scale float64, subW, subH int) dynamo.Vec2 {
	k := scale * c.Zoom
	return dynamo.V(
		(p.X-c.X)*k+float64(subW)/2,
		(p.Y-c.Y)*k+float64(subH)/2,
	)
}
