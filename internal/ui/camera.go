package ui

import (
	"math"

	"github.com/nodeloom/nodeloom/core/scene"
)

// Camera owns zoom & pan parameters for the canvas viewport transform.
type Camera struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

func NewCamera() *Camera { return &Camera{Scale: 1.0} }

// ScreenPos converts world coordinates to screen-space using the current
// camera transform.
func (c *Camera) ScreenPos(x, y float64) (sx, sy float64) {
	sx = x*c.Scale + c.OffsetX
	sy = y*c.Scale + c.OffsetY
	return
}

// WorldPos converts screen coordinates back to world-space.
func (c *Camera) WorldPos(sx, sy float64) (wx, wy float64) {
	wx = (sx - c.OffsetX) / c.Scale
	wy = (sy - c.OffsetY) / c.Scale
	return
}

// Transform returns the camera state as a scene transform.
func (c *Camera) Transform() scene.Transform {
	return scene.Transform{X: c.OffsetX, Y: c.OffsetY, Scale: c.Scale}
}

// SetTransform adopts an externally supplied transform.
func (c *Camera) SetTransform(t scene.Transform) {
	c.OffsetX, c.OffsetY, c.Scale = t.X, t.Y, t.Scale
}

// Snap clamps the camera offsets to integer pixels and limits their magnitude
// so panning across huge distances doesn't accumulate floating-point error.
func (c *Camera) Snap() {
	c.OffsetX = math.Round(c.OffsetX)
	c.OffsetY = math.Round(c.OffsetY)
	const limit = 1e6 // keep offsets in a sane range for numeric stability
	if c.OffsetX > limit {
		c.OffsetX = limit
	} else if c.OffsetX < -limit {
		c.OffsetX = -limit
	}
	if c.OffsetY > limit {
		c.OffsetY = limit
	} else if c.OffsetY < -limit {
		c.OffsetY = -limit
	}
}

// HandleWheel applies wheel zoom anchored at the cursor so the world point
// under the pointer stays put. Returns true when the transform changed.
func (c *Camera) HandleWheel() bool {
	_, wheelY := wheel()
	if wheelY == 0 {
		return false
	}
	mx, my := cursorPosition()
	wx := (float64(mx) - c.OffsetX) / c.Scale
	wy := (float64(my) - c.OffsetY) / c.Scale
	const (
		zoomFactor      = 1.05
		zoomSensitivity = 0.1
	)
	newScale := c.Scale * math.Pow(zoomFactor, wheelY*zoomSensitivity)
	const minScale, maxScale = 0.1, 10.0
	if newScale < minScale {
		newScale = minScale
	} else if newScale > maxScale {
		newScale = maxScale
	}
	c.OffsetX = float64(mx) - wx*newScale
	c.OffsetY = float64(my) - wy*newScale
	c.Scale = newScale
	return true
}
