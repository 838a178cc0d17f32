package ui

import "math"

const DefaultGridStep = 60 // world-space px between lattice lines

// Grid encapsulates the background lattice spacing.
type Grid struct {
	Step float64
}

func NewGrid(step float64) *Grid { return &Grid{Step: step} }

// Lines returns the screen-space coordinates of grid lines for the given
// camera and screen size: pixel positions for vertical (xs) and horizontal
// (ys) lines.
func (g *Grid) Lines(cam *Camera, screenW, screenH int) (xs, ys []float64) {
	offX := math.Round(cam.OffsetX)
	offY := math.Round(cam.OffsetY)

	minX := (-cam.OffsetX) / cam.Scale
	maxX := (float64(screenW) - cam.OffsetX) / cam.Scale
	minY := (-cam.OffsetY) / cam.Scale
	maxY := (float64(screenH) - cam.OffsetY) / cam.Scale

	startI := int(math.Floor(minX / g.Step))
	endI := int(math.Ceil(maxX / g.Step))
	startJ := int(math.Floor(minY / g.Step))
	endJ := int(math.Ceil(maxY / g.Step))

	for i := startI; i <= endI; i++ {
		xs = append(xs, float64(i)*g.Step*cam.Scale+offX)
	}
	for j := startJ; j <= endJ; j++ {
		ys = append(ys, float64(j)*g.Step*cam.Scale+offY)
	}
	return
}
