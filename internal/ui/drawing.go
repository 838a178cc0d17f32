package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	// Ebiten's debug font uses a 6x13 glyph.
	debugCharW = 6
	debugCharH = 13
)

// Drawing primitives are variables so tests can override them to capture
// draw calls without a real surface.
var fillScreen = func(dst *ebiten.Image, c color.Color) {
	dst.Fill(c)
}

var fillRect = func(dst *ebiten.Image, x, y, w, h float64, c color.Color) {
	vector.DrawFilledRect(dst, float32(x), float32(y), float32(w), float32(h), c, false)
}

var strokeRect = func(dst *ebiten.Image, x, y, w, h, width float64, c color.Color) {
	vector.StrokeRect(dst, float32(x), float32(y), float32(w), float32(h), float32(width), c, false)
}

var strokeLine = func(dst *ebiten.Image, x1, y1, x2, y2, width float64, c color.Color) {
	vector.StrokeLine(dst, float32(x1), float32(y1), float32(x2), float32(y2), float32(width), c, false)
}

var fillCircle = func(dst *ebiten.Image, cx, cy, r float64, c color.Color) {
	vector.DrawFilledCircle(dst, float32(cx), float32(cy), float32(r), c, false)
}

var drawText = func(dst *ebiten.Image, s string, x, y int) {
	ebitenutil.DebugPrintAt(dst, s, x, y)
}

// SetDrawForTest swaps out all drawing primitives so Draw can run against a
// nil surface in tests. It returns a restore function.
func SetDrawForTest(
	screen func(*ebiten.Image, color.Color),
	rect func(*ebiten.Image, float64, float64, float64, float64, color.Color),
	srect func(*ebiten.Image, float64, float64, float64, float64, float64, color.Color),
	line func(*ebiten.Image, float64, float64, float64, float64, float64, color.Color),
	circle func(*ebiten.Image, float64, float64, float64, color.Color),
	text func(*ebiten.Image, string, int, int),
) func() {
	oldScreen, oldRect, oldSRect := fillScreen, fillRect, strokeRect
	oldLine, oldCircle, oldText := strokeLine, fillCircle, drawText
	fillScreen, fillRect, strokeRect = screen, rect, srect
	strokeLine, fillCircle, drawText = line, circle, text
	return func() {
		fillScreen, fillRect, strokeRect = oldScreen, oldRect, oldSRect
		strokeLine, fillCircle, drawText = oldLine, oldCircle, oldText
	}
}

// fillRoundedRect approximates a rounded rectangle with three rects and four
// corner circles, which keeps us on the plain vector primitives.
func fillRoundedRect(dst *ebiten.Image, x, y, w, h, r float64, c color.Color) {
	if r*2 > w {
		r = w / 2
	}
	if r*2 > h {
		r = h / 2
	}
	fillRect(dst, x+r, y, w-2*r, h, c)
	fillRect(dst, x, y+r, r, h-2*r, c)
	fillRect(dst, x+w-r, y+r, r, h-2*r, c)
	fillCircle(dst, x+r, y+r, r, c)
	fillCircle(dst, x+w-r, y+r, r, c)
	fillCircle(dst, x+r, y+h-r, r, c)
	fillCircle(dst, x+w-r, y+h-r, r, c)
}
