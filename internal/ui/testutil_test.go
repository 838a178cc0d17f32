package ui

import (
	"image/color"
	"io"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/nodeloom/nodeloom/core/scene"
	game_log "github.com/nodeloom/nodeloom/internal/log"
)

// fakeInput backs the input seam with mutable state so tests can script
// pointer and key sequences frame by frame.
type fakeInput struct {
	x, y   int
	left   bool
	keys   map[ebiten.Key]bool
	wheelY float64
}

func newFakeInput() *fakeInput { return &fakeInput{keys: map[ebiten.Key]bool{}} }

func (f *fakeInput) install() func() {
	return SetInputForTest(
		func() (int, int) { return f.x, f.y },
		func(b ebiten.MouseButton) bool { return b == ebiten.MouseButtonLeft && f.left },
		func(k ebiten.Key) bool { return f.keys[k] },
		func() (float64, float64) { wy := f.wheelY; f.wheelY = 0; return 0, wy },
	)
}

// drawLog counts draw primitive calls so Draw can run against a nil surface
// while tests assert on what would have been painted.
type drawLog struct {
	screens, rects, strokes, lines, circles int
	texts                                   []string
}

func (d *drawLog) install() func() {
	return SetDrawForTest(
		func(*ebiten.Image, color.Color) { d.screens++ },
		func(_ *ebiten.Image, _, _, _, _ float64, _ color.Color) { d.rects++ },
		func(_ *ebiten.Image, _, _, _, _, _ float64, _ color.Color) { d.strokes++ },
		func(_ *ebiten.Image, _, _, _, _, _ float64, _ color.Color) { d.lines++ },
		func(_ *ebiten.Image, _, _, _ float64, _ color.Color) { d.circles++ },
		func(_ *ebiten.Image, s string, _, _ int) { d.texts = append(d.texts, s) },
	)
}

func testLogger() *game_log.Logger {
	return game_log.New(io.Discard, game_log.LevelNone)
}

// newTestGame builds a game with two nodes laid out for gesture tests:
// "a" at (0,0) and "b" at (400,300), viewport 800x600, identity transform.
// Hit boxes are populated by one silent draw.
func newTestGame(cb Callbacks) (*Game, *fakeInput, func()) {
	g := New(testLogger(), cb)
	g.Layout(800, 600)
	g.store.UpdateNodes([]scene.Node{
		{ID: "a", X: 0, Y: 0, Type: scene.NodeHuman, Title: "A", Description: "first node"},
		{ID: "b", X: 400, Y: 300, Type: scene.NodeAI, Title: "B", Description: "second node"},
	})

	f := newFakeInput()
	restoreIn := f.install()
	d := &drawLog{}
	restoreDraw := d.install()
	g.rend.Draw(nil)
	return g, f, func() {
		restoreDraw()
		restoreIn()
	}
}
