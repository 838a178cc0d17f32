package ui

import (
	"image/color"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/nodeloom/nodeloom/core/scene"
)

func TestLODForScale(t *testing.T) {
	cases := []struct {
		scale float64
		want  LOD
	}{
		{2.0, LODHigh},
		{0.8, LODHigh},
		{0.79, LODMedium},
		{0.4, LODMedium},
		{0.39, LODLow},
		{0.2, LODLow},
		{0.19, LODMinimal},
		{0.05, LODMinimal},
	}
	for _, c := range cases {
		if got := LODForScale(c.scale); got != c.want {
			t.Fatalf("scale %f: got %v want %v", c.scale, got, c.want)
		}
	}
}

func TestStylePrecedence(t *testing.T) {
	// selection wins over hover wins over drag
	st := styleForNode(scene.NodeHuman, true, true, true)
	if st.Border != colSelected {
		t.Fatalf("selected border=%v want %v", st.Border, colSelected)
	}
	st = styleForNode(scene.NodeHuman, false, true, true)
	if st.Border != colHovered {
		t.Fatalf("hovered border=%v want %v", st.Border, colHovered)
	}
	st = styleForNode(scene.NodeHuman, false, true, false)
	if st.Fill.A != 200 || st.BorderWidth != 2 {
		t.Fatalf("dragging style=%+v", st)
	}
	st = styleForNode(scene.NodeRisk, false, false, false)
	if st.Fill != nodeFill[scene.NodeRisk] || st.Border != colNodeBorder {
		t.Fatalf("base style=%+v", st)
	}
}

func TestStyleUnknownTypeFallsBack(t *testing.T) {
	st := styleForNode(scene.NodeType("mystery"), false, false, false)
	if st.Fill != nodeFill[scene.NodeOther] {
		t.Fatalf("fill=%v want other palette", st.Fill)
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("alpha beta gamma delta", 11, 3)
	want := []string{"alpha beta", "gamma delta"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got=%v want %v", got, want)
	}

	got = wrapText("one two three four five six seven", 9, 2)
	if len(got) != 2 {
		t.Fatalf("lines=%d want 2", len(got))
	}
	last := got[len(got)-1]
	if last[len(last)-3:] != "..." {
		t.Fatalf("truncated text not ellipsized: %q", last)
	}

	got = wrapText("supercalifragilistic", 8, 2)
	if len(got) == 0 || len(got[0]) > 8 {
		t.Fatalf("long word not clipped: %v", got)
	}

	if got := wrapText("", 10, 3); got != nil {
		t.Fatalf("empty text gave %v", got)
	}
}

func TestMinimalLODEmitsNoText(t *testing.T) {
	g, _, cleanup := newTestGame(Callbacks{})
	defer cleanup()

	g.SetInitialTransform(scene.Transform{Scale: 0.1})
	d := &drawLog{}
	restore := d.install()
	defer restore()

	g.rend.Draw(nil)
	if len(d.texts) != 0 {
		t.Fatalf("minimal LOD drew text: %v", d.texts)
	}
	if d.rects == 0 {
		t.Fatalf("minimal LOD drew no node rectangles")
	}
}

func TestHighLODDrawsTitleBodyAndBadge(t *testing.T) {
	g, _, cleanup := newTestGame(Callbacks{})
	defer cleanup()

	d := &drawLog{}
	restore := d.install()
	defer restore()

	g.rend.Draw(nil)
	var sawTitle, sawBadge, sawBody bool
	for _, s := range d.texts {
		switch s {
		case "A", "B":
			sawTitle = true
		case "human", "ai":
			sawBadge = true
		case "first node", "second node":
			sawBody = true
		}
	}
	if !sawTitle || !sawBadge || !sawBody {
		t.Fatalf("missing text layers: title=%v badge=%v body=%v texts=%v", sawTitle, sawBadge, sawBody, d.texts)
	}
}

func TestHitBoxesMatchDrawnNodes(t *testing.T) {
	g, _, cleanup := newTestGame(Callbacks{})
	defer cleanup()

	if id, ok := g.rend.NodeAt(10, 10); !ok || id != "a" {
		t.Fatalf("NodeAt(10,10)=%v,%v want a", id, ok)
	}
	if id, ok := g.rend.NodeAt(500, 350); !ok || id != "b" {
		t.Fatalf("NodeAt(500,350)=%v,%v want b", id, ok)
	}
	if _, ok := g.rend.NodeAt(700, 50); ok {
		t.Fatalf("NodeAt(700,50) hit something on empty canvas")
	}
}

func TestAnchorsDrawnOnlyInConnectModes(t *testing.T) {
	g, _, cleanup := newTestGame(Callbacks{})
	defer cleanup()

	idle := &drawLog{}
	restore := idle.install()
	g.rend.Draw(nil)
	restore()

	g.store.UpdateInteraction(scene.Interaction{Mode: scene.ModeConnecting})
	armed := &drawLog{}
	restore = armed.install()
	g.rend.Draw(nil)
	restore()

	// rounded corners also use circles; connect mode adds exactly four
	// anchors per visible node on top of that
	if armed.circles != idle.circles+8 {
		t.Fatalf("circles idle=%d armed=%d want +8", idle.circles, armed.circles)
	}
}

func TestHoveredNodeAnchorsDrawHot(t *testing.T) {
	g, _, cleanup := newTestGame(Callbacks{})
	defer cleanup()

	g.store.SetHovered("a")
	g.store.UpdateInteraction(scene.Interaction{Mode: scene.ModeConnecting})

	hot := 0
	restore := SetDrawForTest(
		func(*ebiten.Image, color.Color) {},
		func(_ *ebiten.Image, _, _, _, _ float64, _ color.Color) {},
		func(_ *ebiten.Image, _, _, _, _, _ float64, _ color.Color) {},
		func(_ *ebiten.Image, _, _, _, _, _ float64, _ color.Color) {},
		func(_ *ebiten.Image, _, _, _ float64, c color.Color) {
			if c == colAnchorHot {
				hot++
			}
		},
		func(*ebiten.Image, string, int, int) {},
	)
	defer restore()

	g.rend.Draw(nil)
	// all four anchors of the hovered node, none of the other node's
	if hot != 4 {
		t.Fatalf("hot anchors=%d want 4", hot)
	}
}

func TestTitleTruncatesOnRuneBoundary(t *testing.T) {
	g, _, cleanup := newTestGame(Callbacks{})
	defer cleanup()

	g.store.UpdateNodes([]scene.Node{
		{ID: "a", X: 0, Y: 0, Type: scene.NodeHuman, Title: strings.Repeat("ü", 45)},
	})

	d := &drawLog{}
	restore := d.install()
	defer restore()
	g.rend.Draw(nil)

	// width 240 at scale 1 fits 38 glyphs; 35 kept plus the ellipsis
	want := strings.Repeat("ü", 35) + "..."
	found := false
	for _, s := range d.texts {
		if !utf8.ValidString(s) {
			t.Fatalf("invalid UTF-8 drawn: %q", s)
		}
		if s == want {
			found = true
		}
	}
	if !found {
		t.Fatalf("truncated title missing from %v", d.texts)
	}
}

func TestMarqueeOverlayDrawn(t *testing.T) {
	g, _, cleanup := newTestGame(Callbacks{})
	defer cleanup()

	g.store.UpdateInteraction(scene.Interaction{
		Mode:    scene.ModeMarqueeSelecting,
		Marquee: &scene.Marquee{StartX: 10, StartY: 10, X: 200, Y: 150},
	})

	d := &drawLog{}
	restore := d.install()
	defer restore()
	before := d.strokes
	g.rend.Draw(nil)
	if d.strokes == before {
		t.Fatalf("marquee border not stroked")
	}
}
