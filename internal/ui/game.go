package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/nodeloom/nodeloom/core/frame"
	"github.com/nodeloom/nodeloom/core/scene"
	game_log "github.com/nodeloom/nodeloom/internal/log"
)

// Game wires the store, controller and renderer into an ebiten.Game. Each
// Update pumps one scheduler step, so store flushes are coalesced to the
// display rate; Draw repaints only while the store is dirty or an
// interaction is in flight. Run with ebiten.SetScreenClearedEveryFrame(false)
// so skipped frames keep the previous pixels.
type Game struct {
	store  *scene.Store
	sched  *frame.StepScheduler
	cam    *Camera
	conn   *Connector
	rend   *Renderer
	ctrl   *Controller
	logger *game_log.Logger

	winW, winH int
	needsPaint bool
	painted    bool
}

func New(logger *game_log.Logger, cb Callbacks) *Game {
	sched := frame.NewStepScheduler()
	store := scene.New(logger, sched)
	cam := NewCamera()
	grid := NewGrid(DefaultGridStep)
	rend := NewRenderer(store, cam, grid, logger)
	conn := NewConnector(store, cam)
	ctrl := NewController(store, cam, conn, rend, cb, logger)

	g := &Game{
		store:  store,
		sched:  sched,
		cam:    cam,
		conn:   conn,
		rend:   rend,
		ctrl:   ctrl,
		logger: logger,
	}
	store.Subscribe(func() { g.needsPaint = true })
	return g
}

func (g *Game) Store() *scene.Store             { return g.store }
func (g *Game) Controller() *Controller         { return g.ctrl }
func (g *Game) Renderer() *Renderer             { return g.rend }
func (g *Game) Camera() *Camera                 { return g.cam }
func (g *Game) Scheduler() *frame.StepScheduler { return g.sched }

// SetInitialTransform seeds the camera and store before the first frame.
func (g *Game) SetInitialTransform(t scene.Transform) {
	g.cam.SetTransform(t)
	g.store.UpdateTransform(t)
}

func (g *Game) SetShowGrid(show bool) {
	if g.rend.ShowGrid == show {
		return
	}
	g.rend.ShowGrid = show
	g.needsPaint = true
}

func (g *Game) SetGridStep(step float64) {
	if step <= 0 || g.rend.grid.Step == step {
		return
	}
	g.rend.grid.Step = step
	g.needsPaint = true
}

func (g *Game) Layout(w, h int) (int, int) {
	if w != g.winW || h != g.winH {
		g.winW, g.winH = w, h
		g.store.UpdateViewport(scene.Viewport{Width: float64(w), Height: float64(h)})
		g.logger.Debugf("[GAME] Layout: %dx%d", w, h)
	}
	return w, h
}

func (g *Game) Update() error {
	g.ctrl.Update()
	g.sched.Step()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.painted && !g.needsPaint && g.store.Interaction().Mode == scene.ModeIdle {
		return
	}
	g.rend.Draw(screen)
	g.needsPaint = false
	g.painted = true
}
