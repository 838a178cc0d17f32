package main

import (
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/nodeloom/nodeloom/core/scene"
	"github.com/nodeloom/nodeloom/internal/config"
	game_log "github.com/nodeloom/nodeloom/internal/log"
	"github.com/nodeloom/nodeloom/internal/ui"
)

var (
	cfgPath  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "nodeloom",
	Short: "Interactive node-and-edge mapping canvas",
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to TOML config file")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "override log level (debug|info|error|none)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app stands in for the surrounding application: it owns the node/edge
// snapshots, feeds them to the engine, and answers the engine's outward
// callbacks by mutating its snapshot and re-ingesting.
type app struct {
	*ui.Game
	logger  *game_log.Logger
	nodes   []scene.Node
	edges   []scene.Edge
	updates chan config.Config
}

// Update drains pending config reloads before advancing the engine, keeping
// all engine mutation on the game loop goroutine.
func (a *app) Update() error {
	select {
	case cfg := <-a.updates:
		a.logger.SetLevel(game_log.LevelFromString(cfg.Log.Level))
		a.SetShowGrid(cfg.Canvas.ShowGrid)
		a.SetGridStep(cfg.Canvas.GridStep)
		a.logger.Infof("[APP] config reloaded")
	default:
	}
	return a.Game.Update()
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			return err
		}
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	logger := game_log.New(os.Stderr, game_log.LevelFromString(cfg.Log.Level))

	a := &app{logger: logger, updates: make(chan config.Config, 1)}
	a.Game = ui.New(logger, ui.Callbacks{
		OnNodePositionUpdate: func(id string, x, y float64) {
			for i := range a.nodes {
				if a.nodes[i].ID == id {
					a.nodes[i].X, a.nodes[i].Y = x, y
				}
			}
			logger.Infof("[APP] node %s moved to (%.0f,%.0f)", id, x, y)
		},
		OnConnectionCreate: func(from, to string) {
			a.edges = append(a.edges, scene.Edge{
				ID:   uuid.NewString(),
				From: from,
				To:   to,
				Type: scene.EdgeDependency,
			})
			a.Store().UpdateEdges(a.edges)
			logger.Infof("[APP] connected %s -> %s", from, to)
		},
		OnEdgeDetach: func(edgeID string, end scene.EdgeEnd) {
			kept := a.edges[:0]
			for _, e := range a.edges {
				if e.ID != edgeID {
					kept = append(kept, e)
				}
			}
			a.edges = kept
			a.Store().UpdateEdges(a.edges)
			logger.Infof("[APP] detached edge %s at %s end", edgeID, end)
		},
		OnNodeSelect: func(id string) {
			logger.Debugf("[APP] selected node %s", id)
		},
	})

	a.seed()
	a.SetInitialTransform(scene.Transform{Scale: 1})
	a.SetShowGrid(cfg.Canvas.ShowGrid)
	a.SetGridStep(cfg.Canvas.GridStep)

	if cfgPath != "" {
		if err := watchConfig(cfgPath, logger, a.updates); err != nil {
			logger.Warnf("[APP] config watch disabled: %v", err)
		}
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetScreenClearedEveryFrame(false)
	if err := ebiten.RunGame(a); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

// seed populates a small demo map so the binary is usable standalone.
func (a *app) seed() {
	mk := func(t scene.NodeType, title, desc string, x, y float64) scene.Node {
		return scene.Node{ID: uuid.NewString(), X: x, Y: y, Type: t, Title: title, Description: desc, Confidence: 0.8}
	}
	a.nodes = []scene.Node{
		mk(scene.NodeHuman, "Interview notes", "Key themes from the user interviews", 0, 0),
		mk(scene.NodeAI, "Summary", "Model-generated synthesis of the notes", 400, 0),
		mk(scene.NodeRisk, "Sample bias", "Participants skew toward power users", 0, 300),
		mk(scene.NodeDecision, "Ship beta", "Proceed with the limited rollout", 400, 300),
	}
	a.edges = []scene.Edge{
		{ID: uuid.NewString(), From: a.nodes[0].ID, To: a.nodes[1].ID, Type: scene.EdgeAIRelationship, Strength: 0.9},
		{ID: uuid.NewString(), From: a.nodes[2].ID, To: a.nodes[3].ID, Type: scene.EdgeContradiction, Strength: 0.6},
	}
	a.Store().UpdateNodes(a.nodes)
	a.Store().UpdateEdges(a.edges)
}

// watchConfig reloads the config file on change and hands it to the game
// loop through a buffered channel; the engine itself stays single-threaded.
func watchConfig(path string, logger *game_log.Logger, updates chan<- config.Config) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return err
	}
	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				cfg, err := config.Load(path)
				if err != nil {
					logger.Warnf("[APP] config reload failed: %v", err)
					continue
				}
				select {
				case updates <- cfg:
				default: // an older reload is still pending; drop this one
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warnf("[APP] config watch error: %v", err)
			}
		}
	}()
	return nil
}
