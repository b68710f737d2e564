package canopy

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RunConfig configures the window and game loop created by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// ClearColor fills the screen before each frame. A zero alpha leaves the
	// screen as Ebitengine provides it.
	ClearColor Color
	// ShowFPS prints the current FPS and TPS in the top-left corner.
	ShowFPS bool
	// Debug turns on Stage debug mode.
	Debug bool
	// TimeScale overrides Stage.TimeScale when non-zero.
	TimeScale float64
	// DisableCulling turns Stage.CullEnabled off.
	DisableCulling bool
	// Update runs once per tick after Stage.Update. A non-nil error ends the
	// game loop and is returned from Run.
	Update func() error
}

// stageGame adapts a Stage to ebiten.Game.
type stageGame struct {
	stage *Stage
	cfg   RunConfig
}

func (g *stageGame) Update() error {
	g.stage.Update()
	if g.cfg.Update != nil {
		return g.cfg.Update()
	}
	return nil
}

func (g *stageGame) Draw(screen *ebiten.Image) {
	if g.cfg.ClearColor.A > 0 {
		screen.Fill(g.cfg.ClearColor.RGBA())
	}
	g.stage.Draw(screen)
	if g.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
}

func (g *stageGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

// Run opens a window and drives stage until the window is closed. For full
// control implement ebiten.Game yourself and call Stage.Update and
// Stage.Draw.
func Run(stage *Stage, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("canopy: invalid window size %dx%d", cfg.Width, cfg.Height)
	}
	stage.SetDebugMode(cfg.Debug)
	if cfg.TimeScale != 0 {
		stage.TimeScale = cfg.TimeScale
	}
	if cfg.DisableCulling {
		stage.CullEnabled = false
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if err := ebiten.RunGame(&stageGame{stage: stage, cfg: cfg}); err != nil {
		return fmt.Errorf("canopy: run: %w", err)
	}
	return nil
}
