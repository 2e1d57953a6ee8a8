package sapling

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/pkg/errors"
)

// RunConfig configures Run.
type RunConfig struct {
	// ShowFPS draws an FPS/TPS readout over the presented frame. Always on
	// when the manifest enables debug.
	ShowFPS bool
}

// ebitenGame adapts a Game to ebiten.Game. The offscreen image has the
// manifest resolution and is presented letterboxed.
type ebitenGame struct {
	g         *Game
	offscreen *ebiten.Image
	fresh     bool
	showFPS   bool
}

func (e *ebitenGame) Update() error {
	if err := e.g.Update(); err != nil {
		if errors.Is(err, ErrClosed) {
			return ebiten.Termination
		}
		return err
	}
	e.fresh = e.g.Drawable()
	return nil
}

func (e *ebitenGame) Draw(screen *ebiten.Image) {
	if e.fresh {
		e.fresh = false
		e.offscreen.Clear()
		e.g.Draw(imageRenderer{dst: e.offscreen})
	}

	screen.Fill(color.Black)
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	sz := e.g.Size()
	scale, ox, oy := letterbox(sw, sh, sz.Width, sz.Height)
	var op ebiten.DrawImageOptions
	op.Filter = ebiten.FilterNearest
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(ox, oy)
	screen.DrawImage(e.offscreen, &op)

	if e.showFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
}

func (e *ebitenGame) Layout(outsideW, outsideH int) (int, int) {
	return outsideW, outsideH
}

// Run opens a resizable window sized to the manifest resolution times its
// scale and runs g until the window closes or a script calls game.quit().
// g is closed on return.
func Run(g *Game, cfg RunConfig) error {
	defer g.Close()
	m := g.Manifest()
	sz := g.Size()
	ebiten.SetWindowTitle(g.Title())
	ebiten.SetWindowSize(sz.Width*m.Resolution.Scale, sz.Height*m.Resolution.Scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetTPS(m.TPS)

	eg := &ebitenGame{
		g:         g,
		offscreen: ebiten.NewImage(sz.Width, sz.Height),
		showFPS:   cfg.ShowFPS || m.Debug,
	}
	if err := ebiten.RunGame(eg); err != nil {
		return errors.Wrap(err, "sapling: run")
	}
	return nil
}
