package sapling

import (
	"time"

	"github.com/phanxgames/sapling/script"
)

// drawEntry is one object scheduled for drawing this tick. slot and gen
// detect objects removed between sorting and drawing.
type drawEntry struct {
	depth float64
	slot  int
	gen   uint32
	obj   *GameObject
}

// Update runs one tick: the update pass, camera sync and the depth sort.
// It returns ErrClosed once the game should stop.
func (g *Game) Update() error {
	if g.closing() {
		return ErrClosed
	}
	g.drawable = false
	g.changed = false
	g.sprites.Sweep()
	if g.hasPending {
		g.applyPending()
		if g.changed {
			return g.closeErr()
		}
	}
	g.fade.update(1 / float32(g.manifest.TPS))

	t0 := time.Now()
	for i := 0; i < g.table.Len(); i++ {
		o, _ := g.table.At(i)
		if o == nil {
			continue
		}
		if !g.dispatch(o, HookUpdate) {
			continue
		}
		if g.closing() {
			return ErrClosed
		}
		if g.hasPending {
			break
		}
	}
	if g.hasPending {
		g.applyPending()
		if g.changed {
			return g.closeErr()
		}
	}
	t1 := time.Now()

	g.syncCamera()
	g.sortEntries()
	g.drawable = true
	if g.stats != nil {
		g.stats.update = t1.Sub(t0)
		g.stats.sort = time.Since(t1)
	}
	return nil
}

func (g *Game) closeErr() error {
	if g.closing() {
		return ErrClosed
	}
	return nil
}

// Drawable reports whether the last Update produced a frame to draw.
func (g *Game) Drawable() bool { return g.drawable }

// Draw runs the world pass then the gui pass over the sorted objects.
// It draws nothing when the last tick ended in a room change.
func (g *Game) Draw(r Renderer) {
	if !g.drawable {
		return
	}
	g.drawable = false
	t0 := time.Now()
	g.renderer = r
	calls := 0
passes:
	for _, p := range [...]struct {
		pass drawPass
		hook string
	}{{passWorld, HookDraw}, {passGUI, HookDrawGUI}} {
		g.pass = p.pass
		for _, e := range g.entries {
			if o, gen := g.table.At(e.slot); o != e.obj || gen != e.gen {
				continue
			}
			if !g.dispatch(e.obj, p.hook) {
				continue
			}
			calls++
			g.syncCamera()
			if g.closing() {
				break passes
			}
		}
	}
	g.pass = passNone
	g.renderer = nil

	if a := g.fade.alpha(); a > 0 {
		sz := g.Size()
		r.DrawRect(0, 0, float64(sz.Width), float64(sz.Height), Color{A: a})
	}
	if g.stats != nil {
		g.stats.draw = time.Since(t0)
		g.stats.hooks = calls
		g.stats.objects = len(g.entries)
		g.stats.log(g.log)
	}
}

// sortEntries rebuilds the draw list from the live objects and sorts it
// by depth. The buffer only grows; its capacity tracks the largest
// population seen since the last room change.
func (g *Game) sortEntries() {
	n := g.table.Live()
	if cap(g.entries) < n {
		g.entries = make([]drawEntry, 0, n)
	}
	g.entries = g.entries[:0]
	for i := 0; i < g.table.Len(); i++ {
		o, gen := g.table.At(i)
		if o == nil {
			continue
		}
		g.entries = append(g.entries, drawEntry{depth: o.Depth(), slot: i, gen: gen, obj: o})
	}
	sortByDepth(g.entries)
}

// sortByDepth is a stable insertion sort, ascending. Object counts are
// small and mostly sorted between ticks.
func sortByDepth(es []drawEntry) {
	for i := 1; i < len(es); i++ {
		key := es[i]
		j := i - 1
		for j >= 0 && es[j].depth > key.depth {
			es[j+1] = es[j]
			j--
		}
		es[j+1] = key
	}
}

// syncCamera copies the script camera into g.camera. A missing camera is
// recreated and missing or non-numeric coordinates are written back.
func (g *Game) syncCamera() {
	cam := g.host.Global("camera").Object()
	if cam == nil {
		rec := g.host.NewObject()
		_ = rec.SetField("x", script.Float(g.camera.X))
		_ = rec.SetField("y", script.Float(g.camera.Y))
		g.host.SetGlobal("camera", rec)
		return
	}
	if x, ok := cam.Field("x").Number(); ok {
		g.camera.X = x
	} else {
		_ = cam.SetField("x", script.Float(g.camera.X))
	}
	if y, ok := cam.Field("y").Number(); ok {
		g.camera.Y = y
	} else {
		_ = cam.SetField("y", script.Float(g.camera.Y))
	}
}
