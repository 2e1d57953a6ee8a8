package sapling

import (
	"math"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"github.com/phanxgames/sapling/script"
)

// bind installs the script globals: load, draw, input, key, game, camera
// and objects.
func (g *Game) bind() {
	h := g.host
	h.OnRelease(func(payload any) {
		if sh, ok := payload.(*SpriteHandle); ok {
			g.sprites.ReleaseLater(sh)
		}
	})

	load := h.NewObject()
	_ = load.SetField("sprite", h.NewFunction("load.sprite", g.loadSprite))
	_ = load.SetField("object", h.NewFunction("load.object", g.loadObject))
	h.SetGlobal("load", load)

	draw := h.NewObject()
	_ = draw.SetField("sprite", h.NewFunction("draw.sprite", g.drawSprite))
	_ = draw.SetField("rect", h.NewFunction("draw.rect", g.drawRect))
	h.SetGlobal("draw", draw)

	input := h.NewObject()
	_ = input.SetField("key_down", h.NewFunction("input.key_down", g.keyQuery(g.backend.KeyDown)))
	_ = input.SetField("key_pressed", h.NewFunction("input.key_pressed", g.keyQuery(g.backend.KeyPressed)))
	_ = input.SetField("key_released", h.NewFunction("input.key_released", g.keyQuery(g.backend.KeyReleased)))
	h.SetGlobal("input", input)

	keys := h.NewObject()
	names := make([]string, 0, len(keyCodes))
	for name := range keyCodes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		_ = keys.SetField(name, script.Int(int64(keyCodes[name])))
	}
	h.SetGlobal("key", keys)

	h.SetGlobal("game", h.NewProxy(&gameProxy{g: g, quit: h.NewFunction("game.quit",
		func(...script.Value) (script.Value, error) {
			g.Quit()
			return script.Nil, nil
		})}))
	h.SetGlobal("objects", h.NewProxy(&objectsProxy{g: g}))

	g.syncCamera()
}

func (g *Game) loadSprite(args ...script.Value) (script.Value, error) {
	name, ok := script.Arg(args, 0).Str()
	if !ok {
		return script.Nil, argError("name", "string", script.Arg(args, 0))
	}
	sh, err := g.sprites.Get(name)
	if err != nil {
		return script.Nil, err
	}
	return g.host.NewUser(sh, spriteProxy{sh}), nil
}

func (g *Game) loadObject(args ...script.Value) (script.Value, error) {
	typ, ok := script.Arg(args, 0).Str()
	if !ok {
		return script.Nil, argError("type", "string", script.Arg(args, 0))
	}
	o, err := g.Spawn(typ, script.Arg(args, 1).Object())
	if err != nil {
		g.log.WithField("type", typ).Errorf("%v", err)
		return script.Error("%v", err), nil
	}
	return o.Value, nil
}

func (g *Game) drawSprite(args ...script.Value) (script.Value, error) {
	if g.pass == passNone || g.renderer == nil {
		return script.Nil, errors.New("draw call outside of a draw pass")
	}
	sv := script.Arg(args, 0)
	sh, ok := sv.User().(*SpriteHandle)
	if !ok {
		return script.Nil, argError("sprite", "sprite", sv)
	}
	sheet := sh.Sheet()
	if sheet == nil {
		return script.Nil, errors.Errorf("sprite '%s' was released", sh.Name())
	}
	x, err := numArg(args, 1, "x")
	if err != nil {
		return script.Nil, err
	}
	y, err := numArg(args, 2, "y")
	if err != nil {
		return script.Nil, err
	}
	fi, err := numArg(args, 3, "frame")
	if err != nil {
		return script.Nil, err
	}
	frame, ok := sheet.Frame(int(fi))
	if !ok {
		return script.Nil, errors.Errorf("sprite '%s' does not contain frame %d", sheet.Name, int64(fi))
	}
	rot, _ := script.Arg(args, 4).Number()

	scale := Vec2{1, 1}
	if v := script.Arg(args, 5); !v.IsNil() {
		sx, sy, ok := numPair(v)
		if !ok {
			return script.Nil, argError("scale", "list of 2 numbers", v)
		}
		scale = Vec2{sx, sy}
	}
	c := ColorWhite
	if v := script.Arg(args, 6); !v.IsNil() {
		if c, ok = colorOf(v); !ok {
			return script.Nil, argError("color", "list of 4 integers", v)
		}
	}

	x, y = g.toScreen(x, y)
	g.renderer.DrawSprite(SpriteDraw{
		Sheet:    sheet,
		Frame:    frame,
		X:        x,
		Y:        y,
		Rotation: rot,
		Scale:    scale,
		Color:    c,
	})
	return script.Nil, nil
}

func (g *Game) drawRect(args ...script.Value) (script.Value, error) {
	if g.pass == passNone || g.renderer == nil {
		return script.Nil, errors.New("draw call outside of a draw pass")
	}
	var xywh [4]float64
	for i, name := range [...]string{"x", "y", "w", "h"} {
		n, err := numArg(args, i, name)
		if err != nil {
			return script.Nil, err
		}
		xywh[i] = n
	}
	cv := script.Arg(args, 4)
	c, ok := colorOf(cv)
	if !ok {
		return script.Nil, argError("color", "list of 4 integers", cv)
	}
	x, y := g.toScreen(xywh[0], xywh[1])
	g.renderer.DrawRect(x, y, xywh[2], xywh[3], c)
	return script.Nil, nil
}

// toScreen applies the camera in the world pass.
func (g *Game) toScreen(x, y float64) (float64, float64) {
	if g.pass == passGUI {
		return x, y
	}
	return x - g.camera.X, y - g.camera.Y
}

func (g *Game) keyQuery(query func(code int) bool) script.Func {
	return func(args ...script.Value) (script.Value, error) {
		code, ok := script.Arg(args, 0).Int()
		if !ok {
			return script.Nil, argError("key", "integer", script.Arg(args, 0))
		}
		return script.Bool(query(int(code))), nil
	}
}

func argError(name, expected string, got script.Value) error {
	return errors.Errorf("arg '%s' expected %s got %s", name, expected, got.TypeName())
}

func numArg(args []script.Value, i int, name string) (float64, error) {
	v := script.Arg(args, i)
	n, ok := v.Number()
	if !ok {
		return 0, argError(name, "number", v)
	}
	return n, nil
}

func numPair(v script.Value) (a, b float64, ok bool) {
	o := v.Object()
	if o == nil || o.Len() < 2 {
		return 0, 0, false
	}
	a, okA := o.Index(0).Number()
	b, okB := o.Index(1).Number()
	return a, b, okA && okB
}

// colorOf reads {r, g, b, a}, clamping each component to 0..255.
func colorOf(v script.Value) (Color, bool) {
	o := v.Object()
	if o == nil || o.Len() < 4 {
		return Color{}, false
	}
	var c [4]uint8
	for i := range c {
		n, ok := o.Index(i).Number()
		if !ok {
			return Color{}, false
		}
		c[i] = uint8(math.Max(0, math.Min(255, n)))
	}
	return Color{c[0], c[1], c[2], c[3]}, true
}

// spriteProxy exposes read-only sheet info on a sprite handle.
type spriteProxy struct {
	h *SpriteHandle
}

func (p spriteProxy) Get(key script.Value) (script.Value, bool) {
	k, _ := key.Str()
	s := p.h.Sheet()
	if s == nil {
		return script.Nil, false
	}
	switch k {
	case "name":
		return script.String(s.Name), true
	case "width":
		return script.Int(int64(s.Size.Width)), true
	case "height":
		return script.Int(int64(s.Size.Height)), true
	case "frames":
		return script.Int(int64(s.Frames())), true
	}
	return script.Nil, false
}

func (p spriteProxy) Set(key, _ script.Value) error {
	return errors.Errorf("sprite key '%s' is readonly", key.String())
}

// gameProxy is the script's game record.
type gameProxy struct {
	g    *Game
	quit script.Value
}

func (p *gameProxy) Get(key script.Value) (script.Value, bool) {
	k, _ := key.Str()
	switch k {
	case "width":
		return script.Int(int64(p.g.manifest.Resolution.Width)), true
	case "height":
		return script.Int(int64(p.g.manifest.Resolution.Height)), true
	case "gui":
		return script.Bool(p.g.pass == passGUI), true
	case "room":
		return script.String(p.g.roomName), true
	case "title":
		return script.String(p.g.title), true
	case "quit":
		return p.quit, true
	}
	return script.Nil, false
}

func (p *gameProxy) Set(key, v script.Value) error {
	k, _ := key.Str()
	switch k {
	case "width", "height", "gui", "quit":
		return errors.Errorf("key '%s' is readonly", k)
	case "room":
		name, ok := v.Str()
		if !ok {
			return argError("room", "string", v)
		}
		if _, err := p.g.host.Find(p.g.manifest.RoomsDir(), name); err != nil {
			return errors.Errorf("failed to change to room '%s'", name)
		}
		return p.g.ChangeRoom(name)
	case "title":
		title, ok := v.Str()
		if !ok {
			return argError("title", "string", v)
		}
		p.g.SetTitle(title)
		return nil
	}
	return errors.Errorf("key '%s' not found", k)
}

// objectsProxy indexes the live table by id. Assigning nil removes.
type objectsProxy struct {
	g *Game
}

// idKey accepts integer keys and their decimal string form.
func idKey(key script.Value) (int64, bool) {
	if id, ok := key.Int(); ok {
		return id, true
	}
	s, ok := key.Str()
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	return id, err == nil
}

func (p *objectsProxy) Get(key script.Value) (script.Value, bool) {
	id, ok := idKey(key)
	if !ok {
		return script.Nil, false
	}
	o, ok := p.g.table.Get(id)
	if !ok {
		return script.Nil, false
	}
	return o.Value, true
}

func (p *objectsProxy) Set(key, v script.Value) error {
	id, ok := idKey(key)
	if !ok {
		return argError("id", "integer", key)
	}
	if !v.IsNil() {
		return errors.New("objects are created with load.object")
	}
	p.g.Remove(id)
	return nil
}
