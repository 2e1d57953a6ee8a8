package sapling

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/phanxgames/sapling/script"
)

const testDir = "proj"

var (
	objectsDir = filepath.Join(testDir, "scripts")
	roomsDir   = filepath.Join(testDir, "rooms")
	spritesDir = filepath.Join(testDir, "sprites")
)

type fakeTexture struct {
	w, h     int
	disposed bool
}

func (t *fakeTexture) Size() (int, int) { return t.w, t.h }
func (t *fakeTexture) Dispose()         { t.disposed = true }

type fakeBackend struct {
	sizes   map[string]Size
	loaded  []*fakeTexture
	down    map[int]bool
	closing bool
	title   string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{sizes: make(map[string]Size), down: make(map[int]bool)}
}

func (b *fakeBackend) LoadTexture(path string) (Texture, error) {
	sz, ok := b.sizes[path]
	if !ok {
		return nil, errors.Errorf("no such image %s", path)
	}
	t := &fakeTexture{w: sz.Width, h: sz.Height}
	b.loaded = append(b.loaded, t)
	return t, nil
}

func (b *fakeBackend) KeyDown(code int) bool     { return b.down[code] }
func (b *fakeBackend) KeyPressed(code int) bool  { return false }
func (b *fakeBackend) KeyReleased(code int) bool { return false }
func (b *fakeBackend) ShouldClose() bool         { return b.closing }
func (b *fakeBackend) SetTitle(title string)     { b.title = title }

type rectCall struct {
	X, Y, W, H float64
	C          Color
}

type recordRenderer struct {
	sprites []SpriteDraw
	rects   []rectCall
}

func (r *recordRenderer) DrawSprite(d SpriteDraw) { r.sprites = append(r.sprites, d) }
func (r *recordRenderer) DrawRect(x, y, w, h float64, c Color) {
	r.rects = append(r.rects, rectCall{x, y, w, h, c})
}

// hook wraps fn as a script function receiving self.
func hook(fn func(self script.Value) error) script.Value {
	return script.FunctionValue(script.Func(func(args ...script.Value) (script.Value, error) {
		return script.Nil, fn(script.Arg(args, 0))
	}))
}

// defineObject registers an object type whose script builds a fresh
// record each time it runs.
func defineObject(h *script.NativeHost, typ string, build func(self *script.Record)) {
	h.Define(objectsDir, typ, func(*script.NativeHost) (script.Value, error) {
		r := script.NewRecord()
		if build != nil {
			build(r)
		}
		return r.Value(), nil
	})
}

func defineRoom(h *script.NativeHost, name string, spawns ...script.Value) *script.Record {
	r := script.RecordOf(
		"name", script.String(name),
		"spawns", script.ListOf(spawns...).Value(),
	)
	h.DefineValue(roomsDir, name, r.Value())
	return r
}

func spawn(typ string, kv ...any) script.Value {
	return script.RecordOf(append([]any{"type", script.String(typ)}, kv...)...).Value()
}

type testGame struct {
	*Game
	host    *script.NativeHost
	backend *fakeBackend
	logs    *test.Hook
}

// newTestGame starts a game on host. An empty start room is defined unless
// the host already has one.
func newTestGame(t *testing.T, host *script.NativeHost, backend *fakeBackend) *testGame {
	t.Helper()
	if _, err := host.Find(roomsDir, StartRoom); err != nil {
		defineRoom(host, StartRoom)
	}
	if backend == nil {
		backend = newFakeBackend()
	}
	logger, logs := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	m := DefaultManifest()
	m.Dir = testDir
	g, err := New(Config{Manifest: m, Host: host, Backend: backend, Logger: logger})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { g.Close() })
	return &testGame{Game: g, host: host, backend: backend, logs: logs}
}

// errorEntries returns logged entries at error level.
func (tg *testGame) errorEntries() []*logrus.Entry {
	var out []*logrus.Entry
	for _, e := range tg.logs.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			out = append(out, e)
		}
	}
	return out
}

func (tg *testGame) global(name string) script.Value { return tg.host.Global(name) }

// callGlobal calls global.fn(args...).
func (tg *testGame) callGlobal(global, fn string, args ...script.Value) (script.Value, error) {
	f := tg.global(global).Field(fn).Function()
	if f == nil {
		return script.Nil, errors.Errorf("%s.%s is not a function", global, fn)
	}
	return f.Call(args...)
}

func ints(vs ...int64) *script.Record {
	items := make([]script.Value, len(vs))
	for i, v := range vs {
		items[i] = script.Int(v)
	}
	return script.ListOf(items...)
}
