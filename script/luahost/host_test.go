package luahost

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/phanxgames/sapling/script"
)

func newHost(t *testing.T) *Host {
	t.Helper()
	h := New()
	t.Cleanup(func() { h.Close() })
	return h
}

func TestExecSource_Kinds(t *testing.T) {
	h := newHost(t)
	v, err := h.ExecSource("kinds", `return { i = 3, f = 1.5, s = "x", b = true, list = {1, 2, 3} }`)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind() != script.KindObject {
		t.Fatalf("Kind = %v, want object", v.Kind())
	}
	if i, ok := v.Field("i").Int(); !ok || i != 3 {
		t.Errorf("i = %v", v.Field("i"))
	}
	if v.Field("f").Kind() != script.KindFloat {
		t.Errorf("f kind = %v, want float", v.Field("f").Kind())
	}
	if s, _ := v.Field("s").Str(); s != "x" {
		t.Errorf("s = %q, want x", s)
	}
	if !v.Field("b").Truthy() {
		t.Error("b should be true")
	}
	list := v.Field("list").Object()
	if list.Len() != 3 {
		t.Fatalf("list Len = %d, want 3", list.Len())
	}
	if i, _ := list.Index(0).Int(); i != 1 {
		t.Errorf("list[0] = %d, want 1", i)
	}
}

func TestExecSource_CompileError(t *testing.T) {
	h := newHost(t)
	_, err := h.ExecSource("broken", `return {`)
	var ce *script.CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want CompileError", err)
	}
}

func TestExecSource_RuntimePanic(t *testing.T) {
	h := newHost(t)
	_, err := h.ExecSource("raise", `error("nope")`)
	var rp *script.RuntimePanic
	if !errors.As(err, &rp) {
		t.Fatalf("err = %v, want RuntimePanic", err)
	}
}

func TestFunction_CallWithSelf(t *testing.T) {
	h := newHost(t)
	v, err := h.ExecSource("obj", `
local self = { n = 0 }
function self:update() self.n = self.n + 1 end
return self`)
	if err != nil {
		t.Fatal(err)
	}
	fn := v.Field("update").Function()
	if fn == nil {
		t.Fatal("update is not a function")
	}
	for i := 0; i < 2; i++ {
		if _, err := fn.Call(v); err != nil {
			t.Fatal(err)
		}
	}
	if n, _ := v.Field("n").Int(); n != 2 {
		t.Errorf("n = %d, want 2", n)
	}
}

func TestGoFunction_ErrorRaises(t *testing.T) {
	h := newHost(t)
	h.SetGlobal("fail", h.NewFunction("fail", func(...script.Value) (script.Value, error) {
		return script.Nil, errors.New("bad arg")
	}))
	_, err := h.ExecSource("call", `fail()`)
	var rp *script.RuntimePanic
	if !errors.As(err, &rp) {
		t.Fatalf("err = %v, want RuntimePanic", err)
	}
}

func TestGoFunction_SoftError(t *testing.T) {
	h := newHost(t)
	h.SetGlobal("soft", h.NewFunction("soft", func(...script.Value) (script.Value, error) {
		return script.Error("missing"), nil
	}))
	v, err := h.ExecSource("call", `local v, msg = soft() return { ok = v == nil, msg = msg }`)
	if err != nil {
		t.Fatal(err)
	}
	if !v.Field("ok").Truthy() {
		t.Error("first result should be nil")
	}
	if s, _ := v.Field("msg").Str(); s != "missing" {
		t.Errorf("msg = %q, want missing", s)
	}
}

type kv struct {
	m map[string]script.Value
}

func (p *kv) Get(key script.Value) (script.Value, bool) {
	s, _ := key.Str()
	v, ok := p.m[s]
	return v, ok
}

func (p *kv) Set(key, v script.Value) error {
	s, _ := key.Str()
	if s == "width" {
		return errors.New("key is readonly")
	}
	p.m[s] = v
	return nil
}

func TestProxy_GetSet(t *testing.T) {
	h := newHost(t)
	p := &kv{m: map[string]script.Value{"width": script.Int(160)}}
	h.SetGlobal("game", h.NewProxy(p))
	v, err := h.ExecSource("proxy", `game.title = "t" return game.width`)
	if err != nil {
		t.Fatal(err)
	}
	if w, _ := v.Int(); w != 160 {
		t.Errorf("width = %d, want 160", w)
	}
	if s, _ := p.m["title"].Str(); s != "t" {
		t.Errorf("title = %q, want t", s)
	}
	if _, err := h.ExecSource("ro", `game.width = 1`); err == nil {
		t.Error("expected readonly error")
	}
}

func TestNewUser_RoundTrip(t *testing.T) {
	h := newHost(t)
	p := &kv{m: map[string]script.Value{"frames": script.Int(4)}}
	type payload struct{ id int }
	pl := &payload{id: 7}
	h.SetGlobal("spr", h.NewUser(pl, p))
	v, err := h.ExecSource("user", `return spr`)
	if err != nil {
		t.Fatal(err)
	}
	if v.User() != pl {
		t.Errorf("payload = %v, want %v", v.User(), pl)
	}
	n, err := h.ExecSource("frames", `return spr.frames`)
	if err != nil {
		t.Fatal(err)
	}
	if f, _ := n.Int(); f != 4 {
		t.Errorf("frames = %d, want 4", f)
	}
}

func TestFind_AndChunkCache(t *testing.T) {
	h := newHost(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "ball.lua")
	if err := os.WriteFile(path, []byte(`counter = (counter or 0) + 1 return { n = counter }`), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := h.Find(dir, "ball")
	if err != nil {
		t.Fatal(err)
	}
	if p != path {
		t.Errorf("Find = %q, want %q", p, path)
	}
	for want := int64(1); want <= 2; want++ {
		v, err := h.ExecFile(p)
		if err != nil {
			t.Fatal(err)
		}
		if n, _ := v.Field("n").Int(); n != want {
			t.Errorf("n = %d, want %d", n, want)
		}
	}
	if h.chunks.Len() != 1 {
		t.Errorf("cached chunks = %d, want 1", h.chunks.Len())
	}
	if _, err := h.Find(dir, "nope"); !errors.Is(err, script.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestTable_SameIdentity(t *testing.T) {
	h := newHost(t)
	v, err := h.ExecSource("t", `local t = {} return { a = t, b = t }`)
	if err != nil {
		t.Fatal(err)
	}
	if !script.Same(v.Field("a"), v.Field("b")) {
		t.Error("fields referencing one table should be Same")
	}
}
