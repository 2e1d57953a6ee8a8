// Package luahost implements script.Host on top of gopher-lua.
//
// Scripts are plain Lua 5.1 files ending in ".lua" that return a value:
//
//	-- scripts/player.lua
//	local self = { speed = 2 }
//	function self:update()
//		if input.key_down(key.right) then self.x = self.x + self.speed end
//	end
//	return self
//
// Hooks receive the object as their first argument, so both method
// syntax and plain closures work.
package luahost

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"

	"github.com/phanxgames/sapling/script"
)

// Ext is the file extension Find looks for.
const Ext = ".lua"

// StartRoom is written to <rooms>/start.lua when a project has no start room.
const StartRoom = `return {
    name = "Room",
    spawns = {
        -- { type = "player", x = 16, y = 16 },
    },
}
`

const defaultChunkCache = 256

type chunk struct {
	mod   time.Time
	proto *lua.FunctionProto
}

// Host is a gopher-lua backed script.Host.
type Host struct {
	L        *lua.LState
	chunks   *lru.Cache[string, chunk]
	releases []func(payload any)
}

// New creates a Lua state with the standard libraries opened.
func New() *Host {
	chunks, _ := lru.New[string, chunk](defaultChunkCache)
	return &Host{
		L:      lua.NewState(),
		chunks: chunks,
	}
}

var _ script.Host = (*Host)(nil)

func (h *Host) Find(dir, name string) (string, error) {
	if !strings.HasSuffix(name, Ext) {
		name += Ext
	}
	p := filepath.Join(dir, name)
	st, err := os.Stat(p)
	if err != nil || st.IsDir() {
		return "", errors.Wrapf(script.ErrNotFound, "%s", p)
	}
	return p, nil
}

// ExecFile runs the file at path. Compiled chunks are cached by path and
// modification time, so re-running an object script only re-executes it.
func (h *Host) ExecFile(path string) (script.Value, error) {
	st, err := os.Stat(path)
	if err != nil {
		return script.Nil, errors.Wrapf(script.ErrNotFound, "%s", path)
	}
	c, ok := h.chunks.Get(path)
	if !ok || !c.mod.Equal(st.ModTime()) {
		src, err := os.ReadFile(path)
		if err != nil {
			return script.Nil, errors.Wrapf(script.ErrNotFound, "%s", path)
		}
		proto, err := compile(path, src)
		if err != nil {
			return script.Nil, err
		}
		c = chunk{mod: st.ModTime(), proto: proto}
		h.chunks.Add(path, c)
	}
	return h.call(h.L.NewFunctionFromProto(c.proto), nil)
}

func (h *Host) ExecSource(name, src string) (script.Value, error) {
	proto, err := compile(name, []byte(src))
	if err != nil {
		return script.Nil, err
	}
	return h.call(h.L.NewFunctionFromProto(proto), nil)
}

func compile(name string, src []byte) (*lua.FunctionProto, error) {
	stmts, err := parse.Parse(bytes.NewReader(src), name)
	if err != nil {
		return nil, &script.CompileError{Path: name, Msg: err.Error()}
	}
	proto, err := lua.Compile(stmts, name)
	if err != nil {
		return nil, &script.CompileError{Path: name, Msg: err.Error()}
	}
	return proto, nil
}

// call runs fn in protected mode and returns its first result.
func (h *Host) call(fn *lua.LFunction, args []script.Value) (script.Value, error) {
	largs := make([]lua.LValue, len(args))
	for i, a := range args {
		largs[i] = h.toLua(a)
	}
	if err := h.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, largs...); err != nil {
		return script.Nil, convertError(err)
	}
	ret := h.L.Get(-1)
	h.L.Pop(1)
	return h.fromLua(ret), nil
}

func convertError(err error) error {
	var api *lua.ApiError
	if !errors.As(err, &api) {
		return &script.RuntimePanic{Msg: err.Error()}
	}
	msg := api.Error()
	if api.Object != nil && api.Object != lua.LNil {
		msg = api.Object.String()
	}
	if api.Type == lua.ApiErrorSyntax {
		return &script.CompileError{Msg: msg}
	}
	return &script.RuntimePanic{Msg: msg, Traceback: api.StackTrace}
}

// protect runs fn, turning a raised Lua error into a Go error. Used for
// metamethod-aware field access outside a protected call.
func protect(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = convertError(e)
				return
			}
			err = &script.RuntimePanic{Msg: fmt.Sprint(r)}
		}
	}()
	fn()
	return nil
}

func (h *Host) NewObject() script.Value {
	return h.fromLua(h.L.NewTable())
}

func (h *Host) NewFunction(name string, fn script.Func) script.Value {
	return h.fromLua(h.goFunction(name, fn))
}

func (h *Host) goFunction(name string, fn script.Func) *lua.LFunction {
	return h.L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		args := make([]script.Value, n)
		for i := 1; i <= n; i++ {
			args[i-1] = h.fromLua(L.Get(i))
		}
		ret, err := fn(args...)
		if err != nil {
			L.RaiseError("%s: %s", name, err.Error())
			return 0
		}
		if msg, ok := ret.ErrorMessage(); ok {
			L.Push(lua.LNil)
			L.Push(lua.LString(msg))
			return 2
		}
		L.Push(h.toLua(ret))
		return 1
	})
}

// proxyMeta builds a metatable routing reads and writes through p.
func (h *Host) proxyMeta(p script.Proxy) *lua.LTable {
	mt := h.L.NewTable()
	mt.RawSetString("__index", h.L.NewFunction(func(L *lua.LState) int {
		v, _ := p.Get(h.fromLua(L.Get(2)))
		L.Push(h.toLua(v))
		return 1
	}))
	mt.RawSetString("__newindex", h.L.NewFunction(func(L *lua.LState) int {
		if err := p.Set(h.fromLua(L.Get(2)), h.fromLua(L.Get(3))); err != nil {
			L.RaiseError("%s", err.Error())
		}
		return 0
	}))
	mt.RawSetString("__metatable", lua.LFalse)
	return mt
}

func (h *Host) NewProxy(p script.Proxy) script.Value {
	tb := h.L.NewTable()
	h.L.SetMetatable(tb, h.proxyMeta(p))
	return h.fromLua(tb)
}

type userBox struct {
	payload any
}

func (h *Host) NewUser(payload any, p script.Proxy) script.Value {
	ud := h.L.NewUserData()
	ud.Value = &userBox{payload: payload}
	h.L.SetMetatable(ud, h.proxyMeta(p))
	runtime.SetFinalizer(ud, func(*lua.LUserData) {
		for _, fn := range h.releases {
			fn(payload)
		}
	})
	return script.User(payload, ud)
}

func (h *Host) OnRelease(fn func(payload any)) {
	h.releases = append(h.releases, fn)
}

func (h *Host) SetGlobal(name string, v script.Value) {
	h.L.SetGlobal(name, h.toLua(v))
}

func (h *Host) Global(name string) script.Value {
	return h.fromLua(h.L.GetGlobal(name))
}

func (h *Host) Close() error {
	h.L.Close()
	h.chunks.Purge()
	return nil
}
