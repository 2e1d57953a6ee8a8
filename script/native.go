package script

import (
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
)

// Constructor builds the value a native "file" evaluates to.
type Constructor func(h *NativeHost) (Value, error)

// NativeHost is a Host whose scripts are Go constructors registered under
// a directory and name. It lets a game define objects and rooms in Go and
// is the host used by the engine's tests.
type NativeHost struct {
	files    map[string]Constructor
	globals  map[string]Value
	released []func(payload any)
	// Execs counts ExecFile calls per path.
	Execs map[string]int
}

// NewNativeHost returns an empty host.
func NewNativeHost() *NativeHost {
	return &NativeHost{
		files:   make(map[string]Constructor),
		globals: make(map[string]Value),
		Execs:   make(map[string]int),
	}
}

// Define registers ctor as the script dir/name.
func (h *NativeHost) Define(dir, name string, ctor Constructor) {
	h.files[filepath.Join(dir, name)] = ctor
}

// DefineValue registers a script that always evaluates to v.
func (h *NativeHost) DefineValue(dir, name string, v Value) {
	h.Define(dir, name, func(*NativeHost) (Value, error) { return v, nil })
}

func (h *NativeHost) Find(dir, name string) (string, error) {
	p := filepath.Join(dir, name)
	if _, ok := h.files[p]; !ok {
		return "", errors.Wrapf(ErrNotFound, "%s", p)
	}
	return p, nil
}

func (h *NativeHost) ExecFile(path string) (v Value, err error) {
	ctor, ok := h.files[path]
	if !ok {
		return Nil, errors.Wrapf(ErrNotFound, "%s", path)
	}
	h.Execs[path]++
	defer func() {
		if r := recover(); r != nil {
			v, err = Nil, &RuntimePanic{Msg: fmt.Sprint(r)}
		}
	}()
	v, err = ctor(h)
	if err != nil {
		var ce *CompileError
		var rp *RuntimePanic
		if !errors.As(err, &ce) && !errors.As(err, &rp) {
			err = &RuntimePanic{Msg: err.Error()}
		}
	}
	return v, err
}

func (h *NativeHost) ExecSource(name, _ string) (Value, error) {
	return Nil, &CompileError{Path: name, Msg: "native host cannot compile source"}
}

func (h *NativeHost) NewObject() Value { return NewRecord().Value() }

func (h *NativeHost) NewFunction(name string, fn Func) Value {
	return FunctionValue(&nativeFunc{name: name, fn: fn})
}

func (h *NativeHost) NewProxy(p Proxy) Value {
	return ObjectValue(&ProxyObject{P: p})
}

func (h *NativeHost) NewUser(payload any, p Proxy) Value {
	return User(payload, &ProxyObject{P: p})
}

func (h *NativeHost) SetGlobal(name string, v Value) { h.globals[name] = v }

func (h *NativeHost) Global(name string) Value { return h.globals[name] }

func (h *NativeHost) OnRelease(fn func(payload any)) {
	h.released = append(h.released, fn)
}

// Release simulates the script side dropping a handle made by NewUser.
func (h *NativeHost) Release(v Value) {
	if v.Kind() != KindUser {
		return
	}
	for _, fn := range h.released {
		fn(v.User())
	}
}

func (h *NativeHost) Close() error { return nil }

// UserField reads a field of a handle made by NewUser.
func UserField(v Value, key string) Value {
	if p, ok := v.Backing().(*ProxyObject); ok {
		return p.Field(key)
	}
	return Nil
}

type nativeFunc struct {
	name string
	fn   Func
}

// Call runs the function, converting Go panics into RuntimePanic.
func (f *nativeFunc) Call(args ...Value) (v Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = Nil, &RuntimePanic{Msg: fmt.Sprintf("%s: %v", f.name, r)}
		}
	}()
	return f.fn(args...)
}
