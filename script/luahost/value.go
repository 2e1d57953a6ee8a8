package luahost

import (
	"github.com/pkg/errors"
	lua "github.com/yuin/gopher-lua"

	"github.com/phanxgames/sapling/script"
)

// table exposes a Lua table as a script.Object.
type table struct {
	h *Host
	t *lua.LTable
}

func (t *table) Identity() any { return t.t }

func (t *table) Field(key string) script.Value {
	if t.t.Metatable == lua.LNil {
		return t.h.fromLua(t.t.RawGetString(key))
	}
	var v lua.LValue = lua.LNil
	if err := protect(func() { v = t.h.L.GetField(t.t, key) }); err != nil {
		return script.Nil
	}
	return t.h.fromLua(v)
}

func (t *table) SetField(key string, v script.Value) error {
	if t.t.Metatable == lua.LNil {
		t.t.RawSetString(key, t.h.toLua(v))
		return nil
	}
	return protect(func() { t.h.L.SetField(t.t, key, t.h.toLua(v)) })
}

func (t *table) Len() int { return t.t.Len() }

func (t *table) Index(i int) script.Value {
	if i < 0 {
		return script.Nil
	}
	return t.h.fromLua(t.t.RawGetInt(i + 1))
}

func (t *table) Append(v script.Value) error {
	if t.t.Metatable != lua.LNil {
		return errors.New("cannot append to a proxy")
	}
	t.t.Append(t.h.toLua(v))
	return nil
}

func (t *table) Range(fn func(key string, v script.Value) bool) {
	type kv struct {
		k string
		v lua.LValue
	}
	var fields []kv
	t.t.ForEach(func(k, v lua.LValue) {
		if s, ok := k.(lua.LString); ok {
			fields = append(fields, kv{string(s), v})
		}
	})
	for _, f := range fields {
		if !fn(f.k, t.h.fromLua(f.v)) {
			return
		}
	}
}

// function exposes a Lua function as a script.Function.
type function struct {
	h  *Host
	fn *lua.LFunction
}

func (f *function) Identity() any { return f.fn }

func (f *function) Call(args ...script.Value) (script.Value, error) {
	return f.h.call(f.fn, args)
}

func (h *Host) fromLua(v lua.LValue) script.Value {
	switch v := v.(type) {
	case lua.LBool:
		return script.Bool(bool(v))
	case lua.LNumber:
		return script.Number(float64(v))
	case lua.LString:
		return script.String(string(v))
	case *lua.LTable:
		return script.ObjectValue(&table{h: h, t: v})
	case *lua.LFunction:
		return script.FunctionValue(&function{h: h, fn: v})
	case *lua.LUserData:
		if box, ok := v.Value.(*userBox); ok {
			return script.User(box.payload, v)
		}
		return script.User(v.Value, v)
	}
	return script.Nil
}

func (h *Host) toLua(v script.Value) lua.LValue {
	switch v.Kind() {
	case script.KindBool:
		b, _ := v.Bool()
		return lua.LBool(b)
	case script.KindInt, script.KindFloat:
		n, _ := v.Number()
		return lua.LNumber(n)
	case script.KindString:
		s, _ := v.Str()
		return lua.LString(s)
	case script.KindError:
		// Errors only reach Lua as the second result of a Go function.
		return lua.LNil
	case script.KindObject:
		return h.objectToLua(v.Object())
	case script.KindFunction:
		fn := v.Function()
		if lf, ok := fn.(*function); ok && lf.h == h {
			return lf.fn
		}
		return h.goFunction("function", fn.Call)
	case script.KindUser:
		if ud, ok := v.Backing().(*lua.LUserData); ok {
			return ud
		}
		ud := h.L.NewUserData()
		ud.Value = &userBox{payload: v.User()}
		return ud
	}
	return lua.LNil
}

func (h *Host) objectToLua(o script.Object) lua.LValue {
	switch o := o.(type) {
	case *table:
		if o.h == h {
			return o.t
		}
	case *script.ProxyObject:
		tb := h.L.NewTable()
		h.L.SetMetatable(tb, h.proxyMeta(o.P))
		return tb
	}
	tb := h.L.NewTable()
	o.Range(func(k string, v script.Value) bool {
		tb.RawSetString(k, h.toLua(v))
		return true
	})
	for i := 0; i < o.Len(); i++ {
		tb.Append(h.toLua(o.Index(i)))
	}
	return tb
}
