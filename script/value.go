// Package script defines the value model sapling uses to talk to an
// embedded scripting runtime.
//
// A [Value] is a small tagged variant. Scalars (nil, bool, int, float,
// string, error) are stored inline; objects, functions and user handles
// carry a reference to a host-provided implementation. Engine code reads
// script data only through Value, [Object] and [Function], so the same
// engine runs on top of any [Host].
package script

import (
	"fmt"
	"math"
	"reflect"

	"github.com/pkg/errors"
)

// Kind identifies the dynamic type of a Value.
type Kind uint8

const (
	KindNil      Kind = iota // absent / nil
	KindBool                 // boolean
	KindInt                  // 64-bit signed integer
	KindFloat                // 64-bit float
	KindString               // immutable string
	KindObject               // record/array hybrid
	KindFunction             // callable
	KindError                // soft error value carrying a message
	KindUser                 // opaque host handle
)

var kindNames = [...]string{
	KindNil:      "nil",
	KindBool:     "bool",
	KindInt:      "int",
	KindFloat:    "float",
	KindString:   "string",
	KindObject:   "object",
	KindFunction: "function",
	KindError:    "error",
	KindUser:     "user",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Value is a dynamically typed script value. The zero Value is nil.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	ref  any // Object, Function or user payload
	back any // host-private backing (e.g. the script-side userdata)
}

// Nil is the nil Value.
var Nil = Value{}

// Bool returns a boolean Value.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.i = 1
	}
	return v
}

// Int returns an integer Value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a float Value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Number returns KindInt when f is integral and fits in an int64, and
// KindFloat otherwise. Hosts whose runtime has a single number type use
// it to surface integers.
func Number(f float64) Value {
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 && !math.IsInf(f, 0) {
		return Int(int64(f))
	}
	return Float(f)
}

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Error returns a soft error Value. Hosts surface it to scripts as a
// failed result rather than a raised error.
func Error(format string, args ...any) Value {
	return Value{kind: KindError, s: fmt.Sprintf(format, args...)}
}

// ObjectValue wraps an Object. A nil Object yields Nil.
func ObjectValue(o Object) Value {
	if o == nil {
		return Nil
	}
	return Value{kind: KindObject, ref: o}
}

// FunctionValue wraps a Function. A nil Function yields Nil.
func FunctionValue(fn Function) Value {
	if fn == nil {
		return Nil
	}
	return Value{kind: KindFunction, ref: fn}
}

// User wraps an opaque payload. backing is whatever the host needs to
// hand the same handle back to the script side; it may be nil.
func User(payload, backing any) Value {
	return Value{kind: KindUser, ref: payload, back: backing}
}

// Kind reports the dynamic type of v.
func (v Value) Kind() Kind { return v.kind }

// IsNil reports whether v is nil.
func (v Value) IsNil() bool { return v.kind == KindNil }

// TypeName is the script-facing name of v's kind.
func (v Value) TypeName() string { return v.kind.String() }

// Truthy follows the usual script rule: only nil and false are false.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNil:
		return false
	case KindBool:
		return v.i != 0
	}
	return true
}

// Bool returns the boolean and whether v is a bool.
func (v Value) Bool() (bool, bool) { return v.i != 0, v.kind == KindBool }

// Int returns the integer and whether v is an int.
func (v Value) Int() (int64, bool) { return v.i, v.kind == KindInt }

// Number returns v as a float64 for both int and float kinds.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	}
	return 0, false
}

// Str returns the string and whether v is a string.
func (v Value) Str() (string, bool) { return v.s, v.kind == KindString }

// ErrorMessage returns the message of a KindError value.
func (v Value) ErrorMessage() (string, bool) { return v.s, v.kind == KindError }

// Object returns the wrapped Object, or nil.
func (v Value) Object() Object {
	if v.kind != KindObject {
		return nil
	}
	return v.ref.(Object)
}

// Function returns the wrapped Function, or nil.
func (v Value) Function() Function {
	if v.kind != KindFunction {
		return nil
	}
	return v.ref.(Function)
}

// User returns the payload of a KindUser value, or nil.
func (v Value) User() any {
	if v.kind != KindUser {
		return nil
	}
	return v.ref
}

// Backing returns the host-private backing of a user value.
func (v Value) Backing() any { return v.back }

// Field reads a string-keyed field. Non-objects have no fields.
func (v Value) Field(key string) Value {
	if o := v.Object(); o != nil {
		return o.Field(key)
	}
	return Nil
}

// SetField writes a string-keyed field.
func (v Value) SetField(key string, val Value) error {
	o := v.Object()
	if o == nil {
		return errors.Errorf("cannot set field %q on %s", key, v.TypeName())
	}
	return o.SetField(key, val)
}

// Same reports whether a and b are the same value: equal scalars or the
// same referenced object, function or handle.
func Same(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNil:
		return true
	case KindBool, KindInt:
		return a.i == b.i
	case KindFloat:
		return a.f == b.f
	case KindString, KindError:
		return a.s == b.s
	}
	ia, ib := identity(a.ref), identity(b.ref)
	if ia == nil || ia != ib {
		return false
	}
	return identity(a.back) == identity(b.back)
}

// identity maps a reference to a comparable key. Hosts that wrap the same
// underlying script value in fresh Go values implement Identity.
func identity(ref any) any {
	if id, ok := ref.(interface{ Identity() any }); ok {
		return id.Identity()
	}
	if ref == nil || !reflect.TypeOf(ref).Comparable() {
		return nil
	}
	return ref
}

// String formats v for logs.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		if v.i != 0 {
			return "true"
		}
		return "false"
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindString:
		return fmt.Sprintf("%q", v.s)
	case KindError:
		return "error(" + v.s + ")"
	}
	return v.kind.String()
}
