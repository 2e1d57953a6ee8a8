package script

import "github.com/pkg/errors"

// Object is a record/array hybrid: string-keyed fields plus an ordered
// array part. Index is zero-based regardless of the host's convention.
type Object interface {
	Field(key string) Value
	SetField(key string, v Value) error
	Len() int
	Index(i int) Value
	Append(v Value) error
	// Range visits string-keyed fields until fn returns false.
	Range(fn func(key string, v Value) bool)
}

// Function is a callable script value.
type Function interface {
	Call(args ...Value) (Value, error)
}

// Func adapts a Go function to Function.
type Func func(args ...Value) (Value, error)

// Call invokes f.
func (f Func) Call(args ...Value) (Value, error) { return f(args...) }

// Proxy supplies get/set behavior for values whose fields are computed
// by the engine (the game record, the object registry).
type Proxy interface {
	Get(key Value) (Value, bool)
	Set(key Value, v Value) error
}

// Arg returns args[i], or Nil when the caller passed fewer arguments.
func Arg(args []Value, i int) Value {
	if i < len(args) {
		return args[i]
	}
	return Nil
}

// Record is the native Object implementation. Field order is insertion
// order so Range is deterministic.
type Record struct {
	keys   []string
	fields map[string]Value
	items  []Value
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{fields: make(map[string]Value)}
}

// RecordOf builds a record from alternating key/value pairs.
func RecordOf(kv ...any) *Record {
	r := NewRecord()
	for i := 0; i+1 < len(kv); i += 2 {
		r.Set(kv[i].(string), kv[i+1].(Value))
	}
	return r
}

// ListOf builds a record whose array part holds items.
func ListOf(items ...Value) *Record {
	r := NewRecord()
	r.items = append(r.items, items...)
	return r
}

// Set stores a field and returns r for chaining.
func (r *Record) Set(key string, v Value) *Record {
	_ = r.SetField(key, v)
	return r
}

// Value wraps r as an object Value.
func (r *Record) Value() Value { return ObjectValue(r) }

func (r *Record) Field(key string) Value {
	return r.fields[key]
}

func (r *Record) SetField(key string, v Value) error {
	if v.IsNil() {
		if _, ok := r.fields[key]; ok {
			delete(r.fields, key)
			for i, k := range r.keys {
				if k == key {
					r.keys = append(r.keys[:i], r.keys[i+1:]...)
					break
				}
			}
		}
		return nil
	}
	if _, ok := r.fields[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.fields[key] = v
	return nil
}

func (r *Record) Len() int { return len(r.items) }

func (r *Record) Index(i int) Value {
	if i < 0 || i >= len(r.items) {
		return Nil
	}
	return r.items[i]
}

func (r *Record) Append(v Value) error {
	r.items = append(r.items, v)
	return nil
}

func (r *Record) Range(fn func(key string, v Value) bool) {
	for _, k := range r.keys {
		if !fn(k, r.fields[k]) {
			return
		}
	}
}

// ProxyObject exposes a Proxy as an Object. It has no array part.
type ProxyObject struct {
	P Proxy
}

func (p *ProxyObject) Field(key string) Value {
	v, _ := p.P.Get(String(key))
	return v
}

func (p *ProxyObject) SetField(key string, v Value) error {
	return p.P.Set(String(key), v)
}

func (p *ProxyObject) Len() int          { return 0 }
func (p *ProxyObject) Index(int) Value   { return Nil }
func (p *ProxyObject) Range(func(string, Value) bool) {}

func (p *ProxyObject) Append(Value) error {
	return errors.New("cannot append to a proxy")
}

// Merge shallow-copies the string-keyed fields of src onto dst. Values
// already present on dst are overwritten.
func Merge(dst, src Object) error {
	if dst == nil || src == nil {
		return nil
	}
	var err error
	src.Range(func(k string, v Value) bool {
		err = dst.SetField(k, v)
		return err == nil
	})
	return errors.Wrap(err, "merge")
}
