package sapling

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/phanxgames/sapling/script"
)

// Hook names dispatched by the engine.
const (
	HookStart   = "start"
	HookUpdate  = "update"
	HookDraw    = "draw"
	HookDrawGUI = "draw_gui"
	HookCleanup = "cleanup"
)

// GameObject is a live object. Value is the script-side record; the engine
// stamps id, depth and type on it at spawn.
type GameObject struct {
	ID    int64
	Type  string
	Value script.Value
}

// Depth reads the object's depth field. Missing or non-numeric depths are 0.
func (o *GameObject) Depth() float64 {
	d, _ := o.Value.Field("depth").Number()
	return d
}

type slot struct {
	obj *GameObject
	gen uint32
}

// ObjectTable is an insertion-ordered arena of object slots. Removing an
// object clears its slot and bumps the slot generation; slots are never
// compacted, so slot indices stay valid while the table lives.
type ObjectTable struct {
	slots  []slot
	byID   map[int64]int
	nextID int64
	live   int
}

// NewObjectTable returns an empty table whose id counter starts at 0.
func NewObjectTable() *ObjectTable {
	return &ObjectTable{byID: make(map[int64]int)}
}

// NextID returns the next id and advances the counter.
func (t *ObjectTable) NextID() int64 {
	id := t.nextID
	t.nextID++
	return id
}

// Insert appends o and returns its slot index.
func (t *ObjectTable) Insert(o *GameObject) int {
	i := len(t.slots)
	t.slots = append(t.slots, slot{obj: o})
	t.byID[o.ID] = i
	t.live++
	return i
}

// Get returns the live object with the given id.
func (t *ObjectTable) Get(id int64) (*GameObject, bool) {
	i, ok := t.byID[id]
	if !ok {
		return nil, false
	}
	return t.slots[i].obj, true
}

// Remove tombstones the slot holding id.
func (t *ObjectTable) Remove(id int64) (*GameObject, bool) {
	i, ok := t.byID[id]
	if !ok {
		return nil, false
	}
	o := t.slots[i].obj
	t.slots[i].obj = nil
	t.slots[i].gen++
	delete(t.byID, id)
	t.live--
	return o, true
}

// Len is the slot extent, tombstones included.
func (t *ObjectTable) Len() int { return len(t.slots) }

// Live is the number of live objects.
func (t *ObjectTable) Live() int { return t.live }

// At returns the object in slot i (nil for a tombstone) and the slot's
// generation.
func (t *ObjectTable) At(i int) (*GameObject, uint32) {
	s := t.slots[i]
	return s.obj, s.gen
}

// Spawn instantiates the object script typ. The id is consumed even when
// spawning fails so reports can name it. fields, when non-nil, are merged
// onto the object after its start hook ran. Room changes requested while
// the object script runs are deferred.
func (g *Game) Spawn(typ string, fields script.Object) (*GameObject, error) {
	g.inHook++
	defer func() { g.inHook-- }()
	id := g.table.NextID()
	res := fmt.Sprintf("object [%d]:%s", id, typ)
	path, err := g.host.Find(g.manifest.ObjectsDir(), typ)
	if err != nil {
		return nil, errors.Wrapf(err, "sapling: %s", res)
	}
	v, err := g.host.ExecFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "sapling: %s", res)
	}
	rec := v.Object()
	if rec == nil {
		return nil, schemaError(res, "", "object", v)
	}
	for _, f := range [...]struct {
		k string
		v script.Value
	}{
		{"id", script.Int(id)},
		{"depth", script.Float(0)},
		{"type", script.String(typ)},
	} {
		if err := rec.SetField(f.k, f.v); err != nil {
			return nil, errors.Wrapf(err, "sapling: %s", res)
		}
	}

	o := &GameObject{ID: id, Type: typ, Value: v}
	g.table.Insert(o)
	g.dispatch(o, HookStart)
	if fields != nil {
		if err := script.Merge(rec, fields); err != nil {
			g.log.WithFields(objectFields(o)).WithError(err).Error("merge fields")
		}
	}
	return o, nil
}

// Remove tombstones the object, then runs its cleanup hook. The object is
// already gone from the table while cleanup runs.
func (g *Game) Remove(id int64) bool {
	o, ok := g.table.Remove(id)
	if !ok {
		return false
	}
	g.dispatch(o, HookCleanup)
	return true
}

// Object returns the live object with the given id.
func (g *Game) Object(id int64) (*GameObject, bool) { return g.table.Get(id) }

// Objects returns the current table.
func (g *Game) Objects() *ObjectTable { return g.table }

// dispatch calls the named hook with the object as its only argument and
// reports whether a hook ran. Failures are logged and never propagate.
func (g *Game) dispatch(o *GameObject, hook string) bool {
	fn := o.Value.Field(hook).Function()
	if fn == nil {
		return false
	}
	if err := g.call(fn, o.Value); err != nil {
		g.log.WithFields(objectFields(o)).WithField("hook", hook).
			Errorf("Object [%d]:%s:%s() error: %v", o.ID, o.Type, hook, err)
	}
	return true
}

// call runs fn with hook bookkeeping: room requests made inside are
// deferred, and Go panics are turned into script.RuntimePanic.
func (g *Game) call(fn script.Function, args ...script.Value) (err error) {
	g.inHook++
	defer func() {
		g.inHook--
		if r := recover(); r != nil {
			err = &script.RuntimePanic{Msg: fmt.Sprint(r)}
		}
	}()
	_, err = fn.Call(args...)
	return err
}

func objectFields(o *GameObject) logrus.Fields {
	return logrus.Fields{"id": o.ID, "type": o.Type}
}

// cleanupAll removes every live object in table order, running cleanup on
// each after it is tombstoned.
func (g *Game) cleanupAll() {
	for i := 0; i < g.table.Len(); i++ {
		if o, _ := g.table.At(i); o != nil {
			g.table.Remove(o.ID)
			g.dispatch(o, HookCleanup)
		}
	}
}
