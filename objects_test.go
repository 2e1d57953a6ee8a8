package sapling

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/phanxgames/sapling/script"
)

func TestObjectTable_RemoveTombstones(t *testing.T) {
	tb := NewObjectTable()
	for i := 0; i < 3; i++ {
		tb.Insert(&GameObject{ID: tb.NextID()})
	}
	if _, ok := tb.Remove(1); !ok {
		t.Fatal("Remove(1) failed")
	}
	if tb.Len() != 3 || tb.Live() != 2 {
		t.Errorf("Len, Live = %d, %d; want 3, 2", tb.Len(), tb.Live())
	}
	o, gen := tb.At(1)
	if o != nil || gen != 1 {
		t.Errorf("At(1) = %v, gen %d; want nil, 1", o, gen)
	}
	if _, ok := tb.Get(1); ok {
		t.Error("removed id still resolves")
	}
	if _, ok := tb.Remove(1); ok {
		t.Error("second Remove should fail")
	}
	if id := tb.NextID(); id != 3 {
		t.Errorf("NextID = %d, want 3", id)
	}
}

func TestSpawn_StampsAndMerges(t *testing.T) {
	h := script.NewNativeHost()
	var startSpeed int64
	defineObject(h, "ball", func(self *script.Record) {
		self.Set("speed", script.Int(1))
		self.Set("start", hook(func(s script.Value) error {
			startSpeed, _ = s.Field("speed").Int()
			return nil
		}))
	})
	tg := newTestGame(t, h, nil)

	o, err := tg.Spawn("ball", script.RecordOf("speed", script.Int(9), "x", script.Int(4)))
	if err != nil {
		t.Fatal(err)
	}
	if id, _ := o.Value.Field("id").Int(); id != 0 || o.ID != 0 {
		t.Errorf("id = %d, want 0", id)
	}
	if typ, _ := o.Value.Field("type").Str(); typ != "ball" {
		t.Errorf("type = %q, want ball", typ)
	}
	if d := o.Value.Field("depth"); d.Kind() != script.KindFloat {
		t.Errorf("depth kind = %v, want float", d.Kind())
	}
	if startSpeed != 1 {
		t.Errorf("start saw speed %d, want the script default 1", startSpeed)
	}
	if s, _ := o.Value.Field("speed").Int(); s != 9 {
		t.Errorf("speed = %d, want 9 from fields", s)
	}
	if got, ok := tg.Object(0); !ok || got != o {
		t.Error("spawned object not registered")
	}
}

func TestSpawn_StartFailureLogged(t *testing.T) {
	h := script.NewNativeHost()
	defineObject(h, "bad", func(self *script.Record) {
		self.Set("start", hook(func(script.Value) error { return errors.New("kaput") }))
	})
	tg := newTestGame(t, h, nil)

	o, err := tg.Spawn("bad", nil)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if _, ok := tg.Object(o.ID); !ok {
		t.Error("object should remain spawned")
	}
	entries := tg.errorEntries()
	if len(entries) != 1 {
		t.Fatalf("error entries = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.Data["hook"] != HookStart || e.Data["type"] != "bad" || e.Data["id"] != int64(0) {
		t.Errorf("entry fields = %v", e.Data)
	}
}

func TestSpawn_FailureConsumesID(t *testing.T) {
	h := script.NewNativeHost()
	defineObject(h, "ok", nil)
	h.DefineValue(objectsDir, "num", script.Int(5))
	tg := newTestGame(t, h, nil)

	if _, err := tg.Spawn("missing", nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	_, err := tg.Spawn("num", nil)
	var se *SchemaError
	if !errors.As(err, &se) || se.Resource != "object [1]:num" {
		t.Errorf("err = %v, want SchemaError on object [1]:num", err)
	}
	o, err := tg.Spawn("ok", nil)
	if err != nil {
		t.Fatal(err)
	}
	if o.ID != 2 {
		t.Errorf("ID = %d, want 2", o.ID)
	}
}

func TestDispatch_PanicIsolated(t *testing.T) {
	h := script.NewNativeHost()
	updates := 0
	defineObject(h, "panicky", func(self *script.Record) {
		self.Set("update", hook(func(script.Value) error { panic("nil deref") }))
	})
	defineObject(h, "steady", func(self *script.Record) {
		self.Set("update", hook(func(script.Value) error { updates++; return nil }))
	})
	defineRoom(h, StartRoom, spawn("panicky"), spawn("steady"))
	tg := newTestGame(t, h, nil)

	if err := tg.Update(); err != nil {
		t.Fatal(err)
	}
	if updates != 1 {
		t.Errorf("steady updates = %d, want 1", updates)
	}
	if n := len(tg.errorEntries()); n != 1 {
		t.Errorf("error entries = %d, want 1", n)
	}
}

func TestRemove_RunsCleanup(t *testing.T) {
	h := script.NewNativeHost()
	cleaned := 0
	defineObject(h, "temp", func(self *script.Record) {
		self.Set("cleanup", hook(func(script.Value) error { cleaned++; return nil }))
	})
	defineRoom(h, StartRoom, spawn("temp"))
	tg := newTestGame(t, h, nil)

	if !tg.Remove(0) {
		t.Fatal("Remove(0) = false")
	}
	if cleaned != 1 {
		t.Errorf("cleanup calls = %d, want 1", cleaned)
	}
	if tg.Remove(0) {
		t.Error("second Remove should fail")
	}
}

func TestRemove_CleanupRemovingSelfRunsOnce(t *testing.T) {
	h := script.NewNativeHost()
	cleaned := 0
	var tg *testGame
	defineObject(h, "temp", func(self *script.Record) {
		self.Set("cleanup", hook(func(script.Value) error {
			cleaned++
			if cleaned > 5 {
				return nil
			}
			return tg.global("objects").SetField("0", script.Nil)
		}))
	})
	defineRoom(h, StartRoom, spawn("temp"))
	tg = newTestGame(t, h, nil)

	if !tg.Remove(0) {
		t.Fatal("Remove(0) = false")
	}
	if cleaned != 1 {
		t.Errorf("cleanup calls = %d, want 1", cleaned)
	}
}

func TestRemove_MutualCleanupRunsEachOnce(t *testing.T) {
	h := script.NewNativeHost()
	calls := map[int64]int{}
	var tg *testGame
	defineObject(h, "pair", func(self *script.Record) {
		self.Set("cleanup", hook(func(s script.Value) error {
			id, _ := s.Field("id").Int()
			calls[id]++
			if calls[id] > 5 {
				return nil
			}
			other := "1"
			if id == 1 {
				other = "0"
			}
			return tg.global("objects").SetField(other, script.Nil)
		}))
	})
	defineRoom(h, StartRoom, spawn("pair"), spawn("pair"))
	tg = newTestGame(t, h, nil)

	if !tg.Remove(0) {
		t.Fatal("Remove(0) = false")
	}
	if diff := cmp.Diff(map[int64]int{0: 1, 1: 1}, calls); diff != "" {
		t.Errorf("cleanup calls mismatch (-want +got):\n%s", diff)
	}
	if tg.Objects().Live() != 0 {
		t.Errorf("live = %d, want 0", tg.Objects().Live())
	}
}

func TestChangeRoom_CleanupRemovingOtherRunsOnce(t *testing.T) {
	h := script.NewNativeHost()
	calls := map[int64]int{}
	var tg *testGame
	defineObject(h, "pair", func(self *script.Record) {
		self.Set("cleanup", hook(func(s script.Value) error {
			id, _ := s.Field("id").Int()
			calls[id]++
			return tg.global("objects").SetField("1", script.Nil)
		}))
	})
	defineRoom(h, StartRoom, spawn("pair"), spawn("pair"))
	defineRoom(h, "next")
	tg = newTestGame(t, h, nil)

	if err := tg.ChangeRoom("next"); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[int64]int{0: 1, 1: 1}, calls); diff != "" {
		t.Errorf("cleanup calls mismatch (-want +got):\n%s", diff)
	}
}
