package sapling

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// TransitionState is the phase of a room change.
type TransitionState uint8

const (
	TransitionActive     TransitionState = iota // a room is current
	TransitionLoading                           // resolving and executing the room file
	TransitionValidating                        // checking name and spawns
	TransitionCommitting                        // replacing the table and spawning
)

func (s TransitionState) String() string {
	switch s {
	case TransitionActive:
		return "active"
	case TransitionLoading:
		return "loading"
	case TransitionValidating:
		return "validating"
	case TransitionCommitting:
		return "committing"
	}
	return fmt.Sprintf("TransitionState(%d)", uint8(s))
}

// ChangeRoom switches to the room called name. Called from inside a hook,
// an object script or another room change it only records the request,
// see RequestRoom. A request queued by the new room's scripts is applied
// by the next Update.
func (g *Game) ChangeRoom(name string) error {
	if g.inHook > 0 {
		g.RequestRoom(name)
		return nil
	}
	return g.changeRoom(name)
}

// RequestRoom defers a room change to the scheduler's next safe point.
// Requesting the current room cancels any pending request.
func (g *Game) RequestRoom(name string) {
	if name == g.roomName {
		g.pending, g.hasPending = "", false
		return
	}
	g.pending, g.hasPending = name, true
}

// Pending returns the deferred room request, if any.
func (g *Game) Pending() (string, bool) { return g.pending, g.hasPending }

func (g *Game) applyPending() {
	name := g.pending
	g.pending, g.hasPending = "", false
	if err := g.changeRoom(name); err != nil {
		g.log.WithError(err).WithField("room", name).Error("room change failed")
	}
}

func (g *Game) changeRoom(name string) error {
	if g.room != nil && name == g.roomName {
		return nil
	}
	// Scripts run while loading and committing only queue room requests.
	g.inHook++
	defer func() {
		g.inHook--
		g.state = TransitionActive
	}()

	g.state = TransitionLoading
	room, err := g.rooms.Load(name)
	if err != nil {
		return err
	}

	g.state = TransitionValidating
	if room.Spawns == nil {
		return &SchemaError{Resource: fmt.Sprintf("room %q", name), Field: "spawns", Expected: "object", Got: "nil"}
	}

	g.state = TransitionCommitting
	prev := g.roomName
	g.cleanupAll()
	g.table = NewObjectTable()
	g.entries = nil
	g.room = room
	g.roomName = name
	g.changed = true

	for i := 0; i < room.Spawns.Len(); i++ {
		def := room.Spawns.Index(i).Object()
		if def == nil {
			continue
		}
		typ, ok := def.Field("type").Str()
		if !ok {
			continue
		}
		if _, err := g.Spawn(typ, def); err != nil {
			g.log.WithField("room", name).Errorf("%v", err)
		}
	}

	if room.Start != nil {
		if err := g.call(room.Start); err != nil {
			g.roomName = prev
			g.log.WithFields(logrus.Fields{"room": name, "hook": HookStart}).
				Errorf("Room %s:start() error: %v", room.Name, err)
			return errors.Wrapf(err, "sapling: room %q start", name)
		}
	}

	g.fade.restart()
	g.log.WithFields(logrus.Fields{
		"room":    name,
		"from":    prev,
		"objects": g.table.Live(),
	}).Info("room changed")
	return nil
}
