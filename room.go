package sapling

import (
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/phanxgames/sapling/script"
)

// Room is a validated room definition. Rooms are cached for the whole
// session; objects are not part of a Room.
type Room struct {
	Name   string
	Path   string
	Spawns script.Object
	Start  script.Function // may be nil
}

// RoomLoader loads room definitions from Dir, executing each file at most
// once per session.
type RoomLoader struct {
	Host  script.Host
	Dir   string
	cache map[string]*Room
}

// NewRoomLoader returns a loader with an empty cache.
func NewRoomLoader(host script.Host, dir string) *RoomLoader {
	return &RoomLoader{Host: host, Dir: dir, cache: make(map[string]*Room)}
}

// Load returns the room called name. Invalid rooms are not cached, so a
// later Load executes the file again.
func (l *RoomLoader) Load(name string) (*Room, error) {
	path, err := l.Host.Find(l.Dir, name)
	if err != nil {
		return nil, errors.Wrapf(err, "sapling: room %q", name)
	}
	key, err := filepath.Abs(path)
	if err != nil {
		key = path
	}
	if r, ok := l.cache[key]; ok {
		return r, nil
	}

	v, err := l.Host.ExecFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "sapling: room %q", name)
	}
	r, err := validateRoom(fmt.Sprintf("room %q", name), v)
	if err != nil {
		return nil, err
	}
	r.Path = key
	l.cache[key] = r
	return r, nil
}

// Cached reports how many rooms are cached.
func (l *RoomLoader) Cached() int { return len(l.cache) }

func validateRoom(res string, v script.Value) (*Room, error) {
	def := v.Object()
	if def == nil {
		return nil, schemaError(res, "", "object", v)
	}
	nv := def.Field("name")
	name, ok := nv.Str()
	if !ok {
		return nil, schemaError(res, "name", "string", nv)
	}
	sv := def.Field("spawns")
	spawns := sv.Object()
	if spawns == nil {
		return nil, schemaError(res, "spawns", "object", sv)
	}
	r := &Room{Name: name, Spawns: spawns}
	if st := def.Field("start"); !st.IsNil() {
		r.Start = st.Function()
		if r.Start == nil {
			return nil, schemaError(res, "start", "function", st)
		}
	}
	return r, nil
}
