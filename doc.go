// Package sapling is the runtime core of a small script-driven 2D engine
// built on [Ebitengine].
//
// A project is a directory with a manifest.yaml and three asset
// directories: object scripts, rooms and sprites. Each tick the engine
// runs every object's update hook, syncs the script camera, depth-sorts
// the live objects and runs their draw and draw_gui hooks into an
// offscreen image presented letterboxed in the window.
//
// # Quick start
//
//	host := luahost.New()
//	g, err := sapling.New(sapling.Config{
//		Dir:               "mygame",
//		Host:              host,
//		Backend:           sapling.EbitenBackend{},
//		StartRoomFile:     "start" + luahost.Ext,
//		StartRoomTemplate: luahost.StartRoom,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := sapling.Run(g, sapling.RunConfig{}); err != nil {
//		log.Fatal(err)
//	}
//
// The sapling command does the same for a directory given on the command
// line; examples/bounce is a rect-only project to try it on:
//
//	go run ./cmd/sapling examples/bounce
//
// # Scripts
//
// Object, room and sprite files are scripts evaluated by a [script.Host].
// An object script returns a record whose optional start, update, draw,
// draw_gui and cleanup functions are called with the object itself. A room
// returns a name, a spawns list of records with a type field, and an
// optional start function. A sprite returns a source image and either an
// explicit frames list or an auto-tile descriptor, see [SpriteLoader].
//
// Scripts see these globals: load (sprite, object), draw (sprite, rect),
// input (key_down, key_pressed, key_released), key, game, camera and
// objects.
//
// # Rooms
//
// Setting game.room from a hook defers the change until the current hook
// returns. The rest of that tick's update pass is skipped and nothing is
// drawn; the next tick runs the new room's objects, numbered from 0.
//
// [Ebitengine]: https://ebitengine.org
package sapling
