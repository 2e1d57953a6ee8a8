package sapling

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/phanxgames/sapling/script"
)

// StartRoom is the room every game begins in.
const StartRoom = "start"

// Config configures a Game.
type Config struct {
	// Dir is the project directory. Its manifest is loaded (and created
	// with defaults) unless Manifest is set.
	Dir string
	// Manifest, when non-nil, is used as is and nothing is written to disk.
	Manifest *Manifest
	// Host runs object, room and sprite scripts. Required.
	Host script.Host
	// Backend provides textures, input and the window. Required.
	Backend Backend
	// Logger defaults to NewLogger().
	Logger *logrus.Logger
	// StartRoomFile and StartRoomTemplate seed the room directory with a
	// start room when it has none. Both must be set to take effect.
	StartRoomFile     string
	StartRoomTemplate string
}

// Game is the runtime: one object table, the current room and the frame
// scheduler. All methods must be called from the game goroutine.
type Game struct {
	manifest *Manifest
	host     script.Host
	backend  Backend
	log      *logrus.Entry

	sprites *SpriteCache
	rooms   *RoomLoader

	table    *ObjectTable
	room     *Room
	roomName string
	state    TransitionState

	pending    string
	hasPending bool
	changed    bool // a transition committed during this tick
	inHook     int

	entries  []drawEntry
	drawable bool
	pass     drawPass
	renderer Renderer

	camera Camera
	title  string
	quit   bool
	closed bool

	fade  *fade
	stats *frameStats
}

// New bootstraps a game: manifest, script bindings, the optional init
// script and the start room. Any failure is fatal.
func New(cfg Config) (*Game, error) {
	if cfg.Host == nil || cfg.Backend == nil {
		return nil, errors.New("sapling: Config.Host and Config.Backend are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = NewLogger()
	}

	m := cfg.Manifest
	if m == nil {
		var err error
		if m, err = LoadManifest(cfg.Dir); err != nil {
			return nil, err
		}
		if err := m.Prepare(cfg.StartRoomFile, cfg.StartRoomTemplate); err != nil {
			return nil, err
		}
	} else if err := m.Validate(); err != nil {
		return nil, &ManifestError{Path: "(config)", Err: err}
	}

	log := sessionLog(logger)
	g := &Game{
		manifest: m,
		host:     cfg.Host,
		backend:  cfg.Backend,
		log:      log,
		table:    NewObjectTable(),
		title:    m.Title,
		fade:     newFade(m.Fade),
	}
	g.sprites = NewSpriteCache(&SpriteLoader{
		Host:     cfg.Host,
		Dir:      m.SpritesDir(),
		Textures: cfg.Backend,
		Log:      log,
	}, log)
	g.rooms = NewRoomLoader(cfg.Host, m.RoomsDir())
	if m.Debug {
		g.stats = newFrameStats(m.TPS)
	}

	g.bind()
	cfg.Backend.SetTitle(m.Title)

	if m.Init != "" {
		path, err := g.host.Find(m.Dir, m.Init)
		if err != nil {
			return nil, errors.Wrap(err, "sapling: init script")
		}
		if _, err := g.host.ExecFile(path); err != nil {
			return nil, errors.Wrap(err, "sapling: init script")
		}
	}
	if g.room == nil {
		if err := g.ChangeRoom(StartRoom); err != nil {
			return nil, err
		}
	}
	if g.hasPending {
		g.applyPending()
	}
	log.WithFields(logrus.Fields{
		"title": m.Title,
		"room":  g.roomName,
		"size":  m.Resolution,
	}).Info("game started")
	return g, nil
}

// Close unloads every sprite and closes the script host.
func (g *Game) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true
	g.sprites.Close()
	g.entries = nil
	return g.host.Close()
}

// Manifest returns the manifest the game was started with.
func (g *Game) Manifest() *Manifest { return g.manifest }

// Room returns the reported current room name.
func (g *Game) Room() string { return g.roomName }

// Camera returns the engine-side camera.
func (g *Game) Camera() Camera { return g.camera }

// State returns the transition state.
func (g *Game) State() TransitionState { return g.state }

// Title returns the window title.
func (g *Game) Title() string { return g.title }

// Sprites returns the sprite cache.
func (g *Game) Sprites() *SpriteCache { return g.sprites }

// Rooms returns the room loader.
func (g *Game) Rooms() *RoomLoader { return g.rooms }

// Quit asks the loop to stop at the next close check.
func (g *Game) Quit() { g.quit = true }

// SetTitle renames the window.
func (g *Game) SetTitle(title string) {
	g.title = title
	g.backend.SetTitle(title)
}

func (g *Game) closing() bool {
	return g.quit || g.closed || g.backend.ShouldClose()
}

// Size is the logical screen size.
func (g *Game) Size() Size {
	return Size{Width: g.manifest.Resolution.Width, Height: g.manifest.Resolution.Height}
}
