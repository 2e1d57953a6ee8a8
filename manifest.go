package sapling

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ManifestFile is the manifest's file name inside a project directory.
const ManifestFile = "manifest.yaml"

// Manifest is the project configuration.
type Manifest struct {
	Title      string     `yaml:"title"`
	Resolution Resolution `yaml:"resolution"`
	Path       Paths      `yaml:"path"`
	// Init names an optional script, relative to the project directory,
	// run once before the first room.
	Init  string  `yaml:"init,omitempty"`
	TPS   int     `yaml:"tps,omitempty"`
	Fade  float64 `yaml:"fade,omitempty"` // seconds
	Debug bool    `yaml:"debug,omitempty"`

	// Dir is the project directory. Not serialized.
	Dir string `yaml:"-"`
}

// Resolution is the logical screen size and the initial window scale.
type Resolution struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Scale  int `yaml:"scale"`
}

// Paths are the asset directories, relative to the project directory.
type Paths struct {
	Objects string `yaml:"objects"`
	Rooms   string `yaml:"rooms"`
	Sprites string `yaml:"sprites"`
}

const defaultTPS = 60

// DefaultManifest returns the manifest written for new projects.
func DefaultManifest() *Manifest {
	return &Manifest{
		Title:      "solumicro",
		Resolution: Resolution{Width: 160, Height: 144, Scale: 3},
		Path:       Paths{Objects: "scripts", Rooms: "rooms", Sprites: "sprites"},
	}
}

// LoadManifest reads dir/manifest.yaml, writing the defaults first when the
// file does not exist. Unknown keys are rejected.
func LoadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		m := DefaultManifest()
		if data, err = yaml.Marshal(m); err != nil {
			return nil, &ManifestError{Path: path, Err: err}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, &ManifestError{Path: path, Err: err}
		}
	} else if err != nil {
		return nil, &ManifestError{Path: path, Err: err}
	}

	m := &Manifest{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(m); err != nil {
		return nil, &ManifestError{Path: path, Err: err}
	}
	m.Dir = dir
	if err := m.Validate(); err != nil {
		return nil, &ManifestError{Path: path, Err: err}
	}
	return m, nil
}

// Validate checks required fields and fills optional ones.
func (m *Manifest) Validate() error {
	switch {
	case m.Title == "":
		return errors.New("title: expected non-empty string")
	case m.Resolution.Width <= 0 || m.Resolution.Height <= 0:
		return errors.Errorf("resolution: expected positive size, got %dx%d",
			m.Resolution.Width, m.Resolution.Height)
	case m.Resolution.Scale <= 0:
		return errors.Errorf("resolution.scale: expected positive integer, got %d", m.Resolution.Scale)
	case m.Path.Objects == "" || m.Path.Rooms == "" || m.Path.Sprites == "":
		return errors.New("path: expected objects, rooms and sprites")
	case m.TPS < 0:
		return errors.Errorf("tps: expected non-negative integer, got %d", m.TPS)
	case m.Fade < 0:
		return errors.Errorf("fade: expected non-negative seconds, got %g", m.Fade)
	}
	if m.TPS == 0 {
		m.TPS = defaultTPS
	}
	return nil
}

// ObjectsDir returns the object script directory.
func (m *Manifest) ObjectsDir() string { return filepath.Join(m.Dir, m.Path.Objects) }

// RoomsDir returns the room directory.
func (m *Manifest) RoomsDir() string { return filepath.Join(m.Dir, m.Path.Rooms) }

// SpritesDir returns the sprite directory.
func (m *Manifest) SpritesDir() string { return filepath.Join(m.Dir, m.Path.Sprites) }

// Prepare creates the asset directories and, when the room directory has
// no start room, writes startFile with template.
func (m *Manifest) Prepare(startFile, template string) error {
	for _, d := range []string{m.ObjectsDir(), m.RoomsDir(), m.SpritesDir()} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return errors.Wrapf(err, "sapling: create %s", d)
		}
	}
	if startFile == "" || template == "" {
		return nil
	}
	p := filepath.Join(m.RoomsDir(), startFile)
	if _, err := os.Stat(p); err == nil {
		return nil
	}
	return errors.Wrapf(os.WriteFile(p, []byte(template), 0o644), "sapling: write %s", p)
}
