package sapling

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pkg/errors"
)

func TestLoadManifest_WritesDefaults(t *testing.T) {
	dir := t.TempDir()
	m, err := LoadManifest(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultManifest()
	want.TPS = defaultTPS
	want.Dir = dir
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("manifest mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(filepath.Join(dir, ManifestFile)); err != nil {
		t.Errorf("manifest not written: %v", err)
	}

	again, err := LoadManifest(dir)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(m, again); diff != "" {
		t.Errorf("reloaded manifest differs (-first +second):\n%s", diff)
	}
}

func TestLoadManifest_Fields(t *testing.T) {
	dir := t.TempDir()
	src := `title: Bounce
resolution: {width: 320, height: 240, scale: 2}
path: {objects: obj, rooms: lvl, sprites: gfx}
init: init
tps: 30
fade: 0.25
`
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := LoadManifest(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := &Manifest{
		Title:      "Bounce",
		Resolution: Resolution{Width: 320, Height: 240, Scale: 2},
		Path:       Paths{Objects: "obj", Rooms: "lvl", Sprites: "gfx"},
		Init:       "init",
		TPS:        30,
		Fade:       0.25,
	}
	if diff := cmp.Diff(want, m, cmpopts.IgnoreFields(Manifest{}, "Dir")); diff != "" {
		t.Errorf("manifest mismatch (-want +got):\n%s", diff)
	}
	if m.RoomsDir() != filepath.Join(dir, "lvl") {
		t.Errorf("RoomsDir = %q", m.RoomsDir())
	}
}

func TestLoadManifest_RejectsUnknownField(t *testing.T) {
	dir := t.TempDir()
	src := "title: x\nresolution: {width: 1, height: 1, scale: 1}\nvsync: true\n"
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadManifest(dir)
	var me *ManifestError
	if !errors.As(err, &me) {
		t.Fatalf("err = %v, want ManifestError", err)
	}
	if !strings.Contains(err.Error(), "vsync") {
		t.Errorf("err = %v, want it to name the field", err)
	}
}

func TestManifest_Validate(t *testing.T) {
	for _, tc := range []struct {
		name string
		edit func(*Manifest)
		want string
	}{
		{"empty title", func(m *Manifest) { m.Title = "" }, "title"},
		{"zero width", func(m *Manifest) { m.Resolution.Width = 0 }, "resolution"},
		{"zero scale", func(m *Manifest) { m.Resolution.Scale = 0 }, "resolution.scale"},
		{"missing path", func(m *Manifest) { m.Path.Sprites = "" }, "path"},
		{"negative tps", func(m *Manifest) { m.TPS = -1 }, "tps"},
		{"negative fade", func(m *Manifest) { m.Fade = -1 }, "fade"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			m := DefaultManifest()
			tc.edit(m)
			err := m.Validate()
			if err == nil || !strings.HasPrefix(err.Error(), tc.want) {
				t.Errorf("err = %v, want prefix %q", err, tc.want)
			}
		})
	}

	m := DefaultManifest()
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	if m.TPS != defaultTPS {
		t.Errorf("TPS = %d, want %d", m.TPS, defaultTPS)
	}
}

func TestManifest_Prepare(t *testing.T) {
	m := DefaultManifest()
	m.Dir = t.TempDir()
	if err := m.Prepare("start.lua", "return {}\n"); err != nil {
		t.Fatal(err)
	}
	for _, d := range []string{m.ObjectsDir(), m.RoomsDir(), m.SpritesDir()} {
		if st, err := os.Stat(d); err != nil || !st.IsDir() {
			t.Errorf("%s not created", d)
		}
	}
	p := filepath.Join(m.RoomsDir(), "start.lua")
	data, err := os.ReadFile(p)
	if err != nil || string(data) != "return {}\n" {
		t.Fatalf("start room = %q, %v", data, err)
	}

	if err := os.WriteFile(p, []byte("custom"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := m.Prepare("start.lua", "return {}\n"); err != nil {
		t.Fatal(err)
	}
	if data, _ := os.ReadFile(p); string(data) != "custom" {
		t.Errorf("existing start room overwritten: %q", data)
	}
}
