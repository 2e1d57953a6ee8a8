package sapling

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/phanxgames/sapling/script"
)

// SpriteSheet is a texture plus its ordered frame table. It owns the
// texture; sheets are shared through the SpriteCache and never copied.
type SpriteSheet struct {
	Name     string
	Texture  Texture
	Size     Size
	Sampling Sampling
	frames   []FrameRect
}

// Frames returns the number of frames. Always at least one.
func (s *SpriteSheet) Frames() int { return len(s.frames) }

// Frame returns frame i.
func (s *SpriteSheet) Frame(i int) (FrameRect, bool) {
	if i < 0 || i >= len(s.frames) {
		return FrameRect{}, false
	}
	return s.frames[i], true
}

func (s *SpriteSheet) dispose() {
	if s.Texture != nil {
		s.Texture.Dispose()
		s.Texture = nil
	}
	s.frames = nil
}

// SpriteLoader parses sprite definitions found under Dir.
//
// A definition is a script returning an object with a string source and
// either an explicit frames list or an auto-tile descriptor:
//
//	return { source = "hero.png", frames = { {0, 0, 16, 16, origin = {8, 8}, repeat = 2} } }
//	return { source = "tiles.png", auto = { rect = {16, 16}, exclude = 3 } }
//
// A non-empty frames list takes precedence over auto.
type SpriteLoader struct {
	Host     script.Host
	Dir      string
	Textures TextureLoader
	Log      *logrus.Entry
}

// Load resolves, executes and validates the sprite called name.
func (l *SpriteLoader) Load(name string) (*SpriteSheet, error) {
	path, err := l.Host.Find(l.Dir, name)
	if err != nil {
		return nil, errors.Wrapf(err, "sapling: sprite %q", name)
	}
	v, err := l.Host.ExecFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "sapling: sprite %q", name)
	}
	res := fmt.Sprintf("sprite %q", name)
	def := v.Object()
	if def == nil {
		return nil, schemaError(res, "", "object", v)
	}

	frames := def.Field("frames").Object()
	if frames != nil && frames.Len() == 0 {
		frames = nil
	}
	auto := def.Field("auto").Object()
	if frames == nil && auto == nil {
		return nil, &SchemaError{Resource: res, Field: "frames|auto",
			Expected: "non-empty frames list or auto object", Got: "neither"}
	}

	srcVal := def.Field("source")
	src, ok := srcVal.Str()
	if !ok {
		return nil, schemaError(res, "source", "string", srcVal)
	}
	srcPath := filepath.Join(l.Dir, src)
	tex, err := l.Textures.LoadTexture(srcPath)
	if err != nil {
		return nil, &SourceLoadError{Sprite: name, Source: src, Err: err}
	}
	w, h := tex.Size()
	sheet := &SpriteSheet{
		Name:     name,
		Texture:  tex,
		Size:     Size{Width: w, Height: h},
		Sampling: SamplingPixelArt,
	}

	if frames != nil {
		sheet.frames, err = explicitFrames(res, frames)
	} else {
		sheet.frames, err = autoFrames(res, auto, w, h)
	}
	if err != nil {
		sheet.dispose()
		return nil, err
	}

	if l.Log != nil {
		l.Log.WithFields(logrus.Fields{
			"sprite": name,
			"frames": len(sheet.frames),
			"size":   fmt.Sprintf("%dx%d", w, h),
			"vram":   humanize.IBytes(uint64(w) * uint64(h) * 4),
		}).Debug("sprite loaded")
	}
	return sheet, nil
}

func explicitFrames(res string, list script.Object) ([]FrameRect, error) {
	out := make([]FrameRect, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		field := fmt.Sprintf("frames[%d]", i)
		fv := list.Index(i)
		rect := fv.Object()
		if rect == nil || rect.Len() < 4 {
			return nil, schemaError(res, field, "list of 4 integers", fv)
		}
		var xywh [4]uint32
		for k := 0; k < 4; k++ {
			n, ok := rect.Index(k).Int()
			if !ok || n < 0 || n > int64(^uint32(0)) {
				return nil, schemaError(res, fmt.Sprintf("%s[%d]", field, k), "non-negative integer", rect.Index(k))
			}
			xywh[k] = uint32(n)
		}
		origin, err := originOf(res, field+".origin", rect.Field("origin"))
		if err != nil {
			return nil, err
		}
		repeat, err := repeatOf(res, field+".repeat", rect.Field("repeat"))
		if err != nil {
			return nil, err
		}
		r := FrameRect{X: xywh[0], Y: xywh[1], Width: xywh[2], Height: xywh[3], Origin: origin}
		for j := 0; j <= repeat; j++ {
			out = append(out, r)
		}
	}
	return out, nil
}

func autoFrames(res string, auto script.Object, texW, texH int) ([]FrameRect, error) {
	rv := auto.Field("rect")
	fw, fh, ok := intPair(rv)
	if !ok {
		return nil, schemaError(res, "auto.rect", "list of 2 integers", rv)
	}
	if fw <= 0 || int64(texW)%fw != 0 {
		return nil, &SchemaError{Resource: res, Field: "auto.rect[0]",
			Expected: fmt.Sprintf("width dividing %d", texW), Got: fmt.Sprint(fw)}
	}
	if fh <= 0 || int64(texH)%fh != 0 {
		return nil, &SchemaError{Resource: res, Field: "auto.rect[1]",
			Expected: fmt.Sprintf("height dividing %d", texH), Got: fmt.Sprint(fh)}
	}
	origin, err := originOf(res, "auto.origin", auto.Field("origin"))
	if err != nil {
		return nil, err
	}
	cols, rows := texW/int(fw), texH/int(fh)

	exclude := 0
	if ev := auto.Field("exclude"); !ev.IsNil() {
		n, ok := ev.Int()
		if !ok || n < 0 || n > int64(cols) {
			return nil, schemaError(res, "auto.exclude", fmt.Sprintf("integer in [0, %d]", cols), ev)
		}
		exclude = int(n)
	}
	repeat, err := repeatOf(res, "auto.repeat", auto.Field("repeat"))
	if err != nil {
		return nil, err
	}

	n := (cols*rows - exclude) * (1 + repeat)
	if n <= 0 {
		return nil, &SchemaError{Resource: res, Field: "auto",
			Expected: "at least one frame", Got: "0"}
	}
	out := make([]FrameRect, 0, n)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if y == rows-1 && x >= cols-exclude {
				break
			}
			r := FrameRect{
				X: uint32(x) * uint32(fw), Y: uint32(y) * uint32(fh),
				Width: uint32(fw), Height: uint32(fh),
				Origin: origin,
			}
			for j := 0; j <= repeat; j++ {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

// intPair reads a list whose first two items are integers.
func intPair(v script.Value) (a, b int64, ok bool) {
	o := v.Object()
	if o == nil || o.Len() < 2 {
		return 0, 0, false
	}
	a, okA := o.Index(0).Int()
	b, okB := o.Index(1).Int()
	return a, b, okA && okB
}

func originOf(res, field string, v script.Value) (Point, error) {
	if v.IsNil() {
		return Point{}, nil
	}
	x, y, ok := intPair(v)
	if !ok || x < -1<<31 || x > 1<<31-1 || y < -1<<31 || y > 1<<31-1 {
		return Point{}, schemaError(res, field, "list of 2 integers", v)
	}
	return Point{X: int32(x), Y: int32(y)}, nil
}

func repeatOf(res, field string, v script.Value) (int, error) {
	if v.IsNil() {
		return 0, nil
	}
	n, ok := v.Int()
	if !ok || n < 0 || n > maxRepeat {
		return 0, schemaError(res, field, "non-negative integer", v)
	}
	return int(n), nil
}

const maxRepeat = 1 << 16
