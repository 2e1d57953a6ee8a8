package sapling

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/pkg/errors"
)

// EbitenBackend is the Backend for a real ebiten window.
type EbitenBackend struct{}

var _ Backend = EbitenBackend{}

type ebitenTexture struct {
	img *ebiten.Image
}

func (t *ebitenTexture) Size() (int, int) {
	b := t.img.Bounds()
	return b.Dx(), b.Dy()
}

func (t *ebitenTexture) Dispose() { t.img.Deallocate() }

// LoadTexture decodes a PNG, JPEG or GIF file.
func (EbitenBackend) LoadTexture(path string) (Texture, error) {
	img, _, err := ebitenutil.NewImageFromFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return &ebitenTexture{img: img}, nil
}

func (EbitenBackend) KeyDown(code int) bool     { return ebiten.IsKeyPressed(ebiten.Key(code)) }
func (EbitenBackend) KeyPressed(code int) bool  { return inpututil.IsKeyJustPressed(ebiten.Key(code)) }
func (EbitenBackend) KeyReleased(code int) bool { return inpututil.IsKeyJustReleased(ebiten.Key(code)) }
func (EbitenBackend) ShouldClose() bool         { return ebiten.IsWindowBeingClosed() }
func (EbitenBackend) SetTitle(title string)     { ebiten.SetWindowTitle(title) }

// filter is the ebiten filter for s. Unknown values fall back to nearest.
func (s Sampling) filter() ebiten.Filter {
	if s == SamplingSmooth {
		return ebiten.FilterLinear
	}
	return ebiten.FilterNearest
}

// imageRenderer draws into an ebiten image using each sheet's sampling.
type imageRenderer struct {
	dst *ebiten.Image
}

// DrawSprite places the frame so its origin, scaled by |scale|, lands on
// (X, Y); rotation is about that point. Negative scale flips the source.
func (r imageRenderer) DrawSprite(d SpriteDraw) {
	tex, ok := d.Sheet.Texture.(*ebitenTexture)
	if !ok {
		return
	}
	f := d.Frame
	src := tex.img.SubImage(image.Rect(int(f.X), int(f.Y), int(f.X+f.Width), int(f.Y+f.Height))).(*ebiten.Image)

	var op ebiten.DrawImageOptions
	op.Filter = d.Sheet.Sampling.filter()
	w, h := float64(f.Width), float64(f.Height)
	if d.Scale.X < 0 {
		op.GeoM.Scale(-1, 1)
		op.GeoM.Translate(w, 0)
	}
	if d.Scale.Y < 0 {
		op.GeoM.Scale(1, -1)
		op.GeoM.Translate(0, h)
	}
	sx, sy := math.Abs(d.Scale.X), math.Abs(d.Scale.Y)
	op.GeoM.Scale(sx, sy)
	op.GeoM.Translate(-float64(f.Origin.X)*sx, -float64(f.Origin.Y)*sy)
	op.GeoM.Rotate(d.Rotation * math.Pi / 180)
	op.GeoM.Translate(math.Trunc(d.X), math.Trunc(d.Y))
	op.ColorScale.ScaleWithColor(d.Color.toRGBA())
	r.dst.DrawImage(src, &op)
}

func (r imageRenderer) DrawRect(x, y, w, h float64, c Color) {
	vector.DrawFilledRect(r.dst, float32(math.Trunc(x)), float32(math.Trunc(y)), float32(w), float32(h), c.toRGBA(), false)
}

// letterbox fits an inner size into an outer one, preserving aspect ratio
// and centering. It returns the scale and the top-left offset.
func letterbox(outerW, outerH, innerW, innerH int) (scale, offX, offY float64) {
	if innerW <= 0 || innerH <= 0 {
		return 1, 0, 0
	}
	scale = math.Min(float64(outerW)/float64(innerW), float64(outerH)/float64(innerH))
	offX = (float64(outerW) - float64(innerW)*scale) / 2
	offY = (float64(outerH) - float64(innerH)*scale) / 2
	return scale, offX, offY
}
