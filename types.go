package sapling

import "image/color"

// Color is an 8-bit RGBA color. Not premultiplied.
type Color struct {
	R, G, B, A uint8
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{255, 255, 255, 255}

// toRGBA converts c to a premultiplied color.RGBA for the backend.
func (c Color) toRGBA() color.RGBA {
	a := uint16(c.A)
	return color.RGBA{
		R: uint8(uint16(c.R) * a / 255),
		G: uint8(uint16(c.G) * a / 255),
		B: uint8(uint16(c.B) * a / 255),
		A: c.A,
	}
}

// Point is a signed pixel offset, used for frame pivots.
type Point struct {
	X, Y int32
}

// Size is a width/height pair in pixels.
type Size struct {
	Width, Height int
}

// Vec2 is a 2D vector used for positions and scales.
type Vec2 struct {
	X, Y float64
}

// FrameRect is one source rectangle of a sprite sheet. Origin is the pivot
// relative to the rectangle's top-left corner.
type FrameRect struct {
	X, Y          uint32
	Width, Height uint32
	Origin        Point
}

// Sampling selects how a texture is filtered and wrapped.
type Sampling uint8

const (
	// SamplingPixelArt is nearest-neighbor filtering with clamped edges.
	SamplingPixelArt Sampling = iota
	// SamplingSmooth is bilinear filtering. Sprite descriptors never
	// select it; Go code may set it on a loaded sheet.
	SamplingSmooth
)

// Camera is the engine-side copy of the script camera.
type Camera struct {
	X, Y float64
}

// drawPass identifies which hook the scheduler is dispatching.
type drawPass uint8

const (
	passNone  drawPass = iota // not drawing
	passWorld                 // draw, camera-relative
	passGUI                   // draw_gui, screen-space
)
