package sapling

// Texture is a GPU image owned by exactly one SpriteSheet.
type Texture interface {
	Size() (width, height int)
	Dispose()
}

// TextureLoader decodes image files into textures with pixel-art sampling.
type TextureLoader interface {
	LoadTexture(path string) (Texture, error)
}

// SpriteDraw is one draw.sprite call, already resolved to a frame and
// shifted by the camera.
type SpriteDraw struct {
	Sheet    *SpriteSheet
	Frame    FrameRect
	X, Y     float64
	Rotation float64 // degrees, clockwise
	Scale    Vec2    // negative components flip the source
	Color    Color
}

// Renderer receives draw calls for the current frame.
type Renderer interface {
	DrawSprite(d SpriteDraw)
	DrawRect(x, y, w, h float64, c Color)
}

// Input reports keyboard state for the current tick.
type Input interface {
	KeyDown(code int) bool
	KeyPressed(code int) bool
	KeyReleased(code int) bool
}

// Window is the host window.
type Window interface {
	ShouldClose() bool
	SetTitle(title string)
}

// Backend bundles what the engine needs from the platform outside of a
// draw pass.
type Backend interface {
	TextureLoader
	Input
	Window
}
