package sapling

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// fade is the black overlay faded out after each room change. A zero
// duration disables it.
type fade struct {
	duration float32
	tween    *gween.Tween
	value    float32
	done     bool
}

func newFade(seconds float64) *fade {
	return &fade{duration: float32(seconds), done: true}
}

// restart begins a new fade from opaque.
func (f *fade) restart() {
	if f.duration <= 0 {
		return
	}
	f.tween = gween.New(255, 0, f.duration, ease.OutQuad)
	f.value = 255
	f.done = false
}

// update advances the fade by dt seconds.
func (f *fade) update(dt float32) {
	if f.done {
		return
	}
	val, finished := f.tween.Update(dt)
	f.value = val
	f.done = finished
}

// alpha is the current overlay opacity.
func (f *fade) alpha() uint8 {
	if f.done {
		return 0
	}
	switch {
	case f.value <= 0:
		return 0
	case f.value >= 255:
		return 255
	}
	return uint8(f.value)
}
