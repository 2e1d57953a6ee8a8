package sapling

import "github.com/hajimehoshi/ebiten/v2"

// keyCodes maps the names in the script key table to ebiten key codes.
var keyCodes = map[string]ebiten.Key{
	"a":             ebiten.KeyA,
	"b":             ebiten.KeyB,
	"c":             ebiten.KeyC,
	"d":             ebiten.KeyD,
	"e":             ebiten.KeyE,
	"f":             ebiten.KeyF,
	"g":             ebiten.KeyG,
	"h":             ebiten.KeyH,
	"i":             ebiten.KeyI,
	"j":             ebiten.KeyJ,
	"k":             ebiten.KeyK,
	"l":             ebiten.KeyL,
	"m":             ebiten.KeyM,
	"n":             ebiten.KeyN,
	"o":             ebiten.KeyO,
	"p":             ebiten.KeyP,
	"q":             ebiten.KeyQ,
	"r":             ebiten.KeyR,
	"s":             ebiten.KeyS,
	"t":             ebiten.KeyT,
	"u":             ebiten.KeyU,
	"v":             ebiten.KeyV,
	"w":             ebiten.KeyW,
	"x":             ebiten.KeyX,
	"y":             ebiten.KeyY,
	"z":             ebiten.KeyZ,
	"zero":          ebiten.KeyDigit0,
	"one":           ebiten.KeyDigit1,
	"two":           ebiten.KeyDigit2,
	"three":         ebiten.KeyDigit3,
	"four":          ebiten.KeyDigit4,
	"five":          ebiten.KeyDigit5,
	"six":           ebiten.KeyDigit6,
	"seven":         ebiten.KeyDigit7,
	"eight":         ebiten.KeyDigit8,
	"nine":          ebiten.KeyDigit9,
	"equal":         ebiten.KeyEqual,
	"minus":         ebiten.KeyMinus,
	"f1":            ebiten.KeyF1,
	"f2":            ebiten.KeyF2,
	"f3":            ebiten.KeyF3,
	"f4":            ebiten.KeyF4,
	"f5":            ebiten.KeyF5,
	"f6":            ebiten.KeyF6,
	"f7":            ebiten.KeyF7,
	"f8":            ebiten.KeyF8,
	"f9":            ebiten.KeyF9,
	"f10":           ebiten.KeyF10,
	"f11":           ebiten.KeyF11,
	"f12":           ebiten.KeyF12,
	"space":         ebiten.KeySpace,
	"enter":         ebiten.KeyEnter,
	"tab":           ebiten.KeyTab,
	"backspace":     ebiten.KeyBackspace,
	"escape":        ebiten.KeyEscape,
	"insert":        ebiten.KeyInsert,
	"delete":        ebiten.KeyDelete,
	"home":          ebiten.KeyHome,
	"end":           ebiten.KeyEnd,
	"page_up":       ebiten.KeyPageUp,
	"page_down":     ebiten.KeyPageDown,
	"right":         ebiten.KeyArrowRight,
	"left":          ebiten.KeyArrowLeft,
	"down":          ebiten.KeyArrowDown,
	"up":            ebiten.KeyArrowUp,
	"left_shift":    ebiten.KeyShiftLeft,
	"right_shift":   ebiten.KeyShiftRight,
	"left_control":  ebiten.KeyControlLeft,
	"right_control": ebiten.KeyControlRight,
	"left_alt":      ebiten.KeyAltLeft,
	"right_alt":     ebiten.KeyAltRight,
	"left_super":    ebiten.KeyMetaLeft,
	"right_super":   ebiten.KeyMetaRight,
	"caps_lock":     ebiten.KeyCapsLock,
	"scroll_lock":   ebiten.KeyScrollLock,
	"num_lock":      ebiten.KeyNumLock,
	"print_screen":  ebiten.KeyPrintScreen,
	"pause":         ebiten.KeyPause,
	"kp_0":          ebiten.KeyNumpad0,
	"kp_1":          ebiten.KeyNumpad1,
	"kp_2":          ebiten.KeyNumpad2,
	"kp_3":          ebiten.KeyNumpad3,
	"kp_4":          ebiten.KeyNumpad4,
	"kp_5":          ebiten.KeyNumpad5,
	"kp_6":          ebiten.KeyNumpad6,
	"kp_7":          ebiten.KeyNumpad7,
	"kp_8":          ebiten.KeyNumpad8,
	"kp_9":          ebiten.KeyNumpad9,
	"kp_decimal":    ebiten.KeyNumpadDecimal,
	"kp_divide":     ebiten.KeyNumpadDivide,
	"kp_multiply":   ebiten.KeyNumpadMultiply,
	"kp_subtract":   ebiten.KeyNumpadSubtract,
	"kp_add":        ebiten.KeyNumpadAdd,
	"kp_enter":      ebiten.KeyNumpadEnter,
	"kp_equal":      ebiten.KeyNumpadEqual,
}
