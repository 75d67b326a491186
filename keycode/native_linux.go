package keycode

import evdev "github.com/holoplot/go-evdev"

// nativeKeyTable maps evdev.EvCode key codes to cross-platform Key tags.
// Generalized from the teacher's KeyCharMap (evdev.EvCode -> character)
// into evdev.EvCode -> portable tag. Unmapped native codes are looked up
// via FromNative and silently dropped by the caller (§6 "unmapped
// native codes are discarded").
var nativeKeyTable = map[evdev.EvCode]Key{
	evdev.KEY_A: KeyA, evdev.KEY_B: KeyB, evdev.KEY_C: KeyC, evdev.KEY_D: KeyD,
	evdev.KEY_E: KeyE, evdev.KEY_F: KeyF, evdev.KEY_G: KeyG, evdev.KEY_H: KeyH,
	evdev.KEY_I: KeyI, evdev.KEY_J: KeyJ, evdev.KEY_K: KeyK, evdev.KEY_L: KeyL,
	evdev.KEY_M: KeyM, evdev.KEY_N: KeyN, evdev.KEY_O: KeyO, evdev.KEY_P: KeyP,
	evdev.KEY_Q: KeyQ, evdev.KEY_R: KeyR, evdev.KEY_S: KeyS, evdev.KEY_T: KeyT,
	evdev.KEY_U: KeyU, evdev.KEY_V: KeyV, evdev.KEY_W: KeyW, evdev.KEY_X: KeyX,
	evdev.KEY_Y: KeyY, evdev.KEY_Z: KeyZ,

	evdev.KEY_0: Key0, evdev.KEY_1: Key1, evdev.KEY_2: Key2, evdev.KEY_3: Key3,
	evdev.KEY_4: Key4, evdev.KEY_5: Key5, evdev.KEY_6: Key6, evdev.KEY_7: Key7,
	evdev.KEY_8: Key8, evdev.KEY_9: Key9,

	evdev.KEY_F1: KeyF1, evdev.KEY_F2: KeyF2, evdev.KEY_F3: KeyF3, evdev.KEY_F4: KeyF4,
	evdev.KEY_F5: KeyF5, evdev.KEY_F6: KeyF6, evdev.KEY_F7: KeyF7, evdev.KEY_F8: KeyF8,
	evdev.KEY_F9: KeyF9, evdev.KEY_F10: KeyF10, evdev.KEY_F11: KeyF11, evdev.KEY_F12: KeyF12,

	evdev.KEY_ESC: KeyEscape, evdev.KEY_TAB: KeyTab, evdev.KEY_CAPSLOCK: KeyCapsLock,
	evdev.KEY_LEFTSHIFT: KeyLeftShift, evdev.KEY_RIGHTSHIFT: KeyRightShift,
	evdev.KEY_LEFTCTRL: KeyLeftControl, evdev.KEY_RIGHTCTRL: KeyRightControl,
	evdev.KEY_LEFTALT: KeyLeftAlt, evdev.KEY_RIGHTALT: KeyRightAlt,
	evdev.KEY_LEFTMETA: KeyLeftMeta, evdev.KEY_RIGHTMETA: KeyRightMeta,
	evdev.KEY_SPACE: KeySpace, evdev.KEY_ENTER: KeyEnter, evdev.KEY_BACKSPACE: KeyBackspace,
	evdev.KEY_MENU: KeyMenu,

	evdev.KEY_MINUS: KeyMinus, evdev.KEY_EQUAL: KeyEqual,
	evdev.KEY_LEFTBRACE: KeyLeftBracket, evdev.KEY_RIGHTBRACE: KeyRightBracket,
	evdev.KEY_SEMICOLON: KeySemicolon, evdev.KEY_APOSTROPHE: KeyApostrophe,
	evdev.KEY_GRAVE: KeyGrave, evdev.KEY_BACKSLASH: KeyBackslash,
	evdev.KEY_COMMA: KeyComma, evdev.KEY_DOT: KeyPeriod, evdev.KEY_SLASH: KeySlash,

	evdev.KEY_INSERT: KeyInsert, evdev.KEY_DELETE: KeyDelete,
	evdev.KEY_HOME: KeyHome, evdev.KEY_END: KeyEnd,
	evdev.KEY_PAGEUP: KeyPageUp, evdev.KEY_PAGEDOWN: KeyPageDown,
	evdev.KEY_UP: KeyUp, evdev.KEY_DOWN: KeyDown, evdev.KEY_LEFT: KeyLeft, evdev.KEY_RIGHT: KeyRight,
	evdev.KEY_SYSRQ: KeyPrintScreen, evdev.KEY_SCROLLLOCK: KeyScrollLock, evdev.KEY_PAUSE: KeyPause,

	evdev.KEY_NUMLOCK: KeyNumLock,
	evdev.KEY_KP0: KeyNumpad0, evdev.KEY_KP1: KeyNumpad1, evdev.KEY_KP2: KeyNumpad2,
	evdev.KEY_KP3: KeyNumpad3, evdev.KEY_KP4: KeyNumpad4, evdev.KEY_KP5: KeyNumpad5,
	evdev.KEY_KP6: KeyNumpad6, evdev.KEY_KP7: KeyNumpad7, evdev.KEY_KP8: KeyNumpad8,
	evdev.KEY_KP9: KeyNumpad9, evdev.KEY_KPPLUS: KeyNumpadAdd, evdev.KEY_KPMINUS: KeyNumpadSubtract,
	evdev.KEY_KPASTERISK: KeyNumpadMultiply, evdev.KEY_KPSLASH: KeyNumpadDivide,
	evdev.KEY_KPDOT: KeyNumpadDecimal, evdev.KEY_KPENTER: KeyNumpadEnter,

	evdev.KEY_PLAYPAUSE: KeyMediaPlayPause, evdev.KEY_NEXTSONG: KeyMediaNext,
	evdev.KEY_PREVIOUSSONG: KeyMediaPrevious, evdev.KEY_STOPCD: KeyMediaStop,
	evdev.KEY_VOLUMEUP: KeyVolumeUp, evdev.KEY_VOLUMEDOWN: KeyVolumeDown, evdev.KEY_MUTE: KeyVolumeMute,

	evdev.KEY_102ND: KeyWorld1,
}

// reverseKeyTable is built from nativeKeyTable at package initialization
// for ToNative.
var reverseKeyTable = buildReverseKeyTable()

func buildReverseKeyTable() map[Key]evdev.EvCode {
	out := make(map[Key]evdev.EvCode, len(nativeKeyTable))
	for native, key := range nativeKeyTable {
		out[key] = native
	}
	return out
}

// FromNative maps a native evdev key code to a cross-platform Key tag.
// Returns ok=false for unmapped codes, which callers must silently drop
// (§4.3 "unmapped codes are silently dropped").
func FromNative(code int) (Key, bool) {
	k, ok := nativeKeyTable[evdev.EvCode(code)]
	return k, ok
}

// ToNative is the inverse of FromNative, mapping a portable tag back to
// its native evdev key code.
func ToNative(key Key) (int, bool) {
	code, ok := reverseKeyTable[key]
	return int(code), ok
}

// nativeButtonTable maps evdev.EvCode gamepad button codes to
// cross-platform Button tags (§6).
var nativeButtonTable = map[evdev.EvCode]Button{
	evdev.BTN_SOUTH: ButtonFaceSouth, evdev.BTN_NORTH: ButtonFaceNorth,
	evdev.BTN_WEST: ButtonFaceWest, evdev.BTN_EAST: ButtonFaceEast,
	evdev.BTN_TL: ButtonL1, evdev.BTN_TR: ButtonR1,
	evdev.BTN_TL2: ButtonL2, evdev.BTN_TR2: ButtonR2,
	evdev.BTN_THUMBL: ButtonThumbLeft, evdev.BTN_THUMBR: ButtonThumbRight,
	evdev.BTN_SELECT: ButtonSelect, evdev.BTN_START: ButtonStart,
}

// FromNativeButton maps a native evdev button code to a cross-platform
// Button tag. Dpad buttons are synthesized from the hat axes by the
// gamepad's fold step (§4.3 "Dpad digitalization") rather than looked up
// here.
func FromNativeButton(code int) (Button, bool) {
	b, ok := nativeButtonTable[evdev.EvCode(code)]
	return b, ok
}

var keyNames = map[Key]string{
	KeyA: "A", KeyB: "B", KeyC: "C", KeyD: "D", KeyE: "E", KeyF: "F", KeyG: "G",
	KeyH: "H", KeyI: "I", KeyJ: "J", KeyK: "K", KeyL: "L", KeyM: "M", KeyN: "N",
	KeyO: "O", KeyP: "P", KeyQ: "Q", KeyR: "R", KeyS: "S", KeyT: "T", KeyU: "U",
	KeyV: "V", KeyW: "W", KeyX: "X", KeyY: "Y", KeyZ: "Z",
	KeySpace: "Space", KeyEnter: "Enter", KeyEscape: "Escape", KeyTab: "Tab",
	KeyBackspace: "Backspace", KeyLeftShift: "LeftShift", KeyRightShift: "RightShift",
}

var buttonNames = map[Button]string{
	ButtonFaceSouth: "South", ButtonFaceNorth: "North",
	ButtonFaceWest: "West", ButtonFaceEast: "East",
	ButtonDpadUp: "DpadUp", ButtonDpadDown: "DpadDown",
	ButtonDpadLeft: "DpadLeft", ButtonDpadRight: "DpadRight",
	ButtonL1: "L1", ButtonL2: "L2", ButtonR1: "R1", ButtonR2: "R2",
	ButtonThumbLeft: "ThumbLeft", ButtonThumbRight: "ThumbRight",
	ButtonSelect: "Select", ButtonStart: "Start",
}
