// Package evdevhid is the Linux collaborator behind crossput's device
// and discovery interfaces: it enumerates /dev/input/event* nodes,
// classifies them, decodes their event streams into crossput.BridgeEvent
// values, and translates force-feedback parameters into Linux
// ff_effect uploads.
package evdevhid

import (
	evdev "github.com/holoplot/go-evdev"
)

// chanRelAxisX/chanRelAxisY/chanDpad*/chan*Trig/chanThumbBase mirror the canonical
// channel numbers the root package's fold steps expect (mouse.go's
// relAxisX/relAxisY, gamepad.go's gamepadChan* and
// gamepadChanThumbBase). Kept in sync by hand since the root package
// does not export them — internal/evdevhid is the one caller that
// needs to agree with it.
const (
	chanRelAxisX = 0
	chanRelAxisY = 1

	chanDpadX  = 1000
	chanDpadY  = 1001
	chanLTrig  = 1002
	chanRTrig  = 1003
	chanThumbBase = 2000
)

// absChannelFixed maps the hat and trigger absolute-axis codes onto the
// root package's synthetic channel numbers. Thumbstick axes are mapped
// separately by bridge.go's thumbChannel, from a fixed two-stick table.
func absChannelFixed(code evdev.EvCode) (int, bool) {
	switch code {
	case evdev.ABS_HAT0X:
		return chanDpadX, true
	case evdev.ABS_HAT0Y:
		return chanDpadY, true
	case evdev.ABS_Z:
		return chanLTrig, true
	case evdev.ABS_RZ:
		return chanRTrig, true
	default:
		return 0, false
	}
}
