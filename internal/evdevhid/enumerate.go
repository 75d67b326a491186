package evdevhid

import (
	"fmt"

	evdev "github.com/holoplot/go-evdev"

	"github.com/TriceHelix/crossput"
	"github.com/TriceHelix/crossput/keycode"
)

// Enumerator walks /dev/input/event* and classifies every node for
// crossput's type deduction (§4.7, §4.8). It satisfies
// crossput.Enumerator.
type Enumerator struct{}

// NewEnumerator returns a ready-to-use Linux evdev enumerator.
func NewEnumerator() Enumerator { return Enumerator{} }

func (Enumerator) Enumerate() ([]crossput.EnumeratedSource, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("list input devices: %w", err)
	}

	out := make([]crossput.EnumeratedSource, 0, len(paths))
	for _, p := range paths {
		dev, err := evdev.Open(p.Path)
		if err != nil {
			continue
		}

		classifier := classify(dev)
		hwid := buildHWID(dev, p.Path)
		path := p.Path
		dev.Close()

		out = append(out, crossput.EnumeratedSource{
			HWID:       hwid,
			Classifier: classifier,
			NewBridge: func() (crossput.Bridge, error) {
				return openBridge(path)
			},
		})
	}

	return out, nil
}

// classify builds the capability-bitfield proof the root package's
// classify() scores against (§4.8), by probing dev for the same
// capabilities a live Bridge would report.
func classify(dev *evdev.InputDevice) crossput.Classifier {
	relCodes := dev.CapableEvents(evdev.EV_REL)
	absCodes := dev.CapableEvents(evdev.EV_ABS)
	keyCodes := dev.CapableEvents(evdev.EV_KEY)
	ffCodes := dev.CapableEvents(evdev.EV_FF)
	synCodes := dev.CapableEvents(evdev.EV_SYN)

	hasRel := false
	for _, c := range relCodes {
		if c == evdev.REL_X || c == evdev.REL_Y {
			hasRel = true
			break
		}
	}

	hasAbs := len(absCodes) > 0

	keyboardCount := 0
	gamepadCount := 0
	for _, c := range keyCodes {
		if _, ok := keycode.FromNative(int(c)); ok {
			keyboardCount++
		}
		if _, ok := keycode.FromNativeButton(int(c)); ok {
			gamepadCount++
		}
	}

	blacklisted := false
	for _, c := range absCodes {
		if c == evdev.ABS_MT_SLOT || c == evdev.ABS_PRESSURE || c == evdev.ABS_TILT_X {
			blacklisted = true
			break
		}
	}
	for _, c := range keyCodes {
		if c == evdev.BTN_TOOL_PEN || c == evdev.BTN_TOOL_FINGER {
			blacklisted = true
			break
		}
	}

	emitsSync := false
	for _, c := range synCodes {
		if c == evdev.SYN_REPORT {
			emitsSync = true
			break
		}
	}

	return crossput.Classifier{
		HasRelMotion:      hasRel,
		HasAbsAxes:        hasAbs,
		HasForceFeedback:  len(ffCodes) > 0,
		KeyboardKeyCount:  keyboardCount,
		GamepadKeyCount:   gamepadCount,
		HasBlacklistedCap: blacklisted,
		EmitsSyncEvents:   emitsSync,
	}
}
