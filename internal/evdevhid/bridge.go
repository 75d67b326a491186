package evdevhid

import (
	"fmt"

	evdev "github.com/holoplot/go-evdev"

	"github.com/TriceHelix/crossput"
)

// thumbAxisChannels lists the native absolute axes treated as thumbstick
// axes, in (stick, x-or-y) order, generating the same channel numbers
// gamepad.go's foldThumbAxis expects (chanThumbBase + stick*2 + axis).
var thumbAxisChannels = []struct {
	code          evdev.EvCode
	stick, axis   int
}{
	{evdev.ABS_X, 0, 0}, {evdev.ABS_Y, 0, 1},
	{evdev.ABS_RX, 1, 0}, {evdev.ABS_RY, 1, 1},
}

func thumbChannel(code evdev.EvCode) (int, bool) {
	for _, e := range thumbAxisChannels {
		if e.code == code {
			return chanThumbBase + e.stick*2 + e.axis, true
		}
	}
	return 0, false
}

// NodeBridge is a crossput.Bridge backed by one /dev/input/eventN node.
// It satisfies crossput.Bridge; internal/evdevhid.Enumerator hands out a
// factory that constructs one of these per discovered source.
type NodeBridge struct {
	path string
	dev  *evdev.InputDevice
	hwid crossput.HWID
	name string

	motorCount int
	ffSupport  map[evdev.EvCode]bool // native FF_* effect-type support
	effects    map[int]*uploadedEffect
	nextEffect int
}

func openBridge(path string) (*NodeBridge, error) {
	b := &NodeBridge{path: path, effects: make(map[int]*uploadedEffect)}
	if _, err := b.Open(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *NodeBridge) Open() (bool, error) {
	if b.dev != nil {
		return true, nil
	}
	dev, err := evdev.Open(b.path)
	if err != nil {
		return false, nil // device not currently present is not an error (§7)
	}
	b.dev = dev
	b.name, _ = dev.Name()
	b.hwid = buildHWID(dev, b.path)
	b.ffSupport = ffCapabilities(dev)
	b.motorCount = ffMotorCount(b.ffSupport)
	return true, nil
}

func (b *NodeBridge) Close() error {
	if b.dev == nil {
		return nil
	}
	err := b.dev.Close()
	b.dev = nil
	return err
}

// ReadEvents drains currently buffered kernel events, translating each
// into the root package's BridgeEvent shape and folding SYN_REPORT
// boundaries away (the root package does not need per-report framing,
// only the decoded value changes). A SYN_DROPPED event reports
// dropped=true so the caller resynchronizes via Resync.
func (b *NodeBridge) ReadEvents() ([]crossput.BridgeEvent, bool, error) {
	if b.dev == nil {
		return nil, false, fmt.Errorf("evdevhid: device not open")
	}

	var out []crossput.BridgeEvent
	for {
		ev, err := b.dev.ReadOne()
		if err != nil {
			// A non-blocking read with nothing pending returns an error on
			// this library's read path; treat anything other than the
			// events collected so far as "no more data right now".
			return out, false, nil
		}

		switch ev.Type {
		case evdev.EV_SYN:
			if ev.Code == evdev.SYN_DROPPED {
				return out, true, nil
			}
			// SYN_REPORT: no translation needed, the root package folds
			// events as they arrive rather than batching per report.
		case evdev.EV_KEY:
			out = append(out, crossput.BridgeEvent{Kind: crossput.EventKey, Channel: int(ev.Code), Value: ev.Value, TimestampUS: timestampUS(ev)})
		case evdev.EV_REL:
			out = append(out, relEvent(ev))
		case evdev.EV_ABS:
			out = append(out, absEvent(*ev))
		}
	}
}

// Resync queries full current state after a buffer overrun. It replays
// the currently-held key/abs state rather than relative deltas, which
// have no meaningful "current value" to resync to.
func (b *NodeBridge) Resync() ([]crossput.BridgeEvent, error) {
	if b.dev == nil {
		return nil, fmt.Errorf("evdevhid: device not open")
	}

	var out []crossput.BridgeEvent

	keyStates, err := b.dev.State(evdev.EV_KEY)
	if err == nil {
		for code, down := range keyStates {
			v := int32(0)
			if down {
				v = 1
			}
			out = append(out, crossput.BridgeEvent{Kind: crossput.EventKey, Channel: int(code), Value: v, TimestampUS: 0})
		}
	}

	absInfos, err := b.dev.AbsInfos()
	if err == nil {
		for code, info := range absInfos {
			out = append(out, absEvent(evdev.InputEvent{Type: evdev.EV_ABS, Code: code, Value: info.Value}))
		}
	}

	return out, nil
}

func timestampUS(ev *evdev.InputEvent) uint64 {
	return uint64(ev.Time.Sec)*1_000_000 + uint64(ev.Time.Usec)
}

func relEvent(ev *evdev.InputEvent) crossput.BridgeEvent {
	switch ev.Code {
	case evdev.REL_X:
		return crossput.BridgeEvent{Kind: crossput.EventRelMotion, Channel: chanRelAxisX, Value: ev.Value, TimestampUS: timestampUS(ev)}
	case evdev.REL_Y:
		return crossput.BridgeEvent{Kind: crossput.EventRelMotion, Channel: chanRelAxisY, Value: ev.Value, TimestampUS: timestampUS(ev)}
	case evdev.REL_WHEEL:
		return crossput.BridgeEvent{Kind: crossput.EventWheelLoRes, Channel: chanRelAxisY, Value: ev.Value, TimestampUS: timestampUS(ev)}
	case evdev.REL_HWHEEL:
		return crossput.BridgeEvent{Kind: crossput.EventWheelLoRes, Channel: chanRelAxisX, Value: ev.Value, TimestampUS: timestampUS(ev)}
	case evdev.REL_WHEEL_HI_RES:
		return crossput.BridgeEvent{Kind: crossput.EventWheelHiRes, Channel: chanRelAxisY, Value: ev.Value, TimestampUS: timestampUS(ev)}
	case evdev.REL_HWHEEL_HI_RES:
		return crossput.BridgeEvent{Kind: crossput.EventWheelHiRes, Channel: chanRelAxisX, Value: ev.Value, TimestampUS: timestampUS(ev)}
	default:
		return crossput.BridgeEvent{}
	}
}

func absEvent(ev evdev.InputEvent) crossput.BridgeEvent {
	if ch, ok := absChannelFixed(ev.Code); ok {
		return crossput.BridgeEvent{Kind: crossput.EventAbsMotion, Channel: ch, Value: ev.Value, TimestampUS: timestampUS(&ev)}
	}
	if ch, ok := thumbChannel(ev.Code); ok {
		return crossput.BridgeEvent{Kind: crossput.EventAbsMotion, Channel: ch, Value: ev.Value, TimestampUS: timestampUS(&ev)}
	}
	return crossput.BridgeEvent{}
}

func (b *NodeBridge) DisplayName() string   { return b.name }
func (b *NodeBridge) HWID() crossput.HWID   { return b.hwid }
