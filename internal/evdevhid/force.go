package evdevhid

import (
	"fmt"
	"unsafe"

	evdev "github.com/holoplot/go-evdev"
	"golang.org/x/sys/unix"

	"github.com/TriceHelix/crossput"
)

// Native force-feedback effect type codes (linux/input-event-codes.h).
const (
	ffRumble   = 0x50
	ffPeriodic = 0x51
	ffConstant = 0x52
	ffSpring   = 0x53
	ffFriction = 0x54
	ffDamper   = 0x55
	ffInertia  = 0x56
	ffRamp     = 0x57

	ffSquare      = 0x58
	ffTriangle    = 0x59
	ffSine        = 0x5a
	ffSawUp       = 0x5b
	ffSawDown     = 0x5c
	ffCustom      = 0x5d

	ffGain = 0x60
)

// ffEnvelope mirrors struct ff_envelope.
type ffEnvelope struct {
	AttackLength uint16
	AttackLevel  uint16
	FadeLength   uint16
	FadeLevel    uint16
}

// ffTrigger mirrors struct ff_trigger.
type ffTrigger struct {
	Button   uint16
	Interval uint16
}

// ffEffect mirrors struct ff_effect from linux/input.h. The payload
// union is large enough for the biggest variant this package uploads
// (periodic effects carrying an envelope); fields beyond what a given
// ForceKind needs are left zero.
type ffEffect struct {
	Type      uint16
	ID        int16
	Direction uint16
	Trigger   ffTrigger
	Replay    struct{ Length, Delay uint16 }

	// Payload holds whichever *_effect struct matches Type, packed by
	// writeRumble/writeConstant/writeRamp/writePeriodic/writeCondition.
	Payload [28]byte
}

const evdevFFTypeCode = 'E'

func ffIoctl(nr uintptr, size uintptr) uintptr {
	const iocWrite = 1
	return (iocWrite << 30) | (uintptr(evdevFFTypeCode) << 8) | nr | (size << 16)
}

var (
	eviocsff = ffIoctl(0x80, unsafe.Sizeof(ffEffect{}))
	eviocrmff = ffIoctl(0x81, unsafe.Sizeof(int32(0)))
)

type uploadedEffect struct {
	motor  int
	kind   crossput.ForceKind
	native int16
	active bool
}

// ffCapabilities probes FF_* support bits via EV_FF CapableEvents.
func ffCapabilities(dev *evdev.InputDevice) map[evdev.EvCode]bool {
	out := make(map[evdev.EvCode]bool)
	for _, c := range dev.CapableEvents(evdev.EV_FF) {
		out[c] = true
	}
	return out
}

// ffMotorCount maps whatever FF_RUMBLE support is reported onto a motor
// count; evdev's FF layer multiplexes all effects onto a single "slot
// space" rather than addressing individual motors, so every force-
// capable node exposes exactly one crossput motor (motor 0) unless it
// separately exposes FF_RUMBLE's two independent magnitudes, in which
// case it still counts as one motor — the two magnitudes are both
// routed to RumbleParams on that motor.
func ffMotorCount(caps map[evdev.EvCode]bool) int {
	if len(caps) == 0 {
		return 0
	}
	return 1
}

func (b *NodeBridge) MotorCount() int { return b.motorCount }

// SetGain uploads FF_GAIN via a synthetic input_event (EV_FF/FF_GAIN is
// the only Linux FF control not modeled as an effect upload).
func (b *NodeBridge) SetGain(motor int, gain float32) bool {
	if b.dev == nil || motor != 0 {
		return false
	}
	value := int32(gain * 0xFFFF)
	return b.dev.WriteOne(&evdev.InputEvent{Type: evdev.EV_FF, Code: ffGain, Value: value}) == nil
}

func (b *NodeBridge) SupportsForce(motor int, kind crossput.ForceKind) bool {
	if motor != 0 || motor >= b.motorCount {
		return false
	}
	code, ok := nativeFFCode(kind)
	if !ok {
		return false
	}
	return b.ffSupport[code]
}

func nativeFFCode(kind crossput.ForceKind) (evdev.EvCode, bool) {
	switch kind {
	case crossput.ForceRumble:
		return ffRumble, true
	case crossput.ForceConstant:
		return ffConstant, true
	case crossput.ForceRamp:
		return ffRamp, true
	case crossput.ForceSine:
		return ffSine, true
	case crossput.ForceTriangle:
		return ffTriangle, true
	case crossput.ForceSquare:
		return ffSquare, true
	case crossput.ForceSawtoothUp:
		return ffSawUp, true
	case crossput.ForceSawtoothDown:
		return ffSawDown, true
	case crossput.ForceSpring:
		return ffSpring, true
	case crossput.ForceFriction:
		return ffFriction, true
	case crossput.ForceDamper:
		return ffDamper, true
	case crossput.ForceInertia:
		return ffInertia, true
	default:
		return 0, false
	}
}

func (b *NodeBridge) CreateEffect(motor int, kind crossput.ForceKind, params crossput.ForceParams) (int, bool, error) {
	if !b.SupportsForce(motor, kind) {
		return 0, false, nil
	}

	eff := ffEffect{ID: -1}
	if err := encodeEffect(&eff, kind, params); err != nil {
		return 0, false, err
	}

	if err := b.uploadEffect(&eff); err != nil {
		return 0, false, err
	}

	id := int(eff.ID)
	b.effects[id] = &uploadedEffect{motor: motor, kind: kind, native: eff.ID}
	return id, true, nil
}

func (b *NodeBridge) WriteEffect(nativeEffectID int, params crossput.ForceParams) error {
	stored, ok := b.effects[nativeEffectID]
	if !ok {
		return crossput.ErrCapabilityMismatch
	}
	eff := ffEffect{ID: stored.native}
	if err := encodeEffect(&eff, stored.kind, params); err != nil {
		return err
	}
	return b.uploadEffect(&eff)
}

func (b *NodeBridge) SetEffectActive(nativeEffectID int, active bool) error {
	stored, ok := b.effects[nativeEffectID]
	if !ok {
		return crossput.ErrCapabilityMismatch
	}
	value := int32(0)
	if active {
		value = 1
	}
	if err := b.dev.WriteOne(&evdev.InputEvent{Type: evdev.EV_FF, Code: evdev.EvCode(stored.native), Value: value}); err != nil {
		return err
	}
	stored.active = active
	return nil
}

func (b *NodeBridge) DestroyEffect(nativeEffectID int) error {
	stored, ok := b.effects[nativeEffectID]
	if !ok {
		return nil
	}
	delete(b.effects, nativeEffectID)
	id := int32(stored.native)
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, b.dev.Fd(), eviocrmff, uintptr(unsafe.Pointer(&id)))
	if errno != 0 {
		return fmt.Errorf("evdevhid: EVIOCRMFF: %w", errno)
	}
	return nil
}

func (b *NodeBridge) uploadEffect(eff *ffEffect) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, b.dev.Fd(), eviocsff, uintptr(unsafe.Pointer(eff)))
	if errno != 0 {
		return fmt.Errorf("evdevhid: EVIOCSFF: %w", errno)
	}
	return nil
}

// encodeEffect packs params into eff.Payload per kind, clamping the
// envelope to MaxEnvelopeSeconds first (§4.5, §8 Scenario 4) — the
// clamp happens here rather than in the root package so an orphaned
// force that is never re-written keeps its caller-specified values
// intact until the next real upload.
func encodeEffect(eff *ffEffect, kind crossput.ForceKind, params crossput.ForceParams) error {
	if params.Kind() != kind {
		return crossput.ErrCapabilityMismatch
	}

	switch p := params.(type) {
	case crossput.RumbleParams:
		eff.Type = ffRumble
		putU16(eff.Payload[0:2], scaleMagnitude(p.StrongMagnitude))
		putU16(eff.Payload[2:4], scaleMagnitude(p.WeakMagnitude))
	case crossput.ConstantParams:
		eff.Type = ffConstant
		env := p.Envelope.Clamped()
		putI16(eff.Payload[0:2], scaleSigned(p.Magnitude))
		eff.Direction = scaleDirection(p.Direction)
		putEnvelope(eff.Payload[2:10], env)
	case crossput.RampParams:
		eff.Type = ffRamp
		env := p.Envelope.Clamped()
		putI16(eff.Payload[0:2], scaleSigned(p.Start))
		putI16(eff.Payload[2:4], scaleSigned(p.End))
		eff.Direction = scaleDirection(p.Direction)
		putEnvelope(eff.Payload[4:12], env)
	case crossput.PeriodicParams:
		code, _ := nativeFFCode(p.Kind())
		eff.Type = uint16(code)
		env := p.Envelope.Clamped()
		putU16(eff.Payload[0:2], scaleMagnitude(p.Magnitude))
		putI16(eff.Payload[2:4], scaleSigned(p.Offset))
		putU16(eff.Payload[4:6], uint16(p.Phase*0xFFFF))
		putU16(eff.Payload[6:8], uint16(p.Period*1000))
		eff.Direction = scaleDirection(p.Direction)
		putEnvelope(eff.Payload[8:16], env)
	case crossput.ConditionParams:
		code, _ := nativeFFCode(p.Kind())
		eff.Type = uint16(code)
		putI16(eff.Payload[0:2], scaleSigned(p.RightCoeff))
		putI16(eff.Payload[2:4], scaleSigned(p.LeftCoeff))
		putU16(eff.Payload[4:6], uint16(p.RightSaturation*0xFFFF))
		putU16(eff.Payload[6:8], uint16(p.LeftSaturation*0xFFFF))
		putU16(eff.Payload[8:10], uint16(p.Deadband*0xFFFF))
		putI16(eff.Payload[10:12], scaleSigned(p.CenterOffset))
	default:
		return crossput.ErrCapabilityMismatch
	}
	return nil
}

func putEnvelope(dst []byte, env crossput.Envelope) {
	putU16(dst[0:2], uint16(env.AttackTime*1000))
	putU16(dst[2:4], scaleMagnitude(env.AttackGain))
	putU16(dst[4:6], uint16(env.ReleaseTime*1000))
	putU16(dst[6:8], scaleMagnitude(env.ReleaseGain))
}

func putU16(dst []byte, v uint16) { dst[0] = byte(v); dst[1] = byte(v >> 8) }
func putI16(dst []byte, v int16)  { putU16(dst, uint16(v)) }

func scaleMagnitude(v float32) uint16 { return uint16(crossputClamp01(v) * 0xFFFF) }
func scaleSigned(v float32) int16     { return int16(crossputClampSigned(v) * 0x7FFF) }
func scaleDirection(degrees float32) uint16 {
	for degrees < 0 {
		degrees += 360
	}
	for degrees >= 360 {
		degrees -= 360
	}
	return uint16(degrees / 360 * 0xFFFF)
}

func crossputClamp01(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func crossputClampSigned(v float32) float32 {
	switch {
	case v < -1:
		return -1
	case v > 1:
		return 1
	default:
		return v
	}
}
