package crossput

import "github.com/TriceHelix/crossput/keycode"

// Thumbstick holds a normalized (x, y) pair in [-1,+1], y positive-up
// (§4.3 "Gamepad" replication policy).
type Thumbstick struct {
	X, Y float32
}

// AxisNormalizer precomputes the affine scaling from a native absolute
// axis's (min, max) range into [-1,+1] without branching on range
// recomputation per sample (§4.3 "Analog normalizer", Glossary
// "Normalizer").
type AxisNormalizer struct {
	min, max     int32
	negInvRange  float32 // 1 / (center - min), for the negative subrange
	posInvRange  float32 // 1 / (max - center), for the positive subrange
	center       int32
	installed    bool
}

// NewAxisNormalizer precomputes the inverse-range factors for an axis
// reporting raw values in [min, max].
func NewAxisNormalizer(min, max int32) AxisNormalizer {
	n := AxisNormalizer{min: min, max: max, installed: true}
	n.center = (min + max) / 2
	if n.center > min {
		n.negInvRange = 1 / float32(n.center-min)
	}
	if max > n.center {
		n.posInvRange = 1 / float32(max-n.center)
	}
	return n
}

// Normalize maps a raw axis reading into [-1,+1].
func (n AxisNormalizer) Normalize(raw int32) float32 {
	if !n.installed {
		return 0
	}
	if raw < n.center {
		return clampSigned(float32(raw-n.center) * n.negInvRange)
	}
	return clampSigned(float32(raw-n.center) * n.posInvRange)
}

// NormalizeUnsigned maps a raw trigger reading in [min,max] to [0,1],
// used for analog triggers which have no negative subrange.
func (n AxisNormalizer) NormalizeUnsigned(raw int32) float32 {
	if !n.installed || n.max <= n.min {
		return 0
	}
	return clamp01(float32(raw-n.min) / float32(n.max-n.min))
}

func clampSigned(v float32) float32 {
	switch {
	case v < -1:
		return -1
	case v > 1:
		return 1
	default:
		return v
	}
}

// GamepadState holds the 16 button cells, trigger cells, and thumbsticks
// of a gamepad (§3 "Gamepad state").
type GamepadState struct {
	Buttons     [keycode.NumGamepadButtons]Cell
	LeftTrigger, RightTrigger Cell
	Thumbsticks []Thumbstick
}

// Gamepad is the gamepad device surface (§4.3).
type Gamepad struct {
	baseDevice
	state GamepadState

	triggerNormalizers map[int]AxisNormalizer // channel -> normalizer, installed lazily
	thumbNormalizers   map[int]AxisNormalizer

	// analogOverride records which channels have an analog normalizer
	// installed, so later digital events for the same channel are
	// ignored (§4.3 "Trigger cross-talk").
	analogOverride map[int]bool

	// The dpad has no separate state: foldDpad writes the hat axes
	// straight into the ButtonDpad* cells (§4.3 "Dpad digitalization").
}

func newGamepad(id ID, bridge Bridge, reg *Registry) *Gamepad {
	return &Gamepad{
		baseDevice:         newBaseDevice(id, TypeGamepad, bridge, reg),
		triggerNormalizers: make(map[int]AxisNormalizer),
		thumbNormalizers:   make(map[int]AxisNormalizer),
		analogOverride:     make(map[int]bool),
		state:              GamepadState{Thumbsticks: make([]Thumbstick, 2)},
	}
}

func (g *Gamepad) State() GamepadState { return g.state }

func (g *Gamepad) Button(b keycode.Button) *Cell {
	if int(b) < 0 || int(b) >= len(g.state.Buttons) {
		return nil
	}
	return &g.state.Buttons[b]
}

func (g *Gamepad) ButtonDown(b keycode.Button) bool {
	c := g.Button(b)
	return c != nil && c.Digital()
}

func (g *Gamepad) Thumbstick(i int) (Thumbstick, bool) {
	if i < 0 || i >= len(g.state.Thumbsticks) {
		return Thumbstick{}, false
	}
	return g.state.Thumbsticks[i], true
}

func (g *Gamepad) NumThumbsticks() int { return len(g.state.Thumbsticks) }

func (g *Gamepad) LeftTrigger() *Cell  { return &g.state.LeftTrigger }
func (g *Gamepad) RightTrigger() *Cell { return &g.state.RightTrigger }

func (g *Gamepad) SetGlobalThreshold(t float32) {
	for i := range g.state.Buttons {
		g.state.Buttons[i].SetThreshold(t)
	}
	g.state.LeftTrigger.SetThreshold(t)
	g.state.RightTrigger.SetThreshold(t)
}

// InstallTriggerNormalizer registers an analog normalizer for a trigger
// channel, switching future digital events on that channel to be
// ignored (§4.3 "Trigger cross-talk": "the analog event stream is the
// source of truth" once a normalizer exists).
func (g *Gamepad) InstallTriggerNormalizer(channel int, n AxisNormalizer) {
	g.triggerNormalizers[channel] = n
	g.analogOverride[channel] = true
}

func (g *Gamepad) InstallThumbNormalizer(channel int, n AxisNormalizer) {
	g.thumbNormalizers[channel] = n
}

func (g *Gamepad) Update() error {
	wasConnected := g.connected

	res, err := g.tick()
	if err != nil {
		return err
	}

	if res.dropped {
		g.zeroState()
	}

	prevButtons := g.state.Buttons
	prevSticks := append([]Thumbstick(nil), g.state.Thumbsticks...)

	for _, e := range res.events {
		g.fold(e)
	}

	if !wasConnected && g.connected {
		g.reg.fireStatus(g.id, StatusConnected)
	}
	if wasConnected && !g.connected {
		g.zeroState()
		g.reg.fireStatus(g.id, StatusDisconnected)
	}

	g.fireButtonCallbacks(prevButtons)
	g.fireThumbstickCallbacks(prevSticks)

	return nil
}

const (
	gamepadChanDpadX = 1000
	gamepadChanDpadY = 1001
	gamepadChanLTrig = 1002
	gamepadChanRTrig = 1003
)

func (g *Gamepad) fold(e BridgeEvent) {
	switch e.Kind {
	case EventKey:
		// Trigger cross-talk: digital events for a channel that already
		// has an analog normalizer installed are ignored (§4.3).
		if g.analogOverride[e.Channel] {
			return
		}
		if b, ok := keycode.FromNativeButton(e.Channel); ok {
			v := float32(0)
			if e.Value != 0 {
				v = 1
			}
			g.state.Buttons[b].Modify(v, e.TimestampUS)
			return
		}
		if e.Channel == gamepadChanLTrig {
			v := float32(0)
			if e.Value != 0 {
				v = 1
			}
			g.state.LeftTrigger.Modify(v, e.TimestampUS)
		} else if e.Channel == gamepadChanRTrig {
			v := float32(0)
			if e.Value != 0 {
				v = 1
			}
			g.state.RightTrigger.Modify(v, e.TimestampUS)
		}

	case EventAbsMotion:
		switch {
		case e.Channel == gamepadChanDpadX:
			g.foldDpad(keycode.ButtonDpadLeft, keycode.ButtonDpadRight, e.Value, e.TimestampUS)
		case e.Channel == gamepadChanDpadY:
			g.foldDpad(keycode.ButtonDpadUp, keycode.ButtonDpadDown, e.Value, e.TimestampUS)
		case e.Channel == gamepadChanLTrig:
			if n, ok := g.triggerNormalizers[e.Channel]; ok {
				g.state.LeftTrigger.Modify(n.NormalizeUnsigned(e.Value), e.TimestampUS)
			}
		case e.Channel == gamepadChanRTrig:
			if n, ok := g.triggerNormalizers[e.Channel]; ok {
				g.state.RightTrigger.Modify(n.NormalizeUnsigned(e.Value), e.TimestampUS)
			}
		default:
			g.foldThumbAxis(e)
		}
	}
}

// foldDpad implements §4.3 "Dpad digitalization": a hat axis value >= 0
// drives one digital button, <= 0 drives the opposite, each independent
// hysteresis cells.
func (g *Gamepad) foldDpad(negative, positive keycode.Button, raw int32, ts uint64) {
	posVal := float32(0)
	negVal := float32(0)
	if raw > 0 {
		posVal = 1
	}
	if raw < 0 {
		negVal = 1
	}
	g.state.Buttons[positive].Modify(posVal, ts)
	g.state.Buttons[negative].Modify(negVal, ts)
}

// thumbChannel layout: channel/2 selects the thumbstick index, channel%2
// selects X (0) or Y (1); channels start at 2000.
const gamepadChanThumbBase = 2000

func (g *Gamepad) foldThumbAxis(e BridgeEvent) {
	rel := e.Channel - gamepadChanThumbBase
	if rel < 0 {
		return
	}
	stick := rel / 2
	axis := rel % 2
	if stick >= len(g.state.Thumbsticks) {
		return
	}
	n, ok := g.thumbNormalizers[e.Channel]
	if !ok {
		return
	}
	v := n.Normalize(e.Value)
	if axis == 0 {
		g.state.Thumbsticks[stick].X = v
	} else {
		// The native vertical axis convention is positive-down; the
		// abstract contract is positive-up (§4.3), so it is negated.
		g.state.Thumbsticks[stick].Y = -v
	}
}

func (g *Gamepad) zeroState() {
	g.state.Buttons = [keycode.NumGamepadButtons]Cell{}
	g.state.LeftTrigger = Cell{}
	g.state.RightTrigger = Cell{}
	for i := range g.state.Thumbsticks {
		g.state.Thumbsticks[i] = Thumbstick{}
	}
}

func (g *Gamepad) fireButtonCallbacks(prev [keycode.NumGamepadButtons]Cell) {
	for i := range g.state.Buttons {
		if g.state.Buttons[i].Digital() == prev[i].Digital() {
			continue
		}
		b := keycode.Button(i)
		g.reg.runCallbacks(func() {
			g.reg.callbacks.dispatch(g.id, KindGamepadButton, int64(b), func(fn any) {
				if cb, ok := fn.(func(*Gamepad, keycode.Button, bool)); ok {
					cb(g, b, g.state.Buttons[b].Digital())
				}
			})
		})
	}
}

// fireThumbstickCallbacks emits KindGamepadThumbstick, filtered by stick
// index, for every thumbstick whose (x, y) pair changed this tick.
func (g *Gamepad) fireThumbstickCallbacks(prev []Thumbstick) {
	for i, cur := range g.state.Thumbsticks {
		if i < len(prev) && prev[i] == cur {
			continue
		}
		idx := i
		g.reg.runCallbacks(func() {
			g.reg.callbacks.dispatch(g.id, KindGamepadThumbstick, int64(idx), func(fn any) {
				if cb, ok := fn.(func(*Gamepad, int, Thumbstick)); ok {
					cb(g, idx, g.state.Thumbsticks[idx])
				}
			})
		})
	}
}

func (g *Gamepad) destroyAllForces() {
	destroyAllForces(&g.baseDevice)
}

func (g *Gamepad) motorCount() int                      { return g.baseDevice.motorCount() }
func (g *Gamepad) setGain(motor int, gain float32) bool { return g.baseDevice.setGain(motor, gain) }
func (g *Gamepad) gain(motor int) (float32, bool)       { return g.baseDevice.gain(motor) }

func (g *Gamepad) MotorCount() int                      { return g.motorCount() }
func (g *Gamepad) GetGain(motor int) (float32, bool)    { return g.gain(motor) }
func (g *Gamepad) SetGain(motor int, gain float32) bool { return g.setGain(motor, gain) }
func (g *Gamepad) SupportsForce(motor int, kind ForceKind) bool {
	return g.bridge != nil && g.bridge.SupportsForce(motor, kind)
}
func (g *Gamepad) TryCreateForce(motor int, kind ForceKind) (*Force, error) {
	return tryCreateForce(&g.baseDevice, g, motor, kind)
}
func (g *Gamepad) tryCreateForceOn(motor int, kind ForceKind) (*Force, error) {
	return tryCreateForce(&g.baseDevice, g, motor, kind)
}
func (g *Gamepad) GetForce(id ID) (*Force, bool) { return getForce(&g.baseDevice, id) }
func (g *Gamepad) DestroyForce(id ID) bool       { return destroyForce(&g.baseDevice, id) }
func (g *Gamepad) DestroyAllForces()             { destroyAllForces(&g.baseDevice) }
