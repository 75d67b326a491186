package crossput

// NumMouseButtons is the number of button cells a Mouse tracks
// (left/right/middle/back/forward), §4.3. Button events on any other
// channel are dropped; extra bridge-reported buttons are not tracked.
const NumMouseButtons = 5

const (
	MouseButtonLeft = iota
	MouseButtonRight
	MouseButtonMiddle
	MouseButtonBack
	MouseButtonForward
)

// MouseState holds the accumulated coordinates, scroll position, and
// their per-update deltas (§3 "Mouse state").
type MouseState struct {
	X, Y     int64
	SX, SY   int64
	DX, DY   int64
	DSX, DSY int64
}

// Mouse is the mouse device surface layered over the device core
// (§4.3 "Typed Device Surfaces").
type Mouse struct {
	baseDevice
	state   MouseState
	buttons [NumMouseButtons]Cell

	// hiResSeen tracks whether a high-resolution wheel event arrived
	// this tick, so a low-resolution event for the same axis is dropped
	// per §4.3's wheel-precedence rule.
	hiResSeenX, hiResSeenY bool
}

func newMouse(id ID, bridge Bridge, reg *Registry) *Mouse {
	return &Mouse{baseDevice: newBaseDevice(id, TypeMouse, bridge, reg)}
}

func (m *Mouse) State() MouseState { return m.state }

// Button returns the cell for one of the standard buttons (0..4), or nil
// for any n outside that range.
func (m *Mouse) Button(n int) *Cell {
	if n < 0 || n >= len(m.buttons) {
		return nil
	}
	return &m.buttons[n]
}

func (m *Mouse) ButtonDown(n int) bool {
	c := m.Button(n)
	return c != nil && c.Digital()
}

// SetGlobalThreshold assigns threshold t to every cell on the device
// (§4.3 "Thresholds").
func (m *Mouse) SetGlobalThreshold(t float32) {
	for i := range m.buttons {
		m.buttons[i].SetThreshold(t)
	}
}

// Update pulls pending events from the bridge and folds them into state
// (§4.3's update protocol).
func (m *Mouse) Update() error {
	wasConnected := m.connected

	res, err := m.tick()
	if err != nil {
		return err
	}

	m.state.DX, m.state.DY = 0, 0
	m.state.DSX, m.state.DSY = 0, 0
	m.hiResSeenX, m.hiResSeenY = false, false

	if res.dropped {
		for i := range m.buttons {
			m.buttons[i] = Cell{}
		}
	}

	prevButtons := m.buttons

	for _, e := range res.events {
		m.fold(e)
	}

	if !wasConnected && m.connected {
		m.reg.fireStatus(m.id, StatusConnected)
	}
	if wasConnected && !m.connected {
		m.zeroState()
		m.reg.fireStatus(m.id, StatusDisconnected)
	}

	m.fireButtonCallbacks(prevButtons)
	m.fireMoveScrollCallbacks()

	return nil
}

// fireMoveScrollCallbacks emits KindMouseMove when DX/DY is nonzero and
// KindMouseScroll when DSX/DSY is nonzero, each carrying the full state
// snapshot for the tick (§4.4).
func (m *Mouse) fireMoveScrollCallbacks() {
	if m.state.DX != 0 || m.state.DY != 0 {
		m.reg.runCallbacks(func() {
			m.reg.callbacks.dispatch(m.id, KindMouseMove, 0, func(fn any) {
				if cb, ok := fn.(func(*Mouse, MouseState)); ok {
					cb(m, m.state)
				}
			})
		})
	}
	if m.state.DSX != 0 || m.state.DSY != 0 {
		m.reg.runCallbacks(func() {
			m.reg.callbacks.dispatch(m.id, KindMouseScroll, 0, func(fn any) {
				if cb, ok := fn.(func(*Mouse, MouseState)); ok {
					cb(m, m.state)
				}
			})
		})
	}
}

func (m *Mouse) fold(e BridgeEvent) {
	switch e.Kind {
	case EventRelMotion:
		switch e.Channel {
		case relAxisX:
			m.state.DX += int64(e.Value)
			m.state.X += int64(e.Value)
		case relAxisY:
			m.state.DY += int64(e.Value)
			m.state.Y += int64(e.Value)
		}
	case EventWheelHiRes:
		switch e.Channel {
		case relAxisX:
			m.state.DSX += int64(e.Value)
			m.state.SX += int64(e.Value)
			m.hiResSeenX = true
		case relAxisY:
			m.state.DSY += int64(e.Value)
			m.state.SY += int64(e.Value)
			m.hiResSeenY = true
		}
	case EventWheelLoRes:
		// Low-resolution wheel events are multiplied by 120 and are
		// dropped entirely if a high-resolution event for the same axis
		// already arrived this tick (§4.3 wheel precedence).
		switch e.Channel {
		case relAxisX:
			if !m.hiResSeenX {
				v := int64(e.Value) * 120
				m.state.DSX += v
				m.state.SX += v
			}
		case relAxisY:
			if !m.hiResSeenY {
				v := int64(e.Value) * 120
				m.state.DSY += v
				m.state.SY += v
			}
		}
	case EventKey:
		if e.Channel >= 0 && e.Channel < len(m.buttons) {
			v := float32(0)
			if e.Value != 0 {
				v = 1
			}
			m.buttons[e.Channel].Modify(v, e.TimestampUS)
		}
	}
}

func (m *Mouse) zeroState() {
	m.state = MouseState{}
	for i := range m.buttons {
		m.buttons[i] = Cell{}
	}
}

// fireButtonCallbacks emits a "button changed" callback for each button
// whose cell reported a digital-state transition this tick — both
// press and release (§4.3, resolving the "&" vs "&&" ambiguity from §9:
// a callback fires whenever the cell's digital state changes, not only
// on the bitwise-AND-shaped bug the original had on one edge).
func (m *Mouse) fireButtonCallbacks(prev [NumMouseButtons]Cell) {
	for i := range m.buttons {
		if m.buttons[i].Digital() == prev[i].Digital() {
			continue
		}
		idx := i
		m.reg.runCallbacks(func() {
			m.reg.callbacks.dispatch(m.id, KindMouseButton, int64(idx), func(fn any) {
				if cb, ok := fn.(func(*Mouse, int, bool)); ok {
					cb(m, idx, m.buttons[idx].Digital())
				}
			})
		})
	}
}

// relAxisX/relAxisY are the canonical channel numbers this package uses
// for the two relative motion axes; internal/evdevhid maps native
// REL_X/REL_Y/REL_WHEEL* codes onto them.
const (
	relAxisX = 0
	relAxisY = 1
)

func (m *Mouse) destroyAllForces() {
	destroyAllForces(&m.baseDevice)
}

func (m *Mouse) motorCount() int                      { return m.baseDevice.motorCount() }
func (m *Mouse) setGain(motor int, gain float32) bool { return m.baseDevice.setGain(motor, gain) }
func (m *Mouse) gain(motor int) (float32, bool)       { return m.baseDevice.gain(motor) }

// MotorCount, GetGain, SetGain, SupportsForce, TryCreateForce, GetForce,
// DestroyForce, and DestroyAllForces form the optional force-feedback
// surface (§6 "Force (optional feature)").
func (m *Mouse) MotorCount() int                        { return m.motorCount() }
func (m *Mouse) GetGain(motor int) (float32, bool)      { return m.gain(motor) }
func (m *Mouse) SetGain(motor int, gain float32) bool   { return m.setGain(motor, gain) }
func (m *Mouse) SupportsForce(motor int, kind ForceKind) bool {
	return m.bridge != nil && m.bridge.SupportsForce(motor, kind)
}
func (m *Mouse) TryCreateForce(motor int, kind ForceKind) (*Force, error) {
	return tryCreateForce(&m.baseDevice, m, motor, kind)
}
func (m *Mouse) tryCreateForceOn(motor int, kind ForceKind) (*Force, error) {
	return tryCreateForce(&m.baseDevice, m, motor, kind)
}
func (m *Mouse) GetForce(id ID) (*Force, bool)   { return getForce(&m.baseDevice, id) }
func (m *Mouse) DestroyForce(id ID) bool         { return destroyForce(&m.baseDevice, id) }
func (m *Mouse) DestroyAllForces()               { destroyAllForces(&m.baseDevice) }
