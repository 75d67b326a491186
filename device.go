package crossput

import "time"

// Type is the device-type discriminator.
type Type int

const (
	TypeUnknown Type = iota
	TypeMouse
	TypeKeyboard
	TypeGamepad
)

func (t Type) String() string {
	switch t {
	case TypeMouse:
		return "mouse"
	case TypeKeyboard:
		return "keyboard"
	case TypeGamepad:
		return "gamepad"
	default:
		return "unknown"
	}
}

// Device is the common contract shared by every device type (§4.3) and
// by aggregates, which present the same surface over N members.
type Device interface {
	ID() ID
	Type() Type
	DisplayName() string
	IsConnected() bool
	Update() error

	motorCount() int
	setGain(motor int, gain float32) bool
	gain(motor int) (float32, bool)
}

// Bridge is the native OS collaborator a device pulls events from and
// pushes effect parameters to (§6, evented variant). internal/evdevhid
// implements this for Linux.
type Bridge interface {
	// Open attempts to (re)connect to the underlying native source.
	// Returns false if the source is currently unavailable.
	Open() (bool, error)
	Close() error

	// ReadEvents drains currently available events into the device's
	// fold step. dropped is true if the native layer reported a buffer
	// overrun (SYN_DROPPED); in that case the device must resynchronize
	// from Resync before folding further events.
	ReadEvents() (events []BridgeEvent, dropped bool, err error)

	// Resync queries the bridge for full current state (used after a
	// SYN_DROPPED buffer-overrun signal).
	Resync() ([]BridgeEvent, error)

	DisplayName() string
	HWID() HWID

	MotorCount() int
	SetGain(motor int, gain float32) bool
	SupportsForce(motor int, kind ForceKind) bool
	CreateEffect(motor int, kind ForceKind, params ForceParams) (nativeEffectID int, ok bool, err error)
	WriteEffect(nativeEffectID int, params ForceParams) error
	SetEffectActive(nativeEffectID int, active bool) error
	DestroyEffect(nativeEffectID int) error
}

// BridgeEventKind discriminates the kind of raw value a BridgeEvent
// carries, independent of OS-native event type numbering.
type BridgeEventKind int

const (
	EventRelMotion BridgeEventKind = iota
	EventAbsMotion
	EventKey
	EventWheelHiRes
	EventWheelLoRes
)

// BridgeEvent is one decoded native input record (§6's evented variant
// Event, generalized across mouse/keyboard/gamepad channels).
type BridgeEvent struct {
	Kind      BridgeEventKind
	Channel   int // native code, interpreted by the device's replication policy
	Value     int32
	TimestampUS uint64
}

// nowMicros samples the local monotonic clock in microseconds, used to
// advance last_update_ts (§4.3's "local monotonic clock sample at update
// start").
func nowMicros() uint64 {
	return uint64(time.Now().UnixMicro())
}

// baseDevice is embedded by Mouse, Keyboard, and Gamepad. It holds the
// identity, connection, and bridge-handling machinery common to §4.3's
// update protocol; each embedding type's Update calls tick() and then
// folds the returned events itself.
type baseDevice struct {
	id          ID
	typ         Type
	connected   bool
	lastUpdate  uint64
	bridge      Bridge
	reg         *Registry
	forces      map[ID]*Force
	forceOrder  []ID
	gains       map[int]float32
}

func newBaseDevice(id ID, typ Type, bridge Bridge, reg *Registry) baseDevice {
	return baseDevice{
		id:     id,
		typ:    typ,
		bridge: bridge,
		reg:    reg,
		forces: make(map[ID]*Force),
		gains:  make(map[int]float32),
	}
}

func (d *baseDevice) ID() ID        { return d.id }
func (d *baseDevice) Type() Type    { return d.typ }
func (d *baseDevice) IsConnected() bool { return d.connected }

func (d *baseDevice) DisplayName() string {
	if !d.connected || d.bridge == nil {
		return ""
	}
	return d.bridge.DisplayName()
}

func (d *baseDevice) motorCount() int {
	if d.bridge == nil {
		return 0
	}
	return d.bridge.MotorCount()
}

func (d *baseDevice) setGain(motor int, gain float32) bool {
	if d.bridge == nil {
		return false
	}
	gain = clamp01(gain)
	if !d.bridge.SetGain(motor, gain) {
		return false
	}
	d.gains[motor] = gain
	return true
}

func (d *baseDevice) gain(motor int) (float32, bool) {
	// Gain is a write-mostly native concept (§4.5): the bridge does not
	// expose a read-back, so the device mirrors the last value it set.
	if d.bridge == nil || motor < 0 || motor >= d.motorCount() {
		return 0, false
	}
	if g, ok := d.gains[motor]; ok {
		return g, true
	}
	return 0, true
}

// updateResult carries the per-tick outcome of pulling events from the
// bridge, common to all device types.
type updateResult struct {
	events     []BridgeEvent
	dropped    bool
	reconnected bool
}

// tick runs the §4.3 update protocol's connection/read phase, shared by
// Mouse/Keyboard/Gamepad.Update. The caller folds the returned events
// into its own cells and fires its own callbacks.
func (d *baseDevice) tick() (updateResult, error) {
	var res updateResult

	if d.reg != nil && d.reg.inCallback {
		return res, &ErrReentrant{Operation: "Update"}
	}

	if !d.connected {
		ok, err := d.bridge.Open()
		if err != nil {
			return res, err
		}
		if !ok {
			d.lastUpdate = nowMicros()
			return res, nil
		}
		d.connected = true
		res.reconnected = true
	}

	events, dropped, err := d.bridge.ReadEvents()
	if err != nil {
		d.disconnect()
		return res, nil
	}

	if dropped {
		resync, err := d.bridge.Resync()
		if err != nil {
			d.disconnect()
			return res, nil
		}
		res.events = resync
		res.dropped = true
	} else {
		res.events = events
	}

	maxTS := nowMicros()
	for _, e := range res.events {
		if e.TimestampUS > maxTS {
			maxTS = e.TimestampUS
		}
	}
	d.lastUpdate = maxTS

	return res, nil
}

func (d *baseDevice) disconnect() {
	d.connected = false
	for _, f := range d.forces {
		if d.bridge != nil {
			_ = d.bridge.DestroyEffect(f.nativeID)
		}
		f.orphan()
	}
}
