package crossput

// fakeBridge is a minimal in-memory crossput.Bridge used by the root
// package's own tests to drive devices without real hardware.
type fakeBridge struct {
	openOK   bool
	opened   bool
	name     string
	hwidVal  HWID
	queued   []BridgeEvent
	dropped  bool
	resync   []BridgeEvent
	readErr  error

	motors      int
	supports    map[ForceKind]bool
	gains       map[int]float32
	nextEffect  int
	effects     map[int]ForceParams
	effectKinds map[int]ForceKind
	active      map[int]bool
}

func newFakeBridge(name string) *fakeBridge {
	return &fakeBridge{
		openOK:      true,
		name:        name,
		supports:    make(map[ForceKind]bool),
		gains:       make(map[int]float32),
		effects:     make(map[int]ForceParams),
		effectKinds: make(map[int]ForceKind),
		active:      make(map[int]bool),
	}
}

func (b *fakeBridge) Open() (bool, error) {
	if !b.openOK {
		return false, nil
	}
	b.opened = true
	return true, nil
}

func (b *fakeBridge) Close() error {
	b.opened = false
	return nil
}

func (b *fakeBridge) ReadEvents() ([]BridgeEvent, bool, error) {
	if b.readErr != nil {
		return nil, false, b.readErr
	}
	events := b.queued
	dropped := b.dropped
	b.queued = nil
	b.dropped = false
	return events, dropped, nil
}

func (b *fakeBridge) Resync() ([]BridgeEvent, error) {
	return b.resync, nil
}

func (b *fakeBridge) DisplayName() string { return b.name }
func (b *fakeBridge) HWID() HWID          { return b.hwidVal }

func (b *fakeBridge) MotorCount() int { return b.motors }

func (b *fakeBridge) SetGain(motor int, gain float32) bool {
	if motor < 0 || motor >= b.motors {
		return false
	}
	b.gains[motor] = gain
	return true
}

func (b *fakeBridge) SupportsForce(motor int, kind ForceKind) bool {
	if motor < 0 || motor >= b.motors {
		return false
	}
	return b.supports[kind]
}

func (b *fakeBridge) CreateEffect(motor int, kind ForceKind, params ForceParams) (int, bool, error) {
	if !b.SupportsForce(motor, kind) {
		return 0, false, nil
	}
	id := b.nextEffect
	b.nextEffect++
	b.effects[id] = params
	b.effectKinds[id] = kind
	return id, true, nil
}

func (b *fakeBridge) WriteEffect(id int, params ForceParams) error {
	if _, ok := b.effects[id]; !ok {
		return ErrCapabilityMismatch
	}
	b.effects[id] = params
	return nil
}

func (b *fakeBridge) SetEffectActive(id int, active bool) error {
	if _, ok := b.effects[id]; !ok {
		return ErrCapabilityMismatch
	}
	b.active[id] = active
	return nil
}

func (b *fakeBridge) DestroyEffect(id int) error {
	delete(b.effects, id)
	delete(b.effectKinds, id)
	delete(b.active, id)
	return nil
}
