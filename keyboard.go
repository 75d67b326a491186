package crossput

import "github.com/TriceHelix/crossput/keycode"

// Keyboard is the keyboard device surface: a fixed table of
// keycode.NumKeys cells plus a pressed counter (§3 "Keyboard state").
type Keyboard struct {
	baseDevice
	cells      [keycode.NumKeys]Cell
	numPressed int
}

func newKeyboard(id ID, bridge Bridge, reg *Registry) *Keyboard {
	return &Keyboard{baseDevice: newBaseDevice(id, TypeKeyboard, bridge, reg)}
}

// Key returns the cell for a cross-platform key tag.
func (k *Keyboard) Key(key keycode.Key) *Cell {
	if int(key) < 0 || int(key) >= len(k.cells) {
		return nil
	}
	return &k.cells[key]
}

func (k *Keyboard) KeyDown(key keycode.Key) bool {
	c := k.Key(key)
	return c != nil && c.Digital()
}

// NumPressed returns the live count of currently-pressed keys (§4.2's
// "keys pressed" counter, maintained transition-by-transition).
func (k *Keyboard) NumPressed() int { return k.numPressed }

func (k *Keyboard) SetGlobalThreshold(t float32) {
	for i := range k.cells {
		k.cells[i].SetThreshold(t)
	}
}

func (k *Keyboard) Update() error {
	wasConnected := k.connected

	res, err := k.tick()
	if err != nil {
		return err
	}

	if res.dropped {
		k.zeroState()
	}

	prev := k.cells

	for _, e := range res.events {
		k.fold(e)
	}

	if !wasConnected && k.connected {
		k.reg.fireStatus(k.id, StatusConnected)
	}
	if wasConnected && !k.connected {
		k.zeroState()
		k.reg.fireStatus(k.id, StatusDisconnected)
	}

	k.fireKeyCallbacks(prev)

	return nil
}

func (k *Keyboard) fold(e BridgeEvent) {
	if e.Kind != EventKey {
		return
	}
	key, ok := keycode.FromNative(e.Channel)
	if !ok {
		return // unmapped native codes are silently dropped (§4.3)
	}
	v := float32(0)
	if e.Value != 0 {
		v = 1
	}
	k.cells[key].ModifyCounted(v, e.TimestampUS, &k.numPressed)
}

func (k *Keyboard) zeroState() {
	k.cells = [keycode.NumKeys]Cell{}
	k.numPressed = 0
}

func (k *Keyboard) fireKeyCallbacks(prev [keycode.NumKeys]Cell) {
	for i := range k.cells {
		if k.cells[i].Digital() == prev[i].Digital() {
			continue
		}
		key := keycode.Key(i)
		k.reg.runCallbacks(func() {
			k.reg.callbacks.dispatch(k.id, KindKeyboardKey, int64(key), func(fn any) {
				if cb, ok := fn.(func(*Keyboard, keycode.Key, bool)); ok {
					cb(k, key, k.cells[key].Digital())
				}
			})
		})
	}
}

func (k *Keyboard) destroyAllForces() {
	destroyAllForces(&k.baseDevice)
}

func (k *Keyboard) motorCount() int                      { return k.baseDevice.motorCount() }
func (k *Keyboard) setGain(motor int, gain float32) bool { return k.baseDevice.setGain(motor, gain) }
func (k *Keyboard) gain(motor int) (float32, bool)       { return k.baseDevice.gain(motor) }

func (k *Keyboard) MotorCount() int                      { return k.motorCount() }
func (k *Keyboard) GetGain(motor int) (float32, bool)    { return k.gain(motor) }
func (k *Keyboard) SetGain(motor int, gain float32) bool  { return k.setGain(motor, gain) }
func (k *Keyboard) SupportsForce(motor int, kind ForceKind) bool {
	return k.bridge != nil && k.bridge.SupportsForce(motor, kind)
}
func (k *Keyboard) TryCreateForce(motor int, kind ForceKind) (*Force, error) {
	return tryCreateForce(&k.baseDevice, k, motor, kind)
}
func (k *Keyboard) tryCreateForceOn(motor int, kind ForceKind) (*Force, error) {
	return tryCreateForce(&k.baseDevice, k, motor, kind)
}
func (k *Keyboard) GetForce(id ID) (*Force, bool) { return getForce(&k.baseDevice, id) }
func (k *Keyboard) DestroyForce(id ID) bool       { return destroyForce(&k.baseDevice, id) }
func (k *Keyboard) DestroyAllForces()             { destroyAllForces(&k.baseDevice) }
