package crossput

import "github.com/TriceHelix/crossput/keycode"

// Aggregate is a virtual device derived from N homogeneous members
// (§3 "Aggregate", §4.6). It implements the same Device surface its
// member type does: aggregating mice satisfies the mouse-shaped
// accessors, aggregating gamepads satisfies the gamepad-shaped ones.
type Aggregate struct {
	id        ID
	typ       Type
	members   []ID
	reg       *Registry
	connected bool

	// mouse/keyboard/gamepad hold the replicated,
	// merged state for the aggregate's type; only one is populated.
	mouse    *aggregateMouseState
	keyboard *aggregateKeyboardState
	gamepad  *aggregateGamepadState

	forces     map[ID]*Force
	forceOrder []ID
	gains      map[int]float32

	motorMap []motorMapping // aggregate motor index -> (member index, member motor)
}

type motorMapping struct {
	memberIndex int
	memberMotor int
}

type aggregateMouseState struct {
	state        MouseState
	buttons      [NumMouseButtons]Cell
	prevAbsolute map[ID][2]int64 // per-member previous (x,y) cache
}

type aggregateKeyboardState struct {
	cells      [keycode.NumKeys]Cell
	numPressed int
}

type aggregateGamepadState struct {
	state GamepadState
}

// ID, Type, DisplayName, IsConnected satisfy the common Device contract.
func (a *Aggregate) ID() ID     { return a.id }
func (a *Aggregate) Type() Type { return a.typ }

func (a *Aggregate) DisplayName() string {
	return "aggregate(" + a.typ.String() + ")"
}

func (a *Aggregate) IsConnected() bool { return a.connected }

// Members returns the ordered list of member device ids.
func (a *Aggregate) Members() []ID {
	out := make([]ID, len(a.members))
	copy(out, a.members)
	return out
}

// Update updates every member in order, then sets the aggregate's own
// connected flag to "all members connected" and merges state per the
// type-specific rules (§4.6 "Update", "Merging rules per type").
func (a *Aggregate) Update() error {
	allConnected := true
	var memberDevices []Device

	for _, id := range a.members {
		d, ok := a.reg.Get(id)
		if !ok {
			allConnected = false
			continue
		}
		if err := d.Update(); err != nil {
			return err
		}
		if !d.IsConnected() {
			allConnected = false
		}
		memberDevices = append(memberDevices, d)
	}

	wasConnected := a.connected
	a.connected = allConnected

	if !allConnected {
		a.zeroState()
	} else {
		switch a.typ {
		case TypeMouse:
			a.mergeMouse(memberDevices)
		case TypeKeyboard:
			a.mergeKeyboard(memberDevices)
		case TypeGamepad:
			a.mergeGamepad(memberDevices)
		}
	}

	if !wasConnected && a.connected {
		a.reg.fireStatus(a.id, StatusConnected)
	}
	if wasConnected && !a.connected {
		a.reg.fireStatus(a.id, StatusDisconnected)
	}

	return nil
}

func (a *Aggregate) zeroState() {
	switch a.typ {
	case TypeMouse:
		a.mouse.state = MouseState{}
		a.mouse.buttons = [NumMouseButtons]Cell{}
	case TypeKeyboard:
		a.keyboard.cells = [keycode.NumKeys]Cell{}
		a.keyboard.numPressed = 0
	case TypeGamepad:
		a.gamepad.state.Buttons = [keycode.NumGamepadButtons]Cell{}
		a.gamepad.state.LeftTrigger = Cell{}
		a.gamepad.state.RightTrigger = Cell{}
		for i := range a.gamepad.state.Thumbsticks {
			a.gamepad.state.Thumbsticks[i] = Thumbstick{}
		}
	}
}

// mergeMouse implements §4.6: per member, compute its delta against a
// cached previous absolute position, sum deltas across members into the
// aggregate's own totals and deltas; button values are the max over
// members.
func (a *Aggregate) mergeMouse(devices []Device) {
	st := a.mouse
	st.state.DX, st.state.DY = 0, 0
	st.state.DSX, st.state.DSY = 0, 0

	var maxButtons [NumMouseButtons]Cell

	for _, d := range devices {
		m, ok := d.(*Mouse)
		if !ok {
			continue
		}
		prev, seen := st.prevAbsolute[m.ID()]
		if !seen {
			// First merge of this member: its position before this tick
			// is its current position minus this tick's own delta.
			prev = [2]int64{m.state.X - m.state.DX, m.state.Y - m.state.DY}
		}
		dx := m.state.X - prev[0]
		dy := m.state.Y - prev[1]
		st.prevAbsolute[m.ID()] = [2]int64{m.state.X, m.state.Y}

		st.state.DX += dx
		st.state.DY += dy
		st.state.DSX += m.state.DSX
		st.state.DSY += m.state.DSY

		for i := range m.buttons {
			if m.buttons[i].Value() > maxButtons[i].Value() {
				maxButtons[i] = m.buttons[i]
			}
		}
	}

	st.state.X += st.state.DX
	st.state.Y += st.state.DY
	st.state.SX += st.state.DSX
	st.state.SY += st.state.DSY
	st.buttons = maxButtons
}

func (a *Aggregate) State() MouseState {
	if a.mouse == nil {
		return MouseState{}
	}
	return a.mouse.state
}

func (a *Aggregate) Button(n int) *Cell {
	if a.mouse == nil || n < 0 || n >= len(a.mouse.buttons) {
		return nil
	}
	return &a.mouse.buttons[n]
}

// mergeKeyboard implements §4.6: each key's analog value is the max over
// members, then the digital rule applies over the merged value.
func (a *Aggregate) mergeKeyboard(devices []Device) {
	kb := a.keyboard
	var merged [keycode.NumKeys]float32

	for _, d := range devices {
		k, ok := d.(*Keyboard)
		if !ok {
			continue
		}
		for i := range k.cells {
			if v := k.cells[i].Value(); v > merged[i] {
				merged[i] = v
			}
		}
	}

	now := nowMicros()
	for i := range kb.cells {
		kb.cells[i].ModifyCounted(merged[i], now, &kb.numPressed)
	}
}

func (a *Aggregate) Key(key keycode.Key) *Cell {
	if a.keyboard == nil || int(key) < 0 || int(key) >= len(a.keyboard.cells) {
		return nil
	}
	return &a.keyboard.cells[key]
}

func (a *Aggregate) NumPressed() int {
	if a.keyboard == nil {
		return 0
	}
	return a.keyboard.numPressed
}

// mergeGamepad implements §4.6: button values are the max over members;
// thumbsticks are concatenated (not averaged), so the aggregate's
// thumbstick count is the sum of member counts.
func (a *Aggregate) mergeGamepad(devices []Device) {
	gp := a.gamepad
	var maxButtons [keycode.NumGamepadButtons]Cell
	var maxL, maxR Cell

	sticks := make([]Thumbstick, 0, len(gp.state.Thumbsticks))

	for _, d := range devices {
		m, ok := d.(*Gamepad)
		if !ok {
			continue
		}
		for i := range m.state.Buttons {
			if m.state.Buttons[i].Value() > maxButtons[i].Value() {
				maxButtons[i] = m.state.Buttons[i]
			}
		}
		if m.state.LeftTrigger.Value() > maxL.Value() {
			maxL = m.state.LeftTrigger
		}
		if m.state.RightTrigger.Value() > maxR.Value() {
			maxR = m.state.RightTrigger
		}
		sticks = append(sticks, m.state.Thumbsticks...)
	}

	gp.state.Buttons = maxButtons
	gp.state.LeftTrigger = maxL
	gp.state.RightTrigger = maxR
	gp.state.Thumbsticks = sticks
}

func (a *Aggregate) GamepadState() GamepadState {
	if a.gamepad == nil {
		return GamepadState{}
	}
	return a.gamepad.state
}

func (a *Aggregate) ButtonCell(b keycode.Button) *Cell {
	if a.gamepad == nil || int(b) < 0 || int(b) >= len(a.gamepad.state.Buttons) {
		return nil
	}
	return &a.gamepad.state.Buttons[b]
}

func (a *Aggregate) Thumbstick(i int) (Thumbstick, bool) {
	if a.gamepad == nil || i < 0 || i >= len(a.gamepad.state.Thumbsticks) {
		return Thumbstick{}, false
	}
	return a.gamepad.state.Thumbsticks[i], true
}

// Motor-remap: each aggregate-motor index maps to a specific
// (member, member-motor-index) pair built by appending each member's
// motors in order (§4.6 "Merging rules per type", gamepad case).
func (a *Aggregate) motorCount() int { return len(a.motorMap) }

func (a *Aggregate) setGain(motor int, gain float32) bool {
	if motor < 0 || motor >= len(a.motorMap) {
		return false
	}
	mapping := a.motorMap[motor]
	d, ok := a.reg.Get(a.members[mapping.memberIndex])
	if !ok {
		return false
	}
	ok = d.setGain(mapping.memberMotor, gain)
	if ok {
		a.gains[motor] = clamp01(gain)
	}
	return ok
}

func (a *Aggregate) gain(motor int) (float32, bool) {
	if motor < 0 || motor >= len(a.motorMap) {
		return 0, false
	}
	g, ok := a.gains[motor]
	return g, ok
}

func (a *Aggregate) MotorCount() int                      { return a.motorCount() }
func (a *Aggregate) GetGain(motor int) (float32, bool)    { return a.gain(motor) }
func (a *Aggregate) SetGain(motor int, gain float32) bool { return a.setGain(motor, gain) }

func (a *Aggregate) SupportsForce(motor int, kind ForceKind) bool {
	if motor < 0 || motor >= len(a.motorMap) {
		return false
	}
	mapping := a.motorMap[motor]
	d, ok := a.reg.Get(a.members[mapping.memberIndex])
	if !ok {
		return false
	}
	owner, ok := d.(interface {
		SupportsForce(int, ForceKind) bool
	})
	if !ok {
		return false
	}
	return owner.SupportsForce(mapping.memberMotor, kind)
}

// TryCreateForce delegates effect creation to the mapped member/motor,
// registering the resulting Force under the aggregate's own id space so
// it participates in the aggregate's destroy/orphan lifecycle too.
func (a *Aggregate) TryCreateForce(motor int, kind ForceKind) (*Force, error) {
	if motor < 0 || motor >= len(a.motorMap) {
		return nil, ErrCapabilityMismatch
	}
	mapping := a.motorMap[motor]
	d, ok := a.reg.Get(a.members[mapping.memberIndex])
	if !ok {
		return nil, ErrCapabilityMismatch
	}
	creator, ok := d.(motorForces)
	if !ok {
		return nil, ErrCapabilityMismatch
	}
	f, err := creator.tryCreateForceOn(mapping.memberMotor, kind)
	if err != nil {
		return nil, err
	}
	a.forces[f.id] = f
	a.forceOrder = append(a.forceOrder, f.id)
	return f, nil
}

func (a *Aggregate) GetForce(id ID) (*Force, bool) {
	f, ok := a.forces[id]
	return f, ok
}

func (a *Aggregate) DestroyForce(id ID) bool {
	f, ok := a.forces[id]
	if !ok {
		return false
	}
	f.destroy()
	delete(a.forces, id)
	return true
}

func (a *Aggregate) DestroyAllForces() {
	for _, id := range a.forceOrder {
		if f, ok := a.forces[id]; ok {
			f.destroy()
		}
	}
	a.forces = make(map[ID]*Force)
	a.forceOrder = nil
}

func (a *Aggregate) destroyAllForces() { a.DestroyAllForces() }
