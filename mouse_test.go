package crossput

import (
	"errors"
	"testing"
)

var errDisconnected = errors.New("test: simulated read failure")

func newTestMouse(t *testing.T) (*Registry, *Mouse, *fakeBridge) {
	t.Helper()
	reg := NewRegistry()
	bridge := newFakeBridge("test mouse")
	id := reg.newDeviceID()
	m := newMouse(id, bridge, reg)
	reg.addDevice(m)
	return reg, m, bridge
}

func TestMouseUpdateFoldsRelativeMotion(t *testing.T) {
	_, m, bridge := newTestMouse(t)
	bridge.queued = []BridgeEvent{
		{Kind: EventRelMotion, Channel: relAxisX, Value: 5, TimestampUS: 1},
		{Kind: EventRelMotion, Channel: relAxisY, Value: -3, TimestampUS: 1},
	}
	if err := m.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	st := m.State()
	if st.X != 5 || st.Y != -3 || st.DX != 5 || st.DY != -3 {
		t.Fatalf("unexpected state: %+v", st)
	}

	// deltas reset next tick with no new events
	bridge.queued = nil
	if err := m.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	st = m.State()
	if st.DX != 0 || st.DY != 0 || st.X != 5 || st.Y != -3 {
		t.Fatalf("unexpected state after idle tick: %+v", st)
	}
}

func TestMouseWheelHiResPrecedenceOverLoRes(t *testing.T) {
	_, m, bridge := newTestMouse(t)
	bridge.queued = []BridgeEvent{
		{Kind: EventWheelHiRes, Channel: relAxisY, Value: 120, TimestampUS: 1},
		{Kind: EventWheelLoRes, Channel: relAxisY, Value: 1, TimestampUS: 1},
	}
	if err := m.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if m.State().DSY != 120 {
		t.Fatalf("DSY = %d, want 120 (lo-res should be dropped once hi-res arrived)", m.State().DSY)
	}
}

func TestMouseWheelLoResScaledWithoutHiRes(t *testing.T) {
	_, m, bridge := newTestMouse(t)
	bridge.queued = []BridgeEvent{
		{Kind: EventWheelLoRes, Channel: relAxisY, Value: 1, TimestampUS: 1},
	}
	if err := m.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if m.State().DSY != 120 {
		t.Fatalf("DSY = %d, want 120", m.State().DSY)
	}
}

func TestMouseButtonFiresOnPressAndRelease(t *testing.T) {
	reg, m, bridge := newTestMouse(t)
	var transitions []bool
	reg.RegisterMouseButton(m.ID(), func(mm *Mouse, idx int, down bool) {
		transitions = append(transitions, down)
	})

	bridge.queued = []BridgeEvent{{Kind: EventKey, Channel: MouseButtonLeft, Value: 1, TimestampUS: 1}}
	if err := m.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	bridge.queued = []BridgeEvent{{Kind: EventKey, Channel: MouseButtonLeft, Value: 1, TimestampUS: 2}}
	if err := m.Update(); err != nil { // repeat of the same value must not re-fire
		t.Fatalf("Update: %v", err)
	}
	bridge.queued = []BridgeEvent{{Kind: EventKey, Channel: MouseButtonLeft, Value: 0, TimestampUS: 3}}
	if err := m.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if len(transitions) != 2 || transitions[0] != true || transitions[1] != false {
		t.Fatalf("transitions = %v, want [true false]", transitions)
	}
}

func TestMouseDisconnectZeroesStateAndFiresStatus(t *testing.T) {
	reg, m, bridge := newTestMouse(t)
	bridge.queued = []BridgeEvent{{Kind: EventRelMotion, Channel: relAxisX, Value: 10, TimestampUS: 1}}
	if err := m.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}

	var statuses []Status
	reg.RegisterDeviceStatus(m.ID(), func(id ID, s Status) { statuses = append(statuses, s) })

	bridge.readErr = errDisconnected
	if err := m.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if m.State().X != 0 {
		t.Fatalf("expected zeroed state after disconnect, got %+v", m.State())
	}
	if len(statuses) != 1 || statuses[0] != StatusDisconnected {
		t.Fatalf("statuses = %v, want [StatusDisconnected]", statuses)
	}
}
