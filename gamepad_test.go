package crossput

import (
	"testing"

	"github.com/TriceHelix/crossput/keycode"
)

func newTestGamepad(t *testing.T) (*Registry, *Gamepad, *fakeBridge) {
	t.Helper()
	reg := NewRegistry()
	bridge := newFakeBridge("test gamepad")
	id := reg.newDeviceID()
	g := newGamepad(id, bridge, reg)
	reg.addDevice(g)
	return reg, g, bridge
}

func TestGamepadDpadDigitalization(t *testing.T) {
	_, g, bridge := newTestGamepad(t)
	bridge.queued = []BridgeEvent{{Kind: EventAbsMotion, Channel: gamepadChanDpadX, Value: 1, TimestampUS: 1}}
	if err := g.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !g.ButtonDown(keycode.ButtonDpadRight) || g.ButtonDown(keycode.ButtonDpadLeft) {
		t.Fatalf("expected DpadRight pressed, DpadLeft released")
	}

	bridge.queued = []BridgeEvent{{Kind: EventAbsMotion, Channel: gamepadChanDpadX, Value: -1, TimestampUS: 2}}
	if err := g.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if g.ButtonDown(keycode.ButtonDpadRight) || !g.ButtonDown(keycode.ButtonDpadLeft) {
		t.Fatalf("expected DpadLeft pressed, DpadRight released")
	}
}

func TestGamepadTriggerCrossTalkIgnoresDigitalOnceAnalogInstalled(t *testing.T) {
	_, g, bridge := newTestGamepad(t)
	g.InstallTriggerNormalizer(gamepadChanLTrig, NewAxisNormalizer(0, 255))

	bridge.queued = []BridgeEvent{{Kind: EventKey, Channel: gamepadChanLTrig, Value: 1, TimestampUS: 1}}
	if err := g.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if g.LeftTrigger().Digital() {
		t.Fatalf("digital trigger event should have been ignored once an analog normalizer is installed")
	}

	bridge.queued = []BridgeEvent{{Kind: EventAbsMotion, Channel: gamepadChanLTrig, Value: 255, TimestampUS: 2}}
	if err := g.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !g.LeftTrigger().Digital() {
		t.Fatalf("analog trigger at max should cross the digital threshold")
	}
}

func TestGamepadThumbstickYAxisPositiveUp(t *testing.T) {
	_, g, bridge := newTestGamepad(t)
	g.InstallThumbNormalizer(gamepadChanThumbBase+1, NewAxisNormalizer(-32768, 32767))

	bridge.queued = []BridgeEvent{{Kind: EventAbsMotion, Channel: gamepadChanThumbBase + 1, Value: -32768, TimestampUS: 1}}
	if err := g.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	stick, ok := g.Thumbstick(0)
	if !ok {
		t.Fatalf("expected thumbstick 0 to exist")
	}
	if stick.Y <= 0 {
		t.Fatalf("Y = %v, want positive (native down should read as abstract up)", stick.Y)
	}
}

func TestAxisNormalizerRoundTrip(t *testing.T) {
	n := NewAxisNormalizer(-100, 100)
	if v := n.Normalize(-100); v != -1 {
		t.Fatalf("Normalize(min) = %v, want -1", v)
	}
	if v := n.Normalize(100); v != 1 {
		t.Fatalf("Normalize(max) = %v, want 1", v)
	}
	if v := n.Normalize(0); v != 0 {
		t.Fatalf("Normalize(center) = %v, want 0", v)
	}
}
