package crossput

import (
	"errors"
	"testing"
)

func TestClassifyPicksHighestScoringType(t *testing.T) {
	c := Classifier{EmitsSyncEvents: true, HasRelMotion: true, KeyboardKeyCount: 1}
	if typ := classify(c); typ != TypeMouse {
		t.Fatalf("classify = %v, want TypeMouse", typ)
	}
}

func TestClassifyTieYieldsUnknown(t *testing.T) {
	c := Classifier{EmitsSyncEvents: true, HasRelMotion: true, GamepadKeyCount: 2}
	// mouseScore=2, gamepadScore=2: a tie above the qualifying threshold
	if typ := classify(c); typ != TypeUnknown {
		t.Fatalf("classify = %v, want TypeUnknown on a tie", typ)
	}
}

func TestClassifyNoSyncEventsYieldsUnknown(t *testing.T) {
	c := Classifier{EmitsSyncEvents: false, HasRelMotion: true}
	if typ := classify(c); typ != TypeUnknown {
		t.Fatalf("classify = %v, want TypeUnknown without sync events", typ)
	}
}

func TestClassifyScoreMustExceedOne(t *testing.T) {
	c := Classifier{EmitsSyncEvents: true, KeyboardKeyCount: 1}
	if typ := classify(c); typ != TypeUnknown {
		t.Fatalf("classify = %v, want TypeUnknown when no score exceeds 1", typ)
	}
}

type fakeEnumerator struct {
	sources []EnumeratedSource
}

func (e *fakeEnumerator) Enumerate() ([]EnumeratedSource, error) {
	return e.sources, nil
}

func mouseSource(hw string) EnumeratedSource {
	return EnumeratedSource{
		HWID:       NewHWID(hw),
		Classifier: Classifier{EmitsSyncEvents: true, HasRelMotion: true, KeyboardKeyCount: 1},
		NewBridge: func() (Bridge, error) {
			b := newFakeBridge(hw)
			b.hwidVal = NewHWID(hw)
			return b, nil
		},
	}
}

func TestDiscoverSkipsAlreadyKnownHWID(t *testing.T) {
	reg := NewRegistry()
	enum := &fakeEnumerator{sources: []EnumeratedSource{mouseSource("hw-1")}}

	n, err := reg.Discover(enum)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if n != 1 {
		t.Fatalf("n = %d, want 1", n)
	}

	n, err = reg.Discover(enum)
	if err != nil {
		t.Fatalf("Discover (rescan): %v", err)
	}
	if n != 0 {
		t.Fatalf("rescan n = %d, want 0 (hw-1 already known)", n)
	}
	if reg.Count(false) != 1 {
		t.Fatalf("Count = %d, want 1", reg.Count(false))
	}
}

func TestDiscoverJoinsBridgeErrorsWithoutAbortingScan(t *testing.T) {
	reg := NewRegistry()
	failing := mouseSource("hw-bad")
	wantErr := errors.New("permanent open failure")
	failing.NewBridge = func() (Bridge, error) { return nil, wantErr }

	enum := &fakeEnumerator{sources: []EnumeratedSource{failing, mouseSource("hw-good")}}

	n, err := reg.Discover(enum)
	if n != 1 {
		t.Fatalf("n = %d, want 1 (the good source should still be created)", n)
	}
	if err == nil || !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want it to wrap %v", err, wantErr)
	}
}

func TestDiscoverUnknownTypeSkipped(t *testing.T) {
	reg := NewRegistry()
	src := EnumeratedSource{
		HWID:       NewHWID("hw-ambiguous"),
		Classifier: Classifier{EmitsSyncEvents: true},
		NewBridge:  func() (Bridge, error) { return newFakeBridge("ambiguous"), nil },
	}
	n, err := reg.Discover(&fakeEnumerator{sources: []EnumeratedSource{src}})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if n != 0 {
		t.Fatalf("n = %d, want 0 for an unclassifiable source", n)
	}
}

func TestUpdateAllSkipsAggregateMembers(t *testing.T) {
	reg := NewRegistry()
	m1, b1 := newAggTestMouse(t, reg, "m1")
	m2, _ := newAggTestMouse(t, reg, "m2")

	if _, err := reg.Aggregate([]ID{m1.ID(), m2.ID()}, TypeUnknown); err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	b1.queued = []BridgeEvent{{Kind: EventRelMotion, Channel: relAxisX, Value: 9, TimestampUS: 5}}
	if err := reg.UpdateAll(); err != nil {
		t.Fatalf("UpdateAll: %v", err)
	}

	// m1 was updated as part of the aggregate's own Update, not directly
	// by UpdateAll; its event queue should still have been drained exactly once.
	if m1.State().X != 9 {
		t.Fatalf("m1.State().X = %v, want 9", m1.State().X)
	}
	if len(b1.queued) != 0 {
		t.Fatalf("expected the queued event to have been drained")
	}
}

func TestFindByHWIDMatchesRegisteredDevice(t *testing.T) {
	reg := NewRegistry()
	bridge := newFakeBridge("hwid mouse")
	bridge.hwidVal = NewHWID("unique-123")
	m := newMouse(reg.newDeviceID(), bridge, reg)
	reg.addDevice(m)

	d, ok := reg.FindByHWID(NewHWID("unique-123"))
	if !ok || d.ID() != m.ID() {
		t.Fatalf("FindByHWID did not resolve the registered mouse")
	}

	if _, ok := reg.FindByHWID(NewHWID("nope")); ok {
		t.Fatalf("FindByHWID should not match an unregistered HWID")
	}
}
