package crossput

import "testing"

func newAggTestMouse(t *testing.T, reg *Registry, name string) (*Mouse, *fakeBridge) {
	t.Helper()
	bridge := newFakeBridge(name)
	m := newMouse(reg.newDeviceID(), bridge, reg)
	reg.addDevice(m)
	if err := m.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	return m, bridge
}

func TestAggregateMouseSumsDeltas(t *testing.T) {
	reg := NewRegistry()
	m1, b1 := newAggTestMouse(t, reg, "m1")
	m2, b2 := newAggTestMouse(t, reg, "m2")

	d, err := reg.Aggregate([]ID{m1.ID(), m2.ID()}, TypeUnknown)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	agg, ok := d.(*Aggregate)
	if !ok {
		t.Fatalf("expected *Aggregate, got %T", d)
	}

	b1.queued = []BridgeEvent{{Kind: EventRelMotion, Channel: relAxisX, Value: 3, TimestampUS: 1}}
	b2.queued = []BridgeEvent{{Kind: EventRelMotion, Channel: relAxisX, Value: 4, TimestampUS: 1}}

	if err := agg.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	st := agg.State()
	if st.DX != 7 || st.X != 7 {
		t.Fatalf("merged state = %+v, want DX=7 X=7", st)
	}
}

func TestAggregateReuseIsOrderInvariant(t *testing.T) {
	reg := NewRegistry()
	m1, _ := newAggTestMouse(t, reg, "m1")
	m2, _ := newAggTestMouse(t, reg, "m2")

	first, err := reg.Aggregate([]ID{m1.ID(), m2.ID()}, TypeUnknown)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	second, err := reg.Aggregate([]ID{m2.ID(), m1.ID()}, TypeUnknown)
	if err != nil {
		t.Fatalf("Aggregate (reversed order): %v", err)
	}
	if first.ID() != second.ID() {
		t.Fatalf("reversed-order aggregate request should reuse the existing aggregate, got different ids %v %v", first.ID(), second.ID())
	}
}

func TestAggregateSingleIDReturnsThatDevice(t *testing.T) {
	reg := NewRegistry()
	m1, _ := newAggTestMouse(t, reg, "m1")
	d, err := reg.Aggregate([]ID{m1.ID()}, TypeUnknown)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if d.ID() != m1.ID() {
		t.Fatalf("single-id Aggregate should return that device unchanged")
	}
}

func TestAggregateMixedTypesRejected(t *testing.T) {
	reg := NewRegistry()
	m1, _ := newAggTestMouse(t, reg, "m1")
	kbBridge := newFakeBridge("kb")
	k := newKeyboard(reg.newDeviceID(), kbBridge, reg)
	reg.addDevice(k)
	if err := k.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if _, err := reg.Aggregate([]ID{m1.ID(), k.ID()}, TypeUnknown); err != ErrCapabilityMismatch {
		t.Fatalf("err = %v, want ErrCapabilityMismatch for mixed device types", err)
	}
}

func TestAggregateConstructionCycleRefused(t *testing.T) {
	reg := NewRegistry()
	m1, _ := newAggTestMouse(t, reg, "m1")
	m2, _ := newAggTestMouse(t, reg, "m2")

	aggA, err := reg.Aggregate([]ID{m1.ID(), m2.ID()}, TypeUnknown)
	if err != nil {
		t.Fatalf("Aggregate A: %v", err)
	}

	m3, _ := newAggTestMouse(t, reg, "m3")
	aggB, err := reg.Aggregate([]ID{aggA.ID(), m3.ID()}, TypeUnknown)
	if err != nil {
		t.Fatalf("Aggregate B: %v", err)
	}

	// m1 already belongs to B through A, so aggregating B together with m1 is refused
	if _, err := reg.Aggregate([]ID{aggB.ID(), m1.ID()}, TypeUnknown); err != ErrAggregateCycle {
		t.Fatalf("err = %v, want ErrAggregateCycle", err)
	}
}

func TestAggregateMotorRemapAppendsMemberMotorsInOrder(t *testing.T) {
	reg := NewRegistry()
	b1 := newFakeBridge("g1")
	b1.motors = 2
	g1 := newGamepad(reg.newDeviceID(), b1, reg)
	reg.addDevice(g1)
	if err := g1.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}

	b2 := newFakeBridge("g2")
	b2.motors = 1
	g2 := newGamepad(reg.newDeviceID(), b2, reg)
	reg.addDevice(g2)
	if err := g2.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}

	d, err := reg.Aggregate([]ID{g1.ID(), g2.ID()}, TypeUnknown)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	agg := d.(*Aggregate)
	if agg.MotorCount() != 3 {
		t.Fatalf("MotorCount = %d, want 3 (2 from g1 + 1 from g2)", agg.MotorCount())
	}
	if agg.motorMap[0].memberIndex != 0 || agg.motorMap[2].memberIndex != 1 {
		t.Fatalf("motor map did not append members in order: %+v", agg.motorMap)
	}
}

// TestAggregateCascadesWhenAnyMemberDies exercises §4.6/§8 Scenario 7's
// cascade rule: an aggregate is destroyed as soon as ANY one of its
// members is destroyed, not once every member is gone. A(m1,m2);
// destroying m1 alone must take A down with it, while m2 (not itself
// a cascade target) survives untouched.
func TestAggregateCascadesWhenAnyMemberDies(t *testing.T) {
	reg := NewRegistry()
	m1, _ := newAggTestMouse(t, reg, "m1")
	m2, _ := newAggTestMouse(t, reg, "m2")

	aDev, err := reg.Aggregate([]ID{m1.ID(), m2.ID()}, TypeUnknown)
	if err != nil {
		t.Fatalf("Aggregate A: %v", err)
	}

	if err := reg.DestroyDevice(m1.ID()); err != nil {
		t.Fatalf("DestroyDevice: %v", err)
	}
	if _, ok := reg.Get(m1.ID()); ok {
		t.Fatalf("m1 should be destroyed")
	}
	if _, ok := reg.Get(aDev.ID()); ok {
		t.Fatalf("A should have cascaded to destruction: m1, one of its members, was destroyed")
	}
	if _, ok := reg.Get(m2.ID()); !ok {
		t.Fatalf("m2 should still be alive; it was not itself a cascade target")
	}
}

// TestAggregateCascadeDestructionLeafFirst exercises §8 Scenario 7's
// worked example directly: aggregate A over {D1,D2}, aggregate B over
// {A,D3} (a single-id Aggregate call returns A itself, so B needs a
// second member to be a distinct aggregate). destroy_device(D1) destroys
// D1, then A, then B, in that order, each emitting its own Destroyed
// callback; D2 survives untouched.
func TestAggregateCascadeDestructionLeafFirst(t *testing.T) {
	reg := NewRegistry()
	d1, _ := newAggTestMouse(t, reg, "d1")
	d2, _ := newAggTestMouse(t, reg, "d2")
	d3, _ := newAggTestMouse(t, reg, "d3")

	aDev, err := reg.Aggregate([]ID{d1.ID(), d2.ID()}, TypeUnknown)
	if err != nil {
		t.Fatalf("Aggregate A: %v", err)
	}
	bDev, err := reg.Aggregate([]ID{aDev.ID(), d3.ID()}, TypeUnknown)
	if err != nil {
		t.Fatalf("Aggregate B: %v", err)
	}

	var destroyed []ID
	reg.RegisterGlobalStatus(func(id ID, status Status) {
		if status == StatusDestroyed {
			destroyed = append(destroyed, id)
		}
	})

	if err := reg.DestroyDevice(d1.ID()); err != nil {
		t.Fatalf("DestroyDevice(d1): %v", err)
	}

	wantOrder := []ID{d1.ID(), aDev.ID(), bDev.ID()}
	if len(destroyed) != len(wantOrder) {
		t.Fatalf("destroyed = %v, want %v", destroyed, wantOrder)
	}
	for i := range wantOrder {
		if destroyed[i] != wantOrder[i] {
			t.Fatalf("destroyed = %v, want %v", destroyed, wantOrder)
		}
	}

	if _, ok := reg.Get(d1.ID()); ok {
		t.Fatalf("d1 should be destroyed")
	}
	if _, ok := reg.Get(aDev.ID()); ok {
		t.Fatalf("A should have cascaded to destruction: d1, one of its members, was destroyed")
	}
	if _, ok := reg.Get(bDev.ID()); ok {
		t.Fatalf("B should have cascaded to destruction: its member A was destroyed")
	}
	if _, ok := reg.Get(d2.ID()); !ok {
		t.Fatalf("d2 should still be alive; it was not itself a cascade target")
	}
}
