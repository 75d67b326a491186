package crossput

// Aggregate binds N>=2 homogeneous devices into one virtual device
// (§4.6). Aggregating a single id returns that device unchanged; mixed
// types fail. An existing aggregate with exactly the same member set
// (order-invariant — see DESIGN.md's resolved Open Question) is reused
// instead of creating a duplicate.
//
// If one requested member already belongs, directly or through other
// aggregates, to another requested member (for example an aggregate
// requested together with one of its own members), Aggregate refuses
// with ErrAggregateCycle — one of the two outcomes §4.6/§9 leave
// undefined for aggregate-construction cycles (the other being "return
// any device"); this implementation picks "refuse" for clarity.
func (r *Registry) Aggregate(ids []ID, typeHint Type) (Device, error) {
	var result Device
	err := r.guard("Aggregate", func() error {
		d, e := r.aggregate(ids, typeHint)
		result = d
		return e
	})
	return result, err
}

func (r *Registry) aggregate(ids []ID, typeHint Type) (Device, error) {
	if len(ids) == 0 {
		return nil, ErrCapabilityMismatch
	}
	if len(ids) == 1 {
		d, ok := r.devices[ids[0]]
		if !ok {
			return nil, ErrCapabilityMismatch
		}
		return d, nil
	}

	typ := typeHint
	members := make([]Device, 0, len(ids))
	for _, id := range ids {
		d, ok := r.devices[id]
		if !ok {
			return nil, ErrCapabilityMismatch
		}
		if typ == TypeUnknown {
			typ = d.Type()
		} else if d.Type() != typ {
			return nil, ErrCapabilityMismatch
		}
		members = append(members, d)
	}

	if r.wouldCycle(ids) {
		return nil, ErrAggregateCycle
	}

	if existing := r.findExistingAggregate(ids); existing != nil {
		return existing, nil
	}

	agg := &Aggregate{
		id:      r.newDeviceID(),
		typ:     typ,
		members: append([]ID(nil), ids...),
		reg:     r,
		forces:  make(map[ID]*Force),
		gains:   make(map[int]float32),
	}

	switch typ {
	case TypeMouse:
		agg.mouse = &aggregateMouseState{prevAbsolute: make(map[ID][2]int64)}
	case TypeKeyboard:
		agg.keyboard = &aggregateKeyboardState{}
	case TypeGamepad:
		agg.gamepad = &aggregateGamepadState{state: GamepadState{Thumbsticks: make([]Thumbstick, 0)}}
		agg.buildMotorMap(members)
	}

	r.addDevice(agg)
	r.aggregateMembers[agg.id] = agg.members
	for _, id := range ids {
		r.memberOf[id] = append(r.memberOf[id], agg.id)
	}

	return agg, nil
}

// buildMotorMap appends each member's motors in order, so aggregate
// motor index i maps to a specific (member, member-motor-index) pair
// (§4.6 "Merging rules per type", gamepad case).
func (a *Aggregate) buildMotorMap(members []Device) {
	a.motorMap = nil
	for mi, d := range members {
		n := d.motorCount()
		for mm := 0; mm < n; mm++ {
			a.motorMap = append(a.motorMap, motorMapping{memberIndex: mi, memberMotor: mm})
		}
	}
}

// findExistingAggregate returns a previously constructed aggregate with
// exactly the same member-id set (order-invariant), or nil.
func (r *Registry) findExistingAggregate(ids []ID) *Aggregate {
	want := idSet(ids)
	for _, d := range r.devices {
		agg, ok := d.(*Aggregate)
		if !ok {
			continue
		}
		if len(agg.members) != len(ids) {
			continue
		}
		if idSetEqual(idSet(agg.members), want) {
			return agg
		}
	}
	return nil
}

// wouldCycle reports whether any proposed member already has one of the
// other proposed members as a (possibly indirect) ancestor aggregate.
func (r *Registry) wouldCycle(ids []ID) bool {
	proposed := idSet(ids)
	for _, id := range ids {
		if r.ancestorIntersects(id, proposed, make(map[ID]bool)) {
			return true
		}
	}
	return false
}

func (r *Registry) ancestorIntersects(id ID, proposed map[ID]bool, visited map[ID]bool) bool {
	if visited[id] {
		return false
	}
	visited[id] = true
	for _, parent := range r.memberOf[id] {
		if proposed[parent] {
			return true
		}
		if r.ancestorIntersects(parent, proposed, visited) {
			return true
		}
	}
	return false
}

func idSet(ids []ID) map[ID]bool {
	s := make(map[ID]bool, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

func idSetEqual(a, b map[ID]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}
