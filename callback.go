package crossput

import "fmt"

// CallbackKind discriminates the event shape a callback handles (§4.4).
type CallbackKind int

const (
	KindDeviceStatus CallbackKind = iota
	KindMouseMove
	KindMouseScroll
	KindMouseButton
	KindKeyboardKey
	KindGamepadButton
	KindGamepadThumbstick
)

// Status is the discriminator value used with KindDeviceStatus.
type Status int

const (
	StatusConnected Status = iota
	StatusDisconnected
	StatusDestroyed
)

// CallbackID is an opaque handle returned on registration, used to
// unregister a specific callback later.
type CallbackID ID

// callbackKey is the (device, kind, filter) composite §4.4 keys records
// by. filterSet distinguishes "no filter" (wildcard, matches any
// discriminator) from "filter == 0" (a real discriminator value of 0).
type callbackKey struct {
	device    ID
	kind      CallbackKind
	filter    int64
	filterSet bool
}

type callbackRecord struct {
	id      CallbackID
	key     callbackKey
	fn      any
	removed bool
}

// callbackTable is the single global table of callback records described
// in §4.4, owned by a Registry.
type callbackTable struct {
	alloc    *idAllocator
	records  map[CallbackID]*callbackRecord
	byKey    map[callbackKey][]CallbackID
	inDevice map[ID][]CallbackID
}

func newCallbackTable(alloc *idAllocator) *callbackTable {
	return &callbackTable{
		alloc:    alloc,
		records:  make(map[CallbackID]*callbackRecord),
		byKey:    make(map[callbackKey][]CallbackID),
		inDevice: make(map[ID][]CallbackID),
	}
}

func (t *callbackTable) register(device ID, kind CallbackKind, filter int64, hasFilter bool, fn any) CallbackID {
	id := CallbackID(t.alloc.allocate())
	key := callbackKey{device: device, kind: kind, filter: filter, filterSet: hasFilter}
	rec := &callbackRecord{id: id, key: key, fn: fn}
	t.records[id] = rec
	t.byKey[key] = append(t.byKey[key], id)
	if device != NoID {
		t.inDevice[device] = append(t.inDevice[device], id)
	}
	return id
}

// unregister removes a single callback by id. Returns false if no such
// callback exists (already removed, or never registered).
func (t *callbackTable) unregister(id CallbackID) bool {
	rec, ok := t.records[id]
	if !ok {
		return false
	}
	rec.removed = true
	delete(t.records, id)
	return true
}

// unregisterAllForDevice removes every callback attached to a device, as
// used by device destruction (§4.4 "device-attached registrations").
func (t *callbackTable) unregisterAllForDevice(device ID) {
	for _, id := range t.inDevice[device] {
		t.unregister(id)
	}
	delete(t.inDevice, device)
}

// sweepBucket drops tombstoned ids from a byKey bucket, implementing
// §4.4's "lazy cleanup" rule.
func (t *callbackTable) sweepBucket(key callbackKey) []any {
	ids := t.byKey[key]
	if len(ids) == 0 {
		return nil
	}
	live := ids[:0]
	var fns []any
	for _, id := range ids {
		rec, ok := t.records[id]
		if !ok || rec.removed {
			continue
		}
		live = append(live, id)
		fns = append(fns, rec.fn)
	}
	if len(live) == 0 {
		delete(t.byKey, key)
	} else {
		t.byKey[key] = live
	}
	return fns
}

// dispatch invokes every callback matching (device, kind, filter) in the
// §4.4 priority order: device-specific+filtered, device-specific+any,
// global+filtered, global+any. invoke is called once per matching
// callback function; the reentrancy guard must be held by the caller for
// the duration of dispatch (enforced by Registry, not here).
func (t *callbackTable) dispatch(device ID, kind CallbackKind, filter int64, invoke func(fn any)) {
	buckets := []callbackKey{
		{device: device, kind: kind, filter: filter, filterSet: true},
		{device: device, kind: kind, filterSet: false},
	}
	if device != NoID {
		buckets = append(buckets,
			callbackKey{device: NoID, kind: kind, filter: filter, filterSet: true},
			callbackKey{device: NoID, kind: kind, filterSet: false},
		)
	}
	for _, key := range buckets {
		for _, fn := range t.sweepBucket(key) {
			invoke(fn)
		}
	}
}

// ErrReentrant is returned when a management-API operation is attempted
// from within a callback invocation (§4.4's reentrancy guard, §7's
// "Protocol violation").
type ErrReentrant struct {
	Operation string
}

func (e *ErrReentrant) Error() string {
	return fmt.Sprintf("crossput: %s called while a callback is executing (reentrant management call)", e.Operation)
}
