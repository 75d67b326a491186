package crossput

import (
	"errors"
	"fmt"
)

// ErrCapabilityMismatch is returned when an operation is attempted
// against a capability the target does not have (§7 "Capability
// mismatch"): an unsupported force kind, a nonexistent motor, a write
// after orphaning, or a kind change on an existing force.
var ErrCapabilityMismatch = errors.New("crossput: capability mismatch")

// ErrAggregateCycle is returned by Aggregate when forming the requested
// aggregate would create a cycle, and by DestroyDevice when a cascade
// cannot reach a fixed point (§7 "Cycle" errors).
var ErrAggregateCycle = errors.New("crossput: aggregate cycle")

// Registry holds every live device, the callback table, the
// identifier allocator, and the aggregate member-link index (§4.1, §9's
// "explicit registry value" design note). The package-level free
// functions in api.go delegate to a single default Registry; embedders
// needing more than one independent universe of devices may construct
// their own.
//
// Registry is not safe for concurrent use from multiple goroutines
// (§5's "Shared resources" paragraph) — callers own their own
// synchronization if they call into a Registry from more than one
// goroutine.
type Registry struct {
	alloc      *idAllocator
	devices    map[ID]Device
	callbacks  *callbackTable
	inCallback bool

	// aggregateMembers maps an aggregate id to its ordered member ids;
	// memberOf maps a member id to every aggregate id containing it
	// (§4.6's "secondary index from member-id to aggregate-id").
	aggregateMembers map[ID][]ID
	memberOf         map[ID][]ID
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	alloc := newIDAllocator()
	return &Registry{
		alloc:            alloc,
		devices:          make(map[ID]Device),
		callbacks:        newCallbackTable(alloc),
		aggregateMembers: make(map[ID][]ID),
		memberOf:         make(map[ID][]ID),
	}
}

// guard runs fn with the reentrancy check described in §4.4/§5: any
// attempt to enter a second management operation while a callback is
// executing fails with *ErrReentrant instead of running.
func (r *Registry) guard(operation string, fn func() error) error {
	if r.inCallback {
		return &ErrReentrant{Operation: operation}
	}
	return fn()
}

// panicIfReentrant enforces the same §4.4 reentrancy rule for the
// callback-registration surface (callback_api.go), whose CallbackID/bool
// return types have no room for an error. §4.4 names registering and
// unregistering callbacks as the first forbidden operation during
// dispatch, and §7 calls a protocol violation of this kind a hard
// runtime error — matching the original's ProtectManagementAPI, which
// throws rather than returning a status.
func (r *Registry) panicIfReentrant(operation string) {
	if r.inCallback {
		panic(&ErrReentrant{Operation: operation})
	}
}

// runCallbacks sets the reentrancy flag for the duration of fn, clearing
// it on every exit path including a panic unwinding through fn.
func (r *Registry) runCallbacks(fn func()) {
	r.inCallback = true
	defer func() { r.inCallback = false }()
	fn()
}

func (r *Registry) newDeviceID() ID {
	return r.alloc.allocate()
}

// addDevice inserts a newly constructed device into the registry. Called
// by discovery and by aggregate construction; not reentrancy-guarded on
// its own since it is always invoked from within an already-guarded
// operation (discover, Aggregate).
func (r *Registry) addDevice(d Device) {
	r.devices[d.ID()] = d
}

// Get returns the device with the given id, or (nil, false).
func (r *Registry) Get(id ID) (Device, bool) {
	d, ok := r.devices[id]
	return d, ok
}

// Count returns the number of registered devices. If ignoreDisconnected
// is true, disconnected devices are excluded from the count.
func (r *Registry) Count(ignoreDisconnected bool) int {
	if !ignoreDisconnected {
		return len(r.devices)
	}
	n := 0
	for _, d := range r.devices {
		if d.IsConnected() {
			n++
		}
	}
	return n
}

// All returns every registered device in unspecified order.
func (r *Registry) All() []Device {
	out := make([]Device, 0, len(r.devices))
	for _, d := range r.devices {
		out = append(out, d)
	}
	return out
}

// Mice, Keyboards, and Gamepads return the registered devices of the
// matching concrete type; aggregates are not included.
func (r *Registry) Mice() []*Mouse {
	var out []*Mouse
	for _, d := range r.devices {
		if m, ok := d.(*Mouse); ok {
			out = append(out, m)
		}
	}
	return out
}

func (r *Registry) Keyboards() []*Keyboard {
	var out []*Keyboard
	for _, d := range r.devices {
		if k, ok := d.(*Keyboard); ok {
			out = append(out, k)
		}
	}
	return out
}

func (r *Registry) Gamepads() []*Gamepad {
	var out []*Gamepad
	for _, d := range r.devices {
		if g, ok := d.(*Gamepad); ok {
			out = append(out, g)
		}
	}
	return out
}

// DestroyDevice destroys a single device, cascading to every aggregate
// that (transitively) contains it as a member (§4.6 "Cascade
// destruction"). Fails with *ErrReentrant if called from within a
// callback.
func (r *Registry) DestroyDevice(id ID) error {
	return r.guard("DestroyDevice", func() error {
		return r.destroyCascade([]ID{id})
	})
}

// DestroyAllDevices destroys every device in the registry, firing a
// Destroyed callback for each.
func (r *Registry) DestroyAllDevices() error {
	return r.guard("DestroyAllDevices", func() error {
		ids := make([]ID, 0, len(r.devices))
		for id := range r.devices {
			ids = append(ids, id)
		}
		return r.destroyCascade(ids)
	})
}

// destroyCascade implements §4.6/§8 Scenario 7's cascade rule: an
// aggregate is destroyed as soon as any one of its members is destroyed,
// not once all of them are (the original's DestroyDevice, impl.cpp:256-
// 257, "aggregates are destroyed as soon as any of their targets are").
// It gathers the transitive closure of ancestor aggregates reachable
// from the targets via memberOf, then destroys the whole closure in
// target-first order: a target's own destruction is recorded before its
// parent's, and a parent's before its own parent's, so a chain
// D1 -> A -> B destroys D1, then A, then B, matching the scenario.
func (r *Registry) destroyCascade(targets []ID) error {
	toDestroy := make(map[ID]bool, len(targets))
	onStack := make(map[ID]bool)
	order := make([]ID, 0, len(targets))

	var visit func(id ID) error
	visit = func(id ID) error {
		if onStack[id] {
			return ErrAggregateCycle
		}
		if toDestroy[id] {
			return nil
		}
		if _, ok := r.devices[id]; !ok {
			return nil
		}

		onStack[id] = true
		toDestroy[id] = true
		order = append(order, id)

		for _, parent := range r.memberOf[id] {
			if err := visit(parent); err != nil {
				return err
			}
		}

		onStack[id] = false
		return nil
	}

	for _, id := range targets {
		if err := visit(id); err != nil {
			return err
		}
	}

	for _, id := range order {
		r.destroyOne(id)
		r.removeFromMemberships(id)
	}

	return nil
}

func (r *Registry) removeFromMemberships(id ID) {
	delete(r.aggregateMembers, id)
	for member, parents := range r.memberOf {
		out := parents[:0]
		for _, p := range parents {
			if p != id {
				out = append(out, p)
			}
		}
		if len(out) == 0 {
			delete(r.memberOf, member)
		} else {
			r.memberOf[member] = out
		}
	}
}

func (r *Registry) destroyOne(id ID) {
	d, ok := r.devices[id]
	if !ok {
		return
	}

	if bd, ok := any(d).(forceOwner); ok {
		bd.destroyAllForces()
	}

	delete(r.devices, id)
	r.callbacks.unregisterAllForDevice(id)

	r.runCallbacks(func() {
		r.callbacks.dispatch(id, KindDeviceStatus, int64(StatusDestroyed), func(fn any) {
			if cb, ok := fn.(func(ID, Status)); ok {
				cb(id, StatusDestroyed)
			}
		})
	})
}

// fireStatus dispatches a KindDeviceStatus callback for a Connected or
// Disconnected transition (Destroyed is fired directly by destroyOne).
func (r *Registry) fireStatus(id ID, status Status) {
	r.runCallbacks(func() {
		r.callbacks.dispatch(id, KindDeviceStatus, int64(status), func(fn any) {
			if cb, ok := fn.(func(ID, Status)); ok {
				cb(id, status)
			}
		})
	})
}

// forceOwner is implemented by every concrete device type so destruction
// can orphan/free its forces without a type switch per kind.
type forceOwner interface {
	destroyAllForces()
}

// DiscoverOptions is an empty options type. Discover takes no options
// and does not accept a DiscoverOptions value.
type DiscoverOptions struct{}

// errCombine is a small helper mirroring fmt.Errorf("%s: %w", ...)
// chains used throughout the teacher's codebase, used by Discover to
// report bridge-permanent errors without aborting the whole scan.
func errCombine(prefix string, err error) error {
	return fmt.Errorf("%s: %w", prefix, err)
}
