package crossput

import "errors"

// Classifier exposes the capability-bitfield "proof" scores a bridge
// computes for a raw source, consumed by classify (§4.8 "Type
// Deduction"). internal/evdevhid builds one of these per enumerated
// node from its ioctl capability queries.
type Classifier struct {
	HasRelMotion      bool
	HasAbsAxes        bool
	HasForceFeedback  bool
	KeyboardKeyCount  int // count of native key codes this source reports that map to a known Key
	GamepadKeyCount   int // count of native key codes that map to a known gamepad Button
	HasBlacklistedCap bool // stylus/touch/tablet tool capability present
	EmitsSyncEvents   bool
}

// classify implements §4.8: accumulate per-type proof scores from the
// classifier's capability bits, and return the highest-scoring type if
// its score exceeds 1; ties or no qualifying score yield TypeUnknown.
func classify(c Classifier) Type {
	if !c.EmitsSyncEvents {
		return TypeUnknown
	}

	mouseScore := 0
	keyboardScore := 0
	gamepadScore := 0

	if c.HasRelMotion {
		mouseScore += 2
	}
	if c.HasAbsAxes {
		gamepadScore += 2
	}
	if c.HasForceFeedback {
		gamepadScore += 2
	}
	keyboardScore += c.KeyboardKeyCount
	gamepadScore += c.GamepadKeyCount

	if c.HasBlacklistedCap {
		mouseScore--
		keyboardScore--
		gamepadScore--
	}

	best := TypeUnknown
	bestScore := 1 // strictly-greater-than-1 is required to win
	tie := false

	consider := func(t Type, score int) {
		switch {
		case score > bestScore:
			best = t
			bestScore = score
			tie = false
		case score == bestScore && score > 1:
			tie = true
		}
	}

	consider(TypeMouse, mouseScore)
	consider(TypeKeyboard, keyboardScore)
	consider(TypeGamepad, gamepadScore)

	if tie {
		return TypeUnknown
	}
	return best
}

// Enumerator is the discovery-side bridge collaborator (§4.7, §6): it
// walks the OS input enumeration and, for every node, reports the
// Classifier needed to deduce its type and a factory that builds a
// connected Bridge for it if selected.
type Enumerator interface {
	Enumerate() ([]EnumeratedSource, error)
}

// EnumeratedSource is one raw input source discovered by an Enumerator,
// not yet known to be a mouse/keyboard/gamepad.
type EnumeratedSource struct {
	HWID       HWID
	Classifier Classifier
	NewBridge  func() (Bridge, error)
}

// Discover walks enumerator's sources and, for every one without an
// existing device object (matched by HWID), deduces its type and
// constructs a new device (§4.7, §4.8). Returns the number of newly
// created devices.
//
// A bridge-permanent error opening one node (§7) does not abort the
// scan; such errors are joined and returned alongside the count so a
// single unreadable node cannot hide the rest of a successful scan.
func (r *Registry) Discover(enumerator Enumerator) (int, error) {
	var created int
	err := r.guard("Discover", func() error {
		n, e := r.discover(enumerator)
		created = n
		return e
	})
	return created, err
}

func (r *Registry) discover(enumerator Enumerator) (int, error) {
	sources, err := enumerator.Enumerate()
	if err != nil {
		return 0, err
	}

	known := make(map[HWID]bool)
	for _, d := range r.devices {
		if hw, ok := hwidOf(d); ok {
			known[hw] = true
		}
	}

	var errs []error
	created := 0

	for _, src := range sources {
		if known[src.HWID] {
			continue
		}
		typ := classify(src.Classifier)
		if typ == TypeUnknown {
			continue
		}

		bridge, err := src.NewBridge()
		if err != nil {
			errs = append(errs, errCombine("open device", err))
			continue
		}

		id := r.newDeviceID()
		var d Device
		switch typ {
		case TypeMouse:
			d = newMouse(id, bridge, r)
		case TypeKeyboard:
			d = newKeyboard(id, bridge, r)
		case TypeGamepad:
			d = newGamepad(id, bridge, r)
		default:
			continue
		}
		r.addDevice(d)
		created++
	}

	return created, errors.Join(errs...)
}

// hwidOf extracts the bridge-reported HWID from a device, if it exposes
// one (aggregates do not).
func hwidOf(d Device) (HWID, bool) {
	type hwidDevice interface {
		hwid() HWID
	}
	hd, ok := d.(hwidDevice)
	if !ok {
		return HWID{}, false
	}
	return hd.hwid(), true
}

func (m *Mouse) hwid() HWID    { return m.bridge.HWID() }
func (k *Keyboard) hwid() HWID { return k.bridge.HWID() }
func (g *Gamepad) hwid() HWID  { return g.bridge.HWID() }

// FindByHWID returns the device bridge-reporting hw, if one is
// currently registered. Aggregates never match, since they have no
// hardware identity of their own (§6 "Hardware identity").
func (r *Registry) FindByHWID(hw HWID) (Device, bool) {
	for _, d := range r.devices {
		if dhw, ok := hwidOf(d); ok && dhw == hw {
			return d, true
		}
	}
	return nil, false
}

// UpdateAll updates every device in the registry. Members of aggregates
// are skipped so they are not double-updated; their owning aggregate's
// Update call already updates them (§4.7 "on the aggregate-enabled
// build, members of aggregates are skipped").
func (r *Registry) UpdateAll() error {
	return r.guard("UpdateAll", func() error {
		skip := make(map[ID]bool)
		for _, members := range r.aggregateMembers {
			for _, m := range members {
				skip[m] = true
			}
		}
		for id, d := range r.devices {
			if skip[id] {
				continue
			}
			if err := d.Update(); err != nil {
				return err
			}
		}
		return nil
	})
}
