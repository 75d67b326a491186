package crossput

// MaxEnvelopeSeconds is the platform-constant cap on total force
// envelope time (§4.5, §6).
const MaxEnvelopeSeconds float32 = 32

// ForceKind enumerates the supported effect kinds (§4.5).
type ForceKind int

const (
	ForceRumble ForceKind = iota
	ForceConstant
	ForceRamp
	ForceSine
	ForceTriangle
	ForceSquare
	ForceSawtoothUp
	ForceSawtoothDown
	ForceSpring
	ForceFriction
	ForceDamper
	ForceInertia
)

// Envelope is the attack/sustain/release time+gain triple bounding an
// effect (§4.5, Glossary "Envelope"). Times are in seconds.
type Envelope struct {
	AttackTime, AttackGain    float32
	SustainTime, SustainGain  float32
	ReleaseTime, ReleaseGain  float32
}

// Clamped returns a copy of e with AttackTime/SustainTime/ReleaseTime
// scaled down, preserving their relative proportions, so their sum never
// exceeds MaxEnvelopeSeconds (§4.5, §8 Scenario 4).
func (e Envelope) Clamped() Envelope {
	total := e.AttackTime + e.SustainTime + e.ReleaseTime
	if total <= MaxEnvelopeSeconds || total == 0 {
		return e
	}
	scale := MaxEnvelopeSeconds / total
	e.AttackTime *= scale
	e.SustainTime *= scale
	e.ReleaseTime *= scale
	return e
}

// ForceParams is the closed, tagged-union parameter record (§4.5, §9
// "sum type" design note). Each concrete type carries only the fields
// relevant to its kind; Kind() identifies which.
type ForceParams interface {
	Kind() ForceKind
	forceParams() // unexported marker, closes the interface to this package's types
}

// RumbleParams drives two simple motors directly (§4.5 ForceRumble).
type RumbleParams struct {
	StrongMagnitude float32 // [0,1]
	WeakMagnitude   float32 // [0,1]
}

func (RumbleParams) Kind() ForceKind { return ForceRumble }
func (RumbleParams) forceParams()    {}

// ConstantParams applies a constant force along a direction (§4.5).
type ConstantParams struct {
	Magnitude float32 // [-1,1]
	Direction float32 // degrees, [0,360)
	Envelope  Envelope
}

func (ConstantParams) Kind() ForceKind { return ForceConstant }
func (ConstantParams) forceParams()    {}

// RampParams ramps linearly from Start to End magnitude; it carries no
// duration field of its own.
type RampParams struct {
	Start, End float32 // [-1,1]
	Direction  float32
	Envelope   Envelope
}

func (RampParams) Kind() ForceKind { return ForceRamp }
func (RampParams) forceParams()    {}

// PeriodicParams drives a waveform effect (sine/triangle/square/sawtooth,
// §4.5). Its kind is set once by NewPeriodicParams and kept in an
// unexported field, matching §4.5's "kind mismatch" write-time error.
type PeriodicParams struct {
	Magnitude float32 // [0,1]
	Offset    float32 // [-1,1]
	Phase     float32 // [0,1]
	Period    float32 // seconds
	Direction float32
	Envelope  Envelope
	kind      ForceKind
}

func NewPeriodicParams(kind ForceKind) PeriodicParams {
	return PeriodicParams{kind: kind}
}

func (p PeriodicParams) Kind() ForceKind { return p.kind }
func (PeriodicParams) forceParams()      {}

// ConditionParams models spring/friction/damper/inertia effects (§4.5).
type ConditionParams struct {
	RightCoeff, LeftCoeff       float32 // [-1,1]
	RightSaturation, LeftSaturation float32 // >=0
	Deadband                    float32 // [0,1]
	CenterOffset                float32 // [-1,1]
	kind                        ForceKind
}

func NewConditionParams(kind ForceKind) ConditionParams {
	return ConditionParams{kind: kind}
}

func (c ConditionParams) Kind() ForceKind { return c.kind }
func (ConditionParams) forceParams()      {}

// ForceStatus mirrors whether an effect is currently playing (§3 "Force"
// entity's "last-known status").
type ForceStatus int

const (
	ForceInactive ForceStatus = iota
	ForceActive
)

// Force is one effect instance (§3, §4.5). Its parent device is nil once
// orphaned; an orphaned force retains its identifier, kind, motor index,
// and parameters, and always reports ForceInactive.
type Force struct {
	id       ID
	motor    int
	kind     ForceKind
	params   ForceParams
	status   ForceStatus
	parent   Device
	bridge   Bridge
	nativeID int
	created  bool
}

func (f *Force) ID() ID         { return f.id }
func (f *Force) Motor() int     { return f.motor }
func (f *Force) Kind() ForceKind { return f.kind }
func (f *Force) Params() ForceParams { return f.params }

// SetParams replaces the stored parameter set. write_params (§4.5) will
// fail later if kind doesn't match the effect's creation kind.
func (f *Force) SetParams(p ForceParams) {
	f.params = p
}

// IsOrphaned reports whether the force's parent device has disconnected
// (§3 invariant, §8 universal quantifier).
func (f *Force) IsOrphaned() bool {
	return f.parent == nil
}

// Status returns the force's last-known activity state.
func (f *Force) Status() ForceStatus {
	return f.status
}

// WriteParams uploads the current parameter set to the native layer
// (§4.5 write_params). Fails with ErrCapabilityMismatch on an orphaned
// force or a kind mismatch between stored params and creation kind.
func (f *Force) WriteParams() error {
	if f.IsOrphaned() {
		return ErrCapabilityMismatch
	}
	if f.params.Kind() != f.kind {
		return ErrCapabilityMismatch
	}
	return f.bridge.WriteEffect(f.nativeID, f.params)
}

// SetActive starts (true) or stops (false) the effect. Starting
// implicitly calls WriteParams first. No-op when already in the
// requested state.
func (f *Force) SetActive(active bool) error {
	if f.IsOrphaned() {
		return ErrCapabilityMismatch
	}
	wantStatus := ForceInactive
	if active {
		wantStatus = ForceActive
	}
	if f.status == wantStatus {
		return nil
	}
	if active {
		if err := f.WriteParams(); err != nil {
			return err
		}
	}
	if err := f.bridge.SetEffectActive(f.nativeID, active); err != nil {
		return err
	}
	f.status = wantStatus
	return nil
}

// orphan clears the force's parent pointer and marks it inactive,
// retaining its identity and parameters (§3 "orphaned force" invariant).
func (f *Force) orphan() {
	f.parent = nil
	f.status = ForceInactive
}

// destroy stops the effect and frees native resources (§4.5
// "Destruction"). Safe to call on an already-orphaned force (native
// resources were already released by the bridge on disconnect in that
// case, so the erase is skipped).
func (f *Force) destroy() {
	if f.parent != nil && f.bridge != nil {
		_ = f.bridge.SetEffectActive(f.nativeID, false)
		_ = f.bridge.DestroyEffect(f.nativeID)
	}
}

// motorForces is implemented by concrete device types to expose the
// shared force-management operations (§6 "Force (optional feature)").
type motorForces interface {
	Device
	tryCreateForceOn(motor int, kind ForceKind) (*Force, error)
}

// tryCreateForce is the shared implementation behind each device type's
// TryCreateForce method (§4.5 try_create).
func tryCreateForce(bd *baseDevice, owner Device, motor int, kind ForceKind) (*Force, error) {
	if bd.reg != nil && bd.reg.inCallback {
		return nil, &ErrReentrant{Operation: "TryCreateForce"}
	}
	if bd.bridge == nil || !bd.connected {
		return nil, ErrCapabilityMismatch
	}
	if !bd.bridge.SupportsForce(motor, kind) {
		return nil, ErrCapabilityMismatch
	}

	var zeroParams ForceParams
	switch kind {
	case ForceRumble:
		zeroParams = RumbleParams{}
	case ForceConstant:
		zeroParams = ConstantParams{}
	case ForceRamp:
		zeroParams = RampParams{}
	case ForceSine, ForceTriangle, ForceSquare, ForceSawtoothUp, ForceSawtoothDown:
		zeroParams = NewPeriodicParams(kind)
	case ForceSpring, ForceFriction, ForceDamper, ForceInertia:
		zeroParams = NewConditionParams(kind)
	default:
		return nil, ErrCapabilityMismatch
	}

	nativeID, ok, err := bd.bridge.CreateEffect(motor, kind, zeroParams)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCapabilityMismatch
	}

	id := bd.reg.newDeviceID()
	f := &Force{
		id:       id,
		motor:    motor,
		kind:     kind,
		params:   zeroParams,
		parent:   owner,
		bridge:   bd.bridge,
		nativeID: nativeID,
		created:  true,
	}
	bd.forces[id] = f
	bd.forceOrder = append(bd.forceOrder, id)
	return f, nil
}

func getForce(bd *baseDevice, id ID) (*Force, bool) {
	f, ok := bd.forces[id]
	return f, ok
}

func destroyForce(bd *baseDevice, id ID) bool {
	f, ok := bd.forces[id]
	if !ok {
		return false
	}
	f.destroy()
	delete(bd.forces, id)
	for i, fid := range bd.forceOrder {
		if fid == id {
			bd.forceOrder = append(bd.forceOrder[:i], bd.forceOrder[i+1:]...)
			break
		}
	}
	return true
}

func destroyAllForces(bd *baseDevice) {
	for _, id := range bd.forceOrder {
		if f, ok := bd.forces[id]; ok {
			f.destroy()
		}
	}
	bd.forces = make(map[ID]*Force)
	bd.forceOrder = nil
}
