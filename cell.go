package crossput

import "math"

// digitalBit is the MSB of the packed timestamp field; when set, the cell's
// current digital state is "pressed".
const digitalBit uint64 = 1 << 63

// tsMask isolates the 63-bit microsecond timestamp from the packed field.
const tsMask uint64 = digitalBit - 1

// Cell is the TSTV primitive: a packed timestamp + digital-state bit, a
// threshold in [0,1], and an analog value in [0,1]. The zero Cell has
// never been written, timestamp 0, threshold 0, value 0, digital false.
// "Never written" is tracked explicitly rather than inferred from the
// timestamp, since a legitimate write (a resync replay) can itself carry
// timestamp 0.
type Cell struct {
	ts    uint64 // high bit: digital state; low 63 bits: µs timestamp
	thr   float32
	value float32

	// written tracks "has this cell ever been modified" independently of
	// ts, since a resync event legitimately carries ts == 0 (§8 Scenario
	// 3) and must not be mistaken for "never written" on the following
	// real event.
	written bool
}

// Timestamp returns the microsecond timestamp of the most recent accepted
// transition. A timestamp of 0 means the cell was never written or its
// last accepted transition carried timestamp 0 (a resync replay).
func (c *Cell) Timestamp() uint64 {
	return c.ts & tsMask
}

// Digital reports the cell's current digital (pressed) state.
func (c *Cell) Digital() bool {
	return c.ts&digitalBit != 0
}

// Value returns the cell's current analog value in [0,1].
func (c *Cell) Value() float32 {
	return c.value
}

// Threshold returns the cell's digital/analog crossover threshold.
func (c *Cell) Threshold() float32 {
	return c.thr
}

// SetThreshold assigns a new threshold, clamped to [0,1]. Does not
// recompute the current digital state; the next Modify call will.
func (c *Cell) SetThreshold(t float32) {
	c.thr = clamp01(t)
}

// AgeSeconds returns the time since the cell's last transition, given the
// device's current update timestamp in microseconds. Returns +Inf if the
// cell's timestamp is 0 (never written, or last written by a
// zero-timestamp resync replay).
func (c *Cell) AgeSeconds(updateTS uint64) float64 {
	ts := c.Timestamp()
	if ts == 0 {
		return math.Inf(1)
	}
	return float64(updateTS-ts) / 1e6
}

// hysteresisMargin computes the anti-bounce margin for a given threshold:
// m = min(t, 1-t) * 0.025.
func hysteresisMargin(t float32) float32 {
	m := t
	if 1-t < m {
		m = 1 - t
	}
	return m * 0.025
}

// nextDigital applies the hysteresis rule: while pressed, release only
// below (t-m); while released, press only above (t+m).
func nextDigital(v, t float32, pressed bool) bool {
	m := hysteresisMargin(t)
	if pressed {
		return v > t-m
	}
	return v > t+m
}

// Modify folds a new analog reading at the given event timestamp (µs)
// into the cell under the anti-bounce rule. Returns true if the cell's
// analog value or digital state changed, or if this is the cell's first
// write with a resulting pressed state of true.
func (c *Cell) Modify(newValue float32, eventTS uint64) bool {
	firstWrite := !c.written
	c.written = true
	oldDigital := c.Digital()
	newValue = clamp01(newValue)

	newDigital := nextDigital(newValue, c.thr, oldDigital)

	modified := false
	stateChanged := newDigital != oldDigital
	valueChanged := newValue != c.value

	if firstWrite && newDigital {
		modified = true
	}
	if stateChanged || valueChanged {
		modified = true
	}

	if stateChanged || firstWrite {
		ts := eventTS & tsMask
		if newDigital {
			c.ts = ts | digitalBit
		} else {
			c.ts = ts
		}
	}
	if valueChanged || firstWrite {
		c.value = newValue
	}

	return modified
}

// ModifyCounted behaves like Modify but additionally maintains a shared
// "keys pressed" counter, incrementing it on a rising digital transition
// and decrementing it on a falling one. The very first write is never
// allowed to decrement the counter, since the prior state it transitions
// from is spurious (false) rather than observed.
func (c *Cell) ModifyCounted(newValue float32, eventTS uint64, counter *int) bool {
	firstWrite := !c.written
	oldDigital := c.Digital()

	modified := c.Modify(newValue, eventTS)

	newDigital := c.Digital()
	if newDigital != oldDigital {
		if newDigital {
			*counter++
		} else if !firstWrite {
			*counter--
		}
	}

	return modified
}

func clamp01(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
