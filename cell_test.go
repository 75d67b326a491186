package crossput

import (
	"math"
	"testing"
)

func TestCellModifyFirstWritePressed(t *testing.T) {
	var c Cell
	c.SetThreshold(0.5)
	if !c.Modify(0.9, 100) {
		t.Fatalf("expected first write above threshold to report modified")
	}
	if !c.Digital() {
		t.Fatalf("expected digital true after first write above threshold")
	}
	if c.Timestamp() != 100 {
		t.Fatalf("timestamp = %d, want 100", c.Timestamp())
	}
}

func TestCellModifyFirstWriteReleasedNotModified(t *testing.T) {
	var c Cell
	c.SetThreshold(0.5)
	// value 0 leaves both the analog value and the digital state unchanged,
	// so only the first-write-pressed rule could report a modification
	if c.Modify(0, 100) {
		t.Fatalf("first write resulting in released state should not report modified")
	}
	if c.Digital() {
		t.Fatalf("expected digital false")
	}
}

// Hysteresis band math with non-boundary values (see DESIGN.md's
// "Inconsistency detected in spec.md §8 Scenario 2" note: the worked
// example's own numbers are internally contradictory, so this test
// exercises the same formula with values unambiguously outside the
// band instead of reproducing it verbatim).
func TestCellHysteresisBand(t *testing.T) {
	var c Cell
	c.SetThreshold(0.5) // margin = min(0.5,0.5)*0.025 = 0.0125; band [0.4875,0.5125]

	c.Modify(0.3, 1) // well below band -> released
	if c.Digital() {
		t.Fatalf("expected released at 0.3")
	}

	c.Modify(0.6, 2) // well above band -> pressed
	if !c.Digital() {
		t.Fatalf("expected pressed at 0.6")
	}

	c.Modify(0.49, 3) // inside the band while pressed -> stays pressed
	if !c.Digital() {
		t.Fatalf("expected to remain pressed for a value inside the hysteresis band")
	}

	c.Modify(0.3, 4) // below t-m -> releases
	if c.Digital() {
		t.Fatalf("expected released below t-m")
	}
}

func TestCellAgeSecondsNeverWritten(t *testing.T) {
	var c Cell
	if age := c.AgeSeconds(1_000_000); !math.IsInf(age, 1) {
		t.Fatalf("expected +Inf age for unwritten cell, got %v", age)
	}
}

func TestCellAgeSecondsComputed(t *testing.T) {
	var c Cell
	c.Modify(1, 1_000_000)
	if age := c.AgeSeconds(3_000_000); age != 2 {
		t.Fatalf("age = %v, want 2", age)
	}
}

func TestModifyCountedTracksRisingAndFalling(t *testing.T) {
	var c Cell
	c.SetThreshold(0.5)
	counter := 0

	c.ModifyCounted(0.9, 1, &counter)
	if counter != 1 {
		t.Fatalf("counter = %d, want 1 after rising edge", counter)
	}

	c.ModifyCounted(0.1, 2, &counter)
	if counter != 0 {
		t.Fatalf("counter = %d, want 0 after falling edge", counter)
	}
}

func TestModifyCountedZeroTimestampWriteStillCountsAsWritten(t *testing.T) {
	var c Cell
	c.SetThreshold(0.5)
	counter := 0

	// A resync-sourced write can legitimately carry timestamp 0; it must
	// still be treated as "written" so a later release decrements.
	c.ModifyCounted(0.9, 0, &counter)
	if counter != 1 {
		t.Fatalf("counter = %d, want 1 after a zero-timestamp rising write", counter)
	}

	c.ModifyCounted(0.1, 100, &counter)
	if counter != 0 {
		t.Fatalf("counter = %d, want 0: a release following a zero-timestamp write must still decrement", counter)
	}
}

func TestModifyCountedFirstWriteReleasedDoesNotDecrement(t *testing.T) {
	var c Cell
	c.SetThreshold(0.5)
	counter := 0

	c.ModifyCounted(0.1, 1, &counter)
	if counter != 0 {
		t.Fatalf("counter = %d, want 0 (first write released must not decrement)", counter)
	}
}
