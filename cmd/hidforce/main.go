// Command hidforce discovers gamepads and drives a rumble effect on
// the first force-capable motor it finds, for manual verification of
// the force-feedback surface. Grounded on the teacher's main.go.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/TriceHelix/crossput"
	"github.com/TriceHelix/crossput/internal/evdevhid"
)

func run() error {
	reg := crossput.NewRegistry()

	if _, err := reg.Discover(evdevhid.NewEnumerator()); err != nil {
		fmt.Fprintf(os.Stderr, "hidforce: discovery reported errors: %v\n", err)
	}

	gamepads := reg.Gamepads()
	if len(gamepads) == 0 {
		return fmt.Errorf("no gamepads found")
	}

	var target *crossput.Gamepad
	for _, g := range gamepads {
		if g.SupportsForce(0, crossput.ForceRumble) {
			target = g
			break
		}
	}
	if target == nil {
		return fmt.Errorf("no gamepad on the system supports ForceRumble on motor 0")
	}

	fmt.Printf("hidforce: driving rumble on %s\n", target.DisplayName())

	f, err := target.TryCreateForce(0, crossput.ForceRumble)
	if err != nil {
		return fmt.Errorf("create force: %w", err)
	}
	defer target.DestroyForce(f.ID())

	f.SetParams(crossput.RumbleParams{StrongMagnitude: 0.6, WeakMagnitude: 0.3})
	if err := f.SetActive(true); err != nil {
		return fmt.Errorf("activate force: %w", err)
	}

	time.Sleep(2 * time.Second)

	if err := f.SetActive(false); err != nil {
		return fmt.Errorf("deactivate force: %w", err)
	}

	fmt.Println("hidforce: done")
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "hidforce: %v\n", err)
		os.Exit(1)
	}
}
