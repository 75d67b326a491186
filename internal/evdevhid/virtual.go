package evdevhid

import (
	"fmt"

	"github.com/bendahl/uinput"
)

// VirtualKeyboard, VirtualMouse, and VirtualGamepad wrap uinput-created
// kernel devices so integration tests can synthesize real evdev traffic
// for NodeBridge/Enumerator to pick up, without requiring physical
// hardware (grounded on the teacher's vkbd/uinput.CreateKeyboard usage
// in main.go/expander.go).

type VirtualKeyboard struct {
	dev uinput.Keyboard
}

func NewVirtualKeyboard(name string) (*VirtualKeyboard, error) {
	dev, err := uinput.CreateKeyboard("/dev/uinput", []byte(name))
	if err != nil {
		return nil, fmt.Errorf("evdevhid: create virtual keyboard: %w", err)
	}
	return &VirtualKeyboard{dev: dev}, nil
}

func (v *VirtualKeyboard) Press(code int) error   { return v.dev.KeyDown(code) }
func (v *VirtualKeyboard) Release(code int) error { return v.dev.KeyUp(code) }
func (v *VirtualKeyboard) Tap(code int) error     { return v.dev.KeyPress(code) }
func (v *VirtualKeyboard) Close() error           { return v.dev.Close() }

type VirtualMouse struct {
	dev uinput.Mouse
}

func NewVirtualMouse(name string) (*VirtualMouse, error) {
	dev, err := uinput.CreateMouse("/dev/uinput", []byte(name))
	if err != nil {
		return nil, fmt.Errorf("evdevhid: create virtual mouse: %w", err)
	}
	return &VirtualMouse{dev: dev}, nil
}

func (v *VirtualMouse) Move(dx, dy int32) error {
	return v.dev.Move(dx, dy)
}

func (v *VirtualMouse) Click(button int) error {
	switch button {
	case MouseButtonLeft:
		return v.dev.LeftClick()
	case MouseButtonRight:
		return v.dev.RightClick()
	default:
		return fmt.Errorf("evdevhid: unsupported virtual mouse button %d", button)
	}
}

func (v *VirtualMouse) Close() error { return v.dev.Close() }

// MouseButtonLeft/MouseButtonRight mirror crossput's mouse.go button
// indices for the subset bendahl/uinput can directly synthesize.
const (
	MouseButtonLeft  = 0
	MouseButtonRight = 1
)

type VirtualGamepad struct {
	dev uinput.Gamepad
}

func NewVirtualGamepad(name string) (*VirtualGamepad, error) {
	dev, err := uinput.CreateGamepad("/dev/uinput", []byte(name), 0x1, 0x1)
	if err != nil {
		return nil, fmt.Errorf("evdevhid: create virtual gamepad: %w", err)
	}
	return &VirtualGamepad{dev: dev}, nil
}

func (v *VirtualGamepad) ButtonDown(code int) error { return v.dev.ButtonDown(code) }
func (v *VirtualGamepad) ButtonUp(code int) error   { return v.dev.ButtonUp(code) }
func (v *VirtualGamepad) Close() error              { return v.dev.Close() }
