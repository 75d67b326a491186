package crossput

import "github.com/TriceHelix/crossput/keycode"

// RegisterGlobalStatus registers fn to run on every device's connect,
// disconnect, and destroy transition (§4.4 "global, unfiltered"
// registration).
func (r *Registry) RegisterGlobalStatus(fn func(ID, Status)) CallbackID {
	r.panicIfReentrant("RegisterGlobalStatus")
	return r.callbacks.register(NoID, KindDeviceStatus, 0, false, fn)
}

// RegisterGlobalStatusFiltered registers fn to run only for transitions
// matching status.
func (r *Registry) RegisterGlobalStatusFiltered(status Status, fn func(ID, Status)) CallbackID {
	r.panicIfReentrant("RegisterGlobalStatusFiltered")
	return r.callbacks.register(NoID, KindDeviceStatus, int64(status), true, fn)
}

// RegisterDeviceStatus registers fn to run on device's own connect,
// disconnect, and destroy transitions.
func (r *Registry) RegisterDeviceStatus(device ID, fn func(ID, Status)) CallbackID {
	r.panicIfReentrant("RegisterDeviceStatus")
	return r.callbacks.register(device, KindDeviceStatus, 0, false, fn)
}

// RegisterDeviceStatusFiltered is RegisterDeviceStatus narrowed to one
// status value.
func (r *Registry) RegisterDeviceStatusFiltered(device ID, status Status, fn func(ID, Status)) CallbackID {
	r.panicIfReentrant("RegisterDeviceStatusFiltered")
	return r.callbacks.register(device, KindDeviceStatus, int64(status), true, fn)
}

// RegisterGlobalMouseMove registers fn to run after any mouse's relative
// motion changes.
func (r *Registry) RegisterGlobalMouseMove(fn func(*Mouse, MouseState)) CallbackID {
	r.panicIfReentrant("RegisterGlobalMouseMove")
	return r.callbacks.register(NoID, KindMouseMove, 0, false, fn)
}

// RegisterMouseMove narrows RegisterGlobalMouseMove to a single mouse.
func (r *Registry) RegisterMouseMove(device ID, fn func(*Mouse, MouseState)) CallbackID {
	r.panicIfReentrant("RegisterMouseMove")
	return r.callbacks.register(device, KindMouseMove, 0, false, fn)
}

// RegisterGlobalMouseScroll registers fn to run after any mouse's wheel
// position changes.
func (r *Registry) RegisterGlobalMouseScroll(fn func(*Mouse, MouseState)) CallbackID {
	r.panicIfReentrant("RegisterGlobalMouseScroll")
	return r.callbacks.register(NoID, KindMouseScroll, 0, false, fn)
}

func (r *Registry) RegisterMouseScroll(device ID, fn func(*Mouse, MouseState)) CallbackID {
	r.panicIfReentrant("RegisterMouseScroll")
	return r.callbacks.register(device, KindMouseScroll, 0, false, fn)
}

// RegisterGlobalMouseButton registers fn to run on a rising or falling
// transition of any mouse button's digital state.
func (r *Registry) RegisterGlobalMouseButton(fn func(*Mouse, int, bool)) CallbackID {
	r.panicIfReentrant("RegisterGlobalMouseButton")
	return r.callbacks.register(NoID, KindMouseButton, 0, false, fn)
}

// RegisterGlobalMouseButtonFiltered narrows to a single button index,
// independent of which mouse it fired on.
func (r *Registry) RegisterGlobalMouseButtonFiltered(button int, fn func(*Mouse, int, bool)) CallbackID {
	r.panicIfReentrant("RegisterGlobalMouseButtonFiltered")
	return r.callbacks.register(NoID, KindMouseButton, int64(button), true, fn)
}

func (r *Registry) RegisterMouseButton(device ID, fn func(*Mouse, int, bool)) CallbackID {
	r.panicIfReentrant("RegisterMouseButton")
	return r.callbacks.register(device, KindMouseButton, 0, false, fn)
}

func (r *Registry) RegisterMouseButtonFiltered(device ID, button int, fn func(*Mouse, int, bool)) CallbackID {
	r.panicIfReentrant("RegisterMouseButtonFiltered")
	return r.callbacks.register(device, KindMouseButton, int64(button), true, fn)
}

// RegisterGlobalKey registers fn to run on any keyboard's key
// transitions.
func (r *Registry) RegisterGlobalKey(fn func(*Keyboard, keycode.Key, bool)) CallbackID {
	r.panicIfReentrant("RegisterGlobalKey")
	return r.callbacks.register(NoID, KindKeyboardKey, 0, false, fn)
}

func (r *Registry) RegisterGlobalKeyFiltered(key keycode.Key, fn func(*Keyboard, keycode.Key, bool)) CallbackID {
	r.panicIfReentrant("RegisterGlobalKeyFiltered")
	return r.callbacks.register(NoID, KindKeyboardKey, int64(key), true, fn)
}

func (r *Registry) RegisterKey(device ID, fn func(*Keyboard, keycode.Key, bool)) CallbackID {
	r.panicIfReentrant("RegisterKey")
	return r.callbacks.register(device, KindKeyboardKey, 0, false, fn)
}

func (r *Registry) RegisterKeyFiltered(device ID, key keycode.Key, fn func(*Keyboard, keycode.Key, bool)) CallbackID {
	r.panicIfReentrant("RegisterKeyFiltered")
	return r.callbacks.register(device, KindKeyboardKey, int64(key), true, fn)
}

// RegisterGlobalGamepadButton registers fn to run on any gamepad's
// button transitions.
func (r *Registry) RegisterGlobalGamepadButton(fn func(*Gamepad, keycode.Button, bool)) CallbackID {
	r.panicIfReentrant("RegisterGlobalGamepadButton")
	return r.callbacks.register(NoID, KindGamepadButton, 0, false, fn)
}

func (r *Registry) RegisterGlobalGamepadButtonFiltered(button keycode.Button, fn func(*Gamepad, keycode.Button, bool)) CallbackID {
	r.panicIfReentrant("RegisterGlobalGamepadButtonFiltered")
	return r.callbacks.register(NoID, KindGamepadButton, int64(button), true, fn)
}

func (r *Registry) RegisterGamepadButton(device ID, fn func(*Gamepad, keycode.Button, bool)) CallbackID {
	r.panicIfReentrant("RegisterGamepadButton")
	return r.callbacks.register(device, KindGamepadButton, 0, false, fn)
}

func (r *Registry) RegisterGamepadButtonFiltered(device ID, button keycode.Button, fn func(*Gamepad, keycode.Button, bool)) CallbackID {
	r.panicIfReentrant("RegisterGamepadButtonFiltered")
	return r.callbacks.register(device, KindGamepadButton, int64(button), true, fn)
}

// RegisterGlobalThumbstick registers fn to run whenever any gamepad
// thumbstick's (x, y) pair changes.
func (r *Registry) RegisterGlobalThumbstick(fn func(*Gamepad, int, Thumbstick)) CallbackID {
	r.panicIfReentrant("RegisterGlobalThumbstick")
	return r.callbacks.register(NoID, KindGamepadThumbstick, 0, false, fn)
}

// RegisterGlobalThumbstickFiltered narrows to a single thumbstick index,
// independent of which gamepad it fired on.
func (r *Registry) RegisterGlobalThumbstickFiltered(stick int, fn func(*Gamepad, int, Thumbstick)) CallbackID {
	r.panicIfReentrant("RegisterGlobalThumbstickFiltered")
	return r.callbacks.register(NoID, KindGamepadThumbstick, int64(stick), true, fn)
}

func (r *Registry) RegisterThumbstick(device ID, fn func(*Gamepad, int, Thumbstick)) CallbackID {
	r.panicIfReentrant("RegisterThumbstick")
	return r.callbacks.register(device, KindGamepadThumbstick, 0, false, fn)
}

func (r *Registry) RegisterThumbstickFiltered(device ID, stick int, fn func(*Gamepad, int, Thumbstick)) CallbackID {
	r.panicIfReentrant("RegisterThumbstickFiltered")
	return r.callbacks.register(device, KindGamepadThumbstick, int64(stick), true, fn)
}

// Unregister removes a single callback by the id returned from its
// registration call. Returns false if no such callback is currently
// registered.
func (r *Registry) Unregister(id CallbackID) bool {
	r.panicIfReentrant("Unregister")
	return r.callbacks.unregister(id)
}

// UnregisterAllForDevice removes every callback attached to device,
// global registrations excluded.
func (r *Registry) UnregisterAllForDevice(device ID) {
	r.panicIfReentrant("UnregisterAllForDevice")
	r.callbacks.unregisterAllForDevice(device)
}
