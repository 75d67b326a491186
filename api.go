package crossput

import "github.com/TriceHelix/crossput/keycode"

// defaultRegistry backs every package-level function below, mirroring
// the original library's implicit global state (§6 "Public surface").
// Code that needs more than one independent universe of devices should
// construct its own *Registry instead.
var defaultRegistry = NewRegistry()

// DefaultRegistry returns the registry backing the package-level
// functions, for callers that want to mix the free-function surface
// with direct *Registry access.
func DefaultRegistry() *Registry { return defaultRegistry }

func DiscoverDevices(enumerator Enumerator) (int, error) {
	return defaultRegistry.Discover(enumerator)
}

func UpdateAllDevices() error {
	return defaultRegistry.UpdateAll()
}

func DestroyAllDevices() error {
	return defaultRegistry.DestroyAllDevices()
}

func DestroyDevice(id ID) error {
	return defaultRegistry.DestroyDevice(id)
}

func GetDeviceCount(ignoreDisconnected bool) int {
	return defaultRegistry.Count(ignoreDisconnected)
}

func GetDevices() []Device {
	return defaultRegistry.All()
}

func GetDevice(id ID) (Device, bool) {
	return defaultRegistry.Get(id)
}

func GetMice() []*Mouse {
	return defaultRegistry.Mice()
}

func GetKeyboards() []*Keyboard {
	return defaultRegistry.Keyboards()
}

func GetGamepads() []*Gamepad {
	return defaultRegistry.Gamepads()
}

// AggregateDevices binds ids into one virtual device of the type they
// share. A typeHint other than TypeUnknown is the type every member must
// have; a single id returns that device unchanged and ignores typeHint.
// See Registry.Aggregate (§4.6).
func AggregateDevices(ids []ID, typeHint Type) (Device, error) {
	return defaultRegistry.Aggregate(ids, typeHint)
}

func RegisterGlobalStatus(fn func(ID, Status)) CallbackID {
	return defaultRegistry.RegisterGlobalStatus(fn)
}

func RegisterGlobalStatusFiltered(status Status, fn func(ID, Status)) CallbackID {
	return defaultRegistry.RegisterGlobalStatusFiltered(status, fn)
}

func RegisterDeviceStatus(device ID, fn func(ID, Status)) CallbackID {
	return defaultRegistry.RegisterDeviceStatus(device, fn)
}

func RegisterDeviceStatusFiltered(device ID, status Status, fn func(ID, Status)) CallbackID {
	return defaultRegistry.RegisterDeviceStatusFiltered(device, status, fn)
}

func RegisterGlobalMouseMove(fn func(*Mouse, MouseState)) CallbackID {
	return defaultRegistry.RegisterGlobalMouseMove(fn)
}

func RegisterMouseMove(device ID, fn func(*Mouse, MouseState)) CallbackID {
	return defaultRegistry.RegisterMouseMove(device, fn)
}

func RegisterGlobalMouseScroll(fn func(*Mouse, MouseState)) CallbackID {
	return defaultRegistry.RegisterGlobalMouseScroll(fn)
}

func RegisterMouseScroll(device ID, fn func(*Mouse, MouseState)) CallbackID {
	return defaultRegistry.RegisterMouseScroll(device, fn)
}

func RegisterGlobalMouseButton(fn func(*Mouse, int, bool)) CallbackID {
	return defaultRegistry.RegisterGlobalMouseButton(fn)
}

func RegisterGlobalMouseButtonFiltered(button int, fn func(*Mouse, int, bool)) CallbackID {
	return defaultRegistry.RegisterGlobalMouseButtonFiltered(button, fn)
}

func RegisterMouseButton(device ID, fn func(*Mouse, int, bool)) CallbackID {
	return defaultRegistry.RegisterMouseButton(device, fn)
}

func RegisterMouseButtonFiltered(device ID, button int, fn func(*Mouse, int, bool)) CallbackID {
	return defaultRegistry.RegisterMouseButtonFiltered(device, button, fn)
}

func RegisterGlobalKey(fn func(*Keyboard, keycode.Key, bool)) CallbackID {
	return defaultRegistry.RegisterGlobalKey(fn)
}

func RegisterGlobalKeyFiltered(key keycode.Key, fn func(*Keyboard, keycode.Key, bool)) CallbackID {
	return defaultRegistry.RegisterGlobalKeyFiltered(key, fn)
}

func RegisterKey(device ID, fn func(*Keyboard, keycode.Key, bool)) CallbackID {
	return defaultRegistry.RegisterKey(device, fn)
}

func RegisterKeyFiltered(device ID, key keycode.Key, fn func(*Keyboard, keycode.Key, bool)) CallbackID {
	return defaultRegistry.RegisterKeyFiltered(device, key, fn)
}

func RegisterGlobalGamepadButton(fn func(*Gamepad, keycode.Button, bool)) CallbackID {
	return defaultRegistry.RegisterGlobalGamepadButton(fn)
}

func RegisterGlobalGamepadButtonFiltered(button keycode.Button, fn func(*Gamepad, keycode.Button, bool)) CallbackID {
	return defaultRegistry.RegisterGlobalGamepadButtonFiltered(button, fn)
}

func RegisterGamepadButton(device ID, fn func(*Gamepad, keycode.Button, bool)) CallbackID {
	return defaultRegistry.RegisterGamepadButton(device, fn)
}

func RegisterGamepadButtonFiltered(device ID, button keycode.Button, fn func(*Gamepad, keycode.Button, bool)) CallbackID {
	return defaultRegistry.RegisterGamepadButtonFiltered(device, button, fn)
}

func RegisterGlobalThumbstick(fn func(*Gamepad, int, Thumbstick)) CallbackID {
	return defaultRegistry.RegisterGlobalThumbstick(fn)
}

func RegisterGlobalThumbstickFiltered(stick int, fn func(*Gamepad, int, Thumbstick)) CallbackID {
	return defaultRegistry.RegisterGlobalThumbstickFiltered(stick, fn)
}

func RegisterThumbstick(device ID, fn func(*Gamepad, int, Thumbstick)) CallbackID {
	return defaultRegistry.RegisterThumbstick(device, fn)
}

func RegisterThumbstickFiltered(device ID, stick int, fn func(*Gamepad, int, Thumbstick)) CallbackID {
	return defaultRegistry.RegisterThumbstickFiltered(device, stick, fn)
}

func Unregister(id CallbackID) bool {
	return defaultRegistry.Unregister(id)
}

func UnregisterAllForDevice(device ID) {
	defaultRegistry.UnregisterAllForDevice(device)
}
