package evdevhid

import (
	"fmt"

	"github.com/google/uuid"
	evdev "github.com/holoplot/go-evdev"

	"github.com/TriceHelix/crossput"
)

// hwidNamespace seeds the UUIDv5 fallback level (§6's third hardware
// identity fallback: "a UUID derived deterministically from the node's
// enumeration path, for sources that report neither a unique-id string
// nor a stable physical location").
var hwidNamespace = uuid.MustParse("f2f19b1a-6e1e-4f62-9b9a-7e9a6b1c2d30")

// buildHWID implements the three-level fallback: a bridge-reported
// unique-id string, then a (bustype, vendor, product, phys-location)
// tuple, then a UUIDv5 over the enumeration path.
func buildHWID(dev *evdev.InputDevice, path string) crossput.HWID {
	if uid, err := dev.UniqueID(); err == nil && uid != "" {
		return crossput.NewHWID("uid:" + uid)
	}

	id, idErr := dev.InputID()
	phys, physErr := dev.PhysicalLocation()
	if idErr == nil && physErr == nil && phys != "" {
		key := fmt.Sprintf("phys:%04x:%04x:%04x:%s", id.BusType, id.Vendor, id.Product, phys)
		return crossput.NewHWID(key)
	}

	return crossput.NewHWID("uuid:" + uuid.NewSHA1(hwidNamespace, []byte(path)).String())
}
