package crossput

// HWID is a comparable, hashable hardware-identity token (§6 "Hardware
// identity", §3 "Hardware identity record"). The core only relies on
// equality/hash; construction follows the three-level fallback the
// bridge is responsible for (unique-id string, physical-location tuple,
// node-index-derived UUID).
type HWID struct {
	key string
}

// NewHWID wraps an opaque, already-disambiguated string key. Bridges
// build this from whichever fallback level succeeded.
func NewHWID(key string) HWID {
	return HWID{key: key}
}

func (h HWID) String() string { return h.key }
func (h HWID) IsZero() bool   { return h.key == "" }
