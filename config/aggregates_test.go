package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/TriceHelix/crossput"
)

func TestLoadSeedsEmbeddedDefaultOnFirstUse(t *testing.T) {
	dir := t.TempDir()
	f, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.ConfigVersion != latestSchemaVersion {
		t.Fatalf("ConfigVersion = %d, want %d", f.ConfigVersion, latestSchemaVersion)
	}
	if len(f.Aggregates) != 0 {
		t.Fatalf("expected the default file to seed with no aggregates, got %d", len(f.Aggregates))
	}
	if _, err := os.Stat(filepath.Join(dir, "aggregates.yml")); err != nil {
		t.Fatalf("expected aggregates.yml to be written to disk: %v", err)
	}
}

func TestLoadFileStampsMissingConfigVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aggregates.yml")
	if err := os.WriteFile(path, []byte("aggregates: []\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if f.ConfigVersion != latestSchemaVersion {
		t.Fatalf("ConfigVersion = %d, want %d (migration should stamp it)", f.ConfigVersion, latestSchemaVersion)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !contains(string(raw), "config_version") {
		t.Fatalf("expected config_version to be persisted back to disk, got: %s", raw)
	}
}

func contains(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}

// stubBridge is a minimal crossput.Bridge used only to get a device
// past discovery in these tests; none of its force/motor methods are
// exercised here.
type stubBridge struct {
	name string
	hwid crossput.HWID
}

func newStubBridge(hw string) *stubBridge {
	return &stubBridge{name: hw, hwid: crossput.NewHWID(hw)}
}

func (b *stubBridge) Open() (bool, error) { return true, nil }
func (b *stubBridge) Close() error        { return nil }
func (b *stubBridge) ReadEvents() ([]crossput.BridgeEvent, bool, error) {
	return nil, false, nil
}
func (b *stubBridge) Resync() ([]crossput.BridgeEvent, error) { return nil, nil }
func (b *stubBridge) DisplayName() string                     { return b.name }
func (b *stubBridge) HWID() crossput.HWID                     { return b.hwid }
func (b *stubBridge) MotorCount() int                         { return 0 }
func (b *stubBridge) SetGain(motor int, gain float32) bool    { return false }
func (b *stubBridge) SupportsForce(motor int, kind crossput.ForceKind) bool {
	return false
}
func (b *stubBridge) CreateEffect(motor int, kind crossput.ForceKind, params crossput.ForceParams) (int, bool, error) {
	return 0, false, nil
}
func (b *stubBridge) WriteEffect(id int, params crossput.ForceParams) error { return nil }
func (b *stubBridge) SetEffectActive(id int, active bool) error             { return nil }
func (b *stubBridge) DestroyEffect(id int) error                            { return nil }

type stubEnumerator struct {
	sources []crossput.EnumeratedSource
}

func (e *stubEnumerator) Enumerate() ([]crossput.EnumeratedSource, error) {
	return e.sources, nil
}

func newApplyTestMouse(t *testing.T, reg *crossput.Registry, hw string) crossput.ID {
	t.Helper()
	bridge := newStubBridge(hw)
	m, err := reg.Discover(&stubEnumerator{sources: []crossput.EnumeratedSource{
		{
			HWID:       crossput.NewHWID(hw),
			Classifier: crossput.Classifier{EmitsSyncEvents: true, HasRelMotion: true, KeyboardKeyCount: 1},
			NewBridge:  func() (crossput.Bridge, error) { return bridge, nil },
		},
	}})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if m != 1 {
		t.Fatalf("Discover created %d devices, want 1", m)
	}
	d, ok := reg.FindByHWID(crossput.NewHWID(hw))
	if !ok {
		t.Fatalf("FindByHWID failed to resolve the just-discovered device")
	}
	return d.ID()
}

func TestApplyResolvesMembersByHWID(t *testing.T) {
	reg := crossput.NewRegistry()
	newApplyTestMouse(t, reg, "hw-1")
	newApplyTestMouse(t, reg, "hw-2")

	f := &File{
		Aggregates: []AggregateDef{
			{Name: "combo", Type: "mouse", Members: []string{"hw-1", "hw-2"}},
		},
	}

	built, err := Apply(reg, f)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(built) != 1 {
		t.Fatalf("built = %d, want 1", len(built))
	}
}

func TestApplySkipsDefinitionUnderTwoResolvedMembers(t *testing.T) {
	reg := crossput.NewRegistry()
	newApplyTestMouse(t, reg, "hw-1")

	f := &File{
		Aggregates: []AggregateDef{
			{Name: "lonely", Type: "mouse", Members: []string{"hw-1", "hw-missing"}},
		},
	}

	built, err := Apply(reg, f)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(built) != 0 {
		t.Fatalf("built = %d, want 0 (only one member resolved)", len(built))
	}
}

func TestApplyJoinsErrorsWithoutAbortingRemainingDefinitions(t *testing.T) {
	reg := crossput.NewRegistry()
	newApplyTestMouse(t, reg, "hw-1")
	newApplyTestMouse(t, reg, "hw-2")
	newApplyTestMouse(t, reg, "hw-3")
	newApplyTestMouse(t, reg, "hw-4")

	f := &File{
		Aggregates: []AggregateDef{
			{Name: "bad", Type: "keyboard", Members: []string{"hw-1", "hw-2"}}, // type mismatch: these are mice
			{Name: "good", Type: "mouse", Members: []string{"hw-3", "hw-4"}},
		},
	}

	built, err := Apply(reg, f)
	if err == nil {
		t.Fatalf("expected an error from the mismatched-type aggregate")
	}
	if len(built) != 1 {
		t.Fatalf("built = %d, want 1 (the valid definition should still succeed)", len(built))
	}
}
