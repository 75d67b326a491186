// Package config loads YAML-defined device aggregate membership and
// watches the backing file for hot-reload, grounded on the teacher's
// config.go/config_defaults.go/migrate.go (espanso-style match-file
// loading, embedded defaults, yaml.Node-based schema migration).
package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/TriceHelix/crossput"
)

//go:embed defaults/aggregates.yml
var defaultAggregates embed.FS

const latestSchemaVersion = 1

// AggregateDef is one named aggregate's raw YAML representation: a set
// of member hardware identities (as reported by HWID.String(), §6) and
// the device type they share.
type AggregateDef struct {
	Name    string   `yaml:"name"`
	Type    string   `yaml:"type"`
	Members []string `yaml:"members"`
}

// File is the top-level aggregates.yml document.
type File struct {
	ConfigVersion int            `yaml:"config_version"`
	Aggregates    []AggregateDef `yaml:"aggregates"`
}

// Load reads dir/aggregates.yml, seeding it from the embedded default
// the first time dir is used (§6 "Configuration", mirroring the
// teacher's initConfig extraction of embedded defaults).
func Load(dir string) (*File, error) {
	path := filepath.Join(dir, "aggregates.yml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := seedDefault(dir, path); err != nil {
			return nil, err
		}
	}

	return LoadFile(path)
}

// LoadFile parses path directly, running any pending schema migrations
// first.
func LoadFile(path string) (*File, error) {
	if err := migrate(path); err != nil {
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &f, nil
}

func seedDefault(dir, path string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := defaultAggregates.ReadFile("defaults/aggregates.yml")
	if err != nil {
		return fmt.Errorf("read embedded default: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// typeFromString maps the YAML type name onto crossput.Type, defaulting
// to TypeUnknown (which Registry.Aggregate resolves from the member
// devices themselves when every member agrees).
func typeFromString(s string) crossput.Type {
	switch s {
	case "mouse":
		return crossput.TypeMouse
	case "keyboard":
		return crossput.TypeKeyboard
	case "gamepad":
		return crossput.TypeGamepad
	default:
		return crossput.TypeUnknown
	}
}

// Apply resolves every AggregateDef's members against reg by hardware
// identity and forms the aggregate (§4.6). Members whose hardware
// identity matches no registered device are skipped (connection state
// is not checked) with the remainder
// still attempted, so one unplugged device in a definition does not
// block the rest of the file from taking effect — mirroring
// discover()'s "one bad node doesn't abort the scan" policy.
func Apply(reg *crossput.Registry, f *File) ([]crossput.Device, error) {
	var built []crossput.Device
	var errs []error

	for _, def := range f.Aggregates {
		ids := make([]crossput.ID, 0, len(def.Members))
		for _, key := range def.Members {
			d, ok := reg.FindByHWID(crossput.NewHWID(key))
			if !ok {
				continue
			}
			ids = append(ids, d.ID())
		}
		if len(ids) < 2 {
			continue
		}

		agg, err := reg.Aggregate(ids, typeFromString(def.Type))
		if err != nil {
			errs = append(errs, fmt.Errorf("aggregate %q: %w", def.Name, err))
			continue
		}
		built = append(built, agg)
	}

	if len(errs) > 0 {
		return built, fmt.Errorf("%d aggregate(s) failed: %v", len(errs), errs)
	}
	return built, nil
}
