package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// schemaMigration is a named, version-gated transform applied to an
// aggregates.yml document in place (grounded on the teacher's
// migration/setConfigVersion pair in migrate.go).
type schemaMigration struct {
	version int
	name    string
	run     func(root *yaml.Node) error
}

// schemaMigrations is empty today — config_version exists from the
// first release of this schema — but the machinery is kept so a future
// breaking change to aggregates.yml has somewhere to go without
// inventing a new mechanism.
var schemaMigrations = []schemaMigration{}

// migrate runs every pending schemaMigration against path, then writes
// back the resulting config_version, preserving comments/formatting via
// yaml.Node exactly as the teacher's setConfigVersion does.
func migrate(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("%s: root is not a mapping", path)
	}

	current := readConfigVersion(root)
	if current >= latestSchemaVersion {
		return nil
	}

	changed := false
	for _, m := range schemaMigrations {
		if m.version <= current {
			continue
		}
		if err := m.run(root); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		changed = true
	}

	setConfigVersion(root, latestSchemaVersion)
	changed = true

	if !changed {
		return nil
	}
	out, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return os.WriteFile(path, out, 0644)
}

func readConfigVersion(root *yaml.Node) int {
	for i := 0; i < len(root.Content)-1; i += 2 {
		if root.Content[i].Value == "config_version" {
			var v int
			if err := root.Content[i+1].Decode(&v); err == nil {
				return v
			}
		}
	}
	return 0
}

func setConfigVersion(root *yaml.Node, version int) {
	for i := 0; i < len(root.Content)-1; i += 2 {
		if root.Content[i].Value == "config_version" {
			root.Content[i+1].Value = fmt.Sprintf("%d", version)
			root.Content[i+1].Tag = "!!int"
			return
		}
	}
	keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: "config_version", Tag: "!!str"}
	valNode := &yaml.Node{Kind: yaml.ScalarNode, Value: fmt.Sprintf("%d", version), Tag: "!!int"}
	root.Content = append([]*yaml.Node{keyNode, valNode}, root.Content...)
}
