package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MarshalProfile encodes a profile as indented JSON, the on-disk
// library format.
func MarshalProfile(p TubeProfile) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// UnmarshalProfile decodes a profile from its JSON form.
func UnmarshalProfile(data []byte) (TubeProfile, error) {
	var p TubeProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return TubeProfile{}, fmt.Errorf("decode profile: %w", err)
	}
	return p, nil
}

// LoadDir registers every *.json profile found in dir into the
// registry. Files are processed in name order so registration errors
// are deterministic. The first error stops the load.
func LoadDir(r *Registry, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read profile dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read profile %s: %w", name, err)
		}
		p, err := UnmarshalProfile(data)
		if err != nil {
			return fmt.Errorf("profile %s: %w", name, err)
		}
		if err := r.Register(p); err != nil {
			return fmt.Errorf("profile %s: %w", name, err)
		}
	}
	return nil
}

// SaveProfile writes a profile to dir as <name>.json, creating the
// directory if needed. Path separators in the name are flattened.
func SaveProfile(dir string, p TubeProfile) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create profile dir: %w", err)
	}
	data, err := MarshalProfile(p)
	if err != nil {
		return err
	}
	safe := strings.NewReplacer("/", "_", "\\", "_").Replace(p.Name)
	return os.WriteFile(filepath.Join(dir, safe+".json"), data, 0o644)
}
