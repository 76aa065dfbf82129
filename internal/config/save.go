package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SaveAtomic writes v as YAML to path through a temp file, keeping the
// previous version as path.bak.
func SaveAtomic(path string, v any) error {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("config encode %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	bak := path + ".bak"

	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}

	_ = os.Remove(bak)
	_ = os.Rename(path, bak)

	return os.Rename(tmp, path)
}

// SaveSettings validates cfg and writes it with SaveAtomic.
func SaveSettings(path string, cfg Settings) error {
	out, res := NormalizeAndValidate(cfg)
	if err := res.Err(); err != nil {
		return err
	}
	return SaveAtomic(path, out)
}
