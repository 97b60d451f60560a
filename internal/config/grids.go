package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"garment-tracker/internal/core"

	"gopkg.in/yaml.v3"
)

// gridsFile models the size grid YAML file:
//
//	grids:
//	  STANDARD: [P, M, G, GG]
//	  PLUS: [G1, G2, G3]
type gridsFile struct {
	Grids map[string][]string `yaml:"grids"`
}

// LoadSizeGrids reads the grid file at path. An empty path or a missing file yields the
// default grids; STANDARD is always present.
func LoadSizeGrids(path string) (core.SizeGrids, error) {
	grids := core.DefaultSizeGrids()
	if path == "" {
		return grids, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return grids, nil
		}
		return nil, fmt.Errorf("failed to read size grids: %w", err)
	}
	return ParseSizeGrids(data)
}

// ParseSizeGrids decodes grid YAML on top of the defaults.
func ParseSizeGrids(data []byte) (core.SizeGrids, error) {
	var file gridsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse size grids: %w", err)
	}
	grids := core.DefaultSizeGrids()
	for name, sizes := range file.Grids {
		key := strings.ToUpper(strings.TrimSpace(name))
		if key == "" {
			return nil, fmt.Errorf("size grid with empty name")
		}
		if len(sizes) == 0 {
			return nil, fmt.Errorf("size grid %s has no sizes", key)
		}
		seen := make(map[string]bool, len(sizes))
		clean := make([]string, 0, len(sizes))
		for _, s := range sizes {
			s = core.NormalizeSize(s)
			if s == "" || seen[s] {
				return nil, fmt.Errorf("size grid %s: empty or duplicate size %q", key, s)
			}
			seen[s] = true
			clean = append(clean, s)
		}
		grids[key] = clean
	}
	return grids, nil
}
