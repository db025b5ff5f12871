// Package filex reads configuration files from disk.
package filex

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

var ErrUnsupportedFormat = errors.New("unsupported config format")

// DecodeConfig reads path and unmarshals it into v. Files ending in .yaml or
// .yml are decoded as YAML, .json (or no extension) as JSON.
//
// Fields missing from the file keep whatever value v already holds, so
// callers can pre-fill v with defaults.
func DecodeConfig(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("decode yaml %s: %w", path, err)
		}
	case ".json", "":
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("decode json %s: %w", path, err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	return nil
}
