// Package templates loads the raw page and item template text the
// engine compiles. It only chooses where the text comes from; the
// compiler accepts whatever it is handed.
package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Names of the two templates, both as built-in assets and as the
// filenames looked up in the user config dir.
const (
	PageName = "page.html"
	ItemName = "item.html"
)

//go:embed page.html item.html
var builtin embed.FS

// Load returns the template text for name, trying the explicitly
// given path first, then the user config dir, then the built-in
// default. An explicit path that cannot be read is an error the
// caller should treat as fatal; a missing config-dir copy is not.
func Load(explicit, configDir, name string) (string, error) {
	if explicit != "" {
		raw, err := os.ReadFile(explicit)
		if err != nil {
			return "", fmt.Errorf("error reading template file: %w", err)
		}

		return string(raw), nil
	}

	if configDir != "" {
		raw, err := os.ReadFile(filepath.Join(configDir, name))
		if err == nil {
			return string(raw), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("error reading template file: %w", err)
		}
	}

	raw, err := builtin.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("error reading built-in template: %w", err)
	}

	return string(raw), nil
}
