package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a JSON or YAML descriptor document from disk.
func LoadFile(path string) (Form, error) {
	if strings.TrimSpace(path) == "" {
		return Form{}, fmt.Errorf("model: descriptor path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Form{}, fmt.Errorf("model: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS reads a descriptor document from fsys.
func LoadFS(fsys fs.FS, name string) (Form, error) {
	if fsys == nil {
		return Form{}, fmt.Errorf("model: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Form{}, fmt.Errorf("model: read %s: %w", name, err)
	}
	return Parse(data, name)
}

// Parse decodes a descriptor document and validates its invariants. The
// extension of name selects the decoder: .json uses encoding/json, anything
// else goes through yaml.v3. Unknown keys are rejected in both cases.
func Parse(data []byte, name string) (Form, error) {
	if !isDescriptorFile(name) {
		return Form{}, fmt.Errorf("model: %s: unsupported descriptor extension", name)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Form{}, fmt.Errorf("model: %s: empty descriptor", name)
	}

	var form Form
	if strings.EqualFold(filepath.Ext(name), ".json") {
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&form); err != nil {
			return Form{}, fmt.Errorf("model: decode %s: %w", name, err)
		}
	} else {
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&form); err != nil {
			return Form{}, fmt.Errorf("model: decode %s: %w", name, err)
		}
	}
	if err := form.Validate(); err != nil {
		return Form{}, fmt.Errorf("model: %s: %w", name, err)
	}
	return form, nil
}

func isDescriptorFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case "", ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
