// Package plan loads experiment plan files and turns them into tasks.
//
// Plans are YAML (.yaml, .yml) or TOML (.toml) files listing command tasks
// and, optionally, a parameter matrix whose template is expanded once per
// configuration.
package plan

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/aryankumar/sweep/internal/util"
	"gopkg.in/yaml.v3"
)

// Format is a plan file encoding
type Format string

const (
	// FormatYAML is a YAML plan
	FormatYAML Format = "yaml"
	// FormatTOML is a TOML plan
	FormatTOML Format = "toml"
)

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: unsupported plan file extension %q (want .yaml, .yml or .toml)", util.ErrInvalidConfig, filepath.Ext(path))
	}
}

// Load reads, decodes and validates a plan file
func Load(path string) (*Plan, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	p, err := Parse(data, format)
	if err != nil {
		return nil, util.WrapErrorf(err, "plan %s", path)
	}
	p.baseDir = filepath.Dir(path)
	return p, nil
}

// Parse decodes and validates a plan. Unknown keys are rejected.
func Parse(data []byte, format Format) (*Plan, error) {
	p := &Plan{}

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(p); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %v", util.ErrInvalidConfig, err)
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), p)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", util.ErrInvalidConfig, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("%w: unknown keys: %s", util.ErrInvalidConfig, strings.Join(keys, ", "))
		}
	default:
		return nil, fmt.Errorf("%w: unknown plan format %q", util.ErrInvalidConfig, format)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
