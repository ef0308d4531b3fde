// Package session saves and loads scene state as TOML, YAML or JSON. The
// format of a file is chosen by its extension.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/soypat/surfplot/scene"
	"gopkg.in/yaml.v3"
)

// Format is a session encoding.
type Format int

const (
	TOML Format = iota
	YAML
	JSON
)

func (f Format) String() string {
	switch f {
	case TOML:
		return "toml"
	case YAML:
		return "yaml"
	case JSON:
		return "json"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ErrFormat is returned for unknown file extensions and formats.
var ErrFormat = errors.New("unknown session format")

// FormatOf returns the format of filename by extension.
func FormatOf(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".json":
		return JSON, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrFormat, filename)
}

// Encode writes st to w.
func Encode(w io.Writer, f Format, st scene.State) error {
	switch f {
	case TOML:
		return toml.NewEncoder(w).Encode(st)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(st); err != nil {
			return err
		}
		return enc.Close()
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "\t")
		return enc.Encode(st)
	}
	return fmt.Errorf("%w: %s", ErrFormat, f)
}

// Decode reads a state from r. Unknown fields are an error.
func Decode(r io.Reader, f Format) (st scene.State, err error) {
	switch f {
	case TOML:
		err = toml.NewDecoder(r).DisallowUnknownFields().Decode(&st)
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(&st)
	case JSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(&st)
	default:
		err = fmt.Errorf("%w: %s", ErrFormat, f)
	}
	if err != nil {
		return scene.State{}, fmt.Errorf("decoding %s session: %w", f, err)
	}
	return st, nil
}

// Save writes st to filename in the format of its extension.
func Save(filename string, st scene.State) (err error) {
	f, err := FormatOf(filename)
	if err != nil {
		return err
	}
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := fp.Close(); err == nil {
			err = cerr
		}
	}()
	return Encode(fp, f, st)
}

// Load reads the state saved in filename.
func Load(filename string) (scene.State, error) {
	f, err := FormatOf(filename)
	if err != nil {
		return scene.State{}, err
	}
	fp, err := os.Open(filename)
	if err != nil {
		return scene.State{}, err
	}
	defer fp.Close()
	return Decode(fp, f)
}

// SaveScene saves the state of s to filename.
func SaveScene(s *scene.Scene, filename string) error {
	return Save(filename, s.State())
}

// LoadScene restores s from filename.
func LoadScene(s *scene.Scene, filename string) error {
	st, err := Load(filename)
	if err != nil {
		return err
	}
	return s.Restore(st)
}
