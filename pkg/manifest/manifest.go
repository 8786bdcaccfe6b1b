// SPDX-License-Identifier: MPL-2.0

// Package manifest reads the project manifest (package.json) that names the
// scripts a project can run.
//
// Only the parts of the manifest needed to pick a build step are modeled: the
// package name and the ordered "scripts" object. Parsing is tolerant of JSONC
// extensions (comments and trailing commas) since hand-edited manifests in the
// wild occasionally carry them.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/tidwall/jsonc"
)

// FileName is the manifest file looked up in a project directory.
const FileName = "package.json"

// ErrInvalidManifest is the sentinel error wrapped by ParseError.
var ErrInvalidManifest = errors.New("invalid manifest")

type (
	// Script is a single named entry of the manifest "scripts" object.
	Script struct {
		Name    string
		Command string
	}

	// Manifest is the parsed project manifest. Scripts keep their file order.
	Manifest struct {
		Name    string
		scripts []Script
		index   map[string]int
	}

	// ParseError is returned when manifest content cannot be read as a
	// script map. It wraps ErrInvalidManifest.
	ParseError struct {
		Path string
		Err  error
	}

	// rawManifest is the decoding target for the top-level document.
	rawManifest struct {
		Name    string          `json:"name"`
		Scripts json.RawMessage `json:"scripts"`
	}
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: invalid manifest: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("invalid manifest: %v", e.Err)
}

// Unwrap returns ErrInvalidManifest and the underlying cause.
func (e *ParseError) Unwrap() []error { return []error{ErrInvalidManifest, e.Err} }

// New builds a manifest from scripts in the given order. A later script with
// the same name replaces the earlier command but keeps its position.
func New(name string, scripts ...Script) *Manifest {
	m := &Manifest{Name: name, index: make(map[string]int, len(scripts))}
	for _, s := range scripts {
		m.set(s.Name, s.Command)
	}
	return m
}

// Parse decodes manifest content.
func Parse(data []byte) (*Manifest, error) {
	var raw rawManifest
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return nil, &ParseError{Err: err}
	}

	m := New(raw.Name)
	trimmed := bytes.TrimSpace(raw.Scripts)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return m, nil
	}
	if err := m.decodeScripts(trimmed); err != nil {
		return nil, &ParseError{Err: err}
	}
	return m, nil
}

// Load reads the manifest from dir. A missing manifest is not an error:
// Load returns (nil, nil) so callers can treat it as "nothing to build".
func Load(fsys afero.Fs, dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	m, err := Parse(data)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return m, nil
}

// Script returns the command registered under name.
func (m *Manifest) Script(name string) (string, bool) {
	if m == nil {
		return "", false
	}
	i, ok := m.index[name]
	if !ok {
		return "", false
	}
	return m.scripts[i].Command, true
}

// Has reports whether a script named name exists.
func (m *Manifest) Has(name string) bool {
	_, ok := m.Script(name)
	return ok
}

// Scripts returns a copy of the scripts in manifest order.
func (m *Manifest) Scripts() []Script {
	if m == nil {
		return nil
	}
	out := make([]Script, len(m.scripts))
	copy(out, m.scripts)
	return out
}

// Len returns the number of scripts.
func (m *Manifest) Len() int {
	if m == nil {
		return 0
	}
	return len(m.scripts)
}

func (m *Manifest) set(name, command string) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[name]; ok {
		m.scripts[i].Command = command
		return
	}
	m.index[name] = len(m.scripts)
	m.scripts = append(m.scripts, Script{Name: name, Command: command})
}

// decodeScripts walks the scripts object token by token so file order is kept.
func (m *Manifest) decodeScripts(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("scripts must be an object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected script key %v", keyTok)
		}
		var command string
		if err := dec.Decode(&command); err != nil {
			return fmt.Errorf("script %q: command must be a string", name)
		}
		m.set(name, command)
	}

	if _, err := dec.Token(); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
