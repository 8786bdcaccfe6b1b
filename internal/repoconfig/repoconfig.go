// SPDX-License-Identifier: MPL-2.0

// Package repoconfig decodes repository configuration files fetched through
// the contents API, where file bodies arrive base64 encoded.
package repoconfig

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ErrNotMapping is returned when the YAML document is not a mapping.
var ErrNotMapping = errors.New("config is not a mapping")

// Decode base64-decodes content. Line breaks, as the contents API inserts
// every 60 characters, are ignored.
func Decode(content string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, content)

	data, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config content: %w", err)
	}
	return data, nil
}

// Encode is the inverse of Decode.
func Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Parse decodes base64 content and parses it as YAML. An empty document
// yields an empty, non-nil map.
func Parse(content string) (map[string]any, error) {
	data, err := Decode(content)
	if err != nil {
		return nil, err
	}
	return ParseYAML(data)
}

// ParseYAML parses a raw YAML document into a map.
func ParseYAML(data []byte) (map[string]any, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	out := map[string]any{}
	if node.Kind == 0 || len(node.Content) == 0 {
		return out, nil
	}
	doc := node.Content[0]
	if doc.Kind == yaml.ScalarNode && doc.Tag == "!!null" {
		return out, nil
	}
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: got %s", ErrNotMapping, kindName(doc.Kind))
	}
	if err := doc.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return out, nil
}

// ParseFile reads path from fsys and hands it to ParseContent.
func ParseFile(fsys afero.Fs, path string) (map[string]any, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseContent(data)
}

// ParseContent accepts either a plain YAML mapping or its base64 encoding
// as returned by the contents API.
func ParseContent(data []byte) (map[string]any, error) {
	if out, err := ParseYAML(data); err == nil {
		return out, nil
	}
	return Parse(string(data))
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return fmt.Sprintf("kind %d", k)
	}
}
