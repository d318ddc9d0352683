package blueprint

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	yamlv3 "go.yaml.in/yaml/v3"
	"sigs.k8s.io/yaml"
)

// ReadJSON decodes a blueprint list from r.
//
// The input is the wire format served by blueprint sources:
//
//	[
//	  {"name": "house", "points": [{"x": 0, "y": 0}, {"x": 10, "y": 0}]}
//	]
//
// A single object is accepted as a one-element list. A null or missing
// "points" field decodes as an empty blueprint. ReadJSON does not close r.
func ReadJSON(r io.Reader) (Set, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return decodeJSON(data)
}

// ReadYAML decodes a blueprint list written as YAML. Field names match the
// JSON wire format. Documents are read as YAML 1.2, so a bare y key stays
// the string "y" rather than the YAML 1.1 boolean.
func ReadYAML(r io.Reader) (Set, error) {
	var doc yamlv3.Node
	if err := yamlv3.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Set{}, nil
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if len(doc.Content) == 0 {
		return Set{}, nil
	}

	root := doc.Content[0]
	if root.Kind == yamlv3.MappingNode {
		var b Blueprint
		if err := root.Decode(&b); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		return Set{normalize(b)}, nil
	}

	var s Set
	if err := root.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	for i := range s {
		s[i] = normalize(s[i])
	}
	if s == nil {
		s = Set{}
	}
	return s, nil
}

// ReadFile reads a blueprint list from a local file. Files ending in .yaml
// or .yml are decoded as YAML; everything else as JSON.
func ReadFile(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ReadYAML(f)
	default:
		return ReadJSON(f)
	}
}

// WriteYAML encodes s as a YAML list using the JSON field names.
func WriteYAML(w io.Writer, s Set) error {
	if s == nil {
		s = Set{}
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// WriteJSON encodes s as an indented JSON list.
func WriteJSON(w io.Writer, s Set) error {
	if s == nil {
		s = Set{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

func decodeJSON(data []byte) (Set, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var b Blueprint
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		return Set{normalize(b)}, nil
	}

	var s Set
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	for i := range s {
		s[i] = normalize(s[i])
	}
	if s == nil {
		s = Set{}
	}
	return s, nil
}

func normalize(b Blueprint) Blueprint {
	if b.Points == nil {
		b.Points = []Point{}
	}
	return b
}
