package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Sections keeps the configured sections in file order.
type Sections []SectionConfig

// UnmarshalYAML decodes a mapping of section id to section settings,
// preserving key order.
func (s *Sections) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: release_notes.sections must be a mapping (line %d)", ErrInvalidConfig, value.Line)
	}

	out := make(Sections, 0, len(value.Content)/2)
	seen := make(map[string]bool, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		id := value.Content[i].Value
		if seen[id] {
			return fmt.Errorf("%w: duplicate section %q (line %d)", ErrInvalidConfig, id, value.Content[i].Line)
		}
		seen[id] = true

		var sec SectionConfig
		if err := value.Content[i+1].Decode(&sec); err != nil {
			return fmt.Errorf("failed to decode section %q: %w", id, err)
		}
		sec.ID = id
		out = append(out, sec)
	}

	*s = out
	return nil
}

// MarshalYAML encodes the sections as an ordered mapping.
func (s Sections) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, sec := range s {
		var value yaml.Node
		if err := value.Encode(sec); err != nil {
			return nil, fmt.Errorf("failed to encode section %q: %w", sec.ID, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: sec.ID},
			&value)
	}
	return node, nil
}
