package config

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// yamlDecoder converts YAML nodes into strings, bools, json.Number, []any
// and map[string]any. Aliases are expanded and merge keys ("<<") applied;
// the node budget stops alias expansion from growing without bound.
type yamlDecoder struct {
	budget int
}

func yamlToGo(n *yaml.Node, depth int) (any, error) {
	d := &yamlDecoder{budget: maxYAMLNodes}
	return d.decode(n, depth)
}

func (d *yamlDecoder) decode(n *yaml.Node, depth int) (any, error) {
	if depth > maxYAMLDepth {
		return nil, fmt.Errorf("line %d: nested deeper than %d levels", n.Line, maxYAMLDepth)
	}
	if d.budget--; d.budget < 0 {
		return nil, fmt.Errorf("document expands to more than %d values", maxYAMLNodes)
	}

	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return d.decode(n.Content[0], depth)
	case yaml.AliasNode:
		return d.decode(n.Alias, depth+1)
	case yaml.ScalarNode:
		return yamlScalar(n)
	case yaml.SequenceNode:
		list := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := d.decode(item, depth+1)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case yaml.MappingNode:
		return d.mapping(n, depth)
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node", n.Line)
	}
}

func (d *yamlDecoder) mapping(n *yaml.Node, depth int) (map[string]any, error) {
	out := map[string]any{}
	explicit := map[string]bool{}

	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]

		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: mapping keys must be scalars", key.Line)
		}

		if key.ShortTag() == "!!merge" {
			if err := d.merge(out, explicit, value, depth); err != nil {
				return nil, err
			}
			continue
		}

		v, err := d.decode(value, depth+1)
		if err != nil {
			return nil, err
		}
		out[key.Value] = v
		explicit[key.Value] = true
	}

	return out, nil
}

// yamlMerge copies the keys of a merged mapping (or list of mappings) into
// out without overriding keys set explicitly.
func (d *yamlDecoder) merge(out map[string]any, explicit map[string]bool, value *yaml.Node, depth int) error {
	merged, err := d.decode(value, depth+1)
	if err != nil {
		return err
	}

	sources, ok := merged.([]any)
	if !ok {
		sources = []any{merged}
	}
	for _, src := range sources {
		m, ok := src.(map[string]any)
		if !ok {
			return fmt.Errorf("line %d: merge value must be a mapping", value.Line)
		}
		for k, v := range m {
			if _, set := out[k]; !set && !explicit[k] {
				out[k] = v
			}
		}
	}
	return nil
}

// yamlScalar resolves a scalar by its tag. Numbers that are also valid JSON
// numbers keep their source text; other spellings (0x1F, 1_000, .inf) are
// decoded by yaml.v3.
func yamlScalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case "!!int", "!!float":
		if json.Valid([]byte(n.Value)) {
			return json.Number(n.Value), nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return n.Value, nil
	}
}
