package config

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-spellgen/pkg/attrview"
)

func parseYAML(data []byte, name string) ([]attrview.Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", name, err)
	}

	root, err := nodeToValue(&doc)
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", name, err)
	}
	return records(root, name)
}

func records(root attrview.Value, name string) ([]attrview.Value, error) {
	if root.IsNull() {
		return nil, nil
	}
	if !root.IsSequence() {
		return nil, fmt.Errorf("%w: %s: top level must be a sequence of records, got %s",
			ErrInvalidDocument, name, root.Kind())
	}
	items := root.Items()
	for idx, item := range items {
		if !item.IsMap() {
			return nil, fmt.Errorf("%w: %s: record %d is a %s, want a map",
				ErrInvalidDocument, name, idx, item.Kind())
		}
	}
	return items, nil
}

func nodeToValue(node *yaml.Node) (attrview.Value, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return attrview.Scalar(nil), nil
		}
		return nodeToValue(node.Content[0])
	case yaml.AliasNode:
		if node.Alias == nil {
			return attrview.Value{}, fmt.Errorf("line %d: dangling alias", node.Line)
		}
		return nodeToValue(node.Alias)
	case yaml.MappingNode:
		explicit := make(map[string]struct{}, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			if !isMergeKey(node.Content[i]) {
				explicit[node.Content[i].Value] = struct{}{}
			}
		}
		fields := make([]attrview.Field, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valueNode := node.Content[i], node.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return attrview.Value{}, fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
			}
			value, err := nodeToValue(valueNode)
			if err != nil {
				return attrview.Value{}, err
			}
			if isMergeKey(keyNode) {
				for _, merged := range mergeFields(value) {
					if _, ok := explicit[merged.Key]; !ok {
						fields = append(fields, merged)
					}
				}
				continue
			}
			fields = append(fields, attrview.Field{Key: keyNode.Value, Value: value})
		}
		return attrview.Map(fields...), nil
	case yaml.SequenceNode:
		items := make([]attrview.Value, 0, len(node.Content))
		for _, child := range node.Content {
			value, err := nodeToValue(child)
			if err != nil {
				return attrview.Value{}, err
			}
			items = append(items, value)
		}
		return attrview.Sequence(items...), nil
	case yaml.ScalarNode:
		var out any
		if err := node.Decode(&out); err != nil {
			return attrview.Value{}, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return attrview.Scalar(out), nil
	default:
		return attrview.Value{}, fmt.Errorf("line %d: unsupported node kind %d", node.Line, node.Kind)
	}
}

// mergeFields expands a `<<: *anchor` merge key into the fields it carries.
// Keys set explicitly on the merging map win over merged ones.
func mergeFields(value attrview.Value) []attrview.Field {
	var sources []attrview.Value
	switch {
	case value.IsMap():
		sources = []attrview.Value{value}
	case value.IsSequence():
		sources = value.Items()
	}

	// In `<<: [*a, *b]` the earlier source wins a shared key.
	var fields []attrview.Field
	seen := make(map[string]bool)
	for _, src := range sources {
		if !src.IsMap() {
			continue
		}
		for _, key := range src.Keys() {
			if seen[key] {
				continue
			}
			seen[key] = true
			child, _ := src.Field(key)
			fields = append(fields, attrview.Field{Key: key, Value: child})
		}
	}
	return fields
}

func isMergeKey(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Value == "<<" &&
		(node.Tag == "" || node.ShortTag() == "!!merge")
}
