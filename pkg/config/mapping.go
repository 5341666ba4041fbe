package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Target fields understood by gh issue create
const (
	FieldTitle     = "title"
	FieldBody      = "body"
	FieldLabels    = "labels"
	FieldAssignees = "assignees"
	FieldMilestone = "milestone"
)

// KnownFields lists the target fields in the order gh documents them
var KnownFields = []string{FieldTitle, FieldBody, FieldLabels, FieldAssignees, FieldMilestone}

// FieldRule maps one issue field to one CSV column, or to several columns
// that are concatenated.
type FieldRule struct {
	Field   string
	Columns []string
	Concat  bool
}

// Column returns the source column of a single-column rule
func (r FieldRule) Column() string {
	if len(r.Columns) == 0 {
		return ""
	}
	return r.Columns[0]
}

// IsKnown reports whether the rule targets a field gh understands
func (r FieldRule) IsKnown() bool {
	for _, f := range KnownFields {
		if r.Field == f {
			return true
		}
	}
	return false
}

// Single creates a single-column rule
func Single(field, column string) FieldRule {
	return FieldRule{Field: field, Columns: []string{column}}
}

// Concat creates a rule joining several columns
func Concat(field string, columns ...string) FieldRule {
	return FieldRule{Field: field, Columns: columns, Concat: true}
}

// FieldMapping is an ordered list of field rules. YAML mapping order is
// preserved, which decides the order of the generated gh arguments.
type FieldMapping []FieldRule

// Lookup returns the first rule for the given field
func (m FieldMapping) Lookup(field string) (FieldRule, bool) {
	for _, r := range m {
		if r.Field == field {
			return r, true
		}
	}
	return FieldRule{}, false
}

// Columns returns every CSV column referenced by the mapping, without duplicates
func (m FieldMapping) Columns() []string {
	seen := make(map[string]bool)
	var cols []string
	for _, r := range m {
		for _, c := range r.Columns {
			if !seen[c] {
				seen[c] = true
				cols = append(cols, c)
			}
		}
	}
	return cols
}

// UnmarshalYAML decodes a YAML mapping of field name to column name or
// list of column names.
func (m *FieldMapping) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: fields must be a mapping of issue field to CSV column", value.Line)
	}

	rules := make(FieldMapping, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		rule := FieldRule{Field: key.Value}

		switch val.Kind {
		case yaml.ScalarNode:
			if val.Tag != "!!null" {
				rule.Columns = []string{val.Value}
			}
		case yaml.SequenceNode:
			var cols []string
			if err := val.Decode(&cols); err != nil {
				return fmt.Errorf("line %d: field '%s': %w", val.Line, key.Value, err)
			}
			rule.Columns = cols
			rule.Concat = true
		default:
			return fmt.Errorf("line %d: field '%s' must map to a column name or a list of column names", val.Line, key.Value)
		}

		rules = append(rules, rule)
	}

	*m = rules
	return nil
}

// MarshalYAML encodes the mapping back to an ordered YAML mapping
func (m FieldMapping) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, r := range m {
		key := &yaml.Node{Kind: yaml.ScalarNode, Value: r.Field}

		var val *yaml.Node
		if r.Concat {
			val = &yaml.Node{Kind: yaml.SequenceNode}
			for _, c := range r.Columns {
				val.Content = append(val.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: c})
			}
		} else {
			val = &yaml.Node{Kind: yaml.ScalarNode, Value: r.Column()}
		}

		node.Content = append(node.Content, key, val)
	}
	return node, nil
}
