package runtimeconfig

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Param is one entry of an ordered template parameter mapping.
type Param struct {
	Name  string
	Value string
}

// Params preserves YAML document order for mappings whose order is
// significant: template parameters render in the order they are configured.
type Params []Param

// UnmarshalYAML decodes a YAML mapping node while keeping entry order.
func (p *Params) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("config: expected a mapping, got %s", nodeKind(node))
	}
	out := make(Params, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		out = append(out, Param{
			Name:  node.Content[i].Value,
			Value: node.Content[i+1].Value,
		})
	}
	*p = out
	return nil
}

// Get returns the value for a name, with ok reporting whether it is present.
func (p Params) Get(name string) (string, bool) {
	for _, param := range p {
		if param.Name == name {
			return param.Value, true
		}
	}
	return "", false
}

// CategoryPage is one generated category page and the extra categories it is
// added to beyond the general year category.
type CategoryPage struct {
	Title string
	Extra []string
}

// CategoryPages decodes the category page mapping, where each value may be
// null, a single category, or a list of categories.
type CategoryPages []CategoryPage

// UnmarshalYAML decodes the mapping while keeping page order.
func (c *CategoryPages) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("config: expected a mapping of category pages, got %s", nodeKind(node))
	}
	out := make(CategoryPages, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		page := CategoryPage{Title: node.Content[i].Value}
		value := node.Content[i+1]
		switch value.Kind {
		case yaml.ScalarNode:
			if value.Tag != "!!null" && value.Value != "" {
				page.Extra = []string{value.Value}
			}
		case yaml.SequenceNode:
			for _, item := range value.Content {
				page.Extra = append(page.Extra, item.Value)
			}
		default:
			return fmt.Errorf("config: category page %q has an unsupported value", page.Title)
		}
		out = append(out, page)
	}
	*c = out
	return nil
}

func nodeKind(node *yaml.Node) string {
	switch node.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "unknown node"
}
