// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"fmt"
	"maps"
	"regexp"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/element-inspector/pkg/element"
)

// template produces a fresh value for the props of the invoking component.
type template interface {
	instantiate(props element.Props) any
}

type literal struct{ value any }

func (l literal) instantiate(element.Props) any { return l.value }

// ref is a $name placeholder.
type ref struct{ name string }

func (r ref) instantiate(props element.Props) any { return props[r.name] }

type list []template

func (l list) instantiate(props element.Props) any {
	out := make([]any, len(l))
	for i, t := range l {
		out[i] = t.instantiate(props)
	}
	return out
}

type mapping struct {
	keys   []string
	values map[string]template
}

func (m mapping) instantiate(props element.Props) any {
	out := make(map[string]any, len(m.keys))
	for _, k := range m.keys {
		out[k] = m.values[k].instantiate(props)
	}
	return out
}

type nodeTemplate struct {
	kind      element.Kind
	host      string
	component *element.Component
	props     mapping
	spread    bool
	children  template // nil when the node declares none
}

func (n nodeTemplate) instantiate(props element.Props) any {
	p := element.Props{}
	if n.spread {
		maps.Copy(p, props)
	}
	for _, k := range n.props.keys {
		p[k] = n.props.values[k].instantiate(props)
	}

	var children []any
	switch c := n.children.(type) {
	case nil:
	case list:
		children = c.instantiate(props).([]any)
	default:
		children = []any{c.instantiate(props)}
	}

	switch n.kind {
	case element.KindHost:
		return element.Host(n.host, p, children...)
	case element.KindComponent:
		return element.Create(n.component, p, children...)
	default:
		return element.Fragment(children...)
	}
}

var refPattern = regexp.MustCompile(`^\$[A-Za-z_][A-Za-z0-9_]*$`)

var nodeFields = map[string]bool{
	"host": true, "component": true, "fragment": true,
	"props": true, "children": true, "spread": true,
}

// maxAliasExpansions bounds how many alias references one document may
// expand.
const maxAliasExpansions = 10000

type compiler struct {
	components map[string]*element.Component
	// active holds the anchors whose alias is being expanded.
	active  map[*yaml.Node]bool
	aliases int
}

func (c *compiler) compile(n *yaml.Node) (template, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return literal{}, nil
		}
		return c.compile(n.Content[0])
	case yaml.AliasNode:
		return c.compileAlias(n)
	case yaml.ScalarNode:
		if n.Tag == "!!str" && refPattern.MatchString(n.Value) {
			return ref{name: n.Value[1:]}, nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return literal{value: v}, nil
	case yaml.SequenceNode:
		out := make(list, 0, len(n.Content))
		for _, item := range n.Content {
			t, err := c.compile(item)
			if err != nil {
				return nil, err
			}
			out = append(out, t)
		}
		return out, nil
	case yaml.MappingNode:
		if kinds := countKinds(n); kinds == 1 {
			return c.compileNode(n)
		} else if kinds > 1 {
			return nil, fmt.Errorf("line %d: %w: host, component and fragment are exclusive", n.Line, ErrInvalidNode)
		}
		return c.compileMapping(n)
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node", n.Line)
	}
}

func (c *compiler) compileAlias(n *yaml.Node) (template, error) {
	if n.Alias == nil {
		return nil, fmt.Errorf("line %d: %w: unresolved alias", n.Line, ErrInvalidNode)
	}
	if c.active[n.Alias] {
		return nil, fmt.Errorf("line %d: %w: recursive alias *%s", n.Line, ErrInvalidNode, n.Value)
	}
	c.aliases++
	if c.aliases > maxAliasExpansions {
		return nil, fmt.Errorf("line %d: %w: more than %d alias expansions", n.Line, ErrInvalidNode, maxAliasExpansions)
	}
	if c.active == nil {
		c.active = make(map[*yaml.Node]bool)
	}
	c.active[n.Alias] = true
	defer delete(c.active, n.Alias)
	return c.compile(n.Alias)
}

func (c *compiler) compileMapping(n *yaml.Node) (mapping, error) {
	m := mapping{values: make(map[string]template, len(n.Content)/2)}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		t, err := c.compile(n.Content[i+1])
		if err != nil {
			return mapping{}, err
		}
		if _, dup := m.values[key]; !dup {
			m.keys = append(m.keys, key)
		}
		m.values[key] = t
	}
	return m, nil
}

func (c *compiler) compileNode(n *yaml.Node) (template, error) {
	var (
		out      nodeTemplate
		children *yaml.Node
		fragment *yaml.Node
	)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if !nodeFields[key.Value] {
			return nil, fmt.Errorf("line %d: %w: unknown field %q", key.Line, ErrInvalidNode, key.Value)
		}
		switch key.Value {
		case "host":
			out.kind = element.KindHost
			if err := val.Decode(&out.host); err != nil || out.host == "" {
				return nil, fmt.Errorf("line %d: %w: host must be a non-empty name", val.Line, ErrInvalidNode)
			}
		case "component":
			out.kind = element.KindComponent
			var name string
			if err := val.Decode(&name); err != nil {
				return nil, fmt.Errorf("line %d: %w: component must be a name", val.Line, ErrInvalidNode)
			}
			comp, ok := c.components[name]
			if !ok {
				return nil, fmt.Errorf("line %d: %w %q", val.Line, ErrUnknownComponent, name)
			}
			out.component = comp
		case "fragment":
			out.kind = element.KindFragment
			fragment = val
		case "props":
			if val.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("line %d: %w: props must be a mapping", val.Line, ErrInvalidNode)
			}
			props, err := c.compileMapping(val)
			if err != nil {
				return nil, err
			}
			out.props = props
		case "children":
			children = val
		case "spread":
			if err := val.Decode(&out.spread); err != nil {
				return nil, fmt.Errorf("line %d: %w: spread must be a boolean", val.Line, ErrInvalidNode)
			}
		}
	}

	if fragment != nil && children != nil {
		return nil, fmt.Errorf("line %d: %w: fragment children go under fragment, not children", n.Line, ErrInvalidNode)
	}
	if fragment != nil {
		children = fragment
	}
	if children != nil && !isNull(children) {
		t, err := c.compile(children)
		if err != nil {
			return nil, err
		}
		out.children = t
	}
	return out, nil
}

func countKinds(n *yaml.Node) int {
	kinds := 0
	for i := 0; i+1 < len(n.Content); i += 2 {
		switch n.Content[i].Value {
		case "host", "component", "fragment":
			kinds++
		}
	}
	return kinds
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}
