// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package element models declarative UI element descriptors: host elements
// (built-in widgets identified by name), components (named callables that
// produce child output from props) and fragments (transparent groups).
// Descriptors are immutable values; nothing here renders or mounts them.
package element

import (
	"errors"
	"fmt"
	"maps"
)

// ChildrenKey is the prop that carries a node's child output.
const ChildrenKey = "children"

var (
	// ErrClassComponentCall is returned when a stateful component is invoked
	// as a plain function outside a render context.
	ErrClassComponentCall = errors.New("cannot call a class component as a function")

	// ErrInvalidHookCall is returned by components that rely on render-time
	// state when they are invoked outside a render context.
	ErrInvalidHookCall = errors.New("invalid hook call: hooks can only be used while rendering")
)

// Kind discriminates the node variants.
type Kind int

const (
	KindForeign   Kind = iota // not a recognized node
	KindHost                  // built-in element (button, span, ...)
	KindComponent             // callable whose children require invocation
	KindFragment              // transparent group
)

func (k Kind) String() string {
	switch k {
	case KindHost:
		return "host"
	case KindComponent:
		return "component"
	case KindFragment:
		return "fragment"
	default:
		return "foreign"
	}
}

// Props is the property mapping of a node. Treat it as read-only.
type Props map[string]any

// Children returns the child output held in the children prop, or nil.
func (p Props) Children() any {
	if p == nil {
		return nil
	}
	return p[ChildrenKey]
}

// RenderFunc produces a component's child output from its props.
type RenderFunc func(props Props) (any, error)

// Component is a named callable element type. Components compare by pointer
// identity, so classifiers can test a tag against a known component.
type Component struct {
	name   string
	render RenderFunc
	class  bool
}

// FuncComponent returns a plain function component.
func FuncComponent(name string, render RenderFunc) *Component {
	return &Component{name: name, render: render}
}

// ClassComponent returns a stateful component. Its render function is only
// reachable from a real render context; Call always fails.
func ClassComponent(name string, render RenderFunc) *Component {
	return &Component{name: name, render: render, class: true}
}

// Name returns the component's display name.
func (c *Component) Name() string { return c.name }

// IsClass reports whether c was declared as a stateful component.
func (c *Component) IsClass() bool { return c.class }

// Call invokes the component as a plain function with props. A nil render
// function produces no output.
func (c *Component) Call(props Props) (any, error) {
	if c.class {
		return nil, fmt.Errorf("%s: %w", c.name, ErrClassComponentCall)
	}
	if c.render == nil {
		return nil, nil
	}
	return c.render(props)
}

func (c *Component) String() string { return c.name }

// Tag identifies a node's element type. Tags are comparable with ==.
type Tag struct {
	kind      Kind
	host      string
	component *Component
}

// FragmentTag is the tag shared by all fragments.
var FragmentTag = Tag{kind: KindFragment}

// HostTag returns the tag of the built-in element name.
func HostTag(name string) Tag { return Tag{kind: KindHost, host: name} }

// ComponentTag returns the tag of component c.
func ComponentTag(c *Component) Tag { return Tag{kind: KindComponent, component: c} }

// Kind returns the variant the tag belongs to.
func (t Tag) Kind() Kind { return t.kind }

// HostName returns the element name of a host tag, or "".
func (t Tag) HostName() string { return t.host }

// Component returns the component of a component tag, or nil.
func (t Tag) Component() *Component { return t.component }

// Callable reports whether children are obtained by invoking the tag.
func (t Tag) Callable() bool { return t.kind == KindComponent && t.component != nil }

// Is reports whether the tag belongs to component c.
func (t Tag) Is(c *Component) bool { return t.Callable() && t.component == c }

func (t Tag) String() string {
	switch t.kind {
	case KindHost:
		return t.host
	case KindComponent:
		if t.component == nil {
			return "<nil component>"
		}
		return t.component.name
	case KindFragment:
		return "<>"
	default:
		return "<foreign>"
	}
}

// Node is an immutable element descriptor. The zero Node is foreign.
type Node struct {
	tag   Tag
	props Props
}

// Host builds a host element. Extra children override any children prop.
func Host(name string, props Props, children ...any) Node {
	return newNode(HostTag(name), props, children)
}

// Create builds a component element.
func Create(c *Component, props Props, children ...any) Node {
	if c == nil {
		return Node{}
	}
	return newNode(ComponentTag(c), props, children)
}

// Fragment builds a transparent group around children.
func Fragment(children ...any) Node {
	return newNode(FragmentTag, nil, children)
}

func newNode(tag Tag, props Props, children []any) Node {
	p := make(Props, len(props)+1)
	maps.Copy(p, props)
	switch len(children) {
	case 0:
	case 1:
		p[ChildrenKey] = children[0]
	default:
		list := make([]any, len(children))
		copy(list, children)
		p[ChildrenKey] = list
	}
	return Node{tag: tag, props: p}
}

// Kind returns the node variant.
func (n Node) Kind() Kind { return n.tag.kind }

// Tag returns the node's element type.
func (n Node) Tag() Tag { return n.tag }

// Props returns the node's props. Callers must not modify the map.
func (n Node) Props() Props { return n.props }

// Children returns the node's children prop, or nil.
func (n Node) Children() any { return n.props.Children() }

// Valid reports whether n is a recognized node.
func (n Node) Valid() bool {
	switch n.tag.kind {
	case KindHost, KindFragment:
		return true
	case KindComponent:
		return n.tag.component != nil
	default:
		return false
	}
}

func (n Node) String() string {
	return fmt.Sprintf("<%s>", n.tag)
}
