// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package element

// List is an ordered sequence of child values. Entries may be nodes, nested
// lists, or foreign values.
type List []any

// AsNode reports whether v is a recognized node and returns it.
func AsNode(v any) (Node, bool) {
	switch n := v.(type) {
	case Node:
		return n, n.Valid()
	case *Node:
		if n == nil {
			return Node{}, false
		}
		return *n, n.Valid()
	default:
		return Node{}, false
	}
}

// Each calls fn for every recognized node among the immediate entries of v,
// in order. Nested lists are flattened to any depth; fragments count as a
// single entry and are not unwrapped. Foreign entries are skipped.
func Each(v any, fn func(Node)) {
	// Pending list frames, innermost last.
	type frame struct {
		items []any
		pos   int
	}
	var stack []frame

	visit := func(v any) {
		switch l := v.(type) {
		case []any:
			stack = append(stack, frame{items: l})
		case List:
			stack = append(stack, frame{items: l})
		case []Node:
			items := make([]any, len(l))
			for i := range l {
				items[i] = l[i]
			}
			stack = append(stack, frame{items: items})
		case []*Node:
			items := make([]any, len(l))
			for i := range l {
				items[i] = l[i]
			}
			stack = append(stack, frame{items: items})
		default:
			if n, ok := AsNode(v); ok {
				fn(n)
			}
		}
	}

	visit(v)
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.pos >= len(top.items) {
			stack = stack[:len(stack)-1]
			continue
		}
		item := top.items[top.pos]
		top.pos++
		visit(item)
	}
}

// Count returns the number of recognized nodes Each would visit.
func Count(v any) int {
	n := 0
	Each(v, func(Node) { n++ })
	return n
}
