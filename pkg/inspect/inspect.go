// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package inspect walks a tree of element descriptors without mounting it and
// collects values that a caller-supplied classifier extracts from selected
// descendants.
//
// The walk is breadth-first across expansions: nodes are classified in the
// order their lists are dequeued, left to right within a list. Component
// nodes are expanded by invoking them as plain functions, so their children
// exist only after evaluation; invocation failures are contained and yield no
// children.
package inspect

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/element-inspector/internal/logging"
	"github.com/pdiddy/element-inspector/pkg/element"
)

// DefaultMaxDepth bounds expansion when Options.MaxDepth is not set.
const DefaultMaxDepth = 3

// Action is a classifier's verdict for one node.
type Action int

const (
	// Discard drops the node and its subtree. It is the zero Action.
	Discard Action = iota
	// Record appends the returned value to the output and stops descent.
	Record
	// Continue expands the node one level deeper if depth allows.
	Continue
)

func (a Action) String() string {
	switch a {
	case Record:
		return "record"
	case Continue:
		return "continue"
	case Discard:
		return "discard"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Element is what a classifier sees for one node.
type Element struct {
	Tag   element.Tag
	Props element.Props
	// Depth is the depth of the list the node was found in; root entries
	// are at depth 0.
	Depth int
}

// Classifier decides what happens to a node. The value is used only when
// the action is Record.
type Classifier[O any] func(el Element) (O, Action)

// Evaluator turns a component and its props into child output. It returns
// nil when the component cannot be evaluated.
type Evaluator func(c *element.Component, props element.Props) any

// Options configures InspectWith.
type Options[O any] struct {
	// Classify is required.
	Classify Classifier[O]

	// MaxDepth is the exclusive bound on expansion depth (default 3).
	MaxDepth int

	// Evaluate expands component nodes (default CallSafe).
	Evaluate Evaluator

	// Logger receives debug output about contained failures.
	Logger logrus.FieldLogger
}

// Inspect walks root with the default depth and evaluator.
func Inspect[O any](root any, classify Classifier[O]) []O {
	return InspectWith(root, Options[O]{Classify: classify})
}

// InspectWith walks root and returns the recorded values in visit order.
// It never fails on tree shape; panics raised by the classifier propagate.
func InspectWith[O any](root any, opts Options[O]) []O {
	results := []O{}
	if opts.Classify == nil {
		return results
	}

	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	evaluate := opts.Evaluate
	if evaluate == nil {
		evaluate = CallSafe
	}
	var log logrus.FieldLogger = opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	type workItem struct {
		value any
		depth int
	}
	queue := []workItem{{value: root, depth: 0}}

	for len(queue) > 0 {
		item := queue[0]
		queue[0] = workItem{}
		queue = queue[1:]

		element.Each(item.value, func(n element.Node) {
			value, action := opts.Classify(Element{
				Tag:   n.Tag(),
				Props: n.Props(),
				Depth: item.depth,
			})

			switch action {
			case Record:
				results = append(results, value)
			case Continue:
				next := item.depth + 1
				if next >= maxDepth {
					log.WithFields(logrus.Fields{
						"tag":      n.Tag().String(),
						"children": element.Count(n.Children()),
					}).Debugf("depth limit %d reached, not expanding", maxDepth)
					return
				}
				children := expand(n, evaluate, log)
				if children != nil {
					queue = append(queue, workItem{value: children, depth: next})
				}
			}
		})
	}

	return results
}

// expand returns the child output of n: the evaluated result for
// components, the children prop otherwise.
func expand(n element.Node, evaluate Evaluator, log logrus.FieldLogger) any {
	tag := n.Tag()
	if !tag.Callable() {
		return n.Children()
	}
	return evaluateContained(tag.Component(), n.Props(), evaluate, log)
}

func evaluateContained(c *element.Component, props element.Props, evaluate Evaluator, log logrus.FieldLogger) (out any) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("component", c.Name()).Debugf("evaluator panicked: %v", r)
			out = nil
		}
	}()
	return evaluate(c, props)
}

// CallSafe invokes c as a plain function with props. Errors and panics
// (hook misuse, class components) yield nil.
func CallSafe(c *element.Component, props element.Props) (out any) {
	defer func() {
		if recover() != nil {
			out = nil
		}
	}()
	out, err := c.Call(props)
	if err != nil {
		return nil
	}
	return out
}
