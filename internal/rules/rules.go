// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rules compiles declarative classification rules into an
// inspect.Classifier that records selected props as types.Record values.
package rules

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/element-inspector/pkg/element"
	"github.com/pdiddy/element-inspector/pkg/inspect"
	"github.com/pdiddy/element-inspector/pkg/types"
)

// ErrInvalidAction is returned for an action other than record, continue
// or discard.
var ErrInvalidAction = errors.New("invalid action")

// Match selects nodes. Empty fields match anything; a zero-valued Match
// matches every node.
type Match struct {
	Component string `yaml:"component,omitempty"`
	Host      string `yaml:"host,omitempty"`
	Fragment  bool   `yaml:"fragment,omitempty"`
	MinDepth  *int   `yaml:"min_depth,omitempty"`
	MaxDepth  *int   `yaml:"max_depth,omitempty"`
}

// Rule pairs a match with an action. Fields maps output keys to prop names
// for record rules; when empty, all props except children are recorded.
type Rule struct {
	Match  Match             `yaml:"match"`
	Action string            `yaml:"action"`
	Fields map[string]string `yaml:"fields,omitempty"`
}

// Set is an ordered list of rules with a fallback action.
type Set struct {
	// MaxDepth is the expansion bound to use with this set (0 = default).
	MaxDepth int    `yaml:"max_depth,omitempty"`
	Default  string `yaml:"default,omitempty"`
	Rules    []Rule `yaml:"rules"`
}

// Parse decodes and validates a rule set.
func Parse(data []byte) (*Set, error) {
	var s Set
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads a rule set from path.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate checks every action name.
func (s *Set) Validate() error {
	if _, err := parseAction(s.Default, inspect.Continue); err != nil {
		return fmt.Errorf("default: %w", err)
	}
	for i, r := range s.Rules {
		if _, err := parseAction(r.Action, inspect.Record); err != nil {
			return fmt.Errorf("rule %d: %w", i+1, err)
		}
		if len(r.Fields) > 0 && r.Action != "" && r.Action != "record" {
			return fmt.Errorf("rule %d: fields only apply to record rules", i+1)
		}
	}
	return nil
}

// ButtonRules records every component or host named name, mapping the
// common button props. Everything else is traversed.
func ButtonRules(name string) *Set {
	fields := map[string]string{
		"label":       "title",
		"onPress":     "onPress",
		"destructive": "destructive",
		"disabled":    "disabled",
	}
	return &Set{
		Rules: []Rule{
			{Match: Match{Component: name}, Action: "record", Fields: fields},
			{Match: Match{Host: name}, Action: "record", Fields: fields},
		},
	}
}

func parseAction(name string, fallback inspect.Action) (inspect.Action, error) {
	switch name {
	case "":
		return fallback, nil
	case "record":
		return inspect.Record, nil
	case "continue":
		return inspect.Continue, nil
	case "discard":
		return inspect.Discard, nil
	default:
		return inspect.Discard, fmt.Errorf("%w %q: use record, continue or discard", ErrInvalidAction, name)
	}
}

func (m Match) matches(el inspect.Element) bool {
	if m.MinDepth != nil && el.Depth < *m.MinDepth {
		return false
	}
	if m.MaxDepth != nil && el.Depth > *m.MaxDepth {
		return false
	}
	if m.Fragment && el.Tag.Kind() != element.KindFragment {
		return false
	}
	if m.Host != "" && el.Tag.HostName() != m.Host {
		return false
	}
	if m.Component != "" {
		c := el.Tag.Component()
		if c == nil || c.Name() != m.Component {
			return false
		}
	}
	return true
}

func (r Rule) record(props element.Props) types.Record {
	out := types.Record{}
	if len(r.Fields) == 0 {
		for k, v := range props {
			if k != element.ChildrenKey {
				out[k] = v
			}
		}
		return out
	}
	for key, prop := range r.Fields {
		if v, ok := props[prop]; ok {
			out[key] = v
		}
	}
	return out
}

// Classifier returns the classifier for s. The first matching rule decides;
// unmatched nodes get the default action. s must be valid.
func (s *Set) Classifier() inspect.Classifier[types.Record] {
	def, _ := parseAction(s.Default, inspect.Continue)
	actions := make([]inspect.Action, len(s.Rules))
	for i, r := range s.Rules {
		actions[i], _ = parseAction(r.Action, inspect.Record)
	}

	return func(el inspect.Element) (types.Record, inspect.Action) {
		for i, r := range s.Rules {
			if !r.Match.matches(el) {
				continue
			}
			if actions[i] == inspect.Record {
				return r.record(el.Props), inspect.Record
			}
			return nil, actions[i]
		}
		return nil, def
	}
}

// Options returns inspect options for s. A positive maxDepth overrides the
// set's own bound.
func (s *Set) Options(maxDepth int) inspect.Options[types.Record] {
	if maxDepth <= 0 {
		maxDepth = s.MaxDepth
	}
	return inspect.Options[types.Record]{
		Classify: s.Classifier(),
		MaxDepth: maxDepth,
	}
}
