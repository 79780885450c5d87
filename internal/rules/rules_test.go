// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/element-inspector/pkg/element"
	"github.com/pdiddy/element-inspector/pkg/inspect"
	"github.com/pdiddy/element-inspector/pkg/types"
)

const menuRules = `
max_depth: 4
default: continue
rules:
  - match: {component: WrappedButton}
    action: record
    fields: {label: title, onPress: onPress}
  - match: {host: span}
    action: discard
  - match: {host: button, max_depth: 0}
    action: record
`

var wrappedButton = element.FuncComponent("WrappedButton", func(p element.Props) (any, error) {
	return element.Host("button", p), nil
})

func intPtr(v int) *int { return &v }

func TestParse(t *testing.T) {
	s, err := Parse([]byte(menuRules))
	require.NoError(t, err)
	assert.Equal(t, 4, s.MaxDepth)
	assert.Equal(t, "continue", s.Default)
	require.Len(t, s.Rules, 3)
	assert.Equal(t, "WrappedButton", s.Rules[0].Match.Component)
	assert.Equal(t, intPtr(0), s.Rules[2].Match.MaxDepth)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		errMsg string
	}{
		{"bad default", "default: maybe", "invalid action"},
		{"bad rule action", "rules: [{match: {host: a}, action: keep}]", "rule 1"},
		{"fields on discard", "rules: [{match: {host: a}, action: discard, fields: {a: b}}]", "fields only apply"},
		{"unknown field", "rulez: []", "parsing rules"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestClassifier(t *testing.T) {
	s, err := Parse([]byte(menuRules))
	require.NoError(t, err)
	classify := s.Classifier()

	tests := []struct {
		name   string
		el     inspect.Element
		want   types.Record
		action inspect.Action
	}{
		{
			name: "records mapped fields",
			el: inspect.Element{
				Tag:   element.ComponentTag(wrappedButton),
				Props: element.Props{"title": "Add", "onPress": "add", "style": "x"},
			},
			want:   types.Record{"label": "Add", "onPress": "add"},
			action: inspect.Record,
		},
		{
			name:   "discards spans",
			el:     inspect.Element{Tag: element.HostTag("span")},
			action: inspect.Discard,
		},
		{
			name: "records all props except children",
			el: inspect.Element{
				Tag:   element.HostTag("button"),
				Props: element.Props{"title": "Root", "children": "Root"},
			},
			want:   types.Record{"title": "Root"},
			action: inspect.Record,
		},
		{
			name:   "depth bound on match",
			el:     inspect.Element{Tag: element.HostTag("button"), Depth: 1},
			action: inspect.Continue,
		},
		{
			name:   "default continues",
			el:     inspect.Element{Tag: element.FragmentTag},
			action: inspect.Continue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, action := classify(tt.el)
			assert.Equal(t, tt.action, action)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatch(t *testing.T) {
	other := element.FuncComponent("Other", nil)

	tests := []struct {
		name  string
		match Match
		el    inspect.Element
		want  bool
	}{
		{"empty matches all", Match{}, inspect.Element{Tag: element.HostTag("a")}, true},
		{"fragment", Match{Fragment: true}, inspect.Element{Tag: element.FragmentTag}, true},
		{"fragment rejects host", Match{Fragment: true}, inspect.Element{Tag: element.HostTag("a")}, false},
		{"component by name", Match{Component: "Other"}, inspect.Element{Tag: element.ComponentTag(other)}, true},
		{"component rejects host", Match{Component: "Other"}, inspect.Element{Tag: element.HostTag("Other")}, false},
		{"min depth", Match{MinDepth: intPtr(2)}, inspect.Element{Tag: element.FragmentTag, Depth: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.match.matches(tt.el))
		})
	}
}

func TestSetWithInspect(t *testing.T) {
	s, err := Parse([]byte(menuRules))
	require.NoError(t, err)

	root := element.Fragment(
		element.Create(wrappedButton, element.Props{"title": "one", "onPress": "a"}),
		element.Host("span", nil, element.Create(wrappedButton, element.Props{"title": "hidden"})),
		element.Host("div", nil, element.Create(wrappedButton, element.Props{"title": "two", "onPress": "b"})),
	)

	got := inspect.InspectWith(root, s.Options(0))
	assert.Equal(t, []types.Record{
		{"label": "one", "onPress": "a"},
		{"label": "two", "onPress": "b"},
	}, got)

	// A tighter bound overrides the set's own.
	shallow := inspect.InspectWith(root, s.Options(2))
	assert.Equal(t, []types.Record{{"label": "one", "onPress": "a"}}, shallow)
}

func TestButtonRules(t *testing.T) {
	s := ButtonRules("Button")
	require.NoError(t, s.Validate())

	button := element.FuncComponent("Button", nil)
	got := inspect.Inspect(element.Fragment(
		element.Create(button, element.Props{"title": "Save", "onPress": "save"}),
		element.Host("Button", element.Props{"title": "Host", "destructive": true}),
	), s.Classifier())

	assert.Equal(t, []types.Record{
		{"label": "Save", "onPress": "save"},
		{"label": "Host", "destructive": true},
	}, got)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(menuRules), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, s.Rules, 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
