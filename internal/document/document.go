// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document loads element trees and the components they use from
// YAML documents.
//
// A document has two sections. components maps a name to a definition whose
// render field is a node template; tree is the root child value. A mapping
// with exactly one of host, component or fragment is a node; any other
// mapping, scalar or sequence is kept as a plain value. Strings of the form
// $name inside templates are replaced by the invoking component's prop of
// that name when the component renders.
package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/element-inspector/internal/httputil"
	"github.com/pdiddy/element-inspector/pkg/element"
	"github.com/pdiddy/element-inspector/pkg/types"
)

var (
	// ErrUnknownComponent is returned when a node names a component that the
	// document does not define.
	ErrUnknownComponent = errors.New("unknown component")

	// ErrInvalidNode is returned for malformed node mappings.
	ErrInvalidNode = errors.New("invalid node")
)

// Document is a loaded element tree.
type Document struct {
	// Source is the path or URL the document was read from.
	Source string

	// Root is the tree value: a node, a list, a plain value, or nil.
	Root any

	components map[string]*element.Component
}

// Component returns the component defined under name, or nil.
func (d *Document) Component(name string) *element.Component {
	return d.components[name]
}

// ComponentNames returns the defined component names in sorted order.
func (d *Document) ComponentNames() []string {
	names := make([]string, 0, len(d.components))
	for name := range d.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type rawDocument struct {
	Components map[string]rawComponent `yaml:"components"`
	Tree       yaml.Node               `yaml:"tree"`
}

type rawComponent struct {
	Render yaml.Node `yaml:"render"`
	// Class declares a stateful component that cannot be called directly.
	Class bool `yaml:"class"`
	// Hooks declares a component that needs render-time state.
	Hooks bool `yaml:"hooks"`
}

// Parse builds a Document from YAML data. An empty document has a nil root.
func Parse(data []byte) (*Document, error) {
	var raw rawDocument
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	doc := &Document{components: make(map[string]*element.Component, len(raw.Components))}
	c := &compiler{components: doc.components}

	// Components are created before any template is compiled so templates
	// can reference each other in any order.
	renders := make(map[string]*template, len(raw.Components))
	for name, def := range raw.Components {
		slot := new(template)
		renders[name] = slot
		doc.components[name] = newComponent(name, def, slot)
	}
	for _, name := range doc.ComponentNames() {
		def := raw.Components[name]
		if def.Render.Kind == 0 {
			continue
		}
		t, err := c.compile(&def.Render)
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", name, err)
		}
		*renders[name] = t
	}

	if raw.Tree.Kind != 0 {
		t, err := c.compile(&raw.Tree)
		if err != nil {
			return nil, fmt.Errorf("tree: %w", err)
		}
		doc.Root = t.instantiate(nil)
	}

	return doc, nil
}

func newComponent(name string, def rawComponent, render *template) *element.Component {
	fn := func(props element.Props) (any, error) {
		if def.Hooks {
			return nil, fmt.Errorf("%s: %w", name, element.ErrInvalidHookCall)
		}
		if *render == nil {
			return nil, nil
		}
		return (*render).instantiate(props), nil
	}
	if def.Class {
		return element.ClassComponent(name, fn)
	}
	return element.FuncComponent(name, fn)
}

// Read parses a document from r.
func Read(r io.Reader, source string) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", source, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	doc.Source = source
	return doc, nil
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening document: %w", err)
	}
	defer f.Close()
	return Read(f, path)
}

// IsURL reports whether source names a remote document.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Open loads source from a URL, from stdin when source is "-", or from
// the filesystem.
func Open(ctx context.Context, source string, cfg types.HTTPConfig) (*Document, error) {
	switch {
	case source == "-":
		return Read(os.Stdin, "stdin")
	case IsURL(source):
		data, err := httputil.Fetch(ctx, nil, source, cfg)
		if err != nil {
			return nil, err
		}
		return Read(bytes.NewReader(data), source)
	default:
		return Load(source)
	}
}
