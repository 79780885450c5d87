// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data and configuration types used across
// element-inspector packages.
package types

import "fmt"

// Record is one extracted value: output field name to prop value.
type Record map[string]any

// Text returns the field as a string. Non-string values are formatted
// with %v; missing fields return "".
func (r Record) Text(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Bool reports whether field holds true.
func (r Record) Bool(field string) bool {
	b, _ := r[field].(bool)
	return b
}

// Label returns the display label of r: the label field, falling back to
// title.
func (r Record) Label() string {
	if l := r.Text("label"); l != "" {
		return l
	}
	return r.Text("title")
}

// ActionSheet is a menu synthesized from extracted records. Options holds
// one label per record followed by the cancel label.
type ActionSheet struct {
	Title            string   `json:"title,omitempty" yaml:"title,omitempty"`
	Options          []string `json:"options" yaml:"options"`
	CancelIndex      int      `json:"cancel_index" yaml:"cancel_index"`
	DestructiveIndex int      `json:"destructive_index" yaml:"destructive_index"`
	Records          []Record `json:"records" yaml:"records"`
}
