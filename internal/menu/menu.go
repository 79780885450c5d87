// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package menu synthesizes action sheets from extracted button records so a
// set of declared buttons can also be offered as an imperative menu.
package menu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/element-inspector/pkg/types"
)

var (
	// ErrCancelled is returned when the cancel option is selected.
	ErrCancelled = errors.New("cancelled")

	// ErrOutOfRange is returned for an index outside the sheet's options.
	ErrOutOfRange = errors.New("option index out of range")
)

// DefaultCancelLabel is appended after the record options.
const DefaultCancelLabel = "Cancel"

// Options configures Build.
type Options struct {
	Title       string
	CancelLabel string
	// SkipDisabled leaves out records whose disabled field is true.
	SkipDisabled bool
}

// Build returns an action sheet with one option per record, in order,
// followed by the cancel option. DestructiveIndex is the first record marked
// destructive, or -1.
func Build(records []types.Record, opts Options) types.ActionSheet {
	cancel := opts.CancelLabel
	if cancel == "" {
		cancel = DefaultCancelLabel
	}

	sheet := types.ActionSheet{
		Title:            opts.Title,
		DestructiveIndex: -1,
		Records:          []types.Record{},
	}
	for _, r := range records {
		if opts.SkipDisabled && r.Bool("disabled") {
			continue
		}
		if sheet.DestructiveIndex < 0 && r.Bool("destructive") {
			sheet.DestructiveIndex = len(sheet.Records)
		}
		label := r.Label()
		if label == "" {
			label = fmt.Sprintf("Option %d", len(sheet.Records)+1)
		}
		sheet.Options = append(sheet.Options, label)
		sheet.Records = append(sheet.Records, r)
	}
	sheet.CancelIndex = len(sheet.Options)
	sheet.Options = append(sheet.Options, cancel)
	return sheet
}

// Select returns the record behind option index.
func Select(sheet types.ActionSheet, index int) (types.Record, error) {
	if index == sheet.CancelIndex {
		return nil, ErrCancelled
	}
	if index < 0 || index >= len(sheet.Records) {
		return nil, fmt.Errorf("%w: %d (have %d options)", ErrOutOfRange, index, len(sheet.Options))
	}
	return sheet.Records[index], nil
}

// Render formats the sheet as numbered lines.
func Render(sheet types.ActionSheet) string {
	var b strings.Builder
	if sheet.Title != "" {
		fmt.Fprintf(&b, "%s\n", sheet.Title)
	}
	for i, label := range sheet.Options {
		marker := ""
		switch i {
		case sheet.DestructiveIndex:
			marker = " (destructive)"
		case sheet.CancelIndex:
			marker = " (cancel)"
		}
		fmt.Fprintf(&b, "%2d. %s%s\n", i, label, marker)
	}
	return b.String()
}
