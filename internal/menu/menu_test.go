// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/element-inspector/pkg/types"
)

func sampleRecords() []types.Record {
	return []types.Record{
		{"label": "Add Item", "onPress": "add"},
		{"title": "Delete Item", "onPress": "delete", "destructive": true},
		{"label": "Archive", "disabled": true},
	}
}

func TestBuild(t *testing.T) {
	sheet := Build(sampleRecords(), Options{Title: "Items"})

	assert.Equal(t, []string{"Add Item", "Delete Item", "Archive", "Cancel"}, sheet.Options)
	assert.Equal(t, 3, sheet.CancelIndex)
	assert.Equal(t, 1, sheet.DestructiveIndex)
	assert.Len(t, sheet.Records, 3)
	assert.Equal(t, "Items", sheet.Title)
}

func TestBuild_Options(t *testing.T) {
	t.Run("skip disabled and custom cancel", func(t *testing.T) {
		sheet := Build(sampleRecords(), Options{SkipDisabled: true, CancelLabel: "Close"})
		assert.Equal(t, []string{"Add Item", "Delete Item", "Close"}, sheet.Options)
		assert.Equal(t, 2, sheet.CancelIndex)
	})

	t.Run("empty records", func(t *testing.T) {
		sheet := Build(nil, Options{})
		assert.Equal(t, []string{"Cancel"}, sheet.Options)
		assert.Equal(t, 0, sheet.CancelIndex)
		assert.Equal(t, -1, sheet.DestructiveIndex)
		assert.NotNil(t, sheet.Records)
	})

	t.Run("unlabelled records get a placeholder", func(t *testing.T) {
		sheet := Build([]types.Record{{"onPress": "x"}}, Options{})
		assert.Equal(t, "Option 1", sheet.Options[0])
	})
}

func TestSelect(t *testing.T) {
	sheet := Build(sampleRecords(), Options{})

	r, err := Select(sheet, 1)
	require.NoError(t, err)
	assert.Equal(t, "delete", r.Text("onPress"))

	_, err = Select(sheet, sheet.CancelIndex)
	assert.ErrorIs(t, err, ErrCancelled)

	_, err = Select(sheet, 7)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = Select(sheet, -1)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestRender(t *testing.T) {
	out := Render(Build(sampleRecords()[:2], Options{Title: "Items"}))
	assert.Equal(t, "Items\n 0. Add Item\n 1. Delete Item (destructive)\n 2. Cancel (cancel)\n", out)
}
