package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories() {
		assert.True(t, c.Valid(), "category %s should be valid", c)
	}
	assert.False(t, Category("billing").Valid())
	assert.False(t, Category("").Valid())
}

func TestCategoryLabelsRoundTrip(t *testing.T) {
	for _, c := range Categories() {
		got, ok := CategoryFromLabel(c.Label())
		require.True(t, ok, "label %q should parse", c.Label())
		assert.Equal(t, c, got)
	}
}

func TestCategoryFromLabel_Unknown(t *testing.T) {
	_, ok := CategoryFromLabel("по сроккам") // historical typo must not validate
	assert.False(t, ok)

	_, ok = CategoryFromLabel("")
	assert.False(t, ok)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "awaiting-category", StateAwaitingCategory.String())
	assert.Equal(t, "collecting-content", StateCollectingContent.String())
	assert.Equal(t, "unknown", State(99).String())
}

func TestResolveOutcomeString(t *testing.T) {
	assert.Equal(t, "not-found", ResolveNotFound.String())
	assert.Equal(t, "bound", ResolveBound.String())
	assert.Equal(t, "conflict", ResolveConflict.String())
}

func TestUpdateContentOf(t *testing.T) {
	tests := []struct {
		name string
		u    Update
		want ContentItem
	}{
		{"text", Update{MessageID: 7, Text: "help"}, ContentItem{Kind: ItemText, MessageID: 7}},
		{"photo", Update{PhotoFileID: "ph-1"}, ContentItem{Kind: ItemPhoto, FileID: "ph-1"}},
		{"document", Update{DocumentFileID: "doc-1"}, ContentItem{Kind: ItemDocument, FileID: "doc-1"}},
		{"sticker or similar", Update{MessageID: 9}, ContentItem{Kind: ItemUnknown}},
		{"attachment wins over caption", Update{MessageID: 3, Text: "caption", PhotoFileID: "ph"}, ContentItem{Kind: ItemPhoto, FileID: "ph"}},
		{"document wins over caption", Update{MessageID: 4, Text: "caption", DocumentFileID: "doc"}, ContentItem{Kind: ItemDocument, FileID: "doc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.u.ContentOf())
		})
	}
}
