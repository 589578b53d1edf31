// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package pdfoxide

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlockKindForStructType(t *testing.T) {
	tests := []struct {
		s    string
		want BlockKind
	}{
		{"H", BlockHeading},
		{"H1", BlockHeading},
		{"H6", BlockHeading},
		{"P", BlockParagraph},
		{"L", BlockListItem},
		{"LI", BlockListItem},
		{"LBody", BlockListItem},
		{"Table", BlockTableRow},
		{"TR", BlockTableRow},
		{"TD", BlockTableRow},
		{"Figure", BlockImage},
		{"Caption", BlockCaption},
		{"Span", BlockParagraph},
	}
	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			assert.Equal(t, tt.want, blockKindForStructType(tt.s))
		})
	}
}

func TestHeadingLevelForStructType(t *testing.T) {
	tests := []struct {
		s    string
		want int
	}{
		{"H", 0},
		{"H1", 1},
		{"H2", 2},
		{"H3", 3},
		{"H4", 4},
		{"H5", 5},
		{"H6", 6},
		{"P", 0},
		{"H7", 0},
		{"Header", 0},
	}
	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			assert.Equal(t, tt.want, headingLevelForStructType(tt.s))
		})
	}
}

// TestStructureOrderedBlocks_UsesTagLevelNotFontRatio exercises the
// StructureTreeFirst path of spec.md §4.5: an "H3" element must produce a
// level-3 heading block even though its glyphs' font-size ratio against
// the body baseline would heuristically suggest a different level.
func TestStructureOrderedBlocks_UsesTagLevelNotFontRatio(t *testing.T) {
	root := &structElem{
		Type: "Document",
		Children: []structNode{
			{Elem: &structElem{Type: "H3", Children: []structNode{{MCID: 1, HasM: true}}}},
			{Elem: &structElem{Type: "P", Children: []structNode{{MCID: 2, HasM: true}}}},
		},
	}
	glyphsByMCID := map[int][]Text{
		1: {glyph(0, 0, 11, 5, "Section Heading")}, // font ratio alone would pick level 4
		2: {glyph(0, 0, 10, 5, "Body text.")},
	}
	blocks := structureOrderedBlocks(root, glyphsByMCID, 10)
	if assert.Len(t, blocks, 2) {
		assert.Equal(t, BlockHeading, blocks[0].Kind)
		assert.Equal(t, 3, blocks[0].Level)
		assert.Equal(t, BlockParagraph, blocks[1].Kind)
	}
}

func TestStructureOrderedBlocks_BareHFallsBackToFontRatio(t *testing.T) {
	root := &structElem{
		Type:     "H",
		Children: []structNode{{MCID: 1, HasM: true}},
	}
	glyphsByMCID := map[int][]Text{
		1: {glyph(0, 0, 18, 5, "Heading")}, // ratio 1.8 -> level 1
	}
	blocks := structureOrderedBlocks(root, glyphsByMCID, 10)
	if assert.Len(t, blocks, 1) {
		assert.Equal(t, 1, blocks[0].Level)
	}
}

func TestStructureOrderedBlocks_SkipsEmptyElements(t *testing.T) {
	root := &structElem{
		Type: "Document",
		Children: []structNode{
			{Elem: &structElem{Type: "P"}}, // no MCID children, no glyphs
			{Elem: &structElem{Type: "P", Children: []structNode{{MCID: 1, HasM: true}}}},
		},
	}
	glyphsByMCID := map[int][]Text{1: {glyph(0, 0, 10, 5, "Only block")}}
	blocks := structureOrderedBlocks(root, glyphsByMCID, 10)
	assert.Len(t, blocks, 1)
}

func TestCollectMCIDs(t *testing.T) {
	root := &structElem{
		Children: []structNode{
			{MCID: 1, HasM: true},
			{Elem: &structElem{Children: []structNode{{MCID: 2, HasM: true}}}},
			{MCID: 0}, // HasM false, should not be collected
		},
	}
	out := make(map[int]bool)
	collectMCIDs(root, out)
	assert.True(t, out[1])
	assert.True(t, out[2])
	assert.Len(t, out, 2)
}

func TestBuildStructTree_NoStructTreeRoot(t *testing.T) {
	assert.Nil(t, buildStructTree(Value{}))
}
