// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package pdfoxide

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func glyph(x, y, fontSize, width float64, s string) Text {
	return Text{Font: "F1", FontSize: fontSize, X: x, Y: y, W: width, S: s}
}

func TestNewBlock_AssemblesReadingOrderAndRect(t *testing.T) {
	glyphs := []Text{
		glyph(50, 700, 10, 8, "B"),
		glyph(40, 700, 10, 8, "A"),
		glyph(40, 680, 10, 8, "C"),
	}
	b := newBlock(BlockParagraph, glyphs, 10, 0)
	assert.Equal(t, "AB C", b.Text)
	assert.Equal(t, Point{40, 680}, b.Rect.Min)
}

func TestNewBlock_ExplicitLevelOverridesFontRatioHeuristic(t *testing.T) {
	// Font size ratio here (12/10 = 1.2) would heuristically map to
	// level 4, but an explicit level (e.g. parsed from a structure-tree
	// "H3" tag) must win.
	glyphs := []Text{glyph(0, 0, 12, 6, "Heading")}
	b := newBlock(BlockHeading, glyphs, 10, 3)
	assert.Equal(t, 3, b.Level)
}

func TestNewBlock_FallsBackToFontRatioHeuristicWhenNoExplicitLevel(t *testing.T) {
	glyphs := []Text{glyph(0, 0, 18, 9, "Heading")}
	b := newBlock(BlockHeading, glyphs, 10, 0)
	assert.Equal(t, 1, b.Level) // ratio 1.8 -> level 1
}

func TestNewBlock_NonHeadingKindIgnoresLevel(t *testing.T) {
	glyphs := []Text{glyph(0, 0, 18, 9, "Body")}
	b := newBlock(BlockParagraph, glyphs, 10, 3)
	assert.Equal(t, 0, b.Level)
}

func TestNeedsWordBreak(t *testing.T) {
	prev := glyph(0, 100, 10, 5, "a")
	tests := []struct {
		name string
		cur  Text
		want bool
	}{
		{"same line, tight gap", glyph(5.1, 100, 10, 5, "b"), false},
		{"same line, wide gap", glyph(10, 100, 10, 5, "b"), true},
		{"different line", glyph(5.1, 90, 10, 5, "b"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, needsWordBreak(prev, tt.cur))
		})
	}
}

func TestAverageFontSize(t *testing.T) {
	assert.Equal(t, 0.0, averageFontSize(nil))
	glyphs := []Text{glyph(0, 0, 10, 1, "a"), glyph(0, 0, 20, 1, "b")}
	assert.Equal(t, 15.0, averageFontSize(glyphs))
}

func TestHeadingLevel(t *testing.T) {
	tests := []struct {
		name string
		size float64
		body float64
		want int
	}{
		{"no body baseline", 20, 0, 2},
		{"ratio 1.8 -> h1", 18, 10, 1},
		{"ratio 1.5 -> h2", 15, 10, 2},
		{"ratio 1.25 -> h3", 12.5, 10, 3},
		{"ratio 1.1 -> h4", 11, 10, 4},
		{"ratio below threshold -> h5", 10.5, 10, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, headingLevel(tt.size, tt.body))
		})
	}
}

func TestBlockKind_String(t *testing.T) {
	tests := []struct {
		kind BlockKind
		want string
	}{
		{BlockHeading, "heading"},
		{BlockListItem, "list_item"},
		{BlockTableRow, "table_row"},
		{BlockImage, "image"},
		{BlockCaption, "caption"},
		{BlockParagraph, "paragraph"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}
