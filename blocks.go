// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package pdfoxide

import "sort"

// BlockKind names the kind of logical content a Block carries, per
// spec.md §4.6's formatter-adapter operations (emit_heading,
// emit_paragraph, emit_list_item, emit_table_row, emit_image).
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockListItem
	BlockTableRow
	BlockImage
	BlockCaption
)

func (k BlockKind) String() string {
	switch k {
	case BlockHeading:
		return "heading"
	case BlockListItem:
		return "list_item"
	case BlockTableRow:
		return "table_row"
	case BlockImage:
		return "image"
	case BlockCaption:
		return "caption"
	default:
		return "paragraph"
	}
}

// A Block is one logical unit of page content in reading order: a
// heading, a paragraph, a list item, a table row, or an image/caption
// pair. Level is only meaningful for BlockHeading (1-6, per the
// font-size-ratio thresholds in spec.md §4.5). Bold is not set by
// newBlock and is not consulted by headingLevel; it stays false unless a
// caller sets it.
type Block struct {
	Kind  BlockKind
	Level int
	Bold  bool
	Text  string
	Runs  []Text
	Rect  Rect
}

// newBlock assembles a Block from a set of glyphs already known to
// belong together (either a structure-tree leaf's MCID span, or an
// AdaptiveXYCut line/paragraph group), concatenating their S fields in
// X-then-Y reading order and computing a bounding Rect.
//
// bodyFontSize is the page's estimated body-text baseline, used by the
// font-ratio heuristic (headingLevel) to assign BlockHeading.Level.
// explicitLevel, when non-zero, is an already-known level (e.g. parsed
// from a structure-tree "Hn" tag per spec.md §4.5) that takes precedence
// over the heuristic.
func newBlock(kind BlockKind, glyphs []Text, bodyFontSize float64, explicitLevel int) Block {
	sorted := make([]Text, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var text string
	min, max := Point{1e18, 1e18}, Point{-1e18, -1e18}
	for i, g := range sorted {
		if i > 0 && needsWordBreak(sorted[i-1], g) {
			text += " "
		}
		text += g.S
		if g.X < min.X {
			min.X = g.X
		}
		if g.Y < min.Y {
			min.Y = g.Y
		}
		if x := g.X + g.W; x > max.X {
			max.X = x
		}
		if y := g.Y + g.FontSize; y > max.Y {
			max.Y = y
		}
	}

	b := Block{Kind: kind, Text: text, Runs: sorted, Rect: Rect{min, max}}
	if kind == BlockHeading {
		if explicitLevel > 0 {
			b.Level = explicitLevel
		} else {
			b.Level = headingLevel(averageFontSize(sorted), bodyFontSize)
		}
	}
	return b
}

// needsWordBreak applies the word-assembly rule: a gap wider than 0.3 of
// the preceding glyph's font size is treated as a word boundary even when
// the content stream never emitted an explicit space. Glyphs on different
// baselines are always separated.
func needsWordBreak(prev, cur Text) bool {
	if prev.Y != cur.Y {
		return true
	}
	gap := cur.X - (prev.X + prev.W)
	return gap > 0.3*prev.FontSize
}

func averageFontSize(glyphs []Text) float64 {
	if len(glyphs) == 0 {
		return 0
	}
	var sum float64
	for _, g := range glyphs {
		sum += g.FontSize
	}
	return sum / float64(len(glyphs))
}

// defaultBodyFontSize is the body-text baseline assumed when a page has
// too little text for estimateBodyFontSize to produce a useful median.
const defaultBodyFontSize = 11.0

// headingLevel maps a heading run's font-size ratio against body text to
// a level using the ratio thresholds 1.8, 1.5, 1.25 and 1.1 (levels 1-4);
// any lower ratio gives 5, and a non-positive body size gives 2. Font
// weight is not taken into account, and level 6 is never returned.
func headingLevel(size, body float64) int {
	if body <= 0 {
		return 2
	}
	ratio := size / body
	switch {
	case ratio >= 1.8:
		return 1
	case ratio >= 1.5:
		return 2
	case ratio >= 1.25:
		return 3
	case ratio >= 1.1:
		return 4
	default:
		return 5
	}
}
