// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package pdfoxide

import "sort"

// LayoutMode selects how Page.Blocks groups a page's glyphs into
// logical Blocks (spec.md §4.5 / §6).
type LayoutMode int

const (
	// Auto picks StructureTreeFirst when the page has a valid, glyph-
	// covering structure tree, and falls back to AdaptiveXYCut otherwise.
	Auto LayoutMode = iota
	StructureTreeFirst
	AdaptiveXYCut
)

const histogramBins = 100

// estimateBodyFontSize returns the modal font size across glyphs, used
// as the "body text" baseline that heading-level ratios are computed
// against.
func estimateBodyFontSize(glyphs []Text) float64 {
	if len(glyphs) == 0 {
		return defaultBodyFontSize
	}
	counts := make(map[float64]int)
	for _, g := range glyphs {
		counts[roundTo(g.FontSize, 0.5)]++
	}
	var best float64
	var bestN int
	for size, n := range counts {
		if n > bestN {
			best, bestN = size, n
		}
	}
	if best == 0 {
		return 11.0
	}
	return best
}

func roundTo(v, step float64) float64 {
	if step == 0 {
		return v
	}
	return float64(int(v/step+0.5)) * step
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// medianCharWidth and medianCharHeight give AdaptiveXYCut its scale-
// invariant tolerances: merges and cuts are expressed as multiples of
// these rather than fixed point sizes, so the algorithm behaves the same
// at 8pt footnotes and 48pt posters.
func medianCharWidth(glyphs []Text) float64 {
	vals := make([]float64, 0, len(glyphs))
	for _, g := range glyphs {
		if g.W > 0 {
			vals = append(vals, g.W)
		}
	}
	return median(vals)
}

func medianCharHeight(glyphs []Text) float64 {
	vals := make([]float64, 0, len(glyphs))
	for _, g := range glyphs {
		if g.FontSize > 0 {
			vals = append(vals, g.FontSize)
		}
	}
	return median(vals)
}

// xyCutBlocks implements the AdaptiveXYCut layout engine of spec.md
// §4.5: a recursive column cut on the X-projection histogram (no
// Y-projection split is made) that terminates once a region is narrower
// than roughly 3 median char-heights or holds
// fewer than 10 glyphs, after which lines are merged (tolerance 0.5×h̄),
// words assembled (gap > 0.3×fontsize), and adjacent lines grouped into
// blocks (left-edge within 1×h̄, vertical gap within 1.5×h̄).
func xyCutBlocks(glyphs []Text, bounds Rect) []Block {
	if len(glyphs) == 0 {
		return nil
	}
	h := medianCharHeight(glyphs)
	w := medianCharWidth(glyphs)
	if h <= 0 {
		h = 10
	}
	if w <= 0 {
		w = 5
	}
	bodyFontSize := estimateBodyFontSize(glyphs)

	regions := recursiveCut(glyphs, bounds, h, w)
	var blocks []Block
	for _, region := range regions {
		lines := mergeLines(region, h)
		blocks = append(blocks, groupLinesIntoBlocks(lines, h, bodyFontSize)...)
	}
	return blocks
}

// recursiveCut splits glyphs into sub-regions at column gaps found in the
// X-projection histogram (findColumnGap) until a region is too small to
// usefully subdivide further or has no such gap. It never splits on
// horizontal (Y-projection) gaps; stacked content stays in one region.
func recursiveCut(glyphs []Text, bounds Rect, h, w float64) [][]Text {
	if len(glyphs) < 10 || (bounds.Max.X-bounds.Min.X) < 3*h {
		return [][]Text{glyphs}
	}

	if cut, left, right := findColumnGap(glyphs, bounds, w); cut {
		var leftG, rightG []Text
		for _, g := range glyphs {
			if g.X < left {
				leftG = append(leftG, g)
			} else if g.X >= right {
				rightG = append(rightG, g)
			} else {
				leftG = append(leftG, g)
			}
		}
		lb := bounds
		lb.Max.X = left
		rb := bounds
		rb.Min.X = right
		out := recursiveCut(leftG, lb, h, w)
		out = append(out, recursiveCut(rightG, rb, h, w)...)
		return out
	}

	return [][]Text{glyphs}
}

// findColumnGap bins glyph coverage into a 100-bucket X histogram and
// looks for the widest low-density valley, per spec.md §4.5: the column
// gap threshold is max(2×median-char-width, the widest valley whose
// density is under 15% of mean bin density and whose width exceeds
// 1.5×median-char-width).
func findColumnGap(glyphs []Text, bounds Rect, medianW float64) (bool, float64, float64) {
	width := bounds.Max.X - bounds.Min.X
	if width <= 0 {
		return false, 0, 0
	}
	binW := width / histogramBins
	if binW <= 0 {
		return false, 0, 0
	}
	var bins [histogramBins]int
	for _, g := range glyphs {
		idx := int((g.X - bounds.Min.X) / binW)
		if idx < 0 {
			idx = 0
		}
		if idx >= histogramBins {
			idx = histogramBins - 1
		}
		bins[idx]++
	}
	var total int
	for _, c := range bins {
		total += c
	}
	mean := float64(total) / histogramBins

	minGapBins := int((1.5 * medianW) / binW)
	if minGapBins < 1 {
		minGapBins = 1
	}

	bestStart, bestLen := -1, 0
	i := 0
	for i < histogramBins {
		if float64(bins[i]) <= 0.15*mean {
			j := i
			for j < histogramBins && float64(bins[j]) <= 0.15*mean {
				j++
			}
			if j-i > bestLen {
				bestStart, bestLen = i, j-i
			}
			i = j
		} else {
			i++
		}
	}
	if bestStart < 0 || float64(bestLen)*binW < max2(2*medianW, 1.5*medianW) {
		return false, 0, 0
	}
	left := bounds.Min.X + float64(bestStart)*binW
	right := bounds.Min.X + float64(bestStart+bestLen)*binW
	return true, left, right
}

func max2(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// mergeLines groups glyphs sharing (within tolerance 0.5×h̄) a Y
// baseline into ordered lines, top to bottom.
func mergeLines(glyphs []Text, h float64) [][]Text {
	sorted := make([]Text, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Y > sorted[j].Y })

	tol := 0.5 * h
	var lines [][]Text
	for _, g := range sorted {
		placed := false
		for i := range lines {
			if absf(lines[i][0].Y-g.Y) <= tol {
				lines[i] = append(lines[i], g)
				placed = true
				break
			}
		}
		if !placed {
			lines = append(lines, []Text{g})
		}
	}
	for i := range lines {
		sort.SliceStable(lines[i], func(a, b int) bool { return lines[i][a].X < lines[i][b].X })
	}
	return lines
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// groupLinesIntoBlocks merges adjacent lines into Blocks when their left
// edges line up within 1×h̄ and the vertical gap between them is within
// 1.5×h̄ — spec.md §4.5's block-grouping rule — classifying the result
// as a heading when its font size stands out from the body baseline.
func groupLinesIntoBlocks(lines [][]Text, h float64, bodyFontSize float64) []Block {
	if len(lines) == 0 {
		return nil
	}
	leftTol := 1 * h
	gapTol := 1.5 * h

	var blocks []Block
	var current []Text
	var prevLeft, prevBottom float64
	first := true

	flush := func() {
		if len(current) == 0 {
			return
		}
		size := averageFontSize(current)
		kind := BlockParagraph
		if size > bodyFontSize*1.1 {
			kind = BlockHeading
		}
		blocks = append(blocks, newBlock(kind, current, bodyFontSize, 0))
		current = nil
	}

	for _, line := range lines {
		left := line[0].X
		bottom := line[0].Y
		if first {
			current = append(current, line...)
			prevLeft, prevBottom = left, bottom
			first = false
			continue
		}
		sameBlock := absf(left-prevLeft) <= leftTol && (prevBottom-bottom) <= gapTol
		if sameBlock {
			current = append(current, line...)
		} else {
			flush()
			current = append(current, line...)
		}
		prevLeft, prevBottom = left, bottom
	}
	flush()
	return blocks
}
