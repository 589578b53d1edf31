// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package pdfoxide

import "github.com/scostello/pdf-oxide/logger"

// structElem is one node of a document's tagged-PDF structure tree
// (ISO 32000-1 §14.7): S names the structure type (P, H1, Table, ...),
// K holds nested children — further structElems, bare MCIDs, or object
// references. Pg is not read: an MCID is matched against the current
// page's glyphs regardless of which page the tree assigns it to.
type structElem struct {
	Type     string
	Children []structNode
}

// structNode is either a nested structElem or a leaf MCID tied to a page.
type structNode struct {
	Elem *structElem
	MCID int
	HasM bool
}

// buildStructTree walks the document catalog's /StructTreeRoot, if any,
// into a structElem tree. It returns nil if the catalog has no structure
// tree, per the "mode = AdaptiveXYCut" fallback in the layout engine.
func buildStructTree(root Value) *structElem {
	k := root.Key("K")
	if k.IsNull() {
		return nil
	}
	elem := walkStructElem(k, 0)
	return elem
}

const structTreeDepthLimit = 64

func walkStructElem(v Value, depth int) *structElem {
	if depth > structTreeDepthLimit {
		logger.Error("structure tree exceeded depth limit, treating as inconsistent")
		return nil
	}
	switch v.Kind() {
	case Dict:
		e := &structElem{Type: v.Key("S").Name()}
		k := v.Key("K")
		switch k.Kind() {
		case Array:
			for i := 0; i < k.Len(); i++ {
				if n, ok := structChild(k.Index(i), depth); ok {
					e.Children = append(e.Children, n)
				}
			}
		default:
			if n, ok := structChild(k, depth); ok {
				e.Children = append(e.Children, n)
			}
		}
		return e
	case Array:
		e := &structElem{Type: "Document"}
		for i := 0; i < v.Len(); i++ {
			if n, ok := structChild(v.Index(i), depth); ok {
				e.Children = append(e.Children, n)
			}
		}
		return e
	default:
		return nil
	}
}

func structChild(v Value, depth int) (structNode, bool) {
	switch v.Kind() {
	case Integer:
		return structNode{MCID: int(v.Int64()), HasM: true}, true
	case Dict:
		if v.Key("Type").Name() == "MCR" || v.Key("Type").Name() == "OBJR" {
			if mcid := v.Key("MCID"); mcid.Kind() == Integer {
				return structNode{MCID: int(mcid.Int64()), HasM: true}, true
			}
			return structNode{}, false
		}
		child := walkStructElem(v, depth+1)
		if child == nil {
			return structNode{}, false
		}
		return structNode{Elem: child}, true
	default:
		return structNode{}, false
	}
}

// blockKindForStructType maps a structure type name to the Block kind it
// produces (spec.md §4.5, StructureTreeFirst table).
func blockKindForStructType(s string) BlockKind {
	switch s {
	case "H", "H1", "H2", "H3", "H4", "H5", "H6":
		return BlockHeading
	case "P":
		return BlockParagraph
	case "L", "LI", "LBody":
		return BlockListItem
	case "Table", "TR", "TH", "TD":
		return BlockTableRow
	case "Figure":
		return BlockImage
	case "Caption":
		return BlockCaption
	default:
		return BlockParagraph
	}
}

// headingLevelForStructType extracts the level named by an "Hn" structure
// type (spec.md §4.5: "in StructureTreeFirst its element type was H/Hn").
// A bare "H" carries no level of its own and returns 0, leaving the
// caller to fall back to the font-ratio heuristic.
func headingLevelForStructType(s string) int {
	if len(s) == 2 && s[0] == 'H' && s[1] >= '1' && s[1] <= '6' {
		return int(s[1] - '0')
	}
	return 0
}

// collectMCIDs returns every MCID referenced anywhere in the tree, used to
// test the "glyphs reference MCIDs appearing in the tree" mode-selection
// condition and the structure-inconsistency fallback.
func collectMCIDs(e *structElem, out map[int]bool) {
	if e == nil {
		return
	}
	for _, c := range e.Children {
		if c.HasM {
			out[c.MCID] = true
		}
		if c.Elem != nil {
			collectMCIDs(c.Elem, out)
		}
	}
}

// structureOrderedBlocks performs the depth-first StructureTreeFirst
// traversal described in spec.md §4.5, turning each leaf MCID's glyphs
// (content-stream order preserved) into Blocks in tree order.
func structureOrderedBlocks(root *structElem, glyphsByMCID map[int][]Text, bodyFontSize float64) []Block {
	var out []Block
	var walk func(e *structElem)
	walk = func(e *structElem) {
		if e == nil {
			return
		}
		kind := blockKindForStructType(e.Type)
		level := headingLevelForStructType(e.Type)
		var collected []Text
		var hasNestedElem bool
		for _, c := range e.Children {
			if c.HasM {
				collected = append(collected, glyphsByMCID[c.MCID]...)
			}
			if c.Elem != nil {
				hasNestedElem = true
			}
		}
		if len(collected) > 0 {
			out = append(out, newBlock(kind, collected, bodyFontSize, level))
		}
		if hasNestedElem {
			for _, c := range e.Children {
				if c.Elem != nil {
					walk(c.Elem)
				}
			}
		}
	}
	walk(root)
	return out
}
