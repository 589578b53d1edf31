// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package pdfoxide

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Document is the public entry point described in spec.md §6: a handle
// on an opened PDF, its page count and version, and the per-page glyph/
// block/text accessors. It wraps the lower-level Reader/Page types so
// that a caller never has to touch xref/object-graph details directly.
type Document struct {
	f   *os.File
	r   *Reader
	cfg *Config
}

// OpenDocument opens file and parses its cross-reference structure,
// returning an EncryptedError, UnsupportedVersionError, or a generic
// I/O/MalformedError as documented in spec.md §7 — all fatal at the
// document level, as opposed to the recoverable per-page Diagnostics
// that Page.Content/Page.Blocks produce. cfg may be nil, in which case
// NewDefaultConfig's resource limits apply.
func OpenDocument(file string, cfg *Config) (*Document, error) {
	f, r, err := Open(file)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	major, minor := parseVersion(r.headerVersion())
	if major > 2 || (major == 2 && minor > 0) {
		f.Close()
		return nil, &UnsupportedVersionError{Major: major, Minor: minor}
	}
	return &Document{f: f, r: r, cfg: cfg}, nil
}

// Close releases the underlying file handle.
func (d *Document) Close() error {
	return d.f.Close()
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return d.r.NumPage()
}

// Version returns the document's declared %PDF-major.minor header
// version.
func (d *Document) Version() (major, minor int) {
	return parseVersion(d.r.headerVersion())
}

func parseVersion(s string) (int, int) {
	parts := strings.SplitN(s, ".", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	major, _ := strconv.Atoi(parts[0])
	minor, _ := strconv.Atoi(parts[1])
	return major, minor
}

// Page returns the 1-indexed page at index, or a PageOutOfRangeError if
// index falls outside [1, PageCount()].
func (d *Document) Page(index int) (Page, error) {
	n := d.r.NumPage()
	if index < 1 || index > n {
		return Page{}, &PageOutOfRangeError{Requested: index, Count: n}
	}
	p := d.r.Page(index)
	p.cycleLimit = d.cfg.CycleDepthLimit
	return p, nil
}

// Metadata returns the document's Info-dictionary and XMP-derived
// metadata, wrapping Reader.Metadata.
func (d *Document) Metadata() (Meta, error) {
	return d.r.Metadata()
}

// Options controls Page.Text's reflow behavior (spec.md §6).
type Options struct {
	DetectHeadings bool
	PreserveLayout bool
	IncludeImages  bool
	ImageOutputDir string
}

// DefaultOptions returns the Options a caller gets when passing none:
// headings detected, layout reflowed (not preserved verbatim), images
// noted but not extracted to disk.
func DefaultOptions() Options {
	return Options{DetectHeadings: true, PreserveLayout: false, IncludeImages: true}
}

// Glyphs returns every recovered text run on the page, in content-
// stream emission order, along with any recoverable diagnostics hit
// while interpreting it. This is Content, renamed to match spec.md §6's
// public surface; it is the lowest-level accessor Blocks/Text build on.
func (d *Document) Glyphs(p Page) ([]Text, []Diagnostic) {
	c := p.ContentWithConfig(d.cfg)
	return c.Text, c.Diagnostics
}

// Blocks groups a page's glyphs into reading-order Blocks using mode.
// Auto picks StructureTreeFirst when the document's /StructTreeRoot
// covers the page's glyphs consistently, and falls back to
// AdaptiveXYCut — recording a DiagStructureInconsistent diagnostic when
// the fallback is forced by an inconsistent tree rather than a simply
// absent one.
func (d *Document) Blocks(p Page, mode LayoutMode) ([]Block, []Diagnostic) {
	content := p.ContentWithConfig(d.cfg)
	diags := content.Diagnostics

	useStructure := false
	var tree *structElem
	if mode == StructureTreeFirst || mode == Auto {
		catalog := d.r.Trailer().Key("Root")
		strRoot := catalog.Key("StructTreeRoot")
		if !strRoot.IsNull() {
			tree = buildStructTree(strRoot)
		}
		if tree != nil {
			mcids := make(map[int]bool)
			collectMCIDs(tree, mcids)
			var tagged, total int
			for _, t := range content.Text {
				total++
				if t.MCID >= 0 && mcids[t.MCID] {
					tagged++
				}
			}
			if total == 0 || float64(tagged)/float64(total) >= 0.8 {
				useStructure = true
			} else {
				diags = append(diags, Diagnostic{DiagStructureInconsistent,
					fmt.Sprintf("structure tree covers only %d/%d glyphs, falling back to layout analysis", tagged, total)})
			}
		}
	}

	if mode == StructureTreeFirst && !useStructure {
		diags = append(diags, Diagnostic{DiagStructureInconsistent, "no usable structure tree; falling back to layout analysis"})
	}

	if useStructure && mode != AdaptiveXYCut {
		byMCID := make(map[int][]Text)
		for _, t := range content.Text {
			if t.MCID >= 0 {
				byMCID[t.MCID] = append(byMCID[t.MCID], t)
			}
		}
		bodyFontSize := estimateBodyFontSize(content.Text)
		return structureOrderedBlocks(tree, byMCID, bodyFontSize), diags
	}

	bounds := mediaBoxRect(p)
	return xyCutBlocks(content.Text, bounds), diags
}

func mediaBoxRect(p Page) Rect {
	mb := p.MediaBox()
	if mb.Kind() != Array || mb.Len() != 4 {
		return Rect{Point{0, 0}, Point{612, 792}}
	}
	return Rect{
		Point{mb.Index(0).Float64(), mb.Index(1).Float64()},
		Point{mb.Index(2).Float64(), mb.Index(3).Float64()},
	}
}

// Text reflows a page's Blocks into plain text per opts: paragraphs are
// joined by blank lines and headings are prefixed per their detected
// level. PreserveLayout is not consulted; the output is the same whether
// it is set or not.
func (d *Document) Text(p Page, opts Options) (string, []Diagnostic) {
	mode := Auto
	if !opts.DetectHeadings {
		mode = AdaptiveXYCut
	}
	blocks, diags := d.Blocks(p, mode)

	var sb strings.Builder
	for _, b := range blocks {
		if b.Kind == BlockImage && !opts.IncludeImages {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		if b.Kind == BlockHeading && opts.DetectHeadings {
			sb.WriteString(strings.Repeat("#", maxInt(b.Level, 1)))
			sb.WriteString(" ")
		}
		sb.WriteString(b.Text)
	}
	return sb.String(), diags
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
