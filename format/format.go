// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package format renders a pdfoxide block list into downstream text
// formats. Each adapter is a pure function of its input — spec.md §4.6
// requires to_markdown(blocks) == to_markdown(blocks) for any two calls
// with an identical block list — so none of them touch the filesystem
// or hold state across calls; ImageOutputDir handling, if ever added,
// belongs to the caller, not here.
package format

import (
	"html"
	"strings"

	pdfoxide "github.com/scostello/pdf-oxide"
)

// Options mirrors the subset of pdfoxide.Options a formatter cares
// about. It is a separate type (rather than reusing pdfoxide.Options
// directly) so this package has no dependency on Document/Page.
type Options struct {
	IncludeImages bool
}

// Markdown renders blocks as CommonMark-flavored Markdown: ATX headings,
// blank-line-separated paragraphs, "- " list items, and "| a | b |"
// table rows. Consecutive BlockTableRow entries are grouped into one
// Markdown table with a header-separator row inserted after the first.
func Markdown(blocks []pdfoxide.Block, opts Options) string {
	var sb strings.Builder
	inTable := false
	for i, b := range blocks {
		if b.Kind != pdfoxide.BlockTableRow && inTable {
			inTable = false
		}
		if i > 0 {
			if inTable && b.Kind == pdfoxide.BlockTableRow {
				sb.WriteString("\n")
			} else {
				sb.WriteString("\n\n")
			}
		}
		switch b.Kind {
		case pdfoxide.BlockHeading:
			sb.WriteString(strings.Repeat("#", clamp(b.Level, 1, 6)))
			sb.WriteString(" ")
			sb.WriteString(b.Text)
		case pdfoxide.BlockListItem:
			sb.WriteString("- ")
			sb.WriteString(b.Text)
		case pdfoxide.BlockTableRow:
			cells := strings.Split(b.Text, "\t")
			sb.WriteString("| ")
			sb.WriteString(strings.Join(cells, " | "))
			sb.WriteString(" |")
			if !inTable {
				sb.WriteString("\n|")
				sb.WriteString(strings.Repeat(" --- |", len(cells)))
				inTable = true
			}
		case pdfoxide.BlockImage, pdfoxide.BlockCaption:
			if !opts.IncludeImages {
				continue
			}
			sb.WriteString("![")
			sb.WriteString(b.Text)
			sb.WriteString("]()")
		default:
			sb.WriteString(b.Text)
		}
	}
	return sb.String()
}

// HTML renders blocks as a flat sequence of block-level HTML elements:
// <h1>-<h6>, <p>, <li> (unwrapped in <ul>/<ol>; the caller groups runs
// of list items if it wants a single list container), <tr><td>...</td></tr>,
// and <figure><figcaption>.
func HTML(blocks []pdfoxide.Block, opts Options) string {
	var sb strings.Builder
	for _, b := range blocks {
		switch b.Kind {
		case pdfoxide.BlockHeading:
			tag := "h" + string(rune('0'+clamp(b.Level, 1, 6)))
			sb.WriteString("<" + tag + ">" + html.EscapeString(b.Text) + "</" + tag + ">\n")
		case pdfoxide.BlockListItem:
			sb.WriteString("<li>" + html.EscapeString(b.Text) + "</li>\n")
		case pdfoxide.BlockTableRow:
			sb.WriteString("<tr>")
			for _, cell := range strings.Split(b.Text, "\t") {
				sb.WriteString("<td>" + html.EscapeString(cell) + "</td>")
			}
			sb.WriteString("</tr>\n")
		case pdfoxide.BlockImage, pdfoxide.BlockCaption:
			if !opts.IncludeImages {
				continue
			}
			sb.WriteString("<figure><figcaption>" + html.EscapeString(b.Text) + "</figcaption></figure>\n")
		default:
			sb.WriteString("<p>" + html.EscapeString(b.Text) + "</p>\n")
		}
	}
	return sb.String()
}

// PlainText renders blocks as reflowed plain text: blank-line-separated
// paragraphs/headings, "- "-prefixed list items, tab-separated table
// cells, and images omitted unless opts.IncludeImages is set.
func PlainText(blocks []pdfoxide.Block, opts Options) string {
	var parts []string
	for _, b := range blocks {
		switch b.Kind {
		case pdfoxide.BlockImage, pdfoxide.BlockCaption:
			if !opts.IncludeImages {
				continue
			}
			parts = append(parts, b.Text)
		case pdfoxide.BlockListItem:
			parts = append(parts, "- "+b.Text)
		default:
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
