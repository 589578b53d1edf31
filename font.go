// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package pdfoxide

import (
	"io"

	"golang.org/x/image/font/sfnt"

	"github.com/scostello/pdf-oxide/logger"
)

// sfntPostNames reads the 'post' table of an embedded TrueType/CFF
// program (a Type0/TrueType font's /FontDescriptor /FontFile2 or
// /FontFile3 stream) and returns its glyph-name-by-GID table, when the
// table carries names (post format 2.0) rather than just indices into
// the standard Macintosh glyph order.
//
// This is the font resolver's last-resort level, tried only when a font
// has neither a ToUnicode CMap nor a usable /Encoding/Differences: a
// best-effort sniff of the program's own glyph names, mapped through
// the Adobe Glyph List the same way /Differences entries are. It is
// never required for a well-formed document and is skipped entirely if
// the table is absent, unreadable, or lacks names.
func sfntPostNames(fontFile Value) map[int]string {
	if fontFile.Kind() != Stream {
		return nil
	}
	rc := fontFile.Reader()
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		logger.Debug("sfntPostNames: failed to read embedded font program")
		return nil
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		logger.Debug("sfntPostNames: embedded program is not a parseable sfnt")
		return nil
	}
	var buf sfnt.Buffer
	numGlyphs := f.NumGlyphs()
	names := make(map[int]string, numGlyphs)
	for gid := 0; gid < numGlyphs; gid++ {
		name, err := f.GlyphName(&buf, sfnt.GlyphIndex(gid))
		if err != nil || name == "" {
			continue
		}
		names[gid] = name
	}
	if len(names) == 0 {
		return nil
	}
	return names
}

// sfntFallbackEncoder decodes single-byte codes by treating them as
// glyph indices into an embedded font program's 'post' table, then
// resolving the glyph name through the Adobe Glyph List — the font
// resolver's level-4 fallback (spec.md §4.3) for simple fonts that
// declare neither a ToUnicode CMap nor a named/Differences encoding.
type sfntFallbackEncoder struct {
	glyphNames map[int]string
}

func (e *sfntFallbackEncoder) Decode(raw string) string {
	r := make([]rune, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		gid := int(raw[i])
		if name, ok := e.glyphNames[gid]; ok {
			if ru, ok := nameToRune[name]; ok {
				r = append(r, ru)
				continue
			}
		}
		r = append(r, rune(raw[i]))
	}
	return string(r)
}

// fontDescriptorProgram returns whichever embedded font program stream
// a /FontDescriptor carries (FontFile, FontFile2, or FontFile3), or a
// null Value if the font is not embedded.
func fontDescriptorProgram(descriptor Value) Value {
	for _, key := range []string{"FontFile2", "FontFile3", "FontFile"} {
		if v := descriptor.Key(key); v.Kind() == Stream {
			return v
		}
	}
	return Value{}
}
