// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package pdfoxide

import (
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// pdfDocEncoding maps single bytes under PDFDocEncoding (ISO 32000-1
// Appendix D, Table D.2) to Unicode runes. Bytes 0x20-0x7E are ASCII;
// bytes 0x00-0x1F (excluding the three whitespace controls PDF text
// strings sometimes carry) and 0x7F are unassigned in PDFDocEncoding and
// map to the replacement character so isPDFDocEncoded can reject them.
var pdfDocEncoding [256]rune

// pdfDocEncodingUpper128 covers bytes 0x80-0xFF of PDFDocEncoding.
var pdfDocEncodingUpper128 = [128]rune{
	0x2022, 0x2020, 0x2021, 0x2026, 0x2014, 0x2013, 0x0192, 0x2044, // 128-135
	0x2039, 0x203A, 0x2212, 0x2030, 0x201E, 0x201C, 0x201D, 0x2018, // 136-143
	0x2019, 0x201A, 0x2122, 0xFB01, 0xFB02, 0x0141, 0x0152, 0x0160, // 144-151
	0x0178, 0x017D, 0x0131, 0x0142, 0x0153, 0x0161, 0x017E, 0xFFFD, // 152-159
	0x20AC, 0x00A1, 0x00A2, 0x00A3, 0x00A4, 0x00A5, 0x00A6, 0x00A7, // 160-167
	0x00A8, 0x00A9, 0x00AA, 0x00AB, 0x00AC, 0x00AD, 0x00AE, 0x00AF, // 168-175
	0x00B0, 0x00B1, 0x00B2, 0x00B3, 0x00B4, 0x00B5, 0x00B6, 0x00B7, // 176-183
	0x00B8, 0x00B9, 0x00BA, 0x00BB, 0x00BC, 0x00BD, 0x00BE, 0x00BF, // 184-191
	0x00C0, 0x00C1, 0x00C2, 0x00C3, 0x00C4, 0x00C5, 0x00C6, 0x00C7, // 192-199
	0x00C8, 0x00C9, 0x00CA, 0x00CB, 0x00CC, 0x00CD, 0x00CE, 0x00CF, // 200-207
	0x00D0, 0x00D1, 0x00D2, 0x00D3, 0x00D4, 0x00D5, 0x00D6, 0x00D7, // 208-215
	0x00D8, 0x00D9, 0x00DA, 0x00DB, 0x00DC, 0x00DD, 0x00DE, 0x00DF, // 216-223
	0x00E0, 0x00E1, 0x00E2, 0x00E3, 0x00E4, 0x00E5, 0x00E6, 0x00E7, // 224-231
	0x00E8, 0x00E9, 0x00EA, 0x00EB, 0x00EC, 0x00ED, 0x00EE, 0x00EF, // 232-239
	0x00F0, 0x00F1, 0x00F2, 0x00F3, 0x00F4, 0x00F5, 0x00F6, 0x00F7, // 240-247
	0x00F8, 0x00F9, 0x00FA, 0x00FB, 0x00FC, 0x00FD, 0x00FE, 0x00FF, // 248-255
}

// winAnsiEncoding and macRomanEncoding are the two named simple encodings
// a PDF font's /Encoding entry most commonly selects (ISO 32000-1 Annex
// D). Both are near-identical to a Windows code page / classic Mac OS
// script, so the upper half is built from golang.org/x/text/encoding's
// charmap tables rather than transcribed by hand.
var (
	winAnsiEncoding  [256]rune
	macRomanEncoding [256]rune
)

func init() {
	for i := 0; i < 0x20; i++ {
		pdfDocEncoding[i] = unicode.ReplacementChar
	}
	pdfDocEncoding[0x09] = 0x0009
	pdfDocEncoding[0x0A] = 0x000A
	pdfDocEncoding[0x0D] = 0x000D
	for i := 0x20; i < 0x7F; i++ {
		pdfDocEncoding[i] = rune(i)
	}
	pdfDocEncoding[0x7F] = unicode.ReplacementChar
	for i, r := range pdfDocEncodingUpper128 {
		pdfDocEncoding[0x80+i] = r
	}

	for i := 0; i < 0x80; i++ {
		winAnsiEncoding[i] = rune(i)
		macRomanEncoding[i] = rune(i)
	}
	for i := 0x80; i < 0x100; i++ {
		if r := charmap.Windows1252.DecodeByte(byte(i)); r != utf8.RuneError {
			winAnsiEncoding[i] = r
		} else {
			winAnsiEncoding[i] = unicode.ReplacementChar
		}
		if r := charmap.Macintosh.DecodeByte(byte(i)); r != utf8.RuneError {
			macRomanEncoding[i] = r
		} else {
			macRomanEncoding[i] = unicode.ReplacementChar
		}
	}
	// WinAnsiEncoding diverges from Windows-1252 at a handful of code
	// points the PDF spec pins explicitly (ISO 32000-1 Table D.2).
	winAnsiEncoding[0xA0] = 0x0020
	winAnsiEncoding[0xAD] = 0x002D
}

// isPDFDocEncoded reports whether s looks like a PDFDocEncoding text
// string rather than UTF-16BE: it must not carry the UTF-16 byte-order
// mark and every byte must have an assigned PDFDocEncoding mapping.
func isPDFDocEncoded(s string) bool {
	if isUTF16(s) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if pdfDocEncoding[s[i]] == unicode.ReplacementChar {
			return false
		}
	}
	return true
}

// pdfDocDecode decodes a PDFDocEncoding byte string to UTF-8.
func pdfDocDecode(s string) string {
	runes := make([]rune, len(s))
	for i := 0; i < len(s); i++ {
		runes[i] = pdfDocEncoding[s[i]]
	}
	return string(runes)
}

// isUTF16 reports whether s begins with the big-endian UTF-16 byte-order
// mark (0xFE 0xFF) required by ISO 32000-1 §7.9.2.2 for UTF-16 text
// strings, and has an even remaining length.
func isUTF16(s string) bool {
	if len(s) < 2 || s[0] != 0xFE || s[1] != 0xFF {
		return false
	}
	return len(s)%2 == 0
}

// utf16Decode decodes s as big-endian UTF-16 (without a leading BOM) to
// UTF-8. Unpaired surrogates decode to U+FFFD via utf16.Decode.
func utf16Decode(s string) string {
	if len(s)%2 != 0 {
		s = s[:len(s)-1]
	}
	units := make([]uint16, len(s)/2)
	for i := range units {
		units[i] = uint16(s[2*i])<<8 | uint16(s[2*i+1])
	}
	return string(utf16.Decode(units))
}

// DecodeUTF8OrPreserve decodes s as UTF-8 when it is valid, and otherwise
// returns its bytes verbatim as individual runes. Some PDF producers emit
// Latin-1 or other single-byte text under a /ToUnicode-less simple font
// whose glyph names happen to decode to something that isn't valid UTF-8;
// refusing to guess an encoding and instead preserving the raw bytes lets
// a caller re-interpret them once the font's actual encoding is known,
// rather than losing information to a silent U+FFFD substitution.
func DecodeUTF8OrPreserve(s string) []rune {
	if utf8.ValidString(s) {
		return []rune(s)
	}
	runes := make([]rune, 0, len(s))
	for i := 0; i < len(s); i++ {
		runes = append(runes, rune(s[i]))
	}
	return runes
}

// IsSameSentence reports whether current continues the same run of text
// as last: same font and (within floating-point rounding) font size, on
// a baseline close enough to be the same line or a natural line-wrap, and
// with a non-empty prior segment to continue.
func IsSameSentence(last, current Text) bool {
	if last.S == "" {
		return false
	}
	if last.Font != current.Font {
		return false
	}
	if abs64(last.FontSize-current.FontSize) > 0.5 {
		return false
	}
	threshold := last.FontSize * 2
	if threshold <= 0 {
		threshold = 24
	}
	return abs64(last.Y-current.Y) <= threshold
}

func abs64(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
