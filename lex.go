// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package pdfoxide

import (
	"bufio"
	"io"
)

// name is a PDF name object, without its leading slash.
type name string

// keyword is a bare PDF/PostScript token: an operator, a structural
// delimiter ("<<", ">>", "[", "]"), or a reserved word (obj, endobj,
// stream, endstream, R, xref, trailer, startxref).
type keyword string

// dict is a PDF dictionary: an ordered-on-the-wire, unordered-in-memory
// mapping from name to value. Iteration order is not meaningful; callers
// that need a stable order sort the keys (see objfmt, Value.Keys).
type dict map[name]interface{}

// array is a PDF array.
type array []interface{}

// objptr identifies an indirect object by number and generation.
type objptr struct {
	id  uint32
	gen uint16
}

// objdef is the result of parsing "id gen obj ... endobj".
type objdef struct {
	ptr objptr
	obj interface{}
}

// stream is a PDF stream: header dictionary plus the file offset of its
// (possibly filtered) data. Length is resolved lazily via hdr["Length"],
// which may itself be an indirect reference.
type stream struct {
	hdr    dict
	ptr    objptr
	offset int64
}

// eof is returned by buffer.readToken at end of input, distinct from the
// untyped nil that represents the PDF null object.
type eof struct{}

// buffer tokenizes a PDF byte stream per ISO 32000-1 §7.2. It owns a small
// pushback stack so that readObject can perform the lookahead needed to
// distinguish "N" from "N G R" and "N G obj ... endobj".
type buffer struct {
	r      *bufio.Reader
	offset int64 // absolute file offset of the next unread byte
	pos    int64 // absolute file offset where the in-progress object started
	toks   []interface{}

	key      []byte // decryption key, when the document is encrypted (unsupported; kept for shape)
	useAES   bool
	allowEOF bool // content-stream / CMap buffers run off the end without endobj
}

func newBuffer(r io.Reader, offset int64) *buffer {
	return &buffer{r: bufio.NewReaderSize(r, 4096), offset: offset, pos: offset}
}

func (b *buffer) readByte() (byte, error) {
	c, err := b.r.ReadByte()
	if err == nil {
		b.offset++
	}
	return c, err
}

func (b *buffer) unreadByte() {
	if err := b.r.UnreadByte(); err == nil {
		b.offset--
	}
}

func (b *buffer) peekByte() (byte, bool) {
	p, err := b.r.Peek(1)
	if err != nil || len(p) == 0 {
		return 0, false
	}
	return p[0], true
}

// seekForward discards bytes until the buffer's absolute offset reaches n.
// Used to jump to an object's recorded position within a decompressed
// object stream.
func (b *buffer) seekForward(n int64) {
	for b.offset < n {
		if _, err := b.readByte(); err != nil {
			break
		}
	}
	b.pos = b.offset
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isRegular(c byte) bool {
	return !isWhitespace(c) && !isDelim(c)
}

// unreadToken pushes tok back so the next readToken call returns it again.
func (b *buffer) unreadToken(tok interface{}) {
	b.toks = append(b.toks, tok)
}

func (b *buffer) readToken() interface{} {
	if n := len(b.toks); n > 0 {
		tok := b.toks[n-1]
		b.toks = b.toks[:n-1]
		return tok
	}
	return b.scanToken()
}

func (b *buffer) scanToken() interface{} {
	for {
		c, err := b.readByte()
		if err != nil {
			return eof{}
		}
		switch {
		case isWhitespace(c):
			continue
		case c == '%':
			b.skipComment()
			continue
		case c == '(':
			b.pos = b.offset - 1
			return b.scanLiteralString()
		case c == '<':
			nc, ok := b.peekByte()
			if ok && nc == '<' {
				b.readByte()
				return keyword("<<")
			}
			b.pos = b.offset - 1
			return b.scanHexString()
		case c == '>':
			nc, ok := b.peekByte()
			if ok && nc == '>' {
				b.readByte()
				return keyword(">>")
			}
			return keyword(">")
		case c == '[':
			return keyword("[")
		case c == ']':
			return keyword("]")
		case c == '{':
			return keyword("{")
		case c == '}':
			return keyword("}")
		case c == '/':
			b.pos = b.offset - 1
			return b.scanName()
		case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
			b.pos = b.offset - 1
			b.unreadByte()
			return b.scanNumberOrKeyword()
		default:
			b.pos = b.offset - 1
			b.unreadByte()
			return b.scanBareword()
		}
	}
}

func (b *buffer) skipComment() {
	for {
		c, err := b.readByte()
		if err != nil || c == '\n' || c == '\r' {
			return
		}
	}
}

func (b *buffer) scanLiteralString() interface{} {
	var out []byte
	depth := 1
	for {
		c, err := b.readByte()
		if err != nil {
			break
		}
		switch c {
		case '(':
			depth++
			out = append(out, c)
		case ')':
			depth--
			if depth == 0 {
				return string(out)
			}
			out = append(out, c)
		case '\\':
			c2, err := b.readByte()
			if err != nil {
				break
			}
			switch c2 {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '(', ')', '\\':
				out = append(out, c2)
			case '\r':
				// \<CR> or \<CR><LF>: line continuation, drop it
				if nc, ok := b.peekByte(); ok && nc == '\n' {
					b.readByte()
				}
			case '\n':
				// \<LF>: line continuation, drop it
			default:
				if c2 >= '0' && c2 <= '7' {
					val := int(c2 - '0')
					for i := 0; i < 2; i++ {
						nc, ok := b.peekByte()
						if !ok || nc < '0' || nc > '7' {
							break
						}
						b.readByte()
						val = val*8 + int(nc-'0')
					}
					out = append(out, byte(val))
				} else {
					out = append(out, c2)
				}
			}
		default:
			out = append(out, c)
		}
	}
	return string(out)
}

func (b *buffer) scanHexString() interface{} {
	var digits []byte
	for {
		c, err := b.readByte()
		if err != nil || c == '>' {
			break
		}
		if isWhitespace(c) {
			continue
		}
		digits = append(digits, c)
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, len(digits)/2)
	for i := range out {
		out[i] = hexVal(digits[2*i])<<4 | hexVal(digits[2*i+1])
	}
	return string(out)
}

func hexVal(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

func (b *buffer) scanName() interface{} {
	var out []byte
	for {
		c, ok := b.peekByte()
		if !ok || !isRegular(c) {
			break
		}
		b.readByte()
		if c == '#' {
			c1, ok1 := b.peekByte()
			if ok1 && isHexDigit(c1) {
				b.readByte()
				c2, ok2 := b.peekByte()
				if ok2 && isHexDigit(c2) {
					b.readByte()
					out = append(out, hexVal(c1)<<4|hexVal(c2))
					continue
				}
				out = append(out, hexVal(c1))
				continue
			}
			out = append(out, c)
			continue
		}
		out = append(out, c)
	}
	return name(out)
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (b *buffer) scanNumberOrKeyword() interface{} {
	var out []byte
	isFloat := false
	sawDigit := false
	for {
		c, ok := b.peekByte()
		if !ok || !isRegular(c) {
			break
		}
		if c == '.' {
			isFloat = true
		}
		if c >= '0' && c <= '9' {
			sawDigit = true
		}
		if c != '+' && c != '-' && c != '.' && !(c >= '0' && c <= '9') {
			// not a valid number character: this token is actually a bareword
			return b.finishBareword(out)
		}
		b.readByte()
		out = append(out, c)
	}
	if !sawDigit {
		return b.finishBareword(out)
	}
	return parsePDFNumber(string(out), isFloat)
}

func parsePDFNumber(s string, isFloat bool) interface{} {
	if !isFloat {
		var neg bool
		i := 0
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			neg = s[i] == '-'
			i++
		}
		var v int64
		for ; i < len(s); i++ {
			if s[i] < '0' || s[i] > '9' {
				return parseFloatLoose(s)
			}
			v = v*10 + int64(s[i]-'0')
		}
		if neg {
			v = -v
		}
		return v
	}
	return parseFloatLoose(s)
}

func parseFloatLoose(s string) float64 {
	var f float64
	var neg bool
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		f = f*10 + float64(s[i]-'0')
	}
	if i < len(s) && s[i] == '.' {
		i++
		frac := 0.1
		for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
			f += float64(s[i]-'0') * frac
			frac /= 10
		}
	}
	if neg {
		f = -f
	}
	return f
}

func (b *buffer) scanBareword() interface{} {
	return b.finishBareword(nil)
}

func (b *buffer) finishBareword(prefix []byte) interface{} {
	out := append([]byte{}, prefix...)
	for {
		c, ok := b.peekByte()
		if !ok || !isRegular(c) {
			break
		}
		b.readByte()
		out = append(out, c)
	}
	switch string(out) {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}
	return keyword(out)
}

// readObject parses one complete PDF object: a scalar, name, string,
// array, dictionary, stream, indirect reference, or object definition.
func (b *buffer) readObject() interface{} {
	return b.readObjectFrom(b.readToken())
}

func (b *buffer) readObjectFrom(tok interface{}) interface{} {
	switch t := tok.(type) {
	case keyword:
		switch t {
		case "<<":
			return b.readDictOrStream()
		case "[":
			return b.readArray()
		default:
			return t
		}
	case int64:
		return b.readIntFollowers(t)
	default:
		return tok
	}
}

// readIntFollowers implements the lookahead required to tell "42" from
// "42 0 R" and "42 0 obj ... endobj".
func (b *buffer) readIntFollowers(n int64) interface{} {
	tok2 := b.readToken()
	gen, ok := tok2.(int64)
	if !ok {
		b.unreadToken(tok2)
		return n
	}
	tok3 := b.readToken()
	if k3, ok := tok3.(keyword); ok {
		switch k3 {
		case "R":
			return objptr{uint32(n), uint16(gen)}
		case "obj":
			inner := b.readObject()
			end := b.readToken()
			if end != keyword("endobj") && !b.allowEOF {
				b.unreadToken(end)
			} else if _, isEOF := end.(eof); !isEOF && end != keyword("endobj") {
				b.unreadToken(end)
			}
			return objdef{objptr{uint32(n), uint16(gen)}, inner}
		}
	}
	b.unreadToken(tok3)
	b.unreadToken(tok2)
	return n
}

func (b *buffer) readDictOrStream() interface{} {
	d := dict{}
	for {
		tok := b.readToken()
		if tok == keyword(">>") {
			break
		}
		if _, isEOF := tok.(eof); isEOF {
			break
		}
		key, ok := tok.(name)
		if !ok {
			continue
		}
		d[key] = b.readObject()
	}
	tok := b.readToken()
	if tok != keyword("stream") {
		b.unreadToken(tok)
		return d
	}
	b.skipStreamEOL()
	return stream{hdr: d, offset: b.offset}
}

// skipStreamEOL consumes the CRLF or LF required between the "stream"
// keyword and the stream's raw data (ISO 32000-1 §7.3.8.1).
func (b *buffer) skipStreamEOL() {
	c, ok := b.peekByte()
	if !ok {
		return
	}
	if c == '\r' {
		b.readByte()
		if c2, ok := b.peekByte(); ok && c2 == '\n' {
			b.readByte()
		}
		return
	}
	if c == '\n' {
		b.readByte()
	}
}

func (b *buffer) readArray() array {
	var a array
	for {
		tok := b.readToken()
		if tok == keyword("]") {
			break
		}
		if _, isEOF := tok.(eof); isEOF {
			break
		}
		a = append(a, b.readObjectFrom(tok))
	}
	return a
}

// skipInlineImageData scans past the raw binary operand of a BI/ID/EI
// inline image, which is not itself tokenizable PDF syntax. It looks for
// whitespace-delimited "EI" as PDF producers are required to emit it.
func (b *buffer) skipInlineImageData() {
	var last [2]byte
	have := 0
	for {
		c, err := b.readByte()
		if err != nil {
			return
		}
		if have == 2 && isWhitespace(last[0]) && last[1] == 'E' && c == 'I' {
			return
		}
		last[0], last[1] = last[1], c
		if have < 2 {
			have++
		}
	}
}
