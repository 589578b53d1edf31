// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package pdfoxide

import (
	"bytes"
	"compress/lzw"
	"compress/zlib"
	"encoding/ascii85"
	"encoding/hex"
	"io"

	"github.com/scostello/pdf-oxide/logger"
)

// applyFilter wraps rd with the decoder for the named stream filter.
// DCTDecode and CCITTFaxDecode (image compression, not text) are left
// opaque: the filtered bytes pass through unchanged so callers that only
// need the image's bounding box never have to decode pixels.
func applyFilter(rd io.Reader, filterName string, param dict) io.Reader {
	switch filterName {
	case "FlateDecode", "Fl":
		zr, err := zlib.NewReader(rd)
		if err != nil {
			logger.Error("FlateDecode: zlib.NewReader failed", "err", err)
			return bytes.NewReader(nil)
		}
		return applyPredictor(zr, param)
	case "ASCII85Decode", "A85":
		return ascii85.NewDecoder(newAlphaReader(rd))
	case "ASCIIHexDecode", "AHx":
		return newHexReader(rd)
	case "LZWDecode", "LZW":
		early := 1
		if param != nil {
			if v, ok := param[name("EarlyChange")].(int64); ok {
				early = int(v)
			}
		}
		return applyPredictor(newLZWReader(rd, early), param)
	case "RunLengthDecode", "RL":
		return newRunLengthReader(rd)
	case "DCTDecode", "DCT", "CCITTFaxDecode", "CCF", "JPXDecode", "JBIG2Decode":
		return rd
	default:
		logger.Debug("applyFilter: unrecognized filter, passing through", "filter", filterName)
		return rd
	}
}

// applyPredictor wraps rd with PNG predictor reconstruction when the
// filter's DecodeParms specify one. Predictor 2 (TIFF) is uncommon in
// the wild for text-bearing streams and is left unimplemented.
func applyPredictor(rd io.Reader, param dict) io.Reader {
	if param == nil {
		return rd
	}
	pred, _ := param[name("Predictor")].(int64)
	if pred < 2 {
		return rd
	}
	columns := 1
	if v, ok := param[name("Columns")].(int64); ok {
		columns = int(v)
	}
	colors := 1
	if v, ok := param[name("Colors")].(int64); ok {
		colors = int(v)
	}
	bpc := 8
	if v, ok := param[name("BitsPerComponent")].(int64); ok {
		bpc = int(v)
	}
	bytesPerPixel := (colors*bpc + 7) / 8
	rowLen := (columns*colors*bpc + 7) / 8
	if pred == 2 {
		// TIFF predictor: not implemented, returned undecoded rather than
		// silently corrupting the stream.
		return rd
	}
	return &pngUpReader{r: rd, rowLen: rowLen, bpp: bytesPerPixel, prev: make([]byte, rowLen)}
}

// pngUpReader undoes the PNG predictors (ISO 32000-1 Table 8, predictor
// values 10-15), which arrive tagged per row: None, Sub, Up, Average and
// Paeth rows are reconstructed; a row with any other tag passes through
// unchanged.
type pngUpReader struct {
	r      io.Reader
	rowLen int
	bpp    int
	prev   []byte
	buf    bytes.Buffer
}

func (p *pngUpReader) Read(out []byte) (int, error) {
	for p.buf.Len() == 0 {
		tag := make([]byte, 1)
		if _, err := io.ReadFull(p.r, tag); err != nil {
			return 0, err
		}
		row := make([]byte, p.rowLen)
		if _, err := io.ReadFull(p.r, row); err != nil {
			return 0, io.ErrUnexpectedEOF
		}
		switch tag[0] {
		case 2: // Up
			for i := range row {
				row[i] += p.prev[i]
			}
		case 0: // None
		case 1: // Sub
			for i := range row {
				if i >= p.bpp {
					row[i] += row[i-p.bpp]
				}
			}
		case 3: // Average
			for i := range row {
				left := 0
				if i >= p.bpp {
					left = int(row[i-p.bpp])
				}
				up := int(p.prev[i])
				row[i] += byte((left + up) / 2)
			}
		case 4: // Paeth
			for i := range row {
				var left, up, upLeft int
				if i >= p.bpp {
					left = int(row[i-p.bpp])
					upLeft = int(p.prev[i-p.bpp])
				}
				up = int(p.prev[i])
				row[i] += paeth(left, up, upLeft)
			}
		}
		p.prev = row
		p.buf.Write(row)
	}
	return p.buf.Read(out)
}

func paeth(a, b, c int) byte {
	pp := a + b - c
	pa, pb, pc := abs(pp-a), abs(pp-b), abs(pp-c)
	if pa <= pb && pa <= pc {
		return byte(a)
	}
	if pb <= pc {
		return byte(b)
	}
	return byte(c)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// alphaReader masks bytes outside the ASCII85 data alphabet ('!'-'u') to
// zero and stops passing data through once it observes the "~>" end-of-data
// marker, so a downstream encoding/ascii85.Decoder never sees garbage from
// a truncated or embedded stream.
type alphaReader struct {
	r    io.Reader
	done bool
}

func newAlphaReader(r io.Reader) io.Reader {
	return &alphaReader{r: r}
}

func (a *alphaReader) Read(p []byte) (int, error) {
	n, err := a.r.Read(p)
	for i := 0; i < n; i++ {
		if a.done {
			p[i] = 0
			continue
		}
		c := p[i]
		if c == '~' {
			if i+1 < n && p[i+1] == '>' {
				p[i] = 0
				p[i+1] = 0
				i++
				a.done = true
				continue
			}
			p[i] = 0
			continue
		}
		if c < '!' || c > 'u' {
			p[i] = 0
		}
	}
	return n, err
}

// newHexReader decodes ASCIIHexDecode data, tolerating the trailing '>'
// end-of-data marker and embedded whitespace.
func newHexReader(r io.Reader) io.Reader {
	raw, _ := io.ReadAll(r)
	var clean []byte
	for _, c := range raw {
		if c == '>' {
			break
		}
		if isHexDigit(c) {
			clean = append(clean, c)
		}
	}
	if len(clean)%2 == 1 {
		clean = append(clean, '0')
	}
	out := make([]byte, hex.DecodedLen(len(clean)))
	n, _ := hex.Decode(out, clean)
	return bytes.NewReader(out[:n])
}

// newLZWReader decodes LZWDecode data using the PDF-mandated MSB bit order.
// Go's compress/lzw does not support the early-change-off variant some
// producers use; it is the overwhelmingly common case (EarlyChange=1) that
// matters for text streams, so that's what's wired here.
func newLZWReader(r io.Reader, earlyChange int) io.Reader {
	return lzw.NewReader(r, lzw.MSB, 8)
}

// newRunLengthReader decodes the RunLengthDecode filter (ISO 32000-1
// §7.4.5): a length byte 0-127 means "copy the next length+1 literal
// bytes", 129-255 means "repeat the following byte (257-length) times",
// and 128 is the end-of-data marker.
func newRunLengthReader(r io.Reader) io.Reader {
	raw, _ := io.ReadAll(r)
	var out bytes.Buffer
	i := 0
	for i < len(raw) {
		n := int(raw[i])
		i++
		switch {
		case n == 128:
			i = len(raw)
		case n < 128:
			end := i + n + 1
			if end > len(raw) {
				end = len(raw)
			}
			out.Write(raw[i:end])
			i = end
		default:
			if i >= len(raw) {
				break
			}
			b := raw[i]
			i++
			for j := 0; j < 257-n; j++ {
				out.WriteByte(b)
			}
		}
	}
	return &out
}

// contentReader builds a combined reader for a page or XObject's content:
// either a single stream, or (per ISO 32000-1 §7.8.2) an array of streams
// that must be treated as if concatenated with an intervening whitespace
// byte, since PDF producers are permitted to split tokens across stream
// boundaries only at whitespace.
func contentReader(v Value) io.ReadCloser {
	switch v.Kind() {
	case Stream:
		return v.Reader()
	case Array:
		var readers []io.Reader
		for i := 0; i < v.Len(); i++ {
			el := v.Index(i)
			if el.Kind() != Stream {
				continue
			}
			readers = append(readers, el.Reader(), bytes.NewReader([]byte{'\n'}))
		}
		if len(readers) == 0 {
			return nil
		}
		return io.NopCloser(io.MultiReader(readers...))
	default:
		return nil
	}
}
