// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package pdfoxide

// cidRegistry names one of the CIDSystemInfo registry/ordering pairs a
// Type0 font's descendant CIDFont declares (ISO 32000-1 §9.7.3). Only
// Adobe-Identity is handled structurally elsewhere (Identity-H/V maps
// codes straight to CIDs). For a CIDFont with no embedded ToUnicode CMap,
// the fallback is coarse: no per-registry CID→Unicode table is built, and
// cidRegistryEncoder uses the CID directly as a code point.
type cidRegistry string

const (
	registryIdentity  cidRegistry = "Adobe-Identity"
	registryJapan1    cidRegistry = "Adobe-Japan1"
	registryGB1       cidRegistry = "Adobe-GB1"
	registryCNS1      cidRegistry = "Adobe-CNS1"
	registryKorea1    cidRegistry = "Adobe-Korea1"
	registryKoreaLat1 cidRegistry = "Adobe-KR"
)

// cidSystemInfo reads a descendant CIDFont's /CIDSystemInfo dictionary.
func cidSystemInfo(descendant Value) (registry cidRegistry, ordering string) {
	info := descendant.Key("CIDSystemInfo")
	r := info.Key("Registry").RawString()
	o := info.Key("Ordering").RawString()
	return cidRegistry(r + "-" + o), o
}

// cidToGIDMap resolves a descendant CIDFont's /CIDToGIDMap: either the
// identity mapping (the common case, and the default when the entry is
// absent) or an explicit per-CID table read from an embedded stream.
func cidToGIDMap(descendant Value) func(cid int) int {
	m := descendant.Key("CIDToGIDMap")
	if m.Kind() != Stream {
		return func(cid int) int { return cid }
	}
	rc := m.Reader()
	defer rc.Close()
	buf := make([]byte, 2)
	table := make(map[int]int)
	cid := 0
	for {
		n, err := rc.Read(buf)
		if n == 2 {
			table[cid] = int(buf[0])<<8 | int(buf[1])
			cid++
		}
		if err != nil {
			break
		}
	}
	return func(cid int) int {
		if gid, ok := table[cid]; ok {
			return gid
		}
		return 0
	}
}

// cidToGIDNameEncoder decodes a composite font's CIDs by resolving
// /CIDToGIDMap to a GID and then looking the GID up in the embedded
// font program's glyph-name table — spec.md §4.3 level 3's "use the
// font's /CIDToGIDMap combined with embedded font tables if present".
// A CID with no resolvable glyph name falls back to the CID itself as
// a code point, matching cidRegistryEncoder's behavior.
type cidToGIDNameEncoder struct {
	toGID      func(cid int) int
	glyphNames map[int]string
}

func (e *cidToGIDNameEncoder) Decode(raw string) string {
	r := make([]rune, 0, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		cid := int(raw[i])<<8 | int(raw[i+1])
		gid := e.toGID(cid)
		if name, ok := e.glyphNames[gid]; ok {
			if ru, ok := nameToRune[name]; ok {
				r = append(r, ru)
				continue
			}
		}
		r = append(r, rune(cid))
	}
	return string(r)
}

// descendantFont returns a Type0 font's single descendant CIDFont
// dictionary, or a null Value if f is not a composite font.
func (f Font) descendantFont() Value {
	if f.V.Key("Subtype").Name() != "Type0" {
		return Value{}
	}
	df := f.V.Key("DescendantFonts")
	if df.Kind() != Array || df.Len() == 0 {
		return Value{}
	}
	return df.Index(0)
}

// cidRegistryEncoder falls back to the CID itself as a Unicode code
// point for non-Identity registries lacking a ToUnicode CMap — wrong
// for CJK registries in general (Adobe-Japan1 CIDs do not line up with
// Unicode), but it keeps a recognizable 1:1 code point per glyph rather
// than emitting nothing, and every well-formed document in these
// registries carries ToUnicode in practice, so this path is rarely hit.
type cidRegistryEncoder struct {
	registry cidRegistry
}

func (e *cidRegistryEncoder) Decode(raw string) string {
	r := make([]rune, 0, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		cid := int(raw[i])<<8 | int(raw[i+1])
		r = append(r, rune(cid))
	}
	return string(r)
}
