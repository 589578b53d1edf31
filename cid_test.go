// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package pdfoxide

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// vdict builds a Value wrapping a real dict of raw PDF primitive values
// (not nested Values), matching what Value.Key's resolve expects.
func vdict(kv map[string]interface{}) Value {
	d := dict{}
	for k, v := range kv {
		d[name(k)] = v
	}
	return Value{data: d}
}

func TestCIDSystemInfo(t *testing.T) {
	descendant := vdict(map[string]interface{}{
		"CIDSystemInfo": dict{
			name("Registry"): "Adobe-Japan1",
			name("Ordering"): "1",
		},
	})
	registry, ordering := cidSystemInfo(descendant)
	assert.Equal(t, cidRegistry("Adobe-Japan1-1"), registry)
	assert.Equal(t, "1", ordering)
}

func TestCIDToGIDMap_IdentityWhenAbsent(t *testing.T) {
	descendant := vdict(map[string]interface{}{})
	toGID := cidToGIDMap(descendant)
	assert.Equal(t, 42, toGID(42))
	assert.Equal(t, 0, toGID(0))
}

func TestDescendantFont(t *testing.T) {
	cidFont := dict{name("Subtype"): name("CIDFontType2")}
	type0 := vdict(map[string]interface{}{
		"Subtype":         name("Type0"),
		"DescendantFonts": array{cidFont},
	})
	d := Font{V: type0}.descendantFont()
	assert.False(t, d.IsNull())
	assert.Equal(t, "CIDFontType2", d.Key("Subtype").Name())

	simple := Font{V: vdict(map[string]interface{}{"Subtype": name("Type1")})}
	assert.True(t, simple.descendantFont().IsNull())
}

func TestDescendantFont_NoDescendantFonts(t *testing.T) {
	type0 := Font{V: vdict(map[string]interface{}{"Subtype": name("Type0")})}
	assert.True(t, type0.descendantFont().IsNull())
}

func TestCidToGIDNameEncoder_Decode(t *testing.T) {
	e := &cidToGIDNameEncoder{
		toGID:      func(cid int) int { return cid + 1 },
		glyphNames: map[int]string{2: "A", 3: "B"},
	}
	// CIDs 1, 2 -> GIDs 2, 3 -> names "A", "B"
	raw := string([]byte{0, 1, 0, 2})
	assert.Equal(t, "AB", e.Decode(raw))
}

func TestCidToGIDNameEncoder_FallsBackToCIDAsCodepoint(t *testing.T) {
	e := &cidToGIDNameEncoder{
		toGID:      func(cid int) int { return 0 }, // unmapped GID
		glyphNames: map[int]string{},
	}
	raw := string([]byte{0, 65})
	assert.Equal(t, string(rune(65)), e.Decode(raw))
}

func TestCidRegistryEncoder_Decode(t *testing.T) {
	e := &cidRegistryEncoder{registry: registryGB1}
	raw := string([]byte{0, 65, 0, 66})
	assert.Equal(t, "AB", e.Decode(raw))
}
