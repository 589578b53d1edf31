// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package pdfoxide

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSfntPostNames_NonStreamReturnsNil(t *testing.T) {
	assert.Nil(t, sfntPostNames(Value{}))
	assert.Nil(t, sfntPostNames(vdict(map[string]interface{}{})))
}

func TestSfntFallbackEncoder_Decode(t *testing.T) {
	e := &sfntFallbackEncoder{glyphNames: map[int]string{65: "A", 66: "B"}}
	assert.Equal(t, "AB", e.Decode(string([]byte{65, 66})))
}

func TestSfntFallbackEncoder_UnknownGlyphFallsBackToRawByte(t *testing.T) {
	e := &sfntFallbackEncoder{glyphNames: map[int]string{}}
	assert.Equal(t, string([]byte{90}), e.Decode(string([]byte{90})))
}

func TestFontDescriptorProgram_PrefersFontFile2OverFontFile3(t *testing.T) {
	descriptor := vdict(map[string]interface{}{
		"FontFile2": stream{hdr: dict{name("Marker"): name("two")}},
		"FontFile3": stream{hdr: dict{name("Marker"): name("three")}},
	})
	prog := fontDescriptorProgram(descriptor)
	assert.Equal(t, Stream, prog.Kind())
	assert.Equal(t, "two", prog.Key("Marker").Name())
}

func TestFontDescriptorProgram_FallsBackToFontFile3ThenFontFile(t *testing.T) {
	descriptor := vdict(map[string]interface{}{
		"FontFile3": stream{hdr: dict{name("Marker"): name("three")}},
		"FontFile":  stream{hdr: dict{name("Marker"): name("one")}},
	})
	prog := fontDescriptorProgram(descriptor)
	assert.Equal(t, "three", prog.Key("Marker").Name())
}

func TestFontDescriptorProgram_NotEmbedded(t *testing.T) {
	descriptor := vdict(map[string]interface{}{})
	assert.True(t, fontDescriptorProgram(descriptor).IsNull())
}
