// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"encoding/binary"
	"testing"

	"github.com/n64decomp/mipsdisasm/config"
	"github.com/n64decomp/mipsdisasm/elf"
	"github.com/n64decomp/mipsdisasm/test"
)

func TestVramFlagSetAcceptsDecimalAndHex(t *testing.T) {
	var v uint32
	f := vramFlag{dst: &v}

	test.ExpectSuccess(t, f.Set("0x80001000"))
	test.ExpectEquality(t, v, uint32(0x80001000))

	test.ExpectSuccess(t, f.Set("4096"))
	test.ExpectEquality(t, v, uint32(4096))

	test.ExpectEquality(t, f.String(), "0x001000")
}

func TestVramFlagSetRejectsGarbage(t *testing.T) {
	var v uint32
	f := vramFlag{dst: &v}
	test.ExpectFailure(t, f.Set("not-a-number"))
}

func TestByteOrderFor(t *testing.T) {
	test.ExpectEquality(t, byteOrderFor(config.LittleEndian), binary.ByteOrder(binary.LittleEndian))
	test.ExpectEquality(t, byteOrderFor(config.BigEndian), binary.ByteOrder(binary.BigEndian))
}

func TestWordsOf(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00, 0x01, 0xff, 0xff, 0xff, 0xff}
	words := wordsOf(data, binary.BigEndian.Uint32)
	test.ExpectEquality(t, words, []uint32{1, 0xffffffff})
}

// fakeImage is a minimal elf.Image stand-in for section-discovery tests.
type fakeImage struct {
	order    binary.ByteOrder
	sections map[string]elf.SectionHeader
	data     map[string][]byte
}

func (f *fakeImage) ByteOrder() binary.ByteOrder { return f.order }

func (f *fakeImage) Sections() []elf.SectionHeader {
	var out []elf.SectionHeader
	for _, h := range f.sections {
		out = append(out, h)
	}
	return out
}

func (f *fakeImage) SectionData(name string) ([]byte, error) { return f.data[name], nil }
func (f *fakeImage) Symbols() ([]elf.SymbolTableEntry, error) { return nil, nil }
func (f *fakeImage) Dynamic() ([]elf.DynamicEntry, error)     { return nil, nil }
func (f *fakeImage) Rel(string) ([]elf.RelEntry, error)       { return nil, nil }
func (f *fakeImage) Rela(string) ([]elf.RelaEntry, error)     { return nil, nil }
func (f *fakeImage) RegInfo() (elf.RegInfo, bool, error)      { return elf.RegInfo{}, false, nil }

func TestFindSectionMissingReturnsNil(t *testing.T) {
	img := &fakeImage{order: binary.BigEndian, sections: map[string]elf.SectionHeader{}, data: map[string][]byte{}}
	got, err := findSection(img, ".text")
	test.ExpectSuccess(t, err)
	if got != nil {
		t.Errorf("expected nil section, got %+v", got)
	}
}

func TestFindSectionReturnsMatch(t *testing.T) {
	img := &fakeImage{
		order: binary.BigEndian,
		sections: map[string]elf.SectionHeader{
			".text": {Name: ".text", Addr: 0x80000400, Size: 4},
		},
		data: map[string][]byte{".text": {0x00, 0x00, 0x00, 0x00}},
	}
	got, err := findSection(img, ".text")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, got.hdr.Addr, uint64(0x80000400))
	test.ExpectEquality(t, got.data, []byte{0x00, 0x00, 0x00, 0x00})
}

func TestAnalyzeImageCoversCombinedRange(t *testing.T) {
	img := &fakeImage{
		order: binary.BigEndian,
		sections: map[string]elf.SectionHeader{
			".text":   {Name: ".text", Addr: 0x80000400, Size: 4},
			".rodata": {Name: ".rodata", Addr: 0x80001000, Size: 4},
		},
		data: map[string][]byte{
			".text":   {0x00, 0x00, 0x00, 0x00},
			".rodata": {0x00, 0x00, 0x00, 0x2a},
		},
	}

	a, err := analyzeImage(config.Default(), img)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, len(a.textResult.Functions), 1)
	test.ExpectEquality(t, len(a.rodataSymbols), 1)
}

func TestAnalyzeImageFailsWithNoSections(t *testing.T) {
	img := &fakeImage{order: binary.BigEndian, sections: map[string]elf.SectionHeader{}, data: map[string][]byte{}}
	_, err := analyzeImage(config.Default(), img)
	test.ExpectFailure(t, err)
}
