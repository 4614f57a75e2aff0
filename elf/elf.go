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

// Package elf declares the ELF32 collaborator surface the engine reads
// structures from — it does not parse the ELF bytes itself — and one
// adapter, FromStdlib, that satisfies it using the standard library's
// debug/elf. debug/elf is the one deliberately stdlib-only dependency in
// this module: ELF parsing is an external collaborator contract, not a
// disassembly concern, and no library in the example corpus offers a
// MIPS-reginfo-aware ELF reader that the rest of the pipeline could
// exercise instead.
package elf

import (
	"debug/elf"
	"encoding/binary"
	"fmt"

	"github.com/n64decomp/mipsdisasm/errs"
)

// SectionHeader mirrors the fields of an ELF32 section header that the
// engine consults.
type SectionHeader struct {
	Name      string
	Type      uint32
	Flags     uint64
	Addr      uint64
	Offset    uint64
	Size      uint64
	Link      uint32
	Info      uint32
	AddrAlign uint64
	EntSize   uint64
}

// SymbolTableEntry mirrors one ELF32 symbol table row.
type SymbolTableEntry struct {
	Name  string
	Value uint64
	Size  uint64
	Info  byte
	Other byte
	Shndx uint16
}

// DynamicEntry mirrors one .dynamic row; Tag values of interest to this
// engine are PLTGOT, local-GOT count, DYNSYM count and GOTSYM.
type DynamicEntry struct {
	Tag int64
	Val uint64
}

// RelEntry mirrors one Elf32_Rel row.
type RelEntry struct {
	Offset uint64
	Info   uint64
}

func (r RelEntry) Sym() uint32  { return uint32(r.Info >> 8) }
func (r RelEntry) Type() uint32 { return uint32(r.Info & 0xff) }

// RelaEntry mirrors one Elf32_Rela row.
type RelaEntry struct {
	Offset uint64
	Info   uint64
	Addend int64
}

func (r RelaEntry) Sym() uint32  { return uint32(r.Info >> 8) }
func (r RelaEntry) Type() uint32 { return uint32(r.Info & 0xff) }

// RegInfo mirrors the MIPS .reginfo section, whose gp_value field is the
// canonical source of a PIC binary's $gp.
type RegInfo struct {
	GeneralMask uint32
	CprMask     [4]uint32
	GPValue     int32
}

// Image is the collaborator surface the rest of the engine depends on.
// It never exposes raw bytes; every accessor returns already-parsed
// structures.
type Image interface {
	ByteOrder() binary.ByteOrder
	Sections() []SectionHeader
	SectionData(name string) ([]byte, error)
	Symbols() ([]SymbolTableEntry, error)
	Dynamic() ([]DynamicEntry, error)
	Rel(sectionName string) ([]RelEntry, error)
	Rela(sectionName string) ([]RelaEntry, error)
	RegInfo() (RegInfo, bool, error)
}

// stdlibImage adapts debug/elf.File to Image.
type stdlibImage struct {
	f *elf.File
}

// FromStdlib opens path with debug/elf and returns it as an Image.
func FromStdlib(path string) (Image, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, errs.Errorf(errs.ConfigError, fmt.Sprintf("opening ELF %q: %v", path, err))
	}
	if f.Machine != elf.EM_MIPS {
		return nil, errs.Errorf(errs.ConfigError, fmt.Sprintf("%q is not a MIPS ELF object (machine=%s)", path, f.Machine))
	}
	return &stdlibImage{f: f}, nil
}

func (s *stdlibImage) ByteOrder() binary.ByteOrder {
	if s.f.Data == elf.ELFDATA2LSB {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func (s *stdlibImage) Sections() []SectionHeader {
	out := make([]SectionHeader, len(s.f.Sections))
	for i, sec := range s.f.Sections {
		out[i] = SectionHeader{
			Name:      sec.Name,
			Type:      uint32(sec.Type),
			Flags:     uint64(sec.Flags),
			Addr:      sec.Addr,
			Offset:    sec.Offset,
			Size:      sec.Size,
			Link:      sec.Link,
			Info:      sec.Info,
			AddrAlign: sec.Addralign,
			EntSize:   sec.Entsize,
		}
	}
	return out
}

func (s *stdlibImage) SectionData(name string) ([]byte, error) {
	sec := s.f.Section(name)
	if sec == nil {
		return nil, errs.Errorf(errs.ConfigError, fmt.Sprintf("no section named %q", name))
	}
	return sec.Data()
}

func (s *stdlibImage) Symbols() ([]SymbolTableEntry, error) {
	syms, err := s.f.Symbols()
	if err != nil && err != elf.ErrNoSymbols {
		return nil, errs.Errorf(errs.ConfigError, fmt.Sprintf("reading ELF symbols: %v", err))
	}
	out := make([]SymbolTableEntry, len(syms))
	for i, sym := range syms {
		out[i] = SymbolTableEntry{
			Name:  sym.Name,
			Value: sym.Value,
			Size:  sym.Size,
			Info:  sym.Info,
			Other: sym.Other,
			Shndx: uint16(sym.Section),
		}
	}
	return out, nil
}

func (s *stdlibImage) Dynamic() ([]DynamicEntry, error) {
	data, err := s.SectionData(".dynamic")
	if err != nil {
		return nil, nil
	}
	order := s.ByteOrder()
	const entSize = 8
	out := make([]DynamicEntry, 0, len(data)/entSize)
	for off := 0; off+entSize <= len(data); off += entSize {
		out = append(out, DynamicEntry{
			Tag: int64(int32(order.Uint32(data[off:]))),
			Val: uint64(order.Uint32(data[off+4:])),
		})
	}
	return out, nil
}

func (s *stdlibImage) Rel(sectionName string) ([]RelEntry, error) {
	data, err := s.SectionData(sectionName)
	if err != nil {
		return nil, err
	}
	order := s.ByteOrder()
	const entSize = 8
	out := make([]RelEntry, 0, len(data)/entSize)
	for off := 0; off+entSize <= len(data); off += entSize {
		out = append(out, RelEntry{
			Offset: uint64(order.Uint32(data[off:])),
			Info:   uint64(order.Uint32(data[off+4:])),
		})
	}
	return out, nil
}

func (s *stdlibImage) Rela(sectionName string) ([]RelaEntry, error) {
	data, err := s.SectionData(sectionName)
	if err != nil {
		return nil, err
	}
	order := s.ByteOrder()
	const entSize = 12
	out := make([]RelaEntry, 0, len(data)/entSize)
	for off := 0; off+entSize <= len(data); off += entSize {
		out = append(out, RelaEntry{
			Offset: uint64(order.Uint32(data[off:])),
			Info:   uint64(order.Uint32(data[off+4:])),
			Addend: int64(int32(order.Uint32(data[off+8:]))),
		})
	}
	return out, nil
}

// RegInfo reads the .reginfo section (MIPS ABI "Run-Time Structures",
// the 24-byte Elf32_RegInfo layout) and extracts gp_value.
func (s *stdlibImage) RegInfo() (RegInfo, bool, error) {
	data, err := s.SectionData(".reginfo")
	if err != nil {
		return RegInfo{}, false, nil
	}
	if len(data) < 24 {
		return RegInfo{}, false, errs.Errorf(errs.ConfigError, "short .reginfo section")
	}
	order := s.ByteOrder()
	var ri RegInfo
	ri.GeneralMask = order.Uint32(data[0:4])
	for i := 0; i < 4; i++ {
		ri.CprMask[i] = order.Uint32(data[4+i*4:])
	}
	ri.GPValue = int32(order.Uint32(data[20:24]))
	return ri, true, nil
}
