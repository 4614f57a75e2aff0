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

// Package config collects the toggles that steer every stage of the
// disassembly pipeline. Earlier revisions kept these as a single
// package-level mutable value; a Config value is now built explicitly
// with Default and threaded through the packages that need it.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/n64decomp/mipsdisasm/errs"
)

// Compiler identifies the toolchain that produced the binary being
// disassembled. A handful of rodata-migration and alignment rules differ
// between compilers.
type Compiler int

const (
	CompilerIDO Compiler = iota
	CompilerGCC
	CompilerSN64
)

func (c Compiler) String() string {
	switch c {
	case CompilerIDO:
		return "IDO"
	case CompilerGCC:
		return "GCC"
	case CompilerSN64:
		return "SN64"
	default:
		return "UNKNOWN"
	}
}

func compilerFromString(s string) (Compiler, error) {
	switch s {
	case "IDO":
		return CompilerIDO, nil
	case "GCC":
		return CompilerGCC, nil
	case "SN64":
		return CompilerSN64, nil
	default:
		return CompilerIDO, errs.Errorf(errs.ConfigError, fmt.Sprintf("unrecognised compiler %q", s))
	}
}

// Endian identifies a byte order. The main segments of an N64 binary are
// always big-endian but rodata embedded from a host tool may not be.
type Endian int

const (
	BigEndian Endian = iota
	LittleEndian
)

func (e Endian) String() string {
	if e == LittleEndian {
		return "little"
	}
	return "big"
}

// Config is the complete set of toggles that gate decisions throughout the
// decoder, context, registers, analysis, sections and migration packages.
type Config struct {
	// general symbol/pointer inference
	RemovePointers                           bool
	IgnoreBranches                           bool
	IgnoreWordList                           []uint32
	StringGuesser                            bool
	SymbolFinderFilterLowAddresses           uint32
	SymbolFinderFilterHighAddresses          uint32
	SymbolFinderFilteredAddressesAsConstants bool
	SymbolFinderFilteredAddressesAsHiLo      bool
	ProduceSymbolsPlusOffset                 bool
	AllowUnkSegment                          bool
	TrustUserFunctions                       bool
	DisassembleUnknownInstructions           bool
	AddNewSymbols                            bool

	// compiler/ABI shape
	Compiler    Compiler
	GPValue     uint32
	PIC         bool
	EmitCPLoad  bool

	// assembly writer formatting
	AsmComment          bool
	AsmTextFuncAsLabel  bool
	AsmTextEntLabel     string
	AsmTextEndLabel     string
	GlabelAsmCount      bool
	LineEnds            string

	// endianness and rodata string handling
	Endian               Endian
	EndianRodata         Endian
	RodataStringEncoding string
}

// Default returns the out-of-the-box toggle set: big-endian IDO binary,
// no PIC, symbols reported as plain addresses.
func Default() *Config {
	return &Config{
		RemovePointers:                           true,
		IgnoreBranches:                           false,
		IgnoreWordList:                           nil,
		StringGuesser:                            true,
		SymbolFinderFilterLowAddresses:           0x80000000,
		SymbolFinderFilterHighAddresses:          0x80000000,
		SymbolFinderFilteredAddressesAsConstants: false,
		SymbolFinderFilteredAddressesAsHiLo:      false,
		ProduceSymbolsPlusOffset:                 true,
		AllowUnkSegment:                          false,
		TrustUserFunctions:                       true,
		DisassembleUnknownInstructions:           false,
		AddNewSymbols:                            true,

		Compiler:   CompilerIDO,
		GPValue:    0,
		PIC:        false,
		EmitCPLoad: true,

		AsmComment:         true,
		AsmTextFuncAsLabel: false,
		AsmTextEntLabel:    "",
		AsmTextEndLabel:    "",
		GlabelAsmCount:     false,
		LineEnds:           "\n",

		Endian:               BigEndian,
		EndianRodata:         BigEndian,
		RodataStringEncoding: "EUC-JP",
	}
}

// keys lists the preference names in the order they are written to a
// preferences file, so Save output is deterministic and diffable.
// IgnoreWordList and LineEnds have no key: they are neither saved nor
// loaded.
var keys = []string{
	"REMOVE_POINTERS",
	"IGNORE_BRANCHES",
	"STRING_GUESSER",
	"SYMBOL_FINDER_FILTER_LOW_ADDRESSES",
	"SYMBOL_FINDER_FILTER_HIGH_ADDRESSES",
	"SYMBOL_FINDER_FILTERED_ADDRESSES_AS_CONSTANTS",
	"SYMBOL_FINDER_FILTERED_ADDRESSES_AS_HILO",
	"PRODUCE_SYMBOLS_PLUS_OFFSET",
	"ALLOW_UNKSEGMENT",
	"TRUST_USER_FUNCTIONS",
	"DISASSEMBLE_UNKNOWN_INSTRUCTIONS",
	"ADD_NEW_SYMBOLS",
	"COMPILER",
	"GP_VALUE",
	"PIC",
	"EMIT_CPLOAD",
	"ASM_COMMENT",
	"ASM_TEXT_FUNC_AS_LABEL",
	"ASM_TEXT_ENT_LABEL",
	"ASM_TEXT_END_LABEL",
	"GLABEL_ASM_COUNT",
	"ENDIAN",
	"ENDIAN_RODATA",
	"RODATA_STRING_ENCODING",
}

func (c *Config) toViper(v *viper.Viper) {
	v.Set("REMOVE_POINTERS", c.RemovePointers)
	v.Set("IGNORE_BRANCHES", c.IgnoreBranches)
	v.Set("STRING_GUESSER", c.StringGuesser)
	v.Set("SYMBOL_FINDER_FILTER_LOW_ADDRESSES", c.SymbolFinderFilterLowAddresses)
	v.Set("SYMBOL_FINDER_FILTER_HIGH_ADDRESSES", c.SymbolFinderFilterHighAddresses)
	v.Set("SYMBOL_FINDER_FILTERED_ADDRESSES_AS_CONSTANTS", c.SymbolFinderFilteredAddressesAsConstants)
	v.Set("SYMBOL_FINDER_FILTERED_ADDRESSES_AS_HILO", c.SymbolFinderFilteredAddressesAsHiLo)
	v.Set("PRODUCE_SYMBOLS_PLUS_OFFSET", c.ProduceSymbolsPlusOffset)
	v.Set("ALLOW_UNKSEGMENT", c.AllowUnkSegment)
	v.Set("TRUST_USER_FUNCTIONS", c.TrustUserFunctions)
	v.Set("DISASSEMBLE_UNKNOWN_INSTRUCTIONS", c.DisassembleUnknownInstructions)
	v.Set("ADD_NEW_SYMBOLS", c.AddNewSymbols)
	v.Set("COMPILER", c.Compiler.String())
	v.Set("GP_VALUE", c.GPValue)
	v.Set("PIC", c.PIC)
	v.Set("EMIT_CPLOAD", c.EmitCPLoad)
	v.Set("ASM_COMMENT", c.AsmComment)
	v.Set("ASM_TEXT_FUNC_AS_LABEL", c.AsmTextFuncAsLabel)
	v.Set("ASM_TEXT_ENT_LABEL", c.AsmTextEntLabel)
	v.Set("ASM_TEXT_END_LABEL", c.AsmTextEndLabel)
	v.Set("GLABEL_ASM_COUNT", c.GlabelAsmCount)
	v.Set("ENDIAN", c.Endian.String())
	v.Set("ENDIAN_RODATA", c.EndianRodata.String())
	v.Set("RODATA_STRING_ENCODING", c.RodataStringEncoding)
}

func endianFromString(s string) Endian {
	if s == "little" {
		return LittleEndian
	}
	return BigEndian
}

func fromViper(v *viper.Viper) (*Config, error) {
	c := Default()

	c.RemovePointers = v.GetBool("REMOVE_POINTERS")
	c.IgnoreBranches = v.GetBool("IGNORE_BRANCHES")
	c.StringGuesser = v.GetBool("STRING_GUESSER")
	c.SymbolFinderFilterLowAddresses = v.GetUint32("SYMBOL_FINDER_FILTER_LOW_ADDRESSES")
	c.SymbolFinderFilterHighAddresses = v.GetUint32("SYMBOL_FINDER_FILTER_HIGH_ADDRESSES")
	c.SymbolFinderFilteredAddressesAsConstants = v.GetBool("SYMBOL_FINDER_FILTERED_ADDRESSES_AS_CONSTANTS")
	c.SymbolFinderFilteredAddressesAsHiLo = v.GetBool("SYMBOL_FINDER_FILTERED_ADDRESSES_AS_HILO")
	c.ProduceSymbolsPlusOffset = v.GetBool("PRODUCE_SYMBOLS_PLUS_OFFSET")
	c.AllowUnkSegment = v.GetBool("ALLOW_UNKSEGMENT")
	c.TrustUserFunctions = v.GetBool("TRUST_USER_FUNCTIONS")
	c.DisassembleUnknownInstructions = v.GetBool("DISASSEMBLE_UNKNOWN_INSTRUCTIONS")
	c.AddNewSymbols = v.GetBool("ADD_NEW_SYMBOLS")

	compiler, err := compilerFromString(v.GetString("COMPILER"))
	if err != nil {
		return nil, err
	}
	c.Compiler = compiler

	c.GPValue = v.GetUint32("GP_VALUE")
	c.PIC = v.GetBool("PIC")
	c.EmitCPLoad = v.GetBool("EMIT_CPLOAD")
	c.AsmComment = v.GetBool("ASM_COMMENT")
	c.AsmTextFuncAsLabel = v.GetBool("ASM_TEXT_FUNC_AS_LABEL")
	c.AsmTextEntLabel = v.GetString("ASM_TEXT_ENT_LABEL")
	c.AsmTextEndLabel = v.GetString("ASM_TEXT_END_LABEL")
	c.GlabelAsmCount = v.GetBool("GLABEL_ASM_COUNT")
	c.Endian = endianFromString(v.GetString("ENDIAN"))
	c.EndianRodata = endianFromString(v.GetString("ENDIAN_RODATA"))
	c.RodataStringEncoding = v.GetString("RODATA_STRING_ENCODING")

	return c, nil
}

// Load reads a preferences file and returns the Config it describes. The
// file format is whatever viper's "properties"-style key=value reader
// accepts; an absent file is not an error, Load falls back to Default.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	v := viper.New()
	v.SetConfigType("properties")
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errs.Errorf(errs.Prefs, err)
	}

	c, err := fromViper(v)
	if err != nil {
		return nil, errs.Errorf(errs.Prefs, err)
	}
	return c, nil
}

// Save writes c to path as a flat key=value preferences file, one toggle
// per line in a stable order.
func (c *Config) Save(path string) error {
	v := viper.New()
	v.SetConfigType("properties")
	c.toViper(v)

	var buf bytes.Buffer
	for _, k := range keys {
		fmt.Fprintf(&buf, "%s = %v\n", k, v.Get(k))
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errs.Errorf(errs.Prefs, err)
	}
	return nil
}
