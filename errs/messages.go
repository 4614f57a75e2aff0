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

package errs

// error messages, grouped by the three-kind taxonomy used throughout the
// engine: configuration errors abort the run, recoverable inference gaps are
// logged and the instruction is rendered verbatim, and unimplemented
// instructions fall back to .word rendering.
const (
	// configuration errors
	ConfigError         = "config error: %v"
	CSVRowError         = "config error: malformed row in %s (line %d): %v"
	UnrecognisedSection = "config error: unrecognised section name (%v)"
	VramOutOfRange      = "config error: vram out of range (%#08x)"
	RelocFileError      = "config error: relocation override file: %v"
	ELFParseError       = "elf error: %v"

	// recoverable inference gaps
	UnresolvedHiLo         = "unresolved hi/lo pair at offset %#06x"
	GOTIndexOutOfRange     = "got index out of range (%v)"
	JumpTableMismatch      = "jump table at %#08x: entry %d high byte mismatch"
	JumpTableTooShort      = "jump table at %#08x has fewer than 3 entries"
	SpuriousSymbolFiltered = "filtered spurious symbol address %#08x"

	// unimplemented / unclassifiable instructions
	UnimplementedInstruction   = "unimplemented instruction %#08x at %#08x"
	SectionClassificationError = "could not classify section %q: %v"

	// migration
	MigrationAmbiguous = "migration: symbol %v referenced by more than one function"

	// writer
	WriterError = "writer: %v"

	// disassembly driver
	DisassemblyError = "error during disassembly: %v"
	IterationError   = "disasm iteration error: %v"

	// config persistence
	Prefs         = "prefs: %v"
	PrefsNoFile   = "prefs: no file (%s)"
	PrefsNotValid = "prefs: not a valid prefs file (%s)"
)
