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

// Package context is the global registry of every known address: the
// symbol table, grouped into segments, plus the handful of auxiliary
// tables (constants, deferred data pointers, relocation overrides,
// hi/lo patches) that the rest of the engine consults while analysing a
// binary.
package context

import "fmt"

// Kind is the type of a context symbol. The promotion rules applied by
// addFunction/addBranchLabel/etc do not follow the numeric order of
// these values; the precedence is defined by promote.
type Kind int

const (
	KindUnknown Kind = iota
	KindDataType
	KindConstant
	KindHardwareRegister
	KindBranchLabel
	KindJumpTableLabel
	KindJumpTable
	KindGccExceptTableLabel
	KindGccExceptTable
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindDataType:
		return "data"
	case KindConstant:
		return "constant"
	case KindHardwareRegister:
		return "hardware-register"
	case KindBranchLabel:
		return "branch-label"
	case KindJumpTableLabel:
		return "jump-table-label"
	case KindJumpTable:
		return "jump-table"
	case KindGccExceptTableLabel:
		return "gcc-except-table-label"
	case KindGccExceptTable:
		return "gcc-except-table"
	case KindFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Visibility mirrors the assembler visibility of a symbol: global symbols
// get a glabel, local symbols get a plain label, static symbols are
// emitted but never exported.
type Visibility int

const (
	VisibilityGlobal Visibility = iota
	VisibilityLocal
	VisibilityStatic
)

// AccessType records how a symbol was dereferenced by some instruction:
// byte/half/word/double-word, signed or unsigned. The histogram on
// Symbol tallies these so the section analyzers can infer a plausible
// data type when none was declared.
type AccessType struct {
	Width  int
	Signed bool
}

func (a AccessType) String() string {
	switch a.Width {
	case 1:
		if a.Signed {
			return "s8"
		}
		return "u8"
	case 2:
		if a.Signed {
			return "s16"
		}
		return "u16"
	case 4:
		if a.Signed {
			return "s32"
		}
		return "u32"
	case 8:
		if a.Signed {
			return "s64"
		}
		return "u64"
	default:
		return "?"
	}
}

// Symbol is the canonical record for a named/typed location tracked by
// a Context.
type Symbol struct {
	Vram uint32
	Vrom uint32
	HasVrom bool
	Size    uint32
	HasSize bool

	Kind       Kind
	Name       string
	NameAtEnd  bool
	Visibility Visibility

	// migration hints, consumed by package migration
	ForceMigrate    bool
	ForceNotMigrate bool
	MigrationOwner  string // function name this symbol is pinned to, if any

	// reference tracking
	RefCount  int
	RefByFunc map[string]bool

	AccessHistogram map[AccessType]int

	IsAutogenerated bool
	IsUserDeclared  bool
	IsDefined       bool
	IsLateRodata    bool
	IsJumpTable     bool
	IsGot           bool
	IsGotLocal      bool
	IsGotGlobal     bool
	AllowAddend     bool
	NotAllowAddend  bool

	// UnknownSegment is set when this symbol was inserted into the
	// distinguished unknown segment rather than a real overlay: the
	// hosting segment has no vrom range, or is the unknown segment
	// itself.
	UnknownSegment bool
}

// DisplayName returns Name if set, otherwise a generated
// address-qualified name following the "func_80001234" / "D_80001234"
// convention common to N64 decompilation projects.
func (s *Symbol) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	switch s.Kind {
	case KindFunction:
		return fmt.Sprintf("func_%08X", s.Vram)
	case KindJumpTable:
		return fmt.Sprintf("jtbl_%08X", s.Vram)
	case KindJumpTableLabel:
		return fmt.Sprintf("L%08X", s.Vram)
	case KindGccExceptTable:
		return fmt.Sprintf("ehtbl_%08X", s.Vram)
	default:
		return fmt.Sprintf("D_%08X", s.Vram)
	}
}

// RecordAccess adds one tally to the symbol's access-type histogram.
func (s *Symbol) RecordAccess(width int, signed bool) {
	if s.AccessHistogram == nil {
		s.AccessHistogram = make(map[AccessType]int)
	}
	s.AccessHistogram[AccessType{Width: width, Signed: signed}]++
}

// AddReference bumps the reference counter and remembers the name of the
// function that referenced the symbol, if given.
func (s *Symbol) AddReference(fromFunc string) {
	s.RefCount++
	if fromFunc == "" {
		return
	}
	if s.RefByFunc == nil {
		s.RefByFunc = make(map[string]bool)
	}
	s.RefByFunc[fromFunc] = true
}

// SoleReferencer returns the one function that references this symbol,
// if and only if exactly one does; used by package migration to decide
// whether a rodata symbol may be migrated next to its referencing
// function.
func (s *Symbol) SoleReferencer() (string, bool) {
	if len(s.RefByFunc) != 1 {
		return "", false
	}
	for f := range s.RefByFunc {
		return f, true
	}
	return "", false
}

// promote applies a monotonic type-promotion precedence: function
// beats everything; jump-table-label may overwrite any non-function
// kind; function ties with jump-table in function's favour;
// branch-label loses to both function and jump-table-label.
func promote(existing, requested Kind) Kind {
	if existing == KindFunction {
		return KindFunction
	}
	switch requested {
	case KindFunction:
		return KindFunction
	case KindJumpTableLabel:
		return KindJumpTableLabel
	case KindJumpTable:
		if existing == KindJumpTableLabel {
			return existing
		}
		return KindJumpTable
	case KindGccExceptTable:
		if existing == KindGccExceptTableLabel {
			return existing
		}
		return KindGccExceptTable
	case KindGccExceptTableLabel:
		return KindGccExceptTableLabel
	case KindBranchLabel:
		if existing == KindJumpTableLabel || existing == KindJumpTable {
			return existing
		}
		return KindBranchLabel
	default:
		if existing == KindUnknown {
			return requested
		}
		return existing
	}
}
