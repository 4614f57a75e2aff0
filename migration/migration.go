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

// Package migration decides which rodata symbols move into the listing
// of the function that references them, versus staying in the
// standalone rodata file, and tracks the late-rodata-alignment
// bookkeeping that decision requires.
package migration

import (
	"sort"

	"github.com/n64decomp/mipsdisasm/analysis"
	"github.com/n64decomp/mipsdisasm/sections"
)

// lateRodataDensityThreshold implements the "one-third of the owning
// function's instruction count" late-rodata density rule.
const lateRodataDensityThreshold = 3

// Plan is the outcome of migration for one text/rodata pairing: which
// rodata symbols move into which function, which late-rodata symbols
// accompany them (and at what alignment), and which rodata symbols stay
// behind in source order.
type Plan struct {
	// FunctionRodata maps a function's vram to the rodata symbols
	// migrating into its listing, in original rodata order.
	FunctionRodata map[uint32][]sections.RodataSymbol

	// LateRodataAlignment maps a function's vram to the
	// .late_rodata_alignment value (4 or 8) its migrated late-rodata
	// block requires, only present when the density threshold was
	// exceeded.
	LateRodataAlignment map[uint32]int

	// Standalone holds every rodata symbol that was not migrated,
	// still in source order.
	Standalone []sections.RodataSymbol
}

// Migrate runs the pairing algorithm: for each function in text order,
// intersect its referencedVrams with the rodata symbol vram set to
// find its migratable block, subject to the migrates() test.
func Migrate(functions []*analysis.Function, rodata []sections.RodataSymbol) *Plan {
	plan := &Plan{
		FunctionRodata:      make(map[uint32][]sections.RodataSymbol),
		LateRodataAlignment: make(map[uint32]int),
	}

	byVram := make(map[uint32]sections.RodataSymbol, len(rodata))
	order := make([]uint32, 0, len(rodata))
	for _, rs := range rodata {
		if rs.Sym == nil {
			continue
		}
		byVram[rs.Sym.Vram] = rs
		order = append(order, rs.Sym.Vram)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	migrated := make(map[uint32]bool)

	for _, fn := range functions {
		var block []sections.RodataSymbol
		var lateTotal int
		var lateFirstAlignedTo8 bool
		var lateSeen bool

		for _, v := range order {
			if migrated[v] {
				continue
			}
			if !fn.ReferencedVrams[v] {
				continue
			}
			rs := byVram[v]
			if !migrates(rs) {
				continue
			}
			migrated[v] = true
			block = append(block, rs)

			if rs.IsLateRodata {
				lateTotal += len(rs.Words)
				if !lateSeen {
					lateSeen = true
					lateFirstAlignedTo8 = v%8 == 0
				}
			}
		}

		if len(block) > 0 {
			plan.FunctionRodata[fn.Vram] = block
		}
		if lateSeen && lateTotal*lateRodataDensityThreshold > len(fn.Instrs) {
			if lateFirstAlignedTo8 {
				plan.LateRodataAlignment[fn.Vram] = 8
			} else {
				plan.LateRodataAlignment[fn.Vram] = 4
			}
		}
	}

	for _, v := range order {
		if !migrated[v] {
			plan.Standalone = append(plan.Standalone, byVram[v])
		}
	}

	return plan
}

// migrates reports whether a rodata symbol is eligible to migrate
// into the listing of the function that references it.
func migrates(rs sections.RodataSymbol) bool {
	sym := rs.Sym
	if sym == nil {
		return false
	}
	if sym.NotAllowAddend && sym.ForceNotMigrate {
		return false
	}
	if sym.ForceNotMigrate {
		return false
	}
	if sym.ForceMigrate || sym.MigrationOwner != "" {
		return true
	}
	if rs.Kind == sections.RodataDouble {
		// MIPS1 doubles always migrate regardless of the const test.
		return true
	}
	_, hasSoleReferencer := sym.SoleReferencer()
	if sym.RefCount == 0 || hasSoleReferencer {
		return !isConst(rs)
	}
	return false
}

// isConst reports whether a rodata symbol looks like compiler-emitted
// constant data: jumptable/string symbols are always const, and
// float/double symbols are const when at least one of their words is
// non-zero (which rules out a fully zero-padded placeholder never
// actually initialized).
func isConst(rs sections.RodataSymbol) bool {
	switch rs.Kind {
	case sections.RodataFloat, sections.RodataDouble, sections.RodataJumpTable,
		sections.RodataCharString, sections.RodataPascalString:
	default:
		return false
	}

	if rs.Kind == sections.RodataFloat || rs.Kind == sections.RodataDouble {
		for _, w := range rs.Words {
			if w != 0 {
				return true
			}
		}
		return false
	}
	return true
}
