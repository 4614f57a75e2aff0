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

package migration_test

import (
	"testing"

	"github.com/n64decomp/mipsdisasm/analysis"
	"github.com/n64decomp/mipsdisasm/config"
	"github.com/n64decomp/mipsdisasm/context"
	"github.com/n64decomp/mipsdisasm/decoder"
	"github.com/n64decomp/mipsdisasm/migration"
	"github.com/n64decomp/mipsdisasm/sections"
	"github.com/n64decomp/mipsdisasm/test"
)

// a rodata symbol referenced by exactly one function migrates into
// that function's listing.
func TestMigrateSoleReferencedSymbol(t *testing.T) {
	cfg := config.Default()
	ctx := context.New(cfg, 0x80000000, 0x80100000)
	seg := ctx.Global()

	fn := analysis.Analyze(cfg, ctx, seg, decoder.CategoryCPU, 0x80000400, 0, []uint32{0x00000000})
	fn.ReferencedVrams[0x80010000] = true

	sym := ctx.AddSymbol(seg, 0x80010000, context.KindDataType, 0, false, true)
	sym.AddReference("F")
	rodata := []sections.RodataSymbol{{Sym: sym, Kind: sections.RodataWord, Words: []uint32{0x1}}}

	plan := migration.Migrate([]*analysis.Function{fn}, rodata)

	test.ExpectEquality(t, len(plan.FunctionRodata[0x80000400]), 1)
	test.ExpectEquality(t, len(plan.Standalone), 0)
}

func TestMigrateConstFloatStaysStandalone(t *testing.T) {
	cfg := config.Default()
	ctx := context.New(cfg, 0x80000000, 0x80100000)
	seg := ctx.Global()

	fn := analysis.Analyze(cfg, ctx, seg, decoder.CategoryCPU, 0x80000400, 0, []uint32{0x00000000})
	fn.ReferencedVrams[0x80010000] = true

	sym := ctx.AddSymbol(seg, 0x80010000, context.KindDataType, 0, false, true)
	sym.AddReference("F")
	rodata := []sections.RodataSymbol{{Sym: sym, Kind: sections.RodataFloat, Words: []uint32{0x3FC00000}}}

	plan := migration.Migrate([]*analysis.Function{fn}, rodata)

	test.ExpectEquality(t, len(plan.FunctionRodata[0x80000400]), 0)
	test.ExpectEquality(t, len(plan.Standalone), 1)
}

func TestMigrateForceMigrateOverridesConstTest(t *testing.T) {
	cfg := config.Default()
	ctx := context.New(cfg, 0x80000000, 0x80100000)
	seg := ctx.Global()

	fn := analysis.Analyze(cfg, ctx, seg, decoder.CategoryCPU, 0x80000400, 0, []uint32{0x00000000})
	fn.ReferencedVrams[0x80010000] = true

	sym := ctx.AddSymbol(seg, 0x80010000, context.KindDataType, 0, false, true)
	sym.AddReference("F")
	sym.ForceMigrate = true
	rodata := []sections.RodataSymbol{{Sym: sym, Kind: sections.RodataFloat, Words: []uint32{0x3FC00000}}}

	plan := migration.Migrate([]*analysis.Function{fn}, rodata)

	test.ExpectEquality(t, len(plan.FunctionRodata[0x80000400]), 1)
}
