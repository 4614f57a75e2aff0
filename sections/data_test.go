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

package sections_test

import (
	"testing"

	"github.com/n64decomp/mipsdisasm/sections"
	"github.com/n64decomp/mipsdisasm/test"
)

func TestAnalyzeDataEnqueuesPointerCandidate(t *testing.T) {
	ctx := newTestContext()
	seg := ctx.Global()

	words := []uint32{0x80001000, 0xdeadbeef}
	out := sections.AnalyzeData(ctx, seg, 0x80000000, words)

	test.ExpectEquality(t, len(out), 1)
	test.ExpectEquality(t, out[0].Sym.Vram, uint32(0x80000000))

	ptrs := ctx.GetAndPopPointerInDataReferencesRange(seg, 0x80000000, 0x80100000)
	test.ExpectEquality(t, len(ptrs), 1)
	test.ExpectEquality(t, ptrs[0], uint32(0x80001000))
}

func TestAnalyzeDataPartitionsAtExistingSymbol(t *testing.T) {
	ctx := newTestContext()
	seg := ctx.Global()
	ctx.AddSymbol(seg, 0x80000008, 0, 0, false, false)

	words := []uint32{0x1, 0x2, 0x3, 0x4}
	out := sections.AnalyzeData(ctx, seg, 0x80000000, words)

	test.ExpectEquality(t, len(out), 2)
	test.ExpectEquality(t, out[0].Sym.Vram, uint32(0x80000000))
	test.ExpectEquality(t, len(out[0].Words), 2)
	test.ExpectEquality(t, out[1].Sym.Vram, uint32(0x80000008))
	test.ExpectEquality(t, len(out[1].Words), 2)
}
