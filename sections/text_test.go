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

	"github.com/n64decomp/mipsdisasm/config"
	"github.com/n64decomp/mipsdisasm/context"
	"github.com/n64decomp/mipsdisasm/decoder"
	"github.com/n64decomp/mipsdisasm/sections"
	"github.com/n64decomp/mipsdisasm/test"
)

func newTestContext() *context.Context {
	return context.New(config.Default(), 0x80000000, 0x80100000)
}

func TestAnalyzeTextSingleFunction(t *testing.T) {
	cfg := config.Default()
	ctx := newTestContext()
	seg := ctx.Global()

	words := []uint32{
		0x27bdffe0, // addiu $sp, $sp, -0x20
		0x03e00008, // jr $ra
		0x00000000, // nop (delay slot)
	}
	res := sections.AnalyzeText(cfg, ctx, seg, decoder.CategoryCPU, 0x80000000, 0, words)

	test.ExpectEquality(t, len(res.Functions), 1)
	test.ExpectEquality(t, res.Functions[0].Vram, uint32(0x80000000))

	sym, ok := ctx.GetSymbol(seg, 0x80000000, false, false)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, sym.Kind, context.KindFunction)
}

func TestAnalyzeTextTwoFunctionsWithPadding(t *testing.T) {
	cfg := config.Default()
	ctx := newTestContext()
	seg := ctx.Global()

	words := []uint32{
		0x03e00008, // jr $ra
		0x00000000, // nop
		0x00000000, // nop padding
		0x00000000, // nop padding (crosses 16-byte boundary at word 4)
		0x03e00008, // jr $ra
		0x00000000, // nop
	}
	res := sections.AnalyzeText(cfg, ctx, seg, decoder.CategoryCPU, 0x80000000, 0, words)

	test.ExpectEquality(t, len(res.Functions), 2)
	test.ExpectEquality(t, res.Functions[1].Vram, uint32(0x80000010))
}
