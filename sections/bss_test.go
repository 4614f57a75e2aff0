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

func TestAnalyzeBssSingleSymbol(t *testing.T) {
	ctx := newTestContext()
	seg := ctx.Global()

	out := sections.AnalyzeBss(ctx, seg, 0x80010000, 0x100)
	test.ExpectEquality(t, len(out), 1)
	test.ExpectEquality(t, out[0].Size, uint32(0x100))
}

func TestAnalyzeBssSubdividedByUserSymbol(t *testing.T) {
	ctx := newTestContext()
	seg := ctx.Global()

	user := ctx.AddSymbol(seg, 0x80010040, 0, 0, false, false)
	user.IsUserDeclared = true

	out := sections.AnalyzeBss(ctx, seg, 0x80010000, 0x100)
	test.ExpectEquality(t, len(out), 2)
	test.ExpectEquality(t, out[0].Vram, uint32(0x80010000))
	test.ExpectEquality(t, out[1].Vram, uint32(0x80010040))
}
