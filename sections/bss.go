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

package sections

import "github.com/n64decomp/mipsdisasm/context"

// AnalyzeBss covers a bss section with a single symbol spanning
// [vram, vram+size) unless user-declared symbols already subdivide the
// range, in which case each declared symbol gets its own slice and any
// leftover gap between two declared symbols becomes an autogenerated
// one so the whole range stays covered.
func AnalyzeBss(ctx *context.Context, seg *context.Segment, vram, size uint32) []*context.Symbol {
	end := vram + size
	declared := ctx.GetSymbolsRange(seg, vram, end)

	if len(declared) == 0 {
		sym := ctx.AddSymbol(seg, vram, context.KindDataType, 0, false, true)
		sym.HasSize = true
		sym.Size = size
		return []*context.Symbol{sym}
	}

	var out []*context.Symbol
	cursor := vram
	for _, sym := range declared {
		if sym.Vram > cursor {
			gap := ctx.AddSymbol(seg, cursor, context.KindDataType, 0, false, true)
			gap.HasSize = true
			gap.Size = sym.Vram - cursor
			out = append(out, gap)
		}
		if !sym.HasSize {
			next := end
			for _, other := range declared {
				if other.Vram > sym.Vram && other.Vram < next {
					next = other.Vram
				}
			}
			sym.HasSize = true
			sym.Size = next - sym.Vram
		}
		out = append(out, sym)
		cursor = sym.Vram + sym.Size
	}
	if cursor < end {
		gap := ctx.AddSymbol(seg, cursor, context.KindDataType, 0, false, true)
		gap.HasSize = true
		gap.Size = end - cursor
		out = append(out, gap)
	}
	return out
}
