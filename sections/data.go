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

import (
	"sort"

	"github.com/n64decomp/mipsdisasm/context"
)

// DataSymbol pairs a context symbol owned by the data section with the
// word slice it carries.
type DataSymbol struct {
	Sym   *context.Symbol
	Words []uint32
}

// pointerLow/pointerHigh bound the plausible-pointer range: values in
// [0x80000000, 0x84000000) are treated as candidate pointers.
const (
	pointerLow  = 0x80000000
	pointerHigh = 0x84000000
)

// AnalyzeData scans words for embedded pointers and existing symbol
// boundaries, then partitions the range into owned data symbols.
func AnalyzeData(ctx *context.Context, seg *context.Segment, vram uint32, words []uint32) []DataSymbol {
	boundaries := map[uint32]bool{vram: true}

	for i, w := range words {
		v := vram + uint32(i*4)
		if _, ok := ctx.GetSymbol(seg, v, false, false); ok {
			boundaries[v] = true
		}
		if w >= vram && w >= pointerLow && w < pointerHigh {
			if _, ok := ctx.GetSymbol(seg, w, false, false); !ok {
				ctx.AddPointerInDataReference(seg, w)
			}
		}
	}

	sorted := make([]uint32, 0, len(boundaries))
	for b := range boundaries {
		sorted = append(sorted, b)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	end := vram + uint32(len(words)*4)
	out := make([]DataSymbol, 0, len(sorted))
	for i, b := range sorted {
		next := end
		if i+1 < len(sorted) {
			next = sorted[i+1]
		}
		if next <= b {
			continue
		}
		startIdx := int((b - vram) / 4)
		endIdx := int((next - vram) / 4)
		sym := ctx.AddSymbol(seg, b, context.KindDataType, 0, false, true)
		sym.HasSize = true
		sym.Size = next - b
		out = append(out, DataSymbol{Sym: sym, Words: words[startIdx:endIdx]})
	}
	return out
}
