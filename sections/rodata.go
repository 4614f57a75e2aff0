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
	"math"

	"github.com/n64decomp/mipsdisasm/config"
	"github.com/n64decomp/mipsdisasm/context"
)

// RodataKind classifies the payload of one rodata symbol.
type RodataKind int

const (
	RodataWord RodataKind = iota
	RodataFloat
	RodataDouble
	RodataJumpTable
	RodataCharString
	RodataPascalString
)

// RodataSymbol is one owned rodata symbol plus its classified payload.
type RodataSymbol struct {
	Sym          *context.Symbol
	Words        []uint32
	Kind         RodataKind
	JumpTargets  []uint32 // populated when Kind == RodataJumpTable
	String       string   // populated for the two string kinds
	IsLateRodata bool
}

// minJumpTableEntries is the minimum entry count before a run of
// pointer-shaped words is accepted as a jump table.
const minJumpTableEntries = 3

// AnalyzeRodata performs jump-table detection, reference-driven symbol
// birth from pending data pointers, and type classification, over one
// contiguous run of rodata words.
func AnalyzeRodata(cfg *config.Config, ctx *context.Context, seg *context.Segment, vram uint32, words []uint32) []RodataSymbol {
	// reference-driven symbol birth: anything the data/rodata scans
	// enqueued as a candidate pointer into this range gets materialized
	// as an owned symbol before classification runs, so it becomes a
	// boundary the same way a pre-existing context symbol would.
	end := vram + uint32(len(words)*4)
	for _, p := range ctx.GetAndPopPointerInDataReferencesRange(seg, vram, end) {
		ctx.AddSymbol(seg, p, context.KindDataType, 0, false, true)
	}

	var out []RodataSymbol
	i := 0
	for i < len(words) {
		v := vram + uint32(i*4)

		if sym, ok := ctx.GetSymbol(seg, v, false, false); ok && sym.IsJumpTable {
			jt, consumed := scanJumpTable(ctx, seg, v, words[i:])
			if consumed >= minJumpTableEntries {
				sym.HasSize = true
				sym.Size = uint32(consumed * 4)
				out = append(out, jt)
				for _, target := range jt.JumpTargets {
					ctx.AddJumpTableLabel(seg, target)
				}
				i += consumed
				continue
			}
			// fewer than three entries: not actually a jump table,
			// fall through and classify the first word as plain data.
		}

		rs, consumed := classifyOne(v, words[i:])
		out = append(out, rs)
		i += consumed
	}
	return out
}

// scanJumpTable extends membership from the first entry while every
// subsequent word is non-zero, lands on no fresh context symbol, and
// shares the first entry's high byte; GOT-relative tables are
// recognised by their first entry not looking like a direct code
// address and are accepted without the high-byte check.
func scanJumpTable(ctx *context.Context, seg *context.Segment, vram uint32, words []uint32) (RodataSymbol, int) {
	if len(words) == 0 {
		return RodataSymbol{}, 0
	}
	firstHigh := byte(words[0] >> 24)
	gotRelative := firstHigh != 0x80

	rs := RodataSymbol{Kind: RodataJumpTable}
	n := 0
	for n < len(words) {
		w := words[n]
		if w == 0 {
			break
		}
		v := vram + uint32(n*4)
		if n > 0 {
			if _, ok := ctx.GetSymbol(seg, v, false, false); ok {
				break
			}
			if !gotRelative && byte(w>>24) != firstHigh {
				break
			}
		}
		rs.Words = append(rs.Words, w)
		rs.JumpTargets = append(rs.JumpTargets, w)
		n++
	}
	return rs, n
}

// classifyOne classifies the word (or aligned word-pair) starting at
// vram, trying char-string/Pascal-string/double/float in turn before
// falling back to plain word data, and returns how many words it
// consumed.
func classifyOne(vram uint32, words []uint32) (RodataSymbol, int) {
	if len(words) == 0 {
		return RodataSymbol{Kind: RodataWord}, 1
	}

	// strings are checked first: a handful of printable bytes followed
	// by a terminator is a much more specific match than the loose
	// float/double float-bit-pattern tests below, which would otherwise
	// happily claim ordinary text as a plausible float.
	if s, n, ok := scanCharString(words); ok {
		return RodataSymbol{Kind: RodataCharString, String: s, Words: words[:n]}, n
	}
	if s, n, ok := scanPascalString(words); ok {
		return RodataSymbol{Kind: RodataPascalString, String: s, Words: words[:n]}, n
	}
	if len(words) >= 2 && len(words)%2 == 0 {
		if isPlausibleDouble(words[0], words[1]) {
			return RodataSymbol{Kind: RodataDouble, Words: words[:2]}, 2
		}
	}
	if isPlausibleFloat(words[0]) {
		return RodataSymbol{Kind: RodataFloat, Words: words[:1]}, 1
	}
	return RodataSymbol{Kind: RodataWord, Words: words[:1]}, 1
}

func isPlausibleFloat(w uint32) bool {
	f := math.Float32frombits(w)
	if f != f { // NaN
		return false
	}
	return !math.IsInf(float64(f), 0) && w != 0
}

func isPlausibleDouble(hi, lo uint32) bool {
	bits := uint64(hi)<<32 | uint64(lo)
	d := math.Float64frombits(bits)
	if d != d {
		return false
	}
	return !math.IsInf(d, 0) && bits != 0
}

// scanCharString looks for an escaped byte sequence whose NUL
// terminator falls within the word-aligned tail of the run.
func scanCharString(words []uint32) (string, int, bool) {
	var bytes []byte
	for _, w := range words {
		bytes = append(bytes, byte(w>>24), byte(w>>16), byte(w>>8), byte(w))
	}
	term := -1
	for i, b := range bytes {
		if b == 0 {
			term = i
			break
		}
		if (b < 0x20 || b > 0x7E) && b != '\t' && b != '\n' {
			return "", 0, false
		}
	}
	if term <= 0 {
		return "", 0, false
	}
	wordsUsed := (term / 4) + 1
	return string(bytes[:term]), wordsUsed, true
}

// scanPascalString requires a leading size prefix followed by that many
// bytes and at least two consecutive terminator bytes closing the run.
func scanPascalString(words []uint32) (string, int, bool) {
	if len(words) == 0 {
		return "", 0, false
	}
	size := words[0] >> 24
	if size == 0 || size > 0xFF {
		return "", 0, false
	}

	var bytes []byte
	for _, w := range words {
		bytes = append(bytes, byte(w>>24), byte(w>>16), byte(w>>8), byte(w))
	}
	bytes = bytes[1:]
	if int(size)+2 > len(bytes) {
		return "", 0, false
	}
	if bytes[size] != 0 || bytes[size+1] != 0 {
		return "", 0, false
	}
	wordsUsed := ((int(size) + 1 + 3) / 4) + 1
	if wordsUsed > len(words) {
		wordsUsed = len(words)
	}
	return string(bytes[:size]), wordsUsed, true
}
