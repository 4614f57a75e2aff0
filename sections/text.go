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

// Package sections holds the four section analyzers: text (function
// boundary detection plus the per-function analyzer), data, rodata
// (with jump-table and type classification) and bss. Each analyzer is
// a pure function of a word slice, a Context and a starting vram; none
// of them retain state across calls.
package sections

import (
	"github.com/n64decomp/mipsdisasm/analysis"
	"github.com/n64decomp/mipsdisasm/config"
	"github.com/n64decomp/mipsdisasm/context"
	"github.com/n64decomp/mipsdisasm/decoder"
)

const regRA = 31

// TextResult is what the text analyzer recovered from one contiguous
// run of instruction words: the functions it found, in vram order, plus
// the vrams where trailing NOP padding crossed a 16-byte boundary, a
// file-boundary candidate.
type TextResult struct {
	Functions      []*analysis.Function
	FileBoundaries []uint32
}

// AnalyzeText walks a contiguous run of words looking for function
// boundaries. It decodes words against category, finds function
// start/end pairs, and runs the per-function analyzer (package
// analysis) over each one.
func AnalyzeText(cfg *config.Config, ctx *context.Context, seg *context.Segment, category decoder.Category, vram uint32, vromBase uint32, words []uint32) *TextResult {
	res := &TextResult{}
	if len(words) == 0 {
		return res
	}

	instrs := make([]decoder.Instruction, len(words))
	for i, w := range words {
		instrs[i] = decoder.Decode(w, category)
	}

	start := 0
	farthestBranch := 0
	handwritten := false

	for idx := 0; idx < len(instrs); idx++ {
		instr := instrs[idx]

		if instr.IsHandwrittenSignal() {
			handwritten = true
		}

		if instr.IsBranch() {
			target := idx + 1 + int(instr.SignExtendImmediate())
			farthestBranch = maxOf(farthestBranch, target)
			if target < start && target >= 0 {
				startVram := vram + uint32(start*4)
				sym, ok := ctx.GetSymbol(seg, startVram, false, false)
				trusted := ok && sym.IsUserDeclared && cfg.TrustUserFunctions
				if !trusted && category != decoder.CategoryRSP {
					start = target
					farthestBranch = start
				}
			}
		}

		ends := false
		switch {
		case instr.Op == decoder.OpJR && instr.RS == regRA:
			ends = idx+1 >= farthestBranch
		case instr.Op == decoder.OpJ && (handwritten || category == decoder.CategoryRSP):
			ends = idx+1 >= farthestBranch
		}

		if !ends {
			if sym, ok := ctx.GetSymbol(seg, vram+uint32(start*4), false, false); ok && sym.HasSize {
				if uint32((idx-start+1)*4) >= sym.Size {
					ends = true
				}
			}
		}

		if !ends && idx+2 < len(instrs) {
			nextVram := vram + uint32((idx+2)*4)
			if sym, ok := ctx.GetSymbol(seg, nextVram, false, false); ok && sym.Kind == context.KindFunction {
				ends = idx+1 >= farthestBranch
			}
		}

		if !ends {
			continue
		}

		// include the delay slot, if any remains in range.
		end := idx
		if end+1 < len(instrs) {
			end++
		}

		res.emitFunction(cfg, ctx, seg, category, vram, vromBase, words, start, end)

		next := end + 1
		boundaryNoted := false
		for next < len(instrs) && words[next] == 0 {
			if (vram+uint32(next*4))%16 == 0 && !boundaryNoted {
				res.FileBoundaries = append(res.FileBoundaries, vram+uint32(next*4))
				boundaryNoted = true
			}
			next++
		}

		idx = next - 1
		start = next
		farthestBranch = start
		handwritten = false
	}

	if start < len(instrs) {
		res.emitFunction(cfg, ctx, seg, category, vram, vromBase, words, start, len(instrs)-1)
	}

	return res
}

func (res *TextResult) emitFunction(cfg *config.Config, ctx *context.Context, seg *context.Segment, category decoder.Category, vram, vromBase uint32, words []uint32, start, end int) {
	if end < start {
		return
	}
	funcVram := vram + uint32(start*4)
	funcWords := words[start : end+1]

	ctx.AddFunction(seg, funcVram)
	fn := analysis.Analyze(cfg, ctx, seg, category, funcVram, vromBase+uint32(start*4), funcWords)
	if sym, ok := ctx.GetSymbol(seg, funcVram, false, false); ok {
		sym.HasSize = true
		sym.Size = uint32(len(funcWords) * 4)
	}
	res.Functions = append(res.Functions, fn)
}
