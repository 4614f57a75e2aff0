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

// Package writer renders the artifacts package analysis/sections/
// migration produced as GAS MIPS assembly text: section directives,
// balign, glabel/plain labels, per-instruction offset/vram/word
// comments, the %hi/%lo/%gp_rel/%got family of operand wrappers, and
// the handful of data directives.
package writer

import (
	"fmt"
	"io"
	"math"

	"github.com/n64decomp/mipsdisasm/analysis"
	"github.com/n64decomp/mipsdisasm/config"
	"github.com/n64decomp/mipsdisasm/context"
	"github.com/n64decomp/mipsdisasm/decoder"
	"github.com/n64decomp/mipsdisasm/sections"
)

// Writer renders assembly text to an underlying io.Writer, consulting
// cfg for every formatting toggle ("ASM_*" and friends).
type Writer struct {
	out io.Writer
	cfg *config.Config
	ctx *context.Context
}

// New returns a Writer that renders to out under cfg, resolving symbol
// names through ctx.
func New(out io.Writer, cfg *config.Config, ctx *context.Context) *Writer {
	return &Writer{out: out, cfg: cfg, ctx: ctx}
}

func (w *Writer) printf(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format, args...)
}

func (w *Writer) lineEnd() string {
	if w.cfg.LineEnds != "" {
		return w.cfg.LineEnds
	}
	return "\n"
}

// SectionDirective emits `.section .<kind>` followed by `.balign 16`:
// one section directive per kind, with a balign at the start of
// text/data/rodata/bss.
func (w *Writer) SectionDirective(kind string) {
	w.printf(".section .%s%s", kind, w.lineEnd())
	w.printf(".balign 16%s", w.lineEnd())
}

// Label emits `glabel <name>` for a global symbol or a plain `<name>:`
// for a local/static one.
func (w *Writer) Label(sym *context.Symbol) {
	name := sym.DisplayName()
	if sym.Visibility == context.VisibilityGlobal {
		w.printf("glabel %s%s", name, w.lineEnd())
		return
	}
	w.printf("%s:%s", name, w.lineEnd())
}

var regNames = [32]string{
	"$zero", "$at", "$v0", "$v1", "$a0", "$a1", "$a2", "$a3",
	"$t0", "$t1", "$t2", "$t3", "$t4", "$t5", "$t6", "$t7",
	"$s0", "$s1", "$s2", "$s3", "$s4", "$s5", "$s6", "$s7",
	"$t8", "$t9", "$k0", "$k1", "$gp", "$sp", "$fp", "$ra",
}

// RegisterName returns the $-prefixed ABI name for GPR n.
func RegisterName(n uint8) string {
	if int(n) < len(regNames) {
		return regNames[n]
	}
	return fmt.Sprintf("$%d", n)
}

func fpRegName(n uint8) string { return fmt.Sprintf("$f%d", n) }

// WriteTextFunction renders one function's instruction stream: the
// label, then one line per instruction with its offset/vram/word
// comment and resolved operand text.
func (w *Writer) WriteTextFunction(fn *analysis.Function, sym *context.Symbol) {
	w.Label(sym)
	for idx, instr := range fn.Instrs {
		offset := uint32(idx * 4)
		vram := fn.Vram + offset
		word := fn.Words[idx]

		if w.cfg.AsmComment {
			w.printf("/* %06X %08X %08X */ ", offset, vram, word)
		}
		w.printf("%s%s", w.formatInstruction(fn, instr, offset), w.lineEnd())
	}
	if w.cfg.AsmTextEndLabel != "" {
		w.printf("%s%s", w.cfg.AsmTextEndLabel, w.lineEnd())
	}
}

// formatInstruction renders a single decoded instruction as GAS text,
// wrapping the immediate with the operand-wrapper functions whenever
// package analysis resolved this offset to a symbol or constant;
// otherwise the raw immediate is rendered verbatim.
func (w *Writer) formatInstruction(fn *analysis.Function, instr decoder.Instruction, offset uint32) string {
	mnemonic := instr.Op.String()

	switch {
	case instr.Op == decoder.OpLUI:
		if addr, ok := fn.SymbolHiInstrOffset[offset]; ok {
			return fmt.Sprintf("lui %s, %s", RegisterName(instr.RT), hiWrapper(w.symbolName(addr)))
		}
		if v, ok := fn.ConstantHiInstrOffset[offset]; ok {
			return fmt.Sprintf("lui %s, %#x", RegisterName(instr.RT), uint32(v)>>16)
		}
		return fmt.Sprintf("lui %s, %#x", RegisterName(instr.RT), instr.Immediate)

	case instr.IsLoad() || instr.IsStore():
		base := RegisterName(instr.RS)
		reg := RegisterName(instr.RT)
		if addr, ok := fn.SymbolLoInstrOffset[offset]; ok {
			return fmt.Sprintf("%s %s, %s(%s)", mnemonic, reg, loWrapper(w.symbolName(addr)), base)
		}
		if addr, ok := fn.SymbolGpInstrOffset[offset]; ok {
			return fmt.Sprintf("%s %s, %s(%s)", mnemonic, reg, gpRelWrapper(w.symbolName(addr)), base)
		}
		if addr, ok := fn.SymbolInstrOffset[offset]; ok {
			return fmt.Sprintf("%s %s, %s(%s)", mnemonic, reg, w.gotWrapper(addr, offset), base)
		}
		return fmt.Sprintf("%s %s, %d(%s)", mnemonic, reg, instr.SignExtendImmediate(), base)

	case instr.Op == decoder.OpADDIU || instr.Op == decoder.OpADDI:
		if addr, ok := fn.SymbolLoInstrOffset[offset]; ok {
			return fmt.Sprintf("%s %s, %s, %s", mnemonic, RegisterName(instr.RT), RegisterName(instr.RS), loWrapper(w.symbolName(addr)))
		}
		if v, ok := fn.ConstantLoInstrOffset[offset]; ok {
			return fmt.Sprintf("%s %s, %s, %#x", mnemonic, RegisterName(instr.RT), RegisterName(instr.RS), uint16(v))
		}
		return fmt.Sprintf("%s %s, %s, %d", mnemonic, RegisterName(instr.RT), RegisterName(instr.RS), instr.SignExtendImmediate())

	case instr.Op == decoder.OpORI:
		if v, ok := fn.ConstantLoInstrOffset[offset]; ok {
			return fmt.Sprintf("ori %s, %s, %#x", RegisterName(instr.RT), RegisterName(instr.RS), uint16(v))
		}
		return fmt.Sprintf("ori %s, %s, %#x", RegisterName(instr.RT), RegisterName(instr.RS), instr.Immediate)

	case instr.Op == decoder.OpJAL:
		return fmt.Sprintf("jal %s", w.symbolName(instr.Target<<2))
	case instr.Op == decoder.OpJ:
		return fmt.Sprintf("j %s", w.symbolName(instr.Target<<2))
	case instr.Op == decoder.OpJR:
		return fmt.Sprintf("jr %s", RegisterName(instr.RS))
	case instr.Op == decoder.OpJALR:
		return fmt.Sprintf("jalr %s", RegisterName(instr.RS))

	case instr.IsBranch():
		target, ok := fn.BranchTargetInstrOffsets[offset]
		label := ""
		if ok {
			label = w.symbolName(target)
		}
		switch {
		case instr.RT != 0 && hasTwoRegs(instr.Op):
			return fmt.Sprintf("%s %s, %s, %s", mnemonic, RegisterName(instr.RS), RegisterName(instr.RT), label)
		default:
			return fmt.Sprintf("%s %s, %s", mnemonic, RegisterName(instr.RS), label)
		}

	case isRTypeALU(instr.Op):
		return fmt.Sprintf("%s %s, %s, %s", mnemonic, RegisterName(instr.RD), RegisterName(instr.RS), RegisterName(instr.RT))
	case isShift(instr.Op):
		return fmt.Sprintf("%s %s, %s, %d", mnemonic, RegisterName(instr.RD), RegisterName(instr.RT), instr.Shamt)

	case instr.Op == decoder.OpInvalid:
		return fmt.Sprintf(".word %#08x", instr.Word)

	default:
		return mnemonic
	}
}

func hasTwoRegs(op decoder.Op) bool {
	switch op {
	case decoder.OpBEQ, decoder.OpBNE, decoder.OpBEQL, decoder.OpBNEL:
		return true
	}
	return false
}

func isRTypeALU(op decoder.Op) bool {
	switch op {
	case decoder.OpADD, decoder.OpADDU, decoder.OpSUB, decoder.OpSUBU,
		decoder.OpAND, decoder.OpOR, decoder.OpXOR, decoder.OpNOR,
		decoder.OpSLT, decoder.OpSLTU:
		return true
	}
	return false
}

func isShift(op decoder.Op) bool {
	switch op {
	case decoder.OpSLL, decoder.OpSRL, decoder.OpSRA:
		return true
	}
	return false
}

func (w *Writer) symbolName(vram uint32) string {
	seg := w.ctx.GetSegmentForVram(vram, "")
	if seg == nil {
		return fmt.Sprintf("%#08x", vram)
	}
	sym, ok := w.ctx.GetSymbol(seg, vram, true, true)
	if !ok {
		return fmt.Sprintf("%#08x", vram)
	}
	return sym.DisplayName()
}

func (w *Writer) gotWrapper(vram, offset uint32) string {
	seg := w.ctx.GetSegmentForVram(vram, "")
	if seg != nil {
		if sym, ok := w.ctx.GetSymbol(seg, vram, true, true); ok && sym.IsGot {
			if sym.IsGotGlobal {
				return fmt.Sprintf("%%call16(%s)", sym.DisplayName())
			}
			return fmt.Sprintf("%%got(%s)", sym.DisplayName())
		}
	}
	return loWrapper(w.symbolName(vram))
}

func hiWrapper(name string) string    { return fmt.Sprintf("%%hi(%s)", name) }
func loWrapper(name string) string    { return fmt.Sprintf("%%lo(%s)", name) }
func gpRelWrapper(name string) string { return fmt.Sprintf("%%gp_rel(%s)", name) }

// WriteData renders one owned data symbol as a `.word` directive per
// element.
func (w *Writer) WriteData(ds sections.DataSymbol) {
	w.Label(ds.Sym)
	for _, word := range ds.Words {
		w.printf(".word %#08x%s", word, w.lineEnd())
	}
}

// WriteRodata renders one classified rodata symbol using the directive
// matching its Kind (.float, .double, .asciz, .word).
func (w *Writer) WriteRodata(rs sections.RodataSymbol) {
	w.Label(rs.Sym)
	switch rs.Kind {
	case sections.RodataFloat:
		w.printf(".float %s%s", floatLiteral(rs.Words[0]), w.lineEnd())
	case sections.RodataDouble:
		w.printf(".double %s%s", doubleLiteral(rs.Words[0], rs.Words[1]), w.lineEnd())
	case sections.RodataCharString, sections.RodataPascalString:
		w.printf(".asciz %q%s", rs.String, w.lineEnd())
	case sections.RodataJumpTable:
		for _, target := range rs.JumpTargets {
			w.printf(".word %s%s", w.symbolName(target), w.lineEnd())
		}
	default:
		for _, word := range rs.Words {
			w.printf(".word %#08x%s", word, w.lineEnd())
		}
	}
}

// WriteLateRodataAlignment emits `.late_rodata_alignment N` ahead of a
// function's migrated late-rodata block, when package migration decided
// the density threshold was exceeded.
func (w *Writer) WriteLateRodataAlignment(n int) {
	w.printf(".late_rodata_alignment %d%s", n, w.lineEnd())
}

// WriteBss renders one bss symbol as a `.space <size>` directive.
func (w *Writer) WriteBss(sym *context.Symbol) {
	w.Label(sym)
	w.printf(".space %#x%s", sym.Size, w.lineEnd())
}

// WriteCPLoad renders the 3-instruction $gp setup idiom as `.cpload
// $<reg>` when configuration asks for it.
func (w *Writer) WriteCPLoad(reg uint8) {
	w.printf(".cpload %s%s", RegisterName(reg), w.lineEnd())
}

func floatLiteral(bits uint32) string {
	return fmt.Sprintf("%g", math.Float32frombits(bits))
}

func doubleLiteral(hi, lo uint32) string {
	bits := uint64(hi)<<32 | uint64(lo)
	return fmt.Sprintf("%g", math.Float64frombits(bits))
}
