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

// Package analysis implements the per-function instruction analyzer:
// given a function's decoded instruction stream it drives a
// registers.Tracker, pairs hi/lo immediates into symbol references,
// detects the CPLOAD $gp-setup idiom, and records everything the GAS
// writer needs to reproduce the original assembly text.
package analysis

import (
	"github.com/n64decomp/mipsdisasm/config"
	"github.com/n64decomp/mipsdisasm/context"
	"github.com/n64decomp/mipsdisasm/decoder"
	"github.com/n64decomp/mipsdisasm/logger"
	"github.com/n64decomp/mipsdisasm/registers"
	"github.com/n64decomp/mipsdisasm/reloc"
)

// Function is the result of analysing one function's instruction
// stream, keyed by in-file instruction offset (byte offset from the
// function's first instruction).
type Function struct {
	Vram   uint32
	Words  []uint32
	Instrs []decoder.Instruction

	LikelyHandwritten bool

	BranchInstrOffsets       map[uint32]bool
	BranchTargetInstrOffsets map[uint32]uint32 // offset -> target vram
	FuncCallInstrOffsets     map[uint32]uint32 // offset -> target vram
	JumpRegisterInstrOffset  map[uint32]uint32 // offset -> resolved value (jump table address)

	ReferencedJumpTableOffsets map[uint32]bool

	SymbolHiInstrOffset map[uint32]uint32 // offset -> symbol vram
	SymbolLoInstrOffset map[uint32]uint32
	SymbolGpInstrOffset map[uint32]uint32
	SymbolInstrOffset   map[uint32]uint32 // every offset -> referenced symbol vram, of any flavour

	ConstantHiInstrOffset map[uint32]int32
	ConstantLoInstrOffset map[uint32]int32

	HiToLowDict map[uint32]uint32
	LowToHiDict map[uint32]uint32

	PossibleSymbolTypes map[uint32]context.AccessType

	CPLoadOffsets []uint32

	ReferencedVrams map[uint32]bool
}

func newFunction(vram uint32, words []uint32) *Function {
	return &Function{
		Vram:                       vram,
		Words:                      words,
		BranchInstrOffsets:         make(map[uint32]bool),
		BranchTargetInstrOffsets:   make(map[uint32]uint32),
		FuncCallInstrOffsets:       make(map[uint32]uint32),
		JumpRegisterInstrOffset:    make(map[uint32]uint32),
		ReferencedJumpTableOffsets: make(map[uint32]bool),
		SymbolHiInstrOffset:        make(map[uint32]uint32),
		SymbolLoInstrOffset:        make(map[uint32]uint32),
		SymbolGpInstrOffset:        make(map[uint32]uint32),
		SymbolInstrOffset:          make(map[uint32]uint32),
		ConstantHiInstrOffset:      make(map[uint32]int32),
		ConstantLoInstrOffset:      make(map[uint32]int32),
		HiToLowDict:                make(map[uint32]uint32),
		LowToHiDict:                make(map[uint32]uint32),
		PossibleSymbolTypes:        make(map[uint32]context.AccessType),
		ReferencedVrams:            make(map[uint32]bool),
	}
}

// lookAheadWindow bounds the number of instructions examined past a
// branch target when reconstructing state nullified by a branch-likely
// delay slot.
const lookAheadWindow = 5

// Analyze runs the per-function instruction analyzer over words
// (decoded against category), owned by segment seg in ctx, starting at
// vram. It returns the populated Function record.
func Analyze(cfg *config.Config, ctx *context.Context, seg *context.Segment, category decoder.Category, vram uint32, vromBase uint32, words []uint32) *Function {
	fn := newFunction(vram, words)
	fn.Instrs = make([]decoder.Instruction, len(words))
	for i, w := range words {
		fn.Instrs[i] = decoder.Decode(w, category)
	}

	tracker := registers.New()
	branchesTaken := make(map[uint32]bool)

	for idx := range fn.Instrs {
		offset := uint32(idx * 4)
		instr := fn.Instrs[idx]

		var prev decoder.Instruction
		havePrev := idx > 0
		if havePrev {
			prev = fn.Instrs[idx-1]
		}

		if instr.IsHandwrittenSignal() {
			fn.LikelyHandwritten = true
		}
		if instr.Op == decoder.OpJ && instr.Target<<2 >= 0x84000000 {
			fn.LikelyHandwritten = true
		}

		prevNullifies := havePrev && (prev.IsBranchLikely() || prev.IsUnconditionalJump())

		if prevNullifies {
			target := branchTargetVram(vram, offset-4, prev)
			if !branchesTaken[target] {
				branchesTaken[target] = true
				ahead := tracker.Clone()
				if instr.Op == decoder.OpLUI {
					// the delay slot executes on the taken path, so its LUI
					// is live (not nullified) for the look-ahead.
					ahead.ProcessLui(instr, offset, false)
				}
				lookAhead(cfg, ctx, seg, fn, ahead, vram, vromBase, target)
			}
			analyzeInstruction(cfg, ctx, seg, fn, tracker, category, instr, prev, havePrev, offset, vram, vromBase, true)
			continue
		}

		analyzeInstruction(cfg, ctx, seg, fn, tracker, category, instr, prev, havePrev, offset, vram, vromBase, false)
	}

	detectCPLoad(fn)
	return fn
}

func branchTargetVram(funcVram uint32, offset uint32, instr decoder.Instruction) uint32 {
	if instr.Op == decoder.OpJ || instr.Op == decoder.OpJAL {
		return instr.Target << 2
	}
	disp := instr.SignExtendImmediate() << 2
	return uint32(int64(funcVram) + int64(offset) + 4 + int64(disp))
}

// analyzeInstruction performs the main-pass body for one instruction.
// suppressed is true for an instruction in the delay slot of a
// branch-likely or unconditional jump. The body does not read it: such
// an instruction goes through the same branch/call bookkeeping, symbol
// insertion and register updates as any other. A LUI there is still
// marked as nullified by symbolFinder, so no later LO on the
// fall-through path pairs with it.
func analyzeInstruction(cfg *config.Config, ctx *context.Context, seg *context.Segment, fn *Function, tracker *registers.Tracker, category decoder.Category, instr decoder.Instruction, prev decoder.Instruction, havePrev bool, offset, funcVram, vromBase uint32, suppressed bool) {
	if instr.IsBranch() || instr.Op == decoder.OpJ {
		target := branchTargetVram(funcVram, offset, instr)
		fn.BranchInstrOffsets[offset] = true
		fn.BranchTargetInstrOffsets[offset] = target
		fn.ReferencedVrams[target] = true
		if instr.Op == decoder.OpJ && (fn.LikelyHandwritten || category == decoder.CategoryRSP) {
			// handled as a function boundary by the section analyzer
		} else if instr.Op != decoder.OpJ {
			ctx.AddBranchLabel(seg, target)
		}
	}

	if instr.Op == decoder.OpJ || instr.Op == decoder.OpJAL {
		target := instr.Target << 2
		if instr.Op == decoder.OpJAL || target >= 0x84000000 {
			fn.FuncCallInstrOffsets[offset] = target
			fn.ReferencedVrams[target] = true
			if target < 0x84000000 {
				ctx.AddFunction(seg, target)
			}
		}
	}

	var resolvedReg uint8
	var hasResolved bool
	if instr.Op == decoder.OpJR && instr.RS != registers.RegRA {
		processJumpRegister(ctx, seg, fn, tracker, instr, offset)
	} else {
		resolvedReg, hasResolved = symbolFinder(cfg, ctx, seg, fn, tracker, instr, prev, havePrev, offset, vromBase)
	}

	if havePrev {
		tracker.UnsetRegistersAfterFuncCall(prev)
	}
	// OverwriteRegisters consults MoveRegisters itself before clobbering
	// anything, so move propagation and the overwrite pass share a
	// single call to MoveRegisters.
	tracker.OverwriteRegisters(instr, resolvedReg, hasResolved)
}

// lookAhead simulates up to lookAheadWindow instructions starting at
// target using a cloned tracker, so a LUI nullified on the fall-through
// path is still paired with its LO along the branch-taken path.
func lookAhead(cfg *config.Config, ctx *context.Context, seg *context.Segment, fn *Function, tracker *registers.Tracker, funcVram, vromBase, target uint32) {
	if target < funcVram {
		return
	}
	startIdx := int((target - funcVram) / 4)
	if startIdx < 0 || startIdx >= len(fn.Instrs) {
		return
	}

	end := startIdx + lookAheadWindow
	if end > len(fn.Instrs) {
		end = len(fn.Instrs)
	}

	for idx := startIdx; idx < end; idx++ {
		offset := uint32(idx * 4)
		instr := fn.Instrs[idx]
		var prev decoder.Instruction
		havePrev := idx > startIdx
		if havePrev {
			prev = fn.Instrs[idx-1]
		}
		analyzeInstruction(cfg, ctx, seg, fn, tracker, decoder.CategoryCPU, instr, prev, havePrev, offset, funcVram, vromBase, false)
	}
}

// processJumpRegister records a JR whose source register resolves to a
// dereferenced lo value as a jump-table dispatch.
func processJumpRegister(ctx *context.Context, seg *context.Segment, fn *Function, tracker *registers.Tracker, instr decoder.Instruction, offset uint32) {
	loOffset, value, ok := tracker.GetJrInfo(instr)
	if !ok {
		return
	}
	fn.JumpRegisterInstrOffset[offset] = value
	fn.ReferencedJumpTableOffsets[loOffset] = true
	ctx.AddJumpTable(seg, value)
}

// symbolFinder drives LUI/ORI pairing, filters out instructions that
// never form hi/lo pairs, and asks the tracker whether the remaining
// I-type instructions pair against a previously seen LUI. It returns
// the register the tracker resolved a fresh value into this
// instruction (if any), so the caller can keep OverwriteRegisters from
// immediately clobbering it.
func symbolFinder(cfg *config.Config, ctx *context.Context, seg *context.Segment, fn *Function, tracker *registers.Tracker, instr decoder.Instruction, prev decoder.Instruction, havePrev bool, offset, vromBase uint32) (resolvedReg uint8, hasResolved bool) {
	switch instr.Op {
	case decoder.OpLUI:
		prevNullifies := havePrev && (prev.IsBranchLikely() || prev.IsUnconditionalJump())
		tracker.ProcessLui(instr, offset, prevNullifies)
		return 0, false
	case decoder.OpANDI, decoder.OpXORI, decoder.OpCACHE, decoder.OpSLTI, decoder.OpSLTIU:
		// these never form hi/lo pairs
		return 0, false
	case decoder.OpORI:
		if value, paired := tracker.ProcessConstant(instr, offset); paired {
			hiOffset := tracker.LoToHi()[offset]
			fn.ConstantHiInstrOffset[hiOffset] = int32(value)
			fn.ConstantLoInstrOffset[offset] = int32(value)
			fn.HiToLowDict[hiOffset] = offset
			fn.LowToHiDict[offset] = hiOffset
			ctx.AddConstant(seg, int32(value), "")
			return instr.RT, true
		}
	}

	if !instr.HasImmediate() {
		return 0, false
	}

	hiOffset, shouldProcess := tracker.GetLuiOffsetForLo(instr, offset)
	if !shouldProcess {
		return 0, false
	}

	if instr.RS == registers.RegGP {
		processGpRelative(cfg, ctx, seg, fn, instr, offset, vromBase)
		if !instr.IsStore() {
			return instr.RT, true
		}
		return 0, false
	}

	if _, value, deref := tracker.GetJrInfo(instr); deref {
		// instr dereferences a lo value already resolved in its source
		// register: no new hi/lo pair, the value moves on to RT.
		if instr.IsStore() {
			return 0, false
		}
		tracker.ProcessLo(instr, value, offset)
		return instr.RT, true
	}

	hiReg := fn.Instrs[int(hiOffset/4)]
	hiImmediate := uint32(hiReg.Immediate) << 16
	address := hiImmediate + uint32(instr.SignExtendImmediate())

	if !passesAddressFilters(cfg, address) {
		return 0, false
	}
	if ctx.IsBanned(address) {
		return 0, false
	}

	fn.SymbolHiInstrOffset[hiOffset] = address
	fn.SymbolLoInstrOffset[offset] = address
	fn.SymbolInstrOffset[hiOffset] = address
	fn.SymbolInstrOffset[offset] = address
	fn.HiToLowDict[hiOffset] = offset
	fn.LowToHiDict[offset] = hiOffset
	fn.ReferencedVrams[address] = true

	if info, ok := ctx.RelocOverride(vromBase + offset); ok && info.Kind.IsGOT() {
		processGOTReloc(ctx, seg, fn, offset, info)
		tracker.ProcessLo(instr, address, offset)
		if !instr.IsStore() {
			return instr.RT, true
		}
		return 0, false
	}

	sym := ctx.AddSymbol(seg, address, context.KindDataType, 0, false, true)
	if width, signed, ok := instr.AccessWidth(); ok {
		sym.RecordAccess(width, signed)
		fn.PossibleSymbolTypes[address] = context.AccessType{Width: width, Signed: signed}
	}

	tracker.ProcessLo(instr, address, offset)
	if !instr.IsStore() {
		return instr.RT, true
	}
	return 0, false
}

// passesAddressFilters applies the low/high-address spurious-symbol
// filters: addresses below 0x80000000 or at/above 0xC0000000 are
// discarded as spurious unless SymbolFinderFilteredAddressesAsConstants
// or SymbolFinderFilteredAddressesAsHiLo is set. With either toggle set
// the address passes and is paired as a symbol like any other; it is
// not recorded as a constant.
func passesAddressFilters(cfg *config.Config, address uint32) bool {
	if address < 0x80000000 || address >= 0xC0000000 {
		if cfg.SymbolFinderFilteredAddressesAsConstants || cfg.SymbolFinderFilteredAddressesAsHiLo {
			return true
		}
		logger.Logf(logger.Allow, "analysis", "filtered spurious symbol address %#08x", address)
		return false
	}
	if cfg.SymbolFinderFilterLowAddresses != 0 && address < cfg.SymbolFinderFilterLowAddresses {
		return false
	}
	if cfg.SymbolFinderFilterHighAddresses != 0 && address >= cfg.SymbolFinderFilterHighAddresses && cfg.SymbolFinderFilterHighAddresses > cfg.SymbolFinderFilterLowAddresses {
		return false
	}
	return true
}

// processGpRelative resolves a $gp-based load/store either as a direct
// gp-relative access or, when GP_VALUE/PIC configuration and a GOT
// relocation are present, as a %got/%call16 access.
func processGpRelative(cfg *config.Config, ctx *context.Context, seg *context.Segment, fn *Function, instr decoder.Instruction, offset, vromBase uint32) {
	if info, ok := ctx.RelocOverride(vromBase + offset); ok {
		processGOTReloc(ctx, seg, fn, offset, info)
		return
	}

	if !cfg.PIC || cfg.GPValue == 0 {
		address := cfg.GPValue + uint32(instr.SignExtendImmediate())
		fn.SymbolGpInstrOffset[offset] = address
		fn.SymbolInstrOffset[offset] = address
		return
	}

	address := cfg.GPValue + uint32(instr.SignExtendImmediate())
	sym := ctx.AddSymbol(seg, address, context.KindDataType, 0, false, true)
	sym.IsGot = true
	sym.IsGotLocal = true
	fn.SymbolGpInstrOffset[offset] = address
	fn.SymbolInstrOffset[offset] = address
}

// processGOTReloc rewrites a discovered hi/lo/gp target using the
// relocation payload: the symbol is placed at the relocation's
// StaticVram (named after info.Symbol when set), and flagged IsGotGlobal
// for CALL16/CALL_HI16/CALL_LO16 and IsGotLocal for every other kind.
// The relocation addend is not recorded.
func processGOTReloc(ctx *context.Context, seg *context.Segment, fn *Function, offset uint32, info reloc.Info) {
	var sym *context.Symbol
	if info.Symbol != "" {
		sym = ctx.AddSymbol(seg, info.StaticVram, context.KindDataType, 0, false, true)
		sym.Name = info.Symbol
		sym.IsDefined = true
	} else {
		sym = ctx.AddSymbol(seg, info.StaticVram, context.KindDataType, 0, false, true)
	}

	sym.IsGot = true
	if info.Kind == reloc.Call16 || info.Kind == reloc.CallHi16 || info.Kind == reloc.CallLo16 {
		sym.IsGotGlobal = true
	} else {
		sym.IsGotLocal = true
	}

	fn.SymbolInstrOffset[offset] = sym.Vram
}

// detectCPLoad recognises the three-instruction GP-setup idiom `lui
// $gp, %hi(_gp_disp); addiu $gp, $gp, %lo(_gp_disp); addu $gp, $gp, $t9`
// by scanning consecutive instruction offsets.
func detectCPLoad(fn *Function) {
	for idx := 0; idx+2 < len(fn.Instrs); idx++ {
		a, b, c := fn.Instrs[idx], fn.Instrs[idx+1], fn.Instrs[idx+2]
		if a.Op != decoder.OpLUI || a.RT != registers.RegGP {
			continue
		}
		if b.Op != decoder.OpADDIU || b.RT != registers.RegGP || b.RS != registers.RegGP {
			continue
		}
		if c.Op != decoder.OpADDU || c.RD != registers.RegGP || c.RS != registers.RegGP || c.RT != registers.RegT9 {
			continue
		}
		fn.CPLoadOffsets = append(fn.CPLoadOffsets, uint32(idx*4))
	}
}
