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

// Package registers implements the abstract interpreter that tracks the
// 32 general-purpose registers across a single function's instruction
// stream, pairing LUI/ORI-style hi/lo halves and propagating known
// values through moves, so the analysis package can resolve the
// addresses and constants a function actually references.
package registers

import "github.com/n64decomp/mipsdisasm/decoder"

// Register numbers for the registers the tracker treats specially.
const (
	RegZero = 0
	RegAT   = 1
	RegV0   = 2
	RegV1   = 3
	RegA0   = 4
	RegA3   = 7
	RegT0   = 8
	RegT9   = 25
	RegGP   = 28
	RegSP   = 29
	RegRA   = 31
)

// state is the per-register tracked value.
type state struct {
	hasHi                bool
	hiImmediate          uint32
	hiInstructionOffset  uint32
	hiSetOnBranchLikely  bool

	hasLo             bool
	loValue           uint32
	loInstructionOffset uint32
	dereferenced      bool
	dereferenceOffset uint32

	value uint32
}

// Tracker is the per-function abstract interpreter over the 32 GPRs.
type Tracker struct {
	regs [32]state

	// hiToLo/loToHi record the bijection between paired hi/lo
	// instruction offsets.
	hiToLo map[uint32]uint32
	loToHi map[uint32]uint32
}

// New returns an empty tracker, ready to process a function from its
// first instruction.
func New() *Tracker {
	return &Tracker{
		hiToLo: make(map[uint32]uint32),
		loToHi: make(map[uint32]uint32),
	}
}

// Clone returns an independent copy of the tracker's state, used by the
// per-function analyzer when it follows a branch target for look-ahead.
func (t *Tracker) Clone() *Tracker {
	c := &Tracker{
		regs:   t.regs,
		hiToLo: make(map[uint32]uint32, len(t.hiToLo)),
		loToHi: make(map[uint32]uint32, len(t.loToHi)),
	}
	for k, v := range t.hiToLo {
		c.hiToLo[k] = v
	}
	for k, v := range t.loToHi {
		c.loToHi[k] = v
	}
	return c
}

// HiToLo and LoToHi expose the pairing bijection built up by
// ProcessConstant and the hi/lo symbol pairing done in package analysis.
func (t *Tracker) HiToLo() map[uint32]uint32 { return t.hiToLo }
func (t *Tracker) LoToHi() map[uint32]uint32 { return t.loToHi }

// RecordPair registers a hi/lo instruction-offset pair in the bijection.
func (t *Tracker) RecordPair(hiOffset, loOffset uint32) {
	t.hiToLo[hiOffset] = loOffset
	t.loToHi[loOffset] = hiOffset
}

// ProcessLui clears both halves of the destination register, then sets
// hasHi. prevIsNullifyingBranch records whether the instruction
// immediately preceding this LUI was a branch-likely or unconditional
// branch, in which case the delay slot (this LUI) never actually
// executes when the branch falls through.
func (t *Tracker) ProcessLui(instr decoder.Instruction, offset uint32, prevIsNullifyingBranch bool) {
	r := &t.regs[instr.RT]
	*r = state{}
	r.hasHi = true
	r.hiImmediate = uint32(instr.Immediate) << 16
	r.hiInstructionOffset = offset
	r.hiSetOnBranchLikely = prevIsNullifyingBranch
}

// ProcessConstant handles an ORI whose source register holds a tracked
// LUI value in the same register: the full 32-bit constant is recorded
// in the destination's lo half and the hi/lo offsets are paired.
func (t *Tracker) ProcessConstant(instr decoder.Instruction, offset uint32) (value uint32, paired bool) {
	src := &t.regs[instr.RS]
	if !src.hasHi || instr.RS != instr.RT {
		return 0, false
	}

	value = src.hiImmediate | uint32(instr.Immediate)

	dst := &t.regs[instr.RT]
	dst.hasLo = true
	dst.loValue = value
	dst.loInstructionOffset = offset
	dst.value = value

	t.RecordPair(src.hiInstructionOffset, offset)
	return value, true
}

// ProcessLo marks the destination register as holding a resolved value
// and, when the instruction dereferences memory, records the
// dereference offset.
func (t *Tracker) ProcessLo(instr decoder.Instruction, value uint32, offset uint32) {
	dst := instr.RT
	if instr.IsStore() {
		// stores do not write a GPR; nothing to mark.
		return
	}

	r := &t.regs[dst]
	r.hasLo = true
	r.loValue = value
	r.loInstructionOffset = offset
	r.value = value

	if instr.IsLoad() {
		r.dereferenced = true
		r.dereferenceOffset = offset
	}
}

// MoveRegisters implements MOVE/OR-with-$zero/ADDU copy propagation: if
// exactly one source register carries tracked state, that state is
// propagated to the destination, including the `addu rd, rd, rs` idiom
// used to turn a loop index into a byte offset for array indexing. It
// reports whether it took ownership of the destination register's
// state (by copying a tracked source into it, or by keeping the
// destination's own tracked state), so OverwriteRegisters knows not to
// clobber what it just did. When the copy source is untracked it clears
// the destination and reports false.
func (t *Tracker) MoveRegisters(instr decoder.Instruction) bool {
	switch instr.Op {
	case decoder.OpOR, decoder.OpADDU, decoder.OpADD:
	default:
		return false
	}
	if instr.RT == RegZero && instr.RS == RegZero {
		return false
	}

	tracked := func(s state) bool { return s.hasHi || s.hasLo }

	switch {
	case instr.RD == instr.RS && instr.RT != instr.RS:
		// addu rd, rd, rs: array-index idiom. rd already is rs, so its
		// own tracked state (if any) is the one worth keeping; only
		// adopt rt's state when rd/rs itself is untracked and rt
		// carries something.
		if tracked(t.regs[instr.RD]) {
			return true
		}
		if rt := t.regs[instr.RT]; tracked(rt) {
			t.regs[instr.RD] = rt
			return true
		}
		return false
	case instr.RD == instr.RT && instr.RS != instr.RT:
		if tracked(t.regs[instr.RD]) {
			return true
		}
		if rs := t.regs[instr.RS]; tracked(rs) {
			t.regs[instr.RD] = rs
			return true
		}
		return false
	}

	var src uint8
	switch {
	case instr.RT == RegZero:
		src = instr.RS
	case instr.RS == RegZero:
		src = instr.RT
	default:
		return false
	}

	s := t.regs[src]
	if tracked(s) {
		t.regs[instr.RD] = s
		return true
	}
	t.regs[instr.RD] = state{}
	return false
}

// OverwriteRegisters clears the state of any register an instruction
// overwrites, except for a register MoveRegisters just took ownership
// of (checked first, same as the original tracker's "if moveRegisters
// returns true, do nothing else" short-circuit) and except for keep,
// the register symbolFinder resolved via ProcessLo/ProcessConstant this
// same instruction: its hi half still gets cleared (a stale %hi should
// never outlive the %lo that consumed it) but its freshly set lo value
// survives, since that value is the point of processing the
// instruction, not something to immediately discard. $at is treated as
// one-use scratch and cleared eagerly when consumed as a source;
// MTC1/CTC1 clear the integer register they used as a temporary.
func (t *Tracker) OverwriteRegisters(instr decoder.Instruction, keep uint8, hasKeep bool) {
	if t.MoveRegisters(instr) {
		return
	}

	if instr.Op == decoder.OpLUI {
		return
	}

	switch instr.Op {
	case decoder.OpMTC1, decoder.OpCTC1:
		t.regs[instr.RT] = state{}
		return
	}

	clear := func(reg uint8) {
		r := &t.regs[reg]
		if hasKeep && reg == keep {
			// lo was just resolved on this instruction: keep it, but a
			// stale hi pairing must not survive past the lo that
			// consumed it.
			r.hasHi = false
			r.hiImmediate = 0
			r.hiInstructionOffset = 0
			r.hiSetOnBranchLikely = false
			return
		}
		*r = state{}
	}

	if isRType(instr.Op) {
		if instr.RD != RegZero {
			clear(instr.RD)
		}
	} else if instr.HasImmediate() && !instr.IsStore() {
		if instr.RT != RegZero {
			clear(instr.RT)
		}
	}

	if instr.RS == RegAT {
		clear(RegAT)
	}
	if instr.RT == RegAT && instr.IsBranch() {
		clear(RegAT)
	}
}

func isRType(op decoder.Op) bool {
	switch op {
	case decoder.OpADD, decoder.OpADDU, decoder.OpSUB, decoder.OpSUBU,
		decoder.OpAND, decoder.OpOR, decoder.OpXOR, decoder.OpNOR,
		decoder.OpSLT, decoder.OpSLTU,
		decoder.OpSLL, decoder.OpSRL, decoder.OpSRA,
		decoder.OpSLLV, decoder.OpSRLV, decoder.OpSRAV,
		decoder.OpJALR, decoder.OpMFHI, decoder.OpMFLO:
		return true
	}
	return false
}

// callerSaved lists the registers invalidated by a function call,
// identical under O32 and N32 so a single policy applies.
var callerSaved = []uint8{RegAT, RegV0, RegV1, RegA0, 5, 6, RegA3, RegT0, 9, 10, 11, 12, 13, 14, 15, RegT9, RegRA}

// UnsetRegistersAfterFuncCall invalidates the caller-saved register set
// when the previous instruction was a linking jump (JAL/JALR).
func (t *Tracker) UnsetRegistersAfterFuncCall(prevInstr decoder.Instruction) {
	if !prevInstr.IsFuncCall() {
		return
	}
	for _, r := range callerSaved {
		t.regs[r] = state{}
	}
}

// GetLuiOffsetForLo reports whether instr's source register carries a
// usable hi value: either a non-nullified LUI, $gp itself (GP-relative
// addressing always "pairs" against the fixed $gp value), or a prior lo
// value being dereferenced further, in which case the lo state is
// propagated forward and marked dereferenced.
func (t *Tracker) GetLuiOffsetForLo(instr decoder.Instruction, offset uint32) (hiOffset uint32, shouldProcess bool) {
	src := &t.regs[instr.RS]

	if instr.RS == RegGP {
		return 0, true
	}

	if src.hasHi && !src.hiSetOnBranchLikely {
		return src.hiInstructionOffset, true
	}

	if src.hasLo {
		src.dereferenced = true
		src.dereferenceOffset = offset
		return 0, true
	}

	return 0, false
}

// GetJrInfo reports the dereferenced lo-offset and value used as a jump
// register target, when the source register of a JR holds one: it
// identifies the jump table address used at that offset.
func (t *Tracker) GetJrInfo(instr decoder.Instruction) (loOffset uint32, value uint32, ok bool) {
	r := &t.regs[instr.RS]
	if !r.hasLo || !r.dereferenced {
		return 0, 0, false
	}
	return r.loInstructionOffset, r.value, true
}
