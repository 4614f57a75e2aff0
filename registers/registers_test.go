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

package registers_test

import (
	"testing"

	"github.com/n64decomp/mipsdisasm/decoder"
	"github.com/n64decomp/mipsdisasm/registers"
	"github.com/n64decomp/mipsdisasm/test"
)

func TestLuiOriPairing(t *testing.T) {
	tr := registers.New()

	lui := decoder.Decode(0x3c028000, decoder.CategoryCPU) // lui $v0, 0x8000
	tr.ProcessLui(lui, 0x00, false)

	ori := decoder.Decode(0x34421234, decoder.CategoryCPU) // ori $v0, $v0, 0x1234
	value, paired := tr.ProcessConstant(ori, 0x04)
	test.ExpectSuccess(t, paired)
	test.ExpectEquality(t, value, uint32(0x80001234))
	test.ExpectEquality(t, tr.HiToLo()[0x00], uint32(0x04))
	test.ExpectEquality(t, tr.LoToHi()[0x04], uint32(0x00))
}

func TestLuiNullifiedByPrecedingBranchLikely(t *testing.T) {
	tr := registers.New()
	lui := decoder.Decode(0x3c028000, decoder.CategoryCPU)
	tr.ProcessLui(lui, 0x00, true)

	addiu := decoder.Decode(0x24421234, decoder.CategoryCPU) // addiu $v0, $v0, 0x1234
	_, should := tr.GetLuiOffsetForLo(addiu, 0x04)
	test.ExpectFailure(t, should)
}

func TestGpRelativeAlwaysProcessed(t *testing.T) {
	tr := registers.New()
	// lw $v0, -0x10($gp)
	lw := decoder.Decode(0x8f82fff0, decoder.CategoryCPU)
	_, should := tr.GetLuiOffsetForLo(lw, 0x00)
	test.ExpectSuccess(t, should)
}

func TestUnsetRegistersAfterFuncCall(t *testing.T) {
	tr := registers.New()
	lui := decoder.Decode(0x3c028000, decoder.CategoryCPU)
	tr.ProcessLui(lui, 0x00, false)

	jal := decoder.Decode(uint32(0x03)<<26, decoder.CategoryCPU)
	tr.UnsetRegistersAfterFuncCall(jal)

	addiu := decoder.Decode(0x24421234, decoder.CategoryCPU)
	_, should := tr.GetLuiOffsetForLo(addiu, 0x08)
	test.ExpectFailure(t, should)
}

func TestClone(t *testing.T) {
	tr := registers.New()
	lui := decoder.Decode(0x3c028000, decoder.CategoryCPU)
	tr.ProcessLui(lui, 0x00, false)

	clone := tr.Clone()
	addiu := decoder.Decode(0x24421234, decoder.CategoryCPU)
	_, should := clone.GetLuiOffsetForLo(addiu, 0x04)
	test.ExpectSuccess(t, should)
}

// move $a0, $v0 (or $a0, $v0, $zero) must not lose the value it just
// copied: OverwriteRegisters runs immediately after and must recognise
// that MoveRegisters already took ownership of $a0.
func TestOverwriteRegistersPreservesMove(t *testing.T) {
	tr := registers.New()
	lw := decoder.Decode(0x8f82fff0, decoder.CategoryCPU) // lw $v0, -0x10($gp)
	tr.ProcessLo(lw, 0x80010000, 0x00)

	move := decoder.Decode(uint32(0x00)<<26|uint32(registers.RegV0)<<21|uint32(registers.RegZero)<<16|uint32(registers.RegA0)<<11|0x25, decoder.CategoryCPU) // or $a0, $v0, $zero
	tr.OverwriteRegisters(move, 0, false)

	jr := decoder.Decode(uint32(0x08)|uint32(registers.RegA0)<<21, decoder.CategoryCPU) // jr $a0
	_, value, ok := tr.GetJrInfo(jr)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, value, uint32(0x80010000))
}

// addu $v0, $v0, $v1: the array-index idiom. $v0 keeps its own
// lo value through the addu so a following `lw $v0,
// 0($v0)` / `jr $v0` still resolves as a jump-table dispatch.
func TestOverwriteRegistersPreservesArrayIndexIdiom(t *testing.T) {
	tr := registers.New()
	addiu := decoder.Decode(0x24420100, decoder.CategoryCPU) // addiu $v0, $v0, 0x0100 -> jtbl at 0x80000100
	tr.ProcessLo(addiu, 0x80000100, 0x04)

	addu := decoder.Decode(uint32(0x00)<<26|uint32(registers.RegV0)<<21|uint32(registers.RegV1)<<16|uint32(registers.RegV0)<<11|0x21, decoder.CategoryCPU) // addu $v0, $v0, $v1
	tr.OverwriteRegisters(addu, 0, false)

	_, _, ok := tr.GetJrInfo(decoder.Decode(uint32(0x08)|uint32(registers.RegV0)<<21, decoder.CategoryCPU))
	test.ExpectFailure(t, ok) // addu does not mark a fresh dereference by itself

	dereferenced := decoder.Decode(0x8c420000, decoder.CategoryCPU) // lw $v0, 0($v0)
	tr.ProcessLo(dereferenced, 0x80000100, 0x08)

	jr := decoder.Decode(uint32(0x08)|uint32(registers.RegV0)<<21, decoder.CategoryCPU)
	_, value, ok := tr.GetJrInfo(jr)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, value, uint32(0x80000100))
}

func TestGetJrInfo(t *testing.T) {
	tr := registers.New()
	lw := decoder.Decode(0x8f82fff0, decoder.CategoryCPU) // lw $v0, -0x10($gp)
	tr.ProcessLo(lw, 0x80010000, 0x00)

	jr := decoder.Decode(uint32(0x08)|uint32(0x02)<<21, decoder.CategoryCPU) // jr $v0
	_, value, ok := tr.GetJrInfo(jr)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, value, uint32(0x80010000))
}
