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

package decoder_test

import (
	"testing"

	"github.com/n64decomp/mipsdisasm/decoder"
	"github.com/n64decomp/mipsdisasm/test"
)

func TestDecodeLUI(t *testing.T) {
	// lui $gp, 0x8010
	i := decoder.Decode(0x3c1c8010, decoder.CategoryCPU)
	test.ExpectEquality(t, i.Op, decoder.OpLUI)
	test.ExpectEquality(t, i.RT, uint8(28))
	test.ExpectEquality(t, i.Immediate, uint16(0x8010))
}

func TestDecodeORI(t *testing.T) {
	// ori $gp, $gp, 0x8000
	i := decoder.Decode(0x379c8000, decoder.CategoryCPU)
	test.ExpectEquality(t, i.Op, decoder.OpORI)
	test.ExpectEquality(t, i.RS, uint8(28))
	test.ExpectEquality(t, i.RT, uint8(28))
}

func TestDecodeADDU(t *testing.T) {
	// addu $v0, $v1, $a0 -> 0000 0000 0110 0100 0001 0000 0010 0001
	word := uint32(0x00641021)
	i := decoder.Decode(word, decoder.CategoryCPU)
	test.ExpectEquality(t, i.Op, decoder.OpADDU)
	test.ExpectEquality(t, i.RS, uint8(3))
	test.ExpectEquality(t, i.RT, uint8(4))
	test.ExpectEquality(t, i.RD, uint8(2))
}

func TestDecodeJAL(t *testing.T) {
	// jal 0x80001000 -> target field = (0x80001000 >> 2) & 0x03ffffff
	target := uint32(0x80001000) >> 2 & 0x03ffffff
	word := (uint32(0x03) << 26) | target
	i := decoder.Decode(word, decoder.CategoryCPU)
	test.ExpectEquality(t, i.Op, decoder.OpJAL)
	test.ExpectSuccess(t, i.IsFuncCall())
}

func TestDecodeBranches(t *testing.T) {
	i := decoder.Decode(0x14400001, decoder.CategoryCPU) // bne $v0, $zero, +1
	test.ExpectEquality(t, i.Op, decoder.OpBNE)
	test.ExpectSuccess(t, i.IsBranch())
	test.ExpectFailure(t, i.IsBranchLikely())

	i = decoder.Decode(0x54400001, decoder.CategoryCPU) // bnel
	test.ExpectEquality(t, i.Op, decoder.OpBNEL)
	test.ExpectSuccess(t, i.IsBranchLikely())
}

func TestDecodeLoadStoreWidths(t *testing.T) {
	i := decoder.Decode(uint32(0x23)<<26, decoder.CategoryCPU) // lw
	width, signed, ok := i.AccessWidth()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, width, 4)
	test.ExpectSuccess(t, signed)
	test.ExpectSuccess(t, i.IsLoad())
}

func TestDecodeUnknown(t *testing.T) {
	i := decoder.Decode(uint32(0x3a)<<26, decoder.CategoryCPU)
	test.ExpectEquality(t, i.Op, decoder.OpInvalid)
}

func TestDecodeMFC0IsHandwritten(t *testing.T) {
	i := decoder.Decode(uint32(0x10)<<26, decoder.CategoryCPU)
	test.ExpectEquality(t, i.Op, decoder.OpMFC0)
	test.ExpectSuccess(t, i.IsHandwrittenSignal())
}

func TestDecodeRSPVector(t *testing.T) {
	i := decoder.Decode(uint32(0x12)<<26, decoder.CategoryRSP)
	test.ExpectEquality(t, i.Op, decoder.OpRSPVector)

	// the same word under CategoryCPU is not a recognised cop2 opcode here
	i = decoder.Decode(uint32(0x12)<<26, decoder.CategoryCPU)
	test.ExpectEquality(t, i.Op, decoder.OpInvalid)
}

func TestSignExtendImmediate(t *testing.T) {
	i := decoder.Decode(0x3c1cffff&0x0000ffff|uint32(0x09)<<26, decoder.CategoryCPU)
	test.ExpectEquality(t, i.SignExtendImmediate(), int32(-1))
}
