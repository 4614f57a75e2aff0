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

package decoder

// field extraction matches the standard MIPS word layout:
//
//	31..26  opcode
//	25..21  rs
//	20..16  rt
//	15..11  rd
//	10..6   shamt
//	5..0    funct
//	15..0   immediate
//	25..0   target (J-type)
const (
	opcodeShift = 26
	rsShift     = 21
	rtShift     = 16
	rdShift     = 11
	shamtShift  = 6

	reg5Mask = 0x1f
	op6Mask  = 0x3f
)

// Decode turns a 32-bit big-endian MIPS word into an Instruction record.
// It never fails: an encoding this package does not recognise comes back
// as Op == OpInvalid with the raw fields still populated, so the caller
// can choose to render it as a .word directive instead of losing the
// bits.
func Decode(word uint32, category Category) Instruction {
	i := Instruction{
		Word:      word,
		Category:  category,
		RS:        uint8((word >> rsShift) & reg5Mask),
		RT:        uint8((word >> rtShift) & reg5Mask),
		RD:        uint8((word >> rdShift) & reg5Mask),
		Shamt:     uint8((word >> shamtShift) & reg5Mask),
		FT:        uint8((word >> rtShift) & reg5Mask),
		FS:        uint8((word >> rdShift) & reg5Mask),
		FD:        uint8((word >> shamtShift) & reg5Mask),
		Immediate: uint16(word & 0xffff),
		Target:    word & 0x03ffffff,
		Funct:     uint8(word & op6Mask),
	}

	opcode := uint8((word >> opcodeShift) & op6Mask)

	switch opcode {
	case 0x00:
		decodeSpecial(&i)
	case 0x01:
		decodeRegimm(&i)
	case 0x02:
		i.Op = OpJ
	case 0x03:
		i.Op = OpJAL
	case 0x04:
		i.Op = OpBEQ
	case 0x05:
		i.Op = OpBNE
	case 0x06:
		i.Op = OpBLEZ
	case 0x07:
		i.Op = OpBGTZ
	case 0x08:
		i.Op = OpADDI
	case 0x09:
		i.Op = OpADDIU
	case 0x0a:
		i.Op = OpSLTI
	case 0x0b:
		i.Op = OpSLTIU
	case 0x0c:
		i.Op = OpANDI
	case 0x0d:
		i.Op = OpORI
	case 0x0e:
		i.Op = OpXORI
	case 0x0f:
		i.Op = OpLUI
	case 0x10:
		decodeCop0(&i)
	case 0x11:
		decodeCop1(&i)
	case 0x12:
		if category == CategoryRSP {
			i.Op = OpRSPVector
		}
	case 0x14:
		i.Op = OpBEQL
	case 0x15:
		i.Op = OpBNEL
	case 0x16:
		i.Op = OpBLEZL
	case 0x17:
		i.Op = OpBGTZL
	case 0x20:
		i.Op = OpLB
	case 0x21:
		i.Op = OpLH
	case 0x22:
		i.Op = OpLWL
	case 0x23:
		i.Op = OpLW
	case 0x24:
		i.Op = OpLBU
	case 0x25:
		i.Op = OpLHU
	case 0x26:
		i.Op = OpLWR
	case 0x27:
		i.Op = OpLWU
	case 0x28:
		i.Op = OpSB
	case 0x29:
		i.Op = OpSH
	case 0x2a:
		i.Op = OpSWL
	case 0x2b:
		i.Op = OpSW
	case 0x2e:
		i.Op = OpSWR
	case 0x2f:
		i.Op = OpCACHE
	case 0x30:
		i.Op = OpLL
	case 0x31:
		i.Op = OpLWC1
	case 0x37:
		i.Op = OpLD
	case 0x38:
		i.Op = OpSC
	case 0x39:
		i.Op = OpSWC1
	case 0x3d:
		i.Op = OpSDC1
	case 0x3f:
		i.Op = OpSD
	default:
		i.Op = OpInvalid
	}

	return i
}

// decodeSpecial handles opcode 0x00: R-type instructions keyed off funct.
func decodeSpecial(i *Instruction) {
	switch i.Funct {
	case 0x00:
		i.Op = OpSLL
	case 0x02:
		i.Op = OpSRL
	case 0x03:
		i.Op = OpSRA
	case 0x04:
		i.Op = OpSLLV
	case 0x06:
		i.Op = OpSRLV
	case 0x07:
		i.Op = OpSRAV
	case 0x08:
		i.Op = OpJR
	case 0x09:
		i.Op = OpJALR
	case 0x0c:
		i.Op = OpSYSCALL
	case 0x0d:
		i.Op = OpBREAK
	case 0x10:
		i.Op = OpMFHI
	case 0x11:
		i.Op = OpMTHI
	case 0x12:
		i.Op = OpMFLO
	case 0x13:
		i.Op = OpMTLO
	case 0x18:
		i.Op = OpMULT
	case 0x19:
		i.Op = OpMULTU
	case 0x1a:
		i.Op = OpDIV
	case 0x1b:
		i.Op = OpDIVU
	case 0x20:
		i.Op = OpADD
	case 0x21:
		i.Op = OpADDU
	case 0x22:
		i.Op = OpSUB
	case 0x23:
		i.Op = OpSUBU
	case 0x24:
		i.Op = OpAND
	case 0x25:
		i.Op = OpOR
	case 0x26:
		i.Op = OpXOR
	case 0x27:
		i.Op = OpNOR
	case 0x2a:
		i.Op = OpSLT
	case 0x2b:
		i.Op = OpSLTU
	default:
		i.Op = OpInvalid
	}
}

// decodeRegimm handles opcode 0x01: the bltz/bgez family keyed off rt.
func decodeRegimm(i *Instruction) {
	switch i.RT {
	case 0x00:
		i.Op = OpBLTZ
	case 0x01:
		i.Op = OpBGEZ
	case 0x02:
		i.Op = OpBLTZL
	case 0x03:
		i.Op = OpBGEZL
	case 0x10:
		i.Op = OpBLTZAL
	case 0x11:
		i.Op = OpBGEZAL
	default:
		i.Op = OpInvalid
	}
}

// decodeCop0 handles opcode 0x10: coprocessor-0 moves, identified via rs.
func decodeCop0(i *Instruction) {
	switch i.RS {
	case 0x00:
		i.Op = OpMFC0
	case 0x04:
		i.Op = OpMTC0
	default:
		i.Op = OpInvalid
	}
}

// cop1 "fmt" field values (rs position)
const (
	fmtSingle = 0x10
	fmtDouble = 0x11
	fmtWord   = 0x14
)

// decodeCop1 handles opcode 0x11: the FPU. rs selects move-vs-arithmetic
// and, for arithmetic, single vs double precision; funct (here reusing
// the bottom 6 bits, the "function" field in the cop1 arithmetic
// encoding) selects the operation; rt selects the branch-on-condition
// polarity for the bc1 family.
func decodeCop1(i *Instruction) {
	switch i.RS {
	case 0x00:
		i.Op = OpMFC1
	case 0x02:
		i.Op = OpCFC1
	case 0x04:
		i.Op = OpMTC1
	case 0x06:
		i.Op = OpCTC1
	case 0x08:
		if i.RT == 0x00 {
			i.Op = OpBC1F
		} else {
			i.Op = OpBC1T
		}
	case fmtSingle:
		decodeCop1Arith(i, true)
	case fmtDouble:
		decodeCop1Arith(i, false)
	default:
		i.Op = OpInvalid
	}
}

func decodeCop1Arith(i *Instruction, single bool) {
	switch i.Funct {
	case 0x00:
		if single {
			i.Op = OpADDS
		} else {
			i.Op = OpADDD
		}
	case 0x01:
		if single {
			i.Op = OpSUBS
		} else {
			i.Op = OpSUBD
		}
	case 0x02:
		if single {
			i.Op = OpMULS
		} else {
			i.Op = OpMULD
		}
	case 0x03:
		if single {
			i.Op = OpDIVS
		} else {
			i.Op = OpDIVD
		}
	case 0x06:
		if single {
			i.Op = OpMOVS
		} else {
			i.Op = OpMOVD
		}
	case 0x07:
		if single {
			i.Op = OpNEGS
		} else {
			i.Op = OpNEGD
		}
	case 0x05:
		if single {
			i.Op = OpABSS
		} else {
			i.Op = OpABSD
		}
	case 0x0c:
		if single {
			i.Op = OpTRUNCWS
		} else {
			i.Op = OpTRUNCWD
		}
	case 0x20:
		if single {
			i.Op = OpInvalid // cvt.s.s is a no-op encoding, unused on N64
		} else {
			i.Op = OpCVTSD
		}
	case 0x21:
		if single {
			i.Op = OpCVTDW // cvt.d.s vs cvt.d.w share funct by fmt elsewhere; kept coarse
		} else {
			i.Op = OpInvalid
		}
	case 0x24:
		if single {
			i.Op = OpCVTWS
		} else {
			i.Op = OpCVTWD
		}
	case 0x32:
		if single {
			i.Op = OpCEQS
		} else {
			i.Op = OpCEQD
		}
	case 0x3c:
		if single {
			i.Op = OpCLTS
		} else {
			i.Op = OpCLTD
		}
	case 0x3e:
		if single {
			i.Op = OpCLES
		} else {
			i.Op = OpCLED
		}
	default:
		i.Op = OpInvalid
	}
}
