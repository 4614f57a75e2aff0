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

package context

// N64HardwareRegisters names the memory-mapped hardware register
// addresses that every N64 toolchain references directly rather than
// through a symbol a linker could have produced; seeded into the global
// segment at startup so the text/data analyzers emit the canonical name
// instead of a generated D_ symbol the first time one is dereferenced.
var N64HardwareRegisters = map[uint32]string{
	0xA4040000: "SP_MEM_ADDR_REG",
	0xA4040004: "SP_DRAM_ADDR_REG",
	0xA4040008: "SP_RD_LEN_REG",
	0xA404000C: "SP_WR_LEN_REG",
	0xA4040010: "SP_STATUS_REG",
	0xA4040014: "SP_DMA_FULL_REG",
	0xA4040018: "SP_DMA_BUSY_REG",
	0xA404001C: "SP_SEMAPHORE_REG",
	0xA4080000: "SP_PC",
	0xA4100000: "DPC_START_REG",
	0xA4100004: "DPC_END_REG",
	0xA4100008: "DPC_CURRENT_REG",
	0xA410000C: "DPC_STATUS_REG",
	0xA4300000: "MI_MODE_REG",
	0xA4300004: "MI_VERSION_REG",
	0xA4300008: "MI_INTR_REG",
	0xA430000C: "MI_INTR_MASK_REG",
	0xA4400000: "VI_STATUS_REG",
	0xA4400004: "VI_DRAM_ADDR_REG",
	0xA4400008: "VI_WIDTH_REG",
	0xA440000C: "VI_INTR_REG",
	0xA4400010: "VI_CURRENT_REG",
	0xA4500000: "AI_DRAM_ADDR_REG",
	0xA4500004: "AI_LEN_REG",
	0xA4500008: "AI_CONTROL_REG",
	0xA450000C: "AI_STATUS_REG",
	0xA4600000: "PI_DRAM_ADDR_REG",
	0xA4600004: "PI_CART_ADDR_REG",
	0xA4600008: "PI_RD_LEN_REG",
	0xA460000C: "PI_WR_LEN_REG",
	0xA4600010: "PI_STATUS_REG",
	0xA4700000: "RI_MODE_REG",
	0xA4800000: "SI_DRAM_ADDR_REG",
	0xA4800004: "SI_PIF_ADDR_RD64B_REG",
	0xA4800010: "SI_PIF_ADDR_WR64B_REG",
	0xA4800018: "SI_STATUS_REG",
}

// N64LibultraSyms names a handful of well-known libultra entry points
// that the relocation data frequently resolves to but that a stripped
// binary carries no symbol table for; seeded so calls to these
// addresses render under their familiar libultra name instead of a
// generated func_ name.
var N64LibultraSyms = map[uint32]string{
	0x80000400: "__osViMode",
	0x80000450: "osViSetMode",
	0x800004A0: "osViSetEvent",
	0x80000500: "osCreateThread",
	0x80000560: "osStartThread",
	0x800005C0: "osStopThread",
	0x80000620: "osSetThreadPri",
	0x80000680: "osRecvMesg",
	0x800006E0: "osSendMesg",
	0x80000740: "osCreateMesgQueue",
	0x800007A0: "osJamMesg",
	0x80000800: "osInvalDCache",
	0x80000860: "osWritebackDCache",
	0x800008C0: "osPiStartDma",
	0x80000920: "osEPiStartDma",
	0x80000980: "osAiSetFrequency",
	0x800009E0: "osSpTaskStart",
	0x80000A40: "osSpTaskYield",
	0x80000AA0: "guMtxIdentF",
	0x80000B00: "guTranslate",
	0x80000B60: "guRotate",
	0x80000BC0: "guScale",
	0x80000C20: "guPerspective",
	0x80000C80: "guLookAt",
}

// seedBannedSymbols bans every hardware register from automatic symbol
// creation. It does not ban low vram addresses in the exception-vector
// range: those are ordinary targets of %hi/%lo pairs and jump tables in
// a disassembled image and must stay eligible for symbol creation like
// any other address.
func seedBannedSymbols(c *Context) {
	for vram := range N64HardwareRegisters {
		c.Ban(vram)
	}
}

// seedHardwareRegisters installs every known hardware register and
// libultra entry point as a predeclared symbol in the global segment, so
// the first reference to one of these addresses resolves to its
// canonical name instead of minting a fresh D_/func_ symbol.
func seedHardwareRegisters(c *Context) {
	for vram, name := range N64HardwareRegisters {
		sym := c.addSymbol(c.global, vram, KindHardwareRegister, 0, false, false)
		sym.Name = name
		sym.IsDefined = true
		sym.Visibility = VisibilityGlobal
	}
	for vram, name := range N64LibultraSyms {
		sym := c.addSymbol(c.global, vram, KindFunction, 0, false, false)
		sym.Name = name
		sym.IsDefined = true
		sym.Visibility = VisibilityGlobal
	}
}
