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

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/n64decomp/mipsdisasm/context"
	"github.com/n64decomp/mipsdisasm/sections"
	"github.com/n64decomp/mipsdisasm/writer"
)

var (
	bssVram uint32
	bssSize uint32
)

var bssCmd = &cobra.Command{
	Use:   "bss",
	Short: "Emit the bss symbol(s) covering a vram range of a given size",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.New(globalCfg, bssVram, bssVram+bssSize)
		seg := ctx.Global()

		syms := sections.AnalyzeBss(ctx, seg, bssVram, bssSize)

		w := writer.New(os.Stdout, globalCfg, ctx)
		w.SectionDirective("bss")
		for _, sym := range syms {
			w.WriteBss(sym)
		}
		return nil
	},
}

func init() {
	bssCmd.Flags().Var(vramFlag{&bssVram}, "vram", "starting vram of the bss range")
	bssCmd.Flags().Var(vramFlag{&bssSize}, "size", "size in bytes of the bss range")
}
