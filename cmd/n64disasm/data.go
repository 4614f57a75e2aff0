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

var dataVram uint32

var dataCmd = &cobra.Command{
	Use:   "data <path>",
	Short: "Partition a raw .data chunk read from path (or - for stdin) into pointer-aware symbols",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		words, err := readWords(args[0], byteOrderFor(globalCfg.Endian))
		if err != nil {
			return err
		}

		ctx := context.New(globalCfg, dataVram, dataVram+uint32(len(words)*4))
		seg := ctx.Global()

		syms := sections.AnalyzeData(ctx, seg, dataVram, words)

		w := writer.New(os.Stdout, globalCfg, ctx)
		w.SectionDirective("data")
		for _, ds := range syms {
			w.WriteData(ds)
		}
		return nil
	},
}

func init() {
	dataCmd.Flags().Var(vramFlag{&dataVram}, "vram", "starting vram of the chunk")
}
