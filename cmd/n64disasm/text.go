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
	"github.com/n64decomp/mipsdisasm/decoder"
	"github.com/n64decomp/mipsdisasm/sections"
	"github.com/n64decomp/mipsdisasm/writer"
)

var (
	textVram uint32
	textRSP  bool
)

var textCmd = &cobra.Command{
	Use:   "text <path>",
	Short: "Disassemble a raw .text chunk read from path (or - for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		words, err := readWords(args[0], byteOrderFor(globalCfg.Endian))
		if err != nil {
			return err
		}

		ctx := context.New(globalCfg, textVram, textVram+uint32(len(words)*4))
		seg := ctx.Global()

		category := decoder.CategoryCPU
		if textRSP {
			category = decoder.CategoryRSP
		}

		res := sections.AnalyzeText(globalCfg, ctx, seg, category, textVram, 0, words)

		w := writer.New(os.Stdout, globalCfg, ctx)
		w.SectionDirective("text")
		for _, fn := range res.Functions {
			sym, ok := ctx.GetSymbol(seg, fn.Vram, false, false)
			if !ok {
				continue
			}
			w.WriteTextFunction(fn, sym)
		}
		return nil
	},
}

func init() {
	textCmd.Flags().Var(vramFlag{&textVram}, "vram", "starting vram of the chunk")
	textCmd.Flags().BoolVar(&textRSP, "rsp", false, "decode as RSP vector-unit code rather than scalar CPU code")
}
