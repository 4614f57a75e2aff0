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

var rodataVram uint32

var rodataCmd = &cobra.Command{
	Use:   "rodata <path>",
	Short: "Classify a raw .rodata chunk read from path (or - for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		words, err := readWords(args[0], byteOrderFor(globalCfg.EndianRodata))
		if err != nil {
			return err
		}

		ctx := context.New(globalCfg, rodataVram, rodataVram+uint32(len(words)*4))
		seg := ctx.Global()

		syms := sections.AnalyzeRodata(globalCfg, ctx, seg, rodataVram, words)

		w := writer.New(os.Stdout, globalCfg, ctx)
		w.SectionDirective("rodata")
		for _, rs := range syms {
			w.WriteRodata(rs)
		}
		return nil
	},
}

func init() {
	rodataCmd.Flags().Var(vramFlag{&rodataVram}, "vram", "starting vram of the chunk")
}
