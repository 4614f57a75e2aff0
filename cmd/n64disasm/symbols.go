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
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/n64decomp/mipsdisasm/cmd/n64disasm/tui"
	"github.com/n64decomp/mipsdisasm/context"
	"github.com/n64decomp/mipsdisasm/elf"
)

var (
	symbolsUseTUI bool

	kindColor = map[context.Kind]*color.Color{
		context.KindFunction:            color.New(color.FgGreen, color.Bold),
		context.KindDataType:            color.New(color.FgWhite),
		context.KindConstant:            color.New(color.FgCyan),
		context.KindHardwareRegister:    color.New(color.FgMagenta),
		context.KindBranchLabel:         color.New(color.FgYellow),
		context.KindJumpTable:           color.New(color.FgBlue),
		context.KindJumpTableLabel:      color.New(color.FgBlue),
		context.KindGccExceptTable:      color.New(color.FgRed),
		context.KindGccExceptTableLabel: color.New(color.FgRed),
	}
)

var symbolsCmd = &cobra.Command{
	Use:     "dump-symbols <elf-path>",
	Short:   "List every symbol the analyzers recovered from an ELF object",
	Aliases: []string{"symbols"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		img, err := elf.FromStdlib(args[0])
		if err != nil {
			return err
		}

		a, err := analyzeImage(globalCfg, img)
		if err != nil {
			return err
		}

		syms := a.seg.All()
		sort.Slice(syms, func(i, j int) bool { return syms[i].Vram < syms[j].Vram })

		if symbolsUseTUI {
			return tui.Run(syms)
		}

		for _, sym := range syms {
			c := kindColor[sym.Kind]
			if c == nil {
				c = color.New(color.Reset)
			}
			fmt.Printf("%#08x  %-9s  %s\n", sym.Vram, c.Sprint(sym.Kind.String()), sym.DisplayName())
		}
		return nil
	},
}

func init() {
	symbolsCmd.Flags().BoolVar(&symbolsUseTUI, "tui", false, "browse the symbol table in an interactive terminal inspector")
}
