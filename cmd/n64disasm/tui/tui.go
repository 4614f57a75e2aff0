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

// Package tui is the optional `-tui` inspector mode for dump-symbols: a
// two-pane terminal browser (symbol list on the left, a detail panel on
// the right) instead of a flat text dump, built on tview/tcell.
package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/n64decomp/mipsdisasm/context"
)

// Run opens the inspector over syms and blocks until the user quits
// (q or Ctrl-C). syms is expected to already be sorted by vram.
func Run(syms []*context.Symbol) error {
	app := tview.NewApplication()

	list := tview.NewList().ShowSecondaryText(false)
	list.SetBorder(true).SetTitle(fmt.Sprintf(" symbols (%d) ", len(syms)))

	detail := tview.NewTextView()
	detail.SetDynamicColors(true).SetWordWrap(true)
	detail.SetBorder(true).SetTitle(" detail ")

	for i, sym := range syms {
		label := fmt.Sprintf("%#08x  %-9s  %s", sym.Vram, sym.Kind, sym.DisplayName())
		idx := i
		list.AddItem(label, "", 0, func() {
			detail.SetText(describe(syms[idx]))
		})
	}

	list.SetChangedFunc(func(idx int, mainText, secondaryText string, shortcut rune) {
		if idx >= 0 && idx < len(syms) {
			detail.SetText(describe(syms[idx]))
		}
	})
	if len(syms) > 0 {
		detail.SetText(describe(syms[0]))
	}

	flex := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(list, 0, 2, true).
		AddItem(detail, 0, 3, false)

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Rune() == 'q' {
			app.Stop()
			return nil
		}
		return event
	})

	return app.SetRoot(flex, true).SetFocus(list).Run()
}

func describe(sym *context.Symbol) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[yellow]name[-]    %s\n", sym.DisplayName())
	fmt.Fprintf(&b, "[yellow]vram[-]    %#08x\n", sym.Vram)
	if sym.HasVrom {
		fmt.Fprintf(&b, "[yellow]vrom[-]    %#08x\n", sym.Vrom)
	}
	fmt.Fprintf(&b, "[yellow]kind[-]    %s\n", sym.Kind)
	if sym.HasSize {
		fmt.Fprintf(&b, "[yellow]size[-]    %d bytes\n", sym.Size)
	}
	fmt.Fprintf(&b, "[yellow]refs[-]    %d\n", sym.RefCount)
	if sym.IsAutogenerated {
		fmt.Fprintf(&b, "[yellow]origin[-]  autogenerated\n")
	} else if sym.IsUserDeclared {
		fmt.Fprintf(&b, "[yellow]origin[-]  user-declared\n")
	}
	if sym.IsJumpTable {
		fmt.Fprintf(&b, "[yellow]note[-]    jump table\n")
	}
	if sym.IsLateRodata {
		fmt.Fprintf(&b, "[yellow]note[-]    late rodata\n")
	}
	for at, n := range sym.AccessHistogram {
		fmt.Fprintf(&b, "[yellow]access[-]  %s x%d\n", at, n)
	}
	return b.String()
}
