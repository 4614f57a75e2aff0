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
	"os"

	"github.com/spf13/cobra"

	"github.com/n64decomp/mipsdisasm/config"
	"github.com/n64decomp/mipsdisasm/context"
	"github.com/n64decomp/mipsdisasm/decoder"
	"github.com/n64decomp/mipsdisasm/elf"
	"github.com/n64decomp/mipsdisasm/errs"
	"github.com/n64decomp/mipsdisasm/migration"
	"github.com/n64decomp/mipsdisasm/registers"
	"github.com/n64decomp/mipsdisasm/sections"
	"github.com/n64decomp/mipsdisasm/writer"
)

var elfOut string

var elfCmd = &cobra.Command{
	Use:   "elf <path>",
	Short: "Disassemble a complete MIPS ELF object: text, rodata, data and bss together",
	Long: `elf is the composition root: it runs the section analyzers in the
order text, rodata, data, bss, pairs rodata into the functions that
solely reference it, and writes a single assembly listing covering the
whole object.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		img, err := elf.FromStdlib(args[0])
		if err != nil {
			return err
		}
		return runElf(cmd, img)
	},
}

func init() {
	elfCmd.Flags().StringVarP(&elfOut, "out", "o", "-", "output path, or - for stdout")
}

type namedSection struct {
	hdr  elf.SectionHeader
	data []byte
}

func findSection(img elf.Image, name string) (*namedSection, error) {
	for _, hdr := range img.Sections() {
		if hdr.Name != name {
			continue
		}
		data, err := img.SectionData(name)
		if err != nil {
			return nil, err
		}
		return &namedSection{hdr: hdr, data: data}, nil
	}
	return nil, nil
}

func wordsOf(data []byte, order func([]byte) uint32) []uint32 {
	n := len(data) / 4
	out := make([]uint32, n)
	for i := 0; i < n; i++ {
		out[i] = order(data[i*4 : i*4+4])
	}
	return out
}

// elfAnalysis is the outcome of running the four section analyzers over
// one ELF object's text/rodata/data/bss sections, in dependency order.
type elfAnalysis struct {
	ctx           *context.Context
	seg           *context.Segment
	textResult    *sections.TextResult
	rodataSymbols []sections.RodataSymbol
	dataSymbols   []sections.DataSymbol
	bssSymbols    []*context.Symbol
}

// analyzeImage loads an ELF object's text/rodata/data/bss sections and
// runs the section analyzers over each, building a Context spanning
// their combined vram range. Both the `elf` and `dump-symbols` commands
// share this: the former also runs migration and writes assembly, the
// latter only inspects the resulting symbol table.
func analyzeImage(cfg *config.Config, img elf.Image) (*elfAnalysis, error) {
	order := img.ByteOrder().Uint32

	text, err := findSection(img, ".text")
	if err != nil {
		return nil, errs.Errorf(errs.ELFParseError, err)
	}
	rodata, err := findSection(img, ".rodata")
	if err != nil {
		return nil, errs.Errorf(errs.ELFParseError, err)
	}
	data, err := findSection(img, ".data")
	if err != nil {
		return nil, errs.Errorf(errs.ELFParseError, err)
	}
	bss, err := findSection(img, ".bss")
	if err != nil {
		return nil, errs.Errorf(errs.ELFParseError, err)
	}

	var globalStart, globalEnd uint32
	haveRange := false
	for _, s := range []*namedSection{text, rodata, data, bss} {
		if s == nil {
			continue
		}
		start := uint32(s.hdr.Addr)
		end := start + uint32(s.hdr.Size)
		if !haveRange || start < globalStart {
			globalStart = start
		}
		if end > globalEnd {
			globalEnd = end
		}
		haveRange = true
	}
	if !haveRange {
		return nil, errs.Errorf(errs.ELFParseError, "no text, rodata, data or bss section found")
	}

	ctx := context.New(cfg, globalStart, globalEnd)
	seg := ctx.Global()

	if reg, ok, err := img.RegInfo(); err == nil && ok {
		cfg.GPValue = uint32(reg.GPValue)
		cfg.PIC = true
	}

	a := &elfAnalysis{ctx: ctx, seg: seg, textResult: &sections.TextResult{}}

	if text != nil {
		words := wordsOf(text.data, order)
		a.textResult = sections.AnalyzeText(cfg, ctx, seg, decoder.CategoryCPU, uint32(text.hdr.Addr), uint32(text.hdr.Offset), words)
	}
	if rodata != nil {
		words := wordsOf(rodata.data, order)
		a.rodataSymbols = sections.AnalyzeRodata(cfg, ctx, seg, uint32(rodata.hdr.Addr), words)
	}
	if data != nil {
		words := wordsOf(data.data, order)
		a.dataSymbols = sections.AnalyzeData(ctx, seg, uint32(data.hdr.Addr), words)
	}
	if bss != nil {
		a.bssSymbols = sections.AnalyzeBss(ctx, seg, uint32(bss.hdr.Addr), uint32(bss.hdr.Size))
	}

	return a, nil
}

func runElf(cmd *cobra.Command, img elf.Image) error {
	cfg := globalCfg

	a, err := analyzeImage(cfg, img)
	if err != nil {
		return err
	}
	ctx, seg := a.ctx, a.seg
	textResult, rodataSymbols, dataSymbols, bssSymbols := a.textResult, a.rodataSymbols, a.dataSymbols, a.bssSymbols

	plan := migration.Migrate(textResult.Functions, rodataSymbols)

	out := os.Stdout
	if elfOut != "-" {
		f, err := os.Create(elfOut)
		if err != nil {
			return errs.Errorf(errs.DisassemblyError, err)
		}
		defer f.Close()
		out = f
	}

	w := writer.New(out, cfg, ctx)

	w.SectionDirective("text")
	for _, fn := range textResult.Functions {
		sym, ok := ctx.GetSymbol(seg, fn.Vram, false, false)
		if !ok {
			continue
		}
		if n, has := plan.LateRodataAlignment[fn.Vram]; has {
			w.WriteLateRodataAlignment(n)
		}
		for _, rs := range plan.FunctionRodata[fn.Vram] {
			w.WriteRodata(rs)
		}
		if len(fn.CPLoadOffsets) > 0 {
			w.WriteCPLoad(registers.RegGP)
		}
		w.WriteTextFunction(fn, sym)
	}

	if len(plan.Standalone) > 0 {
		w.SectionDirective("rodata")
		for _, rs := range plan.Standalone {
			w.WriteRodata(rs)
		}
	}

	if len(dataSymbols) > 0 {
		w.SectionDirective("data")
		for _, ds := range dataSymbols {
			w.WriteData(ds)
		}
	}

	if len(bssSymbols) > 0 {
		w.SectionDirective("bss")
		for _, sym := range bssSymbols {
			w.WriteBss(sym)
		}
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "disassembled %d function(s), %d rodata symbol(s) (%d migrated), %d data symbol(s), %d bss symbol(s)\n",
		len(textResult.Functions), len(rodataSymbols), len(rodataSymbols)-len(plan.Standalone), len(dataSymbols), len(bssSymbols))

	return nil
}
