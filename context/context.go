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

import (
	"sync"

	"github.com/n64decomp/mipsdisasm/config"
	"github.com/n64decomp/mipsdisasm/reloc"
)

// overlayKey identifies an overlay segment by its category name (e.g.
// "ovl_title") and the vrom offset it was loaded at; two overlays may
// share a category but never share (category, vromStart).
type overlayKey struct {
	category  string
	vromStart uint32
}

// Context is the top-level registry: exactly one global segment,
// zero-or-more overlay segments, a distinguished unknown segment, and
// the handful of global tables every analyzer consults.
type Context struct {
	crit sync.Mutex

	cfg *config.Config

	global  *Segment
	overlay map[overlayKey]*Segment
	unknown *Segment

	banned map[uint32]bool

	relocOverrides *reloc.Overrides

	// loPatches is the override map for manually-paired %hi/%lo
	// instructions: hi-instruction-offset to lo-instruction-offset, for
	// cases the automatic pairing heuristic gets wrong.
	loPatches map[uint32]uint32
}

// New constructs a Context with an empty global segment spanning the
// given vram range and no overlays.
func New(cfg *config.Config, globalVramStart, globalVramEnd uint32) *Context {
	c := &Context{
		cfg:            cfg,
		global:         NewSegment("global", globalVramStart, globalVramEnd),
		overlay:        make(map[overlayKey]*Segment),
		unknown:        NewSegment("unknown", 0, 0),
		banned:         make(map[uint32]bool),
		relocOverrides: reloc.NewOverrides(),
		loPatches:      make(map[uint32]uint32),
	}
	seedBannedSymbols(c)
	seedHardwareRegisters(c)
	return c
}

// AddOverlay registers a new overlay segment keyed by (category,
// vromStart). Calling this twice with the same key returns the existing
// segment rather than creating a second one.
func (c *Context) AddOverlay(category string, vramStart, vramEnd, vromStart, vromEnd uint32) *Segment {
	c.crit.Lock()
	defer c.crit.Unlock()

	key := overlayKey{category: category, vromStart: vromStart}
	if seg, ok := c.overlay[key]; ok {
		return seg
	}

	seg := NewSegment(category, vramStart, vramEnd)
	seg.SetVrom(vromStart, vromEnd)
	c.overlay[key] = seg
	return seg
}

// SetRelocOverrides installs a pre-parsed relocation override table,
// typically loaded via reloc.LoadFile by the caller before analysis
// begins.
func (c *Context) SetRelocOverrides(o *reloc.Overrides) {
	c.crit.Lock()
	defer c.crit.Unlock()
	c.relocOverrides = o
}

// RelocOverride returns the relocation override registered for a given
// in-file offset, if any.
func (c *Context) RelocOverride(offset uint32) (reloc.Info, bool) {
	c.crit.Lock()
	defer c.crit.Unlock()
	return c.relocOverrides.Get(offset)
}

// SetLoPatch manually pairs the lo-half instruction at loOffset with the
// hi-half instruction at hiOffset, overriding whatever the automatic
// register-tracking pairing would have produced.
func (c *Context) SetLoPatch(hiOffset, loOffset uint32) {
	c.crit.Lock()
	defer c.crit.Unlock()
	c.loPatches[hiOffset] = loOffset
}

// LoPatch returns the manually patched lo offset for a hi offset, if any.
func (c *Context) LoPatch(hiOffset uint32) (uint32, bool) {
	c.crit.Lock()
	defer c.crit.Unlock()
	lo, ok := c.loPatches[hiOffset]
	return lo, ok
}

// Ban marks vram as never eligible for symbol creation; used to seed
// hardware addresses and other locations that are referenced as raw
// numbers but never as symbols.
func (c *Context) Ban(vram uint32) {
	c.crit.Lock()
	defer c.crit.Unlock()
	c.banned[vram] = true
}

// IsBanned reports whether vram has been banned from symbol creation.
func (c *Context) IsBanned(vram uint32) bool {
	c.crit.Lock()
	defer c.crit.Unlock()
	return c.banned[vram]
}

// GetSegmentForVram resolves the segment that should own vram, trying
// the caller's own overlay (if supplied) and the global segment in
// that order, then every other overlay, then the unknown segment as a
// last resort. ownOverlay may be "" to skip straight to the global
// segment.
func (c *Context) GetSegmentForVram(vram uint32, ownOverlay string) *Segment {
	c.crit.Lock()
	defer c.crit.Unlock()
	return c.getSegmentForVram(vram, ownOverlay)
}

func (c *Context) getSegmentForVram(vram uint32, ownOverlay string) *Segment {
	if ownOverlay != "" {
		for key, seg := range c.overlay {
			if key.category == ownOverlay && seg.ContainsVram(vram) {
				return seg
			}
		}
	}
	if c.global.ContainsVram(vram) {
		return c.global
	}
	for key, seg := range c.overlay {
		if key.category == ownOverlay {
			continue
		}
		if seg.ContainsVram(vram) {
			return seg
		}
	}
	if !c.cfg.AllowUnkSegment {
		return nil
	}
	return c.unknown
}

// GetSegmentForVrom resolves the segment owning vrom. The containing-vrom
// test takes precedence over the containing-vram test whenever the
// caller supplies a vrom, since two overlays may share vram ranges but
// never share vrom ranges.
func (c *Context) GetSegmentForVrom(vrom uint32) *Segment {
	c.crit.Lock()
	defer c.crit.Unlock()

	if c.global.ContainsVrom(vrom) {
		return c.global
	}
	for _, seg := range c.overlay {
		if seg.ContainsVrom(vrom) {
			return seg
		}
	}
	if !c.cfg.AllowUnkSegment {
		return nil
	}
	return c.unknown
}

// Global returns the one global segment.
func (c *Context) Global() *Segment { return c.global }

// Unknown returns the distinguished unknown segment.
func (c *Context) Unknown() *Segment { return c.unknown }

// addSymbol is the shared core of AddSymbol/AddFunction/etc: find-or-
// insert plus kind promotion.
func (c *Context) addSymbol(seg *Segment, vram uint32, kind Kind, vrom uint32, hasVrom bool, autogen bool) *Symbol {
	if sym, ok := seg.exact(vram); ok {
		sym.Kind = promote(sym.Kind, kind)
		if hasVrom && !sym.HasVrom {
			sym.Vrom = vrom
			sym.HasVrom = true
		}
		return sym
	}

	sym := &Symbol{
		Vram:            vram,
		Kind:            kind,
		IsAutogenerated: autogen,
		UnknownSegment:  seg == c.unknown || !seg.HasVrom,
	}
	if hasVrom {
		sym.Vrom = vrom
		sym.HasVrom = true
	}
	seg.insert(sym)
	return sym
}

// AddSymbol inserts (or returns the existing) symbol at vram in seg,
// with the given kind hint and no addend tolerance; use GetSymbol with
// tryPlusOffset for the addend-aware lookup.
func (c *Context) AddSymbol(seg *Segment, vram uint32, kind Kind, vrom uint32, hasVrom bool, autogen bool) *Symbol {
	c.crit.Lock()
	defer c.crit.Unlock()
	return c.addSymbol(seg, vram, kind, vrom, hasVrom, autogen)
}

// AddFunction promotes (or creates) the symbol at vram to KindFunction.
func (c *Context) AddFunction(seg *Segment, vram uint32) *Symbol {
	c.crit.Lock()
	defer c.crit.Unlock()
	return c.addSymbol(seg, vram, KindFunction, 0, false, true)
}

// AddBranchLabel promotes (or creates) the symbol at vram to
// KindBranchLabel, subject to the precedence rules in promote().
func (c *Context) AddBranchLabel(seg *Segment, vram uint32) *Symbol {
	c.crit.Lock()
	defer c.crit.Unlock()
	return c.addSymbol(seg, vram, KindBranchLabel, 0, false, true)
}

// AddJumpTable promotes (or creates) the symbol at vram to KindJumpTable.
func (c *Context) AddJumpTable(seg *Segment, vram uint32) *Symbol {
	c.crit.Lock()
	defer c.crit.Unlock()
	sym := c.addSymbol(seg, vram, KindJumpTable, 0, false, true)
	sym.IsJumpTable = true
	return sym
}

// AddJumpTableLabel promotes (or creates) the symbol at vram to
// KindJumpTableLabel.
func (c *Context) AddJumpTableLabel(seg *Segment, vram uint32) *Symbol {
	c.crit.Lock()
	defer c.crit.Unlock()
	return c.addSymbol(seg, vram, KindJumpTableLabel, 0, false, true)
}

// AddGccExceptTable promotes (or creates) the symbol at vram to
// KindGccExceptTable.
func (c *Context) AddGccExceptTable(seg *Segment, vram uint32) *Symbol {
	c.crit.Lock()
	defer c.crit.Unlock()
	return c.addSymbol(seg, vram, KindGccExceptTable, 0, false, true)
}

// AddGccExceptTableLabel promotes (or creates) the symbol at vram to
// KindGccExceptTableLabel.
func (c *Context) AddGccExceptTableLabel(seg *Segment, vram uint32) *Symbol {
	c.crit.Lock()
	defer c.crit.Unlock()
	return c.addSymbol(seg, vram, KindGccExceptTableLabel, 0, false, true)
}

// GetSymbol looks up the symbol governing vram within seg. With an exact
// match it is returned outright; otherwise, when tryPlusOffset is set
// and plus-offset symbol production is enabled in configuration, the
// greatest-key-less-or-equal symbol is returned provided its declared
// size (when known and checkUpperLimit is set) still contains vram.
func (c *Context) GetSymbol(seg *Segment, vram uint32, tryPlusOffset, checkUpperLimit bool) (*Symbol, bool) {
	c.crit.Lock()
	defer c.crit.Unlock()

	if sym, ok := seg.exact(vram); ok {
		return sym, true
	}
	if !tryPlusOffset || !c.cfg.ProduceSymbolsPlusOffset {
		return nil, false
	}

	sym, ok := seg.floor(vram)
	if !ok {
		return nil, false
	}
	if checkUpperLimit && sym.HasSize {
		if vram >= sym.Vram+sym.Size {
			return nil, false
		}
	}
	return sym, true
}

// GetSymbolsRange returns every symbol in seg within [lo, hi), in address
// order.
func (c *Context) GetSymbolsRange(seg *Segment, lo, hi uint32) []*Symbol {
	c.crit.Lock()
	defer c.crit.Unlock()
	return seg.Range(lo, hi)
}

// AddConstant registers name against value in seg's constant table.
func (c *Context) AddConstant(seg *Segment, value int32, name string) {
	c.crit.Lock()
	defer c.crit.Unlock()
	seg.AddConstant(value, name)
}

// GetConstant returns the name registered for value in seg, if any.
func (c *Context) GetConstant(seg *Segment, value int32) (string, bool) {
	c.crit.Lock()
	defer c.crit.Unlock()
	return seg.GetConstant(value)
}

// AddPointerInDataReference enqueues a candidate pointer discovered
// during a data/rodata scan of seg.
func (c *Context) AddPointerInDataReference(seg *Segment, pointer uint32) {
	c.crit.Lock()
	defer c.crit.Unlock()
	seg.AddPointerInDataReference(pointer)
}

// PopPointerInDataReference removes and reports a single pending
// pointer from seg.
func (c *Context) PopPointerInDataReference(seg *Segment, pointer uint32) bool {
	c.crit.Lock()
	defer c.crit.Unlock()
	return seg.PopPointerInDataReference(pointer)
}

// GetAndPopPointerInDataReferencesRange removes and returns every
// pending pointer from seg within [lo, hi).
func (c *Context) GetAndPopPointerInDataReferencesRange(seg *Segment, lo, hi uint32) []uint32 {
	c.crit.Lock()
	defer c.crit.Unlock()
	return seg.GetAndPopPointerInDataReferencesRange(lo, hi)
}
