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

package reloc

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/n64decomp/mipsdisasm/errs"
)

// fileEntry is the on-disk shape of a single relocation override, read
// from a YAML document binding a (relocation kind, symbol name, addend)
// triple to a text offset.
type fileEntry struct {
	Offset  uint32 `yaml:"offset"`
	Kind    string `yaml:"kind"`
	Symbol  string `yaml:"symbol"`
	Addend  int32  `yaml:"addend"`
	Section string `yaml:"section"`
	Vram    uint32 `yaml:"vram"`
}

var kindNames = map[string]Kind{
	"NONE": None, "16": R16, "32": R32, "REL32": Rel32, "26": R26,
	"HI16": Hi16, "LO16": Lo16, "GPREL16": GPRel16, "LITERAL": Literal,
	"GOT16": Got16, "PC16": PC16, "CALL16": Call16, "GPREL32": GPRel32,
	"GOT_HI16": GotHi16, "GOT_LO16": GotLo16, "CALL_HI16": CallHi16,
	"CALL_LO16": CallLo16, "CONSTANT_HI": ConstantHi, "CONSTANT_LO": ConstantLo,
}

// LoadFile reads a relocation override file and returns a populated
// Overrides table. A malformed file is a configuration error and aborts;
// the caller should not proceed to analyse the binary.
func LoadFile(path string) (*Overrides, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Errorf(errs.RelocFileError, err)
	}

	var entries []fileEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, errs.Errorf(errs.RelocFileError, err)
	}

	o := NewOverrides()
	for _, e := range entries {
		kind, ok := kindNames[e.Kind]
		if !ok {
			return nil, errs.Errorf(errs.RelocFileError, errs.Errorf("unrecognised relocation kind %q", e.Kind))
		}

		o.Set(e.Offset, Info{
			Kind:          kind,
			Symbol:        e.Symbol,
			Addend:        e.Addend,
			StaticSection: e.Section,
			StaticVram:    e.Vram,
		})
	}

	return o, nil
}
