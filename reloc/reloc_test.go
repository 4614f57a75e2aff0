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

package reloc_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/n64decomp/mipsdisasm/reloc"
	"github.com/n64decomp/mipsdisasm/test"
)

func TestFromELFType(t *testing.T) {
	test.ExpectEquality(t, reloc.FromELFType(5), reloc.Hi16)
	test.ExpectEquality(t, reloc.FromELFType(6), reloc.Lo16)
	test.ExpectEquality(t, reloc.FromELFType(9), reloc.Got16)
	test.ExpectEquality(t, reloc.FromELFType(255), reloc.Unknown)
}

func TestIsGOT(t *testing.T) {
	test.ExpectSuccess(t, reloc.Got16.IsGOT())
	test.ExpectSuccess(t, reloc.CallHi16.IsGOT())
	test.ExpectFailure(t, reloc.Hi16.IsGOT())
	test.ExpectFailure(t, reloc.None.IsGOT())
}

func TestOverrides(t *testing.T) {
	o := reloc.NewOverrides()
	test.ExpectEquality(t, o.Len(), 0)

	o.Set(0x10, reloc.Info{Kind: reloc.Hi16, Symbol: "foo", Addend: 4})
	test.ExpectEquality(t, o.Len(), 1)

	got, ok := o.Get(0x10)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, got.Symbol, "foo")
	test.ExpectEquality(t, got.Addend, int32(4))

	_, ok = o.Get(0x14)
	test.ExpectFailure(t, ok)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reloc.yaml")

	const doc = `
- offset: 0x10
  kind: HI16
  symbol: gEntityTable
  addend: 0
- offset: 0x14
  kind: LO16
  symbol: gEntityTable
  addend: 0
`
	test.ExpectSuccess(t, os.WriteFile(path, []byte(doc), 0o644))

	o, err := reloc.LoadFile(path)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, o.Len(), 2)

	hi, ok := o.Get(0x10)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, hi.Kind, reloc.Hi16)
	test.ExpectEquality(t, hi.Symbol, "gEntityTable")
}

func TestLoadFileMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reloc.yaml")
	test.ExpectSuccess(t, os.WriteFile(path, []byte("not: [valid"), 0o644))

	_, err := reloc.LoadFile(path)
	test.ExpectFailure(t, err)
}
