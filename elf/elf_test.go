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

package elf_test

import (
	"testing"

	"github.com/n64decomp/mipsdisasm/elf"
	"github.com/n64decomp/mipsdisasm/test"
)

func TestRelEntrySymAndType(t *testing.T) {
	r := elf.RelEntry{Info: (0x1234 << 8) | 5}
	test.ExpectEquality(t, r.Sym(), uint32(0x1234))
	test.ExpectEquality(t, r.Type(), uint32(5))
}

func TestRelaEntrySymAndType(t *testing.T) {
	r := elf.RelaEntry{Info: (0x5678 << 8) | 11, Addend: -4}
	test.ExpectEquality(t, r.Sym(), uint32(0x5678))
	test.ExpectEquality(t, r.Type(), uint32(11))
	test.ExpectEquality(t, r.Addend, int64(-4))
}

func TestFromStdlibRejectsMissingFile(t *testing.T) {
	_, err := elf.FromStdlib("/nonexistent/path/does/not/exist.elf")
	test.ExpectFailure(t, err == nil)
}
