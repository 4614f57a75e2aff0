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
	"encoding/binary"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/n64decomp/mipsdisasm/config"
	"github.com/n64decomp/mipsdisasm/errs"
	"github.com/n64decomp/mipsdisasm/logger"
)

// vramFlag binds a --vram style flag to a uint32, accepting either a
// plain decimal value or a 0x-prefixed hex address.
type vramFlag struct{ dst *uint32 }

func (f vramFlag) String() string {
	if f.dst == nil {
		return "0x0"
	}
	return fmt.Sprintf("%#08x", *f.dst)
}

func (f vramFlag) Set(s string) error {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return errs.Errorf(errs.ConfigError, fmt.Sprintf("invalid vram %q: %v", s, err))
	}
	*f.dst = uint32(v)
	return nil
}

func (f vramFlag) Type() string { return "vram" }

var (
	cfgPath   string
	globalCfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "n64disasm",
	Short: "Recover labelled MIPS assembly listings from N64-era binaries",
	Long: `n64disasm turns a raw N64 binary or ELF object back into a labelled,
section-aware GAS assembly listing: function boundaries, data/rodata/bss
symbols, jump tables, and %hi/%lo relocation pairs, following the same
passes a human decompiler would apply by hand.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		globalCfg = cfg
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "preferences file (key=value, viper-backed); absent file falls back to defaults")

	rootCmd.AddCommand(textCmd, rodataCmd, dataCmd, bssCmd, elfCmd, symbolsCmd)
}

// byteOrderFor returns the binary.ByteOrder the Endian toggle selects.
func byteOrderFor(e config.Endian) binary.ByteOrder {
	if e == config.LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// readWords loads raw bytes and unpacks them into 32-bit words using the
// given byte order, logging (not failing) a trailing partial word the
// same way the analysis drivers log other recoverable inference gaps.
func readWords(path string, order binary.ByteOrder) ([]uint32, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, errs.Errorf(errs.DisassemblyError, err)
	}

	n := len(data) / 4
	if len(data)%4 != 0 {
		logger.Logf(logger.Allow, "n64disasm", "%s: %d trailing byte(s) discarded, not a whole word", path, len(data)%4)
	}

	words := make([]uint32, n)
	for i := 0; i < n; i++ {
		words[i] = order.Uint32(data[i*4 : i*4+4])
	}
	return words, nil
}

// readFile reads path, or stdin when path is "-".
func readFile(path string) ([]byte, error) {
	if path == "-" {
		return readStdin()
	}
	return os.ReadFile(path)
}
