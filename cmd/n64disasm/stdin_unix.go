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

//go:build unix

package main

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// readStdin reads all of stdin. Piped input has no usable size hint from
// os.Stat (FIFOs report size 0), so a raw fstat is taken first purely to
// preallocate the buffer; io.Copy into that buffer drives the actual read.
func readStdin() ([]byte, error) {
	var st unix.Stat_t
	capHint := 64 * 1024
	if err := unix.Fstat(int(os.Stdin.Fd()), &st); err == nil && st.Size > 0 {
		capHint = int(st.Size)
	}

	buf := make([]byte, 0, capHint)
	w := &sliceWriter{buf: buf}
	if _, err := io.Copy(w, os.Stdin); err != nil {
		return nil, err
	}
	return w.buf, nil
}

type sliceWriter struct {
	buf []byte
}

func (w *sliceWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	return len(p), nil
}
