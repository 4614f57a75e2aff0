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

package errs_test

import (
	"fmt"
	"testing"

	"github.com/n64decomp/mipsdisasm/errs"
	"github.com/n64decomp/mipsdisasm/test"
)

const testError = "test error: %s"
const testErrorB = "test error B: %s"

func TestDuplicateErrors(t *testing.T) {
	e := errs.Errorf(testError, "foo")
	test.ExpectEquality(t, e.Error(), "test error: foo")

	// packing errors of the same type next to each other causes
	// one of them to be dropped
	f := errs.Errorf(testError, e)
	test.ExpectEquality(t, f.Error(), "test error: foo")
}

func TestIs(t *testing.T) {
	e := errs.Errorf(testError, "foo")
	test.ExpectSuccess(t, errs.Is(e, testError))

	// Has() should fail because we haven't included testErrorB anywhere in the error
	test.ExpectFailure(t, errs.Has(e, testErrorB))

	// packing errors of the same type next to each other causes
	// one of them to be dropped
	f := errs.Errorf(testErrorB, e)
	test.ExpectFailure(t, errs.Is(f, testError))
	test.ExpectSuccess(t, errs.Is(f, testErrorB))
	test.ExpectSuccess(t, errs.Has(f, testError))
	test.ExpectSuccess(t, errs.Has(f, testErrorB))

	// IsAny should return true for these errors also
	test.ExpectSuccess(t, errs.IsAny(e))
	test.ExpectSuccess(t, errs.IsAny(f))
}

func TestPlainErrors(t *testing.T) {
	// test plain errors that haven't been formatted with our errs package

	e := fmt.Errorf("plain test error")
	test.ExpectFailure(t, errs.IsAny(e))

	const testError = "test error: %s"

	test.ExpectFailure(t, errs.Has(e, testError))
}
