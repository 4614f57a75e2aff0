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

// Package test contains the small set of assertion helpers used by every
// other package's test suite in this module. It exists so that test code
// reads uniformly and does not depend on testify or any other third-party
// assertion library.
package test

import (
	"math"
	"reflect"
	"testing"
)

// ExpectSuccess fails the test unless v is a "successful" value: true, a nil
// error, or any other nil or zero value.
func ExpectSuccess(t *testing.T, v interface{}) {
	t.Helper()

	switch o := v.(type) {
	case bool:
		if !o {
			t.Errorf("expected success, got false")
		}
	case error:
		if o != nil {
			t.Errorf("expected success, got error: %v", o)
		}
	default:
		if v != nil && !reflect.ValueOf(v).IsZero() {
			t.Errorf("expected success, got %v", v)
		}
	}
}

// ExpectFailure fails the test unless v is a "failing" value: false, a
// non-nil error, or any other non-nil, non-zero value.
func ExpectFailure(t *testing.T, v interface{}) {
	t.Helper()

	switch o := v.(type) {
	case bool:
		if o {
			t.Errorf("expected failure, got true")
		}
	case error:
		if o == nil {
			t.Errorf("expected failure, got nil error")
		}
	default:
		if v == nil || reflect.ValueOf(v).IsZero() {
			t.Errorf("expected failure, got %v", v)
		}
	}
}

// ExpectEquality fails the test unless a and b are equal, as determined by
// reflect.DeepEqual.
func ExpectEquality(t *testing.T, a interface{}, b interface{}) {
	t.Helper()
	if !reflect.DeepEqual(a, b) {
		t.Errorf("expected equality: %v != %v", a, b)
	}
}

// ExpectInequality fails the test if a and b are equal, as determined by
// reflect.DeepEqual.
func ExpectInequality(t *testing.T, a interface{}, b interface{}) {
	t.Helper()
	if reflect.DeepEqual(a, b) {
		t.Errorf("expected inequality: %v == %v", a, b)
	}
}

// ExpectApproximate fails the test unless a and b are within tolerance of
// one another, tolerance being a fraction of b (0.1 allows a to differ
// from b by 10% of b).
func ExpectApproximate(t *testing.T, a float64, b float64, tolerance float64) {
	t.Helper()
	if math.Abs(a-b) > math.Abs(b*tolerance) {
		t.Errorf("expected %v to be within %v of %v", a, tolerance, b)
	}
}

// Equate is an alias of ExpectEquality, kept for call sites ported from
// older test code that used the shorter name.
func Equate(t *testing.T, a interface{}, b interface{}) {
	t.Helper()
	ExpectEquality(t, a, b)
}
