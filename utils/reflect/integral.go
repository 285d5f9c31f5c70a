/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package reflect

import (
	"errors"
	"fmt"
	"math"
	"reflect"
)

// ErrReflectNotIntegral is returned when a type is not backed by an integer.
var ErrReflectNotIntegral = errors.New("reflect: type is not integral")

// Range is the span of values an integral type can hold, clamped to int64.
type Range struct {
	// Min is the smallest representable value.
	Min int64
	// Max is the largest representable value that also fits in int64.
	Max int64
	// Bits is the width of the backing integer.
	Bits int
	// Signed reports whether the backing integer is signed.
	Signed bool
}

// IntegralRange returns the Range of t's backing integer.
func IntegralRange(t reflect.Type) (Range, error) {
	if t == nil {
		return Range{}, ErrReflectNilType
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := t.Bits()
		return Range{
			Min:    -1 << (n - 1),
			Max:    1<<(n-1) - 1,
			Bits:   n,
			Signed: true,
		}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n := t.Bits()
		hi := int64(math.MaxInt64)
		if n < 64 {
			hi = 1<<n - 1
		}
		return Range{Min: 0, Max: hi, Bits: n}, nil
	default:
		return Range{}, fmt.Errorf("%w: %s is %s", ErrReflectNotIntegral, t, t.Kind())
	}
}

// Contains reports whether v is representable.
func (r Range) Contains(v int64) bool {
	return v >= r.Min && v <= r.Max
}

// String returns the range in "[min, max]" form with the backing width.
func (r Range) String() string {
	sign := "uint"
	if r.Signed {
		sign = "int"
	}
	return fmt.Sprintf("%s%d[%d, %d]", sign, r.Bits, r.Min, r.Max)
}
