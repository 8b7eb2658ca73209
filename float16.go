// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package seaward

import "math"

// Float16 is the device's custom packed numeric encoding: a 16-bit
// little-endian word holding a 14-bit unsigned significand in the low
// bits and a 2-bit decimal exponent in the high bits (spec.md §3).
// value = significand * 10^(-exponent).
type Float16 uint16

func (f Float16) significand() uint16 { return uint16(f) & 0x3FFF }
func (f Float16) exponent() uint16    { return (uint16(f) >> 14) & 0x3 }

// Value decodes the Float16 to a float64.
func (f Float16) Value() float64 {
	return float64(f.significand()) / math.Pow(10, float64(f.exponent()))
}

// newFloat16 packs a significand/exponent pair the way the device
// would have, used only by this package's tests, including Float16's
// own round-trip tests (spec.md §8 invariant 8). The fixture encoder
// in internal/garfixture has its own Float16 packer.
func newFloat16(significand uint16, exponent uint16) Float16 {
	return Float16((exponent&0x3)<<14 | (significand & 0x3FFF))
}

// Measurement pairs a decoded Float16 value with the unit the spec
// attaches at each physical-test call site (spec.md §3: "Units are
// attached by site").
type Measurement struct {
	Value float64 `json:"value"`
	Units string  `json:"units"`
}

func (r *reader) float16LE(context string) (Float16, error) {
	v, err := r.uint16LE(context)
	if err != nil {
		return 0, err
	}
	return Float16(v), nil
}

func (r *reader) measurement(units string, context string) (Measurement, error) {
	f, err := r.float16LE(context)
	if err != nil {
		return Measurement{}, err
	}
	return Measurement{Value: f.Value(), Units: units}, nil
}
