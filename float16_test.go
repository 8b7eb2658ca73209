// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package seaward

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestFloat16RoundTrip is invariant 8 from spec.md §8: packing a
// significand/exponent pair and decoding it again recovers the exact
// value for every exponent 0-3.
func TestFloat16RoundTrip(t *testing.T) {
	cases := []struct {
		significand uint16
		exponent    uint16
		want        float64
	}{
		{significand: 1234, exponent: 0, want: 1234},
		{significand: 1234, exponent: 1, want: 123.4},
		{significand: 1234, exponent: 2, want: 12.34},
		{significand: 1234, exponent: 3, want: 1.234},
		{significand: 0, exponent: 0, want: 0},
		{significand: 0x3FFF, exponent: 3, want: 16383.0 / 1000},
	}

	for _, c := range cases {
		f := newFloat16(c.significand, c.exponent)
		assert.InDelta(t, c.want, f.Value(), 1e-9)
		assert.Equal(t, c.significand, f.significand())
		assert.Equal(t, c.exponent, f.exponent())
	}
}

func TestFloat16ExponentConfinedToTwoBits(t *testing.T) {
	f := newFloat16(1, 7) // exponent overflows into bits the format doesn't reserve for it
	assert.Equal(t, uint16(3), f.exponent())
}

func TestReaderMeasurementAttachesUnits(t *testing.T) {
	data := garfixtureFloat16(500, 1)
	r := newReader(data)
	m, err := r.measurement("volt", "voltage")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, "volt", m.Units)
	assert.InDelta(t, 50.0, m.Value, 1e-9)
}

func garfixtureFloat16(significand, exponent uint16) []byte {
	f := newFloat16(significand, exponent)
	return []byte{byte(f), byte(f >> 8)}
}
