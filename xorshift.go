// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package seaward

// Default tail seeds for the xorshift128 generator, as observed in
// every sampled GAR file. Only x (the truncated timestamp) and y (the
// original member length) vary per member.
const (
	xorshiftDefaultZ uint32 = 521288629
	xorshiftDefaultW uint32 = 88675123
)

// xorShift128 is Marsaglia's 128-bit xorshift PRNG, the generator used
// to derive the GAR obfuscation byte stream. Only the low 8 bits of
// each 32-bit output are ever consumed (by the obfuscator), but the
// full word is kept so the recurrence matches the reference
// implementation exactly.
type xorShift128 struct {
	x, y, z, w uint32
}

// newXorShift128 seeds the generator the way the GAR container does:
// x is the member's truncated timestamp, y is its original_length,
// and z/w take the documented defaults.
func newXorShift128(x, y uint32) *xorShift128 {
	return &xorShift128{x: x, y: y, z: xorshiftDefaultZ, w: xorshiftDefaultW}
}

// next advances the generator one step and returns the new output
// word. The recurrence is Marsaglia's standard xorshift128: the first
// output depends only on x and w, which is what lets the timestamp
// seed be verified independently of the length seed (spec.md §8,
// invariant 4).
func (p *xorShift128) next() uint32 {
	t := p.x ^ (p.x << 11)
	p.x, p.y, p.z = p.y, p.z, p.w
	p.w = p.w ^ (p.w >> 19) ^ t ^ (t >> 8)
	return p.w
}

// nextByte returns the low 8 bits of the next PRNG output, the only
// part of the stream the obfuscator uses.
func (p *xorShift128) nextByte() byte {
	return byte(p.next())
}
