// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package seaward

// deobfuscate subtracts the PRNG's low byte stream from data,
// byte-for-byte, in strict left-to-right order, returning a new slice
// the same length as data. One PRNG step is consumed per byte, so
// prng's state threads across calls: two calls against the same
// *xorShift128 continue the same stream (the qCompress prefix and the
// zlib stream of one member share a single continuous stream, per
// spec.md §4.2/§9).
func deobfuscate(data []byte, prng *xorShift128) []byte {
	out := make([]byte, len(data))
	for i, c := range data {
		out[i] = c - prng.nextByte()
	}
	return out
}

// obfuscate is deobfuscate's dual, used only by this package's tests
// (internal/garfixture carries its own copy): it adds instead of
// subtracting. The
// format itself never needs an encoder (spec.md §1 non-goals), but the
// operation is its own straightforward inverse, which invariant 3 of
// spec.md §8 exercises directly.
func obfuscate(data []byte, prng *xorShift128) []byte {
	out := make([]byte, len(data))
	for i, c := range data {
		out[i] = c + prng.nextByte()
	}
	return out
}
