// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package seaward

import (
	"encoding/binary"
	"unicode/utf8"
)

// reader is a bounds-checked forward-only cursor over a byte slice. It
// plays the role the teacher's offset-checked ReadUint8/16/32/64 and
// structUnpack play in helper.go, adapted from PE's random-access
// addressing (everything keyed by an RVA or absolute file offset) to
// the sequential stream GAR and SSS actually are: every read advances
// the cursor and every error carries the cursor position at which it
// was detected, per spec.md §7.
type reader struct {
	data []byte
	pos  int64
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

func (r *reader) offset() int64 { return r.pos }

func (r *reader) remaining() int64 { return int64(len(r.data)) - r.pos }

func (r *reader) truncated(msg string) *DecodeError {
	return newDecodeError(ErrKindTruncated, r.pos, msg, nil)
}

// bytes returns the next n bytes and advances the cursor.
func (r *reader) bytes(n int, context string) ([]byte, error) {
	if n < 0 || r.remaining() < int64(n) {
		return nil, r.truncated(context)
	}
	b := r.data[r.pos : r.pos+int64(n)]
	r.pos += int64(n)
	return b, nil
}

func (r *reader) uint8(context string) (uint8, error) {
	b, err := r.bytes(1, context)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) uint16BE(context string) (uint16, error) {
	b, err := r.bytes(2, context)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *reader) uint16LE(context string) (uint16, error) {
	b, err := r.bytes(2, context)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *reader) uint32BE(context string) (uint32, error) {
	b, err := r.bytes(4, context)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *reader) uint32LE(context string) (uint32, error) {
	b, err := r.bytes(4, context)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// expectByte consumes one byte and fails with ErrKindFraming unless it
// equals want. Used for start/trailing sentinels and the handful of
// other constant bytes the format sprinkles through its records.
func (r *reader) expectByte(want byte, context string) error {
	start := r.pos
	got, err := r.uint8(context)
	if err != nil {
		return err
	}
	if got != want {
		return newDecodeError(ErrKindFraming, start, context, nil)
	}
	return nil
}

// expectZeros consumes n bytes and fails with ErrKindFraming unless
// they are all zero. Used for the invariant zero-padding regions
// spec.md marks as fixed, as distinct from the "almost always zero but
// unchecked" regions, which are read with bytes() instead.
func (r *reader) expectZeros(n int, context string) error {
	start := r.pos
	b, err := r.bytes(n, context)
	if err != nil {
		return err
	}
	for _, c := range b {
		if c != 0 {
			return newDecodeError(ErrKindFraming, start, context, nil)
		}
	}
	return nil
}

// fixedString reads n bytes, trims trailing NUL padding, and decodes
// the remainder as UTF-8. Per spec.md §4.5/§9: trim padding before
// decoding, don't stop at the first NUL without skipping the rest.
func (r *reader) fixedString(n int, context string) (string, error) {
	start := r.pos
	b, err := r.bytes(n, context)
	if err != nil {
		return "", err
	}
	trimmed := trimTrailingZeros(b)
	if !utf8.Valid(trimmed) {
		return "", newDecodeError(ErrKindEncoding, start, context, nil)
	}
	return string(trimmed), nil
}

// lengthPrefixedBytes32BE reads a u32-BE length followed by that many
// bytes. Used for the GAR filename field.
func (r *reader) lengthPrefixedBytes32BE(context string) ([]byte, error) {
	n, err := r.uint32BE(context)
	if err != nil {
		return nil, err
	}
	return r.bytes(int(n), context)
}

// lengthPrefixedBytes8 reads a u8 length followed by that many bytes.
// Used for the test_config opaque blob.
func (r *reader) lengthPrefixedBytes8(context string) ([]byte, error) {
	n, err := r.uint8(context)
	if err != nil {
		return nil, err
	}
	return r.bytes(int(n), context)
}

func trimTrailingZeros(b []byte) []byte {
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	return b[:end]
}
