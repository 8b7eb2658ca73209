// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package seaward

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderPrimitives(t *testing.T) {
	r := newReader([]byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07})

	b16BE, err := r.uint16BE("x")
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0001), b16BE)

	b16LE, err := r.uint16LE("x")
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0302), b16LE)

	b32BE, err := r.uint32BE("x")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x04050607), b32BE)

	assert.Equal(t, int64(8), r.offset())
	assert.Equal(t, int64(0), r.remaining())
}

func TestReaderTruncated(t *testing.T) {
	r := newReader([]byte{0x01})
	_, err := r.uint32BE("too short")
	require.Error(t, err)

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, ErrKindTruncated, decodeErr.Kind)
	assert.Equal(t, int64(0), decodeErr.Offset)
}

func TestReaderExpectByte(t *testing.T) {
	r := newReader([]byte{0x54})
	require.NoError(t, r.expectByte(0x54, "start byte"))

	r2 := newReader([]byte{0x55})
	err := r2.expectByte(0x54, "start byte")
	require.Error(t, err)
	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, ErrKindFraming, decodeErr.Kind)
}

func TestReaderExpectZeros(t *testing.T) {
	require.NoError(t, newReader([]byte{0, 0}).expectZeros(2, "pad"))

	err := newReader([]byte{0, 1}).expectZeros(2, "pad")
	require.Error(t, err)
	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, ErrKindFraming, decodeErr.Kind)
}

func TestReaderFixedStringTrimsTrailingZeros(t *testing.T) {
	r := newReader([]byte{'h', 'i', 0, 0, 0})
	s, err := r.fixedString(5, "name")
	require.NoError(t, err)
	assert.Equal(t, "hi", s)
}

func TestReaderFixedStringRejectsInvalidUTF8(t *testing.T) {
	r := newReader([]byte{0xff, 0xfe, 0, 0})
	_, err := r.fixedString(4, "name")
	require.Error(t, err)
	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, ErrKindEncoding, decodeErr.Kind)
}

func TestReaderLengthPrefixedBytes32BE(t *testing.T) {
	r := newReader([]byte{0, 0, 0, 3, 'a', 'b', 'c', 'X'})
	b, err := r.lengthPrefixedBytes32BE("field")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), b)
	assert.Equal(t, int64(7), r.offset())
}

func TestReaderLengthPrefixedBytes8(t *testing.T) {
	r := newReader([]byte{2, 'h', 'i'})
	b, err := r.lengthPrefixedBytes8("field")
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), b)
}

func TestTrimTrailingZeros(t *testing.T) {
	assert.Equal(t, []byte("abc"), trimTrailingZeros([]byte("abc\x00\x00")))
	assert.Equal(t, []byte{}, trimTrailingZeros([]byte{0, 0, 0}))
	assert.Equal(t, []byte("abc"), trimTrailingZeros([]byte("abc")))
}
