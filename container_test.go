// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package seaward

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/dtwood/seaward-super-string-parser/internal/garfixture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseGARMembersMinimal is scenario S1 from spec.md §8: a GAR
// container with zero members still decodes to an empty member list.
func TestParseGARMembersMinimal(t *testing.T) {
	data, err := garfixture.BuildGAR(nil)
	require.NoError(t, err)

	members, err := ParseGARMembers(data)
	require.NoError(t, err)
	assert.Empty(t, members)
}

// TestParseGARBadMagic is scenario S2: a bad magic fails fast with
// ErrKindMagicMismatch at offset 0.
func TestParseGARBadMagic(t *testing.T) {
	data := []byte{0xde, 0xad, 0xbe, 0xef}

	_, err := ParseGARMembers(data)
	require.Error(t, err)

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, ErrKindMagicMismatch, decodeErr.Kind)
	assert.Equal(t, int64(0), decodeErr.Offset)
	assert.True(t, errors.Is(err, ErrMagicMismatch))
}

// TestParseGARSingleMember is scenario S3: a single small member
// round-trips through compression and obfuscation correctly.
func TestParseGARSingleMember(t *testing.T) {
	plaintext := []byte("hello seaward")
	data, err := garfixture.BuildGAR([]garfixture.Member{
		{Filename: "SSSRecord.bin", Plaintext: plaintext, Timestamp: 1700000000},
	})
	require.NoError(t, err)

	members, err := ParseGARMembers(data)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "SSSRecord.bin", members[0].Filename)
	assert.Equal(t, plaintext, members[0].Plaintext)
}

func TestParseGARDuplicateFilenamesLastWriteWins(t *testing.T) {
	data, err := garfixture.BuildGAR([]garfixture.Member{
		{Filename: "dup.bin", Plaintext: []byte("first"), Timestamp: 1},
		{Filename: "dup.bin", Plaintext: []byte("second"), Timestamp: 2},
	})
	require.NoError(t, err)

	members, err := ParseGAR(data)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), members["dup.bin"])
}

func TestParseGARMembersPreservesDuplicatesInOrder(t *testing.T) {
	data, err := garfixture.BuildGAR([]garfixture.Member{
		{Filename: "dup.bin", Plaintext: []byte("first"), Timestamp: 1},
		{Filename: "dup.bin", Plaintext: []byte("second"), Timestamp: 2},
	})
	require.NoError(t, err)

	members, err := ParseGARMembers(data)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, []byte("first"), members[0].Plaintext)
	assert.Equal(t, []byte("second"), members[1].Plaintext)
}

func TestParseGARTruncatedPayloadIsTruncatedError(t *testing.T) {
	data, err := garfixture.BuildGAR([]garfixture.Member{
		{Filename: "a.bin", Plaintext: []byte("payload"), Timestamp: 5},
	})
	require.NoError(t, err)

	_, err = ParseGARMembers(data[:len(data)-3])
	require.Error(t, err)
	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, ErrKindTruncated, decodeErr.Kind)
}

func TestParseGARRejectsOversizedMember(t *testing.T) {
	data, err := garfixture.BuildGAR([]garfixture.Member{
		{Filename: "a.bin", Plaintext: []byte("small"), Timestamp: 1},
	})
	require.NoError(t, err)

	_, err = parseGARMembers(data, 1)
	require.Error(t, err)
	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, ErrKindTruncated, decodeErr.Kind)
}

func TestParseGARBadHeaderInvariant(t *testing.T) {
	data, err := garfixture.BuildGAR([]garfixture.Member{
		{Filename: "a.bin", Plaintext: []byte("hello"), Timestamp: 1},
	})
	require.NoError(t, err)

	// Flip the mangling_method field (bytes 2:4 of the subfile header,
	// which begins right after the 4-byte payload length that follows
	// the 4-byte filename length and filename).
	headerStart := 4 + 4 + len("a.bin") + 4
	binary.BigEndian.PutUint16(data[headerStart+2:headerStart+4], 2)

	_, err = ParseGARMembers(data)
	require.Error(t, err)
	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, ErrKindHeaderInvariant, decodeErr.Kind)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a_b_c_d", SanitizeFilename("a/b c\\d"))
}
