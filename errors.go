// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package seaward

import "fmt"

// ErrorKind classifies a decode failure per the GAR/SSS error taxonomy.
type ErrorKind int

const (
	// ErrKindMagicMismatch is reported when the GAR magic or version is wrong.
	ErrKindMagicMismatch ErrorKind = iota

	// ErrKindTruncated is reported when fewer bytes remain than a
	// length-prefixed field declares.
	ErrKindTruncated

	// ErrKindHeaderInvariant is reported when the subfile header's
	// header_length or mangling_method does not match the expected
	// constant.
	ErrKindHeaderInvariant

	// ErrKindLengthMismatch is reported when the qCompress prefix
	// disagrees with the declared original_length, or the inflated
	// payload length does.
	ErrKindLengthMismatch

	// ErrKindCompression is reported when zlib inflate fails.
	ErrKindCompression

	// ErrKindEncoding is reported when a string field is not valid UTF-8.
	ErrKindEncoding

	// ErrKindFraming is reported when a record's start byte, trailing
	// sentinel, or zero padding does not match.
	ErrKindFraming

	// ErrKindChecksumMismatch is reported when a record's stored
	// checksum is neither the computed sum nor the computed sum minus
	// one.
	ErrKindChecksumMismatch

	// ErrKindUnknownVariant is reported for an unrecognized record_type
	// or physical_test_type tag.
	ErrKindUnknownVariant

	// ErrKindMissingTerminator is reported when an SSS stream does not
	// end with an "end" record.
	ErrKindMissingTerminator
)

func (k ErrorKind) String() string {
	switch k {
	case ErrKindMagicMismatch:
		return "magic mismatch"
	case ErrKindTruncated:
		return "truncated"
	case ErrKindHeaderInvariant:
		return "header invariant violation"
	case ErrKindLengthMismatch:
		return "length mismatch"
	case ErrKindCompression:
		return "compression error"
	case ErrKindEncoding:
		return "encoding error"
	case ErrKindFraming:
		return "framing error"
	case ErrKindChecksumMismatch:
		return "checksum mismatch"
	case ErrKindUnknownVariant:
		return "unknown variant"
	case ErrKindMissingTerminator:
		return "missing terminator"
	default:
		return "unknown error"
	}
}

// DecodeError is returned for every fatal decode failure. It carries
// the byte offset at which the problem was detected so a caller can
// correlate it against the original input without re-deriving the
// framing by hand.
type DecodeError struct {
	Kind   ErrorKind
	Offset int64
	Msg    string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("seaward: %s at offset %d: %s: %v", e.Kind, e.Offset, e.Msg, e.Err)
	}
	return fmt.Sprintf("seaward: %s at offset %d: %s", e.Kind, e.Offset, e.Msg)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is reports whether target is the same ErrorKind as e, so callers can
// write errors.Is(err, seaward.ErrChecksumMismatch) without caring
// about offsets.
func (e *DecodeError) Is(target error) bool {
	other, ok := target.(*DecodeError)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

func newDecodeError(kind ErrorKind, offset int64, msg string, cause error) *DecodeError {
	return &DecodeError{Kind: kind, Offset: offset, Msg: msg, Err: cause}
}

// Sentinel errors usable with errors.Is, one per ErrorKind, matching
// the spec's taxonomy of fatal conditions (§7). Only Kind is
// significant for comparison purposes.
var (
	ErrMagicMismatch     = &DecodeError{Kind: ErrKindMagicMismatch}
	ErrTruncated         = &DecodeError{Kind: ErrKindTruncated}
	ErrHeaderInvariant   = &DecodeError{Kind: ErrKindHeaderInvariant}
	ErrLengthMismatch    = &DecodeError{Kind: ErrKindLengthMismatch}
	ErrCompression       = &DecodeError{Kind: ErrKindCompression}
	ErrEncoding          = &DecodeError{Kind: ErrKindEncoding}
	ErrFraming           = &DecodeError{Kind: ErrKindFraming}
	ErrChecksumMismatch  = &DecodeError{Kind: ErrKindChecksumMismatch}
	ErrUnknownVariant    = &DecodeError{Kind: ErrKindUnknownVariant}
	ErrMissingTerminator = &DecodeError{Kind: ErrKindMissingTerminator}
)
