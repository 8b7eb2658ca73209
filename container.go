// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package seaward

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/compress/zlib"
)

const (
	garMagic   = 0xCABCAB
	garVersion = 0x01

	subfileHeaderLength   = 12
	subfileManglingMethod = 1

	// DefaultMaxMemberSize bounds a single GAR member's declared
	// original_length/payload_length, guarding against a corrupt
	// length field driving an unbounded allocation. No legitimate PAT
	// export approaches this.
	DefaultMaxMemberSize uint32 = 64 << 20
)

// GarMember is one record extracted from a GAR container: an opaque
// filename paired with its fully deobfuscated, inflated contents.
// Filenames are not guaranteed unique by the format (spec.md §3).
type GarMember struct {
	Filename  string
	Plaintext []byte
}

// subfileHeader is the 12 cleartext bytes that precede every member's
// obfuscated payload (spec.md §3).
type subfileHeader struct {
	headerLength       uint16
	manglingMethod     uint16
	truncatedTimestamp uint32
	originalLength     uint32
}

// ParseGARMembers walks a GAR container and returns its members in
// file order, preserving duplicate filenames (if any) as separate
// entries. This is the ordered counterpart to ParseGAR, which
// collapses duplicates with "last write wins".
func ParseGARMembers(data []byte) ([]GarMember, error) {
	return parseGARMembers(data, DefaultMaxMemberSize)
}

// ParseGAR decodes a GAR container into a filename -> plaintext map,
// per spec.md §6. Duplicate filenames: last write wins, matching
// §4.3's documented behavior.
func ParseGAR(data []byte) (map[string][]byte, error) {
	members, err := parseGARMembers(data, DefaultMaxMemberSize)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(members))
	for _, m := range members {
		out[m.Filename] = m.Plaintext
	}
	return out, nil
}

func parseGARMembers(data []byte, maxMemberSize uint32) ([]GarMember, error) {
	r := newReader(data)

	magicAndVersion, err := r.uint32BE("GAR magic/version")
	if err != nil {
		return nil, err
	}
	magic := magicAndVersion >> 8
	version := magicAndVersion & 0xff
	if magic != garMagic || version != garVersion {
		return nil, newDecodeError(ErrKindMagicMismatch, 0,
			"expected magic 0xCABCAB version 1", nil)
	}

	var members []GarMember
	for {
		if r.remaining() < 4 {
			// No end-of-file marker; running out of record headers
			// ends the archive normally (spec.md §4.3 step 2a).
			break
		}

		filenameBytes, err := r.lengthPrefixedBytes32BE("GAR filename")
		if err != nil {
			return nil, err
		}
		if !isValidUTF8(filenameBytes) {
			return nil, newDecodeError(ErrKindEncoding, r.offset(), "GAR filename", nil)
		}
		filename := string(filenameBytes)

		payloadStart := r.offset()
		payloadLen, err := r.uint32BE("GAR payload length")
		if err != nil {
			return nil, err
		}
		if payloadLen > maxMemberSize {
			return nil, newDecodeError(ErrKindTruncated, payloadStart,
				"declared payload length exceeds the configured maximum", nil)
		}
		payload, err := r.bytes(int(payloadLen), "GAR payload")
		if err != nil {
			return nil, err
		}

		plaintext, err := decodeSubfile(payload, payloadStart, maxMemberSize)
		if err != nil {
			return nil, err
		}

		members = append(members, GarMember{Filename: filename, Plaintext: plaintext})
	}

	return members, nil
}

// decodeSubfile parses the 12-byte cleartext header, reseeds the PRNG,
// deobfuscates the remainder as one continuous stream, and inflates
// it. baseOffset is the payload's absolute offset in the container,
// used only to make returned errors' offsets meaningful.
func decodeSubfile(payload []byte, baseOffset int64, maxMemberSize uint32) ([]byte, error) {
	if len(payload) < subfileHeaderLength {
		return nil, newDecodeError(ErrKindTruncated, baseOffset, "subfile header", nil)
	}

	hr := newReader(payload[:subfileHeaderLength])
	var hdr subfileHeader
	var err error
	if hdr.headerLength, err = hr.uint16BE("header_length"); err != nil {
		return nil, err
	}
	if hdr.manglingMethod, err = hr.uint16BE("mangling_method"); err != nil {
		return nil, err
	}
	if hdr.truncatedTimestamp, err = hr.uint32BE("truncated_timestamp"); err != nil {
		return nil, err
	}
	if hdr.originalLength, err = hr.uint32BE("original_length"); err != nil {
		return nil, err
	}

	if hdr.headerLength != subfileHeaderLength {
		return nil, newDecodeError(ErrKindHeaderInvariant, baseOffset,
			"header_length must be 12", nil)
	}
	if hdr.manglingMethod != subfileManglingMethod {
		return nil, newDecodeError(ErrKindHeaderInvariant, baseOffset,
			"mangling_method must be 1", nil)
	}
	if hdr.originalLength > maxMemberSize {
		return nil, newDecodeError(ErrKindTruncated, baseOffset,
			"declared original_length exceeds the configured maximum", nil)
	}

	obfuscatedTail := payload[subfileHeaderLength:]
	prng := newXorShift128(hdr.truncatedTimestamp, hdr.originalLength)
	deobfuscated := deobfuscate(obfuscatedTail, prng)

	if len(deobfuscated) < 4 {
		return nil, newDecodeError(ErrKindTruncated, baseOffset+subfileHeaderLength,
			"qCompress prefix", nil)
	}
	qcompressReader := newReader(deobfuscated[:4])
	expectedLength, _ := qcompressReader.uint32BE("qcompress_prefix")
	if expectedLength != hdr.originalLength {
		return nil, newDecodeError(ErrKindLengthMismatch, baseOffset+subfileHeaderLength,
			"qCompress prefix does not match original_length", nil)
	}

	zlibStream := deobfuscated[4:]
	zr, err := zlib.NewReader(bytes.NewReader(zlibStream))
	if err != nil {
		return nil, newDecodeError(ErrKindCompression, baseOffset+subfileHeaderLength+4,
			"zlib header", err)
	}
	defer zr.Close()

	plaintext, err := io.ReadAll(io.LimitReader(zr, int64(maxMemberSize)+1))
	if err != nil {
		return nil, newDecodeError(ErrKindCompression, baseOffset+subfileHeaderLength+4,
			"zlib inflate", err)
	}
	if uint32(len(plaintext)) != hdr.originalLength {
		return nil, newDecodeError(ErrKindLengthMismatch, baseOffset+subfileHeaderLength+4,
			"inflated length does not match original_length", nil)
	}

	return plaintext, nil
}

// SanitizeFilename replaces path separators and spaces in a GAR
// member's filename with underscores so it can be safely written into a flat output
// directory, ported from original_source/gar.py's clean_filename. The
// core decoder never calls this itself (filenames are preserved
// exactly as framed, per spec.md §3); it exists for CLI/image-dumping
// use.
func SanitizeFilename(filename string) string {
	replacer := strings.NewReplacer("/", "_", " ", "_", "\\", "_")
	return replacer.Replace(filename)
}

func isValidUTF8(b []byte) bool {
	return utf8.Valid(b)
}
