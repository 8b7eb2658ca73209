// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package garfixture builds GAR/SSS byte fixtures for tests. It is the
// encode-direction dual of the decoder, ported from
// original_source/gar.py, and exists only to construct golden inputs
// in-process without checking binary fixtures into the repository.
// The public decoder never imports this package: spec.md's Non-goals
// explicitly exclude writing/encoding GAR or SSS files from the
// product itself.
package garfixture

import (
	"bytes"
	"encoding/binary"

	"github.com/klauspost/compress/zlib"
)

// xorShift128 mirrors the decoder's unexported generator; duplicated
// here (rather than exported from the main package) to keep the
// fixture builder fully independent of the code under test.
type xorShift128 struct {
	x, y, z, w uint32
}

func newXorShift128(x, y uint32) *xorShift128 {
	return &xorShift128{x: x, y: y, z: 521288629, w: 88675123}
}

func (p *xorShift128) next() uint32 {
	t := p.x ^ (p.x << 11)
	p.x, p.y, p.z = p.y, p.z, p.w
	p.w = p.w ^ (p.w >> 19) ^ t ^ (t >> 8)
	return p.w
}

func obfuscate(data []byte, prng *xorShift128) []byte {
	out := make([]byte, len(data))
	for i, c := range data {
		out[i] = c + byte(prng.next())
	}
	return out
}

// Member is one file to pack into a GAR container.
type Member struct {
	Filename  string
	Plaintext []byte
	Timestamp uint32
}

// BuildGAR encodes members into a complete GAR container, performing
// zlib compression, the qCompress length prefix, and PRNG obfuscation
// exactly as the device format requires (original_source/gar.py, run
// in the encode direction).
func BuildGAR(members []Member) ([]byte, error) {
	var out bytes.Buffer

	magicVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(magicVersion, 0xCABCAB<<8|0x01)
	out.Write(magicVersion)

	for _, m := range members {
		var compressed bytes.Buffer
		zw := zlib.NewWriter(&compressed)
		if _, err := zw.Write(m.Plaintext); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}

		qprefix := make([]byte, 4)
		binary.BigEndian.PutUint32(qprefix, uint32(len(m.Plaintext)))

		toObfuscate := append(append([]byte{}, qprefix...), compressed.Bytes()...)
		prng := newXorShift128(m.Timestamp, uint32(len(m.Plaintext)))
		obfuscated := obfuscate(toObfuscate, prng)

		header := make([]byte, 12)
		binary.BigEndian.PutUint16(header[0:2], 12)
		binary.BigEndian.PutUint16(header[2:4], 1)
		binary.BigEndian.PutUint32(header[4:8], m.Timestamp)
		binary.BigEndian.PutUint32(header[8:12], uint32(len(m.Plaintext)))

		payload := append(header, obfuscated...)

		filenameLen := make([]byte, 4)
		binary.BigEndian.PutUint32(filenameLen, uint32(len(m.Filename)))
		payloadLen := make([]byte, 4)
		binary.BigEndian.PutUint32(payloadLen, uint32(len(payload)))

		out.Write(filenameLen)
		out.WriteString(m.Filename)
		out.Write(payloadLen)
		out.Write(payload)
	}

	return out.Bytes(), nil
}

// Record is one SSS record to frame.
type Record struct {
	Type byte // 0x01 test, 0x55 machine_info, 0xAA end
	Body []byte

	// ChecksumDelta subtracts from the true computed checksum before
	// storing it, letting tests exercise the documented "stored one
	// low" tolerance (ChecksumDelta=1) or a genuine mismatch
	// (ChecksumDelta=2).
	ChecksumDelta uint16
}

// BuildSSS frames records into a complete SSS byte stream.
func BuildSSS(records []Record) []byte {
	var out bytes.Buffer
	for _, rec := range records {
		body := append([]byte{rec.Type}, rec.Body...)
		body = append(body, 0xFF)

		var sum uint16
		for _, b := range body {
			sum += uint16(b)
		}
		stored := sum - rec.ChecksumDelta

		out.WriteByte(0x54)
		lengthBytes := make([]byte, 2)
		binary.LittleEndian.PutUint16(lengthBytes, uint16(len(body)))
		out.Write(lengthBytes)
		checksumBytes := make([]byte, 2)
		binary.LittleEndian.PutUint16(checksumBytes, stored)
		out.Write(checksumBytes)
		out.Write([]byte{0x00, 0x00})
		out.Write(body)
	}
	return out.Bytes()
}

// FixedString pads s with trailing NULs to width n, truncating s if
// it is already longer (tests always pass strings that fit).
func FixedString(s string, n int) []byte {
	b := make([]byte, n)
	copy(b, s)
	return b
}

// Float16 packs a significand/exponent pair into the device's custom
// 16-bit little-endian encoding, mirroring the decoder's Float16.
func Float16(significand uint16, exponent uint16) []byte {
	w := (exponent&0x3)<<14 | (significand & 0x3FFF)
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, w)
	return b
}
