// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package seaward

const (
	sssRecordStart   = 0x54
	sssRecordEnd     = 0xFF
	sssMinRecordSize = 2 // record_type + trailing end byte, the smallest possible body
)

// RecordType tags an SSS record (spec.md §3).
type RecordType uint8

const (
	RecordTypeTest        RecordType = 0x01
	RecordTypeMachineInfo RecordType = 0x55
	RecordTypeEnd         RecordType = 0xAA
)

func (t RecordType) String() string {
	switch t {
	case RecordTypeTest:
		return "test"
	case RecordTypeMachineInfo:
		return "machine_info"
	case RecordTypeEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Record is one framed entry from an SSS stream: the validated
// checksum metadata plus exactly one populated body, chosen by Type.
type Record struct {
	Type             RecordType
	Length           uint16
	Checksum         uint16
	ChecksumComputed uint16
	// ChecksumTolerated is true when Checksum equals ChecksumComputed-1,
	// the documented firmware off-by-one (spec.md §4.4), rather than
	// matching exactly.
	ChecksumTolerated bool

	MachineInfo *MachineInfoRecord
	Test        *TestRecord
}

// ParseSSS decodes the plaintext of TestResults.sss into its sequence
// of records, per spec.md §6. The final record must be of type end;
// anything else is ErrKindMissingTerminator. A stored checksum one
// below the computed sum is accepted (spec.md §4.4); ParseSSSStrict
// rejects it instead.
func ParseSSS(data []byte) ([]Record, error) {
	return parseSSS(data, false)
}

// ParseSSSStrict is ParseSSS with the checksum tolerance disabled.
func ParseSSSStrict(data []byte) ([]Record, error) {
	return parseSSS(data, true)
}

func parseSSS(data []byte, strictChecksum bool) ([]Record, error) {
	r := newReader(data)
	var records []Record

	for {
		recStart := r.offset()
		if err := r.expectByte(sssRecordStart, "record start byte"); err != nil {
			return nil, err
		}

		length, err := r.uint16LE("record length")
		if err != nil {
			return nil, err
		}
		storedChecksum, err := r.uint16LE("record checksum")
		if err != nil {
			return nil, err
		}
		if err := r.expectZeros(2, "record zero padding"); err != nil {
			return nil, err
		}

		if length < sssMinRecordSize {
			return nil, newDecodeError(ErrKindFraming, recStart, "record length too small", nil)
		}

		checksummedStart := r.offset()
		checksummed, err := r.bytes(int(length), "record_type+body+trailing")
		if err != nil {
			return nil, err
		}

		computed := sumMod65536(checksummed)
		tolerated := storedChecksum == computed-1
		valid := storedChecksum == computed || tolerated
		if !valid {
			return nil, newDecodeError(ErrKindChecksumMismatch, checksummedStart,
				"stored checksum is neither the computed sum nor computed sum minus one", nil)
		}
		if tolerated && strictChecksum {
			return nil, newDecodeError(ErrKindChecksumMismatch, checksummedStart,
				"checksum used the one-low tolerance, rejected under strict mode", nil)
		}

		if checksummed[len(checksummed)-1] != sssRecordEnd {
			return nil, newDecodeError(ErrKindFraming, checksummedStart+int64(len(checksummed))-1,
				"missing trailing 0xFF sentinel", nil)
		}

		recordType := RecordType(checksummed[0])
		bodyReader := newReader(checksummed[1 : len(checksummed)-1])

		rec := Record{
			Type:              recordType,
			Length:            length,
			Checksum:          storedChecksum,
			ChecksumComputed:  computed,
			ChecksumTolerated: tolerated,
		}

		switch recordType {
		case RecordTypeMachineInfo:
			mi, err := parseMachineInfoRecord(bodyReader)
			if err != nil {
				return nil, err
			}
			rec.MachineInfo = &mi

		case RecordTypeTest:
			tr, err := parseTestRecord(bodyReader)
			if err != nil {
				return nil, err
			}
			rec.Test = &tr

		case RecordTypeEnd:
			// empty body

		default:
			return nil, newDecodeError(ErrKindUnknownVariant, checksummedStart,
				"unrecognized record_type", nil)
		}

		records = append(records, rec)

		if recordType == RecordTypeEnd {
			break
		}
		if r.remaining() == 0 {
			return nil, newDecodeError(ErrKindMissingTerminator, r.offset(),
				"SSS stream ended without an end record", nil)
		}
	}

	return records, nil
}

// sumMod65536 is the format's weak additive checksum: the unsigned
// 16-bit sum, mod 2^16, of every byte in data (spec.md §4.4).
func sumMod65536(data []byte) uint16 {
	var sum uint16
	for _, b := range data {
		sum += uint16(b)
	}
	return sum
}
