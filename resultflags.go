// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package seaward

// ResultFlags is the 1-byte bitfield attached to every test result
// (the fixed prefix of a test record, and every physical test's own
// body). Bit layout, MSB to LSB (spec.md §3):
//
//	bit 7  unknown1
//	bit 6  unknown2
//	bit 5  greater_than
//	bit 4  less_than
//	bit 3  unknown3
//	bit 2  unknown4
//	bit 1  fail
//	bit 0  pass
//
// pass and fail may both be set; no further semantics are assigned to
// the unknown bits (spec.md §9 open questions).
type ResultFlags uint8

const (
	resultFlagPass        ResultFlags = 1 << 0
	resultFlagFail        ResultFlags = 1 << 1
	resultFlagUnknown4    ResultFlags = 1 << 2
	resultFlagUnknown3    ResultFlags = 1 << 3
	resultFlagLessThan    ResultFlags = 1 << 4
	resultFlagGreaterThan ResultFlags = 1 << 5
	resultFlagUnknown2    ResultFlags = 1 << 6
	resultFlagUnknown1    ResultFlags = 1 << 7
)

func (f ResultFlags) Pass() bool        { return f&resultFlagPass != 0 }
func (f ResultFlags) Fail() bool        { return f&resultFlagFail != 0 }
func (f ResultFlags) Unknown4() bool    { return f&resultFlagUnknown4 != 0 }
func (f ResultFlags) Unknown3() bool    { return f&resultFlagUnknown3 != 0 }
func (f ResultFlags) LessThan() bool    { return f&resultFlagLessThan != 0 }
func (f ResultFlags) GreaterThan() bool { return f&resultFlagGreaterThan != 0 }
func (f ResultFlags) Unknown2() bool    { return f&resultFlagUnknown2 != 0 }
func (f ResultFlags) Unknown1() bool    { return f&resultFlagUnknown1 != 0 }

func (f ResultFlags) String() string {
	switch {
	case f.Pass() && f.Fail():
		return "pass+fail"
	case f.Pass():
		return "pass"
	case f.Fail():
		return "fail"
	default:
		return "unset"
	}
}

func (r *reader) resultFlags(context string) (ResultFlags, error) {
	b, err := r.uint8(context)
	if err != nil {
		return 0, err
	}
	return ResultFlags(b), nil
}
