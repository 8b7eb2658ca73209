// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package seaward

// MachineInfoRecord is the body of a record_type 0x55 record: the
// tester unit's own identity (spec.md §4.5).
type MachineInfoRecord struct {
	Machine string `json:"machine"`
	Serial  string `json:"serial"`
}

func parseMachineInfoRecord(r *reader) (MachineInfoRecord, error) {
	var m MachineInfoRecord
	var err error
	if m.Machine, err = r.fixedString(20, "machine"); err != nil {
		return m, err
	}
	if m.Serial, err = r.fixedString(20, "serial"); err != nil {
		return m, err
	}
	return m, nil
}

// VisualTestResult is a pass/fail inspection entry with no
// measurement, tagged by its own 0xFD start byte (spec.md §3).
type VisualTestResult struct {
	Name  string `json:"name"`
	Units string `json:"units"`
	Value uint16 `json:"value"`
	Flag  bool   `json:"flag"`
}

const visualTestResultStart = 0xFD

func parseVisualTestResult(r *reader) (VisualTestResult, error) {
	var v VisualTestResult
	if err := r.expectByte(visualTestResultStart, "visual test start"); err != nil {
		return v, err
	}
	var err error
	if v.Name, err = r.fixedString(16, "visual test name"); err != nil {
		return v, err
	}
	if v.Units, err = r.fixedString(16, "visual test units"); err != nil {
		return v, err
	}
	if v.Value, err = r.uint16LE("visual test value"); err != nil {
		return v, err
	}
	flagByte, err := r.uint8("visual test flag")
	if err != nil {
		return v, err
	}
	v.Flag = flagByte != 0
	return v, nil
}

const (
	testRecordUnknown2      = 0x02
	testRecordResultsMarker = 0xFE
)

// TestRecord is the body of a record_type 0x01 record: a fixed-layout
// prefix describing one appliance test, followed by two variable
// arrays of results (spec.md §3/§4.5).
type TestRecord struct {
	OverallResult      ResultFlags
	ID                 string
	Venue              string
	Location           string
	Hour               uint8
	Minute             uint8
	Second             uint8
	Day                uint8
	Month              uint8
	Year               uint16
	User               string
	Comments           string
	FullRetestPeriod   uint8
	TestType           string
	VisualRetestPeriod uint8
	Reserved           []byte // the 15 "almost always zero" bytes, preserved unchecked
	TestConfig         []byte // opaque, preserved exactly
	VisualTestResults  []VisualTestResult
	PhysicalTestResults []PhysicalTestResult
}

// parseTestRecord parses a test record's body from a reader that is
// bounded to exactly the declared body length (see sss.go), so the
// physical-test loop can tell when it has reached the trailing 0xFF
// purely by running out of bytes to read.
func parseTestRecord(r *reader) (TestRecord, error) {
	var t TestRecord
	var err error

	if t.OverallResult, err = r.resultFlags("result_flags"); err != nil {
		return t, err
	}
	if t.ID, err = r.fixedString(16, "id"); err != nil {
		return t, err
	}
	if err = r.expectZeros(64, "zero padding"); err != nil {
		return t, err
	}
	if t.Venue, err = r.fixedString(16, "venue"); err != nil {
		return t, err
	}
	if t.Location, err = r.fixedString(16, "location"); err != nil {
		return t, err
	}
	if t.Hour, err = r.uint8("hour"); err != nil {
		return t, err
	}
	if t.Minute, err = r.uint8("minute"); err != nil {
		return t, err
	}
	if t.Second, err = r.uint8("second"); err != nil {
		return t, err
	}
	if t.Day, err = r.uint8("day"); err != nil {
		return t, err
	}
	if t.Month, err = r.uint8("month"); err != nil {
		return t, err
	}
	if t.Year, err = r.uint16LE("year"); err != nil {
		return t, err
	}
	if t.User, err = r.fixedString(16, "user"); err != nil {
		return t, err
	}
	if t.Comments, err = r.fixedString(128, "comments"); err != nil {
		return t, err
	}
	if err = r.expectByte(testRecordUnknown2, "test record constant 0x02"); err != nil {
		return t, err
	}
	if t.FullRetestPeriod, err = r.uint8("full_retest_period"); err != nil {
		return t, err
	}
	if t.TestType, err = r.fixedString(30, "test_type"); err != nil {
		return t, err
	}
	if t.VisualRetestPeriod, err = r.uint8("visual_retest_period"); err != nil {
		return t, err
	}
	if t.Reserved, err = r.bytes(15, "reserved"); err != nil {
		return t, err
	}
	if t.TestConfig, err = r.lengthPrefixedBytes8("test_config"); err != nil {
		return t, err
	}
	if err = r.expectByte(testRecordResultsMarker, "start of results marker"); err != nil {
		return t, err
	}

	for r.remaining() > 0 {
		b, err := r.bytes(1, "visual test peek")
		if err != nil {
			return t, err
		}
		r.pos--
		if b[0] != visualTestResultStart {
			break
		}
		v, err := parseVisualTestResult(r)
		if err != nil {
			return t, err
		}
		t.VisualTestResults = append(t.VisualTestResults, v)
	}

	for r.remaining() > 0 {
		p, err := parsePhysicalTestResult(r)
		if err != nil {
			return t, err
		}
		t.PhysicalTestResults = append(t.PhysicalTestResults, p)
	}

	return t, nil
}
