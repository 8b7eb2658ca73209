// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package seaward

import (
	"encoding/hex"
	"time"
)

const retestPeriodDay = 30 * 24 * time.Hour

// SubtestView is one entry in a TestResultView's Subtests list: either
// the synthetic visual/overall entry derived from ResultFlags, or one
// physical test result projected to a flat, presentation-friendly
// shape (spec.md §4.7).
type SubtestView struct {
	TestType string           `json:"test_type"`
	Pass     bool             `json:"pass"`
	Fail     bool             `json:"fail"`
	Body     PhysicalTestBody `json:"body,omitempty"`
}

// TestResultView is the presentation-layer projection of a test
// record (spec.md §4.7). machine_info and end records are not
// projected at all.
type TestResultView struct {
	ID                 string        `json:"id"`
	Venue              string        `json:"venue"`
	Location           string        `json:"location"`
	User               string        `json:"user"`
	TestType           string        `json:"test_type"`
	Comments           string        `json:"comments"`
	TestTime           time.Time     `json:"test_time"`
	FullRetestPeriod   time.Duration `json:"full_retest_period"`
	VisualRetestPeriod time.Duration `json:"visual_retest_period"`
	TestConfig         []byte        `json:"-"`
	TestConfigHex      string        `json:"test_config_hex"`
	Result             ResultFlags   `json:"result"`
	Passed             bool          `json:"passed"`
	Subtests           []SubtestView `json:"subtests"`
}

// assembleTestResultView projects one TestRecord into its
// presentation view.
func assembleTestResultView(t TestRecord) TestResultView {
	// Passes iff flags.pass is set OR a physical test ran; fails iff
	// flags.fail is set AND no physical test ran (spec.md §4.7, §9).
	passed := t.OverallResult.Pass() || len(t.PhysicalTestResults) > 0

	view := TestResultView{
		ID:                 t.ID,
		Venue:              t.Venue,
		Location:           t.Location,
		User:               t.User,
		TestType:           t.TestType,
		Comments:           t.Comments,
		TestTime:           testTime(t),
		FullRetestPeriod:   time.Duration(t.FullRetestPeriod) * retestPeriodDay,
		VisualRetestPeriod: time.Duration(t.VisualRetestPeriod) * retestPeriodDay,
		TestConfig:         t.TestConfig,
		TestConfigHex:      hex.EncodeToString(t.TestConfig),
		Result:             t.OverallResult,
		Passed:             passed,
	}

	view.Subtests = append(view.Subtests, SubtestView{
		TestType: "visual",
		Pass:     t.OverallResult.Pass(),
		Fail:     t.OverallResult.Fail(),
	})
	for _, p := range t.PhysicalTestResults {
		view.Subtests = append(view.Subtests, SubtestView{
			TestType: p.Type.String(),
			Pass:     p.resultFlags().Pass(),
			Fail:     p.resultFlags().Fail(),
			Body:     p.Body,
		})
	}

	return view
}

// resultFlags extracts the ResultFlags embedded in whichever physical
// test body this result holds, so the assembler can report pass/fail
// per subtest without a type switch at every call site.
func (p PhysicalTestResult) resultFlags() ResultFlags {
	switch b := p.Body.(type) {
	case EarthResistanceBody:
		return b.Result
	case IECBody:
		return b.Result
	case InsulationBody:
		return b.Result
	case SubstituteLeakageBody:
		return b.Result
	case PolarityBody:
		return b.Result
	case MainsVoltageBody:
		return b.Result
	case TouchOrLeakageCurrentBody:
		return b.Result
	case RCDBody:
		return b.Result
	case StringBody:
		return b.Result
	default:
		return 0
	}
}

func testTime(t TestRecord) time.Time {
	return time.Date(int(t.Year), time.Month(t.Month), int(t.Day),
		int(t.Hour), int(t.Minute), int(t.Second), 0, time.UTC)
}

// Results is the output of GetResults: the assembled test records
// plus every GAR member that wasn't TestResults.sss, passed through
// verbatim (typically JPEG images).
type Results struct {
	TestResults []TestResultView
	Images      map[string][]byte
}

// ByID returns every assembled test result whose ID matches id,
// generalizing original_source/parse.py's hardcoded 'dt6' device-id
// filter into a reusable accessor.
func (r Results) ByID(id string) []TestResultView {
	var out []TestResultView
	for _, tr := range r.TestResults {
		if tr.ID == id {
			out = append(out, tr)
		}
	}
	return out
}

const sssMemberName = "TestResults.sss"

// GetResults composes the full pipeline: GAR-decode data, pull out the
// TestResults.sss member, SSS-decode and assemble it, and return the
// remaining GAR members as Images (spec.md §6).
func GetResults(data []byte) (*Results, error) {
	members, err := ParseGAR(data)
	if err != nil {
		return nil, err
	}

	sssData, ok := members[sssMemberName]
	delete(members, sssMemberName)

	results := &Results{Images: members}
	if !ok {
		return results, nil
	}

	records, err := ParseSSS(sssData)
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		if rec.Test != nil {
			results.TestResults = append(results.TestResults, assembleTestResultView(*rec.Test))
		}
	}

	return results, nil
}
