// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package seaward

// PhysicalTestType tags the nine known physical-test subtype bodies
// (spec.md §3/§4.6). Unlike ResultFlags, a value outside this set is a
// fatal ErrKindUnknownVariant, never silently skipped.
type PhysicalTestType uint8

const (
	PhysicalTestEarthResistance       PhysicalTestType = 0x11
	PhysicalTestIEC                   PhysicalTestType = 0x16
	PhysicalTestInsulation            PhysicalTestType = 0x20
	PhysicalTestSubstituteLeakage     PhysicalTestType = 0x83
	PhysicalTestPolarity              PhysicalTestType = 0x91
	PhysicalTestMainsVoltage          PhysicalTestType = 0x92
	PhysicalTestTouchOrLeakageCurrent PhysicalTestType = 0x96
	PhysicalTestRCD                   PhysicalTestType = 0x9A
	PhysicalTestString                PhysicalTestType = 0xFD
)

func (t PhysicalTestType) String() string {
	switch t {
	case PhysicalTestEarthResistance:
		return "earth_resistance"
	case PhysicalTestIEC:
		return "iec"
	case PhysicalTestInsulation:
		return "insulation"
	case PhysicalTestSubstituteLeakage:
		return "substitute_leakage"
	case PhysicalTestPolarity:
		return "polarity"
	case PhysicalTestMainsVoltage:
		return "mains_voltage"
	case PhysicalTestTouchOrLeakageCurrent:
		return "touch_or_leakage_current"
	case PhysicalTestRCD:
		return "rcd"
	case PhysicalTestString:
		return "string"
	default:
		return "unknown"
	}
}

// PhysicalTestBody is implemented by each of the nine fixed-layout
// variant payloads. It is the tagged-union idiom this module uses in
// place of Go's lack of sum types: one concrete struct per tag, a
// type switch at the call site that needs to branch on it (the
// assembler, §4.7), and a Type() accessor so a body can be identified
// without a type assertion when all that's needed is the tag.
type PhysicalTestBody interface {
	Type() PhysicalTestType
}

// EarthResistanceBody is tag 0x11.
type EarthResistanceBody struct {
	Resistance Measurement  `json:"resistance"`
	Result     ResultFlags `json:"result"`
}

func (EarthResistanceBody) Type() PhysicalTestType { return PhysicalTestEarthResistance }

// IECBody is tag 0x16.
type IECBody struct {
	Resistance Measurement `json:"resistance"`
	Result     ResultFlags `json:"result"`
}

func (IECBody) Type() PhysicalTestType { return PhysicalTestIEC }

// InsulationBody is tag 0x20.
type InsulationBody struct {
	Voltage    Measurement `json:"voltage"`
	Resistance Measurement `json:"resistance"`
	Result     ResultFlags `json:"result"`
}

func (InsulationBody) Type() PhysicalTestType { return PhysicalTestInsulation }

// SubstituteLeakageBody is tag 0x83.
type SubstituteLeakageBody struct {
	Current Measurement `json:"current"`
	Result  ResultFlags `json:"result"`
}

func (SubstituteLeakageBody) Type() PhysicalTestType { return PhysicalTestSubstituteLeakage }

// PolarityBody is tag 0x91: no measurement, just a result.
type PolarityBody struct {
	Result ResultFlags `json:"result"`
}

func (PolarityBody) Type() PhysicalTestType { return PhysicalTestPolarity }

// MainsVoltageBody is tag 0x92.
type MainsVoltageBody struct {
	Voltage Measurement `json:"voltage"`
	Result  ResultFlags `json:"result"`
}

func (MainsVoltageBody) Type() PhysicalTestType { return PhysicalTestMainsVoltage }

// TouchOrLeakageCurrentBody is tag 0x96. The 2 unknown bytes between
// the two currents are preserved verbatim but not interpreted, per
// spec.md §9.
type TouchOrLeakageCurrentBody struct {
	LoadCurrent    Measurement `json:"load_current"`
	Unknown        [2]byte     `json:"-"`
	LeakageCurrent Measurement `json:"leakage_current"`
	Result         ResultFlags `json:"result"`
}

func (TouchOrLeakageCurrentBody) Type() PhysicalTestType { return PhysicalTestTouchOrLeakageCurrent }

// RCDBody is tag 0x9A.
type RCDBody struct {
	TestCurrent Measurement `json:"test_current"`
	CycleAngle  Measurement `json:"cycle_angle"`
	TripTime    Measurement `json:"trip_time"`
	Result      ResultFlags `json:"result"`
}

func (RCDBody) Type() PhysicalTestType { return PhysicalTestRCD }

// StringBody is tag 0xFD: a 34-byte opaque/text payload rather than a
// measurement. Kept as raw bytes since spec.md doesn't define an
// encoding for it beyond "value:34 bytes".
type StringBody struct {
	Value  [34]byte    `json:"-"`
	Result ResultFlags `json:"result"`
}

func (StringBody) Type() PhysicalTestType { return PhysicalTestString }

// PhysicalTestResult pairs the tag with its decoded body.
type PhysicalTestResult struct {
	Type PhysicalTestType
	Body PhysicalTestBody
}

// parsePhysicalTestResult reads one tagged physical-test entry: the
// tag byte, then the fixed layout the tag implies (spec.md §4.6).
func parsePhysicalTestResult(r *reader) (PhysicalTestResult, error) {
	tagOffset := r.offset()
	tagByte, err := r.uint8("physical_test_type")
	if err != nil {
		return PhysicalTestResult{}, err
	}
	tag := PhysicalTestType(tagByte)

	var body PhysicalTestBody
	switch tag {
	case PhysicalTestEarthResistance:
		b := EarthResistanceBody{}
		if b.Resistance, err = r.measurement("ohm", "resistance"); err != nil {
			return PhysicalTestResult{}, err
		}
		if b.Result, err = r.resultFlags("result"); err != nil {
			return PhysicalTestResult{}, err
		}
		body = b

	case PhysicalTestIEC:
		b := IECBody{}
		if b.Resistance, err = r.measurement("ohm", "resistance"); err != nil {
			return PhysicalTestResult{}, err
		}
		if b.Result, err = r.resultFlags("result"); err != nil {
			return PhysicalTestResult{}, err
		}
		body = b

	case PhysicalTestInsulation:
		b := InsulationBody{}
		if b.Voltage, err = r.measurement("volt", "voltage"); err != nil {
			return PhysicalTestResult{}, err
		}
		if b.Resistance, err = r.measurement("megaohm", "resistance"); err != nil {
			return PhysicalTestResult{}, err
		}
		if b.Result, err = r.resultFlags("result"); err != nil {
			return PhysicalTestResult{}, err
		}
		body = b

	case PhysicalTestSubstituteLeakage:
		b := SubstituteLeakageBody{}
		if b.Current, err = r.measurement("milliamp", "current"); err != nil {
			return PhysicalTestResult{}, err
		}
		if b.Result, err = r.resultFlags("result"); err != nil {
			return PhysicalTestResult{}, err
		}
		body = b

	case PhysicalTestPolarity:
		b := PolarityBody{}
		if b.Result, err = r.resultFlags("result"); err != nil {
			return PhysicalTestResult{}, err
		}
		body = b

	case PhysicalTestMainsVoltage:
		b := MainsVoltageBody{}
		if b.Voltage, err = r.measurement("volt", "voltage"); err != nil {
			return PhysicalTestResult{}, err
		}
		if b.Result, err = r.resultFlags("result"); err != nil {
			return PhysicalTestResult{}, err
		}
		body = b

	case PhysicalTestTouchOrLeakageCurrent:
		b := TouchOrLeakageCurrentBody{}
		if b.LoadCurrent, err = r.measurement("milliamp", "load_current"); err != nil {
			return PhysicalTestResult{}, err
		}
		unknown, err := r.bytes(2, "touch_or_leakage unknown bytes")
		if err != nil {
			return PhysicalTestResult{}, err
		}
		copy(b.Unknown[:], unknown)
		if b.LeakageCurrent, err = r.measurement("milliamp", "leakage_current"); err != nil {
			return PhysicalTestResult{}, err
		}
		if b.Result, err = r.resultFlags("result"); err != nil {
			return PhysicalTestResult{}, err
		}
		body = b

	case PhysicalTestRCD:
		b := RCDBody{}
		if b.TestCurrent, err = r.measurement("milliamp", "test_current"); err != nil {
			return PhysicalTestResult{}, err
		}
		if b.CycleAngle, err = r.measurement("deg", "cycle_angle"); err != nil {
			return PhysicalTestResult{}, err
		}
		if b.TripTime, err = r.measurement("ms", "trip_time"); err != nil {
			return PhysicalTestResult{}, err
		}
		if b.Result, err = r.resultFlags("result"); err != nil {
			return PhysicalTestResult{}, err
		}
		body = b

	case PhysicalTestString:
		b := StringBody{}
		value, err := r.bytes(34, "string value")
		if err != nil {
			return PhysicalTestResult{}, err
		}
		copy(b.Value[:], value)
		if b.Result, err = r.resultFlags("result"); err != nil {
			return PhysicalTestResult{}, err
		}
		body = b

	default:
		return PhysicalTestResult{}, newDecodeError(ErrKindUnknownVariant, tagOffset,
			"unrecognized physical_test_type", nil)
	}

	return PhysicalTestResult{Type: tag, Body: body}, nil
}
