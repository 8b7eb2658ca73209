// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package seaward

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float16Bytes(significand, exponent uint16) []byte {
	f := newFloat16(significand, exponent)
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, uint16(f))
	return b
}

// TestParsePhysicalTestResultRCD is scenario S6 from spec.md §8: an RCD
// physical test decodes its three measurements and result flags.
func TestParsePhysicalTestResultRCD(t *testing.T) {
	var body []byte
	body = append(body, byte(PhysicalTestRCD))
	body = append(body, float16Bytes(300, 1)...)  // test_current = 30.0 mA
	body = append(body, float16Bytes(180, 0)...)   // cycle_angle = 180 deg
	body = append(body, float16Bytes(25, 1)...)    // trip_time = 2.5 ms
	body = append(body, byte(resultFlagPass))

	r := newReader(body)
	result, err := parsePhysicalTestResult(r)
	require.NoError(t, err)
	assert.Equal(t, PhysicalTestRCD, result.Type)

	rcd, ok := result.Body.(RCDBody)
	require.True(t, ok)
	assert.InDelta(t, 30.0, rcd.TestCurrent.Value, 1e-9)
	assert.Equal(t, "milliamp", rcd.TestCurrent.Units)
	assert.InDelta(t, 180.0, rcd.CycleAngle.Value, 1e-9)
	assert.InDelta(t, 2.5, rcd.TripTime.Value, 1e-9)
	assert.True(t, rcd.Result.Pass())
	assert.False(t, rcd.Result.Fail())
}

func TestParsePhysicalTestResultPolarityHasNoMeasurement(t *testing.T) {
	body := []byte{byte(PhysicalTestPolarity), byte(resultFlagFail)}
	result, err := parsePhysicalTestResult(newReader(body))
	require.NoError(t, err)
	polarity, ok := result.Body.(PolarityBody)
	require.True(t, ok)
	assert.True(t, polarity.Result.Fail())
}

func TestParsePhysicalTestResultUnknownTagIsFatal(t *testing.T) {
	body := []byte{0x7F}
	_, err := parsePhysicalTestResult(newReader(body))
	require.Error(t, err)

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, ErrKindUnknownVariant, decodeErr.Kind)
	assert.True(t, errors.Is(err, ErrUnknownVariant))
}

func TestResultFlagsBothPassAndFail(t *testing.T) {
	f := resultFlagPass | resultFlagFail
	assert.True(t, f.Pass())
	assert.True(t, f.Fail())
	assert.Equal(t, "pass+fail", f.String())
}

func TestResultFlagsUnset(t *testing.T) {
	assert.Equal(t, "unset", ResultFlags(0).String())
}

func TestPhysicalTestTypeStringUnknown(t *testing.T) {
	assert.Equal(t, "unknown", PhysicalTestType(0x01).String())
	assert.Equal(t, "rcd", PhysicalTestRCD.String())
}
