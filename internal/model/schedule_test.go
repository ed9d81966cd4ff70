package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protomem/charge-scheduler/internal/validator"
)

func validInput(variant Variant) ScheduleInput {
	return ScheduleInput{
		Description: "Night charge",
		Days:        Days{time.Monday, time.Wednesday},
		Variant:     variant,
	}
}

func validate(in ScheduleInput) validator.Validator {
	var v validator.Validator
	in.Validate(&v)
	return v
}

func TestValidate_ChargeLevelBounds(t *testing.T) {
	cases := []struct {
		level int
		ok    bool
	}{
		{-1, false},
		{0, true},
		{100, true},
		{101, false},
	}

	for _, tc := range cases {
		v := validate(validInput(ChargeLevel{ReadyBy: "07:30", Level: tc.level}))
		assert.Equal(t, !tc.ok, v.HasErrors(), "level %d", tc.level)
		if !tc.ok {
			assert.Equal(t, "Charge level must be between 0 and 100", v.FieldErrors["desired_charge_level"])
		}
	}
}

func TestValidate_MileageBounds(t *testing.T) {
	cases := []struct {
		miles int
		ok    bool
	}{
		{-1, false},
		{0, true},
		{250, true},
		{251, false},
	}

	for _, tc := range cases {
		v := validate(validInput(Mileage{ReadyBy: "07:30", Miles: tc.miles}))
		assert.Equal(t, !tc.ok, v.HasErrors(), "miles %d", tc.miles)
	}
}

func TestValidate_TimeWindow(t *testing.T) {
	cases := []struct {
		start, end string
		ok         bool
	}{
		{"09:00", "08:59", false},
		{"08:59", "09:00", true},
		{"09:00", "09:00", false},
		{"23:00", "23:59", true},
		{"9:00", "10:00", false},
		{"24:00", "24:30", false},
	}

	for _, tc := range cases {
		v := validate(validInput(TimeWindow{Start: tc.start, End: tc.end}))
		assert.Equal(t, !tc.ok, v.HasErrors(), "%s-%s", tc.start, tc.end)
	}
}

func TestValidate_CommonFields(t *testing.T) {
	in := validInput(TimeWindow{Start: "01:00", End: "05:00"})
	in.Description = "   "
	in.Days = nil

	v := validate(in)
	require.True(t, v.HasErrors())
	assert.Equal(t, "Please enter a description", v.FieldErrors["description"])
	assert.Equal(t, "Please select at least one day", v.FieldErrors["days"])

	in = validInput(nil)
	v = validate(in)
	assert.Equal(t, "Please select a schedule type", v.FieldErrors["type"])

	in = validInput(Mileage{ReadyBy: "06:00", Miles: 10})
	in.Days = Days{time.Weekday(7)}
	v = validate(in)
	assert.Contains(t, v.FieldErrors, "days")
}

func TestDays_Normalize(t *testing.T) {
	days := Days{time.Friday, time.Sunday, time.Friday, time.Monday}

	assert.Equal(t, Days{time.Sunday, time.Monday, time.Friday}, days.Normalize())
	assert.Equal(t, Days{time.Friday, time.Sunday, time.Friday, time.Monday}, days, "input must not be mutated")
	assert.Equal(t, "Sun, Mon, Fri", days.String())
}

func TestDays_ScanValue(t *testing.T) {
	value, err := Days{time.Tuesday, time.Saturday}.Value()
	require.NoError(t, err)
	assert.Equal(t, "[2,6]", value)

	var days Days
	require.NoError(t, days.Scan([]byte("[0,3]")))
	assert.Equal(t, Days{time.Sunday, time.Wednesday}, days)

	assert.Error(t, days.Scan(42))
}

func TestFieldsOf_OnlyActiveVariant(t *testing.T) {
	f := FieldsOf(Mileage{ReadyBy: "06:15", Miles: 120})

	assert.Nil(t, f.StartTime)
	assert.Nil(t, f.EndTime)
	assert.Nil(t, f.DesiredChargeLevel)
	require.NotNil(t, f.ReadyBy)
	require.NotNil(t, f.DesiredMileage)
	assert.Equal(t, "06:15", *f.ReadyBy)
	assert.Equal(t, 120, *f.DesiredMileage)
}

func TestNewVariant(t *testing.T) {
	start, end, level := "01:00", "02:00", 55
	fields := VariantFields{StartTime: &start, EndTime: &end, DesiredChargeLevel: &level}

	variant, err := NewVariant(ScheduleTypeTime, fields)
	require.NoError(t, err)
	assert.Equal(t, TimeWindow{Start: "01:00", End: "02:00"}, variant)

	_, err = NewVariant(ScheduleType(9), fields)
	assert.True(t, errors.Is(err, ErrUnknownScheduleType))
}

func TestScheduleJSON(t *testing.T) {
	s := Schedule{ID: 4, UserID: 2, ScheduleInput: validInput(ChargeLevel{ReadyBy: "07:00", Level: 80})}

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 4,
		"user_id": 2,
		"description": "Night charge",
		"type": "charge_level",
		"days": [1, 3],
		"start_time": null,
		"end_time": null,
		"ready_by": "07:00",
		"desired_charge_level": 80,
		"desired_mileage": null
	}`, string(data))

	var decoded Schedule
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, s, decoded)

	var in ScheduleInput
	err = json.Unmarshal([]byte(`{"description":"x","type":"solar","days":[1]}`), &in)
	assert.True(t, errors.Is(err, ErrUnknownScheduleType))

	err = json.Unmarshal([]byte(`{"description":"x","type":"charge_level","days":[1],"ready_by":"07:00","desired_charge_lvl":80}`), &in)
	assert.ErrorContains(t, err, "desired_charge_lvl")
}

func TestScheduleTypeLabels(t *testing.T) {
	assert.Equal(t, "Time Based", ScheduleTypeTime.Label())
	assert.Equal(t, "mileage", ScheduleTypeMileage.String())
	assert.False(t, ScheduleType(0).Valid())
	assert.Equal(t, "S", DayLabel(time.Sunday))
}
