package model

import (
	"time"

	"github.com/protomem/charge-scheduler/internal/validator"
)

var _weekdays = []time.Weekday{
	time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
	time.Thursday, time.Friday, time.Saturday,
}

// Validate records every rule the input breaks on v.
// TIME windows compare HH:MM strings, which orders them chronologically within a day.
func (in ScheduleInput) Validate(v *validator.Validator) {
	v.CheckField(validator.NotBlank(in.Description), "description", "Please enter a description")

	v.CheckField(validator.NotEmpty(in.Days), "days", "Please select at least one day")
	v.CheckField(validator.AllIn(in.Days, _weekdays...), "days", "Days must be between 0 (Sunday) and 6 (Saturday)")

	switch variant := in.Variant.(type) {
	case TimeWindow:
		validateClock(v, "start_time", variant.Start)
		validateClock(v, "end_time", variant.End)
		v.CheckField(variant.Start < variant.End, "end_time", "End time must be after start time")
	case ChargeLevel:
		validateClock(v, "ready_by", variant.ReadyBy)
		v.CheckField(
			validator.Between(variant.Level, 0, MaxChargeLevel),
			"desired_charge_level",
			"Charge level must be between 0 and 100",
		)
	case Mileage:
		validateClock(v, "ready_by", variant.ReadyBy)
		v.CheckField(
			validator.Between(variant.Miles, 0, MaxMileage),
			"desired_mileage",
			"Mileage must be between 0 and 250 miles",
		)
	case nil:
		v.CheckField(false, "type", "Please select a schedule type")
	default:
		v.CheckField(false, "type", ErrUnknownScheduleType.Error())
	}
}

func validateClock(v *validator.Validator, key, value string) {
	v.CheckField(validator.Matches(value, validator.RgxClockTime), key, "must be a 24-hour HH:MM time")
}
