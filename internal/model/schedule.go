package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/exp/slices"
)

const (
	DefaultChargeLevel = 80
	DefaultMileage     = 150

	MaxChargeLevel = 100
	MaxMileage     = 250
)

// ScheduleType is the discriminant stored in schedules.type.
type ScheduleType uint8

const (
	ScheduleTypeTime ScheduleType = iota + 1
	ScheduleTypeChargeLevel
	ScheduleTypeMileage
)

var _scheduleTypeNames = map[ScheduleType]string{
	ScheduleTypeTime:        "time",
	ScheduleTypeChargeLevel: "charge_level",
	ScheduleTypeMileage:     "mileage",
}

var _scheduleTypeLabels = map[ScheduleType]string{
	ScheduleTypeTime:        "Time Based",
	ScheduleTypeChargeLevel: "Charge Level Based",
	ScheduleTypeMileage:     "Mileage Based",
}

func ScheduleTypes() []ScheduleType {
	return []ScheduleType{ScheduleTypeTime, ScheduleTypeChargeLevel, ScheduleTypeMileage}
}

func (t ScheduleType) Valid() bool {
	_, ok := _scheduleTypeNames[t]
	return ok
}

func (t ScheduleType) String() string {
	if name, ok := _scheduleTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ScheduleType(%d)", uint8(t))
}

func (t ScheduleType) Label() string {
	return _scheduleTypeLabels[t]
}

func ParseScheduleType(s string) (ScheduleType, error) {
	for t, name := range _scheduleTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownScheduleType, s)
}

func (t ScheduleType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownScheduleType, uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *ScheduleType) UnmarshalText(text []byte) error {
	parsed, err := ParseScheduleType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

var _dayNames = [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// DayLabel returns the one-letter label used by the day picker.
func DayLabel(d time.Weekday) string {
	if d < time.Sunday || d > time.Saturday {
		return "?"
	}
	return _dayNames[d][:1]
}

// Days is a set of weekdays, Sunday first. It is persisted as a JSON array.
type Days []time.Weekday

// Normalize returns the days sorted ascending with duplicates removed.
func (d Days) Normalize() Days {
	out := slices.Clone(d)
	slices.Sort(out)
	return slices.Compact(out)
}

func (d Days) Contains(day time.Weekday) bool {
	return slices.Contains(d, day)
}

func (d Days) String() string {
	names := make([]string, 0, len(d))
	for _, day := range d.Normalize() {
		if day < time.Sunday || day > time.Saturday {
			continue
		}
		names = append(names, _dayNames[day][:3])
	}
	return strings.Join(names, ", ")
}

func (d Days) Value() (driver.Value, error) {
	if d == nil {
		d = Days{}
	}
	data, err := json.Marshal([]time.Weekday(d))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (d *Days) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	case nil:
		*d = Days{}
		return nil
	default:
		return fmt.Errorf("days: unsupported source type %T", src)
	}

	var days []time.Weekday
	if err := json.Unmarshal(data, &days); err != nil {
		return fmt.Errorf("days: %w", err)
	}
	*d = Days(days)
	return nil
}
