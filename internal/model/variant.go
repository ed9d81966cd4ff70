package model

import "fmt"

// Variant is the type-specific part of a schedule.
type Variant interface {
	Type() ScheduleType
}

type TimeWindow struct {
	Start string
	End   string
}

func (TimeWindow) Type() ScheduleType { return ScheduleTypeTime }

type ChargeLevel struct {
	ReadyBy string
	Level   int
}

func (ChargeLevel) Type() ScheduleType { return ScheduleTypeChargeLevel }

type Mileage struct {
	ReadyBy string
	Miles   int
}

func (Mileage) Type() ScheduleType { return ScheduleTypeMileage }

// VariantFields is the sparse column set shared by all variants.
// A field is nil when the active variant does not own it.
type VariantFields struct {
	StartTime          *string `json:"start_time" db:"start_time"`
	EndTime            *string `json:"end_time" db:"end_time"`
	ReadyBy            *string `json:"ready_by" db:"ready_by"`
	DesiredChargeLevel *int    `json:"desired_charge_level" db:"desired_charge_level"`
	DesiredMileage     *int    `json:"desired_mileage" db:"desired_mileage"`
}

// FieldsOf flattens v. Every field not owned by v's type is left nil.
func FieldsOf(v Variant) VariantFields {
	switch v := v.(type) {
	case TimeWindow:
		return VariantFields{StartTime: &v.Start, EndTime: &v.End}
	case ChargeLevel:
		return VariantFields{ReadyBy: &v.ReadyBy, DesiredChargeLevel: &v.Level}
	case Mileage:
		return VariantFields{ReadyBy: &v.ReadyBy, DesiredMileage: &v.Miles}
	default:
		return VariantFields{}
	}
}

// NewVariant rebuilds the variant selected by t. Fields that t does not own are ignored.
func NewVariant(t ScheduleType, f VariantFields) (Variant, error) {
	switch t {
	case ScheduleTypeTime:
		return TimeWindow{Start: deref(f.StartTime), End: deref(f.EndTime)}, nil
	case ScheduleTypeChargeLevel:
		return ChargeLevel{ReadyBy: deref(f.ReadyBy), Level: deref(f.DesiredChargeLevel)}, nil
	case ScheduleTypeMileage:
		return Mileage{ReadyBy: deref(f.ReadyBy), Miles: deref(f.DesiredMileage)}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownScheduleType, uint8(t))
	}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
