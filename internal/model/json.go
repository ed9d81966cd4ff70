package model

import (
	"bytes"
	"encoding/json"
)

type scheduleJSON struct {
	ID          ID           `json:"id,omitempty"`
	UserID      ID           `json:"user_id,omitempty"`
	Description string       `json:"description"`
	Type        ScheduleType `json:"type,omitempty"`
	Days        Days         `json:"days"`
	VariantFields
}

func encodeSchedule(id, userID ID, in ScheduleInput) ([]byte, error) {
	days := in.Days
	if days == nil {
		days = Days{}
	}
	return json.Marshal(scheduleJSON{
		ID:            id,
		UserID:        userID,
		Description:   in.Description,
		Type:          in.Type(),
		Days:          days,
		VariantFields: FieldsOf(in.Variant),
	})
}

func decodeSchedule(data []byte) (scheduleJSON, ScheduleInput, error) {
	var raw scheduleJSON

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return raw, ScheduleInput{}, err
	}

	in := ScheduleInput{Description: raw.Description, Days: raw.Days}
	if raw.Type != 0 {
		variant, err := NewVariant(raw.Type, raw.VariantFields)
		if err != nil {
			return raw, ScheduleInput{}, err
		}
		in.Variant = variant
	}
	return raw, in, nil
}

func (in ScheduleInput) MarshalJSON() ([]byte, error) {
	return encodeSchedule(0, 0, in)
}

func (in *ScheduleInput) UnmarshalJSON(data []byte) error {
	_, decoded, err := decodeSchedule(data)
	if err != nil {
		return err
	}
	*in = decoded
	return nil
}

func (s Schedule) MarshalJSON() ([]byte, error) {
	return encodeSchedule(s.ID, s.UserID, s.ScheduleInput)
}

func (s *Schedule) UnmarshalJSON(data []byte) error {
	raw, decoded, err := decodeSchedule(data)
	if err != nil {
		return err
	}
	*s = Schedule{ID: raw.ID, UserID: raw.UserID, ScheduleInput: decoded}
	return nil
}
