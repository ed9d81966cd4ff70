package model

type ID = uint

type User struct {
	ID       ID     `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	Password string `json:"-" db:"password"`
}

// UserRef is the part of a user handed back after a successful login.
type UserRef struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
}

func (u User) Ref() UserRef {
	return UserRef{ID: u.ID, Username: u.Username}
}

type ScheduleInput struct {
	Description string
	Days        Days
	Variant     Variant
}

func (in ScheduleInput) Type() ScheduleType {
	if in.Variant == nil {
		return 0
	}
	return in.Variant.Type()
}

type Schedule struct {
	ID     ID
	UserID ID
	ScheduleInput
}
