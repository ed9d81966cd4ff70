package main

import (
	"github.com/protomem/charge-scheduler/internal/validator"
)

// Validation rules

const _maxUsernameRunes = 64

func validateRequestCredentials(v *validator.Validator, request requestCredentials) {
	validateUsername(v, request.Username)
	validatePassword(v, request.Password)
}

func validateUsername(v *validator.Validator, username string) {
	v.CheckField(validator.NotBlank(username), "username", "Please enter a username")
	v.CheckField(validator.MaxRunes(username, _maxUsernameRunes), "username", "Username must not be longer than 64 characters")
}

func validatePassword(v *validator.Validator, password string) {
	v.CheckField(password != "", "password", "Please enter a password")
}
