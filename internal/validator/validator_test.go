package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator_FirstKeepsCheckOrder(t *testing.T) {
	var v Validator
	assert.False(t, v.HasErrors())
	assert.Empty(t, v.First())

	v.CheckField(false, "description", "Please enter a description")
	v.CheckField(false, "days", "Please select at least one day")
	v.CheckField(false, "description", "ignored, first message per field wins")

	assert.True(t, v.HasErrors())
	assert.Equal(t, "Please enter a description", v.First())
	assert.Len(t, v.FieldErrors, 2)

	v.Check(false, "general")
	assert.Equal(t, "general", v.First())
}

func TestHelpers(t *testing.T) {
	assert.False(t, NotBlank(" \t"))
	assert.True(t, NotBlank(" x "))

	assert.True(t, Between(0, 0, 100))
	assert.True(t, Between(100, 0, 100))
	assert.False(t, Between(101, 0, 100))
	assert.False(t, Between(-1, 0, 100))

	assert.True(t, Matches("00:00", RgxClockTime))
	assert.True(t, Matches("23:59", RgxClockTime))
	assert.False(t, Matches("7:30", RgxClockTime))
	assert.False(t, Matches("12:60", RgxClockTime))

	assert.True(t, AllIn([]int{1, 2}, 0, 1, 2))
	assert.False(t, AllIn([]int{1, 9}, 0, 1, 2))
	assert.False(t, NotEmpty([]int{}))
	assert.True(t, MaxRunes("héllo", 5))
}
