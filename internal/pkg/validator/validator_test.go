package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name   string   `json:"name" validate:"required"`
	Amount float64  `json:"amount" validate:"gt=0"`
	Hours  *float64 `json:"hours,omitempty" validate:"omitempty,gte=0"`
}

func TestValidate(t *testing.T) {
	neg := -1.0
	errs := Validate(&sample{Hours: &neg})
	assert.Equal(t, map[string]string{"name": "required", "amount": "gt", "hours": "gte"}, errs)

	assert.Nil(t, Validate(&sample{Name: "Mow", Amount: 10}))
}
