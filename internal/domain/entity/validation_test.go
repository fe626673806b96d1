package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePaperID(t *testing.T) {
	valid := []string{
		"2408.01234",
		"2301.0001",
		"2408.01234v2",
		"math/0601001",
		"math.AG/0601001",
		"hep-th/9901001",
	}
	for _, id := range valid {
		assert.NoError(t, ValidatePaperID(id), id)
	}

	invalid := []string{
		"",
		"not an id",
		"2408",
		"abs/2408.01234",
		"2408.01234v",
	}
	for _, id := range invalid {
		assert.Error(t, ValidatePaperID(id), id)
	}
}

func TestValidateDate(t *testing.T) {
	assert.NoError(t, ValidateDate("2026-08-23"))

	for _, date := range []string{"", "2026/08/23", "23-08-2026", "2026-13-01"} {
		err := ValidateDate(date)
		assert.Error(t, err, date)

		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr)
	}
}

func TestValidationError_UnwrapsToSentinel(t *testing.T) {
	assert.ErrorIs(t, ValidateDate("not a date"), ErrValidationFailed)
	assert.ErrorIs(t, ValidatePaperID(""), ErrValidationFailed)
	assert.ErrorIs(t, ValidatePaper(nil), ErrValidationFailed)
}

func TestValidatePaper(t *testing.T) {
	assert.Error(t, ValidatePaper(nil))

	assert.Error(t, ValidatePaper(&Paper{Title: "no id"}))
	assert.Error(t, ValidatePaper(&Paper{ID: "2408.01234"}))

	assert.NoError(t, ValidatePaper(&Paper{ID: "2408.01234", Title: "ok"}))
}
