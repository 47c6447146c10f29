package util

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 66.67, Round2(200.0/3.0))
	assert.Equal(t, 50.0, Round2(50))
	assert.Equal(t, 0.0, Round2(0.004))
}

func TestMustParseUint(t *testing.T) {
	assert.Equal(t, uint(42), MustParseUint("42"))
	assert.Equal(t, uint(0), MustParseUint("abc"))
	assert.Equal(t, uint(0), MustParseUint("-1"))
}

func TestIsDuplicateKeyError(t *testing.T) {
	assert.False(t, IsDuplicateKeyError(nil))
	assert.True(t, IsDuplicateKeyError(errors.New("Error 1062: Duplicate entry 'a' for key 'slug'")))
	assert.True(t, IsDuplicateKeyError(errors.New("UNIQUE constraint failed: courses.slug")))
	assert.False(t, IsDuplicateKeyError(errors.New("connection refused")))
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("bad input")
	assert.True(t, IsValidationError(err))
	assert.Equal(t, "bad input", err.Error())
	assert.False(t, IsValidationError(errors.New("other")))
}
