package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneKeepsCodeForIs(t *testing.T) {
	err := Clone(ErrNotFound, "student not found")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "student not found", err.Error())
	assert.Equal(t, "resource not found", ErrNotFound.Message)
}

func TestIsThroughWrapping(t *testing.T) {
	inner := Clonef(ErrInvalidDate, "date %q is not valid", "31/02/2024")
	outer := fmt.Errorf("annul enrollment: %w", inner)

	assert.True(t, errors.Is(outer, ErrInvalidDate))
	assert.Equal(t, "INVALID_DATE", CodeOf(outer))
}

func TestFromErrorForeign(t *testing.T) {
	appErr := FromError(errors.New("boom"))

	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.EqualError(t, appErr, "internal error: boom")
	assert.Nil(t, FromError(nil))
	assert.Equal(t, "", CodeOf(nil))
}
