package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	v := NewValidationError()
	assert.NoError(t, v.OrNil())

	v.Add("title", "This field is required.").AddNonField("Bad form.")
	err := v.OrNil()
	assert.Error(t, err)
	assert.True(t, v.Has("title"))
	assert.Equal(t, "validation failed: __all__: Bad form.; title: This field is required.", err.Error())

	wrapped := fmt.Errorf("create note: %w", err)
	got, ok := AsValidation(wrapped)
	assert.True(t, ok)
	assert.Same(t, v, got)
}

func TestFilesystemErrorUnwraps(t *testing.T) {
	base := errors.New("disk full")
	err := &FilesystemError{Op: "save", Key: "a.png", Err: base}
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "save a.png: disk full", err.Error())
}
