package serverutils

import (
	"strings"
	"testing"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNoteForm(t *testing.T) {
	tests := []struct {
		name       string
		form       dto.NoteForm
		wantFields []string
	}{
		{name: "valid", form: dto.NoteForm{Title: "Groceries", Body: "milk"}},
		{name: "valid with slug", form: dto.NoteForm{Title: "Groceries", Body: "milk", Slug: "my_list-2"}},
		{name: "missing title and body", form: dto.NoteForm{}, wantFields: []string{"title", "body"}},
		{name: "title too long", form: dto.NoteForm{Title: strings.Repeat("a", 256), Body: "x"}, wantFields: []string{"title"}},
		{name: "bad slug", form: dto.NoteForm{Title: "t", Body: "b", Slug: "has space"}, wantFields: []string{"slug"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.form)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			verr, ok := apperr.AsValidation(err)
			require.True(t, ok, "expected validation error, got %v", err)
			assert.Len(t, verr.Fields, len(tt.wantFields))
			for _, f := range tt.wantFields {
				assert.True(t, verr.Has(f), "missing error for %s", f)
			}
		})
	}
}

func TestValidateMessages(t *testing.T) {
	err := ValidateRequest(dto.NoteForm{Body: "x"})
	verr, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, []string{"This field is required."}, verr.Fields["title"])
}

func TestSafeRedirectTarget(t *testing.T) {
	assert.Equal(t, "/notes/abc", SafeRedirectTarget("/notes/abc", "/notes/"))
	assert.Equal(t, "/notes/", SafeRedirectTarget("", "/notes/"))
	assert.Equal(t, "/notes/", SafeRedirectTarget("https://evil.example", "/notes/"))
	assert.Equal(t, "/notes/", SafeRedirectTarget("//evil.example", "/notes/"))
}
