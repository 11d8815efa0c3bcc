package slug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "punctuation", title: "My First Note!", want: "my-first-note"},
		{name: "runs collapse", title: "  Hello   ---  World  ", want: "hello-world"},
		{name: "accents fold", title: "Café Crème brûlée", want: "cafe-creme-brulee"},
		{name: "digits kept", title: "Top 10 Ideas (2024)", want: "top-10-ideas-2024"},
		{name: "underscores split", title: "snake_case_title", want: "snake-case-title"},
		{name: "only symbols", title: "!!!", want: ""},
		{name: "non latin script", title: "日本語", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.title))
		})
	}
}

func TestForTitleNeverEmpty(t *testing.T) {
	titles := []string{"My First Note!", "!!!", "", "日本語", "Tab\tSeparated\nLines"}
	for _, title := range titles {
		s := ForTitle(title)
		assert.NotEmpty(t, s, "title %q", title)
		assert.Equal(t, strings.ToLower(s), s)
		assert.False(t, strings.ContainsAny(s, " \t\n"), "slug %q has whitespace", s)
		assert.False(t, strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-"))
	}
	assert.Regexp(t, `^note-[0-9a-f]{8}$`, ForTitle("???"))
}

func TestEnsureKeepsExistingSlug(t *testing.T) {
	current := "custom-slug"
	assert.False(t, Ensure(&current, "Another Title"))
	assert.Equal(t, "custom-slug", current)

	blank := "  "
	assert.True(t, Ensure(&blank, "Another Title"))
	assert.Equal(t, "another-title", blank)
}
