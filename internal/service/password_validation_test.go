package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		username string
		want     []string
	}{
		{"acceptable", "correct-horse-battery", "alice", nil},
		{"too short", "a1b2c3", "alice", []string{"This password is too short. It must contain at least 8 characters."}},
		{"common", "password123", "alice", []string{"This password is too common."}},
		{"numeric", "9081726354", "alice", []string{"This password is entirely numeric."}},
		{"similar to username", "alice2024x", "alice2024", []string{"The password is too similar to the username."}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, validatePassword(tc.password, tc.username))
		})
	}
}

func TestValidatePasswordCollectsEveryFailure(t *testing.T) {
	msgs := validatePassword("1234", "bob")
	assert.Contains(t, msgs, "This password is too short. It must contain at least 8 characters.")
	assert.Contains(t, msgs, "This password is entirely numeric.")
}

func TestValidateUsername(t *testing.T) {
	assert.Empty(t, validateUsername("jane.doe+notes@example"))
	assert.Empty(t, validateUsername("żaneta_1"))
	assert.NotEmpty(t, validateUsername("has space"))
	assert.NotEmpty(t, validateUsername("semi;colon"))
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, similarity("abc", "abc"))
	assert.Equal(t, 0.0, similarity("abc", "xyz"))
	assert.InDelta(t, 0.8, similarity("abcd", "abcdxy"), 0.001)
}
