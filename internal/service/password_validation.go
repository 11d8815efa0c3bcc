package service

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	minPasswordLength   = 8
	maxUsernameLength   = 150
	maxSimilarityToUser = 0.7
)

var (
	usernameRe       = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
	usernamePartsSep = regexp.MustCompile(`[^\p{L}\p{N}_]+`)
)

// commonPasswords is a short list of the most leaked passwords.
var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "passw0rd": {},
	"12345678": {}, "123456789": {}, "1234567890": {}, "87654321": {},
	"qwertyuiop": {}, "qwerty123": {}, "1q2w3e4r": {}, "1qaz2wsx": {},
	"iloveyou": {}, "sunshine": {}, "princess": {}, "football": {},
	"baseball": {}, "welcome1": {}, "superman": {}, "trustno1": {},
	"abcd1234": {}, "letmein1": {}, "starwars": {}, "whatever": {},
	"computer": {}, "michelle": {}, "jennifer": {}, "11111111": {},
	"00000000": {}, "88888888": {}, "asdfghjkl": {}, "zaq12wsx": {},
	"qazwsxedc": {}, "changeme": {}, "internet": {}, "dragon123": {},
	"monkey123": {}, "shadow123": {}, "master123": {}, "admin123": {},
}

// NormalizeUsername applies NFKC so visually identical names collide.
func NormalizeUsername(username string) string {
	return norm.NFKC.String(strings.TrimSpace(username))
}

func validateUsername(username string) []string {
	var msgs []string
	if utf8.RuneCountInString(username) > maxUsernameLength {
		msgs = append(msgs, "Ensure this value has at most 150 characters.")
	}
	if !usernameRe.MatchString(username) {
		msgs = append(msgs, "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}
	return msgs
}

// validatePassword returns every rule the password breaks.
func validatePassword(password, username string) []string {
	var msgs []string

	if isTooSimilar(password, username) {
		msgs = append(msgs, "The password is too similar to the username.")
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		msgs = append(msgs, "This password is too short. It must contain at least 8 characters.")
	}
	if _, ok := commonPasswords[strings.ToLower(strings.TrimSpace(password))]; ok {
		msgs = append(msgs, "This password is too common.")
	}
	if isAllDigits(password) {
		msgs = append(msgs, "This password is entirely numeric.")
	}
	return msgs
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// isTooSimilar compares the password against the username and each of its
// word parts.
func isTooSimilar(password, username string) bool {
	if username == "" {
		return false
	}
	pw := strings.ToLower(password)
	candidates := append([]string{username}, usernamePartsSep.Split(username, -1)...)
	for _, c := range candidates {
		c = strings.ToLower(c)
		if c == "" {
			continue
		}
		if similarity(pw, c) >= maxSimilarityToUser {
			return true
		}
	}
	return false
}

// similarity is 2*LCS/(len(a)+len(b)) over runes, in [0,1].
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra)+len(rb) == 0 {
		return 1
	}

	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			switch {
			case ra[i-1] == rb[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return 2 * float64(prev[len(rb)]) / float64(len(ra)+len(rb))
}
