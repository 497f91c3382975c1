package services

import (
	"regexp"
	"unicode/utf8"
)

// MinPasswordLength counts characters, not bytes.
const MinPasswordLength = 8

// ecmaSpace is the whitespace set of ECMAScript's \s. RE2's \s is ASCII only.
const ecmaSpace = `\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}`

var emailPattern = regexp.MustCompile(`^[^` + ecmaSpace + `@]+@[^` + ecmaSpace + `@]+\.[^` + ecmaSpace + `@]+$`)

// ValidateCredentials checks the shape of a signup or login request and
// reports the first rule that fails.
func ValidateCredentials(email, password string) *AuthError {
	if email == "" || password == "" {
		return newAuthError(KindInvalidInput, MsgFieldsRequired)
	}
	if !emailPattern.MatchString(email) {
		return newAuthError(KindInvalidInput, MsgInvalidEmail)
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return newAuthError(KindInvalidInput, MsgPasswordTooShort)
	}
	return nil
}
