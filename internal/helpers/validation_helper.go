package helpers

import "regexp"

// PasswordPolicyMessage is returned whenever a password fails the
// strength checks below.
const PasswordPolicyMessage = "Password must be at least 6 characters long, contain uppercase and lowercase letters, at least one number and one special character."

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	lowercasePattern = regexp.MustCompile(`[a-z]`)
	uppercasePattern = regexp.MustCompile(`[A-Z]`)
	digitPattern     = regexp.MustCompile(`[0-9]`)
	specialPattern   = regexp.MustCompile(`[\W_]`)
)

// IsValidEmail checks for a simple local@domain.tld shape: no whitespace,
// a single @ and at least one dot after it.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsStrongPassword requires at least 6 characters with one lowercase
// letter, one uppercase letter, one digit and one special character.
// Go's regexp has no lookahead, so the classes are checked separately.
func IsStrongPassword(password string) bool {
	if len(password) < 6 {
		return false
	}
	return lowercasePattern.MatchString(password) &&
		uppercasePattern.MatchString(password) &&
		digitPattern.MatchString(password) &&
		specialPattern.MatchString(password)
}
