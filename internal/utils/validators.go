package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsValidEmail applies the same lightweight check the registration forms do:
// exactly one "@" with a non-empty local part and a dotted domain. Anything
// stricter belongs to the mail system, not the form.
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.IndexByte(email, '@')
	if at < 1 || at != strings.LastIndexByte(email, '@') {
		return false
	}
	domain := email[at+1:]
	dot := strings.IndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}

// IsComplexPassword requires at least 8 characters covering upper, lower,
// digit and symbol. The registration error message spells out these rules;
// keep the two in sync.
func IsComplexPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	return upper && lower && digit && special
}

// IsValidDisplayName limits display names to something safe to stamp into
// export file names: printable, no path separators, at most 64 runes. Empty
// is fine, exports fall back to "Anonymous".
func IsValidDisplayName(name string) bool {
	if utf8.RuneCountInString(name) > 64 {
		return false
	}
	for _, r := range name {
		if !unicode.IsPrint(r) || r == '/' || r == '\\' {
			return false
		}
	}
	return true
}
