package auth

import "strings"

const phoneDigits = 11

// NormalizePhoneInput keeps only ASCII digits and cuts the result to 11 characters.
func NormalizePhoneInput(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if b.Len() == phoneDigits {
			break
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
