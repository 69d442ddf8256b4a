package crypto

import "strings"

// MaskSecret renders a secret for non-privileged contexts. Short values
// (length <= 2*visibleChars) are fully masked at their original length so
// nothing about the value leaks beyond its size.
func MaskSecret(value string, visibleChars int) string {
	if visibleChars <= 0 {
		visibleChars = 4
	}
	if len(value) <= 2*visibleChars {
		return strings.Repeat("*", len(value))
	}
	return value[:visibleChars] + "..." + value[len(value)-visibleChars:]
}
