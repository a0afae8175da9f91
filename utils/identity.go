package utils

import "strings"

// NormalizeEmail is the canonical form used for every stored or compared
// identity (user emails and job technician fields).
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeRole is the canonical form of a role name.
func NormalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}
