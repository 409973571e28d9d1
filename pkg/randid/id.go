// Package randid provides random ID generation utilities.
package randid

import "math/rand/v2"

const idChars = "abcdefghijklmnopqrstuvwxyz0123456789"

// Generate creates a random lowercase alphanumeric ID of the specified length.
func Generate(length int) string {
	if length <= 0 {
		return ""
	}
	b := make([]byte, length)
	for i := range b {
		b[i] = idChars[rand.IntN(len(idChars))]
	}
	return string(b)
}
