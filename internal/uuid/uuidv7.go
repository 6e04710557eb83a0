// Package uuid issues the time-ordered identifiers used as primary keys.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New returns a UUIDv7 string. Falls back to a random v4 when the clock
// sequence cannot be read.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		return googleuuid.NewString()
	}
	return id.String()
}

// Parse validates s and returns it in canonical lowercase form.
func Parse(s string) (string, error) {
	parsed, err := googleuuid.Parse(s)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
