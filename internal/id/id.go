// Package id generates the opaque identifiers used for sessions.
package id

import (
	"fmt"
	"strconv"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// SessionIDLength is the length of the random part of a session ID.
const SessionIDLength = 21

// NewSessionID returns "<unix-millis>-<nanoid>". The millisecond prefix keeps
// IDs roughly ordered by login time when listing session keys; the NanoID
// suffix carries the entropy.
//
// Returns an error if the system has insufficient entropy for secure random generation.
func NewSessionID(now time.Time) (string, error) {
	suffix, err := gonanoid.New(SessionIDLength)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + suffix, nil
}

