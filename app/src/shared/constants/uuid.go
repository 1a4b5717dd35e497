package constants

import (
	"fmt"

	sharederrors "quote-frontend/app/src/shared/errors"

	"github.com/google/uuid"
)

// GenerateUUID returns a randomly generated UUIDv4 string.
func GenerateUUID() string {
	return uuid.NewString()
}

// ParseUUID validates the supplied UUID string and returns its canonical lowercase form.
func ParseUUID(value string) (string, error) {
	if len(value) != 36 {
		return "", fmt.Errorf("%w: length %d", sharederrors.ErrInvalidUUID, len(value))
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return "", fmt.Errorf("%w: %v", sharederrors.ErrInvalidUUID, err)
	}
	return id.String(), nil
}

// RequestID returns the incoming id when it is a valid UUID and a fresh one otherwise.
func RequestID(incoming string) string {
	if id, err := ParseUUID(incoming); err == nil {
		return id
	}
	return GenerateUUID()
}
