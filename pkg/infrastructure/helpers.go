package infrastructure

import (
	"github.com/google/uuid"
)

// GenerateUUID satisfaz domain.IDGenerator[string].
func GenerateUUID() string {
	return uuid.New().String()
}
