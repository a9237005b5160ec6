package core

import "github.com/google/uuid"

// NewID generates a unique identifier used for inputs, responses and
// appointment records.
func NewID() string { return uuid.NewString() }
