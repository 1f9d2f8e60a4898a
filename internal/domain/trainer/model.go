package trainer

import (
	"errors"
	"strings"
)

// Business rule constants
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Trainer holds state for one coach.
type Trainer struct {
	ID     string
	Name   string
	Phone  string
	Status string
}

// Validate checks if the Trainer has valid data.
// PRE: Trainer struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Name and Phone must not be empty
func (t *Trainer) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("trainer name cannot be empty")
	}
	if strings.TrimSpace(t.Phone) == "" {
		return errors.New("trainer phone cannot be empty")
	}
	if t.Status != StatusActive && t.Status != StatusInactive {
		return errors.New("status must be 'active' or 'inactive'")
	}
	return nil
}
