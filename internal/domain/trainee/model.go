package trainee

import (
	"errors"
	"strings"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Business rule constants
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Domain errors
var (
	ErrAlreadyInactive = errors.New("trainee is already inactive")
	ErrAlreadyActive   = errors.New("trainee is already active")
)

// Trainee holds state for one registered player.
type Trainee struct {
	ID         string
	NameAr     string
	NameEn     string
	Phone      string
	BirthDate  string // YYYY-MM-DD
	ClassID    string
	MonthlyFee float64
	Status     string
}

// Validate checks if the Trainee has valid data.
// PRE: Trainee struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: NameAr must not be empty
func (t *Trainee) Validate() error {
	if strings.TrimSpace(t.NameAr) == "" {
		return errors.New("trainee name cannot be empty")
	}
	if len(t.NameAr) > MaxNameLength || len(t.NameEn) > MaxNameLength {
		return errors.New("trainee name cannot exceed 100 characters")
	}
	if t.Status != StatusActive && t.Status != StatusInactive {
		return errors.New("status must be 'active' or 'inactive'")
	}
	if t.MonthlyFee < 0 {
		return errors.New("monthly fee cannot be negative")
	}
	return nil
}

// IsActive returns true if the trainee is currently active.
// INVARIANT: Status field is not mutated
func (t *Trainee) IsActive() bool {
	return t.Status == StatusActive
}

// Deactivate sets the trainee status to inactive.
// PRE: Trainee is not already inactive
// POST: Status is set to inactive
func (t *Trainee) Deactivate() error {
	if t.Status == StatusInactive {
		return ErrAlreadyInactive
	}
	t.Status = StatusInactive
	return nil
}

// Activate sets the trainee status back to active.
// PRE: Trainee is currently inactive
// POST: Status is set to active
func (t *Trainee) Activate() error {
	if t.Status == StatusActive {
		return ErrAlreadyActive
	}
	t.Status = StatusActive
	return nil
}
