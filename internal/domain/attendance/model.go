package attendance

import (
	"errors"
	"time"
)

// Attendance records whether a trainee showed up to a session.
type Attendance struct {
	ID        string
	TraineeID string
	ClassDate string // YYYY-MM-DD format
	Present   bool
}

// Validate checks if the Attendance has valid data.
// PRE: Attendance struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: TraineeID must not be empty, ClassDate must be a calendar date
func (a *Attendance) Validate() error {
	if a.TraineeID == "" {
		return errors.New("attendance must be associated with a trainee")
	}
	if _, err := time.Parse("2006-01-02", a.ClassDate); err != nil {
		return errors.New("class date must be in YYYY-MM-DD format")
	}
	return nil
}
