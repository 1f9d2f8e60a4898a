package class

import (
	"errors"
	"strings"
)

// Class holds state for one training group (team).
type Class struct {
	ID        string
	Name      string
	TrainerID string
	Season    string
}

// Validate checks if the Class has valid data.
// PRE: Class struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (c *Class) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("class name cannot be empty")
	}
	return nil
}
