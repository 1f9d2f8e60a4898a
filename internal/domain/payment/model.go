package payment

import (
	"errors"
	"time"
)

// Payment method constants
const (
	MethodCash     = "cash"
	MethodCard     = "card"
	MethodTransfer = "transfer"
)

// ValidMethods contains all valid method values.
var ValidMethods = []string{MethodCash, MethodCard, MethodTransfer}

// Payment records one monthly fee payment by a trainee.
type Payment struct {
	ID        string
	TraineeID string
	Amount    float64
	Month     string // YYYY-MM
	Method    string
	PaidAt    time.Time
}

// Validate checks if the Payment has valid data.
// PRE: Payment struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: TraineeID must not be empty, Amount must be positive
func (p *Payment) Validate() error {
	if p.TraineeID == "" {
		return errors.New("payment must be associated with a trainee")
	}
	if p.Amount <= 0 {
		return errors.New("payment amount must be positive")
	}
	if p.Month == "" {
		return errors.New("payment month cannot be empty")
	}
	if p.Method != "" && !validMethod(p.Method) {
		return errors.New("method must be one of: cash, card, transfer")
	}
	return nil
}

func validMethod(m string) bool {
	for _, v := range ValidMethods {
		if v == m {
			return true
		}
	}
	return false
}
