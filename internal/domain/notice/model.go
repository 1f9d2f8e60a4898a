package notice

import (
	"errors"
	"time"
)

// Notice types
const (
	TypeClubWide      = "club_wide"
	TypeClassSpecific = "class_specific"
)

// Notice statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Domain errors
var (
	ErrEmptyTitle    = errors.New("notice title cannot be empty")
	ErrEmptyContent  = errors.New("notice content cannot be empty")
	ErrInvalidType   = errors.New("notice type must be one of: club_wide, class_specific")
	ErrInvalidStatus = errors.New("notice status must be one of: draft, published")
)

// ValidTypes contains all valid notice types.
var ValidTypes = []string{TypeClubWide, TypeClassSpecific}

// ValidStatuses contains all valid notice statuses.
var ValidStatuses = []string{StatusDraft, StatusPublished}

// Notice represents an announcement on the club board.
// Content supports Markdown formatting.
type Notice struct {
	ID        string
	Type      string // club_wide, class_specific
	Status    string // draft, published
	Title     string
	Content   string // Markdown content
	CreatedBy string // AccountID of creator
	TargetID  string // Class ID for class_specific, empty for club_wide
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks if the Notice has valid data.
// PRE: Notice struct is populated
// POST: Returns nil if valid, error otherwise
func (n *Notice) Validate() error {
	if n.Title == "" {
		return ErrEmptyTitle
	}
	if n.Content == "" {
		return ErrEmptyContent
	}
	if !contains(ValidTypes, n.Type) {
		return ErrInvalidType
	}
	if !contains(ValidStatuses, n.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// IsPublished returns true if the notice is visible on the board.
// INVARIANT: Notice fields are not mutated
func (n *Notice) IsPublished() bool {
	return n.Status == StatusPublished
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
