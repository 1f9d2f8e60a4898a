package notice_test

import (
	"errors"
	"testing"
	"time"

	"courtside/internal/domain/notice"
)

// TestNotice_Validate tests validation of Notice.
func TestNotice_Validate(t *testing.T) {
	tests := []struct {
		name    string
		notice  notice.Notice
		wantErr error
	}{
		{
			name: "valid club_wide notice",
			notice: notice.Notice{
				ID: "1", Type: notice.TypeClubWide, Status: notice.StatusDraft,
				Title: "Gym closed Friday", Content: "No practice this Friday.", CreatedBy: "acct-1", CreatedAt: time.Now(),
			},
		},
		{
			name: "valid class_specific notice",
			notice: notice.Notice{
				ID: "2", Type: notice.TypeClassSpecific, Status: notice.StatusPublished,
				Title: "Tournament reminder", Content: "Juniors play Saturday at **10:00**.", CreatedBy: "acct-1", TargetID: "cls-1", CreatedAt: time.Now(),
			},
		},
		{
			name: "empty title",
			notice: notice.Notice{
				ID: "3", Type: notice.TypeClubWide, Status: notice.StatusDraft,
				Content: "body", CreatedBy: "acct-1",
			},
			wantErr: notice.ErrEmptyTitle,
		},
		{
			name: "empty content",
			notice: notice.Notice{
				ID: "4", Type: notice.TypeClubWide, Status: notice.StatusDraft,
				Title: "title", CreatedBy: "acct-1",
			},
			wantErr: notice.ErrEmptyContent,
		},
		{
			name: "unknown type",
			notice: notice.Notice{
				ID: "5", Type: "school_wide", Status: notice.StatusDraft,
				Title: "title", Content: "body", CreatedBy: "acct-1",
			},
			wantErr: notice.ErrInvalidType,
		},
		{
			name: "unknown status",
			notice: notice.Notice{
				ID: "6", Type: notice.TypeClubWide, Status: "archived",
				Title: "title", Content: "body", CreatedBy: "acct-1",
			},
			wantErr: notice.ErrInvalidStatus,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.notice.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestNotice_IsPublished tests the board visibility check.
func TestNotice_IsPublished(t *testing.T) {
	n := notice.Notice{Status: notice.StatusDraft}
	if n.IsPublished() {
		t.Error("draft notice should not be published")
	}
	n.Status = notice.StatusPublished
	if !n.IsPublished() {
		t.Error("published notice should report IsPublished")
	}
}
