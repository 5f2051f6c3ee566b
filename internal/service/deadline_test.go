package service

import (
	"errors"
	"testing"
	"time"

	"github.com/greatson79/test1-lms-sub000/internal/model"
)

func TestCheckDeadline(t *testing.T) {
	due := time.Date(2025, 3, 1, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		name      string
		status    model.AssignmentStatus
		allowLate bool
		now       time.Time
		want      DeadlineCheck
	}{
		{"截止前", model.AssignmentStatusPublished, false, due.Add(-time.Minute), DeadlineCheck{Allowed: true}},
		{"恰好截止", model.AssignmentStatusPublished, false, due, DeadlineCheck{Allowed: true}},
		{"截止后_不允许迟交", model.AssignmentStatusPublished, false, due.Add(time.Second),
			DeadlineCheck{IsLate: true, Reason: ErrLateSubmissionBlocked}},
		{"截止后_允许迟交", model.AssignmentStatusPublished, true, due.Add(time.Second),
			DeadlineCheck{Allowed: true, IsLate: true}},
		{"已关闭_截止前", model.AssignmentStatusClosed, true, due.Add(-time.Hour),
			DeadlineCheck{Reason: ErrAssignmentClosed}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &model.Assignment{Status: tt.status, AllowLate: tt.allowLate, DueAt: due}
			got := CheckDeadline(a, tt.now)
			if got.Allowed != tt.want.Allowed || got.IsLate != tt.want.IsLate {
				t.Errorf("期望 Allowed=%v IsLate=%v，实际 Allowed=%v IsLate=%v",
					tt.want.Allowed, tt.want.IsLate, got.Allowed, got.IsLate)
			}
			if !errors.Is(got.Reason, tt.want.Reason) {
				t.Errorf("期望 Reason=%v，实际=%v", tt.want.Reason, got.Reason)
			}
		})
	}
}
