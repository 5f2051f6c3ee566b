package service

import (
	"errors"
	"time"

	"github.com/greatson79/test1-lms-sub000/internal/model"
)

var (
	ErrAssignmentClosed      = errors.New("作业已关闭，不再接受提交")
	ErrLateSubmissionBlocked = errors.New("已过截止时间且该作业不允许迟交")
)

// DeadlineCheck 截止时间校验结果
type DeadlineCheck struct {
	Allowed bool
	IsLate  bool
	Reason  error // Allowed=false 时为 ErrAssignmentClosed 或 ErrLateSubmissionBlocked
}

// CheckDeadline 首次提交与重新提交共用的截止策略
//
// 仅当 now 严格晚于 due_at 时视为迟交，恰好等于 due_at 不算迟交
func CheckDeadline(assignment *model.Assignment, now time.Time) DeadlineCheck {
	if assignment.Status == model.AssignmentStatusClosed {
		return DeadlineCheck{Reason: ErrAssignmentClosed}
	}

	late := now.After(assignment.DueAt)
	if late && !assignment.AllowLate {
		return DeadlineCheck{IsLate: true, Reason: ErrLateSubmissionBlocked}
	}

	return DeadlineCheck{Allowed: true, IsLate: late}
}
