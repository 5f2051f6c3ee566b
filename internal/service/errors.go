package service

import (
	"errors"
	"fmt"
)

// ── 跨模块通用业务错误 ──

var (
	ErrForbidden = errors.New("无权操作该资源")
)

// ── 状态跳转错误 ──

var (
	ErrInvalidCourseStatusTransition     = errors.New("无效的课程状态跳转")
	ErrInvalidAssignmentStatusTransition = errors.New("无效的作业状态跳转")
	ErrInvalidSubmissionStatusTransition = errors.New("无效的提交状态跳转")
	ErrInvalidReportStatusTransition     = errors.New("无效的举报状态跳转")
)

var transitionSentinels = map[string]error{
	"course":     ErrInvalidCourseStatusTransition,
	"assignment": ErrInvalidAssignmentStatusTransition,
	"submission": ErrInvalidSubmissionStatusTransition,
	"report":     ErrInvalidReportStatusTransition,
}

// TransitionError 非法状态跳转，携带当前与目标状态
// errors.Is 可匹配对应实体的 ErrInvalidXxxStatusTransition
type TransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *TransitionError) Error() string {
	msg := "无效的状态跳转"
	if sentinel := e.Unwrap(); sentinel != nil {
		msg = sentinel.Error()
	}
	return fmt.Sprintf("%s: %s → %s", msg, e.From, e.To)
}

// Unwrap 返回实体对应的哨兵错误
func (e *TransitionError) Unwrap() error {
	return transitionSentinels[e.Entity]
}

func newTransitionError[S ~string](entity string, from, to S) *TransitionError {
	return &TransitionError{Entity: entity, From: string(from), To: string(to)}
}
