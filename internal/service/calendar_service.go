package service

import (
	"context"
	"fmt"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/greatson79/test1-lms-sub000/internal/model"
	"github.com/greatson79/test1-lms-sub000/internal/repository"
)

// ── 作业日历 ──────────────────────────────────────────────
//
// 将学员可见的作业导出为 iCalendar (RFC 5545)：
//   - 每个作业一个 VEVENT，DTSTART = DTEND = due_at
//   - UID 使用作业 ID，重复订阅时日历客户端可按 UID 去重更新
//   - closed 作业的事件标记为 CANCELLED
// ─────────────────────────────────────────────────────────────

const calendarProductID = "-//lms//assignments//ZH"

// CalendarService 作业日历业务接口
type CalendarService interface {
	LearnerAssignments(ctx context.Context, courseID, learnerID string) ([]byte, string, error)
}

type calendarService struct {
	repo    *repository.Repository
	guard   EnrollmentGuard
	baseURL string
	now     Clock
	logger  *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(repo *repository.Repository, guard EnrollmentGuard, baseURL string, now Clock, logger *zap.Logger) CalendarService {
	return &calendarService{
		repo:    repo,
		guard:   guard,
		baseURL: baseURL,
		now:     defaultClock(now),
		logger:  logger,
	}
}

func (s *calendarService) LearnerAssignments(ctx context.Context, courseID, learnerID string) ([]byte, string, error) {
	if err := s.guard.RequireActive(ctx, courseID, learnerID); err != nil {
		return nil, "", err
	}

	course, err := getCourseOrNotFound(ctx, s.repo, s.logger, courseID)
	if err != nil {
		return nil, "", err
	}

	assignments, err := s.repo.Assignment.ListByCourse(ctx, courseID, true)
	if err != nil {
		s.logger.Error("查询作业列表失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, "", err
	}

	now := s.now()
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetXWRCalName(course.Title)

	for i := range assignments {
		a := &assignments[i]
		event := cal.AddEvent(a.AssignmentID + "@lms")
		event.SetDtStampTime(now)
		event.SetCreatedTime(a.CreatedAt)
		event.SetModifiedAt(a.UpdatedAt)
		event.SetStartAt(a.DueAt)
		event.SetEndAt(a.DueAt)
		event.SetSummary(fmt.Sprintf("[%s] %s", course.Title, a.Title))
		if a.Description != "" {
			event.SetDescription(a.Description)
		}
		if s.baseURL != "" {
			event.SetURL(fmt.Sprintf("%s/my/courses/%s/assignments/%s", s.baseURL, courseID, a.AssignmentID))
		}
		if a.Status == model.AssignmentStatusClosed {
			event.SetStatus(ics.ObjectStatusCancelled)
		}
	}

	filename := fmt.Sprintf("course-%s.ics", courseID)
	return []byte(cal.Serialize()), filename, nil
}
