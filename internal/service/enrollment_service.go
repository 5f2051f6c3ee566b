package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/greatson79/test1-lms-sub000/internal/dto"
	"github.com/greatson79/test1-lms-sub000/internal/model"
	"github.com/greatson79/test1-lms-sub000/internal/repository"
	pkgerrors "github.com/greatson79/test1-lms-sub000/pkg/errors"
)

// ── 选课模块业务错误 ──

var (
	ErrEnrollmentNotFound = errors.New("没有有效的选课记录")
	ErrAlreadyEnrolled    = errors.New("已选修该课程")
)

// EnrollmentService 选课业务接口
type EnrollmentService interface {
	EnrollmentGuard
	// Enroll 首次选课插入新记录；已退课则复用原记录（清空 cancelled_at、重置 enrolled_at）
	Enroll(ctx context.Context, courseID, learnerID string) (*dto.EnrollResponse, error)
	// Cancel 仅对有效选课生效；重复退课返回 ErrEnrollmentNotFound，不会二次写入
	Cancel(ctx context.Context, courseID, learnerID string) error
	ListMyCourses(ctx context.Context, learnerID string) ([]dto.MyCourseResponse, error)
}

type enrollmentService struct {
	EnrollmentGuard
	repo   *repository.Repository
	now    Clock
	logger *zap.Logger
}

// NewEnrollmentService 创建 EnrollmentService 实例
func NewEnrollmentService(repo *repository.Repository, guard EnrollmentGuard, now Clock, logger *zap.Logger) EnrollmentService {
	return &enrollmentService{
		EnrollmentGuard: guard,
		repo:            repo,
		now:             defaultClock(now),
		logger:          logger,
	}
}

// ────────────────────── Enroll ──────────────────────

func (s *enrollmentService) Enroll(ctx context.Context, courseID, learnerID string) (*dto.EnrollResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}
	if course.Status != model.CourseStatusPublished {
		return nil, ErrCourseNotPublished
	}

	now := s.now()

	existing, err := s.repo.Enrollment.GetByCourseAndLearner(ctx, courseID, learnerID)
	switch {
	case err == nil:
		if existing.IsActive() {
			return nil, ErrAlreadyEnrolled
		}
		if err := s.repo.Enrollment.Reactivate(ctx, existing.EnrollmentID, now); err != nil {
			if errors.Is(err, pkgerrors.ErrStatusConflict) {
				// 并发请求已先一步恢复选课
				return nil, ErrAlreadyEnrolled
			}
			s.logger.Error("恢复选课失败", zap.String("enrollment_id", existing.EnrollmentID), zap.Error(err))
			return nil, err
		}
		existing.CancelledAt = nil
		existing.EnrolledAt = now
		return &dto.EnrollResponse{
			Action:     dto.EnrollActionReEnrolled,
			Enrollment: toEnrollmentResponse(existing),
		}, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		enrollment := &model.Enrollment{
			CourseID:   courseID,
			LearnerID:  learnerID,
			EnrolledAt: now,
		}
		if err := s.repo.Enrollment.Create(ctx, enrollment); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ErrAlreadyEnrolled
			}
			s.logger.Error("创建选课记录失败", zap.String("course_id", courseID), zap.Error(err))
			return nil, err
		}
		return &dto.EnrollResponse{
			Action:     dto.EnrollActionEnrolled,
			Enrollment: toEnrollmentResponse(enrollment),
		}, nil

	default:
		s.logger.Error("查询选课记录失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}
}

// ────────────────────── Cancel ──────────────────────

func (s *enrollmentService) Cancel(ctx context.Context, courseID, learnerID string) error {
	enrollment, err := s.repo.Enrollment.GetByCourseAndLearner(ctx, courseID, learnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEnrollmentNotFound
		}
		s.logger.Error("查询选课记录失败", zap.String("course_id", courseID), zap.Error(err))
		return err
	}
	if !enrollment.IsActive() {
		return ErrEnrollmentNotFound
	}

	if err := s.repo.Enrollment.Cancel(ctx, enrollment.EnrollmentID, s.now()); err != nil {
		if errors.Is(err, pkgerrors.ErrStatusConflict) {
			return ErrEnrollmentNotFound
		}
		s.logger.Error("退课失败", zap.String("enrollment_id", enrollment.EnrollmentID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── ListMyCourses ──────────────────────

func (s *enrollmentService) ListMyCourses(ctx context.Context, learnerID string) ([]dto.MyCourseResponse, error) {
	enrollments, err := s.repo.Enrollment.ListActiveByLearner(ctx, learnerID)
	if err != nil {
		s.logger.Error("查询我的课程失败", zap.String("learner_id", learnerID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.MyCourseResponse, 0, len(enrollments))
	for i := range enrollments {
		e := &enrollments[i]
		if e.Course == nil {
			continue
		}
		result = append(result, dto.MyCourseResponse{
			Enrollment: toEnrollmentResponse(e),
			Course:     toCourseResponse(e.Course, 0),
		})
	}
	return result, nil
}

func toEnrollmentResponse(e *model.Enrollment) dto.EnrollmentResponse {
	return dto.EnrollmentResponse{
		ID:          e.EnrollmentID,
		CourseID:    e.CourseID,
		LearnerID:   e.LearnerID,
		EnrolledAt:  formatTime(e.EnrolledAt),
		CancelledAt: formatTimePtr(e.CancelledAt),
	}
}
