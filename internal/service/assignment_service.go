package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/greatson79/test1-lms-sub000/internal/dto"
	"github.com/greatson79/test1-lms-sub000/internal/model"
	"github.com/greatson79/test1-lms-sub000/internal/repository"
)

var ErrAssignmentNotFound = errors.New("作业不存在")

// AssignmentService 作业业务接口
//
// 讲师侧按归属校验，可见全部状态；学员侧需有效选课，只能看到 published/closed
type AssignmentService interface {
	Create(ctx context.Context, courseID string, req *dto.CreateAssignmentRequest, instructorID string) (*dto.AssignmentResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateAssignmentRequest, instructorID string) (*dto.AssignmentResponse, error)
	ChangeStatus(ctx context.Context, id string, target model.AssignmentStatus, instructorID string) (*dto.AssignmentResponse, error)
	ListForInstructor(ctx context.Context, courseID, instructorID string) ([]dto.AssignmentResponse, error)
	GetForInstructor(ctx context.Context, id, instructorID string) (*dto.AssignmentResponse, error)

	ListForLearner(ctx context.Context, courseID, learnerID string) ([]dto.LearnerAssignmentResponse, error)
	GetForLearner(ctx context.Context, courseID, id, learnerID string) (*dto.LearnerAssignmentResponse, error)
}

type assignmentService struct {
	repo   *repository.Repository
	guard  EnrollmentGuard
	owners OwnerResolver
	now    Clock
	logger *zap.Logger
}

// NewAssignmentService 创建 AssignmentService 实例
func NewAssignmentService(
	repo *repository.Repository,
	guard EnrollmentGuard,
	owners OwnerResolver,
	now Clock,
	logger *zap.Logger,
) AssignmentService {
	return &assignmentService{
		repo:   repo,
		guard:  guard,
		owners: owners,
		now:    defaultClock(now),
		logger: logger,
	}
}

// ────────────────────── Create ──────────────────────

func (s *assignmentService) Create(ctx context.Context, courseID string, req *dto.CreateAssignmentRequest, instructorID string) (*dto.AssignmentResponse, error) {
	if _, err := s.owners.RequireCourseOwner(ctx, courseID, instructorID); err != nil {
		return nil, err
	}

	assignment := &model.Assignment{
		CourseID:      courseID,
		Title:         req.Title,
		Description:   req.Description,
		DueAt:         req.DueAt,
		Weight:        req.Weight,
		AllowLate:     req.AllowLate,
		AllowResubmit: req.AllowResubmit,
		Status:        model.AssignmentStatusDraft,
	}

	if err := s.repo.Assignment.Create(ctx, assignment); err != nil {
		s.logger.Error("创建作业失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	resp := toAssignmentResponse(assignment)
	return &resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *assignmentService) Update(ctx context.Context, id string, req *dto.UpdateAssignmentRequest, instructorID string) (*dto.AssignmentResponse, error) {
	assignment, err := s.owners.RequireAssignmentOwner(ctx, id, instructorID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		assignment.Title = *req.Title
	}
	if req.Description != nil {
		assignment.Description = *req.Description
	}
	if req.DueAt != nil {
		assignment.DueAt = *req.DueAt
	}
	if req.Weight != nil {
		assignment.Weight = *req.Weight
	}
	if req.AllowLate != nil {
		assignment.AllowLate = *req.AllowLate
	}
	if req.AllowResubmit != nil {
		assignment.AllowResubmit = *req.AllowResubmit
	}

	if err := s.repo.Assignment.Update(ctx, assignment); err != nil {
		s.logger.Error("更新作业失败", zap.String("assignment_id", id), zap.Error(err))
		return nil, err
	}

	resp := toAssignmentResponse(assignment)
	return &resp, nil
}

// ────────────────────── ChangeStatus ──────────────────────

func (s *assignmentService) ChangeStatus(ctx context.Context, id string, target model.AssignmentStatus, instructorID string) (*dto.AssignmentResponse, error) {
	assignment, err := s.owners.RequireAssignmentOwner(ctx, id, instructorID)
	if err != nil {
		return nil, err
	}

	if !model.IsAllowedAssignmentTransition(assignment.Status, target) {
		return nil, newTransitionError("assignment", assignment.Status, target)
	}

	now := s.now()
	if err := s.repo.Assignment.UpdateStatus(ctx, id, assignment.Status, target, now); err != nil {
		s.logger.Warn("作业状态更新失败",
			zap.String("assignment_id", id), zap.String("from", string(assignment.Status)),
			zap.String("to", string(target)), zap.Error(err))
		return nil, err
	}

	assignment.Status = target
	assignment.UpdatedAt = now
	resp := toAssignmentResponse(assignment)
	return &resp, nil
}

// ────────────────────── ListForInstructor ──────────────────────

func (s *assignmentService) ListForInstructor(ctx context.Context, courseID, instructorID string) ([]dto.AssignmentResponse, error) {
	if _, err := s.owners.RequireCourseOwner(ctx, courseID, instructorID); err != nil {
		return nil, err
	}

	assignments, err := s.repo.Assignment.ListByCourse(ctx, courseID, false)
	if err != nil {
		s.logger.Error("查询作业列表失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.AssignmentResponse, 0, len(assignments))
	for i := range assignments {
		result = append(result, toAssignmentResponse(&assignments[i]))
	}
	return result, nil
}

// ────────────────────── GetForInstructor ──────────────────────

func (s *assignmentService) GetForInstructor(ctx context.Context, id, instructorID string) (*dto.AssignmentResponse, error) {
	assignment, err := s.owners.RequireAssignmentOwner(ctx, id, instructorID)
	if err != nil {
		return nil, err
	}
	resp := toAssignmentResponse(assignment)
	return &resp, nil
}

// ────────────────────── ListForLearner ──────────────────────

func (s *assignmentService) ListForLearner(ctx context.Context, courseID, learnerID string) ([]dto.LearnerAssignmentResponse, error) {
	if err := s.guard.RequireActive(ctx, courseID, learnerID); err != nil {
		return nil, err
	}

	assignments, err := s.repo.Assignment.ListByCourse(ctx, courseID, true)
	if err != nil {
		s.logger.Error("查询作业列表失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	ids := make([]string, 0, len(assignments))
	for i := range assignments {
		ids = append(ids, assignments[i].AssignmentID)
	}
	submissions, err := s.repo.Submission.ListByLearner(ctx, learnerID, ids)
	if err != nil {
		s.logger.Error("查询提交记录失败", zap.String("learner_id", learnerID), zap.Error(err))
		return nil, err
	}
	byAssignment := make(map[string]*model.Submission, len(submissions))
	for i := range submissions {
		byAssignment[submissions[i].AssignmentID] = &submissions[i]
	}

	result := make([]dto.LearnerAssignmentResponse, 0, len(assignments))
	for i := range assignments {
		item := dto.LearnerAssignmentResponse{AssignmentResponse: toAssignmentResponse(&assignments[i])}
		if sub, ok := byAssignment[assignments[i].AssignmentID]; ok {
			resp := toSubmissionResponse(sub)
			item.Submission = &resp
		}
		result = append(result, item)
	}
	return result, nil
}

// ────────────────────── GetForLearner ──────────────────────

func (s *assignmentService) GetForLearner(ctx context.Context, courseID, id, learnerID string) (*dto.LearnerAssignmentResponse, error) {
	if err := s.guard.RequireActive(ctx, courseID, learnerID); err != nil {
		return nil, err
	}

	assignment, err := loadLearnerAssignment(ctx, s.repo, s.logger, courseID, id)
	if err != nil {
		return nil, err
	}

	item := &dto.LearnerAssignmentResponse{AssignmentResponse: toAssignmentResponse(assignment)}
	sub, err := s.repo.Submission.GetByAssignmentAndLearner(ctx, id, learnerID)
	switch {
	case err == nil:
		resp := toSubmissionResponse(sub)
		item.Submission = &resp
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		s.logger.Error("查询提交记录失败", zap.String("assignment_id", id), zap.Error(err))
		return nil, err
	}
	return item, nil
}

// ── 内部辅助方法 ──

// loadLearnerAssignment 学员视角加载作业：不属于该课程或仍是草稿时均视为不存在
func loadLearnerAssignment(ctx context.Context, repo *repository.Repository, logger *zap.Logger, courseID, id string) (*model.Assignment, error) {
	assignment, err := repo.Assignment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		logger.Error("查询作业失败", zap.String("assignment_id", id), zap.Error(err))
		return nil, err
	}
	if assignment.CourseID != courseID || !assignment.VisibleToLearner() {
		return nil, ErrAssignmentNotFound
	}
	return assignment, nil
}

func toAssignmentResponse(a *model.Assignment) dto.AssignmentResponse {
	return dto.AssignmentResponse{
		ID:            a.AssignmentID,
		CourseID:      a.CourseID,
		Title:         a.Title,
		Description:   a.Description,
		DueAt:         formatTime(a.DueAt),
		Weight:        a.Weight,
		AllowLate:     a.AllowLate,
		AllowResubmit: a.AllowResubmit,
		Status:        string(a.Status),
		CreatedAt:     formatTime(a.CreatedAt),
		UpdatedAt:     formatTime(a.UpdatedAt),
	}
}
