package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/greatson79/test1-lms-sub000/internal/dto"
	"github.com/greatson79/test1-lms-sub000/internal/model"
	"github.com/greatson79/test1-lms-sub000/internal/repository"
)

// ── 提交模块业务错误 ──

var (
	ErrSubmissionNotFound   = errors.New("提交记录不存在")
	ErrAlreadySubmitted     = errors.New("已提交过该作业，请使用重新提交")
	ErrResubmitNotRequested = errors.New("讲师未要求重新提交")
	ErrResubmitNotAllowed   = errors.New("该作业不允许重新提交")
	ErrInvalidScore         = errors.New("分数超出允许范围")
)

// SubmissionService 提交业务接口
//
// 状态机：
//
//	(无) ──Submit──▶ submitted ──Grade──▶ graded
//	                     │                  │
//	                     └─RequestResubmission─▶ resubmission_required ──Resubmit──▶ submitted
//
// invalidated 只能由举报处理进入，不在此接口中出现
type SubmissionService interface {
	Submit(ctx context.Context, courseID, assignmentID, learnerID string, req *dto.SubmitRequest) (*dto.SubmissionResponse, error)
	Resubmit(ctx context.Context, courseID, assignmentID, learnerID string, req *dto.SubmitRequest) (*dto.SubmissionResponse, error)
	Grade(ctx context.Context, submissionID string, req *dto.GradeRequest, instructorID string) (*dto.SubmissionResponse, error)
	RequestResubmission(ctx context.Context, submissionID string, req *dto.RequestResubmissionRequest, instructorID string) (*dto.SubmissionResponse, error)
	ListByAssignment(ctx context.Context, assignmentID, instructorID string) ([]dto.SubmissionResponse, error)
}

type submissionService struct {
	repo     *repository.Repository
	guard    EnrollmentGuard
	owners   OwnerResolver
	maxScore int
	now      Clock
	logger   *zap.Logger
}

// NewSubmissionService 创建 SubmissionService 实例
func NewSubmissionService(
	repo *repository.Repository,
	guard EnrollmentGuard,
	owners OwnerResolver,
	maxScore int,
	now Clock,
	logger *zap.Logger,
) SubmissionService {
	return &submissionService{
		repo:     repo,
		guard:    guard,
		owners:   owners,
		maxScore: maxScore,
		now:      defaultClock(now),
		logger:   logger,
	}
}

// ────────────────────── Submit ──────────────────────

func (s *submissionService) Submit(ctx context.Context, courseID, assignmentID, learnerID string, req *dto.SubmitRequest) (*dto.SubmissionResponse, error) {
	// 1. 有效选课
	if err := s.guard.RequireActive(ctx, courseID, learnerID); err != nil {
		return nil, err
	}

	// 2. 作业存在且非草稿
	assignment, err := loadLearnerAssignment(ctx, s.repo, s.logger, courseID, assignmentID)
	if err != nil {
		return nil, err
	}

	// 3. 截止策略
	now := s.now()
	check := CheckDeadline(assignment, now)
	if !check.Allowed {
		return nil, check.Reason
	}

	// 4. 首次提交不得覆盖已有记录
	if _, err := s.repo.Submission.GetByAssignmentAndLearner(ctx, assignmentID, learnerID); err == nil {
		return nil, ErrAlreadySubmitted
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询提交记录失败", zap.String("assignment_id", assignmentID), zap.Error(err))
		return nil, err
	}

	submission := &model.Submission{
		AssignmentID: assignmentID,
		LearnerID:    learnerID,
		ContentText:  req.ContentText,
		ContentURL:   strings.TrimSpace(req.ContentURL),
		IsLate:       check.IsLate,
		Status:       model.SubmissionStatusSubmitted,
		SubmittedAt:  now,
	}
	if err := s.repo.Submission.Create(ctx, submission); err != nil {
		// 唯一索引兜底并发的首次提交
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadySubmitted
		}
		s.logger.Error("创建提交记录失败", zap.String("assignment_id", assignmentID), zap.Error(err))
		return nil, err
	}

	resp := toSubmissionResponse(submission)
	return &resp, nil
}

// ────────────────────── Resubmit ──────────────────────

func (s *submissionService) Resubmit(ctx context.Context, courseID, assignmentID, learnerID string, req *dto.SubmitRequest) (*dto.SubmissionResponse, error) {
	if err := s.guard.RequireActive(ctx, courseID, learnerID); err != nil {
		return nil, err
	}

	assignment, err := loadLearnerAssignment(ctx, s.repo, s.logger, courseID, assignmentID)
	if err != nil {
		return nil, err
	}

	submission, err := s.repo.Submission.GetByAssignmentAndLearner(ctx, assignmentID, learnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		s.logger.Error("查询提交记录失败", zap.String("assignment_id", assignmentID), zap.Error(err))
		return nil, err
	}

	// allow_resubmit 为 true 也不代表可以主动重交，必须先被要求
	if submission.Status != model.SubmissionStatusResubmissionRequired {
		return nil, ErrResubmitNotRequested
	}
	if !assignment.AllowResubmit {
		return nil, ErrResubmitNotAllowed
	}

	now := s.now()
	check := CheckDeadline(assignment, now)
	if !check.Allowed {
		return nil, check.Reason
	}

	submission.ContentText = req.ContentText
	submission.ContentURL = strings.TrimSpace(req.ContentURL)
	submission.IsLate = check.IsLate
	submission.SubmittedAt = now

	if err := s.repo.Submission.Resubmit(ctx, submission); err != nil {
		s.logger.Warn("重新提交失败", zap.String("submission_id", submission.SubmissionID), zap.Error(err))
		return nil, err
	}

	submission.Status = model.SubmissionStatusSubmitted
	submission.Score = nil
	submission.Feedback = nil
	submission.GradedAt = nil

	resp := toSubmissionResponse(submission)
	return &resp, nil
}

// ────────────────────── Grade ──────────────────────

func (s *submissionService) Grade(ctx context.Context, submissionID string, req *dto.GradeRequest, instructorID string) (*dto.SubmissionResponse, error) {
	submission, err := s.loadOwnedSubmission(ctx, submissionID, instructorID)
	if err != nil {
		return nil, err
	}

	score := *req.Score
	if score < 0 || score > s.maxScore {
		return nil, ErrInvalidScore
	}

	if !model.IsAllowedSubmissionTransition(submission.Status, model.SubmissionStatusGraded) {
		return nil, newTransitionError("submission",
			submission.Status, model.SubmissionStatusGraded)
	}

	now := s.now()
	if err := s.repo.Submission.Grade(ctx, submissionID, submission.Status, score, req.Feedback, now); err != nil {
		s.logger.Warn("评分失败", zap.String("submission_id", submissionID), zap.Error(err))
		return nil, err
	}

	submission.Status = model.SubmissionStatusGraded
	submission.Score = &score
	submission.Feedback = req.Feedback
	submission.GradedAt = &now

	resp := toSubmissionResponse(submission)
	return &resp, nil
}

// ────────────────────── RequestResubmission ──────────────────────

func (s *submissionService) RequestResubmission(ctx context.Context, submissionID string, req *dto.RequestResubmissionRequest, instructorID string) (*dto.SubmissionResponse, error) {
	submission, err := s.loadOwnedSubmission(ctx, submissionID, instructorID)
	if err != nil {
		return nil, err
	}

	// 作业不允许重交时拒绝，否则学员会停在 resubmission_required 无法继续
	if submission.Assignment != nil && !submission.Assignment.AllowResubmit {
		return nil, ErrResubmitNotAllowed
	}

	if !model.IsAllowedSubmissionTransition(submission.Status, model.SubmissionStatusResubmissionRequired) {
		return nil, newTransitionError("submission",
			submission.Status, model.SubmissionStatusResubmissionRequired)
	}

	now := s.now()
	if err := s.repo.Submission.RequestResubmission(ctx, submissionID, submission.Status, req.Feedback, now); err != nil {
		s.logger.Warn("要求重新提交失败", zap.String("submission_id", submissionID), zap.Error(err))
		return nil, err
	}

	feedback := req.Feedback
	submission.Status = model.SubmissionStatusResubmissionRequired
	submission.Score = nil
	submission.Feedback = &feedback
	submission.GradedAt = nil

	resp := toSubmissionResponse(submission)
	return &resp, nil
}

// ────────────────────── ListByAssignment ──────────────────────

func (s *submissionService) ListByAssignment(ctx context.Context, assignmentID, instructorID string) ([]dto.SubmissionResponse, error) {
	if _, err := s.owners.RequireAssignmentOwner(ctx, assignmentID, instructorID); err != nil {
		return nil, err
	}

	submissions, err := s.repo.Submission.ListByAssignment(ctx, assignmentID)
	if err != nil {
		s.logger.Error("查询提交列表失败", zap.String("assignment_id", assignmentID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.SubmissionResponse, 0, len(submissions))
	for i := range submissions {
		result = append(result, toSubmissionResponse(&submissions[i]))
	}
	return result, nil
}

// ── 内部辅助方法 ──

// loadOwnedSubmission 提交 → 作业 → 课程 → 讲师
func (s *submissionService) loadOwnedSubmission(ctx context.Context, submissionID, instructorID string) (*model.Submission, error) {
	submission, err := s.repo.Submission.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		s.logger.Error("查询提交记录失败", zap.String("submission_id", submissionID), zap.Error(err))
		return nil, err
	}

	assignment, err := s.owners.RequireAssignmentOwner(ctx, submission.AssignmentID, instructorID)
	if err != nil {
		return nil, err
	}
	submission.Assignment = assignment
	return submission, nil
}

func toSubmissionResponse(sub *model.Submission) dto.SubmissionResponse {
	resp := dto.SubmissionResponse{
		ID:           sub.SubmissionID,
		AssignmentID: sub.AssignmentID,
		LearnerID:    sub.LearnerID,
		ContentText:  sub.ContentText,
		ContentURL:   sub.ContentURL,
		IsLate:       sub.IsLate,
		Status:       string(sub.Status),
		Score:        sub.Score,
		Feedback:     sub.Feedback,
		SubmittedAt:  formatTime(sub.SubmittedAt),
		GradedAt:     formatTimePtr(sub.GradedAt),
	}
	if sub.Learner != nil {
		resp.LearnerName = sub.Learner.Name
	}
	return resp
}
