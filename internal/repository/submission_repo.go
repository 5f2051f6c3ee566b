package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/greatson79/test1-lms-sub000/internal/model"
	pkgerrors "github.com/greatson79/test1-lms-sub000/pkg/errors"
)

// SubmissionRepository 提交数据访问接口
//
// 所有状态变更均为条件更新（WHERE status = 期望状态），未命中返回 ErrStatusConflict
type SubmissionRepository interface {
	Create(ctx context.Context, submission *model.Submission) error
	GetByID(ctx context.Context, id string) (*model.Submission, error)
	GetByAssignmentAndLearner(ctx context.Context, assignmentID, learnerID string) (*model.Submission, error)
	ListByLearner(ctx context.Context, learnerID string, assignmentIDs []string) ([]model.Submission, error)
	ListByAssignment(ctx context.Context, assignmentID string) ([]model.Submission, error)
	ListByAssignments(ctx context.Context, assignmentIDs []string) ([]model.Submission, error)
	ListRecentByAssignments(ctx context.Context, assignmentIDs []string, limit int) ([]model.Submission, error)
	CountPendingByAssignments(ctx context.Context, assignmentIDs []string) (map[string]int64, error)

	// Resubmit 覆盖同一行：新内容、重置为 submitted、清空分数/评语/评分时间
	Resubmit(ctx context.Context, submission *model.Submission) error
	Grade(ctx context.Context, id string, from model.SubmissionStatus, score int, feedback *string, gradedAt time.Time) error
	RequestResubmission(ctx context.Context, id string, from model.SubmissionStatus, feedback string, at time.Time) error
	Invalidate(ctx context.Context, id string, from model.SubmissionStatus, at time.Time) error
}

type submissionRepo struct {
	db *gorm.DB
}

// NewSubmissionRepo 创建 SubmissionRepository 实例
func NewSubmissionRepo(db *gorm.DB) SubmissionRepository {
	return &submissionRepo{db: db}
}

func (r *submissionRepo) Create(ctx context.Context, submission *model.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepo) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	var submission model.Submission
	err := r.db.WithContext(ctx).
		Preload("Assignment").
		Where("submission_id = ?", id).
		First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepo) GetByAssignmentAndLearner(ctx context.Context, assignmentID, learnerID string) (*model.Submission, error) {
	var submission model.Submission
	err := r.db.WithContext(ctx).
		Where("assignment_id = ? AND learner_id = ?", assignmentID, learnerID).
		First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepo) ListByLearner(ctx context.Context, learnerID string, assignmentIDs []string) ([]model.Submission, error) {
	var submissions []model.Submission
	if len(assignmentIDs) == 0 {
		return submissions, nil
	}
	err := r.db.WithContext(ctx).
		Where("learner_id = ? AND assignment_id IN ?", learnerID, assignmentIDs).
		Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepo) ListByAssignment(ctx context.Context, assignmentID string) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.WithContext(ctx).
		Preload("Learner").
		Where("assignment_id = ?", assignmentID).
		Order("submitted_at ASC").
		Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepo) ListByAssignments(ctx context.Context, assignmentIDs []string) ([]model.Submission, error) {
	var submissions []model.Submission
	if len(assignmentIDs) == 0 {
		return submissions, nil
	}
	err := r.db.WithContext(ctx).
		Where("assignment_id IN ?", assignmentIDs).
		Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepo) ListRecentByAssignments(ctx context.Context, assignmentIDs []string, limit int) ([]model.Submission, error) {
	var submissions []model.Submission
	if len(assignmentIDs) == 0 {
		return submissions, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Learner").
		Preload("Assignment").
		Where("assignment_id IN ?", assignmentIDs).
		Order("submitted_at DESC").
		Limit(limit).
		Find(&submissions).Error
	return submissions, err
}

// CountPendingByAssignments 统计待评分（status = submitted）数量
func (r *submissionRepo) CountPendingByAssignments(ctx context.Context, assignmentIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(assignmentIDs))
	if len(assignmentIDs) == 0 {
		return counts, nil
	}

	type row struct {
		AssignmentID string
		Count        int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&model.Submission{}).
		Select("assignment_id, COUNT(*) AS count").
		Where("assignment_id IN ? AND status = ?", assignmentIDs, model.SubmissionStatusSubmitted).
		Group("assignment_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, rw := range rows {
		counts[rw.AssignmentID] = rw.Count
	}
	return counts, nil
}

func (r *submissionRepo) Resubmit(ctx context.Context, submission *model.Submission) error {
	return r.updateWhereStatus(ctx, submission.SubmissionID, model.SubmissionStatusResubmissionRequired, map[string]interface{}{
		"content_text": submission.ContentText,
		"content_url":  submission.ContentURL,
		"is_late":      submission.IsLate,
		"status":       model.SubmissionStatusSubmitted,
		"score":        nil,
		"feedback":     nil,
		"graded_at":    nil,
		"submitted_at": submission.SubmittedAt,
		"updated_at":   submission.SubmittedAt,
	})
}

func (r *submissionRepo) Grade(ctx context.Context, id string, from model.SubmissionStatus, score int, feedback *string, gradedAt time.Time) error {
	return r.updateWhereStatus(ctx, id, from, map[string]interface{}{
		"status":     model.SubmissionStatusGraded,
		"score":      score,
		"feedback":   feedback,
		"graded_at":  gradedAt,
		"updated_at": gradedAt,
	})
}

func (r *submissionRepo) RequestResubmission(ctx context.Context, id string, from model.SubmissionStatus, feedback string, at time.Time) error {
	return r.updateWhereStatus(ctx, id, from, map[string]interface{}{
		"status":     model.SubmissionStatusResubmissionRequired,
		"score":      nil,
		"feedback":   feedback,
		"graded_at":  nil,
		"updated_at": at,
	})
}

func (r *submissionRepo) Invalidate(ctx context.Context, id string, from model.SubmissionStatus, at time.Time) error {
	return r.updateWhereStatus(ctx, id, from, map[string]interface{}{
		"status":     model.SubmissionStatusInvalidated,
		"updated_at": at,
	})
}

func (r *submissionRepo) updateWhereStatus(ctx context.Context, id string, from model.SubmissionStatus, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&model.Submission{}).
		Where("submission_id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrStatusConflict
	}
	return nil
}
