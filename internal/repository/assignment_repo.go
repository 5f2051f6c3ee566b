package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/greatson79/test1-lms-sub000/internal/model"
	pkgerrors "github.com/greatson79/test1-lms-sub000/pkg/errors"
)

// AssignmentRepository 作业数据访问接口
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *model.Assignment) error
	GetByID(ctx context.Context, id string) (*model.Assignment, error)
	// Update 仅更新可编辑字段，不触碰 status
	Update(ctx context.Context, assignment *model.Assignment) error
	UpdateStatus(ctx context.Context, id string, from, to model.AssignmentStatus, at time.Time) error
	// ListByCourse visibleOnly=true 时排除 draft（学员视角）
	ListByCourse(ctx context.Context, courseID string, visibleOnly bool) ([]model.Assignment, error)
	ListByCourseIDs(ctx context.Context, courseIDs []string) ([]model.Assignment, error)
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo 创建 AssignmentRepository 实例
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, assignment *model.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepo) GetByID(ctx context.Context, id string) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.WithContext(ctx).
		Where("assignment_id = ?", id).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepo) Update(ctx context.Context, assignment *model.Assignment) error {
	return r.db.WithContext(ctx).
		Model(&model.Assignment{}).
		Where("assignment_id = ?", assignment.AssignmentID).
		Updates(map[string]interface{}{
			"title":          assignment.Title,
			"description":    assignment.Description,
			"due_at":         assignment.DueAt,
			"weight":         assignment.Weight,
			"allow_late":     assignment.AllowLate,
			"allow_resubmit": assignment.AllowResubmit,
			"updated_at":     gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}

func (r *assignmentRepo) UpdateStatus(ctx context.Context, id string, from, to model.AssignmentStatus, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.Assignment{}).
		Where("assignment_id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrStatusConflict
	}
	return nil
}

func (r *assignmentRepo) ListByCourse(ctx context.Context, courseID string, visibleOnly bool) ([]model.Assignment, error) {
	var assignments []model.Assignment
	db := r.db.WithContext(ctx).Where("course_id = ?", courseID)
	if visibleOnly {
		db = db.Where("status <> ?", model.AssignmentStatusDraft)
	}
	err := db.Order("due_at ASC").Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) ListByCourseIDs(ctx context.Context, courseIDs []string) ([]model.Assignment, error) {
	var assignments []model.Assignment
	if len(courseIDs) == 0 {
		return assignments, nil
	}
	err := r.db.WithContext(ctx).
		Where("course_id IN ?", courseIDs).
		Order("due_at ASC").
		Find(&assignments).Error
	return assignments, err
}
