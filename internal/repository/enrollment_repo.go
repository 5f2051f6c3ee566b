package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/greatson79/test1-lms-sub000/internal/model"
	pkgerrors "github.com/greatson79/test1-lms-sub000/pkg/errors"
)

// EnrollmentRepository 选课数据访问接口
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *model.Enrollment) error
	// GetByCourseAndLearner 返回该 (课程, 学员) 的唯一记录，无论是否已退课
	GetByCourseAndLearner(ctx context.Context, courseID, learnerID string) (*model.Enrollment, error)
	// Reactivate 重新选课：清空 cancelled_at 并重置 enrolled_at，仅对已退课记录生效
	Reactivate(ctx context.Context, id string, enrolledAt time.Time) error
	// Cancel 退课：仅对有效记录生效
	Cancel(ctx context.Context, id string, cancelledAt time.Time) error
	ListActiveByLearner(ctx context.Context, learnerID string) ([]model.Enrollment, error)
	ListActiveByCourse(ctx context.Context, courseID string) ([]model.Enrollment, error)
}

type enrollmentRepo struct {
	db *gorm.DB
}

// NewEnrollmentRepo 创建 EnrollmentRepository 实例
func NewEnrollmentRepo(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepo{db: db}
}

func (r *enrollmentRepo) Create(ctx context.Context, enrollment *model.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *enrollmentRepo) GetByCourseAndLearner(ctx context.Context, courseID, learnerID string) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND learner_id = ?", courseID, learnerID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepo) Reactivate(ctx context.Context, id string, enrolledAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("enrollment_id = ? AND cancelled_at IS NOT NULL", id).
		Updates(map[string]interface{}{
			"cancelled_at": nil,
			"enrolled_at":  enrolledAt,
			"updated_at":   enrolledAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrStatusConflict
	}
	return nil
}

func (r *enrollmentRepo) Cancel(ctx context.Context, id string, cancelledAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("enrollment_id = ? AND cancelled_at IS NULL", id).
		Updates(map[string]interface{}{
			"cancelled_at": cancelledAt,
			"updated_at":   cancelledAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrStatusConflict
	}
	return nil
}

func (r *enrollmentRepo) ListActiveByLearner(ctx context.Context, learnerID string) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("learner_id = ? AND cancelled_at IS NULL", learnerID).
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *enrollmentRepo) ListActiveByCourse(ctx context.Context, courseID string) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND cancelled_at IS NULL", courseID).
		Order("enrolled_at ASC").
		Find(&enrollments).Error
	return enrollments, err
}
