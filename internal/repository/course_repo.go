package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/greatson79/test1-lms-sub000/internal/model"
	pkgerrors "github.com/greatson79/test1-lms-sub000/pkg/errors"
)

// 课程列表排序方式
const (
	CourseSortRecent  = "recent"
	CourseSortPopular = "popular"
)

// CourseListFilters 公开课程列表筛选条件
type CourseListFilters struct {
	Search       string
	CategoryID   string
	DifficultyID string
	Sort         string
}

// CourseRepository 课程数据访问接口
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id string) (*model.Course, error)
	// Update 仅更新可编辑字段，不触碰 status
	Update(ctx context.Context, course *model.Course) error
	// UpdateStatus 条件更新：仅当当前状态为 from 时写入 to
	UpdateStatus(ctx context.Context, id string, from, to model.CourseStatus, at time.Time) error
	ListPublished(ctx context.Context, filters *CourseListFilters, offset, limit int) ([]model.Course, int64, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]model.Course, error)
	CountActiveEnrollments(ctx context.Context, courseIDs []string) (map[string]int64, error)
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Difficulty").
		Preload("Instructor").
		Where("course_id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) Update(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).
		Model(&model.Course{}).
		Where("course_id = ?", course.CourseID).
		Updates(map[string]interface{}{
			"title":         course.Title,
			"description":   course.Description,
			"curriculum":    course.Curriculum,
			"category_id":   course.CategoryID,
			"difficulty_id": course.DifficultyID,
			"updated_at":    gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}

func (r *courseRepo) UpdateStatus(ctx context.Context, id string, from, to model.CourseStatus, at time.Time) error {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": at,
	}
	if to == model.CourseStatusPublished {
		updates["published_at"] = at
	}
	result := r.db.WithContext(ctx).
		Model(&model.Course{}).
		Where("course_id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrStatusConflict
	}
	return nil
}

const activeEnrollmentCountSQL = "(SELECT COUNT(*) FROM enrollments e WHERE e.course_id = courses.course_id AND e.cancelled_at IS NULL)"

func (r *courseRepo) ListPublished(ctx context.Context, filters *CourseListFilters, offset, limit int) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	db := r.db.WithContext(ctx).
		Model(&model.Course{}).
		Where("status = ?", model.CourseStatusPublished)

	if filters != nil {
		if s := strings.TrimSpace(filters.Search); s != "" {
			like := "%" + strings.ToLower(s) + "%"
			db = db.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", like, like)
		}
		if filters.CategoryID != "" {
			db = db.Where("category_id = ?", filters.CategoryID)
		}
		if filters.DifficultyID != "" {
			db = db.Where("difficulty_id = ?", filters.DifficultyID)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filters != nil && filters.Sort == CourseSortPopular {
		db = db.Order(activeEnrollmentCountSQL + " DESC")
	}
	db = db.Order("published_at DESC").Order("created_at DESC")

	if err := db.Preload("Category").
		Preload("Difficulty").
		Offset(offset).Limit(limit).
		Find(&courses).Error; err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

func (r *courseRepo) ListByInstructor(ctx context.Context, instructorID string) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Difficulty").
		Where("instructor_id = ?", instructorID).
		Order("created_at DESC").
		Find(&courses).Error
	return courses, err
}

// CountActiveEnrollments 批量统计有效选课人数，避免 N+1 查询
func (r *courseRepo) CountActiveEnrollments(ctx context.Context, courseIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(courseIDs))
	if len(courseIDs) == 0 {
		return counts, nil
	}

	type row struct {
		CourseID string
		Count    int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Select("course_id, COUNT(*) AS count").
		Where("course_id IN ? AND cancelled_at IS NULL", courseIDs).
		Group("course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, rw := range rows {
		counts[rw.CourseID] = rw.Count
	}
	return counts, nil
}
