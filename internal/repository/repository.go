package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User       UserRepository
	Course     CourseRepository
	Enrollment EnrollmentRepository
	Assignment AssignmentRepository
	Submission SubmissionRepository
	Report     ReportRepository
	Category   CategoryRepository
	Difficulty DifficultyRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:         db,
		User:       NewUserRepo(db),
		Course:     NewCourseRepo(db),
		Enrollment: NewEnrollmentRepo(db),
		Assignment: NewAssignmentRepo(db),
		Submission: NewSubmissionRepo(db),
		Report:     NewReportRepo(db),
		Category:   NewCategoryRepo(db),
		Difficulty: NewDifficultyRepo(db),
	}
}

// Transaction 在同一事务内执行 fn，fn 收到绑定事务的 Repository
// 未绑定数据库（单元测试中的 mock 聚合）时直接以自身执行
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
