package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/greatson79/test1-lms-sub000/internal/repository"
)

var ErrEnrollmentRequired = errors.New("需要先选修该课程")

// EnrollmentGuard 学员侧作业/成绩操作前的选课校验
type EnrollmentGuard interface {
	// RequireActive 存在 cancelled_at 为空的选课记录时返回 nil，否则返回 ErrEnrollmentRequired
	RequireActive(ctx context.Context, courseID, learnerID string) error
}

type enrollmentGuard struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEnrollmentGuard 创建 EnrollmentGuard 实例
func NewEnrollmentGuard(repo *repository.Repository, logger *zap.Logger) EnrollmentGuard {
	return &enrollmentGuard{repo: repo, logger: logger}
}

func (g *enrollmentGuard) RequireActive(ctx context.Context, courseID, learnerID string) error {
	enrollment, err := g.repo.Enrollment.GetByCourseAndLearner(ctx, courseID, learnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEnrollmentRequired
		}
		g.logger.Error("查询选课记录失败",
			zap.String("course_id", courseID), zap.String("learner_id", learnerID), zap.Error(err))
		return err
	}
	if !enrollment.IsActive() {
		return ErrEnrollmentRequired
	}
	return nil
}
