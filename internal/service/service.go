package service

import (
	"go.uber.org/zap"

	"github.com/greatson79/test1-lms-sub000/config"
	"github.com/greatson79/test1-lms-sub000/internal/repository"
	"github.com/greatson79/test1-lms-sub000/pkg/jwt"
	"github.com/greatson79/test1-lms-sub000/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	Course     CourseService
	Enrollment EnrollmentService
	Assignment AssignmentService
	Submission SubmissionService
	Grade      GradeService
	Report     ReportService
	Metadata   MetadataService
	Dashboard  DashboardService
	Export     ExportService
	Calendar   CalendarService
}

// NewService 创建 Service 聚合
// rdb 可为 nil（Redis 不可用时降级运行）
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	var now Clock // 使用系统时间

	guard := NewEnrollmentGuard(repo, logger)
	owners := NewOwnerResolver(repo, logger)
	grades := NewGradeService(repo, guard, owners, logger)

	return &Service{
		Auth:       NewAuthService(repo, jwtMgr, rdb, logger),
		Course:     NewCourseService(repo, owners, now, logger),
		Enrollment: NewEnrollmentService(repo, guard, now, logger),
		Assignment: NewAssignmentService(repo, guard, owners, now, logger),
		Submission: NewSubmissionService(repo, guard, owners, cfg.Grading.MaxScore, now, logger),
		Grade:      grades,
		Report:     NewReportService(repo, now, logger),
		Metadata:   NewMetadataService(repo, logger),
		Dashboard:  NewDashboardService(repo, logger),
		Export:     NewExportService(grades, logger),
		Calendar:   NewCalendarService(repo, guard, cfg.Server.BaseURL, now, logger),
	}
}
