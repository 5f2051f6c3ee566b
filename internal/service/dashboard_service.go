package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/greatson79/test1-lms-sub000/internal/dto"
	"github.com/greatson79/test1-lms-sub000/internal/model"
	"github.com/greatson79/test1-lms-sub000/internal/repository"
)

const recentSubmissionLimit = 10

// DashboardService 讲师工作台
type DashboardService interface {
	Instructor(ctx context.Context, instructorID string) (*dto.InstructorDashboardResponse, error)
}

type dashboardService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDashboardService 创建 DashboardService 实例
func NewDashboardService(repo *repository.Repository, logger *zap.Logger) DashboardService {
	return &dashboardService{repo: repo, logger: logger}
}

// Instructor 汇总讲师名下课程、待评分数量与最近提交
//
// 课程列表之后的查询互不依赖，分两批并发执行
func (s *dashboardService) Instructor(ctx context.Context, instructorID string) (*dto.InstructorDashboardResponse, error) {
	courses, err := s.repo.Course.ListByInstructor(ctx, instructorID)
	if err != nil {
		s.logger.Error("查询讲师课程失败", zap.String("instructor_id", instructorID), zap.Error(err))
		return nil, err
	}

	resp := &dto.InstructorDashboardResponse{
		Courses:           make([]dto.DashboardCourse, 0, len(courses)),
		RecentSubmissions: make([]dto.RecentSubmission, 0),
	}
	if len(courses) == 0 {
		return resp, nil
	}

	courseIDs := make([]string, 0, len(courses))
	for i := range courses {
		courseIDs = append(courseIDs, courses[i].CourseID)
	}

	// ── 第一批：选课人数 ∥ 作业列表 ──
	var (
		enrollCounts map[string]int64
		assignments  []model.Assignment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		enrollCounts, err = s.repo.Course.CountActiveEnrollments(gctx, courseIDs)
		return err
	})
	g.Go(func() error {
		var err error
		assignments, err = s.repo.Assignment.ListByCourseIDs(gctx, courseIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("加载工作台数据失败", zap.String("instructor_id", instructorID), zap.Error(err))
		return nil, err
	}

	ids := assignmentIDs(assignments)

	// ── 第二批：待评分统计 ∥ 最近提交 ──
	var (
		pending map[string]int64
		recent  []model.Submission
	)
	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pending, err = s.repo.Submission.CountPendingByAssignments(gctx, ids)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.repo.Submission.ListRecentByAssignments(gctx, ids, recentSubmissionLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("加载工作台提交数据失败", zap.String("instructor_id", instructorID), zap.Error(err))
		return nil, err
	}

	assignmentCourse := make(map[string]string, len(assignments))
	assignmentCount := make(map[string]int, len(courses))
	pendingByCourse := make(map[string]int64, len(courses))
	for i := range assignments {
		a := &assignments[i]
		assignmentCourse[a.AssignmentID] = a.CourseID
		assignmentCount[a.CourseID]++
		pendingByCourse[a.CourseID] += pending[a.AssignmentID]
	}

	for i := range courses {
		c := &courses[i]
		resp.Courses = append(resp.Courses, dto.DashboardCourse{
			CourseID:        c.CourseID,
			Title:           c.Title,
			Status:          string(c.Status),
			EnrollmentCount: enrollCounts[c.CourseID],
			AssignmentCount: assignmentCount[c.CourseID],
			PendingGrading:  pendingByCourse[c.CourseID],
		})
		resp.PendingGradingTotal += pendingByCourse[c.CourseID]
	}

	for i := range recent {
		sub := &recent[i]
		item := dto.RecentSubmission{
			SubmissionID: sub.SubmissionID,
			AssignmentID: sub.AssignmentID,
			CourseID:     assignmentCourse[sub.AssignmentID],
			LearnerID:    sub.LearnerID,
			Status:       string(sub.Status),
			IsLate:       sub.IsLate,
			SubmittedAt:  formatTime(sub.SubmittedAt),
		}
		if sub.Assignment != nil {
			item.AssignmentTitle = sub.Assignment.Title
		}
		if sub.Learner != nil {
			item.LearnerName = sub.Learner.Name
		}
		resp.RecentSubmissions = append(resp.RecentSubmissions, item)
	}

	return resp, nil
}
