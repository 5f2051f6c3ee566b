package service

import (
	"context"
	"errors"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/greatson79/test1-lms-sub000/internal/dto"
	"github.com/greatson79/test1-lms-sub000/internal/model"
	"github.com/greatson79/test1-lms-sub000/internal/repository"
	"github.com/greatson79/test1-lms-sub000/pkg/tracing"
)

// GradeService 成绩业务接口
//
// 只统计学员可见（published / closed）的作业；每次请求重新读取并计算
type GradeService interface {
	LearnerCourseGrade(ctx context.Context, courseID, learnerID string) (*dto.CourseGradeResponse, error)
	CourseRoster(ctx context.Context, courseID, instructorID string) (*dto.GradeRosterResponse, error)
}

type gradeService struct {
	repo   *repository.Repository
	guard  EnrollmentGuard
	owners OwnerResolver
	logger *zap.Logger
}

// NewGradeService 创建 GradeService 实例
func NewGradeService(repo *repository.Repository, guard EnrollmentGuard, owners OwnerResolver, logger *zap.Logger) GradeService {
	return &gradeService{repo: repo, guard: guard, owners: owners, logger: logger}
}

// ────────────────────── LearnerCourseGrade ──────────────────────

func (s *gradeService) LearnerCourseGrade(ctx context.Context, courseID, learnerID string) (*dto.CourseGradeResponse, error) {
	ctx, span := tracing.Tracer().Start(ctx, "GradeService.LearnerCourseGrade")
	defer span.End()
	span.SetAttributes(attribute.String("course.id", courseID))

	if err := s.guard.RequireActive(ctx, courseID, learnerID); err != nil {
		return nil, err
	}

	assignments, err := s.repo.Assignment.ListByCourse(ctx, courseID, true)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list assignments")
		s.logger.Error("查询作业列表失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	ids := assignmentIDs(assignments)
	submissions, err := s.repo.Submission.ListByLearner(ctx, learnerID, ids)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list submissions")
		s.logger.Error("查询提交记录失败", zap.String("learner_id", learnerID), zap.Error(err))
		return nil, err
	}
	byAssignment := make(map[string]*model.Submission, len(submissions))
	for i := range submissions {
		byAssignment[submissions[i].AssignmentID] = &submissions[i]
	}

	inputs := make([]GradeInput, 0, len(assignments))
	items := make([]dto.GradeItemResponse, 0, len(assignments))
	for i := range assignments {
		a := &assignments[i]
		sub := byAssignment[a.AssignmentID]

		input := GradeInput{Weight: a.Weight}
		item := dto.GradeItemResponse{
			AssignmentID:     a.AssignmentID,
			Title:            a.Title,
			Weight:           a.Weight,
			DueAt:            formatTime(a.DueAt),
			AssignmentStatus: string(a.Status),
		}
		if sub != nil {
			status := string(sub.Status)
			item.SubmissionStatus = &status
			item.IsLate = sub.IsLate
			item.Feedback = sub.Feedback
			if sub.HasGradedScore() {
				input.Score = sub.Score
				item.Score = sub.Score
			}
		}
		inputs = append(inputs, input)
		items = append(items, item)
	}

	result := ComputeGrade(inputs)
	span.SetAttributes(
		attribute.Int("grade.assignments", len(assignments)),
		attribute.Int("grade.graded", result.GradedCount),
	)

	return &dto.CourseGradeResponse{
		CourseID:           courseID,
		LearnerID:          learnerID,
		CurrentGrade:       result.Current,
		ExpectedFinalGrade: result.Expected,
		Items:              items,
	}, nil
}

// ────────────────────── CourseRoster ──────────────────────

func (s *gradeService) CourseRoster(ctx context.Context, courseID, instructorID string) (*dto.GradeRosterResponse, error) {
	ctx, span := tracing.Tracer().Start(ctx, "GradeService.CourseRoster")
	defer span.End()
	span.SetAttributes(attribute.String("course.id", courseID))

	course, err := s.owners.RequireCourseOwner(ctx, courseID, instructorID)
	if err != nil {
		return nil, err
	}

	enrollments, err := s.repo.Enrollment.ListActiveByCourse(ctx, courseID)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("查询选课名单失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}
	learnerIDs := make([]string, 0, len(enrollments))
	for i := range enrollments {
		learnerIDs = append(learnerIDs, enrollments[i].LearnerID)
	}

	users, err := s.repo.User.ListByIDs(ctx, learnerIDs)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("查询学员信息失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}
	userByID := make(map[string]*model.User, len(users))
	for i := range users {
		userByID[users[i].UserID] = &users[i]
	}

	assignments, err := s.repo.Assignment.ListByCourse(ctx, courseID, true)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("查询作业列表失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	submissions, err := s.repo.Submission.ListByAssignments(ctx, assignmentIDs(assignments))
	if err != nil {
		span.RecordError(err)
		s.logger.Error("查询提交记录失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}
	// learner → assignment → submission
	subs := make(map[string]map[string]*model.Submission)
	for i := range submissions {
		sub := &submissions[i]
		if subs[sub.LearnerID] == nil {
			subs[sub.LearnerID] = make(map[string]*model.Submission)
		}
		subs[sub.LearnerID][sub.AssignmentID] = sub
	}

	entries := make([]dto.GradeRosterEntry, 0, len(learnerIDs))
	for _, learnerID := range learnerIDs {
		entry := dto.GradeRosterEntry{LearnerID: learnerID}
		if u, ok := userByID[learnerID]; ok {
			entry.LearnerName = u.Name
			entry.Email = u.Email
		}

		inputs := make([]GradeInput, 0, len(assignments))
		for i := range assignments {
			input := GradeInput{Weight: assignments[i].Weight}
			if sub, ok := subs[learnerID][assignments[i].AssignmentID]; ok {
				entry.SubmittedCount++
				if sub.HasGradedScore() {
					input.Score = sub.Score
				}
			}
			inputs = append(inputs, input)
		}

		result := ComputeGrade(inputs)
		entry.CurrentGrade = result.Current
		entry.ExpectedFinalGrade = result.Expected
		entry.GradedCount = result.GradedCount
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LearnerName < entries[j].LearnerName
	})

	span.SetAttributes(attribute.Int("grade.learners", len(entries)))

	return &dto.GradeRosterResponse{
		CourseID:    course.CourseID,
		CourseTitle: course.Title,
		Assignments: len(assignments),
		Learners:    entries,
	}, nil
}

func assignmentIDs(assignments []model.Assignment) []string {
	ids := make([]string, 0, len(assignments))
	for i := range assignments {
		ids = append(ids, assignments[i].AssignmentID)
	}
	return ids
}

// getCourseOrNotFound 供学员侧只读接口使用
func getCourseOrNotFound(ctx context.Context, repo *repository.Repository, logger *zap.Logger, courseID string) (*model.Course, error) {
	course, err := repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		logger.Error("查询课程失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}
	return course, nil
}
