package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/greatson79/test1-lms-sub000/internal/model"
	"github.com/greatson79/test1-lms-sub000/internal/repository"
)

// ── 测试环境 ──

// testEnv 持有全部 mock 仓储与可拨动的时钟
type testEnv struct {
	repo        *repository.Repository
	users       *mockUserRepo
	courses     *mockCourseRepo
	enrollments *mockEnrollmentRepo
	assignments *mockAssignmentRepo
	submissions *mockSubmissionRepo
	reports     *mockReportRepo
	categories  *mockCategoryRepo
	difficulty  *mockDifficultyRepo

	now    time.Time
	logger *zap.Logger
}

var testNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestEnv() *testEnv {
	users := newMockUserRepo()
	enrollments := newMockEnrollmentRepo()
	courses := newMockCourseRepo(enrollments)
	enrollments.courses = courses
	env := &testEnv{
		users:       users,
		courses:     courses,
		enrollments: enrollments,
		assignments: newMockAssignmentRepo(),
		submissions: newMockSubmissionRepo(users),
		reports:     newMockReportRepo(),
		categories:  newMockCategoryRepo(),
		difficulty:  newMockDifficultyRepo(),
		now:         testNow,
		logger:      zap.NewNop(),
	}
	env.repo = &repository.Repository{
		User:       env.users,
		Course:     env.courses,
		Enrollment: env.enrollments,
		Assignment: env.assignments,
		Submission: env.submissions,
		Report:     env.reports,
		Category:   env.categories,
		Difficulty: env.difficulty,
	}
	return env
}

func (e *testEnv) clock() Clock {
	return func() time.Time { return e.now }
}

func (e *testEnv) guard() EnrollmentGuard {
	return NewEnrollmentGuard(e.repo, e.logger)
}

func (e *testEnv) owners() OwnerResolver {
	return NewOwnerResolver(e.repo, e.logger)
}

// ── 数据准备 ──

func (e *testEnv) addUser(id, name, role string) *model.User {
	u := &model.User{
		UserID: id,
		Name:   name,
		Email:  id + "@test.com",
		Role:   role,
		Status: model.UserStatusActive,
	}
	e.users.users[id] = u
	return u
}

func (e *testEnv) addCourse(id, instructorID string, status model.CourseStatus) *model.Course {
	c := &model.Course{
		CourseID:     id,
		InstructorID: instructorID,
		Title:        "课程 " + id,
		Status:       status,
	}
	e.courses.courses[id] = c
	return c
}

func (e *testEnv) addAssignment(id, courseID string, status model.AssignmentStatus, dueAt time.Time, weight float64) *model.Assignment {
	a := &model.Assignment{
		AssignmentID: id,
		CourseID:     courseID,
		Title:        "作业 " + id,
		DueAt:        dueAt,
		Weight:       weight,
		Status:       status,
	}
	e.assignments.rows[id] = a
	return a
}

func (e *testEnv) enroll(courseID, learnerID string) *model.Enrollment {
	en := &model.Enrollment{
		EnrollmentID: "enr-" + courseID + "-" + learnerID,
		CourseID:     courseID,
		LearnerID:    learnerID,
		EnrolledAt:   e.now.Add(-24 * time.Hour),
	}
	e.enrollments.rows[en.EnrollmentID] = en
	return en
}

func (e *testEnv) addSubmission(id, assignmentID, learnerID string, status model.SubmissionStatus, score *int) *model.Submission {
	s := &model.Submission{
		SubmissionID: id,
		AssignmentID: assignmentID,
		LearnerID:    learnerID,
		ContentText:  "答案",
		Status:       status,
		Score:        score,
		SubmittedAt:  e.now.Add(-time.Hour),
	}
	e.submissions.rows[id] = s
	return s
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
