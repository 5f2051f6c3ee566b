package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/greatson79/test1-lms-sub000/internal/model"
	"github.com/greatson79/test1-lms-sub000/internal/repository"
	pkgerrors "github.com/greatson79/test1-lms-sub000/pkg/errors"
)

// 所有 mock 读取时返回副本，避免 service 修改返回值后影响条件更新的判断

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%d", len(m.users)+1)
	}
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ListByIDs(_ context.Context, ids []string) ([]model.User, error) {
	var result []model.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (m *mockUserRepo) UpdateStatus(_ context.Context, id, status string) error {
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Status = status
	return nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses     map[string]*model.Course
	enrollments *mockEnrollmentRepo
}

func newMockCourseRepo(enrollments *mockEnrollmentRepo) *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course), enrollments: enrollments}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if course.CourseID == "" {
		course.CourseID = fmt.Sprintf("course-%d", len(m.courses)+1)
	}
	cp := *course
	m.courses[course.CourseID] = &cp
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	c, ok := m.courses[course.CourseID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	status := c.Status
	cp := *course
	cp.Status = status
	m.courses[course.CourseID] = &cp
	return nil
}

func (m *mockCourseRepo) UpdateStatus(_ context.Context, id string, from, to model.CourseStatus, at time.Time) error {
	c, ok := m.courses[id]
	if !ok || c.Status != from {
		return pkgerrors.ErrStatusConflict
	}
	c.Status = to
	if to == model.CourseStatusPublished {
		c.PublishedAt = &at
	}
	return nil
}

func (m *mockCourseRepo) ListPublished(_ context.Context, filters *repository.CourseListFilters, offset, limit int) ([]model.Course, int64, error) {
	var result []model.Course
	for _, c := range m.courses {
		if c.Status != model.CourseStatusPublished {
			continue
		}
		if filters != nil && filters.CategoryID != "" && (c.CategoryID == nil || *c.CategoryID != filters.CategoryID) {
			continue
		}
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CourseID < result[j].CourseID })
	total := int64(len(result))
	if offset >= len(result) {
		return []model.Course{}, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockCourseRepo) ListByInstructor(_ context.Context, instructorID string) ([]model.Course, error) {
	var result []model.Course
	for _, c := range m.courses {
		if c.InstructorID == instructorID {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CourseID < result[j].CourseID })
	return result, nil
}

func (m *mockCourseRepo) CountActiveEnrollments(_ context.Context, courseIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, id := range courseIDs {
		for _, e := range m.enrollments.rows {
			if e.CourseID == id && e.IsActive() {
				counts[id]++
			}
		}
	}
	return counts, nil
}

// ── Mock EnrollmentRepository ──

type mockEnrollmentRepo struct {
	rows    map[string]*model.Enrollment
	writes  int // 记录写入次数，用于校验不会重复写入
	courses *mockCourseRepo
}

func newMockEnrollmentRepo() *mockEnrollmentRepo {
	return &mockEnrollmentRepo{rows: make(map[string]*model.Enrollment)}
}

func (m *mockEnrollmentRepo) Create(_ context.Context, enrollment *model.Enrollment) error {
	for _, e := range m.rows {
		if e.CourseID == enrollment.CourseID && e.LearnerID == enrollment.LearnerID {
			return gorm.ErrDuplicatedKey
		}
	}
	if enrollment.EnrollmentID == "" {
		enrollment.EnrollmentID = fmt.Sprintf("enr-%d", len(m.rows)+1)
	}
	cp := *enrollment
	m.rows[enrollment.EnrollmentID] = &cp
	m.writes++
	return nil
}

func (m *mockEnrollmentRepo) GetByCourseAndLearner(_ context.Context, courseID, learnerID string) (*model.Enrollment, error) {
	for _, e := range m.rows {
		if e.CourseID == courseID && e.LearnerID == learnerID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEnrollmentRepo) Reactivate(_ context.Context, id string, enrolledAt time.Time) error {
	e, ok := m.rows[id]
	if !ok || e.CancelledAt == nil {
		return pkgerrors.ErrStatusConflict
	}
	e.CancelledAt = nil
	e.EnrolledAt = enrolledAt
	m.writes++
	return nil
}

func (m *mockEnrollmentRepo) Cancel(_ context.Context, id string, cancelledAt time.Time) error {
	e, ok := m.rows[id]
	if !ok || e.CancelledAt != nil {
		return pkgerrors.ErrStatusConflict
	}
	e.CancelledAt = &cancelledAt
	m.writes++
	return nil
}

func (m *mockEnrollmentRepo) ListActiveByLearner(_ context.Context, learnerID string) ([]model.Enrollment, error) {
	var result []model.Enrollment
	for _, e := range m.rows {
		if e.LearnerID == learnerID && e.IsActive() {
			cp := *e
			if m.courses != nil {
				if c, ok := m.courses.courses[e.CourseID]; ok {
					course := *c
					cp.Course = &course
				}
			}
			result = append(result, cp)
		}
	}
	return result, nil
}

func (m *mockEnrollmentRepo) ListActiveByCourse(_ context.Context, courseID string) ([]model.Enrollment, error) {
	var result []model.Enrollment
	for _, e := range m.rows {
		if e.CourseID == courseID && e.IsActive() {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].LearnerID < result[j].LearnerID })
	return result, nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	rows map[string]*model.Assignment
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{rows: make(map[string]*model.Assignment)}
}

func (m *mockAssignmentRepo) Create(_ context.Context, a *model.Assignment) error {
	if a.AssignmentID == "" {
		a.AssignmentID = fmt.Sprintf("asg-%d", len(m.rows)+1)
	}
	cp := *a
	m.rows[a.AssignmentID] = &cp
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.Assignment, error) {
	if a, ok := m.rows[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) Update(_ context.Context, a *model.Assignment) error {
	existing, ok := m.rows[a.AssignmentID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	status := existing.Status
	cp := *a
	cp.Status = status
	m.rows[a.AssignmentID] = &cp
	return nil
}

func (m *mockAssignmentRepo) UpdateStatus(_ context.Context, id string, from, to model.AssignmentStatus, _ time.Time) error {
	a, ok := m.rows[id]
	if !ok || a.Status != from {
		return pkgerrors.ErrStatusConflict
	}
	a.Status = to
	return nil
}

func (m *mockAssignmentRepo) ListByCourse(_ context.Context, courseID string, visibleOnly bool) ([]model.Assignment, error) {
	var result []model.Assignment
	for _, a := range m.rows {
		if a.CourseID != courseID {
			continue
		}
		if visibleOnly && a.Status == model.AssignmentStatusDraft {
			continue
		}
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AssignmentID < result[j].AssignmentID })
	return result, nil
}

func (m *mockAssignmentRepo) ListByCourseIDs(ctx context.Context, courseIDs []string) ([]model.Assignment, error) {
	var result []model.Assignment
	for _, id := range courseIDs {
		list, _ := m.ListByCourse(ctx, id, false)
		result = append(result, list...)
	}
	return result, nil
}

// ── Mock SubmissionRepository ──

type mockSubmissionRepo struct {
	rows  map[string]*model.Submission
	users *mockUserRepo
}

func newMockSubmissionRepo(users *mockUserRepo) *mockSubmissionRepo {
	return &mockSubmissionRepo{rows: make(map[string]*model.Submission), users: users}
}

func (m *mockSubmissionRepo) Create(_ context.Context, s *model.Submission) error {
	for _, existing := range m.rows {
		if existing.AssignmentID == s.AssignmentID && existing.LearnerID == s.LearnerID {
			return gorm.ErrDuplicatedKey
		}
	}
	if s.SubmissionID == "" {
		s.SubmissionID = fmt.Sprintf("sub-%d", len(m.rows)+1)
	}
	cp := *s
	m.rows[s.SubmissionID] = &cp
	return nil
}

func (m *mockSubmissionRepo) GetByID(_ context.Context, id string) (*model.Submission, error) {
	if s, ok := m.rows[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubmissionRepo) GetByAssignmentAndLearner(_ context.Context, assignmentID, learnerID string) (*model.Submission, error) {
	for _, s := range m.rows {
		if s.AssignmentID == assignmentID && s.LearnerID == learnerID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubmissionRepo) ListByLearner(_ context.Context, learnerID string, assignmentIDs []string) ([]model.Submission, error) {
	want := make(map[string]bool, len(assignmentIDs))
	for _, id := range assignmentIDs {
		want[id] = true
	}
	var result []model.Submission
	for _, s := range m.rows {
		if s.LearnerID == learnerID && want[s.AssignmentID] {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockSubmissionRepo) ListByAssignment(_ context.Context, assignmentID string) ([]model.Submission, error) {
	var result []model.Submission
	for _, s := range m.rows {
		if s.AssignmentID == assignmentID {
			cp := *s
			if u, ok := m.users.users[s.LearnerID]; ok {
				user := *u
				cp.Learner = &user
			}
			result = append(result, cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SubmissionID < result[j].SubmissionID })
	return result, nil
}

func (m *mockSubmissionRepo) ListByAssignments(_ context.Context, assignmentIDs []string) ([]model.Submission, error) {
	want := make(map[string]bool, len(assignmentIDs))
	for _, id := range assignmentIDs {
		want[id] = true
	}
	var result []model.Submission
	for _, s := range m.rows {
		if want[s.AssignmentID] {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockSubmissionRepo) ListRecentByAssignments(ctx context.Context, assignmentIDs []string, limit int) ([]model.Submission, error) {
	result, _ := m.ListByAssignments(ctx, assignmentIDs)
	sort.Slice(result, func(i, j int) bool { return result[i].SubmittedAt.After(result[j].SubmittedAt) })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockSubmissionRepo) CountPendingByAssignments(_ context.Context, assignmentIDs []string) (map[string]int64, error) {
	want := make(map[string]bool, len(assignmentIDs))
	for _, id := range assignmentIDs {
		want[id] = true
	}
	counts := make(map[string]int64)
	for _, s := range m.rows {
		if want[s.AssignmentID] && s.Status == model.SubmissionStatusSubmitted {
			counts[s.AssignmentID]++
		}
	}
	return counts, nil
}

func (m *mockSubmissionRepo) Resubmit(_ context.Context, s *model.Submission) error {
	existing, ok := m.rows[s.SubmissionID]
	if !ok || existing.Status != model.SubmissionStatusResubmissionRequired {
		return pkgerrors.ErrStatusConflict
	}
	existing.ContentText = s.ContentText
	existing.ContentURL = s.ContentURL
	existing.IsLate = s.IsLate
	existing.SubmittedAt = s.SubmittedAt
	existing.Status = model.SubmissionStatusSubmitted
	existing.Score = nil
	existing.Feedback = nil
	existing.GradedAt = nil
	return nil
}

func (m *mockSubmissionRepo) Grade(_ context.Context, id string, from model.SubmissionStatus, score int, feedback *string, gradedAt time.Time) error {
	existing, ok := m.rows[id]
	if !ok || existing.Status != from {
		return pkgerrors.ErrStatusConflict
	}
	existing.Status = model.SubmissionStatusGraded
	existing.Score = &score
	existing.Feedback = feedback
	existing.GradedAt = &gradedAt
	return nil
}

func (m *mockSubmissionRepo) RequestResubmission(_ context.Context, id string, from model.SubmissionStatus, feedback string, _ time.Time) error {
	existing, ok := m.rows[id]
	if !ok || existing.Status != from {
		return pkgerrors.ErrStatusConflict
	}
	existing.Status = model.SubmissionStatusResubmissionRequired
	existing.Score = nil
	existing.Feedback = &feedback
	existing.GradedAt = nil
	return nil
}

func (m *mockSubmissionRepo) Invalidate(_ context.Context, id string, from model.SubmissionStatus, _ time.Time) error {
	existing, ok := m.rows[id]
	if !ok || existing.Status != from {
		return pkgerrors.ErrStatusConflict
	}
	existing.Status = model.SubmissionStatusInvalidated
	return nil
}

// ── Mock ReportRepository ──

type mockReportRepo struct {
	rows map[string]*model.Report
}

func newMockReportRepo() *mockReportRepo {
	return &mockReportRepo{rows: make(map[string]*model.Report)}
}

func (m *mockReportRepo) Create(_ context.Context, r *model.Report) error {
	if r.ReportID == "" {
		r.ReportID = fmt.Sprintf("rpt-%d", len(m.rows)+1)
	}
	cp := *r
	m.rows[r.ReportID] = &cp
	return nil
}

func (m *mockReportRepo) GetByID(_ context.Context, id string) (*model.Report, error) {
	if r, ok := m.rows[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReportRepo) List(_ context.Context, filters *repository.ReportListFilters, offset, limit int) ([]model.Report, int64, error) {
	var result []model.Report
	for _, r := range m.rows {
		if filters != nil && filters.Status != "" && string(r.Status) != filters.Status {
			continue
		}
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool {
		if filters != nil && filters.Ascending {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	total := int64(len(result))
	if offset >= len(result) {
		return []model.Report{}, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockReportRepo) UpdateStatus(_ context.Context, r *model.Report, from model.ReportStatus) error {
	existing, ok := m.rows[r.ReportID]
	if !ok || existing.Status != from {
		return pkgerrors.ErrStatusConflict
	}
	existing.Status = r.Status
	existing.Action = r.Action
	existing.HandledBy = r.HandledBy
	existing.ResolvedAt = r.ResolvedAt
	existing.UpdatedAt = r.UpdatedAt
	return nil
}

// ── Mock CategoryRepository / DifficultyRepository ──

type mockCategoryRepo struct {
	rows map[string]*model.Category
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{rows: make(map[string]*model.Category)}
}

func (m *mockCategoryRepo) Create(_ context.Context, c *model.Category) error {
	if c.CategoryID == "" {
		c.CategoryID = "cat-" + c.Name
	}
	cp := *c
	m.rows[c.CategoryID] = &cp
	return nil
}

func (m *mockCategoryRepo) GetByID(_ context.Context, id string) (*model.Category, error) {
	if c, ok := m.rows[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCategoryRepo) GetByName(_ context.Context, name string) (*model.Category, error) {
	for _, c := range m.rows {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCategoryRepo) List(_ context.Context, includeInactive bool) ([]model.Category, error) {
	var result []model.Category
	for _, c := range m.rows {
		if !includeInactive && !c.IsActive {
			continue
		}
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockCategoryRepo) Update(_ context.Context, c *model.Category) error {
	cp := *c
	m.rows[c.CategoryID] = &cp
	return nil
}

type mockDifficultyRepo struct {
	rows map[string]*model.Difficulty
}

func newMockDifficultyRepo() *mockDifficultyRepo {
	return &mockDifficultyRepo{rows: make(map[string]*model.Difficulty)}
}

func (m *mockDifficultyRepo) Create(_ context.Context, d *model.Difficulty) error {
	if d.DifficultyID == "" {
		d.DifficultyID = "diff-" + d.Name
	}
	cp := *d
	m.rows[d.DifficultyID] = &cp
	return nil
}

func (m *mockDifficultyRepo) GetByID(_ context.Context, id string) (*model.Difficulty, error) {
	if d, ok := m.rows[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDifficultyRepo) GetByName(_ context.Context, name string) (*model.Difficulty, error) {
	for _, d := range m.rows {
		if d.Name == name {
			cp := *d
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDifficultyRepo) List(_ context.Context, includeInactive bool) ([]model.Difficulty, error) {
	var result []model.Difficulty
	for _, d := range m.rows {
		if !includeInactive && !d.IsActive {
			continue
		}
		result = append(result, *d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockDifficultyRepo) Update(_ context.Context, d *model.Difficulty) error {
	cp := *d
	m.rows[d.DifficultyID] = &cp
	return nil
}
