package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/greatson79/test1-lms-sub000/internal/dto"
	"github.com/greatson79/test1-lms-sub000/internal/model"
	"github.com/greatson79/test1-lms-sub000/internal/service"
	pkgerrors "github.com/greatson79/test1-lms-sub000/pkg/errors"
	"github.com/greatson79/test1-lms-sub000/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
	RegisterValidatorTagNames()
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult *dto.TokenResponse
	loginErr    error
	logoutJTI   string
	logoutErr   error
	meResult    *dto.UserResponse
	meErr       error
}

func (m *mockAuthService) Register(_ context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	return &dto.UserResponse{Name: req.Name, Email: req.Email, Role: req.Role}, nil
}
func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) RefreshToken(_ context.Context, _ string) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Logout(_ context.Context, jti string, _ time.Time) error {
	m.logoutJTI = jti
	return m.logoutErr
}
func (m *mockAuthService) GetCurrentUser(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.meResult, m.meErr
}
func (m *mockAuthService) CheckAccount(_ context.Context, _ string) error { return nil }

// ── Mock CourseService ──

type mockCourseService struct {
	list      []dto.CourseResponse
	total     int64
	err       error
	gotCaller string
	gotRole   string
	calls     int
	gotUpdate *dto.UpdateCourseRequest
}

func (m *mockCourseService) ListPublished(_ context.Context, _ *dto.CourseListRequest) ([]dto.CourseResponse, int64, error) {
	return m.list, m.total, m.err
}
func (m *mockCourseService) GetDetail(_ context.Context, id, callerID, role string) (*dto.CourseDetailResponse, error) {
	m.calls++
	m.gotCaller, m.gotRole = callerID, role
	if m.err != nil {
		return nil, m.err
	}
	return &dto.CourseDetailResponse{CourseResponse: dto.CourseResponse{ID: id}}, nil
}
func (m *mockCourseService) Create(_ context.Context, req *dto.CreateCourseRequest, instructorID string) (*dto.CourseResponse, error) {
	return &dto.CourseResponse{Title: req.Title, InstructorID: instructorID, Status: string(model.CourseStatusDraft)}, m.err
}
func (m *mockCourseService) Update(_ context.Context, id string, req *dto.UpdateCourseRequest, _ string) (*dto.CourseResponse, error) {
	m.calls++
	m.gotUpdate = req
	return &dto.CourseResponse{ID: id}, m.err
}
func (m *mockCourseService) ChangeStatus(_ context.Context, id string, target model.CourseStatus, _ string) (*dto.CourseResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.CourseResponse{ID: id, Status: string(target)}, nil
}
func (m *mockCourseService) ListMine(_ context.Context, _ string) ([]dto.CourseResponse, error) {
	return m.list, m.err
}
func (m *mockCourseService) GetOwned(_ context.Context, id, _ string) (*dto.CourseResponse, error) {
	return &dto.CourseResponse{ID: id}, m.err
}

// ── Mock EnrollmentService ──

type mockEnrollmentService struct {
	action    string
	err       error
	cancelErr error
}

func (m *mockEnrollmentService) RequireActive(_ context.Context, _, _ string) error { return nil }
func (m *mockEnrollmentService) Enroll(_ context.Context, courseID, learnerID string) (*dto.EnrollResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.EnrollResponse{
		Action:     m.action,
		Enrollment: dto.EnrollmentResponse{CourseID: courseID, LearnerID: learnerID},
	}, nil
}
func (m *mockEnrollmentService) Cancel(_ context.Context, _, _ string) error { return m.cancelErr }
func (m *mockEnrollmentService) ListMyCourses(_ context.Context, _ string) ([]dto.MyCourseResponse, error) {
	return nil, nil
}

// ── Mock SubmissionService ──

type mockSubmissionService struct {
	err   error
	calls int
}

func (m *mockSubmissionService) Submit(_ context.Context, _, assignmentID, learnerID string, _ *dto.SubmitRequest) (*dto.SubmissionResponse, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &dto.SubmissionResponse{AssignmentID: assignmentID, LearnerID: learnerID, Status: string(model.SubmissionStatusSubmitted)}, nil
}
func (m *mockSubmissionService) Resubmit(_ context.Context, _, assignmentID, learnerID string, _ *dto.SubmitRequest) (*dto.SubmissionResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.SubmissionResponse{AssignmentID: assignmentID, LearnerID: learnerID, Status: string(model.SubmissionStatusSubmitted)}, nil
}
func (m *mockSubmissionService) Grade(_ context.Context, id string, req *dto.GradeRequest, _ string) (*dto.SubmissionResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.SubmissionResponse{ID: id, Score: req.Score, Status: string(model.SubmissionStatusGraded)}, nil
}
func (m *mockSubmissionService) RequestResubmission(_ context.Context, id string, _ *dto.RequestResubmissionRequest, _ string) (*dto.SubmissionResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.SubmissionResponse{ID: id, Status: string(model.SubmissionStatusResubmissionRequired)}, nil
}
func (m *mockSubmissionService) ListByAssignment(_ context.Context, _, _ string) ([]dto.SubmissionResponse, error) {
	return nil, m.err
}

// ── Mock ReportService ──

type mockReportService struct {
	list  []dto.ReportResponse
	total int64
	err   error
	gotLR *dto.ReportListRequest
}

func (m *mockReportService) Create(_ context.Context, req *dto.CreateReportRequest, reporterID string) (*dto.ReportResponse, error) {
	return &dto.ReportResponse{ReporterID: reporterID, TargetType: req.TargetType, TargetID: req.TargetID, Status: "received"}, m.err
}
func (m *mockReportService) List(_ context.Context, req *dto.ReportListRequest) ([]dto.ReportResponse, int64, error) {
	m.gotLR = req
	return m.list, m.total, m.err
}
func (m *mockReportService) GetByID(_ context.Context, id string) (*dto.ReportResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.ReportResponse{ID: id}, nil
}
func (m *mockReportService) UpdateStatus(_ context.Context, id string, req *dto.UpdateReportStatusRequest, _ string) (*dto.ReportResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.ReportResponse{ID: id, Status: req.Status, Action: req.Action}, nil
}

// ── Mock ExportService / CalendarService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportGradeRoster(_ context.Context, _, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

type mockCalendarService struct {
	data []byte
	err  error
}

func (m *mockCalendarService) LearnerAssignments(_ context.Context, _, _ string) ([]byte, string, error) {
	return m.data, "assignments.ics", m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

const (
	testUserID   = "11111111-1111-1111-1111-111111111111"
	testCourseID = "22222222-2222-2222-2222-222222222222"
	testItemID   = "33333333-3333-3333-3333-333333333333"
)

// withAuth 模拟 JWT 中间件写入的上下文
func withAuth(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CtxUserID, testUserID)
		c.Set(CtxRole, role)
		c.Set(CtxTokenID, "test-jti")
		c.Set(CtxTokenExpiresAt, time.Now().Add(15*time.Minute))
		c.Next()
	}
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func doRequest(r *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func parseError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var resp response.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析错误响应失败: %v, body=%s", err, w.Body.String())
	}
	return resp.Error
}

// fieldNames 取出 details.fields 中的字段名
func fieldNames(t *testing.T, body response.ErrorBody) []string {
	t.Helper()
	details, ok := body.Details.(map[string]interface{})
	if !ok {
		t.Fatalf("期望 details 为对象，实际: %#v", body.Details)
	}
	fields, _ := details["fields"].([]interface{})
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		if m, ok := f.(map[string]interface{}); ok {
			names = append(names, m["field"].(string))
		}
	}
	return names
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{loginResult: &dto.TokenResponse{AccessToken: "at", RefreshToken: "rt", ExpiresIn: 900}}
	h := NewAuthHandler(mock)

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := doRequest(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{Email: "a@example.com", Password: "secret123"}))

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	var got dto.TokenResponse
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.AccessToken != "at" || got.ExpiresIn != 900 {
		t.Errorf("成功响应应直接返回资源，实际: %s", w.Body.String())
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := doRequest(r, "POST", "/auth/login", strings.NewReader("invalid json"))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望 400，实际 %d", w.Code)
	}
	if body := parseError(t, w); body.Code != "INVALID_INPUT" {
		t.Errorf("期望 INVALID_INPUT，实际 %s", body.Code)
	}
}

func TestAuthHandler_Register_FieldDetails(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r := gin.New()
	r.POST("/auth/register", h.Register)
	w := doRequest(r, "POST", "/auth/register", jsonBody(map[string]string{
		"name": "张三", "email": "not-an-email", "password": "short", "role": "operator",
	}))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望 400，实际 %d", w.Code)
	}
	body := parseError(t, w)
	names := fieldNames(t, body)
	for _, want := range []string{"email", "password", "role"} {
		if !contains(names, want) {
			t.Errorf("details.fields 缺少 %s，实际: %v", want, names)
		}
	}
	if contains(names, "name") {
		t.Errorf("name 合法，不应出现在 details 中: %v", names)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := doRequest(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{Email: "a@example.com", Password: "wrong"}))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("期望 401，实际 %d", w.Code)
	}
	if body := parseError(t, w); body.Code != "INVALID_CREDENTIALS" {
		t.Errorf("期望 INVALID_CREDENTIALS，实际 %s", body.Code)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	r := gin.New()
	r.POST("/auth/logout", withAuth(string(model.RoleLearner)), h.Logout)
	w := doRequest(r, "POST", "/auth/logout", nil)

	if w.Code != http.StatusNoContent {
		t.Fatalf("期望 204，实际 %d", w.Code)
	}
	if mock.logoutJTI != "test-jti" {
		t.Errorf("应以当前 Token 的 JTI 登出，实际 %q", mock.logoutJTI)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r := gin.New()
	r.GET("/auth/me", h.Me)
	w := doRequest(r, "GET", "/auth/me", nil)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("期望 401，实际 %d", w.Code)
	}
	if body := parseError(t, w); body.Code != "UNAUTHORIZED" {
		t.Errorf("期望 UNAUTHORIZED，实际 %s", body.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// CourseHandler Tests
// ═══════════════════════════════════════════════════════════

func TestCourseHandler_ListCourses_Page(t *testing.T) {
	mock := &mockCourseService{list: []dto.CourseResponse{{ID: "c1"}, {ID: "c2"}}, total: 45}
	h := NewCourseHandler(mock)

	r := gin.New()
	r.GET("/courses", h.ListCourses)
	w := doRequest(r, "GET", "/courses?page=2&page_size=20&sort=popular", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d: %s", w.Code, w.Body.String())
	}
	var page struct {
		List       []dto.CourseResponse `json:"list"`
		Pagination response.Pagination  `json:"pagination"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &page)
	if len(page.List) != 2 || page.Pagination.Page != 2 || page.Pagination.TotalPages != 3 {
		t.Errorf("分页结果不符: %+v", page.Pagination)
	}
}

func TestCourseHandler_ListCourses_BadSort(t *testing.T) {
	h := NewCourseHandler(&mockCourseService{})

	r := gin.New()
	r.GET("/courses", h.ListCourses)
	w := doRequest(r, "GET", "/courses?sort=random", nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望 400，实际 %d", w.Code)
	}
	if names := fieldNames(t, parseError(t, w)); !contains(names, "sort") {
		t.Errorf("details.fields 应包含 sort，实际: %v", names)
	}
}

func TestCourseHandler_GetCourse_Anonymous(t *testing.T) {
	mock := &mockCourseService{}
	h := NewCourseHandler(mock)

	r := gin.New()
	r.GET("/courses/:id", h.GetCourse)
	w := doRequest(r, "GET", "/courses/"+testCourseID, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	if mock.gotCaller != "" || mock.gotRole != "" {
		t.Errorf("匿名访问不应带调用方信息: %q/%q", mock.gotCaller, mock.gotRole)
	}
}

func TestCourseHandler_GetCourse_MalformedID(t *testing.T) {
	mock := &mockCourseService{}
	h := NewCourseHandler(mock)

	r := gin.New()
	r.GET("/courses/:id", h.GetCourse)
	w := doRequest(r, "GET", "/courses/abc", nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望 400，实际 %d", w.Code)
	}
	body := parseError(t, w)
	if body.Code != "INVALID_INPUT" {
		t.Errorf("期望 INVALID_INPUT，实际 %s", body.Code)
	}
	if names := fieldNames(t, body); !contains(names, "id") {
		t.Errorf("details.fields 应包含 id，实际: %v", names)
	}
	if mock.calls != 0 {
		t.Errorf("非法 id 不应进入 Service，实际调用 %d 次", mock.calls)
	}
}

func TestCourseHandler_UpdateCourse_CategoryID(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"空字符串清除分类", `{"category_id":""}`, http.StatusOK},
		{"合法 UUID", `{"category_id":"` + testItemID + `"}`, http.StatusOK},
		{"非法 UUID", `{"category_id":"abc"}`, http.StatusBadRequest},
		{"空字符串清除难度", `{"difficulty_id":""}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockCourseService{}
			h := NewCourseHandler(mock)

			r := gin.New()
			r.PUT("/instructor/courses/:id", withAuth(string(model.RoleInstructor)), h.UpdateCourse)
			w := doRequest(r, "PUT", "/instructor/courses/"+testCourseID, strings.NewReader(tt.body))

			if w.Code != tt.wantStatus {
				t.Fatalf("期望 %d，实际 %d, body=%s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			if mock.gotUpdate == nil {
				t.Fatal("Service 应收到更新请求")
			}
		})
	}
}

func TestCourseHandler_UpdateCourse_EmptyCategoryReachesService(t *testing.T) {
	mock := &mockCourseService{}
	h := NewCourseHandler(mock)

	r := gin.New()
	r.PUT("/instructor/courses/:id", withAuth(string(model.RoleInstructor)), h.UpdateCourse)
	w := doRequest(r, "PUT", "/instructor/courses/"+testCourseID, strings.NewReader(`{"category_id":""}`))

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	if mock.gotUpdate.CategoryID == nil || *mock.gotUpdate.CategoryID != "" {
		t.Errorf("category_id 应以空字符串传入 Service，实际: %v", mock.gotUpdate.CategoryID)
	}
	if mock.gotUpdate.DifficultyID != nil {
		t.Errorf("未传 difficulty_id 时应为 nil")
	}
}

func TestCourseHandler_ChangeStatus_TransitionDetails(t *testing.T) {
	mock := &mockCourseService{err: &service.TransitionError{
		Entity: "course", From: string(model.CourseStatusArchived), To: string(model.CourseStatusPublished),
	}}
	h := NewCourseHandler(mock)

	r := gin.New()
	r.PATCH("/instructor/courses/:id/status", withAuth(string(model.RoleInstructor)), h.ChangeCourseStatus)
	w := doRequest(r, "PATCH", "/instructor/courses/"+testCourseID+"/status", jsonBody(map[string]string{"status": "published"}))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望 400，实际 %d", w.Code)
	}
	body := parseError(t, w)
	if body.Code != "INVALID_COURSE_STATUS_TRANSITION" {
		t.Errorf("期望 INVALID_COURSE_STATUS_TRANSITION，实际 %s", body.Code)
	}
	details, _ := body.Details.(map[string]interface{})
	if details["current"] != "archived" || details["target"] != "published" {
		t.Errorf("details 应包含 current/target，实际: %#v", body.Details)
	}
}

func TestCourseHandler_ChangeStatus_UnknownStatus(t *testing.T) {
	h := NewCourseHandler(&mockCourseService{})

	r := gin.New()
	r.PATCH("/instructor/courses/:id/status", withAuth(string(model.RoleInstructor)), h.ChangeCourseStatus)
	w := doRequest(r, "PATCH", "/instructor/courses/"+testCourseID+"/status", jsonBody(map[string]string{"status": "deleted"}))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望 400，实际 %d", w.Code)
	}
	if body := parseError(t, w); body.Code != "INVALID_INPUT" {
		t.Errorf("未知状态应为 INVALID_INPUT，实际 %s", body.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// EnrollmentHandler Tests
// ═══════════════════════════════════════════════════════════

func TestEnrollmentHandler_Enroll_StatusByAction(t *testing.T) {
	tests := []struct {
		action     string
		wantStatus int
	}{
		{dto.EnrollActionEnrolled, http.StatusCreated},
		{dto.EnrollActionReEnrolled, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			h := NewEnrollmentHandler(&mockEnrollmentService{action: tt.action})

			r := gin.New()
			r.POST("/enrollments", withAuth(string(model.RoleLearner)), h.Enroll)
			w := doRequest(r, "POST", "/enrollments", jsonBody(dto.EnrollRequest{CourseID: testCourseID}))

			if w.Code != tt.wantStatus {
				t.Errorf("期望 %d，实际 %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestEnrollmentHandler_Cancel(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"有效选课", nil, http.StatusNoContent},
		{"无有效选课", service.ErrEnrollmentNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewEnrollmentHandler(&mockEnrollmentService{cancelErr: tt.err})

			r := gin.New()
			r.DELETE("/enrollments/:courseId", withAuth(string(model.RoleLearner)), h.Cancel)
			w := doRequest(r, "DELETE", "/enrollments/"+testCourseID, nil)

			if w.Code != tt.wantStatus {
				t.Errorf("期望 %d，实际 %d", tt.wantStatus, w.Code)
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// SubmissionHandler Tests
// ═══════════════════════════════════════════════════════════

func TestSubmissionHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"未选课", service.ErrEnrollmentRequired, 403, "ENROLLMENT_REQUIRED"},
		{"作业不存在", service.ErrAssignmentNotFound, 404, "ASSIGNMENT_NOT_FOUND"},
		{"重复提交", service.ErrAlreadySubmitted, 409, "ALREADY_SUBMITTED"},
		{"迟交被拒", service.ErrLateSubmissionBlocked, 409, "LATE_SUBMISSION_BLOCKED"},
		{"作业已关闭", service.ErrAssignmentClosed, 409, "ASSIGNMENT_CLOSED"},
		{"并发冲突", pkgerrors.ErrStatusConflict, 409, "STATUS_CONFLICT"},
		{"未知错误", errors.New("db down"), 500, "SUBMISSION_FETCH_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSubmissionHandler(&mockSubmissionService{err: tt.err})

			r := gin.New()
			r.POST("/my/courses/:courseId/assignments/:id/submissions", withAuth(string(model.RoleLearner)), h.Submit)
			w := doRequest(r, "POST", "/my/courses/"+testCourseID+"/assignments/"+testItemID+"/submissions",
				jsonBody(dto.SubmitRequest{ContentText: "答案"}))

			if w.Code != tt.wantStatus {
				t.Errorf("期望状态 %d，实际 %d", tt.wantStatus, w.Code)
			}
			if body := parseError(t, w); body.Code != tt.wantCode {
				t.Errorf("期望错误码 %s，实际 %s", tt.wantCode, body.Code)
			}
		})
	}
}

func TestSubmissionHandler_Submit_MalformedPathIDs(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantField string
	}{
		{"课程 id 非法", "/my/courses/abc/assignments/" + testItemID + "/submissions", "courseId"},
		{"作业 id 非法", "/my/courses/" + testCourseID + "/assignments/1/submissions", "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockSubmissionService{}
			h := NewSubmissionHandler(mock)

			r := gin.New()
			r.POST("/my/courses/:courseId/assignments/:id/submissions", withAuth(string(model.RoleLearner)), h.Submit)
			w := doRequest(r, "POST", tt.path, jsonBody(dto.SubmitRequest{ContentText: "答案"}))

			if w.Code != http.StatusBadRequest {
				t.Fatalf("期望 400，实际 %d", w.Code)
			}
			body := parseError(t, w)
			if body.Code != "INVALID_INPUT" {
				t.Errorf("期望 INVALID_INPUT，实际 %s", body.Code)
			}
			if names := fieldNames(t, body); !contains(names, tt.wantField) {
				t.Errorf("details.fields 应包含 %s，实际: %v", tt.wantField, names)
			}
			if mock.calls != 0 {
				t.Errorf("非法 id 不应进入 Service")
			}
		})
	}
}

func TestSubmissionHandler_Submit_RequiresContent(t *testing.T) {
	h := NewSubmissionHandler(&mockSubmissionService{})

	r := gin.New()
	r.POST("/my/courses/:courseId/assignments/:id/submissions", withAuth(string(model.RoleLearner)), h.Submit)
	w := doRequest(r, "POST", "/my/courses/"+testCourseID+"/assignments/"+testItemID+"/submissions", jsonBody(map[string]string{}))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望 400，实际 %d", w.Code)
	}
	if names := fieldNames(t, parseError(t, w)); !contains(names, "content_text") {
		t.Errorf("details.fields 应包含 content_text，实际: %v", names)
	}
}

func TestSubmissionHandler_Grade(t *testing.T) {
	t.Run("成功", func(t *testing.T) {
		h := NewSubmissionHandler(&mockSubmissionService{})

		r := gin.New()
		r.PATCH("/instructor/submissions/:id/grade", withAuth(string(model.RoleInstructor)), h.Grade)
		w := doRequest(r, "PATCH", "/instructor/submissions/"+testItemID+"/grade", jsonBody(map[string]int{"score": 0}))

		if w.Code != http.StatusOK {
			t.Fatalf("0 分是合法分数，期望 200，实际 %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("缺少分数", func(t *testing.T) {
		h := NewSubmissionHandler(&mockSubmissionService{})

		r := gin.New()
		r.PATCH("/instructor/submissions/:id/grade", withAuth(string(model.RoleInstructor)), h.Grade)
		w := doRequest(r, "PATCH", "/instructor/submissions/"+testItemID+"/grade", jsonBody(map[string]string{"feedback": "好"}))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("期望 400，实际 %d", w.Code)
		}
		if names := fieldNames(t, parseError(t, w)); !contains(names, "score") {
			t.Errorf("details.fields 应包含 score，实际: %v", names)
		}
	})

	t.Run("超出上限", func(t *testing.T) {
		h := NewSubmissionHandler(&mockSubmissionService{err: service.ErrInvalidScore})

		r := gin.New()
		r.PATCH("/instructor/submissions/:id/grade", withAuth(string(model.RoleInstructor)), h.Grade)
		w := doRequest(r, "PATCH", "/instructor/submissions/"+testItemID+"/grade", jsonBody(map[string]int{"score": 101}))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("期望 400，实际 %d", w.Code)
		}
		body := parseError(t, w)
		if body.Code != "INVALID_INPUT" || !contains(fieldNames(t, body), "score") {
			t.Errorf("期望 INVALID_INPUT 且 details 指向 score，实际: %+v", body)
		}
	})

	t.Run("非法跳转", func(t *testing.T) {
		h := NewSubmissionHandler(&mockSubmissionService{err: &service.TransitionError{
			Entity: "submission", From: "invalidated", To: "graded",
		}})

		r := gin.New()
		r.PATCH("/instructor/submissions/:id/grade", withAuth(string(model.RoleInstructor)), h.Grade)
		w := doRequest(r, "PATCH", "/instructor/submissions/"+testItemID+"/grade", jsonBody(map[string]int{"score": 80}))

		if body := parseError(t, w); w.Code != http.StatusBadRequest || body.Code != "INVALID_SUBMISSION_STATUS_TRANSITION" {
			t.Errorf("期望 400 INVALID_SUBMISSION_STATUS_TRANSITION，实际 %d %s", w.Code, body.Code)
		}
	})
}

// ═══════════════════════════════════════════════════════════
// ReportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestReportHandler_CreateReport(t *testing.T) {
	h := NewReportHandler(&mockReportService{})

	r := gin.New()
	r.POST("/reports", withAuth(string(model.RoleLearner)), h.CreateReport)
	w := doRequest(r, "POST", "/reports", jsonBody(dto.CreateReportRequest{
		TargetType: "course", TargetID: testCourseID, Reason: "内容不当",
	}))

	if w.Code != http.StatusCreated {
		t.Fatalf("期望 201，实际 %d: %s", w.Code, w.Body.String())
	}
	var got dto.ReportResponse
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.ReporterID != testUserID || got.Status != "received" {
		t.Errorf("响应不符: %+v", got)
	}
}

func TestReportHandler_ListReports_QueryBinding(t *testing.T) {
	mock := &mockReportService{}
	h := NewReportHandler(mock)

	r := gin.New()
	r.GET("/operator/reports", h.ListReports)
	w := doRequest(r, "GET", "/operator/reports?status=received&order=asc", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	if mock.gotLR == nil || mock.gotLR.Status != "received" || mock.gotLR.Order != "asc" {
		t.Errorf("查询参数未正确绑定: %+v", mock.gotLR)
	}
}

func TestReportHandler_UpdateStatus_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"已处理", service.ErrReportAlreadyResolved, 409, "REPORT_ALREADY_RESOLVED"},
		{"动作不允许", service.ErrReportActionNotAllowed, 400, "INVALID_REPORT_ACTION"},
		{"动作与对象不匹配", service.ErrReportActionTargetMismatch, 400, "INVALID_REPORT_ACTION"},
		{"不存在", service.ErrReportNotFound, 404, "REPORT_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewReportHandler(&mockReportService{err: tt.err})

			r := gin.New()
			r.PATCH("/operator/reports/:id", withAuth(string(model.RoleOperator)), h.UpdateReportStatus)
			w := doRequest(r, "PATCH", "/operator/reports/"+testItemID, jsonBody(map[string]string{"status": "resolved"}))

			if w.Code != tt.wantStatus {
				t.Errorf("期望状态 %d，实际 %d", tt.wantStatus, w.Code)
			}
			if body := parseError(t, w); body.Code != tt.wantCode {
				t.Errorf("期望错误码 %s，实际 %s", tt.wantCode, body.Code)
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// Export / Calendar Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_Success(t *testing.T) {
	h := NewExportHandler(&mockExportService{buf: bytes.NewBufferString("excel content"), filename: "成绩单_课程.xlsx"})

	r := gin.New()
	r.GET("/instructor/courses/:id/grades/export", withAuth(string(model.RoleInstructor)), h.ExportGradeRoster)
	w := doRequest(r, "GET", "/instructor/courses/"+testCourseID+"/grades/export", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("Content-Type 不符: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "filename*=UTF-8''") {
		t.Errorf("Content-Disposition 应使用 UTF-8 编码文件名: %s", cd)
	}
}

func TestExportHandler_Forbidden(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrForbidden})

	r := gin.New()
	r.GET("/instructor/courses/:id/grades/export", withAuth(string(model.RoleInstructor)), h.ExportGradeRoster)
	w := doRequest(r, "GET", "/instructor/courses/"+testCourseID+"/grades/export", nil)

	if w.Code != http.StatusForbidden {
		t.Errorf("期望 403，实际 %d", w.Code)
	}
}

func TestAssignmentHandler_Calendar(t *testing.T) {
	h := NewAssignmentHandler(nil, &mockCalendarService{data: []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")})

	r := gin.New()
	r.GET("/my/courses/:courseId/assignments/calendar.ics", withAuth(string(model.RoleLearner)), h.MyAssignmentCalendar)
	w := doRequest(r, "GET", "/my/courses/"+testCourseID+"/assignments/calendar.ics", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("Content-Type 应为 text/calendar，实际 %s", ct)
	}
	if !strings.HasPrefix(w.Body.String(), "BEGIN:VCALENDAR") {
		t.Errorf("响应体应为 iCalendar 内容")
	}
}

func TestAssignmentHandler_Calendar_EnrollmentRequired(t *testing.T) {
	h := NewAssignmentHandler(nil, &mockCalendarService{err: service.ErrEnrollmentRequired})

	r := gin.New()
	r.GET("/my/courses/:courseId/assignments/calendar.ics", withAuth(string(model.RoleLearner)), h.MyAssignmentCalendar)
	w := doRequest(r, "GET", "/my/courses/"+testCourseID+"/assignments/calendar.ics", nil)

	if body := parseError(t, w); w.Code != http.StatusForbidden || body.Code != "ENROLLMENT_REQUIRED" {
		t.Errorf("期望 403 ENROLLMENT_REQUIRED，实际 %d %s", w.Code, body.Code)
	}
}
