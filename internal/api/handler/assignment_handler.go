package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greatson79/test1-lms-sub000/internal/dto"
	"github.com/greatson79/test1-lms-sub000/internal/model"
	"github.com/greatson79/test1-lms-sub000/internal/service"
	"github.com/greatson79/test1-lms-sub000/pkg/response"
)

const assignmentFetchError = "ASSIGNMENT_FETCH_ERROR"

// AssignmentHandler 作业模块 HTTP 处理器
type AssignmentHandler struct {
	assignmentSvc service.AssignmentService
	calendarSvc   service.CalendarService
}

// NewAssignmentHandler 创建 AssignmentHandler
func NewAssignmentHandler(assignmentSvc service.AssignmentService, calendarSvc service.CalendarService) *AssignmentHandler {
	return &AssignmentHandler{assignmentSvc: assignmentSvc, calendarSvc: calendarSvc}
}

// ── 讲师接口 ──

// ListCourseAssignments 课程下的全部作业
// GET /api/instructor/courses/:id/assignments
func (h *AssignmentHandler) ListCourseAssignments(c *gin.Context) {
	var uri dto.IDURI
	if !bindURI(c, &uri) {
		return
	}

	instructorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.assignmentSvc.ListForInstructor(c.Request.Context(), uri.ID, instructorID)
	if err != nil {
		respondError(c, err, assignmentFetchError)
		return
	}

	response.OK(c, list)
}

// CreateAssignment 创建作业（草稿）
// POST /api/instructor/courses/:id/assignments
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	var uri dto.IDURI
	if !bindURI(c, &uri) {
		return
	}

	var req dto.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	instructorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	assignment, err := h.assignmentSvc.Create(c.Request.Context(), uri.ID, &req, instructorID)
	if err != nil {
		respondError(c, err, assignmentFetchError)
		return
	}

	response.Created(c, assignment)
}

// GetAssignment 讲师查看作业
// GET /api/instructor/assignments/:id
func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	var uri dto.IDURI
	if !bindURI(c, &uri) {
		return
	}

	instructorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	assignment, err := h.assignmentSvc.GetForInstructor(c.Request.Context(), uri.ID, instructorID)
	if err != nil {
		respondError(c, err, assignmentFetchError)
		return
	}

	response.OK(c, assignment)
}

// UpdateAssignment 更新作业内容
// PUT /api/instructor/assignments/:id
func (h *AssignmentHandler) UpdateAssignment(c *gin.Context) {
	var uri dto.IDURI
	if !bindURI(c, &uri) {
		return
	}

	var req dto.UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	instructorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	assignment, err := h.assignmentSvc.Update(c.Request.Context(), uri.ID, &req, instructorID)
	if err != nil {
		respondError(c, err, assignmentFetchError)
		return
	}

	response.OK(c, assignment)
}

// ChangeAssignmentStatus 作业状态跳转
// PATCH /api/instructor/assignments/:id/status
func (h *AssignmentHandler) ChangeAssignmentStatus(c *gin.Context) {
	var uri dto.IDURI
	if !bindURI(c, &uri) {
		return
	}

	var req dto.ChangeAssignmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	instructorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	assignment, err := h.assignmentSvc.ChangeStatus(c.Request.Context(), uri.ID,
		model.AssignmentStatus(req.Status), instructorID)
	if err != nil {
		respondError(c, err, assignmentFetchError)
		return
	}

	response.OK(c, assignment)
}

// ── 学员接口 ──

// ListMyAssignments 学员可见的作业及本人提交
// GET /api/my/courses/:courseId/assignments
func (h *AssignmentHandler) ListMyAssignments(c *gin.Context) {
	var uri dto.CourseURI
	if !bindURI(c, &uri) {
		return
	}

	learnerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.assignmentSvc.ListForLearner(c.Request.Context(), uri.CourseID, learnerID)
	if err != nil {
		respondError(c, err, assignmentFetchError)
		return
	}

	response.OK(c, list)
}

// GetMyAssignment 学员查看作业详情
// GET /api/my/courses/:courseId/assignments/:id
func (h *AssignmentHandler) GetMyAssignment(c *gin.Context) {
	var uri dto.CourseItemURI
	if !bindURI(c, &uri) {
		return
	}

	learnerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	item, err := h.assignmentSvc.GetForLearner(c.Request.Context(), uri.CourseID, uri.ID, learnerID)
	if err != nil {
		respondError(c, err, assignmentFetchError)
		return
	}

	response.OK(c, item)
}

// MyAssignmentCalendar 作业截止日历（iCalendar）
// GET /api/my/courses/:courseId/assignments/calendar.ics
func (h *AssignmentHandler) MyAssignmentCalendar(c *gin.Context) {
	var uri dto.CourseURI
	if !bindURI(c, &uri) {
		return
	}

	learnerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	data, filename, err := h.calendarSvc.LearnerAssignments(c.Request.Context(), uri.CourseID, learnerID)
	if err != nil {
		respondError(c, err, assignmentFetchError)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}
