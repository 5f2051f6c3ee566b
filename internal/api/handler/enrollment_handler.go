package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/greatson79/test1-lms-sub000/internal/dto"
	"github.com/greatson79/test1-lms-sub000/internal/service"
	"github.com/greatson79/test1-lms-sub000/pkg/response"
)

const enrollmentFetchError = "ENROLLMENT_FETCH_ERROR"

// EnrollmentHandler 选课模块 HTTP 处理器
type EnrollmentHandler struct {
	enrollmentSvc service.EnrollmentService
}

// NewEnrollmentHandler 创建 EnrollmentHandler
func NewEnrollmentHandler(enrollmentSvc service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentSvc: enrollmentSvc}
}

// Enroll 选课或重新选课
// POST /api/enrollments
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req dto.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	learnerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.enrollmentSvc.Enroll(c.Request.Context(), req.CourseID, learnerID)
	if err != nil {
		respondError(c, err, enrollmentFetchError)
		return
	}

	if result.Action == dto.EnrollActionEnrolled {
		response.Created(c, result)
		return
	}
	response.OK(c, result)
}

// Cancel 退课
// DELETE /api/enrollments/:courseId
func (h *EnrollmentHandler) Cancel(c *gin.Context) {
	var uri dto.CourseURI
	if !bindURI(c, &uri) {
		return
	}

	learnerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.enrollmentSvc.Cancel(c.Request.Context(), uri.CourseID, learnerID); err != nil {
		respondError(c, err, enrollmentFetchError)
		return
	}

	response.NoContent(c)
}

// ListMyCourses 我的课程
// GET /api/my/courses
func (h *EnrollmentHandler) ListMyCourses(c *gin.Context) {
	learnerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.enrollmentSvc.ListMyCourses(c.Request.Context(), learnerID)
	if err != nil {
		respondError(c, err, enrollmentFetchError)
		return
	}

	response.OK(c, list)
}
