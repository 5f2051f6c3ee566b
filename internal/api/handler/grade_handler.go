package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/greatson79/test1-lms-sub000/internal/dto"
	"github.com/greatson79/test1-lms-sub000/internal/service"
	"github.com/greatson79/test1-lms-sub000/pkg/response"
)

const gradeFetchError = "GRADE_FETCH_ERROR"

// GradeHandler 成绩模块 HTTP 处理器
type GradeHandler struct {
	gradeSvc service.GradeService
}

// NewGradeHandler 创建 GradeHandler
func NewGradeHandler(gradeSvc service.GradeService) *GradeHandler {
	return &GradeHandler{gradeSvc: gradeSvc}
}

// MyCourseGrade 学员课程成绩
// GET /api/my/courses/:courseId/grades
func (h *GradeHandler) MyCourseGrade(c *gin.Context) {
	var uri dto.CourseURI
	if !bindURI(c, &uri) {
		return
	}

	learnerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	grade, err := h.gradeSvc.LearnerCourseGrade(c.Request.Context(), uri.CourseID, learnerID)
	if err != nil {
		respondError(c, err, gradeFetchError)
		return
	}

	response.OK(c, grade)
}

// CourseRoster 讲师查看课程成绩单
// GET /api/instructor/courses/:id/grades
func (h *GradeHandler) CourseRoster(c *gin.Context) {
	var uri dto.IDURI
	if !bindURI(c, &uri) {
		return
	}

	instructorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	roster, err := h.gradeSvc.CourseRoster(c.Request.Context(), uri.ID, instructorID)
	if err != nil {
		respondError(c, err, gradeFetchError)
		return
	}

	response.OK(c, roster)
}
