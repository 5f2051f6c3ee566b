package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/greatson79/test1-lms-sub000/internal/dto"
	"github.com/greatson79/test1-lms-sub000/internal/service"
	"github.com/greatson79/test1-lms-sub000/pkg/response"
)

const submissionFetchError = "SUBMISSION_FETCH_ERROR"

// SubmissionHandler 提交模块 HTTP 处理器
type SubmissionHandler struct {
	submissionSvc service.SubmissionService
}

// NewSubmissionHandler 创建 SubmissionHandler
func NewSubmissionHandler(submissionSvc service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionSvc: submissionSvc}
}

// Submit 首次提交
// POST /api/my/courses/:courseId/assignments/:id/submissions
func (h *SubmissionHandler) Submit(c *gin.Context) {
	var uri dto.CourseItemURI
	if !bindURI(c, &uri) {
		return
	}

	var req dto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	learnerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	sub, err := h.submissionSvc.Submit(c.Request.Context(), uri.CourseID, uri.ID, learnerID, &req)
	if err != nil {
		respondError(c, err, submissionFetchError)
		return
	}

	response.Created(c, sub)
}

// Resubmit 按讲师要求重新提交
// PUT /api/my/courses/:courseId/assignments/:id/submissions
func (h *SubmissionHandler) Resubmit(c *gin.Context) {
	var uri dto.CourseItemURI
	if !bindURI(c, &uri) {
		return
	}

	var req dto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	learnerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	sub, err := h.submissionSvc.Resubmit(c.Request.Context(), uri.CourseID, uri.ID, learnerID, &req)
	if err != nil {
		respondError(c, err, submissionFetchError)
		return
	}

	response.OK(c, sub)
}

// ListAssignmentSubmissions 讲师查看作业的全部提交
// GET /api/instructor/assignments/:id/submissions
func (h *SubmissionHandler) ListAssignmentSubmissions(c *gin.Context) {
	var uri dto.IDURI
	if !bindURI(c, &uri) {
		return
	}

	instructorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.submissionSvc.ListByAssignment(c.Request.Context(), uri.ID, instructorID)
	if err != nil {
		respondError(c, err, submissionFetchError)
		return
	}

	response.OK(c, list)
}

// Grade 评分
// PATCH /api/instructor/submissions/:id/grade
func (h *SubmissionHandler) Grade(c *gin.Context) {
	var uri dto.IDURI
	if !bindURI(c, &uri) {
		return
	}

	var req dto.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	instructorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	sub, err := h.submissionSvc.Grade(c.Request.Context(), uri.ID, &req, instructorID)
	if err != nil {
		respondError(c, err, submissionFetchError)
		return
	}

	response.OK(c, sub)
}

// RequestResubmission 要求学员重新提交
// PATCH /api/instructor/submissions/:id/request-resubmission
func (h *SubmissionHandler) RequestResubmission(c *gin.Context) {
	var uri dto.IDURI
	if !bindURI(c, &uri) {
		return
	}

	var req dto.RequestResubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	instructorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	sub, err := h.submissionSvc.RequestResubmission(c.Request.Context(), uri.ID, &req, instructorID)
	if err != nil {
		respondError(c, err, submissionFetchError)
		return
	}

	response.OK(c, sub)
}
