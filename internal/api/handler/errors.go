package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/greatson79/test1-lms-sub000/internal/service"
	pkgerrors "github.com/greatson79/test1-lms-sub000/pkg/errors"
	"github.com/greatson79/test1-lms-sub000/pkg/response"
)

// errorMapping 业务错误 → HTTP 状态 + 错误码
type errorMapping struct {
	err    error
	status int
	code   string
}

// 顺序即匹配优先级
var errorTable = []errorMapping{
	// 401
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{service.ErrInvalidRefreshToken, http.StatusUnauthorized, "UNAUTHORIZED"},

	// 403
	{service.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{service.ErrEnrollmentRequired, http.StatusForbidden, "ENROLLMENT_REQUIRED"},
	{service.ErrAccountRestricted, http.StatusForbidden, "ACCOUNT_RESTRICTED"},

	// 404
	{service.ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
	{service.ErrCourseNotFound, http.StatusNotFound, "COURSE_NOT_FOUND"},
	{service.ErrAssignmentNotFound, http.StatusNotFound, "ASSIGNMENT_NOT_FOUND"},
	{service.ErrSubmissionNotFound, http.StatusNotFound, "SUBMISSION_NOT_FOUND"},
	{service.ErrEnrollmentNotFound, http.StatusNotFound, "ENROLLMENT_NOT_FOUND"},
	{service.ErrReportNotFound, http.StatusNotFound, "REPORT_NOT_FOUND"},
	{service.ErrReportTargetNotFound, http.StatusNotFound, "REPORT_TARGET_NOT_FOUND"},
	{service.ErrCategoryNotFound, http.StatusNotFound, "CATEGORY_NOT_FOUND"},
	{service.ErrDifficultyNotFound, http.StatusNotFound, "DIFFICULTY_NOT_FOUND"},

	// 409
	{service.ErrEmailExists, http.StatusConflict, "EMAIL_ALREADY_EXISTS"},
	{service.ErrAlreadyEnrolled, http.StatusConflict, "ALREADY_ENROLLED"},
	{service.ErrCourseNotPublished, http.StatusConflict, "COURSE_NOT_PUBLISHED"},
	{service.ErrAlreadySubmitted, http.StatusConflict, "ALREADY_SUBMITTED"},
	{service.ErrLateSubmissionBlocked, http.StatusConflict, "LATE_SUBMISSION_BLOCKED"},
	{service.ErrAssignmentClosed, http.StatusConflict, "ASSIGNMENT_CLOSED"},
	{service.ErrResubmitNotAllowed, http.StatusConflict, "RESUBMIT_NOT_ALLOWED"},
	{service.ErrResubmitNotRequested, http.StatusConflict, "RESUBMIT_NOT_REQUESTED"},
	{service.ErrReportAlreadyResolved, http.StatusConflict, "REPORT_ALREADY_RESOLVED"},
	{service.ErrMetadataNameExists, http.StatusConflict, "NAME_ALREADY_EXISTS"},
	{pkgerrors.ErrStatusConflict, http.StatusConflict, "STATUS_CONFLICT"},

	// 400
	{service.ErrReportActionNotAllowed, http.StatusBadRequest, "INVALID_REPORT_ACTION"},
	{service.ErrReportActionTargetMismatch, http.StatusBadRequest, "INVALID_REPORT_ACTION"},
	{service.ErrInvalidScore, http.StatusBadRequest, "INVALID_INPUT"},
}

// respondError 将 Service 层错误翻译为统一错误响应
// 未识别的错误按 500 返回模块级 fetchCode
func respondError(c *gin.Context, err error, fetchCode string) {
	var te *service.TransitionError
	if errors.As(err, &te) {
		response.ErrorWithDetails(c, http.StatusBadRequest,
			"INVALID_"+strings.ToUpper(te.Entity)+"_STATUS_TRANSITION",
			te.Error(),
			gin.H{"current": te.From, "target": te.To})
		return
	}

	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			if m.err == service.ErrInvalidScore {
				response.ErrorWithDetails(c, m.status, m.code, err.Error(),
					gin.H{"fields": []FieldError{{Field: "score", Rule: "max"}}})
				return
			}
			response.Error(c, m.status, m.code, err.Error())
			return
		}
	}

	_ = c.Error(err)
	response.InternalError(c, fetchCode)
}
