package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/greatson79/test1-lms-sub000/internal/dto"
	"github.com/greatson79/test1-lms-sub000/internal/service"
	"github.com/greatson79/test1-lms-sub000/pkg/response"
)

const reportFetchError = "REPORT_FETCH_ERROR"

// ReportHandler 举报模块 HTTP 处理器
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// CreateReport 任意登录用户提交举报
// POST /api/reports
func (h *ReportHandler) CreateReport(c *gin.Context) {
	var req dto.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	reporterID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	report, err := h.reportSvc.Create(c.Request.Context(), &req, reporterID)
	if err != nil {
		respondError(c, err, reportFetchError)
		return
	}

	response.Created(c, report)
}

// ListReports 运营查看举报列表，默认按创建时间倒序
// GET /api/operator/reports?status=&order=asc|desc
func (h *ReportHandler) ListReports(c *gin.Context) {
	var req dto.ReportListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	list, total, err := h.reportSvc.List(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, reportFetchError)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetReport 举报详情
// GET /api/operator/reports/:id
func (h *ReportHandler) GetReport(c *gin.Context) {
	var uri dto.IDURI
	if !bindURI(c, &uri) {
		return
	}

	report, err := h.reportSvc.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		respondError(c, err, reportFetchError)
		return
	}

	response.OK(c, report)
}

// UpdateReportStatus 处理举报
// PATCH /api/operator/reports/:id
func (h *ReportHandler) UpdateReportStatus(c *gin.Context) {
	var uri dto.IDURI
	if !bindURI(c, &uri) {
		return
	}

	var req dto.UpdateReportStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	report, err := h.reportSvc.UpdateStatus(c.Request.Context(), uri.ID, &req, operatorID)
	if err != nil {
		respondError(c, err, reportFetchError)
		return
	}

	response.OK(c, report)
}
