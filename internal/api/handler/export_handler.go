package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/greatson79/test1-lms-sub000/internal/dto"
	"github.com/greatson79/test1-lms-sub000/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportGradeRoster 导出课程成绩单
// GET /api/instructor/courses/:id/grades/export
func (h *ExportHandler) ExportGradeRoster(c *gin.Context) {
	var uri dto.IDURI
	if !bindURI(c, &uri) {
		return
	}

	instructorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportGradeRoster(c.Request.Context(), uri.ID, instructorID)
	if err != nil {
		respondError(c, err, "EXPORT_FETCH_ERROR")
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
