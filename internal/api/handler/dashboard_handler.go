package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/greatson79/test1-lms-sub000/internal/service"
	"github.com/greatson79/test1-lms-sub000/pkg/response"
)

// DashboardHandler 讲师工作台 HTTP 处理器
type DashboardHandler struct {
	dashboardSvc service.DashboardService
}

// NewDashboardHandler 创建 DashboardHandler
func NewDashboardHandler(dashboardSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// Instructor 讲师工作台
// GET /api/instructor/dashboard
func (h *DashboardHandler) Instructor(c *gin.Context) {
	instructorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.dashboardSvc.Instructor(c.Request.Context(), instructorID)
	if err != nil {
		respondError(c, err, "DASHBOARD_FETCH_ERROR")
		return
	}

	response.OK(c, resp)
}
