package dto

// ── 举报模块 DTO ──

// CreateReportRequest 创建举报请求
type CreateReportRequest struct {
	TargetType string `json:"target_type" binding:"required,oneof=course assignment submission user"`
	TargetID   string `json:"target_id"   binding:"required,uuid"`
	Reason     string `json:"reason"      binding:"required,min=1,max=100"`
	Content    string `json:"content"     binding:"omitempty,max=5000"`
}

// ReportListRequest 举报列表查询参数
type ReportListRequest struct {
	PaginationRequest
	Status string `form:"status" binding:"omitempty,oneof=received investigating resolved"`
	Order  string `form:"order"  binding:"omitempty,oneof=asc desc"`
}

// UpdateReportStatusRequest 举报状态跳转；action 只允许在 resolved 时携带
type UpdateReportStatusRequest struct {
	Status string  `json:"status" binding:"required,oneof=received investigating resolved"`
	Action *string `json:"action" binding:"omitempty,oneof=warning invalidate_submission restrict_account"`
}

// ReportResponse 举报信息响应
type ReportResponse struct {
	ID         string  `json:"id"`
	ReporterID string  `json:"reporter_id"`
	TargetType string  `json:"target_type"`
	TargetID   string  `json:"target_id"`
	Reason     string  `json:"reason"`
	Content    string  `json:"content"`
	Status     string  `json:"status"`
	Action     *string `json:"action"`
	HandledBy  *string `json:"handled_by,omitempty"`
	ResolvedAt *string `json:"resolved_at,omitempty"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}
