package dto

import "time"

// ── 作业模块 DTO ──

// CreateAssignmentRequest 创建作业请求
// weight 只校验为正数，不要求同一课程合计为 100
type CreateAssignmentRequest struct {
	Title         string    `json:"title"          binding:"required,min=1,max=200"`
	Description   string    `json:"description"    binding:"omitempty,max=10000"`
	DueAt         time.Time `json:"due_at"         binding:"required"`
	Weight        float64   `json:"weight"         binding:"required,gt=0,lte=1000"`
	AllowLate     bool      `json:"allow_late"`
	AllowResubmit bool      `json:"allow_resubmit"`
}

// UpdateAssignmentRequest 更新作业请求（不含 status）
type UpdateAssignmentRequest struct {
	Title         *string    `json:"title"          binding:"omitempty,min=1,max=200"`
	Description   *string    `json:"description"    binding:"omitempty,max=10000"`
	DueAt         *time.Time `json:"due_at"`
	Weight        *float64   `json:"weight"         binding:"omitempty,gt=0,lte=1000"`
	AllowLate     *bool      `json:"allow_late"`
	AllowResubmit *bool      `json:"allow_resubmit"`
}

// ChangeAssignmentStatusRequest 作业状态跳转请求
type ChangeAssignmentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=draft published closed"`
}

// AssignmentResponse 作业信息响应
type AssignmentResponse struct {
	ID            string  `json:"id"`
	CourseID      string  `json:"course_id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	DueAt         string  `json:"due_at"`
	Weight        float64 `json:"weight"`
	AllowLate     bool    `json:"allow_late"`
	AllowResubmit bool    `json:"allow_resubmit"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// LearnerAssignmentResponse 学员视角的作业，附带本人提交
type LearnerAssignmentResponse struct {
	AssignmentResponse
	Submission *SubmissionResponse `json:"submission"`
}
