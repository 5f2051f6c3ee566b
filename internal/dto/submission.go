package dto

// ── 提交模块 DTO ──

// SubmitRequest 提交/重新提交请求；文本与链接至少填写一项
type SubmitRequest struct {
	ContentText string `json:"content_text" binding:"required_without=ContentURL,max=20000"`
	ContentURL  string `json:"content_url"  binding:"omitempty,url,max=1000"`
}

// GradeRequest 评分请求；分数上限由 grading.max_score 决定
type GradeRequest struct {
	Score    *int    `json:"score"    binding:"required,min=0"`
	Feedback *string `json:"feedback" binding:"omitempty,max=5000"`
}

// RequestResubmissionRequest 要求重新提交
type RequestResubmissionRequest struct {
	Feedback string `json:"feedback" binding:"required,min=1,max=5000"`
}

// SubmissionResponse 提交信息响应
type SubmissionResponse struct {
	ID           string  `json:"id"`
	AssignmentID string  `json:"assignment_id"`
	LearnerID    string  `json:"learner_id"`
	LearnerName  string  `json:"learner_name,omitempty"`
	ContentText  string  `json:"content_text"`
	ContentURL   string  `json:"content_url"`
	IsLate       bool    `json:"is_late"`
	Status       string  `json:"status"`
	Score        *int    `json:"score"`
	Feedback     *string `json:"feedback"`
	SubmittedAt  string  `json:"submitted_at"`
	GradedAt     *string `json:"graded_at"`
}
