package dto

// ── 选课模块 DTO ──

// 选课结果
const (
	EnrollActionEnrolled   = "enrolled"
	EnrollActionReEnrolled = "re-enrolled"
)

// EnrollRequest 选课请求
type EnrollRequest struct {
	CourseID string `json:"course_id" binding:"required,uuid"`
}

// EnrollmentResponse 选课记录
type EnrollmentResponse struct {
	ID          string  `json:"id"`
	CourseID    string  `json:"course_id"`
	LearnerID   string  `json:"learner_id"`
	EnrolledAt  string  `json:"enrolled_at"`
	CancelledAt *string `json:"cancelled_at,omitempty"`
}

// EnrollResponse 选课结果；action ∈ {enrolled, re-enrolled}
type EnrollResponse struct {
	Action     string             `json:"action"`
	Enrollment EnrollmentResponse `json:"enrollment"`
}

// MyCourseResponse 我的课程
type MyCourseResponse struct {
	Enrollment EnrollmentResponse `json:"enrollment"`
	Course     CourseResponse     `json:"course"`
}
