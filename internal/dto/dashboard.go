package dto

// ── 讲师工作台 DTO ──

// DashboardCourse 工作台课程概况
type DashboardCourse struct {
	CourseID        string `json:"course_id"`
	Title           string `json:"title"`
	Status          string `json:"status"`
	EnrollmentCount int64  `json:"enrollment_count"`
	AssignmentCount int    `json:"assignment_count"`
	PendingGrading  int64  `json:"pending_grading"`
}

// RecentSubmission 最近提交
type RecentSubmission struct {
	SubmissionID    string `json:"submission_id"`
	AssignmentID    string `json:"assignment_id"`
	AssignmentTitle string `json:"assignment_title"`
	CourseID        string `json:"course_id"`
	LearnerID       string `json:"learner_id"`
	LearnerName     string `json:"learner_name"`
	Status          string `json:"status"`
	IsLate          bool   `json:"is_late"`
	SubmittedAt     string `json:"submitted_at"`
}

// InstructorDashboardResponse 讲师工作台
type InstructorDashboardResponse struct {
	Courses             []DashboardCourse  `json:"courses"`
	PendingGradingTotal int64              `json:"pending_grading_total"`
	RecentSubmissions   []RecentSubmission `json:"recent_submissions"`
}
