package dto

// ── 成绩模块 DTO ──

// GradeItemResponse 单个作业的成绩明细
type GradeItemResponse struct {
	AssignmentID     string  `json:"assignment_id"`
	Title            string  `json:"title"`
	Weight           float64 `json:"weight"`
	DueAt            string  `json:"due_at"`
	AssignmentStatus string  `json:"assignment_status"`
	SubmissionStatus *string `json:"submission_status"`
	IsLate           bool    `json:"is_late"`
	Score            *int    `json:"score"`
	Feedback         *string `json:"feedback"`
}

// CourseGradeResponse 学员课程成绩
// current_grade 仅统计已评分作业，尚无评分时为 null
type CourseGradeResponse struct {
	CourseID           string              `json:"course_id"`
	LearnerID          string              `json:"learner_id"`
	CurrentGrade       *float64            `json:"current_grade"`
	ExpectedFinalGrade float64             `json:"expected_final_grade"`
	Items              []GradeItemResponse `json:"items"`
}

// GradeRosterEntry 讲师成绩单中的一行
type GradeRosterEntry struct {
	LearnerID          string   `json:"learner_id"`
	LearnerName        string   `json:"learner_name"`
	Email              string   `json:"email"`
	CurrentGrade       *float64 `json:"current_grade"`
	ExpectedFinalGrade float64  `json:"expected_final_grade"`
	SubmittedCount     int      `json:"submitted_count"`
	GradedCount        int      `json:"graded_count"`
}

// GradeRosterResponse 讲师成绩单
type GradeRosterResponse struct {
	CourseID    string             `json:"course_id"`
	CourseTitle string             `json:"course_title"`
	Assignments int                `json:"assignments"`
	Learners    []GradeRosterEntry `json:"learners"`
}
