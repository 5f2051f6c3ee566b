package model

import (
	"time"

	"gorm.io/gorm"
)

// Assignment 作业表 — 对应 assignments
type Assignment struct {
	AssignmentID  string           `gorm:"type:uuid;primaryKey"                      json:"assignment_id"`
	CourseID      string           `gorm:"type:uuid;not null;index"                  json:"course_id"`
	Title         string           `gorm:"type:varchar(200);not null"                json:"title"`
	Description   string           `gorm:"type:text"                                 json:"description,omitempty"`
	DueAt         time.Time        `gorm:"not null"                                  json:"due_at"`
	Weight        float64          `gorm:"type:numeric(6,2);not null"                json:"weight"`
	AllowLate     bool             `gorm:"not null;default:false"                    json:"allow_late"`
	AllowResubmit bool             `gorm:"not null;default:false"                    json:"allow_resubmit"`
	Status        AssignmentStatus `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	BaseModel

	// 关联
	Course *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
}

// TableName 指定表名
func (Assignment) TableName() string { return "assignments" }

// BeforeCreate 生成主键
func (a *Assignment) BeforeCreate(_ *gorm.DB) error {
	assignID(&a.AssignmentID)
	return nil
}

// VisibleToLearner 学员仅可见已发布或已关闭的作业
func (a *Assignment) VisibleToLearner() bool {
	return a.Status != AssignmentStatusDraft
}

// Submission 提交表 — 对应 submissions
// (assignment_id, learner_id) 唯一；重新提交覆盖同一行
type Submission struct {
	SubmissionID string           `gorm:"type:uuid;primaryKey"                                          json:"submission_id"`
	AssignmentID string           `gorm:"type:uuid;not null;uniqueIndex:uk_submission_assignment_learner" json:"assignment_id"`
	LearnerID    string           `gorm:"type:uuid;not null;uniqueIndex:uk_submission_assignment_learner" json:"learner_id"`
	ContentText  string           `gorm:"type:text"                                                     json:"content_text,omitempty"`
	ContentURL   string           `gorm:"type:varchar(1000)"                                            json:"content_url,omitempty"`
	IsLate       bool             `gorm:"not null;default:false"                                        json:"is_late"`
	Status       SubmissionStatus `gorm:"type:varchar(30);not null;default:'submitted'"                 json:"status"`
	Score        *int             `json:"score,omitempty"`
	Feedback     *string          `gorm:"type:text"                                                     json:"feedback,omitempty"`
	SubmittedAt  time.Time        `gorm:"not null"                                                      json:"submitted_at"`
	GradedAt     *time.Time       `json:"graded_at,omitempty"`
	BaseModel

	// 关联
	Assignment *Assignment `gorm:"foreignKey:AssignmentID;references:AssignmentID" json:"assignment,omitempty"`
	Learner    *User       `gorm:"foreignKey:LearnerID;references:UserID"          json:"learner,omitempty"`
}

// TableName 指定表名
func (Submission) TableName() string { return "submissions" }

// BeforeCreate 生成主键
func (s *Submission) BeforeCreate(_ *gorm.DB) error {
	assignID(&s.SubmissionID)
	return nil
}

// HasGradedScore 已评分且分数非空，才计入当前成绩
func (s *Submission) HasGradedScore() bool {
	return s != nil && s.Status == SubmissionStatusGraded && s.Score != nil
}
