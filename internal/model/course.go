package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course 课程表 — 对应 courses
type Course struct {
	CourseID     string         `gorm:"type:uuid;primaryKey"                      json:"course_id"`
	InstructorID string         `gorm:"type:uuid;not null;index"                  json:"instructor_id"`
	Title        string         `gorm:"type:varchar(200);not null"                json:"title"`
	Description  string         `gorm:"type:text"                                 json:"description,omitempty"`
	Curriculum   datatypes.JSON `gorm:"type:jsonb"                                json:"curriculum,omitempty"`
	CategoryID   *string        `gorm:"type:uuid;index"                           json:"category_id,omitempty"`
	DifficultyID *string        `gorm:"type:uuid;index"                           json:"difficulty_id,omitempty"`
	Status       CourseStatus   `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	PublishedAt  *time.Time     `json:"published_at,omitempty"`
	BaseModel

	// 关联
	Instructor *User       `gorm:"foreignKey:InstructorID;references:UserID"           json:"instructor,omitempty"`
	Category   *Category   `gorm:"foreignKey:CategoryID;references:CategoryID"         json:"category,omitempty"`
	Difficulty *Difficulty `gorm:"foreignKey:DifficultyID;references:DifficultyID"     json:"difficulty,omitempty"`
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }

// BeforeCreate 生成主键
func (c *Course) BeforeCreate(_ *gorm.DB) error {
	assignID(&c.CourseID)
	return nil
}

// Enrollment 选课表 — 对应 enrollments
// (course_id, learner_id) 唯一；退课仅写 cancelled_at，重新选课复用同一行
type Enrollment struct {
	EnrollmentID string     `gorm:"type:uuid;primaryKey"                                 json:"enrollment_id"`
	CourseID     string     `gorm:"type:uuid;not null;uniqueIndex:uk_enrollment_course_learner" json:"course_id"`
	LearnerID    string     `gorm:"type:uuid;not null;uniqueIndex:uk_enrollment_course_learner" json:"learner_id"`
	EnrolledAt   time.Time  `gorm:"not null"                                             json:"enrolled_at"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	BaseModel

	// 关联
	Course *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
}

// TableName 指定表名
func (Enrollment) TableName() string { return "enrollments" }

// BeforeCreate 生成主键
func (e *Enrollment) BeforeCreate(_ *gorm.DB) error {
	assignID(&e.EnrollmentID)
	return nil
}

// IsActive 是否为有效选课
func (e *Enrollment) IsActive() bool {
	return e.CancelledAt == nil
}
