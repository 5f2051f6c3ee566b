package dto

import "encoding/json"

// ── 课程模块 DTO ──

// CourseListRequest 公开课程列表查询参数
type CourseListRequest struct {
	PaginationRequest
	Search       string `form:"search"       binding:"omitempty,max=100"`
	CategoryID   string `form:"categoryId"   binding:"omitempty,uuid"`
	DifficultyID string `form:"difficultyId" binding:"omitempty,uuid"`
	Sort         string `form:"sort"         binding:"omitempty,oneof=recent popular"`
}

// CreateCourseRequest 创建课程请求
type CreateCourseRequest struct {
	Title        string          `json:"title"         binding:"required,min=1,max=200"`
	Description  string          `json:"description"   binding:"omitempty,max=10000"`
	Curriculum   json.RawMessage `json:"curriculum"`
	CategoryID   *string         `json:"category_id"   binding:"omitempty,uuid"`
	DifficultyID *string         `json:"difficulty_id" binding:"omitempty,uuid"`
}

// UpdateCourseRequest 更新课程请求（不含 status）
// category_id / difficulty_id 传 "" 表示清除
type UpdateCourseRequest struct {
	Title        *string         `json:"title"         binding:"omitempty,min=1,max=200"`
	Description  *string         `json:"description"   binding:"omitempty,max=10000"`
	Curriculum   json.RawMessage `json:"curriculum"`
	CategoryID   *string         `json:"category_id"   binding:"omitempty,uuid|eq="`
	DifficultyID *string         `json:"difficulty_id" binding:"omitempty,uuid|eq="`
}

// ChangeCourseStatusRequest 课程状态跳转请求
type ChangeCourseStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=draft published archived"`
}

// MetadataRef 分类/难度简要信息
type MetadataRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CourseResponse 课程信息响应
type CourseResponse struct {
	ID              string          `json:"id"`
	InstructorID    string          `json:"instructor_id"`
	InstructorName  string          `json:"instructor_name,omitempty"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Curriculum      json.RawMessage `json:"curriculum,omitempty"`
	Category        *MetadataRef    `json:"category,omitempty"`
	Difficulty      *MetadataRef    `json:"difficulty,omitempty"`
	Status          string          `json:"status"`
	PublishedAt     *string         `json:"published_at,omitempty"`
	EnrollmentCount int64           `json:"enrollment_count"`
	CreatedAt       string          `json:"created_at"`
	UpdatedAt       string          `json:"updated_at"`
}

// CourseDetailResponse 课程详情；已登录时附带本人的选课状态
type CourseDetailResponse struct {
	CourseResponse
	Enrollment *EnrollmentStatusResponse `json:"enrollment,omitempty"`
}

// EnrollmentStatusResponse 本人选课状态
type EnrollmentStatusResponse struct {
	Enrolled    bool    `json:"enrolled"`
	EnrolledAt  *string `json:"enrolled_at,omitempty"`
	CancelledAt *string `json:"cancelled_at,omitempty"`
}
