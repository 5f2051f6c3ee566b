package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/greatson79/test1-lms-sub000/internal/dto"
	"github.com/greatson79/test1-lms-sub000/internal/model"
	"github.com/greatson79/test1-lms-sub000/internal/service"
	"github.com/greatson79/test1-lms-sub000/pkg/response"
)

const courseFetchError = "COURSE_FETCH_ERROR"

// CourseHandler 课程模块 HTTP 处理器
type CourseHandler struct {
	courseSvc service.CourseService
}

// NewCourseHandler 创建 CourseHandler
func NewCourseHandler(courseSvc service.CourseService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc}
}

// ── 公开接口 ──

// ListCourses 已发布课程列表
// GET /api/courses?search=&categoryId=&difficultyId=&sort=recent|popular
func (h *CourseHandler) ListCourses(c *gin.Context) {
	var req dto.CourseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	list, total, err := h.courseSvc.ListPublished(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, courseFetchError)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetCourse 课程详情（可选认证）
// GET /api/courses/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	var uri dto.IDURI
	if !bindURI(c, &uri) {
		return
	}

	callerID, role := OptionalCaller(c)

	detail, err := h.courseSvc.GetDetail(c.Request.Context(), uri.ID, callerID, role)
	if err != nil {
		respondError(c, err, courseFetchError)
		return
	}

	response.OK(c, detail)
}

// ── 讲师接口 ──

// ListInstructorCourses 讲师本人的课程（全部状态）
// GET /api/instructor/courses
func (h *CourseHandler) ListInstructorCourses(c *gin.Context) {
	instructorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.courseSvc.ListMine(c.Request.Context(), instructorID)
	if err != nil {
		respondError(c, err, courseFetchError)
		return
	}

	response.OK(c, list)
}

// GetInstructorCourse 讲师查看自己的课程
// GET /api/instructor/courses/:id
func (h *CourseHandler) GetInstructorCourse(c *gin.Context) {
	var uri dto.IDURI
	if !bindURI(c, &uri) {
		return
	}

	instructorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	course, err := h.courseSvc.GetOwned(c.Request.Context(), uri.ID, instructorID)
	if err != nil {
		respondError(c, err, courseFetchError)
		return
	}

	response.OK(c, course)
}

// CreateCourse 创建课程（草稿）
// POST /api/instructor/courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	instructorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	course, err := h.courseSvc.Create(c.Request.Context(), &req, instructorID)
	if err != nil {
		respondError(c, err, courseFetchError)
		return
	}

	response.Created(c, course)
}

// UpdateCourse 更新课程内容
// PUT /api/instructor/courses/:id
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	var uri dto.IDURI
	if !bindURI(c, &uri) {
		return
	}

	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	instructorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	course, err := h.courseSvc.Update(c.Request.Context(), uri.ID, &req, instructorID)
	if err != nil {
		respondError(c, err, courseFetchError)
		return
	}

	response.OK(c, course)
}

// ChangeCourseStatus 课程状态跳转
// PATCH /api/instructor/courses/:id/status
func (h *CourseHandler) ChangeCourseStatus(c *gin.Context) {
	var uri dto.IDURI
	if !bindURI(c, &uri) {
		return
	}

	var req dto.ChangeCourseStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	instructorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	course, err := h.courseSvc.ChangeStatus(c.Request.Context(), uri.ID, model.CourseStatus(req.Status), instructorID)
	if err != nil {
		respondError(c, err, courseFetchError)
		return
	}

	response.OK(c, course)
}
