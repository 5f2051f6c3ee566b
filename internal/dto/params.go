package dto

// ── 路径参数 ──
// 所有主键均为 UUID，格式不合法的 id 在进入 Service 前拒绝

// IDURI /:id
type IDURI struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// CourseURI /courses/:courseId
type CourseURI struct {
	CourseID string `uri:"courseId" binding:"required,uuid"`
}

// CourseItemURI /courses/:courseId/.../:id
type CourseItemURI struct {
	CourseID string `uri:"courseId" binding:"required,uuid"`
	ID       string `uri:"id"       binding:"required,uuid"`
}
