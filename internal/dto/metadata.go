package dto

// ── 分类 / 难度 DTO ──

// MetadataListRequest 列表查询参数
type MetadataListRequest struct {
	IncludeInactive bool `form:"include_inactive"`
}

// CreateMetadataRequest 创建分类/难度
type CreateMetadataRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
}

// UpdateMetadataRequest 更新分类/难度；停用代替删除
type UpdateMetadataRequest struct {
	Name     *string `json:"name"      binding:"omitempty,min=1,max=50"`
	IsActive *bool   `json:"is_active"`
}

// MetadataResponse 分类/难度信息响应
type MetadataResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
