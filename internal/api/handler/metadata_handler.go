package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/greatson79/test1-lms-sub000/internal/dto"
	"github.com/greatson79/test1-lms-sub000/internal/service"
	"github.com/greatson79/test1-lms-sub000/pkg/response"
)

const metadataFetchError = "METADATA_FETCH_ERROR"

// MetadataHandler 分类 / 难度等级 HTTP 处理器
// 同一组方法按 kind 服务两类资源
type MetadataHandler struct {
	metadataSvc service.MetadataService
	kind        service.MetadataKind
}

// NewMetadataHandler 创建指定类型的 MetadataHandler
func NewMetadataHandler(metadataSvc service.MetadataService, kind service.MetadataKind) *MetadataHandler {
	return &MetadataHandler{metadataSvc: metadataSvc, kind: kind}
}

// ListActive 公开接口，仅返回启用项
// GET /api/categories | /api/difficulties
func (h *MetadataHandler) ListActive(c *gin.Context) {
	list, err := h.metadataSvc.List(c.Request.Context(), h.kind, false)
	if err != nil {
		respondError(c, err, metadataFetchError)
		return
	}

	response.OK(c, list)
}

// List 运营查看，可包含停用项
// GET /api/operator/categories?include_inactive=true
func (h *MetadataHandler) List(c *gin.Context) {
	var req dto.MetadataListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	list, err := h.metadataSvc.List(c.Request.Context(), h.kind, req.IncludeInactive)
	if err != nil {
		respondError(c, err, metadataFetchError)
		return
	}

	response.OK(c, list)
}

// Create 新建
// POST /api/operator/categories | /api/operator/difficulties
func (h *MetadataHandler) Create(c *gin.Context) {
	var req dto.CreateMetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.metadataSvc.Create(c.Request.Context(), h.kind, &req)
	if err != nil {
		respondError(c, err, metadataFetchError)
		return
	}

	response.Created(c, item)
}

// Update 改名或启用/停用
// PATCH /api/operator/categories/:id | /api/operator/difficulties/:id
func (h *MetadataHandler) Update(c *gin.Context) {
	var uri dto.IDURI
	if !bindURI(c, &uri) {
		return
	}

	var req dto.UpdateMetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.metadataSvc.Update(c.Request.Context(), h.kind, uri.ID, &req)
	if err != nil {
		respondError(c, err, metadataFetchError)
		return
	}

	response.OK(c, item)
}
