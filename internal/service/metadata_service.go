package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/greatson79/test1-lms-sub000/internal/dto"
	"github.com/greatson79/test1-lms-sub000/internal/model"
	"github.com/greatson79/test1-lms-sub000/internal/repository"
)

// ── 分类 / 难度业务错误 ──

var (
	ErrCategoryNotFound   = errors.New("分类不存在")
	ErrDifficultyNotFound = errors.New("难度等级不存在")
	ErrMetadataNameExists = errors.New("名称已存在")
)

// MetadataKind 元数据类型
type MetadataKind string

const (
	MetadataCategory   MetadataKind = "category"
	MetadataDifficulty MetadataKind = "difficulty"
)

// MetadataService 分类 / 难度等级业务接口
// 两者结构一致：名称唯一，停用代替删除
type MetadataService interface {
	List(ctx context.Context, kind MetadataKind, includeInactive bool) ([]dto.MetadataResponse, error)
	Create(ctx context.Context, kind MetadataKind, req *dto.CreateMetadataRequest) (*dto.MetadataResponse, error)
	Update(ctx context.Context, kind MetadataKind, id string, req *dto.UpdateMetadataRequest) (*dto.MetadataResponse, error)
}

type metadataService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewMetadataService 创建 MetadataService 实例
func NewMetadataService(repo *repository.Repository, logger *zap.Logger) MetadataService {
	return &metadataService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *metadataService) List(ctx context.Context, kind MetadataKind, includeInactive bool) ([]dto.MetadataResponse, error) {
	var result []dto.MetadataResponse

	switch kind {
	case MetadataCategory:
		categories, err := s.repo.Category.List(ctx, includeInactive)
		if err != nil {
			s.logger.Error("查询分类列表失败", zap.Error(err))
			return nil, err
		}
		result = make([]dto.MetadataResponse, 0, len(categories))
		for i := range categories {
			result = append(result, categoryResponse(&categories[i]))
		}
	default:
		difficulties, err := s.repo.Difficulty.List(ctx, includeInactive)
		if err != nil {
			s.logger.Error("查询难度列表失败", zap.Error(err))
			return nil, err
		}
		result = make([]dto.MetadataResponse, 0, len(difficulties))
		for i := range difficulties {
			result = append(result, difficultyResponse(&difficulties[i]))
		}
	}

	return result, nil
}

// ────────────────────── Create ──────────────────────

func (s *metadataService) Create(ctx context.Context, kind MetadataKind, req *dto.CreateMetadataRequest) (*dto.MetadataResponse, error) {
	name := strings.TrimSpace(req.Name)
	if err := s.checkNameFree(ctx, kind, name, ""); err != nil {
		return nil, err
	}

	var resp dto.MetadataResponse
	var err error
	switch kind {
	case MetadataCategory:
		category := &model.Category{Name: name, IsActive: true}
		err = s.repo.Category.Create(ctx, category)
		resp = categoryResponse(category)
	default:
		difficulty := &model.Difficulty{Name: name, IsActive: true}
		err = s.repo.Difficulty.Create(ctx, difficulty)
		resp = difficultyResponse(difficulty)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrMetadataNameExists
		}
		s.logger.Error("创建元数据失败", zap.String("kind", string(kind)), zap.Error(err))
		return nil, err
	}

	return &resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *metadataService) Update(ctx context.Context, kind MetadataKind, id string, req *dto.UpdateMetadataRequest) (*dto.MetadataResponse, error) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		req.Name = &name
		if err := s.checkNameFree(ctx, kind, name, id); err != nil {
			return nil, err
		}
	}

	var resp dto.MetadataResponse
	var err error
	switch kind {
	case MetadataCategory:
		var category *model.Category
		category, err = s.repo.Category.GetByID(ctx, id)
		if err != nil {
			return nil, s.notFoundOr(err, ErrCategoryNotFound, id)
		}
		if req.Name != nil {
			category.Name = *req.Name
		}
		if req.IsActive != nil {
			category.IsActive = *req.IsActive
		}
		err = s.repo.Category.Update(ctx, category)
		resp = categoryResponse(category)
	default:
		var difficulty *model.Difficulty
		difficulty, err = s.repo.Difficulty.GetByID(ctx, id)
		if err != nil {
			return nil, s.notFoundOr(err, ErrDifficultyNotFound, id)
		}
		if req.Name != nil {
			difficulty.Name = *req.Name
		}
		if req.IsActive != nil {
			difficulty.IsActive = *req.IsActive
		}
		err = s.repo.Difficulty.Update(ctx, difficulty)
		resp = difficultyResponse(difficulty)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrMetadataNameExists
		}
		s.logger.Error("更新元数据失败", zap.String("kind", string(kind)), zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return &resp, nil
}

// ── 内部辅助方法 ──

// checkNameFree 名称未被其他记录占用（selfID 为更新中的记录本身）
func (s *metadataService) checkNameFree(ctx context.Context, kind MetadataKind, name, selfID string) error {
	var (
		existingID string
		err        error
	)
	switch kind {
	case MetadataCategory:
		var c *model.Category
		if c, err = s.repo.Category.GetByName(ctx, name); err == nil {
			existingID = c.CategoryID
		}
	default:
		var d *model.Difficulty
		if d, err = s.repo.Difficulty.GetByName(ctx, name); err == nil {
			existingID = d.DifficultyID
		}
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		s.logger.Error("查询元数据失败", zap.String("kind", string(kind)), zap.Error(err))
		return err
	}
	if existingID != selfID {
		return ErrMetadataNameExists
	}
	return nil
}

func (s *metadataService) notFoundOr(err, notFound error, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	s.logger.Error("查询元数据失败", zap.String("id", id), zap.Error(err))
	return err
}

func categoryResponse(c *model.Category) dto.MetadataResponse {
	return dto.MetadataResponse{
		ID:        c.CategoryID,
		Name:      c.Name,
		IsActive:  c.IsActive,
		CreatedAt: formatTime(c.CreatedAt),
		UpdatedAt: formatTime(c.UpdatedAt),
	}
}

func difficultyResponse(d *model.Difficulty) dto.MetadataResponse {
	return dto.MetadataResponse{
		ID:        d.DifficultyID,
		Name:      d.Name,
		IsActive:  d.IsActive,
		CreatedAt: formatTime(d.CreatedAt),
		UpdatedAt: formatTime(d.UpdatedAt),
	}
}
