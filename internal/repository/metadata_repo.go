package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/greatson79/test1-lms-sub000/internal/model"
)

// CategoryRepository 课程分类数据访问接口
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id string) (*model.Category, error)
	GetByName(ctx context.Context, name string) (*model.Category, error)
	List(ctx context.Context, includeInactive bool) ([]model.Category, error)
	Update(ctx context.Context, category *model.Category) error
}

type categoryRepo struct {
	db *gorm.DB
}

// NewCategoryRepo 创建 CategoryRepository 实例
func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) Create(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepo) GetByID(ctx context.Context, id string) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).
		Where("category_id = ?", id).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepo) GetByName(ctx context.Context, name string) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepo) List(ctx context.Context, includeInactive bool) ([]model.Category, error) {
	var categories []model.Category
	db := r.db.WithContext(ctx)
	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}
	err := db.Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepo) Update(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// DifficultyRepository 难度等级数据访问接口
type DifficultyRepository interface {
	Create(ctx context.Context, difficulty *model.Difficulty) error
	GetByID(ctx context.Context, id string) (*model.Difficulty, error)
	GetByName(ctx context.Context, name string) (*model.Difficulty, error)
	List(ctx context.Context, includeInactive bool) ([]model.Difficulty, error)
	Update(ctx context.Context, difficulty *model.Difficulty) error
}

type difficultyRepo struct {
	db *gorm.DB
}

// NewDifficultyRepo 创建 DifficultyRepository 实例
func NewDifficultyRepo(db *gorm.DB) DifficultyRepository {
	return &difficultyRepo{db: db}
}

func (r *difficultyRepo) Create(ctx context.Context, difficulty *model.Difficulty) error {
	return r.db.WithContext(ctx).Create(difficulty).Error
}

func (r *difficultyRepo) GetByID(ctx context.Context, id string) (*model.Difficulty, error) {
	var difficulty model.Difficulty
	err := r.db.WithContext(ctx).
		Where("difficulty_id = ?", id).
		First(&difficulty).Error
	if err != nil {
		return nil, err
	}
	return &difficulty, nil
}

func (r *difficultyRepo) GetByName(ctx context.Context, name string) (*model.Difficulty, error) {
	var difficulty model.Difficulty
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&difficulty).Error
	if err != nil {
		return nil, err
	}
	return &difficulty, nil
}

func (r *difficultyRepo) List(ctx context.Context, includeInactive bool) ([]model.Difficulty, error) {
	var difficulties []model.Difficulty
	db := r.db.WithContext(ctx)
	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}
	err := db.Order("name ASC").Find(&difficulties).Error
	return difficulties, err
}

func (r *difficultyRepo) Update(ctx context.Context, difficulty *model.Difficulty) error {
	return r.db.WithContext(ctx).Save(difficulty).Error
}
