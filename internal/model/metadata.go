package model

import "gorm.io/gorm"

// Category 课程分类表 — 对应 categories
// 停用代替删除（is_active = false）
type Category struct {
	CategoryID string `gorm:"type:uuid;primaryKey"                  json:"category_id"`
	Name       string `gorm:"type:varchar(50);not null;uniqueIndex" json:"name"`
	IsActive   bool   `gorm:"not null;default:true"                 json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (Category) TableName() string { return "categories" }

// BeforeCreate 生成主键
func (c *Category) BeforeCreate(_ *gorm.DB) error {
	assignID(&c.CategoryID)
	return nil
}

// Difficulty 难度等级表 — 对应 difficulties
type Difficulty struct {
	DifficultyID string `gorm:"type:uuid;primaryKey"                  json:"difficulty_id"`
	Name         string `gorm:"type:varchar(50);not null;uniqueIndex" json:"name"`
	IsActive     bool   `gorm:"not null;default:true"                 json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (Difficulty) TableName() string { return "difficulties" }

// BeforeCreate 生成主键
func (d *Difficulty) BeforeCreate(_ *gorm.DB) error {
	assignID(&d.DifficultyID)
	return nil
}
