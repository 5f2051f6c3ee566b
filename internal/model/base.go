package model

import (
	"time"

	"github.com/google/uuid"
)

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// newID 生成主键；主键在应用侧生成，不依赖数据库的 gen_random_uuid()
func newID() string {
	return uuid.NewString()
}

// assignID 仅在主键为空时生成
func assignID(id *string) {
	if *id == "" {
		*id = newID()
	}
}
