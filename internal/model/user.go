package model

import "gorm.io/gorm"

// 用户角色
const (
	RoleLearner    = "learner"
	RoleInstructor = "instructor"
	RoleOperator   = "operator"
)

// 用户状态
const (
	UserStatusActive     = "active"
	UserStatusRestricted = "restricted" // 由举报处理 restrict_account 设置
)

// User 用户表 — 对应 users
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey"                       json:"user_id"`
	Name         string `gorm:"type:varchar(100);not null"                 json:"name"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"     json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                 json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'learner'" json:"role"`
	Status       string `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// BeforeCreate 生成主键
func (u *User) BeforeCreate(_ *gorm.DB) error {
	assignID(&u.UserID)
	return nil
}

// IsValidRole 校验角色取值
func IsValidRole(role string) bool {
	switch role {
	case RoleLearner, RoleInstructor, RoleOperator:
		return true
	}
	return false
}
