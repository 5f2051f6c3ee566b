package model

import (
	"time"

	"gorm.io/gorm"
)

// Report 举报表 — 对应 reports
type Report struct {
	ReportID   string           `gorm:"type:uuid;primaryKey"                         json:"report_id"`
	ReporterID string           `gorm:"type:uuid;not null;index"                     json:"reporter_id"`
	TargetType ReportTargetType `gorm:"type:varchar(20);not null"                    json:"target_type"`
	TargetID   string           `gorm:"type:uuid;not null"                           json:"target_id"`
	Reason     string           `gorm:"type:varchar(100);not null"                   json:"reason"`
	Content    string           `gorm:"type:text"                                    json:"content,omitempty"`
	Status     ReportStatus     `gorm:"type:varchar(20);not null;default:'received'" json:"status"`
	Action     *ReportAction    `gorm:"type:varchar(30)"                             json:"action,omitempty"`
	HandledBy  *string          `gorm:"type:uuid"                                    json:"handled_by,omitempty"`
	ResolvedAt *time.Time       `json:"resolved_at,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Report) TableName() string { return "reports" }

// BeforeCreate 生成主键
func (r *Report) BeforeCreate(_ *gorm.DB) error {
	assignID(&r.ReportID)
	return nil
}
