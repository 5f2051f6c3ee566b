package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/greatson79/test1-lms-sub000/internal/model"
	pkgerrors "github.com/greatson79/test1-lms-sub000/pkg/errors"
)

// ReportListFilters 举报列表筛选条件
type ReportListFilters struct {
	Status    string
	Ascending bool // 按创建时间升序；默认降序
}

// ReportRepository 举报数据访问接口
type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	GetByID(ctx context.Context, id string) (*model.Report, error)
	List(ctx context.Context, filters *ReportListFilters, offset, limit int) ([]model.Report, int64, error)
	// UpdateStatus 条件更新：仅当当前状态为 from 时写入 report 上的 status/action/handled_by/resolved_at/updated_at
	UpdateStatus(ctx context.Context, report *model.Report, from model.ReportStatus) error
}

type reportRepo struct {
	db *gorm.DB
}

// NewReportRepo 创建 ReportRepository 实例
func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db: db}
}

func (r *reportRepo) Create(ctx context.Context, report *model.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *reportRepo) GetByID(ctx context.Context, id string) (*model.Report, error) {
	var report model.Report
	err := r.db.WithContext(ctx).
		Where("report_id = ?", id).
		First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepo) List(ctx context.Context, filters *ReportListFilters, offset, limit int) ([]model.Report, int64, error) {
	var reports []model.Report
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Report{})
	order := "created_at DESC"
	if filters != nil {
		if filters.Status != "" {
			db = db.Where("status = ?", filters.Status)
		}
		if filters.Ascending {
			order = "created_at ASC"
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Order(order).
		Offset(offset).Limit(limit).
		Find(&reports).Error; err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}

func (r *reportRepo) UpdateStatus(ctx context.Context, report *model.Report, from model.ReportStatus) error {
	result := r.db.WithContext(ctx).
		Model(&model.Report{}).
		Where("report_id = ? AND status = ?", report.ReportID, from).
		Updates(map[string]interface{}{
			"status":      report.Status,
			"action":      report.Action,
			"handled_by":  report.HandledBy,
			"resolved_at": report.ResolvedAt,
			"updated_at":  report.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrStatusConflict
	}
	return nil
}
