package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/greatson79/test1-lms-sub000/internal/dto"
	"github.com/greatson79/test1-lms-sub000/internal/model"
	"github.com/greatson79/test1-lms-sub000/internal/repository"
)

// ── 举报模块业务错误 ──

var (
	ErrReportNotFound             = errors.New("举报不存在")
	ErrReportTargetNotFound       = errors.New("举报对象不存在")
	ErrReportAlreadyResolved      = errors.New("举报已处理完毕，不能再变更状态")
	ErrReportActionNotAllowed     = errors.New("仅在处理为 resolved 时可以附带处理动作")
	ErrReportActionTargetMismatch = errors.New("处理动作与举报对象类型不匹配")
)

// ReportService 举报业务接口
type ReportService interface {
	Create(ctx context.Context, req *dto.CreateReportRequest, reporterID string) (*dto.ReportResponse, error)
	List(ctx context.Context, req *dto.ReportListRequest) ([]dto.ReportResponse, int64, error)
	GetByID(ctx context.Context, id string) (*dto.ReportResponse, error)
	// UpdateStatus resolved 为终态；附带动作时与状态变更在同一事务内执行
	UpdateStatus(ctx context.Context, id string, req *dto.UpdateReportStatusRequest, operatorID string) (*dto.ReportResponse, error)
}

type reportService struct {
	repo   *repository.Repository
	now    Clock
	logger *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(repo *repository.Repository, now Clock, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, now: defaultClock(now), logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *reportService) Create(ctx context.Context, req *dto.CreateReportRequest, reporterID string) (*dto.ReportResponse, error) {
	targetType := model.ReportTargetType(req.TargetType)
	if err := s.checkTarget(ctx, targetType, req.TargetID); err != nil {
		return nil, err
	}

	report := &model.Report{
		ReporterID: reporterID,
		TargetType: targetType,
		TargetID:   req.TargetID,
		Reason:     req.Reason,
		Content:    req.Content,
		Status:     model.ReportStatusReceived,
	}
	if err := s.repo.Report.Create(ctx, report); err != nil {
		s.logger.Error("创建举报失败", zap.Error(err))
		return nil, err
	}

	resp := toReportResponse(report)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *reportService) List(ctx context.Context, req *dto.ReportListRequest) ([]dto.ReportResponse, int64, error) {
	filters := &repository.ReportListFilters{
		Status:    req.Status,
		Ascending: req.Order == "asc",
	}

	reports, total, err := s.repo.Report.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询举报列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ReportResponse, 0, len(reports))
	for i := range reports {
		result = append(result, toReportResponse(&reports[i]))
	}
	return result, total, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *reportService) GetByID(ctx context.Context, id string) (*dto.ReportResponse, error) {
	report, err := s.getReport(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toReportResponse(report)
	return &resp, nil
}

// ────────────────────── UpdateStatus ──────────────────────

func (s *reportService) UpdateStatus(ctx context.Context, id string, req *dto.UpdateReportStatusRequest, operatorID string) (*dto.ReportResponse, error) {
	report, err := s.getReport(ctx, id)
	if err != nil {
		return nil, err
	}

	target := model.ReportStatus(req.Status)

	// 1. 终态不可再变更
	if report.Status == model.ReportStatusResolved {
		return nil, ErrReportAlreadyResolved
	}

	// 2. 动作只能随 resolved 一起提交
	var action *model.ReportAction
	if req.Action != nil {
		if target != model.ReportStatusResolved {
			return nil, ErrReportActionNotAllowed
		}
		a := model.ReportAction(*req.Action)
		if !a.AppliesTo(report.TargetType) {
			return nil, ErrReportActionTargetMismatch
		}
		action = &a
	}

	// 3. 状态跳转表
	if !model.IsAllowedReportTransition(report.Status, target) {
		return nil, newTransitionError("report", report.Status, target)
	}

	from := report.Status
	now := s.now()
	report.Status = target
	report.Action = action
	report.HandledBy = &operatorID
	report.UpdatedAt = now
	if target == model.ReportStatusResolved {
		report.ResolvedAt = &now
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Report.UpdateStatus(ctx, report, from); err != nil {
			return err
		}
		if action == nil {
			return nil
		}
		return s.applyAction(ctx, tx, *action, report.TargetID, now)
	})
	if err != nil {
		s.logger.Warn("举报状态更新失败",
			zap.String("report_id", id), zap.String("from", string(from)),
			zap.String("to", string(target)), zap.Error(err))
		return nil, err
	}

	s.logger.Info("举报状态已更新",
		zap.String("report_id", id), zap.String("to", string(target)),
		zap.String("operator_id", operatorID))

	resp := toReportResponse(report)
	return &resp, nil
}

// ── 内部辅助方法 ──

// applyAction 执行处理动作的副作用；warning 只记录不产生副作用
func (s *reportService) applyAction(ctx context.Context, tx *repository.Repository, action model.ReportAction, targetID string, now time.Time) error {
	switch action {
	case model.ReportActionInvalidateSubmission:
		sub, err := tx.Submission.GetByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReportTargetNotFound
			}
			return err
		}
		if sub.Status == model.SubmissionStatusInvalidated {
			return nil
		}
		if !model.IsAllowedSubmissionTransition(sub.Status, model.SubmissionStatusInvalidated) {
			return newTransitionError("submission",
				sub.Status, model.SubmissionStatusInvalidated)
		}
		return tx.Submission.Invalidate(ctx, sub.SubmissionID, sub.Status, now)

	case model.ReportActionRestrictAccount:
		if err := tx.User.UpdateStatus(ctx, targetID, model.UserStatusRestricted); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReportTargetNotFound
			}
			return err
		}
	}
	return nil
}

// checkTarget 举报对象必须存在
func (s *reportService) checkTarget(ctx context.Context, targetType model.ReportTargetType, targetID string) error {
	var err error
	switch targetType {
	case model.ReportTargetCourse:
		_, err = s.repo.Course.GetByID(ctx, targetID)
	case model.ReportTargetAssignment:
		_, err = s.repo.Assignment.GetByID(ctx, targetID)
	case model.ReportTargetSubmission:
		_, err = s.repo.Submission.GetByID(ctx, targetID)
	case model.ReportTargetUser:
		_, err = s.repo.User.GetByID(ctx, targetID)
	default:
		return ErrReportTargetNotFound
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReportTargetNotFound
		}
		s.logger.Error("查询举报对象失败",
			zap.String("target_type", string(targetType)), zap.String("target_id", targetID), zap.Error(err))
		return err
	}
	return nil
}

func (s *reportService) getReport(ctx context.Context, id string) (*model.Report, error) {
	report, err := s.repo.Report.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		s.logger.Error("查询举报失败", zap.String("report_id", id), zap.Error(err))
		return nil, err
	}
	return report, nil
}

func toReportResponse(r *model.Report) dto.ReportResponse {
	resp := dto.ReportResponse{
		ID:         r.ReportID,
		ReporterID: r.ReporterID,
		TargetType: string(r.TargetType),
		TargetID:   r.TargetID,
		Reason:     r.Reason,
		Content:    r.Content,
		Status:     string(r.Status),
		HandledBy:  r.HandledBy,
		ResolvedAt: formatTimePtr(r.ResolvedAt),
		CreatedAt:  formatTime(r.CreatedAt),
		UpdatedAt:  formatTime(r.UpdatedAt),
	}
	if r.Action != nil {
		a := string(*r.Action)
		resp.Action = &a
	}
	return resp
}
