package service

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/greatson79/test1-lms-sub000/internal/dto"
	"github.com/greatson79/test1-lms-sub000/internal/model"
	"github.com/greatson79/test1-lms-sub000/internal/repository"
)

// ── 课程模块业务错误 ──

var (
	ErrCourseNotFound     = errors.New("课程不存在")
	ErrCourseNotPublished = errors.New("课程未发布，无法选修")
)

// CourseService 课程业务接口
type CourseService interface {
	ListPublished(ctx context.Context, req *dto.CourseListRequest) ([]dto.CourseResponse, int64, error)
	// GetDetail 学员只能看到已发布课程；讲师本人可看到自己的草稿/归档课程
	GetDetail(ctx context.Context, id, callerID, role string) (*dto.CourseDetailResponse, error)
	Create(ctx context.Context, req *dto.CreateCourseRequest, instructorID string) (*dto.CourseResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateCourseRequest, instructorID string) (*dto.CourseResponse, error)
	ChangeStatus(ctx context.Context, id string, target model.CourseStatus, instructorID string) (*dto.CourseResponse, error)
	ListMine(ctx context.Context, instructorID string) ([]dto.CourseResponse, error)
	GetOwned(ctx context.Context, id, instructorID string) (*dto.CourseResponse, error)
}

type courseService struct {
	repo   *repository.Repository
	owners OwnerResolver
	now    Clock
	logger *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, owners OwnerResolver, now Clock, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, owners: owners, now: defaultClock(now), logger: logger}
}

// ────────────────────── ListPublished ──────────────────────

func (s *courseService) ListPublished(ctx context.Context, req *dto.CourseListRequest) ([]dto.CourseResponse, int64, error) {
	filters := &repository.CourseListFilters{
		Search:       req.Search,
		CategoryID:   req.CategoryID,
		DifficultyID: req.DifficultyID,
		Sort:         req.Sort,
	}

	courses, total, err := s.repo.Course.ListPublished(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询课程列表失败", zap.Error(err))
		return nil, 0, err
	}

	list, err := s.toCourseResponses(ctx, courses)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ────────────────────── GetDetail ──────────────────────

func (s *courseService) GetDetail(ctx context.Context, id, callerID, role string) (*dto.CourseDetailResponse, error) {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	visible := course.Status == model.CourseStatusPublished ||
		(callerID != "" && course.InstructorID == callerID) ||
		role == model.RoleOperator
	if !visible {
		return nil, ErrCourseNotFound
	}

	counts, err := s.repo.Course.CountActiveEnrollments(ctx, []string{course.CourseID})
	if err != nil {
		s.logger.Error("统计选课人数失败", zap.String("course_id", id), zap.Error(err))
		return nil, err
	}

	detail := &dto.CourseDetailResponse{CourseResponse: toCourseResponse(course, counts[course.CourseID])}

	if callerID != "" && role == model.RoleLearner {
		status := &dto.EnrollmentStatusResponse{}
		enrollment, err := s.repo.Enrollment.GetByCourseAndLearner(ctx, id, callerID)
		switch {
		case err == nil:
			status.Enrolled = enrollment.IsActive()
			status.EnrolledAt = formatTimePtr(&enrollment.EnrolledAt)
			status.CancelledAt = formatTimePtr(enrollment.CancelledAt)
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			s.logger.Error("查询选课记录失败", zap.String("course_id", id), zap.Error(err))
			return nil, err
		}
		detail.Enrollment = status
	}

	return detail, nil
}

// ────────────────────── Create ──────────────────────

func (s *courseService) Create(ctx context.Context, req *dto.CreateCourseRequest, instructorID string) (*dto.CourseResponse, error) {
	if err := s.checkMetadataRefs(ctx, req.CategoryID, req.DifficultyID); err != nil {
		return nil, err
	}

	course := &model.Course{
		InstructorID: instructorID,
		Title:        req.Title,
		Description:  req.Description,
		Curriculum:   toCurriculum(req.Curriculum),
		CategoryID:   emptyToNil(req.CategoryID),
		DifficultyID: emptyToNil(req.DifficultyID),
		Status:       model.CourseStatusDraft,
	}

	if err := s.repo.Course.Create(ctx, course); err != nil {
		s.logger.Error("创建课程失败", zap.Error(err))
		return nil, err
	}

	return s.reload(ctx, course.CourseID)
}

// ────────────────────── Update ──────────────────────

func (s *courseService) Update(ctx context.Context, id string, req *dto.UpdateCourseRequest, instructorID string) (*dto.CourseResponse, error) {
	course, err := s.owners.RequireCourseOwner(ctx, id, instructorID)
	if err != nil {
		return nil, err
	}

	if err := s.checkMetadataRefs(ctx, req.CategoryID, req.DifficultyID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Curriculum != nil {
		course.Curriculum = toCurriculum(req.Curriculum)
	}
	// 传空字符串表示清除分类/难度
	if req.CategoryID != nil {
		course.CategoryID = emptyToNil(req.CategoryID)
	}
	if req.DifficultyID != nil {
		course.DifficultyID = emptyToNil(req.DifficultyID)
	}

	if err := s.repo.Course.Update(ctx, course); err != nil {
		s.logger.Error("更新课程失败", zap.String("course_id", id), zap.Error(err))
		return nil, err
	}

	return s.reload(ctx, id)
}

// ────────────────────── ChangeStatus ──────────────────────

func (s *courseService) ChangeStatus(ctx context.Context, id string, target model.CourseStatus, instructorID string) (*dto.CourseResponse, error) {
	course, err := s.owners.RequireCourseOwner(ctx, id, instructorID)
	if err != nil {
		return nil, err
	}

	if !model.IsAllowedCourseTransition(course.Status, target) {
		return nil, newTransitionError("course", course.Status, target)
	}

	if err := s.repo.Course.UpdateStatus(ctx, id, course.Status, target, s.now()); err != nil {
		s.logger.Warn("课程状态更新失败",
			zap.String("course_id", id), zap.String("from", string(course.Status)),
			zap.String("to", string(target)), zap.Error(err))
		return nil, err
	}

	return s.reload(ctx, id)
}

// ────────────────────── ListMine ──────────────────────

func (s *courseService) ListMine(ctx context.Context, instructorID string) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.ListByInstructor(ctx, instructorID)
	if err != nil {
		s.logger.Error("查询讲师课程失败", zap.String("instructor_id", instructorID), zap.Error(err))
		return nil, err
	}
	return s.toCourseResponses(ctx, courses)
}

// ────────────────────── GetOwned ──────────────────────

func (s *courseService) GetOwned(ctx context.Context, id, instructorID string) (*dto.CourseResponse, error) {
	if _, err := s.owners.RequireCourseOwner(ctx, id, instructorID); err != nil {
		return nil, err
	}
	return s.reload(ctx, id)
}

// ── 内部辅助方法 ──

func (s *courseService) getCourse(ctx context.Context, id string) (*model.Course, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("course_id", id), zap.Error(err))
		return nil, err
	}
	return course, nil
}

func (s *courseService) reload(ctx context.Context, id string) (*dto.CourseResponse, error) {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.Course.CountActiveEnrollments(ctx, []string{id})
	if err != nil {
		s.logger.Error("统计选课人数失败", zap.String("course_id", id), zap.Error(err))
		return nil, err
	}
	resp := toCourseResponse(course, counts[id])
	return &resp, nil
}

// checkMetadataRefs 分类/难度必须存在且处于启用状态
func (s *courseService) checkMetadataRefs(ctx context.Context, categoryID, difficultyID *string) error {
	if categoryID != nil && *categoryID != "" {
		category, err := s.repo.Category.GetByID(ctx, *categoryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			s.logger.Error("查询分类失败", zap.Error(err))
			return err
		}
		if !category.IsActive {
			return ErrCategoryNotFound
		}
	}
	if difficultyID != nil && *difficultyID != "" {
		difficulty, err := s.repo.Difficulty.GetByID(ctx, *difficultyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDifficultyNotFound
			}
			s.logger.Error("查询难度失败", zap.Error(err))
			return err
		}
		if !difficulty.IsActive {
			return ErrDifficultyNotFound
		}
	}
	return nil
}

func (s *courseService) toCourseResponses(ctx context.Context, courses []model.Course) ([]dto.CourseResponse, error) {
	ids := make([]string, 0, len(courses))
	for i := range courses {
		ids = append(ids, courses[i].CourseID)
	}
	counts, err := s.repo.Course.CountActiveEnrollments(ctx, ids)
	if err != nil {
		s.logger.Error("统计选课人数失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		result = append(result, toCourseResponse(&courses[i], counts[courses[i].CourseID]))
	}
	return result, nil
}

func toCourseResponse(course *model.Course, enrollmentCount int64) dto.CourseResponse {
	resp := dto.CourseResponse{
		ID:              course.CourseID,
		InstructorID:    course.InstructorID,
		Title:           course.Title,
		Description:     course.Description,
		Status:          string(course.Status),
		PublishedAt:     formatTimePtr(course.PublishedAt),
		EnrollmentCount: enrollmentCount,
		CreatedAt:       formatTime(course.CreatedAt),
		UpdatedAt:       formatTime(course.UpdatedAt),
	}
	if len(course.Curriculum) > 0 {
		resp.Curriculum = json.RawMessage(course.Curriculum)
	}
	if course.Instructor != nil {
		resp.InstructorName = course.Instructor.Name
	}
	if course.Category != nil {
		resp.Category = &dto.MetadataRef{ID: course.Category.CategoryID, Name: course.Category.Name}
	}
	if course.Difficulty != nil {
		resp.Difficulty = &dto.MetadataRef{ID: course.Difficulty.DifficultyID, Name: course.Difficulty.Name}
	}
	return resp
}

func toCurriculum(raw json.RawMessage) datatypes.JSON {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return datatypes.JSON(raw)
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
