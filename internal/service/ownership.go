package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/greatson79/test1-lms-sub000/internal/model"
	"github.com/greatson79/test1-lms-sub000/internal/repository"
)

// OwnerResolver 归属解析：课程归属其讲师，作业/提交经 作业→课程→讲师 传递
//
// 资源不存在时优先返回 NotFound，存在但不属于调用方时返回 ErrForbidden
type OwnerResolver interface {
	ResolveCourseOwner(ctx context.Context, courseID string) (string, error)
	ResolveAssignmentOwner(ctx context.Context, assignmentID string) (string, error)
	RequireCourseOwner(ctx context.Context, courseID, callerID string) (*model.Course, error)
	RequireAssignmentOwner(ctx context.Context, assignmentID, callerID string) (*model.Assignment, error)
}

type ownerResolver struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewOwnerResolver 创建 OwnerResolver 实例
func NewOwnerResolver(repo *repository.Repository, logger *zap.Logger) OwnerResolver {
	return &ownerResolver{repo: repo, logger: logger}
}

func (r *ownerResolver) ResolveCourseOwner(ctx context.Context, courseID string) (string, error) {
	course, err := r.loadCourse(ctx, courseID)
	if err != nil {
		return "", err
	}
	return course.InstructorID, nil
}

func (r *ownerResolver) ResolveAssignmentOwner(ctx context.Context, assignmentID string) (string, error) {
	assignment, err := r.loadAssignment(ctx, assignmentID)
	if err != nil {
		return "", err
	}
	return r.ResolveCourseOwner(ctx, assignment.CourseID)
}

func (r *ownerResolver) RequireCourseOwner(ctx context.Context, courseID, callerID string) (*model.Course, error) {
	course, err := r.loadCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.InstructorID != callerID {
		return nil, ErrForbidden
	}
	return course, nil
}

func (r *ownerResolver) RequireAssignmentOwner(ctx context.Context, assignmentID, callerID string) (*model.Assignment, error) {
	assignment, err := r.loadAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	ownerID, err := r.ResolveCourseOwner(ctx, assignment.CourseID)
	if err != nil {
		return nil, err
	}
	if ownerID != callerID {
		return nil, ErrForbidden
	}
	return assignment, nil
}

func (r *ownerResolver) loadCourse(ctx context.Context, courseID string) (*model.Course, error) {
	course, err := r.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		r.logger.Error("查询课程失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}
	return course, nil
}

func (r *ownerResolver) loadAssignment(ctx context.Context, assignmentID string) (*model.Assignment, error) {
	assignment, err := r.repo.Assignment.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		r.logger.Error("查询作业失败", zap.String("assignment_id", assignmentID), zap.Error(err))
		return nil, err
	}
	return assignment, nil
}
