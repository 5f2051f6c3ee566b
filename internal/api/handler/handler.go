package handler

import "github.com/greatson79/test1-lms-sub000/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Course     *CourseHandler
	Enrollment *EnrollmentHandler
	Assignment *AssignmentHandler
	Submission *SubmissionHandler
	Grade      *GradeHandler
	Export     *ExportHandler
	Report     *ReportHandler
	Category   *MetadataHandler
	Difficulty *MetadataHandler
	Dashboard  *DashboardHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Course:     NewCourseHandler(svc.Course),
		Enrollment: NewEnrollmentHandler(svc.Enrollment),
		Assignment: NewAssignmentHandler(svc.Assignment, svc.Calendar),
		Submission: NewSubmissionHandler(svc.Submission),
		Grade:      NewGradeHandler(svc.Grade),
		Export:     NewExportHandler(svc.Export),
		Report:     NewReportHandler(svc.Report),
		Category:   NewMetadataHandler(svc.Metadata, service.MetadataCategory),
		Difficulty: NewMetadataHandler(svc.Metadata, service.MetadataDifficulty),
		Dashboard:  NewDashboardHandler(svc.Dashboard),
	}
}
