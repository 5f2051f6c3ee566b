package model

// ── 状态机 ──────────────────────────────────────────────────
//
// 所有状态字段均为封闭枚举，合法跳转集中在各自的转移表中。
// 不在表中的 (from, to) 一律非法，包括原地跳转与回退。
// ─────────────────────────────────────────────────────────────

// canTransition 查表判断跳转是否合法
func canTransition[S ~string](table map[S][]S, from, to S) bool {
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ── 课程状态 ──

// CourseStatus 课程状态
type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "draft"
	CourseStatusPublished CourseStatus = "published"
	CourseStatusArchived  CourseStatus = "archived"
)

var courseTransitions = map[CourseStatus][]CourseStatus{
	CourseStatusDraft:     {CourseStatusPublished},
	CourseStatusPublished: {CourseStatusArchived},
}

// IsAllowedCourseTransition draft→published、published→archived 之外均不允许
func IsAllowedCourseTransition(current, next CourseStatus) bool {
	return canTransition(courseTransitions, current, next)
}

// IsValid 校验取值
func (s CourseStatus) IsValid() bool {
	switch s {
	case CourseStatusDraft, CourseStatusPublished, CourseStatusArchived:
		return true
	}
	return false
}

// ── 作业状态 ──

// AssignmentStatus 作业状态
type AssignmentStatus string

const (
	AssignmentStatusDraft     AssignmentStatus = "draft"
	AssignmentStatusPublished AssignmentStatus = "published"
	AssignmentStatusClosed    AssignmentStatus = "closed"
)

var assignmentTransitions = map[AssignmentStatus][]AssignmentStatus{
	AssignmentStatusDraft:     {AssignmentStatusPublished},
	AssignmentStatusPublished: {AssignmentStatusClosed},
}

// IsAllowedAssignmentTransition draft→published、published→closed 之外均不允许
func IsAllowedAssignmentTransition(current, next AssignmentStatus) bool {
	return canTransition(assignmentTransitions, current, next)
}

// IsValid 校验取值
func (s AssignmentStatus) IsValid() bool {
	switch s {
	case AssignmentStatusDraft, AssignmentStatusPublished, AssignmentStatusClosed:
		return true
	}
	return false
}

// ── 提交状态 ──

// SubmissionStatus 提交状态
type SubmissionStatus string

const (
	SubmissionStatusSubmitted            SubmissionStatus = "submitted"
	SubmissionStatusGraded               SubmissionStatus = "graded"
	SubmissionStatusResubmissionRequired SubmissionStatus = "resubmission_required"
	SubmissionStatusInvalidated          SubmissionStatus = "invalidated"
)

// graded→graded 为重新评分；invalidated 为终态，只能由举报处理进入
var submissionTransitions = map[SubmissionStatus][]SubmissionStatus{
	SubmissionStatusSubmitted: {
		SubmissionStatusGraded,
		SubmissionStatusResubmissionRequired,
		SubmissionStatusInvalidated,
	},
	SubmissionStatusGraded: {
		SubmissionStatusGraded,
		SubmissionStatusResubmissionRequired,
		SubmissionStatusInvalidated,
	},
	SubmissionStatusResubmissionRequired: {
		SubmissionStatusSubmitted,
		SubmissionStatusInvalidated,
	},
}

// IsAllowedSubmissionTransition 提交状态跳转
func IsAllowedSubmissionTransition(current, next SubmissionStatus) bool {
	return canTransition(submissionTransitions, current, next)
}

// ── 举报状态 ──

// ReportStatus 举报处理状态
type ReportStatus string

const (
	ReportStatusReceived      ReportStatus = "received"
	ReportStatusInvestigating ReportStatus = "investigating"
	ReportStatusResolved      ReportStatus = "resolved"
)

// resolved 为终态；允许 received 直接 resolved
var reportTransitions = map[ReportStatus][]ReportStatus{
	ReportStatusReceived:      {ReportStatusInvestigating, ReportStatusResolved},
	ReportStatusInvestigating: {ReportStatusResolved},
}

// IsAllowedReportTransition 举报状态跳转
func IsAllowedReportTransition(current, next ReportStatus) bool {
	return canTransition(reportTransitions, current, next)
}

// IsValid 校验取值
func (s ReportStatus) IsValid() bool {
	switch s {
	case ReportStatusReceived, ReportStatusInvestigating, ReportStatusResolved:
		return true
	}
	return false
}

// ReportTargetType 举报对象类型
type ReportTargetType string

const (
	ReportTargetCourse     ReportTargetType = "course"
	ReportTargetAssignment ReportTargetType = "assignment"
	ReportTargetSubmission ReportTargetType = "submission"
	ReportTargetUser       ReportTargetType = "user"
)

// ReportAction 处理结果动作，仅在 resolved 时有意义
type ReportAction string

const (
	ReportActionWarning              ReportAction = "warning"
	ReportActionInvalidateSubmission ReportAction = "invalidate_submission"
	ReportActionRestrictAccount      ReportAction = "restrict_account"
)

// AppliesTo 动作与举报对象类型是否匹配；warning 适用于所有对象
func (a ReportAction) AppliesTo(target ReportTargetType) bool {
	switch a {
	case ReportActionWarning:
		return true
	case ReportActionInvalidateSubmission:
		return target == ReportTargetSubmission
	case ReportActionRestrictAccount:
		return target == ReportTargetUser
	}
	return false
}
