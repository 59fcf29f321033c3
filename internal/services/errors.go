package services

import (
	"errors"

	"github.com/employeest/employeest-api/internal/lifecycle"
	"github.com/employeest/employeest-api/internal/policy"
	"github.com/employeest/employeest-api/internal/stats"
)

// Error categories. Every error returned by a service either is one of
// these or matches one of them through errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrUnauthorized      = errors.New("authentication failed")
	ErrForbidden         = policy.ErrDenied
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = lifecycle.ErrInvalidTransition
	ErrNoData            = stats.ErrNoData
	ErrExternalService   = errors.New("external service failed")
	ErrUnavailable       = errors.New("service unavailable")
)

// kindError is a specific error that belongs to a category. Its message is
// safe to show to API callers.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Is(target error) bool { return target == e.kind }

func newError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// Users and authentication
var (
	ErrUsernameRequired     = newError(ErrValidation, "username is required")
	ErrEmailRequired        = newError(ErrValidation, "email is required")
	ErrPasswordTooShort     = newError(ErrValidation, "password too short")
	ErrInvalidRole          = newError(ErrValidation, "invalid role")
	ErrUsernameTaken        = newError(ErrConflict, "username already exists")
	ErrInvalidCredentials   = newError(ErrUnauthorized, "invalid username or password")
	ErrUserNotFound         = newError(ErrNotFound, "user not found")
	ErrUserOwnsResources    = newError(ErrValidation, "user still owns projects or teams")
	ErrCannotDeleteYourself = newError(ErrValidation, "cannot delete yourself")
)

// Teams
var (
	ErrTeamNotFound               = newError(ErrNotFound, "team not found")
	ErrTeamMissing                = newError(ErrValidation, "team does not exist")
	ErrInvalidTeamName            = newError(ErrValidation, "team name cannot be empty")
	ErrInvalidInviteCode          = newError(ErrNotFound, "invalid invite code")
	ErrAlreadyTeamMember          = newError(ErrConflict, "user is already a member of this team")
	ErrCannotRemoveYourself       = newError(ErrValidation, "cannot remove yourself from the team")
	ErrTeamMemberNotFound         = newError(ErrNotFound, "team member not found")
	ErrInviteCodeGenerationFailed = errors.New("failed to generate invite code")
)

// Projects and tasks
var (
	ErrProjectNotFound     = newError(ErrNotFound, "project not found")
	ErrProjectMissing      = newError(ErrValidation, "project does not exist")
	ErrProjectNameRequired = newError(ErrValidation, "name is required")
	ErrTaskNotFound        = newError(ErrNotFound, "task not found")
	ErrTaskNameRequired    = newError(ErrValidation, "name is required")
	ErrAssigneeMissing     = newError(ErrValidation, "assignee (user) does not exist")
	ErrNegativeStoryPoints = newError(ErrValidation, "story_points must be a non-negative integer")
	ErrNegativeEstimation  = newError(ErrValidation, "estimation_hours must not be negative")
	ErrStatusNotEditable   = newError(ErrValidation, "status can only change through start-progress or mark-as-done")
	ErrInvalidStatus       = newError(ErrValidation, "invalid status")
	ErrNoTaskIDs           = newError(ErrValidation, "at least one task ID is required")
)

// Work logs
var (
	ErrWorkLogNotFound    = newError(ErrNotFound, "work log not found")
	ErrWorkLogNoTarget    = newError(ErrValidation, "work log must be associated with a task or a project")
	ErrWorkLogBothTargets = newError(ErrValidation, "work log cannot be associated with both a task and a project simultaneously")
	ErrInvalidHours       = newError(ErrValidation, "hours_spent must be greater than 0 and at most 99.99")
	ErrWorkLogTaskMissing = newError(ErrValidation, "task does not exist")
)

// Statistics and charts
var (
	ErrNoProjectTasks      = newError(ErrNoData, "No tasks found for this project to generate a chart.")
	ErrNoVelocityData      = newError(ErrNoData, "Not enough data to calculate project velocity.")
	ErrNoBusinessData      = newError(ErrNoData, "No completed tasks with story points found for the last year.")
	ErrNoPersonalData      = newError(ErrNoData, "You have no completed tasks in the last year.")
	ErrChartUnavailable    = newError(ErrExternalService, "Could not generate chart URL.")
	ErrBusinessStatsDenied = newError(ErrForbidden, "business statistics are restricted to owners and administrators")
	ErrNotBusinessOwner    = newError(ErrForbidden, "Not authorized")
	ErrAdminOnly           = newError(ErrForbidden, "administrator role required")
)

// Task drafts
var (
	ErrAIServiceNotConfigured = newError(ErrUnavailable, "AI service is not configured")
	ErrDraftTextRequired      = newError(ErrValidation, "text is required")
	ErrAINoTasksGenerated     = newError(ErrValidation, "AI did not generate any tasks")
	ErrAINoValidTasks         = newError(ErrValidation, "no valid tasks could be created from AI output")
	ErrAIRequestFailed        = newError(ErrExternalService, "failed to generate tasks")
)

// Message returns the caller-safe message carried by a specific service
// error, or fallback for anything else.
func Message(err error, fallback string) string {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.msg
	}
	return fallback
}
