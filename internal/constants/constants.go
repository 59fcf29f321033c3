package constants

import "time"

// Context and session keys
const (
	ContextKeyUserID    = "user_id"
	ContextKeyCaller    = "caller"
	ContextKeyRequestID = "request_id"
	SessionCookieName   = "employeest_session"
	HeaderRequestID     = "X-Request-ID"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Validation limits
const (
	MinPasswordLength   = 8
	MaxHoursPerWorkLog  = 99.99
	MaxAIGeneratedTasks = 20
	DateLayout          = "2006-01-02"
)

// Aggregation windows
const (
	VelocityWindow = 90 * 24 * time.Hour
	YearWindow     = 365 * 24 * time.Hour
)
