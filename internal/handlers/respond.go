package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"reflect"
	"strconv"
	"strings"

	apierrors "github.com/employeest/employeest-api/internal/errors"
	"github.com/employeest/employeest-api/internal/middleware"
	"github.com/employeest/employeest-api/internal/policy"
	"github.com/employeest/employeest-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	// Report binding failures by their JSON field names.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// FieldError describes one rejected request field
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// respondBindError answers a failed ShouldBindJSON. Validation failures
// list the offending fields; malformed JSON gets a plain message.
func respondBindError(c *gin.Context, err error) {
	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	details := make([]FieldError, len(invalid))
	for i, fe := range invalid {
		details[i] = FieldError{Field: fe.Field(), Rule: fe.Tag()}
	}
	apierrors.BadRequestWithDetails(c, "Invalid request body", details)
}

// respondError maps a service error onto the API error envelope.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		apierrors.BadRequest(c, services.Message(err, "Invalid request"))
	case errors.Is(err, services.ErrInvalidTransition):
		apierrors.InvalidOperation(c, services.Message(err, "Invalid status transition"))
	case errors.Is(err, services.ErrUnauthorized):
		apierrors.InvalidCredentials(c, services.Message(err, "Authentication failed"))
	case errors.Is(err, services.ErrForbidden):
		apierrors.Forbidden(c, services.Message(err, "You do not have permission to perform this action"))
	case errors.Is(err, services.ErrNoData):
		apierrors.NoData(c, services.Message(err, "No data available"))
	case errors.Is(err, services.ErrNotFound):
		apierrors.NotFound(c, services.Message(err, ""))
	case errors.Is(err, services.ErrConflict):
		apierrors.Conflict(c, services.Message(err, ""))
	case errors.Is(err, services.ErrExternalService):
		apierrors.OperationFailed(c, services.Message(err, "Upstream service failed"))
	case errors.Is(err, services.ErrUnavailable):
		apierrors.ServiceUnavailable(c, services.Message(err, ""))
	default:
		log.Printf("[%s] %s %s: %v", middleware.GetRequestID(c), c.Request.Method, c.FullPath(), err)
		apierrors.InternalError(c, "")
	}
}

// requireCaller fetches the caller set by middleware.ResolveCaller.
func requireCaller(c *gin.Context) (policy.Caller, bool) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
	}
	return caller, ok
}

// parseIDParam parses a positive integer path parameter.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// optionalUintQuery parses an optional positive integer query parameter.
func optionalUintQuery(c *gin.Context, name string) (*uint64, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return nil, false
	}
	return &id, true
}

// optional distinguishes an absent JSON field from an explicit null.
type optional[T any] struct {
	Set   bool
	Value *T
}

func (o *optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// cleared reports whether the field was sent as null.
func (o optional[T]) cleared() bool {
	return o.Set && o.Value == nil
}
