package matchresponse

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/DhavalSuthar-24/crickscore/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// envelope is the body of every JSON response the API writes.
type envelope struct {
	Status     string      `json:"status"` // "success", "error" or "fail"
	Message    string      `json:"message,omitempty"`
	Code       int         `json:"code,omitempty"`
	Kind       string      `json:"kind,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Errors     interface{} `json:"errors,omitempty"`
	Pagination *Page       `json:"pagination,omitempty"`
}

// Page describes one slice of a listing.
type Page struct {
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
	HasNextPage bool  `json:"has_next_page"`
	HasPrevPage bool  `json:"has_prev_page"`
}

// NewPage clamps the page size and derives the page count.
func NewPage(currentPage, pageSize int, totalItems int64) Page {
	if pageSize <= 0 {
		pageSize = 10
	}
	totalPages := int((totalItems + int64(pageSize) - 1) / int64(pageSize))
	return Page{
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		CurrentPage: currentPage,
		PageSize:    pageSize,
		HasNextPage: currentPage < totalPages,
		HasPrevPage: currentPage > 1 && currentPage <= totalPages,
	}
}

var jsonNamesOnce sync.Once

// useJSONFieldNames makes gin's validator report fields by their json tag,
// so "bowler_id" comes back instead of "BowlerID".
func useJSONFieldNames() {
	jsonNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
}

func init() {
	useJSONFieldNames()
}

// ErrorResponse aborts with a plain error. 5xx statuses are reported as "fail".
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	status := "error"
	if statusCode >= http.StatusInternalServerError {
		status = "fail"
	}
	c.AbortWithStatusJSON(statusCode, envelope{Status: status, Message: message, Code: statusCode})
}

// StatusForKind maps the core error taxonomy onto HTTP status codes.
func StatusForKind(kind apperror.Kind) int {
	switch kind {
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindInvalidState:
		return http.StatusConflict
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindBusinessRule:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// DomainErrorResponse reports an error returned by the scoring core. Classified
// errors carry their context to the client; anything else is logged and
// reported generically.
func DomainErrorResponse(c *gin.Context, log *logrus.Logger, err error) {
	appErr, ok := apperror.As(err)
	if !ok {
		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("Unexpected error handling request")
		ErrorResponse(c, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}

	statusCode := StatusForKind(appErr.Kind)
	c.AbortWithStatusJSON(statusCode, envelope{
		Status:  "error",
		Message: appErr.Error(),
		Code:    statusCode,
		Kind:    string(appErr.Kind),
		Errors:  appErr,
	})
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if", "required_with":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must not exceed %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "nefield":
		return fmt.Sprintf("%s must differ from %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed the %q rule", fe.Field(), fe.Tag())
}

// ValidationErrors renders validator failures keyed by field name.
func ValidationErrors(errs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		out[fe.Field()] = describeFieldError(fe)
	}
	return out
}

// ValidationErrorResponse reports a request body that failed to bind.
func ValidationErrorResponse(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, envelope{
		Status:  "error",
		Message: "Validation failed. Please check your input.",
		Code:    http.StatusBadRequest,
		Kind:    string(apperror.KindValidation),
		Errors:  ValidationErrors(ve),
	})
}

// SuccessResponse wraps data in the success envelope. A gin.H carrying a
// string "message" has it lifted to the top level; the remaining keys become
// the data.
func SuccessResponse(c *gin.Context, statusCode int, data interface{}) {
	body := envelope{Status: "success", Data: data}
	if gh, ok := data.(gin.H); ok {
		if msg, isStr := gh["message"].(string); isStr {
			body.Message = msg
			body.Data = nil
			if len(gh) > 1 {
				rest := make(gin.H, len(gh)-1)
				for k, v := range gh {
					if k != "message" {
						rest[k] = v
					}
				}
				body.Data = rest
			}
		}
	}
	c.JSON(statusCode, body)
}

// PaginatedResponse writes one page of a listing.
func PaginatedResponse(c *gin.Context, statusCode int, items interface{}, currentPage, pageSize int, totalItems int64) {
	page := NewPage(currentPage, pageSize, totalItems)
	c.JSON(statusCode, envelope{Status: "success", Data: items, Pagination: &page})
}
