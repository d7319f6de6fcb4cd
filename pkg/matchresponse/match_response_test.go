package matchresponse

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DhavalSuthar-24/crickscore/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, method, body string, h gin.HandlerFunc) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Handle(method, "/x", h)

	req := httptest.NewRequest(method, "/x", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec, out
}

func TestSuccessResponseLiftsMessage(t *testing.T) {
	_, body := serve(t, http.MethodGet, "", func(c *gin.Context) {
		SuccessResponse(c, http.StatusOK, gin.H{"message": "Ball recorded", "over": 3})
	})
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Ball recorded", body["message"])
	assert.Equal(t, map[string]any{"over": float64(3)}, body["data"])

	_, body = serve(t, http.MethodGet, "", func(c *gin.Context) {
		SuccessResponse(c, http.StatusOK, gin.H{"message": "Deleted"})
	})
	assert.NotContains(t, body, "data")

	_, body = serve(t, http.MethodGet, "", func(c *gin.Context) {
		SuccessResponse(c, http.StatusOK, []int{1, 2})
	})
	assert.Equal(t, []any{float64(1), float64(2)}, body["data"])
}

func TestDomainErrorResponse(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	tests := []struct {
		err  error
		code int
		kind string
	}{
		{apperror.NotFound("match", 4), http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("record ball: %w", apperror.InvalidState("innings", 2, "IN_PROGRESS", "COMPLETED")), http.StatusConflict, "INVALID_STATE"},
		{apperror.Validation("runs", "too many"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{apperror.BusinessRule("squad too small"), http.StatusUnprocessableEntity, "BUSINESS_RULE_VIOLATION"},
		{errors.New("disk on fire"), http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec, body := serve(t, http.MethodGet, "", func(c *gin.Context) {
				DomainErrorResponse(c, log, tt.err)
			})
			assert.Equal(t, tt.code, rec.Code)
			assert.EqualValues(t, tt.code, body["code"])
			if tt.kind == "" {
				assert.Equal(t, "fail", body["status"])
				assert.Equal(t, "An unexpected error occurred", body["message"])
				return
			}
			assert.Equal(t, "error", body["status"])
			assert.Equal(t, tt.kind, body["kind"])
		})
	}
}

type ballRequest struct {
	BowlerID uint   `json:"bowler_id" binding:"required"`
	Runs     int    `json:"runs" binding:"min=0,max=7"`
	Extra    string `json:"extra_type" binding:"omitempty,oneof=WIDE NO_BALL"`
}

func TestValidationErrorResponseUsesJSONNames(t *testing.T) {
	bind := func(c *gin.Context) {
		var req ballRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			ValidationErrorResponse(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	}

	rec, body := serve(t, http.MethodPost, `{"runs": 9, "extra_type": "BYE"}`, bind)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", body["kind"])
	assert.Equal(t, map[string]any{
		"bowler_id":  "bowler_id is required",
		"runs":       "runs must not exceed 7",
		"extra_type": "extra_type must be one of WIDE, NO_BALL",
	}, body["errors"])

	rec, body = serve(t, http.MethodPost, `{"bowler_id": "seven"}`, bind)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["message"], "Invalid request payload")
}

func TestNewPage(t *testing.T) {
	p := NewPage(2, 10, 25)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNextPage)
	assert.True(t, p.HasPrevPage)

	p = NewPage(1, 0, 0)
	assert.Equal(t, 10, p.PageSize)
	assert.Equal(t, 0, p.TotalPages)
	assert.False(t, p.HasNextPage)
	assert.False(t, p.HasPrevPage)
}

func TestPaginatedResponse(t *testing.T) {
	_, body := serve(t, http.MethodGet, "", func(c *gin.Context) {
		PaginatedResponse(c, http.StatusOK, []string{"a"}, 1, 1, 3)
	})
	page, ok := body["pagination"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 3, page["total_items"])
	assert.Equal(t, true, page["has_next_page"])
}
