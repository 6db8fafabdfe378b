package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailpos/backend/internal/interfaces/http/dto"
)

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	require.NotNil(t, v)
}

func TestFormatValidationErrors(t *testing.T) {
	type input struct {
		Email    string `json:"email" binding:"required,email"`
		Quantity int    `json:"quantity" binding:"required,min=1"`
	}

	SetupValidator()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var req input
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, FormatValidationErrors(err, "req-1"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	t.Run("reports each invalid field with its json name", func(t *testing.T) {
		body := strings.NewReader(`{"email": "not-an-email", "quantity": 0}`)
		req := httptest.NewRequest(http.MethodPost, "/test", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "req-1", resp.Error.RequestID)
		require.Len(t, resp.Error.Details, 2)

		fields := []string{resp.Error.Details[0].Field, resp.Error.Details[1].Field}
		assert.Contains(t, fields, "email")
		assert.Contains(t, fields, "quantity")
	})

	t.Run("valid input passes through", func(t *testing.T) {
		body := strings.NewReader(`{"email": "clerk@example.com", "quantity": 2}`)
		req := httptest.NewRequest(http.MethodPost, "/test", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("non-validator errors still produce a validation response", func(t *testing.T) {
		body := strings.NewReader(`{not json`)
		req := httptest.NewRequest(http.MethodPost, "/test", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeValidation)
	})
}

func TestValidationMessage(t *testing.T) {
	type input struct {
		Required string `binding:"required"`
		Email    string `binding:"omitempty,email"`
		Min      string `binding:"omitempty,min=5"`
		OneOf    string `binding:"omitempty,oneof=cash card"`
	}

	// gin's engine validates the binding tags used above
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	err := v.Struct(input{Email: "nope", Min: "ab", OneOf: "check"})
	require.Error(t, err)

	var validationErrors validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrors)

	messages := map[string]string{}
	for _, e := range validationErrors {
		messages[e.Field()] = validationMessage(e)
	}

	assert.Equal(t, "This field is required", messages["Required"])
	assert.Equal(t, "Invalid email format", messages["Email"])
	assert.Equal(t, "Must be at least 5 characters", messages["Min"])
	assert.Equal(t, "Must be one of: cash card", messages["OneOf"])
}
