package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"studytracker/internal/auth"
	"studytracker/internal/middleware"
)

func setupRouter(tokens *auth.TokenManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	protected := r.Group("/protected")
	protected.Use(middleware.RequireAuth(tokens))

	protected.GET("/resource", func(c *gin.Context) {
		userID, exists := middleware.GetUserID(c)
		if !exists {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "User ID not found in context"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Access granted",
			"user_id": userID,
		})
	})

	return r
}

func TestRequireAuth_ValidToken(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret-key", time.Hour)
	router := setupRouter(tokens)

	token, err := tokens.Generate(7)
	assert.NoError(t, err)

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Access granted")
	assert.Contains(t, resp.Body.String(), "7")
}

func TestRequireAuth_MissingToken(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret-key", time.Hour)
	router := setupRouter(tokens)

	req, _ := http.NewRequest("GET", "/protected/resource", nil)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret-key", time.Hour)
	router := setupRouter(tokens)

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.Header.Set("Authorization", "Bearer bogus-token")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRequireAuth_TokenSignedWithOtherSecret(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret-key", time.Hour)
	other := auth.NewTokenManager("different-secret", time.Hour)
	router := setupRouter(tokens)

	token, err := other.Generate(7)
	assert.NoError(t, err)

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
