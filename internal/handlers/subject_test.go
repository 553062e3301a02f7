package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"studytracker/internal/auth"
	"studytracker/internal/dto"
	"studytracker/internal/middleware"
	"studytracker/internal/models"
	"studytracker/internal/repository"
	"studytracker/internal/services"
)

type subjectTestEnv struct {
	db     *gorm.DB
	router *gin.Engine
	tokens *auth.TokenManager
}

func setupSubjectTestEnv(t *testing.T) subjectTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Subject{},
		&models.Subscription{},
		&models.SubjectTask{},
		&models.UserTaskStatus{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	subjectRepo := repository.NewSubjectRepository(db)
	taskRepo := repository.NewSubjectTaskRepository(db)
	handler := NewSubjectHandler(services.NewSubjectService(subjectRepo, taskRepo, true))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	subjects := r.Group("/api/subjects")
	subjects.Use(middleware.RequireAuth(tokens))
	{
		subjects.POST("", handler.CreateSubject)
		subjects.GET("", handler.ListSubjects)
		subjects.GET("/:id", handler.GetSubject)
		subjects.DELETE("/:id", handler.DeleteSubject)
		subjects.POST("/:id/subscribe", handler.Subscribe)
	}

	return subjectTestEnv{db: db, router: r, tokens: tokens}
}

func (env subjectTestEnv) request(t *testing.T, method, url string, payload any, userID uint64) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	token, err := env.tokens.Generate(userID)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env subjectTestEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()

	user := &models.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func TestSubjectHandler_Create(t *testing.T) {
	env := setupSubjectTestEnv(t)
	owner := env.createUser(t, "owner")

	w := env.request(t, "POST", "/api/subjects", map[string]string{
		"title":       "Algebra",
		"description": "fall term",
	}, owner.ID)
	require.Equal(t, http.StatusCreated, w.Code)

	var subject dto.SubjectDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &subject))
	require.Equal(t, "Algebra", subject.Title)
	require.Equal(t, owner.ID, subject.OwnerID)
	require.NotEmpty(t, subject.InviteCode)
}

// The invitation code only shows for subjects the caller owns.
func TestSubjectHandler_InviteCodeHiddenFromSubscribers(t *testing.T) {
	env := setupSubjectTestEnv(t)
	owner := env.createUser(t, "owner")
	member := env.createUser(t, "member")

	w := env.request(t, "POST", "/api/subjects", map[string]string{"title": "Algebra"}, owner.ID)
	require.Equal(t, http.StatusCreated, w.Code)

	var subject dto.SubjectDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &subject))

	w = env.request(t, "POST", fmt.Sprintf("/api/subjects/%d/subscribe", subject.ID),
		map[string]string{"invitation_code": subject.InviteCode}, member.ID)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.request(t, "GET", fmt.Sprintf("/api/subjects/%d", subject.ID), nil, member.ID)
	require.Equal(t, http.StatusOK, w.Code)

	var seen dto.SubjectDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &seen))
	require.Empty(t, seen.InviteCode)

	w = env.request(t, "GET", fmt.Sprintf("/api/subjects/%d", subject.ID), nil, owner.ID)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &seen))
	require.Equal(t, subject.InviteCode, seen.InviteCode)
}

func TestSubjectHandler_List(t *testing.T) {
	env := setupSubjectTestEnv(t)
	owner := env.createUser(t, "owner")
	member := env.createUser(t, "member")

	w := env.request(t, "POST", "/api/subjects", map[string]string{"title": "Algebra"}, owner.ID)
	require.Equal(t, http.StatusCreated, w.Code)
	var algebra dto.SubjectDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &algebra))

	w = env.request(t, "POST", "/api/subjects", map[string]string{"title": "Drawing"}, member.ID)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.request(t, "POST", fmt.Sprintf("/api/subjects/%d/subscribe", algebra.ID),
		map[string]string{"invitation_code": algebra.InviteCode}, member.ID)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.request(t, "GET", "/api/subjects", nil, member.ID)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Subjects []dto.SubjectDTO `json:"subjects"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Subjects, 2)

	// Owned entries carry the code, subscribed ones do not.
	for _, s := range response.Subjects {
		if s.OwnerID == member.ID {
			require.NotEmpty(t, s.InviteCode)
		} else {
			require.Empty(t, s.InviteCode)
		}
	}
}

// A subject the caller has no relation to is indistinguishable from a
// missing one.
func TestSubjectHandler_Get_HiddenFromOutsiders(t *testing.T) {
	env := setupSubjectTestEnv(t)
	owner := env.createUser(t, "owner")
	outsider := env.createUser(t, "outsider")

	w := env.request(t, "POST", "/api/subjects", map[string]string{"title": "Algebra"}, owner.ID)
	require.Equal(t, http.StatusCreated, w.Code)
	var subject dto.SubjectDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &subject))

	w = env.request(t, "GET", fmt.Sprintf("/api/subjects/%d", subject.ID), nil, outsider.ID)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = env.request(t, "GET", "/api/subjects/9999", nil, owner.ID)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubjectHandler_Delete(t *testing.T) {
	env := setupSubjectTestEnv(t)
	owner := env.createUser(t, "owner")
	member := env.createUser(t, "member")

	w := env.request(t, "POST", "/api/subjects", map[string]string{"title": "Algebra"}, owner.ID)
	require.Equal(t, http.StatusCreated, w.Code)
	var subject dto.SubjectDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &subject))

	w = env.request(t, "POST", fmt.Sprintf("/api/subjects/%d/subscribe", subject.ID),
		map[string]string{"invitation_code": subject.InviteCode}, member.ID)
	require.Equal(t, http.StatusCreated, w.Code)

	// Subscribers cannot delete.
	w = env.request(t, "DELETE", fmt.Sprintf("/api/subjects/%d", subject.ID), nil, member.ID)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = env.request(t, "DELETE", fmt.Sprintf("/api/subjects/%d", subject.ID), nil, owner.ID)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.Subscription{}).Count(&count).Error)
	require.Equal(t, int64(0), count)
}
