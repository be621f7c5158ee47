package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/standup-api/internal/constants"
	"github.com/yukikurage/standup-api/internal/database"
	"github.com/yukikurage/standup-api/internal/identity"
	"github.com/yukikurage/standup-api/internal/middleware"
	"github.com/yukikurage/standup-api/internal/repository"
	"github.com/yukikurage/standup-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// tokenVerifier accepts "token-<user>" bearer tokens.
type tokenVerifier struct{}

func (tokenVerifier) Verify(token string) (string, error) {
	if user, ok := strings.CutPrefix(token, "token-"); ok && user != "" {
		return user, nil
	}
	return "", errors.New("invalid token")
}

type stubProfiles struct {
	down bool
}

func (p stubProfiles) GetUserByID(ctx context.Context, userID string) (*identity.UserProfile, error) {
	if p.down {
		return nil, errors.New("provider unavailable")
	}
	return &identity.UserProfile{ID: userID, PrimaryEmail: userID + "@example.com", DisplayName: userID}, nil
}

type testEnv struct {
	db     *gorm.DB
	store  repository.Store
	router *gin.Engine
}

func setupTestEnv(t *testing.T, profiles services.ProfileLookup) testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.MigrateDatabase(db))

	store := repository.NewStore(db)
	boardService := services.NewBoardService(store)
	collaboratorService := services.NewCollaboratorService(store, profiles)
	invitationService := services.NewInvitationService(store)
	standupService := services.NewStandupService(store, nil)

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("test-secret"))))
	RegisterRoutes(r.Group("/api"), Handlers{
		Auth:         NewAuthHandler(tokenVerifier{}, profiles),
		Board:        NewBoardHandler(boardService),
		Collaborator: NewCollaboratorHandler(collaboratorService),
		Invitation:   NewInvitationHandler(invitationService),
		Standup:      NewStandupHandler(standupService),
	}, RouteConfig{
		RequireAuth:     middleware.RequireAuth(tokenVerifier{}),
		InvitationLimit: middleware.NewRateLimiter(100, 100).Middleware(),
		Boards:          boardService,
		Members:         collaboratorService,
	})

	return testEnv{db: db, store: store, router: r}
}

func (env testEnv) do(t *testing.T, method, path, user string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set("Authorization", "Bearer token-"+user)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (env testEnv) createBoard(t *testing.T, owner string) uint64 {
	t.Helper()

	w := env.do(t, http.MethodPost, "/api/boards", owner, map[string]string{"name": "Platform"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var board struct {
		ID uint64 `json:"id"`
	}
	decode(t, w, &board)
	return board.ID
}
