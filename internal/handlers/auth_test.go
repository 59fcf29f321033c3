package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/employeest/employeest-api/internal/constants"
	"github.com/employeest/employeest-api/internal/database"
	"github.com/employeest/employeest-api/internal/dto"
	"github.com/employeest/employeest-api/internal/middleware"
	"github.com/employeest/employeest-api/internal/models"
	"github.com/employeest/employeest-api/internal/repository"
	"github.com/employeest/employeest-api/internal/services"
	"github.com/employeest/employeest-api/internal/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type authTestEnv struct {
	db          *gorm.DB
	handler     *AuthHandler
	authService *services.AuthService
	jwtService  *utils.JWTService
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.NewGormConfig(logger.Silent))
	require.NoError(t, err)

	err = db.AutoMigrate(database.Models...)
	require.NoError(t, err)

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	authService := services.NewAuthService(userRepo)
	jwtService := utils.NewJWTService("test-secret", time.Hour)
	handler := NewAuthHandler(authService, jwtService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authTestEnv{
		db:          db,
		handler:     handler,
		authService: authService,
		jwtService:  jwtService,
	}
}

func (env authTestEnv) router() *gin.Engine {
	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.POST("/api/auth/signup", env.handler.Signup)
	r.POST("/api/auth/login", env.handler.Login)
	r.POST("/api/auth/logout", env.handler.Logout)
	r.GET("/api/auth/me", middleware.RequireAuth(env.jwtService), env.handler.GetCurrentUser)
	return r
}

func postJSON(t *testing.T, r http.Handler, url string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Signup(t *testing.T) {
	env := setupAuthTestEnv(t)

	payload := map[string]string{
		"username": "newuser",
		"email":    "newuser@example.com",
		"password": "supersecret",
	}
	w := postJSON(t, env.router(), "/api/auth/signup", payload)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.UserDetailDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, payload["username"], response.Username)
	require.Equal(t, models.RoleEmployee, response.Role)
	require.NotContains(t, w.Body.String(), "password")
}

func TestAuthHandler_SignupRejectsInvalidInput(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := env.router()

	tests := []struct {
		name    string
		payload map[string]string
		code    int
	}{
		{"short password", map[string]string{"username": "someone", "email": "a@example.com", "password": "short"}, http.StatusBadRequest},
		{"bad email", map[string]string{"username": "someone", "email": "nope", "password": "supersecret"}, http.StatusBadRequest},
		{"admin role", map[string]string{"username": "someone", "email": "a@example.com", "password": "supersecret", "role": "admin"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, r, "/api/auth/signup", tt.payload)
			require.Equal(t, tt.code, w.Code)
			require.Contains(t, w.Body.String(), `"code":"INVALID_INPUT"`)
		})
	}
}

func TestAuthHandler_SignupDuplicateUsername(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := env.router()

	payload := map[string]string{"username": "taken", "email": "taken@example.com", "password": "supersecret"}
	require.Equal(t, http.StatusCreated, postJSON(t, r, "/api/auth/signup", payload).Code)

	w := postJSON(t, r, "/api/auth/signup", payload)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Signup(context.Background(), services.SignupInput{
		Username: "existing",
		Email:    "existing@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	r := env.router()
	w := postJSON(t, r, "/api/auth/login", map[string]string{
		"username": "existing",
		"password": "supersecret",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "existing", response.User.Username)
	require.Equal(t, "Bearer", response.TokenType)
	require.NotEmpty(t, response.AccessToken)
	require.NotEmpty(t, w.Result().Cookies())

	// The session cookie authenticates follow-up requests.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	me := httptest.NewRecorder()
	r.ServeHTTP(me, req)
	require.Equal(t, http.StatusOK, me.Code)

	// So does the bearer token, without any cookie.
	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+response.AccessToken)
	me = httptest.NewRecorder()
	r.ServeHTTP(me, req)
	require.Equal(t, http.StatusOK, me.Code)
}

func TestAuthHandler_LoginInvalidCredentials(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Signup(context.Background(), services.SignupInput{
		Username: "existing",
		Email:    "existing@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	w := postJSON(t, env.router(), "/api/auth/login", map[string]string{
		"username": "existing",
		"password": "wrongpass",
	})

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), `"code":"INVALID_CREDENTIALS"`)
}

func TestAuthHandler_MeRequiresAuthentication(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := env.router()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
