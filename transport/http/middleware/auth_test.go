package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"hotel/config"
	"hotel/infras/jwt"
	jwtMocks "hotel/infras/jwt/mocks"
	otelMocks "hotel/infras/otel/mocks"
	"hotel/permissions"
	"hotel/shared/constant"
	"hotel/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func roomsRouter(t *testing.T, jwtService jwt.JWT) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.APIKey = "internal-key"

	mw := middleware.NewAuthRoleMiddleware(jwtService, otelMocks.NewOtel(), permissions.Get(), cfg)

	router := chi.NewRouter()
	router.Route("/v1", func(v1 chi.Router) {
		v1.Route("/rooms", func(rooms chi.Router) {
			rooms.Use(mw.APIKey, mw.Auth, mw.RBAC)

			rooms.Post("/", func(w http.ResponseWriter, r *http.Request) {
				role, _ := r.Context().Value(constant.ContextKeyUserRole).(string)
				w.Header().Set("X-Role", role)
				w.WriteHeader(http.StatusCreated)
			})
			rooms.Get("/{id}", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			rooms.Get("/unlisted", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
		})
	})

	return router
}

func TestAuthRole(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		path    string
		headers map[string]string
		role    string
		code    int
	}{
		{
			name:   "missing header",
			method: http.MethodGet,
			path:   "/v1/rooms/r-1",
			code:   http.StatusUnauthorized,
		},
		{
			name:    "not a bearer header",
			method:  http.MethodGet,
			path:    "/v1/rooms/r-1",
			headers: map[string]string{"Authorization": "Basic abc"},
			code:    http.StatusUnauthorized,
		},
		{
			name:    "staff may read rooms",
			method:  http.MethodGet,
			path:    "/v1/rooms/r-1",
			headers: map[string]string{"Authorization": "Bearer token"},
			role:    constant.RoleStaff,
			code:    http.StatusOK,
		},
		{
			name:    "staff may not create rooms",
			method:  http.MethodPost,
			path:    "/v1/rooms/",
			headers: map[string]string{"Authorization": "Bearer token"},
			role:    constant.RoleStaff,
			code:    http.StatusForbidden,
		},
		{
			name:    "manager creates rooms",
			method:  http.MethodPost,
			path:    "/v1/rooms/",
			headers: map[string]string{"Authorization": "Bearer token"},
			role:    constant.RoleManager,
			code:    http.StatusCreated,
		},
		{
			name:    "route missing from permissions",
			method:  http.MethodGet,
			path:    "/v1/rooms/unlisted",
			headers: map[string]string{"Authorization": "Bearer token"},
			role:    constant.RoleAdmin,
			code:    http.StatusForbidden,
		},
		{
			name:    "internal api key skips auth",
			method:  http.MethodPost,
			path:    "/v1/rooms/",
			headers: map[string]string{"X-API-Key": "internal-key"},
			code:    http.StatusCreated,
		},
		{
			name:    "wrong api key",
			method:  http.MethodPost,
			path:    "/v1/rooms/",
			headers: map[string]string{"X-API-Key": "guess"},
			code:    http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			jwtService := jwtMocks.NewMockJWT(ctrl)

			if tt.role != "" {
				jwtService.EXPECT().
					ValidateToken(gomock.Any(), "token", jwt.AccessToken).
					Return(&jwt.Claims{UserID: "user-1", Email: "u@hotel.test", Role: tt.role}, nil)
			}

			req := httptest.NewRequest(tt.method, tt.path, nil)
			for key, value := range tt.headers {
				req.Header.Set(key, value)
			}

			rec := httptest.NewRecorder()
			roomsRouter(t, jwtService).ServeHTTP(rec, req)

			assert.Equal(t, tt.code, rec.Code)

			if tt.code == http.StatusCreated && tt.role != "" {
				assert.Equal(t, tt.role, rec.Header().Get("X-Role"))
			}
		})
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	jwtService := jwtMocks.NewMockJWT(ctrl)

	jwtService.EXPECT().
		ValidateToken(gomock.Any(), "stale", jwt.AccessToken).
		Return(nil, jwt.ErrExpiredToken)

	req := httptest.NewRequest(http.MethodGet, "/v1/rooms/r-1", nil)
	req.Header.Set("Authorization", "Bearer stale")

	rec := httptest.NewRecorder()
	roomsRouter(t, jwtService).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Token has expired"}`, rec.Body.String())
}
