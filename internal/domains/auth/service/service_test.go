package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"hotel/config"
	"hotel/infras/jwt"
	jwtMocks "hotel/infras/jwt/mocks"
	"hotel/infras/otel/mocks"
	"hotel/internal/domains/auth/model/dto"
	"hotel/internal/domains/auth/service"
	userMocks "hotel/internal/domains/user/mocks"
	userModel "hotel/internal/domains/user/model"
	userRepository "hotel/internal/domains/user/repository"
	"hotel/shared"
	"hotel/shared/constant"
	"hotel/shared/failure"
	"hotel/shared/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	svc  service.Auth
	repo userRepository.User
	jwt  jwt.JWT
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Name = "hotel"
	cfg.JWT.AccessSecret = "front-desk-access"
	cfg.JWT.RefreshSecret = "front-desk-refresh"
	cfg.JWT.AccessExpireMin = 15
	cfg.JWT.RefreshExpireMin = 120

	otl := mocks.NewOtel()
	f := fixture{repo: userRepository.New(nil, otl), jwt: jwt.New(cfg, otl)}
	f.svc = service.New(f.repo, cfg, otl, f.jwt)

	return f
}

func (f fixture) register(t *testing.T, email, pass string) {
	t.Helper()

	require.NoError(t, f.svc.Register(context.Background(), dto.RegisterRequest{Email: email, Password: pass}))
}

func (f fixture) stored(t *testing.T, email string) userModel.User {
	t.Helper()

	user, err := f.repo.Get(context.Background(), shared.FilterByID(email, userModel.FieldEmail, userModel.TableName))
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)

	return user
}

func TestAuthService_Register(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	name := "Meera Pillai"

	require.NoError(t, f.svc.Register(ctx, dto.RegisterRequest{Email: "meera@hotel.com", Password: "s3cret-pass", FullName: &name}))

	user := f.stored(t, "meera@hotel.com")
	assert.Equal(t, constant.RoleStaff, user.Level)
	assert.Equal(t, constant.SelfRegistration, user.CreatedBy)
	assert.True(t, user.Active)
	assert.NoError(t, password.Verify("s3cret-pass", user.Password))

	err := f.svc.Register(ctx, dto.RegisterRequest{Email: "meera@hotel.com", Password: "another-pass"})
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
}

func TestAuthService_Login(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.register(t, "ravi@hotel.com", "night-shift-1")

	res, err := f.svc.Login(ctx, dto.LoginRequest{Email: "ravi@hotel.com", Password: "night-shift-1"})
	require.NoError(t, err)
	assert.Equal(t, "ravi@hotel.com", res.User.Email)
	assert.NotEmpty(t, res.User.LastLogin)
	assert.Equal(t, int64(900), res.ExpiresIn)

	claims, err := f.jwt.ValidateToken(ctx, res.AccessToken, jwt.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, constant.RoleStaff, claims.Role)

	assert.NotNil(t, f.stored(t, "ravi@hotel.com").LastLogin)
}

func TestAuthService_LoginRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.register(t, "ravi@hotel.com", "night-shift-1")
	f.register(t, "left@hotel.com", "night-shift-2")

	left := f.stored(t, "left@hotel.com")
	require.NoError(t, f.repo.Update(ctx, map[string]any{userModel.FieldActive: false}, shared.FilterByID(left.ID, userModel.FieldID, userModel.TableName)))

	tests := []struct {
		name string
		req  dto.LoginRequest
	}{
		{name: "unknown email", req: dto.LoginRequest{Email: "ghost@hotel.com", Password: "night-shift-1"}},
		{name: "wrong password", req: dto.LoginRequest{Email: "ravi@hotel.com", Password: "day-shift"}},
		{name: "deactivated", req: dto.LoginRequest{Email: "left@hotel.com", Password: "night-shift-2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Login(ctx, tt.req)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

func TestAuthService_LoginFailures(t *testing.T) {
	hashed, err := password.Hash("night-shift-1")
	require.NoError(t, err)

	user := userModel.User{ID: "u-1", Email: "ravi@hotel.com", Password: hashed, Level: constant.RoleStaff, Active: true}

	t.Run("token generation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := userMocks.NewMockUser(ctrl)
		tokens := jwtMocks.NewMockJWT(ctrl)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
		tokens.EXPECT().GenerateTokenPair(gomock.Any(), "u-1", "ravi@hotel.com", constant.RoleStaff).Return(nil, errors.New("no secret"))

		_, err := service.New(repo, &config.Config{}, mocks.NewOtel(), tokens).
			Login(context.Background(), dto.LoginRequest{Email: "ravi@hotel.com", Password: "night-shift-1"})
		assert.Error(t, err)
	})

	t.Run("last login update", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := userMocks.NewMockUser(ctrl)
		tokens := jwtMocks.NewMockJWT(ctrl)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
		tokens.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(&jwt.TokenPair{AccessToken: "a"}, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

		_, err := service.New(repo, &config.Config{}, mocks.NewOtel(), tokens).
			Login(context.Background(), dto.LoginRequest{Email: "ravi@hotel.com", Password: "night-shift-1"})
		assert.Error(t, err)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.register(t, "ravi@hotel.com", "night-shift-1")

	login, err := f.svc.Login(ctx, dto.LoginRequest{Email: "ravi@hotel.com", Password: "night-shift-1"})
	require.NoError(t, err)

	refreshed, err := f.svc.RefreshToken(ctx, dto.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = f.svc.RefreshToken(ctx, dto.RefreshTokenRequest{RefreshToken: login.AccessToken})
	assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
}

func TestAuthService_ChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.register(t, "ravi@hotel.com", "night-shift-1")
	id := f.stored(t, "ravi@hotel.com").ID

	err := f.svc.ChangePassword(ctx, dto.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "night-shift-2"}, id)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

	err = f.svc.ChangePassword(ctx, dto.ChangePasswordRequest{CurrentPassword: "night-shift-1", NewPassword: "night-shift-2"}, "missing")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))

	require.NoError(t, f.svc.ChangePassword(ctx, dto.ChangePasswordRequest{CurrentPassword: "night-shift-1", NewPassword: "night-shift-2"}, id))

	_, err = f.svc.Login(ctx, dto.LoginRequest{Email: "ravi@hotel.com", Password: "night-shift-1"})
	assert.Error(t, err)

	_, err = f.svc.Login(ctx, dto.LoginRequest{Email: "ravi@hotel.com", Password: "night-shift-2"})
	assert.NoError(t, err)
}

func TestAuthService_Me(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.register(t, "ravi@hotel.com", "night-shift-1")
	id := f.stored(t, "ravi@hotel.com").ID

	me, err := f.svc.Me(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ravi@hotel.com", me.Email)

	_, err = f.svc.Me(ctx, "missing")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}
