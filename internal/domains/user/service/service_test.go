package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"hotel/config"
	"hotel/infras/otel/mocks"
	roleModel "hotel/internal/domains/role/model"
	roleRepository "hotel/internal/domains/role/repository"
	userMocks "hotel/internal/domains/user/mocks"
	"hotel/internal/domains/user/model"
	"hotel/internal/domains/user/model/dto"
	"hotel/internal/domains/user/repository"
	"hotel/internal/domains/user/service"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	svc  service.User
	repo repository.User
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	otl := mocks.NewOtel()
	roleRepo := roleRepository.New(nil, otl)

	f := fixture{repo: repository.New(nil, otl)}
	f.svc = service.New(f.repo, roleRepo, &config.Config{}, cache.NewRedisCache(nil, otl), otl)

	ctx := context.Background()
	for _, name := range []string{constant.RoleAdmin, constant.RoleReceptionist, constant.RoleStaff} {
		require.NoError(t, roleRepo.Insert(ctx, roleModel.Role{ID: "r-" + name, Name: name, IsSystem: true}))
	}

	return f
}

func adminContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestUserService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := adminContext()

	created, err := f.svc.Create(ctx, dto.CreateUserRequest{
		Email:    "meera@hotel.com",
		Password: "s3cret-pass",
		Level:    constant.RoleReceptionist,
		FullName: strPtr("Meera Pillai"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, constant.RoleReceptionist, created.Level)
	assert.True(t, created.Active)
	assert.Empty(t, created.LastLogin)

	stored, err := f.repo.Get(ctx, shared.FilterByID(created.ID, model.FieldID, model.TableName))
	require.NoError(t, err)
	require.NoError(t, password.Verify("s3cret-pass", stored.Password), "only the hash is stored")
	assert.Equal(t, "admin-1", stored.CreatedBy)

	defaulted, err := f.svc.Create(ctx, dto.CreateUserRequest{Email: "ravi@hotel.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, constant.RoleStaff, defaulted.Level)

	_, err = f.svc.Create(ctx, dto.CreateUserRequest{Email: "meera@hotel.com", Password: "another-pass"})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))

	_, err = f.svc.Create(ctx, dto.CreateUserRequest{Email: "nobody@hotel.com", Password: "s3cret-pass", Level: "night-audit"})
	require.Error(t, err, "level must name an existing role")
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestUserService_GetAllFilters(t *testing.T) {
	f := newFixture(t)
	ctx := adminContext()

	for _, req := range []dto.CreateUserRequest{
		{Email: "rajesh@hotel.com", Password: "s3cret-pass", Level: constant.RoleAdmin, FullName: strPtr("Rajesh Sharma")},
		{Email: "anita@hotel.com", Password: "s3cret-pass", Level: constant.RoleReceptionist, FullName: strPtr("Anita Rao")},
		{Email: "vikram@hotel.com", Password: "s3cret-pass", FullName: strPtr("Vikram Singh")},
	} {
		_, err := f.svc.Create(ctx, req)
		require.NoError(t, err)
	}

	tests := []struct {
		name  string
		query dto.UserQuery
		want  []string
	}{
		{name: "search by name", query: dto.UserQuery{Search: "raj"}, want: []string{"rajesh@hotel.com"}},
		{name: "search by email", query: dto.UserQuery{Search: "ANITA@"}, want: []string{"anita@hotel.com"}},
		{name: "by level", query: dto.UserQuery{Level: constant.RoleStaff}, want: []string{"vikram@hotel.com"}},
		{name: "inactive only", query: dto.UserQuery{Active: boolPtr(false)}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.svc.GetAll(ctx, gDto.QueryParams{}, tt.query.Filter())
			require.NoError(t, err)

			emails := []string{}
			for _, user := range res.Users {
				emails = append(emails, user.Email)
			}

			assert.Equal(t, tt.want, emails)
			assert.Equal(t, len(tt.want), res.TotalData)
		})
	}
}

func TestUserService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := adminContext()

	created, err := f.svc.Create(ctx, dto.CreateUserRequest{Email: "kavya@hotel.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Update(ctx, dto.UpdateUserRequest{Level: strPtr(constant.RoleReceptionist), FullName: strPtr("Kavya Iyer")}, created.ID))

	got, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, constant.RoleReceptionist, got.Level)
	require.NotNil(t, got.FullName)
	assert.Equal(t, "Kavya Iyer", *got.FullName)
	assert.Equal(t, "kavya@hotel.com", got.Email, "untouched fields survive")

	tests := []struct {
		name     string
		ctx      context.Context
		req      dto.UpdateUserRequest
		id       string
		wantCode int
	}{
		{name: "empty", ctx: ctx, req: dto.UpdateUserRequest{}, id: created.ID, wantCode: http.StatusBadRequest},
		{name: "unknown user", ctx: ctx, req: dto.UpdateUserRequest{Active: boolPtr(false)}, id: "missing", wantCode: http.StatusNotFound},
		{name: "unknown role", ctx: ctx, req: dto.UpdateUserRequest{Level: strPtr("night-audit")}, id: created.ID, wantCode: http.StatusBadRequest},
		{
			name:     "deactivate self",
			ctx:      context.WithValue(context.Background(), constant.ContextKeyUserID, created.ID),
			req:      dto.UpdateUserRequest{Active: boolPtr(false)},
			id:       created.ID,
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.svc.Update(tt.ctx, tt.req, tt.id)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func TestUserService_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := adminContext()

	created, err := f.svc.Create(ctx, dto.CreateUserRequest{Email: "arjun@hotel.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	err = f.svc.Delete(context.WithValue(context.Background(), constant.ContextKeyUserID, created.ID), created.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))

	require.NoError(t, f.svc.Delete(ctx, created.ID))

	_, err = f.svc.Get(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))

	err = f.svc.Delete(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestUserService_RepositoryError(t *testing.T) {
	otl := mocks.NewOtel()
	ctrl := gomock.NewController(t)
	repo := userMocks.NewMockUser(ctrl)

	svc := service.New(repo, roleRepository.New(nil, otl), &config.Config{}, cache.NewRedisCache(nil, otl), otl)

	repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errors.New("connection refused"))

	_, err := svc.Create(adminContext(), dto.CreateUserRequest{Email: "x@hotel.com", Password: "s3cret-pass"})
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
}

func TestUserService_ResetPassword(t *testing.T) {
	f := newFixture(t)
	ctx := adminContext()

	created, err := f.svc.Create(ctx, dto.CreateUserRequest{Email: "meera@hotel.com", Password: "first-pass"})
	require.NoError(t, err)

	require.NoError(t, f.svc.ResetPassword(ctx, dto.ResetPasswordRequest{Password: "second-pass"}, created.ID))

	stored, err := f.repo.Get(ctx, shared.FilterByID(created.ID, model.FieldID, model.TableName))
	require.NoError(t, err)
	assert.NoError(t, password.Verify("second-pass", stored.Password))
	assert.Error(t, password.Verify("first-pass", stored.Password))

	err = f.svc.ResetPassword(context.WithValue(context.Background(), constant.ContextKeyUserID, created.ID), dto.ResetPasswordRequest{Password: "third-pass"}, created.ID)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))

	err = f.svc.ResetPassword(ctx, dto.ResetPasswordRequest{Password: "third-pass"}, "missing")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}
