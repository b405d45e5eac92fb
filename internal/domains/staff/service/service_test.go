package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"hotel/config"
	"hotel/infras/otel/mocks"
	staffMocks "hotel/internal/domains/staff/mocks"
	"hotel/internal/domains/staff/model"
	"hotel/internal/domains/staff/model/dto"
	"hotel/internal/domains/staff/repository"
	"hotel/internal/domains/staff/service"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/event"
	eventMocks "hotel/shared/event/mocks"
	"hotel/shared/failure"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newService(t *testing.T) (service.Staff, repository.Staff, *eventMocks.Recorder) {
	t.Helper()

	otl := mocks.NewOtel()
	repo := repository.New(nil, otl)
	recorder := eventMocks.NewRecorder()

	return service.New(repo, &config.Config{}, cache.NewRedisCache(nil, otl), otl, recorder), repo, recorder
}

func userContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "manager-1")
}

func createRequest(name, email, department string) dto.CreateStaffRequest {
	return dto.CreateStaffRequest{
		FullName:   name,
		Email:      email,
		Position:   "Associate",
		Department: department,
		Salary:     decimal.NewFromInt(32000),
		Shift:      model.ShiftMorning,
	}
}

func TestStaffService_Create(t *testing.T) {
	svc, repo, _ := newService(t)

	req := createRequest("Priya Nair", "Priya@Hotel.com", model.DepartmentFrontOffice)
	req.JoinDate = "2024-06-01"

	created, err := svc.Create(userContext(), req)
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "priya@hotel.com", created.Email)
	assert.Equal(t, model.StatusActive, created.Status)
	assert.Equal(t, "2024-06-01", created.JoinDate)
	assert.True(t, decimal.NewFromInt(32000).Equal(created.Salary))

	_, err = svc.Create(userContext(), createRequest("Someone Else", "PRIYA@hotel.com", model.DepartmentKitchen))
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))

	count, err := repo.Count(context.Background(), gDto.FilterGroup{})
	require.NoError(t, err)
	assert.Equal(t, 1, count, "duplicate email must not be stored")
}

func TestStaffService_GetAllFilters(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := userContext()

	for _, req := range []dto.CreateStaffRequest{
		createRequest("Priya Nair", "priya@hotel.com", model.DepartmentFrontOffice),
		createRequest("Arjun Mehta", "arjun@hotel.com", model.DepartmentKitchen),
		createRequest("Kavya Iyer", "kavya@hotel.com", model.DepartmentKitchen),
	} {
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	tests := []struct {
		name  string
		query dto.StaffQuery
		want  []string
	}{
		{name: "search by name", query: dto.StaffQuery{Search: "mehta"}, want: []string{"Arjun Mehta"}},
		{name: "search by email", query: dto.StaffQuery{Search: "kavya@"}, want: []string{"Kavya Iyer"}},
		{name: "department", query: dto.StaffQuery{Department: model.DepartmentKitchen}, want: []string{"Arjun Mehta", "Kavya Iyer"}},
		{name: "department and search", query: dto.StaffQuery{Department: model.DepartmentKitchen, Search: "priya"}, want: []string{}},
		{name: "shift", query: dto.StaffQuery{Shift: model.ShiftNight}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.GetAll(ctx, gDto.QueryParams{Page: 1, Limit: 10}, tt.query.Filter())
			require.NoError(t, err)

			names := []string{}
			for _, staff := range res.Staff {
				names = append(names, staff.FullName)
			}

			assert.Equal(t, tt.want, names)
			assert.Equal(t, len(tt.want), res.TotalData)
		})
	}
}

func TestStaffService_Update(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, model.Staff{ID: "s1", FullName: "Priya Nair", Email: "priya@hotel.com", Department: model.DepartmentFrontOffice, Salary: decimal.NewFromInt(30000)}))
	require.NoError(t, repo.Insert(ctx, model.Staff{ID: "s2", FullName: "Arjun Mehta", Email: "arjun@hotel.com"}))

	salary := decimal.RequireFromString("35500.50")

	tests := []struct {
		name     string
		id       string
		req      dto.UpdateStaffRequest
		wantCode int
	}{
		{name: "merges supplied fields", id: "s1", req: dto.UpdateStaffRequest{Salary: &salary, JoinDate: "2023-01-15"}},
		{name: "empty request", id: "s1", req: dto.UpdateStaffRequest{}, wantCode: http.StatusBadRequest},
		{name: "unknown id", id: "missing", req: dto.UpdateStaffRequest{Phone: "1"}, wantCode: http.StatusNotFound},
		{name: "email taken", id: "s1", req: dto.UpdateStaffRequest{Email: "ARJUN@hotel.com"}, wantCode: http.StatusConflict},
		{name: "own email", id: "s1", req: dto.UpdateStaffRequest{Email: "priya@hotel.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Update(userContext(), tt.req, tt.id)
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
		})
	}

	got, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, salary.Equal(got.Salary))
	assert.Equal(t, "2023-01-15", got.JoinDate)
	assert.Equal(t, "Priya Nair", got.FullName)
	assert.Equal(t, model.DepartmentFrontOffice, got.Department)
	assert.Equal(t, "manager-1", got.ModifiedBy)
}

func TestStaffService_UpdateStatus(t *testing.T) {
	svc, repo, recorder := newService(t)
	require.NoError(t, repo.Insert(context.Background(), model.Staff{ID: "s1", FullName: "Priya Nair", Status: model.StatusActive}))

	require.NoError(t, svc.UpdateStatus(userContext(), dto.UpdateStaffStatusRequest{Status: model.StatusActive}, "s1"))
	require.NoError(t, svc.UpdateStatus(userContext(), dto.UpdateStaffStatusRequest{Status: model.StatusOnLeave}, "s1"))

	events := recorder.Wait(1, time.Second)
	require.Len(t, events, 1, "unchanged status publishes nothing")
	assert.Equal(t, event.StaffStatusChanged, events[0].Type)

	change := event.StatusChange{}
	require.NoError(t, events[0].Decode(&change))
	assert.Equal(t, event.StatusChange{From: model.StatusActive, To: model.StatusOnLeave}, change)

	got, err := svc.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusOnLeave, got.Status)

	err = svc.UpdateStatus(userContext(), dto.UpdateStaffStatusRequest{Status: model.StatusInactive}, "missing")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestStaffService_Delete(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, model.Staff{ID: "s1", FullName: "Priya Nair"}))
	require.NoError(t, repo.Insert(ctx, model.Staff{ID: "s2", FullName: "Arjun Mehta"}))

	require.NoError(t, svc.Delete(userContext(), "s1"))

	remaining, err := repo.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "s2", remaining[0].ID)

	err = svc.Delete(userContext(), "s1")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestStaffService_RepositoryErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	otl := mocks.NewOtel()
	repo := staffMocks.NewMockStaff(ctrl)

	svc := service.New(repo, &config.Config{}, cache.NewRedisCache(nil, otl), otl, event.Noop())

	repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errors.New("connection reset"))

	_, err := svc.Create(userContext(), createRequest("Priya Nair", "priya@hotel.com", model.DepartmentFrontOffice))
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))

	repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Staff{}, errors.New("connection reset"))

	_, err = svc.Get(context.Background(), "s1")
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
}
