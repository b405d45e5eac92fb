package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"testing"

	"hotel/config"
	"hotel/infras/otel/mocks"
	s3Mocks "hotel/infras/s3/mocks"
	"hotel/internal/domains/fooditem/model"
	"hotel/internal/domains/fooditem/model/dto"
	"hotel/internal/domains/fooditem/repository"
	"hotel/internal/domains/fooditem/service"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const bucket = "hotel-assets"

type fixture struct {
	svc     service.FoodItem
	repo    repository.FoodItem
	storage *s3Mocks.MockS3
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	otl := mocks.NewOtel()
	cfg := &config.Config{}
	cfg.External.S3.BucketName = bucket

	f := fixture{
		repo:    repository.New(nil, otl),
		storage: s3Mocks.NewMockS3(gomock.NewController(t)),
	}
	f.svc = service.New(f.repo, cfg, cache.NewRedisCache(nil, otl), otl, f.storage)

	return f
}

func userContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "chef-1")
}

func imageHeader(name string) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name, Size: 2048}
}

func TestFoodItemService_Create(t *testing.T) {
	f := newFixture(t)

	f.storage.EXPECT().
		UploadFile(gomock.Any(), bucket, model.EntityName, gomock.Any(), gomock.Any(), gomock.Any()).
		Return("https://cdn.hotel.test/food-item/masala-dosa.jpg", nil)

	created, err := f.svc.Create(userContext(), dto.CreateFoodItemRequest{
		Name:               "Masala Dosa",
		Category:           model.CategoryBreakfast,
		Price:              decimal.RequireFromString("180.00"),
		Vegetarian:         true,
		PreparationMinutes: 15,
		Image:              imageHeader("masala-dosa.jpg"),
	})
	require.NoError(t, err)

	assert.True(t, created.Available, "new items are available by default")
	assert.Equal(t, "https://cdn.hotel.test/food-item/masala-dosa.jpg", created.Image)
	assert.Equal(t, "chef-1", created.CreatedBy)

	unavailable := false

	created, err = f.svc.Create(userContext(), dto.CreateFoodItemRequest{
		Name:      "Filter Coffee",
		Category:  model.CategoryBeverage,
		Price:     decimal.NewFromInt(60),
		Available: &unavailable,
	})
	require.NoError(t, err)
	assert.False(t, created.Available)
	assert.Empty(t, created.Image)
}

func TestFoodItemService_CreateUploadFailure(t *testing.T) {
	f := newFixture(t)

	f.storage.EXPECT().
		UploadFile(gomock.Any(), bucket, model.EntityName, gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", errors.New("bucket unavailable"))

	_, err := f.svc.Create(userContext(), dto.CreateFoodItemRequest{
		Name:     "Masala Dosa",
		Category: model.CategoryBreakfast,
		Image:    imageHeader("masala-dosa.jpg"),
	})
	require.Error(t, err)

	count, err := f.repo.Count(context.Background(), gDto.FilterGroup{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestFoodItemService_GetAllFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, item := range []model.FoodItem{
		{ID: "f1", Name: "Masala Dosa", Category: model.CategoryBreakfast, Available: true, Vegetarian: true},
		{ID: "f2", Name: "Butter Chicken", Category: model.CategoryMainCourse, Available: true, Description: "Creamy tomato gravy"},
		{ID: "f3", Name: "Paneer Tikka", Category: model.CategoryStarter, Available: false, Vegetarian: true},
	} {
		require.NoError(t, f.repo.Insert(ctx, item))
	}

	yes := true
	no := false

	tests := []struct {
		name  string
		query dto.FoodItemQuery
		want  []string
	}{
		{name: "search name", query: dto.FoodItemQuery{Search: "dosa"}, want: []string{"Masala Dosa"}},
		{name: "search description", query: dto.FoodItemQuery{Search: "TOMATO"}, want: []string{"Butter Chicken"}},
		{name: "category", query: dto.FoodItemQuery{Category: model.CategoryStarter}, want: []string{"Paneer Tikka"}},
		{name: "available", query: dto.FoodItemQuery{Available: &yes}, want: []string{"Masala Dosa", "Butter Chicken"}},
		{name: "unavailable vegetarian", query: dto.FoodItemQuery{Available: &no, Vegetarian: &yes}, want: []string{"Paneer Tikka"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.svc.GetAll(ctx, gDto.QueryParams{Page: 1, Limit: 10}, tt.query.Filter())
			require.NoError(t, err)

			names := []string{}
			for _, item := range res.FoodItems {
				names = append(names, item.Name)
			}

			assert.Equal(t, tt.want, names)
		})
	}
}

func TestFoodItemService_UpdateReplacesImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	oldURL := "https://cdn.hotel.test/food-item/old.jpg"
	require.NoError(t, f.repo.Insert(ctx, model.FoodItem{ID: "f1", Name: "Masala Dosa", Price: decimal.NewFromInt(150), Image: oldURL, Available: true}))

	gomock.InOrder(
		f.storage.EXPECT().
			UploadFile(gomock.Any(), bucket, model.EntityName, gomock.Any(), gomock.Any(), gomock.Any()).
			Return("https://cdn.hotel.test/food-item/new.jpg", nil),
		f.storage.EXPECT().GetObjectNameFromURL(bucket, oldURL).Return("old.jpg"),
		f.storage.EXPECT().DeleteFile(gomock.Any(), bucket, model.EntityName, "old.jpg").Return(nil),
	)

	price := decimal.RequireFromString("175.50")

	require.NoError(t, f.svc.Update(userContext(), dto.UpdateFoodItemRequest{Price: &price, Image: imageHeader("new.jpg")}, "f1"))

	got, err := f.svc.Get(ctx, "f1")
	require.NoError(t, err)
	assert.True(t, price.Equal(got.Price))
	assert.Equal(t, "https://cdn.hotel.test/food-item/new.jpg", got.Image)
	assert.Equal(t, "Masala Dosa", got.Name)

	err = f.svc.Update(userContext(), dto.UpdateFoodItemRequest{}, "f1")
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

	err = f.svc.Update(userContext(), dto.UpdateFoodItemRequest{Name: "x"}, "missing")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestFoodItemService_ToggleAvailability(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.repo.Insert(context.Background(), model.FoodItem{ID: "f1", Name: "Masala Dosa", Available: true}))

	res, err := f.svc.ToggleAvailability(userContext(), "f1")
	require.NoError(t, err)
	assert.Equal(t, dto.AvailabilityResponse{ID: "f1", Available: false}, res)

	res, err = f.svc.ToggleAvailability(userContext(), "f1")
	require.NoError(t, err)
	assert.True(t, res.Available)

	_, err = f.svc.ToggleAvailability(userContext(), "missing")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestFoodItemService_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	url := "https://cdn.hotel.test/food-item/dosa.jpg"
	require.NoError(t, f.repo.Insert(ctx, model.FoodItem{ID: "f1", Name: "Masala Dosa", Image: url}))
	require.NoError(t, f.repo.Insert(ctx, model.FoodItem{ID: "f2", Name: "Filter Coffee"}))

	f.storage.EXPECT().GetObjectNameFromURL(bucket, url).Return("dosa.jpg")
	f.storage.EXPECT().DeleteFile(gomock.Any(), bucket, model.EntityName, "dosa.jpg").Return(nil)

	require.NoError(t, f.svc.Delete(userContext(), "f1"))
	require.NoError(t, f.svc.Delete(userContext(), "f2"))

	err := f.svc.Delete(userContext(), "f1")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}
