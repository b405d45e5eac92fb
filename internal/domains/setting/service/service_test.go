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
	settingMocks "hotel/internal/domains/setting/mocks"
	"hotel/internal/domains/setting/model"
	"hotel/internal/domains/setting/model/dto"
	"hotel/internal/domains/setting/repository"
	"hotel/internal/domains/setting/service"
	"hotel/shared/cache"
	"hotel/shared/constant"
	"hotel/shared/failure"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const bucket = "hotel-assets"

func newConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Timezone = "Asia/Kolkata"
	cfg.App.Hotel.Name = "Hotel Lotus"
	cfg.App.Hotel.Currency = "INR"
	cfg.App.Hotel.TaxRate = "12"
	cfg.App.Hotel.CheckInTime = "14:00"
	cfg.App.Hotel.CheckOutTime = "11:00"
	cfg.External.S3.BucketName = bucket

	return cfg
}

func userContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
}

func TestSettingService_DefaultsBeforeSave(t *testing.T) {
	otl := mocks.NewOtel()
	svc := service.New(repository.New(nil, otl), newConfig(), cache.NewRedisCache(nil, otl), otl, s3Mocks.NewMockS3(gomock.NewController(t)))

	res, err := svc.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Hotel Lotus", res.HotelName)
	assert.Equal(t, "INR", res.Currency)
	assert.True(t, decimal.NewFromInt(12).Equal(res.TaxRate))
	assert.Equal(t, "14:00", res.CheckInTime)
	assert.Equal(t, "11:00", res.CheckOutTime)
	assert.Equal(t, "Asia/Kolkata", res.Timezone)
}

func TestSettingService_Update(t *testing.T) {
	otl := mocks.NewOtel()
	repo := repository.New(nil, otl)
	svc := service.New(repo, newConfig(), cache.NewRedisCache(nil, otl), otl, s3Mocks.NewMockS3(gomock.NewController(t)))
	ctx := userContext()

	t.Run("empty request", func(t *testing.T) {
		_, err := svc.Update(ctx, dto.UpdateSettingRequest{})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("first save seeds defaults", func(t *testing.T) {
		rate := decimal.RequireFromString("18")

		res, err := svc.Update(ctx, dto.UpdateSettingRequest{Phone: "+91 80 1234 5678", TaxRate: &rate})
		require.NoError(t, err)

		assert.Equal(t, "Hotel Lotus", res.HotelName)
		assert.Equal(t, "+91 80 1234 5678", res.Phone)
		assert.True(t, rate.Equal(res.TaxRate))
		assert.Equal(t, "admin-1", res.CreatedBy)
	})

	t.Run("later saves merge", func(t *testing.T) {
		res, err := svc.Update(ctx, dto.UpdateSettingRequest{HotelName: "Lotus Residency"})
		require.NoError(t, err)

		assert.Equal(t, "Lotus Residency", res.HotelName)
		assert.Equal(t, "+91 80 1234 5678", res.Phone)
		assert.True(t, decimal.NewFromInt(18).Equal(res.TaxRate))

		current, err := svc.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.DefaultID, current.ID)
	})
}

func TestSettingService_UploadLogo(t *testing.T) {
	otl := mocks.NewOtel()
	storage := s3Mocks.NewMockS3(gomock.NewController(t))
	svc := service.New(repository.New(nil, otl), newConfig(), cache.NewRedisCache(nil, otl), otl, storage)
	ctx := userContext()

	gomock.InOrder(
		storage.EXPECT().
			UploadFile(gomock.Any(), bucket, model.EntityName, gomock.Any(), gomock.Any(), gomock.Any()).
			Return("https://cdn.hotel.test/setting/logo-1.png", nil),
		storage.EXPECT().
			UploadFile(gomock.Any(), bucket, model.EntityName, gomock.Any(), gomock.Any(), gomock.Any()).
			Return("https://cdn.hotel.test/setting/logo-2.png", nil),
		storage.EXPECT().
			GetObjectNameFromURL(bucket, "https://cdn.hotel.test/setting/logo-1.png").
			Return("logo-1.png"),
		storage.EXPECT().
			DeleteFile(gomock.Any(), bucket, model.EntityName, "logo-1.png").
			Return(nil),
	)

	res, err := svc.UploadLogo(ctx, dto.UploadLogoRequest{Logo: &multipart.FileHeader{Filename: "logo.png", Size: 512}})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.hotel.test/setting/logo-1.png", res.Logo)

	res, err = svc.UploadLogo(ctx, dto.UploadLogoRequest{Logo: &multipart.FileHeader{Filename: "logo.png", Size: 512}})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.hotel.test/setting/logo-2.png", res.Logo)
}

func TestSettingService_RepositoryError(t *testing.T) {
	otl := mocks.NewOtel()
	ctrl := gomock.NewController(t)
	repo := settingMocks.NewMockSetting(ctrl)
	svc := service.New(repo, newConfig(), cache.NewRedisCache(nil, otl), otl, s3Mocks.NewMockS3(ctrl))

	repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Setting{}, errors.New("connection refused"))

	_, err := svc.Get(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
}
