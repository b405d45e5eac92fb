package service

import (
	"context"
	"fmt"

	"hotel/config"
	"hotel/infras/otel"
	"hotel/infras/s3"
	"hotel/internal/domains/setting/model"
	"hotel/internal/domains/setting/model/dto"
	"hotel/internal/domains/setting/repository"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	"hotel/shared/failure"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"

	"github.com/rs/zerolog/log"
)

type Setting interface {
	Get(ctx context.Context) (dto.SettingResponse, error)
	Current(ctx context.Context) (model.Setting, error)
	Update(ctx context.Context, req dto.UpdateSettingRequest) (dto.SettingResponse, error)
	UploadLogo(ctx context.Context, req dto.UploadLogoRequest) (dto.SettingResponse, error)
}

type serviceImpl struct {
	repo  repository.Setting
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	s3    s3.S3
}

func New(repo repository.Setting, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Setting {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		s3:    s3,
	}
}

func (s *serviceImpl) Get(ctx context.Context) (res dto.SettingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	setting, err := s.Current(ctx)
	if err != nil {
		return res, err
	}

	res.FromModel(setting)

	return res, nil
}

// Current returns the stored settings, or the configured defaults when none were saved yet.
func (s *serviceImpl) Current(ctx context.Context) (res model.Setting, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Current")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(model.CacheGet, model.DefaultID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	_, res, err = s.load(ctx)
	if err != nil {
		return res, err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save settings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateSettingRequest) (res dto.SettingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.IsEmpty() {
		return res, failure.BadRequestFromString("no setting fields to update") //nolint:wrapcheck
	}

	if err = s.save(ctx, shared.TransformFields(req, shared.Actor(ctx))); err != nil {
		return res, err
	}

	if req.Timezone != constant.Empty {
		if err := timezone.SetLocation(req.Timezone); err != nil {
			log.Error().Err(err).Str("timezone", req.Timezone).Msg("failed to apply timezone setting")
		}
	}

	return s.Get(ctx)
}

func (s *serviceImpl) UploadLogo(ctx context.Context, req dto.UploadLogoRequest) (res dto.SettingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadLogo")
	defer scope.End()
	defer scope.TraceIfError(err)

	_, current, err := s.load(ctx)
	if err != nil {
		return res, err
	}

	bucketName := s.cfg.External.S3.BucketName
	objectName := s3.ObjectName(req.Logo.Filename)

	url, err := s.s3.UploadFile(ctx, bucketName, model.EntityName, req.LogoFile, req.Logo, objectName)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload logo")

		return res, fmt.Errorf("failed to upload logo: %w", err)
	}

	updatedFields := shared.TransformFields(dto.UpdateSettingRequest{}, shared.Actor(ctx))
	updatedFields[model.FieldLogo] = url

	if err = s.save(ctx, updatedFields); err != nil {
		_ = s.s3.DeleteFile(ctx, bucketName, model.EntityName, objectName)

		return res, err
	}

	if current.Logo != constant.Empty {
		if old := s.s3.GetObjectNameFromURL(bucketName, current.Logo); old != constant.Empty {
			if err := s.s3.DeleteFile(ctx, bucketName, model.EntityName, old); err != nil {
				log.Error().Err(err).Str("object", old).Msg("failed to delete previous logo")
			}
		}
	}

	return s.Get(ctx)
}

// load reads the settings row and reports whether it exists.
func (s *serviceImpl) load(ctx context.Context) (bool, model.Setting, error) {
	setting, err := s.repo.Get(ctx, shared.FilterByID(model.DefaultID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get settings")

		return false, setting, fmt.Errorf("failed to get settings: %w", err)
	}

	if setting.ID == constant.Empty {
		return false, dto.Defaults(s.cfg), nil
	}

	return true, setting, nil
}

// save writes the given columns, seeding the row from defaults the first time.
func (s *serviceImpl) save(ctx context.Context, updatedFields map[string]any) error {
	exists, setting, err := s.load(ctx)
	if err != nil {
		return err
	}

	if !exists {
		setting.Metadata = gModel.NewMetadata(timezone.Now(), shared.Actor(ctx))

		if err = s.repo.Insert(ctx, setting); err != nil {
			log.Error().Err(err).Msg("failed to insert default settings")

			return fmt.Errorf("failed to save settings: %w", err)
		}
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(model.DefaultID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update settings")

		return fmt.Errorf("failed to save settings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(model.CacheGet, model.DefaultID)); err != nil {
			log.Error().Err(err).Msg("failed to delete settings cache")
		}
	}()

	return nil
}
