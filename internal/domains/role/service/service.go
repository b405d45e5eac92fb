package service

import (
	"context"
	"fmt"

	"hotel/config"
	"hotel/infras/otel"
	"hotel/internal/domains/role/model"
	"hotel/internal/domains/role/model/dto"
	"hotel/internal/domains/role/repository"
	userModel "hotel/internal/domains/user/model"
	userRepository "hotel/internal/domains/user/repository"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/timezone"

	"github.com/rs/zerolog/log"
)

type Role interface {
	Create(ctx context.Context, req dto.CreateRoleRequest) (dto.RoleResponse, error)
	GetAll(ctx context.Context) (dto.GetRolesResponse, error)
	Get(ctx context.Context, id string) (dto.RoleResponse, error)
	Update(ctx context.Context, req dto.UpdateRoleRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo     repository.Role
	userRepo userRepository.User
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(repo repository.Role, userRepo userRepository.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Role {
	return &serviceImpl{
		repo:     repo,
		userRepo: userRepo,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRoleRequest) (res dto.RoleResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.ensureUniqueName(ctx, req.Name, constant.Empty); err != nil {
		return res, err
	}

	role := req.ToModel(shared.Actor(ctx))

	if err = s.repo.Insert(ctx, role); err != nil {
		log.Error().Err(err).Msg("failed to insert role")

		return res, fmt.Errorf("failed to create role: %w", err)
	}

	res.FromModel(role)
	s.invalidate(ctx, constant.Empty)

	return res, nil
}

// GetAll serves the whole role table from cache, ordered by name.
func (s *serviceImpl) GetAll(ctx context.Context) (res dto.GetRolesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = s.cache.Get(ctx, model.CacheList, &res)
	if err == nil {
		log.Info().Str("cacheKey", model.CacheList).Msg("cache hit for roles")

		return res, nil
	}

	roles, err := s.repo.GetAll(ctx, gDto.QueryParams{SortBy: model.FieldName, SortDir: gDto.SortDirAsc}, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get roles")

		return res, fmt.Errorf("failed to get roles: %w", err)
	}

	res.FromModels(roles)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, model.CacheList, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save roles to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RoleResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(model.CacheGet, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	role, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(role)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save role to cache")
		}
	}()

	return res, nil
}

// Update renames carry over to the users holding the role, since users reference roles by name.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRoleRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.IsEmpty() {
		return failure.BadRequestFromString("no role fields to update") //nolint:wrapcheck
	}

	current, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	renamed := req.Name != constant.Empty && req.Name != current.Name

	if renamed {
		if current.IsSystem {
			return failure.Conflictf("system role %s cannot be renamed", current.Name) //nolint:wrapcheck
		}

		if err = s.ensureUniqueName(ctx, req.Name, id); err != nil {
			return err
		}
	}

	if req.Permissions != nil {
		req.Permissions = dto.NormalizePermissions(req.Permissions)
	}

	actor := shared.Actor(ctx)

	if err = s.repo.Update(ctx, shared.TransformFields(req, actor), shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update role")

		return fmt.Errorf("failed to update role: %w", err)
	}

	if renamed {
		err = s.userRepo.Update(ctx, map[string]any{
			userModel.FieldLevel:     req.Name,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: actor,
		}, shared.FilterByField(userModel.FieldLevel, current.Name))
		if err != nil {
			log.Error().Err(err).Str("role", current.Name).Msg("failed to move users to renamed role")

			return fmt.Errorf("failed to move users to renamed role: %w", err)
		}

		go func() {
			c := context.WithoutCancel(ctx)

			shared.InvalidateCaches(c, s.cache, userModel.CacheGet)
			shared.InvalidateCaches(c, s.cache, userModel.CacheGetAll)
		}()
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	role, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if role.IsSystem {
		return failure.Conflictf("system role %s cannot be deleted", role.Name) //nolint:wrapcheck
	}

	inUse, err := s.userRepo.Exist(ctx, shared.FilterByField(userModel.FieldLevel, role.Name))
	if err != nil {
		log.Error().Err(err).Msg("failed to check users of role")

		return fmt.Errorf("failed to check users of role: %w", err)
	}

	if inUse {
		return failure.Conflictf("role %s is assigned to users", role.Name) //nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete role")

		return fmt.Errorf("failed to delete role: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Role, error) {
	role, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get role")

		return role, fmt.Errorf("failed to get role: %w", err)
	}

	if role.ID == constant.Empty {
		return role, failure.NotFound("role not found") //nolint:wrapcheck
	}

	return role, nil
}

func (s *serviceImpl) ensureUniqueName(ctx context.Context, name, exceptID string) error {
	filter := shared.FilterByField(model.FieldName, name)
	if exceptID != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{Field: model.FieldID, Operator: gDto.FilterOperatorNotEq, Value: exceptID})
	}

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check role name")

		return fmt.Errorf("failed to check role name: %w", err)
	}

	if exist {
		return failure.Conflictf("role %s already exists", name) //nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		keys := []string{model.CacheList}
		if id != constant.Empty {
			keys = append(keys, shared.BuildCacheKey(model.CacheGet, id))
		}

		for _, key := range keys {
			if err := s.cache.Delete(c, key); err != nil {
				log.Error().Err(err).Str("cacheKey", key).Msg("failed to delete role cache")
			}
		}
	}()
}
