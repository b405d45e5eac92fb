package role

import (
	"net/http"

	"hotel/infras/otel"
	"hotel/internal/domains/role/model/dto"
	"hotel/internal/domains/role/service"
	"hotel/shared"
	"hotel/shared/constant"
	"hotel/shared/validator"
	"hotel/transport/http/middleware"
	"hotel/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service    service.Role
	middleware middleware.AuthRole
	otel       otel.Otel
}

func New(service service.Role, middleware middleware.AuthRole, otel otel.Otel) Handler {
	return Handler{
		service:    service,
		middleware: middleware,
		otel:       otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/roles", func(routerGroup chi.Router) {
		routerGroup.Use(handler.middleware.APIKey, handler.middleware.Auth, handler.middleware.RBAC)

		routerGroup.Post("/", handler.CreateRole)
		routerGroup.Get("/", handler.GetRoles)
		routerGroup.Get("/{id}", handler.GetRoleByID)
		routerGroup.Patch("/{id}", handler.UpdateRole)
		routerGroup.Delete("/{id}", handler.DeleteRole)
	})
}

// CreateRole handles the creation of a role.
// @Summary Create a role
// @Tags Role
// @Accept json
// @Produce json
// @Param request body dto.CreateRoleRequest true "Create Role Request"
// @Success 201 {object} response.Data[dto.RoleResponse] "Created role"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/roles [post]
// @Security BearerAuth
func (handler *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRole")
	defer scope.End()

	req := dto.CreateRoleRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	role, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create role")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Role " + role.Name + " created by user " + shared.Actor(ctx))

	response.WithJSON(w, http.StatusCreated, role)
}

// GetRoles lists every role.
// @Summary Get all roles
// @Tags Role
// @Produce json
// @Success 200 {object} response.Data[dto.GetRolesResponse] "List of roles"
// @Failure 500 {object} response.Error
// @Router /v1/roles [get]
// @Security BearerAuth
func (handler *Handler) GetRoles(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoles")
	defer scope.End()

	roles, err := handler.service.GetAll(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get roles")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, roles)
}

// GetRoleByID retrieves a role by ID.
// @Summary Get a role by ID
// @Tags Role
// @Produce json
// @Param id path string true "Role ID"
// @Success 200 {object} response.Data[dto.RoleResponse] "Role details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/roles/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetRoleByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoleByID")
	defer scope.End()

	role, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get role by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, role)
}

// UpdateRole updates a role by ID.
// @Summary Update a role
// @Description System roles keep their name. Renaming a role moves its users along.
// @Tags Role
// @Accept json
// @Produce json
// @Param id path string true "Role ID"
// @Param request body dto.UpdateRoleRequest true "Update Role Request"
// @Success 200 {object} response.Message "Role updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/roles/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRole")
	defer scope.End()

	req := dto.UpdateRoleRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update role")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Role updated successfully")
}

// DeleteRole deletes a role by ID.
// @Summary Delete a role
// @Description System roles and roles assigned to users cannot be deleted.
// @Tags Role
// @Produce json
// @Param id path string true "Role ID"
// @Success 200 {object} response.Message "Role deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/roles/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteRole")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete role")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Role deleted by user " + shared.Actor(ctx))

	response.WithMessage(w, http.StatusOK, "Role deleted successfully")
}
