package fooditem

import (
	"net/http"

	"hotel/infras/otel"
	"hotel/internal/domains/fooditem/model"
	"hotel/internal/domains/fooditem/model/dto"
	"hotel/internal/domains/fooditem/service"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/validator"
	"hotel/transport/http/middleware"
	httpRequest "hotel/transport/http/request"
	"hotel/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service    service.FoodItem
	middleware middleware.AuthRole
	otel       otel.Otel
}

func New(service service.FoodItem, middleware middleware.AuthRole, otel otel.Otel) Handler {
	return Handler{
		service:    service,
		middleware: middleware,
		otel:       otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/food-items", func(routerGroup chi.Router) {
		routerGroup.Use(handler.middleware.APIKey, handler.middleware.Auth, handler.middleware.RBAC)

		routerGroup.Post("/", handler.CreateFoodItem)
		routerGroup.Get("/", handler.GetFoodItems)
		routerGroup.Get("/{id}", handler.GetFoodItemByID)
		routerGroup.Patch("/{id}", handler.UpdateFoodItem)
		routerGroup.Patch("/{id}/availability", handler.ToggleAvailability)
		routerGroup.Delete("/{id}", handler.DeleteFoodItem)
	})
}

// CreateFoodItem adds a dish to the menu.
// @Summary Create a food item
// @Tags FoodItem
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Name"
// @Param category formData string true "Category" Enums(breakfast, main-course, starter, dessert, beverage, snack)
// @Param description formData string false "Description"
// @Param price formData number true "Price"
// @Param available formData boolean false "Available for ordering"
// @Param vegetarian formData boolean false "Vegetarian"
// @Param preparation_minutes formData integer false "Preparation time in minutes"
// @Param image formData file false "Image"
// @Success 201 {object} response.Data[dto.FoodItemResponse] "Created food item"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/food-items [post]
// @Security BearerAuth
func (handler *Handler) CreateFoodItem(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateFoodItem")
	defer scope.End()

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(w, failure.BadRequest(err))

		return
	}

	req := dto.CreateFoodItemRequest{
		Name:        r.FormValue(model.FieldName),
		Category:    r.FormValue(model.FieldCategory),
		Description: r.FormValue(model.FieldDescription),
		Available:   shared.ConvertStringToBool(r.FormValue(model.FieldAvailable)),
	}

	if vegetarian := shared.ConvertStringToBool(r.FormValue(model.FieldVegetarian)); vegetarian != nil {
		req.Vegetarian = *vegetarian
	}

	var err error

	if req.PreparationMinutes, err = httpRequest.FormInt(r, model.FieldPreparationMinutes); err != nil {
		response.WithError(w, err)

		return
	}

	price, err := httpRequest.FormDecimal(r, model.FieldPrice)
	if err != nil {
		response.WithError(w, err)

		return
	}

	if price == nil {
		response.WithError(w, failure.BadRequestFromString("price is required"))

		return
	}

	req.Price = *price

	file, fileHeader, err := r.FormFile(model.FieldImage)
	if err == nil {
		req.Image = fileHeader
		req.ImageFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	item, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create food item")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Food item created by user " + shared.Actor(ctx))

	response.WithJSON(w, http.StatusCreated, item)
}

// GetFoodItems lists the menu.
// @Summary Get all food items
// @Tags FoodItem
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param search query string false "Name or description"
// @Param category query string false "Filter by category"
// @Param available query boolean false "Filter by availability"
// @Param vegetarian query boolean false "Filter vegetarian dishes"
// @Success 200 {object} response.Data[dto.GetFoodItemsResponse] "List of food items"
// @Failure 500 {object} response.Error
// @Router /v1/food-items [get]
// @Security BearerAuth
func (handler *Handler) GetFoodItems(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetFoodItems")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()
	itemQuery := dto.FoodItemQuery{
		Search:     query.Get(constant.RequestParamSearch),
		Category:   query.Get(model.FieldCategory),
		Available:  shared.ConvertStringToBool(query.Get(model.FieldAvailable)),
		Vegetarian: shared.ConvertStringToBool(query.Get(model.FieldVegetarian)),
	}

	items, err := handler.service.GetAll(ctx, queryParams, itemQuery.Filter())
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get food items")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, items)
}

// GetFoodItemByID retrieves a food item by ID.
// @Summary Get a food item by ID
// @Tags FoodItem
// @Produce json
// @Param id path string true "Food item ID"
// @Success 200 {object} response.Data[dto.FoodItemResponse] "Food item details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/food-items/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetFoodItemByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetFoodItemByID")
	defer scope.End()

	item, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get food item by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, item)
}

// UpdateFoodItem updates a food item by ID.
// @Summary Update a food item
// @Tags FoodItem
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Food item ID"
// @Param name formData string false "Name"
// @Param category formData string false "Category"
// @Param description formData string false "Description"
// @Param price formData number false "Price"
// @Param available formData boolean false "Available for ordering"
// @Param vegetarian formData boolean false "Vegetarian"
// @Param preparation_minutes formData integer false "Preparation time in minutes"
// @Param image formData file false "Image"
// @Success 200 {object} response.Message "Food item updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/food-items/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateFoodItem(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateFoodItem")
	defer scope.End()

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(w, failure.BadRequest(err))

		return
	}

	req := dto.UpdateFoodItemRequest{
		Name:        r.FormValue(model.FieldName),
		Category:    r.FormValue(model.FieldCategory),
		Description: r.FormValue(model.FieldDescription),
		Available:   shared.ConvertStringToBool(r.FormValue(model.FieldAvailable)),
		Vegetarian:  shared.ConvertStringToBool(r.FormValue(model.FieldVegetarian)),
	}

	var err error

	if req.PreparationMinutes, err = httpRequest.FormIntPtr(r, model.FieldPreparationMinutes); err != nil {
		response.WithError(w, err)

		return
	}

	if req.Price, err = httpRequest.FormDecimal(r, model.FieldPrice); err != nil {
		response.WithError(w, err)

		return
	}

	file, fileHeader, err := r.FormFile(model.FieldImage)
	if err == nil {
		req.Image = fileHeader
		req.ImageFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update food item")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Food item updated successfully")
}

// ToggleAvailability flips whether a dish can be ordered.
// @Summary Toggle food item availability
// @Tags FoodItem
// @Produce json
// @Param id path string true "Food item ID"
// @Success 200 {object} response.Data[dto.AvailabilityResponse] "New availability"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/food-items/{id}/availability [patch]
// @Security BearerAuth
func (handler *Handler) ToggleAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ToggleAvailability")
	defer scope.End()

	res, err := handler.service.ToggleAvailability(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to toggle food item availability")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// DeleteFoodItem removes a dish from the menu.
// @Summary Delete a food item
// @Tags FoodItem
// @Produce json
// @Param id path string true "Food item ID"
// @Success 200 {object} response.Message "Food item deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/food-items/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteFoodItem(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteFoodItem")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete food item")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Food item deleted by user " + shared.Actor(ctx))

	response.WithMessage(w, http.StatusOK, "Food item deleted successfully")
}
