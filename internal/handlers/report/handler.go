package report

import (
	"net/http"

	"hotel/infras/otel"
	"hotel/internal/domains/report/service"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/transport/http/middleware"
	"hotel/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service    service.Report
	middleware middleware.AuthRole
	otel       otel.Otel
}

func New(service service.Report, middleware middleware.AuthRole, otel otel.Otel) Handler {
	return Handler{
		service:    service,
		middleware: middleware,
		otel:       otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.With(handler.middleware.APIKey, handler.middleware.Auth, handler.middleware.RBAC).Get("/dashboard", handler.GetDashboard)

	router.Route("/reports", func(routerGroup chi.Router) {
		routerGroup.Use(handler.middleware.APIKey, handler.middleware.Auth, handler.middleware.RBAC)

		routerGroup.Get("/dashboard", handler.GetDashboard)
		routerGroup.Get("/revenue", handler.GetRevenue)
		routerGroup.Get("/occupancy", handler.GetOccupancy)
	})
}

// GetDashboard returns the front page counters.
// @Summary Dashboard counters
// @Tags Report
// @Produce json
// @Success 200 {object} response.Data[dto.DashboardResponse] "Dashboard"
// @Failure 500 {object} response.Error
// @Router /v1/reports/dashboard [get]
// @Security BearerAuth
func (handler *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetDashboard")
	defer scope.End()

	dashboard, err := handler.service.Dashboard(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get dashboard")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, dashboard)
}

// GetRevenue totals completed payments per day and method.
// @Summary Revenue report
// @Tags Report
// @Produce json
// @Param from query string false "First day (YYYY-MM-DD), defaults to 30 days ago"
// @Param to query string false "Last day (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Data[dto.RevenueResponse] "Revenue"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reports/revenue [get]
// @Security BearerAuth
func (handler *Handler) GetRevenue(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRevenue")
	defer scope.End()

	window := gDto.DateRange{}
	if err := window.FromRequest(r, constant.DefaultRangeDays); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	revenue, err := handler.service.Revenue(ctx, window)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get revenue report")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, revenue)
}

// GetOccupancy reports occupied rooms per night.
// @Summary Occupancy report
// @Tags Report
// @Produce json
// @Param from query string false "First night (YYYY-MM-DD), defaults to 30 days ago"
// @Param to query string false "Last night (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Data[dto.OccupancyResponse] "Occupancy"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reports/occupancy [get]
// @Security BearerAuth
func (handler *Handler) GetOccupancy(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOccupancy")
	defer scope.End()

	window := gDto.DateRange{}
	if err := window.FromRequest(r, constant.DefaultRangeDays); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	occupancy, err := handler.service.Occupancy(ctx, window)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get occupancy report")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, occupancy)
}
