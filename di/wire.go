//go:build wireinject
// +build wireinject

package di

import (
	"hotel/config"
	"hotel/infras/jwt"
	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/infras/redis"
	"hotel/infras/s3"
	"hotel/permissions"
	"hotel/shared/cache"
	"hotel/transport/http"
	"hotel/transport/http/middleware"
	"hotel/transport/http/router"
	"hotel/transport/http/ws"

	authService "hotel/internal/domains/auth/service"
	bookingRepository "hotel/internal/domains/booking/repository"
	bookingService "hotel/internal/domains/booking/service"
	foodItemRepository "hotel/internal/domains/fooditem/repository"
	foodItemService "hotel/internal/domains/fooditem/service"
	guestRepository "hotel/internal/domains/guest/repository"
	guestService "hotel/internal/domains/guest/service"
	invoiceRepository "hotel/internal/domains/invoice/repository"
	invoiceService "hotel/internal/domains/invoice/service"
	orderRepository "hotel/internal/domains/order/repository"
	orderService "hotel/internal/domains/order/service"
	paymentRepository "hotel/internal/domains/payment/repository"
	paymentService "hotel/internal/domains/payment/service"
	reportService "hotel/internal/domains/report/service"
	roleRepository "hotel/internal/domains/role/repository"
	roleService "hotel/internal/domains/role/service"
	roomRepository "hotel/internal/domains/room/repository"
	roomService "hotel/internal/domains/room/service"
	settingRepository "hotel/internal/domains/setting/repository"
	settingService "hotel/internal/domains/setting/service"
	staffRepository "hotel/internal/domains/staff/repository"
	staffService "hotel/internal/domains/staff/service"
	tableRepository "hotel/internal/domains/table/repository"
	tableService "hotel/internal/domains/table/service"
	userRepository "hotel/internal/domains/user/repository"
	userService "hotel/internal/domains/user/service"

	authHandler "hotel/internal/handlers/auth"
	bookingHandler "hotel/internal/handlers/booking"
	foodItemHandler "hotel/internal/handlers/fooditem"
	guestHandler "hotel/internal/handlers/guest"
	invoiceHandler "hotel/internal/handlers/invoice"
	orderHandler "hotel/internal/handlers/order"
	paymentHandler "hotel/internal/handlers/payment"
	reportHandler "hotel/internal/handlers/report"
	roleHandler "hotel/internal/handlers/role"
	roomHandler "hotel/internal/handlers/room"
	settingHandler "hotel/internal/handlers/setting"
	staffHandler "hotel/internal/handlers/staff"
	tableHandler "hotel/internal/handlers/table"
	userHandler "hotel/internal/handlers/user"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
)

var realtime = wire.NewSet(
	ws.NewHub,
	NewPublisher,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var repositories = wire.NewSet(
	userRepository.New,
	roleRepository.New,
	roomRepository.New,
	bookingRepository.New,
	guestRepository.New,
	staffRepository.New,
	foodItemRepository.New,
	tableRepository.New,
	orderRepository.New,
	paymentRepository.New,
	invoiceRepository.New,
	settingRepository.New,
)

var authDomain = wire.NewSet(
	authService.New,
	userService.New,
	roleService.New,
)

var frontDeskDomain = wire.NewSet(
	roomService.New,
	bookingService.New,
	guestService.New,
	staffService.New,
)

var cafeDomain = wire.NewSet(
	foodItemService.New,
	tableService.New,
	orderService.New,
)

var billingDomain = wire.NewSet(
	paymentService.New,
	invoiceService.New,
	settingService.New,
	reportService.New,
)

var domains = wire.NewSet(
	repositories,
	authDomain,
	frontDeskDomain,
	cafeDomain,
	billingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	roleHandler.New,
	roomHandler.New,
	bookingHandler.New,
	guestHandler.New,
	staffHandler.New,
	foodItemHandler.New,
	tableHandler.New,
	orderHandler.New,
	paymentHandler.New,
	invoiceHandler.New,
	settingHandler.New,
	reportHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		realtime,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
