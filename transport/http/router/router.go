package router

import (
	"hotel/infras/jwt"
	"hotel/internal/handlers/auth"
	"hotel/internal/handlers/booking"
	"hotel/internal/handlers/fooditem"
	"hotel/internal/handlers/guest"
	"hotel/internal/handlers/invoice"
	"hotel/internal/handlers/order"
	"hotel/internal/handlers/payment"
	"hotel/internal/handlers/report"
	"hotel/internal/handlers/role"
	"hotel/internal/handlers/room"
	"hotel/internal/handlers/setting"
	"hotel/internal/handlers/staff"
	"hotel/internal/handlers/table"
	"hotel/internal/handlers/user"
	"hotel/transport/http/ws"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth     auth.Handler
	User     user.Handler
	Role     role.Handler
	Room     room.Handler
	Booking  booking.Handler
	Guest    guest.Handler
	Staff    staff.Handler
	FoodItem fooditem.Handler
	Table    table.Handler
	Order    order.Handler
	Payment  payment.Handler
	Invoice  invoice.Handler
	Setting  setting.Handler
	Report   report.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	Hub            *ws.Hub
	JWT            jwt.JWT
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Role.Router(routerGroup)
		r.DomainHandlers.Room.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Guest.Router(routerGroup)
		r.DomainHandlers.Staff.Router(routerGroup)
		r.DomainHandlers.FoodItem.Router(routerGroup)
		r.DomainHandlers.Table.Router(routerGroup)
		r.DomainHandlers.Order.Router(routerGroup)
		r.DomainHandlers.Payment.Router(routerGroup)
		r.DomainHandlers.Invoice.Router(routerGroup)
		r.DomainHandlers.Setting.Router(routerGroup)
		r.DomainHandlers.Report.Router(routerGroup)

		routerGroup.Get("/ws", ws.Handler(r.Hub, r.JWT))
	})
}

func New(domainHandlers DomainHandlers, hub *ws.Hub, jwtService jwt.JWT) Router {
	return Router{
		DomainHandlers: domainHandlers,
		Hub:            hub,
		JWT:            jwtService,
	}
}
