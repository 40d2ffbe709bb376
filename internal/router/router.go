// Package router defines how HTTP and WebSocket routes are registered
// for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/hoangnm/sports-booking/internal/handler"
	"github.com/hoangnm/sports-booking/internal/middleware"
)

// Register wires every route of the service onto the provided Echo
// instance. rateLimit applies to the whole /v1 surface; pass nil to
// disable limiting (tests, reduced deployments).
func Register(e *echo.Echo, courts *handler.CourtHandler, bookings *handler.BookingHandler, socket *handler.SocketHandler, jwtSecret string, rateLimit echo.MiddlewareFunc) {
	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	// Realtime availability feed. Clients join court-day channels over
	// this single endpoint.
	e.GET("/ws", socket.Serve)

	v1 := e.Group("/v1")
	if rateLimit != nil {
		v1.Use(rateLimit)
	}

	// Public browse: anyone may look at a court's slot grid.
	v1.GET("/courts/:id", courts.GetCourt)

	// Payment-confirmation callback from the payment collaborator.
	// Request signing is that collaborator's concern, not handled here.
	v1.POST("/bookings/:id/confirm", bookings.Confirm)

	// Cart and checkout require an authenticated caller.
	auth := v1.Group("")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.POST("/courts/add-to-cart", courts.AddToCart)
	auth.GET("/cart", courts.GetCart)
	auth.POST("/bookings/checkout", bookings.Checkout)
}
