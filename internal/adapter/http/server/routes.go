package server

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// setupRoutes binds every endpoint of the booking service.
func (a *API) setupRoutes() {
	// System
	a.mux.HandleFunc("/health", a.routes.health.HealthCheck)
	a.mux.Handle("/metrics", promhttp.Handler())
	a.mux.HandleFunc("/swagger/", httpSwagger.Handler(httpSwagger.InstanceName("booking")))

	// Booking lifecycle
	a.mux.HandleFunc("POST /bookings", a.routes.booking.Create)
	a.mux.HandleFunc("GET /bookings/{booking_id}", a.routes.booking.Get)
	a.mux.HandleFunc("POST /bookings/{booking_id}/assign", a.routes.booking.Assign)
	a.mux.HandleFunc("POST /bookings/{booking_id}/start", a.routes.booking.Start)
	a.mux.HandleFunc("POST /bookings/{booking_id}/complete", a.routes.booking.Complete)
	a.mux.HandleFunc("POST /bookings/{booking_id}/cancel", a.routes.booking.Cancel)
	a.mux.HandleFunc("POST /bookings/{booking_id}/location", a.routes.booking.UpdateLocation)
	a.mux.HandleFunc("POST /bookings/{booking_id}/watch", a.routes.booking.Watch)
	a.mux.HandleFunc("GET /bookings/{booking_id}/history", a.routes.booking.GetHistory)

	// Post-trip
	a.mux.HandleFunc("POST /bookings/{booking_id}/rating", a.routes.booking.SubmitRating)
	a.mux.HandleFunc("POST /bookings/{booking_id}/chat", a.routes.booking.PostChatMessage)
	a.mux.HandleFunc("GET /bookings/{booking_id}/chat", a.routes.booking.GetChatHistory)

	// WebSocket observers
	a.mux.HandleFunc("GET /ws/customers/{customer_id}", a.routes.observer.HandleCustomer)
	a.mux.HandleFunc("GET /ws/drivers/{driver_id}", a.routes.observer.HandleDriver)
	a.mux.HandleFunc("GET /ws/operators/{operator_id}", a.routes.observer.HandleOperator)
}
