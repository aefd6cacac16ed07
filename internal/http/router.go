package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"caretrek-backend/internal/handlers"
	"caretrek-backend/internal/middleware"
)

// NewRouter wires every API route. All /api routes except auth require
// a Bearer token.
func NewRouter(
	authHandler *handlers.AuthHandler,
	connectionHandler *handlers.ConnectionHandler,
	healthMetricHandler *handlers.HealthMetricHandler,
	medicationHandler *handlers.MedicationHandler,
	appointmentHandler *handlers.AppointmentHandler,
	alertHandler *handlers.AlertHandler,
	monitoringHandler *handlers.MonitoringHandler,
	wsHandler *handlers.WSHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequestMetrics)
	r.Use(middleware.GzipCompression)

	// Unauthenticated surface
	r.HandleFunc("/health", monitoringHandler.Health).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/ws", wsHandler.Connect).Methods("GET")

	authRouter := r.PathPrefix("/api/auth").Subrouter()
	authRouter.Use(middleware.LoginRateLimiter.Middleware)
	authRouter.HandleFunc("/register", authHandler.Register).Methods("POST")
	authRouter.HandleFunc("/login", authHandler.Login).Methods("POST")

	// Authenticated surface
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.APIRateLimiter.Middleware)
	api.Use(authMiddleware.RequireAuth)

	api.HandleFunc("/auth/me", authHandler.Me).Methods("GET")
	api.HandleFunc("/users/search", authHandler.Search).Methods("GET")

	api.HandleFunc("/connections/request", connectionHandler.SendRequest).Methods("POST")
	api.HandleFunc("/connections/request-by-id", connectionHandler.SendRequestByID).Methods("POST")
	api.HandleFunc("/connections", connectionHandler.List).Methods("GET")
	api.HandleFunc("/connections/seniors", connectionHandler.Seniors).Methods("GET")
	api.HandleFunc("/connections/family-members", connectionHandler.FamilyMembers).Methods("GET")
	api.HandleFunc("/connections/check/{seniorId:[0-9]+}", connectionHandler.Check).Methods("GET")
	api.HandleFunc("/connections/permissions/{seniorId:[0-9]+}", connectionHandler.Permissions).Methods("GET")
	api.HandleFunc("/connections/{id:[0-9]+}/respond", connectionHandler.Respond).Methods("POST")
	api.HandleFunc("/connections/{id:[0-9]+}/permissions", connectionHandler.UpdatePermissions).Methods("PATCH")
	api.HandleFunc("/connections/{id:[0-9]+}", connectionHandler.Remove).Methods("DELETE")

	api.HandleFunc("/health-metrics", healthMetricHandler.Record).Methods("POST")
	api.HandleFunc("/seniors/{seniorId:[0-9]+}/health-metrics", healthMetricHandler.List).Methods("GET")
	api.HandleFunc("/seniors/{seniorId:[0-9]+}/health-metrics/latest", healthMetricHandler.Latest).Methods("GET")
	api.HandleFunc("/seniors/{seniorId:[0-9]+}/activity", healthMetricHandler.Activity).Methods("GET")

	api.HandleFunc("/seniors/{seniorId:[0-9]+}/medications", medicationHandler.Add).Methods("POST")
	api.HandleFunc("/seniors/{seniorId:[0-9]+}/medications", medicationHandler.List).Methods("GET")
	api.HandleFunc("/seniors/{seniorId:[0-9]+}/medications/today", medicationHandler.Today).Methods("GET")
	api.HandleFunc("/medications/{id:[0-9]+}", medicationHandler.Update).Methods("PUT")
	api.HandleFunc("/medications/{id:[0-9]+}", medicationHandler.Remove).Methods("DELETE")

	api.HandleFunc("/seniors/{seniorId:[0-9]+}/appointments", appointmentHandler.Schedule).Methods("POST")
	api.HandleFunc("/seniors/{seniorId:[0-9]+}/appointments", appointmentHandler.List).Methods("GET")
	api.HandleFunc("/seniors/{seniorId:[0-9]+}/appointments/upcoming", appointmentHandler.Upcoming).Methods("GET")
	api.HandleFunc("/appointments/{id:[0-9]+}", appointmentHandler.Update).Methods("PUT")
	api.HandleFunc("/appointments/{id:[0-9]+}", appointmentHandler.Remove).Methods("DELETE")

	api.HandleFunc("/alerts", alertHandler.Raise).Methods("POST")
	api.HandleFunc("/alerts/{id:[0-9]+}/acknowledge", alertHandler.Acknowledge).Methods("POST")
	api.HandleFunc("/alerts/{id:[0-9]+}/resolve", alertHandler.Resolve).Methods("POST")
	api.HandleFunc("/seniors/{seniorId:[0-9]+}/alerts", alertHandler.History).Methods("GET")

	api.HandleFunc("/monitoring/system", monitoringHandler.System).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not found", http.StatusNotFound)
	})

	return r
}
