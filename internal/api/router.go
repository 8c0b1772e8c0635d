package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"

	"github.com/psiconecta/booking-system/internal/api/handler"
	"github.com/psiconecta/booking-system/internal/api/middleware"
	"github.com/psiconecta/booking-system/internal/core/domain"
	"github.com/psiconecta/booking-system/internal/infrastructure/realtime"
)

// RouterDeps carries the pre-wired handlers the router mounts. Construction
// and lifecycle of services stays in main; the router only maps routes.
type RouterDeps struct {
	Auth        *handler.AuthHandler
	Appointment *handler.AppointmentHandler
	Payment     *handler.PaymentHandler
	Patient     *handler.PatientHandler
	Health      *handler.HealthHandler
	Realtime    *realtime.Handler
	JWTSecret   string
	Log         zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("booking"))

	// --- Observability and docs (no auth required) ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)
	e.GET("/healthz", deps.Health.Live)
	e.GET("/readyz", deps.Health.Ready)

	// --- Auth routes ---
	loginLimiter := middleware.NewRateLimiter(5, 10)
	e.POST("/auth/register", deps.Auth.Register, middleware.RateLimit(loginLimiter))
	e.POST("/auth/login", deps.Auth.Login, middleware.RateLimit(loginLimiter))
	e.POST("/auth/:provider/callback", deps.Auth.LoginExternal, middleware.RateLimit(loginLimiter))

	authMiddleware := middleware.Auth(deps.JWTSecret)
	e.GET("/auth/me", deps.Auth.Me, authMiddleware)

	// --- Processor callbacks (verified against the processor, not a user) ---
	e.POST("/webhooks/payments", deps.Payment.Webhook)

	// --- Authenticated API ---
	v1 := e.Group("/v1", authMiddleware)

	appointments := v1.Group("/appointments")
	appointments.POST("", deps.Appointment.Create)
	appointments.GET("", deps.Appointment.List)
	appointments.GET("/:id", deps.Appointment.Get)
	appointments.PUT("/:id", deps.Appointment.Update)
	appointments.POST("/:id/cancel", deps.Appointment.Cancel)
	appointments.PUT("/:id/status", deps.Appointment.OverrideStatus, middleware.RBAC(domain.RoleAdmin))

	payments := v1.Group("/payments")
	payments.POST("/checkout", deps.Payment.CreateCheckout)
	payments.GET("", deps.Payment.History)

	patients := v1.Group("/patients")
	patients.GET("", deps.Patient.List, middleware.RBAC(domain.RolePsychologist, domain.RoleAdmin))
	patients.GET("/:id", deps.Patient.Get)
	patients.PUT("/:id", deps.Patient.Update)

	// --- Realtime ---
	e.GET("/ws", deps.Realtime.Connect)

	return e
}
