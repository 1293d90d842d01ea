package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/octodock/marketplace-api/docs"
	"github.com/octodock/marketplace-api/internal/api/handler"
	"github.com/octodock/marketplace-api/internal/api/middleware"
	"github.com/octodock/marketplace-api/internal/core/domain"
	"github.com/octodock/marketplace-api/internal/core/ports"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Log zerolog.Logger

	// Production hides error stacks and the swagger UI.
	Production bool

	Tokens ports.TokenVerifier
	Users  middleware.PrincipalLoader

	Auth           ports.AuthService
	Accommodations ports.AccommodationService
	Bookings       ports.BookingService
	Reviews        ports.ReviewService
	Messages       ports.MessageService
	Wishlist       ports.WishlistService

	// Health lists the dependencies checked by /health/ready.
	Health map[string]handler.Pinger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, !d.Production)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.Metrics())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.CORS())

	auth := middleware.Auth(d.Tokens, d.Users)
	optionalAuth := middleware.OptionalAuth(d.Tokens, d.Users)

	// --- Users ---
	users := handler.NewUserHandler(d.Auth)
	ug := e.Group("/users")
	ug.POST("/register", users.Register)
	ug.POST("/login", users.Login)
	ug.GET("/me", users.Me, auth)
	ug.PUT("/me", users.UpdateMe, auth)
	ug.DELETE("/me", users.DeleteMe, auth)
	ug.GET("", users.List, auth, middleware.RBAC(domain.RoleAdmin))

	// --- Accommodations ---
	accommodations := handler.NewAccommodationHandler(d.Accommodations)
	ag := e.Group("/accommodations")
	ag.GET("", accommodations.List, optionalAuth)
	ag.GET("/search", accommodations.Search)
	ag.POST("", accommodations.Create, auth)
	ag.GET("/:id", accommodations.Get)
	ag.PUT("/:id", accommodations.Update, auth)
	ag.DELETE("/:id", accommodations.Delete, auth)

	// --- Bookings ---
	bookings := handler.NewBookingHandler(d.Bookings)
	bg := e.Group("/bookings", auth)
	bg.POST("", bookings.Create)
	bg.GET("", bookings.List)
	bg.GET("/:id", bookings.Get)
	bg.PUT("/:id", bookings.Update)
	bg.DELETE("/:id", bookings.Delete)

	// --- Reviews ---
	reviews := handler.NewReviewHandler(d.Reviews)
	rg := e.Group("/reviews")
	rg.GET("", reviews.List)
	rg.GET("/:id", reviews.Get)
	rg.POST("", reviews.Create, auth)
	rg.PUT("/:id", reviews.Update, auth)
	rg.DELETE("/:id", reviews.Delete, auth)

	// --- Messages ---
	messages := handler.NewMessageHandler(d.Messages)
	mg := e.Group("/messages", auth)
	mg.POST("", messages.Send)
	mg.GET("", messages.List)
	mg.GET("/conversation/:userId", messages.Conversation)
	mg.GET("/:id", messages.Get)
	mg.DELETE("/:id", messages.Delete)

	// --- Wishlist ---
	wishlist := handler.NewWishlistHandler(d.Wishlist)
	wg := e.Group("/wishlist", auth)
	wg.GET("", wishlist.List)
	wg.POST("", wishlist.Add)
	wg.DELETE("/:id", wishlist.Remove)

	// --- Operational endpoints (no auth required) ---
	health := handler.NewHealthHandler(d.Health)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	if !d.Production {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	return e
}

// requestLogger emits one zerolog entry per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
