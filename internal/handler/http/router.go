package http

import (
	"log/slog"
	"os"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/time/rate"
)

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	// JWTService is nil when no secret is configured; payroll routes are then open.
	JWTService jwt.Service
	// GenerateRateLimitPerMinute caps generate calls across all clients. Zero disables the limit.
	GenerateRateLimitPerMinute int
}

func NewRouter(opts RouterOptions, payrollHandler PayrollHandler) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Retry-After"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if opts.JWTService != nil {
				r.Use(jwtauth.Verifier(opts.JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired(opts.JWTService.JWTAuth()))
			}

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/records", payrollHandler.GetPayrollRecord)

				r.Group(func(r chi.Router) {
					if n := opts.GenerateRateLimitPerMinute; n > 0 {
						r.Use(middleware.RateLimit(rate.Every(time.Minute/time.Duration(n)), n))
					}
					r.Post("/generate", payrollHandler.GeneratePayroll)
				})
			})
		})
	})
	return r
}

// NewLogger builds the JSON slog logger in the ECS schema used for request logs.
func NewLogger(level slog.Level, env string) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-engine"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)
}
