package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/planillapro/payroll-backend-go/internal/handler/http/middleware"
	"github.com/planillapro/payroll-backend-go/internal/pkg/jwt"
)

func NewRouter(jwtService jwt.Service, env string, runHandler PayrollRunHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/payroll-runs", func(r chi.Router) {
				r.Get("/", runHandler.ListRuns)
				r.Get("/summary", runHandler.GetSummary)
				r.Post("/", runHandler.CreateRun)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", runHandler.GetRun)
					r.Delete("/", runHandler.DeleteRun)
					r.Post("/process", runHandler.ProcessRun)

					// Approval and payment are manager operations
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireRole("admin", "manager"))
						r.Post("/approve", runHandler.ApproveRun)
						r.Post("/pay", runHandler.MarkPaid)
					})
				})
			})
		})
	})

	return r
}
