package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

func NewRouter(env string, ledgerHandler LedgerHandler, payrollHandler PayrollHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-ledger"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
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

		r.Route("/staff/{staffID}", func(r chi.Router) {
			r.Route("/days/{date}", func(r chi.Router) {
				r.Get("/sessions", ledgerHandler.GetDaySessions)
				r.Get("/total", ledgerHandler.GetDayTotal)
				r.Post("/approve", ledgerHandler.ApproveDay)
				r.Post("/unapprove", ledgerHandler.UnapproveDay)
				r.Post("/overrides", ledgerHandler.ApplyOverrides)
			})

			r.Route("/sessions", func(r chi.Router) {
				r.Post("/", ledgerHandler.CreateSession)
				r.Put("/{sessionID}", ledgerHandler.UpdateSession)
				r.Delete("/{sessionID}", ledgerHandler.DeleteSession)
			})
		})

		r.Route("/payroll", func(r chi.Router) {
			r.Get("/matrix", payrollHandler.GetMatrix)
			r.Route("/months/{month}", func(r chi.Router) {
				r.Get("/", payrollHandler.GetMonthSummary)
				r.Route("/staff/{staffID}", func(r chi.Router) {
					r.Put("/payment", payrollHandler.SetMonthPaid)
					r.Put("/amount-override", payrollHandler.SetAmountOverride)
				})
			})
		})
	})

	return r
}
