package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/parishworks/chms-backend-go/internal/handler/http/middleware"
)

func NewRouter(payrollHandler PayrollHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "chms-finance"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.ActorHeader},
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

	r.Route("/api/v1/payroll", func(r chi.Router) {
		r.Use(middleware.ActorRequired)

		r.Route("/batches", func(r chi.Router) {
			r.Get("/", payrollHandler.ListBatches)
			r.Post("/", payrollHandler.CreateBatch)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", payrollHandler.GetBatchStatus)
				r.Get("/records", payrollHandler.GetBatchRecords)
				r.Post("/approve", payrollHandler.ApproveBatch)
				r.Post("/reject", payrollHandler.RejectBatch)
			})
		})

		r.Route("/records/{id}", func(r chi.Router) {
			r.Post("/approve", payrollHandler.ApproveRecord)
			r.Post("/reject", payrollHandler.RejectRecord)
			r.Post("/pay", payrollHandler.MarkRecordPaid)
		})

		r.Route("/rejections", func(r chi.Router) {
			r.Get("/", payrollHandler.ListOpenRejections)
			r.Post("/{id}/notify-hr", payrollHandler.MarkRejectionNotified)
			r.Post("/{id}/resolve", payrollHandler.ResolveRejection)
		})

		r.Get("/audit", payrollHandler.ListAuditEntries)
	})

	return r
}
