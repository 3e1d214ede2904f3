package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/openshelf/library-api/internal/api/handlers"
	"github.com/openshelf/library-api/internal/auth"
	"github.com/openshelf/library-api/internal/config"
	"github.com/openshelf/library-api/internal/metrics"
	"github.com/openshelf/library-api/internal/middleware"
	"github.com/openshelf/library-api/internal/models"
	"github.com/openshelf/library-api/internal/services"
)

type RouterDeps struct {
	Cfg       config.Config
	Log       *slog.Logger
	Tokens    *auth.TokenManager
	AuthSvc   *services.AuthService
	BookSvc   *services.BookService
	BorrowSvc *services.BorrowService
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.RateLimit(d.Cfg.RateRPS), middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	authn := middleware.NewAuthMiddleware(d.Tokens)
	librarianOnly := middleware.RequireRole(models.RoleLibrarian)
	anyRole := middleware.RequireRole(models.RoleLibrarian, models.RoleClient)

	authH := handlers.NewAuthHandler(d.AuthSvc, d.Log)
	booksH := handlers.NewBooksHandler(d.BookSvc, d.Log)
	borrowH := handlers.NewBorrowHandler(d.BorrowSvc, d.Log)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authH.Login)
			r.Post("/register", authH.Register)
		})

		r.Route("/books", func(r chi.Router) {
			r.Get("/", booksH.List)
			r.Get("/{id}", booksH.Get)

			r.Group(func(r chi.Router) {
				r.Use(authn.Auth, librarianOnly)
				r.Post("/", booksH.Create)
				r.Put("/{id}", booksH.Update)
				r.Delete("/{id}", booksH.Delete)
			})
		})

		r.Route("/borrow", func(r chi.Router) {
			r.Use(authn.Auth)

			r.Group(func(r chi.Router) {
				r.Use(anyRole)
				r.Post("/borrow/{bookId}", borrowH.Borrow)
				r.Post("/return/{borrowId}", borrowH.Return)
				r.Get("/my-borrows/{userId}", borrowH.MyBorrows)
			})

			r.With(librarianOnly).Get("/all", borrowH.All)
		})
	})

	return r
}
