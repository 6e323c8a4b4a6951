// Package carbontracker предоставляет маршруты основного приложения.
package carbontracker

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	accountdeactivate "github.com/EdisonSantiago93/carbontracker-backend/internal/http/handlers/account/deactivate"
	accountfind "github.com/EdisonSantiago93/carbontracker-backend/internal/http/handlers/account/find"
	accountreactivate "github.com/EdisonSantiago93/carbontracker-backend/internal/http/handlers/account/reactivate"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/http/handlers/auth/login"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/http/handlers/auth/logout"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/http/handlers/auth/register"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/http/handlers/auth/resetpassword"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/http/handlers/content/links"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/http/handlers/health"
	parameterget "github.com/EdisonSantiago93/carbontracker-backend/internal/http/handlers/parameter/get"
	plancurrent "github.com/EdisonSantiago93/carbontracker-backend/internal/http/handlers/plan/current"
	planlist "github.com/EdisonSantiago93/carbontracker-backend/internal/http/handlers/plan/list"
	profilechangepassword "github.com/EdisonSantiago93/carbontracker-backend/internal/http/handlers/profile/changepassword"
	profileget "github.com/EdisonSantiago93/carbontracker-backend/internal/http/handlers/profile/get"
	profileupdate "github.com/EdisonSantiago93/carbontracker-backend/internal/http/handlers/profile/update"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/http/middlewarectx"
	accountservice "github.com/EdisonSantiago93/carbontracker-backend/internal/services/account"
	contentservice "github.com/EdisonSantiago93/carbontracker-backend/internal/services/content"
	parameterservice "github.com/EdisonSantiago93/carbontracker-backend/internal/services/parameter"
	planservice "github.com/EdisonSantiago93/carbontracker-backend/internal/services/plan"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *repository.Storage,
	accountService *accountservice.AccountService,
	parameterService *parameterservice.ParameterService,
	planService *planservice.PlanService,
	contentService *contentservice.ContentService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	contentHandler := links.New(logger, contentService)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/register", register.New(logger, accountService).ServeHTTP)
			r.Post("/login", login.New(logger, accountService).ServeHTTP)
			r.Post("/password/reset", resetpassword.New(logger, accountService).ServeHTTP)
			r.Get("/accounts/find", accountfind.New(logger, accountService).ServeHTTP)
			r.Get("/parameters/{tag}", parameterget.New(logger, parameterService).ServeHTTP)
		})
		r.Get("/health", health.New(logger, db).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(accountService, logger))
			r.Get("/profile", profileget.New(logger, accountService).ServeHTTP)
			r.Put("/profile", profileupdate.New(logger, accountService).ServeHTTP)
			r.Put("/profile/password", profilechangepassword.New(logger, accountService).ServeHTTP)
			r.Post("/account/deactivate", accountdeactivate.New(logger, accountService).ServeHTTP)
			r.Get("/plans", planlist.New(logger, planService).ServeHTTP)
			r.Get("/plans/current", plancurrent.New(logger, planService).ServeHTTP)
			r.Get("/content/calculator", contentHandler.Calculator)
			r.Get("/content/results", contentHandler.Results)
			r.Post("/logout", logout.New(logger, accountService).ServeHTTP)
		})

		// Административная группа: реактивация закрыта ролью admin
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(accountService, logger))
			r.Use(middlewarectx.AdminOnlyMiddleware(logger))
			r.Post("/admin/accounts/{uid}/reactivate", accountreactivate.New(logger, accountService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
