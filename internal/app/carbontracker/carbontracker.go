// Package carbontracker собирает основное приложение: хранилище,
// миграции, хранилище сессий, очередь событий, сервисы и HTTP сервер.
package carbontracker

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/EdisonSantiago93/carbontracker-backend/internal/config"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/lib/jwt"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/migrations"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/rabbitmq"
	accountservice "github.com/EdisonSantiago93/carbontracker-backend/internal/services/account"
	contentservice "github.com/EdisonSantiago93/carbontracker-backend/internal/services/content"
	parameterservice "github.com/EdisonSantiago93/carbontracker-backend/internal/services/parameter"
	planservice "github.com/EdisonSantiago93/carbontracker-backend/internal/services/plan"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/session"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/storage/repository"
)

// App инкапсулирует HTTP сервер и ресурсы основного приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	rabbit *amqp.Connection
}

// New инициализирует зависимости приложения и строит маршрутизатор.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	sessions, err := session.InitStore(ctx, cfg.RedisConnection, logger)
	if err != nil {
		return nil, err
	}

	rabbitConn, err := rabbitmq.Connect(cfg.AddressRabbit, cfg.RetriesRabbit, cfg.DelayRabbit)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(rabbitConn, rabbitmq.GetAccountQueues())
	if err != nil {
		return nil, err
	}
	publisher := rabbitmq.NewAccountPublisher(ch)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	accountService := accountservice.NewAccountService(db, db, sessions, publisher, jwtMaker, logger)
	parameterService := parameterservice.NewParameterService(db, logger)
	planService := planservice.NewPlanService(db, db, logger)
	contentService := contentservice.NewContentService(parameterService, cfg.WebBaseURL, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db, accountService, parameterService, planService, contentService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		rabbit: rabbitConn,
	}, nil
}

// Run запускает HTTP сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.rabbit.Close()
		_ = a.db.DB.Close()
		return err
	}
}
