// Package academymanager собирает приложение целиком: хранилище, миграции,
// кэш, сервисы и HTTP-сервер с маршрутами.
package academymanager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/academy-manager/internal/cache"
	"github.com/magabrotheeeer/academy-manager/internal/config"
	"github.com/magabrotheeeer/academy-manager/internal/lib/jwt"
	"github.com/magabrotheeeer/academy-manager/internal/migrations"
	"github.com/magabrotheeeer/academy-manager/internal/seed"
	authservice "github.com/magabrotheeeer/academy-manager/internal/services/auth"
	membershipservice "github.com/magabrotheeeer/academy-manager/internal/services/membership"
	planservice "github.com/magabrotheeeer/academy-manager/internal/services/plan"
	scheduleservice "github.com/magabrotheeeer/academy-manager/internal/services/schedule"
	studentservice "github.com/magabrotheeeer/academy-manager/internal/services/student"
	userservice "github.com/magabrotheeeer/academy-manager/internal/services/user"
	"github.com/magabrotheeeer/academy-manager/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и ресурсы приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

func waitForDB(db *repository.Storage) error {
	for range 10 {
		err := repository.CheckDatabaseReady(db)
		if err == nil {
			return nil
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries")
}

// New собирает приложение: подключает базу, применяет миграции,
// инициализирует кэш, сервисы, посев данных и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}
	if err = waitForDB(db); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	userService := userservice.NewUserService(db, logger)
	authService := authservice.NewAuthService(userService, jwtMaker)
	planService := planservice.NewPlanService(db, cacheRedis, logger)
	membershipService := membershipservice.NewMembershipService(db, logger)
	scheduleService := scheduleservice.NewScheduleService(db, logger)
	studentService := studentservice.NewStudentService(db, logger)

	if err := seed.Run(ctx, db, logger); err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, authService, planService, membershipService, scheduleService, studentService, userService)

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
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
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
		a.db.DB.Close()
		return err
	}
}
