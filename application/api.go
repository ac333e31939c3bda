package application

import (
	"context"
	"net/http"
	"time"

	configs "github.com/freitasmatheusrn/pricelist-importer/configs"
	repo "github.com/freitasmatheusrn/pricelist-importer/internal/database/postgres/sqlc"
	redisdb "github.com/freitasmatheusrn/pricelist-importer/internal/database/redis"
	"github.com/freitasmatheusrn/pricelist-importer/internal/email"
	"github.com/freitasmatheusrn/pricelist-importer/internal/history"
	"github.com/freitasmatheusrn/pricelist-importer/internal/imports"
	"github.com/freitasmatheusrn/pricelist-importer/internal/pricelist"
	"github.com/freitasmatheusrn/pricelist-importer/internal/prices"
	"github.com/freitasmatheusrn/pricelist-importer/internal/scheduler"
	"github.com/freitasmatheusrn/pricelist-importer/pkg/auth"
	"github.com/freitasmatheusrn/pricelist-importer/pkg/notification"
	"github.com/freitasmatheusrn/pricelist-importer/pkg/rest"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Application struct {
	Config configs.Configs
	Logger *zap.Logger
	DB     *pgxpool.Pool
	Redis  *redisdb.Client
	Email  email.Email               // nil disables alert emails
	SMS    notification.Notification // nil disables alert sms

	scheduler *scheduler.Scheduler
}

func (app *Application) Mount() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = app.CustomErrorHandler
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(app.Config.MaxUploadSize))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogLatency:  true,
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {

			status := v.Status
			if v.Error != nil {
				switch err := v.Error.(type) {
				case *echo.HTTPError:
					status = err.Code
				case *rest.ApiErr:
					status = err.Code
				}
			}

			fields := []zap.Field{
				zap.Duration("latency", v.Latency),
				zap.Int("status", status),
				zap.String("uri", v.URI),
				zap.String("method", v.Method),
			}
			if claims, apiErr := auth.GetClaims(c); apiErr == nil {
				fields = append(fields, zap.String("operator", claims.Operator))
			}

			if status >= 500 {
				app.Logger.Error("request", fields...)
				return nil
			}

			if status >= 400 {
				app.Logger.Warn("request", fields...)
				return nil
			}

			app.Logger.Info("request", fields...)
			return nil
		},
	}))

	// Initialize repositories and services
	querier := repo.New(app.DB)
	suppliers := pricelist.DefaultSuppliers()

	engine := imports.NewEngine(querier, imports.EngineConfig{
		BatchSize:    app.Config.ImportBatchSize,
		Workers:      app.Config.ImportWorkers,
		StoreTimeout: app.Config.StoreTimeout(),
	}, app.Logger)
	statusRepo := imports.NewStatusRepository(app.Redis.Client, app.Config.RunStatusTTL())
	recorder := history.NewRecorder(querier, app.Config.StoreTimeout())

	importService := imports.NewService(engine, suppliers, statusRepo, recorder, app.Logger)
	importHandler := imports.NewHandler(importService)

	priceService := prices.NewService(querier, suppliers, app.Logger)
	priceHandler := prices.NewHandler(priceService)

	// Scheduled import of a price list dropped on disk
	if app.Config.ImportSourcePath != "" {
		app.scheduler = scheduler.NewScheduler(
			importService,
			app.Config.ImportSourcePath,
			app.Logger,
			app.Email,
			app.SMS,
			app.Config.AlertRecipients,
			app.Config.AlertPhones,
		)
		if err := app.scheduler.Start(app.Config.CronExpression); err != nil {
			app.Logger.Fatal("failed to start scheduler", zap.Error(err))
		}
	}

	var runner scheduler.Runner
	if app.scheduler != nil {
		runner = app.scheduler
	}
	runHandler := scheduler.NewHandler(runner)

	e.GET("/health", app.Health)

	api := e.Group("/api")
	if app.Config.JWTSecret != "" {
		api.Use(echojwt.WithConfig(echojwt.Config{
			NewClaimsFunc: func(c echo.Context) jwt.Claims {
				return new(auth.JWTCustomClaims)
			},
			SigningKey:  []byte(app.Config.JWTSecret),
			TokenLookup: "header:Authorization:Bearer ,cookie:access_token",
		}))
	} else {
		app.Logger.Warn("JWT_SECRET is empty, api routes are unauthenticated")
	}

	// Import API routes
	api.POST("/import", importHandler.ImportSpreadsheet)
	api.POST("/import/stream", importHandler.ImportSpreadsheetSSE)
	api.GET("/import/runs/:id", importHandler.GetRunStatus)
	api.POST("/import/run", runHandler.RunImport)

	// Export API routes
	api.GET("/prices/export", priceHandler.ExportSpreadsheet)

	return e
}

// Health answers 200 when postgres and redis respond
func (app *Application) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := app.DB.Ping(ctx); err != nil {
		app.Logger.Error("postgres health check failed", zap.Error(err))
		return rest.NewApiErr("database unavailable", "service_unavailable", http.StatusServiceUnavailable, nil)
	}
	if err := app.Redis.HealthCheck(ctx); err != nil {
		app.Logger.Error("redis health check failed", zap.Error(err))
		return rest.NewApiErr("redis unavailable", "service_unavailable", http.StatusServiceUnavailable, nil)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Run serves h until ctx is cancelled, then shuts down gracefully
func (app *Application) Run(ctx context.Context, h http.Handler) error {
	srv := &http.Server{
		Addr:    app.Config.WebServerPort,
		Handler: h,
		// large uploads and SSE streams need a long write window
		WriteTimeout: 10 * time.Minute,
		ReadTimeout:  time.Minute,
		IdleTimeout:  time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		app.Logger.Info("server has started", zap.String("addr", app.Config.WebServerPort))
		if app.Config.TLSCertFile != "" && app.Config.TLSKeyFile != "" {
			errCh <- srv.ListenAndServeTLS(app.Config.TLSCertFile, app.Config.TLSKeyFile)
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.Logger.Info("shutting down server")
	if app.scheduler != nil {
		<-app.scheduler.Stop().Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
