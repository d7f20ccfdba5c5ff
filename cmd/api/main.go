package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appanalytics "github.com/jhoicas/stockboard-api/internal/application/analytics"
	"github.com/jhoicas/stockboard-api/internal/application/async"
	"github.com/jhoicas/stockboard-api/internal/application/auth"
	"github.com/jhoicas/stockboard-api/internal/application/usecase"
	"github.com/jhoicas/stockboard-api/internal/domain/repository"
	"github.com/jhoicas/stockboard-api/internal/infrastructure/filestore"
	"github.com/jhoicas/stockboard-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/stockboard-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stockboard-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stockboard-api/internal/infrastructure/redisstore"
	"github.com/jhoicas/stockboard-api/internal/infrastructure/seed"
	httpRouter "github.com/jhoicas/stockboard-api/internal/interfaces/http"
	"github.com/jhoicas/stockboard-api/pkg/config"
	"github.com/jhoicas/stockboard-api/pkg/logger"
	"github.com/jhoicas/stockboard-api/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("session_store", cfg.Session.Store).
		Msg("iniciando aplicación")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	ctx := context.Background()
	slots, accounts, closeStore := openSessionStore(ctx, cfg, log)
	defer closeStore()

	// Los registros viven en memoria; solo la sesión se persiste según SESSION_STORE.
	store := memory.NewRecordStore()
	if cfg.Seed.Enabled {
		n, err := seed.Load(ctx, store, time.Now().UTC())
		if err != nil {
			log.Fatal().Err(err).Msg("carga de datos de ejemplo")
		}
		log.Info().Int("records", n).Msg("datos de ejemplo cargados")
	}

	recordUC := usecase.NewRecordUseCase(store, store, log, m)
	slipUC := usecase.NewSlipUseCase(store, infrapdf.NewMarotoSlipGenerator(cfg.App.Name))
	dashboardUC := appanalytics.NewDashboardUseCase(recordUC)
	registry := auth.NewSessionRegistry(auth.Deps{
		Slots:     slots,
		Accounts:  accounts,
		Scheduler: async.SchedulerFor(cfg.Session.Latency()),
		Logger:    log.Component("auth"),
		Metrics:   m,
	})
	authUC := auth.NewAuthUseCase(registry, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.NewErrorHandler(log.Component("http")),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http"), m))

	// Swagger UI en local: http://localhost:<port>/docs (solo si existe el archivo)
	if cfg.HTTP.SwaggerFile != "" {
		if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.HTTP.SwaggerFile,
				Path:     "docs",
				Title:    cfg.App.Name,
			}))
		} else {
			log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
		}
	}

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		RecordUC:    recordUC,
		SlipUC:      slipUC,
		DashboardUC: dashboardUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openSessionStore abre el backend de slots elegido. Con postgres las cuentas también
// se guardan en la base; en los demás casos quedan en memoria.
func openSessionStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.SlotStore, repository.AccountRepository, func()) {
	switch cfg.Session.Store {
	case config.SessionStoreFile:
		s, err := filestore.NewSlotStore(cfg.Session.FileDir)
		if err != nil {
			log.Fatal().Err(err).Str("dir", cfg.Session.FileDir).Msg("directorio de sesiones")
		}
		return s, memory.NewAccountRepository(), func() {}
	case config.SessionStoreRedis:
		s, err := redisstore.New(ctx, cfg.Redis, cfg.Session.TTL())
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		return s, memory.NewAccountRepository(), func() {
			if err := s.Close(); err != nil {
				log.Error().Err(err).Msg("cerrar Redis")
			}
		}
	case config.SessionStorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("esquema de PostgreSQL")
		}
		return postgres.NewSlotStore(pool), postgres.NewAccountRepository(pool), pool.Close
	}
	return memory.NewSlotStore(memorySlotTTL(cfg)), memory.NewAccountRepository(), func() {}
}

// memorySlotTTL expiración de los slots en memoria: SESSION_TTL_MINUTES o, si no está
// definido, la vida del JWT. Un slot que sobrevive a su token ya no se puede leer.
func memorySlotTTL(cfg *config.Config) time.Duration {
	if ttl := cfg.Session.TTL(); ttl > 0 {
		return ttl
	}
	return time.Duration(cfg.JWT.Expiration) * time.Minute
}
