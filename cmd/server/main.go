package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/user/movienote/internal/config"
	"github.com/user/movienote/internal/handler"
	"github.com/user/movienote/internal/logging"
	"github.com/user/movienote/internal/middleware"
	"github.com/user/movienote/internal/repository"
	"github.com/user/movienote/internal/router"
	"github.com/user/movienote/internal/service"
	"github.com/user/movienote/internal/utils"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("load config")
	}

	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if envErr != nil {
		logging.Debug().Msg(".env not found, using process environment")
	}

	db, err := repository.InitDB(cfg.DatabaseURL, cfg.TursoAuthToken)
	if err != nil {
		logging.Fatal().Err(err).Msg("database connection failed")
	}
	if err := repository.Migrate(db); err != nil {
		logging.Fatal().Err(err).Msg("database migration failed")
	}
	repos := repository.NewRepositories(db)
	defer repos.Close()

	switch {
	case !cfg.HasTMDB() && !cfg.HasOMDB():
		logging.Warn().Msg("neither TMDB_API_KEY nor OMDB_API_KEY is set, search is disabled")
	case !cfg.HasTMDB():
		logging.Info().Msg("TMDB_API_KEY not set, searching OMDB only")
	}

	hc := utils.NewHTTPClient(cfg.ProviderTimeout)
	search := service.NewSearchService(service.NewTMDBClient(cfg, hc), service.NewOMDBClient(cfg, hc))

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	h := handler.NewHandler(repos, search)
	r := router.New(h, cfg.APIPrefix,
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Metrics(),
		middleware.CORS(cfg.CORSOrigins),
		gzip.Gzip(gzip.DefaultCompression),
	)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   cfg.WriteTimeout(),
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logging.Info().Str("addr", srv.Addr).Str("api_prefix", cfg.APIPrefix).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("forced shutdown")
	}

	logging.Info().Msg("server exited")
}
