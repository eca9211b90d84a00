package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"recipebook/internal/api"
	"recipebook/internal/app"
	"recipebook/internal/config"
	"recipebook/internal/logger"
	"recipebook/internal/platform/imaging"
)

func main() {
	configPath := flag.String("config", "", "path to the config file (default ./config.json)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// No logger yet.
		panic(err)
	}

	log := logger.New(cfg.Log)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := app.LoadCatalog(ctx, cfg, log)
	if err != nil {
		log.Fatal("error loading catalog", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	thumbnailer := imaging.NewThumbnailer(cfg.Data.MediaDir, cfg.Images.CacheDir)
	handler := api.NewHandler(cat, thumbnailer, cfg.Images.ThumbnailWidth, log.Named("api"))
	handler.Metrics = api.NewMetrics(reg)

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(handler, api.RouterConfig{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		StaticDir:      cfg.Server.StaticDir,
	}, log.Named("http"), reg)

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: router}

	go func() {
		log.Info("listening", zap.String("addr", cfg.Server.Addr), zap.Int("recipes", cat.Len()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
