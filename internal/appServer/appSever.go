// launching the server, temp storage, kafka, metrics
package appServer

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ds124wfegd/imagecomposer/config"
	"github.com/ds124wfegd/imagecomposer/internal/database"
	"github.com/ds124wfegd/imagecomposer/internal/pkg/compositor"
	"github.com/ds124wfegd/imagecomposer/internal/pkg/fetcher"
	"github.com/ds124wfegd/imagecomposer/internal/pkg/kafka"
	"github.com/ds124wfegd/imagecomposer/internal/pkg/metrics"
	"github.com/ds124wfegd/imagecomposer/internal/pkg/quote"
	"github.com/ds124wfegd/imagecomposer/internal/pkg/storage"
	"github.com/ds124wfegd/imagecomposer/internal/service"
	"github.com/ds124wfegd/imagecomposer/internal/transport"
	"github.com/gin-gonic/gin"

	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// NewHandler wires every component of the service into an http.Handler.
func NewHandler(cfg *config.Config) (http.Handler, func(), error) {
	fileStorage, err := storage.NewFileStorage(cfg.Storage.TempDir)
	if err != nil {
		return nil, nil, err
	}
	assetRepo := database.NewAssetRepository(fileStorage)

	var producer kafka.Producer
	if cfg.Kafka.Enabled {
		producer = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	} else {
		producer = kafka.NewMockProducer(cfg.Kafka.Topic)
	}

	m := metrics.New()

	assetFetcher := fetcher.NewFetcher(fetcher.Options{
		Timeout:   cfg.Fetcher.Timeout,
		MaxBytes:  cfg.Fetcher.MaxBytes,
		UserAgent: cfg.Fetcher.UserAgent,
	})

	renderService := service.NewRenderService(assetRepo, assetFetcher, compositor.NewCompositor(cfg.Fetcher.MaxPixels), producer, m)
	presetService := service.NewPresetService(
		renderService,
		quote.NewClient(cfg.Preset.QuoteURL, cfg.Preset.QuoteTimeout),
		service.Preset{
			Background:   cfg.Preset.Background,
			Logo:         cfg.Preset.Logo,
			Overlay:      cfg.Preset.Overlay,
			TextColor:    cfg.Preset.TextColor,
			DateLayout:   cfg.Preset.DateLayout,
			FallbackText: cfg.Preset.FallbackText,
		},
		m,
	)
	imgHandler := transport.NewImageHandler(renderService, presetService, cfg.RenderBudget())

	if !cfg.Metrics.Enabled {
		m = nil
	}

	closeFn := func() {
		if err := producer.Close(); err != nil {
			logrus.Errorf("error occured on kafka producer closing: %s", err.Error())
		}
	}
	return transport.InitRoutes(imgHandler, m, cfg.Metrics.Path), closeFn, nil
}

func NewServer(cfg *config.Config) {

	logrus.SetFormatter(new(logrus.JSONFormatter))
	logrus.SetOutput(os.Stdout)
	if level, err := logrus.ParseLevel(cfg.Server.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	handler, closeFn, err := NewHandler(cfg)
	if err != nil {
		logrus.Fatalf("error occured while wiring the service: %s", err.Error())
	}
	defer closeFn()

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, handler); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Printf("Image API listening on port %s!", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}
