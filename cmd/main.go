package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meeting-parser-service/internal/config"
	"meeting-parser-service/internal/extractor/entity"
	"meeting-parser-service/internal/extractor/replytype"
	"meeting-parser-service/internal/extractor/timeexpr"
	"meeting-parser-service/internal/handler"
	"meeting-parser-service/internal/httpserver"
	"meeting-parser-service/internal/service/parse"
	"meeting-parser-service/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	// Load config
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting meeting-parser-service...")

	// Extractors
	timeExtractor, err := timeexpr.New(cfg.Parser.DefaultTimezone, cfg.Parser.MaxTimeCandidates)
	if err != nil {
		log.Fatal("time extractor init failed", zap.Error(err))
	}
	classifier := replytype.NewClassifier()
	entityExtractor := entity.New(cfg.Parser.ConferencingHosts, cfg.Parser.MaxNotesLength)

	// Engine
	parseService := parse.NewService(timeExtractor, classifier, entityExtractor, log)

	// Handlers
	parseHandler := handler.NewParseHandler(parseService)

	// Router
	router := httpserver.NewRouter(parseHandler)

	srv := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: router.Engine,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	log.Info("meeting-parser-service is fully initialized and running")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down meeting-parser-service gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	log.Info("meeting-parser-service shutdown complete")
}
