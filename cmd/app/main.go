package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/BuzzLyutic/taskchat/internal/config"
	"github.com/BuzzLyutic/taskchat/internal/handler"
	"github.com/BuzzLyutic/taskchat/internal/llm"
	"github.com/BuzzLyutic/taskchat/internal/service"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Подключаем логгер
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	// Клиент языковой модели
	chatModel, err := llm.NewChatModel(context.Background(), cfg.LLM)
	if err != nil {
		logger.Fatal("Failed to create chat model", zap.Error(err))
	}
	logger.Info("Chat model ready",
		zap.String("provider", string(cfg.LLM.Provider)),
		zap.String("model", cfg.LLM.Model),
		zap.String("mode", string(cfg.Extraction.Mode)),
	)

	extractor := service.NewExtractionService(chatModel, logger, cfg.Extraction.MaxRetries)
	chatHandler := handler.NewChatHandler(extractor, logger, cfg.Extraction)

	srv := http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.NewRouter(chatHandler, logger, cfg.CORSOrigins),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.WriteTimeout, // вызов модели может быть долгим
	}

	go func() { // Запуск сервера и обработка ошибок
		logger.Info("Server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Shutdown error", zap.Error(err))
	}
	logger.Info("Server stopped successfully!")
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}
