package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kkratossdead/Cv-Ia/analyzer"
	"github.com/kkratossdead/Cv-Ia/infrastructure"
	"github.com/kkratossdead/Cv-Ia/interfaces"
	"github.com/kkratossdead/Cv-Ia/logger"
)

func main() {
	// Load .env
	_ = godotenv.Load()

	// Configuration problems are fatal before anything else runs.
	cfg, err := infrastructure.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	zlog, err := logger.New(cfg.JSONLog, cfg.Debug)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer zlog.Sync()

	store, err := infrastructure.NewMySQLStore(cfg.DBDSN, zlog)
	if err != nil {
		zlog.Fatal("database setup failed", zap.Error(err))
	}

	// Event publishing is optional; the pipeline runs without it.
	var publisher analyzer.Publisher
	if cfg.RabbitMQURL != "" {
		rmq, err := infrastructure.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			zlog.Warn("RabbitMQ unavailable, events disabled", zap.Error(err))
		} else {
			publisher = rmq
			defer rmq.Close()
		}
	}

	client := infrastructure.NewOpenAIClient(cfg, zlog)
	pipeline := analyzer.NewPipeline(
		infrastructure.NewPDFRasterizer(),
		client,
		store,
		publisher,
		zlog,
		cfg.InputRate,
		cfg.OutputRate,
	)

	router := gin.Default()
	interfaces.NewHTTPHandler(router, store, pipeline, cfg.Model, zlog)

	zlog.Info("server listening", zap.String("addr", cfg.ListenAddr), zap.String("model", cfg.Model))
	if err := router.Run(cfg.ListenAddr); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
