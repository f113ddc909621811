package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/healthmeal/internal/config"
	"github.com/healthmeal/internal/db"
	"github.com/healthmeal/internal/handler"
	"github.com/healthmeal/internal/router"
	"github.com/healthmeal/internal/service"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, cfg)
	stop()
	if err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

// run 启动服务并阻塞到 ctx 结束或监听失败，返回前释放数据库与 kafka 连接
func run(ctx context.Context, cfg config.AppConfig) error {
	// 初始化数据库
	gdb, err := db.Open(db.Options{
		Driver: cfg.DatabaseDriver,
		Path:   cfg.DatabasePath,
		DSN:    cfg.DatabaseDSN,
	})
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	var publisher service.MealPlanPublisher = service.NoopMealPlanPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := service.NewKafkaMealPlanPublisher(cfg.KafkaBrokers, cfg.KafkaMealPlanTopic)
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				log.Printf("failed to close kafka writer: %v", err)
			}
		}()
		publisher = kafkaPublisher
		log.Printf("publishing meal plan events to %v topic %s", cfg.KafkaBrokers, cfg.KafkaMealPlanTopic)
	}

	api := handler.NewAPI(gdb, handler.Options{
		Tokens: service.NewJWTIdentityProvider(cfg.JWTSecret, cfg.TokenTTL),
		AI: service.AIProviderSettings{
			Provider:        cfg.AIProvider,
			OpenAIAPIKey:    cfg.OpenAIAPIKey,
			OpenAIBaseURL:   cfg.OpenAIBaseURL,
			OpenAIModel:     cfg.OpenAIModel,
			DeepSeekAPIKey:  cfg.DeepSeekAPIKey,
			DeepSeekBaseURL: cfg.DeepSeekBaseURL,
			DeepSeekModel:   cfg.DeepSeekModel,
		},
		Generator: service.MealPlanGeneratorOptions{
			Temperature: &cfg.AITemperature,
			Timeout:     cfg.AIRequestTimeout,
		},
		Publisher:       publisher,
		ExposeRawOutput: cfg.AIExposeRawOutput,
	})

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(api)
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router.WithCORS(r, cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("run server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
	return nil
}
