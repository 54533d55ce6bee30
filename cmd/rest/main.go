package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"legal-insight-be/internal/bootstrap"
	"legal-insight-be/internal/config"
	"legal-insight-be/internal/server"
	"legal-insight-be/internal/tracer"
	"legal-insight-be/pkg/database"

	gormlogger "gorm.io/gorm/logger"
)

func main() {
	// 0. Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer("legal-insight-be")
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	logLevel := gormlogger.Info
	if cfg.App.Environment == "production" {
		logLevel = gormlogger.Warn
	}
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, database.WithLogLevel(logLevel))
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	// 4. Start Background Services
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := container.Start(ctx); err != nil {
		log.Panicf("Unable to start analysis consumer: %v", err)
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		log.Println("Shutting down server...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// 6. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
