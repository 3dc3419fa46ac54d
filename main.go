package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"security-monitor/confs"
	"security-monitor/db"
	"security-monitor/server"
)

func main() {
	// load config
	cfg, err := confs.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	database, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer database.Close()

	svc, err := server.NewServices(cfg, database)
	if err != nil {
		log.Fatalf("Failed to wire services: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.DBSeed {
		if err := svc.Seeder.Run(ctx); err != nil {
			log.Printf("Seeding finished with errors: %v", err)
		}
	}

	svc.AuditProcessor.Start(ctx)

	// run server
	if err := server.NewServer(cfg, svc).Start(ctx); err != nil {
		log.Printf("Server stopped: %v", err)
	}

	// the processor flushes its backlog once ctx is cancelled
	stop()
	svc.AuditProcessor.Wait()
}
