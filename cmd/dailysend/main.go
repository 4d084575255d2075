package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aqsa08/training-mvp-backend/internal/app"
	"github.com/aqsa08/training-mvp-backend/internal/infra/config"
	idb "github.com/aqsa08/training-mvp-backend/internal/infra/database"
	"github.com/aqsa08/training-mvp-backend/internal/infra/logger"
	"github.com/aqsa08/training-mvp-backend/internal/infra/sms"
)

// One-shot dispatch run. Safe to invoke alongside the scheduled job or a
// second copy of itself: the reservation step guarantees each learner still
// gets at most one message per lesson.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)
	log := logger.Get()

	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	defer db.Close()

	dispatchStore := idb.NewPostgresDispatchStore(db)
	smsSender := sms.NewSenderFromConfig(cfg, log)
	dispatchService := app.NewDailyDispatchService(dispatchStore, smsSender, log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	result, err := dispatchService.Run(ctx)
	if err != nil {
		log.Errorf("Dispatch run failed: %v", err)
		os.Exit(1)
	}

	fmt.Printf("Dispatch complete: attempted=%d sent=%d\n", result.Attempted, result.Sent)
}
