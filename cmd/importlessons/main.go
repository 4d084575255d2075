package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/aqsa08/training-mvp-backend/internal/app"
	"github.com/aqsa08/training-mvp-backend/internal/domain/lesson"
	"github.com/aqsa08/training-mvp-backend/internal/infra/config"
	idb "github.com/aqsa08/training-mvp-backend/internal/infra/database"
	"github.com/aqsa08/training-mvp-backend/internal/infra/logger"
)

func main() {
	mode := flag.String("mode", string(lesson.ImportModeUpsert), "import mode: upsert or skip")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: importlessons [--mode=upsert|skip] <lessons.json>")
		os.Exit(2)
	}
	filePath := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)
	log := logger.Get()

	data, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatalf("Could not read lesson file %s: %v", filePath, err)
	}

	lessons, err := app.ParseLessons(data)
	if err != nil {
		log.Fatalf("Invalid lesson file %s: %v", filePath, err)
	}

	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	defer db.Close()

	importService := app.NewImportService(idb.NewPostgresLessonRepository(db), log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	summary, err := importService.Import(ctx, lessons, lesson.ImportMode(*mode))
	if err != nil {
		log.Errorf("Import failed: %v", err)
		os.Exit(1)
	}

	fmt.Printf("Import complete: total=%d inserted=%d updated=%d skipped=%d\n",
		summary.Total, summary.Inserted, summary.Updated, summary.Skipped)
}
