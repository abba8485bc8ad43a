package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/studyplan/internal/database"
	"github.com/example/studyplan/internal/excel"
	"github.com/example/studyplan/internal/scheduler"
	"github.com/example/studyplan/internal/study"
	"github.com/joho/godotenv"
)

func main() {
	importFile := flag.String("import", "", "import subtopics from an Excel or CSV file and exit")
	flag.Parse()

	// Load .env if present; real environment wins over file values
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if *importFile != "" {
		config := excel.DefaultImportConfig()
		config.FilePath = *importFile
		result, err := excel.ImportSubtopics(context.Background(), config)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		log.Printf("Import finished: %d processed, %d created, %d updated, %d skipped",
			result.TotalProcessed, result.Created, result.Updated, result.Skipped)
		for _, e := range result.Errors {
			log.Printf("Import error: %s", e)
		}
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	service := study.NewService()
	sched := scheduler.New(service, scheduler.LogNotifier{})
	sched.Start()

	log.Println("Study planner started. Press Ctrl+C to stop.")

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
	case <-ctx.Done():
	}

	sched.Stop()
	log.Println("Study planner stopped successfully")
}
