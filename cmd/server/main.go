/*
main.go - Application entry point

PURPOSE:
  Serves the intake tracker's JSON API to a local front-end.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load INTAKE_* environment, then apply command-line flags
  2. Initialize SQLite store
  3. Build the DayTracker
  4. Start the rollover scheduler (runs the first activation)
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: INTAKE_PORT or 8080)
  -db      SQLite database path (default: INTAKE_DB or intake.db)
  -tz      Reference time zone for day boundaries (default: INTAKE_TIMEZONE or UTC)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the scheduler
  2. Stop accepting new connections, wait for active requests (30s)
  3. Close database connection

SEE ALSO:
  - config/config.go: Environment variables
  - api/server.go: Router configuration
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/intake-engine/api"
	"github.com/warp/intake-engine/config"
	"github.com/warp/intake-engine/generic"
	"github.com/warp/intake-engine/hydration"
	"github.com/warp/intake-engine/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	zone := flag.String("tz", cfg.TimeZone, "IANA time zone that defines day boundaries")
	flag.Parse()
	cfg.Port, cfg.DBPath, cfg.TimeZone = *port, *dbPath, *zone

	calendar, err := cfg.Calendar()
	if err != nil {
		log.Fatalf("Invalid time zone: %v", err)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	defaults := cfg.Defaults()
	tracker, err := hydration.NewDayTracker(store, hydration.Options{
		Clock:    generic.SystemClock{},
		Calendar: calendar,
		Defaults: &defaults,
	})
	if err != nil {
		log.Fatalf("Failed to create tracker: %v", err)
	}
	tracker.Subscribe(hydration.ObserverFunc(func(c hydration.Change) {
		if c.Archived != nil {
			log.Printf("Archived %s: %d/%d ml", c.Archived.Day, c.Archived.Total, c.Archived.Target)
		}
	}))

	scheduler := api.NewRolloverScheduler(tracker)
	scheduler.CheckInterval = cfg.CheckInterval
	scheduler.Start()

	router := api.NewRouter(api.NewHandler(tracker), []string{
		"http://localhost:5173",
		fmt.Sprintf("http://localhost:%d", cfg.Port),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("localhost:%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%d (day zone %s)", cfg.Port, calendar.Location)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
