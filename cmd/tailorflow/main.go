// @title			TailorFlow API
// @version		1.0
// @description	Garment production tracking: orders, products and sequenced area tasks.
// @BasePath		/api/v1

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaronHenao/backend-tailorflow/internal/config"
	"github.com/aaronHenao/backend-tailorflow/internal/database"
	"github.com/aaronHenao/backend-tailorflow/internal/handler"
	"github.com/aaronHenao/backend-tailorflow/internal/jobs"
	"github.com/aaronHenao/backend-tailorflow/internal/logger"
	"github.com/aaronHenao/backend-tailorflow/internal/repository"
	"github.com/aaronHenao/backend-tailorflow/internal/service"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v2"
)

func main() {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "tailorflow",
		Usage: "Garment production tracker",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:     "database-url",
				Aliases:  []string{"d"},
				Value:    config.DefaultDatabaseURL,
				Usage:    "PostgreSQL database URL",
				EnvVars:  []string{"DATABASE_URL"},
				Required: true,
			},
			&cli.IntFlag{
				Name:    "delay-threshold-days",
				Value:   config.DefaultDelayThresholdDays,
				Usage:   "Days a task may stay IN_PROCESS before it is marked DELAYED",
				EnvVars: []string{"DELAY_THRESHOLD_DAYS"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the web server and the delay audit scheduler",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Value:   config.DefaultPort,
						Usage:   "HTTP server port",
						EnvVars: []string{"PORT"},
					},
					&cli.StringFlag{
						Name:    "delay-audit-schedule",
						Value:   config.DefaultDelayAuditSchedule,
						Usage:   "Cron expression for the delay audit job",
						EnvVars: []string{"DELAY_AUDIT_SCHEDULE"},
					},
				},
				Action: runServe,
			},
			{
				Name:   "audit-delays",
				Usage:  "Run one delay audit pass and exit",
				Action: runAuditDelays,
			},
		},
		Action: runServe,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func runServe(c *cli.Context) error {
	ctx := c.Context

	port := c.String("port")
	if port == "" {
		port = config.DefaultPort
	}
	databaseURL := c.String("database-url")

	db, err := database.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	h := handler.New(db.Pool())

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	scheduler, err := startDelayAudit(c, db)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "server_addr", "http://localhost:"+port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		scheduler.Stop()
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down server")
	}

	// Let an in-flight audit pass finish before closing the pool.
	<-scheduler.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// startDelayAudit registers the delay audit job on a cron scheduler and
// starts it.
func startDelayAudit(c *cli.Context, db *database.DB) (*cron.Cron, error) {
	taskService := newTaskService(db)

	threshold := time.Duration(c.Int("delay-threshold-days")) * 24 * time.Hour
	job, err := jobs.NewDelayAuditJob(taskService, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to create delay audit job: %w", err)
	}

	schedule := c.String("delay-audit-schedule")
	scheduler := cron.New()
	if _, err := scheduler.AddJob(schedule, job); err != nil {
		return nil, fmt.Errorf("invalid delay audit schedule %q: %w", schedule, err)
	}

	scheduler.Start()
	slog.Info("delay audit scheduled", "schedule", schedule, "threshold", threshold.String())
	return scheduler, nil
}

func runAuditDelays(c *cli.Context) error {
	ctx := c.Context
	databaseURL := c.String("database-url")

	db, err := database.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	taskService := newTaskService(db)
	threshold := time.Duration(c.Int("delay-threshold-days")) * 24 * time.Hour

	count, err := taskService.AuditDelays(ctx, threshold)
	if err != nil {
		return fmt.Errorf("delay audit failed: %w", err)
	}

	slog.Info("delay audit finished", "marked", count)
	return nil
}

func newTaskService(db *database.DB) *service.TaskService {
	pool := db.Pool()
	return service.NewTaskService(
		pool,
		repository.NewTaskRepository(pool),
		repository.NewProductRepository(pool),
		repository.NewOrderRepository(pool),
		repository.NewWorkerRepository(pool),
	)
}
