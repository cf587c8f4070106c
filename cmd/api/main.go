package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/adherence-engine-go/internal/config"
	appHTTP "github.com/cmlabs-hris/adherence-engine-go/internal/handler/http"
	"github.com/cmlabs-hris/adherence-engine-go/internal/pkg/cron"
	"github.com/cmlabs-hris/adherence-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/adherence-engine-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/adherence-engine-go/internal/service/adherence"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	eventRepo := postgresql.NewEventRepository(db)
	scheduleRepo := postgresql.NewScheduleRepository(db)
	exceptionRepo := postgresql.NewExceptionRepository(db)
	summaryRepo := postgresql.NewSummaryRepository(db)

	engine := adherence.NewEngine(eventRepo, scheduleRepo, exceptionRepo, summaryRepo, adherence.Options{
		UTCOffsetMinutes:      cfg.Engine.UTCOffsetMinutes,
		BatchSize:             cfg.Engine.BatchSize,
		BreakToleranceMinutes: cfg.Engine.BreakToleranceMinutes,
	})

	scheduler := cron.NewScheduler()
	adherenceJobs := cron.NewAdherenceJobs(engine)
	adherenceJobs.RegisterJobs(scheduler, cfg.Engine.RecomputeInterval)
	scheduler.Start()
	defer scheduler.Stop()

	adherenceHandler := appHTTP.NewAdherenceHandler(engine, summaryRepo)
	router := appHTTP.NewRouter(adherenceHandler, cfg.App.Env)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("Server running", "addr", "http://localhost"+port)
	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}
