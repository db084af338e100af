package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/config"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	appHTTP "github.com/cmlabs-hris/payroll-engine-go/internal/handler/http"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/cron"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/storage"
	"github.com/cmlabs-hris/payroll-engine-go/internal/repository/postgresql"
	payrollService "github.com/cmlabs-hris/payroll-engine-go/internal/service/payroll"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := appHTTP.NewLogger(cfg.SlogLevel(), cfg.App.Env)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), cfg.Database.MaxConns)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	payrollRepo := postgresql.NewPayrollRepository(db)
	salaryConfigRepo := postgresql.NewSalaryConfigRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)

	policy, err := payroll.ParseBatchPolicy(cfg.Payroll.BatchPolicy)
	if err != nil {
		return err
	}

	payrollSvc := payrollService.NewPayrollService(
		postgresql.NewTransactor(db),
		payrollRepo,
		salaryConfigRepo,
		employeeRepo,
		attendanceRepo,
		leaveRequestRepo,
		payrollService.Options{
			Workers:       cfg.Payroll.Workers,
			DefaultPolicy: policy,
		},
	)

	var jwtSvc jwt.Service
	if cfg.JWT.Secret != "" {
		jwtSvc = jwt.NewJWTService(cfg.JWT.Secret)
	} else {
		slog.Warn("JWT_SECRET_KEY not set, payroll endpoints are unauthenticated")
	}

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	router := appHTTP.NewRouter(appHTTP.RouterOptions{
		Logger:                     logger,
		AllowedOrigins:             cfg.App.CORSAllowedOrigins,
		JWTService:                 jwtSvc,
		GenerateRateLimitPerMinute: cfg.Payroll.RateLimitPerMinute,
	}, payrollHandler)

	if cfg.Payroll.ScheduleEnabled {
		scheduler := cron.NewScheduler()
		var reports storage.ReportStorage
		if cfg.Payroll.ReportDir != "" {
			local, err := storage.NewLocalStorage(cfg.Payroll.ReportDir)
			if err != nil {
				return fmt.Errorf("failed to open report storage: %w", err)
			}
			reports = local
		}
		cron.NewPayrollJobs(payrollSvc, reports, cfg.Payroll.ScheduleDay, cfg.Payroll.ScheduleInterval).RegisterJobs(scheduler)
		scheduler.Start()
		defer scheduler.Stop()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
