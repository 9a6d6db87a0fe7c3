package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/lookman/lending-engine/internal/auth"
	"github.com/lookman/lending-engine/internal/config"
	"github.com/lookman/lending-engine/internal/handler"
	"github.com/lookman/lending-engine/internal/repository"
	"github.com/lookman/lending-engine/internal/service"
	"github.com/lookman/lending-engine/pkg/response"
)

func main() {
	// Load .env if present, real environments set variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	redisClient := initRedis(cfg)
	defer redisClient.Close()

	store := repository.NewStore(db)
	loanRepo := repository.NewLoanRepository()
	paymentRepo := repository.NewPaymentRepository()
	borrowerRepo := repository.NewBorrowerRepository()
	userRepo := repository.NewUserRepository()
	salaryRepo := repository.NewSalaryRepository()

	clock := service.NewClock()
	jwtManager := auth.NewJWTManager(cfg.JWT)

	statusService := service.NewStatusService(store, loanRepo, paymentRepo, clock)
	loanService := service.NewLoanService(store, loanRepo, paymentRepo, borrowerRepo, clock,
		cfg.GetDefaultInterestRate(), cfg.Business.DefaultDurationDays)
	paymentService := service.NewPaymentService(store, loanRepo, paymentRepo, statusService,
		redisClient, cfg.Redis.OutstandingTTL, clock)
	borrowerService := service.NewBorrowerService(store, borrowerRepo)
	salaryService := service.NewSalaryService(store, salaryRepo, paymentRepo, userRepo, clock,
		cfg.GetDefaultBaseSalary(), cfg.GetDefaultCommissionRate())
	reportService := service.NewReportService(store, loanRepo, paymentRepo, borrowerRepo,
		salaryRepo, userRepo, clock)
	authService := service.NewAuthService(store, userRepo, jwtManager)

	authHandler := handler.NewAuthHandler(authService)
	loanHandler := handler.NewLoanHandler(loanService, paymentService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	borrowerHandler := handler.NewBorrowerHandler(borrowerService)
	reportHandler := handler.NewReportHandler(reportService)
	salaryHandler := handler.NewSalaryHandler(salaryService)
	automationHandler := handler.NewAutomationHandler(statusService, salaryService)
	healthHandler := handler.NewHealthHandler(db, redisClient)
	authMiddleware := handler.NewAuthMiddleware(jwtManager)

	router := setupRoutes(
		authHandler,
		loanHandler,
		paymentHandler,
		borrowerHandler,
		reportHandler,
		salaryHandler,
		automationHandler,
		healthHandler,
		authMiddleware,
	)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(
	authHandler *handler.AuthHandler,
	loanHandler *handler.LoanHandler,
	paymentHandler *handler.PaymentHandler,
	borrowerHandler *handler.BorrowerHandler,
	reportHandler *handler.ReportHandler,
	salaryHandler *handler.SalaryHandler,
	automationHandler *handler.AutomationHandler,
	healthHandler *handler.HealthHandler,
	authMiddleware *handler.AuthMiddleware,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware)
	router.Use(handler.MetricsMiddleware)

	// Health checks and metrics stay outside authentication
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Everything below requires a valid token
	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware.Authenticate)

	protected.HandleFunc("/auth/change-password", authHandler.ChangePassword).Methods("POST")
	protected.HandleFunc("/auth/profile", authHandler.Profile).Methods("GET")

	protected.HandleFunc("/borrowers", borrowerHandler.CreateBorrower).Methods("POST")
	protected.HandleFunc("/borrowers", borrowerHandler.ListBorrowers).Methods("GET")
	protected.HandleFunc("/borrowers/{borrowerId}", borrowerHandler.GetBorrower).Methods("GET")
	protected.HandleFunc("/borrowers/{borrowerId}", borrowerHandler.UpdateBorrower).Methods("PUT")
	protected.HandleFunc("/borrowers/{borrowerId}", borrowerHandler.DeleteBorrower).Methods("DELETE")

	protected.HandleFunc("/loans", loanHandler.CreateLoan).Methods("POST")
	protected.HandleFunc("/loans", loanHandler.ListLoans).Methods("GET")
	protected.HandleFunc("/loans/{loanId}", loanHandler.GetLoan).Methods("GET")
	protected.HandleFunc("/loans/{loanId}", loanHandler.DeleteLoan).Methods("DELETE")
	protected.HandleFunc("/loans/{loanId}/financials", loanHandler.ReviseFinancials).Methods("PUT")
	protected.HandleFunc("/loans/{loanId}/status", loanHandler.UpdateStatus).Methods("PUT")
	protected.HandleFunc("/loans/{loanId}/schedule", loanHandler.GetSchedule).Methods("GET")
	protected.HandleFunc("/loans/{loanId}/outstanding", loanHandler.GetOutstanding).Methods("GET")

	protected.HandleFunc("/payments", paymentHandler.RecordPayment).Methods("POST")
	protected.HandleFunc("/payments", paymentHandler.ListPayments).Methods("GET")
	protected.HandleFunc("/payments/today", paymentHandler.TodayPayments).Methods("GET")
	protected.HandleFunc("/payments/{paymentId}", paymentHandler.GetPayment).Methods("GET")
	protected.HandleFunc("/payments/{paymentId}", paymentHandler.UpdatePayment).Methods("PUT")
	protected.HandleFunc("/payments/{paymentId}", paymentHandler.DeletePayment).Methods("DELETE")

	protected.HandleFunc("/reports/daily-collections", reportHandler.DailyCollections).Methods("GET")
	protected.HandleFunc("/reports/outstanding-loans", reportHandler.OutstandingLoans).Methods("GET")
	protected.HandleFunc("/reports/loans-summary", reportHandler.LoansSummary).Methods("GET")
	protected.HandleFunc("/reports/performance", reportHandler.Performance).Methods("GET")

	// Admin-only surface
	admin := protected.NewRoute().Subrouter()
	admin.Use(authMiddleware.RequireAdmin)

	admin.HandleFunc("/users", authHandler.CreateUser).Methods("POST")
	admin.HandleFunc("/users", authHandler.ListUsers).Methods("GET")
	admin.HandleFunc("/reports/profit-loss", reportHandler.ProfitLoss).Methods("GET")
	admin.HandleFunc("/reports/monthly-summary", reportHandler.MonthlySummary).Methods("GET")
	admin.HandleFunc("/salaries", salaryHandler.ListSalaries).Methods("GET")
	admin.HandleFunc("/automation/trigger-overdue-check", automationHandler.TriggerOverdueCheck).Methods("POST")
	admin.HandleFunc("/automation/calculate-salaries", automationHandler.TriggerSalaryCalculation).Methods("POST")

	return router
}
