package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"github.com/lookman/lending-engine/internal/config"
	"github.com/lookman/lending-engine/internal/repository"
	"github.com/lookman/lending-engine/internal/service"
)

func main() {
	log.Println("Starting lending scheduler...")

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	store := repository.NewStore(db)
	loanRepo := repository.NewLoanRepository()
	paymentRepo := repository.NewPaymentRepository()
	clock := service.NewClock()

	statusService := service.NewStatusService(store, loanRepo, paymentRepo, clock)
	salaryService := service.NewSalaryService(
		store,
		repository.NewSalaryRepository(),
		paymentRepo,
		repository.NewUserRepository(),
		clock,
		cfg.GetDefaultBaseSalary(),
		cfg.GetDefaultCommissionRate(),
	)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatalf("Invalid scheduler timezone %q: %v", cfg.Scheduler.Timezone, err)
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	if err := setupCronJobs(c, cfg, statusService, salaryService); err != nil {
		log.Fatalf("Failed to schedule jobs: %v", err)
	}

	c.Start()
	log.Println("Scheduler started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	<-c.Stop().Done()
	log.Println("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, statusService *service.StatusService, salaryService *service.SalaryService) error {
	// Daily sweep that lapses active loans past their expected end date
	_, err := c.AddFunc(cfg.Scheduler.SweepSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		log.Println("Running daily overdue loan sweep...")
		marked, err := statusService.Sweep(ctx)
		if err != nil {
			log.Printf("Overdue sweep failed: %v", err)
			return
		}
		log.Printf("Overdue sweep completed, %d loans marked overdue", marked)
	})
	if err != nil {
		return err
	}

	// Monthly payroll close: settles the previous month's officer salaries
	_, err = c.AddFunc(cfg.Scheduler.SalarySpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		log.Println("Running monthly salary calculation...")
		settled, err := salaryService.SettlePreviousMonth(ctx)
		if err != nil {
			log.Printf("Salary calculation failed: %v", err)
			return
		}
		log.Printf("Salary calculation completed, %d officers settled", settled)
	})
	if err != nil {
		return err
	}

	log.Println("Cron jobs scheduled successfully")
	return nil
}
