package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/crediq/loan-api/internal/config"
	"github.com/crediq/loan-api/internal/repository"
	"github.com/crediq/loan-api/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logrus.New()
	if cfg.Logging.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	log.Info("Starting loan scheduler...")

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	installments := repository.NewInstallmentRepository(db)

	c := cron.New(cron.WithSeconds())

	// Daily overdue report at midnight
	_, err = c.AddFunc("0 0 0 * * *", func() {
		reportOverdueInstallments(log, installments)
	})
	if err != nil {
		log.Fatalf("Error scheduling overdue report job: %v", err)
	}

	c.Start()
	log.Info("Scheduler started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down scheduler...")
	c.Stop()
	log.Info("Scheduler stopped")
}

// reportOverdueInstallments logs every unpaid installment past its due
// date, grouped per loan, with the days overdue.
func reportOverdueInstallments(log *logrus.Logger, installments repository.InstallmentRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	today := utils.DateOnly(time.Now())
	overdue, err := installments.GetOverdue(ctx, today)
	if err != nil {
		log.WithError(err).Error("overdue scan failed")
		return
	}

	if len(overdue) == 0 {
		log.Info("overdue scan: no overdue installments")
		return
	}

	perLoan := make(map[string]int)
	for _, installment := range overdue {
		perLoan[installment.LoanID.String()]++
		log.WithFields(logrus.Fields{
			"loan_id":        installment.LoanID,
			"installment_id": installment.ID,
			"due_date":       installment.DueDate.Format("2006-01-02"),
			"days_overdue":   utils.DaysBetween(installment.DueDate, today),
			"amount":         installment.Amount.StringFixed(2),
		}).Warn("installment overdue")
	}

	log.WithFields(logrus.Fields{
		"installments": len(overdue),
		"loans":        len(perLoan),
	}).Info("overdue scan completed")
}
