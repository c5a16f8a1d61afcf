package background

import (
	"context"
	"log"
	"sync"
	"time"

	"landledger/internal/repositories"
	"landledger/internal/services"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler runs the periodic maintenance jobs: expired reset-token
// purge and the past-due payment sweep.
type JobScheduler struct {
	scheduler  gocron.Scheduler
	tokenRepo  repositories.ResetTokenRepository
	paymentSvc services.PaymentService
	jobs       map[string]gocron.Job
	mu         sync.RWMutex
}

func NewJobScheduler(tokenRepo repositories.ResetTokenRepository, paymentSvc services.PaymentService) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:  scheduler,
		tokenRepo:  tokenRepo,
		paymentSvc: paymentSvc,
		jobs:       make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	js.mu.Lock()
	defer js.mu.Unlock()

	// Expired tokens are filtered out of every lookup anyway; the purge
	// just keeps the table from growing unbounded.
	tokenJob, err := js.scheduler.NewJob(
		gocron.DurationJob(time.Hour),
		gocron.NewTask(js.purgeExpiredResetTokens, context.Background()),
		gocron.WithName("reset-token-purge"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create reset-token purge job: %v", err)
	} else {
		js.jobs["reset-token-purge"] = tokenJob
	}

	pastDueJob, err := js.scheduler.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(js.sweepPastDuePayments, context.Background()),
		gocron.WithName("payment-past-due-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create past-due sweep job: %v", err)
	} else {
		js.jobs["payment-past-due-sweep"] = pastDueJob
	}
}

func (js *JobScheduler) purgeExpiredResetTokens(ctx context.Context) {
	deleted, err := js.tokenRepo.DeleteExpired(ctx)
	if err != nil {
		log.Printf("Reset-token purge failed: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("Purged %d expired reset tokens", deleted)
	}
}

func (js *JobScheduler) sweepPastDuePayments(ctx context.Context) {
	updated, err := js.paymentSvc.MarkPastDue(ctx)
	if err != nil {
		log.Printf("Past-due payment sweep failed: %v", err)
		return
	}
	if updated > 0 {
		log.Printf("Marked %d payments past due", updated)
	}
}
