package background

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"wasteflow/internal/services"
)

// JobScheduler runs the subscription lifecycle sweeps and audit retention
// cleanup on fixed schedules.
type JobScheduler struct {
	scheduler gocron.Scheduler
	subSvc    services.SubscriptionService
	auditSvc  services.AuditService
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

func NewJobScheduler(subSvc services.SubscriptionService, auditSvc services.AuditService) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		subSvc:    subSvc,
		auditSvc:  auditSvc,
		jobs:      make(map[string]gocron.Job),
	}
	js.registerJobs()
	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	// Trial reminders - daily, early morning UTC
	reminderJob, err := js.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(8, 0, 0))),
		gocron.NewTask(js.runTrialReminders, context.Background()),
		gocron.WithName("trial-expiry-reminder"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create trial reminder job: %v", err)
	} else {
		js.jobs["trial-expiry-reminder"] = reminderJob
	}

	// Trial expiration - daily, after the reminder pass
	expirationJob, err := js.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(9, 0, 0))),
		gocron.NewTask(js.runTrialExpiration, context.Background()),
		gocron.WithName("trial-expiration"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create trial expiration job: %v", err)
	} else {
		js.jobs["trial-expiration"] = expirationJob
	}

	// Monthly invoices - first of every month
	invoiceJob, err := js.scheduler.NewJob(
		gocron.MonthlyJob(1, gocron.NewDaysOfTheMonth(1), gocron.NewAtTimes(gocron.NewAtTime(6, 0, 0))),
		gocron.NewTask(js.runMonthlyInvoices, context.Background()),
		gocron.WithName("monthly-invoices"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create monthly invoice job: %v", err)
	} else {
		js.jobs["monthly-invoices"] = invoiceJob
	}

	// Audit log retention - weekly
	cleanupJob, err := js.scheduler.NewJob(
		gocron.WeeklyJob(1, gocron.NewWeekdays(time.Sunday), gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0))),
		gocron.NewTask(js.runAuditCleanup, context.Background()),
		gocron.WithName("audit-log-cleanup"),
	)
	if err != nil {
		log.Printf("Failed to create audit cleanup job: %v", err)
	} else {
		js.jobs["audit-log-cleanup"] = cleanupJob
	}

	log.Printf("Registered %d background jobs", len(js.jobs))
}

func (js *JobScheduler) runTrialReminders(ctx context.Context) {
	sent, err := js.subSvc.SendTrialReminders(ctx)
	if err != nil {
		log.Printf("Trial reminder sweep failed: %v", err)
		return
	}
	log.Printf("Trial reminder sweep complete, %d reminder(s) sent", sent)
}

func (js *JobScheduler) runTrialExpiration(ctx context.Context) {
	expired, err := js.subSvc.ExpireTrials(ctx)
	if err != nil {
		log.Printf("Trial expiration sweep failed: %v", err)
		return
	}
	log.Printf("Trial expiration sweep complete, %d trial(s) expired", expired)
}

func (js *JobScheduler) runMonthlyInvoices(ctx context.Context) {
	created, err := js.subSvc.GenerateMonthlyInvoices(ctx)
	if err != nil {
		log.Printf("Monthly invoice sweep failed: %v", err)
		return
	}
	log.Printf("Monthly invoice sweep complete, %d invoice(s) created", created)
}

func (js *JobScheduler) runAuditCleanup(ctx context.Context) {
	removed, err := js.auditSvc.CleanupExpired(ctx)
	if err != nil {
		log.Printf("Audit cleanup sweep failed: %v", err)
		return
	}
	log.Printf("Audit cleanup sweep complete, %d entr(ies) removed", removed)
}
