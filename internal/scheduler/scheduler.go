package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/example/phrasetrainer/internal/history"
	"github.com/example/phrasetrainer/pkg/models"
	"github.com/go-co-op/gocron"
)

// Default notification window (local hours).
const (
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 22
)

// Scheduler periodically counts due phrases in the ledger and pushes a
// reminder through the notifier.
type Scheduler struct {
	scheduler *gocron.Scheduler
	store     history.Store
	notifier  Notifier
}

// Notifier delivers a due-phrase reminder.
type Notifier interface {
	SendReminder(count int) error
}

// New creates a new scheduler instance
func New(store history.Store, notifier Notifier) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.Local),
		store:     store,
		notifier:  notifier,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	// Hourly due check, gated by the notification window
	s.scheduler.Every(1).Hour().Do(s.checkAndSendReminder)

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkAndSendReminder sends a reminder when phrases are due and the current
// hour is inside the notification window.
func (s *Scheduler) checkAndSendReminder() {
	currentHour := time.Now().Hour()

	startHour := DefaultNotificationStartHour
	endHour := DefaultNotificationEndHour

	if startHourStr := os.Getenv("NOTIFICATION_START_HOUR"); startHourStr != "" {
		if h, err := strconv.Atoi(startHourStr); err == nil && h >= 0 && h <= 23 {
			startHour = h
		}
	}
	if endHourStr := os.Getenv("NOTIFICATION_END_HOUR"); endHourStr != "" {
		if h, err := strconv.Atoi(endHourStr); err == nil && h >= 0 && h <= 23 {
			endHour = h
		}
	}

	if currentHour < startHour || currentHour > endHour {
		log.Printf("Current hour %d is outside notification hours (%d-%d), skipping reminder",
			currentHour, startHour, endHour)
		return
	}

	if err := s.RunManualCheck(); err != nil {
		log.Printf("Error sending reminder: %v", err)
	}
}

// RunManualCheck forces an immediate due check and reminder.
func (s *Scheduler) RunManualCheck() error {
	ledger, err := s.store.Load()
	if err != nil {
		return err
	}

	today := models.DateOnly(time.Now())
	count := 0
	for _, rec := range ledger {
		if rec.Due(today) {
			count++
		}
	}

	if count > 0 {
		return s.notifier.SendReminder(count)
	}
	return nil
}
