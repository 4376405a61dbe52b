package notify

import "log"

// ConsoleNotifier logs reminders locally. Used when Telegram is not
// configured.
type ConsoleNotifier struct{}

// SendReminder logs the due count.
func (ConsoleNotifier) SendReminder(count int) error {
	log.Printf("Reminder: %d phrase(s) due for review", count)
	return nil
}
