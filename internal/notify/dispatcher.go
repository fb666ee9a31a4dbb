package notify

import (
	"context"
	"sync"
	"time"

	"github.com/manav03panchal/plantcare/internal/config"
	"github.com/manav03panchal/plantcare/internal/logging"
	"github.com/manav03panchal/plantcare/internal/model"
)

// Dispatcher sends each notification to every configured notifier.
type Dispatcher struct {
	notifiers []Notifier
}

// NewDispatcher creates a dispatcher over notifiers.
func NewDispatcher(notifiers ...Notifier) *Dispatcher {
	return &Dispatcher{notifiers: notifiers}
}

// FromConfig builds the notifiers the reminder settings enable.
func FromConfig(reminder config.ReminderConfig, httpCfg config.HTTPConfig) (*Dispatcher, error) {
	var notifiers []Notifier

	if reminder.WebhookURL != "" {
		formatter, err := GetFormatter(reminder.WebhookFormat, reminder.WebhookTemplate)
		if err != nil {
			return nil, err
		}
		client := NewHTTPClient(httpCfg.Timeout, httpCfg.RetryDelays)
		notifiers = append(notifiers, NewWebhookNotifier(reminder.WebhookURL, formatter, client))
	}

	if reminder.TelegramToken != "" && reminder.TelegramChatID != 0 {
		tg, err := NewTelegramNotifier(reminder.TelegramToken, reminder.TelegramChatID)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, tg)
	}

	return NewDispatcher(notifiers...), nil
}

// Len returns the number of notifiers.
func (d *Dispatcher) Len() int {
	return len(d.notifiers)
}

// DispatchResult is the outcome for one notifier.
type DispatchResult struct {
	Notifier string
	Duration time.Duration
	Error    error
}

// Success reports whether delivery succeeded.
func (r DispatchResult) Success() bool {
	return r.Error == nil
}

// Send delivers n to all notifiers concurrently. Results keep notifier order.
func (d *Dispatcher) Send(ctx context.Context, n *model.Notification) []DispatchResult {
	if len(d.notifiers) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	results := make([]DispatchResult, len(d.notifiers))

	for i, notifier := range d.notifiers {
		wg.Add(1)
		go func(idx int, nt Notifier) {
			defer wg.Done()
			start := time.Now()
			err := nt.Notify(ctx, n)
			results[idx] = DispatchResult{Notifier: nt.Name(), Duration: time.Since(start), Error: err}
			if err != nil {
				logging.ErrorContext(ctx, "notification failed",
					logging.KeyNotifier, nt.Name(),
					logging.KeyPlantID, n.PlantID,
					logging.KeyError, err,
				)
			}
		}(i, notifier)
	}

	wg.Wait()
	return results
}

// SendTest sends a test notification everywhere.
func (d *Dispatcher) SendTest(ctx context.Context, now time.Time) []DispatchResult {
	n := model.NewNotification(model.NotifyTest,
		"plantcare test",
		"If you can read this, reminders will reach you here.",
	).WithField("Time", now.Format("3:04 PM"))
	n.Timestamp = now
	return d.Send(ctx, n)
}
