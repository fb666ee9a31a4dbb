package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/manav03panchal/plantcare/internal/logging"
	"github.com/manav03panchal/plantcare/internal/model"
	"github.com/manav03panchal/plantcare/internal/notify"
	"github.com/manav03panchal/plantcare/internal/output"
	"github.com/manav03panchal/plantcare/internal/parser"
)

// PlantLister supplies the plants to check.
type PlantLister interface {
	List() ([]model.Plant, error)
}

// Sender delivers notifications.
type Sender interface {
	Send(ctx context.Context, n *model.Notification) []notify.DispatchResult
	Len() int
}

// CheckResult summarises one reminder pass.
type CheckResult struct {
	Checked  int
	Thirsty  []model.Plant
	Notified int
}

// ReminderChecker finds thirsty plants and notifies about each at most once
// per cooldown.
type ReminderChecker struct {
	plants    PlantLister
	sender    Sender
	threshold float64
	cooldown  time.Duration
	now       func() time.Time

	mu       sync.Mutex
	notified map[string]time.Time // plant id -> last successful reminder
}

// NewReminderChecker creates a checker.
func NewReminderChecker(plants PlantLister, sender Sender, threshold float64, cooldown time.Duration) *ReminderChecker {
	return &ReminderChecker{
		plants:    plants,
		sender:    sender,
		threshold: threshold,
		cooldown:  cooldown,
		now:       time.Now,
		notified:  make(map[string]time.Time),
	}
}

// Check runs one pass.
func (c *ReminderChecker) Check(ctx context.Context) (*CheckResult, error) {
	plants, err := c.plants.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list plants: %w", err)
	}

	now := c.now()
	for _, p := range plants {
		if !p.HasValidHealth() {
			logging.MalformedPlant(ctx, p.ID, "remind")
		}
	}

	result := &CheckResult{
		Checked: len(plants),
		Thirsty: FindThirsty(plants, now, c.threshold),
	}
	if c.sender == nil || c.sender.Len() == 0 {
		return result, nil
	}

	for _, p := range result.Thirsty {
		if !c.due(p.ID, now) {
			logging.DebugLog("reminder in cooldown", logging.KeyPlantID, p.ID)
			continue
		}
		if delivered(c.sender.Send(ctx, newReminder(p, now))) {
			c.markNotified(p.ID, now)
			result.Notified++
		}
	}

	logging.Info("reminder check complete",
		logging.KeyCount, result.Checked,
		"thirsty", len(result.Thirsty),
		"notified", result.Notified,
	)
	return result, nil
}

func (c *ReminderChecker) due(id string, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	last, ok := c.notified[id]
	return !ok || now.Sub(last) >= c.cooldown
}

func (c *ReminderChecker) markNotified(id string, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notified[id] = now
}

func delivered(results []notify.DispatchResult) bool {
	for _, r := range results {
		if r.Success() {
			return true
		}
	}
	return false
}

// newReminder builds the notification for a thirsty plant.
func newReminder(p model.Plant, now time.Time) *model.Notification {
	health := p.CurrentHealthAt(now)

	kind := model.NotifyThirsty
	title := fmt.Sprintf("%s %s needs water", p.Emoji, p.Name)
	if health < CriticalHealth {
		kind = model.NotifyCritical
		title = fmt.Sprintf("%s %s is wilting", p.Emoji, p.Name)
	}

	n := model.NewNotification(kind, title,
		fmt.Sprintf("Last watered %s.", output.FormatRelative(p.LastWatered, now)),
	).WithPlant(p.ID).
		WithField("Health", output.FormatHealth(health)).
		WithField("Status", model.StatusLabel(health)).
		WithField("Streak", fmt.Sprintf("%d", p.WateringStreak)).
		WithField("Schedule", parser.FormatFrequency(p.EffectiveFrequency()))
	n.Timestamp = now
	return n
}
