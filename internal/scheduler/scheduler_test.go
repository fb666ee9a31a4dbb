package scheduler

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/plantcare/internal/model"
	"github.com/manav03panchal/plantcare/internal/notify"
	"github.com/manav03panchal/plantcare/internal/storage"
)

var now = time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *storage.DB {
	db, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func plantAt(name string, daysAgo, freq float64) model.Plant {
	return model.NewPlantAt(name, "", "", freq, now.Add(-time.Duration(daysAgo*24*float64(time.Hour))))
}

type fakeSender struct {
	mu   sync.Mutex
	sent []*model.Notification
	fail bool
}

func (f *fakeSender) Send(ctx context.Context, n *model.Notification) []notify.DispatchResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
	if f.fail {
		return []notify.DispatchResult{{Notifier: "fake", Error: errors.New("down")}}
	}
	return []notify.DispatchResult{{Notifier: "fake"}}
}

func (f *fakeSender) Len() int { return 1 }

type staticLister []model.Plant

func (s staticLister) List() ([]model.Plant, error) { return s, nil }

type failingLister struct{}

func (failingLister) List() ([]model.Plant, error) { return nil, errors.New("db closed") }

// =============================================================================
// FindThirsty Tests
// =============================================================================

func TestFindThirsty(t *testing.T) {
	fresh := plantAt("Fresh", 1, 3)
	due := plantAt("Due", 3, 3)
	overdue := plantAt("Overdue", 8, 3)
	weak := plantAt("Weak", 0, 7)
	weak.HealthScore = 30

	thirsty := FindThirsty([]model.Plant{fresh, due, overdue, weak}, now, 40)
	require.Len(t, thirsty, 3)
	assert.Equal(t, "Weak", thirsty[0].Name)
	assert.Equal(t, "Overdue", thirsty[1].Name)
	assert.Equal(t, "Due", thirsty[2].Name)
}

func TestFindThirstyTieBreaks(t *testing.T) {
	a := plantAt("basil", 4, 3)
	b := plantAt("Aloe", 4, 3)
	c := plantAt("Cactus", 5.5, 3)

	thirsty := FindThirsty([]model.Plant{a, b, c}, now, 0)
	require.Len(t, thirsty, 3)
	assert.Equal(t, "Cactus", thirsty[0].Name)
	assert.Equal(t, "Aloe", thirsty[1].Name)
	assert.Equal(t, "basil", thirsty[2].Name)
}

func TestIsThirstyMalformed(t *testing.T) {
	p := plantAt("Ghost", 0, 3)
	p.HealthScore = math.NaN()
	assert.True(t, IsThirsty(p, now, 0))
}

func TestFindThirstyNone(t *testing.T) {
	assert.Empty(t, FindThirsty([]model.Plant{plantAt("Fine", 1, 3)}, now, 40))
	assert.Empty(t, FindThirsty(nil, now, 40))
}

// =============================================================================
// ReminderChecker Tests
// =============================================================================

func newChecker(lister PlantLister, sender Sender, cooldown time.Duration) (*ReminderChecker, *time.Time) {
	clock := now
	c := NewReminderChecker(lister, sender, 40, cooldown)
	c.now = func() time.Time { return clock }
	return c, &clock
}

func TestReminderCheckerNotifies(t *testing.T) {
	db := setupTestDB(t)
	repo := storage.NewPlantRepo(db)
	require.NoError(t, repo.Create(plantAt("Monty", 5, 3)))
	require.NoError(t, repo.Create(plantAt("Fern", 1, 3)))

	sender := &fakeSender{}
	c, _ := newChecker(repo, sender, 12*time.Hour)

	res, err := c.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Checked)
	require.Len(t, res.Thirsty, 1)
	assert.Equal(t, 1, res.Notified)

	require.Len(t, sender.sent, 1)
	n := sender.sent[0]
	assert.Equal(t, model.NotifyThirsty, n.Type)
	assert.Equal(t, res.Thirsty[0].ID, n.PlantID)
	assert.Contains(t, n.Title, "Monty")
	assert.Equal(t, "90/100", n.Fields["Health"])
	assert.Equal(t, now, n.Timestamp)
}

func TestReminderCheckerCritical(t *testing.T) {
	p := plantAt("Droopy", 25, 3)
	sender := &fakeSender{}
	c, _ := newChecker(staticLister{p}, sender, time.Hour)

	_, err := c.Check(context.Background())
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, model.NotifyCritical, sender.sent[0].Type)
}

func TestReminderCheckerCooldown(t *testing.T) {
	sender := &fakeSender{}
	c, clock := newChecker(staticLister{plantAt("Monty", 5, 3)}, sender, 12*time.Hour)
	ctx := context.Background()

	res, err := c.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Notified)

	*clock = now.Add(6 * time.Hour)
	res, err = c.Check(ctx)
	require.NoError(t, err)
	assert.Len(t, res.Thirsty, 1)
	assert.Equal(t, 0, res.Notified)

	*clock = now.Add(12 * time.Hour)
	res, err = c.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Notified)
	assert.Len(t, sender.sent, 2)
}

func TestReminderCheckerFailedDeliveryRetriesNextRun(t *testing.T) {
	sender := &fakeSender{fail: true}
	c, _ := newChecker(staticLister{plantAt("Monty", 5, 3)}, sender, 12*time.Hour)
	ctx := context.Background()

	res, err := c.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Notified)

	sender.fail = false
	res, err = c.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Notified)
}

func TestReminderCheckerWithoutNotifiers(t *testing.T) {
	c, _ := newChecker(staticLister{plantAt("Monty", 5, 3)}, notify.NewDispatcher(), time.Hour)

	res, err := c.Check(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Thirsty, 1)
	assert.Equal(t, 0, res.Notified)
}

func TestReminderCheckerListError(t *testing.T) {
	c, _ := newChecker(failingLister{}, &fakeSender{}, time.Hour)
	_, err := c.Check(context.Background())
	assert.Error(t, err)
}

// =============================================================================
// Scheduler Tests
// =============================================================================

func TestNewSchedulerRejectsBadSpec(t *testing.T) {
	c, _ := newChecker(staticLister{}, &fakeSender{}, time.Hour)

	_, err := NewScheduler(c, "every morning")
	assert.Error(t, err)

	_, err = NewScheduler(c, "0 9 * * *")
	assert.Error(t, err, "five-field specs lack the seconds column")
}

func TestSchedulerNextRun(t *testing.T) {
	c, _ := newChecker(staticLister{}, &fakeSender{}, time.Hour)
	s, err := NewScheduler(c, "0 0 9 * * *")
	require.NoError(t, err)

	next := s.NextRun()
	assert.Equal(t, 9, next.Hour())
	assert.Equal(t, 0, next.Minute())
	assert.True(t, next.After(time.Now()))
}

func TestSchedulerStartStop(t *testing.T) {
	sender := &fakeSender{}
	c, _ := newChecker(staticLister{plantAt("Monty", 5, 3)}, sender, time.Hour)
	s, err := NewScheduler(c, "@every 1s")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Start(ctx))

	assert.Eventually(t, func() bool {
		sender.mu.Lock()
		defer sender.mu.Unlock()
		return len(sender.sent) > 0
	}, 5*time.Second, 50*time.Millisecond)

	s.Stop()
}

func TestSchedulerRunOnce(t *testing.T) {
	sender := &fakeSender{}
	c, _ := newChecker(staticLister{plantAt("Monty", 5, 3)}, sender, time.Hour)
	s, err := NewScheduler(c, "0 0 9 * * *")
	require.NoError(t, err)

	res, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Notified)
}
