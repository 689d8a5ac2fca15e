package reminders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pabot/internal/models"
	"pabot/internal/parser"
)

type fakeStore struct {
	created []*models.Reminder
	err     error
}

func (f *fakeStore) Create(_ context.Context, reminder *models.Reminder) error {
	if f.err != nil {
		return f.err
	}
	reminder.ID = int64(len(f.created) + 1)
	f.created = append(f.created, reminder)
	return nil
}

type fakeDirectory struct {
	entries map[string]int64
	saved   map[string]int64
}

func (f *fakeDirectory) Save(_ context.Context, username string, chatID int64) error {
	if f.saved == nil {
		f.saved = map[string]int64{}
	}
	f.saved[username] = chatID
	return nil
}

func (f *fakeDirectory) ChatID(_ context.Context, username string) (int64, bool, error) {
	chatID, ok := f.entries[username]
	return chatID, ok, nil
}

func parsedAt(t time.Time) *parser.Parsed {
	return &parser.Parsed{Message: "submit report", RemindAt: &t}
}

func TestCreateNoTime(t *testing.T) {
	svc := New(&fakeStore{}, &fakeDirectory{}, time.Minute)

	_, _, err := svc.Create(context.Background(), &parser.Parsed{Message: "submit report"}, 100, time.Now())

	assert.ErrorIs(t, err, ErrNoTime)
}

func TestCreatePastTime(t *testing.T) {
	store := &fakeStore{}
	svc := New(store, &fakeDirectory{}, time.Minute)
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	_, _, err := svc.Create(context.Background(), parsedAt(now.Add(-2*time.Minute)), 100, now)

	assert.ErrorIs(t, err, ErrPastTime)
	assert.Empty(t, store.created)
}

func TestCreateWithinGrace(t *testing.T) {
	store := &fakeStore{}
	svc := New(store, &fakeDirectory{}, time.Minute)
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	// 30 seconds late is processing delay, not a past time
	reminder, unknown, err := svc.Create(context.Background(), parsedAt(now.Add(-30*time.Second)), 100, now)

	require.NoError(t, err)
	assert.False(t, unknown)
	assert.Equal(t, models.StatusPending, reminder.Status)
}

func TestCreateSelfTarget(t *testing.T) {
	store := &fakeStore{}
	svc := New(store, &fakeDirectory{}, time.Minute)
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	reminder, unknown, err := svc.Create(context.Background(), parsedAt(now.Add(time.Hour)), 100, now)

	require.NoError(t, err)
	assert.False(t, unknown)
	assert.EqualValues(t, 100, reminder.CreatorID)
	assert.EqualValues(t, 100, reminder.TargetChatID)
	assert.Equal(t, models.StatusPending, reminder.Status)
	require.Len(t, store.created, 1)
}

func TestCreateKnownRecipient(t *testing.T) {
	store := &fakeStore{}
	dir := &fakeDirectory{entries: map[string]int64{"john": 200}}
	svc := New(store, dir, time.Minute)
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	parsed := parsedAt(now.Add(time.Hour))
	parsed.TargetUsername = "john"
	reminder, unknown, err := svc.Create(context.Background(), parsed, 100, now)

	require.NoError(t, err)
	assert.False(t, unknown)
	assert.EqualValues(t, 100, reminder.CreatorID)
	assert.EqualValues(t, 200, reminder.TargetChatID)
	assert.Equal(t, "john", reminder.TargetUsername)
}

func TestCreateUnknownRecipientFallsBackToSender(t *testing.T) {
	store := &fakeStore{}
	svc := New(store, &fakeDirectory{}, time.Minute)
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	parsed := parsedAt(now.Add(time.Hour))
	parsed.TargetUsername = "stranger"
	reminder, unknown, err := svc.Create(context.Background(), parsed, 100, now)

	require.NoError(t, err)
	assert.True(t, unknown)
	assert.EqualValues(t, 100, reminder.TargetChatID)
	assert.Equal(t, "stranger", reminder.TargetUsername)
	require.Len(t, store.created, 1)
}

func TestCreateKeepsFirstOccurrenceForRecurring(t *testing.T) {
	store := &fakeStore{}
	svc := New(store, &fakeDirectory{}, time.Minute)
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	first := now.Add(time.Hour)

	parsed := parsedAt(first)
	parsed.Recurrence = models.RecurDaily
	reminder, _, err := svc.Create(context.Background(), parsed, 100, now)

	require.NoError(t, err)
	assert.Equal(t, models.RecurDaily, reminder.Recurrence)
	assert.True(t, reminder.FireTime.Equal(first))
}

func TestTouchUser(t *testing.T) {
	dir := &fakeDirectory{}
	svc := New(&fakeStore{}, dir, time.Minute)

	require.NoError(t, svc.TouchUser(context.Background(), "john", 200))
	assert.EqualValues(t, 200, dir.saved["john"])

	// anonymous senders have no username to register
	require.NoError(t, svc.TouchUser(context.Background(), "", 300))
	assert.NotContains(t, dir.saved, "")
}
