package parser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pabot/internal/models"
	"pabot/internal/timeparse"
)

var ist = time.FixedZone("IST", 5*3600+1800)

// fakeResolver resolves only the phrases it was given, like a real engine
// that accepts some suffixes and rejects others.
type fakeResolver struct {
	times map[string]time.Time
}

func (f *fakeResolver) Resolve(_ context.Context, phrase string, _ time.Time) (time.Time, error) {
	t, ok := f.times[phrase]
	if !ok {
		return time.Time{}, timeparse.ErrNoDate
	}
	return t, nil
}

func TestParseSelfReminder(t *testing.T) {
	at4pm := time.Date(2024, 1, 1, 16, 0, 0, 0, ist)
	p := New(&fakeResolver{times: map[string]time.Time{
		"4pm":    at4pm,
		"at 4pm": at4pm,
	}})

	parsed := p.Parse(context.Background(), "Remind me to check server at 4pm", time.Date(2024, 1, 1, 10, 0, 0, 0, ist))

	assert.Empty(t, parsed.TargetUsername)
	assert.Equal(t, "check server", parsed.Message)
	assert.Equal(t, models.RecurNone, parsed.Recurrence)
	require.NotNil(t, parsed.RemindAt)
	assert.True(t, parsed.RemindAt.Equal(at4pm))
}

func TestParseDelegatedScenario(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, ist)
	in20 := now.Add(20 * time.Minute)
	p := New(&fakeResolver{times: map[string]time.Time{
		"in 20 mins": in20,
	}})

	parsed := p.Parse(context.Background(), "Remind @john to submit report in 20 mins", now)

	assert.Equal(t, "john", parsed.TargetUsername)
	assert.Equal(t, "submit report", parsed.Message)
	assert.Equal(t, models.RecurNone, parsed.Recurrence)
	require.NotNil(t, parsed.RemindAt)
	assert.True(t, parsed.RemindAt.Equal(in20))
}

func TestParseDailyRecurrenceKeywordRemoved(t *testing.T) {
	now := time.Date(2024, 1, 1, 7, 0, 0, 0, ist)
	at9 := time.Date(2024, 1, 1, 9, 0, 0, 0, ist)
	p := New(&fakeResolver{times: map[string]time.Time{
		"at 9am": at9,
		"9am":    at9,
	}})

	parsed := p.Parse(context.Background(), "Remind @anna to water plants every day at 9am", now)

	assert.Equal(t, "anna", parsed.TargetUsername)
	assert.Equal(t, models.RecurDaily, parsed.Recurrence)
	assert.Equal(t, "water plants", parsed.Message)
	assert.NotContains(t, parsed.Message, "every day")
	require.NotNil(t, parsed.RemindAt)
	assert.True(t, parsed.RemindAt.Equal(at9))
}

func TestParseWeeklyRecurrence(t *testing.T) {
	now := time.Date(2024, 1, 1, 7, 0, 0, 0, ist)
	at5pm := time.Date(2024, 1, 5, 17, 0, 0, 0, ist)
	p := New(&fakeResolver{times: map[string]time.Time{
		"friday at 5pm": at5pm,
		"at 5pm":        at5pm,
		"5pm":           at5pm,
	}})

	parsed := p.Parse(context.Background(), "remind me to file timesheet every week friday at 5pm", now)

	assert.Equal(t, models.RecurWeekly, parsed.Recurrence)
	assert.Equal(t, "file timesheet", parsed.Message)
	require.NotNil(t, parsed.RemindAt)
}

func TestParseDailyWinsOverWeekly(t *testing.T) {
	p := New(&fakeResolver{times: map[string]time.Time{}})

	parsed := p.Parse(context.Background(), "remind me to stretch daily and weekly", time.Now())

	assert.Equal(t, models.RecurDaily, parsed.Recurrence)
}

func TestParseLongestValidSuffix(t *testing.T) {
	bare := time.Date(2024, 1, 1, 16, 0, 0, 0, ist)
	prefixed := time.Date(2024, 1, 1, 16, 30, 0, 0, ist)
	p := New(&fakeResolver{times: map[string]time.Time{
		"4pm":    bare,
		"at 4pm": prefixed,
	}})

	// "check at 4pm" does not resolve, so the boundary lands after
	// "Server check" and the longer "at 4pm" suffix wins over bare "4pm".
	parsed := p.Parse(context.Background(), "Server check at 4pm", time.Date(2024, 1, 1, 10, 0, 0, 0, ist))

	assert.Equal(t, "Server check", parsed.Message)
	require.NotNil(t, parsed.RemindAt)
	assert.True(t, parsed.RemindAt.Equal(prefixed))
}

func TestParseTrailingDigitsNeverADate(t *testing.T) {
	p := New(&fakeResolver{times: map[string]time.Time{
		// even a resolver that would accept "2" must never be asked
		"2": time.Date(2024, 2, 1, 0, 0, 0, 0, ist),
	}})

	parsed := p.Parse(context.Background(), "Remind me to buy apples 2", time.Date(2024, 1, 1, 10, 0, 0, 0, ist))

	assert.Nil(t, parsed.RemindAt)
	assert.Equal(t, "buy apples 2", parsed.Message)
}

func TestParseNoDateFound(t *testing.T) {
	p := New(&fakeResolver{times: map[string]time.Time{}})

	parsed := p.Parse(context.Background(), "Remind me to water plants", time.Now())

	assert.Nil(t, parsed.RemindAt)
	assert.Equal(t, "water plants", parsed.Message)
}

func TestParsePrefixCaseInsensitive(t *testing.T) {
	at2pm := time.Date(2024, 1, 1, 14, 0, 0, 0, ist)
	p := New(&fakeResolver{times: map[string]time.Time{
		"at 2pm": at2pm,
		"2pm":    at2pm,
	}})

	parsed := p.Parse(context.Background(), "REMIND ME TO nap at 2pm", time.Date(2024, 1, 1, 10, 0, 0, 0, ist))

	assert.Empty(t, parsed.TargetUsername)
	assert.Equal(t, "nap", parsed.Message)
	require.NotNil(t, parsed.RemindAt)
}

func TestParseWithoutPrefix(t *testing.T) {
	// No "remind" prefix at all: whole text is scanned for a date tail.
	at6 := time.Date(2024, 1, 1, 18, 0, 0, 0, ist)
	p := New(&fakeResolver{times: map[string]time.Time{
		"at 6pm": at6,
		"6pm":    at6,
	}})

	parsed := p.Parse(context.Background(), "Call the dentist at 6pm", time.Date(2024, 1, 1, 10, 0, 0, 0, ist))

	assert.Empty(t, parsed.TargetUsername)
	assert.Equal(t, "Call the dentist", parsed.Message)
	require.NotNil(t, parsed.RemindAt)
}
