package timeparse

import (
	"context"
	"errors"
	"time"

	"github.com/markusmobius/go-dateparser"
)

// ErrNoDate is returned when a phrase contains no temporal content.
var ErrNoDate = errors.New("no date found")

// Resolver turns a free-text phrase into an absolute instant relative to now.
// Implementations must prefer the future: a bare time of day or weekday
// resolves to the nearest future occurrence, never the past. Resolution must
// be deterministic for a fixed (phrase, now) pair.
type Resolver interface {
	Resolve(ctx context.Context, phrase string, now time.Time) (time.Time, error)
}

// DateParser resolves phrases with the go-dateparser engine in a fixed
// timezone.
type DateParser struct {
	loc *time.Location
}

func NewDateParser(loc *time.Location) *DateParser {
	return &DateParser{loc: loc}
}

func (p *DateParser) Resolve(_ context.Context, phrase string, now time.Time) (time.Time, error) {
	cfg := &dateparser.Configuration{
		CurrentTime:         now.In(p.loc),
		DefaultTimezone:     p.loc,
		PreferredDateSource: dateparser.Future,
	}

	dt, err := dateparser.Parse(cfg, phrase)
	if err != nil || dt.Time.IsZero() {
		return time.Time{}, ErrNoDate
	}

	return dt.Time.In(p.loc), nil
}
