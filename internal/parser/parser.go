package parser

import (
	"context"
	"regexp"
	"strings"
	"time"

	"pabot/internal/models"
	"pabot/internal/timeparse"
)

var (
	// "remind @user to ..." or "remind me ..." at the start, any case
	prefixRe = regexp.MustCompile(`(?i)^remind\s+(@\w+|me)\s+(?:to\s+)?`)

	recurrenceRe = regexp.MustCompile(`(?i)every day|daily|every week|weekly`)
)

// Parsed is the structured form of a reminder command.
type Parsed struct {
	TargetUsername string             // empty means the sender
	Message        string             // recurrence keywords removed, trimmed
	RemindAt       *time.Time         // nil means no date found; first occurrence when recurring
	Recurrence     models.Recurrence
}

// Parser splits free text into recipient, message, time and recurrence
// without a fixed grammar, by searching for the longest trailing phrase the
// resolver accepts as a date.
type Parser struct {
	resolver timeparse.Resolver
}

func New(resolver timeparse.Resolver) *Parser {
	return &Parser{resolver: resolver}
}

func (p *Parser) Parse(ctx context.Context, text string, now time.Time) *Parsed {
	target := ""
	rest := text
	if m := prefixRe.FindStringSubmatch(text); m != nil {
		if !strings.EqualFold(m[1], "me") {
			target = strings.TrimPrefix(m[1], "@")
		}
		rest = text[len(m[0]):]
	}

	recur := detectRecurrence(rest)

	// Scan suffixes from the shortest: "4pm", then "at 4pm", then
	// "today at 4pm"... The longest suffix that still resolves is the date
	// phrase; the first failure after a success marks the boundary between
	// message and date.
	words := strings.Fields(rest)
	var best *time.Time
	split := len(words)
	for i := len(words) - 1; i >= 0; i-- {
		candidate := strings.Join(words[i:], " ")

		// A bare quantity like the "2" in "Buy 2 apples" is never a date.
		if isAllDigits(candidate) {
			continue
		}

		t, err := p.resolver.Resolve(ctx, candidate, now)
		if err != nil {
			if best != nil {
				break
			}
			continue
		}
		resolved := t
		best = &resolved
		split = i
	}

	var message string
	if best != nil {
		message = strings.Join(words[:split], " ")
	} else {
		message = rest
	}
	if recur != models.RecurNone {
		message = recurrenceRe.ReplaceAllString(message, "")
	}
	message = strings.TrimSpace(message)

	return &Parsed{
		TargetUsername: target,
		Message:        message,
		RemindAt:       best,
		Recurrence:     recur,
	}
}

func detectRecurrence(text string) models.Recurrence {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "every day") || strings.Contains(lower, "daily"):
		return models.RecurDaily
	case strings.Contains(lower, "every week") || strings.Contains(lower, "weekly"):
		return models.RecurWeekly
	}
	return models.RecurNone
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
