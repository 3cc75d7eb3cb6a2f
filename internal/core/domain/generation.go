package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxPromptLength bounds a TextPrompt in runes.
const MaxPromptLength = 2000

type GenerationStatus string

const (
	GenerationStatusCompleted GenerationStatus = "completed"
	GenerationStatusFailed    GenerationStatus = "failed"
)

// TextPrompt is the user-supplied description driving a generation.
type TextPrompt string

// Normalize trims surrounding whitespace and validates the prompt.
func (p TextPrompt) Normalize() (TextPrompt, error) {
	trimmed := strings.TrimSpace(string(p))
	if trimmed == "" {
		return "", ErrEmptyPrompt
	}
	if utf8.RuneCountInString(trimmed) > MaxPromptLength {
		return "", ErrPromptTooLong
	}
	return TextPrompt(trimmed), nil
}

func (p TextPrompt) String() string {
	return string(p)
}

// Generation is the persisted record of one pipeline run.
type Generation struct {
	ID             uuid.UUID        `json:"id"`
	CreatedAt      time.Time        `json:"created_at"`
	UserPrompt     string           `json:"user_prompt"`
	EnhancedPrompt string           `json:"enhanced_prompt"`
	ImagePath      string           `json:"image_path"`
	ModelPath      string           `json:"model_path"`
	ModelFormat    string           `json:"model_format"`
	Tags           string           `json:"tags"`
	Status         GenerationStatus `json:"status"`
	Error          string           `json:"error,omitempty"`
}

func (g *Generation) HasImage() bool {
	return g.ImagePath != ""
}

func (g *Generation) HasModel() bool {
	return g.ModelPath != ""
}

// TagList splits the comma-joined tag column.
func (g *Generation) TagList() []string {
	if g.Tags == "" {
		return []string{}
	}
	return strings.Split(g.Tags, ",")
}

// Period restricts history listings to a recent window.
type Period string

const (
	PeriodAll   Period = "all"
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod accepts the empty string as PeriodAll.
func ParsePeriod(s string) (Period, error) {
	switch Period(strings.ToLower(strings.TrimSpace(s))) {
	case "", PeriodAll:
		return PeriodAll, nil
	case PeriodDay:
		return PeriodDay, nil
	case PeriodWeek:
		return PeriodWeek, nil
	case PeriodMonth:
		return PeriodMonth, nil
	}
	return "", ErrInvalidPeriod
}

// Since returns the lower creation bound for the period relative to now.
// The zero time means unbounded.
func (p Period) Since(now time.Time) time.Time {
	switch p {
	case PeriodDay:
		return now.Add(-24 * time.Hour)
	case PeriodWeek:
		return now.AddDate(0, 0, -7)
	case PeriodMonth:
		return now.AddDate(0, -1, 0)
	}
	return time.Time{}
}
