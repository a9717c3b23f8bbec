package types

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimeString некорректный формат времени
var ErrInvalidTimeString = errors.New("invalid time string format")

const layout = "15:04"

// TimeString время суток в формате "HH:MM".
// Значение "24:00" допустимо и обозначает конец суток.
type TimeString string

// NewTimeStringFromString разбирает и валидирует строку "HH:MM"
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// NewTimeStringFromDuration строит время суток из смещения от полуночи
func NewTimeStringFromDuration(d time.Duration) (TimeString, error) {
	if d < 0 || d > 24*time.Hour {
		return "", fmt.Errorf("%w: offset %s out of day", ErrInvalidTimeString, d)
	}
	minutes := int(d / time.Minute)
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)), nil
}

// Validate проверяет формат
func (t TimeString) Validate() error {
	if t == "24:00" {
		return nil
	}
	if _, err := time.Parse(layout, string(t)); err != nil || len(t) != len(layout) {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return nil
}

// IsZero true, если время не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// Duration смещение от полуночи
func (t TimeString) Duration() (time.Duration, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	if t == "24:00" {
		return 24 * time.Hour, nil
	}
	parsed, _ := time.Parse(layout, string(t))
	return time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute, nil
}

func (t TimeString) String() string {
	return string(t)
}
