package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTimestampType is wrapped by every Error raised for an unknown timestamp selector.
var ErrInvalidTimestampType = errors.New("invalid timestamp type")

// Error is a fatal configuration problem. It aborts the whole run.
type Error struct {
	Field string
	Value string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// CheckTimestampType returns an *Error unless t is modify, change or access.
func CheckTimestampType(t string) error {
	switch t {
	case TimestampModify, TimestampChange, TimestampAccess:
		return nil
	}
	return &Error{Field: "timestampType", Value: t, Err: ErrInvalidTimestampType}
}

// Validate checks the fields a run cannot proceed without.
func (c *Config) Validate() error {
	if err := CheckTimestampType(c.TimestampType); err != nil {
		return err
	}
	if c.MaxAge < 0 {
		return &Error{Field: "maxAge", Value: fmt.Sprint(c.MaxAge), Err: errors.New("must not be negative")}
	}
	if c.MaxKeepDays < 0 {
		return &Error{Field: "maxKeepDays", Value: fmt.Sprint(c.MaxKeepDays), Err: errors.New("must not be negative")}
	}
	if c.Workers < 1 {
		return &Error{Field: "workers", Value: fmt.Sprint(c.Workers), Err: errors.New("must be at least 1")}
	}
	if c.TimestampSuffix.Enabled && c.TimestampSuffix.Format == "" {
		return &Error{Field: "timestampSuffix.format", Value: "", Err: errors.New("required when suffix is enabled")}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return &Error{Field: "logging.level", Value: c.Logging.Level, Err: errors.New("unknown log level")}
	}
	switch c.OpenFileProbe {
	case ProbeAuto, ProbeProcfs, ProbeLsof, ProbeNone:
	default:
		return &Error{Field: "openFileProbe", Value: c.OpenFileProbe, Err: errors.New("unknown probe mode")}
	}
	return nil
}
