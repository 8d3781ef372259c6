package core

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrCacheMiss is informational; lookups report misses as (zero, false).
	ErrCacheMiss             = errors.New("cache miss")
	ErrRateLimitExceeded     = errors.New("rate limit exceeded")
	ErrQuotaExhausted        = errors.New("provider quota exhausted")
	ErrExternalProvider      = errors.New("external provider error")
	ErrGenerativeUnavailable = errors.New("generative backend unavailable")
	ErrMalformedCorrection   = errors.New("malformed correction")
	ErrNotFound              = errors.New("not found")
)

// Rate gates, in evaluation order.
const (
	GateSpacing   = "spacing"
	GatePerMinute = "per_minute"
	GatePerHour   = "per_hour"
	GatePerDay    = "per_day"
	GateQuota     = "provider_quota"
)

type RateLimitError struct {
	Gate       string
	Reason     string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded (%s): %s", e.Gate, e.Reason)
}

func (e *RateLimitError) Is(target error) bool {
	if target == ErrRateLimitExceeded {
		return true
	}
	return e.Gate == GateQuota && target == ErrQuotaExhausted
}

type MalformedCorrectionError struct {
	Reason string
}

func (e *MalformedCorrectionError) Error() string {
	return "malformed correction: " + e.Reason
}

func (e *MalformedCorrectionError) Is(target error) bool {
	return target == ErrMalformedCorrection
}
