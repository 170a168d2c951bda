package form

import "time"

// DateBoundary selects how a date equal to today is treated.
type DateBoundary string

const (
	// DateInclusive accepts today and later dates.
	DateInclusive DateBoundary = "inclusive"
	// DateExclusive accepts only dates after today.
	DateExclusive DateBoundary = "exclusive"
)

// ParseDateBoundary maps configuration strings onto a DateBoundary.
func ParseDateBoundary(raw string) (DateBoundary, bool) {
	switch DateBoundary(raw) {
	case DateInclusive, "":
		return DateInclusive, true
	case DateExclusive:
		return DateExclusive, true
	default:
		return "", false
	}
}

// Clock returns the current time. Its location decides what "today" means.
type Clock func() time.Time

// Option configures interpreters, validators and sessions.
type Option func(*config)

type config struct {
	clock    Clock
	boundary DateBoundary
}

func newConfig(options []Option) config {
	cfg := config{
		clock:    time.Now,
		boundary: DateInclusive,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

// WithClock overrides the time source used for date defaults and checks.
func WithClock(clock Clock) Option {
	return func(cfg *config) {
		if clock != nil {
			cfg.clock = clock
		}
	}
}

// WithDateBoundary selects the inclusive or exclusive date policy.
func WithDateBoundary(boundary DateBoundary) Option {
	return func(cfg *config) {
		if boundary != "" {
			cfg.boundary = boundary
		}
	}
}
