package core

import (
	"context"
	"time"
)

// CallerHistory is the read-only per-caller view consumed by the routing and
// customer service agents. AverageSatisfaction is a moving average maintained
// by RecordCall: new_avg = (old_avg*old_count + score) / (old_count + 1).
type CallerHistory struct {
	PhoneNumber         string    `json:"phone_number"`
	CallCount           int       `json:"call_count"`
	LastCall            time.Time `json:"last_call"`
	AverageSatisfaction float64   `json:"average_satisfaction"`
	VIP                 bool      `json:"vip"`
	PreferredLanguage   string    `json:"preferred_language,omitempty"`
	CommonIssues        []string  `json:"common_issues,omitempty"`
}

// CallerHistoryStore persists per-caller aggregates keyed by phone number.
// Get returns (nil, nil) for an unknown caller; absence is not an error.
type CallerHistoryStore interface {
	Get(ctx context.Context, phoneNumber string) (*CallerHistory, error)

	// RecordCall increments the call count, refreshes the last-call time and,
	// when satisfaction is non-nil, folds it into the moving average.
	RecordCall(ctx context.Context, phoneNumber string, at time.Time, satisfaction *float64) error

	// SetVIP marks or unmarks a caller as VIP.
	SetVIP(ctx context.Context, phoneNumber string, vip bool) error
}
