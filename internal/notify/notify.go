// Package notify delivers best-effort submission notices to operators.
package notify

import (
	"context"
	"errors"
	"time"
)

const SubmissionsChannel = "submissions:events"

type Event struct {
	FormType     string    `json:"form_type"`
	Label        string    `json:"label"`
	Subject      string    `json:"subject"`
	Title        string    `json:"title"`
	AccountID    string    `json:"account_id"`
	AccountEmail string    `json:"account_email,omitempty"`
	RecordID     string    `json:"record_id"`
	URL          string    `json:"url"`
	Created      bool      `json:"created"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// Multi fans an event out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, ev Event) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type Nop struct{}

func (Nop) Notify(context.Context, Event) error { return nil }
