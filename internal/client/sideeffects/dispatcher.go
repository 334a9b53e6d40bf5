// Package sideeffects runs the best-effort work that follows a confirmed
// profile update: a short compliment from an Enricher and a notification
// through a NotificationSink. Nothing here ever fails the update itself.
package sideeffects

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/memberportal/internal/logging"
)

// FallbackCompliment replaces the enrichment text whenever the Enricher
// fails or returns nothing.
const FallbackCompliment = "Thanks for keeping your profile up to date!"

const defaultCallTimeout = 5 * time.Second

// Intent is emitted by the session after the directory confirmed a profile
// write.
type Intent struct {
	GivenName  string
	FamilyName string
	Phone      string
}

// Enricher produces a short text for a person's given name.
type Enricher interface {
	Compliment(ctx context.Context, givenName string) (string, error)
}

// NotificationSink delivers one text payload per call.
type NotificationSink interface {
	Send(ctx context.Context, message string) error
}

type Options struct {
	EnrichTimeout time.Duration
	NotifyTimeout time.Duration
}

// Dispatcher executes intents. Either collaborator may be nil: a nil
// Enricher yields the fallback text, a nil sink skips the notification.
type Dispatcher struct {
	enricher Enricher
	sink     NotificationSink
	log      logging.Logger
	opts     Options
}

func NewDispatcher(enricher Enricher, sink NotificationSink, log logging.Logger, opts Options) *Dispatcher {
	if log == nil {
		log = logging.Nop()
	}
	if opts.EnrichTimeout <= 0 {
		opts.EnrichTimeout = defaultCallTimeout
	}
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = defaultCallTimeout
	}
	return &Dispatcher{enricher: enricher, sink: sink, log: log.With("component", "sideeffects"), opts: opts}
}

// Dispatch runs enrichment and then the notification. Failures are logged
// and absorbed; cancellation of ctx does not abort the calls, only their own
// timeouts do.
func (d *Dispatcher) Dispatch(ctx context.Context, in Intent) {
	if d == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)

	compliment := d.compliment(ctx, in.GivenName)
	msg := ComposeMessage(in, compliment)

	if d.sink == nil {
		d.log.Debug(ctx, "no notification sink configured")
		return
	}
	if _, err := call(ctx, d.opts.NotifyTimeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, d.sink.Send(ctx, msg)
	}); err != nil {
		d.log.Warn(ctx, "notification dropped", "error", err)
		return
	}
	d.log.Debug(ctx, "notification sent")
}

func (d *Dispatcher) compliment(ctx context.Context, givenName string) string {
	if d.enricher == nil {
		return FallbackCompliment
	}

	text, err := call(ctx, d.opts.EnrichTimeout, func(ctx context.Context) (string, error) {
		return d.enricher.Compliment(ctx, givenName)
	})
	text = strings.TrimSpace(text)
	if err != nil || text == "" {
		d.log.Warn(ctx, "enrichment failed, using fallback", "error", err)
		return FallbackCompliment
	}
	return text
}

type result[T any] struct {
	v   T
	err error
}

// call runs fn under its own timeout and turns a panic into an error. A
// collaborator that ignores ctx is abandoned when the timeout fires.
func call[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan result[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result[T]{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		v, err := fn(ctx)
		done <- result[T]{v: v, err: err}
	}()

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// ComposeMessage builds the notification text from the updated name fields
// and the compliment.
func ComposeMessage(in Intent, compliment string) string {
	name := strings.TrimSpace(strings.Join([]string{in.GivenName, in.FamilyName}, " "))
	if name == "" {
		name = "Member"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Profile updated for %s.", name)
	if in.Phone != "" {
		fmt.Fprintf(&b, " Phone: %s.", in.Phone)
	}
	if compliment != "" {
		b.WriteString(" ")
		b.WriteString(compliment)
	}
	return b.String()
}
