package events

import (
	"context"
	"errors"

	"wealth/internal/log"
)

// Publisher delivers events. Publishing is best effort: callers log failures
// and carry on, the workspace change already happened.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// LogPublisher writes events to the structured log.
type LogPublisher struct {
	logger *log.Logger
}

func NewLogPublisher(logger *log.Logger) *LogPublisher {
	return &LogPublisher{logger: log.OrDiscard(logger).WithComponent(log.ComponentEvents)}
}

func (p *LogPublisher) Publish(ctx context.Context, e Event) error {
	args := []any{"type", e.Type, log.FieldOperation, log.OpPublish}
	if e.UserID != "" {
		args = append(args, log.FieldUserID, e.UserID)
	}
	if e.BackupKey != "" {
		args = append(args, log.FieldBackupKey, e.BackupKey)
	}
	for k, v := range e.Counts {
		args = append(args, k, v)
	}
	p.logger.InfoContext(ctx, "Workspace event", args...)
	return nil
}

func (p *LogPublisher) Close() error { return nil }

// Multi fans an event out to several publishers.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recorder keeps published events in memory.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.Events = append(r.Events, e)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Types returns the recorded event types in order.
func (r *Recorder) Types() []Type {
	out := make([]Type, len(r.Events))
	for i, e := range r.Events {
		out[i] = e.Type
	}
	return out
}
