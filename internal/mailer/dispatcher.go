package mailer

import (
	"context"
	"log/slog"
	"time"
)

// DefaultDelay is the pause between consecutive sends.
const DefaultDelay = 500 * time.Millisecond

// progressEvery is how often, in recipients, a progress line is logged.
const progressEvery = 10

// Failure records one recipient that could not be sent to.
type Failure struct {
	Recipient string
	Err       error
}

// Report summarizes a batch.
type Report struct {
	Attempted int
	Sent      int
	Failures  []Failure
}

// Dispatcher sends the composed message to each recipient in turn.
type Dispatcher struct {
	composer  *Composer
	transport Transport
	delay     time.Duration
	logger    *slog.Logger
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewDispatcher returns a Dispatcher. A negative delay is treated as zero; a
// nil logger uses slog.Default().
func NewDispatcher(composer *Composer, transport Transport, delay time.Duration, logger *slog.Logger) *Dispatcher {
	if delay < 0 {
		delay = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		composer:  composer,
		transport: transport,
		delay:     delay,
		logger:    logger,
		sleep:     sleepContext,
	}
}

// Dispatch sends one message per recipient, pausing between sends.
//
// A compose or send failure for one recipient is logged, recorded in the
// report, and the loop continues with the next recipient. The only error
// returned is ctx's, when the batch is interrupted; the report then covers the
// recipients attempted so far.
func (d *Dispatcher) Dispatch(ctx context.Context, recipients []string) (*Report, error) {
	report := &Report{}

	for i, to := range recipients {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if i > 0 {
			if err := d.sleep(ctx, d.delay); err != nil {
				return report, err
			}
		}

		report.Attempted++
		if err := d.sendOne(ctx, to); err != nil {
			d.logger.Error("error sending email", "to", to, "error", err)
			report.Failures = append(report.Failures, Failure{Recipient: to, Err: err})
		} else {
			report.Sent++
			d.logger.Info("email sent", "to", to)
		}

		if n := i + 1; n%progressEvery == 0 {
			d.logger.Info("progress", "processed", n, "total", len(recipients))
		}
	}

	return report, nil
}

func (d *Dispatcher) sendOne(ctx context.Context, to string) error {
	msg, err := d.composer.Compose(to)
	if err != nil {
		return err
	}
	if msg.Attachment == "" && d.composer.tmpl.AttachmentPath != "" {
		d.logger.Debug("attachment not found, sending without it", "path", d.composer.tmpl.AttachmentPath)
	}
	return d.transport.Send(ctx, msg)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
