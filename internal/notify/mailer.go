// Package notify dispatches best-effort notifications on a background
// worker. The core transaction boundary always ends before a message is
// enqueued, and a failed or dropped send is logged, never surfaced to the
// caller.
package notify

import (
	"time"

	"go.uber.org/zap"
)

// Mailer is what the services see: a fire-and-forget dispatch that can
// never fail the calling operation.
type Mailer interface {
	RegistrationConfirmed(msg RegistrationConfirmation)
}

type RegistrationConfirmation struct {
	Email       string
	Name        string
	EventTitle  string
	Venue       string
	StartTime   time.Time
	TicketToken string
}

// Sender is the underlying transport. The default implementation only logs;
// a real SMTP/provider sender plugs in behind the same interface.
type Sender interface {
	SendRegistrationConfirmed(msg RegistrationConfirmation) error
}

// Worker consumes queued notifications on a single goroutine.
type Worker struct {
	sender Sender
	queue  chan RegistrationConfirmation
	done   chan struct{}
}

func NewWorker(sender Sender, queueSize int) *Worker {
	return &Worker{
		sender: sender,
		queue:  make(chan RegistrationConfirmation, queueSize),
		done:   make(chan struct{}),
	}
}

func (w *Worker) Start() {
	go func() {
		defer close(w.done)
		for msg := range w.queue {
			if err := w.sender.SendRegistrationConfirmed(msg); err != nil {
				zap.L().Warn("registration confirmation failed",
					zap.String("email", msg.Email),
					zap.String("event", msg.EventTitle),
					zap.Error(err))
			}
		}
	}()
}

// Stop drains the queue and waits for the worker goroutine to exit.
func (w *Worker) Stop() {
	close(w.queue)
	<-w.done
}

// RegistrationConfirmed enqueues without blocking. When the queue is full
// the message is dropped and logged; registration has already committed and
// must not be affected.
func (w *Worker) RegistrationConfirmed(msg RegistrationConfirmation) {
	select {
	case w.queue <- msg:
	default:
		zap.L().Warn("notification queue full, dropping confirmation",
			zap.String("email", msg.Email),
			zap.String("event", msg.EventTitle))
	}
}

// LogSender writes the confirmation to the log instead of delivering mail.
// The ticket token is truncated; it is a secret-equivalent.
type LogSender struct{}

func (LogSender) SendRegistrationConfirmed(msg RegistrationConfirmation) error {
	zap.L().Info("registration confirmed",
		zap.String("email", msg.Email),
		zap.String("event", msg.EventTitle),
		zap.String("venue", msg.Venue),
		zap.Time("start_time", msg.StartTime),
		zap.String("ticket", truncateToken(msg.TicketToken)))
	return nil
}

func truncateToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:8] + "..."
}
