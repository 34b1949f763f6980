package form

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/and161185/auto-marketplace/internal/errs"
	"github.com/and161185/auto-marketplace/internal/i18n"
	"github.com/and161185/auto-marketplace/internal/notify"
)

// Submitter runs at most one submission at a time. A second submit while
// one is running fails fast instead of queueing.
type Submitter struct {
	sem      *semaphore.Weighted
	notifier notify.Notifier
	printer  *i18n.Printer
	log      *zap.Logger
}

// NewSubmitter constructs a Submitter.
func NewSubmitter(n notify.Notifier, pr *i18n.Printer, log *zap.Logger) *Submitter {
	return &Submitter{sem: semaphore.NewWeighted(1), notifier: n, printer: pr, log: log}
}

// Submit validates the form and, when it is valid, runs send. validate may be nil.
func (s *Submitter) Submit(ctx context.Context, validate func() error, send func(context.Context) error) error {
	if !s.sem.TryAcquire(1) {
		notify.Info(s.notifier, s.printer.T(i18n.MsgFormBusy))
		return errs.ErrInFlight
	}
	defer s.sem.Release(1)

	if validate != nil {
		if err := validate(); err != nil {
			s.log.Debug("form rejected", zap.Error(err))
			return err
		}
	}
	return send(ctx)
}
