// Package archive stores the rendered PDF of every completed safety data
// sheet.  The worker feeds it sds.completed events.
package archive

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/sds-wizard/internal/domain/sds"
	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sds-wizard/pkg/errors"
)

// Archive outcomes reported to the Observer.
const (
	OutcomeArchived = "archived"
	OutcomeSkipped  = "skipped"
	OutcomeMissing  = "missing"
	OutcomeFailed   = "failed"
)

// Archiver renders a record and stores it, returning the object key.
type Archiver interface {
	Archive(ctx context.Context, id uuid.UUID) (string, error)
}

// Marker records the object key against the stored record.
type Marker interface {
	MarkArchived(ctx context.Context, id uuid.UUID, key string) error
}

// Lock is a single-owner lock held for the duration of one archive job.
type Lock interface {
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
}

// LockProvider returns the lock guarding name.
type LockProvider func(name string) Lock

type Observer interface {
	ObserveArchive(outcome string, elapsed time.Duration)
}

type Option func(*Handler)

// WithLocks serializes jobs per record across workers.
func WithLocks(p LockProvider) Option {
	return func(h *Handler) { h.locks = p }
}

func WithObserver(o Observer) Option {
	return func(h *Handler) { h.observer = o }
}

type Handler struct {
	archiver Archiver
	marker   Marker
	locks    LockProvider
	observer Observer
	logger   logging.Logger
	now      func() time.Time
}

func NewHandler(archiver Archiver, marker Marker, logger logging.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	h := &Handler{
		archiver: archiver,
		marker:   marker,
		logger:   logger.Named("archive"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// LockName is the lock taken while archiving id.
func LockName(id uuid.UUID) string { return "archive:" + id.String() }

// Handle archives the record named by evt.  A record that no longer exists
// and a job already held by another worker are acknowledged without error;
// everything else is returned so the consumer can retry.
func (h *Handler) Handle(ctx context.Context, evt sds.CompletedEvent) error {
	if evt.RecordID == uuid.Nil {
		return errors.InvalidParam("completion event has no record id")
	}
	start := h.now()
	log := h.logger.With(logging.String("record_id", evt.RecordID.String()))

	if h.locks != nil {
		lock := h.locks(LockName(evt.RecordID))
		ok, err := lock.TryLock(ctx)
		if err != nil {
			h.observe(OutcomeFailed, start)
			return err
		}
		if !ok {
			log.Info("archive already in progress")
			h.observe(OutcomeSkipped, start)
			return nil
		}
		defer func() {
			if err := lock.Unlock(context.WithoutCancel(ctx)); err != nil {
				log.Warn("failed to release archive lock", logging.Err(err))
			}
		}()
	}

	key, err := h.archiver.Archive(ctx, evt.RecordID)
	if err != nil {
		if errors.IsNotFound(err) {
			log.Warn("record vanished before archiving", logging.Err(err))
			h.observe(OutcomeMissing, start)
			return nil
		}
		h.observe(OutcomeFailed, start)
		return err
	}
	if err := h.marker.MarkArchived(ctx, evt.RecordID, key); err != nil {
		h.observe(OutcomeFailed, start)
		return err
	}

	h.observe(OutcomeArchived, start)
	log.Info("record archived", logging.String("key", key), logging.Duration("elapsed", h.now().Sub(start)))
	return nil
}

func (h *Handler) observe(outcome string, start time.Time) {
	if h.observer != nil {
		h.observer.ObserveArchive(outcome, h.now().Sub(start))
	}
}

//Personal.AI order the ending
