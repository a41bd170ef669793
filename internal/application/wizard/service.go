package wizard

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/sds-wizard/internal/domain/sds"
	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sds-wizard/pkg/errors"
)

// SessionStore keeps WizardState between requests.  Load returns an
// ErrCodeSDSSession error for unknown or expired sessions.  Writes are
// last-write-wins.
type SessionStore interface {
	Load(ctx context.Context, id string) (WizardState, error)
	Save(ctx context.Context, st WizardState) error
	Delete(ctx context.Context, id string) error
}

// EventPublisher announces completed records.
type EventPublisher interface {
	PublishCompleted(ctx context.Context, evt sds.CompletedEvent) error
}

// CompletionObserver counts completion outcomes.
type CompletionObserver interface {
	ObserveCompletion(outcome string)
}

// Completion outcomes.
const (
	OutcomeCompleted    = "completed"
	OutcomePersistError = "persist_error"
	OutcomeIncomplete   = "incomplete"
)

// SubmitResult is returned by Service.Submit.
type SubmitResult struct {
	Outcome Outcome
	State   WizardState
	// Record is set once section16 has been accepted and persisted.
	Record *sds.Record
}

// Service runs the wizard against a session store and persists the
// completed record.
type Service struct {
	machine   *Machine
	store     SessionStore
	repo      sds.Repository
	publisher EventPublisher
	observer  CompletionObserver
	logger    logging.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithPublisher publishes sds.completed after every persisted record.
func WithPublisher(p EventPublisher) ServiceOption {
	return func(s *Service) { s.publisher = p }
}

// WithCompletionObserver counts completion outcomes.
func WithCompletionObserver(o CompletionObserver) ServiceOption {
	return func(s *Service) { s.observer = o }
}

// NewService wires the wizard service.
func NewService(machine *Machine, store SessionStore, repo sds.Repository, logger logging.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &Service{
		machine: machine,
		store:   store,
		repo:    repo,
		logger:  logger.Named("wizard"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start creates and stores a new session.
func (s *Service) Start(ctx context.Context) (WizardState, error) {
	st := s.machine.Start()
	if err := s.store.Save(ctx, st); err != nil {
		return WizardState{}, err
	}
	s.logger.Info("wizard session started", logging.String("session_id", st.SessionID))
	return st, nil
}

// State loads a session.
func (s *Service) State(ctx context.Context, id string) (WizardState, error) {
	return s.store.Load(ctx, id)
}

// InitialData returns the defaults for step and stores any enrichment it
// computed.
func (s *Service) InitialData(ctx context.Context, id string, step Step) (Fields, error) {
	st, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	f, next, err := s.machine.InitialData(ctx, st, step)
	if err != nil {
		return nil, err
	}
	if len(next.Cache) != len(st.Cache) {
		if err := s.store.Save(ctx, next); err != nil {
			// The enrichment is still usable for this request; it is
			// recomputed on the next visit.
			s.logger.Warn("failed to store step cache",
				logging.String("session_id", id),
				logging.String("step", string(step)),
				logging.Err(err))
		}
	}
	return f, nil
}

// Submit advances the session.  Accepting section16 completes the wizard:
// the record is saved, the session is removed and sds.completed is
// published.
func (s *Service) Submit(ctx context.Context, id string, step Step, raw Fields) (*SubmitResult, error) {
	st, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	out, next, err := s.machine.Advance(ctx, st, step, raw)
	if err != nil {
		return nil, err
	}
	if !out.Valid() {
		return &SubmitResult{Outcome: out, State: st}, nil
	}
	if next.Current != StepDone {
		if err := s.store.Save(ctx, next); err != nil {
			return nil, err
		}
		return &SubmitResult{Outcome: out, State: next}, nil
	}

	rec, final, err := s.Finish(ctx, next)
	if err != nil {
		return nil, err
	}
	return &SubmitResult{Outcome: out, State: final, Record: rec}, nil
}

// Back steps the session back once.
func (s *Service) Back(ctx context.Context, id string) (WizardState, error) {
	st, err := s.store.Load(ctx, id)
	if err != nil {
		return WizardState{}, err
	}
	next, err := s.machine.Back(st)
	if err != nil {
		return WizardState{}, err
	}
	if err := s.store.Save(ctx, next); err != nil {
		return WizardState{}, err
	}
	return next, nil
}

// Finish aggregates and persists the record.  A persistence failure moves
// the session to the error state and is returned as ErrCodeSDSPersist.
func (s *Service) Finish(ctx context.Context, st WizardState) (*sds.Record, WizardState, error) {
	rec, err := s.machine.Complete(st)
	if err != nil {
		s.observe(OutcomeIncomplete)
		return nil, st, err
	}

	id, err := s.repo.Save(ctx, rec)
	if err != nil {
		s.observe(OutcomePersistError)
		failed := st.Clone()
		failed.Current = StepError
		failed.Failure = err.Error()
		failed.UpdatedAt = time.Now()
		s.logger.Error("failed to persist safety data sheet",
			logging.String("session_id", st.SessionID),
			logging.String("cas_number", rec.CASNumber),
			logging.Err(err))
		if serr := s.store.Save(ctx, failed); serr != nil {
			s.logger.Warn("failed to store session error state",
				logging.String("session_id", st.SessionID), logging.Err(serr))
		}
		return nil, failed, errors.Wrap(err, errors.ErrCodeSDSPersist, "failed to save safety data sheet")
	}
	if rec.ID == uuid.Nil {
		rec.ID = id
	}

	done := st.Clone()
	done.Current = StepDone
	done.RecordID = id.String()
	done.UpdatedAt = time.Now()
	s.observe(OutcomeCompleted)
	s.logger.Info("safety data sheet completed",
		logging.String("session_id", st.SessionID),
		logging.String("record_id", id.String()),
		logging.String("cas_number", rec.CASNumber))

	if err := s.store.Delete(ctx, st.SessionID); err != nil {
		s.logger.Warn("failed to delete completed session",
			logging.String("session_id", st.SessionID), logging.Err(err))
	}
	if s.publisher != nil {
		if err := s.publisher.PublishCompleted(ctx, rec.CompletedEvent(time.Now().UTC())); err != nil {
			s.logger.Warn("failed to publish completion event",
				logging.String("record_id", id.String()), logging.Err(err))
		}
	}
	return rec, done, nil
}

func (s *Service) observe(outcome string) {
	if s.observer != nil {
		s.observer.ObserveCompletion(outcome)
	}
}

//Personal.AI order the ending
