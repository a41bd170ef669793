package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/turtacn/sds-wizard/internal/domain/sds"
	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sds-wizard/pkg/errors"
)

// Outcome is the result of submitting a step.  Exactly one of Next and
// Errors is meaningful: Errors is non-empty when the step did not advance.
type Outcome struct {
	Step   Step        `json:"step"`
	Next   Step        `json:"next,omitempty"`
	Fields Fields      `json:"fields,omitempty"`
	Errors FieldErrors `json:"errors,omitempty"`
}

// Valid reports whether the step advanced.
func (o Outcome) Valid() bool { return len(o.Errors) == 0 }

// Machine implements the wizard transitions over WizardState values.
type Machine struct {
	validator  Validator
	enricher   Enricher
	pictograms sds.PictogramTable
	observer   CacheObserver
	logger     logging.Logger
	now        func() time.Time
}

// MachineOption configures a Machine.
type MachineOption func(*Machine)

// WithCacheObserver reports step cache hits and misses.
func WithCacheObserver(o CacheObserver) MachineOption {
	return func(m *Machine) { m.observer = o }
}

// WithMachineLogger sets the machine logger.
func WithMachineLogger(l logging.Logger) MachineOption {
	return func(m *Machine) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) MachineOption {
	return func(m *Machine) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMachine wires the transitions.  enricher may be nil, in which case no
// step is ever pre-filled.
func NewMachine(v Validator, enricher Enricher, pictograms sds.PictogramTable, opts ...MachineOption) *Machine {
	m := &Machine{
		validator:  v,
		enricher:   enricher,
		pictograms: pictograms,
		logger:     logging.NewNopLogger(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start opens a new session at section1.
func (m *Machine) Start() WizardState { return NewState(m.now()) }

func (m *Machine) checkActive(st WizardState) error {
	if st.Current.Terminal() {
		return errors.InvalidState(fmt.Sprintf("session %s is %s", st.SessionID, st.Current))
	}
	return nil
}

// InitialData returns the defaults for step: the data already submitted for
// it, else its cached enrichment, else empty Fields.  Enrichment runs at most
// once per step and only once section1 has supplied a CAS number.
func (m *Machine) InitialData(ctx context.Context, st WizardState, step Step) (Fields, WizardState, error) {
	if step.Index() == 0 {
		return nil, st, errors.InvalidParam(fmt.Sprintf("unknown step %q", step))
	}
	if err := m.checkActive(st); err != nil {
		return nil, st, err
	}
	if f, ok := st.Submitted(step); ok {
		return f.Clone(), st, nil
	}
	cas := st.CASNumber()
	if cas == "" || m.enricher == nil {
		return Fields{}, st, nil
	}

	next := st.Clone()
	cache := NewStepCache(next.Cache, m.observer)
	f, hit := cache.GetOrFetch(ctx, step, func(ctx context.Context) Fields {
		return m.enricher.Enrich(ctx, step, cas)
	})
	if hit {
		return f, st, nil
	}
	next.UpdatedAt = m.now()
	m.logger.Debug("step enrichment cached",
		logging.String("session_id", st.SessionID),
		logging.String("step", string(step)),
		logging.Int("fields", len(f)))
	return f, next, nil
}

// Advance validates raw for step.  A valid submission is stored and the
// session moves on; section16 moves to done.  Invalid input leaves the state
// unchanged and is reported through Outcome.Errors, not as an error.
func (m *Machine) Advance(ctx context.Context, st WizardState, step Step, raw Fields) (Outcome, WizardState, error) {
	if err := m.checkActive(st); err != nil {
		return Outcome{Step: step}, st, err
	}
	if step != st.Current {
		return Outcome{Step: step}, st, errors.InvalidState(
			fmt.Sprintf("cannot submit %s while the session is at %s", step, st.Current))
	}

	cleaned, ferrs := m.validator.Validate(step, raw)
	if len(ferrs) > 0 {
		m.logger.Debug("step rejected",
			logging.String("session_id", st.SessionID),
			logging.String("step", string(step)),
			logging.Int("errors", len(ferrs)))
		return Outcome{Step: step, Errors: ferrs}, st, nil
	}

	next := st.Clone()
	next.Data[step] = cleaned
	next.Current = step.Next()
	next.UpdatedAt = m.now()
	return Outcome{Step: step, Next: next.Current, Fields: cleaned.Clone()}, next, nil
}

// Back moves to the previous step.  Submitted data is kept and nothing is
// re-validated.
func (m *Machine) Back(st WizardState) (WizardState, error) {
	if err := m.checkActive(st); err != nil {
		return st, err
	}
	prev, ok := st.Current.Prev()
	if !ok {
		return st, errors.InvalidState("already at the first step")
	}
	next := st.Clone()
	next.Current = prev
	next.UpdatedAt = m.now()
	return next, nil
}

// Complete merges the submitted steps into a Record.  Steps merge in section
// order and an earlier section keeps a key a later one repeats.  The
// additional pictogram selection becomes label elements and is unioned with
// the enrichment ones by (url, description).
func (m *Machine) Complete(st WizardState) (*sds.Record, error) {
	if missing := st.Missing(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, s := range missing {
			names[i] = string(s)
		}
		return nil, errors.New(errors.ErrCodeSDSIncomplete,
			"wizard has unfinished steps").WithDetail(strings.Join(names, ", "))
	}

	merged := make(map[string]interface{})
	for _, step := range Steps {
		for k, v := range st.Data[step] {
			if _, seen := merged[k]; !seen {
				merged[k] = v
			}
		}
	}

	var selected []string
	if v, ok := merged[FieldAdditionalPictograms].([]string); ok {
		selected = v
	}
	delete(merged, FieldAdditionalPictograms)
	existing, _ := merged[FieldLabelElements].([]sds.LabelElement)
	merged[FieldLabelElements] = sds.MergeLabelElements(existing, m.pictograms.LabelElements(selected))

	b, err := json.Marshal(merged)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to merge wizard steps")
	}
	rec := &sds.Record{}
	if err := json.Unmarshal(b, rec); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to merge wizard steps")
	}
	rec.CreatedAt = m.now().UTC()
	return rec, nil
}

//Personal.AI order the ending
