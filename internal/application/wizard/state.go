package wizard

import (
	"time"

	"github.com/google/uuid"
)

// WizardState is one session's progress.  It is a value: Machine methods
// return an updated copy and never modify their argument.
type WizardState struct {
	SessionID string          `json:"session_id"`
	Current   Step            `json:"current"`
	Data      map[Step]Fields `json:"data"`
	Cache     map[Step]Fields `json:"cache"`
	Failure   string          `json:"failure,omitempty"`
	RecordID  string          `json:"record_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewState starts a session at section1 with a fresh id.
func NewState(now time.Time) WizardState {
	return WizardState{
		SessionID: uuid.NewString(),
		Current:   Section1,
		Data:      make(map[Step]Fields),
		Cache:     make(map[Step]Fields),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone deep-copies the state.
func (s WizardState) Clone() WizardState {
	c := s
	c.Data = cloneSteps(s.Data)
	c.Cache = cloneSteps(s.Cache)
	return c
}

func cloneSteps(m map[Step]Fields) map[Step]Fields {
	out := make(map[Step]Fields, len(m))
	for k, v := range m {
		out[k] = v.Clone()
	}
	return out
}

// Submitted returns the validated data of step.
func (s WizardState) Submitted(step Step) (Fields, bool) {
	f, ok := s.Data[step]
	return f, ok
}

// CASNumber is the identifier captured in section1, or "".
func (s WizardState) CASNumber() string {
	return s.Data[Section1].String(FieldCASNumber)
}

// Done reports whether the session completed successfully.
func (s WizardState) Done() bool { return s.Current == StepDone }

// Failed reports whether the session ended in the error state.
func (s WizardState) Failed() bool { return s.Current == StepError }

// Missing lists the form steps without validated data, in order.
func (s WizardState) Missing() []Step {
	var out []Step
	for _, st := range Steps {
		if _, ok := s.Data[st]; !ok {
			out = append(out, st)
		}
	}
	return out
}

// Summary is the public view of a session.
type Summary struct {
	SessionID string    `json:"session_id"`
	Step      Step      `json:"step"`
	Completed []Step    `json:"completed"`
	Cached    []Step    `json:"cached"`
	RecordID  string    `json:"record_id,omitempty"`
	Failure   string    `json:"failure,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary builds the public view of s.
func (s WizardState) Summary() Summary {
	sum := Summary{
		SessionID: s.SessionID,
		Step:      s.Current,
		Completed: []Step{},
		Cached:    []Step{},
		RecordID:  s.RecordID,
		Failure:   s.Failure,
		UpdatedAt: s.UpdatedAt,
	}
	for _, st := range Steps {
		if _, ok := s.Data[st]; ok {
			sum.Completed = append(sum.Completed, st)
		}
		if _, ok := s.Cache[st]; ok {
			sum.Cached = append(sum.Cached, st)
		}
	}
	return sum
}

//Personal.AI order the ending
