package redis

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/sds-wizard/internal/application/wizard"
	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sds-wizard/pkg/errors"
)

const sessionNamespace = "session"

// SessionStore keeps wizard sessions as JSON strings under
// {prefix}session:{id}.  Every Save refreshes the TTL.
type SessionStore struct {
	client *Client
	ttl    time.Duration
	logger logging.Logger
}

var _ wizard.SessionStore = (*SessionStore)(nil)

func NewSessionStore(client *Client, ttl time.Duration, log logging.Logger) *SessionStore {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &SessionStore{client: client, ttl: ttl, logger: log.Named("session_store")}
}

func (s *SessionStore) key(id string) string {
	return s.client.Key(sessionNamespace, id)
}

// Load returns ErrCodeSDSSession when the key is missing or expired.
func (s *SessionStore) Load(ctx context.Context, id string) (wizard.WizardState, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return wizard.WizardState{}, errors.New(errors.ErrCodeSDSSession, "wizard session not found").WithDetail(id)
		}
		return wizard.WizardState{}, errors.Wrap(err, errors.ErrCodeCacheError, "failed to load wizard session")
	}

	var st wizard.WizardState
	if err := json.Unmarshal(raw, &st); err != nil {
		s.logger.Warn("discarding corrupt wizard session", logging.String("session_id", id), logging.Err(err))
		return wizard.WizardState{}, errors.Wrap(err, errors.ErrCodeSerialization, "corrupt wizard session")
	}
	if st.Data == nil {
		st.Data = make(map[wizard.Step]wizard.Fields)
	}
	if st.Cache == nil {
		st.Cache = make(map[wizard.Step]wizard.Fields)
	}
	return st, nil
}

func (s *SessionStore) Save(ctx context.Context, st wizard.WizardState) error {
	if st.SessionID == "" {
		return errors.InvalidParam("session id is required")
	}
	raw, err := json.Marshal(st)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode wizard session")
	}
	if err := s.client.Set(ctx, s.key(st.SessionID), raw, s.ttl).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to store wizard session")
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to delete wizard session")
	}
	return nil
}

//Personal.AI order the ending
