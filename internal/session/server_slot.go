package session

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrNoSession is returned by a Backend when the id has no stored identity.
var ErrNoSession = errors.New("session not found")

// Backend stores serialized identities under opaque session ids.
type Backend interface {
	Get(ctx context.Context, id string) ([]byte, error)
	Put(ctx context.Context, id string, data []byte) error
	Delete(ctx context.Context, id string) error
}

// ServerSlot keeps only a random session id in the cookie and the identity in a Backend.
type ServerSlot struct {
	backend Backend
	cookie  CookieOptions
	log     logrus.FieldLogger
}

func NewServerSlot(backend Backend, cookie CookieOptions, logger logrus.FieldLogger) *ServerSlot {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ServerSlot{backend: backend, cookie: cookie, log: logger}
}

func (s *ServerSlot) Read(r *http.Request) ([]byte, bool) {
	id, ok := s.sessionID(r)
	if !ok {
		return nil, false
	}

	data, err := s.backend.Get(r.Context(), id)
	if err != nil {
		if !errors.Is(err, ErrNoSession) {
			s.log.WithError(err).Warn("session: backend read failed")
		}
		return nil, false
	}
	return data, true
}

// Write reuses the browser's session id when it has a valid one.
func (s *ServerSlot) Write(w http.ResponseWriter, r *http.Request, data []byte) error {
	id, ok := s.sessionID(r)
	if !ok {
		id = uuid.NewString()
	}

	if err := s.backend.Put(r.Context(), id, data); err != nil {
		return err
	}
	s.cookie.set(w, id)
	return nil
}

func (s *ServerSlot) Delete(w http.ResponseWriter, r *http.Request) error {
	s.cookie.expire(w)

	id, ok := s.sessionID(r)
	if !ok {
		return nil
	}
	return s.backend.Delete(r.Context(), id)
}

func (s *ServerSlot) sessionID(r *http.Request) (string, bool) {
	raw, ok := s.cookie.read(r)
	if !ok {
		return "", false
	}
	if _, err := uuid.Parse(raw); err != nil {
		return "", false
	}
	return raw, true
}
