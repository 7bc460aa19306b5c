package session

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rogerio-castellano/capri-storefront/internal/models"
	"github.com/sirupsen/logrus"
)

// Slot is the durable key-value slot holding one serialized identity per browser.
// Read reports false when the slot is empty or unreadable.
type Slot interface {
	Read(r *http.Request) ([]byte, bool)
	Write(w http.ResponseWriter, r *http.Request, data []byte) error
	Delete(w http.ResponseWriter, r *http.Request) error
}

// Store owns the current identity. It never expires an identity and never asks the
// auth backend to validate it; the backends authorize every mutating request themselves.
type Store struct {
	slot Slot
	log  logrus.FieldLogger
}

func NewStore(slot Slot, logger logrus.FieldLogger) *Store {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Store{slot: slot, log: logger}
}

// Save overwrites whatever identity the slot held.
func (s *Store) Save(w http.ResponseWriter, r *http.Request, id models.Identity) error {
	data, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("failed to encode identity: %w", err)
	}
	if err := s.slot.Write(w, r, data); err != nil {
		return fmt.Errorf("failed to persist identity: %w", err)
	}
	return nil
}

// Current returns the persisted identity, or false if there is none or it does not parse.
func (s *Store) Current(r *http.Request) (models.Identity, bool) {
	data, ok := s.slot.Read(r)
	if !ok {
		return models.Identity{}, false
	}

	var id models.Identity
	if err := json.Unmarshal(data, &id); err != nil {
		s.log.WithError(err).Debug("session: discarding unparseable identity")
		return models.Identity{}, false
	}
	if id == (models.Identity{}) {
		return models.Identity{}, false
	}
	return id, true
}

func (s *Store) IsAuthenticated(r *http.Request) bool {
	_, ok := s.Current(r)
	return ok
}

func (s *Store) IsAdmin(r *http.Request) bool {
	id, ok := s.Current(r)
	return ok && id.IsAdmin()
}

// Clear removes the persisted identity.
func (s *Store) Clear(w http.ResponseWriter, r *http.Request) error {
	if err := s.slot.Delete(w, r); err != nil {
		return fmt.Errorf("failed to clear identity: %w", err)
	}
	return nil
}
