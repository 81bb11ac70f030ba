package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/librarysites/librarysites-server/internal/domain"
	"github.com/librarysites/librarysites-server/internal/kv"
)

// CreateSession stores sess under its ID. The key expires after ttl; a
// non-positive ttl falls back to domain.SessionTTL.
func (s *Store) CreateSession(ctx context.Context, sess *domain.SessionRecord, ttl time.Duration) error {
	if sess.ID == "" {
		return ErrInvalidInput.WithMessage("session id is required")
	}
	if ttl <= 0 {
		ttl = domain.SessionTTL
	}

	if err := s.setJSON(ctx, sessionKey(sess.ID), sess, ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.logger.Debug("session created", "session_id", sess.ID, "email", sess.Email, "ttl", ttl)
	return nil
}

// GetSession loads a session by ID. It returns nil when the key is absent and
// ErrMalformedSession when the stored value is not a session record.
//
// Some clients of the shared store wrote sessions as a JSON string holding
// the JSON object; both encodings are accepted.
func (s *Store) GetSession(ctx context.Context, id string) (*domain.SessionRecord, error) {
	if id == "" {
		return nil, nil
	}

	raw, err := s.kv.Get(ctx, sessionKey(id))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	sess, err := decodeSession(raw)
	if err != nil {
		return nil, ErrMalformedSession.WithCause(err)
	}
	if sess.ID == "" {
		sess.ID = id
	}
	return sess, nil
}

// DeleteSession removes a session. Missing sessions are not an error.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.kv.Delete(ctx, sessionKey(id)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func decodeSession(raw string) (*domain.SessionRecord, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, `"`) {
		var inner string
		if err := json.Unmarshal([]byte(raw), &inner); err != nil {
			return nil, err
		}
		raw = inner
	}

	var sess domain.SessionRecord
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, err
	}
	if sess.Email == "" {
		return nil, errors.New("session has no email")
	}
	return &sess, nil
}
