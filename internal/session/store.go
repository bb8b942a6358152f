// Package session owns the client's authentication state: the single
// source of truth for "is there a currently valid credential".
//
// The [Store] persists the credential across process runs, revalidates it
// on restore, and notifies subscribers synchronously on every login,
// logout and restore transition. The gateway and the view layer share the
// credential read-only; only Store operations mutate it.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/chapelworks/mediasync/internal/adapter"
	"github.com/chapelworks/mediasync/internal/logger"
	"github.com/chapelworks/mediasync/models"
)

// Store is the session store. All methods are safe for concurrent use.
type Store struct {
	gateway adapter.CollectionGateway
	persist CredentialStore
	logger  *logger.Logger

	mu   sync.Mutex
	cred models.Credential

	subMu  sync.Mutex
	subs   map[int]func(models.Credential)
	subSeq []int
	nextID int
}

// NewStore constructs a session store over the given gateway and
// credential persistence.
func NewStore(gateway adapter.CollectionGateway, persist CredentialStore, log *logger.Logger) *Store {
	return &Store{
		gateway: gateway,
		persist: persist,
		logger:  log,
		subs:    make(map[int]func(models.Credential)),
	}
}

// Login exchanges identifier and secret for a credential. On success the
// credential is persisted and all subscribers are notified synchronously
// before Login returns. Any failure, rejected credentials or transport,
// surfaces as [adapter.ErrAuth]; a single attempt is made, the caller
// decides whether to retry.
func (s *Store) Login(ctx context.Context, identifier, secret string) (models.Credential, error) {
	auth, err := s.gateway.AuthWithPassword(ctx, identifier, secret)
	if err != nil {
		if !errors.Is(err, adapter.ErrAuth) {
			err = fmt.Errorf("%w: %v", adapter.ErrAuth, err)
		}
		return models.Credential{}, err
	}

	cred := models.Credential{
		Token:    auth.Token,
		Identity: auth.Record,
		IssuedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.cred = cred
	s.mu.Unlock()

	if err = s.persist.Save(cred); err != nil {
		// the in-memory session is still valid; the next run just logs in again
		s.logger.Warn().Err(err).Msg("persist credential failed")
	}

	s.notify(cred)
	return cred, nil
}

// Logout clears the in-memory and persisted credential and notifies
// subscribers. Idempotent: calling when already logged out is a no-op and
// produces no notification.
func (s *Store) Logout() {
	s.mu.Lock()
	wasAuthenticated := !s.cred.IsZero()
	s.cred = models.Credential{}
	s.mu.Unlock()

	s.gateway.SetToken("")
	if err := s.persist.Clear(); err != nil {
		s.logger.Warn().Err(err).Msg("clear persisted credential failed")
	}

	if wasAuthenticated {
		s.notify(models.Credential{})
	}
}

// Restore loads the persisted credential, if any, and validates it
// against the backend. A missing or unparseable entry, a locally expired
// token, or a server rejection all leave the store logged out without an
// error; the store never exposes a credential it has not validated this
// run. A transport failure is returned to the caller (the entry is kept
// for a later retry, but the in-memory state stays logged out).
func (s *Store) Restore(ctx context.Context) (models.Credential, error) {
	persisted, err := s.persist.Load()
	if err != nil {
		if errors.Is(err, ErrNoCredential) {
			return models.Credential{}, nil
		}
		return models.Credential{}, err
	}

	if tokenExpired(persisted.Token) {
		s.logger.Debug().Msg("persisted token expired, discarding")
		s.discardPersisted()
		return models.Credential{}, nil
	}

	s.gateway.SetToken(persisted.Token)
	auth, err := s.gateway.AuthRefresh(ctx)
	if err != nil {
		if errors.Is(err, adapter.ErrAuth) {
			s.logger.Debug().Msg("persisted token rejected by server, discarding")
			s.discardPersisted()
			return models.Credential{}, nil
		}
		s.gateway.SetToken("")
		return models.Credential{}, fmt.Errorf("validate restored credential: %w", err)
	}

	cred := models.Credential{
		Token:    auth.Token,
		Identity: auth.Record,
		IssuedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.cred = cred
	s.mu.Unlock()

	if err = s.persist.Save(cred); err != nil {
		s.logger.Warn().Err(err).Msg("persist refreshed credential failed")
	}

	s.notify(cred)
	return cred, nil
}

// Subscribe registers listener for every login/logout/restore transition.
// Listeners run synchronously in subscription order, at most once per
// transition. The returned function removes the subscription and is safe
// to call more than once.
func (s *Store) Subscribe(listener func(models.Credential)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = listener
	s.subSeq = append(s.subSeq, id)
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// Current returns the credential held in memory, zero when logged out.
func (s *Store) Current() models.Credential {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cred
}

// IsAuthenticated reports whether a validated credential is held.
func (s *Store) IsAuthenticated() bool {
	return !s.Current().IsZero()
}

func (s *Store) discardPersisted() {
	s.gateway.SetToken("")
	if err := s.persist.Clear(); err != nil {
		s.logger.Warn().Err(err).Msg("clear persisted credential failed")
	}
}

func (s *Store) notify(cred models.Credential) {
	s.subMu.Lock()
	listeners := make([]func(models.Credential), 0, len(s.subSeq))
	for _, id := range s.subSeq {
		if fn, ok := s.subs[id]; ok {
			listeners = append(listeners, fn)
		}
	}
	s.subMu.Unlock()

	for _, fn := range listeners {
		fn(cred)
	}
}

// tokenExpired inspects the token's exp claim without verifying the
// signature; verification is the server's job. An unparsable token is
// treated as expired.
func tokenExpired(token string) bool {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return true
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		// tokens without an exp claim are validated server-side only
		return false
	}

	return exp.Before(time.Now())
}
