// Package session owns the authenticated session: the bearer token and user
// object persisted under fixed storage keys, exposed through an observable
// store instead of ad hoc reads of shared state.
package session

import (
	"encoding/json"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/altibbe/transparency/internal/events"
	"github.com/altibbe/transparency/internal/models"
)

// Storage keys. These names are part of the persisted-state contract.
const (
	KeyAuthToken = "authToken"
	KeyUser      = "user"
)

// Storage abstracts the persistence the session store writes through.
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(keys ...string) error
}

// Store is the observable session store. All reads are served from memory;
// every mutation is written through to Storage and published on the bus.
type Store struct {
	mu      sync.RWMutex
	storage Storage
	bus     *events.Bus
	token   string
	user    *models.User
}

// NewStore loads any persisted credentials and returns the store.
func NewStore(storage Storage, bus *events.Bus) (*Store, error) {
	s := &Store{storage: storage, bus: bus}
	token, err := storage.Get(KeyAuthToken)
	if err != nil {
		return nil, err
	}
	s.token = token
	rawUser, err := storage.Get(KeyUser)
	if err != nil {
		return nil, err
	}
	if rawUser != "" {
		var u models.User
		if err := json.Unmarshal([]byte(rawUser), &u); err == nil {
			s.user = &u
		}
	}
	return s, nil
}

// Token returns the current bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the persisted user object, or nil.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// LoggedIn reports whether a token is present.
func (s *Store) LoggedIn() bool { return s.Token() != "" }

// SetCredentials persists the token and user and announces the change.
func (s *Store) SetCredentials(token string, user *models.User) error {
	if err := s.storage.Set(KeyAuthToken, token); err != nil {
		return err
	}
	if user != nil {
		b, err := json.Marshal(user)
		if err != nil {
			return err
		}
		if err := s.storage.Set(KeyUser, string(b)); err != nil {
			return err
		}
	} else if err := s.storage.Delete(KeyUser); err != nil {
		// A stale user row must not outlive the token it belonged to.
		return err
	}
	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()
	if s.bus != nil {
		s.bus.Publish(events.SessionChanged{LoggedIn: token != "", User: user})
	}
	return nil
}

// Clear removes all persisted credentials and announces the change. It is
// invoked both by explicit logout and by the global 401 interceptor.
func (s *Store) Clear() error {
	if err := s.storage.Delete(KeyAuthToken, KeyUser); err != nil {
		return err
	}
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	if s.bus != nil {
		s.bus.Publish(events.SessionChanged{LoggedIn: false})
	}
	return nil
}

// TokenExpiry decodes the stored token without verifying its signature (the
// client does not hold the signing secret) and returns the expiry claim.
// The second return is false when no token is stored or no expiry is set.
func (s *Store) TokenExpiry() (time.Time, bool) {
	tok := s.Token()
	if tok == "" {
		return time.Time{}, false
	}
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(tok, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Expired reports whether the stored token carries an expiry in the past.
// Tokens without an expiry claim are never considered expired; the server's
// 401 response remains the authority.
func (s *Store) Expired(now time.Time) bool {
	exp, ok := s.TokenExpiry()
	return ok && exp.Before(now)
}
