// Package session owns the authenticated identity of the client: the bearer
// token, the resolved profile, and the discipline for keeping both consistent
// under failures and overlapping operations.
//
// The Store is the single writer of session state. Screens observe it via
// Subscribe and must never call identity-affecting API endpoints themselves.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/apetrukhin/blogctl/internal/client/api"
	"github.com/apetrukhin/blogctl/internal/client/models"
	"github.com/apetrukhin/blogctl/internal/client/repositories/prefs"
	"github.com/apetrukhin/blogctl/internal/logging"
)

// TokenKey is the durable preferences key holding the bearer token. It is
// distinct from the theme key so the two can never invalidate each other.
const TokenKey = "blog::token"

// ErrAuthRequired is returned by operations that need a token when none is
// held. No network call is made in that case.
var ErrAuthRequired = errors.New("authorization required")

// State is an immutable snapshot of the session.
//
// Invariant: User is non-nil only while Token is non-empty. A non-empty Token
// with a nil User means the profile fetch is still pending (or has just
// failed and the whole session is about to be invalidated atomically).
type State struct {
	Token     string
	User      *models.User
	Loading   bool
	LastError string
}

// LoggedIn reports whether a resolved identity is present.
func (s State) LoggedIn() bool {
	return s.Token != "" && s.User != nil
}

// Store is the process-wide session state manager.
//
// Every committed change of Token increments an internal generation counter.
// Session-populating operations capture the generation before their network
// call and discard their result silently if it moved while they were in
// flight, so a logout (or a newer login) is never undone by a stale response.
type Store struct {
	mu    sync.Mutex
	api   api.Client
	prefs prefs.Repository
	log   logging.Logger

	state      State
	generation uint64
	subs       map[int]func(State)
	nextSubID  int
}

// NewStore builds a Store and adopts any persisted token as the tentative
// session. When a stored token exists, Loading starts true: callers must
// treat that as "auth state unknown" and invoke RefreshProfile before
// rendering an anonymous view.
func NewStore(ctx context.Context, apiClient api.Client, prefsRepo prefs.Repository, log logging.Logger) (*Store, error) {
	s := &Store{
		api:   apiClient,
		prefs: prefsRepo,
		log:   log,
		subs:  make(map[int]func(State)),
	}

	token, err := prefsRepo.Get(ctx, TokenKey)
	if err != nil {
		return nil, err
	}
	if token != "" {
		s.state.Token = token
		s.state.Loading = true
	}
	return s, nil
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Token returns the current bearer token, or "" when anonymous. Screens use
// it for non-identity calls (article CRUD) issued directly to the gateway.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

// Subscribe registers fn to be invoked with a snapshot after every committed
// state transition. It returns an unsubscribe function. Callbacks run on the
// goroutine that performed the transition and must not call back into the
// Store synchronously.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Login authenticates with credentials. On success the token and profile are
// committed atomically and the token is persisted. On failure the prior
// session is left untouched except for LastError, and the error is returned
// so forms can show inline feedback.
func (s *Store) Login(ctx context.Context, email, password string) error {
	gen := s.beginOp()

	resp, err := s.api.Login(ctx, models.LoginPayload{Email: email, Password: password})
	if err != nil {
		s.failOp(ctx, gen, err)
		return err
	}

	s.applyAuth(ctx, gen, resp)
	return nil
}

// Register creates an account and logs it in, with the same contract as
// Login. Contacts are sent exactly as given: order and duplicates preserved.
// The username is validated locally before any network call; validation
// failures never touch LastError.
func (s *Store) Register(ctx context.Context, email, password, username string, contacts []string) error {
	if err := models.ValidateUsername(username); err != nil {
		return err
	}
	if contacts == nil {
		contacts = []string{}
	}

	gen := s.beginOp()

	resp, err := s.api.Register(ctx, models.RegisterPayload{
		Email:    email,
		Password: password,
		Username: username,
		Contacts: contacts,
	})
	if err != nil {
		s.failOp(ctx, gen, err)
		return err
	}

	s.applyAuth(ctx, gen, resp)
	return nil
}

// RefreshProfile re-resolves the profile for the held token. Without a token
// it just clears User and Loading. A failed fetch (expired or rejected token)
// invalidates the whole session: token, profile, and the persisted copy all
// go away together, so the next render sees "logged out" instead of a stuck
// stale token.
func (s *Store) RefreshProfile(ctx context.Context) error {
	s.mu.Lock()
	token := s.state.Token
	if token == "" {
		s.state.User = nil
		s.state.Loading = false
		st := s.snapshotLocked()
		subs := s.subscribersLocked()
		s.mu.Unlock()
		notify(subs, st)
		return nil
	}
	s.state.Loading = true
	s.state.LastError = ""
	gen := s.generation
	st := s.snapshotLocked()
	subs := s.subscribersLocked()
	s.mu.Unlock()
	notify(subs, st)

	user, err := s.api.FetchProfile(ctx, token)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.log.Debug(ctx, "discarding stale profile refresh")
		return nil
	}
	if err != nil {
		s.state = State{LastError: err.Error()}
		s.generation++
		st := s.snapshotLocked()
		subs := s.subscribersLocked()
		s.mu.Unlock()
		notify(subs, st)

		if derr := s.prefs.Delete(ctx, TokenKey); derr != nil {
			s.log.Warn(ctx, "failed to remove persisted token", "error", derr)
		}
		s.log.Info(ctx, "session invalidated", "reason", err.Error())
		return err
	}

	s.state.User = &user
	s.state.Loading = false
	s.state.LastError = ""
	st = s.snapshotLocked()
	subs = s.subscribersLocked()
	s.mu.Unlock()
	notify(subs, st)
	return nil
}

// UpdateProfile replaces username and contacts. Requires a token; without one
// it fails immediately with ErrAuthRequired and performs no network call. The
// server's returned profile is the source of truth for the committed value.
func (s *Store) UpdateProfile(ctx context.Context, username string, contacts []string) error {
	if err := models.ValidateUsername(username); err != nil {
		return err
	}
	if contacts == nil {
		contacts = []string{}
	}

	s.mu.Lock()
	token := s.state.Token
	if token == "" {
		s.mu.Unlock()
		return ErrAuthRequired
	}
	s.state.Loading = true
	s.state.LastError = ""
	gen := s.generation
	st := s.snapshotLocked()
	subs := s.subscribersLocked()
	s.mu.Unlock()
	notify(subs, st)

	user, err := s.api.UpdateProfile(ctx, token, models.ProfileUpdatePayload{
		Username: username,
		Contacts: contacts,
	})

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.log.Debug(ctx, "discarding stale profile update")
		if err != nil {
			return err
		}
		return nil
	}
	if err != nil {
		s.state.Loading = false
		s.state.LastError = err.Error()
		st := s.snapshotLocked()
		subs := s.subscribersLocked()
		s.mu.Unlock()
		notify(subs, st)
		return err
	}

	s.state.User = &user
	s.state.Loading = false
	s.state.LastError = ""
	st = s.snapshotLocked()
	subs = s.subscribersLocked()
	s.mu.Unlock()
	notify(subs, st)
	return nil
}

// Logout clears the session unconditionally and synchronously: no loading
// state is observable and the persisted token is removed. It never fails;
// storage problems are only logged.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.state = State{}
	s.generation++
	st := s.snapshotLocked()
	subs := s.subscribersLocked()
	s.mu.Unlock()
	notify(subs, st)

	if err := s.prefs.Delete(ctx, TokenKey); err != nil {
		s.log.Warn(ctx, "failed to remove persisted token", "error", err)
	}
}

// beginOp marks the start of a session-affecting attempt: Loading goes true,
// LastError is cleared, and the current generation is captured.
func (s *Store) beginOp() uint64 {
	s.mu.Lock()
	s.state.Loading = true
	s.state.LastError = ""
	gen := s.generation
	st := s.snapshotLocked()
	subs := s.subscribersLocked()
	s.mu.Unlock()
	notify(subs, st)
	return gen
}

// failOp records a failed attempt, unless the session moved on while the
// attempt was in flight.
func (s *Store) failOp(ctx context.Context, gen uint64, err error) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.log.Debug(ctx, "discarding stale auth failure", "error", err)
		return
	}
	s.state.Loading = false
	s.state.LastError = err.Error()
	st := s.snapshotLocked()
	subs := s.subscribersLocked()
	s.mu.Unlock()
	notify(subs, st)
}

// applyAuth commits a successful login/register response and persists the
// token, unless the session moved on while the call was in flight.
func (s *Store) applyAuth(ctx context.Context, gen uint64, resp models.AuthResponse) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.log.Debug(ctx, "discarding stale auth success")
		return
	}
	user := resp.User
	s.state = State{Token: resp.Token, User: &user}
	s.generation++
	// Persist while still holding the lock: a Logout committing between the
	// generation check and a deferred write would have its token removal
	// overwritten, resurrecting the session on the next startup.
	persistErr := s.prefs.Set(ctx, TokenKey, resp.Token)
	st := s.snapshotLocked()
	subs := s.subscribersLocked()
	s.mu.Unlock()
	notify(subs, st)

	if persistErr != nil {
		s.log.Warn(ctx, "failed to persist token", "error", persistErr)
	}
	s.log.Info(ctx, "session established", "user_id", user.ID)
}

// snapshotLocked copies the state, deep enough that observers cannot mutate
// the store's view of the profile. Callers must hold s.mu.
func (s *Store) snapshotLocked() State {
	st := s.state
	if st.User != nil {
		u := *st.User
		contacts := make([]string, len(u.Contacts))
		copy(contacts, u.Contacts)
		u.Contacts = contacts
		st.User = &u
	}
	return st
}

func (s *Store) subscribersLocked() []func(State) {
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(State), st State) {
	for _, fn := range subs {
		fn(st)
	}
}
