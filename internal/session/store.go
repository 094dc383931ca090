// Package session owns the client's authentication state: who is using the
// application, restored from persisted credentials at startup and mutated
// only through Verify, Login, and Logout.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/edupi-school/edupi-client/internal/logging"
	"github.com/edupi-school/edupi-client/pkg/model"
)

// AdminVerifier checks an admin bearer token against the backend.
// Implemented by the api.Client.
type AdminVerifier interface {
	AdminVerify(ctx context.Context, token string) (*model.Actor, error)
}

// Snapshot is a read-only view of the session state.
//
// Invariant: Kind is non-empty exactly when Authenticated is true.
// Loading is true only until the initial Verify settles.
type Snapshot struct {
	Authenticated bool
	Actor         *model.Actor
	Kind          model.ActorKind
	Loading       bool
}

// IsStudent reports whether the session is an authenticated student —
// the only state in which the realtime channel may be open.
func (s Snapshot) IsStudent() bool {
	return s.Authenticated && s.Kind == model.KindStudent
}

// Store is the single source of truth for the session. All mutation goes
// through Verify, Login, and Logout; consumers read snapshots or subscribe
// to transitions. Subscribers are invoked synchronously on the mutating
// goroutine, so a logout and the teardown it triggers happen in the same
// update with no window for a stale consumer.
type Store struct {
	keystore *Keystore
	verifier AdminVerifier
	logger   *slog.Logger

	mu   sync.Mutex
	snap Snapshot
	subs []func(Snapshot)
}

// NewStore creates a session store in the Initializing state.
func NewStore(ks *Keystore, verifier AdminVerifier, logger *slog.Logger) *Store {
	return &Store{
		keystore: ks,
		verifier: verifier,
		logger:   logger.With("component", "session"),
		snap:     Snapshot{Loading: true},
	}
}

// Snapshot returns the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Subscribe registers an observer for session transitions. The observer is
// called immediately with the current state, then synchronously after every
// transition.
func (s *Store) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	snap := s.snap
	s.mu.Unlock()
	fn(snap)
}

// Verify restores the session from persisted credentials.
//
// Admin credentials are verified against the backend on every startup;
// student credentials are trusted from the cached snapshot without a
// network call. The asymmetry is deliberate and preserved from the web
// client — revoked student tokens are only rejected when the next API
// call fails. Admin wins when both credential pairs are present.
//
// Verification failures of any kind (bad token, network error, corrupt
// snapshot) degrade to an anonymous session; nothing is surfaced to the
// user and nothing is retried.
func (s *Store) Verify(ctx context.Context) {
	adminToken := s.keystore.Get(KeyAdminToken)
	adminData := s.keystore.Get(KeyAdminData)
	studentToken := s.keystore.Get(KeyStudentToken)
	studentData := s.keystore.Get(KeyStudentData)

	switch {
	case adminToken != "" && adminData != "":
		actor, err := s.verifier.AdminVerify(ctx, adminToken)
		if err != nil {
			s.logger.Debug("admin verification failed, clearing credentials",
				"token", logging.Redact(adminToken), "error", err)
			s.Logout()
			return
		}
		s.transition(Snapshot{Authenticated: true, Actor: actor, Kind: model.KindAdmin})

	case studentToken != "" && studentData != "":
		actor, err := model.ParseActor(studentData)
		if err != nil {
			s.logger.Debug("cached student snapshot unreadable, clearing credentials", "error", err)
			s.Logout()
			return
		}
		s.transition(Snapshot{Authenticated: true, Actor: actor, Kind: model.KindStudent})

	default:
		s.transition(Snapshot{})
	}
}

// Login promotes the session to an authenticated actor. It is a pure state
// transition: callers persist the token and actor snapshot to the keystore
// before invoking it.
func (s *Store) Login(actor *model.Actor, kind model.ActorKind) {
	s.transition(Snapshot{Authenticated: true, Actor: actor, Kind: kind})
}

// Logout clears all persisted credentials and resets the session to
// anonymous. Idempotent: a second call observes the same end state.
func (s *Store) Logout() {
	if err := s.keystore.Clear(); err != nil {
		s.logger.Warn("clear credentials", "error", err)
	}
	s.transition(Snapshot{})
}

// transition commits the new state and notifies subscribers synchronously.
func (s *Store) transition(next Snapshot) {
	s.mu.Lock()
	s.snap = next
	subs := make([]func(Snapshot), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}
