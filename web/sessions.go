package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	tips "temporal-betting-tips"
)

const (
	sessionCookie = "tipster_session"
	sessionTTL    = 30 * time.Minute
)

type session struct {
	controller *tips.Controller
	lastSeen   time.Time
}

// sessionStore gives every browser its own selection chain and catalog
type sessionStore struct {
	mu            sync.Mutex
	sessions      map[string]*session
	newController func() *tips.Controller
	now           func() time.Time
}

func newSessionStore(newController func() *tips.Controller) *sessionStore {
	return &sessionStore{
		sessions:      make(map[string]*session),
		newController: newController,
		now:           time.Now,
	}
}

// controller returns the caller's controller, starting a session if the
// request has no live one.
func (s *sessionStore) controller(w http.ResponseWriter, r *http.Request) *tips.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if sess, ok := s.sessions[cookie.Value]; ok {
			sess.lastSeen = now
			return sess.controller
		}
	}

	id := uuid.NewString()
	sess := &session{controller: s.newController(), lastSeen: now}
	s.sessions[id] = sess
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess.controller
}

func (s *sessionStore) sweepLocked(now time.Time) {
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > sessionTTL {
			delete(s.sessions, id)
		}
	}
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
