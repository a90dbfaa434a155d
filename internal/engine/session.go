package engine

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const sessionTTL = 30 * time.Minute

// sessionStore remembers the last analysis id per session so a poll can be
// resumed after a page reload. Single writer per session, last write wins.
type sessionStore struct {
	cache *gocache.Cache
}

func newSessionStore() *sessionStore {
	return &sessionStore{
		cache: gocache.New(sessionTTL, 10*time.Minute),
	}
}

// Remember records the last analysis id for a session
func (s *sessionStore) Remember(sessionID, analysisID string) {
	if sessionID == "" || analysisID == "" {
		return
	}
	s.cache.Set(sessionID, analysisID, sessionTTL)
}

// Last returns the last analysis id recorded for a session
func (s *sessionStore) Last(sessionID string) (string, bool) {
	if val, found := s.cache.Get(sessionID); found {
		return val.(string), true
	}
	return "", false
}
