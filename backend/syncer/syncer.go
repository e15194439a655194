// Package syncer implements the reconciliation rules between the client
// cache and the server-side progress store across the anonymous and
// authenticated states of a browser session.
package syncer

import (
	"log"

	"github.com/typerush/website/backend/clientcache"
	"github.com/typerush/website/backend/models"
	"github.com/typerush/website/backend/store"
)

// Session tracks one browser's identity state. userID 0 means anonymous.
// Identity is held explicitly here and passed into every store call.
type Session struct {
	cache          *clientcache.Cache
	progress       store.ProgressStore
	logger         *log.Logger
	userID         uint
	finalLessonIdx int
}

func NewAnonymous(cache *clientcache.Cache, progress store.ProgressStore, logger *log.Logger, finalLessonIdx int) *Session {
	return &Session{cache: cache, progress: progress, logger: logger, finalLessonIdx: finalLessonIdx}
}

func NewAuthenticated(userID uint, cache *clientcache.Cache, progress store.ProgressStore, logger *log.Logger, finalLessonIdx int) *Session {
	s := NewAnonymous(cache, progress, logger, finalLessonIdx)
	s.userID = userID
	return s
}

func (s *Session) Authenticated() bool {
	return s.userID != 0
}

// Bootstrap returns the record the lesson application starts from.
// Anonymous sessions start from the cache (or the default record on a
// first visit). Authenticated sessions first back up the cache's current
// slot, then take the server record as authoritative.
func (s *Session) Bootstrap() (models.MetricsRecord, error) {
	if !s.Authenticated() {
		if rec, ok := s.cache.Read(); ok {
			return rec, nil
		}
		return models.DefaultRecord(), nil
	}

	s.cache.Backup()
	rec, err := s.progress.Load(s.userID)
	if err != nil {
		return models.MetricsRecord{}, err
	}
	s.cache.Write(rec)
	return rec, nil
}

// CompleteLesson records a finished lesson interaction. The cache is always
// written; authenticated sessions also upload to the server, best-effort:
// an upload failure is logged and play continues from the cache.
func (s *Session) CompleteLesson(rec models.MetricsRecord) error {
	if err := rec.Validate(s.finalLessonIdx); err != nil {
		return &store.ValidationError{Reason: err.Error()}
	}

	s.cache.Write(rec)

	if !s.Authenticated() {
		return nil
	}
	if err := s.progress.Upsert(s.userID, rec); err != nil {
		s.logger.Printf("metrics upload failed for user %d: %v", s.userID, err)
	}
	return nil
}

// Logout restores the pre-login anonymous state into the current slot so a
// shared browser does not keep the account's view of progress. The server
// copy is unaffected.
func (s *Session) Logout() {
	s.cache.Restore()
	s.userID = 0
}
