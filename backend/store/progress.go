// Package store is the persistence layer for user accounts and their
// typing metrics.
package store

import (
	"errors"
	"fmt"

	"github.com/typerush/website/backend/models"

	"gorm.io/gorm"
)

var (
	// ErrNotFound means the identity has no account. An existing account
	// that never recorded metrics loads as the default record instead.
	ErrNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned by CreateUser on a duplicate username.
	ErrUsernameTaken = errors.New("username already taken")
)

// ValidationError rejects a metrics record that fails the type or range
// invariants. The record is never partially applied.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid metrics record: %s", e.Reason)
}

// ScorerEntry is one leaderboard row.
type ScorerEntry struct {
	Username string `json:"username"`
	Speed    int    `json:"speed"`
	Accuracy int    `json:"accuracy"`
	Score    int    `json:"score"`
}

// ProgressStore loads and replaces per-identity metrics records and serves
// the leaderboard query. Identity is always passed in explicitly.
type ProgressStore interface {
	Load(userID uint) (models.MetricsRecord, error)
	Upsert(userID uint, rec models.MetricsRecord) error
	TopScorers(limit, minLessonIdx int) ([]ScorerEntry, error)
}

// GormStore implements ProgressStore and account creation over GORM.
type GormStore struct {
	db             *gorm.DB
	finalLessonIdx int
}

func NewGormStore(db *gorm.DB, finalLessonIdx int) *GormStore {
	return &GormStore{db: db, finalLessonIdx: finalLessonIdx}
}

// CreateUser creates an account, optionally seeded with the metrics record
// carried over from the visitor's client cache. A nil record seeds the
// all-zero default.
func (s *GormStore) CreateUser(username, passwordHash string, initial *models.MetricsRecord) (models.User, error) {
	var existing models.User
	err := s.db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return models.User{}, ErrUsernameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}

	user := models.User{
		Username:     username,
		PasswordHash: passwordHash,
	}
	if initial != nil {
		if err := initial.Validate(s.finalLessonIdx); err != nil {
			return models.User{}, &ValidationError{Reason: err.Error()}
		}
		user.SetRecord(*initial)
	}
	if err := s.db.Create(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

// FindByUsername returns the account row for a username.
func (s *GormStore) FindByUsername(username string) (models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// FindByID returns the account row for a user ID.
func (s *GormStore) FindByID(userID uint) (models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// Load returns the identity's metrics record. A fresh account returns the
// default record; a missing account returns ErrNotFound.
func (s *GormStore) Load(userID uint) (models.MetricsRecord, error) {
	user, err := s.FindByID(userID)
	if err != nil {
		return models.MetricsRecord{}, err
	}
	return user.Record(), nil
}

// Upsert validates the record and replaces the stored one wholesale.
// Re-applying the same record is a no-op in effect (last write wins).
func (s *GormStore) Upsert(userID uint, rec models.MetricsRecord) error {
	if err := rec.Validate(s.finalLessonIdx); err != nil {
		return &ValidationError{Reason: err.Error()}
	}
	user, err := s.FindByID(userID)
	if err != nil {
		return err
	}
	return s.db.Model(&user).Updates(map[string]interface{}{
		"lesson_idx":   rec.LessonIdx,
		"speed_new":    rec.Speed.New,
		"speed_old":    rec.Speed.Old,
		"accuracy_new": rec.Accuracy.New,
		"accuracy_old": rec.Accuracy.Old,
		"score_new":    rec.Score.New,
		"score_old":    rec.Score.Old,
	}).Error
}

// TopScorers returns at most limit users who reached minLessonIdx, best
// score first. Equal scores order by username so the ranking is stable
// across storage engines. No qualifying user yields an empty slice.
func (s *GormStore) TopScorers(limit, minLessonIdx int) ([]ScorerEntry, error) {
	entries := make([]ScorerEntry, 0, limit)
	err := s.db.Model(&models.User{}).
		Select("username, speed_new AS speed, accuracy_new AS accuracy, score_new AS score").
		Where("lesson_idx = ?", minLessonIdx).
		Order("score_new DESC, username ASC").
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
