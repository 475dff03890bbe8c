package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/raynott/storefront/internal/backend"
	"github.com/raynott/storefront/internal/models"
)

var ErrNotLoggedIn = errors.New("not logged in")

// Durable storage keys, one row per key per session.
const (
	keyUser  = "raynott_user"
	keyToken = "raynott_token"
)

// Open opens (or creates) the embedded session database.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	if err := db.AutoMigrate(&models.SessionEntry{}); err != nil {
		return nil, fmt.Errorf("migrate session db: %w", err)
	}
	return db, nil
}

// Store owns the authenticated session of every browser: identity and bearer
// token in memory, mirrored to durable rows so a session survives a restart.
// Tokens are stored opaque; an expired one is only discovered when the
// backend rejects a request that carries it.
type Store struct {
	DB      *gorm.DB
	Backend *backend.Client

	mu    sync.RWMutex
	cache map[string]*models.Session
}

func NewStore(db *gorm.DB, client *backend.Client) *Store {
	return &Store{
		DB:      db,
		Backend: client,
		cache:   make(map[string]*models.Session),
	}
}

// Login delegates to the backend; on success the session is kept in memory
// and persisted. On failure nothing changes and the error propagates.
func (s *Store) Login(ctx context.Context, sessionID, email, password string) (*models.Session, error) {
	sess, err := s.Backend.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, sessionID, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Store) Register(ctx context.Context, sessionID, name, email, password string) (*models.Session, error) {
	sess, err := s.Backend.Register(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, sessionID, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Logout clears memory and the durable rows. Unknown sessions are a no-op.
func (s *Store) Logout(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.cache, sessionID)
	s.mu.Unlock()

	if err := s.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&models.SessionEntry{}).Error; err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Current returns the session for the given ID, hydrating from durable
// storage on first access. ErrNotLoggedIn when there is none.
func (s *Store) Current(ctx context.Context, sessionID string) (*models.Session, error) {
	s.mu.RLock()
	sess, ok := s.cache[sessionID]
	s.mu.RUnlock()
	if ok {
		return sess, nil
	}

	var entries []models.SessionEntry
	if err := s.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var userJSON, token string
	for _, e := range entries {
		switch e.Key {
		case keyUser:
			userJSON = e.Value
		case keyToken:
			token = e.Value
		}
	}
	if userJSON == "" || token == "" {
		return nil, ErrNotLoggedIn
	}

	restored := &models.Session{Token: token}
	if err := json.Unmarshal([]byte(userJSON), &restored.Identity); err != nil {
		return nil, fmt.Errorf("decode stored session: %w", err)
	}

	s.mu.Lock()
	s.cache[sessionID] = restored
	s.mu.Unlock()
	return restored, nil
}

// Token returns the bearer token for the session, or "" when anonymous.
func (s *Store) Token(ctx context.Context, sessionID string) string {
	sess, err := s.Current(ctx, sessionID)
	if err != nil {
		return ""
	}
	return sess.Token
}

func (s *Store) save(ctx context.Context, sessionID string, sess *models.Session) error {
	identity, err := json.Marshal(sess.Identity)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	now := time.Now().Unix()
	entries := []models.SessionEntry{
		{SessionID: sessionID, Key: keyUser, Value: string(identity), UpdatedAt: now},
		{SessionID: sessionID, Key: keyToken, Value: sess.Token, UpdatedAt: now},
	}
	err = s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entries).Error
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.cache[sessionID] = sess
	s.mu.Unlock()
	return nil
}
