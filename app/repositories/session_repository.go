package repositories

import (
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type sessionRecord struct {
	UserID    int       `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// BadgerSessionRepository implements SessionRepository using BadgerDB.
// Entries carry a badger TTL so expired sessions are garbage collected.
type BadgerSessionRepository struct {
	db  *badger.DB
	now func() time.Time
}

// NewBadgerSessionRepository creates a new BadgerSessionRepository
func NewBadgerSessionRepository(db *badger.DB) *BadgerSessionRepository {
	return &BadgerSessionRepository{db: db, now: time.Now}
}

// Create opens a session for userID that expires after ttl.
func (r *BadgerSessionRepository) Create(userID int, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("session ttl must be positive, got %s", ttl)
	}
	token := uuid.NewString()
	data, err := marshalEntity(sessionRecord{UserID: userID, ExpiresAt: r.now().Add(ttl)})
	if err != nil {
		return "", err
	}

	// badger TTLs have second granularity; ExpiresAt is authoritative.
	storeTTL := ttl
	if storeTTL < time.Second {
		storeTTL = time.Second
	}
	err = update(r.db, func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(sessionKey(token), data).WithTTL(storeTTL + time.Second))
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// Get resolves token to a user id; expired or unknown tokens yield ErrNotFound.
func (r *BadgerSessionRepository) Get(token string) (int, error) {
	var rec sessionRecord
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, sessionKey(token), &rec)
	})
	if err != nil {
		return 0, err
	}
	if !r.now().Before(rec.ExpiresAt) {
		return 0, ErrNotFound
	}
	return rec.UserID, nil
}

// Delete drops the session; deleting an unknown token is not an error.
func (r *BadgerSessionRepository) Delete(token string) error {
	return update(r.db, func(txn *badger.Txn) error {
		return txn.Delete(sessionKey(token))
	})
}
