package repositories

import (
	"errors"
	"strconv"
	"time"

	"newsboard/app/models"

	"github.com/dgraph-io/badger/v4"
)

// userRecord is the stored form of a user; models.User hides the hash from JSON.
type userRecord struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash []byte    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u userRecord) model() *models.User {
	return &models.User{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

// BadgerUserRepository implements UserRepository using BadgerDB
type BadgerUserRepository struct {
	db *badger.DB
}

// NewBadgerUserRepository creates a new BadgerUserRepository
func NewBadgerUserRepository(db *badger.DB) *BadgerUserRepository {
	return &BadgerUserRepository{db: db}
}

// Create stores a new user; usernames are unique.
func (r *BadgerUserRepository) Create(user *models.User) error {
	user.BeforeCreate()
	return update(r.db, func(txn *badger.Txn) error {
		taken, err := exists(txn, usernameKey(user.Username))
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicate
		}

		id, err := getNextID(txn, UserSeqKey)
		if err != nil {
			return err
		}

		data, err := marshalEntity(userRecord{
			ID:           id,
			Username:     user.Username,
			PasswordHash: user.PasswordHash,
			CreatedAt:    user.CreatedAt,
		})
		if err != nil {
			return err
		}
		if err := txn.Set(userKey(id), data); err != nil {
			return err
		}
		if err := txn.Set(usernameKey(user.Username), []byte(strconv.Itoa(id))); err != nil {
			return err
		}
		user.ID = id
		return nil
	})
}

// GetByID retrieves a user by ID
func (r *BadgerUserRepository) GetByID(id int) (*models.User, error) {
	var rec userRecord
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, userKey(id), &rec)
	})
	if err != nil {
		return nil, err
	}
	return rec.model(), nil
}

// GetByUsername retrieves a user by exact username
func (r *BadgerUserRepository) GetByUsername(username string) (*models.User, error) {
	var rec userRecord
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(usernameKey(username))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var id int
		err = item.Value(func(val []byte) error {
			id, err = strconv.Atoi(string(val))
			return err
		})
		if err != nil {
			return err
		}
		return getEntity(txn, userKey(id), &rec)
	})
	if err != nil {
		return nil, err
	}
	return rec.model(), nil
}
