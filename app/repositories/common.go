package repositories

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"newsboard/app/models"

	"github.com/dgraph-io/badger/v4"
)

const (
	// Key prefixes for different entity types
	NewsKeyPrefix         = "news:"
	CommentKeyPrefix      = "comment:"
	NewsCommentsKeyPrefix = "newscomments:"
	UserKeyPrefix         = "user:"
	UsernameKeyPrefix     = "username:"
	SessionKeyPrefix      = "session:"

	// Sequence keys for auto-incrementing IDs
	NewsSeqKey    = "seq:news"
	CommentSeqKey = "seq:comment"
	UserSeqKey    = "seq:user"
)

const maxConflictRetries = 5

func newsKey(id int) []byte {
	return []byte(fmt.Sprintf("%s%d", NewsKeyPrefix, id))
}

func commentKey(id int) []byte {
	return []byte(fmt.Sprintf("%s%d", CommentKeyPrefix, id))
}

func newsCommentsPrefix(newsID int) []byte {
	return []byte(fmt.Sprintf("%s%d:", NewsCommentsKeyPrefix, newsID))
}

func newsCommentKey(newsID, commentID int) []byte {
	return []byte(fmt.Sprintf("%s%d:%d", NewsCommentsKeyPrefix, newsID, commentID))
}

func userKey(id int) []byte {
	return []byte(fmt.Sprintf("%s%d", UserKeyPrefix, id))
}

func usernameKey(username string) []byte {
	return []byte(UsernameKeyPrefix + username)
}

func sessionKey(token string) []byte {
	return []byte(SessionKeyPrefix + token)
}

// update runs fn in a read-write transaction, retrying on write conflicts.
func update(db *badger.DB, fn func(txn *badger.Txn) error) error {
	var err error
	for i := 0; i < maxConflictRetries; i++ {
		err = db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

// getNextID gets the next available ID for a given sequence key
func getNextID(txn *badger.Txn, seqKey string) (int, error) {
	var id int
	item, err := txn.Get([]byte(seqKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		id = 1
	} else if err != nil {
		return 0, err
	} else {
		err = item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("corrupt sequence %q", seqKey)
			}
			id = int(binary.BigEndian.Uint64(val))
			return nil
		})
		if err != nil {
			return 0, err
		}
		id++
	}

	// Store new ID
	idBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(idBytes, uint64(id))
	if err := txn.Set([]byte(seqKey), idBytes); err != nil {
		return 0, err
	}

	return id, nil
}

// getEntity loads and decodes the value stored at key.
func getEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshalEntity(val, entity)
	})
}

// exists reports whether key is present.
func exists(txn *badger.Txn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}

// SortNewsByDate orders news newest first; ties fall back to the higher id.
func SortNewsByDate(news []*models.News) {
	sort.SliceStable(news, func(i, j int) bool {
		if !news[i].Date.Equal(news[j].Date) {
			return news[i].Date.After(news[j].Date)
		}
		return news[i].ID > news[j].ID
	})
}

// SortCommentsByCreated orders comments oldest first; ties fall back to the lower id.
func SortCommentsByCreated(comments []*models.Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.Before(comments[j].CreatedAt)
		}
		return comments[i].ID < comments[j].ID
	})
}

// Page slices items to the window described by limit and offset.
// A non-positive limit means no limit.
func Page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
