package repositories

import (
	"fmt"

	"newsboard/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerCommentRepository implements CommentRepository using BadgerDB
type BadgerCommentRepository struct {
	db *badger.DB
}

// NewBadgerCommentRepository creates a new BadgerCommentRepository
func NewBadgerCommentRepository(db *badger.DB) *BadgerCommentRepository {
	return &BadgerCommentRepository{db: db}
}

// Create creates a new comment under an existing news item
func (r *BadgerCommentRepository) Create(comment *models.Comment) error {
	comment.BeforeCreate()
	return update(r.db, func(txn *badger.Txn) error {
		found, err := exists(txn, newsKey(comment.NewsID))
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("news %d: %w", comment.NewsID, ErrNotFound)
		}

		id, err := getNextID(txn, CommentSeqKey)
		if err != nil {
			return err
		}
		comment.ID = id

		data, err := marshalEntity(comment)
		if err != nil {
			return err
		}
		if err := txn.Set(commentKey(id), data); err != nil {
			return err
		}
		// Index by news ID for efficient listing
		return txn.Set(newsCommentKey(comment.NewsID, id), nil)
	})
}

// GetByID retrieves a comment by ID
func (r *BadgerCommentRepository) GetByID(id int) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, commentKey(id), &comment)
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByNews retrieves all comments for a news item, oldest first
func (r *BadgerCommentRepository) ListByNews(newsID int) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := newsCommentsPrefix(newsID)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var nid, id int
			key := string(it.Item().Key())
			if _, err := fmt.Sscanf(key, NewsCommentsKeyPrefix+"%d:%d", &nid, &id); err != nil {
				return fmt.Errorf("malformed index key %q: %w", key, err)
			}

			var comment models.Comment
			if err := getEntity(txn, commentKey(id), &comment); err != nil {
				return fmt.Errorf("failed to load comment %d: %w", id, err)
			}
			comments = append(comments, &comment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	SortCommentsByCreated(comments)
	return comments, nil
}

// Update updates an existing comment
func (r *BadgerCommentRepository) Update(comment *models.Comment) error {
	return update(r.db, func(txn *badger.Txn) error {
		key := commentKey(comment.ID)
		found, err := exists(txn, key)
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}

		data, err := marshalEntity(comment)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}

// Delete deletes a comment by ID
func (r *BadgerCommentRepository) Delete(id int) error {
	return update(r.db, func(txn *badger.Txn) error {
		var comment models.Comment
		if err := getEntity(txn, commentKey(id), &comment); err != nil {
			return err
		}
		if err := txn.Delete(newsCommentKey(comment.NewsID, id)); err != nil {
			return err
		}
		return txn.Delete(commentKey(id))
	})
}

// Count returns the number of stored comments
func (r *BadgerCommentRepository) Count() (int, error) {
	count := 0
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(CommentKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}
