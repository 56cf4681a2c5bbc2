package repositories

import (
	"fmt"

	"newsboard/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerNewsRepository implements NewsRepository using BadgerDB
type BadgerNewsRepository struct {
	db *badger.DB
}

// NewBadgerNewsRepository creates a new BadgerNewsRepository
func NewBadgerNewsRepository(db *badger.DB) *BadgerNewsRepository {
	return &BadgerNewsRepository{db: db}
}

// Create creates a new news item
func (r *BadgerNewsRepository) Create(news *models.News) error {
	news.BeforeCreate()
	return update(r.db, func(txn *badger.Txn) error {
		id, err := getNextID(txn, NewsSeqKey)
		if err != nil {
			return err
		}
		news.ID = id

		// Comments live under their own keys.
		stored := *news
		stored.Comments = nil
		data, err := marshalEntity(&stored)
		if err != nil {
			return err
		}
		return txn.Set(newsKey(id), data)
	})
}

// GetByID retrieves a news item by ID, without its comments
func (r *BadgerNewsRepository) GetByID(id int) (*models.News, error) {
	var news models.News
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, newsKey(id), &news)
	})
	if err != nil {
		return nil, err
	}
	return &news, nil
}

// List retrieves a page of news items, newest first
func (r *BadgerNewsRepository) List(limit, offset int) ([]*models.News, error) {
	news, err := r.all()
	if err != nil {
		return nil, err
	}
	SortNewsByDate(news)
	return Page(news, limit, offset), nil
}

// Count returns the number of stored news items
func (r *BadgerNewsRepository) Count() (int, error) {
	count := 0
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(NewsKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// Delete deletes a news item together with its comments
func (r *BadgerNewsRepository) Delete(id int) error {
	return update(r.db, func(txn *badger.Txn) error {
		found, err := exists(txn, newsKey(id))
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}

		var indexKeys [][]byte
		var commentIDs []int
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		prefix := newsCommentsPrefix(id)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			var newsID, commentID int
			if _, err := fmt.Sscanf(string(key), NewsCommentsKeyPrefix+"%d:%d", &newsID, &commentID); err != nil {
				it.Close()
				return fmt.Errorf("malformed index key %q: %w", key, err)
			}
			indexKeys = append(indexKeys, key)
			commentIDs = append(commentIDs, commentID)
		}
		it.Close()

		for i := range indexKeys {
			if err := txn.Delete(indexKeys[i]); err != nil {
				return err
			}
			if err := txn.Delete(commentKey(commentIDs[i])); err != nil {
				return err
			}
		}
		return txn.Delete(newsKey(id))
	})
}

func (r *BadgerNewsRepository) all() ([]*models.News, error) {
	var news []*models.News
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(NewsKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var item models.News
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &item)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal news: %w", err)
			}
			news = append(news, &item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return news, nil
}
