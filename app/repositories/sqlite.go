package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"newsboard/app/models"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	password_hash BLOB NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS news (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	text TEXT NOT NULL,
	date INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS news_date ON news (date DESC, id DESC);
CREATE TABLE IF NOT EXISTS comments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	news_id INTEGER NOT NULL REFERENCES news (id) ON DELETE CASCADE,
	author_id INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	author TEXT NOT NULL,
	text TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS comments_news_created ON comments (news_id, created_at, id);
CREATE TABLE IF NOT EXISTS sessions (
	token TEXT PRIMARY KEY,
	user_id INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	expires_at INTEGER NOT NULL
);
`

// SQLite implements every repository on one SQLite database.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (or creates) the SQLite database at path and returns a
// Store backed by it. A path already in "file:" URI form is used verbatim.
func OpenSQLite(path string) (*Store, error) {
	l, err := NewSQLite(path)
	if err != nil {
		return nil, err
	}
	return &Store{
		News:     sqliteNews{l},
		Comments: sqliteComments{l},
		Users:    sqliteUsers{l},
		Sessions: sqliteSessions{l},
		closer:   l.Close,
	}, nil
}

// NewSQLite connects to the database and creates the schema.
func NewSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	dsn := path
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + path + "?_foreign_keys=on&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps writers from tripping over SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	l := &SQLite{db: db, now: time.Now}
	if err := l.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return l, nil
}

func (l *SQLite) initSchema() error {
	_, err := l.db.Exec(sqliteSchema)
	return err
}

// Close closes the database connection.
func (l *SQLite) Close() error {
	return l.db.Close()
}

func toUnixNano(t time.Time) int64 { return t.UnixNano() }

func fromUnixNano(n int64) time.Time { return time.Unix(0, n).UTC() }

func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	return errors.As(err, &serr) && serr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func isForeignKeyViolation(err error) bool {
	var serr sqlite3.Error
	return errors.As(err, &serr) && serr.ExtendedCode == sqlite3.ErrConstraintForeignKey
}

type sqliteNews struct{ *SQLite }

func (l sqliteNews) Create(news *models.News) error {
	news.BeforeCreate()
	res, err := l.db.Exec(
		"INSERT INTO news (title, text, date, created_at) VALUES (?, ?, ?, ?)",
		news.Title, news.Text, toUnixNano(news.Date), toUnixNano(news.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert news: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	news.ID = int(id)
	return nil
}

func (l sqliteNews) GetByID(id int) (*models.News, error) {
	row := l.db.QueryRow("SELECT id, title, text, date, created_at FROM news WHERE id = ?", id)
	news, err := scanNews(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return news, err
}

func (l sqliteNews) List(limit, offset int) ([]*models.News, error) {
	if limit <= 0 {
		limit = -1
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := l.db.Query(
		"SELECT id, title, text, date, created_at FROM news ORDER BY date DESC, id DESC LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query news: %w", err)
	}
	defer rows.Close()

	news := []*models.News{}
	for rows.Next() {
		item, err := scanNews(rows)
		if err != nil {
			return nil, err
		}
		news = append(news, item)
	}
	return news, rows.Err()
}

func (l sqliteNews) Count() (int, error) {
	var n int
	err := l.db.QueryRow("SELECT COUNT(*) FROM news").Scan(&n)
	return n, err
}

func (l sqliteNews) Delete(id int) error {
	res, err := l.db.Exec("DELETE FROM news WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete news: %w", err)
	}
	return expectAffected(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNews(s scanner) (*models.News, error) {
	var (
		news          models.News
		date, created int64
	)
	if err := s.Scan(&news.ID, &news.Title, &news.Text, &date, &created); err != nil {
		return nil, err
	}
	news.Date = fromUnixNano(date)
	news.CreatedAt = fromUnixNano(created)
	return &news, nil
}

type sqliteComments struct{ *SQLite }

func (l sqliteComments) Create(comment *models.Comment) error {
	comment.BeforeCreate()
	res, err := l.db.Exec(
		"INSERT INTO comments (news_id, author_id, author, text, created_at) VALUES (?, ?, ?, ?, ?)",
		comment.NewsID, comment.AuthorID, comment.Author, comment.Text, toUnixNano(comment.CreatedAt),
	)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("news %d or author %d: %w", comment.NewsID, comment.AuthorID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	comment.ID = int(id)
	return nil
}

func (l sqliteComments) GetByID(id int) (*models.Comment, error) {
	row := l.db.QueryRow(
		"SELECT id, news_id, author_id, author, text, created_at FROM comments WHERE id = ?", id,
	)
	comment, err := scanComment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return comment, err
}

func (l sqliteComments) ListByNews(newsID int) ([]*models.Comment, error) {
	rows, err := l.db.Query(
		`SELECT id, news_id, author_id, author, text, created_at
		FROM comments WHERE news_id = ? ORDER BY created_at ASC, id ASC`, newsID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

func (l sqliteComments) Update(comment *models.Comment) error {
	res, err := l.db.Exec(
		"UPDATE comments SET news_id = ?, author_id = ?, author = ?, text = ?, created_at = ? WHERE id = ?",
		comment.NewsID, comment.AuthorID, comment.Author, comment.Text, toUnixNano(comment.CreatedAt), comment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	return expectAffected(res)
}

func (l sqliteComments) Delete(id int) error {
	res, err := l.db.Exec("DELETE FROM comments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return expectAffected(res)
}

func (l sqliteComments) Count() (int, error) {
	var n int
	err := l.db.QueryRow("SELECT COUNT(*) FROM comments").Scan(&n)
	return n, err
}

func scanComment(s scanner) (*models.Comment, error) {
	var (
		comment models.Comment
		created int64
	)
	err := s.Scan(&comment.ID, &comment.NewsID, &comment.AuthorID, &comment.Author, &comment.Text, &created)
	if err != nil {
		return nil, err
	}
	comment.CreatedAt = fromUnixNano(created)
	return &comment, nil
}

type sqliteUsers struct{ *SQLite }

func (l sqliteUsers) Create(user *models.User) error {
	user.BeforeCreate()
	res, err := l.db.Exec(
		"INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)",
		user.Username, user.PasswordHash, toUnixNano(user.CreatedAt),
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = int(id)
	return nil
}

func (l sqliteUsers) GetByID(id int) (*models.User, error) {
	return l.get("SELECT id, username, password_hash, created_at FROM users WHERE id = ?", id)
}

func (l sqliteUsers) GetByUsername(username string) (*models.User, error) {
	return l.get("SELECT id, username, password_hash, created_at FROM users WHERE username = ?", username)
}

func (l sqliteUsers) get(query string, arg any) (*models.User, error) {
	var (
		user    models.User
		created int64
	)
	err := l.db.QueryRow(query, arg).Scan(&user.ID, &user.Username, &user.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	user.CreatedAt = fromUnixNano(created)
	return &user, nil
}

type sqliteSessions struct{ *SQLite }

func (l sqliteSessions) Create(userID int, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("session ttl must be positive, got %s", ttl)
	}
	token := uuid.NewString()
	_, err := l.db.Exec(
		"INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)",
		token, userID, toUnixNano(l.now().Add(ttl)),
	)
	if isForeignKeyViolation(err) {
		return "", fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to insert session: %w", err)
	}
	return token, nil
}

func (l sqliteSessions) Get(token string) (int, error) {
	var userID int
	var expires int64
	err := l.db.QueryRow("SELECT user_id, expires_at FROM sessions WHERE token = ?", token).Scan(&userID, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	if !l.now().Before(fromUnixNano(expires)) {
		_, _ = l.db.Exec("DELETE FROM sessions WHERE token = ?", token)
		return 0, ErrNotFound
	}
	return userID, nil
}

func (l sqliteSessions) Delete(token string) error {
	_, err := l.db.Exec("DELETE FROM sessions WHERE token = ?", token)
	return err
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
