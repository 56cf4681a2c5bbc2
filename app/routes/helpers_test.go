package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"newsboard/app/logger"
	"newsboard/app/metrics"
	"newsboard/app/middleware"
	"newsboard/app/models"
	"newsboard/app/repositories"
	"newsboard/app/repositories/mock"
	"newsboard/app/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "secret-pass"

type testApp struct {
	t       *testing.T
	store   *repositories.Store
	router  *mux.Router
	users   *services.UserService
	metrics *metrics.Metrics
	logs    *bytes.Buffer
}

// storeFactories opens one empty store per backend.
var storeFactories = map[string]func(t *testing.T) *repositories.Store{
	"badger": func(t *testing.T) *repositories.Store {
		store, err := repositories.OpenBadger("")
		require.NoError(t, err)
		t.Cleanup(func() { store.Close() })
		return store
	},
	"sqlite": func(t *testing.T) *repositories.Store {
		store, err := repositories.OpenSQLite(filepath.Join(t.TempDir(), "news.db"))
		require.NoError(t, err)
		t.Cleanup(func() { store.Close() })
		return store
	},
	"mock": func(t *testing.T) *repositories.Store {
		return mock.NewStore()
	},
}

func setupTestApp(t *testing.T) *testApp {
	return setupTestAppWithStore(t, storeFactories["badger"](t))
}

func setupTestAppWithStore(t *testing.T, store *repositories.Store) *testApp {
	t.Helper()

	var logs bytes.Buffer
	zl, err := logger.New(&logs, "debug")
	require.NoError(t, err)

	m := metrics.New()
	router, err := SetupRoutes(Options{
		Store:    store,
		Logger:   zl,
		Metrics:  m,
		HashCost: bcrypt.MinCost,
	})
	require.NoError(t, err)

	users := services.NewUserService(store.Users, store.Sessions, time.Hour, nil)
	users.SetHashCost(bcrypt.MinCost)

	return &testApp{
		t:       t,
		store:   store,
		router:  router,
		users:   users,
		metrics: m,
		logs:    &logs,
	}
}

func (a *testApp) createUser(username string) *models.User {
	a.t.Helper()
	user, err := a.users.CreateUser(username, testPassword)
	require.NoError(a.t, err)
	return user
}

// login opens a session for user and returns its cookie.
func (a *testApp) login(user *models.User) *http.Cookie {
	a.t.Helper()
	token, err := a.store.Sessions.Create(user.ID, time.Hour)
	require.NoError(a.t, err)
	return &http.Cookie{Name: middleware.SessionCookieName, Value: token}
}

func (a *testApp) createNews(title string, date time.Time) *models.News {
	a.t.Helper()
	news := &models.News{Title: title, Text: "Текст новости " + title, Date: date}
	require.NoError(a.t, a.store.News.Create(news))
	return news
}

func (a *testApp) createComment(news *models.News, author *models.User, text string, created time.Time) *models.Comment {
	a.t.Helper()
	comment := &models.Comment{
		NewsID:    news.ID,
		AuthorID:  author.ID,
		Author:    author.Username,
		Text:      text,
		CreatedAt: created,
	}
	require.NoError(a.t, a.store.Comments.Create(comment))
	return comment
}

func (a *testApp) commentCount() int {
	a.t.Helper()
	n, err := a.store.Comments.Count()
	require.NoError(a.t, err)
	return n
}

// do sends a request through the router. A non-nil form is posted
// url-encoded.
func (a *testApp) do(method, target string, form url.Values, cookie *http.Cookie, header ...string) *httptest.ResponseRecorder {
	a.t.Helper()
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) get(target string, cookie *http.Cookie) *httptest.ResponseRecorder {
	return a.do(http.MethodGet, target, nil, cookie)
}

func (a *testApp) post(target string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	return a.do(http.MethodPost, target, form, cookie)
}

// getJSON fetches target as JSON and decodes the body into v.
func (a *testApp) getJSON(target string, cookie *http.Cookie, v any) *httptest.ResponseRecorder {
	a.t.Helper()
	rec := a.do(http.MethodGet, target, nil, cookie, "Accept", "application/json")
	if v != nil && rec.Code == http.StatusOK {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
	}
	return rec
}

type homeBody struct {
	ObjectList []models.News `json:"object_list"`
	Page       int           `json:"page"`
	HasNext    bool          `json:"has_next"`
}

type detailBody struct {
	News models.News     `json:"news"`
	Form json.RawMessage `json:"form"`
	User *models.User    `json:"user"`
}

func newsIDs(list []models.News) []int {
	ids := make([]int, len(list))
	for i := range list {
		ids[i] = list[i].ID
	}
	return ids
}

func commentIDs(list []*models.Comment) []int {
	ids := make([]int, len(list))
	for i := range list {
		ids[i] = list[i].ID
	}
	return ids
}

func commentsLocation(newsID int) string {
	return fmt.Sprintf("/news/%d/#comments", newsID)
}
