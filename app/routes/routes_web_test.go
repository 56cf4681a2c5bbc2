package routes

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"testing"
	"time"

	"newsboard/app/forms"
	"newsboard/app/repositories"
	"newsboard/app/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHomePage(t *testing.T) {
	app := setupTestApp(t)

	today := time.Now()
	for i := 0; i < services.DefaultNewsPerPage+1; i++ {
		app.createNews(fmt.Sprintf("Новость %02d", i), today.AddDate(0, 0, -i))
	}

	t.Run("newest ten", func(t *testing.T) {
		var body homeBody
		rec := app.getJSON("/", nil, &body)
		require.Equal(t, http.StatusOK, rec.Code)

		require.Len(t, body.ObjectList, services.DefaultNewsPerPage)
		assert.True(t, sort.SliceIsSorted(body.ObjectList, func(i, j int) bool {
			return body.ObjectList[i].Date.After(body.ObjectList[j].Date)
		}))
		assert.Equal(t, "Новость 00", body.ObjectList[0].Title)
		assert.Equal(t, 1, body.Page)
		assert.True(t, body.HasNext)
	})

	t.Run("second page", func(t *testing.T) {
		var body homeBody
		rec := app.getJSON("/?page=2", nil, &body)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, body.ObjectList, 1)
		assert.Equal(t, "Новость 10", body.ObjectList[0].Title)
		assert.False(t, body.HasNext)
	})

	t.Run("html", func(t *testing.T) {
		rec := app.get("/", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), "Новость 00")
		assert.Contains(t, rec.Body.String(), "Новость 09")
		assert.NotContains(t, rec.Body.String(), "Новость 10")
		assert.Contains(t, rec.Body.String(), `href="/?page=2"`)
	})

	t.Run("huge page is empty", func(t *testing.T) {
		var body homeBody
		rec := app.getJSON("/?page="+strconv.Itoa(math.MaxInt), nil, &body)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, body.ObjectList)
		assert.Equal(t, math.MaxInt, body.Page)
		assert.False(t, body.HasNext)
	})

	t.Run("bad page falls back to first", func(t *testing.T) {
		var body homeBody
		app.getJSON("/?page=abc", nil, &body)
		assert.Equal(t, 1, body.Page)
	})
}

func TestEmptyHomePage(t *testing.T) {
	app := setupTestApp(t)

	rec := app.get("/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Новостей пока нет.")
}

func TestNewsDetail(t *testing.T) {
	app := setupTestApp(t)
	author := app.createUser("Автор")
	news := app.createNews("Заголовок", time.Now())

	now := time.Now()
	latest := app.createComment(news, author, "третий", now)
	first := app.createComment(news, author, "первый", now.Add(-2*time.Hour))
	second := app.createComment(news, author, "второй", now.Add(-time.Hour))

	target := fmt.Sprintf("/news/%d/", news.ID)

	t.Run("comments oldest first", func(t *testing.T) {
		var body detailBody
		rec := app.getJSON(target, nil, &body)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, news.ID, body.News.ID)
		assert.Equal(t, []int{first.ID, second.ID, latest.ID}, commentIDs(body.News.Comments))
	})

	t.Run("anonymous gets no form", func(t *testing.T) {
		var body detailBody
		app.getJSON(target, nil, &body)
		assert.Empty(t, body.Form)
		assert.Nil(t, body.User)

		rec := app.get(target, nil)
		assert.NotContains(t, rec.Body.String(), `class="comment-form"`)
		assert.Contains(t, rec.Body.String(), "чтобы оставить комментарий")
		assert.NotContains(t, rec.Body.String(), "Редактировать")
	})

	t.Run("signed in user gets a form", func(t *testing.T) {
		cookie := app.login(author)

		var body detailBody
		app.getJSON(target, cookie, &body)
		assert.NotEmpty(t, body.Form)
		require.NotNil(t, body.User)
		assert.Equal(t, author.ID, body.User.ID)

		rec := app.get(target, cookie)
		assert.Contains(t, rec.Body.String(), `class="comment-form"`)
		assert.Contains(t, rec.Body.String(), fmt.Sprintf(`href="/edit_comment/%d/"`, first.ID))
	})

	t.Run("other users see no edit links", func(t *testing.T) {
		rec := app.get(target, app.login(app.createUser("Читатель")))
		assert.Contains(t, rec.Body.String(), `class="comment-form"`)
		assert.NotContains(t, rec.Body.String(), "Редактировать")
	})

	t.Run("missing news", func(t *testing.T) {
		rec := app.get("/news/999/", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCreateComment(t *testing.T) {
	app := setupTestApp(t)
	author := app.createUser("Автор")
	news := app.createNews("Заголовок", time.Now())
	target := fmt.Sprintf("/news/%d/", news.ID)

	t.Run("anonymous is sent to login", func(t *testing.T) {
		before := app.commentCount()
		rec := app.post(target, url.Values{"text": {"Текст комментария"}}, nil)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, fmt.Sprintf("/auth/login/?next=/news/%d/", news.ID), rec.Header().Get("Location"))
		assert.Equal(t, before, app.commentCount())
	})

	t.Run("missing news", func(t *testing.T) {
		rec := app.post("/news/999/", url.Values{"text": {"Текст комментария"}}, app.login(author))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("empty text", func(t *testing.T) {
		before := app.commentCount()
		rec := app.post(target, url.Values{"text": {""}}, app.login(author))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), forms.RequiredMessage)
		assert.Equal(t, before, app.commentCount())
	})
}

func TestEditComment(t *testing.T) {
	app := setupTestApp(t)
	author := app.createUser("Автор")
	other := app.createUser("Не автор")
	news := app.createNews("Заголовок", time.Now())
	comment := app.createComment(news, author, "Текст комментария", time.Now())
	target := fmt.Sprintf("/edit_comment/%d/", comment.ID)

	textOf := func(t *testing.T) string {
		stored, err := app.store.Comments.GetByID(comment.ID)
		require.NoError(t, err)
		return stored.Text
	}

	t.Run("anonymous is sent to login", func(t *testing.T) {
		for _, method := range []string{http.MethodGet, http.MethodPost} {
			rec := app.do(method, target, url.Values{"text": {"Обновленный текст"}}, nil)
			assert.Equal(t, http.StatusFound, rec.Code, method)
			assert.Equal(t, "/auth/login/?next="+target, rec.Header().Get("Location"), method)
		}
		assert.Equal(t, "Текст комментария", textOf(t))
	})

	t.Run("another user gets 404", func(t *testing.T) {
		cookie := app.login(other)
		assert.Equal(t, http.StatusNotFound, app.get(target, cookie).Code)

		rec := app.post(target, url.Values{"text": {"Обновленный текст"}}, cookie)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Текст комментария", textOf(t))
	})

	t.Run("missing comment", func(t *testing.T) {
		rec := app.get("/edit_comment/999/", app.login(author))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("author sees the form", func(t *testing.T) {
		rec := app.get(target, app.login(author))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Текст комментария</textarea>")
	})

	t.Run("bad words are rejected", func(t *testing.T) {
		rec := app.post(target, url.Values{"text": {"ты " + forms.BadWords[0]}}, app.login(author))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), forms.Warning)
		assert.Equal(t, "Текст комментария", textOf(t))
	})

	t.Run("author edits", func(t *testing.T) {
		rec := app.post(target, url.Values{"text": {"Обновленный текст"}}, app.login(author))
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, commentsLocation(news.ID), rec.Header().Get("Location"))
		assert.Equal(t, "Обновленный текст", textOf(t))
	})
}

func TestDeleteComment(t *testing.T) {
	app := setupTestApp(t)
	author := app.createUser("Автор")
	other := app.createUser("Не автор")
	news := app.createNews("Заголовок", time.Now())

	t.Run("anonymous is sent to login", func(t *testing.T) {
		comment := app.createComment(news, author, "Текст", time.Now())
		target := fmt.Sprintf("/delete_comment/%d/", comment.ID)

		rec := app.post(target, nil, nil)
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/auth/login/?next="+target, rec.Header().Get("Location"))

		_, err := app.store.Comments.GetByID(comment.ID)
		assert.NoError(t, err)
	})

	t.Run("another user gets 404", func(t *testing.T) {
		comment := app.createComment(news, author, "Текст", time.Now())
		target := fmt.Sprintf("/delete_comment/%d/", comment.ID)
		cookie := app.login(other)

		assert.Equal(t, http.StatusNotFound, app.get(target, cookie).Code)
		assert.Equal(t, http.StatusNotFound, app.post(target, nil, cookie).Code)
		assert.Equal(t, http.StatusNotFound, app.do(http.MethodDelete, target, url.Values{}, cookie).Code)

		_, err := app.store.Comments.GetByID(comment.ID)
		assert.NoError(t, err)
	})

	t.Run("author sees confirmation", func(t *testing.T) {
		comment := app.createComment(news, author, "Удалить меня", time.Now())
		rec := app.get(fmt.Sprintf("/delete_comment/%d/", comment.ID), app.login(author))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Удалить меня")
	})

	for _, method := range []string{http.MethodPost, http.MethodDelete} {
		t.Run("author deletes with "+method, func(t *testing.T) {
			comment := app.createComment(news, author, "Текст", time.Now())
			before := app.commentCount()

			rec := app.do(method, fmt.Sprintf("/delete_comment/%d/", comment.ID), url.Values{}, app.login(author))
			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, commentsLocation(news.ID), rec.Header().Get("Location"))

			_, err := app.store.Comments.GetByID(comment.ID)
			assert.ErrorIs(t, err, repositories.ErrNotFound)
			assert.Equal(t, before-1, app.commentCount())
		})
	}

	t.Run("missing comment", func(t *testing.T) {
		rec := app.post("/delete_comment/999/", nil, app.login(author))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

// TestCommentScenarios runs the comment lifecycle against every storage backend.
func TestCommentScenarios(t *testing.T) {
	for name, open := range storeFactories {
		t.Run(name, func(t *testing.T) {
			app := setupTestAppWithStore(t, open(t))
			author := app.createUser("Автор")
			other := app.createUser("Не автор")
			news := app.createNews("Заголовок", time.Now())
			cookie := app.login(author)

			rec := app.post(fmt.Sprintf("/news/%d/", news.ID), url.Values{"text": {"Текст комментария"}}, cookie)
			require.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, commentsLocation(news.ID), rec.Header().Get("Location"))

			comments, err := app.store.Comments.ListByNews(news.ID)
			require.NoError(t, err)
			require.Len(t, comments, 1)
			comment := comments[0]
			assert.Equal(t, "Текст комментария", comment.Text)
			assert.Equal(t, author.ID, comment.AuthorID)
			assert.Equal(t, news.ID, comment.NewsID)

			rec = app.post(fmt.Sprintf("/news/%d/", news.ID),
				url.Values{"text": {"Какой-то текст, " + forms.BadWords[0] + ", еще текст"}}, cookie)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), forms.Warning)
			assert.Equal(t, 1, app.commentCount())

			rec = app.post(fmt.Sprintf("/edit_comment/%d/", comment.ID), url.Values{"text": {"Новый текст"}}, app.login(other))
			assert.Equal(t, http.StatusNotFound, rec.Code)

			rec = app.post(fmt.Sprintf("/edit_comment/%d/", comment.ID), url.Values{"text": {"Новый текст"}}, cookie)
			assert.Equal(t, http.StatusFound, rec.Code)
			stored, err := app.store.Comments.GetByID(comment.ID)
			require.NoError(t, err)
			assert.Equal(t, "Новый текст", stored.Text)

			rec = app.post(fmt.Sprintf("/delete_comment/%d/", comment.ID), nil, app.login(other))
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Equal(t, 1, app.commentCount())

			rec = app.post(fmt.Sprintf("/delete_comment/%d/", comment.ID), nil, cookie)
			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, commentsLocation(news.ID), rec.Header().Get("Location"))
			assert.Equal(t, 0, app.commentCount())
		})
	}
}
