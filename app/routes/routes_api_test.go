package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIRoutes(t *testing.T) {
	app := setupTestApp(t)
	author := app.createUser("Автор")
	older := app.createNews("Вчера", time.Now().AddDate(0, 0, -1))
	newer := app.createNews("Сегодня", time.Now())
	comment := app.createComment(newer, author, "Текст комментария", time.Now())

	t.Run("news list", func(t *testing.T) {
		rec := app.get("/api/news", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var body homeBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, []int{newer.ID, older.ID}, newsIDs(body.ObjectList))
		assert.False(t, body.HasNext)
	})

	t.Run("news detail", func(t *testing.T) {
		rec := app.get(fmt.Sprintf("/api/news/%d", newer.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var body detailBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Сегодня", body.News.Title)
		require.Len(t, body.News.Comments, 1)
		assert.Equal(t, comment.ID, body.News.Comments[0].ID)
		assert.Equal(t, "Автор", body.News.Comments[0].Author)
		assert.Empty(t, body.Form)
	})

	t.Run("news detail signed in", func(t *testing.T) {
		rec := app.get(fmt.Sprintf("/api/news/%d", newer.ID), app.login(author))
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body, "form")
		assert.Contains(t, body, "user")
		assert.NotContains(t, string(body["user"]), "password")
	})

	t.Run("missing news", func(t *testing.T) {
		rec := app.get("/api/news/999", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"Not found"}`, rec.Body.String())
	})

	t.Run("unknown api route", func(t *testing.T) {
		rec := app.get("/api/nothing", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"error":"Not found"}`, rec.Body.String())
	})
}
