package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"newsboard/app/forms"
	"newsboard/app/middleware"
	"newsboard/app/repositories"
	"newsboard/app/services"

	"github.com/gorilla/mux"
)

// NewsController serves the home and news detail pages
type NewsController struct {
	newsService *services.NewsService
	renderer    *Renderer
}

// NewNewsController creates a new NewsController
func NewNewsController(newsService *services.NewsService, renderer *Renderer) *NewsController {
	return &NewsController{newsService: newsService, renderer: renderer}
}

// SetService sets the news service for testing
func (nc *NewsController) SetService(service *services.NewsService) {
	nc.newsService = service
}

// Home lists the newest news items. Context: object_list, page, has_next.
func (nc *NewsController) Home(w http.ResponseWriter, r *http.Request) {
	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	result, err := nc.newsService.Home(page)
	if err != nil {
		nc.renderer.ServerError(w, r, err)
		return
	}

	nc.renderer.Render(w, r, "home", http.StatusOK, Context{
		"object_list": result.News,
		"page":        result.Page,
		"has_next":    result.HasNext,
	})
}

// Detail shows one news item with its comments. The comment form is part
// of the context only for signed-in users.
func (nc *NewsController) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		nc.renderer.NotFound(w, r)
		return
	}

	ctx, err := nc.detailContext(r, id, nil)
	if errors.Is(err, repositories.ErrNotFound) {
		nc.renderer.NotFound(w, r)
		return
	}
	if err != nil {
		nc.renderer.ServerError(w, r, err)
		return
	}
	nc.renderer.Render(w, r, "detail", http.StatusOK, ctx)
}

// detailContext builds the detail page context, using form (or a blank
// one) for signed-in users.
func (nc *NewsController) detailContext(r *http.Request, id int, form *forms.CommentForm) (Context, error) {
	news, err := nc.newsService.Detail(id)
	if err != nil {
		return nil, err
	}

	ctx := Context{"news": news}
	if middleware.UserFromContext(r.Context()) != nil {
		if form == nil {
			form = forms.NewCommentForm(nil)
		}
		ctx["form"] = form
	}
	return ctx, nil
}

// idParam reads a positive integer route variable.
func idParam(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
