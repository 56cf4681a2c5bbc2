package controllers

import (
	"errors"
	"net/http"

	"newsboard/app/forms"
	"newsboard/app/middleware"
	"newsboard/app/repositories"
	"newsboard/app/services"
	"newsboard/app/urls"
)

// CommentController handles creating, editing and deleting comments
type CommentController struct {
	commentService *services.CommentService
	news           *NewsController
	renderer       *Renderer
}

// NewCommentController creates a new CommentController. news re-renders
// the detail page when a new comment is rejected.
func NewCommentController(commentService *services.CommentService, news *NewsController, renderer *Renderer) *CommentController {
	return &CommentController{
		commentService: commentService,
		news:           news,
		renderer:       renderer,
	}
}

// Create stores a comment posted to a news page and returns to its thread.
// A rejected comment re-renders the page with the form errors.
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	newsID, ok := idParam(r, "id")
	if !ok {
		cc.renderer.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		cc.renderer.Error(w, r, http.StatusBadRequest, "Failed to parse form")
		return
	}

	user := middleware.UserFromContext(r.Context())
	form := forms.NewCommentForm(r.PostForm)
	_, err := cc.commentService.CreateComment(user, newsID, form)
	switch {
	case err == nil:
		cc.renderer.Redirect(w, r, urls.NewsComments(newsID))
	case errors.Is(err, services.ErrLoginRequired):
		cc.renderer.Redirect(w, r, urls.LoginWithNext(r.URL.RequestURI()))
	case errors.Is(err, repositories.ErrNotFound):
		cc.renderer.NotFound(w, r)
	case errors.Is(err, services.ErrInvalidForm):
		ctx, err := cc.news.detailContext(r, newsID, form)
		if err != nil {
			cc.renderer.ServerError(w, r, err)
			return
		}
		cc.renderer.Render(w, r, "detail", http.StatusOK, ctx)
	default:
		cc.renderer.ServerError(w, r, err)
	}
}

// Edit shows the edit form (GET) or saves the new text (POST).
func (cc *CommentController) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		cc.renderer.NotFound(w, r)
		return
	}
	user := middleware.UserFromContext(r.Context())

	if r.Method == http.MethodGet {
		comment, access, err := cc.commentService.Authorize(user, id)
		if !cc.allowed(w, r, access, err) {
			return
		}
		cc.renderer.Render(w, r, "comment_edit", http.StatusOK, Context{
			"comment": comment,
			"form":    forms.NewCommentFormWithText(comment.Text),
		})
		return
	}

	if err := r.ParseForm(); err != nil {
		cc.renderer.Error(w, r, http.StatusBadRequest, "Failed to parse form")
		return
	}
	form := forms.NewCommentForm(r.PostForm)
	comment, access, err := cc.commentService.UpdateText(user, id, form)
	if errors.Is(err, services.ErrInvalidForm) {
		cc.renderer.Render(w, r, "comment_edit", http.StatusOK, Context{
			"comment": comment,
			"form":    form,
		})
		return
	}
	if !cc.allowed(w, r, access, err) {
		return
	}
	cc.renderer.Redirect(w, r, urls.NewsComments(comment.NewsID))
}

// Delete shows a confirmation page (GET) or removes the comment (POST, DELETE).
func (cc *CommentController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		cc.renderer.NotFound(w, r)
		return
	}
	user := middleware.UserFromContext(r.Context())

	if r.Method == http.MethodGet {
		comment, access, err := cc.commentService.Authorize(user, id)
		if !cc.allowed(w, r, access, err) {
			return
		}
		cc.renderer.Render(w, r, "comment_delete", http.StatusOK, Context{"comment": comment})
		return
	}

	comment, access, err := cc.commentService.DeleteComment(user, id)
	if !cc.allowed(w, r, access, err) {
		return
	}
	cc.renderer.Redirect(w, r, urls.NewsComments(comment.NewsID))
}

// allowed writes the response for a refused or failed access check and
// reports whether the handler may go on. Someone else's comment gets the
// same 404 as a missing one.
func (cc *CommentController) allowed(w http.ResponseWriter, r *http.Request, access services.Access, err error) bool {
	if err != nil {
		cc.renderer.ServerError(w, r, err)
		return false
	}
	switch access {
	case services.AccessGranted:
		return true
	case services.AccessLoginRequired:
		cc.renderer.Redirect(w, r, urls.LoginWithNext(r.URL.RequestURI()))
	default:
		cc.renderer.NotFound(w, r)
	}
	return false
}
