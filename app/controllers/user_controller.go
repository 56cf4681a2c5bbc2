package controllers

import (
	"errors"
	"net/http"

	"newsboard/app/forms"
	"newsboard/app/middleware"
	"newsboard/app/services"
	"newsboard/app/urls"
)

// UserController handles signup, login and logout
type UserController struct {
	userService *services.UserService
	renderer    *Renderer
}

// NewUserController creates a new UserController
func NewUserController(userService *services.UserService, renderer *Renderer) *UserController {
	return &UserController{userService: userService, renderer: renderer}
}

// Login shows the login form (GET) or signs the user in (POST) and
// redirects to next when it is a local path.
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		uc.renderer.Render(w, r, "login", http.StatusOK, Context{
			"form": forms.NewLoginForm(nil),
			"next": r.URL.Query().Get("next"),
		})
		return
	}

	if err := r.ParseForm(); err != nil {
		uc.renderer.Error(w, r, http.StatusBadRequest, "Failed to parse form")
		return
	}
	next := r.PostForm.Get("next")
	if next == "" {
		next = r.URL.Query().Get("next")
	}

	form := forms.NewLoginForm(r.PostForm)
	token, _, err := uc.userService.Login(form)
	if errors.Is(err, services.ErrInvalidForm) || errors.Is(err, services.ErrInvalidCredentials) {
		form.Values.Del("password")
		form.Values.Del("next")
		uc.renderer.Render(w, r, "login", http.StatusOK, Context{"form": form, "next": next})
		return
	}
	if err != nil {
		uc.renderer.ServerError(w, r, err)
		return
	}

	middleware.SetSessionCookie(w, token, uc.userService.SessionTTL())
	uc.renderer.Redirect(w, r, urls.SafeNext(next))
}

// Logout ends the session and confirms it.
func (uc *UserController) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		if err := uc.userService.Logout(cookie.Value); err != nil {
			uc.renderer.ServerError(w, r, err)
			return
		}
	}
	middleware.ClearSessionCookie(w)

	r = r.WithContext(middleware.WithUser(r.Context(), nil))
	uc.renderer.Render(w, r, "logout", http.StatusOK, Context{})
}

// Signup shows the signup form (GET) or creates the account (POST) and
// sends the new user to the login page.
func (uc *UserController) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		uc.renderer.Render(w, r, "signup", http.StatusOK, Context{"form": forms.NewSignupForm(nil)})
		return
	}

	if err := r.ParseForm(); err != nil {
		uc.renderer.Error(w, r, http.StatusBadRequest, "Failed to parse form")
		return
	}

	form := forms.NewSignupForm(r.PostForm)
	_, err := uc.userService.Signup(form)
	if errors.Is(err, services.ErrInvalidForm) {
		form.Values.Del("password1")
		form.Values.Del("password2")
		uc.renderer.Render(w, r, "signup", http.StatusOK, Context{"form": form})
		return
	}
	if err != nil {
		uc.renderer.ServerError(w, r, err)
		return
	}
	uc.renderer.Redirect(w, r, urls.Login)
}
