package routes

import (
	"errors"
	"io/fs"
	"net/http"
	"time"

	"newsboard/app/controllers"
	"newsboard/app/metrics"
	"newsboard/app/middleware"
	"newsboard/app/repositories"
	"newsboard/app/services"
	"newsboard/app/urls"
	"newsboard/app/views"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Options wires the router to its dependencies.
type Options struct {
	Store   *repositories.Store
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	// Views overrides the embedded templates.
	Views fs.FS

	NewsPerPage int
	SessionTTL  time.Duration
	// HashCost overrides the bcrypt cost for new passwords.
	HashCost int
}

// SetupRoutes builds the application's router.
func SetupRoutes(opts Options) (*mux.Router, error) {
	if opts.Store == nil {
		return nil, errors.New("routes: store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	viewsFS := opts.Views
	if viewsFS == nil {
		viewsFS = views.FS
	}

	renderer, err := controllers.NewRenderer(viewsFS, logger)
	if err != nil {
		return nil, err
	}

	store := opts.Store
	newsService := services.NewNewsService(store.News, store.Comments, opts.NewsPerPage)
	commentService := services.NewCommentService(store.Comments, store.News, logger, opts.Metrics)
	userService := services.NewUserService(store.Users, store.Sessions, opts.SessionTTL, logger)
	if opts.HashCost > 0 {
		userService.SetHashCost(opts.HashCost)
	}

	newsController := controllers.NewNewsController(newsService, renderer)
	commentController := controllers.NewCommentController(commentService, newsController, renderer)
	userController := controllers.NewUserController(userService, renderer)

	router := mux.NewRouter()

	// Apply global middleware
	chain := []mux.MiddlewareFunc{
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recoverer(logger),
		middleware.SecureHeaders,
		middleware.Session(userService, logger),
		middleware.Metrics(opts.Metrics),
	}
	router.Use(chain...)

	var notFound http.Handler = http.HandlerFunc(renderer.NotFound)
	for i := len(chain) - 1; i >= 0; i-- {
		notFound = chain[i](notFound)
	}
	router.NotFoundHandler = notFound

	// Web routes
	router.HandleFunc(urls.Home, newsController.Home).Methods(http.MethodGet)
	router.HandleFunc("/news/{id:[0-9]+}/", newsController.Detail).Methods(http.MethodGet)
	router.Handle("/news/{id:[0-9]+}/", loginRequired(commentController.Create)).Methods(http.MethodPost)
	router.Handle("/edit_comment/{id:[0-9]+}/", loginRequired(commentController.Edit)).
		Methods(http.MethodGet, http.MethodPost)
	router.Handle("/delete_comment/{id:[0-9]+}/", loginRequired(commentController.Delete)).
		Methods(http.MethodGet, http.MethodPost, http.MethodDelete)

	// Accounts
	router.HandleFunc(urls.Login, userController.Login).Methods(http.MethodGet, http.MethodPost)
	router.HandleFunc(urls.Logout, userController.Logout).Methods(http.MethodGet, http.MethodPost)
	router.HandleFunc(urls.Signup, userController.Signup).Methods(http.MethodGet, http.MethodPost)

	// API routes with JSON content type
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.ContentTypeJSON)
	api.HandleFunc("/news", newsController.Home).Methods(http.MethodGet)
	api.HandleFunc("/news/{id:[0-9]+}", newsController.Detail).Methods(http.MethodGet)

	// Operations
	if opts.Metrics != nil {
		router.Handle("/metrics", opts.Metrics.Handler()).Methods(http.MethodGet)
	}
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	}).Methods(http.MethodGet)

	return router, nil
}

func loginRequired(h http.HandlerFunc) http.Handler {
	return middleware.LoginRequired(h)
}
