package routes

import (
	"encoding/json"
	"net/http"

	"newsroom/app/authz"
	"newsroom/app/controllers"
	"newsroom/app/middleware"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// newRouter applies the global middleware every service shares
func newRouter(log *logrus.Entry) *mux.Router {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	router := mux.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recoverer(log))
	router.Use(middleware.ContentTypeJSON)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("OK"))
	}).Methods("GET")

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Not found"})
	})
	return router
}

type guardedRouter struct {
	router *mux.Router
	policy *authz.Policy
}

func (g guardedRouter) handle(method, path string, action authz.Action, h http.HandlerFunc) {
	g.router.Handle(path, middleware.Authorize(g.policy, action)(h)).Methods(method)
}

// SetupPostRoutes builds the post service router
func SetupPostRoutes(posts *controllers.PostController, policy *authz.Policy, log *logrus.Entry) *mux.Router {
	router := newRouter(log)
	g := guardedRouter{router: router, policy: policy}

	// Called by the review service without a role
	router.HandleFunc("/posts/notification", posts.CreateNotification).Methods("POST")

	g.handle("GET", "/posts/notifications/{author}", authz.NotificationRead, posts.ListNotifications)
	g.handle("GET", "/posts/status/{status}", authz.PostListByStatus, posts.ListByStatus)
	g.handle("GET", "/posts", authz.PostList, posts.Index)
	g.handle("POST", "/posts", authz.PostCreate, posts.Create)
	g.handle("GET", "/posts/{id:[0-9]+}", authz.PostRead, posts.Show)
	g.handle("PUT", "/posts/{id:[0-9]+}", authz.PostUpdate, posts.Update)
	g.handle("DELETE", "/posts/{id:[0-9]+}", authz.PostDelete, posts.Delete)
	g.handle("PATCH", "/posts/{id:[0-9]+}/status", authz.PostChangeStatus, posts.UpdateStatus)

	return router
}

// SetupReviewRoutes builds the review service router
func SetupReviewRoutes(reviews *controllers.ReviewController, policy *authz.Policy, log *logrus.Entry) *mux.Router {
	router := newRouter(log)
	g := guardedRouter{router: router, policy: policy}

	g.handle("POST", "/reviews", authz.ReviewCreate, reviews.Create)
	g.handle("GET", "/reviews/{postId:[0-9]+}", authz.ReviewRead, reviews.Show)

	return router
}

// SetupCommentRoutes builds the comment service router
func SetupCommentRoutes(comments *controllers.CommentController, policy *authz.Policy, log *logrus.Entry) *mux.Router {
	router := newRouter(log)
	g := guardedRouter{router: router, policy: policy}

	g.handle("POST", "/comments", authz.CommentCreate, comments.Create)
	g.handle("GET", "/comments/{postId:[0-9]+}", authz.CommentRead, comments.Index)
	g.handle("PATCH", "/comments/{id:[0-9]+}", authz.CommentUpdate, comments.Update)
	g.handle("DELETE", "/comments/{id:[0-9]+}", authz.CommentDelete, comments.Delete)

	return router
}
