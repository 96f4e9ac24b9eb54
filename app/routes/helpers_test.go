package routes

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"newsroom/app/authz"
	"newsroom/app/controllers"
	"newsroom/app/events"
	"newsroom/app/logging"
	"newsroom/app/repositories"
	"newsroom/app/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *repositories.Store {
	t.Helper()
	store, err := repositories.Open("", nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func setupPostRouter(t *testing.T) *mux.Router {
	store := setupTestStore(t)
	db := store.DB()
	log := logging.Discard()
	posts := services.NewPostService(repositories.NewBadgerPostRepository(db), events.NewOutbox(db), events.NewLedger(db), log)
	notifications := services.NewNotificationService(repositories.NewBadgerNotificationRepository(db))
	return SetupPostRoutes(controllers.NewPostController(posts, notifications, log), authz.DefaultPolicy(), log)
}

func setupReviewRouter(t *testing.T) *mux.Router {
	store := setupTestStore(t)
	db := store.DB()
	log := logging.Discard()
	reviews := services.NewReviewService(
		repositories.NewBadgerReviewRepository(db),
		repositories.NewBadgerKnownPostRepository(db),
		nil,
		events.NewOutbox(db),
		events.NewLedger(db),
		log,
	)
	return SetupReviewRoutes(controllers.NewReviewController(reviews, log), authz.DefaultPolicy(), log)
}

func setupCommentRouter(t *testing.T) *mux.Router {
	store := setupTestStore(t)
	log := logging.Discard()
	comments := services.NewCommentService(repositories.NewBadgerCommentRepository(store.DB()))
	return SetupCommentRoutes(controllers.NewCommentController(comments, log), authz.DefaultPolicy(), log)
}

func request(router http.Handler, method, path, role, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if role != "" {
		req.Header.Set(authz.RoleHeader, role)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
