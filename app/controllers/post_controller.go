package controllers

import (
	"net/http"

	"newsroom/app/models"
	"newsroom/app/services"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// PostController handles HTTP requests for posts and the notifications of their authors
type PostController struct {
	posts         *services.PostService
	notifications *services.NotificationService
	log           *logrus.Entry
}

// NewPostController creates a new PostController
func NewPostController(posts *services.PostService, notifications *services.NotificationService, log *logrus.Entry) *PostController {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &PostController{
		posts:         posts,
		notifications: notifications,
		log:           log.WithField("component", "post-controller"),
	}
}

// Create handles creating a new post
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	var req models.PostRequest
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	post, err := pc.posts.Create(&req)
	if err != nil {
		handleServiceError(w, pc.log, err)
		return
	}
	sendJSON(w, http.StatusCreated, models.NewPostResponse(post))
}

// Show handles fetching a single post
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	post, err := pc.posts.Get(id)
	if err != nil {
		handleServiceError(w, pc.log, err)
		return
	}
	sendJSON(w, http.StatusOK, models.NewPostResponse(post))
}

// Update handles replacing an existing post
func (pc *PostController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req models.PostRequest
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	post, err := pc.posts.Update(id, &req)
	if err != nil {
		handleServiceError(w, pc.log, err)
		return
	}
	sendJSON(w, http.StatusOK, models.NewPostResponse(post))
}

// Delete handles deleting a post
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := pc.posts.Delete(id); err != nil {
		handleServiceError(w, pc.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListByStatus handles GET /posts/status/{status}
func (pc *PostController) ListByStatus(w http.ResponseWriter, r *http.Request) {
	status, err := models.ParseStatus(mux.Vars(r)["status"])
	if err != nil {
		handleServiceError(w, pc.log, err)
		return
	}

	posts, err := pc.posts.ListByStatus(status)
	if err != nil {
		handleServiceError(w, pc.log, err)
		return
	}
	sendJSON(w, http.StatusOK, models.NewPostResponses(posts))
}

// UpdateStatus handles PATCH /posts/{id}/status?status=X
func (pc *PostController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	raw := r.URL.Query().Get("status")
	if raw == "" {
		handleServiceError(w, pc.log, models.NewValidationError("status", "is required"))
		return
	}

	post, err := pc.posts.UpdateStatus(id, models.Status(raw))
	if err != nil {
		handleServiceError(w, pc.log, err)
		return
	}
	sendJSON(w, http.StatusOK, models.NewPostResponse(post))
}

// Index handles the filtered post list
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		handleServiceError(w, pc.log, err)
		return
	}

	posts, err := pc.posts.Filter(filter)
	if err != nil {
		handleServiceError(w, pc.log, err)
		return
	}
	sendJSON(w, http.StatusOK, models.NewPostResponses(posts))
}

func parseFilter(r *http.Request) (models.PostFilter, error) {
	query := r.URL.Query()
	filter := models.PostFilter{
		Content: query.Get("content"),
		Author:  query.Get("author"),
	}

	if raw := query.Get("fromDate"); raw != "" {
		from, err := models.ParseDateTime(raw)
		if err != nil {
			return filter, err
		}
		filter.FromDate = &from
	}
	if raw := query.Get("toDate"); raw != "" {
		to, err := models.ParseDateTime(raw)
		if err != nil {
			return filter, err
		}
		filter.ToDate = &to
	}
	if raw := query.Get("status"); raw != "" {
		status, err := models.ParseStatus(raw)
		if err != nil {
			return filter, err
		}
		filter.Status = status
	}
	return filter, nil
}

// CreateNotification is called by the review service, not by users
func (pc *PostController) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var req models.NotificationRequest
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	notification, err := pc.notifications.Create(&req)
	if err != nil {
		handleServiceError(w, pc.log, err)
		return
	}
	sendJSON(w, http.StatusOK, models.NewNotificationResponse(notification))
}

// ListNotifications handles GET /posts/notifications/{author}
func (pc *PostController) ListNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := pc.notifications.ListForAuthor(mux.Vars(r)["author"])
	if err != nil {
		handleServiceError(w, pc.log, err)
		return
	}
	sendJSON(w, http.StatusOK, models.NewNotificationResponses(notifications))
}
