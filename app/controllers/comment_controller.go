package controllers

import (
	"net/http"

	"newsroom/app/models"
	"newsroom/app/services"

	"github.com/sirupsen/logrus"
)

// CommentController handles HTTP requests for comments
type CommentController struct {
	comments *services.CommentService
	log      *logrus.Entry
}

// NewCommentController creates a new CommentController
func NewCommentController(comments *services.CommentService, log *logrus.Entry) *CommentController {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &CommentController{
		comments: comments,
		log:      log.WithField("component", "comment-controller"),
	}
}

// Create handles creating a new comment
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CommentRequest
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	comment, err := cc.comments.Create(&req)
	if err != nil {
		handleServiceError(w, cc.log, err)
		return
	}
	sendJSON(w, http.StatusCreated, models.NewCommentResponse(comment))
}

// Index lists the comments of a post
func (cc *CommentController) Index(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "postId")
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	comments, err := cc.comments.ListByPost(postID)
	if err != nil {
		handleServiceError(w, cc.log, err)
		return
	}
	sendJSON(w, http.StatusOK, models.NewCommentResponses(comments))
}

// Update replaces the content of a comment
func (cc *CommentController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req models.CommentRequest
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	comment, err := cc.comments.UpdateContent(id, &req)
	if err != nil {
		handleServiceError(w, cc.log, err)
		return
	}
	sendJSON(w, http.StatusOK, models.NewCommentResponse(comment))
}

// Delete handles deleting a comment
func (cc *CommentController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := cc.comments.Delete(id); err != nil {
		handleServiceError(w, cc.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
