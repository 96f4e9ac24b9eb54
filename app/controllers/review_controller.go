package controllers

import (
	"net/http"

	"newsroom/app/authz"
	"newsroom/app/models"
	"newsroom/app/services"

	"github.com/sirupsen/logrus"
)

// ReviewController handles HTTP requests for reviews
type ReviewController struct {
	reviews *services.ReviewService
	log     *logrus.Entry
}

func NewReviewController(reviews *services.ReviewService, log *logrus.Entry) *ReviewController {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &ReviewController{
		reviews: reviews,
		log:     log.WithField("component", "review-controller"),
	}
}

// Create records a review. The caller's role is forwarded when the post has to be
// looked up at the post service.
func (rc *ReviewController) Create(w http.ResponseWriter, r *http.Request) {
	var req models.ReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	principal, ok := authz.PrincipalFromContext(r.Context())
	if !ok {
		principal = authz.PrincipalFromRequest(r)
	}

	review, err := rc.reviews.MakeReview(r.Context(), &req, principal.Role)
	if err != nil {
		handleServiceError(w, rc.log, err)
		return
	}
	sendJSON(w, http.StatusOK, models.NewReviewResponse(review))
}

// Show returns the review of a post
func (rc *ReviewController) Show(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "postId")
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	review, err := rc.reviews.GetReview(postID)
	if err != nil {
		handleServiceError(w, rc.log, err)
		return
	}
	sendJSON(w, http.StatusOK, models.NewReviewResponse(review))
}
