package models

// Status is the lifecycle state of a post, or the decision carried by a review.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusSubmitted Status = "SUBMITTED"
	StatusPublished Status = "PUBLISHED"
	StatusRejected  Status = "REJECTED"
	StatusAccepted  Status = "ACCEPTED"
)

var (
	// InitialStatuses are the only states a post may be created or edited into.
	InitialStatuses = []Status{StatusDraft, StatusSubmitted}

	// ReviewDecisions are the states an editor can give a post in a review.
	ReviewDecisions = []Status{StatusAccepted, StatusRejected}

	allStatuses = []Status{StatusDraft, StatusSubmitted, StatusPublished, StatusRejected, StatusAccepted}
)

// ParseStatus converts a raw value into a known Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", NewInvalidStatusError(raw, allStatuses)
	}
	return s, nil
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s.in(allStatuses)
}

// IsInitial reports whether s is allowed on create and update.
func (s Status) IsInitial() bool {
	return s.in(InitialStatuses)
}

// IsReviewDecision reports whether s can be the outcome of a review.
func (s Status) IsReviewDecision() bool {
	return s.in(ReviewDecisions)
}

// PublicationOutcome maps a review decision onto the post status it leads to.
func (s Status) PublicationOutcome() (Status, error) {
	switch s {
	case StatusAccepted:
		return StatusPublished, nil
	case StatusRejected:
		return StatusRejected, nil
	}
	return "", NewInvalidStatusError(string(s), ReviewDecisions)
}

func (s Status) in(set []Status) bool {
	for _, candidate := range set {
		if s == candidate {
			return true
		}
	}
	return false
}
