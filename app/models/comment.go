package models

// NewComment builds a comment from a validated request.
func NewComment(req *CommentRequest) *Comment {
	return &Comment{
		Content: req.Content,
		PostID:  req.PostID,
		Author:  req.Author,
	}
}
