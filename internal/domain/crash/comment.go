package crash

import "strings"

const DefaultMaxCommentsPerAuthor = 10

type Comment struct {
	ID              string  `json:"id"`
	UserID          string  `json:"userId"`
	Text            string  `json:"text"`
	FirstName       string  `json:"firstName"`
	LastName        string  `json:"lastName"`
	CreatedAt       string  `json:"createdAt"`
	ParentCommentID *string `json:"parentCommentId"`
}

func (c Comment) IsReply() bool {
	return c.ParentCommentID != nil && *c.ParentCommentID != ""
}

// CommentPolicy guards appends to a crash thread.
type CommentPolicy struct {
	MaxPerAuthor int
}

// Check enforces the per-author ceiling first, then parent existence.
func (p CommentPolicy) Check(comments []Comment, authorID string, parentID *string) error {
	limit := p.MaxPerAuthor
	if limit <= 0 {
		limit = DefaultMaxCommentsPerAuthor
	}

	if CountCommentsByAuthor(comments, authorID) >= limit {
		return ErrCommentQuota
	}

	if parentID != nil && !HasComment(comments, *parentID) {
		return ErrParentNotFound
	}
	return nil
}

func CountCommentsByAuthor(comments []Comment, authorID string) int {
	n := 0
	for _, c := range comments {
		if c.UserID == authorID {
			n++
		}
	}
	return n
}

func HasComment(comments []Comment, commentID string) bool {
	for _, c := range comments {
		if c.ID == commentID {
			return true
		}
	}
	return false
}

// NormalizeCommentText trims text and rejects empty bodies.
func NormalizeCommentText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrEmptyComment
	}
	return trimmed, nil
}

// SplitThread separates top-level comments from replies, keeping order.
func SplitThread(comments []Comment) (topLevel []Comment, replies []Comment) {
	topLevel = make([]Comment, 0, len(comments))
	replies = make([]Comment, 0)
	for _, c := range comments {
		if c.IsReply() {
			replies = append(replies, c)
			continue
		}
		topLevel = append(topLevel, c)
	}
	return topLevel, replies
}
