package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is a standalone record owned by its author. Likes and comments are
// embedded ordered collections with no lifecycle outside the post.
type Post struct {
	ID        uuid.UUID `json:"id"`
	User      uuid.UUID `json:"user"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Likes     []Like    `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
}

// Like records a single user's like. A user reference appears at most once
// in a post's likes.
type Like struct {
	User uuid.UUID `json:"user"`
}

// Comment is an embedded comment entry with an author snapshot taken at
// creation time.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	User      uuid.UUID `json:"user"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewPost builds a post with empty like/comment collections so they always
// serialize as [] rather than null.
func NewPost(userID uuid.UUID, text, name, avatar string) *Post {
	return &Post{
		ID:        uuid.New(),
		User:      userID,
		Text:      text,
		Name:      name,
		Avatar:    avatar,
		Likes:     []Like{},
		Comments:  []Comment{},
		CreatedAt: time.Now(),
	}
}

// LikedBy reports whether the user already likes the post.
func (p *Post) LikedBy(userID uuid.UUID) bool {
	for _, like := range p.Likes {
		if like.User == userID {
			return true
		}
	}
	return false
}

// AddLike prepends the user's like. It reports false when the user already
// liked the post, leaving the collection unchanged.
func (p *Post) AddLike(userID uuid.UUID) bool {
	if p.LikedBy(userID) {
		return false
	}
	p.Likes = append([]Like{{User: userID}}, p.Likes...)
	return true
}

// RemoveLike deletes the user's like. It reports false when the user had not
// liked the post.
func (p *Post) RemoveLike(userID uuid.UUID) bool {
	for i, like := range p.Likes {
		if like.User == userID {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			return true
		}
	}
	return false
}

// AddComment prepends a comment, keeping most-recent-first order.
func (p *Post) AddComment(c Comment) {
	p.Comments = append([]Comment{c}, p.Comments...)
}

// RemoveComment deletes the comment with the given ID. It reports whether
// the comment was present.
func (p *Post) RemoveComment(id uuid.UUID) bool {
	for i, c := range p.Comments {
		if c.ID == id {
			p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
			return true
		}
	}
	return false
}
