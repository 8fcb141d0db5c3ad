package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewPostSerializesEmptyCollections(t *testing.T) {
	post := NewPost(uuid.New(), "a perfectly fine post", "Al Gator", "https://gravatar.com/avatar/x")

	data, err := json.Marshal(post)
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"likes":[]`)
	assert.Contains(t, string(data), `"comments":[]`)
}

func TestLikeOncePerUser(t *testing.T) {
	post := NewPost(uuid.New(), "a perfectly fine post", "Al Gator", "")
	liker := uuid.New()

	assert.True(t, post.AddLike(liker))
	assert.True(t, post.LikedBy(liker))
	assert.False(t, post.AddLike(liker), "second like from the same user must be rejected")
	assert.Len(t, post.Likes, 1)

	assert.True(t, post.RemoveLike(liker))
	assert.False(t, post.LikedBy(liker))
	assert.False(t, post.RemoveLike(liker), "unlike without a like must be rejected")
}

func TestLikesFromDistinctUsersAccumulate(t *testing.T) {
	post := NewPost(uuid.New(), "a perfectly fine post", "Al Gator", "")

	for i := 0; i < 5; i++ {
		assert.True(t, post.AddLike(uuid.New()))
	}
	assert.Len(t, post.Likes, 5)
}

func TestCommentsPrependAndRemoveByID(t *testing.T) {
	post := NewPost(uuid.New(), "a perfectly fine post", "Al Gator", "")

	older := Comment{ID: uuid.New(), User: uuid.New(), Text: "first comment here", CreatedAt: time.Now()}
	newer := Comment{ID: uuid.New(), User: uuid.New(), Text: "second comment here", CreatedAt: time.Now()}
	post.AddComment(older)
	post.AddComment(newer)

	assert.Equal(t, newer.ID, post.Comments[0].ID)
	assert.Equal(t, older.ID, post.Comments[1].ID)

	assert.False(t, post.RemoveComment(uuid.New()))
	assert.True(t, post.RemoveComment(older.ID))
	assert.Len(t, post.Comments, 1)
}

func TestGravatarURLIsDeterministic(t *testing.T) {
	a := GravatarURL("Someone@Example.com")
	b := GravatarURL("someone@example.com ")

	// Hashing is case- and whitespace-insensitive
	assert.Equal(t, a, b)
	assert.Contains(t, a, "gravatar.com/avatar/")
}
