// internal/database/post_repository.go
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/partiallymisplaced/so-connect/internal/models"
	"github.com/partiallymisplaced/so-connect/internal/utils"
)

// PostDocument represents the MongoDB schema for a post.
type PostDocument struct {
	ID        string         `bson:"_id"`
	User      string         `bson:"user"`
	Text      string         `bson:"text"`
	Name      string         `bson:"name"`
	Avatar    string         `bson:"avatar"`
	Likes     []LikeEntry    `bson:"likes"`
	Comments  []CommentEntry `bson:"comments"`
	CreatedAt time.Time      `bson:"createdat"`
}

// LikeEntry is the embedded like sub-document.
type LikeEntry struct {
	User string `bson:"user"`
}

// CommentEntry is the embedded comment sub-document.
type CommentEntry struct {
	ID        string    `bson:"_id"`
	User      string    `bson:"user"`
	Text      string    `bson:"text"`
	Name      string    `bson:"name"`
	Avatar    string    `bson:"avatar"`
	CreatedAt time.Time `bson:"createdat"`
}

func postToDocument(post *models.Post) *PostDocument {
	doc := &PostDocument{
		ID:        post.ID.String(),
		User:      post.User.String(),
		Text:      post.Text,
		Name:      post.Name,
		Avatar:    post.Avatar,
		Likes:     make([]LikeEntry, len(post.Likes)),
		Comments:  make([]CommentEntry, len(post.Comments)),
		CreatedAt: post.CreatedAt,
	}
	for i, like := range post.Likes {
		doc.Likes[i] = LikeEntry{User: like.User.String()}
	}
	for i, c := range post.Comments {
		doc.Comments[i] = commentToEntry(c)
	}
	return doc
}

func commentToEntry(c models.Comment) CommentEntry {
	return CommentEntry{
		ID:        c.ID.String(),
		User:      c.User.String(),
		Text:      c.Text,
		Name:      c.Name,
		Avatar:    c.Avatar,
		CreatedAt: c.CreatedAt,
	}
}

func documentToPost(doc *PostDocument) (*models.Post, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID: %v", err)
	}
	userID, err := uuid.Parse(doc.User)
	if err != nil {
		return nil, fmt.Errorf("invalid author ID: %v", err)
	}

	post := &models.Post{
		ID:        id,
		User:      userID,
		Text:      doc.Text,
		Name:      doc.Name,
		Avatar:    doc.Avatar,
		Likes:     make([]models.Like, len(doc.Likes)),
		Comments:  make([]models.Comment, len(doc.Comments)),
		CreatedAt: doc.CreatedAt,
	}

	for i, like := range doc.Likes {
		likeUser, err := uuid.Parse(like.User)
		if err != nil {
			return nil, fmt.Errorf("invalid like user ID: %v", err)
		}
		post.Likes[i] = models.Like{User: likeUser}
	}
	for i, entry := range doc.Comments {
		commentID, err := uuid.Parse(entry.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid comment ID: %v", err)
		}
		commentUser, err := uuid.Parse(entry.User)
		if err != nil {
			return nil, fmt.Errorf("invalid comment user ID: %v", err)
		}
		post.Comments[i] = models.Comment{
			ID:        commentID,
			User:      commentUser,
			Text:      entry.Text,
			Name:      entry.Name,
			Avatar:    entry.Avatar,
			CreatedAt: entry.CreatedAt,
		}
	}

	return post, nil
}

// SavePost creates or updates a post in MongoDB.
func (m *MongoDB) SavePost(ctx context.Context, post *models.Post) error {
	doc := postToDocument(post)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": post.ID.String()}
	update := bson.M{"$set": doc}

	_, err := m.Posts.UpdateOne(ctx, filter, update, opts)
	return err
}

// GetPost retrieves a post by its ID.
func (m *MongoDB) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var doc PostDocument

	err := m.Posts.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "Post not found", err)
	}
	if err != nil {
		return nil, err
	}

	return documentToPost(&doc)
}

// GetAllPosts retrieves every post, newest first.
func (m *MongoDB) GetAllPosts(ctx context.Context) ([]*models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdat", Value: -1}})

	cursor, err := m.Posts.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %v", err)
	}
	defer cursor.Close(ctx)

	posts := []*models.Post{}
	for cursor.Next(ctx) {
		var doc PostDocument
		if err := cursor.Decode(&doc); err != nil {
			slog.Error("error decoding post document", "error", err)
			continue
		}

		post, err := documentToPost(&doc)
		if err != nil {
			slog.Error("error converting post document", "error", err)
			continue
		}
		posts = append(posts, post)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor iteration failed: %v", err)
	}

	return posts, nil
}

// DeletePost removes a post and its embedded likes and comments with it.
func (m *MongoDB) DeletePost(ctx context.Context, id uuid.UUID) error {
	result, err := m.Posts.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return utils.NewAppError(utils.ErrNotFound, "Post not found", nil)
	}
	return nil
}

// AddLike prepends the user's like as an add-if-absent update. The filter
// excludes posts the user already likes, so two concurrent likes from
// different users both land and a repeat from the same user matches nothing.
func (m *MongoDB) AddLike(ctx context.Context, postID, userID uuid.UUID) (*models.Post, error) {
	filter := bson.M{
		"_id":        postID.String(),
		"likes.user": bson.M{"$ne": userID.String()},
	}
	push := bson.M{"$push": bson.M{"likes": bson.M{
		"$each":     []LikeEntry{{User: userID.String()}},
		"$position": 0,
	}}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc PostDocument
	err := m.Posts.FindOneAndUpdate(ctx, filter, push, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		if _, postErr := m.GetPost(ctx, postID); postErr != nil {
			return nil, postErr
		}
		return nil, utils.NewAppError(utils.ErrAlreadyLiked, "User already liked this post", nil)
	}
	if err != nil {
		return nil, err
	}

	return documentToPost(&doc)
}

// RemoveLike removes the user's like as a remove-if-present update.
func (m *MongoDB) RemoveLike(ctx context.Context, postID, userID uuid.UUID) (*models.Post, error) {
	filter := bson.M{
		"_id":        postID.String(),
		"likes.user": userID.String(),
	}
	pull := bson.M{"$pull": bson.M{"likes": bson.M{"user": userID.String()}}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc PostDocument
	err := m.Posts.FindOneAndUpdate(ctx, filter, pull, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		if _, postErr := m.GetPost(ctx, postID); postErr != nil {
			return nil, postErr
		}
		return nil, utils.NewAppError(utils.ErrNotLiked, "The user has not liked this post yet", nil)
	}
	if err != nil {
		return nil, err
	}

	return documentToPost(&doc)
}

// AddComment prepends a comment to the post's collection in a single update.
func (m *MongoDB) AddComment(ctx context.Context, postID uuid.UUID, comment models.Comment) (*models.Post, error) {
	push := bson.M{"$push": bson.M{"comments": bson.M{
		"$each":     []CommentEntry{commentToEntry(comment)},
		"$position": 0,
	}}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc PostDocument
	err := m.Posts.FindOneAndUpdate(ctx, bson.M{"_id": postID.String()}, push, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "Post not found", err)
	}
	if err != nil {
		return nil, err
	}

	return documentToPost(&doc)
}

// RemoveComment removes exactly the comment with the given ID. The filter
// matches the comment itself so a missing comment is distinguishable from a
// missing post.
func (m *MongoDB) RemoveComment(ctx context.Context, postID, commentID uuid.UUID) (*models.Post, error) {
	filter := bson.M{"_id": postID.String(), "comments._id": commentID.String()}
	pull := bson.M{"$pull": bson.M{"comments": bson.M{"_id": commentID.String()}}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc PostDocument
	err := m.Posts.FindOneAndUpdate(ctx, filter, pull, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		if _, postErr := m.GetPost(ctx, postID); postErr != nil {
			return nil, postErr
		}
		return nil, utils.NewFieldError(utils.ErrNotFound, "notfound", "This comment does not exist")
	}
	if err != nil {
		return nil, err
	}

	return documentToPost(&doc)
}
