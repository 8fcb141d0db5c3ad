package actors

import (
	stdctx "context"
	"log/slog"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"

	"github.com/partiallymisplaced/so-connect/internal/database"
	"github.com/partiallymisplaced/so-connect/internal/models"
	"github.com/partiallymisplaced/so-connect/internal/utils"
)

// Message types
type (
	CreatePostMsg struct {
		UserID uuid.UUID
		Text   string
		Name   string
		Avatar string
	}

	GetPostMsg struct {
		PostID uuid.UUID
	}

	GetAllPostsMsg struct{}

	DeletePostMsg struct {
		PostID uuid.UUID
		UserID uuid.UUID
	}

	LikePostMsg struct {
		PostID uuid.UUID
		UserID uuid.UUID
	}

	UnlikePostMsg struct {
		PostID uuid.UUID
		UserID uuid.UUID
	}

	AddCommentMsg struct {
		PostID uuid.UUID
		UserID uuid.UUID
		Text   string
		Name   string
		Avatar string
	}

	RemoveCommentMsg struct {
		PostID    uuid.UUID
		CommentID uuid.UUID
	}
)

// PostActor owns all Post-store access. Likes and comments mutate the post
// aggregate through conditional store updates.
type PostActor struct {
	store database.Store
}

func NewPostActor(store database.Store) *PostActor {
	return &PostActor{store: store}
}

func (a *PostActor) Receive(context actor.Context) {
	ctx := stdctx.Background()

	switch msg := context.Message().(type) {
	case *CreatePostMsg:
		post := models.NewPost(msg.UserID, msg.Text, msg.Name, msg.Avatar)
		if err := a.store.SavePost(ctx, post); err != nil {
			slog.Error("failed to save post", "error", err)
			context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to save post", err))
			return
		}
		slog.Info("post created", "id", post.ID, "user", msg.UserID)
		context.Respond(post)

	case *GetPostMsg:
		post, err := a.store.GetPost(ctx, msg.PostID)
		if err != nil {
			context.Respond(asAppError(err))
			return
		}
		context.Respond(post)

	case *GetAllPostsMsg:
		posts, err := a.store.GetAllPosts(ctx)
		if err != nil {
			context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to fetch posts", err))
			return
		}
		context.Respond(posts)

	case *DeletePostMsg:
		post, err := a.store.GetPost(ctx, msg.PostID)
		if err != nil {
			context.Respond(asAppError(err))
			return
		}
		if post.User != msg.UserID {
			context.Respond(utils.NewFieldError(utils.ErrForbidden, "unauthorized", "Unauthorized"))
			return
		}
		if err := a.store.DeletePost(ctx, msg.PostID); err != nil {
			context.Respond(asAppError(err))
			return
		}
		slog.Info("post deleted", "id", msg.PostID, "user", msg.UserID)
		context.Respond(&SuccessResponse{Success: true})

	case *LikePostMsg:
		post, err := a.store.AddLike(ctx, msg.PostID, msg.UserID)
		if err != nil {
			context.Respond(asAppError(err))
			return
		}
		context.Respond(post)

	case *UnlikePostMsg:
		post, err := a.store.RemoveLike(ctx, msg.PostID, msg.UserID)
		if err != nil {
			context.Respond(asAppError(err))
			return
		}
		context.Respond(post)

	case *AddCommentMsg:
		comment := models.Comment{
			ID:        uuid.New(),
			User:      msg.UserID,
			Text:      msg.Text,
			Name:      msg.Name,
			Avatar:    msg.Avatar,
			CreatedAt: time.Now(),
		}
		post, err := a.store.AddComment(ctx, msg.PostID, comment)
		if err != nil {
			context.Respond(asAppError(err))
			return
		}
		context.Respond(post)

	case *RemoveCommentMsg:
		post, err := a.store.RemoveComment(ctx, msg.PostID, msg.CommentID)
		if err != nil {
			context.Respond(asAppError(err))
			return
		}
		context.Respond(post)
	}
}
