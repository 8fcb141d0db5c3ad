package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/partiallymisplaced/so-connect/internal/engine/actors"
	"github.com/partiallymisplaced/so-connect/internal/middleware"
	"github.com/partiallymisplaced/so-connect/internal/utils"
	"github.com/partiallymisplaced/so-connect/internal/validation"
)

// HandleCreatePost creates a post attributed to the caller. Name and avatar
// are snapshotted from the token claims so posts render without a user join.
func (s *Server) HandleCreatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaimsFromContext(r.Context())
		if !ok {
			s.writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}

		var req validation.PostInput
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "error", "Invalid request")
			return
		}

		if result := validation.ValidatePost(req); !result.IsValid() {
			s.writeValidationErrors(w, result.Errors)
			return
		}

		result, appErr := s.ask(s.Engine.GetPostActor(), &actors.CreatePostMsg{
			UserID: claims.UserID,
			Text:   req.Text,
			Name:   claims.Name,
			Avatar: claims.Avatar,
		})
		if appErr != nil {
			s.writeAppError(w, appErr)
			return
		}

		s.writeJSON(w, http.StatusOK, result)
	}
}

// HandleAllPosts lists every post, newest first
func (s *Server) HandleAllPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, appErr := s.ask(s.Engine.GetPostActor(), &actors.GetAllPostsMsg{})
		if appErr != nil {
			s.writeError(w, http.StatusNotFound, "noposts", "No posts were found")
			return
		}

		s.writeJSON(w, http.StatusOK, result)
	}
}

// HandleGetPost returns a single post by ID
func (s *Server) HandleGetPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			s.writeError(w, http.StatusNotFound, "noposts", "Post not found")
			return
		}

		result, appErr := s.ask(s.Engine.GetPostActor(), &actors.GetPostMsg{PostID: postID})
		if appErr != nil {
			s.writeError(w, http.StatusNotFound, "noposts", "Post not found")
			return
		}

		s.writeJSON(w, http.StatusOK, result)
	}
}

// HandleDeletePost deletes a post the caller owns
func (s *Server) HandleDeletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaimsFromContext(r.Context())
		if !ok {
			s.writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}

		postID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			s.writeError(w, http.StatusNotFound, "notfound", "This post does not exist")
			return
		}

		result, appErr := s.ask(s.Engine.GetPostActor(), &actors.DeletePostMsg{
			PostID: postID,
			UserID: claims.UserID,
		})
		if appErr != nil {
			if appErr.Code == utils.ErrNotFound {
				s.writeError(w, http.StatusNotFound, "notfound", "This post does not exist")
				return
			}
			s.writeAppError(w, appErr)
			return
		}

		s.writeJSON(w, http.StatusOK, result)
	}
}

// HandleLikePost records the caller's like, once per user per post
func (s *Server) HandleLikePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaimsFromContext(r.Context())
		if !ok {
			s.writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}

		postID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			s.writeError(w, http.StatusNotFound, "notfound", "Post could not be found")
			return
		}

		result, appErr := s.ask(s.Engine.GetPostActor(), &actors.LikePostMsg{
			PostID: postID,
			UserID: claims.UserID,
		})
		if appErr != nil {
			switch appErr.Code {
			case utils.ErrAlreadyLiked:
				s.writeError(w, http.StatusBadRequest, "postliked", "User already liked this post")
			case utils.ErrNotFound:
				s.writeError(w, http.StatusNotFound, "notfound", "Post could not be found")
			default:
				s.writeAppError(w, appErr)
			}
			return
		}

		s.writeJSON(w, http.StatusOK, result)
	}
}

// HandleUnlikePost removes the caller's like
func (s *Server) HandleUnlikePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaimsFromContext(r.Context())
		if !ok {
			s.writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}

		postID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			s.writeError(w, http.StatusNotFound, "notfound", "Post could not be found")
			return
		}

		result, appErr := s.ask(s.Engine.GetPostActor(), &actors.UnlikePostMsg{
			PostID: postID,
			UserID: claims.UserID,
		})
		if appErr != nil {
			switch appErr.Code {
			case utils.ErrNotLiked:
				s.writeError(w, http.StatusBadRequest, "notliked", "The user has not liked this post yet")
			case utils.ErrNotFound:
				s.writeError(w, http.StatusNotFound, "notfound", "Post could not be found")
			default:
				s.writeAppError(w, appErr)
			}
			return
		}

		s.writeJSON(w, http.StatusOK, result)
	}
}

// HandleAddComment prepends a comment to a post. Comment text uses the same
// length rule as post text.
func (s *Server) HandleAddComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaimsFromContext(r.Context())
		if !ok {
			s.writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}

		postID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			s.writeError(w, http.StatusNotFound, "notfound", "Post could not be found")
			return
		}

		var req validation.PostInput
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "error", "Invalid request")
			return
		}

		if result := validation.ValidatePost(req); !result.IsValid() {
			s.writeValidationErrors(w, result.Errors)
			return
		}

		result, appErr := s.ask(s.Engine.GetPostActor(), &actors.AddCommentMsg{
			PostID: postID,
			UserID: claims.UserID,
			Text:   req.Text,
			Name:   claims.Name,
			Avatar: claims.Avatar,
		})
		if appErr != nil {
			if appErr.Code == utils.ErrNotFound {
				s.writeError(w, http.StatusNotFound, "notfound", "Post could not be found")
				return
			}
			s.writeAppError(w, appErr)
			return
		}

		s.writeJSON(w, http.StatusOK, result)
	}
}

// HandleRemoveComment deletes a comment from a post by its ID
func (s *Server) HandleRemoveComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetClaimsFromContext(r.Context()); !ok {
			s.writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}

		postID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			s.writeError(w, http.StatusNotFound, "notfound", "Post could not be found")
			return
		}
		commentID, err := uuid.Parse(r.PathValue("comment_id"))
		if err != nil {
			s.writeError(w, http.StatusNotFound, "notfound", "This comment does not exist")
			return
		}

		result, appErr := s.ask(s.Engine.GetPostActor(), &actors.RemoveCommentMsg{
			PostID:    postID,
			CommentID: commentID,
		})
		if appErr != nil {
			s.writeAppError(w, appErr)
			return
		}

		s.writeJSON(w, http.StatusOK, result)
	}
}
