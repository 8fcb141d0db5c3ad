package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/partiallymisplaced/so-connect/internal/engine/actors"
	"github.com/partiallymisplaced/so-connect/internal/middleware"
	"github.com/partiallymisplaced/so-connect/internal/models"
	"github.com/partiallymisplaced/so-connect/internal/utils"
	"github.com/partiallymisplaced/so-connect/internal/validation"
)

// profileUpdateFromInput keeps only the fields actually submitted; the skills
// CSV becomes an ordered list.
func profileUpdateFromInput(in validation.ProfileInput) models.ProfileUpdate {
	update := models.ProfileUpdate{
		Handle:         in.Handle,
		Status:         in.Status,
		Company:        in.Company,
		Website:        in.Website,
		Location:       in.Location,
		Bio:            in.Bio,
		GithubUsername: in.GithubUsername,
		Social: models.SocialLinks{
			Youtube:   in.Youtube,
			Twitter:   in.Twitter,
			Facebook:  in.Facebook,
			Instagram: in.Instagram,
			Linkedin:  in.Linkedin,
		},
	}
	if in.Skills != "" {
		update.SkillsSet = true
		for _, skill := range strings.Split(in.Skills, ",") {
			update.Skills = append(update.Skills, strings.TrimSpace(skill))
		}
	}
	return update
}

// HandleCurrentProfile returns the caller's own profile
func (s *Server) HandleCurrentProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaimsFromContext(r.Context())
		if !ok {
			s.writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}

		result, appErr := s.ask(s.Engine.GetProfileActor(), &actors.GetProfileMsg{UserID: claims.UserID})
		if appErr != nil {
			if appErr.Code == utils.ErrNotFound {
				s.writeError(w, http.StatusNotFound, "noprofile", "There is no profile for this user")
				return
			}
			s.writeAppError(w, appErr)
			return
		}

		s.writeJSON(w, http.StatusOK, result)
	}
}

// HandleUpsertProfile creates the caller's profile or merges the submitted
// fields into it
func (s *Server) HandleUpsertProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaimsFromContext(r.Context())
		if !ok {
			s.writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}

		var req validation.ProfileInput
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "error", "Invalid request")
			return
		}

		if result := validation.ValidateProfile(req); !result.IsValid() {
			s.writeValidationErrors(w, result.Errors)
			return
		}

		result, appErr := s.ask(s.Engine.GetProfileActor(), &actors.UpsertProfileMsg{
			UserID: claims.UserID,
			Update: profileUpdateFromInput(req),
		})
		if appErr != nil {
			s.writeAppError(w, appErr)
			return
		}

		s.writeJSON(w, http.StatusOK, result)
	}
}

// HandleAllProfiles lists every profile
func (s *Server) HandleAllProfiles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, appErr := s.ask(s.Engine.GetProfileActor(), &actors.GetAllProfilesMsg{})
		if appErr != nil {
			s.writeError(w, http.StatusNotFound, "profile", "There are no profiles")
			return
		}

		s.writeJSON(w, http.StatusOK, result)
	}
}

// HandleProfileByHandle returns a profile by its unique handle
func (s *Server) HandleProfileByHandle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handle := r.PathValue("handle")

		result, appErr := s.ask(s.Engine.GetProfileActor(), &actors.GetProfileByHandleMsg{Handle: handle})
		if appErr != nil {
			s.writeError(w, http.StatusNotFound, "noprofile", "There is no profile")
			return
		}

		s.writeJSON(w, http.StatusOK, result)
	}
}

// HandleProfileByUser returns a profile by its owning user ID
func (s *Server) HandleProfileByUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(r.PathValue("user_id"))
		if err != nil {
			s.writeError(w, http.StatusNotFound, "noprofile", "There is no profile")
			return
		}

		result, appErr := s.ask(s.Engine.GetProfileActor(), &actors.GetProfileMsg{UserID: userID})
		if appErr != nil {
			s.writeError(w, http.StatusNotFound, "noprofile", "There is no profile")
			return
		}

		s.writeJSON(w, http.StatusOK, result)
	}
}

// HandleAddExperience prepends an experience entry to the caller's profile
func (s *Server) HandleAddExperience() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaimsFromContext(r.Context())
		if !ok {
			s.writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}

		var req validation.ExperienceInput
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "error", "Invalid request")
			return
		}

		if result := validation.ValidateExperience(req); !result.IsValid() {
			s.writeValidationErrors(w, result.Errors)
			return
		}

		result, appErr := s.ask(s.Engine.GetProfileActor(), &actors.AddExperienceMsg{
			UserID: claims.UserID,
			Experience: models.Experience{
				ID:          uuid.New(),
				Title:       req.Title,
				Company:     req.Company,
				Location:    req.Location,
				From:        req.From,
				To:          req.To,
				Current:     req.Current,
				Description: req.Description,
			},
		})
		if appErr != nil {
			if appErr.Code == utils.ErrNotFound {
				s.writeError(w, http.StatusNotFound, "noprofile", "There is no profile for this user")
				return
			}
			s.writeAppError(w, appErr)
			return
		}

		s.writeJSON(w, http.StatusOK, result)
	}
}

// HandleAddEducation prepends an education entry to the caller's profile
func (s *Server) HandleAddEducation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaimsFromContext(r.Context())
		if !ok {
			s.writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}

		var req validation.EducationInput
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "error", "Invalid request")
			return
		}

		if result := validation.ValidateEducation(req); !result.IsValid() {
			s.writeValidationErrors(w, result.Errors)
			return
		}

		result, appErr := s.ask(s.Engine.GetProfileActor(), &actors.AddEducationMsg{
			UserID: claims.UserID,
			Education: models.Education{
				ID:           uuid.New(),
				School:       req.School,
				Degree:       req.Degree,
				FieldOfStudy: req.FieldOfStudy,
				From:         req.From,
				To:           req.To,
				Current:      req.Current,
				Description:  req.Description,
			},
		})
		if appErr != nil {
			if appErr.Code == utils.ErrNotFound {
				s.writeError(w, http.StatusNotFound, "noprofile", "There is no profile for this user")
				return
			}
			s.writeAppError(w, appErr)
			return
		}

		s.writeJSON(w, http.StatusOK, result)
	}
}

// HandleRemoveExperience deletes an experience entry by its ID
func (s *Server) HandleRemoveExperience() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaimsFromContext(r.Context())
		if !ok {
			s.writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}

		entryID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			s.writeError(w, http.StatusNotFound, "experiencenotfound", "Experience is not found")
			return
		}

		result, appErr := s.ask(s.Engine.GetProfileActor(), &actors.RemoveExperienceMsg{
			UserID:  claims.UserID,
			EntryID: entryID,
		})
		if appErr != nil {
			s.writeAppError(w, appErr)
			return
		}

		s.writeJSON(w, http.StatusOK, result)
	}
}

// HandleRemoveEducation deletes an education entry by its ID
func (s *Server) HandleRemoveEducation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaimsFromContext(r.Context())
		if !ok {
			s.writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}

		entryID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			s.writeError(w, http.StatusNotFound, "educationnotfound", "Education is not found")
			return
		}

		result, appErr := s.ask(s.Engine.GetProfileActor(), &actors.RemoveEducationMsg{
			UserID:  claims.UserID,
			EntryID: entryID,
		})
		if appErr != nil {
			s.writeAppError(w, appErr)
			return
		}

		s.writeJSON(w, http.StatusOK, result)
	}
}

// HandleDeleteAccount removes the caller's profile and account together
func (s *Server) HandleDeleteAccount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaimsFromContext(r.Context())
		if !ok {
			s.writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}

		result, appErr := s.ask(s.Engine.GetProfileActor(), &actors.DeleteAccountMsg{UserID: claims.UserID})
		if appErr != nil {
			s.writeAppError(w, appErr)
			return
		}

		s.writeJSON(w, http.StatusOK, result)
	}
}
