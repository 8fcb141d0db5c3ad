package actors

import (
	stdctx "context"
	"log/slog"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"

	"github.com/partiallymisplaced/so-connect/internal/database"
	"github.com/partiallymisplaced/so-connect/internal/models"
	"github.com/partiallymisplaced/so-connect/internal/utils"
)

// Message types
type (
	GetProfileMsg struct {
		UserID uuid.UUID
	}

	GetProfileByHandleMsg struct {
		Handle string
	}

	GetAllProfilesMsg struct{}

	UpsertProfileMsg struct {
		UserID uuid.UUID
		Update models.ProfileUpdate
	}

	AddExperienceMsg struct {
		UserID     uuid.UUID
		Experience models.Experience
	}

	RemoveExperienceMsg struct {
		UserID  uuid.UUID
		EntryID uuid.UUID
	}

	AddEducationMsg struct {
		UserID    uuid.UUID
		Education models.Education
	}

	RemoveEducationMsg struct {
		UserID  uuid.UUID
		EntryID uuid.UUID
	}

	DeleteAccountMsg struct {
		UserID uuid.UUID
	}
)

// ProfileActor owns all Profile-store access, including the account-deletion
// cascade (profile first, then the user record; posts stay behind).
type ProfileActor struct {
	store database.Store
}

func NewProfileActor(store database.Store) *ProfileActor {
	return &ProfileActor{store: store}
}

func (a *ProfileActor) Receive(context actor.Context) {
	ctx := stdctx.Background()

	switch msg := context.Message().(type) {
	case *GetProfileMsg:
		profile, err := a.store.GetProfileByUser(ctx, msg.UserID)
		if err != nil {
			context.Respond(asAppError(err))
			return
		}
		context.Respond(profile)

	case *GetProfileByHandleMsg:
		profile, err := a.store.GetProfileByHandle(ctx, msg.Handle)
		if err != nil {
			context.Respond(asAppError(err))
			return
		}
		context.Respond(profile)

	case *GetAllProfilesMsg:
		profiles, err := a.store.GetAllProfiles(ctx)
		if err != nil {
			context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to fetch profiles", err))
			return
		}
		context.Respond(profiles)

	case *UpsertProfileMsg:
		existing, err := a.store.GetProfileByUser(ctx, msg.UserID)
		if err != nil && !utils.IsErrorCode(err, utils.ErrNotFound) {
			context.Respond(asAppError(err))
			return
		}

		// Update in place when the profile exists; only submitted fields move.
		if existing != nil {
			profile, err := a.store.UpdateProfile(ctx, msg.UserID, msg.Update)
			if err != nil {
				context.Respond(asAppError(err))
				return
			}
			context.Respond(profile)
			return
		}

		// Creation rejects a handle already held by another profile.
		if taken, _ := a.store.GetProfileByHandle(ctx, msg.Update.Handle); taken != nil {
			context.Respond(utils.NewFieldError(utils.ErrDuplicate, "handle", "That handle already exists"))
			return
		}

		profile := models.NewProfile(msg.UserID, msg.Update)
		if err := a.store.SaveProfile(ctx, profile); err != nil {
			context.Respond(asAppError(err))
			return
		}
		slog.Info("profile created", "user", msg.UserID, "handle", profile.Handle)
		context.Respond(profile)

	case *AddExperienceMsg:
		profile, err := a.store.AddExperience(ctx, msg.UserID, msg.Experience)
		if err != nil {
			context.Respond(asAppError(err))
			return
		}
		context.Respond(profile)

	case *RemoveExperienceMsg:
		profile, err := a.store.RemoveExperience(ctx, msg.UserID, msg.EntryID)
		if err != nil {
			context.Respond(asAppError(err))
			return
		}
		context.Respond(profile)

	case *AddEducationMsg:
		profile, err := a.store.AddEducation(ctx, msg.UserID, msg.Education)
		if err != nil {
			context.Respond(asAppError(err))
			return
		}
		context.Respond(profile)

	case *RemoveEducationMsg:
		profile, err := a.store.RemoveEducation(ctx, msg.UserID, msg.EntryID)
		if err != nil {
			context.Respond(asAppError(err))
			return
		}
		context.Respond(profile)

	case *DeleteAccountMsg:
		if err := a.store.DeleteProfileByUser(ctx, msg.UserID); err != nil {
			context.Respond(asAppError(err))
			return
		}
		if err := a.store.DeleteUser(ctx, msg.UserID); err != nil {
			context.Respond(asAppError(err))
			return
		}
		slog.Info("account deleted", "user", msg.UserID)
		context.Respond(&SuccessResponse{Success: true})
	}
}

// asAppError keeps coded errors intact and wraps anything else as a
// database failure.
func asAppError(err error) *utils.AppError {
	if appErr, ok := err.(*utils.AppError); ok {
		return appErr
	}
	return utils.NewAppError(utils.ErrDatabase, "Database operation failed", err)
}
