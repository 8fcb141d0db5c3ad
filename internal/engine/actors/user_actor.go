package actors

import (
	stdctx "context"
	"log/slog"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/partiallymisplaced/so-connect/internal/database"
	"github.com/partiallymisplaced/so-connect/internal/models"
	"github.com/partiallymisplaced/so-connect/internal/utils"
)

// Message types
type (
	RegisterUserMsg struct {
		Name     string
		Email    string
		Password string
	}

	LoginMsg struct {
		Email    string
		Password string
	}
)

// SuccessResponse acknowledges an operation with no payload.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// UserActor owns all User-store access. Registration and login are the only
// operations that read or write credentials.
type UserActor struct {
	store database.Store
}

func NewUserActor(store database.Store) *UserActor {
	return &UserActor{store: store}
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func (a *UserActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *RegisterUserMsg:
		ctx := stdctx.Background()

		existing, _ := a.store.GetUserByEmail(ctx, msg.Email)
		if existing != nil {
			slog.Info("registration rejected, email taken", "email", msg.Email)
			context.Respond(utils.NewFieldError(utils.ErrUserAlreadyExists, "email", "Email already registered"))
			return
		}

		hashedPassword, err := hashPassword(msg.Password)
		if err != nil {
			context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Failed to hash password", err))
			return
		}

		user := &models.User{
			ID:             uuid.New(),
			Name:           msg.Name,
			Email:          msg.Email,
			HashedPassword: hashedPassword,
			Avatar:         models.GravatarURL(msg.Email),
			CreatedAt:      time.Now(),
		}

		if err := a.store.SaveUser(ctx, user); err != nil {
			if utils.IsErrorCode(err, utils.ErrUserAlreadyExists) {
				context.Respond(utils.NewFieldError(utils.ErrUserAlreadyExists, "email", "Email already registered"))
				return
			}
			slog.Error("failed to save user", "error", err)
			context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to save user", err))
			return
		}

		slog.Info("user registered", "id", user.ID, "email", user.Email)
		context.Respond(user)

	case *LoginMsg:
		ctx := stdctx.Background()

		user, err := a.store.GetUserByEmail(ctx, msg.Email)
		if err != nil {
			slog.Info("login failed, unknown email", "email", msg.Email)
			context.Respond(utils.NewFieldError(utils.ErrInvalidCredentials, "login", "Invalid credentials"))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(msg.Password)); err != nil {
			slog.Info("login failed, password mismatch", "email", msg.Email)
			context.Respond(utils.NewFieldError(utils.ErrInvalidCredentials, "login", "Invalid credentials"))
			return
		}

		context.Respond(user)
	}
}
