package actors

import (
	"context"
	"testing"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/partiallymisplaced/so-connect/internal/database"
	"github.com/partiallymisplaced/so-connect/internal/models"
	"github.com/partiallymisplaced/so-connect/internal/utils"
)

func spawnProfileActor(t *testing.T) (*actor.ActorSystem, *actor.PID, database.Store) {
	t.Helper()
	store := database.NewMemoryStore()
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewProfileActor(store)
	})
	return system, system.Root.Spawn(props), store
}

func ask(t *testing.T, system *actor.ActorSystem, pid *actor.PID, msg interface{}) interface{} {
	t.Helper()
	future := system.Root.RequestFuture(pid, msg, 5*time.Second)
	result, err := future.Result()
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	return result
}

func TestProfileUpsertCreatesThenMerges(t *testing.T) {
	system, pid, _ := spawnProfileActor(t)
	userID := uuid.New()

	// No profile yet
	result := ask(t, system, pid, &GetProfileMsg{UserID: userID})
	appErr, ok := result.(*utils.AppError)
	if !ok {
		t.Fatalf("Expected an error before creation, got %T", result)
	}
	assert.Equal(t, utils.ErrNotFound, appErr.Code)

	// First submission creates
	result = ask(t, system, pid, &UpsertProfileMsg{
		UserID: userID,
		Update: models.ProfileUpdate{
			Handle: "gator",
			Status: "Developer",
			Skills: []string{"Go", "MongoDB"}, SkillsSet: true,
		},
	})
	profile, ok := result.(*models.Profile)
	if !ok {
		t.Fatalf("Expected a profile, got %T", result)
	}
	assert.Equal(t, "gator", profile.Handle)
	assert.Equal(t, []string{"Go", "MongoDB"}, profile.Skills)

	// Second submission merges only the fields it set
	result = ask(t, system, pid, &UpsertProfileMsg{
		UserID: userID,
		Update: models.ProfileUpdate{Handle: "gator", Status: "Senior Developer"},
	})
	merged, ok := result.(*models.Profile)
	if !ok {
		t.Fatalf("Expected a profile, got %T", result)
	}
	assert.Equal(t, "Senior Developer", merged.Status)
	assert.Equal(t, []string{"Go", "MongoDB"}, merged.Skills)
	assert.Equal(t, profile.ID, merged.ID)
}

func TestProfileHandleUniqueness(t *testing.T) {
	system, pid, _ := spawnProfileActor(t)

	ask(t, system, pid, &UpsertProfileMsg{
		UserID: uuid.New(),
		Update: models.ProfileUpdate{Handle: "gator", Status: "Dev", Skills: []string{"Go"}, SkillsSet: true},
	})

	result := ask(t, system, pid, &UpsertProfileMsg{
		UserID: uuid.New(),
		Update: models.ProfileUpdate{Handle: "gator", Status: "Dev", Skills: []string{"Go"}, SkillsSet: true},
	})
	appErr, ok := result.(*utils.AppError)
	if !ok {
		t.Fatalf("Expected a duplicate-handle error, got %T", result)
	}
	assert.Equal(t, utils.ErrDuplicate, appErr.Code)
	assert.Equal(t, "handle", appErr.Field)
}

func TestExperienceLifecycle(t *testing.T) {
	system, pid, _ := spawnProfileActor(t)
	userID := uuid.New()

	ask(t, system, pid, &UpsertProfileMsg{
		UserID: userID,
		Update: models.ProfileUpdate{Handle: "gator", Status: "Dev", Skills: []string{"Go"}, SkillsSet: true},
	})

	exp := models.Experience{ID: uuid.New(), Title: "Engineer", Company: "Swamp Inc", From: "2020-01-01"}
	result := ask(t, system, pid, &AddExperienceMsg{UserID: userID, Experience: exp})
	profile, ok := result.(*models.Profile)
	if !ok {
		t.Fatalf("Expected a profile, got %T", result)
	}
	assert.Len(t, profile.Experience, 1)

	// Unknown entry ID
	result = ask(t, system, pid, &RemoveExperienceMsg{UserID: userID, EntryID: uuid.New()})
	appErr, ok := result.(*utils.AppError)
	if !ok {
		t.Fatalf("Expected an error for a missing entry, got %T", result)
	}
	assert.Equal(t, "experiencenotfound", appErr.Field)

	result = ask(t, system, pid, &RemoveExperienceMsg{UserID: userID, EntryID: exp.ID})
	profile, ok = result.(*models.Profile)
	if !ok {
		t.Fatalf("Expected a profile, got %T", result)
	}
	assert.Empty(t, profile.Experience)
}

func TestDeleteAccountCascade(t *testing.T) {
	system, pid, store := spawnProfileActor(t)
	ctx := context.Background()

	user := &models.User{ID: uuid.New(), Name: "Al Gator", Email: "al@example.com", CreatedAt: time.Now()}
	assert.NoError(t, store.SaveUser(ctx, user))

	ask(t, system, pid, &UpsertProfileMsg{
		UserID: user.ID,
		Update: models.ProfileUpdate{Handle: "gator", Status: "Dev", Skills: []string{"Go"}, SkillsSet: true},
	})

	// The user's post survives the account deletion
	post := models.NewPost(user.ID, "a post that should outlive me", user.Name, user.Avatar)
	assert.NoError(t, store.SavePost(ctx, post))

	result := ask(t, system, pid, &DeleteAccountMsg{UserID: user.ID})
	success, ok := result.(*SuccessResponse)
	if !ok {
		t.Fatalf("Expected a success response, got %T", result)
	}
	assert.True(t, success.Success)

	_, err := store.GetProfileByUser(ctx, user.ID)
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))
	_, err = store.GetUser(ctx, user.ID)
	assert.True(t, utils.IsErrorCode(err, utils.ErrUserNotFound))

	kept, err := store.GetPost(ctx, post.ID)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, kept.User)
}
