package engine

import (
	"github.com/asynkron/protoactor-go/actor"

	"github.com/partiallymisplaced/so-connect/internal/database"
	"github.com/partiallymisplaced/so-connect/internal/engine/actors"
)

// Engine owns the long-lived actors behind the API. One actor per aggregate
// kind serializes that kind's mutations, so handler-level read-modify-write
// races cannot occur inside a single process.
type Engine struct {
	userActor    *actor.PID
	profileActor *actor.PID
	postActor    *actor.PID
}

// NewEngine spawns the user, profile and post actors against the given store.
func NewEngine(system *actor.ActorSystem, store database.Store) *Engine {
	userProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewUserActor(store)
	})
	profileProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewProfileActor(store)
	})
	postProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewPostActor(store)
	})

	return &Engine{
		userActor:    system.Root.Spawn(userProps),
		profileActor: system.Root.Spawn(profileProps),
		postActor:    system.Root.Spawn(postProps),
	}
}

func (e *Engine) GetUserActor() *actor.PID    { return e.userActor }
func (e *Engine) GetProfileActor() *actor.PID { return e.profileActor }
func (e *Engine) GetPostActor() *actor.PID    { return e.postActor }
