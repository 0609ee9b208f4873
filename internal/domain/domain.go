package domain

import (
	"github.com/maturamate/maturamate-backend/internal/domain/auth"
	"github.com/maturamate/maturamate-backend/internal/domain/billing"
	"github.com/maturamate/maturamate-backend/internal/domain/content"
	"github.com/maturamate/maturamate-backend/internal/domain/progress"
	"github.com/maturamate/maturamate-backend/internal/domain/user"
)

type User = user.User
type EmailPreference = user.EmailPreference
type UserToken = auth.UserToken

type Subject = content.Subject
type Topic = content.Topic
type Subtopic = content.Subtopic
type Note = content.Note
type Exercise = content.Exercise
type ExerciseCard = content.ExerciseCard
type Simulation = content.Simulation

type ContentRelation = progress.ContentRelation
type RelationKind = progress.RelationKind
type ContentType = progress.ContentType
type StudySession = progress.StudySession
type SimulationAttempt = progress.SimulationAttempt

type Subscription = billing.Subscription
type SubscriptionStatus = billing.SubscriptionStatus

const (
	RelationFlag       = progress.RelationFlag
	RelationFavorite   = progress.RelationFavorite
	RelationCompletion = progress.RelationCompletion

	ContentExercise     = progress.ContentExercise
	ContentExerciseCard = progress.ContentExerciseCard
	ContentNote         = progress.ContentNote
	ContentSimulation   = progress.ContentSimulation
	ContentSubtopic     = progress.ContentSubtopic
	ContentTopic        = progress.ContentTopic

	SimulationAttemptInProgress = progress.SimulationAttemptInProgress

	SubscriptionPending  = billing.SubscriptionPending
	SubscriptionActive   = billing.SubscriptionActive
	SubscriptionCanceled = billing.SubscriptionCanceled
	PlanCustom           = billing.PlanCustom
)

// AllModels is the migration set, parents before children.
func AllModels() []any {
	return []any{
		&User{},
		&UserToken{},
		&EmailPreference{},
		&Subject{},
		&Topic{},
		&Subtopic{},
		&Note{},
		&Exercise{},
		&ExerciseCard{},
		&Simulation{},
		&ContentRelation{},
		&StudySession{},
		&SimulationAttempt{},
		&Subscription{},
	}
}
