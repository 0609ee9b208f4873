package progress

import (
	"time"

	"github.com/google/uuid"
)

type RelationKind string

const (
	RelationFlag       RelationKind = "flag"
	RelationFavorite   RelationKind = "favorite"
	RelationCompletion RelationKind = "completion"
)

func (k RelationKind) Valid() bool {
	switch k {
	case RelationFlag, RelationFavorite, RelationCompletion:
		return true
	}
	return false
}

type ContentType string

const (
	ContentExercise     ContentType = "exercise"
	ContentExerciseCard ContentType = "exercise_card"
	ContentNote         ContentType = "note"
	ContentSimulation   ContentType = "simulation"
	ContentSubtopic     ContentType = "subtopic"
	ContentTopic        ContentType = "topic"
)

func (t ContentType) Valid() bool {
	switch t {
	case ContentExercise, ContentExerciseCard, ContentNote, ContentSimulation, ContentSubtopic, ContentTopic:
		return true
	}
	return false
}

// ContentRelation is one user's flag, favorite or completion of one piece of
// content. At most one row exists per (user, kind, content type, content id).
type ContentRelation struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_content_relation_identity,priority:1" json:"user_id"`
	Kind        RelationKind `gorm:"type:varchar(32);not null;uniqueIndex:idx_content_relation_identity,priority:2" json:"kind"`
	ContentType ContentType  `gorm:"type:varchar(32);not null;uniqueIndex:idx_content_relation_identity,priority:3" json:"content_type"`
	ContentID   uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_content_relation_identity,priority:4" json:"content_id"`
	IsCorrect   *bool        `gorm:"column:is_correct" json:"is_correct,omitempty"`
	CreatedAt   time.Time    `gorm:"not null;index" json:"created_at"`
}

func (ContentRelation) TableName() string { return "user_content_relation" }
