package content

import (
	"time"

	"github.com/google/uuid"
)

type Subject struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Slug          string    `gorm:"uniqueIndex;not null;column:slug" json:"slug"`
	Name          string    `gorm:"not null;column:name" json:"name"`
	StripePriceID string    `gorm:"column:stripe_price_id" json:"-"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

func (Subject) TableName() string { return "subject" }

type Topic struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SubjectID uuid.UUID `gorm:"type:uuid;index;not null" json:"subject_id"`
	Name      string    `gorm:"not null" json:"name"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Topic) TableName() string { return "topic" }

type Subtopic struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TopicID   uuid.UUID `gorm:"type:uuid;index;not null" json:"topic_id"`
	Name      string    `gorm:"not null" json:"name"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Subtopic) TableName() string { return "subtopic" }

type Note struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SubtopicID    uuid.UUID `gorm:"type:uuid;index;not null" json:"subtopic_id"`
	Title         string    `gorm:"not null" json:"title"`
	PDFStorageKey string    `gorm:"column:pdf_storage_key" json:"-"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

func (Note) TableName() string { return "note" }

type Exercise struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SubtopicID uuid.UUID `gorm:"type:uuid;index;not null" json:"subtopic_id"`
	Title      string    `gorm:"not null" json:"title"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (Exercise) TableName() string { return "exercise" }

type ExerciseCard struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExerciseID uuid.UUID `gorm:"type:uuid;index;not null" json:"exercise_id"`
	Position   int       `gorm:"not null;default:0" json:"position"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (ExerciseCard) TableName() string { return "exercise_card" }

type Simulation struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Slug            string    `gorm:"uniqueIndex;not null" json:"slug"`
	SubjectID       uuid.UUID `gorm:"type:uuid;index;not null" json:"subject_id"`
	Title           string    `gorm:"not null" json:"title"`
	DurationMinutes int       `gorm:"not null;default:0" json:"duration_minutes"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

func (Simulation) TableName() string { return "simulation" }
