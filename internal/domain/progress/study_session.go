package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type StudySession struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index:idx_study_session_user_note,priority:1" json:"user_id"`
	NoteID       uuid.UUID `gorm:"type:uuid;not null;index:idx_study_session_user_note,priority:2" json:"note_id"`
	StartedAt    time.Time `gorm:"not null" json:"started_at"`
	LastActiveAt time.Time `gorm:"not null;index" json:"last_active_at"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

func (StudySession) TableName() string { return "study_session" }

// Duration is the observed study time; a session that was never touched has none.
func (s StudySession) Duration() time.Duration {
	if s.LastActiveAt.Before(s.StartedAt) {
		return 0
	}
	return s.LastActiveAt.Sub(s.StartedAt)
}

const SimulationAttemptInProgress = "in_progress"

type SimulationAttempt struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	SimulationID uuid.UUID      `gorm:"type:uuid;not null;index" json:"simulation_id"`
	Status       string         `gorm:"type:varchar(32);not null" json:"status"`
	StartedAt    time.Time      `gorm:"not null" json:"started_at"`
	Metadata     datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null" json:"updated_at"`
}

func (SimulationAttempt) TableName() string { return "simulation_attempt" }
