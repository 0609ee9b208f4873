package repos

import (
	"gorm.io/gorm"

	"github.com/maturamate/maturamate-backend/internal/data/repos/auth"
	"github.com/maturamate/maturamate-backend/internal/data/repos/billing"
	"github.com/maturamate/maturamate-backend/internal/data/repos/content"
	"github.com/maturamate/maturamate-backend/internal/data/repos/progress"
	"github.com/maturamate/maturamate-backend/internal/data/repos/user"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type EmailPreferenceRepo = user.EmailPreferenceRepo
type UserTokenRepo = auth.UserTokenRepo

type ContentRepo = content.ContentRepo

type ContentRelationRepo = progress.ContentRelationRepo
type RelationKey = progress.RelationKey
type StudySessionRepo = progress.StudySessionRepo
type SimulationAttemptRepo = progress.SimulationAttemptRepo

type SubscriptionRepo = billing.SubscriptionRepo

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo { return user.NewUserRepo(db, log) }
func NewEmailPreferenceRepo(db *gorm.DB, log *logger.Logger) EmailPreferenceRepo {
	return user.NewEmailPreferenceRepo(db, log)
}
func NewUserTokenRepo(db *gorm.DB, log *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, log)
}
func NewContentRepo(db *gorm.DB, log *logger.Logger) ContentRepo {
	return content.NewContentRepo(db, log)
}
func NewContentRelationRepo(db *gorm.DB, log *logger.Logger) ContentRelationRepo {
	return progress.NewContentRelationRepo(db, log)
}
func NewStudySessionRepo(db *gorm.DB, log *logger.Logger) StudySessionRepo {
	return progress.NewStudySessionRepo(db, log)
}
func NewSimulationAttemptRepo(db *gorm.DB, log *logger.Logger) SimulationAttemptRepo {
	return progress.NewSimulationAttemptRepo(db, log)
}
func NewSubscriptionRepo(db *gorm.DB, log *logger.Logger) SubscriptionRepo {
	return billing.NewSubscriptionRepo(db, log)
}
