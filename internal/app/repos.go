package app

import (
	"gorm.io/gorm"

	"github.com/maturamate/maturamate-backend/internal/data/repos"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
)

type Repos struct {
	User            repos.UserRepo
	UserToken       repos.UserTokenRepo
	EmailPreference repos.EmailPreferenceRepo
	Content         repos.ContentRepo
	ContentRelation repos.ContentRelationRepo
	StudySession    repos.StudySessionRepo
	Attempt         repos.SimulationAttemptRepo
	Subscription    repos.SubscriptionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:            repos.NewUserRepo(db, log),
		UserToken:       repos.NewUserTokenRepo(db, log),
		EmailPreference: repos.NewEmailPreferenceRepo(db, log),
		Content:         repos.NewContentRepo(db, log),
		ContentRelation: repos.NewContentRelationRepo(db, log),
		StudySession:    repos.NewStudySessionRepo(db, log),
		Attempt:         repos.NewSimulationAttemptRepo(db, log),
		Subscription:    repos.NewSubscriptionRepo(db, log),
	}
}
