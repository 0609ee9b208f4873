package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/maturamate/maturamate-backend/internal/data/repos"
	types "github.com/maturamate/maturamate-backend/internal/domain"
	"github.com/maturamate/maturamate-backend/internal/platform/dbctx"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
)

const (
	DefaultStatsDays = 7
	MaxStatsDays     = 90
)

type DailyStudy struct {
	Date    string `json:"date"`
	Seconds int64  `json:"seconds"`
}

type DashboardStats struct {
	Days               int          `json:"days"`
	TotalStudySeconds  int64        `json:"totalStudySeconds"`
	SessionCount       int          `json:"sessionCount"`
	Daily              []DailyStudy `json:"daily"`
	CompletedSubtopics int64        `json:"completedSubtopics"`
	CompletedTopics    int64        `json:"completedTopics"`
	FlaggedExercises   int64        `json:"flaggedExercises"`
	FavoriteNotes      int64        `json:"favoriteNotes"`
}

type StatsService interface {
	Stats(ctx context.Context, userID uuid.UUID, days int) (*DashboardStats, error)
}

type statsService struct {
	log       *logger.Logger
	sessions  repos.StudySessionRepo
	relations repos.ContentRelationRepo
	now       func() time.Time
}

func NewStatsService(log *logger.Logger, sessions repos.StudySessionRepo, relations repos.ContentRelationRepo, now func() time.Time) StatsService {
	if now == nil {
		now = time.Now
	}
	return &statsService{
		log:       log.With("service", "StatsService"),
		sessions:  sessions,
		relations: relations,
		now:       now,
	}
}

func clampDays(days int) int {
	if days <= 0 {
		return DefaultStatsDays
	}
	if days > MaxStatsDays {
		return MaxStatsDays
	}
	return days
}

func (s *statsService) Stats(ctx context.Context, userID uuid.UUID, days int) (*DashboardStats, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	days = clampDays(days)
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	since := today.AddDate(0, 0, -(days - 1))

	out := &DashboardStats{Days: days}
	var sessions []*types.StudySession

	g, gctx := errgroup.WithContext(ctx)
	dbc := dbctx.Of(gctx)
	g.Go(func() error {
		rows, err := s.sessions.ListForUserSince(dbc, userID, since)
		if err != nil {
			return fmt.Errorf("list study sessions: %w", err)
		}
		sessions = rows
		return nil
	})
	counts := []struct {
		kind  types.RelationKind
		ctype types.ContentType
		dst   *int64
	}{
		{types.RelationCompletion, types.ContentSubtopic, &out.CompletedSubtopics},
		{types.RelationCompletion, types.ContentTopic, &out.CompletedTopics},
		{types.RelationFlag, types.ContentExercise, &out.FlaggedExercises},
		{types.RelationFavorite, types.ContentNote, &out.FavoriteNotes},
	}
	for _, c := range counts {
		g.Go(func() error {
			n, err := s.relations.CountByUser(dbc, userID, c.kind, c.ctype)
			if err != nil {
				return fmt.Errorf("count %s/%s: %w", c.kind, c.ctype, err)
			}
			*c.dst = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	index := make(map[string]int, days)
	out.Daily = make([]DailyStudy, days)
	for i := 0; i < days; i++ {
		date := since.AddDate(0, 0, i).Format("2006-01-02")
		out.Daily[i] = DailyStudy{Date: date}
		index[date] = i
	}
	for _, sess := range sessions {
		secs := int64(sess.Duration() / time.Second)
		out.TotalStudySeconds += secs
		out.SessionCount++
		if i, ok := index[sess.StartedAt.UTC().Format("2006-01-02")]; ok {
			out.Daily[i].Seconds += secs
		}
	}
	return out, nil
}
