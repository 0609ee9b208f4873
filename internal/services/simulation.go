package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/maturamate/maturamate-backend/internal/data/repos"
	types "github.com/maturamate/maturamate-backend/internal/domain"
	"github.com/maturamate/maturamate-backend/internal/platform/apierr"
	"github.com/maturamate/maturamate-backend/internal/platform/dbctx"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
)

type SimulationService interface {
	ToggleFlag(ctx context.Context, userID uuid.UUID, slug string) (bool, error)
	ListFlagged(ctx context.Context, userID uuid.UUID) ([]string, error)
	Start(ctx context.Context, userID uuid.UUID, simulationID string) (*types.SimulationAttempt, error)
}

type simulationService struct {
	log       *logger.Logger
	content   repos.ContentRepo
	attempts  repos.SimulationAttemptRepo
	relations RelationService
	now       func() time.Time
}

func NewSimulationService(log *logger.Logger, content repos.ContentRepo, attempts repos.SimulationAttemptRepo, relations RelationService) SimulationService {
	return &simulationService{
		log:       log.With("service", "SimulationService"),
		content:   content,
		attempts:  attempts,
		relations: relations,
		now:       time.Now,
	}
}

// ToggleFlag addresses simulations by slug, the identifier the exam pages use.
func (s *simulationService) ToggleFlag(ctx context.Context, userID uuid.UUID, slug string) (bool, error) {
	if err := requireUser(userID); err != nil {
		return false, err
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return false, apierr.BadRequest("missing_simulationId", "simulationId is required")
	}
	sim, err := s.content.GetSimulationBySlug(dbctx.Of(ctx), slug)
	if err != nil {
		return false, fmt.Errorf("load simulation: %w", err)
	}
	if sim == nil {
		return false, apierr.NotFound("simulation_not_found", "simulation not found")
	}
	return s.relations.Toggle(ctx, userID, types.RelationFlag, types.ContentSimulation, sim.ID)
}

func (s *simulationService) ListFlagged(ctx context.Context, userID uuid.UUID) ([]string, error) {
	ids, err := s.relations.List(ctx, userID, types.RelationFlag, types.ContentSimulation, 0)
	if err != nil {
		return nil, err
	}
	sims, err := s.content.GetSimulationsByIDs(dbctx.Of(ctx), ids)
	if err != nil {
		return nil, fmt.Errorf("load simulations: %w", err)
	}
	slugByID := make(map[uuid.UUID]string, len(sims))
	for _, sim := range sims {
		slugByID[sim.ID] = sim.Slug
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if slug, ok := slugByID[id]; ok {
			out = append(out, slug)
		}
	}
	return out, nil
}

// Start accepts either the simulation id or its slug.
func (s *simulationService) Start(ctx context.Context, userID uuid.UUID, simulationID string) (*types.SimulationAttempt, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	ref := strings.TrimSpace(simulationID)
	if ref == "" {
		return nil, apierr.BadRequest("missing_simulationId", "simulationId is required")
	}
	dbc := dbctx.Of(ctx)

	var sim *types.Simulation
	var err error
	if id, perr := uuid.Parse(ref); perr == nil {
		sim, err = s.content.GetSimulationByID(dbc, id)
	} else {
		sim, err = s.content.GetSimulationBySlug(dbc, ref)
	}
	if err != nil {
		return nil, fmt.Errorf("load simulation: %w", err)
	}
	if sim == nil {
		return nil, apierr.BadRequest("simulation_not_found", "simulation not found")
	}

	attempt := &types.SimulationAttempt{
		ID:           uuid.New(),
		UserID:       userID,
		SimulationID: sim.ID,
		Status:       types.SimulationAttemptInProgress,
		StartedAt:    s.now().UTC(),
		Metadata:     datatypes.JSON(fmt.Sprintf(`{"slug":%q,"durationMinutes":%d}`, sim.Slug, sim.DurationMinutes)),
	}
	if err := s.attempts.Create(dbc, attempt); err != nil {
		return nil, fmt.Errorf("create simulation attempt: %w", err)
	}
	return attempt, nil
}
