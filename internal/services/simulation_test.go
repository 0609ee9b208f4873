package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/maturamate/maturamate-backend/internal/data/repos/testutil"
	types "github.com/maturamate/maturamate-backend/internal/domain"
)

func TestSimulationFlagBySlug(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewSimulationService(env.log, env.content, env.attempts, env.relations)

	subject := testutil.SeedSubject(t, ctx, env.db, "math-"+uuid.NewString()[:6], "")
	sim := testutil.SeedSimulation(t, ctx, env.db, subject.ID, "matura-2025-"+uuid.NewString()[:6])
	userID := env.user(t)

	on, err := svc.ToggleFlag(ctx, userID, sim.Slug)
	if err != nil || !on {
		t.Fatalf("ToggleFlag: on=%v err=%v", on, err)
	}
	flagged, err := svc.ListFlagged(ctx, userID)
	if err != nil {
		t.Fatalf("ListFlagged: %v", err)
	}
	if len(flagged) != 1 || flagged[0] != sim.Slug {
		t.Fatalf("unexpected flagged slugs: %v", flagged)
	}
	if on, err := svc.ToggleFlag(ctx, userID, sim.Slug); err != nil || on {
		t.Fatalf("ToggleFlag off: on=%v err=%v", on, err)
	}

	_, err = svc.ToggleFlag(ctx, userID, "no-such-exam")
	wantAPIError(t, err, http.StatusNotFound, "simulation_not_found")
	_, err = svc.ToggleFlag(ctx, userID, "  ")
	wantAPIError(t, err, http.StatusBadRequest, "missing_simulationId")
}

func TestSimulationStart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewSimulationService(env.log, env.content, env.attempts, env.relations)

	subject := testutil.SeedSubject(t, ctx, env.db, "phys-"+uuid.NewString()[:6], "")
	sim := testutil.SeedSimulation(t, ctx, env.db, subject.ID, "phys-"+uuid.NewString()[:6])
	userID := env.user(t)

	byID, err := svc.Start(ctx, userID, sim.ID.String())
	if err != nil {
		t.Fatalf("Start by id: %v", err)
	}
	bySlug, err := svc.Start(ctx, userID, sim.Slug)
	if err != nil {
		t.Fatalf("Start by slug: %v", err)
	}
	if byID.SimulationID != sim.ID || bySlug.SimulationID != sim.ID || byID.ID == bySlug.ID {
		t.Fatalf("unexpected attempts: %+v %+v", byID, bySlug)
	}
	if byID.Status != types.SimulationAttemptInProgress {
		t.Fatalf("unexpected status: %q", byID.Status)
	}

	_, err = svc.Start(ctx, userID, uuid.NewString())
	wantAPIError(t, err, http.StatusBadRequest, "simulation_not_found")
}
