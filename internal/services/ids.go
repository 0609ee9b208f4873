package services

import (
	"strings"

	"github.com/google/uuid"

	"github.com/maturamate/maturamate-backend/internal/platform/apierr"
)

var errUnauthenticated = apierr.Unauthorized("authentication required")

func requireUser(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return errUnauthenticated
	}
	return nil
}

// parseID validates a client supplied id; field names the request field in the error.
func parseID(raw, field string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, apierr.BadRequest("missing_"+field, field+" is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, apierr.BadRequest("invalid_"+field, "invalid "+field)
	}
	return id, nil
}

// parseIDs keeps the valid ids in input order and drops the rest.
func parseIDs(raw []string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(strings.TrimSpace(r))
		if err != nil || id == uuid.Nil {
			continue
		}
		out = append(out, id)
	}
	return out
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
