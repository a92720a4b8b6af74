// Package activity is the mutation ledger: an append-only, human-readable
// trail of accepted mutations. Recording is strictly best-effort; a failed
// write costs one ledger entry, never the business operation that
// triggered it.
package activity

import (
	"github.com/rs/zerolog/log"

	"boardly/internal/platform/models"
	"boardly/internal/platform/repositories"
)

type Recorder struct {
	repo *repositories.ActivityRepository
}

func NewRecorder(repo *repositories.ActivityRepository) *Recorder {
	return &Recorder{repo: repo}
}

// Record appends one ledger entry derived from the event and the acting
// user. It returns nil instead of an error on any failure: storage errors
// are logged and swallowed, and an event name outside the closed activity
// set is a bug in the emitting code, surfaced in the log rather than
// coerced into the ledger.
func (r *Recorder) Record(event models.MutationEvent, actingUserID, description string) *models.ActivityRecord {
	activityType, ok := models.ActivityTypeForEvent(event.Name)
	if !ok {
		log.Error().
			Str("event", event.Name).
			Str("board_id", event.BoardID).
			Msg("activity: event name outside closed type set, dropping record")
		return nil
	}

	record := &models.ActivityRecord{
		BoardID:     event.BoardID,
		UserID:      actingUserID,
		Type:        activityType,
		Description: description,
		Metadata: map[string]interface{}{
			"entity_type": event.EntityType,
			"entity_id":   event.EntityID,
		},
	}

	if err := r.repo.Append(record); err != nil {
		log.Warn().Err(err).
			Str("board_id", event.BoardID).
			Str("type", activityType).
			Msg("activity: ledger write failed, entry lost")
		return nil
	}

	return record
}

// History returns the newest entries for a board, limit-paginated.
func (r *Recorder) History(boardID string, limit int) ([]*models.ActivityRecord, error) {
	return r.repo.ListByBoard(boardID, limit)
}
