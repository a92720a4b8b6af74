package handlers

import (
	"net/http"
	"strconv"

	"boardly/internal/engine/activity"
	"boardly/internal/platform/models"
)

type ActivityHandler struct {
	recorder *activity.Recorder
}

func NewActivityHandler(recorder *activity.Recorder) *ActivityHandler {
	return &ActivityHandler{recorder: recorder}
}

// List returns a board's activity feed, newest first, limit-paginated via
// the ?limit query parameter.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	records, err := h.recorder.History(param(r, "board_id"), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if records == nil {
		records = []*models.ActivityRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}
