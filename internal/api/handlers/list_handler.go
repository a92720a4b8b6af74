package handlers

import (
	"encoding/json"
	"net/http"

	"boardly/internal/engine/boards"
	"boardly/internal/pkg/errors"
)

type ListHandler struct {
	svc *boards.Service
}

func NewListHandler(svc *boards.Service) *ListHandler {
	return &ListHandler{svc: svc}
}

type listRequest struct {
	Title string `json:"title"`
}

type reorderRequest struct {
	Order []string `json:"order"`
}

func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	list, err := h.svc.CreateList(param(r, "board_id"), claimsFrom(r).UserID, req.Title)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

func (h *ListHandler) ListByBoard(w http.ResponseWriter, r *http.Request) {
	lists, err := h.svc.ListLists(param(r, "board_id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

func (h *ListHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	list, err := h.svc.UpdateList(param(r, "list_id"), claimsFrom(r).UserID, req.Title)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteList(param(r, "list_id"), claimsFrom(r).UserID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reorder takes the full target order of the board's lists.
func (h *ListHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if err := h.svc.ReorderLists(param(r, "board_id"), claimsFrom(r).UserID, req.Order); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
