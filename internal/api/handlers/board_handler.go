package handlers

import (
	"encoding/json"
	"net/http"

	"boardly/internal/engine/boards"
	"boardly/internal/pkg/errors"
)

type BoardHandler struct {
	svc *boards.Service
}

func NewBoardHandler(svc *boards.Service) *BoardHandler {
	return &BoardHandler{svc: svc}
}

type boardRequest struct {
	Name string `json:"name"`
}

func (h *BoardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req boardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	board, err := h.svc.CreateBoard(claimsFrom(r).UserID, req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, board)
}

func (h *BoardHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListBoards(claimsFrom(r).UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *BoardHandler) Get(w http.ResponseWriter, r *http.Request) {
	board, err := h.svc.GetBoard(param(r, "board_id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (h *BoardHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req boardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	board, err := h.svc.UpdateBoard(param(r, "board_id"), claimsFrom(r).UserID, req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (h *BoardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteBoard(param(r, "board_id"), claimsFrom(r).UserID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
