package handlers

import (
	"encoding/json"
	"net/http"

	"boardly/internal/engine/boards"
	"boardly/internal/pkg/errors"
)

type TaskHandler struct {
	svc *boards.Service
}

func NewTaskHandler(svc *boards.Service) *TaskHandler {
	return &TaskHandler{svc: svc}
}

type taskCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	AssigneeID  string `json:"assignee_id"`
}

type taskUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	AssigneeID  *string `json:"assignee_id"`
	Completed   *bool   `json:"completed"`
}

type taskMoveRequest struct {
	ListID string   `json:"list_id"`
	Order  []string `json:"order"`
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req taskCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	task, err := h.svc.CreateTask(param(r, "list_id"), claimsFrom(r).UserID, boards.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) ListByList(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.svc.ListTasks(param(r, "list_id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req taskUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	task, err := h.svc.UpdateTask(param(r, "task_id"), claimsFrom(r).UserID, boards.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		Completed:   req.Completed,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTask(param(r, "task_id"), claimsFrom(r).UserID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Move places the task in a target list at the slot implied by the full
// target order.
func (h *TaskHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req taskMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	task, err := h.svc.MoveTask(param(r, "task_id"), req.ListID, claimsFrom(r).UserID, req.Order)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Reorder takes the full target order of one list's tasks.
func (h *TaskHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if err := h.svc.ReorderTasks(param(r, "list_id"), claimsFrom(r).UserID, req.Order); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
