package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"boardly/internal/pkg/errors"
	"boardly/internal/platform/models"
	"boardly/internal/platform/repositories"
)

type WebhookHandler struct {
	repo *repositories.WebhookRepository
}

func NewWebhookHandler(repo *repositories.WebhookRepository) *WebhookHandler {
	return &WebhookHandler{repo: repo}
}

type webhookCreateRequest struct {
	URL    string   `json:"url"`
	Events []string `json:"events"`
}

type webhookUpdateRequest struct {
	URL    string   `json:"url"`
	Events []string `json:"events"`
	Active *bool    `json:"active"`
}

// Create registers an endpoint for the board. The signing secret is always
// generated server-side and returned once in the response.
func (h *WebhookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req webhookCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.URL == "" || len(req.Events) == 0 {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "url and events are required", nil)
		return
	}

	secret, err := generateSecret()
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Internal error", nil)
		return
	}

	sub := &models.WebhookSubscription{
		BoardID:   param(r, "board_id"),
		URL:       req.URL,
		Events:    req.Events,
		Secret:    secret,
		CreatedBy: claimsFrom(r).UserID,
	}
	if err := h.repo.Create(sub); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (h *WebhookHandler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.repo.ListByBoard(param(r, "board_id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

// Update applies a manual edit, which also clears the failure counter and
// is the only way to re-enable an auto-deactivated endpoint.
func (h *WebhookHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req webhookUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	sub, err := h.repo.GetByID(param(r, "webhook_id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if req.URL != "" {
		sub.URL = req.URL
	}
	if len(req.Events) > 0 {
		sub.Events = req.Events
	}
	if req.Active != nil {
		sub.Active = *req.Active
	}

	if err := h.repo.Update(sub); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (h *WebhookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Delete(param(r, "webhook_id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func generateSecret() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "whsec_" + hex.EncodeToString(buf), nil
}
