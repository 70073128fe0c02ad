package handlers

import (
	"net/http"
	"strings"

	"jobconnect/internal/app"
	"jobconnect/internal/common"
	"jobconnect/internal/http/response"
)

type ApplicationHandler struct {
	applications *app.ApplicationService
}

func NewApplicationHandler(applications *app.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications}
}

func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req app.ApplyInput
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.applications.Apply(r.Context(), identity.ID, req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *ApplicationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.applications.ListForApplicant(r.Context(), identity.ID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *ApplicationHandler) ListForJob(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	jobID, err := idFromPath(r, 3)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.applications.ListForJob(r.Context(), identity.ID, jobID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	applicationID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if strings.TrimSpace(req.Status) == "" {
		response.Error(w, common.NewValidationError("Validation failed", map[string]string{"status": "is required"}))
		return
	}
	updated, err := h.applications.UpdateStatus(r.Context(), identity.ID, applicationID, req.Status)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}
