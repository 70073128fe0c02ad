package handlers

import (
	"net/http"

	"jobconnect/internal/app"
	"jobconnect/internal/http/response"
)

type JobHandler struct {
	jobs *app.JobService
}

func NewJobHandler(jobs *app.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.jobs.ListActive(r.Context(), queryInt(r, "limit"), queryInt(r, "offset"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	jobID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.jobs.Get(r.Context(), jobID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

func (h *JobHandler) RecordView(w http.ResponseWriter, r *http.Request) {
	jobID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	views, err := h.jobs.RecordView(r.Context(), jobID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]int64{"views": views})
}

// ListSaved always returns an empty list; bookmarks are not stored yet.
func (h *JobHandler) ListSaved(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, []any{})
}

func (h *JobHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.jobs.ListForEmployer(r.Context(), identity.ID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req app.JobInput
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.jobs.Create(r.Context(), identity.ID, req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	jobID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req app.JobInput
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.jobs.Update(r.Context(), identity.ID, jobID, req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}
