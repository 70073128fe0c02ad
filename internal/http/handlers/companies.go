package handlers

import (
	"net/http"

	"jobconnect/internal/app"
	"jobconnect/internal/http/response"
)

type CompanyHandler struct {
	companies *app.CompanyService
}

func NewCompanyHandler(companies *app.CompanyService) *CompanyHandler {
	return &CompanyHandler{companies: companies}
}

func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.companies.List(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	companyID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.companies.Get(r.Context(), companyID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

func (h *CompanyHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.companies.GetForEmployer(r.Context(), identity.ID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req app.CompanyInput
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.companies.Create(r.Context(), identity.ID, req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	companyID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req app.CompanyInput
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.companies.Update(r.Context(), identity.ID, companyID, req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}
