package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"jobconnect/internal/app"
	"jobconnect/internal/common"
	"jobconnect/internal/domain/user"
	"jobconnect/internal/http/response"
)

const (
	resumeField = "resume"
	// multipart framing allowance on top of the file ceiling
	multipartOverhead = 1 << 20
)

type UserHandler struct {
	users         *app.UserService
	resumes       *app.ResumeService
	publicBaseURL string
}

func NewUserHandler(users *app.UserService, resumes *app.ResumeService, publicBaseURL string) *UserHandler {
	return &UserHandler{users: users, resumes: resumes, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	account, err := h.users.GetProfile(r.Context(), identity)
	if err != nil {
		response.Error(w, err)
		return
	}
	writeAccount(w, account)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var patch app.ProfilePatch
	if err := decodeJSON(r, &patch); err != nil {
		response.Error(w, err)
		return
	}
	account, err := h.users.UpdateProfile(r.Context(), identity, patch)
	if err != nil {
		response.Error(w, err)
		return
	}
	writeAccount(w, account)
}

func (h *UserHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.users.DeleteAccount(r.Context(), identity); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{"success": true, "message": "Account deleted"})
}

func (h *UserHandler) UploadResume(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	maxBytes := h.resumes.MaxBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		response.Error(w, uploadError(err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile(resumeField)
	if err != nil {
		response.Error(w, uploadError(err))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		response.Error(w, common.NewError(common.CodeInternal, "failed to read upload", err))
		return
	}
	resumeURL, err := h.resumes.Upload(r.Context(), identity.ID, app.ResumeUpload{
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, h.baseURL(r))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"resumeUrl": resumeURL})
}

func uploadError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
		return common.NewError(common.CodeValidation, "file too large", nil)
	}
	return common.NewError(common.CodeValidation, "Please upload a file", nil)
}

func (h *UserHandler) baseURL(r *http.Request) string {
	if h.publicBaseURL != "" {
		return h.publicBaseURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")); forwarded != "" {
		scheme = forwarded
	}
	return scheme + "://" + r.Host
}

func (h *UserHandler) ListJobSeekers(w http.ResponseWriter, r *http.Request) {
	items, err := h.users.ListJobSeekers(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{"success": true, "count": len(items), "data": items})
}

func (h *UserHandler) ListEmployers(w http.ResponseWriter, r *http.Request) {
	items, err := h.users.ListEmployers(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{"success": true, "count": len(items), "data": items})
}

func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	account, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	var data any = account.Employer
	if account.JobSeeker != nil {
		data = publicJobSeeker(*account.JobSeeker)
	}
	response.JSON(w, http.StatusOK, map[string]any{"success": true, "data": data})
}

// publicJobSeeker hides social login identifiers from other callers.
func publicJobSeeker(u user.User) user.User {
	u.SocialID = ""
	return u
}

func writeAccount(w http.ResponseWriter, account *app.Account) {
	view, err := accountView(account)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, view)
}
