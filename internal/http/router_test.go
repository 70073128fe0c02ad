package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"jobconnect/internal/app"
	apphttp "jobconnect/internal/http"
	"jobconnect/internal/http/handlers"
	"jobconnect/internal/http/metrics"
	httpmw "jobconnect/internal/http/middleware"
	"jobconnect/internal/observability"
	"jobconnect/internal/repository/memory"
	"jobconnect/internal/repository/sqlite"
	"jobconnect/internal/security"
	"jobconnect/internal/storage"
)

const (
	testSecret    = "router-test-secret-0123456789"
	publicBaseURL = "http://api.test"
)

type apiFixture struct {
	handler   http.Handler
	uploadDir string
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	dir := t.TempDir()
	db, err := sqlite.Open(filepath.Join(dir, "jobconnect.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqlite.Close(db) })

	uploadDir := filepath.Join(dir, "uploads")
	files, err := storage.NewLocalStore(uploadDir)
	if err != nil {
		t.Fatalf("upload dir: %v", err)
	}

	logger := observability.NewLoggerTo(io.Discard, "error")
	users := sqlite.NewUserRepository(db)
	employers := sqlite.NewEmployerRepository(db)
	companies := sqlite.NewCompanyRepository(db)
	jobs := sqlite.NewJobRepository(db)
	applications := sqlite.NewApplicationRepository(db)
	revoked := memory.NewRevokedTokenRepository()
	jwt := security.NewJWTProvider(testSecret)

	jobService := app.NewJobService(jobs, companies, logger)
	collector := metrics.NewCollector()
	router := apphttp.NewRouter(apphttp.RouterDependencies{
		AuthHandler:        handlers.NewAuthHandler(app.NewAuthService(users, employers, revoked, jwt, logger, time.Hour)),
		UserHandler:        handlers.NewUserHandler(app.NewUserService(users, employers, logger), app.NewResumeService(users, files, 5<<20, logger), publicBaseURL),
		JobHandler:         handlers.NewJobHandler(jobService),
		CompanyHandler:     handlers.NewCompanyHandler(app.NewCompanyService(companies, logger)),
		ApplicationHandler: handlers.NewApplicationHandler(app.NewApplicationService(applications, jobService, users, logger)),
		MetricsHandler:     handlers.NewMetricsHandler(collector),
		AuthMiddleware:     httpmw.NewAuthMiddleware(jwt, revoked),
		Uploads:            files.Handler(),
		Limiter:            httpmw.NewRateLimiter(),
		AuthRateLimit:      100,
		Metrics:            collector,
		Logger:             logger,
		RequestTimeout:     5 * time.Second,
		CORSAllowedOrigins: []string{"*"},
	})
	return &apiFixture{handler: router, uploadDir: uploadDir}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

type sessionBody struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	User    struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

type errorBody struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
}

func (f *apiFixture) registerSeeker(t *testing.T, email string) sessionBody {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "jobhunter", "email": email, "password": "password123",
	})
	expectStatus(t, rec, http.StatusCreated)
	return decode[sessionBody](t, rec)
}

func (f *apiFixture) registerEmployer(t *testing.T, email, companyName string) sessionBody {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/auth/register-employer", "", map[string]any{
		"firstName": "Ada", "lastName": "Lovelace", "companyEmail": email, "password": "password123",
		"phone": "555-123-4567", "state": "NY", "city": "New York", "address": "1 Main St",
		"companyName": companyName, "termsAccepted": true,
	})
	expectStatus(t, rec, http.StatusCreated)
	return decode[sessionBody](t, rec)
}

func (f *apiFixture) postJob(t *testing.T, token, title string) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/jobs", token, map[string]any{
		"title": title, "workType": "Remote", "techStack": []string{"Go", "Postgres"},
	})
	expectStatus(t, rec, http.StatusCreated)
	return decode[struct {
		ID string `json:"id"`
	}](t, rec).ID
}

func TestAuthFlow(t *testing.T) {
	api := newAPI(t)
	session := api.registerSeeker(t, "Seeker@Example.com")
	if !session.Success || session.Token == "" || session.User.Role != "job_seeker" || session.User.Email != "seeker@example.com" {
		t.Fatalf("unexpected session %+v", session)
	}

	rec := api.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "another", "email": "seeker@example.com", "password": "password123",
	})
	expectStatus(t, rec, http.StatusBadRequest)
	if body := decode[errorBody](t, rec); body.Success || body.Message != "Email already registered" {
		t.Fatalf("unexpected duplicate body %+v", body)
	}

	rec = api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "seeker@example.com", "password": "wrong-password"})
	expectStatus(t, rec, http.StatusUnauthorized)
	if body := decode[errorBody](t, rec); body.Message != "Invalid credentials" {
		t.Fatalf("unexpected login error %+v", body)
	}

	rec = api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "seeker@example.com", "password": "password123"})
	expectStatus(t, rec, http.StatusOK)
	token := decode[sessionBody](t, rec).Token

	rec = api.do(t, http.MethodGet, "/api/auth/me", "", nil)
	expectStatus(t, rec, http.StatusUnauthorized)
	if body := decode[errorBody](t, rec); body.Message != "no token, authorization denied" {
		t.Fatalf("unexpected message %+v", body)
	}

	rec = api.do(t, http.MethodGet, "/api/auth/me", token, nil)
	expectStatus(t, rec, http.StatusOK)
	if strings.Contains(strings.ToLower(rec.Body.String()), "password") {
		t.Fatalf("password leaked: %s", rec.Body.String())
	}

	expectStatus(t, api.do(t, http.MethodPost, "/api/auth/logout", token, nil), http.StatusOK)
	rec = api.do(t, http.MethodGet, "/api/auth/me", token, nil)
	expectStatus(t, rec, http.StatusUnauthorized)
	if body := decode[errorBody](t, rec); body.Message != "token is not valid" {
		t.Fatalf("revoked token should be invalid, got %+v", body)
	}
}

func TestRegisterInputEdges(t *testing.T) {
	api := newAPI(t)

	rec := api.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "longpass", "email": "long@example.com", "password": strings.Repeat("x", 80),
	})
	expectStatus(t, rec, http.StatusBadRequest)
	if body := decode[errorBody](t, rec); body.Fields["password"] == "" {
		t.Fatalf("expected password field error, got %+v", body)
	}

	session := api.registerSeeker(t, " Padded@Example.com ")
	if session.User.Email != "padded@example.com" {
		t.Fatalf("expected trimmed email, got %q", session.User.Email)
	}

	rec = api.do(t, http.MethodGet, "/api/jobs/saved", session.Token, nil)
	expectStatus(t, rec, http.StatusOK)
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty list, got %s", rec.Body.String())
	}
	expectStatus(t, api.do(t, http.MethodGet, "/api/jobs/saved", "", nil), http.StatusUnauthorized)
}

func TestEmployerPostsJobVisibleToEveryone(t *testing.T) {
	api := newAPI(t)
	boss := api.registerEmployer(t, "boss@acme.test", "Acme")

	rec := api.do(t, http.MethodGet, "/api/companies/my-company", boss.Token, nil)
	expectStatus(t, rec, http.StatusOK)
	company := decode[struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		EmployerID string `json:"employerId"`
	}](t, rec)
	if company.Name != "Acme" || company.EmployerID != boss.User.ID {
		t.Fatalf("unexpected company %+v", company)
	}

	jobID := api.postJob(t, boss.Token, "Go Engineer")

	rec = api.do(t, http.MethodGet, "/api/jobs", "", nil)
	expectStatus(t, rec, http.StatusOK)
	jobs := decode[[]struct {
		ID      string `json:"id"`
		Status  string `json:"status"`
		Company struct {
			Name string `json:"name"`
		} `json:"company"`
	}](t, rec)
	if len(jobs) != 1 || jobs[0].ID != jobID || jobs[0].Status != "Active" || jobs[0].Company.Name != "Acme" {
		t.Fatalf("unexpected listing %+v", jobs)
	}

	for i := 1; i <= 3; i++ {
		rec = api.do(t, http.MethodPost, "/api/jobs/"+jobID+"/view", "", nil)
		expectStatus(t, rec, http.StatusOK)
		if views := decode[map[string]int64](t, rec)["views"]; views != int64(i) {
			t.Fatalf("expected %d views, got %d", i, views)
		}
	}

	seeker := api.registerSeeker(t, "seeker@example.com")
	expectStatus(t, api.do(t, http.MethodPost, "/api/jobs", seeker.Token, map[string]string{"title": "x", "workType": "Remote"}), http.StatusForbidden)
	expectStatus(t, api.do(t, http.MethodGet, "/api/jobs/my-jobs", "", nil), http.StatusUnauthorized)

	other := api.registerEmployer(t, "other@corp.test", "Other")
	expectStatus(t, api.do(t, http.MethodPut, "/api/jobs/"+jobID, other.Token, map[string]string{"title": "Hijacked"}), http.StatusForbidden)
	expectStatus(t, api.do(t, http.MethodPut, "/api/companies/"+company.ID, other.Token, map[string]string{"name": "Hijacked"}), http.StatusForbidden)
}

func TestApplyOnceThenRejectDuplicate(t *testing.T) {
	api := newAPI(t)
	boss := api.registerEmployer(t, "boss@acme.test", "Acme")
	jobID := api.postJob(t, boss.Token, "Go Engineer")
	seeker := api.registerSeeker(t, "seeker@example.com")

	rec := api.do(t, http.MethodPost, "/api/applications", seeker.Token, map[string]string{"jobId": jobID, "coverLetter": "Hire me"})
	expectStatus(t, rec, http.StatusCreated)

	rec = api.do(t, http.MethodPost, "/api/applications", seeker.Token, map[string]string{"jobId": jobID})
	expectStatus(t, rec, http.StatusBadRequest)
	if body := decode[errorBody](t, rec); body.Message != "You have already applied to this job" {
		t.Fatalf("unexpected duplicate message %+v", body)
	}

	rec = api.do(t, http.MethodGet, "/api/applications/my-applications", seeker.Token, nil)
	expectStatus(t, rec, http.StatusOK)
	mine := decode[[]struct {
		ID  string `json:"id"`
		Job struct {
			Title   string `json:"title"`
			Company struct {
				Name string `json:"name"`
			} `json:"company"`
		} `json:"job"`
	}](t, rec)
	if len(mine) != 1 || mine[0].Job.Title != "Go Engineer" || mine[0].Job.Company.Name != "Acme" {
		t.Fatalf("unexpected applications %+v", mine)
	}

	rec = api.do(t, http.MethodGet, "/api/applications/job/"+jobID, boss.Token, nil)
	expectStatus(t, rec, http.StatusOK)
	rec = api.do(t, http.MethodPatch, "/api/applications/"+mine[0].ID+"/status", boss.Token, map[string]string{"status": "Shortlisted"})
	expectStatus(t, rec, http.StatusOK)
	if status := decode[map[string]any](t, rec)["status"]; status != "Shortlisted" {
		t.Fatalf("unexpected status %v", status)
	}
}

func TestProfileUpdateMergesAndFlattens(t *testing.T) {
	api := newAPI(t)
	seeker := api.registerSeeker(t, "seeker@example.com")

	rec := api.do(t, http.MethodPut, "/api/users/profile", seeker.Token, map[string]any{
		"fullName": "Job Hunter", "bio": "Gopher", "currentTitle": "Engineer",
		"preferences": map[string]any{"desiredRoles": []string{"SRE"}, "workTypes": []string{"Remote"}},
	})
	expectStatus(t, rec, http.StatusOK)

	rec = api.do(t, http.MethodPut, "/api/users/profile", seeker.Token, map[string]any{
		"phone": "555-0100", "email": "evil@example.com", "password": "hijacked123",
	})
	expectStatus(t, rec, http.StatusOK)
	view := decode[map[string]any](t, rec)
	if view["phone"] != "555-0100" || view["bio"] != "Gopher" || view["fullName"] != "Job Hunter" || view["currentTitle"] != "Engineer" {
		t.Fatalf("merge or flattening failed: %v", view)
	}
	if view["email"] != "seeker@example.com" {
		t.Fatalf("email must not change: %v", view["email"])
	}

	rec = api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "seeker@example.com", "password": "password123"})
	expectStatus(t, rec, http.StatusOK)
}

func (f *apiFixture) uploadResume(t *testing.T, token, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="resume"; filename="cv.pdf"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/users/upload-resume", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func pdfOfSize(size int) []byte {
	header := []byte("%PDF-1.4\n")
	return append(header, bytes.Repeat([]byte("1"), size-len(header))...)
}

func TestResumeUpload(t *testing.T) {
	api := newAPI(t)
	seeker := api.registerSeeker(t, "seeker@example.com")

	rec := api.uploadResume(t, seeker.Token, "application/pdf", pdfOfSize(6<<20))
	expectStatus(t, rec, http.StatusBadRequest)
	if body := decode[errorBody](t, rec); body.Message != "file too large" {
		t.Fatalf("unexpected oversize message %+v", body)
	}

	rec = api.uploadResume(t, seeker.Token, "application/pdf", bytes.Repeat([]byte("a"), 4<<20))
	expectStatus(t, rec, http.StatusBadRequest)
	if body := decode[errorBody](t, rec); body.Message != "Only PDF files are allowed" {
		t.Fatalf("unexpected type message %+v", body)
	}

	rec = api.uploadResume(t, seeker.Token, "application/pdf", pdfOfSize(4<<20))
	expectStatus(t, rec, http.StatusOK)
	resumeURL := decode[map[string]string](t, rec)["resumeUrl"]
	prefix := publicBaseURL + "/uploads/resume-" + seeker.User.ID + "-"
	if !strings.HasPrefix(resumeURL, prefix) || !strings.HasSuffix(resumeURL, ".pdf") {
		t.Fatalf("unexpected resume url %q", resumeURL)
	}
	filename := strings.TrimPrefix(resumeURL, publicBaseURL+"/uploads/")
	if info, err := os.Stat(filepath.Join(api.uploadDir, filename)); err != nil || info.Size() != 4<<20 {
		t.Fatalf("stored file missing or truncated: %v", err)
	}

	rec = api.do(t, http.MethodGet, "/uploads/"+filename, "", nil)
	expectStatus(t, rec, http.StatusOK)

	rec = api.do(t, http.MethodGet, "/api/users/profile", seeker.Token, nil)
	expectStatus(t, rec, http.StatusOK)
	if view := decode[map[string]any](t, rec); view["resumeUrl"] != resumeURL {
		t.Fatalf("profile not updated: %v", view["resumeUrl"])
	}

	boss := api.registerEmployer(t, "boss@acme.test", "Acme")
	expectStatus(t, api.uploadResume(t, boss.Token, "application/pdf", pdfOfSize(1024)), http.StatusForbidden)
}

func TestAdminRoutesAndFallbacks(t *testing.T) {
	api := newAPI(t)
	seeker := api.registerSeeker(t, "seeker@example.com")

	expectStatus(t, api.do(t, http.MethodGet, "/api/users/jobseekers", seeker.Token, nil), http.StatusForbidden)
	rec := api.do(t, http.MethodGet, "/api/users/"+seeker.User.ID, seeker.Token, nil)
	expectStatus(t, rec, http.StatusOK)

	rec = api.do(t, http.MethodGet, "/api/nothing-here", seeker.Token, nil)
	expectStatus(t, rec, http.StatusNotFound)
	expectStatus(t, api.do(t, http.MethodGet, "/health", "", nil), http.StatusOK)
	expectStatus(t, api.do(t, http.MethodGet, "/", "", nil), http.StatusOK)

	rec = api.do(t, http.MethodGet, "/metrics", "", nil)
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "jobconnect_http_requests_total") {
		t.Fatalf("metrics missing: %s", rec.Body.String())
	}
}
