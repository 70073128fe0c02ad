package app

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"jobconnect/internal/common"
	"jobconnect/internal/domain/application"
	"jobconnect/internal/domain/company"
	"jobconnect/internal/domain/employer"
	"jobconnect/internal/domain/job"
	"jobconnect/internal/domain/user"
	"jobconnect/internal/repository/memory"
	"jobconnect/internal/security"
)

const testSecret = "test-secret-at-least-16"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeUserRepo struct {
	mu      sync.Mutex
	byID    map[common.UUID]*user.User
	byEmail map[string]common.UUID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[common.UUID]*user.User), byEmail: make(map[string]common.UUID)}
}

func cloneUser(u *user.User) *user.User {
	copied := *u
	return &copied
}

func (r *fakeUserRepo) Create(ctx context.Context, account user.User) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[account.Email]; exists {
		return nil, common.NewError(common.CodeConflict, "Email already registered", nil)
	}
	account.ID = common.NewUUID()
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now
	r.byID[account.ID] = &account
	r.byEmail[account.Email] = account.ID
	return cloneUser(&account), nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id common.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account := r.byID[id]
	if account == nil {
		return nil, common.NewError(common.CodeNotFound, "User not found", nil)
	}
	return cloneUser(account), nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	id, ok := r.byEmail[email]
	r.mu.Unlock()
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "User not found", nil)
	}
	return r.GetByID(ctx, id)
}

func (r *fakeUserRepo) Update(ctx context.Context, account user.User) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current := r.byID[account.ID]
	if current == nil {
		return nil, common.NewError(common.CodeNotFound, "User not found", nil)
	}
	current.Name = account.Name
	current.Profile = account.Profile
	current.UpdatedAt = time.Now().UTC()
	return cloneUser(current), nil
}

func (r *fakeUserRepo) UpdateResumeURL(ctx context.Context, id common.UUID, resumeURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current := r.byID[id]
	if current == nil {
		return common.NewError(common.CodeNotFound, "User not found", nil)
	}
	current.Profile.ResumeURL = resumeURL
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current := r.byID[id]
	if current == nil {
		return common.NewError(common.CodeNotFound, "User not found", nil)
	}
	delete(r.byEmail, current.Email)
	delete(r.byID, id)
	return nil
}

func (r *fakeUserRepo) ListByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := []user.User{}
	for _, account := range r.byID {
		if account.Role == role {
			items = append(items, *account)
		}
	}
	return items, nil
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

type fakeCompanyRepo struct {
	mu   sync.Mutex
	byID map[common.UUID]*company.Company
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{byID: make(map[common.UUID]*company.Company)}
}

func (r *fakeCompanyRepo) Create(ctx context.Context, c company.Company) (*company.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.EmployerID == c.EmployerID {
			return nil, common.NewError(common.CodeConflict, "Company already exists", nil)
		}
	}
	c.ID = common.NewUUID()
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	c.Normalize()
	r.byID[c.ID] = &c
	copied := c
	return &copied, nil
}

func (r *fakeCompanyRepo) Update(ctx context.Context, c company.Company) (*company.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byID[c.ID] == nil {
		return nil, common.NewError(common.CodeNotFound, "Company not found", nil)
	}
	c.Normalize()
	r.byID[c.ID] = &c
	copied := c
	return &copied, nil
}

func (r *fakeCompanyRepo) GetByID(ctx context.Context, id common.UUID) (*company.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.byID[id]
	if c == nil {
		return nil, common.NewError(common.CodeNotFound, "Company not found", nil)
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCompanyRepo) GetByEmployer(ctx context.Context, employerID common.UUID) (*company.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if c.EmployerID == employerID {
			copied := *c
			return &copied, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "Company not found", nil)
}

func (r *fakeCompanyRepo) List(ctx context.Context) ([]company.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := []company.Company{}
	for _, c := range r.byID {
		items = append(items, *c)
	}
	return items, nil
}

type fakeEmployerRepo struct {
	mu        sync.Mutex
	byID      map[common.UUID]*employer.Employer
	companies *fakeCompanyRepo
	failNext  error
}

func newFakeEmployerRepo(companies *fakeCompanyRepo) *fakeEmployerRepo {
	return &fakeEmployerRepo{byID: make(map[common.UUID]*employer.Employer), companies: companies}
}

func (r *fakeEmployerRepo) CreateWithCompany(ctx context.Context, e employer.Employer, c company.Company) (*employer.Employer, *company.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return nil, nil, err
	}
	for _, existing := range r.byID {
		if existing.Email == e.Email {
			return nil, nil, common.NewError(common.CodeConflict, "Email already registered", nil)
		}
	}
	e.ID = common.NewUUID()
	e.CreatedAt = time.Now().UTC()
	e.UpdatedAt = e.CreatedAt
	c.EmployerID = e.ID
	created, err := r.companies.Create(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	r.byID[e.ID] = &e
	copied := e
	return &copied, created, nil
}

func (r *fakeEmployerRepo) GetByID(ctx context.Context, id common.UUID) (*employer.Employer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.byID[id]
	if e == nil {
		return nil, common.NewError(common.CodeNotFound, "User not found", nil)
	}
	copied := *e
	return &copied, nil
}

func (r *fakeEmployerRepo) FindByEmail(ctx context.Context, email string) (*employer.Employer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.byID {
		if e.Email == email {
			copied := *e
			return &copied, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "User not found", nil)
}

func (r *fakeEmployerRepo) Update(ctx context.Context, e employer.Employer) (*employer.Employer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byID[e.ID] == nil {
		return nil, common.NewError(common.CodeNotFound, "User not found", nil)
	}
	r.byID[e.ID] = &e
	copied := e
	return &copied, nil
}

func (r *fakeEmployerRepo) Delete(ctx context.Context, id common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byID[id] == nil {
		return common.NewError(common.CodeNotFound, "User not found", nil)
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeEmployerRepo) List(ctx context.Context) ([]employer.Employer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := []employer.Employer{}
	for _, e := range r.byID {
		items = append(items, *e)
	}
	return items, nil
}

func (r *fakeEmployerRepo) setActive(id common.UUID, active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[id].IsActive = active
}

type fakeJobRepo struct {
	mu        sync.Mutex
	byID      map[common.UUID]*job.Job
	companies *fakeCompanyRepo
	seq       time.Duration
}

func newFakeJobRepo(companies *fakeCompanyRepo) *fakeJobRepo {
	return &fakeJobRepo{byID: make(map[common.UUID]*job.Job), companies: companies}
}

func (r *fakeJobRepo) embed(j job.Job) *job.Job {
	if c, err := r.companies.GetByID(context.Background(), j.CompanyID); err == nil {
		j.Company = c
	}
	return &j
}

func (r *fakeJobRepo) Create(ctx context.Context, j job.Job) (*job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq += time.Millisecond
	j.ID = common.NewUUID()
	j.PostedAt = time.Now().UTC().Add(r.seq)
	j.UpdatedAt = j.PostedAt
	j.Views = 0
	r.byID[j.ID] = &j
	return r.embed(j), nil
}

func (r *fakeJobRepo) Update(ctx context.Context, j job.Job) (*job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current := r.byID[j.ID]
	if current == nil {
		return nil, common.NewError(common.CodeNotFound, "Job not found", nil)
	}
	j.Views = current.Views
	j.PostedAt = current.PostedAt
	j.Company = nil
	r.byID[j.ID] = &j
	return r.embed(j), nil
}

func (r *fakeJobRepo) GetByID(ctx context.Context, id common.UUID) (*job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j := r.byID[id]
	if j == nil {
		return nil, common.NewError(common.CodeNotFound, "Job not found", nil)
	}
	return r.embed(*j), nil
}

func (r *fakeJobRepo) ListActive(ctx context.Context, limit, offset int) ([]job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := []job.Job{}
	for _, j := range r.byID {
		if j.Status == job.StatusActive {
			items = append(items, *r.embed(*j))
		}
	}
	sort.Slice(items, func(a, b int) bool { return items[a].PostedAt.After(items[b].PostedAt) })
	if offset > len(items) {
		offset = len(items)
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items, nil
}

func (r *fakeJobRepo) ListByCompany(ctx context.Context, companyID common.UUID) ([]job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := []job.Job{}
	for _, j := range r.byID {
		if j.CompanyID == companyID {
			items = append(items, *r.embed(*j))
		}
	}
	return items, nil
}

func (r *fakeJobRepo) IncrementViews(ctx context.Context, id common.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j := r.byID[id]
	if j == nil {
		return 0, common.NewError(common.CodeNotFound, "Job not found", nil)
	}
	j.Views++
	return j.Views, nil
}

type fakeApplicationRepo struct {
	mu   sync.Mutex
	byID map[common.UUID]*application.Application
	jobs *fakeJobRepo
}

func newFakeApplicationRepo(jobs *fakeJobRepo) *fakeApplicationRepo {
	return &fakeApplicationRepo{byID: make(map[common.UUID]*application.Application), jobs: jobs}
}

func (r *fakeApplicationRepo) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.JobID == app.JobID && existing.ApplicantID == app.ApplicantID {
			return nil, common.NewError(common.CodeConflict, "You have already applied to this job", nil)
		}
	}
	app.ID = common.NewUUID()
	app.AppliedAt = time.Now().UTC()
	app.UpdatedAt = app.AppliedAt
	r.byID[app.ID] = &app
	copied := app
	return &copied, nil
}

func (r *fakeApplicationRepo) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app := r.byID[id]
	if app == nil {
		return nil, common.NewError(common.CodeNotFound, "Application not found", nil)
	}
	copied := *app
	return &copied, nil
}

func (r *fakeApplicationRepo) FindByJobAndApplicant(ctx context.Context, jobID, applicantID common.UUID) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, app := range r.byID {
		if app.JobID == jobID && app.ApplicantID == applicantID {
			copied := *app
			return &copied, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "Application not found", nil)
}

func (r *fakeApplicationRepo) ListByApplicant(ctx context.Context, applicantID common.UUID) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := []application.Application{}
	for _, app := range r.byID {
		if app.ApplicantID == applicantID {
			copied := *app
			if j, err := r.jobs.GetByID(ctx, app.JobID); err == nil {
				copied.Job = j
			}
			items = append(items, copied)
		}
	}
	return items, nil
}

func (r *fakeApplicationRepo) ListByJob(ctx context.Context, jobID common.UUID) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := []application.Application{}
	for _, app := range r.byID {
		if app.JobID == jobID {
			items = append(items, *app)
		}
	}
	return items, nil
}

func (r *fakeApplicationRepo) UpdateStatus(ctx context.Context, id common.UUID, status application.Status) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app := r.byID[id]
	if app == nil {
		return nil, common.NewError(common.CodeNotFound, "Application not found", nil)
	}
	app.Status = status
	copied := *app
	return &copied, nil
}

type fakeFileStore struct {
	mu      sync.Mutex
	files   map[string][]byte
	removed []string
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{files: make(map[string][]byte)}
}

func (s *fakeFileStore) Save(ctx context.Context, name string, r io.Reader) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = buf.Bytes()
	return nil
}

func (s *fakeFileStore) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, name)
	s.removed = append(s.removed, name)
	return nil
}

type testEnv struct {
	users        *fakeUserRepo
	employers    *fakeEmployerRepo
	companies    *fakeCompanyRepo
	jobs         *fakeJobRepo
	applications *fakeApplicationRepo
	revoked      *memory.RevokedTokenRepository
	jwt          *security.JWTProvider
	auth         *AuthService
	userService  *UserService
	companySvc   *CompanyService
	jobService   *JobService
	appService   *ApplicationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := discardLogger()
	companies := newFakeCompanyRepo()
	jobs := newFakeJobRepo(companies)
	env := &testEnv{
		users:        newFakeUserRepo(),
		employers:    newFakeEmployerRepo(companies),
		companies:    companies,
		jobs:         jobs,
		applications: newFakeApplicationRepo(jobs),
		revoked:      memory.NewRevokedTokenRepository(),
		jwt:          security.NewJWTProvider(testSecret),
	}
	env.auth = NewAuthService(env.users, env.employers, env.revoked, env.jwt, logger, time.Hour)
	env.userService = NewUserService(env.users, env.employers, logger)
	env.companySvc = NewCompanyService(companies, logger)
	env.jobService = NewJobService(jobs, companies, logger)
	env.appService = NewApplicationService(env.applications, env.jobService, env.users, logger)
	return env
}

func (env *testEnv) registerSeeker(t *testing.T, email string) *AuthResult {
	t.Helper()
	result, err := env.auth.RegisterJobSeeker(context.Background(), RegisterJobSeekerInput{Username: "seeker", Email: email, Password: "password123"})
	if err != nil {
		t.Fatalf("register seeker: %v", err)
	}
	return result
}

func (env *testEnv) registerEmployer(t *testing.T, email, companyName string) *AuthResult {
	t.Helper()
	result, err := env.auth.RegisterEmployer(context.Background(), RegisterEmployerInput{
		FirstName: "Grace", LastName: "Hopper", Email: email, Password: "password123",
		Phone: "(555) 123-4567", State: "VA", City: "Arlington", Address: "1 Navy Way",
		CompanyName: companyName, TermsAccepted: true,
	})
	if err != nil {
		t.Fatalf("register employer: %v", err)
	}
	return result
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }
