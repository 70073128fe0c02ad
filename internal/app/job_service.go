package app

import (
	"context"
	"strings"

	"jobconnect/internal/common"
	"jobconnect/internal/domain/company"
	"jobconnect/internal/domain/job"
)

type JobService struct {
	jobs      job.Repository
	companies company.Repository
	logger    Logger
}

func NewJobService(jobs job.Repository, companies company.Repository, logger Logger) *JobService {
	return &JobService{jobs: jobs, companies: companies, logger: logger}
}

type JobInput struct {
	CompanyID        *string  `json:"companyId"`
	Title            *string  `json:"title"`
	Location         *string  `json:"location"`
	WorkType         *string  `json:"workType"`
	ExperienceLevel  *string  `json:"experienceLevel"`
	EmploymentType   *string  `json:"employmentType"`
	SalaryMin        *int     `json:"salaryMin"`
	SalaryMax        *int     `json:"salaryMax"`
	Equity           *string  `json:"equity"`
	Description      *string  `json:"description"`
	Requirements     []string `json:"requirements"`
	Responsibilities []string `json:"responsibilities"`
	NiceToHave       []string `json:"niceToHave"`
	TechStack        []string `json:"techStack"`
	Status           *string  `json:"status"`
}

func (in JobInput) apply(j *job.Job) {
	setString(&j.Title, in.Title)
	setString(&j.Location, in.Location)
	setString(&j.WorkType, in.WorkType)
	setString(&j.EmploymentType, in.EmploymentType)
	setString(&j.Equity, in.Equity)
	setString(&j.Description, in.Description)
	if in.ExperienceLevel != nil {
		j.ExperienceLevel = job.ExperienceLevel(strings.TrimSpace(*in.ExperienceLevel))
	}
	if in.Status != nil {
		j.Status = job.Status(strings.TrimSpace(*in.Status))
	}
	if in.SalaryMin != nil {
		j.SalaryMin = in.SalaryMin
	}
	if in.SalaryMax != nil {
		j.SalaryMax = in.SalaryMax
	}
	if in.Requirements != nil {
		j.Requirements = in.Requirements
	}
	if in.Responsibilities != nil {
		j.Responsibilities = in.Responsibilities
	}
	if in.NiceToHave != nil {
		j.NiceToHave = in.NiceToHave
	}
	if in.TechStack != nil {
		j.TechStack = in.TechStack
	}
}

func validateJob(j job.Job) error {
	fields := map[string]string{}
	if j.Title == "" {
		fields["title"] = "is required"
	}
	if j.WorkType == "" {
		fields["workType"] = "is required"
	}
	if _, ok := job.ParseExperienceLevel(string(j.ExperienceLevel)); !ok {
		fields["experienceLevel"] = "must be one of Entry, Mid, Senior, Lead, Executive"
	}
	if _, ok := job.ParseStatus(string(j.Status)); !ok {
		fields["status"] = "must be one of Active, Closed, Draft"
	}
	if j.SalaryMin != nil && j.SalaryMax != nil && *j.SalaryMin > *j.SalaryMax {
		fields["salaryMax"] = "must not be below salaryMin"
	}
	if len(fields) > 0 {
		return common.NewValidationError("Validation failed", fields)
	}
	return nil
}

func (s *JobService) ListActive(ctx context.Context, limit, offset int) ([]job.Job, error) {
	return s.jobs.ListActive(ctx, limit, offset)
}

func (s *JobService) Get(ctx context.Context, id common.UUID) (*job.Job, error) {
	return s.jobs.GetByID(ctx, id)
}

func (s *JobService) RecordView(ctx context.Context, id common.UUID) (int64, error) {
	return s.jobs.IncrementViews(ctx, id)
}

func (s *JobService) ListForEmployer(ctx context.Context, employerID common.UUID) ([]job.Job, error) {
	owned, err := s.ownCompany(ctx, employerID)
	if err != nil {
		return nil, err
	}
	return s.jobs.ListByCompany(ctx, owned.ID)
}

func (s *JobService) Create(ctx context.Context, employerID common.UUID, input JobInput) (*job.Job, error) {
	owned, err := s.ownCompany(ctx, employerID)
	if err != nil {
		return nil, err
	}
	if input.CompanyID != nil && strings.TrimSpace(*input.CompanyID) != "" && common.UUID(strings.TrimSpace(*input.CompanyID)) != owned.ID {
		return nil, common.NewError(common.CodeForbidden, "company belongs to another employer", nil)
	}
	j := job.Job{
		CompanyID:       owned.ID,
		ExperienceLevel: job.LevelMid,
		EmploymentType:  job.DefaultEmploymentType,
		Status:          job.StatusActive,
	}
	input.apply(&j)
	if j.EmploymentType == "" {
		j.EmploymentType = job.DefaultEmploymentType
	}
	if err := validateJob(j); err != nil {
		return nil, err
	}
	created, err := s.jobs.Create(ctx, j)
	if err != nil {
		return nil, err
	}
	s.logger.Info("job created", "job_id", created.ID.String(), "company_id", owned.ID.String())
	return created, nil
}

func (s *JobService) Update(ctx context.Context, employerID, jobID common.UUID, input JobInput) (*job.Job, error) {
	current, err := s.ownedJob(ctx, employerID, jobID)
	if err != nil {
		return nil, err
	}
	input.apply(current)
	if err := validateJob(*current); err != nil {
		return nil, err
	}
	return s.jobs.Update(ctx, *current)
}

func (s *JobService) ownCompany(ctx context.Context, employerID common.UUID) (*company.Company, error) {
	owned, err := s.companies.GetByEmployer(ctx, employerID)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeNotFound, "Company not found", err)
		}
		return nil, err
	}
	return owned, nil
}

// ownedJob loads a job and checks that it belongs to the employer's company.
func (s *JobService) ownedJob(ctx context.Context, employerID, jobID common.UUID) (*job.Job, error) {
	current, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	owned, err := s.companies.GetByEmployer(ctx, employerID)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeForbidden, "job belongs to another company", nil)
		}
		return nil, err
	}
	if current.CompanyID != owned.ID {
		return nil, common.NewError(common.CodeForbidden, "job belongs to another company", nil)
	}
	return current, nil
}
