package app

import (
	"context"
	"strings"

	"jobconnect/internal/common"
	"jobconnect/internal/domain/application"
	"jobconnect/internal/domain/job"
	"jobconnect/internal/domain/user"
)

type ApplicationService struct {
	applications application.Repository
	jobs         *JobService
	users        user.Repository
	logger       Logger
}

func NewApplicationService(applications application.Repository, jobs *JobService, users user.Repository, logger Logger) *ApplicationService {
	return &ApplicationService{applications: applications, jobs: jobs, users: users, logger: logger}
}

type ApplyInput struct {
	JobID       string `json:"jobId" validate:"required"`
	CoverLetter string `json:"coverLetter"`
	ResumeURL   string `json:"resumeUrl"`
}

func (s *ApplicationService) Apply(ctx context.Context, applicantID common.UUID, input ApplyInput) (*application.Application, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	jobID, err := common.ParseUUID(input.JobID)
	if err != nil {
		return nil, common.NewValidationError("Validation failed", map[string]string{"jobId": "must be a valid id"})
	}
	target, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if target.Status != job.StatusActive {
		return nil, common.NewValidationError("This job is no longer accepting applications", map[string]string{"jobId": "job is not active"})
	}
	if _, err := s.applications.FindByJobAndApplicant(ctx, jobID, applicantID); err == nil {
		return nil, alreadyApplied()
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}

	resumeURL := strings.TrimSpace(input.ResumeURL)
	if resumeURL == "" {
		applicant, err := s.users.GetByID(ctx, applicantID)
		if err != nil {
			return nil, err
		}
		resumeURL = applicant.Profile.ResumeURL
	}
	created, err := s.applications.Create(ctx, application.Application{
		JobID:       jobID,
		ApplicantID: applicantID,
		Status:      application.StatusApplied,
		CoverLetter: strings.TrimSpace(input.CoverLetter),
		ResumeURL:   resumeURL,
	})
	if err != nil {
		if common.Is(err, common.CodeConflict) {
			return nil, alreadyApplied()
		}
		return nil, err
	}
	s.logger.Info("application submitted", "application_id", created.ID.String(), "job_id", jobID.String())
	return created, nil
}

func (s *ApplicationService) ListForApplicant(ctx context.Context, applicantID common.UUID) ([]application.Application, error) {
	return s.applications.ListByApplicant(ctx, applicantID)
}

func (s *ApplicationService) ListForJob(ctx context.Context, employerID, jobID common.UUID) ([]application.Application, error) {
	if _, err := s.jobs.ownedJob(ctx, employerID, jobID); err != nil {
		return nil, err
	}
	return s.applications.ListByJob(ctx, jobID)
}

func (s *ApplicationService) UpdateStatus(ctx context.Context, employerID, applicationID common.UUID, status string) (*application.Application, error) {
	parsed, ok := application.ParseStatus(strings.TrimSpace(status))
	if !ok {
		return nil, common.NewValidationError("Validation failed", map[string]string{"status": "must be one of Applied, Viewed, Shortlisted, Interview, Offer, Rejected"})
	}
	current, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if _, err := s.jobs.ownedJob(ctx, employerID, current.JobID); err != nil {
		return nil, err
	}
	updated, err := s.applications.UpdateStatus(ctx, applicationID, parsed)
	if err != nil {
		return nil, err
	}
	s.logger.Info("application status updated", "application_id", applicationID.String(), "status", string(parsed))
	return updated, nil
}

func alreadyApplied() error {
	return common.NewError(common.CodeConflict, "You have already applied to this job", nil)
}
