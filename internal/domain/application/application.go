package application

import (
	"time"

	"jobconnect/internal/common"
	"jobconnect/internal/domain/job"
)

type Status string

const (
	StatusApplied     Status = "Applied"
	StatusViewed      Status = "Viewed"
	StatusShortlisted Status = "Shortlisted"
	StatusInterview   Status = "Interview"
	StatusOffer       Status = "Offer"
	StatusRejected    Status = "Rejected"
)

func ParseStatus(value string) (Status, bool) {
	switch Status(value) {
	case StatusApplied, StatusViewed, StatusShortlisted, StatusInterview, StatusOffer, StatusRejected:
		return Status(value), true
	default:
		return "", false
	}
}

type Application struct {
	ID          common.UUID `json:"id"`
	JobID       common.UUID `json:"jobId"`
	ApplicantID common.UUID `json:"applicantId"`
	Job         *job.Job    `json:"job,omitempty"`
	Status      Status      `json:"status"`
	CoverLetter string      `json:"coverLetter,omitempty"`
	ResumeURL   string      `json:"resumeUrl,omitempty"`
	AppliedAt   time.Time   `json:"appliedAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}
