package job

import (
	"time"

	"jobconnect/internal/common"
	"jobconnect/internal/domain/company"
)

type Status string

const (
	StatusActive Status = "Active"
	StatusClosed Status = "Closed"
	StatusDraft  Status = "Draft"
)

type ExperienceLevel string

const (
	LevelEntry     ExperienceLevel = "Entry"
	LevelMid       ExperienceLevel = "Mid"
	LevelSenior    ExperienceLevel = "Senior"
	LevelLead      ExperienceLevel = "Lead"
	LevelExecutive ExperienceLevel = "Executive"
)

const DefaultEmploymentType = "Full-time"

type Job struct {
	ID               common.UUID      `json:"id"`
	CompanyID        common.UUID      `json:"companyId"`
	Company          *company.Company `json:"company,omitempty"`
	Title            string           `json:"title"`
	Location         string           `json:"location,omitempty"`
	WorkType         string           `json:"workType"`
	ExperienceLevel  ExperienceLevel  `json:"experienceLevel"`
	EmploymentType   string           `json:"employmentType"`
	SalaryMin        *int             `json:"salaryMin,omitempty"`
	SalaryMax        *int             `json:"salaryMax,omitempty"`
	Equity           string           `json:"equity,omitempty"`
	Description      string           `json:"description,omitempty"`
	Requirements     []string         `json:"requirements"`
	Responsibilities []string         `json:"responsibilities"`
	NiceToHave       []string         `json:"niceToHave"`
	TechStack        []string         `json:"techStack"`
	Status           Status           `json:"status"`
	PostedAt         time.Time        `json:"postedAt"`
	Views            int64            `json:"views"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

func ParseStatus(value string) (Status, bool) {
	switch Status(value) {
	case StatusActive, StatusClosed, StatusDraft:
		return Status(value), true
	default:
		return "", false
	}
}

func ParseExperienceLevel(value string) (ExperienceLevel, bool) {
	switch ExperienceLevel(value) {
	case LevelEntry, LevelMid, LevelSenior, LevelLead, LevelExecutive:
		return ExperienceLevel(value), true
	default:
		return "", false
	}
}
