package sqlite

import (
	"time"

	"gorm.io/datatypes"

	"jobconnect/internal/common"
	"jobconnect/internal/domain/application"
	"jobconnect/internal/domain/company"
	"jobconnect/internal/domain/employer"
	"jobconnect/internal/domain/job"
	"jobconnect/internal/domain/user"
)

type userRecord struct {
	ID             string `gorm:"primaryKey;size:36"`
	Name           string
	Email          string `gorm:"uniqueIndex"`
	PasswordHash   string
	SocialProvider string
	SocialID       string
	Role           string `gorm:"index"`
	Profile        datatypes.JSONType[user.Profile]
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (userRecord) TableName() string { return "users" }

func newUserRecord(u user.User) userRecord {
	return userRecord{
		ID:             u.ID.String(),
		Name:           u.Name,
		Email:          u.Email,
		PasswordHash:   u.PasswordHash,
		SocialProvider: u.SocialProvider,
		SocialID:       u.SocialID,
		Role:           string(u.Role),
		Profile:        datatypes.NewJSONType(u.Profile),
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (r userRecord) toDomain() user.User {
	return user.User{
		ID:             common.UUID(r.ID),
		Name:           r.Name,
		Email:          r.Email,
		PasswordHash:   r.PasswordHash,
		SocialProvider: r.SocialProvider,
		SocialID:       r.SocialID,
		Role:           user.Role(r.Role),
		Profile:        withProfileDefaults(r.Profile.Data()),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func withProfileDefaults(p user.Profile) user.Profile {
	if p.Skills == nil {
		p.Skills = []user.Skill{}
	}
	if p.Experience == nil {
		p.Experience = []user.Experience{}
	}
	if p.Education == nil {
		p.Education = []user.Education{}
	}
	if p.Projects == nil {
		p.Projects = []user.Project{}
	}
	if p.Preferences.DesiredRoles == nil {
		p.Preferences.DesiredRoles = []string{}
	}
	if p.Preferences.WorkTypes == nil {
		p.Preferences.WorkTypes = []string{}
	}
	return p
}

type employerRecord struct {
	ID            string `gorm:"primaryKey;size:36"`
	FirstName     string
	LastName      string
	Email         string `gorm:"uniqueIndex"`
	PasswordHash  string
	Phone         string
	State         string
	City          string
	Address       string
	CompanyName   string
	IsVerified    bool
	IsActive      bool
	TermsAccepted bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (employerRecord) TableName() string { return "employers" }

func newEmployerRecord(e employer.Employer) employerRecord {
	return employerRecord{
		ID:            e.ID.String(),
		FirstName:     e.FirstName,
		LastName:      e.LastName,
		Email:         e.Email,
		PasswordHash:  e.PasswordHash,
		Phone:         e.Phone,
		State:         e.State,
		City:          e.City,
		Address:       e.Address,
		CompanyName:   e.CompanyName,
		IsVerified:    e.IsVerified,
		IsActive:      e.IsActive,
		TermsAccepted: e.TermsAccepted,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func (r employerRecord) toDomain() employer.Employer {
	return employer.Employer{
		ID:            common.UUID(r.ID),
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Email:         r.Email,
		PasswordHash:  r.PasswordHash,
		Phone:         r.Phone,
		State:         r.State,
		City:          r.City,
		Address:       r.Address,
		CompanyName:   r.CompanyName,
		IsVerified:    r.IsVerified,
		IsActive:      r.IsActive,
		TermsAccepted: r.TermsAccepted,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

type companyRecord struct {
	ID           string `gorm:"primaryKey;size:36"`
	EmployerID   string `gorm:"uniqueIndex;size:36"`
	Name         string
	Tagline      string
	Description  string
	Industry     string
	Founded      int
	TeamSize     string
	Website      string
	Location     string
	RemotePolicy string
	TechStack    datatypes.JSONType[map[string][]string]
	Values       datatypes.JSONSlice[company.Value] `gorm:"column:company_values"`
	Benefits     datatypes.JSONType[map[string][]string]
	Verified     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (companyRecord) TableName() string { return "companies" }

func newCompanyRecord(c company.Company) companyRecord {
	c.Normalize()
	return companyRecord{
		ID:           c.ID.String(),
		EmployerID:   c.EmployerID.String(),
		Name:         c.Name,
		Tagline:      c.Tagline,
		Description:  c.Description,
		Industry:     c.Industry,
		Founded:      c.Founded,
		TeamSize:     c.TeamSize,
		Website:      c.Website,
		Location:     c.Location,
		RemotePolicy: string(c.RemotePolicy),
		TechStack:    datatypes.NewJSONType(c.TechStack),
		Values:       datatypes.NewJSONSlice(c.Values),
		Benefits:     datatypes.NewJSONType(c.Benefits),
		Verified:     c.Verified,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func (r companyRecord) toDomain() company.Company {
	c := company.Company{
		ID:           common.UUID(r.ID),
		EmployerID:   common.UUID(r.EmployerID),
		Name:         r.Name,
		Tagline:      r.Tagline,
		Description:  r.Description,
		Industry:     r.Industry,
		Founded:      r.Founded,
		TeamSize:     r.TeamSize,
		Website:      r.Website,
		Location:     r.Location,
		RemotePolicy: company.RemotePolicy(r.RemotePolicy),
		TechStack:    r.TechStack.Data(),
		Values:       []company.Value(r.Values),
		Benefits:     r.Benefits.Data(),
		Verified:     r.Verified,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	c.Normalize()
	return c
}

type jobRecord struct {
	ID               string         `gorm:"primaryKey;size:36"`
	CompanyID        string         `gorm:"index;size:36"`
	Company          *companyRecord `gorm:"foreignKey:CompanyID"`
	Title            string
	Location         string
	WorkType         string
	ExperienceLevel  string
	EmploymentType   string
	SalaryMin        *int
	SalaryMax        *int
	Equity           string
	Description      string
	Requirements     datatypes.JSONSlice[string]
	Responsibilities datatypes.JSONSlice[string]
	NiceToHave       datatypes.JSONSlice[string]
	TechStack        datatypes.JSONSlice[string]
	Status           string `gorm:"index"`
	Views            int64
	PostedAt         time.Time `gorm:"index"`
	UpdatedAt        time.Time
}

func (jobRecord) TableName() string { return "jobs" }

func newJobRecord(j job.Job) jobRecord {
	return jobRecord{
		ID:               j.ID.String(),
		CompanyID:        j.CompanyID.String(),
		Title:            j.Title,
		Location:         j.Location,
		WorkType:         j.WorkType,
		ExperienceLevel:  string(j.ExperienceLevel),
		EmploymentType:   j.EmploymentType,
		SalaryMin:        j.SalaryMin,
		SalaryMax:        j.SalaryMax,
		Equity:           j.Equity,
		Description:      j.Description,
		Requirements:     datatypes.NewJSONSlice(orEmpty(j.Requirements)),
		Responsibilities: datatypes.NewJSONSlice(orEmpty(j.Responsibilities)),
		NiceToHave:       datatypes.NewJSONSlice(orEmpty(j.NiceToHave)),
		TechStack:        datatypes.NewJSONSlice(orEmpty(j.TechStack)),
		Status:           string(j.Status),
		Views:            j.Views,
		PostedAt:         j.PostedAt,
		UpdatedAt:        j.UpdatedAt,
	}
}

func (r jobRecord) toDomain() job.Job {
	j := job.Job{
		ID:               common.UUID(r.ID),
		CompanyID:        common.UUID(r.CompanyID),
		Title:            r.Title,
		Location:         r.Location,
		WorkType:         r.WorkType,
		ExperienceLevel:  job.ExperienceLevel(r.ExperienceLevel),
		EmploymentType:   r.EmploymentType,
		SalaryMin:        r.SalaryMin,
		SalaryMax:        r.SalaryMax,
		Equity:           r.Equity,
		Description:      r.Description,
		Requirements:     orEmpty(r.Requirements),
		Responsibilities: orEmpty(r.Responsibilities),
		NiceToHave:       orEmpty(r.NiceToHave),
		TechStack:        orEmpty(r.TechStack),
		Status:           job.Status(r.Status),
		Views:            r.Views,
		PostedAt:         r.PostedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	if r.Company != nil {
		c := r.Company.toDomain()
		j.Company = &c
	}
	return j
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

type applicationRecord struct {
	ID          string     `gorm:"primaryKey;size:36"`
	JobID       string     `gorm:"size:36;uniqueIndex:idx_applications_job_applicant"`
	Job         *jobRecord `gorm:"foreignKey:JobID"`
	ApplicantID string     `gorm:"size:36;uniqueIndex:idx_applications_job_applicant;index"`
	Status      string
	CoverLetter string
	ResumeURL   string
	AppliedAt   time.Time
	UpdatedAt   time.Time
}

func (applicationRecord) TableName() string { return "applications" }

func newApplicationRecord(a application.Application) applicationRecord {
	return applicationRecord{
		ID:          a.ID.String(),
		JobID:       a.JobID.String(),
		ApplicantID: a.ApplicantID.String(),
		Status:      string(a.Status),
		CoverLetter: a.CoverLetter,
		ResumeURL:   a.ResumeURL,
		AppliedAt:   a.AppliedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func (r applicationRecord) toDomain() application.Application {
	a := application.Application{
		ID:          common.UUID(r.ID),
		JobID:       common.UUID(r.JobID),
		ApplicantID: common.UUID(r.ApplicantID),
		Status:      application.Status(r.Status),
		CoverLetter: r.CoverLetter,
		ResumeURL:   r.ResumeURL,
		AppliedAt:   r.AppliedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.Job != nil {
		j := r.Job.toDomain()
		a.Job = &j
	}
	return a
}
