package user

import (
	"time"

	"jobconnect/internal/common"
)

type Role string

const (
	RoleJobSeeker Role = "job_seeker"
	RoleEmployer  Role = "employer"
	RoleAdmin     Role = "admin"
)

// Identity is the role-tagged view shared by every principal kind. It never
// carries credentials.
type Identity struct {
	ID    common.UUID `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  Role        `json:"role"`
}

type User struct {
	ID             common.UUID `json:"id"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	PasswordHash   string      `json:"-"`
	SocialProvider string      `json:"socialProvider,omitempty"`
	SocialID       string      `json:"socialId,omitempty"`
	Role           Role        `json:"role"`
	Profile        Profile     `json:"profile"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

func (u User) Identity() Identity {
	return Identity{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func (u User) HasPassword() bool {
	return u.PasswordHash != ""
}

const (
	DefaultAvailability      = "Open to opportunities"
	DefaultProfileVisibility = "Public"
)

type Profile struct {
	Title             string       `json:"title,omitempty"`
	Phone             string       `json:"phone,omitempty"`
	Location          string       `json:"location,omitempty"`
	Summary           string       `json:"summary,omitempty"`
	Bio               string       `json:"bio,omitempty"`
	NoticePeriod      string       `json:"noticePeriod,omitempty"`
	OpenToRemote      *bool        `json:"openToRemote,omitempty"`
	OpenToRelocation  *bool        `json:"openToRelocation,omitempty"`
	Skills            []Skill      `json:"skills"`
	Experience        []Experience `json:"experience"`
	Education         []Education  `json:"education"`
	Projects          []Project    `json:"projects"`
	ResumeURL         string       `json:"resumeUrl,omitempty"`
	PortfolioURL      string       `json:"portfolioUrl,omitempty"`
	LinkedInURL       string       `json:"linkedInUrl,omitempty"`
	GithubURL         string       `json:"githubUrl,omitempty"`
	Preferences       Preferences  `json:"preferences"`
	Availability      string       `json:"availability,omitempty"`
	ProfileVisibility string       `json:"profileVisibility,omitempty"`
}

// NewProfile returns a profile with defaults applied and non-nil lists.
func NewProfile() Profile {
	return Profile{
		Skills:            []Skill{},
		Experience:        []Experience{},
		Education:         []Education{},
		Projects:          []Project{},
		Preferences:       Preferences{DesiredRoles: []string{}, WorkTypes: []string{}},
		Availability:      DefaultAvailability,
		ProfileVisibility: DefaultProfileVisibility,
	}
}

type Skill struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency,omitempty"`
	Primary     bool   `json:"primary"`
}

type Experience struct {
	Title          string `json:"title"`
	Company        string `json:"company"`
	StartDate      string `json:"startDate,omitempty"`
	EndDate        string `json:"endDate,omitempty"`
	Description    string `json:"description,omitempty"`
	Current        bool   `json:"current"`
	EmploymentType string `json:"employmentType,omitempty"`
	Location       string `json:"location,omitempty"`
}

type Education struct {
	Degree      string `json:"degree"`
	Field       string `json:"field,omitempty"`
	Institution string `json:"institution"`
	StartYear   string `json:"startYear,omitempty"`
	EndYear     string `json:"endYear,omitempty"`
	Grade       string `json:"grade,omitempty"`
}

type Project struct {
	Title       string   `json:"title"`
	Role        string   `json:"role,omitempty"`
	Description string   `json:"description,omitempty"`
	TechStack   []string `json:"techStack"`
	GithubURL   string   `json:"githubUrl,omitempty"`
	ProjectURL  string   `json:"projectUrl,omitempty"`
}

type Preferences struct {
	DesiredRoles []string `json:"desiredRoles"`
	WorkTypes    []string `json:"workTypes"`
	SalaryMin    *int     `json:"salaryMin,omitempty"`
	SalaryMax    *int     `json:"salaryMax,omitempty"`
}
