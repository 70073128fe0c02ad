package app

import (
	"context"
	"strings"

	"jobconnect/internal/common"
	"jobconnect/internal/domain/company"
)

type CompanyService struct {
	companies company.Repository
	logger    Logger
}

func NewCompanyService(companies company.Repository, logger Logger) *CompanyService {
	return &CompanyService{companies: companies, logger: logger}
}

// CompanyInput carries optional fields; nil leaves the stored value untouched on update.
type CompanyInput struct {
	Name         *string             `json:"name"`
	Tagline      *string             `json:"tagline"`
	Description  *string             `json:"description"`
	Industry     *string             `json:"industry"`
	Founded      *int                `json:"founded"`
	TeamSize     *string             `json:"teamSize"`
	Website      *string             `json:"website"`
	Location     *string             `json:"location"`
	RemotePolicy *string             `json:"remotePolicy"`
	TechStack    map[string][]string `json:"techStack"`
	Values       []company.Value     `json:"values"`
	Benefits     map[string][]string `json:"benefits"`
}

func (in CompanyInput) apply(c *company.Company) {
	setString(&c.Name, in.Name)
	setString(&c.Tagline, in.Tagline)
	setString(&c.Description, in.Description)
	setString(&c.Industry, in.Industry)
	setString(&c.TeamSize, in.TeamSize)
	setString(&c.Website, in.Website)
	setString(&c.Location, in.Location)
	if in.Founded != nil {
		c.Founded = *in.Founded
	}
	if in.RemotePolicy != nil {
		c.RemotePolicy = company.RemotePolicy(strings.TrimSpace(*in.RemotePolicy))
	}
	if in.TechStack != nil {
		c.TechStack = in.TechStack
	}
	if in.Values != nil {
		c.Values = in.Values
	}
	if in.Benefits != nil {
		c.Benefits = in.Benefits
	}
}

func setString(dst *string, value *string) {
	if value != nil {
		*dst = strings.TrimSpace(*value)
	}
}

func validateCompany(c company.Company) error {
	fields := map[string]string{}
	if c.Name == "" {
		fields["name"] = "is required"
	}
	if c.RemotePolicy != "" && !c.RemotePolicy.Valid() {
		fields["remotePolicy"] = "must be one of Remote-first, Hybrid, Onsite, Flexible"
	}
	if len(fields) > 0 {
		return common.NewValidationError("Validation failed", fields)
	}
	return nil
}

func (s *CompanyService) List(ctx context.Context) ([]company.Company, error) {
	return s.companies.List(ctx)
}

func (s *CompanyService) Get(ctx context.Context, id common.UUID) (*company.Company, error) {
	return s.companies.GetByID(ctx, id)
}

func (s *CompanyService) GetForEmployer(ctx context.Context, employerID common.UUID) (*company.Company, error) {
	return s.companies.GetByEmployer(ctx, employerID)
}

func (s *CompanyService) Create(ctx context.Context, employerID common.UUID, input CompanyInput) (*company.Company, error) {
	if _, err := s.companies.GetByEmployer(ctx, employerID); err == nil {
		return nil, common.NewError(common.CodeConflict, "Company already exists", nil)
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}
	c := company.Company{EmployerID: employerID}
	input.apply(&c)
	if err := validateCompany(c); err != nil {
		return nil, err
	}
	created, err := s.companies.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	s.logger.Info("company created", "company_id", created.ID.String(), "employer_id", employerID.String())
	return created, nil
}

func (s *CompanyService) Update(ctx context.Context, employerID, companyID common.UUID, input CompanyInput) (*company.Company, error) {
	current, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if current.EmployerID != employerID {
		return nil, common.NewError(common.CodeForbidden, "company belongs to another employer", nil)
	}
	input.apply(current)
	if err := validateCompany(*current); err != nil {
		return nil, err
	}
	return s.companies.Update(ctx, *current)
}
