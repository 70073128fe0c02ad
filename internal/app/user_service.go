package app

import (
	"context"
	"encoding/json"
	"strings"

	"jobconnect/internal/common"
	"jobconnect/internal/domain/employer"
	"jobconnect/internal/domain/user"
)

type UserService struct {
	users     user.Repository
	employers employer.Repository
	logger    Logger
}

func NewUserService(users user.Repository, employers employer.Repository, logger Logger) *UserService {
	return &UserService{users: users, employers: employers, logger: logger}
}

// ProfilePatch is a raw JSON object from the client. Only allow-listed keys are applied.
type ProfilePatch map[string]json.RawMessage

type fieldSetter[T any] func(raw json.RawMessage, target *T) error

func stringField[T any](set func(*T, string)) fieldSetter[T] {
	return func(raw json.RawMessage, target *T) error {
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return err
		}
		set(target, strings.TrimSpace(value))
		return nil
	}
}

func jsonField[T, V any](set func(*T, V)) fieldSetter[T] {
	return func(raw json.RawMessage, target *T) error {
		var value V
		if err := json.Unmarshal(raw, &value); err != nil {
			return err
		}
		set(target, value)
		return nil
	}
}

var jobSeekerFields = map[string]fieldSetter[user.User]{
	"name":              stringField(func(u *user.User, v string) { u.Name = v }),
	"fullName":          stringField(func(u *user.User, v string) { u.Name = v }),
	"title":             stringField(func(u *user.User, v string) { u.Profile.Title = v }),
	"currentTitle":      stringField(func(u *user.User, v string) { u.Profile.Title = v }),
	"phone":             stringField(func(u *user.User, v string) { u.Profile.Phone = v }),
	"bio":               stringField(func(u *user.User, v string) { u.Profile.Bio = v }),
	"location":          stringField(func(u *user.User, v string) { u.Profile.Location = v }),
	"summary":           stringField(func(u *user.User, v string) { u.Profile.Summary = v }),
	"noticePeriod":      stringField(func(u *user.User, v string) { u.Profile.NoticePeriod = v }),
	"portfolioUrl":      stringField(func(u *user.User, v string) { u.Profile.PortfolioURL = v }),
	"linkedInUrl":       stringField(func(u *user.User, v string) { u.Profile.LinkedInURL = v }),
	"githubUrl":         stringField(func(u *user.User, v string) { u.Profile.GithubURL = v }),
	"resumeUrl":         stringField(func(u *user.User, v string) { u.Profile.ResumeURL = v }),
	"availability":      stringField(func(u *user.User, v string) { u.Profile.Availability = v }),
	"profileVisibility": stringField(func(u *user.User, v string) { u.Profile.ProfileVisibility = v }),
	"openToRemote":      jsonField(func(u *user.User, v *bool) { u.Profile.OpenToRemote = v }),
	"openToRelocation":  jsonField(func(u *user.User, v *bool) { u.Profile.OpenToRelocation = v }),
	"skills": jsonField(func(u *user.User, v []user.Skill) {
		if v == nil {
			v = []user.Skill{}
		}
		u.Profile.Skills = v
	}),
	"experience": jsonField(func(u *user.User, v []user.Experience) {
		if v == nil {
			v = []user.Experience{}
		}
		u.Profile.Experience = v
	}),
	"education": jsonField(func(u *user.User, v []user.Education) {
		if v == nil {
			v = []user.Education{}
		}
		u.Profile.Education = v
	}),
	"projects": jsonField(func(u *user.User, v []user.Project) {
		if v == nil {
			v = []user.Project{}
		}
		u.Profile.Projects = v
	}),
	"preferences": jsonField(func(u *user.User, v user.Preferences) {
		if v.DesiredRoles == nil {
			v.DesiredRoles = []string{}
		}
		if v.WorkTypes == nil {
			v.WorkTypes = []string{}
		}
		u.Profile.Preferences = v
	}),
}

var employerFields = map[string]fieldSetter[employer.Employer]{
	"firstName":   stringField(func(e *employer.Employer, v string) { e.FirstName = v }),
	"lastName":    stringField(func(e *employer.Employer, v string) { e.LastName = v }),
	"phone":       stringField(func(e *employer.Employer, v string) { e.Phone = digitsOnly(v) }),
	"state":       stringField(func(e *employer.Employer, v string) { e.State = v }),
	"city":        stringField(func(e *employer.Employer, v string) { e.City = v }),
	"address":     stringField(func(e *employer.Employer, v string) { e.Address = v }),
	"companyName": stringField(func(e *employer.Employer, v string) { e.CompanyName = v }),
}

// applyPatch copies allow-listed keys onto target. Keys outside the allow-list, such as
// password, email or role, are dropped.
func applyPatch[T any](patch ProfilePatch, fields map[string]fieldSetter[T], target *T) error {
	invalid := map[string]string{}
	for key, raw := range patch {
		set, ok := fields[key]
		if !ok {
			continue
		}
		if string(raw) == "null" {
			continue
		}
		if err := set(raw, target); err != nil {
			invalid[key] = "has an invalid type"
		}
	}
	if len(invalid) > 0 {
		return common.NewValidationError("Validation failed", invalid)
	}
	return nil
}

func (s *UserService) GetProfile(ctx context.Context, identity user.Identity) (*Account, error) {
	return s.load(ctx, identity)
}

func (s *UserService) UpdateProfile(ctx context.Context, identity user.Identity, patch ProfilePatch) (*Account, error) {
	current, err := s.load(ctx, identity)
	if err != nil {
		return nil, err
	}
	if current.Employer != nil {
		e := *current.Employer
		if err := applyPatch(patch, employerFields, &e); err != nil {
			return nil, err
		}
		if e.FirstName == "" || e.LastName == "" {
			return nil, common.NewValidationError("Validation failed", map[string]string{"name": "is required"})
		}
		if e.Phone != "" && len(e.Phone) != phoneDigits {
			return nil, common.NewValidationError("Validation failed", map[string]string{"phone": "must contain 10 digits"})
		}
		updated, err := s.employers.Update(ctx, e)
		if err != nil {
			return nil, err
		}
		return &Account{Employer: updated}, nil
	}

	account := *current.JobSeeker
	if err := applyPatch(patch, jobSeekerFields, &account); err != nil {
		return nil, err
	}
	if len([]rune(account.Name)) < minNameLength {
		return nil, common.NewValidationError("Validation failed", map[string]string{"fullName": "must be at least 3 characters"})
	}
	updated, err := s.users.Update(ctx, account)
	if err != nil {
		return nil, err
	}
	return &Account{JobSeeker: updated}, nil
}

func (s *UserService) DeleteAccount(ctx context.Context, identity user.Identity) error {
	var err error
	if identity.Role == user.RoleEmployer {
		err = s.employers.Delete(ctx, identity.ID)
	} else {
		err = s.users.Delete(ctx, identity.ID)
	}
	if err != nil {
		return err
	}
	s.logger.Info("account deleted", "user_id", identity.ID.String(), "role", string(identity.Role))
	return nil
}

// GetByID resolves a job seeker first, then an employer.
func (s *UserService) GetByID(ctx context.Context, id common.UUID) (*Account, error) {
	account, err := s.users.GetByID(ctx, id)
	if err == nil {
		return &Account{JobSeeker: account}, nil
	}
	if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}
	e, err := s.employers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Account{Employer: e}, nil
}

func (s *UserService) ListJobSeekers(ctx context.Context) ([]user.User, error) {
	return s.users.ListByRole(ctx, user.RoleJobSeeker)
}

func (s *UserService) ListEmployers(ctx context.Context) ([]employer.Employer, error) {
	return s.employers.List(ctx)
}

func (s *UserService) load(ctx context.Context, identity user.Identity) (*Account, error) {
	return loadAccount(ctx, s.users, s.employers, identity)
}

func loadAccount(ctx context.Context, users user.Repository, employers employer.Repository, identity user.Identity) (*Account, error) {
	if identity.Role == user.RoleEmployer {
		e, err := employers.GetByID(ctx, identity.ID)
		if err != nil {
			return nil, err
		}
		return &Account{Employer: e}, nil
	}
	account, err := users.GetByID(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	return &Account{JobSeeker: account}, nil
}
