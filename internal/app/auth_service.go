package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobconnect/internal/common"
	"jobconnect/internal/domain/auth"
	"jobconnect/internal/domain/company"
	"jobconnect/internal/domain/employer"
	"jobconnect/internal/domain/user"
	"jobconnect/internal/security"
)

type AuthService struct {
	users       user.Repository
	employers   employer.Repository
	revoked     auth.RevokedTokenRepository
	jwtProvider *security.JWTProvider
	logger      Logger
	tokenTTL    time.Duration
	now         func() time.Time
}

func NewAuthService(users user.Repository, employers employer.Repository, revoked auth.RevokedTokenRepository, jwtProvider *security.JWTProvider, logger Logger, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:       users,
		employers:   employers,
		revoked:     revoked,
		jwtProvider: jwtProvider,
		logger:      logger,
		tokenTTL:    tokenTTL,
		now:         time.Now,
	}
}

const (
	minNameLength     = 3
	minPasswordLength = 8
	phoneDigits       = 10
)

var socialProviders = map[string]bool{"google": true, "github": true, "linkedin": true}

type AuthResult struct {
	Session auth.Session
	Account Account
}

type RegisterJobSeekerInput struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type RegisterEmployerInput struct {
	FirstName     string `json:"firstName" validate:"required"`
	LastName      string `json:"lastName" validate:"required"`
	Email         string `json:"companyEmail" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8,max=72"`
	Phone         string `json:"phone" validate:"required"`
	State         string `json:"state" validate:"required"`
	City          string `json:"city" validate:"required"`
	Address       string `json:"address" validate:"required"`
	CompanyName   string `json:"companyName"`
	TermsAccepted bool   `json:"termsAccepted" validate:"eq=true"`
}

type SignupInput struct {
	Name        string `json:"name" validate:"required,min=3"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	Role        string `json:"role"`
	CompanyName string `json:"companyName"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SocialLoginInput struct {
	Provider string `json:"provider" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name"`
}

func (s *AuthService) RegisterJobSeeker(ctx context.Context, input RegisterJobSeekerInput) (*AuthResult, error) {
	name := strings.TrimSpace(input.Username)
	if name == "" {
		name = strings.TrimSpace(input.Name)
	}
	input.Email = normalizeEmail(input.Email)
	err := validateInput(input)
	if len([]rune(name)) < minNameLength {
		err = withField(err, "username", "must be at least 3 characters")
	}
	if err != nil {
		return nil, err
	}
	return s.createJobSeeker(ctx, name, input.Email, input.Password)
}

func (s *AuthService) RegisterEmployer(ctx context.Context, input RegisterEmployerInput) (*AuthResult, error) {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Email = normalizeEmail(input.Email)
	err := validateInput(input)
	phone := digitsOnly(input.Phone)
	if input.Phone != "" && len(phone) != phoneDigits {
		err = withField(err, "phone", "must contain 10 digits")
	}
	if err != nil {
		return nil, err
	}
	e := employer.Employer{
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Email:         input.Email,
		Phone:         phone,
		State:         strings.TrimSpace(input.State),
		City:          strings.TrimSpace(input.City),
		Address:       strings.TrimSpace(input.Address),
		CompanyName:   strings.TrimSpace(input.CompanyName),
		TermsAccepted: true,
	}
	return s.createEmployer(ctx, e, input.Password)
}

// Signup is the single-form registration: role=employer creates an employer, anything else a job seeker.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if user.Role(input.Role) != user.RoleEmployer {
		return s.createJobSeeker(ctx, input.Name, input.Email, input.Password)
	}
	first, last, _ := strings.Cut(input.Name, " ")
	e := employer.Employer{
		FirstName:     first,
		LastName:      strings.TrimSpace(last),
		Email:         input.Email,
		CompanyName:   strings.TrimSpace(input.CompanyName),
		TermsAccepted: true,
	}
	return s.createEmployer(ctx, e, input.Password)
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	email := normalizeEmail(input.Email)

	account, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if !s.passwordMatches(account.PasswordHash, input.Password) {
			return nil, invalidCredentials()
		}
		return s.issue(Account{JobSeeker: account})
	case !common.Is(err, common.CodeNotFound):
		return nil, err
	}

	e, err := s.employers.FindByEmail(ctx, email)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, invalidCredentials()
		}
		return nil, err
	}
	if !s.passwordMatches(e.PasswordHash, input.Password) {
		return nil, invalidCredentials()
	}
	if !e.IsActive {
		return nil, common.NewError(common.CodeUnauthorized, "Account is deactivated", nil)
	}
	return s.issue(Account{Employer: e})
}

// SocialLogin trusts the provider payload as-is; no token exchange with the provider happens.
func (s *AuthService) SocialLogin(ctx context.Context, input SocialLoginInput) (*AuthResult, error) {
	input.Email = normalizeEmail(input.Email)
	err := validateInput(input)
	provider := strings.ToLower(strings.TrimSpace(input.Provider))
	if input.Provider != "" && !socialProviders[provider] {
		err = withField(err, "provider", "must be one of google, github, linkedin")
	}
	if err != nil {
		return nil, err
	}
	email := input.Email
	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return s.issue(Account{JobSeeker: existing})
	}
	if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}
	if err := s.ensureEmailAvailable(ctx, email); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	created, err := s.users.Create(ctx, user.User{
		Name:           name,
		Email:          email,
		SocialProvider: provider,
		SocialID:       fmt.Sprintf("mock-%s-%d", provider, s.now().UnixMilli()),
		Role:           user.RoleJobSeeker,
		Profile:        user.NewProfile(),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("social account created", "user_id", created.ID.String(), "provider", provider)
	return s.issue(Account{JobSeeker: created})
}

// Me loads the caller fresh from the store so deleted accounts stop resolving.
func (s *AuthService) Me(ctx context.Context, identity user.Identity) (*Account, error) {
	return loadAccount(ctx, s.users, s.employers, identity)
}

func (s *AuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if err := s.revoked.Revoke(ctx, tokenID, expiresAt); err != nil {
		return err
	}
	s.logger.Info("token revoked", "token_id", tokenID)
	return nil
}

func (s *AuthService) createJobSeeker(ctx context.Context, name, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if err := s.ensureEmailAvailable(ctx, email); err != nil {
		return nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	created, err := s.users.Create(ctx, user.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         user.RoleJobSeeker,
		Profile:      user.NewProfile(),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("job seeker registered", "user_id", created.ID.String())
	return s.issue(Account{JobSeeker: created})
}

func (s *AuthService) createEmployer(ctx context.Context, e employer.Employer, password string) (*AuthResult, error) {
	e.Email = normalizeEmail(e.Email)
	if err := s.ensureEmailAvailable(ctx, e.Email); err != nil {
		return nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	e.PasswordHash = hash
	e.IsActive = true
	companyName := e.CompanyName
	if companyName == "" {
		companyName = e.FullName()
	}
	created, c, err := s.employers.CreateWithCompany(ctx, e, company.Company{Name: companyName})
	if err != nil {
		return nil, err
	}
	s.logger.Info("employer registered", "employer_id", created.ID.String(), "company_id", c.ID.String())
	return s.issue(Account{Employer: created})
}

// ensureEmailAvailable checks both principal tables; unique indexes back it for concurrent races.
func (s *AuthService) ensureEmailAvailable(ctx context.Context, email string) error {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return emailTaken()
	} else if !common.Is(err, common.CodeNotFound) {
		return err
	}
	if _, err := s.employers.FindByEmail(ctx, email); err == nil {
		return emailTaken()
	} else if !common.Is(err, common.CodeNotFound) {
		return err
	}
	return nil
}

func (s *AuthService) passwordMatches(hash, password string) bool {
	ok, err := security.CheckPassword(hash, password)
	if err != nil {
		s.logger.Error("password check failed", "error", err)
		return false
	}
	return ok
}

func (s *AuthService) issue(account Account) (*AuthResult, error) {
	identity := account.Identity()
	token, expiresAt, err := s.jwtProvider.Generate(identity, s.tokenTTL)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to issue token", err)
	}
	return &AuthResult{
		Session: auth.Session{Token: token, ExpiresAt: expiresAt, User: identity},
		Account: account,
	}, nil
}

func hashPassword(password string) (string, error) {
	hash, err := security.HashPassword(password)
	if errors.Is(err, security.ErrPasswordTooLong) {
		return "", common.NewValidationError("Validation failed", map[string]string{"password": "is too long"})
	}
	if err != nil {
		return "", common.NewError(common.CodeInternal, "failed to hash password", err)
	}
	return hash, nil
}

func invalidCredentials() error {
	return common.NewError(common.CodeUnauthorized, "Invalid credentials", nil)
}

func emailTaken() error {
	return common.NewError(common.CodeConflict, "Email already registered", nil)
}

// withField adds a field failure to an existing validation error or starts a new one.
func withField(err error, field, message string) error {
	if appErr, ok := common.As(err); ok && appErr.Code == common.CodeValidation {
		if appErr.Fields == nil {
			appErr.Fields = map[string]string{}
		}
		appErr.Fields[field] = message
		return appErr
	}
	if err != nil {
		return err
	}
	return common.NewValidationError("Validation failed", map[string]string{field: message})
}
