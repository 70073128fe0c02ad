package app

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"jobconnect/internal/common"
	"jobconnect/internal/domain/user"
)

func TestRegisterJobSeekerIssuesMatchingToken(t *testing.T) {
	env := newTestEnv(t)
	result, err := env.auth.RegisterJobSeeker(context.Background(), RegisterJobSeekerInput{Username: "alice", Email: "Alice@Example.com ", Password: "password123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	claims, err := env.jwt.Parse(result.Session.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID() != result.Account.JobSeeker.ID || claims.Role != string(user.RoleJobSeeker) {
		t.Fatalf("claims %+v do not match account %+v", claims, result.Account.JobSeeker)
	}
	if result.Account.JobSeeker.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", result.Account.JobSeeker.Email)
	}
	encoded, _ := json.Marshal(result.Account.JobSeeker)
	if strings.Contains(string(encoded), "$2a$") || strings.Contains(string(encoded), "password") {
		t.Fatalf("user view leaks credentials: %s", encoded)
	}
	if result.Account.JobSeeker.Profile.Availability != user.DefaultAvailability {
		t.Fatalf("expected profile defaults")
	}
}

func TestRegisterJobSeekerValidation(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.auth.RegisterJobSeeker(context.Background(), RegisterJobSeekerInput{Name: "ab", Email: "not-an-email", Password: "short"})
	appErr, ok := common.As(err)
	if !ok || appErr.Code != common.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"username", "email", "password"} {
		if _, ok := appErr.Fields[field]; !ok {
			t.Fatalf("expected field error for %s, got %v", field, appErr.Fields)
		}
	}
	if env.users.count() != 0 {
		t.Fatalf("no user should be stored")
	}
}

func TestPaddedEmailIsAcceptedOnEveryRegistrationPath(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	boss, err := env.auth.RegisterEmployer(ctx, RegisterEmployerInput{
		FirstName: "Ada", LastName: "Lovelace", Email: " Ada@Example.com ", Password: "password123",
		Phone: "5551234567", State: "s", City: "c", Address: "a", TermsAccepted: true,
	})
	if err != nil || boss.Account.Employer.Email != "ada@example.com" {
		t.Fatalf("employer register: %+v %v", boss, err)
	}
	signed, err := env.auth.Signup(ctx, SignupInput{Name: "Plain User", Email: "\tPlain@Example.com ", Password: "password123"})
	if err != nil || signed.Account.JobSeeker.Email != "plain@example.com" {
		t.Fatalf("signup: %+v %v", signed, err)
	}
	social, err := env.auth.SocialLogin(ctx, SocialLoginInput{Provider: "google", Email: "Octo@Example.com "})
	if err != nil || social.Account.JobSeeker.Email != "octo@example.com" {
		t.Fatalf("social login: %+v %v", social, err)
	}
}

func TestRegisterRejectsPasswordsBcryptCannotHash(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for _, password := range []string{
		strings.Repeat("a", 80),
		strings.Repeat("é", 40),
	} {
		_, err := env.auth.RegisterJobSeeker(ctx, RegisterJobSeekerInput{Username: "alice", Email: "alice@example.com", Password: password})
		appErr, ok := common.As(err)
		if !ok || appErr.Code != common.CodeValidation {
			t.Fatalf("expected validation error for %d-byte password, got %v", len(password), err)
		}
		if _, ok := appErr.Fields["password"]; !ok {
			t.Fatalf("expected password field error, got %v", appErr.Fields)
		}
	}
	_, err := env.auth.RegisterEmployer(ctx, RegisterEmployerInput{
		FirstName: "A", LastName: "B", Email: "boss@example.com", Password: strings.Repeat("b", 73),
		Phone: "5551234567", State: "s", City: "c", Address: "a", TermsAccepted: true,
	})
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error for employer, got %v", err)
	}
	if env.users.count() != 0 {
		t.Fatalf("no user should be stored")
	}
	if _, err := env.auth.RegisterJobSeeker(ctx, RegisterJobSeekerInput{Username: "alice", Email: "alice@example.com", Password: strings.Repeat("a", 72)}); err != nil {
		t.Fatalf("72-byte password should be accepted: %v", err)
	}
}

func TestDuplicateEmailAcrossPrincipalKinds(t *testing.T) {
	env := newTestEnv(t)
	env.registerSeeker(t, "taken@example.com")

	_, err := env.auth.RegisterJobSeeker(context.Background(), RegisterJobSeekerInput{Username: "other", Email: "taken@example.com", Password: "password123"})
	if !common.Is(err, common.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	_, err = env.auth.RegisterEmployer(context.Background(), RegisterEmployerInput{
		FirstName: "A", LastName: "B", Email: "TAKEN@example.com", Password: "password123",
		Phone: "5551234567", State: "s", City: "c", Address: "a", TermsAccepted: true,
	})
	if !common.Is(err, common.CodeConflict) {
		t.Fatalf("expected conflict for employer, got %v", err)
	}
	if env.users.count() != 1 {
		t.Fatalf("expected exactly one stored user")
	}
	if appErr, _ := common.As(err); appErr.Message != "Email already registered" {
		t.Fatalf("unexpected message %q", appErr.Message)
	}
}

func TestRegisterEmployerCreatesCompany(t *testing.T) {
	env := newTestEnv(t)
	result := env.registerEmployer(t, "grace@navy.mil", "Acme")
	e := result.Account.Employer
	if e == nil || e.Phone != "5551234567" || !e.IsActive || e.IsVerified {
		t.Fatalf("unexpected employer %+v", e)
	}
	c, err := env.companies.GetByEmployer(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("company lookup: %v", err)
	}
	if c.Name != "Acme" {
		t.Fatalf("expected company Acme, got %q", c.Name)
	}
	claims, _ := env.jwt.Parse(result.Session.Token)
	if claims.Role != string(user.RoleEmployer) {
		t.Fatalf("expected employer role, got %q", claims.Role)
	}

	other := env.registerEmployer(t, "solo@example.com", "")
	c, err = env.companies.GetByEmployer(context.Background(), other.Account.Employer.ID)
	if err != nil || c.Name != "Grace Hopper" {
		t.Fatalf("expected company named after employer, got %+v %v", c, err)
	}
}

func TestRegisterEmployerValidation(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.auth.RegisterEmployer(context.Background(), RegisterEmployerInput{
		FirstName: "A", LastName: "B", Email: "a@example.com", Password: "password123",
		Phone: "12345", State: "s", City: "c", Address: "a", TermsAccepted: false,
	})
	appErr, ok := common.As(err)
	if !ok || appErr.Code != common.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := appErr.Fields["phone"]; !ok {
		t.Fatalf("expected phone error, got %v", appErr.Fields)
	}
	if _, ok := appErr.Fields["termsAccepted"]; !ok {
		t.Fatalf("expected terms error, got %v", appErr.Fields)
	}
}

func TestRegisterEmployerFailsAtomically(t *testing.T) {
	env := newTestEnv(t)
	env.employers.failNext = common.NewError(common.CodeInternal, "failed to create company", errors.New("boom"))
	_, err := env.auth.RegisterEmployer(context.Background(), RegisterEmployerInput{
		FirstName: "A", LastName: "B", Email: "a@example.com", Password: "password123",
		Phone: "5551234567", State: "s", City: "c", Address: "a", TermsAccepted: true,
	})
	if !common.Is(err, common.CodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if _, err := env.employers.FindByEmail(context.Background(), "a@example.com"); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("employer must not exist after failed registration")
	}
}

func TestSignupRoutesByRole(t *testing.T) {
	env := newTestEnv(t)
	seeker, err := env.auth.Signup(context.Background(), SignupInput{Name: "Plain User", Email: "plain@example.com", Password: "password123"})
	if err != nil || seeker.Account.JobSeeker == nil {
		t.Fatalf("expected job seeker signup, got %+v %v", seeker, err)
	}
	boss, err := env.auth.Signup(context.Background(), SignupInput{Name: "Linus Torvalds Jr", Email: "boss@example.com", Password: "password123", Role: "employer", CompanyName: "Kernel"})
	if err != nil || boss.Account.Employer == nil {
		t.Fatalf("expected employer signup, got %+v %v", boss, err)
	}
	if boss.Account.Employer.FirstName != "Linus" || boss.Account.Employer.LastName != "Torvalds Jr" {
		t.Fatalf("unexpected name split %+v", boss.Account.Employer)
	}
	c, err := env.companies.GetByEmployer(context.Background(), boss.Account.Employer.ID)
	if err != nil || c.Name != "Kernel" {
		t.Fatalf("expected company Kernel, got %+v %v", c, err)
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	seeker := env.registerSeeker(t, "seeker@example.com")
	boss := env.registerEmployer(t, "boss@example.com", "Acme")
	ctx := context.Background()

	result, err := env.auth.Login(ctx, LoginInput{Email: "SEEKER@example.com", Password: "password123"})
	if err != nil || result.Account.JobSeeker.ID != seeker.Account.JobSeeker.ID {
		t.Fatalf("seeker login failed: %v", err)
	}
	result, err = env.auth.Login(ctx, LoginInput{Email: "boss@example.com", Password: "password123"})
	if err != nil || result.Account.Employer.ID != boss.Account.Employer.ID {
		t.Fatalf("employer login failed: %v", err)
	}

	for _, input := range []LoginInput{
		{Email: "seeker@example.com", Password: "wrong-password"},
		{Email: "nobody@example.com", Password: "password123"},
		{Email: "boss@example.com", Password: "wrong-password"},
	} {
		_, err := env.auth.Login(ctx, input)
		appErr, ok := common.As(err)
		if !ok || appErr.Code != common.CodeUnauthorized || appErr.Message != "Invalid credentials" {
			t.Fatalf("expected generic invalid credentials for %s, got %v", input.Email, err)
		}
	}

	env.employers.setActive(boss.Account.Employer.ID, false)
	_, err = env.auth.Login(ctx, LoginInput{Email: "boss@example.com", Password: "password123"})
	appErr, ok := common.As(err)
	if !ok || appErr.Code != common.CodeUnauthorized || appErr.Message != "Account is deactivated" {
		t.Fatalf("expected deactivated error, got %v", err)
	}
}

func TestSocialLoginCreatesThenReuses(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	first, err := env.auth.SocialLogin(ctx, SocialLoginInput{Provider: "github", Email: "octo@example.com", Name: "Octo Cat"})
	if err != nil {
		t.Fatalf("social login: %v", err)
	}
	account := first.Account.JobSeeker
	if account.SocialProvider != "github" || !strings.HasPrefix(account.SocialID, "mock-github-") || account.HasPassword() {
		t.Fatalf("unexpected social account %+v", account)
	}
	second, err := env.auth.SocialLogin(ctx, SocialLoginInput{Provider: "github", Email: "octo@example.com"})
	if err != nil || second.Account.JobSeeker.ID != account.ID {
		t.Fatalf("expected same account, got %v", err)
	}

	if _, err := env.auth.Login(ctx, LoginInput{Email: "octo@example.com", Password: "anything1"}); !common.Is(err, common.CodeUnauthorized) {
		t.Fatalf("password login must fail for social accounts, got %v", err)
	}
	if _, err := env.auth.SocialLogin(ctx, SocialLoginInput{Provider: "myspace", Email: "x@example.com"}); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected provider validation error, got %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newTestEnv(t)
	result := env.registerSeeker(t, "seeker@example.com")
	claims, err := env.jwt.Parse(result.Session.Token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := env.auth.Logout(context.Background(), claims.TokenID(), claims.ExpiresAtTime()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	revoked, err := env.revoked.IsRevoked(context.Background(), claims.TokenID())
	if err != nil || !revoked {
		t.Fatalf("expected token revoked, got %v %v", revoked, err)
	}
	if !result.Session.ExpiresAt.After(time.Now()) {
		t.Fatalf("session expiry should be in the future")
	}
}

func TestMeLoadsFreshAccount(t *testing.T) {
	env := newTestEnv(t)
	result := env.registerSeeker(t, "seeker@example.com")
	me, err := env.auth.Me(context.Background(), result.Session.User)
	if err != nil || me.JobSeeker.Email != "seeker@example.com" {
		t.Fatalf("me: %+v %v", me, err)
	}
	if err := env.users.Delete(context.Background(), result.Account.JobSeeker.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := env.auth.Me(context.Background(), result.Session.User); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
