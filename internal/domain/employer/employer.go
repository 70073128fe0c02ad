package employer

import (
	"strings"
	"time"

	"jobconnect/internal/common"
	"jobconnect/internal/domain/user"
)

type Employer struct {
	ID            common.UUID `json:"id"`
	FirstName     string      `json:"firstName"`
	LastName      string      `json:"lastName"`
	Email         string      `json:"companyEmail"`
	PasswordHash  string      `json:"-"`
	Phone         string      `json:"phone"`
	State         string      `json:"state"`
	City          string      `json:"city"`
	Address       string      `json:"address"`
	CompanyName   string      `json:"companyName,omitempty"`
	IsVerified    bool        `json:"isVerified"`
	IsActive      bool        `json:"isActive"`
	TermsAccepted bool        `json:"termsAccepted"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

func (e Employer) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

func (e Employer) Identity() user.Identity {
	return user.Identity{ID: e.ID, Name: e.FullName(), Email: e.Email, Role: user.RoleEmployer}
}
