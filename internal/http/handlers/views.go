package handlers

import (
	"encoding/json"
	"fmt"

	"jobconnect/internal/app"
	"jobconnect/internal/domain/user"
)

type userSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func summaryOf(identity user.Identity) userSummary {
	return userSummary{ID: identity.ID.String(), Username: identity.Name, Email: identity.Email, Role: string(identity.Role)}
}

// flattenJobSeeker lifts profile fields to the top level and adds the fullName and currentTitle aliases.
func flattenJobSeeker(u user.User) (map[string]any, error) {
	view := map[string]any{}
	if err := roundTrip(u, &view); err != nil {
		return nil, err
	}
	profile := map[string]any{}
	if err := roundTrip(u.Profile, &profile); err != nil {
		return nil, err
	}
	for key, value := range profile {
		view[key] = value
	}
	view["id"] = u.ID.String()
	view["fullName"] = u.Name
	view["currentTitle"] = u.Profile.Title
	return view, nil
}

func roundTrip(src any, dst any) error {
	raw, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("encode view: %w", err)
	}
	return json.Unmarshal(raw, dst)
}

// accountView is the safe representation of a principal: flattened for job seekers, as stored for employers.
func accountView(account *app.Account) (any, error) {
	if account.Employer != nil {
		return account.Employer, nil
	}
	if account.JobSeeker != nil {
		return flattenJobSeeker(*account.JobSeeker)
	}
	return nil, nil
}
