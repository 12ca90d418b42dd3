package models

import "time"

type User struct {
	ID                     string
	Name                   string
	Email                  string
	PasswordHash           string
	ResetPasswordTokenHash *string
	ResetPasswordExpiresAt *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// PublicUser is the only user representation returned by the API.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}

// ClearResetToken drops any pending password reset.
func (u *User) ClearResetToken() {
	u.ResetPasswordTokenHash = nil
	u.ResetPasswordExpiresAt = nil
}
