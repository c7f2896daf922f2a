package models

import "time"

type User struct {
	BaseUUIDModel
	Username       string `gorm:"type:text;not null;uniqueIndex" json:"username"`
	Email          string `gorm:"type:text;not null;uniqueIndex" json:"email"`
	HashedPassword string `gorm:"type:text;not null"             json:"-"`
	Name           string `gorm:"type:text"                      json:"name"`
	ProfilePicture string `gorm:"type:text"                      json:"profilePicture"`
	Country        string `gorm:"type:text"                      json:"country"`

	LastLoginAt *time.Time `gorm:"type:timestamp" json:"lastLoginAt,omitempty"`
}

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ProfileUpdateRequest carries partial profile edits. Pointer fields
// distinguish "not provided" from "clear the value"; omitted fields are left
// untouched.
type ProfileUpdateRequest struct {
	Name           *string `json:"name,omitempty"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
	Country        *string `json:"country,omitempty"`
}

// UserProfile is the public shape of a user, without credentials.
type UserProfile struct {
	ID             string     `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	ProfilePicture string     `json:"profilePicture"`
	Country        string     `json:"country"`
	LastLoginAt    *time.Time `json:"lastLoginAt,omitempty"`
}

func (u *User) ToProfile() UserProfile {
	return UserProfile{
		ID:             u.ID.String(),
		Username:       u.Username,
		Email:          u.Email,
		Name:           u.Name,
		ProfilePicture: u.ProfilePicture,
		Country:        u.Country,
		LastLoginAt:    u.LastLoginAt,
	}
}

// DisplayIdentity resolves the name shown to a user who received one of this
// user's recommendations: username first, then full name, then "Anonymous".
func (u *User) DisplayIdentity() string {
	if u.Username != "" {
		return u.Username
	}
	if u.Name != "" {
		return u.Name
	}
	return "Anonymous"
}

// DisplayCountry falls back to an "Unknown" sentinel when the user never set
// a country on their profile.
func (u *User) DisplayCountry() string {
	if u.Country == "" {
		return "Unknown"
	}
	return u.Country
}
