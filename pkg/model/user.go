package model

import "time"

// User is an account record. Secrets and lifecycle bookkeeping never leave
// the service:  the JSON view is produced by Public().
type User struct {
	ID                   string     `bson:"_id,omitempty" json:"id,omitempty"`
	Name                 string     `bson:"name" json:"name"`
	Email                string     `bson:"email" json:"email"`
	Phone                string     `bson:"phone,omitempty" json:"phone,omitempty"`
	PasswordHash         string     `bson:"password_hash,omitempty" json:"-"`
	VerificationCode     string     `bson:"verification_code,omitempty" json:"-"`
	Verified             bool       `bson:"verified" json:"verified"`
	IsApproved           bool       `bson:"is_approved" json:"is_approved"`
	IsGoogleUser         bool       `bson:"is_google_user" json:"is_google_user"`
	Avatar               string     `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Department           string     `bson:"department,omitempty" json:"department,omitempty"`
	ResetPasswordToken   string     `bson:"reset_password_token,omitempty" json:"-"`
	ResetPasswordExpires *time.Time `bson:"reset_password_expires,omitempty" json:"-"`
	CreatedAt            time.Time  `bson:"created_at" json:"created_at"`
}

// PublicUser is the user summary handed to clients: profile fields plus
// lifecycle flags, nothing secret.
type PublicUser struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	Avatar       string `json:"avatar,omitempty"`
	Department   string `json:"department,omitempty"`
	Verified     bool   `json:"verified"`
	IsApproved   bool   `json:"is_approved"`
	IsGoogleUser bool   `json:"is_google_user"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		Avatar:       u.Avatar,
		Department:   u.Department,
		Verified:     u.Verified,
		IsApproved:   u.IsApproved,
		IsGoogleUser: u.IsGoogleUser,
	}
}

// Registration is the local sign-up payload.
type Registration struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// Credentials is the local login payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Verification is the email-code confirmation payload.
type Verification struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}

// ProfileUpdate carries owner-editable profile fields. Zero values mean
// "leave unchanged".
type ProfileUpdate struct {
	Name       string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Department string `json:"department,omitempty" validate:"omitempty,max=100"`
}

// PasswordReset is the reset-completion payload.
type PasswordReset struct {
	Password string `json:"password" validate:"required,min=8,max=128"`
}
