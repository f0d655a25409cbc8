package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Officer is an account of the mock identity provider.
type Officer struct {
	bun.BaseModel `bun:"table:officers,alias:o"`
	ID            string     `bun:"id,pk" json:"id"`
	Email         string     `bun:"email,notnull,unique" json:"email"`
	PasswordHash  string     `bun:"password_hash" json:"-"`
	FullName      string     `bun:"full_name" json:"full_name"`
	PoliceID      string     `bun:"police_id" json:"police_id"`
	Rank          string     `bun:"rank" json:"rank"`
	Provider      string     `bun:"provider" json:"provider"`
	TokenVersion  int        `bun:"token_version,notnull,default:0" json:"token_version"`
	CreatedAt     time.Time  `bun:"created_at,notnull" json:"created_at"`
	LastLoginAt   *time.Time `bun:"last_login_at" json:"last_login_at"`
}

// Profile is what the dashboard header shows for the signed-in officer.
type Profile struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Rank     string `json:"rank"`
	PoliceID string `json:"police_id"`
	Provider string `json:"provider"`

	// AuthMethod is the sign-in method of the current session, set on /auth/me.
	AuthMethod string `json:"auth_method,omitempty"`
}

func (o *Officer) Profile() *Profile {
	return &Profile{
		ID:       o.ID,
		Email:    o.Email,
		FullName: o.FullName,
		Rank:     o.Rank,
		PoliceID: o.PoliceID,
		Provider: o.Provider,
	}
}
