package domain

import (
	"time"

	"github.com/guregu/null/v5"
)

// ProfileBaseURL prefixes a username to form the public profile URL.
const ProfileBaseURL = "https://github.com/"

// UserProfile is the authenticated user's public GitHub account metadata.
type UserProfile struct {
	ID          int64       `json:"id"`
	Username    string      `json:"username"`
	DisplayName string      `json:"display_name"`
	Location    null.String `json:"location"`
	Company     null.String `json:"company"`
	BlogURL     null.String `json:"blog_url"`
	Email       null.String `json:"email"`
	CreatedAt   null.Time   `json:"created_at"`
}

// URL returns the public profile page of the user.
func (p UserProfile) URL() string {
	return ProfileBaseURL + p.Username
}

// Snapshot is a profile as it was fetched at a point in time.
type Snapshot struct {
	Profile   UserProfile `json:"profile"`
	FetchedAt time.Time   `json:"fetched_at"`
}
