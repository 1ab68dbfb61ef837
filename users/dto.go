// Package users implements the current-user profile endpoints.
package users

import "time"

// UserProfileResponse is the profile of the authenticated user.
type UserProfileResponse struct {
	ID        int       `json:"id" example:"1"`
	Username  string    `json:"username" example:"johndoe"`
	Email     string    `json:"email" example:"johndoe@example.com"`
	CreatedAt time.Time `json:"created_at" example:"2023-01-15T10:30:00Z"`
}

// UpdateUserProfileRequest is a partial profile update. A nil field is
// left unchanged.
type UpdateUserProfileRequest struct {
	Email *string `json:"email,omitempty" example:"john.doe.new@example.com"`
}
