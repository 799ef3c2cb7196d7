package dto

import (
	"github.com/taskboard-api/models"
)

// UserSummary is the public, denormalized view of a user
type UserSummary struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ProfileSummary is the role/picture part of a profile
type ProfileSummary struct {
	Role           models.Role `json:"role"`
	ProfilePicture *string     `json:"profile_picture"`
}

// CurrentUserResponse is returned by the "me" endpoint
type CurrentUserResponse struct {
	UserSummary
	Profile *ProfileSummary `json:"profile"`
}

// ProfileResponse is returned after a profile update
type ProfileResponse struct {
	ID             uint        `json:"id"`
	User           UserSummary `json:"user"`
	Role           models.Role `json:"role"`
	ProfilePicture *string     `json:"profile_picture"`
}

// ProfileUpdate holds the optional multipart fields of a profile update
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
}

// NewUserSummary maps a user onto its summary
func NewUserSummary(u *models.User) UserSummary {
	return UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// NewUserSummaries maps a slice of users
func NewUserSummaries(users []models.User) []UserSummary {
	out := make([]UserSummary, 0, len(users))
	for i := range users {
		out = append(out, NewUserSummary(&users[i]))
	}
	return out
}

// NewCurrentUserResponse maps a user and its optional profile
func NewCurrentUserResponse(u *models.User, p *models.UserProfile, mediaURL func(string) string) CurrentUserResponse {
	resp := CurrentUserResponse{UserSummary: NewUserSummary(u)}
	if p != nil {
		resp.Profile = &ProfileSummary{Role: p.Role, ProfilePicture: pictureURL(p.ProfilePicture, mediaURL)}
	}
	return resp
}

// NewProfileResponse maps a profile and its user
func NewProfileResponse(u *models.User, p *models.UserProfile, mediaURL func(string) string) ProfileResponse {
	return ProfileResponse{
		ID:             p.ID,
		User:           NewUserSummary(u),
		Role:           p.Role,
		ProfilePicture: pictureURL(p.ProfilePicture, mediaURL),
	}
}

func pictureURL(path *string, mediaURL func(string) string) *string {
	if path == nil || *path == "" {
		return nil
	}
	url := *path
	if mediaURL != nil {
		url = mediaURL(*path)
	}
	return &url
}
