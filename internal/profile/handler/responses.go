package handler

import (
	"github.com/shubham1542-dev/Dev-Connector/internal/profile/models"
)

// ProfileResponse is a profile with, on read endpoints, its owner.
type ProfileResponse struct {
	*models.Profile
	User *models.Owner `json:"user,omitempty"`
}

func FromView(v *models.View) ProfileResponse {
	owner := v.Owner
	return ProfileResponse{Profile: v.Profile, User: &owner}
}

func FromViews(views []*models.View) []ProfileResponse {
	out := make([]ProfileResponse, 0, len(views))
	for _, v := range views {
		out = append(out, FromView(v))
	}
	return out
}

func FromProfile(p *models.Profile) ProfileResponse {
	return ProfileResponse{Profile: p}
}
