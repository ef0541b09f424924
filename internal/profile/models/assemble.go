package models

import (
	devstrings "github.com/shubham1542-dev/Dev-Connector/pkg/platform/strings"
)

// ProfileInput carries the self-service profile fields. Empty strings mean
// "not provided".
type ProfileInput struct {
	Company        string
	Website        string
	Location       string
	Bio            string
	Status         string
	GitHubUsername string
	// Skills is a comma separated list.
	Skills string

	YouTube   string
	Twitter   string
	Facebook  string
	LinkedIn  string
	Instagram string
}

// Assemble applies in on top of existing. Provided fields overwrite, absent
// fields keep the stored value, and on create (existing == nil) absent fields
// stay empty. existing is never modified.
func Assemble(existing *Profile, in ProfileInput) *Profile {
	var out Profile
	if existing != nil {
		out = *existing
	}

	overwrite(&out.Company, in.Company)
	overwrite(&out.Website, in.Website)
	overwrite(&out.Location, in.Location)
	overwrite(&out.Bio, in.Bio)
	overwrite(&out.Status, in.Status)
	overwrite(&out.GitHubUsername, in.GitHubUsername)
	if skills := devstrings.SplitAndTrim(in.Skills, ","); len(skills) > 0 {
		out.Skills = skills
	}

	overwrite(&out.Social.YouTube, in.YouTube)
	overwrite(&out.Social.Twitter, in.Twitter)
	overwrite(&out.Social.Facebook, in.Facebook)
	overwrite(&out.Social.LinkedIn, in.LinkedIn)
	overwrite(&out.Social.Instagram, in.Instagram)
	return &out
}

func overwrite(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
