package models

import (
	"time"

	id "github.com/shubham1542-dev/Dev-Connector/pkg/domain"
)

// Profile is the single public profile owned by an account.
type Profile struct {
	ID             id.ProfileID `json:"id"`
	AccountID      id.AccountID `json:"account_id"`
	Company        string       `json:"company,omitempty"`
	Website        string       `json:"website,omitempty"`
	Location       string       `json:"location,omitempty"`
	Bio            string       `json:"bio,omitempty"`
	Status         string       `json:"status"`
	GitHubUsername string       `json:"github_username,omitempty"`
	Skills         []string     `json:"skills"`
	Social         Social       `json:"social"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func (p *Profile) OwnerID() id.AccountID { return p.AccountID }

type Social struct {
	YouTube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// Experience is a job held by the profile owner. Newest entries come first.
type Experience struct {
	ID          id.EntryID `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

func (e Experience) EntryID() id.EntryID { return e.ID }

// Education is a course of study. Newest entries come first.
type Education struct {
	ID           id.EntryID `json:"id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"field_of_study"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

func (e Education) EntryID() id.EntryID { return e.ID }

// Owner is the account summary shown alongside a profile.
type Owner struct {
	AccountID id.AccountID `json:"id"`
	Name      string       `json:"name"`
	AvatarURL string       `json:"avatar_url"`
}

// View is a profile together with its owner's public details.
type View struct {
	Profile *Profile
	Owner   Owner
}
