package handler

import (
	"net/url"
	"strings"
	"time"

	"github.com/shubham1542-dev/Dev-Connector/internal/profile/models"
	dErrors "github.com/shubham1542-dev/Dev-Connector/pkg/domain-errors"
)

const dateLayout = "2006-01-02"

// ProfileRequest is the body of POST /api/profile. Skills is a comma
// separated list.
type ProfileRequest struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status"`
	GitHubUsername string `json:"github_username"`
	Skills         string `json:"skills"`
	YouTube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	LinkedIn       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

func (r *ProfileRequest) Normalize() {
	for _, f := range []*string{
		&r.Company, &r.Website, &r.Location, &r.Bio, &r.Status, &r.GitHubUsername, &r.Skills,
		&r.YouTube, &r.Twitter, &r.Facebook, &r.LinkedIn, &r.Instagram,
	} {
		*f = strings.TrimSpace(*f)
	}
}

func (r *ProfileRequest) Validate() error {
	if r.Status == "" {
		return dErrors.New(dErrors.CodeValidation, "status is required")
	}
	if r.Skills == "" {
		return dErrors.New(dErrors.CodeValidation, "skills is required")
	}
	if len(r.Bio) > 2000 {
		return dErrors.New(dErrors.CodeValidation, "bio must be at most 2000 characters")
	}
	for _, link := range []string{r.Website, r.YouTube, r.Twitter, r.Facebook, r.LinkedIn, r.Instagram} {
		if link == "" {
			continue
		}
		if u, err := url.Parse(link); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return dErrors.New(dErrors.CodeValidation, "links must be absolute http(s) URLs")
		}
	}
	return nil
}

func (r *ProfileRequest) Input() models.ProfileInput {
	return models.ProfileInput{
		Company:        r.Company,
		Website:        r.Website,
		Location:       r.Location,
		Bio:            r.Bio,
		Status:         r.Status,
		GitHubUsername: r.GitHubUsername,
		Skills:         r.Skills,
		YouTube:        r.YouTube,
		Twitter:        r.Twitter,
		Facebook:       r.Facebook,
		LinkedIn:       r.LinkedIn,
		Instagram:      r.Instagram,
	}
}

// period is the date range shared by experience and education entries.
type period struct {
	from time.Time
	to   *time.Time
}

func parsePeriod(from, to string, current bool) (period, error) {
	if from == "" {
		return period{}, dErrors.New(dErrors.CodeValidation, "from date is required")
	}
	start, err := time.Parse(dateLayout, from)
	if err != nil {
		return period{}, dErrors.New(dErrors.CodeValidation, "from must be a date like 2006-01-02")
	}
	p := period{from: start}
	if to == "" {
		return p, nil
	}
	if current {
		return period{}, dErrors.New(dErrors.CodeValidation, "to must be empty for a current entry")
	}
	end, err := time.Parse(dateLayout, to)
	if err != nil {
		return period{}, dErrors.New(dErrors.CodeValidation, "to must be a date like 2006-01-02")
	}
	if end.Before(start) {
		return period{}, dErrors.New(dErrors.CodeValidation, "to must not be before from")
	}
	p.to = &end
	return p, nil
}

// ExperienceRequest is the body of PUT /api/profile/experience.
type ExperienceRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`

	period period
}

func (r *ExperienceRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Company = strings.TrimSpace(r.Company)
	r.Location = strings.TrimSpace(r.Location)
	r.From = strings.TrimSpace(r.From)
	r.To = strings.TrimSpace(r.To)
	r.Description = strings.TrimSpace(r.Description)
}

func (r *ExperienceRequest) Validate() error {
	if r.Title == "" {
		return dErrors.New(dErrors.CodeValidation, "title is required")
	}
	if r.Company == "" {
		return dErrors.New(dErrors.CodeValidation, "company is required")
	}
	p, err := parsePeriod(r.From, r.To, r.Current)
	if err != nil {
		return err
	}
	r.period = p
	return nil
}

func (r *ExperienceRequest) Entry() models.Experience {
	return models.Experience{
		Title:       r.Title,
		Company:     r.Company,
		Location:    r.Location,
		From:        r.period.from,
		To:          r.period.to,
		Current:     r.Current,
		Description: r.Description,
	}
}

// EducationRequest is the body of PUT /api/profile/education.
type EducationRequest struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"field_of_study"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`

	period period
}

func (r *EducationRequest) Normalize() {
	r.School = strings.TrimSpace(r.School)
	r.Degree = strings.TrimSpace(r.Degree)
	r.FieldOfStudy = strings.TrimSpace(r.FieldOfStudy)
	r.From = strings.TrimSpace(r.From)
	r.To = strings.TrimSpace(r.To)
	r.Description = strings.TrimSpace(r.Description)
}

func (r *EducationRequest) Validate() error {
	if r.School == "" {
		return dErrors.New(dErrors.CodeValidation, "school is required")
	}
	if r.Degree == "" {
		return dErrors.New(dErrors.CodeValidation, "degree is required")
	}
	if r.FieldOfStudy == "" {
		return dErrors.New(dErrors.CodeValidation, "field of study is required")
	}
	p, err := parsePeriod(r.From, r.To, r.Current)
	if err != nil {
		return err
	}
	r.period = p
	return nil
}

func (r *EducationRequest) Entry() models.Education {
	return models.Education{
		School:       r.School,
		Degree:       r.Degree,
		FieldOfStudy: r.FieldOfStudy,
		From:         r.period.from,
		To:           r.period.to,
		Current:      r.Current,
		Description:  r.Description,
	}
}
