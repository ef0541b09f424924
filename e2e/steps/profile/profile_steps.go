package profile

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Do(method, path string, body any) error
	UseUser(user string) error
	StatusCode() int
	Body() []byte
	GetResponseField(field string) (any, error)
	Save(key, value string)
}

// RegisterSteps registers profile-related step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &profileSteps{tc: tc}

	ctx.Step(`^"([^"]*)" has a profile with status "([^"]*)" and skills "([^"]*)"$`, steps.hasProfile)
	ctx.Step(`^"([^"]*)" adds experience "([^"]*)" at "([^"]*)"$`, steps.addExperience)
	ctx.Step(`^I save the first experience id$`, steps.saveFirstExperience)
	ctx.Step(`^the profile should list (\d+) experience entr(?:y|ies)$`, steps.experienceCount)
	ctx.Step(`^the profile skills should be "([^"]*)"$`, steps.skillsShouldBe)
}

type profileSteps struct {
	tc TestContext
}

func (s *profileSteps) hasProfile(ctx context.Context, user, status, skills string) error {
	if err := s.tc.UseUser(user); err != nil {
		return err
	}
	if err := s.tc.Do(http.MethodPost, "/api/profile", map[string]any{"status": status, "skills": skills}); err != nil {
		return err
	}
	if s.tc.StatusCode() != http.StatusOK {
		return fmt.Errorf("create profile: status %d: %s", s.tc.StatusCode(), s.tc.Body())
	}
	return nil
}

func (s *profileSteps) addExperience(ctx context.Context, user, title, company string) error {
	if err := s.tc.UseUser(user); err != nil {
		return err
	}
	return s.tc.Do(http.MethodPut, "/api/profile/experience", map[string]any{
		"title":   title,
		"company": company,
		"from":    "2020-01-01",
		"current": true,
	})
}

func (s *profileSteps) entries(field string) ([]any, error) {
	v, err := s.tc.GetResponseField(field)
	if err != nil {
		return nil, err
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s is not a list: %s", field, s.tc.Body())
	}
	return list, nil
}

func (s *profileSteps) saveFirstExperience(ctx context.Context) error {
	list, err := s.entries("experience")
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return fmt.Errorf("profile has no experience entries")
	}
	entry, _ := list[0].(map[string]any)
	s.tc.Save("experience", fmt.Sprint(entry["id"]))
	return nil
}

func (s *profileSteps) experienceCount(ctx context.Context, n int) error {
	list, err := s.entries("experience")
	if err != nil {
		return err
	}
	if len(list) != n {
		return fmt.Errorf("expected %d experience entries, got %d", n, len(list))
	}
	return nil
}

func (s *profileSteps) skillsShouldBe(ctx context.Context, expected string) error {
	list, err := s.entries("skills")
	if err != nil {
		return err
	}
	if got := fmt.Sprint(list); got != expected {
		return fmt.Errorf("expected skills %s, got %s", expected, got)
	}
	return nil
}
