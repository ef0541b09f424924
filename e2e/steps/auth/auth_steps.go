package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cucumber/godog"
)

const defaultPassword = "secret123"

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	DoAnonymous(method, path string, body any) error
	StatusCode() int
	Body() []byte
	GetResponseField(field string) (any, error)
	Email(user string) string
	SetToken(user, token string)
	UseUser(user string) error
}

// RegisterSteps registers authentication-related step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &authSteps{tc: tc}

	ctx.Step(`^"([^"]*)" has registered$`, steps.hasRegistered)
	ctx.Step(`^"([^"]*)" registers again$`, steps.registerAgain)
	ctx.Step(`^"([^"]*)" logs in with password "([^"]*)"$`, steps.login)
	ctx.Step(`^I act as "([^"]*)"$`, steps.actAs)
}

type authSteps struct {
	tc TestContext
}

func (s *authSteps) register(user string) error {
	return s.tc.DoAnonymous(http.MethodPost, "/api/users", map[string]any{
		"name":     user,
		"email":    s.tc.Email(user),
		"password": defaultPassword,
	})
}

func (s *authSteps) hasRegistered(ctx context.Context, user string) error {
	if err := s.register(user); err != nil {
		return err
	}
	if s.tc.StatusCode() != http.StatusOK {
		return fmt.Errorf("register %s: status %d: %s", user, s.tc.StatusCode(), s.tc.Body())
	}
	return s.saveToken(user)
}

func (s *authSteps) registerAgain(ctx context.Context, user string) error {
	return s.register(user)
}

func (s *authSteps) login(ctx context.Context, user, password string) error {
	err := s.tc.DoAnonymous(http.MethodPost, "/api/auth", map[string]any{
		"email":    s.tc.Email(user),
		"password": password,
	})
	if err != nil {
		return err
	}
	if s.tc.StatusCode() == http.StatusOK {
		return s.saveToken(user)
	}
	return nil
}

func (s *authSteps) actAs(ctx context.Context, user string) error {
	return s.tc.UseUser(user)
}

func (s *authSteps) saveToken(user string) error {
	token, err := s.tc.GetResponseField("token")
	if err != nil {
		return err
	}
	s.tc.SetToken(user, token.(string))
	return nil
}
