package common

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Do(method, path string, body any) error
	DoAnonymous(method, path string, body any) error
	StatusCode() int
	Body() []byte
	GetResponseField(field string) (any, error)
	ResponseItems() ([]map[string]any, error)
}

// RegisterSteps registers generic request and assertion steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^I (GET|DELETE) "([^"]*)"$`, steps.request)
	ctx.Step(`^I (GET|DELETE) "([^"]*)" without a token$`, steps.anonymousRequest)

	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, steps.fieldShouldBe)
	ctx.Step(`^the error should be "([^"]*)"$`, steps.errorShouldBe)
	ctx.Step(`^the error description should be "([^"]*)"$`, steps.errorDescriptionShouldBe)
	ctx.Step(`^the response should not mention "([^"]*)"$`, steps.responseShouldNotMention)
	ctx.Step(`^the response should list (\d+) items?$`, steps.responseShouldList)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) request(ctx context.Context, method, path string) error {
	return s.tc.Do(method, path, nil)
}

func (s *commonSteps) anonymousRequest(ctx context.Context, method, path string) error {
	return s.tc.DoAnonymous(method, path, nil)
}

func (s *commonSteps) statusShouldBe(ctx context.Context, status int) error {
	if s.tc.StatusCode() != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, s.tc.StatusCode(), s.tc.Body())
	}
	return nil
}

func (s *commonSteps) fieldShouldBe(ctx context.Context, field, expected string) error {
	v, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if fmt.Sprint(v) != expected {
		return fmt.Errorf("expected %s=%q, got %q", field, expected, fmt.Sprint(v))
	}
	return nil
}

func (s *commonSteps) errorShouldBe(ctx context.Context, code string) error {
	return s.fieldShouldBe(ctx, "error", code)
}

func (s *commonSteps) errorDescriptionShouldBe(ctx context.Context, desc string) error {
	return s.fieldShouldBe(ctx, "error_description", desc)
}

func (s *commonSteps) responseShouldNotMention(ctx context.Context, text string) error {
	if strings.Contains(string(s.tc.Body()), text) {
		return fmt.Errorf("response unexpectedly mentions %q: %s", text, s.tc.Body())
	}
	return nil
}

func (s *commonSteps) responseShouldList(ctx context.Context, n int) error {
	items, err := s.tc.ResponseItems()
	if err != nil {
		return err
	}
	if len(items) != n {
		return fmt.Errorf("expected %d items, got %d", n, len(items))
	}
	return nil
}
