package e2e

import (
	"github.com/cucumber/godog"

	"github.com/shubham1542-dev/Dev-Connector/e2e/steps/auth"
	"github.com/shubham1542-dev/Dev-Connector/e2e/steps/common"
	"github.com/shubham1542-dev/Dev-Connector/e2e/steps/posts"
	"github.com/shubham1542-dev/Dev-Connector/e2e/steps/profile"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Generic requests and response assertions
	common.RegisterSteps(ctx, tc)

	// Registration, login, account deletion
	auth.RegisterSteps(ctx, tc)

	profile.RegisterSteps(ctx, tc)
	posts.RegisterSteps(ctx, tc)
}
