package posts

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
	ResponseItems() ([]map[string]any, error)
	Save(key, value string)
}

// RegisterSteps registers post, like and comment step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &postSteps{tc: tc}

	ctx.Step(`^"([^"]*)" has posted "([^"]*)"$`, steps.hasPosted)
	ctx.Step(`^"([^"]*)" (likes|unlikes) the post$`, steps.toggleLike)
	ctx.Step(`^"([^"]*)" comments "([^"]*)" on the post$`, steps.comment)
	ctx.Step(`^"([^"]*)" deletes the post$`, steps.deletePost)
	ctx.Step(`^"([^"]*)" deletes the comment$`, steps.deleteComment)
	ctx.Step(`^I save the first comment id$`, steps.saveFirstComment)
}

type postSteps struct {
	tc TestContext
}

func (s *postSteps) as(user string, method, path string, body any) error {
	if err := s.tc.UseUser(user); err != nil {
		return err
	}
	return s.tc.Do(method, path, body)
}

func (s *postSteps) hasPosted(ctx context.Context, user, text string) error {
	if err := s.as(user, http.MethodPost, "/api/posts", map[string]any{"text": text}); err != nil {
		return err
	}
	if s.tc.StatusCode() != http.StatusOK {
		return fmt.Errorf("create post: status %d: %s", s.tc.StatusCode(), s.tc.Body())
	}
	postID, err := s.tc.GetResponseField("id")
	if err != nil {
		return err
	}
	s.tc.Save("post", fmt.Sprint(postID))
	return nil
}

func (s *postSteps) toggleLike(ctx context.Context, user, action string) error {
	path := "/api/posts/like/{post}"
	if action == "unlikes" {
		path = "/api/posts/unlike/{post}"
	}
	return s.as(user, http.MethodPut, path, nil)
}

func (s *postSteps) comment(ctx context.Context, user, text string) error {
	return s.as(user, http.MethodPost, "/api/posts/comment/{post}", map[string]any{"text": text})
}

func (s *postSteps) deletePost(ctx context.Context, user string) error {
	return s.as(user, http.MethodDelete, "/api/posts/{post}", nil)
}

func (s *postSteps) deleteComment(ctx context.Context, user string) error {
	return s.as(user, http.MethodDelete, "/api/posts/comment/{post}/{comment}", nil)
}

func (s *postSteps) saveFirstComment(ctx context.Context) error {
	items, err := s.tc.ResponseItems()
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("no comments in response")
	}
	s.tc.Save("comment", fmt.Sprint(items[0]["id"]))
	return nil
}
