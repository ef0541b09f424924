package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const tokenHeader = "x-api-key"

// TestContext carries HTTP state across the steps of one scenario.
type TestContext struct {
	baseURL string
	client  *http.Client
	runID   string

	tokens  map[string]string
	current string
	saved   map[string]string

	status int
	body   []byte
}

func NewTestContext(baseURL string) *TestContext {
	tc := &TestContext{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	tc.Reset()
	return tc
}

// Reset clears per-scenario state. Emails get a fresh suffix so scenarios can
// run against a shared server.
func (tc *TestContext) Reset() {
	tc.runID = fmt.Sprintf("%d", time.Now().UnixNano())
	tc.tokens = map[string]string{}
	tc.current = ""
	tc.saved = map[string]string{}
	tc.status = 0
	tc.body = nil
}

func (tc *TestContext) Email(user string) string {
	return fmt.Sprintf("%s+%s@example.com", user, tc.runID)
}

func (tc *TestContext) SetToken(user, token string) {
	tc.tokens[user] = token
	tc.current = user
}

func (tc *TestContext) UseUser(user string) error {
	if _, ok := tc.tokens[user]; !ok {
		return fmt.Errorf("user %q has not signed in", user)
	}
	tc.current = user
	return nil
}

func (tc *TestContext) Save(key, value string) { tc.saved[key] = value }

func (tc *TestContext) Saved(key string) (string, error) {
	v, ok := tc.saved[key]
	if !ok {
		return "", fmt.Errorf("nothing saved under %q", key)
	}
	return v, nil
}

// Expand replaces {key} placeholders in path with saved values.
func (tc *TestContext) Expand(path string) string {
	for k, v := range tc.saved {
		path = strings.ReplaceAll(path, "{"+k+"}", v)
	}
	return path
}

// Do sends a request as the current user.
func (tc *TestContext) Do(method, path string, body any) error {
	return tc.DoWithToken(method, path, tc.tokens[tc.current], body)
}

func (tc *TestContext) DoAnonymous(method, path string, body any) error {
	return tc.DoWithToken(method, path, "", body)
}

func (tc *TestContext) DoWithToken(method, path, token string, body any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, tc.baseURL+tc.Expand(path), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(tokenHeader, token)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	tc.status = resp.StatusCode
	tc.body, err = io.ReadAll(resp.Body)
	return err
}

func (tc *TestContext) StatusCode() int { return tc.status }
func (tc *TestContext) Body() []byte    { return tc.body }

// GetResponseField reads a top-level field of a JSON object response.
func (tc *TestContext) GetResponseField(field string) (any, error) {
	var obj map[string]any
	if err := json.Unmarshal(tc.body, &obj); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w", err)
	}
	v, ok := obj[field]
	if !ok {
		return nil, fmt.Errorf("response has no field %q: %s", field, tc.body)
	}
	return v, nil
}

// ResponseItems decodes a JSON array response.
func (tc *TestContext) ResponseItems() ([]map[string]any, error) {
	var items []map[string]any
	if err := json.Unmarshal(tc.body, &items); err != nil {
		return nil, fmt.Errorf("response is not a JSON array: %w", err)
	}
	return items, nil
}
